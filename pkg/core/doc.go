// Package core provides the component runtime: instances, hooks, and the
// render driver.
//
// A component is a plain function that is re-invoked to produce a view
// description. Between invocations the runtime keeps the component's durable
// state in an ordered slot ledger owned by its Instance, so hooks must be
// called unconditionally and in the same order on every pass.
//
// # Core Types
//
// Component is a pure mapping from its BuildContext (and props) to a View.
// Views are opaque to the runtime and handed to the Renderer collaborator.
//
// Instance is the instantiation of a Component at a particular location in
// the tree. Instances manage slot storage, identity, and lifecycle.
//
// # Hooks
//
// UseState, UseMemo, UseEffect, UseRef, and UseChannel bind durable storage
// to the instance whose pass is in flight:
//
//	func Counter(ctx *core.BuildContext) core.View {
//	    count, setCount := core.UseState(ctx, 0)
//	    label := core.UseMemo(ctx, func() string {
//	        return fmt.Sprintf("count: %d", count)
//	    }, core.Deps{count})
//	    core.UseEffect(ctx, func() func() {
//	        log.Println("committed", count)
//	        return nil
//	    }, core.Deps{count})
//	    _ = setCount
//	    return label
//	}
//
// # Scheduling
//
// State updates never re-render synchronously; they mark the owning instance
// dirty and enqueue it. Runtime.Flush drains the queue, commits each produced
// view through the Renderer, then runs pending effects. Updates issued during
// a flush cycle are deferred to the next cycle, bounded by the configured
// iteration limit.
//
// # Constructor Conventions
//
// Long-lived, mutable objects use NewX() constructors returning pointers
// (NewRuntime, NewNotifier, NewChannel). Per-pass values (hook results,
// handles) are plain values created inside the pass.
package core
