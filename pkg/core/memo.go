package core

import (
	werrors "github.com/go-weft/weft/pkg/errors"
)

// UseMemo binds a memoized computation to the current ledger position.
// compute runs on the first pass and again whenever deps differs from the
// previous pass's deps under the configured comparator. A nil deps list means
// "recompute every pass"; an empty list means "compute once". compute must be
// a pure function of its dependencies from the caller's perspective: the
// cache only controls when it is invoked, it cannot detect impurity.
func UseMemo[T any](ctx *BuildContext, compute func() T, deps Deps) T {
	cell := ctx.inst.ledger.next(slotMemo, ctx.inst)
	if cell.initialized && deps != nil && cell.deps != nil && depsEqual(ctx.rt.comparator, deps, cell.deps) {
		cached := cell.value.(T)
		if DebugMode {
			// Shadow recompute: equal deps must reproduce the cached
			// value, otherwise the dependency list omits something the
			// computation reads.
			if fresh := compute(); !ctx.rt.comparator(fresh, cell.value) {
				werrors.ReportWarning(&werrors.StaleClosureWarning{
					Component: ctx.inst.componentName(),
					Slot:      ctx.inst.ledger.cursor - 1,
				})
				ctx.rt.stats.add(&ctx.rt.stats.staleWarnings)
			}
		}
		return cached
	}
	value := compute()
	cell.value = value
	cell.deps = deps
	cell.initialized = true
	return value
}

// Ref is mutable per-instance storage that survives passes without
// triggering re-renders. Mutating Current is invisible to the scheduler.
type Ref[T any] struct {
	Current T
}

// UseRef binds a ref cell to the current ledger position. The same *Ref is
// returned on every pass of the instance.
func UseRef[T any](ctx *BuildContext, initial T) *Ref[T] {
	cell := ctx.inst.ledger.next(slotRef, ctx.inst)
	if !cell.initialized {
		cell.value = &Ref[T]{Current: initial}
		cell.initialized = true
	}
	return cell.value.(*Ref[T])
}
