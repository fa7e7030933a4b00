package core

import (
	"reflect"
	"slices"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	werrors "github.com/go-weft/weft/pkg/errors"
)

// DefaultMaxFlushIterations bounds how many drain cycles one Flush call may
// take before it gives up with a not-converging error.
const DefaultMaxFlushIterations = 25

// Runtime is the render driver. It owns the render queue, binds instances to
// their passes, commits produced views through the Renderer, and runs the
// effect scheduler. Exactly one pass is active at a time; the runtime assumes
// the cooperative single-threaded model and never re-enters an instance.
type Runtime struct {
	renderer Renderer

	comparator         func(a, b any) bool
	effectOrder        EffectOrder
	maxFlushIterations int

	mu     sync.Mutex
	queue  []*Instance
	queued mapset.Set[*Instance]

	pendingEffects []effectEntry

	stats Stats

	// OnNeedsFlush is called when the render queue transitions work in,
	// signalling the host that a flush should be scheduled. Necessary for
	// on-demand scheduling where the host loop sleeps until woken.
	OnNeedsFlush func()
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithComparator replaces the equality comparator used for state gating,
// memo and effect dependencies, props, and provided channel values.
func WithComparator(cmp func(a, b any) bool) Option {
	return func(r *Runtime) {
		if cmp != nil {
			r.comparator = cmp
		}
	}
}

// WithEffectOrder selects cross-instance effect ordering.
func WithEffectOrder(order EffectOrder) Option {
	return func(r *Runtime) { r.effectOrder = order }
}

// WithMaxFlushIterations replaces the flush convergence bound.
func WithMaxFlushIterations(n int) Option {
	return func(r *Runtime) {
		if n > 0 {
			r.maxFlushIterations = n
		}
	}
}

// NewRuntime creates a runtime committing through renderer. A nil renderer is
// allowed; views are then retained on instances but not delivered anywhere.
func NewRuntime(renderer Renderer, opts ...Option) *Runtime {
	r := &Runtime{
		renderer:           renderer,
		comparator:         ShallowEqual,
		maxFlushIterations: DefaultMaxFlushIterations,
		queued:             mapset.NewThreadUnsafeSet[*Instance](),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Mount creates a root instance for component, renders its subtree, commits
// the produced views, and runs the initial effects. State updates issued by
// those effects are queued for the next Flush.
func (r *Runtime) Mount(component Component, props any) *Instance {
	root := &Instance{
		rt:        r,
		component: component,
		compPtr:   reflect.ValueOf(component).Pointer(),
		props:     props,
		mounted:   true,
		dirty:     true,
	}
	r.stats.add(&r.stats.mounts)
	r.renderPass(root)
	r.runEffects()
	return root
}

// Unmount tears down inst and its subtree: children depth-first before the
// instance's own cleanups, every stored cleanup run synchronously, pending
// effect executions withdrawn. The instance is detached from its parent.
func (r *Runtime) Unmount(inst *Instance) {
	if inst == nil || !inst.mounted {
		return
	}
	parent := inst.parent
	r.unmount(inst)
	if parent != nil {
		parent.children = slices.DeleteFunc(parent.children, func(c *Instance) bool {
			return c == inst
		})
	}
}

func (r *Runtime) unmount(inst *Instance) {
	inst.mounted = false
	for _, child := range inst.children {
		r.unmount(child)
	}
	inst.children = nil
	inst.ledger.runCleanups(r)
	for _, s := range inst.ledger.slots {
		if s.tag == slotContext && s.provider != nil {
			s.provider.removeChannelDependent(inst)
		}
	}
	inst.chanDeps = nil
	inst.provided = nil
	if r.renderer != nil {
		r.renderer.Release(inst)
	}
	inst.lastView = nil
	inst.hasView = false
	r.stats.add(&r.stats.unmounts)
}

// Flush drains the render queue. Each cycle renders the instances dirty at
// its start in depth order, commits their views, then runs that cycle's
// effects; updates enqueued during the cycle are deferred to the next one.
// Flushing an empty queue is a no-op. Failing to drain within the configured
// bound returns a *NotConvergingError (also reported) and leaves the
// remaining dirty instances queued.
func (r *Runtime) Flush() error {
	for iteration := 0; r.NeedsWork(); iteration++ {
		if iteration >= r.maxFlushIterations {
			err := &werrors.NotConvergingError{Iterations: r.maxFlushIterations}
			werrors.Report(&werrors.WeftError{
				Op:        "core.flush",
				Kind:      werrors.KindNotConverging,
				Err:       err,
				Timestamp: time.Now(),
			})
			return err
		}
		for _, inst := range r.takeDirty() {
			r.renderPass(inst)
		}
		r.runEffects()
		r.stats.add(&r.stats.flushCycles)
	}
	return nil
}

// NeedsWork reports whether dirty instances are queued.
func (r *Runtime) NeedsWork() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queue) > 0
}

// markDirty adds inst to the render queue. Idempotent per flush cycle.
func (r *Runtime) markDirty(inst *Instance) {
	if inst == nil || !inst.mounted || inst.dirty {
		return
	}
	inst.dirty = true
	r.mu.Lock()
	if r.queued.Add(inst) {
		r.queue = append(r.queue, inst)
	}
	r.mu.Unlock()
	if r.OnNeedsFlush != nil {
		r.OnNeedsFlush()
	}
}

// takeDirty snapshots and clears the queue, ordered parents before children.
func (r *Runtime) takeDirty() []*Instance {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queue) == 0 {
		return nil
	}
	batch := r.queue
	r.queue = nil
	r.queued.Clear()
	slices.SortFunc(batch, func(a, b *Instance) int {
		return a.depth - b.depth
	})
	return batch
}

// renderPass runs one invocation pass for inst: commit queued state, invoke
// the component with the ledger bound, commit the produced view, reconcile
// declared children. A failed pass keeps the previously committed view,
// keeps the existing children, and discards effects registered during it.
func (r *Runtime) renderPass(inst *Instance) {
	if !inst.dirty || !inst.mounted {
		return
	}
	inst.dirty = false
	commitPendingState(inst)
	ctx := &BuildContext{inst: inst, rt: r}
	mark := len(r.pendingEffects)
	view, ok := r.safePass(ctx)
	if !ok {
		r.pendingEffects = r.pendingEffects[:mark]
		inst.ledger.abortPass()
		return
	}
	r.stats.add(&r.stats.passes)
	inst.lastView = view
	inst.hasView = true
	if r.renderer != nil {
		r.renderer.Commit(inst, view)
		r.stats.add(&r.stats.commits)
	}
	r.reconcileChildren(inst, ctx.decls)
}

// safePass executes the component function with panic recovery. Structural
// violations and recovered panics abort only this instance's pass; they are
// reported through the error handler, never rethrown into other instances.
func (r *Runtime) safePass(ctx *BuildContext) (view View, ok bool) {
	inst := ctx.inst
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		ok = false
		switch e := rec.(type) {
		case *werrors.SlotOrderError:
			r.stats.add(&r.stats.slotViolations)
			werrors.Report(&werrors.WeftError{
				Op:         "core.pass",
				Kind:       werrors.KindSlotOrder,
				Component:  inst.componentName(),
				Err:        e,
				StackTrace: werrors.CaptureStack(),
				Timestamp:  time.Now(),
			})
		case *werrors.MissingProviderError:
			werrors.Report(&werrors.WeftError{
				Op:         "core.pass",
				Kind:       werrors.KindMissingProvider,
				Component:  inst.componentName(),
				Err:        e,
				StackTrace: werrors.CaptureStack(),
				Timestamp:  time.Now(),
			})
		default:
			r.stats.add(&r.stats.passPanics)
			werrors.ReportPassError(&werrors.PassError{
				Component:  inst.componentName(),
				Recovered:  rec,
				StackTrace: werrors.CaptureStack(),
				Timestamp:  time.Now(),
			})
		}
	}()
	inst.ledger.beginPass()
	view = inst.component(ctx)
	inst.ledger.endPass(inst)
	return view, true
}

// reconcileChildren matches the children declared during a pass against the
// existing child instances by position, component identity, and key.
func (r *Runtime) reconcileChildren(inst *Instance, decls []childDecl) {
	updated := make([]*Instance, 0, len(decls))
	for index, decl := range decls {
		var existing *Instance
		if index < len(inst.children) {
			existing = inst.children[index]
		}
		updated = append(updated, r.updateChild(existing, decl, inst))
	}
	for i := len(decls); i < len(inst.children); i++ {
		r.unmount(inst.children[i])
	}
	inst.children = updated
}

// updateChild reuses a matching instance, re-rendering it only when props
// changed under the comparator, or replaces it with a fresh mount.
func (r *Runtime) updateChild(existing *Instance, decl childDecl, parent *Instance) *Instance {
	if existing != nil && existing.compPtr == decl.compPtr && equalKey(existing.key, decl.key) {
		prevProps := existing.props
		existing.component = decl.component
		existing.props = decl.props
		if !r.comparator(prevProps, decl.props) {
			existing.dirty = true
			r.renderPass(existing)
		}
		return existing
	}
	if existing != nil {
		r.unmount(existing)
	}
	child := &Instance{
		rt:        r,
		component: decl.component,
		compPtr:   decl.compPtr,
		props:     decl.props,
		key:       decl.key,
		parent:    parent,
		depth:     parent.depth + 1,
		mounted:   true,
		dirty:     true,
	}
	r.stats.add(&r.stats.mounts)
	r.renderPass(child)
	return child
}
