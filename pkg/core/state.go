package core

// StateHandle updates a state cell. Set and Update never re-render
// synchronously; they queue work and mark the owning instance dirty when the
// coalesced value differs from the committed one.
//
// StateHandle is NOT thread-safe beyond the render queue itself. Like the
// rest of the runtime it assumes the cooperative single-threaded model; to
// update from a background goroutine, route through the host's dispatch
// mechanism.
type StateHandle[T any] struct {
	rt   *Runtime
	inst *Instance
	cell *slot
}

// UseState binds a state cell to the current ledger position. It returns the
// value as of the start of this pass and a handle for queuing updates;
// updates queued during the pass are never visible to reads in the same pass.
func UseState[T any](ctx *BuildContext, initial T) (T, *StateHandle[T]) {
	cell := ctx.inst.ledger.next(slotState, ctx.inst)
	if !cell.initialized {
		cell.value = initial
		cell.initialized = true
	}
	return cell.value.(T), &StateHandle[T]{rt: ctx.rt, inst: ctx.inst, cell: cell}
}

// Set queues a replacement value.
func (h *StateHandle[T]) Set(next T) {
	h.rt.queueUpdate(h.inst, h.cell, func(any) any { return next })
}

// Update queues a functional update. The function receives the most recently
// queued value (or the committed value if none is queued), so multiple
// updates within one handler turn chain in call order.
func (h *StateHandle[T]) Update(fn func(T) T) {
	h.rt.queueUpdate(h.inst, h.cell, func(prev any) any { return fn(prev.(T)) })
}

// queueUpdate applies the updater to the latest queued-or-committed value,
// coalesces it into the cell's pending value, and dirties the instance when
// the result is unequal to the committed value. Calling this during a pass
// only enqueues work.
func (r *Runtime) queueUpdate(inst *Instance, cell *slot, apply func(any) any) {
	base := cell.value
	if cell.hasPending {
		base = cell.pending
	}
	next := apply(base)
	cell.pending = next
	cell.hasPending = true
	if !r.comparator(next, cell.value) {
		r.markDirty(inst)
	}
}

// commitPendingState moves queued values into the committed position so the
// upcoming pass reads them. Called once per instance at the start of each of
// its passes.
func commitPendingState(inst *Instance) {
	for _, s := range inst.ledger.slots {
		if s.tag == slotState && s.hasPending {
			s.value = s.pending
			s.pending = nil
			s.hasPending = false
		}
	}
}
