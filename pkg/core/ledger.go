package core

import (
	werrors "github.com/go-weft/weft/pkg/errors"
)

// slotTag identifies the hook variant stored in a ledger position.
type slotTag uint8

const (
	slotState slotTag = iota + 1
	slotMemo
	slotEffect
	slotRef
	slotContext
)

func (t slotTag) String() string {
	switch t {
	case slotState:
		return "state"
	case slotMemo:
		return "memo"
	case slotEffect:
		return "effect"
	case slotRef:
		return "ref"
	case slotContext:
		return "context"
	default:
		return "invalid"
	}
}

// slot is one ordered entry in an instance's ledger. Which fields are live
// depends on the tag:
//
//	state:   value (committed), pending/hasPending (queued update)
//	memo:    value (cached result), deps, initialized
//	effect:  deps, initialized, cleanup
//	ref:     value (the *Ref cell)
//	context: channel, provider, observed
type slot struct {
	tag slotTag

	value       any
	pending     any
	hasPending  bool
	deps        Deps
	initialized bool
	cleanup     func()

	channel  any
	provider *Instance
	observed any
}

// ledger is the per-instance ordered slot arena. Slot identity is positional:
// the Nth hook call of every pass resolves to the Nth slot. Allocation is only
// legal while the baseline (first completed pass) is being established; after
// that any change in count or tag order is a structural violation.
type ledger struct {
	slots    []*slot
	cursor   int
	baseline bool // a pass has completed; shape is now fixed
}

func (l *ledger) beginPass() {
	l.cursor = 0
}

// next returns the slot at the cursor, allocating it when the baseline is not
// yet established. A tag mismatch or growth past the baseline panics with a
// *SlotOrderError; the driver recovers it and aborts the pass.
func (l *ledger) next(tag slotTag, inst *Instance) *slot {
	if l.cursor < len(l.slots) {
		s := l.slots[l.cursor]
		if s.tag != tag {
			panic(&werrors.SlotOrderError{
				Component: inst.componentName(),
				Index:     l.cursor,
				Want:      s.tag.String(),
				Got:       tag.String(),
				Detail:    l.debugDiff(tag),
			})
		}
		l.cursor++
		return s
	}
	if l.baseline {
		panic(&werrors.SlotOrderError{
			Component: inst.componentName(),
			Index:     l.cursor,
			Got:       tag.String(),
			Detail:    l.debugDiff(tag),
		})
	}
	s := &slot{tag: tag}
	l.slots = append(l.slots, s)
	l.cursor++
	return s
}

// endPass asserts the pass consumed exactly the baseline slot count. Skipped
// (and establishing the baseline) on the first completed pass.
func (l *ledger) endPass(inst *Instance) {
	if !l.baseline {
		l.baseline = true
		return
	}
	if l.cursor != len(l.slots) {
		panic(&werrors.SlotOrderError{
			Component: inst.componentName(),
			Index:     l.cursor,
			Detail:    l.debugDiff(0),
		})
	}
}

// abortPass undoes partial allocation from a failed baseline pass so the next
// attempt starts clean. Established ledgers are left as-is; their slots still
// match the baseline shape.
func (l *ledger) abortPass() {
	if !l.baseline {
		l.slots = nil
	}
	l.cursor = 0
}

// runCleanups invokes and clears every stored effect cleanup in slot order.
func (l *ledger) runCleanups(rt *Runtime) {
	for _, s := range l.slots {
		if s.tag != slotEffect || s.cleanup == nil {
			continue
		}
		cleanup := s.cleanup
		s.cleanup = nil
		rt.runCleanup(cleanup)
	}
}

func (l *ledger) tags() []slotTag {
	tags := make([]slotTag, len(l.slots))
	for i, s := range l.slots {
		tags[i] = s.tag
	}
	return tags
}
