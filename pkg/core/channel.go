package core

import (
	werrors "github.com/go-weft/weft/pkg/errors"
)

// Channel is an addressable, tree-scoped broadcast value source. A provider
// instance binds a value for its subtree with Provide; descendants read the
// nearest binding with UseChannel. Channels declared with NewChannel fall
// back to their default when unprovided; channels from NewRequiredChannel
// fail the reading pass with a missing-provider error instead.
type Channel[T any] struct {
	name       string
	def        T
	hasDefault bool
}

// NewChannel declares a channel with a default value. The name is used only
// in diagnostics.
func NewChannel[T any](name string, defaultValue T) *Channel[T] {
	return &Channel[T]{name: name, def: defaultValue, hasDefault: true}
}

// NewRequiredChannel declares a channel without a default. Reading it with no
// enclosing provider aborts the reading instance's pass.
func NewRequiredChannel[T any](name string) *Channel[T] {
	return &Channel[T]{name: name}
}

// Name returns the diagnostic name given at declaration.
func (c *Channel[T]) Name() string { return c.name }

// Default returns the declared default value and whether one exists.
func (c *Channel[T]) Default() (T, bool) { return c.def, c.hasDefault }

// Provide binds value to the channel for the providing instance's subtree,
// for this and subsequent passes. Tree-scoped dynamic binding: an inner
// Provide shadows an outer one without mutating it. When the new value is
// unequal to the previously provided one under the configured comparator,
// every registered reader below this instance is dirtied, and only readers;
// intermediate instances that never read the channel are untouched.
func Provide[T any](ctx *BuildContext, ch *Channel[T], value T) {
	inst := ctx.inst
	if inst.provided == nil {
		inst.provided = make(map[any]any)
	}
	prev, had := inst.provided[ch]
	inst.provided[ch] = value
	if had {
		if !ctx.rt.comparator(prev, value) {
			for _, dep := range inst.channelDependents(ch) {
				if dep.mounted && dep != inst {
					ctx.rt.markDirty(dep)
				}
			}
		}
		return
	}
	// First binding at this instance. Readers below resolved an outer
	// binding or the channel default on earlier passes and are registered
	// elsewhere (or nowhere), so the dependent set is no help; rebind by
	// walking the subtree.
	for _, child := range inst.children {
		ctx.rt.rebindReaders(child, ch, value)
	}
}

// rebindReaders dirties every reader under inst whose context slot on ch
// observed a value unequal to the newly bound one. A descendant that provides
// ch itself shadows the new binding for its whole subtree, including its own
// reads.
func (r *Runtime) rebindReaders(inst *Instance, ch any, value any) {
	if !inst.mounted {
		return
	}
	if _, shadowed := inst.provided[ch]; shadowed {
		return
	}
	for _, s := range inst.ledger.slots {
		if s.tag == slotContext && s.channel == ch && !r.comparator(s.observed, value) {
			r.markDirty(inst)
			break
		}
	}
	for _, child := range inst.children {
		r.rebindReaders(child, ch, value)
	}
}

// UseChannel reads the nearest enclosing binding of ch, registering the
// reading instance as a dependent of the resolved provider so later value
// changes re-render it. Falls back to the channel default when no provider
// exists; a defaultless channel panics with a missing-provider error, which
// the driver reports and turns into an aborted pass.
func UseChannel[T any](ctx *BuildContext, ch *Channel[T]) T {
	cell := ctx.inst.ledger.next(slotContext, ctx.inst)
	cell.channel = ch
	for provider := ctx.inst; provider != nil; provider = provider.parent {
		if v, ok := provider.provided[ch]; ok {
			provider.addChannelDependent(ch, ctx.inst)
			cell.provider = provider
			cell.observed = v
			return v.(T)
		}
	}
	if ch.hasDefault {
		cell.provider = nil
		cell.observed = ch.def
		return ch.def
	}
	panic(&werrors.MissingProviderError{Channel: ch.name})
}
