package core

import (
	"reflect"
)

// View is an opaque description of what an instance wants rendered. The
// runtime never inspects it; it is handed verbatim to the Renderer after
// each successful pass.
type View any

// Component is a pure mapping from (props, hook bindings) to a view
// description. It must not schedule work or mutate anything outside the
// hook primitives, and its hook calls must be unconditional and in a fixed
// order across passes.
type Component func(ctx *BuildContext) View

// Renderer is the external render-target collaborator. Commit is called once
// per re-rendered instance per flush cycle, always before that cycle's
// effects run. Release is called when an instance unmounts.
type Renderer interface {
	Commit(inst *Instance, view View)
	Release(inst *Instance)
}

// BuildContext is the explicit handle passed into a component pass. It binds
// hook calls to the instance being rendered; there is no ambient "current
// instance" global.
type BuildContext struct {
	inst *Instance
	rt   *Runtime

	decls []childDecl
}

// Instance returns the instance whose pass is in flight.
func (c *BuildContext) Instance() *Instance { return c.inst }

// Runtime returns the runtime driving this pass.
func (c *BuildContext) Runtime() *Runtime { return c.rt }

// childDecl is one child declaration collected during a pass, reconciled
// against the existing child instance at the same position.
type childDecl struct {
	component Component
	compPtr   uintptr
	props     any
	key       any
}

// Child declares a child component under the instance being rendered.
// Children are reconciled by position and component identity: the same
// component at the same position reuses its Instance (and slot ledger), and
// is re-rendered only when props are unequal under the configured comparator.
func Child(ctx *BuildContext, component Component, props any) {
	ChildWithKey(ctx, nil, component, props)
}

// ChildWithKey is Child with an explicit reconciliation key, for lists whose
// order changes between passes.
func ChildWithKey(ctx *BuildContext, key any, component Component, props any) {
	ctx.decls = append(ctx.decls, childDecl{
		component: component,
		compPtr:   reflect.ValueOf(component).Pointer(),
		props:     props,
		key:       key,
	})
}

// UseProps returns the props the parent declared for this instance, asserted
// to P. The root instance's props are the ones given to Mount.
func UseProps[P any](ctx *BuildContext) P {
	if ctx.inst.props == nil {
		var zero P
		return zero
	}
	return ctx.inst.props.(P)
}
