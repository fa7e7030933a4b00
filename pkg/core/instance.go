package core

import (
	"reflect"
	"runtime"

	mapset "github.com/deckarep/golang-set/v2"
)

// Instance is one mounted occurrence of a component. It owns an ordered slot
// ledger, a parent pointer for channel resolution, and a dirty flag. Exactly
// one Instance exists per mount position; re-invocation reuses the Instance
// and its ledger.
type Instance struct {
	rt        *Runtime
	component Component
	compPtr   uintptr
	props     any
	key       any

	parent   *Instance
	children []*Instance
	depth    int

	dirty   bool
	mounted bool

	ledger ledger

	// lastView is retained so a failed pass leaves the previously
	// committed view in place.
	lastView View
	hasView  bool

	// provided holds channel values set by this instance's Provide calls,
	// visible to the subtree. chanDeps tracks which descendants read each
	// channel through this instance. Dependent sets only grow until the
	// reader unmounts; over-notification is safe, under-notification is not.
	provided map[any]any
	chanDeps map[any]mapset.Set[*Instance]
}

// Depth returns the instance's distance from its root.
func (i *Instance) Depth() int { return i.depth }

// Parent returns the parent instance, or nil for a root.
func (i *Instance) Parent() *Instance { return i.parent }

// Key returns the reconciliation key the parent declared, or nil.
func (i *Instance) Key() any { return i.key }

// Component returns the component function hosted by this instance.
func (i *Instance) Component() Component { return i.component }

// Props returns the props most recently declared for this instance.
func (i *Instance) Props() any { return i.props }

// Mounted reports whether the instance is part of a live tree.
func (i *Instance) Mounted() bool { return i.mounted }

// View returns the last committed view and whether one exists.
func (i *Instance) View() (View, bool) { return i.lastView, i.hasView }

// VisitChildren calls visitor for each child in declaration order, stopping
// early if it returns false.
func (i *Instance) VisitChildren(visitor func(*Instance) bool) {
	for _, child := range i.children {
		if !visitor(child) {
			return
		}
	}
}

// ComponentName returns the component function's name, for diagnostics.
func (i *Instance) ComponentName() string { return i.componentName() }

func (i *Instance) componentName() string {
	if i.component == nil {
		return "<nil>"
	}
	if fn := runtime.FuncForPC(i.compPtr); fn != nil {
		return fn.Name()
	}
	return reflect.TypeOf(i.component).String()
}

// MarkDirty schedules a re-render of this instance on the next flush.
// It never triggers a nested invocation.
func (i *Instance) MarkDirty() {
	i.rt.markDirty(i)
}

func (i *Instance) addChannelDependent(channel any, dep *Instance) {
	if i.chanDeps == nil {
		i.chanDeps = make(map[any]mapset.Set[*Instance])
	}
	set := i.chanDeps[channel]
	if set == nil {
		set = mapset.NewThreadUnsafeSet[*Instance]()
		i.chanDeps[channel] = set
	}
	set.Add(dep)
}

func (i *Instance) removeChannelDependent(dep *Instance) {
	for _, set := range i.chanDeps {
		set.Remove(dep)
	}
}

func (i *Instance) channelDependents(channel any) []*Instance {
	set := i.chanDeps[channel]
	if set == nil {
		return nil
	}
	return set.ToSlice()
}
