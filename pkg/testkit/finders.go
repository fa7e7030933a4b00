package testkit

import (
	"reflect"

	"github.com/go-weft/weft/pkg/core"
)

// Predicate selects instances while walking the tree.
type Predicate func(*core.Instance) bool

// ByComponent matches instances hosting the given component function.
func ByComponent(component core.Component) Predicate {
	ptr := reflect.ValueOf(component).Pointer()
	return func(inst *core.Instance) bool {
		if inst == nil || inst.Component() == nil {
			return false
		}
		return reflect.ValueOf(inst.Component()).Pointer() == ptr
	}
}

// ByKey matches instances with the given reconciliation key.
func ByKey(key any) Predicate {
	return func(inst *core.Instance) bool {
		return inst != nil && reflect.DeepEqual(inst.Key(), key)
	}
}

// FindAll walks the tree rooted at root depth-first, returning every
// instance the predicate matches.
func FindAll(root *core.Instance, pred Predicate) []*core.Instance {
	var found []*core.Instance
	var walk func(*core.Instance)
	walk = func(inst *core.Instance) {
		if inst == nil {
			return
		}
		if pred(inst) {
			found = append(found, inst)
		}
		inst.VisitChildren(func(child *core.Instance) bool {
			walk(child)
			return true
		})
	}
	walk(root)
	return found
}

// FindOne returns the single match, or nil when there are zero or several.
func FindOne(root *core.Instance, pred Predicate) *core.Instance {
	found := FindAll(root, pred)
	if len(found) != 1 {
		return nil
	}
	return found[0]
}
