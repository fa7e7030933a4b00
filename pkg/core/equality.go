package core

import "reflect"

// Deps is a dependency list for memos and effects. A nil Deps means no list
// was given: recompute or re-run on every pass. An empty Deps means compute
// or run exactly once, on the first pass. Any other list re-fires when an
// element is unequal under the configured comparator or the length changed.
type Deps []any

// ShallowEqual is the default comparator. Values of different dynamic types
// are unequal. Comparable values use Go interface equality, which for
// pointers, channels, and interfaces is identity and for structs is
// per-field ==. Non-comparable values (slices, maps, functions) compare by
// backing identity: two slices are equal only when they share pointer and
// length.
func ShallowEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch va.Kind() {
	case reflect.Slice:
		return va.Len() == vb.Len() && (va.Len() == 0 || va.Pointer() == vb.Pointer())
	case reflect.Map, reflect.Func:
		return va.Pointer() == vb.Pointer()
	default:
		return false
	}
}

// depsEqual compares two dependency lists element-wise under cmp. Both lists
// must be non-nil; length mismatch is unequal.
func depsEqual(cmp func(a, b any) bool, next, prev Deps) bool {
	if len(next) != len(prev) {
		return false
	}
	for i := range next {
		if !cmp(next[i], prev[i]) {
			return false
		}
	}
	return true
}

// equalKey compares reconciliation keys the way the tree reconciler does.
func equalKey(a, b any) bool {
	return reflect.DeepEqual(a, b)
}
