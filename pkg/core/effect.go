package core

import (
	"slices"
	"time"

	werrors "github.com/go-weft/weft/pkg/errors"
)

// EffectOrder selects cross-instance effect ordering within a flush cycle.
// Within one instance, effects always run in slot order.
type EffectOrder int

const (
	// ParentFirst runs effects in render order: an instance's effects
	// before its children's. This is the default.
	ParentFirst EffectOrder = iota
	// ChildFirst runs deeper instances' effects before their ancestors'.
	ChildFirst
)

// effectEntry is one scheduled effect run, collected during a pass and
// executed after that cycle's views are committed. deps is staged here and
// written to the cell only when the run happens, so a withdrawn entry (failed
// pass, unmount) leaves the cell recording the last executed deps.
type effectEntry struct {
	inst  *Instance
	cell  *slot
	fn    func() func()
	deps  Deps
	depth int
}

// UseEffect registers a deferred side effect at the current ledger position.
// effect runs strictly after the produced view is committed, and only when
// deps changed since the last executed run (nil deps: every pass; empty deps:
// first pass only). Its returned cleanup, if any, runs synchronously before
// the next re-run and on unmount.
func UseEffect(ctx *BuildContext, effect func() func(), deps Deps) {
	cell := ctx.inst.ledger.next(slotEffect, ctx.inst)
	changed := !cell.initialized || deps == nil || cell.deps == nil ||
		!depsEqual(ctx.rt.comparator, deps, cell.deps)
	if changed {
		ctx.rt.pendingEffects = append(ctx.rt.pendingEffects, effectEntry{
			inst:  ctx.inst,
			cell:  cell,
			fn:    effect,
			deps:  deps,
			depth: ctx.inst.depth,
		})
	}
}

// runEffects drains the pending queue collected during the last render
// phase. Unmounting an instance withdraws its never-run effects here; its
// cleanups from previous commits were already honored during unmount.
func (r *Runtime) runEffects() {
	entries := r.pendingEffects
	r.pendingEffects = nil
	if len(entries) == 0 {
		return
	}
	if r.effectOrder == ChildFirst {
		// Render order is parent-first; a stable depth sort inverts it
		// while preserving slot order within an instance.
		slices.SortStableFunc(entries, func(a, b effectEntry) int {
			return b.depth - a.depth
		})
	}
	for _, entry := range entries {
		if !entry.inst.mounted {
			continue
		}
		if entry.cell.cleanup != nil {
			cleanup := entry.cell.cleanup
			entry.cell.cleanup = nil
			r.runCleanup(cleanup)
		}
		entry.cell.deps = entry.deps
		entry.cell.initialized = true
		r.runEffect(entry)
	}
}

func (r *Runtime) runEffect(entry effectEntry) {
	defer func() {
		if rec := recover(); rec != nil {
			werrors.Report(&werrors.WeftError{
				Op:         "core.runEffect",
				Kind:       werrors.KindEffect,
				Component:  entry.inst.componentName(),
				Err:        &werrors.PassError{Component: entry.inst.componentName(), Recovered: rec},
				StackTrace: werrors.CaptureStack(),
				Timestamp:  time.Now(),
			})
		}
	}()
	if cleanup := entry.fn(); cleanup != nil {
		entry.cell.cleanup = cleanup
	}
	r.stats.add(&r.stats.effectsRun)
}

func (r *Runtime) runCleanup(cleanup func()) {
	defer werrors.Recover("core.runCleanup")
	cleanup()
	r.stats.add(&r.stats.cleanupsRun)
}
