package core

import "sync"

// Stats accumulates runtime counters. All counters are monotonic for the
// lifetime of the Runtime.
type Stats struct {
	mu sync.Mutex

	passes         uint64
	commits        uint64
	effectsRun     uint64
	cleanupsRun    uint64
	flushCycles    uint64
	mounts         uint64
	unmounts       uint64
	slotViolations uint64
	passPanics     uint64
	staleWarnings  uint64
}

func (s *Stats) add(counter *uint64) {
	s.mu.Lock()
	*counter++
	s.mu.Unlock()
}

// StatsSnapshot is a point-in-time copy of the runtime counters.
type StatsSnapshot struct {
	Passes         uint64
	Commits        uint64
	EffectsRun     uint64
	CleanupsRun    uint64
	FlushCycles    uint64
	Mounts         uint64
	Unmounts       uint64
	SlotViolations uint64
	PassPanics     uint64
	StaleWarnings  uint64
}

// Stats returns a snapshot of the runtime counters.
func (r *Runtime) Stats() StatsSnapshot {
	r.stats.mu.Lock()
	defer r.stats.mu.Unlock()
	return StatsSnapshot{
		Passes:         r.stats.passes,
		Commits:        r.stats.commits,
		EffectsRun:     r.stats.effectsRun,
		CleanupsRun:    r.stats.cleanupsRun,
		FlushCycles:    r.stats.flushCycles,
		Mounts:         r.stats.mounts,
		Unmounts:       r.stats.unmounts,
		SlotViolations: r.stats.slotViolations,
		PassPanics:     r.stats.passPanics,
		StaleWarnings:  r.stats.staleWarnings,
	}
}
