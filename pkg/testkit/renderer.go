package testkit

import (
	"sync"

	"github.com/go-weft/weft/pkg/core"
)

// CommitRecord is one renderer commit observed by the recorder.
type CommitRecord struct {
	Instance *core.Instance
	View     core.View
}

// RecordingRenderer captures every commit and release in order, standing in
// for a real render target in tests.
type RecordingRenderer struct {
	mu       sync.Mutex
	commits  []CommitRecord
	released []*core.Instance
	latest   map[*core.Instance]core.View
}

// NewRecordingRenderer creates an empty recorder.
func NewRecordingRenderer() *RecordingRenderer {
	return &RecordingRenderer{latest: make(map[*core.Instance]core.View)}
}

// Commit records the committed view.
func (r *RecordingRenderer) Commit(inst *core.Instance, view core.View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commits = append(r.commits, CommitRecord{Instance: inst, View: view})
	r.latest[inst] = view
}

// Release records the unmounted instance and drops its latest view.
func (r *RecordingRenderer) Release(inst *core.Instance) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.released = append(r.released, inst)
	delete(r.latest, inst)
}

// Commits returns all commits in order.
func (r *RecordingRenderer) Commits() []CommitRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]CommitRecord, len(r.commits))
	copy(out, r.commits)
	return out
}

// CommitCount returns the total number of commits.
func (r *RecordingRenderer) CommitCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.commits)
}

// CommitsFor counts commits for one instance.
func (r *RecordingRenderer) CommitsFor(inst *core.Instance) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, c := range r.commits {
		if c.Instance == inst {
			count++
		}
	}
	return count
}

// LatestView returns the most recently committed view for inst.
func (r *RecordingRenderer) LatestView(inst *core.Instance) (core.View, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.latest[inst]
	return v, ok
}

// Released returns unmounted instances in release order.
func (r *RecordingRenderer) Released() []*core.Instance {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*core.Instance, len(r.released))
	copy(out, r.released)
	return out
}

// Reset clears recorded commits and releases but keeps latest views.
func (r *RecordingRenderer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commits = nil
	r.released = nil
}
