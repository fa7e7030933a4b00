// Package testkit provides isolated runtime testing without a real render
// target: a recording renderer, a fake clock, pump helpers, and finders over
// the instance tree.
package testkit

import (
	"errors"
	"testing"
	"time"

	"github.com/go-weft/weft/pkg/core"
)

// ErrSettleTimeout is returned when PumpAndSettle exceeds its timeout.
var ErrSettleTimeout = errors.New("PumpAndSettle timed out: runtime did not settle")

// Tester drives a runtime through mount, flush, and dispatch cycles with a
// recording renderer in place of a real render target.
type Tester struct {
	rt         *core.Runtime
	renderer   *RecordingRenderer
	root       *core.Instance
	clock      *FakeClock
	dispatches []func()
}

// NewTester creates a tester with default options. Call Cleanup when done,
// or use NewTesterWithT instead.
func NewTester(opts ...core.Option) *Tester {
	renderer := NewRecordingRenderer()
	return &Tester{
		rt:       core.NewRuntime(renderer, opts...),
		renderer: renderer,
		clock:    NewFakeClock(),
	}
}

// NewTesterWithT creates a tester that auto-cleans up via t.Cleanup.
// This is the recommended constructor for tests.
func NewTesterWithT(t *testing.T, opts ...core.Option) *Tester {
	tester := NewTester(opts...)
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup unmounts the current tree.
func (t *Tester) Cleanup() {
	if t.root != nil {
		t.rt.Unmount(t.root)
		t.root = nil
	}
}

// Runtime returns the runtime under test.
func (t *Tester) Runtime() *core.Runtime { return t.rt }

// Renderer returns the recording renderer.
func (t *Tester) Renderer() *RecordingRenderer { return t.renderer }

// Clock returns the fake clock used by PumpAndSettle.
func (t *Tester) Clock() *FakeClock { return t.clock }

// Root returns the root instance of the mounted tree.
func (t *Tester) Root() *core.Instance { return t.root }

// PumpComponent mounts (or remounts) a component and runs one pump.
func (t *Tester) PumpComponent(component core.Component, props any) (*core.Instance, error) {
	if t.root != nil {
		t.rt.Unmount(t.root)
		t.root = nil
	}
	t.root = t.rt.Mount(component, props)
	return t.root, t.Pump()
}

// Pump drains queued dispatches, then runs one Flush.
func (t *Tester) Pump() error {
	dispatches := t.dispatches
	t.dispatches = nil
	for _, fn := range dispatches {
		fn()
	}
	return t.rt.Flush()
}

// PumpAndSettle pumps until the runtime is idle or timeout of fake time has
// passed. Each cycle steps the fake clock by one frame. Returns
// ErrSettleTimeout if the runtime does not settle within timeout.
func (t *Tester) PumpAndSettle(timeout time.Duration) error {
	deadline := t.clock.Now().Add(timeout)
	for t.clock.Now().Before(deadline) {
		if err := t.Pump(); err != nil {
			return err
		}
		if !t.needsWork() {
			return nil
		}
		t.clock.NextFrame()
	}
	return ErrSettleTimeout
}

func (t *Tester) needsWork() bool {
	return t.rt.NeedsWork() || len(t.dispatches) > 0
}

// Dispatch queues a callback for the next pump, mirroring a host event loop.
func (t *Tester) Dispatch(fn func()) {
	t.dispatches = append(t.dispatches, fn)
}
