// Package errors provides structured error handling for the weft runtime.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindSlotOrder indicates a hook ledger shape mismatch between passes.
	KindSlotOrder
	// KindMissingProvider indicates a channel read with no provider and no default.
	KindMissingProvider
	// KindNotConverging indicates a flush that failed to drain within its bound.
	KindNotConverging
	// KindPass indicates a recovered panic inside a component pass.
	KindPass
	// KindEffect indicates a recovered panic inside an effect or cleanup.
	KindEffect
	// KindConfig indicates a configuration error.
	KindConfig
)

func (k ErrorKind) String() string {
	switch k {
	case KindSlotOrder:
		return "slot-order"
	case KindMissingProvider:
		return "missing-provider"
	case KindNotConverging:
		return "not-converging"
	case KindPass:
		return "pass"
	case KindEffect:
		return "effect"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// WeftError represents a structured error in the weft runtime.
type WeftError struct {
	// Op is the operation that failed (e.g., "core.flush").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Component is the component's type name, if applicable.
	Component string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *WeftError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("%s [%s] component=%s: %v", e.Op, e.Kind, e.Component, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *WeftError) Unwrap() error {
	return e.Err
}

// SlotOrderError reports a hook ledger whose shape changed between two passes
// of the same instance. The offending pass is aborted and the previously
// committed view retained.
type SlotOrderError struct {
	// Component is the component's type name.
	Component string
	// Index is the ledger position where the mismatch was detected.
	Index int
	// Want is the slot tag recorded on the previous pass ("" when the
	// ledger grew past its previous length).
	Want string
	// Got is the slot tag requested on the current pass ("" when the
	// ledger was only partially consumed).
	Got string
	// Detail carries a tag-by-tag diff of the two passes when debug
	// mode is enabled.
	Detail string
}

func (e *SlotOrderError) Error() string {
	switch {
	case e.Got == "":
		return fmt.Sprintf("slot ledger shrank: only %d previous slots consumed; hooks must run unconditionally in a fixed order", e.Index)
	case e.Want == "":
		return fmt.Sprintf("slot ledger grew at index %d (got %s slot); hooks must run unconditionally in a fixed order", e.Index, e.Got)
	default:
		return fmt.Sprintf("slot tag mismatch at index %d: want %s, got %s", e.Index, e.Want, e.Got)
	}
}

// MissingProviderError reports a read of a channel that declares no default
// and has no provider among the reading instance's ancestors.
type MissingProviderError struct {
	// Channel is the channel name given at declaration.
	Channel string
}

func (e *MissingProviderError) Error() string {
	return fmt.Sprintf("no provider for channel %q and the channel declares no default", e.Channel)
}

// NotConvergingError reports a flush that still had dirty instances after the
// configured iteration bound, which indicates an update loop.
type NotConvergingError struct {
	// Iterations is the bound that was exhausted.
	Iterations int
}

func (e *NotConvergingError) Error() string {
	return fmt.Sprintf("render queue did not drain after %d flush iterations; an effect or handler is likely re-dirtying instances every cycle", e.Iterations)
}

// PassError represents a panic recovered during a component pass.
type PassError struct {
	// Component is the component's type name.
	Component string
	// Recovered is the value passed to panic().
	Recovered any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PassError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("panic in pass of %s: %v", e.Component, e.Recovered)
	}
	return fmt.Sprintf("panic in pass: %v", e.Recovered)
}

// StaleClosureWarning is a non-fatal diagnostic: a memo recomputed under an
// unchanged dependency list produced a different value, which means the
// computation reads something its dependency list omits. Suppressing a
// dependency is a documented, legitimate use, so this is reported and never
// aborts anything.
type StaleClosureWarning struct {
	// Component is the component's type name.
	Component string
	// Slot is the ledger index of the offending memo cell.
	Slot int
	// Timestamp is when the divergence was observed.
	Timestamp time.Time
}

func (e *StaleClosureWarning) Error() string {
	return fmt.Sprintf("memo at slot %d of %s diverged under equal dependencies; its dependency list likely omits a value it reads", e.Slot, e.Component)
}

// Handler receives errors and diagnostics reported by the weft runtime.
type Handler interface {
	// HandleError is called when a structural error occurs.
	HandleError(err *WeftError)
	// HandlePassError is called when a component pass panics.
	HandlePassError(err *PassError)
	// HandleWarning is called for non-fatal diagnostics.
	HandleWarning(warn *StaleClosureWarning)
}
