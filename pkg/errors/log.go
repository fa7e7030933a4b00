package errors

import (
	"fmt"
	"os"
)

// LogHandler is a Handler that logs errors to stderr.
type LogHandler struct {
	// Verbose enables detailed output including stack traces.
	Verbose bool
}

// HandleError logs a WeftError to stderr.
func (h *LogHandler) HandleError(err *WeftError) {
	if err == nil {
		return
	}
	if h.Verbose {
		fmt.Fprintf(os.Stderr, "[weft error] %s [%s]", err.Op, err.Kind)
		if err.Component != "" {
			fmt.Fprintf(os.Stderr, " component=%s", err.Component)
		}
		fmt.Fprintf(os.Stderr, ": %v\n", err.Err)
		if err.StackTrace != "" {
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", err.StackTrace)
		}
	} else {
		fmt.Fprintf(os.Stderr, "[weft error] %s: %v\n", err.Op, err.Err)
	}
}

// HandlePassError logs a PassError to stderr.
func (h *LogHandler) HandlePassError(err *PassError) {
	if err == nil {
		return
	}
	if err.Component != "" {
		fmt.Fprintf(os.Stderr, "[weft panic] %s: %v\n", err.Component, err.Recovered)
	} else {
		fmt.Fprintf(os.Stderr, "[weft panic] %v\n", err.Recovered)
	}
	if h.Verbose && err.StackTrace != "" {
		fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", err.StackTrace)
	}
}

// HandleWarning logs a StaleClosureWarning to stderr.
func (h *LogHandler) HandleWarning(warn *StaleClosureWarning) {
	if warn == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "[weft warning] %s\n", warn.Error())
}
