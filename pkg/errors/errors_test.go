package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorKindString(t *testing.T) {
	cases := map[ErrorKind]string{
		KindUnknown:         "unknown",
		KindSlotOrder:       "slot-order",
		KindMissingProvider: "missing-provider",
		KindNotConverging:   "not-converging",
		KindPass:            "pass",
		KindEffect:          "effect",
		KindConfig:          "config",
		ErrorKind(99):       "unknown",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}

func TestWeftErrorFormatting(t *testing.T) {
	inner := &MissingProviderError{Channel: "app.theme"}
	err := &WeftError{Op: "core.pass", Kind: KindMissingProvider, Err: inner, Component: "themedLabel"}

	msg := err.Error()
	for _, want := range []string{"core.pass", "missing-provider", "themedLabel", "app.theme"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message %q missing %q", msg, want)
		}
	}

	var mpe *MissingProviderError
	if !errors.As(err, &mpe) {
		t.Fatal("errors.As failed to unwrap MissingProviderError")
	}
	if mpe.Channel != "app.theme" {
		t.Errorf("unwrapped channel = %q", mpe.Channel)
	}
}

func TestWeftErrorWithoutComponent(t *testing.T) {
	err := &WeftError{Op: "core.flush", Kind: KindNotConverging, Err: &NotConvergingError{Iterations: 25}}
	if strings.Contains(err.Error(), "component=") {
		t.Errorf("componentless error mentions component: %q", err.Error())
	}
}

func TestSlotOrderErrorVariants(t *testing.T) {
	grow := &SlotOrderError{Component: "c", Index: 2, Got: "ref"}
	if !strings.Contains(grow.Error(), "grew") {
		t.Errorf("growth variant: %q", grow.Error())
	}
	shrink := &SlotOrderError{Component: "c", Index: 1}
	if !strings.Contains(shrink.Error(), "shrank") {
		t.Errorf("shrink variant: %q", shrink.Error())
	}
	mismatch := &SlotOrderError{Component: "c", Index: 0, Want: "state", Got: "memo"}
	msg := mismatch.Error()
	if !strings.Contains(msg, "want state") || !strings.Contains(msg, "got memo") {
		t.Errorf("mismatch variant: %q", msg)
	}
}

func TestPassErrorFormatting(t *testing.T) {
	err := &PassError{Component: "counter", Recovered: "boom"}
	if !strings.Contains(err.Error(), "counter") || !strings.Contains(err.Error(), "boom") {
		t.Errorf("unexpected message: %q", err.Error())
	}
	anon := &PassError{Recovered: 7}
	if !strings.Contains(anon.Error(), "panic in pass: 7") {
		t.Errorf("unexpected message: %q", anon.Error())
	}
}

type countingHandler struct {
	errors     int
	passErrors int
	warnings   int
	lastKind   ErrorKind
}

func (h *countingHandler) HandleError(err *WeftError) {
	h.errors++
	h.lastKind = err.Kind
}

func (h *countingHandler) HandlePassError(err *PassError) { h.passErrors++ }

func (h *countingHandler) HandleWarning(warn *StaleClosureWarning) { h.warnings++ }

func TestSetHandlerRouting(t *testing.T) {
	h := &countingHandler{}
	SetHandler(h)
	defer SetHandler(nil)

	Report(&WeftError{Op: "x", Kind: KindEffect})
	ReportPassError(&PassError{Recovered: "p"})
	ReportWarning(&StaleClosureWarning{Component: "c", Slot: 1})

	if h.errors != 1 || h.passErrors != 1 || h.warnings != 1 {
		t.Fatalf("handler counts = %d/%d/%d", h.errors, h.passErrors, h.warnings)
	}
	if h.lastKind != KindEffect {
		t.Errorf("lastKind = %v", h.lastKind)
	}
}

func TestSetHandlerNilRestoresDefault(t *testing.T) {
	SetHandler(&countingHandler{})
	SetHandler(nil)
	if _, ok := DefaultHandler.(*LogHandler); !ok {
		t.Fatalf("expected LogHandler, got %T", DefaultHandler)
	}
}

func TestReportFillsTimestamp(t *testing.T) {
	h := &countingHandler{}
	SetHandler(h)
	defer SetHandler(nil)

	err := &WeftError{Op: "x", Kind: KindPass}
	Report(err)
	if err.Timestamp.IsZero() {
		t.Error("Report left a zero timestamp")
	}
}

func TestReportNilIsSafe(t *testing.T) {
	Report(nil)
	ReportPassError(nil)
	ReportWarning(nil)
}

func TestRecoverReports(t *testing.T) {
	h := &countingHandler{}
	SetHandler(h)
	defer SetHandler(nil)

	func() {
		defer Recover("test.op")
		panic("contained")
	}()

	if h.errors != 1 {
		t.Fatalf("Recover reported %d errors", h.errors)
	}
	if h.lastKind != KindEffect {
		t.Errorf("lastKind = %v", h.lastKind)
	}
}

func TestCaptureStackMentionsCaller(t *testing.T) {
	stack := CaptureStack()
	if stack == "" {
		t.Fatal("empty stack")
	}
	if !strings.Contains(stack, "errors_test.go") && !strings.Contains(stack, "testing.tRunner") {
		t.Errorf("stack does not mention the caller:\n%s", stack)
	}
}

func TestItoa(t *testing.T) {
	cases := map[int]string{0: "0", 7: "7", 42: "42", -13: "-13", 1234: "1234"}
	for n, want := range cases {
		if got := itoa(n); got != want {
			t.Errorf("itoa(%d) = %q, want %q", n, got, want)
		}
	}
}
