package core_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-weft/weft/pkg/core"
	werrors "github.com/go-weft/weft/pkg/errors"
	"github.com/go-weft/weft/pkg/testkit"
)

// captureHandler collects reported errors instead of logging them.
type captureHandler struct {
	mu         sync.Mutex
	errors     []*werrors.WeftError
	passErrors []*werrors.PassError
	warnings   []*werrors.StaleClosureWarning
}

func (h *captureHandler) HandleError(err *werrors.WeftError) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors = append(h.errors, err)
}

func (h *captureHandler) HandlePassError(err *werrors.PassError) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.passErrors = append(h.passErrors, err)
}

func (h *captureHandler) HandleWarning(warn *werrors.StaleClosureWarning) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.warnings = append(h.warnings, warn)
}

func installCaptureHandler(t *testing.T) *captureHandler {
	t.Helper()
	h := &captureHandler{}
	werrors.SetHandler(h)
	t.Cleanup(func() { werrors.SetHandler(nil) })
	return h
}

func TestUseChannelFallsBackToDefault(t *testing.T) {
	tester := testkit.NewTesterWithT(t)
	theme := core.NewChannel("test.theme", "light")

	var got string
	comp := func(ctx *core.BuildContext) core.View {
		got = core.UseChannel(ctx, theme)
		return got
	}

	_, err := tester.PumpComponent(comp, nil)
	require.NoError(t, err)
	assert.Equal(t, "light", got)
}

func TestUseChannelReadsNearestProvider(t *testing.T) {
	tester := testkit.NewTesterWithT(t)
	theme := core.NewChannel("test.theme", "light")

	var got string
	leaf := func(ctx *core.BuildContext) core.View {
		got = core.UseChannel(ctx, theme)
		return got
	}
	inner := func(ctx *core.BuildContext) core.View {
		core.Provide(ctx, theme, "sepia")
		core.Child(ctx, leaf, nil)
		return nil
	}
	outer := func(ctx *core.BuildContext) core.View {
		core.Provide(ctx, theme, "dark")
		core.Child(ctx, inner, nil)
		return nil
	}

	_, err := tester.PumpComponent(outer, nil)
	require.NoError(t, err)
	assert.Equal(t, "sepia", got, "the nearest enclosing binding wins")
}

func TestProvideIsVisibleToTheProvidingInstance(t *testing.T) {
	tester := testkit.NewTesterWithT(t)
	theme := core.NewChannel("test.theme", "light")

	var got string
	comp := func(ctx *core.BuildContext) core.View {
		core.Provide(ctx, theme, "dark")
		got = core.UseChannel(ctx, theme)
		return got
	}

	_, err := tester.PumpComponent(comp, nil)
	require.NoError(t, err)
	assert.Equal(t, "dark", got)
}

func TestChannelChangeRerendersOnlyReaders(t *testing.T) {
	tester := testkit.NewTesterWithT(t)
	theme := core.NewChannel("test.theme", "light")

	readerPasses := 0
	bystanderPasses := 0
	var seen string
	reader := func(ctx *core.BuildContext) core.View {
		readerPasses++
		seen = core.UseChannel(ctx, theme)
		return seen
	}
	bystander := func(ctx *core.BuildContext) core.View {
		bystanderPasses++
		return "static"
	}

	var setTheme *core.StateHandle[string]
	provider := func(ctx *core.BuildContext) core.View {
		current, h := core.UseState(ctx, "light")
		setTheme = h
		core.Provide(ctx, theme, current)
		core.Child(ctx, reader, nil)
		core.Child(ctx, bystander, nil)
		return nil
	}

	_, err := tester.PumpComponent(provider, nil)
	require.NoError(t, err)
	require.Equal(t, 1, readerPasses)
	require.Equal(t, 1, bystanderPasses)
	require.Equal(t, "light", seen)

	setTheme.Set("dark")
	require.NoError(t, tester.Pump())

	assert.Equal(t, "dark", seen)
	assert.Equal(t, 2, readerPasses, "the reader must re-render on a value change")
	assert.Equal(t, 1, bystanderPasses, "a non-reading sibling must not re-render")
}

func TestProvideSameValueDoesNotNotify(t *testing.T) {
	tester := testkit.NewTesterWithT(t)
	theme := core.NewChannel("test.theme", "light")

	readerPasses := 0
	reader := func(ctx *core.BuildContext) core.View {
		readerPasses++
		return core.UseChannel(ctx, theme)
	}

	var rerender *core.StateHandle[int]
	provider := func(ctx *core.BuildContext) core.View {
		_, h := core.UseState(ctx, 0)
		rerender = h
		core.Provide(ctx, theme, "light")
		core.Child(ctx, reader, nil)
		return nil
	}

	_, err := tester.PumpComponent(provider, nil)
	require.NoError(t, err)

	rerender.Set(1)
	require.NoError(t, tester.Pump())
	assert.Equal(t, 1, readerPasses, "re-providing an equal value must not dirty readers")
}

func TestUnmountedReaderIsNotNotified(t *testing.T) {
	tester := testkit.NewTesterWithT(t)
	theme := core.NewChannel("test.theme", "light")

	readerPasses := 0
	reader := func(ctx *core.BuildContext) core.View {
		readerPasses++
		return core.UseChannel(ctx, theme)
	}

	var setTheme *core.StateHandle[string]
	var showReader *core.StateHandle[bool]
	provider := func(ctx *core.BuildContext) core.View {
		current, h1 := core.UseState(ctx, "light")
		show, h2 := core.UseState(ctx, true)
		setTheme = h1
		showReader = h2
		core.Provide(ctx, theme, current)
		if show {
			core.Child(ctx, reader, nil)
		}
		return nil
	}

	_, err := tester.PumpComponent(provider, nil)
	require.NoError(t, err)
	require.Equal(t, 1, readerPasses)

	showReader.Set(false)
	require.NoError(t, tester.Pump())

	setTheme.Set("dark")
	require.NoError(t, tester.Pump())
	assert.Equal(t, 1, readerPasses, "an unmounted reader must never re-render")
}

func TestFirstProvideRebindsDefaultReaders(t *testing.T) {
	tester := testkit.NewTesterWithT(t)
	theme := core.NewChannel("test.theme", "light")

	var seen string
	reader := func(ctx *core.BuildContext) core.View {
		seen = core.UseChannel(ctx, theme)
		return seen
	}

	var setEnabled *core.StateHandle[bool]
	provider := func(ctx *core.BuildContext) core.View {
		enabled, h := core.UseState(ctx, false)
		setEnabled = h
		if enabled {
			core.Provide(ctx, theme, "dark")
		}
		core.Child(ctx, reader, nil)
		return nil
	}

	_, err := tester.PumpComponent(provider, nil)
	require.NoError(t, err)
	require.Equal(t, "light", seen)

	setEnabled.Set(true)
	require.NoError(t, tester.Pump())
	assert.Equal(t, "dark", seen, "a reader on the default must pick up a later first binding")
}

func TestFirstProvideShadowsOuterBinding(t *testing.T) {
	tester := testkit.NewTesterWithT(t)
	theme := core.NewChannel("test.theme", "light")

	readerPasses := 0
	var seen string
	reader := func(ctx *core.BuildContext) core.View {
		readerPasses++
		seen = core.UseChannel(ctx, theme)
		return seen
	}

	var setShadow *core.StateHandle[bool]
	middle := func(ctx *core.BuildContext) core.View {
		shadow, h := core.UseState(ctx, false)
		setShadow = h
		if shadow {
			core.Provide(ctx, theme, "sepia")
		}
		core.Child(ctx, reader, nil)
		return nil
	}
	outer := func(ctx *core.BuildContext) core.View {
		core.Provide(ctx, theme, "dark")
		core.Child(ctx, middle, nil)
		return nil
	}

	_, err := tester.PumpComponent(outer, nil)
	require.NoError(t, err)
	require.Equal(t, "dark", seen)
	require.Equal(t, 1, readerPasses)

	setShadow.Set(true)
	require.NoError(t, tester.Pump())
	assert.Equal(t, "sepia", seen, "an inner first binding must rebind readers off the outer one")
	assert.Equal(t, 2, readerPasses)
}

func TestFirstProvideDoesNotCrossInnerProviders(t *testing.T) {
	tester := testkit.NewTesterWithT(t)
	theme := core.NewChannel("test.theme", "light")

	readerPasses := 0
	var seen string
	reader := func(ctx *core.BuildContext) core.View {
		readerPasses++
		seen = core.UseChannel(ctx, theme)
		return seen
	}
	shield := func(ctx *core.BuildContext) core.View {
		core.Provide(ctx, theme, "forced")
		core.Child(ctx, reader, nil)
		return nil
	}

	var setEnabled *core.StateHandle[bool]
	root := func(ctx *core.BuildContext) core.View {
		enabled, h := core.UseState(ctx, false)
		setEnabled = h
		if enabled {
			core.Provide(ctx, theme, "dark")
		}
		core.Child(ctx, shield, nil)
		return nil
	}

	_, err := tester.PumpComponent(root, nil)
	require.NoError(t, err)
	require.Equal(t, "forced", seen)
	require.Equal(t, 1, readerPasses)

	setEnabled.Set(true)
	require.NoError(t, tester.Pump())
	assert.Equal(t, "forced", seen, "a subtree under its own provider is shadowed from the new binding")
	assert.Equal(t, 1, readerPasses)
}

func TestRequiredChannelWithoutProviderAbortsPass(t *testing.T) {
	handler := installCaptureHandler(t)
	tester := testkit.NewTesterWithT(t)
	session := core.NewRequiredChannel[string]("test.session")

	comp := func(ctx *core.BuildContext) core.View {
		return core.UseChannel(ctx, session)
	}

	root, err := tester.PumpComponent(comp, nil)
	require.NoError(t, err, "a failed pass is reported, not returned")

	_, hasView := root.View()
	assert.False(t, hasView, "the aborted pass must not produce a view")
	assert.Zero(t, tester.Renderer().CommitCount())

	require.Len(t, handler.errors, 1)
	assert.Equal(t, werrors.KindMissingProvider, handler.errors[0].Kind)
	var mpe *werrors.MissingProviderError
	require.ErrorAs(t, handler.errors[0], &mpe)
	assert.Equal(t, "test.session", mpe.Channel)
}

func TestChannelAccessors(t *testing.T) {
	theme := core.NewChannel("test.theme", "light")
	assert.Equal(t, "test.theme", theme.Name())
	def, ok := theme.Default()
	assert.True(t, ok)
	assert.Equal(t, "light", def)

	session := core.NewRequiredChannel[int]("test.session")
	_, ok = session.Default()
	assert.False(t, ok)
}
