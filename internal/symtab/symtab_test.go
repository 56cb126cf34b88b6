package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtcmix/rtcore/internal/value"
)

type recordingReporter struct{ warnings []string }

func (r *recordingReporter) Warn(format string, args ...any) {
	r.warnings = append(r.warnings, format)
}

func TestLookupModes(t *testing.T) {
	tab := New(&recordingReporter{})
	g := tab.InstallSymbol("x", true)
	g.Val = value.NewFloat(1)

	tab.PushScope()
	local := tab.InstallSymbol("x", false)
	local.Val = value.NewFloat(2)

	this, ok := tab.LookupSymbol("x", ThisLevel)
	require.True(t, ok)
	assert.Equal(t, 2.0, this.Val.Float())

	glob, ok := tab.LookupSymbol("x", GlobalLevel)
	require.True(t, ok)
	assert.Equal(t, 1.0, glob.Val.Float())

	any_, ok := tab.LookupSymbol("x", AnyLevel)
	require.True(t, ok)
	assert.Equal(t, 2.0, any_.Val.Float(), "AnyLevel finds the innermost binding first")
}

func TestScopeHygieneAcrossCall(t *testing.T) {
	tab := New(&recordingReporter{})
	saved := tab.CurrentScope()

	tab.PushFunctionStack("f")
	tab.PushScope()
	tab.InstallSymbol("local", false)

	tab.PopScope()
	tab.PopFunctionStack()

	assert.Equal(t, saved, tab.CurrentScope(), "scope must be restored after a normal call return")
}

func TestScopeHygieneAfterRestoreScope(t *testing.T) {
	tab := New(&recordingReporter{})
	saved := tab.CurrentScope()

	tab.PushFunctionStack("f")
	tab.PushScope()
	tab.PushScope()
	tab.PushScope()

	// Simulate a nonlocal Ret unwinding straight back to the saved index.
	tab.RestoreScope(saved)

	assert.Equal(t, saved, tab.CurrentScope(), "RestoreScope must unwind a nonlocal return to the saved index")
}

func TestShadowingAcrossFunctionBoundaryWarns(t *testing.T) {
	rep := &recordingReporter{}
	tab := New(rep)
	tab.InstallSymbol("x", true)

	tab.PushFunctionStack("f")
	tab.InstallSymbol("x", false)

	assert.NotEmpty(t, rep.warnings, "shadowing a binding across a call boundary must warn")
}

func TestShadowingWithinSameScopeDoesNotWarn(t *testing.T) {
	rep := &recordingReporter{}
	tab := New(rep)
	tab.PushScope()
	tab.InstallSymbol("x", false)
	tab.InstallSymbol("x", false) // re-declared at the same block level

	assert.Empty(t, rep.warnings)
}

func TestLookupOrAutodeclare(t *testing.T) {
	tab := New(&recordingReporter{})
	sym := tab.LookupOrAutodeclare("y", false)
	assert.True(t, sym.Auto())

	again, ok := tab.LookupSymbol("y", AnyLevel)
	require.True(t, ok)
	assert.Same(t, sym, again)
}

func TestStructTypeRegistry(t *testing.T) {
	tab := New(&recordingReporter{})
	st := tab.InstallStructType("P", true)
	st.Members = append(st.Members, value.MemberDecl{Name: "x", Kind: value.Float})

	got, ok := tab.LookupStructType("P")
	require.True(t, ok)
	assert.Same(t, st, got)
}

func TestCallDepthTracksFunctionStack(t *testing.T) {
	tab := New(&recordingReporter{})
	assert.Equal(t, 0, tab.CallDepth())
	tab.PushFunctionStack("f")
	assert.Equal(t, 1, tab.CallDepth())
	tab.PushFunctionStack("g")
	assert.Equal(t, 2, tab.CallDepth())
	assert.Equal(t, "g", tab.CurrentCalleeName())
	tab.PopFunctionStack()
	assert.Equal(t, "f", tab.CurrentCalleeName())
	tab.PopFunctionStack()
}
