package interp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtcmix/rtcore/internal/diag"
	"github.com/rtcmix/rtcore/internal/symtab"
	"github.com/rtcmix/rtcore/internal/value"
)

func newTestEvaluator() (*Evaluator, *bytes.Buffer, *bytes.Buffer) {
	var warnBuf bytes.Buffer
	d := diag.New(&warnBuf)
	tab := symtab.New(d)
	ev := New(tab, d)
	var out bytes.Buffer
	ev.Print = func(s string) { out.WriteString(s) }
	return ev, &warnBuf, &out
}

func TestArithmeticAndRelations(t *testing.T) {
	ev, _, _ := newTestEvaluator()
	n := Operator{Op: "+", L: Constf{Val: 2}, R: Constf{Val: 3}}
	v, ctl := ev.eval(n)
	assert.Equal(t, Normal, ctl)
	assert.Equal(t, 5.0, v.Float())

	rel := Relation{Op: "<", L: Constf{Val: 2}, R: Constf{Val: 3}}
	v, _ = ev.eval(rel)
	assert.Equal(t, 1.0, v.Float())
}

func TestStoreAndLoad(t *testing.T) {
	ev, _, _ := newTestEvaluator()
	store := Store{Lhs: LoadSym{Name: "x"}, Rhs: Constf{Val: 42}, AllowTypeOverwrite: true}
	_, ctl := ev.eval(store)
	require.Equal(t, Normal, ctl)

	load := LoadSym{Name: "x"}
	v, _ := ev.eval(load)
	assert.Equal(t, 42.0, v.Float())
}

// S4 — list write growth.
func TestS4_ListWriteGrowth(t *testing.T) {
	ev, _, _ := newTestEvaluator()
	_, ctl := ev.eval(Store{Lhs: LoadSym{Name: "L"}, Rhs: List{}, AllowTypeOverwrite: true})
	require.Equal(t, Normal, ctl)

	_, ctl = ev.eval(SubscriptWrite{Obj: LoadSym{Name: "L"}, Idx: Constf{Val: 3}, Rhs: Constf{Val: 7}})
	require.Equal(t, Normal, ctl)

	v, _ := ev.eval(LoadSym{Name: "L"})
	require.Equal(t, value.List, v.Kind())
	elems := v.ListVal().Elems
	require.Len(t, elems, 4)
	assert.Equal(t, []float64{0, 0, 0, 7}, []float64{elems[0].Float(), elems[1].Float(), elems[2].Float(), elems[3].Float()})
}

// S5 — method dispatch: struct P { float x }; function P.get() { return this.x }
func TestS5_MethodDispatch(t *testing.T) {
	ev, _, _ := newTestEvaluator()

	_, ctl := ev.eval(StructDef{Name: "P", Members: []MemberDeclNode{{Name: "x", Kind: value.Float}}})
	require.Equal(t, Normal, ctl)

	_, ctl = ev.eval(MethodDecl{StructName: "P", Name: "get"})
	require.Equal(t, Normal, ctl)
	_, ctl = ev.eval(FuncDef{
		Decl:     MethodDecl{StructName: "P", Name: "get"},
		ArgNames: nil,
		IsMethod: true,
		Body:     FuncBodySeq{Ret: Ret{Expr: MemberAccess{Obj: LoadSym{Name: "this"}, Name: "x"}}},
	})
	require.Equal(t, Normal, ctl)

	_, ctl = ev.eval(StructDecl{TypeName: "P", VarName: "p", Inits: []Node{Constf{Val: 42}}})
	require.Equal(t, Normal, ctl)

	call := Call{Target: MemberAccess{Obj: LoadSym{Name: "p"}, Name: "get"}}
	v, ctl := ev.eval(call)
	require.Equal(t, Normal, ctl)
	assert.Equal(t, 42.0, v.Float())
}

// S6 — printf.
func TestS6_Printf(t *testing.T) {
	ev, _, out := newTestEvaluator()
	args := []value.Value{value.NewFloat(1.5), value.NewFloat(2.9), value.NewString("hi")}
	v, ok, err := ev.callBuiltin("printf", append([]value.Value{value.NewString(`%t %d %s\n`)}, args...))
	require.True(t, ok)
	require.NoError(t, err)
	_ = v
	assert.Equal(t, "float 2 hi\n", out.String())
}

func TestPrintfListSpecifier(t *testing.T) {
	ev, _, out := newTestEvaluator()
	l := value.NewList(value.NewListVal(value.NewFloat(1), value.NewString("a")))
	_, ok, err := ev.callBuiltin("printf", []value.Value{value.NewString("%l"), l})
	require.True(t, ok)
	require.NoError(t, err)
	assert.Equal(t, `[1, "a"]`, out.String())
}

// Invariant 5 — scope hygiene across a normal call and a Ret-triggered exit.
func TestInvariant5_ScopeHygiene(t *testing.T) {
	ev, _, _ := newTestEvaluator()
	_, _ = ev.eval(FuncDecl{Name: "f"})
	_, _ = ev.eval(FuncDef{
		Decl: FuncDecl{Name: "f"},
		Body: FuncBodySeq{Ret: Ret{Expr: Constf{Val: 1}}},
	})

	before := ev.Table.CurrentScope()
	v, ctl := ev.eval(Call{Target: LoadFuncSym{Name: "f"}})
	require.Equal(t, Normal, ctl)
	assert.Equal(t, 1.0, v.Float())
	assert.Equal(t, before, ev.Table.CurrentScope())
}

// Invariant 6 — interp(L,0)==L[0], interp(L,1)==L[last].
func TestInvariant6_Interp(t *testing.T) {
	ev, _, _ := newTestEvaluator()
	l := value.NewList(value.NewListVal(value.NewFloat(10), value.NewFloat(20), value.NewFloat(30)))
	lo, ok, err := ev.callBuiltin("interp", []value.Value{l, value.NewFloat(0)})
	require.True(t, ok)
	require.NoError(t, err)
	assert.Equal(t, 10.0, lo.Float())

	hi, ok, err := ev.callBuiltin("interp", []value.Value{l, value.NewFloat(1)})
	require.True(t, ok)
	require.NoError(t, err)
	assert.Equal(t, 30.0, hi.Float())
}

// Invariant 7 — index(L,v)==i iff L[i]==v and no earlier element matches.
func TestInvariant7_Index(t *testing.T) {
	ev, _, _ := newTestEvaluator()
	l := value.NewList(value.NewListVal(value.NewFloat(5), value.NewFloat(6), value.NewFloat(5)))
	v, ok, err := ev.callBuiltin("index", []value.Value{l, value.NewFloat(5)})
	require.True(t, ok)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v.Float())

	v, _, _ = ev.callBuiltin("index", []value.Value{l, value.NewFloat(99)})
	assert.Equal(t, -1.0, v.Float())
}

func TestUndefinedIdentifierIsFatal(t *testing.T) {
	ev, _, _ := newTestEvaluator()
	_, err := ev.Run(LoadSym{Name: "nope"})
	require.Error(t, err)
}

func TestBusLoopStyleFatalPropagatesAsError(t *testing.T) {
	ev, _, _ := newTestEvaluator()
	v, err := ev.Run(Seq{
		A: Store{Lhs: LoadSym{Name: "y"}, Rhs: Constf{Val: 1}, AllowTypeOverwrite: true},
		B: LoadSym{Name: "still_undefined"},
	})
	require.Error(t, err)
	assert.True(t, v.IsVoid())
}

func TestSubstringConcatenationInvariant(t *testing.T) {
	ev, _, _ := newTestEvaluator()
	s := value.NewString("hello world")
	i, j := 2, 7
	left, ok, err := ev.callBuiltin("substring", []value.Value{s, value.NewFloat(float64(i)), value.NewFloat(float64(j))})
	require.True(t, ok)
	require.NoError(t, err)
	right, ok, err := ev.callBuiltin("substring", []value.Value{s, value.NewFloat(float64(j)), value.NewFloat(11)})
	require.True(t, ok)
	require.NoError(t, err)
	whole, ok, err := ev.callBuiltin("substring", []value.Value{s, value.NewFloat(float64(i)), value.NewFloat(11)})
	require.True(t, ok)
	require.NoError(t, err)
	assert.Equal(t, whole.Str(), left.Str()+right.Str())
}
