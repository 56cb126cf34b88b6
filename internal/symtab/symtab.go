// Package symtab implements the score language's lexical scope stack: a
// global scope at index 0 plus one scope per block/function body, the
// struct-type registry, and the function-call-frame bracketing that lets
// nonlocal control transfer (see package interp) unwind safely.
package symtab

import (
	"github.com/rtcmix/rtcore/internal/value"
)

// LookupMode selects which scopes lookupSymbol searches.
type LookupMode int

const (
	ThisLevel LookupMode = iota
	GlobalLevel
	AnyLevel
)

// Reporter receives advisory diagnostics (shadowing warnings).
type Reporter interface {
	Warn(format string, args ...any)
}

// Symbol binds a name to a Value and a declared Kind within a Scope.
type Symbol struct {
	Name     string
	Declared value.Kind // value.Void means untyped until first store
	Val      value.Value
	auto     bool // installed via lookupOrAutodeclare
}

func (s *Symbol) Auto() bool { return s.auto }

type scope struct {
	symbols map[string]*Symbol
	// boundary marks a scope pushed at function-call entry; installSymbol
	// uses it to detect shadowing across a call boundary.
	boundary bool
}

func newScope(boundary bool) *scope {
	return &scope{symbols: make(map[string]*Symbol), boundary: boundary}
}

// Table owns every Symbol reachable from the current evaluation. It is not
// safe for concurrent use — score evaluation is single-threaded relative to
// itself (spec.md §5) and the Table is used by exactly one evaluation at a
// time.
type Table struct {
	scopes      []*scope
	structTypes map[string]*value.StructType
	funcStack   []string // called-function names, for diagnostics
	rep         Reporter
}

func New(rep Reporter) *Table {
	t := &Table{structTypes: make(map[string]*value.StructType), rep: rep}
	t.scopes = append(t.scopes, newScope(false)) // global scope, index 0
	return t
}

// CurrentScope returns the index of the innermost scope.
func (t *Table) CurrentScope() int { return len(t.scopes) - 1 }

// RestoreScope pops every scope above the given saved index, leaving the
// scope at that index current.
func (t *Table) RestoreScope(saved int) {
	if saved < 0 || saved >= len(t.scopes) {
		panic("symtab: RestoreScope index out of range")
	}
	t.scopes = t.scopes[:saved+1]
}

// PushScope pushes a new block scope.
func (t *Table) PushScope() { t.scopes = append(t.scopes, newScope(false)) }

// PopScope pops the innermost scope. Symbols owned by it become unreachable
// from the Table; any Values they held remain live through container
// reference counting if still shared elsewhere.
func (t *Table) PopScope() {
	if len(t.scopes) <= 1 {
		panic("symtab: cannot pop the global scope")
	}
	t.scopes = t.scopes[:len(t.scopes)-1]
}

// PushFunctionStack brackets a call: it pushes a boundary-marked scope (so
// shadowing checks and nonlocal-return unwinding both see where the call
// began) and records the callee name for diagnostics.
func (t *Table) PushFunctionStack(name string) {
	t.funcStack = append(t.funcStack, name)
	t.scopes = append(t.scopes, newScope(true))
}

// PopFunctionStack undoes PushFunctionStack's scope push and name record.
func (t *Table) PopFunctionStack() {
	if len(t.funcStack) == 0 {
		panic("symtab: function stack underflow")
	}
	t.funcStack = t.funcStack[:len(t.funcStack)-1]
	t.scopes = t.scopes[:len(t.scopes)-1]
}

// CallDepth returns the number of active call frames, for MAXSTACK-style
// recursion guards in package interp.
func (t *Table) CallDepth() int { return len(t.funcStack) }

func (t *Table) CurrentCalleeName() string {
	if len(t.funcStack) == 0 {
		return ""
	}
	return t.funcStack[len(t.funcStack)-1]
}

// LookupSymbol resolves name under the given mode.
func (t *Table) LookupSymbol(name string, mode LookupMode) (*Symbol, bool) {
	switch mode {
	case ThisLevel:
		sym, ok := t.scopes[len(t.scopes)-1].symbols[name]
		return sym, ok
	case GlobalLevel:
		sym, ok := t.scopes[0].symbols[name]
		return sym, ok
	default: // AnyLevel: innermost outward
		for i := len(t.scopes) - 1; i >= 0; i-- {
			if sym, ok := t.scopes[i].symbols[name]; ok {
				return sym, true
			}
		}
		return nil, false
	}
}

// InstallSymbol always creates a new Symbol at the designated scope.
// Shadowing an outer binding is permitted; shadowing one that lives beyond
// a function-call boundary raises an advisory warning.
func (t *Table) InstallSymbol(name string, global bool) *Symbol {
	target := len(t.scopes) - 1
	if global {
		target = 0
	}

	if t.shadowsAcrossBoundary(name, target) {
		t.rep.Warn("symbol %q shadows a binding across a function-call boundary", name)
	}

	sym := &Symbol{Name: name, Declared: value.Void}
	t.scopes[target].symbols[name] = sym
	return sym
}

func (t *Table) shadowsAcrossBoundary(name string, target int) bool {
	crossedBoundary := false
	for i := target - 1; i >= 0; i-- {
		if t.scopes[i+1].boundary {
			crossedBoundary = true
		}
		if _, ok := t.scopes[i].symbols[name]; ok && crossedBoundary {
			return true
		}
	}
	return false
}

// LookupOrAutodeclare returns the existing AnyLevel binding for name, or
// installs one in the current scope if absent. insideCalledFunction is
// advisory only (used by callers to tailor the "arg defaulted" diagnostic).
func (t *Table) LookupOrAutodeclare(name string, insideCalledFunction bool) *Symbol {
	if sym, ok := t.LookupSymbol(name, AnyLevel); ok {
		return sym
	}
	sym := t.InstallSymbol(name, false)
	sym.auto = true
	return sym
}

// InstallStructType registers a new struct-type template.
func (t *Table) InstallStructType(name string, global bool) *value.StructType {
	st := &value.StructType{Name: name}
	t.structTypes[name] = st
	return st
}

func (t *Table) LookupStructType(name string) (*value.StructType, bool) {
	st, ok := t.structTypes[name]
	return st, ok
}
