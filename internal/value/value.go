// Package value implements the score language's tagged value union: Float,
// String, Handle, List, Map, Struct, Function, and Void, along with typed
// equality/comparison and the binary/unary operator table.
package value

import "fmt"

// Kind tags a Value's dynamic type.
type Kind int

const (
	Void Kind = iota
	Float
	String
	Handle
	List
	Map
	Struct
	Function
)

func (k Kind) String() string {
	switch k {
	case Void:
		return "void"
	case Float:
		return "float"
	case String:
		return "string"
	case Handle:
		return "handle"
	case List:
		return "list"
	case Map:
		return "map"
	case Struct:
		return "struct"
	case Function:
		return "function"
	default:
		return "unknown"
	}
}

// Value is the tagged union every score-language expression evaluates to.
type Value struct {
	kind Kind
	f    float64
	s    string
	h    *HandleVal
	list *ListVal
	m    *MapVal
	st   *StructVal
	fn   *FuncVal
}

// HandleVal wraps an opaque, externally owned signal object.
type HandleVal struct {
	refs     int32
	Obj      any
	TypeName string
}

func NewFloat(f float64) Value  { return Value{kind: Float, f: f} }
func NewString(s string) Value  { return Value{kind: String, s: s} }
func NewVoid() Value            { return Value{kind: Void} }
func NewHandle(h *HandleVal) Value {
	if h != nil {
		h.retain()
	}
	return Value{kind: Handle, h: h}
}
func NewList(l *ListVal) Value {
	if l != nil {
		l.Retain()
	}
	return Value{kind: List, list: l}
}
func NewMap(m *MapVal) Value {
	if m != nil {
		m.Retain()
	}
	return Value{kind: Map, m: m}
}
func NewStruct(s *StructVal) Value {
	if s != nil {
		s.Retain()
	}
	return Value{kind: Struct, st: s}
}
func NewFunction(fn *FuncVal) Value {
	if fn != nil {
		fn.retain()
	}
	return Value{kind: Function, fn: fn}
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsVoid() bool { return v.kind == Void }

func (v Value) Float() float64 {
	if v.kind != Float {
		panic(fmt.Sprintf("value: Float() called on %s", v.kind))
	}
	return v.f
}

func (v Value) Str() string {
	if v.kind != String {
		panic(fmt.Sprintf("value: Str() called on %s", v.kind))
	}
	return v.s
}

func (v Value) HandleVal() *HandleVal {
	if v.kind != Handle {
		panic(fmt.Sprintf("value: HandleVal() called on %s", v.kind))
	}
	return v.h
}

func (v Value) ListVal() *ListVal {
	if v.kind != List {
		panic(fmt.Sprintf("value: ListVal() called on %s", v.kind))
	}
	return v.list
}

func (v Value) MapVal() *MapVal {
	if v.kind != Map {
		panic(fmt.Sprintf("value: MapVal() called on %s", v.kind))
	}
	return v.m
}

func (v Value) StructVal() *StructVal {
	if v.kind != Struct {
		panic(fmt.Sprintf("value: StructVal() called on %s", v.kind))
	}
	return v.st
}

func (v Value) FuncVal() *FuncVal {
	if v.kind != Function {
		panic(fmt.Sprintf("value: FuncVal() called on %s", v.kind))
	}
	return v.fn
}

// TypeName implements the `type()` builtin.
func (v Value) TypeName() string { return v.kind.String() }

// ToString implements the `tostring()` builtin: canonical Float formatting.
func (v Value) ToString() string {
	switch v.kind {
	case Float:
		return fmt.Sprintf("%g", v.f)
	case String:
		return v.s
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Equal implements typed equality: two Values compare equal only if their
// tags match and their contents match.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Void:
		return true
	case Float:
		return a.f == b.f
	case String:
		return a.s == b.s
	case Handle:
		return a.h == b.h
	case List:
		return a.list == b.list || listsEqual(a.list, b.list)
	case Map:
		return a.m == b.m
	case Struct:
		return a.st == b.st
	case Function:
		return a.fn == b.fn
	default:
		return false
	}
}

func listsEqual(a, b *ListVal) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.Elems) != len(b.Elems) {
		return false
	}
	for i := range a.Elems {
		if !Equal(a.Elems[i], b.Elems[i]) {
			return false
		}
	}
	return true
}

// Orderable reports whether a and b's shared kind supports <, <=, >, >=.
func Orderable(a, b Value) bool {
	return a.kind == b.kind && (a.kind == Float || a.kind == String)
}

// Less is defined only for Float and String; callers must check Orderable.
func Less(a, b Value) bool {
	switch a.kind {
	case Float:
		return a.f < b.f
	case String:
		return a.s < b.s
	default:
		return false
	}
}
