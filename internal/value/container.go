package value

import "sync/atomic"

// ListVal, MapVal, StructVal and FuncVal are the reference-counted container
// payloads behind List/Map/Struct/Function Values. Lists and Maps are shared
// by reference per spec: assignment aliases them rather than copying.
//
// The surface language cannot express back-references from a container into
// itself (no Value kind holds a pointer back into its own container chain),
// so plain reference counting is sufficient — no cycle collector is needed.

// ListVal is an ordered, resizable sequence of Values.
type ListVal struct {
	refs  int32
	Elems []Value
}

func NewListVal(elems ...Value) *ListVal {
	return &ListVal{Elems: elems}
}

func (l *ListVal) Retain() { atomic.AddInt32(&l.refs, 1) }
func (l *ListVal) Release() {
	if atomic.AddInt32(&l.refs, -1) < 0 {
		panic("value: ListVal released more times than retained")
	}
}

func (l *ListVal) Len() int { return len(l.Elems) }

// Resolve maps a (possibly negative, possibly fractional) index per the
// SubscriptRead contract to the element pair lo, hi = lo+1 and the
// interpolation fraction between them. Negative indices count from the end.
// The result is not range-checked; callers clamp and warn themselves.
func (l *ListVal) Resolve(idx float64) (lo, hi int, frac float64) {
	n := len(l.Elems)
	i := int(idx)
	if idx != float64(i) {
		// fractional: interpolate between floor and floor+1
		if idx < 0 {
			i = int(idx) - 1
		} else {
			i = int(idx)
		}
		frac = idx - float64(i)
	}
	if i < 0 {
		i = n + i
	}
	lo = i
	hi = i + 1
	return lo, hi, frac
}

// Grow pads the list with zero Floats up to length n.
func (l *ListVal) Grow(n int) {
	for len(l.Elems) < n {
		l.Elems = append(l.Elems, NewFloat(0))
	}
}

// MapVal is an ordered Value→Value mapping with deterministic (insertion)
// key order. Lookup is by typed equality; container sizes in this language
// are small enough that linear scan is the right trade-off over hashing
// arbitrary Value kinds.
type MapVal struct {
	refs int32
	keys []Value
	vals []Value
}

func NewMapVal() *MapVal { return &MapVal{} }

func (m *MapVal) Retain() { atomic.AddInt32(&m.refs, 1) }
func (m *MapVal) Release() {
	if atomic.AddInt32(&m.refs, -1) < 0 {
		panic("value: MapVal released more times than retained")
	}
}

func (m *MapVal) Len() int { return len(m.keys) }

func (m *MapVal) indexOf(key Value) int {
	for i, k := range m.keys {
		if Equal(k, key) {
			return i
		}
	}
	return -1
}

func (m *MapVal) Get(key Value) (Value, bool) {
	i := m.indexOf(key)
	if i < 0 {
		return Value{}, false
	}
	return m.vals[i], true
}

func (m *MapVal) Set(key, val Value) {
	if i := m.indexOf(key); i >= 0 {
		m.vals[i] = val
		return
	}
	m.keys = append(m.keys, key)
	m.vals = append(m.vals, val)
}

func (m *MapVal) Contains(key Value) bool { return m.indexOf(key) >= 0 }

func (m *MapVal) Keys() []Value { return m.keys }

// MemberDecl is one entry of a registered StructType: a named, typed member.
type MemberDecl struct {
	Name    string
	Kind    Kind
	SubType *StructType // set when Kind == Struct
}

// StructType is a registered template: an ordered list of typed members.
type StructType struct {
	Name    string
	Members []MemberDecl
}

func (t *StructType) IndexOf(name string) int {
	for i, m := range t.Members {
		if m.Name == name {
			return i
		}
	}
	return -1
}

// StructVal is an instance of a StructType: an ordered set of member Values
// parallel to its Type.Members.
type StructVal struct {
	refs    int32
	Type    *StructType
	Members []Value
}

func NewStructVal(t *StructType) *StructVal {
	members := make([]Value, len(t.Members))
	for i := range members {
		members[i] = NewVoid()
	}
	return &StructVal{Type: t, Members: members}
}

func (s *StructVal) Retain() { atomic.AddInt32(&s.refs, 1) }
func (s *StructVal) Release() {
	if atomic.AddInt32(&s.refs, -1) < 0 {
		panic("value: StructVal released more times than retained")
	}
}

func (s *StructVal) Get(name string) (Value, bool) {
	i := s.Type.IndexOf(name)
	if i < 0 {
		return Value{}, false
	}
	return s.Members[i], true
}

func (s *StructVal) Set(name string, v Value) bool {
	i := s.Type.IndexOf(name)
	if i < 0 {
		return false
	}
	s.Members[i] = v
	return true
}

// Mangle encodes (structName, methodName) into the reserved global function
// key under which a method is stored.
func Mangle(structName, methodName string) string {
	return "$" + structName + "::" + methodName
}

// ArgDecl is one formal parameter of a Function.
type ArgDecl struct {
	Name string
}

// FuncVal is a bound AST: argument declarations plus a body, with an
// optional method flag. Body is deliberately untyped (any) so this package
// has no dependency on the interp package's AST node type — the
// interpreter stores its interp.Node here and type-asserts it back out.
type FuncVal struct {
	refs     int32
	Name     string
	Args     []ArgDecl
	IsMethod bool
	Body     any
}

func NewFuncVal(name string, args []ArgDecl, isMethod bool, body any) *FuncVal {
	return &FuncVal{Name: name, Args: args, IsMethod: isMethod, Body: body}
}

func (f *FuncVal) retain() { atomic.AddInt32(&f.refs, 1) }
func (f *FuncVal) Release() {
	if atomic.AddInt32(&f.refs, -1) < 0 {
		panic("value: FuncVal released more times than retained")
	}
}

func (h *HandleVal) retain() { atomic.AddInt32(&h.refs, 1) }
func (h *HandleVal) Release() {
	if atomic.AddInt32(&h.refs, -1) < 0 {
		panic("value: HandleVal released more times than retained")
	}
}
