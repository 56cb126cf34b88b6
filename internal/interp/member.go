package interp

import (
	"github.com/rtcmix/rtcore/internal/symtab"
	"github.com/rtcmix/rtcore/internal/value"
)

// evalMemberAccess reads a struct field, or, on a field-name miss, resolves
// the mangled method symbol and stages the receiver on ev.thisStack for the
// next Call to consume.
func (ev *Evaluator) evalMemberAccess(node MemberAccess) (value.Value, Control) {
	obj, ctl := ev.eval(node.Obj)
	if ctl == Returning {
		return obj, ctl
	}
	if obj.Kind() != value.Struct {
		ev.fatal(19, "member access %q on non-struct value of kind %s", node.Name, obj.Kind())
	}
	st := obj.StructVal()
	if v, ok := st.Get(node.Name); ok {
		return v, Normal
	}

	mangled := value.Mangle(st.Type.Name, node.Name)
	sym, ok := ev.Table.LookupSymbol(mangled, symtab.GlobalLevel)
	if !ok || sym.Val.Kind() != value.Function {
		ev.fatal(19, "struct %s has no member or method %q", st.Type.Name, node.Name)
	}
	ev.thisStack = append(ev.thisStack, obj)
	return sym.Val, Normal
}
