package interp

import (
	"github.com/rtcmix/rtcore/internal/symtab"
	"github.com/rtcmix/rtcore/internal/value"
)

// lvalueSlot resolves n to a pointer into its backing storage, for nodes
// that can appear on the left of Store/OpAssign/SubscriptWrite: a plain
// symbol reference, or a struct field reached through MemberAccess. Other
// expressions are not assignable in place and return ok=false.
func (ev *Evaluator) lvalueSlot(n Node) (slot *value.Value, ctl Control, ok bool) {
	switch node := n.(type) {
	case LoadSym:
		sym, found := ev.Table.LookupSymbol(node.Name, symtab.AnyLevel)
		if !found {
			sym = ev.Table.LookupOrAutodeclare(node.Name, ev.Table.CallDepth() > 0)
		}
		return &sym.Val, Normal, true

	case AutoDeclLoadSym:
		sym := ev.Table.LookupOrAutodeclare(node.Name, ev.Table.CallDepth() > 0)
		return &sym.Val, Normal, true

	case MemberAccess:
		obj, c := ev.eval(node.Obj)
		if c == Returning {
			return nil, c, false
		}
		if obj.Kind() != value.Struct {
			ev.fatal(20, "member assignment target is not a struct (got %s)", obj.Kind())
		}
		st := obj.StructVal()
		idx := st.Type.IndexOf(node.Name)
		if idx < 0 {
			ev.fatal(21, "struct %s has no member %q", st.Type.Name, node.Name)
		}
		return &st.Members[idx], Normal, true

	default:
		return nil, Normal, false
	}
}
