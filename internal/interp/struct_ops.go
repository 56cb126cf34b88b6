package interp

import "github.com/rtcmix/rtcore/internal/value"

// evalStructDef registers a new struct type with its member declarations.
// Per spec.md §7, defining a struct type outside the global scope (inside a
// block or a function call) is fatal.
func (ev *Evaluator) evalStructDef(node StructDef) (value.Value, Control) {
	if ev.Table.CurrentScope() > 0 {
		ev.fatal(30, "struct %q declared at non-global scope", node.Name)
	}
	st := ev.Table.InstallStructType(node.Name, true)
	for _, m := range node.Members {
		var sub *value.StructType
		if m.Kind == value.Struct {
			found, ok := ev.Table.LookupStructType(m.SubType)
			if !ok {
				ev.fatal(31, "unknown struct type %q referenced by member %q", m.SubType, m.Name)
			}
			sub = found
		}
		st.Members = append(st.Members, value.MemberDecl{Name: m.Name, Kind: m.Kind, SubType: sub})
	}
	return value.NewVoid(), Normal
}

// evalStructDecl instantiates a registered struct type, optionally copying
// an initializer list into members element-wise with type checking.
func (ev *Evaluator) evalStructDecl(node StructDecl) (value.Value, Control) {
	st, ok := ev.Table.LookupStructType(node.TypeName)
	if !ok {
		ev.fatal(32, "unknown struct type %q", node.TypeName)
	}
	inst := value.NewStructVal(st)

	if len(node.Inits) > 0 {
		if len(node.Inits) > len(st.Members) {
			ev.fatal(33, "too many initializers for struct %q: expected %d, got %d", node.TypeName, len(st.Members), len(node.Inits))
		}
		for i, initNode := range node.Inits {
			v, ctl := ev.eval(initNode)
			if ctl == Returning {
				return v, ctl
			}
			if v.Kind() != st.Members[i].Kind {
				ev.Warn("initializer %d for struct %q has type %s, expected %s", i, node.TypeName, v.Kind(), st.Members[i].Kind)
				continue
			}
			inst.Members[i] = v
		}
	}

	structVal := value.NewStruct(inst)
	if node.VarName != "" {
		sym := ev.Table.InstallSymbol(node.VarName, ev.Table.CallDepth() == 0)
		sym.Val = structVal
	}
	return structVal, Normal
}
