package interp

import (
	"fmt"

	"github.com/rtcmix/rtcore/internal/diag"
	"github.com/rtcmix/rtcore/internal/symtab"
	"github.com/rtcmix/rtcore/internal/value"
)

// MaxStack bounds the argument-list stack shared by nested list literals and
// call-argument evaluation (spec.md §4.3's MAXSTACK cap), and separately
// bounds the call depth.
const MaxStack = 256

// Control tags whether an Eval call completed normally or is carrying a
// nonlocal return out of the enclosing Call. Modeled as a plain tagged pair
// threaded through eval rather than a panic/recover exception, per the
// design note favoring a Result-style return in exception-free targets.
type Control int

const (
	Normal Control = iota
	Returning
)

// ExternalCallFunc is the host collaborator consulted when a Call's target
// resolves to a builtin-table miss (spec.md §6's call_external_function).
type ExternalCallFunc func(name string, args []value.Value) (value.Value, bool, error)

// Evaluator threads every piece of implicit interpreter state — symbol
// table, diagnostics, the this-stack for method dispatch, and the
// argument-list stack — through one recursive walk, replacing the source's
// package-level globals (spec.md §9).
type Evaluator struct {
	Table    *symtab.Table
	Diag     *diag.Logger
	HandleOp value.HandleOpFunc
	External ExternalCallFunc

	PrintListLimit int
	Print          PrintFunc

	thisStack []value.Value
	argStack  [][]value.Value
}

// PrintFunc receives the formatted text produced by print/printf.
type PrintFunc func(s string)

func New(t *symtab.Table, d *diag.Logger) *Evaluator {
	return &Evaluator{
		Table:          t,
		Diag:           d,
		PrintListLimit: 8,
		Print:          func(s string) { fmt.Print(s) },
	}
}

// Warn satisfies value.Reporter and symtab.Reporter by forwarding to Diag.
func (ev *Evaluator) Warn(format string, args ...any) { ev.Diag.Warn(format, args...) }

// fatal raises a Die-severity diagnostic and aborts the current pass by
// panicking with the resulting *diag.FatalError; Run recovers it at the
// single top-level chokepoint so callers see a plain error, not a panic.
func (ev *Evaluator) fatal(code int, format string, args ...any) {
	panic(ev.Diag.Die(code, format, args...))
}

// Run evaluates root as a full score pass, converting an internal fatal
// abort into a returned error.
func (ev *Evaluator) Run(root Node) (result value.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			if fe, ok := r.(*diag.FatalError); ok {
				err = fe
				return
			}
			panic(r)
		}
	}()
	result, _ = ev.eval(root)
	return result, nil
}

func truthy(v value.Value) bool {
	return v.Kind() == value.Float && v.Float() != 0
}

func boolFloat(b bool) value.Value {
	if b {
		return value.NewFloat(1)
	}
	return value.NewFloat(0)
}

// eval is the recursive tree walk. It returns the node's value and whether
// evaluation is carrying a nonlocal return upward.
func (ev *Evaluator) eval(n Node) (value.Value, Control) {
	switch node := n.(type) {

	case Constf:
		return value.NewFloat(node.Val), Normal

	case String:
		return value.NewString(node.Val), Normal

	case LoadSym:
		sym, ok := ev.Table.LookupSymbol(node.Name, symtab.AnyLevel)
		if !ok {
			ev.fatal(1, "undefined identifier %q", node.Name)
		}
		return sym.Val, Normal

	case AutoDeclLoadSym:
		sym := ev.Table.LookupOrAutodeclare(node.Name, ev.Table.CallDepth() > 0)
		return sym.Val, Normal

	case LoadFuncSym:
		sym, ok := ev.Table.LookupSymbol(node.Name, symtab.AnyLevel)
		if ok && sym.Val.Kind() == value.Function {
			return sym.Val, Normal
		}
		return value.NewString(node.Name), Normal

	case List:
		if len(ev.argStack) >= MaxStack {
			ev.fatal(2, "list-literal stack overflow (MAXSTACK=%d)", MaxStack)
		}
		ev.argStack = append(ev.argStack, nil)
		defer func() { ev.argStack = ev.argStack[:len(ev.argStack)-1] }()
		elems := make([]value.Value, 0, len(node.Elems))
		for _, e := range node.Elems {
			v, ctl := ev.eval(e)
			if ctl == Returning {
				return v, ctl
			}
			elems = append(elems, v)
		}
		return value.NewList(value.NewListVal(elems...)), Normal

	case ListElem:
		return ev.eval(node.Expr)

	case SubscriptRead:
		return ev.evalSubscriptRead(node)

	case SubscriptWrite:
		return ev.evalSubscriptWrite(node)

	case MemberAccess:
		return ev.evalMemberAccess(node)

	case Store:
		return ev.evalStore(node)

	case OpAssign:
		return ev.evalOpAssign(node)

	case Operator:
		l, ctl := ev.eval(node.L)
		if ctl == Returning {
			return l, ctl
		}
		r, ctl := ev.eval(node.R)
		if ctl == Returning {
			return r, ctl
		}
		return value.BinaryOp(node.Op, l, r, ev.HandleOp, ev), Normal

	case UnaryOperator:
		v, ctl := ev.eval(node.Operand)
		if ctl == Returning {
			return v, ctl
		}
		return value.UnaryNeg(v, ev), Normal

	case And:
		l, ctl := ev.eval(node.L)
		if ctl == Returning {
			return l, ctl
		}
		if !truthy(l) {
			return value.NewFloat(0), Normal
		}
		r, ctl := ev.eval(node.R)
		if ctl == Returning {
			return r, ctl
		}
		return boolFloat(truthy(r)), Normal

	case Or:
		l, ctl := ev.eval(node.L)
		if ctl == Returning {
			return l, ctl
		}
		if truthy(l) {
			return value.NewFloat(1), Normal
		}
		r, ctl := ev.eval(node.R)
		if ctl == Returning {
			return r, ctl
		}
		return boolFloat(truthy(r)), Normal

	case Not:
		v, ctl := ev.eval(node.Operand)
		if ctl == Returning {
			return v, ctl
		}
		return boolFloat(!truthy(v)), Normal

	case Relation:
		l, ctl := ev.eval(node.L)
		if ctl == Returning {
			return l, ctl
		}
		r, ctl := ev.eval(node.R)
		if ctl == Returning {
			return r, ctl
		}
		if node.Op == "==" || node.Op == "!=" {
			return value.CompareEq(node.Op == "==", l, r, ev), Normal
		}
		return value.CompareOrder(node.Op, l, r, ev), Normal

	case If:
		cond, ctl := ev.eval(node.Cond)
		if ctl == Returning {
			return cond, ctl
		}
		if truthy(cond) {
			return ev.eval(node.Then)
		}
		return value.NewVoid(), Normal

	case IfElse:
		cond, ctl := ev.eval(node.Cond)
		if ctl == Returning {
			return cond, ctl
		}
		if truthy(cond) {
			return ev.eval(node.Then)
		}
		return ev.eval(node.Else)

	case While:
		for {
			cond, ctl := ev.eval(node.Cond)
			if ctl == Returning {
				return cond, ctl
			}
			if !truthy(cond) {
				return value.NewVoid(), Normal
			}
			v, ctl := ev.eval(node.Body)
			if ctl == Returning {
				return v, ctl
			}
		}

	case For:
		if node.Init != nil {
			if _, ctl := ev.eval(node.Init); ctl == Returning {
				return value.NewVoid(), ctl
			}
		}
		for {
			if node.Cond != nil {
				cond, ctl := ev.eval(node.Cond)
				if ctl == Returning {
					return cond, ctl
				}
				if !truthy(cond) {
					break
				}
			}
			if v, ctl := ev.eval(node.Body); ctl == Returning {
				return v, ctl
			}
			if node.Step != nil {
				if v, ctl := ev.eval(node.Step); ctl == Returning {
					return v, ctl
				}
			}
		}
		return value.NewVoid(), Normal

	case Block:
		ev.Table.PushScope()
		defer ev.Table.PopScope()
		return ev.eval(node.Body)

	case Seq:
		v, ctl := ev.eval(node.A)
		if ctl == Returning {
			return v, ctl
		}
		return ev.eval(node.B)

	case FuncBodySeq:
		if node.Body != nil {
			v, ctl := ev.eval(node.Body)
			if ctl == Returning {
				return v, ctl
			}
		}
		if node.Ret != nil {
			return ev.eval(node.Ret)
		}
		return value.NewVoid(), Normal

	case FuncDecl:
		if _, ok := ev.Table.LookupSymbol(node.Name, symtab.GlobalLevel); ok {
			ev.fatal(3, "function %q redeclared", node.Name)
		}
		ev.Table.InstallSymbol(node.Name, true)
		return value.NewVoid(), Normal

	case MethodDecl:
		mangled := value.Mangle(node.StructName, node.Name)
		ev.Table.InstallSymbol(mangled, true)
		return value.NewVoid(), Normal

	case FuncDef:
		return ev.evalFuncDef(node)

	case Ret:
		v, ctl := ev.eval(node.Expr)
		if ctl == Returning {
			return v, ctl
		}
		return v, Returning

	case Call:
		return ev.evalCall(node)

	case StructDef:
		return ev.evalStructDef(node)

	case StructDecl:
		return ev.evalStructDecl(node)

	case ArgList, ArgListElem, MemberDeclNode:
		// Executed directly by evalCall/evalStructDef, never reached via
		// the generic walk.
		return value.NewVoid(), Normal

	default:
		ev.fatal(4, "interp: unhandled node type %T", n)
		return value.NewVoid(), Normal
	}
}
