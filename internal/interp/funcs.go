package interp

import (
	"github.com/rtcmix/rtcore/internal/symtab"
	"github.com/rtcmix/rtcore/internal/value"
)

// evalFuncDef binds a Function value (argument declarations + body) onto
// the symbol FuncDecl/MethodDecl already installed.
func (ev *Evaluator) evalFuncDef(node FuncDef) (value.Value, Control) {
	name := ""
	global := true
	switch decl := node.Decl.(type) {
	case FuncDecl:
		name = decl.Name
	case MethodDecl:
		name = value.Mangle(decl.StructName, decl.Name)
	default:
		ev.fatal(22, "function definition without a preceding declaration")
	}

	sym, ok := ev.Table.LookupSymbol(name, symtab.GlobalLevel)
	if !ok {
		sym = ev.Table.InstallSymbol(name, global)
	}

	args := make([]value.ArgDecl, len(node.ArgNames))
	for i, n := range node.ArgNames {
		args[i] = value.ArgDecl{Name: n}
	}
	fn := value.NewFuncVal(name, args, node.IsMethod, node.Body)
	sym.Val = value.NewFunction(fn)
	return sym.Val, Normal
}

// evalCall implements the §4.3 call protocol: evaluate the target (which
// may stage a pending "this" via MemberAccess), evaluate the argument
// expressions into a fresh frame, then either enter a new call frame for a
// Function value or dispatch by name for a String value.
func (ev *Evaluator) evalCall(node Call) (value.Value, Control) {
	thisDepthBefore := len(ev.thisStack)
	target, ctl := ev.eval(node.Target)
	if ctl == Returning {
		return target, ctl
	}

	var thisVal value.Value
	hasThis := false
	if len(ev.thisStack) > thisDepthBefore {
		thisVal = ev.thisStack[len(ev.thisStack)-1]
		ev.thisStack = ev.thisStack[:len(ev.thisStack)-1]
		hasThis = true
	}

	if len(ev.argStack) >= MaxStack {
		ev.fatal(23, "argument-list stack overflow (MAXSTACK=%d)", MaxStack)
	}
	ev.argStack = append(ev.argStack, nil)
	args := make([]value.Value, 0, len(node.Args))
	for _, a := range node.Args {
		v, ctl := ev.eval(a)
		if ctl == Returning {
			ev.argStack = ev.argStack[:len(ev.argStack)-1]
			return v, ctl
		}
		args = append(args, v)
	}
	ev.argStack = ev.argStack[:len(ev.argStack)-1]

	switch target.Kind() {
	case value.Function:
		return ev.callFunction(target.FuncVal(), args, hasThis, thisVal)
	case value.String:
		return ev.callByName(target.Str(), args)
	default:
		ev.fatal(24, "cannot call a value of kind %s", target.Kind())
		return value.NewVoid(), Normal
	}
}

func (ev *Evaluator) callByName(name string, args []value.Value) (value.Value, Control) {
	if v, ok, err := ev.callBuiltin(name, args); ok {
		if err != nil {
			ev.Warn("builtin %q: %v", name, err)
		}
		return v, Normal
	}
	if ev.External != nil {
		if v, ok, err := ev.External(name, args); ok {
			if err != nil {
				ev.fatal(25, "external function %q failed: %v", name, err)
			}
			return v, Normal
		}
	}
	ev.fatal(26, "function %q not found", name)
	return value.NewVoid(), Normal
}

// callFunction executes fn's body in a fresh scope bracketed by
// PushFunctionStack/PushScope and the symmetric pop pair — matching
// symtab's documented protocol exactly, so a Ret's nonlocal exit (handled
// by ordinary Go call-stack unwinding through eval, with Block's deferred
// PopScope already restoring any nested block scopes) leaves exactly these
// two scopes to be popped here regardless of whether the body returned
// normally or via Ret.
func (ev *Evaluator) callFunction(fn *value.FuncVal, args []value.Value, hasThis bool, thisVal value.Value) (value.Value, Control) {
	if ev.Table.CallDepth() >= MaxStack {
		ev.fatal(27, "call stack overflow (MAXSTACK=%d)", MaxStack)
	}

	ev.Table.PushFunctionStack(fn.Name)
	ev.Table.PushScope()
	defer func() {
		ev.Table.PopScope()
		ev.Table.PopFunctionStack()
	}()

	if hasThis {
		sym := ev.Table.InstallSymbol("this", false)
		sym.Val = thisVal
	} else if fn.IsMethod {
		ev.fatal(28, "method %q called without a receiver", fn.Name)
	}

	if len(args) > len(fn.Args) {
		ev.fatal(29, "too many arguments to %q: expected %d, got %d", fn.Name, len(fn.Args), len(args))
	}
	for i, decl := range fn.Args {
		sym := ev.Table.InstallSymbol(decl.Name, false)
		if i < len(args) {
			sym.Val = args[i]
		} else {
			sym.Val = value.NewFloat(0)
			ev.Warn("argument %q defaulted in call to %q", decl.Name, fn.Name)
		}
	}

	body, _ := fn.Body.(Node)
	if body == nil {
		return value.NewVoid(), Normal
	}
	result, _ := ev.eval(body)
	return result, Normal
}
