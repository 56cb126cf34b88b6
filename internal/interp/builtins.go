package interp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rtcmix/rtcore/internal/value"
)

// callBuiltin dispatches to one of the core's own builtins (spec.md §6).
// ok is false when name does not name a builtin, so callByName can fall
// through to the external-function table.
func (ev *Evaluator) callBuiltin(name string, args []value.Value) (v value.Value, ok bool, err error) {
	switch name {
	case "print":
		return ev.builtinPrint(args), true, nil
	case "printf":
		return ev.builtinPrintf(args)
	case "error":
		return ev.builtinError(args)
	case "len":
		return ev.builtinLen(args)
	case "interp":
		return ev.builtinInterp(args)
	case "index":
		return ev.builtinIndex(args)
	case "contains":
		return ev.builtinContains(args)
	case "type":
		return ev.builtinType(args)
	case "tostring":
		return ev.builtinToString(args)
	case "substring":
		return ev.builtinSubstring(args)
	default:
		return value.Value{}, false, nil
	}
}

func (ev *Evaluator) builtinPrint(args []value.Value) value.Value {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = ev.render(a)
	}
	ev.Print(strings.Join(parts, " ") + "\n")
	return value.NewVoid()
}

// render formats a Value for print/%l/%z, truncating Lists to
// PrintListLimit elements.
func (ev *Evaluator) render(v value.Value) string {
	switch v.Kind() {
	case value.Float:
		return fmt.Sprintf("%g", v.Float())
	case value.String:
		return v.Str()
	case value.List:
		lv := v.ListVal()
		n := lv.Len()
		limit := n
		truncated := false
		if ev.PrintListLimit > 0 && n > ev.PrintListLimit {
			limit = ev.PrintListLimit
			truncated = true
		}
		parts := make([]string, 0, limit)
		for i := 0; i < limit; i++ {
			parts = append(parts, ev.renderListElem(lv.Elems[i]))
		}
		s := "[" + strings.Join(parts, ", ")
		if truncated {
			s += ", ..."
		}
		return s + "]"
	case value.Map:
		return "<map>"
	case value.Struct:
		return "<struct " + v.StructVal().Type.Name + ">"
	case value.Function:
		return "<function " + v.FuncVal().Name + ">"
	case value.Handle:
		return "<handle " + v.HandleVal().TypeName + ">"
	default:
		return "<void>"
	}
}

func (ev *Evaluator) renderListElem(v value.Value) string {
	if v.Kind() == value.String {
		return `"` + v.Str() + `"`
	}
	return ev.render(v)
}

func unescapePrintf(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			case 't':
				b.WriteByte('\t')
				i++
				continue
			case '\'':
				b.WriteByte('\'')
				i++
				continue
			case '"':
				b.WriteByte('"')
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func (ev *Evaluator) builtinPrintf(args []value.Value) (value.Value, bool, error) {
	if len(args) == 0 || args[0].Kind() != value.String {
		return value.NewVoid(), true, fmt.Errorf("printf: format argument must be a string")
	}
	format := unescapePrintf(args[0].Str())
	rest := args[1:]

	var out strings.Builder
	argi := 0
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i+1 >= len(format) {
			out.WriteByte(c)
			continue
		}
		spec := format[i+1]
		i++
		if argi >= len(rest) {
			return value.NewVoid(), true, fmt.Errorf("printf: too few arguments for format %q", args[0].Str())
		}
		a := rest[argi]
		argi++
		switch spec {
		case 'd':
			if a.Kind() != value.Float {
				return value.NewVoid(), true, fmt.Errorf("printf: %%d requires a Float argument")
			}
			out.WriteString(strconv.Itoa(int(a.Float())))
		case 'f':
			if a.Kind() != value.Float {
				return value.NewVoid(), true, fmt.Errorf("printf: %%f requires a Float argument")
			}
			out.WriteString(fmt.Sprintf("%f", a.Float()))
		case 'l':
			out.WriteString(ev.render(a))
		case 's':
			if a.Kind() != value.String {
				return value.NewVoid(), true, fmt.Errorf("printf: %%s requires a String argument")
			}
			out.WriteString(a.Str())
		case 't':
			out.WriteString(a.TypeName())
		case 'z':
			out.WriteString(ev.render(a))
		case '%':
			out.WriteByte('%')
			argi--
		default:
			return value.NewVoid(), true, fmt.Errorf("printf: unknown format specifier %%%c", spec)
		}
	}
	ev.Print(out.String())
	return value.NewVoid(), true, nil
}

func (ev *Evaluator) builtinError(args []value.Value) (value.Value, bool, error) {
	msg := "error"
	if len(args) > 0 {
		msg = ev.render(args[0])
	}
	return value.NewVoid(), true, fmt.Errorf("%s", msg)
}

func (ev *Evaluator) builtinLen(args []value.Value) (value.Value, bool, error) {
	if len(args) != 1 {
		return value.NewFloat(0), true, fmt.Errorf("len: expected 1 argument, got %d", len(args))
	}
	switch args[0].Kind() {
	case value.String:
		return value.NewFloat(float64(len(args[0].Str()))), true, nil
	case value.List:
		return value.NewFloat(float64(args[0].ListVal().Len())), true, nil
	case value.Map:
		return value.NewFloat(float64(args[0].MapVal().Len())), true, nil
	case value.Float, value.Handle:
		return value.NewFloat(1), true, nil
	default:
		return value.NewFloat(0), true, fmt.Errorf("len: not defined for %s", args[0].Kind())
	}
}

func (ev *Evaluator) builtinInterp(args []value.Value) (value.Value, bool, error) {
	if len(args) != 2 || args[0].Kind() != value.List || args[1].Kind() != value.Float {
		return value.NewFloat(0), true, fmt.Errorf("interp: expected (list, float)")
	}
	lv := args[0].ListVal()
	n := lv.Len()
	if n == 0 {
		return value.NewFloat(0), true, fmt.Errorf("interp: empty list")
	}
	frac := args[1].Float()
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	pos := frac * float64(n-1)
	lo := int(pos)
	hi := lo + 1
	if hi >= n {
		hi = n - 1
	}
	t := pos - float64(lo)
	a, b := lv.Elems[lo], lv.Elems[hi]
	if a.Kind() != value.Float || b.Kind() != value.Float {
		return value.NewFloat(0), true, fmt.Errorf("interp: list elements must be Float")
	}
	return value.NewFloat(a.Float() + t*(b.Float()-a.Float())), true, nil
}

func (ev *Evaluator) builtinIndex(args []value.Value) (value.Value, bool, error) {
	if len(args) != 2 || args[0].Kind() != value.List {
		return value.NewFloat(-1), true, fmt.Errorf("index: expected (list, item)")
	}
	lv := args[0].ListVal()
	item := args[1]
	for i, e := range lv.Elems {
		if e.Kind() == value.List || e.Kind() == value.Map || e.Kind() == value.Struct || e.Kind() == value.Function || e.Kind() == value.Handle {
			if sameIdentity(e, item) {
				return value.NewFloat(float64(i)), true, nil
			}
			continue
		}
		if value.Equal(e, item) {
			return value.NewFloat(float64(i)), true, nil
		}
	}
	return value.NewFloat(-1), true, nil
}

// sameIdentity compares reference-typed Values (List/Map/Struct/Function/
// Handle) by identity rather than structural equality, per spec.md §6's
// "for Lists/Handles compares identity."
func sameIdentity(a, b value.Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case value.List:
		return a.ListVal() == b.ListVal()
	case value.Map:
		return a.MapVal() == b.MapVal()
	case value.Struct:
		return a.StructVal() == b.StructVal()
	case value.Function:
		return a.FuncVal() == b.FuncVal()
	case value.Handle:
		return a.HandleVal() == b.HandleVal()
	default:
		return false
	}
}

func (ev *Evaluator) builtinContains(args []value.Value) (value.Value, bool, error) {
	if len(args) != 2 {
		return value.NewFloat(0), true, fmt.Errorf("contains: expected (container, item)")
	}
	container, item := args[0], args[1]
	switch container.Kind() {
	case value.List:
		for _, e := range container.ListVal().Elems {
			if value.Equal(e, item) {
				return value.NewFloat(1), true, nil
			}
		}
		return value.NewFloat(0), true, nil
	case value.Map:
		if container.MapVal().Contains(item) {
			return value.NewFloat(1), true, nil
		}
		return value.NewFloat(0), true, nil
	case value.String:
		if item.Kind() != value.String {
			return value.NewFloat(0), true, fmt.Errorf("contains: string container needs a string item")
		}
		if strings.Contains(container.Str(), item.Str()) {
			return value.NewFloat(1), true, nil
		}
		return value.NewFloat(0), true, nil
	default:
		return value.NewFloat(0), true, fmt.Errorf("contains: not defined for %s", container.Kind())
	}
}

func (ev *Evaluator) builtinType(args []value.Value) (value.Value, bool, error) {
	if len(args) != 1 {
		return value.NewString("void"), true, fmt.Errorf("type: expected 1 argument")
	}
	return value.NewString(args[0].TypeName()), true, nil
}

func (ev *Evaluator) builtinToString(args []value.Value) (value.Value, bool, error) {
	if len(args) != 1 || args[0].Kind() != value.Float {
		return value.NewString(""), true, fmt.Errorf("tostring: expected 1 Float argument")
	}
	return value.NewString(args[0].ToString()), true, nil
}

func (ev *Evaluator) builtinSubstring(args []value.Value) (value.Value, bool, error) {
	if len(args) != 3 || args[0].Kind() != value.String || args[1].Kind() != value.Float || args[2].Kind() != value.Float {
		return value.NewString(""), true, fmt.Errorf("substring: expected (string, float, float)")
	}
	s := args[0].Str()
	start := int(args[1].Float())
	end := int(args[2].Float())
	if start < 0 || start > end {
		return value.NewString(""), true, fmt.Errorf("substring: invalid range [%d,%d)", start, end)
	}
	if end > len(s) {
		ev.Warn("substring: end %d past length %d, clamped", end, len(s))
		end = len(s)
	}
	if start > len(s) {
		start = len(s)
	}
	return value.NewString(s[start:end]), true, nil
}
