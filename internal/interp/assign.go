package interp

import "github.com/rtcmix/rtcore/internal/value"

func (ev *Evaluator) evalStore(node Store) (value.Value, Control) {
	rhs, ctl := ev.eval(node.Rhs)
	if ctl == Returning {
		return rhs, ctl
	}
	slot, ctl, ok := ev.lvalueSlot(node.Lhs)
	if ctl == Returning {
		return rhs, ctl
	}
	if !ok {
		ev.fatal(15, "invalid assignment target")
		return value.NewVoid(), Normal
	}
	if !slot.IsVoid() && slot.Kind() != rhs.Kind() {
		if node.AllowTypeOverwrite {
			ev.Warn("assignment overwrites %s with %s", slot.Kind(), rhs.Kind())
		} else {
			ev.fatal(16, "cannot assign %s to a variable already holding %s", rhs.Kind(), slot.Kind())
		}
	}
	*slot = rhs
	return rhs, Normal
}

func (ev *Evaluator) evalOpAssign(node OpAssign) (value.Value, Control) {
	slot, ctl, ok := ev.lvalueSlot(node.Lhs)
	if ctl == Returning {
		return value.NewVoid(), ctl
	}
	if !ok {
		ev.fatal(17, "invalid assignment target for %q", node.Op)
		return value.NewVoid(), Normal
	}

	if node.Op == "++" || node.Op == "--" {
		if slot.Kind() != value.Float {
			ev.Warn("%q not defined on %s", node.Op, slot.Kind())
			return *slot, Normal
		}
		delta := 1.0
		if node.Op == "--" {
			delta = -1.0
		}
		*slot = value.NewFloat(slot.Float() + delta)
		return *slot, Normal
	}

	rhs, ctl := ev.eval(node.Rhs)
	if ctl == Returning {
		return rhs, ctl
	}
	if slot.Kind() != value.Float || rhs.Kind() != value.Float {
		ev.Warn("%q not defined between %s and %s", node.Op, slot.Kind(), rhs.Kind())
		return *slot, Normal
	}
	a, b := slot.Float(), rhs.Float()
	var result float64
	switch node.Op {
	case "+=":
		result = a + b
	case "-=":
		result = a - b
	case "*=":
		result = a * b
	case "/=":
		if b == 0 {
			ev.Warn("division by zero in %q", node.Op)
			result = a
		} else {
			result = a / b
		}
	default:
		ev.fatal(18, "unknown compound assignment operator %q", node.Op)
	}
	*slot = value.NewFloat(result)
	return *slot, Normal
}
