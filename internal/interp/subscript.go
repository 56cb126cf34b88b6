package interp

import "github.com/rtcmix/rtcore/internal/value"

func (ev *Evaluator) evalSubscriptRead(node SubscriptRead) (value.Value, Control) {
	obj, ctl := ev.eval(node.Obj)
	if ctl == Returning {
		return obj, ctl
	}
	idx, ctl := ev.eval(node.Idx)
	if ctl == Returning {
		return idx, ctl
	}

	switch obj.Kind() {
	case value.List:
		return ev.readListIndex(obj.ListVal(), idx), Normal
	case value.Map:
		v, ok := obj.MapVal().Get(idx)
		if !ok {
			ev.Warn("missing map key")
			return value.NewVoid(), Normal
		}
		return v, Normal
	case value.String:
		return ev.readStringIndex(obj.Str(), idx), Normal
	default:
		ev.Warn("cannot subscript a %s", obj.Kind())
		return value.NewVoid(), Normal
	}
}

func (ev *Evaluator) readListIndex(lv *value.ListVal, idx value.Value) value.Value {
	if idx.Kind() != value.Float {
		ev.Warn("list index must be a Float")
		return value.NewVoid()
	}
	n := lv.Len()
	if n == 0 {
		ev.Warn("index into an empty list")
		return value.NewVoid()
	}
	f := idx.Float()
	if f < -1 {
		ev.Warn("negative list index %g is below -1", f)
	}
	lo, hi, frac := lv.Resolve(f)

	if frac == 0 {
		if lo < 0 || lo >= n {
			ev.Warn("list index %g out of range [0,%d); clamped", f, n)
			lo = clampInt(lo, 0, n-1)
		}
		return lv.Elems[lo]
	}

	lo = clampInt(lo, 0, n-1)
	hi = clampInt(hi, 0, n-1)
	a, b := lv.Elems[lo], lv.Elems[hi]
	if a.Kind() == value.Float && b.Kind() == value.Float {
		return value.NewFloat(a.Float() + frac*(b.Float()-a.Float()))
	}
	return a
}

func (ev *Evaluator) readStringIndex(s string, idx value.Value) value.Value {
	if idx.Kind() != value.Float {
		ev.Warn("string index must be a Float")
		return value.NewVoid()
	}
	if len(s) == 0 {
		ev.Warn("index into an empty string")
		return value.NewString("")
	}
	i := int(idx.Float())
	if i < 0 || i >= len(s) {
		ev.Warn("string index %d out of range [0,%d); clamped", i, len(s))
		i = clampInt(i, 0, len(s)-1)
	}
	return value.NewString(string(s[i]))
}

func (ev *Evaluator) evalSubscriptWrite(node SubscriptWrite) (value.Value, Control) {
	idx, ctl := ev.eval(node.Idx)
	if ctl == Returning {
		return idx, ctl
	}
	rhs, ctl := ev.eval(node.Rhs)
	if ctl == Returning {
		return rhs, ctl
	}

	slot, ctl, ok := ev.lvalueSlot(node.Obj)
	if ctl == Returning {
		return rhs, ctl
	}
	if !ok {
		obj, ctl := ev.eval(node.Obj)
		if ctl == Returning {
			return obj, ctl
		}
		return ev.writeIntoContainer(obj, idx, rhs), Normal
	}
	if slot.IsVoid() {
		if idx.Kind() == value.Float {
			*slot = value.NewList(value.NewListVal())
		} else {
			*slot = value.NewMap(value.NewMapVal())
		}
	}
	return ev.writeIntoContainer(*slot, idx, rhs), Normal
}

func (ev *Evaluator) writeIntoContainer(obj, idx, rhs value.Value) value.Value {
	switch obj.Kind() {
	case value.List:
		lv := obj.ListVal()
		if idx.Kind() != value.Float {
			ev.Warn("list index must be a Float")
			return rhs
		}
		f := idx.Float()
		i := int(f)
		if f != float64(i) {
			ev.Warn("non-integer list index %g truncated to %d", f, i)
		}
		if i < 0 {
			i = lv.Len() + i
		}
		if i < 0 {
			ev.Warn("list index out of range")
			return rhs
		}
		if i >= lv.Len() {
			lv.Grow(i + 1)
		}
		lv.Elems[i] = rhs
		return rhs
	case value.Map:
		obj.MapVal().Set(idx, rhs)
		return rhs
	default:
		ev.Warn("cannot subscript-assign to a %s", obj.Kind())
		return rhs
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
