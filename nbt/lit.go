package nbt

import "math"

// Compound is a convenience literal builder: Compound{"Name": String("x"), ...}
// constructs an ordered Compound Value in one expression, for tests and
// examples that would otherwise need several SetField calls. Iteration order
// of a Go map literal is not stable, so field order in the resulting Value is
// the (randomized) map iteration order; callers that care about serialized
// field order should build the Value with NewCompound/SetField instead.
type Compound map[string]Value

// Build converts the literal into an ordered Compound Value.
func (c Compound) Build() Value {
	v := NewCompound()
	for k, field := range c {
		v.SetField(k, field)
	}
	return v
}

// L is a tiny literal-construction facility: L(3) yields a Byte Value (a plain
// Go int maps to the smallest of Byte, Short, Int and Long that holds it
// exactly; typed int32 and int64 arguments keep Int and Long), L(3.0)
// yields a Double, L("x") yields a String, and L(true) yields a Byte (0 or 1),
// matching Minecraft's own convention of storing booleans as TAG_Byte.
func L(v interface{}) Value {
	switch x := v.(type) {
	case bool:
		if x {
			return Byte(1)
		}
		return Byte(0)
	case int:
		switch {
		case x >= math.MinInt8 && x <= math.MaxInt8:
			return Byte(int8(x))
		case x >= math.MinInt16 && x <= math.MaxInt16:
			return Short(int16(x))
		case x >= math.MinInt32 && x <= math.MaxInt32:
			return Int(int32(x))
		default:
			return Long(int64(x))
		}
	case int32:
		return Int(x)
	case int64:
		return Long(x)
	case float32:
		return Float(x)
	case float64:
		return Double(x)
	case string:
		return String(x)
	case Value:
		return x
	default:
		panic("nbt: L: unsupported literal type")
	}
}
