package nbt

import "fmt"

// Value is a dynamic representation of an arbitrary NBT payload that round-trips
// bit-exactly. It is a single tagged union: the exported Tag field identifies
// which of the twelve kinds is stored, and the payload lives behind typed
// accessors rather than a bare exported interface{}, so callers cannot smuggle
// an unsupported Go type into a tree that must always be encodable.
type Value struct {
	Tag Tag

	i64      int64   // Byte, Short, Int, Long (sign-extended)
	f64      float64 // Float, Double
	str      string
	byteArr  []int8
	intArr   []int32
	longArr  []int64
	list     []Value
	listElem Tag // element tag of an empty list, or the tag of list[0]
	compound *compound
}

// compound is an insertion-ordered string-keyed map. A slice backs iteration
// order for faithful re-serialization; an index gives O(1) lookup.
type compound struct {
	keys   []string
	values []Value
	index  map[string]int
}

func newCompound() *compound {
	return &compound{index: make(map[string]int)}
}

func (c *compound) get(key string) (Value, bool) {
	i, ok := c.index[key]
	if !ok {
		return Value{}, false
	}
	return c.values[i], true
}

func (c *compound) set(key string, v Value) {
	if i, ok := c.index[key]; ok {
		c.values[i] = v
		return
	}
	c.index[key] = len(c.keys)
	c.keys = append(c.keys, key)
	c.values = append(c.values, v)
}

func (c *compound) delete(key string) {
	i, ok := c.index[key]
	if !ok {
		return
	}
	delete(c.index, key)
	c.keys = append(c.keys[:i], c.keys[i+1:]...)
	c.values = append(c.values[:i], c.values[i+1:]...)
	for k := i; k < len(c.keys); k++ {
		c.index[c.keys[k]] = k
	}
}

// Constructors. These mirror the mini-DSL described in the base spec: literal
// Go integers map to the smallest exactly-representing kind unless a wider
// constructor is used explicitly.

func Byte(v int8) Value  { return Value{Tag: TagByte, i64: int64(v)} }
func Short(v int16) Value { return Value{Tag: TagShort, i64: int64(v)} }
func Int(v int32) Value  { return Value{Tag: TagInt, i64: int64(v)} }
func Long(v int64) Value { return Value{Tag: TagLong, i64: v} }
func Float(v float32) Value { return Value{Tag: TagFloat, f64: float64(v)} }
func Double(v float64) Value { return Value{Tag: TagDouble, f64: v} }
func String(v string) Value  { return Value{Tag: TagString, str: v} }

// ByteArray, IntArray, and LongArray are dedicated slice types distinct from a
// plain []int8/[]int32/[]int64: a struct field declared with one of these
// types always round-trips as the corresponding NBT array tag (7/11/12),
// where a plain slice field of matching element width defaults to a List of
// the scalar tag on encode and accepts either encoding on decode, losing the
// distinction. See §4.4/§9 of the specification.
type ByteArray []int8
type IntArray []int32
type LongArray []int64

// ByteArrayOf builds a TagByteArray Value.
func ByteArrayOf(v []int8) Value {
	return Value{Tag: TagByteArray, byteArr: append([]int8(nil), v...)}
}

// IntArrayOf builds a TagIntArray Value.
func IntArrayOf(v []int32) Value {
	return Value{Tag: TagIntArray, intArr: append([]int32(nil), v...)}
}

// LongArrayOf builds a TagLongArray Value.
func LongArrayOf(v []int64) Value {
	return Value{Tag: TagLongArray, longArr: append([]int64(nil), v...)}
}

// List builds a TagList value. All elements must share the same Tag; an empty
// list still needs an element tag to round-trip faithfully, so it is passed
// explicitly.
func List(elem Tag, values ...Value) Value {
	for _, v := range values {
		if v.Tag != elem {
			panic(fmt.Sprintf("nbt: List element tag mismatch: want %s, got %s", elem, v.Tag))
		}
	}
	return Value{Tag: TagList, listElem: elem, list: append([]Value(nil), values...)}
}

// NewCompound builds an empty ordered Compound value.
func NewCompound() Value {
	return Value{Tag: TagCompound, compound: newCompound()}
}

// Accessors. Each panics if called against the wrong Tag, matching the
// contract of reflect.Value's typed getters (Int, String, ...): callers that
// don't know the shape should switch on Tag first.

func (v Value) AsByte() int8 { v.mustBe(TagByte); return int8(v.i64) }
func (v Value) AsShort() int16 { v.mustBe(TagShort); return int16(v.i64) }
func (v Value) AsInt() int32 { v.mustBe(TagInt); return int32(v.i64) }
func (v Value) AsLong() int64 { v.mustBe(TagLong); return v.i64 }
func (v Value) AsFloat() float32 { v.mustBe(TagFloat); return float32(v.f64) }
func (v Value) AsDouble() float64 { v.mustBe(TagDouble); return v.f64 }
func (v Value) AsString() string { v.mustBe(TagString); return v.str }
func (v Value) AsByteArray() []int8 { v.mustBe(TagByteArray); return v.byteArr }
func (v Value) AsIntArray() []int32 { v.mustBe(TagIntArray); return v.intArr }
func (v Value) AsLongArray() []int64 { v.mustBe(TagLongArray); return v.longArr }
func (v Value) AsList() (elem Tag, values []Value) { v.mustBe(TagList); return v.listElem, v.list }

func (v Value) mustBe(want Tag) {
	if v.Tag != want {
		panic(fmt.Sprintf("nbt: Value holds %s, not %s", v.Tag, want))
	}
}

// Field returns the named field of a Compound value and whether it was present.
func (v Value) Field(name string) (Value, bool) {
	v.mustBe(TagCompound)
	return v.compound.get(name)
}

// SetField inserts or replaces the named field of a Compound value, preserving
// insertion order for new keys.
func (v Value) SetField(name string, field Value) {
	v.mustBe(TagCompound)
	v.compound.set(name, field)
}

// DeleteField removes the named field from a Compound value, if present.
func (v Value) DeleteField(name string) {
	v.mustBe(TagCompound)
	v.compound.delete(name)
}

// Keys returns the Compound's field names in insertion order.
func (v Value) Keys() []string {
	v.mustBe(TagCompound)
	return append([]string(nil), v.compound.keys...)
}

// Len returns the number of fields in a Compound or elements in a List.
func (v Value) Len() int {
	switch v.Tag {
	case TagCompound:
		return len(v.compound.keys)
	case TagList:
		return len(v.list)
	case TagByteArray:
		return len(v.byteArr)
	case TagIntArray:
		return len(v.intArr)
	case TagLongArray:
		return len(v.longArr)
	default:
		panic(fmt.Sprintf("nbt: Value of tag %s has no Len", v.Tag))
	}
}

// Equal reports structural equality per §4.4 of the specification: Compound
// field order is irrelevant, but List/array order and element tag identity
// are significant.
func (v Value) Equal(other Value) bool {
	if v.Tag != other.Tag {
		return false
	}
	switch v.Tag {
	case TagEnd:
		return true
	case TagByte, TagShort, TagInt, TagLong:
		return v.i64 == other.i64
	case TagFloat, TagDouble:
		return v.f64 == other.f64
	case TagString:
		return v.str == other.str
	case TagByteArray:
		return int8SliceEqual(v.byteArr, other.byteArr)
	case TagIntArray:
		return int32SliceEqual(v.intArr, other.intArr)
	case TagLongArray:
		return int64SliceEqual(v.longArr, other.longArr)
	case TagList:
		if v.listElem != other.listElem || len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case TagCompound:
		if len(v.compound.keys) != len(other.compound.keys) {
			return false
		}
		for _, k := range v.compound.keys {
			a, _ := v.compound.get(k)
			b, ok := other.compound.get(k)
			if !ok || !a.Equal(b) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func int8SliceEqual(a, b []int8) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func int32SliceEqual(a, b []int32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func int64SliceEqual(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
