package nbt

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEmptyCompoundRoundTrip(t *testing.T) {
	// S1: 0A 00 00 00 -- Compound id, empty name, immediate End.
	raw := []byte{0x0A, 0x00, 0x00, 0x00}

	name, v, err := DecodeValue(raw)
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	if name != "" {
		t.Fatalf("got name %q, want empty", name)
	}
	if v.Tag != TagCompound || v.Len() != 0 {
		t.Fatalf("got %+v, want empty compound", v)
	}

	var buf bytes.Buffer
	if err := EncodeValue(NewWriter(&buf), name, v); err != nil {
		t.Fatalf("EncodeValue: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), raw) {
		t.Fatalf("re-encoded to %x, want %x", buf.Bytes(), raw)
	}
}

func TestValueEqualIgnoresCompoundOrder(t *testing.T) {
	a := NewCompound()
	a.SetField("x", Int(1))
	a.SetField("y", Int(2))

	b := NewCompound()
	b.SetField("y", Int(2))
	b.SetField("x", Int(1))

	if !a.Equal(b) {
		t.Fatalf("compounds with same fields in different order should be equal")
	}
}

func TestValueEqualRespectsListOrderAndArrayIdentity(t *testing.T) {
	l1 := List(TagInt, Int(1), Int(2))
	l2 := List(TagInt, Int(2), Int(1))
	if l1.Equal(l2) {
		t.Fatalf("lists in different order must not be equal")
	}

	arr := IntArrayOf([]int32{1, 2, 3})
	list := List(TagInt, Int(1), Int(2), Int(3))
	if arr.Equal(list) {
		t.Fatalf("IntArray and List(Int) with the same elements must not be equal (tag identity)")
	}
}

func TestValueRoundTripViaEncodeDecode(t *testing.T) {
	root := NewCompound()
	root.SetField("Name", String("test"))
	root.SetField("Height", Short(64))
	root.SetField("Pos", ByteArrayOf([]int8{1, 2, 3}))
	root.SetField("Data", LongArrayOf([]int64{0x0102030405060708}))
	root.SetField("Nested", func() Value {
		n := NewCompound()
		n.SetField("Flag", Byte(1))
		return n
	}())
	root.SetField("List", List(TagString, String("a"), String("b")))

	var buf bytes.Buffer
	if err := EncodeValue(NewWriter(&buf), "root", root); err != nil {
		t.Fatalf("EncodeValue: %v", err)
	}

	name, decoded, err := DecodeValue(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	if name != "root" {
		t.Fatalf("got name %q", name)
	}
	if !decoded.Equal(root) {
		t.Fatalf("round trip mismatch")
	}
}

func TestValueEqualComparerWithGoCmp(t *testing.T) {
	a := List(TagInt, Int(1))
	b := List(TagInt, Int(1))
	cmpr := cmp.Comparer(func(x, y Value) bool { return x.Equal(y) })
	if !cmp.Equal(a, b, cmpr) {
		t.Fatalf("expected equal Values under structural comparer")
	}
}

func TestEmptyListPreservesElementTag(t *testing.T) {
	v := List(TagString)
	var buf bytes.Buffer
	if err := EncodeValue(NewWriter(&buf), "", v); err != nil {
		t.Fatalf("EncodeValue: %v", err)
	}
	_, decoded, err := DecodeValue(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	elem, values := decoded.AsList()
	if elem != TagString || len(values) != 0 {
		t.Fatalf("got elem=%s len=%d, want String/0", elem, len(values))
	}
}
