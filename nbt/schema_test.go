package nbt

import (
	"bytes"
	"errors"
	"testing"
)

type simpleRecord struct {
	Name   string
	Health int16
	Pos    []float64
	Tags   []string `nbt:"Tags,omitempty"`
}

func TestSchemaRoundTripStruct(t *testing.T) {
	in := simpleRecord{
		Name:   "Steve",
		Health: 20,
		Pos:    []float64{1.5, 64, -2.25},
	}

	var buf bytes.Buffer
	if err := Marshal(&buf, in); err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var out simpleRecord
	if err := Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if out.Name != in.Name || out.Health != in.Health || len(out.Pos) != len(in.Pos) {
		t.Fatalf("got %+v, want %+v", out, in)
	}
	for i := range in.Pos {
		if out.Pos[i] != in.Pos[i] {
			t.Fatalf("Pos[%d] = %v, want %v", i, out.Pos[i], in.Pos[i])
		}
	}
}

type withRequiredField struct {
	Required string
}

func TestSchemaMissingRequiredField(t *testing.T) {
	empty := NewCompound()
	var buf bytes.Buffer
	if err := EncodeValue(NewWriter(&buf), "", empty); err != nil {
		t.Fatalf("EncodeValue: %v", err)
	}

	var out withRequiredField
	err := Unmarshal(buf.Bytes(), &out)
	var mfe *MissingFieldError
	if !errors.As(err, &mfe) {
		t.Fatalf("expected *MissingFieldError, got %v", err)
	}
	if mfe.Field != "Required" {
		t.Fatalf("got field %q", mfe.Field)
	}
}

type withOptionalPointer struct {
	Name string
	Y    *int32
}

func TestSchemaOptionalFieldAbsent(t *testing.T) {
	c := NewCompound()
	c.SetField("Name", String("chunk"))
	var buf bytes.Buffer
	if err := EncodeValue(NewWriter(&buf), "", c); err != nil {
		t.Fatalf("EncodeValue: %v", err)
	}

	var out withOptionalPointer
	if err := Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.Y != nil {
		t.Fatalf("expected nil optional field, got %v", *out.Y)
	}
}

type overflowTarget struct {
	Small int8
}

func TestSchemaOverflow(t *testing.T) {
	c := NewCompound()
	c.SetField("Small", Int(1000))
	var buf bytes.Buffer
	if err := EncodeValue(NewWriter(&buf), "", c); err != nil {
		t.Fatalf("EncodeValue: %v", err)
	}

	var out overflowTarget
	err := Unmarshal(buf.Bytes(), &out)
	var oe *OverflowError
	if !errors.As(err, &oe) {
		t.Fatalf("expected *OverflowError, got %v", err)
	}
}

type arrayIdentityTarget struct {
	AsArray  IntArray
	AsSlice  []int32
}

func TestSchemaArrayIdentityPreserved(t *testing.T) {
	in := arrayIdentityTarget{
		AsArray: IntArray{1, 2, 3},
		AsSlice: []int32{4, 5, 6},
	}
	var buf bytes.Buffer
	if err := Marshal(&buf, in); err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	name, v, err := DecodeValue(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	_ = name

	arrField, ok := v.Field("AsArray")
	if !ok || arrField.Tag != TagIntArray {
		t.Fatalf("AsArray should encode as TagIntArray, got %v", arrField.Tag)
	}
	sliceField, ok := v.Field("AsSlice")
	if !ok || sliceField.Tag != TagList {
		t.Fatalf("plain []int32 should default to List(Int), got %v", sliceField.Tag)
	}
}

type restCapture struct {
	Known string
	Rest  map[string]Value `nbt:",rest"`
}

func TestSchemaRestCapture(t *testing.T) {
	c := NewCompound()
	c.SetField("Known", String("k"))
	c.SetField("Extra", Int(42))
	var buf bytes.Buffer
	if err := EncodeValue(NewWriter(&buf), "", c); err != nil {
		t.Fatalf("EncodeValue: %v", err)
	}

	var out restCapture
	if err := Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.Known != "k" {
		t.Fatalf("got Known=%q", out.Known)
	}
	extra, ok := out.Rest["Extra"]
	if !ok || extra.AsInt() != 42 {
		t.Fatalf("expected Rest[Extra]=42, got %+v ok=%v", extra, ok)
	}
}

func TestSchemaDuplicateFieldRejected(t *testing.T) {
	// Hand-build a compound with a duplicated key; the Value type itself
	// collapses duplicates on decode into a Value tree (last write wins via
	// compound.set), so to exercise DuplicateFieldError we write raw bytes.
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteFieldHeader(TagCompound, ""); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteFieldHeader(TagInt, "X"); err != nil {
		t.Fatal(err)
	}
	w.WriteInt32(1)
	if err := w.WriteFieldHeader(TagInt, "X"); err != nil {
		t.Fatal(err)
	}
	w.WriteInt32(2)
	w.WriteTagID(TagEnd)

	var out struct{ X int32 }
	err := Unmarshal(buf.Bytes(), &out)
	var dfe *DuplicateFieldError
	if !errors.As(err, &dfe) {
		t.Fatalf("expected *DuplicateFieldError, got %v", err)
	}
}
