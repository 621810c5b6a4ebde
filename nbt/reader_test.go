package nbt

import (
	"errors"
	"testing"
)

func TestReaderTruncatedInputIsMalformed(t *testing.T) {
	r := NewReader([]byte{0x03}) // TagInt id, but no name/payload follows
	if _, _, err := r.ReadRootHeader(); !errors.Is(err, ErrMalformed) {
		t.Fatalf("got %v, want ErrMalformed", err)
	}
}

func TestReaderInvalidTagID(t *testing.T) {
	r := NewReader([]byte{0xFF})
	_, err := r.ReadTagID()
	var ite *InvalidTagError
	if !errors.As(err, &ite) {
		t.Fatalf("got %v, want *InvalidTagError", err)
	}
	if ite.Tag != 0xFF {
		t.Fatalf("got tag %x", ite.Tag)
	}
}

func TestReaderNegativeLengthString(t *testing.T) {
	r := NewReader([]byte{0xFF, 0xFF}) // int16 length = -1
	_, err := r.ReadString()
	var ile *InvalidLengthError
	if !errors.As(err, &ile) {
		t.Fatalf("got %v, want *InvalidLengthError", err)
	}
}

func TestReaderPrimitiveRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		write func(w *Writer)
		read  func(r *Reader) (interface{}, error)
		want  interface{}
	}{
		{"int8", func(w *Writer) { w.WriteInt8(-5) }, func(r *Reader) (interface{}, error) { return r.ReadInt8() }, int8(-5)},
		{"int16", func(w *Writer) { w.WriteInt16(-1000) }, func(r *Reader) (interface{}, error) { return r.ReadInt16() }, int16(-1000)},
		{"int32", func(w *Writer) { w.WriteInt32(-70000) }, func(r *Reader) (interface{}, error) { return r.ReadInt32() }, int32(-70000)},
		{"int64", func(w *Writer) { w.WriteInt64(-1 << 40) }, func(r *Reader) (interface{}, error) { return r.ReadInt64() }, int64(-1 << 40)},
		{"float32", func(w *Writer) { w.WriteFloat32(3.5) }, func(r *Reader) (interface{}, error) { return r.ReadFloat32() }, float32(3.5)},
		{"float64", func(w *Writer) { w.WriteFloat64(3.5) }, func(r *Reader) (interface{}, error) { return r.ReadFloat64() }, float64(3.5)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf := new(nopBuffer)
			w := NewWriter(buf)
			tc.write(w)
			r := NewReader(buf.data)
			got, err := tc.read(r)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}

// nopBuffer avoids pulling in bytes.Buffer just to satisfy io.Writer in the
// table above; it also lets sub-tests inspect the raw bytes if needed.
type nopBuffer struct{ data []byte }

func (b *nopBuffer) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	return len(p), nil
}

func TestReaderSkipPayloadCompound(t *testing.T) {
	buf := new(nopBuffer)
	w := NewWriter(buf)
	// { "A": 1, "B": "hi", "C": [1,2,3] }
	w.WriteFieldHeader(TagInt, "A")
	w.WriteInt32(1)
	w.WriteFieldHeader(TagString, "B")
	w.WriteString("hi")
	w.WriteFieldHeader(TagIntArray, "C")
	w.WriteIntArray([]int32{1, 2, 3})
	w.WriteTagID(TagEnd)

	r := NewReader(buf.data)
	if err := r.SkipPayload(TagCompound); err != nil {
		t.Fatalf("SkipPayload: %v", err)
	}
	if r.Len() != 0 {
		t.Fatalf("expected cursor at end, %d bytes remaining", r.Len())
	}
}

func TestListWithEndElementRequiresZeroLength(t *testing.T) {
	buf := new(nopBuffer)
	w := NewWriter(buf)
	w.WriteTagID(TagEnd) // element tag
	w.WriteInt32(2)      // length > 0 with End element: malformed
	r := NewReader(buf.data)
	_, err := r.decodeValuePayload(TagList)
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("got %v, want ErrMalformed", err)
	}
}

func TestListWithEndElementZeroLengthOK(t *testing.T) {
	buf := new(nopBuffer)
	w := NewWriter(buf)
	w.WriteTagID(TagEnd)
	w.WriteInt32(0)
	r := NewReader(buf.data)
	v, err := r.decodeValuePayload(TagList)
	if err != nil {
		t.Fatalf("decodeValuePayload: %v", err)
	}
	elem, values := v.AsList()
	if elem != TagEnd || len(values) != 0 {
		t.Fatalf("got elem=%s len=%d", elem, len(values))
	}
}
