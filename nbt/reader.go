package nbt

import (
	"math"
	"unsafe"
)

// Reader is a zero-copy cursor over a caller-owned NBT byte buffer, in the
// style of tmpim/anvil's nbt.Reader: every primitive read advances an integer
// cursor rather than wrapping an io.Reader, so string and array payloads can be
// returned as sub-slices of buf without copying.
type Reader struct {
	buf    []byte
	cursor int
}

// NewReader wraps buf for reading. buf is retained, not copied; the caller must
// keep it alive for as long as any Value or borrowed field decoded from it.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Pos returns the reader's current byte offset, used as error context.
func (r *Reader) Pos() int { return r.cursor }

// Len returns the number of unread bytes remaining.
func (r *Reader) Len() int { return len(r.buf) - r.cursor }

func (r *Reader) require(n int) error {
	if r.Len() < n {
		return ErrMalformed
	}
	return nil
}

// ReadTagID reads a single tag-kind byte and validates it against the 0..12
// range; TagEnd (0) is a valid return value.
func (r *Reader) ReadTagID() (Tag, error) {
	if err := r.require(1); err != nil {
		return 0, err
	}
	t := Tag(r.buf[r.cursor])
	r.cursor++
	if !t.Valid() {
		return 0, &InvalidTagError{Pos: r.cursor - 1, Tag: byte(t)}
	}
	return t, nil
}

// ReadInt8 reads a signed byte payload.
func (r *Reader) ReadInt8() (int8, error) {
	if err := r.require(1); err != nil {
		return 0, err
	}
	v := int8(r.buf[r.cursor])
	r.cursor++
	return v, nil
}

// ReadInt16 reads a big-endian signed 16-bit payload.
func (r *Reader) ReadInt16() (int16, error) {
	if err := r.require(2); err != nil {
		return 0, err
	}
	v := int16(r.buf[r.cursor])<<8 | int16(r.buf[r.cursor+1])
	r.cursor += 2
	return v, nil
}

// ReadInt32 reads a big-endian signed 32-bit payload.
func (r *Reader) ReadInt32() (int32, error) {
	if err := r.require(4); err != nil {
		return 0, err
	}
	v := int32(r.buf[r.cursor])<<24 | int32(r.buf[r.cursor+1])<<16 |
		int32(r.buf[r.cursor+2])<<8 | int32(r.buf[r.cursor+3])
	r.cursor += 4
	return v, nil
}

// ReadInt64 reads a big-endian signed 64-bit payload.
func (r *Reader) ReadInt64() (int64, error) {
	if err := r.require(8); err != nil {
		return 0, err
	}
	v := int64(r.buf[r.cursor])<<56 | int64(r.buf[r.cursor+1])<<48 |
		int64(r.buf[r.cursor+2])<<40 | int64(r.buf[r.cursor+3])<<32 |
		int64(r.buf[r.cursor+4])<<24 | int64(r.buf[r.cursor+5])<<16 |
		int64(r.buf[r.cursor+6])<<8 | int64(r.buf[r.cursor+7])
	r.cursor += 8
	return v, nil
}

// ReadFloat32 reads a big-endian IEEE-754 single.
func (r *Reader) ReadFloat32() (float32, error) {
	bits, err := r.ReadInt32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(uint32(bits)), nil
}

// ReadFloat64 reads a big-endian IEEE-754 double.
func (r *Reader) ReadFloat64() (float64, error) {
	bits, err := r.ReadInt64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(uint64(bits)), nil
}

// rawString reads a length-prefixed modified-UTF-8 payload and returns the raw
// bytes (a sub-slice of buf, not copied) plus the byte offset of the length
// prefix.
func (r *Reader) rawString() (raw []byte, pos int, err error) {
	pos = r.cursor
	length, err := r.ReadInt16()
	if err != nil {
		return nil, pos, err
	}
	if length < 0 {
		return nil, pos, &InvalidLengthError{Pos: pos, Length: int32(length)}
	}
	n := int(length)
	if err := r.require(n); err != nil {
		return nil, pos, err
	}
	raw = r.buf[r.cursor : r.cursor+n]
	r.cursor += n
	return raw, pos, nil
}

// ReadString reads a length-prefixed modified-UTF-8 string, decoding it to a
// Go string. This always allocates when the payload is not pure ASCII.
func (r *Reader) ReadString() (string, error) {
	raw, pos, err := r.rawString()
	if err != nil {
		return "", err
	}
	s, err := decodeMUTF8(raw)
	if err != nil {
		_ = pos
		return "", err
	}
	return s, nil
}

// ReadBorrowedString reads a length-prefixed modified-UTF-8 string and reports
// whether it could be returned without decoding (i.e. it was pure ASCII, so the
// raw bytes double as the decoded string with no escaping needed). When
// borrowed is true, s shares its bytes with buf instead of copying them; when
// it is false, s is a decoded copy, as ReadString would return. It advances the
// cursor exactly once, so it should be used in place of, never in addition to,
// ReadString.
func (r *Reader) ReadBorrowedString() (s string, borrowed bool, err error) {
	raw, _, err := r.rawString()
	if err != nil {
		return "", false, err
	}
	if isASCII(raw) {
		if len(raw) == 0 {
			return "", true, nil
		}
		return unsafe.String(&raw[0], len(raw)), true, nil
	}
	s, err = decodeMUTF8(raw)
	return s, false, err
}

// ReadByteArray reads a TagByteArray payload (length-prefixed signed bytes) as
// a freshly-copied []int8.
func (r *Reader) ReadByteArray() ([]int8, error) {
	pos := r.cursor
	length, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, &InvalidLengthError{Pos: pos, Length: length}
	}
	n := int(length)
	if err := r.require(n); err != nil {
		return nil, err
	}
	out := make([]int8, n)
	for i := 0; i < n; i++ {
		out[i] = int8(r.buf[r.cursor+i])
	}
	r.cursor += n
	return out, nil
}

// BorrowByteArray returns a TagByteArray payload as a []byte sub-slice of the
// input buffer without copying.
func (r *Reader) BorrowByteArray() ([]byte, error) {
	pos := r.cursor
	length, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, &InvalidLengthError{Pos: pos, Length: length}
	}
	n := int(length)
	if err := r.require(n); err != nil {
		return nil, err
	}
	out := r.buf[r.cursor : r.cursor+n]
	r.cursor += n
	return out, nil
}

// ReadIntArray reads a TagIntArray payload.
func (r *Reader) ReadIntArray() ([]int32, error) {
	pos := r.cursor
	length, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, &InvalidLengthError{Pos: pos, Length: length}
	}
	n := int(length)
	out := make([]int32, n)
	for i := 0; i < n; i++ {
		v, err := r.ReadInt32()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ReadLongArray reads a TagLongArray payload.
func (r *Reader) ReadLongArray() ([]int64, error) {
	pos := r.cursor
	length, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, &InvalidLengthError{Pos: pos, Length: length}
	}
	n := int(length)
	out := make([]int64, n)
	for i := 0; i < n; i++ {
		v, err := r.ReadInt64()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// SkipPayload advances the cursor past the payload of tag t without
// materializing it, following tmpim/anvil's nbt.Reader.SkipTag.
func (r *Reader) SkipPayload(t Tag) error {
	switch t {
	case TagEnd:
		return nil
	case TagByte:
		return r.skip(1)
	case TagShort:
		return r.skip(2)
	case TagInt, TagFloat:
		return r.skip(4)
	case TagLong, TagDouble:
		return r.skip(8)
	case TagByteArray:
		_, err := r.BorrowByteArray()
		return err
	case TagString:
		_, _, err := r.rawString()
		return err
	case TagIntArray:
		pos := r.cursor
		length, err := r.ReadInt32()
		if err != nil {
			return err
		}
		if length < 0 {
			return &InvalidLengthError{Pos: pos, Length: length}
		}
		return r.skip(int(length) * 4)
	case TagLongArray:
		pos := r.cursor
		length, err := r.ReadInt32()
		if err != nil {
			return err
		}
		if length < 0 {
			return &InvalidLengthError{Pos: pos, Length: length}
		}
		return r.skip(int(length) * 8)
	case TagList:
		elem, err := r.ReadTagID()
		if err != nil {
			return err
		}
		pos := r.cursor
		length, err := r.ReadInt32()
		if err != nil {
			return err
		}
		if length < 0 {
			return &InvalidLengthError{Pos: pos, Length: length}
		}
		if elem == TagEnd && length > 0 {
			return ErrMalformed
		}
		for i := int32(0); i < length; i++ {
			if err := r.SkipPayload(elem); err != nil {
				return err
			}
		}
		return nil
	case TagCompound:
		for {
			tag, _, err := r.ReadFieldHeader()
			if err != nil {
				return err
			}
			if tag == TagEnd {
				return nil
			}
			if err := r.SkipPayload(tag); err != nil {
				return err
			}
		}
	default:
		return &InvalidTagError{Pos: r.cursor, Tag: byte(t)}
	}
}

func (r *Reader) skip(n int) error {
	if err := r.require(n); err != nil {
		return err
	}
	r.cursor += n
	return nil
}

// ReadFieldHeader reads one (tag id, name) pair inside a Compound. When the
// tag id is TagEnd, name is empty and no name bytes are consumed, matching the
// wire format's End-tag encoding.
func (r *Reader) ReadFieldHeader() (Tag, string, error) {
	t, err := r.ReadTagID()
	if err != nil {
		return 0, "", err
	}
	if t == TagEnd {
		return t, "", nil
	}
	name, err := r.ReadString()
	if err != nil {
		return 0, "", err
	}
	return t, name, nil
}

// ReadRootHeader reads the top-level (tag id, name) pair that begins every NBT
// document, per §3's invariant that a stream always opens with a named tag.
func (r *Reader) ReadRootHeader() (Tag, string, error) {
	return r.ReadFieldHeader()
}
