package nbt

// DecodeValue reads a full NBT document (tag id, name, payload) from buf and
// returns the root field name plus its value as a dynamic Value tree. This is
// the entry point invariant 1 and 2 in §8 of the specification are checked
// against.
func DecodeValue(buf []byte) (name string, value Value, err error) {
	r := NewReader(buf)
	t, name, err := r.ReadRootHeader()
	if err != nil {
		return "", Value{}, err
	}
	value, err = r.decodeValuePayload(t)
	if err != nil {
		return "", Value{}, err
	}
	return name, value, nil
}

func (r *Reader) decodeValuePayload(t Tag) (Value, error) {
	switch t {
	case TagEnd:
		return Value{Tag: TagEnd}, nil
	case TagByte:
		v, err := r.ReadInt8()
		return Value{Tag: TagByte, i64: int64(v)}, err
	case TagShort:
		v, err := r.ReadInt16()
		return Value{Tag: TagShort, i64: int64(v)}, err
	case TagInt:
		v, err := r.ReadInt32()
		return Value{Tag: TagInt, i64: int64(v)}, err
	case TagLong:
		v, err := r.ReadInt64()
		return Value{Tag: TagLong, i64: v}, err
	case TagFloat:
		v, err := r.ReadFloat32()
		return Value{Tag: TagFloat, f64: float64(v)}, err
	case TagDouble:
		v, err := r.ReadFloat64()
		return Value{Tag: TagDouble, f64: v}, err
	case TagString:
		v, err := r.ReadString()
		return Value{Tag: TagString, str: v}, err
	case TagByteArray:
		v, err := r.ReadByteArray()
		return Value{Tag: TagByteArray, byteArr: v}, err
	case TagIntArray:
		v, err := r.ReadIntArray()
		return Value{Tag: TagIntArray, intArr: v}, err
	case TagLongArray:
		v, err := r.ReadLongArray()
		return Value{Tag: TagLongArray, longArr: v}, err
	case TagList:
		elem, err := r.ReadTagID()
		if err != nil {
			return Value{}, err
		}
		pos := r.cursor
		length, err := r.ReadInt32()
		if err != nil {
			return Value{}, err
		}
		if length < 0 {
			return Value{}, &InvalidLengthError{Pos: pos, Length: length}
		}
		if elem == TagEnd && length > 0 {
			return Value{}, ErrMalformed
		}
		values := make([]Value, length)
		for i := int32(0); i < length; i++ {
			v, err := r.decodeValuePayload(elem)
			if err != nil {
				return Value{}, err
			}
			values[i] = v
		}
		return Value{Tag: TagList, listElem: elem, list: values}, nil
	case TagCompound:
		c := newCompound()
		for {
			fieldTag, fieldName, err := r.ReadFieldHeader()
			if err != nil {
				return Value{}, err
			}
			if fieldTag == TagEnd {
				break
			}
			v, err := r.decodeValuePayload(fieldTag)
			if err != nil {
				return Value{}, err
			}
			c.set(fieldName, v)
		}
		return Value{Tag: TagCompound, compound: c}, nil
	default:
		return Value{}, &InvalidTagError{Pos: r.cursor, Tag: byte(t)}
	}
}

// EncodeValue writes name and value as a complete NBT document to w.
func EncodeValue(w *Writer, name string, value Value) error {
	if err := w.WriteFieldHeader(value.Tag, name); err != nil {
		return err
	}
	return w.encodeValuePayload(value)
}

func (w *Writer) encodeValuePayload(v Value) error {
	switch v.Tag {
	case TagEnd:
		return w.Err()
	case TagByte:
		w.WriteInt8(int8(v.i64))
	case TagShort:
		w.WriteInt16(int16(v.i64))
	case TagInt:
		w.WriteInt32(int32(v.i64))
	case TagLong:
		w.WriteInt64(v.i64)
	case TagFloat:
		w.WriteFloat32(float32(v.f64))
	case TagDouble:
		w.WriteFloat64(v.f64)
	case TagString:
		return w.WriteString(v.str)
	case TagByteArray:
		w.WriteByteArray(v.byteArr)
	case TagIntArray:
		w.WriteIntArray(v.intArr)
	case TagLongArray:
		w.WriteLongArray(v.longArr)
	case TagList:
		w.WriteTagID(v.listElem)
		w.WriteInt32(int32(len(v.list)))
		for _, elem := range v.list {
			if err := w.encodeValuePayload(elem); err != nil {
				return err
			}
		}
	case TagCompound:
		for i, key := range v.compound.keys {
			field := v.compound.values[i]
			if err := w.WriteFieldHeader(field.Tag, key); err != nil {
				return err
			}
			if err := w.encodeValuePayload(field); err != nil {
				return err
			}
		}
		w.WriteTagID(TagEnd)
	}
	return w.Err()
}
