package nbt

import (
	"fmt"
	"reflect"
)

// Unmarshal decodes a complete NBT document from data into v, which must be a
// non-nil pointer. The root tag's name is discarded; use UnmarshalNamed to
// retrieve it.
func Unmarshal(data []byte, v interface{}) error {
	_, err := UnmarshalNamed(data, v)
	return err
}

// UnmarshalNamed decodes a complete NBT document from data into v and returns
// the root tag's name.
func UnmarshalNamed(data []byte, v interface{}) (string, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return "", &CustomError{Msg: "Unmarshal target must be a non-nil pointer"}
	}

	r := NewReader(data)
	tag, name, err := r.ReadRootHeader()
	if err != nil {
		return "", err
	}

	if err := r.decodeInto(tag, rv.Elem(), name); err != nil {
		return name, err
	}
	return name, nil
}

var valueType = reflect.TypeOf(Value{})

// decodeInto decodes the payload of tag (header already consumed) into dst,
// which must be settable. fieldName is used only for error messages.
func (r *Reader) decodeInto(tag Tag, dst reflect.Value, fieldName string) error {
	// nbt.Value sink: capture the whole subtree dynamically regardless of tag.
	if dst.Type() == valueType {
		v, err := r.decodeValuePayload(tag)
		if err != nil {
			return err
		}
		dst.Set(reflect.ValueOf(v))
		return nil
	}

	// Indirect through pointers, allocating as needed, matching the base
	// spec's rule that a present field of any declared kind yields "present".
	for dst.Kind() == reflect.Ptr {
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		dst = dst.Elem()
	}

	if dst.Kind() == reflect.Interface && dst.NumMethod() == 0 {
		v, err := r.decodeValuePayload(tag)
		if err != nil {
			return err
		}
		dst.Set(reflect.ValueOf(anyFromValue(v)))
		return nil
	}

	switch tag {
	case TagEnd:
		return ErrMalformed

	case TagByte, TagShort, TagInt, TagLong:
		var raw int64
		var err error
		switch tag {
		case TagByte:
			var v int8
			v, err = r.ReadInt8()
			raw = int64(v)
		case TagShort:
			var v int16
			v, err = r.ReadInt16()
			raw = int64(v)
		case TagInt:
			var v int32
			v, err = r.ReadInt32()
			raw = int64(v)
		case TagLong:
			raw, err = r.ReadInt64()
		}
		if err != nil {
			return err
		}
		return setInteger(dst, raw, tag, fieldName)

	case TagFloat:
		v, err := r.ReadFloat32()
		if err != nil {
			return err
		}
		if dst.Kind() != reflect.Float32 && dst.Kind() != reflect.Float64 {
			return &UnexpectedTagError{Pos: r.cursor, Want: TagFloat, Got: tag}
		}
		dst.SetFloat(float64(v))
		return nil

	case TagDouble:
		v, err := r.ReadFloat64()
		if err != nil {
			return err
		}
		if dst.Kind() != reflect.Float64 && dst.Kind() != reflect.Float32 {
			return &UnexpectedTagError{Pos: r.cursor, Want: TagDouble, Got: tag}
		}
		dst.SetFloat(v)
		return nil

	case TagString:
		if dst.Kind() != reflect.String {
			return &UnexpectedTagError{Pos: r.cursor, Want: TagString, Got: tag}
		}
		s, err := r.ReadString()
		if err != nil {
			return err
		}
		dst.SetString(s)
		return nil

	case TagByteArray:
		return r.decodeByteArray(dst)

	case TagIntArray:
		return r.decodeIntArray(dst)

	case TagLongArray:
		return r.decodeLongArray(dst)

	case TagList:
		return r.decodeList(dst, fieldName)

	case TagCompound:
		return r.decodeCompound(dst, fieldName)

	default:
		return &InvalidTagError{Pos: r.cursor, Tag: byte(tag)}
	}
}

func anyFromValue(v Value) interface{} {
	switch v.Tag {
	case TagByte:
		return v.AsByte()
	case TagShort:
		return v.AsShort()
	case TagInt:
		return v.AsInt()
	case TagLong:
		return v.AsLong()
	case TagFloat:
		return v.AsFloat()
	case TagDouble:
		return v.AsDouble()
	case TagString:
		return v.AsString()
	default:
		return v
	}
}

func setInteger(dst reflect.Value, raw int64, tag Tag, fieldName string) error {
	switch dst.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
		if dst.OverflowInt(raw) {
			return &OverflowError{Field: fieldName, Tag: tag, Value: raw}
		}
		dst.SetInt(raw)
		return nil
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
		if raw < 0 || dst.OverflowUint(uint64(raw)) {
			return &OverflowError{Field: fieldName, Tag: tag, Value: raw}
		}
		dst.SetUint(uint64(raw))
		return nil
	case reflect.Bool:
		dst.SetBool(raw != 0)
		return nil
	default:
		return &UnexpectedTagError{Want: tag, Got: tag}
	}
}

var (
	byteArrayType = reflect.TypeOf(ByteArray(nil))
	intArrayType  = reflect.TypeOf(IntArray(nil))
	longArrayType = reflect.TypeOf(LongArray(nil))
)

func (r *Reader) decodeByteArray(dst reflect.Value) error {
	v, err := r.ReadByteArray()
	if err != nil {
		return err
	}
	switch {
	case dst.Type() == valueType:
		dst.Set(reflect.ValueOf(Value{Tag: TagByteArray, byteArr: v}))
	case dst.Kind() == reflect.Slice && dst.Type().Elem().Kind() == reflect.Uint8:
		buf := make([]byte, len(v))
		for i, b := range v {
			buf[i] = byte(b)
		}
		dst.Set(reflect.ValueOf(buf))
	case dst.Kind() == reflect.Slice && dst.Type().Elem().Kind() == reflect.Int8:
		dst.Set(reflect.ValueOf(v))
	default:
		return &UnexpectedTagError{Want: TagByteArray, Got: TagByteArray}
	}
	return nil
}

func (r *Reader) decodeIntArray(dst reflect.Value) error {
	v, err := r.ReadIntArray()
	if err != nil {
		return err
	}
	switch {
	case dst.Type() == valueType:
		dst.Set(reflect.ValueOf(Value{Tag: TagIntArray, intArr: v}))
	case dst.Kind() == reflect.Slice && dst.Type().Elem().Kind() == reflect.Int32:
		dst.Set(reflect.ValueOf(v))
	case dst.Kind() == reflect.Slice && dst.Type().Elem().Kind() == reflect.Int:
		out := make([]int, len(v))
		for i, x := range v {
			out[i] = int(x)
		}
		dst.Set(reflect.ValueOf(out))
	default:
		return &UnexpectedTagError{Want: TagIntArray, Got: TagIntArray}
	}
	return nil
}

func (r *Reader) decodeLongArray(dst reflect.Value) error {
	v, err := r.ReadLongArray()
	if err != nil {
		return err
	}
	switch {
	case dst.Type() == valueType:
		dst.Set(reflect.ValueOf(Value{Tag: TagLongArray, longArr: v}))
	case dst.Kind() == reflect.Slice && dst.Type().Elem().Kind() == reflect.Int64:
		dst.Set(reflect.ValueOf(v))
	default:
		return &UnexpectedTagError{Want: TagLongArray, Got: TagLongArray}
	}
	return nil
}

func (r *Reader) decodeList(dst reflect.Value, fieldName string) error {
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

	if dst.Kind() != reflect.Slice && dst.Kind() != reflect.Array {
		return &UnexpectedTagError{Pos: pos, Want: TagList, Got: TagList}
	}

	n := int(length)
	var out reflect.Value
	if dst.Kind() == reflect.Slice {
		out = reflect.MakeSlice(dst.Type(), n, n)
	} else {
		if dst.Len() < n {
			return fmt.Errorf("nbt: list of length %d does not fit array of length %d", n, dst.Len())
		}
		out = dst
	}

	for i := 0; i < n; i++ {
		if err := r.decodeInto(elem, out.Index(i), fmt.Sprintf("%s[%d]", fieldName, i)); err != nil {
			return err
		}
	}

	if dst.Kind() == reflect.Slice {
		dst.Set(out)
	}
	return nil
}

func (r *Reader) decodeCompound(dst reflect.Value, fieldName string) error {
	switch dst.Kind() {
	case reflect.Struct:
		return r.decodeStruct(dst)
	case reflect.Map:
		return r.decodeMap(dst)
	default:
		return &CustomError{Msg: fmt.Sprintf("cannot decode Compound field %q into Go kind %s", fieldName, dst.Kind())}
	}
}

func (r *Reader) decodeStruct(dst reflect.Value) error {
	sf := cachedStructFields(dst.Type())
	seen := make([]bool, len(sf.fields))

	var rest reflect.Value
	if sf.restIdx >= 0 {
		rest = fieldByIndex(dst, sf.fields[sf.restIdx].index)
		if rest.IsNil() {
			rest.Set(reflect.MakeMap(rest.Type()))
		}
	}

	for {
		tag, name, err := r.ReadFieldHeader()
		if err != nil {
			return err
		}
		if tag == TagEnd {
			break
		}

		idx, ok := sf.byName[name]
		if !ok {
			if sf.restIdx >= 0 {
				var v Value
				v, err = r.decodeValuePayload(tag)
				if err != nil {
					return err
				}
				rest.SetMapIndex(reflect.ValueOf(name), reflect.ValueOf(v))
				continue
			}
			if err := r.SkipPayload(tag); err != nil {
				return err
			}
			continue
		}

		if seen[idx] {
			return &DuplicateFieldError{Field: name}
		}
		seen[idx] = true

		field := fieldByIndex(dst, sf.fields[idx].index)
		if sf.fields[idx].borrow {
			if tag != TagString {
				return &UnexpectedTagError{Pos: r.Pos(), Want: TagString, Got: tag}
			}
			s, borrowed, err := r.ReadBorrowedString()
			if err != nil {
				return err
			}
			if !borrowed {
				return fmt.Errorf("nbt: field %q: %w", name, ErrBorrowUnavailable)
			}
			field.SetString(s)
			continue
		}
		if err := r.decodeInto(tag, field, name); err != nil {
			return err
		}
	}

	for i, info := range sf.fields {
		if info.rest || info.optional || seen[i] {
			continue
		}
		return &MissingFieldError{Field: info.name}
	}
	return nil
}

func fieldByIndex(v reflect.Value, index []int) reflect.Value {
	for _, i := range index {
		if v.Kind() == reflect.Ptr {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(i)
	}
	return v
}

func (r *Reader) decodeMap(dst reflect.Value) error {
	if dst.Type().Key().Kind() != reflect.String {
		return &CustomError{Msg: "map target must have a string key"}
	}
	if dst.IsNil() {
		dst.Set(reflect.MakeMap(dst.Type()))
	}
	for {
		tag, name, err := r.ReadFieldHeader()
		if err != nil {
			return err
		}
		if tag == TagEnd {
			return nil
		}
		elem := reflect.New(dst.Type().Elem()).Elem()
		if err := r.decodeInto(tag, elem, name); err != nil {
			return err
		}
		dst.SetMapIndex(reflect.ValueOf(name), elem)
	}
}
