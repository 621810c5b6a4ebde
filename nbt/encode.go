package nbt

import (
	"fmt"
	"io"
	"reflect"
)

// Marshal encodes v as a complete NBT document (root name "") into w. Use
// MarshalNamed to give the root tag a name.
func Marshal(w io.Writer, v interface{}) error {
	return MarshalNamed(w, "", v)
}

// MarshalNamed encodes v as a complete NBT document with the given root name.
func MarshalNamed(w io.Writer, name string, v interface{}) error {
	nw := NewWriter(w)
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return &CustomError{Msg: "cannot marshal nil pointer"}
		}
		rv = rv.Elem()
	}
	tag, err := tagForValue(rv)
	if err != nil {
		return err
	}
	if err := nw.WriteFieldHeader(tag, name); err != nil {
		return err
	}
	if err := nw.encodeInto(rv); err != nil {
		return err
	}
	return nw.Err()
}

func tagForValue(v reflect.Value) (Tag, error) {
	if v.Type() == valueType {
		return v.Interface().(Value).Tag, nil
	}
	if v.Type() == byteArrayType {
		return TagByteArray, nil
	}
	if v.Type() == intArrayType {
		return TagIntArray, nil
	}
	if v.Type() == longArrayType {
		return TagLongArray, nil
	}

	switch v.Kind() {
	case reflect.Bool, reflect.Int8, reflect.Uint8:
		return TagByte, nil
	case reflect.Int16, reflect.Uint16:
		return TagShort, nil
	case reflect.Int32, reflect.Uint32, reflect.Int, reflect.Uint:
		return TagInt, nil
	case reflect.Int64, reflect.Uint64:
		return TagLong, nil
	case reflect.Float32:
		return TagFloat, nil
	case reflect.Float64:
		return TagDouble, nil
	case reflect.String:
		return TagString, nil
	case reflect.Struct, reflect.Map:
		return TagCompound, nil
	case reflect.Slice, reflect.Array:
		return tagForSlice(v.Type())
	case reflect.Ptr:
		if v.IsNil() {
			return TagEnd, nil
		}
		return tagForValue(v.Elem())
	case reflect.Interface:
		return tagForValue(v.Elem())
	default:
		return 0, &CustomError{Msg: fmt.Sprintf("cannot represent Go kind %s as an NBT tag", v.Kind())}
	}
}

// tagForSlice picks the wire tag for a plain (non-dedicated-array-type) slice
// or array. Only nbt.ByteArray/IntArray/LongArray get the dedicated array
// tags (handled by the type checks in tagForValue before this is reached);
// every other integer-element slice, including a bare []int32 or []int64,
// defaults to List(<matching tag>) so identity loss is visible in the wire
// form rather than silently inferred from Go element width.
func tagForSlice(t reflect.Type) (Tag, error) {
	return TagList, nil
}

func (w *Writer) encodeInto(v reflect.Value) error {
	if v.Type() == valueType {
		return w.encodeValuePayload(v.Interface().(Value))
	}
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Bool:
		b := int8(0)
		if v.Bool() {
			b = 1
		}
		w.WriteInt8(b)
	case reflect.Int8, reflect.Uint8:
		w.WriteInt8(int8(intOrUint(v)))
	case reflect.Int16, reflect.Uint16:
		w.WriteInt16(int16(intOrUint(v)))
	case reflect.Int32, reflect.Uint32, reflect.Int, reflect.Uint:
		w.WriteInt32(int32(intOrUint(v)))
	case reflect.Int64, reflect.Uint64:
		w.WriteInt64(intOrUint(v))
	case reflect.Float32:
		w.WriteFloat32(float32(v.Float()))
	case reflect.Float64:
		w.WriteFloat64(v.Float())
	case reflect.String:
		return w.WriteString(v.String())
	case reflect.Struct:
		return w.encodeStruct(v)
	case reflect.Map:
		return w.encodeMap(v)
	case reflect.Slice, reflect.Array:
		return w.encodeSlice(v)
	default:
		return &CustomError{Msg: fmt.Sprintf("cannot encode Go kind %s", v.Kind())}
	}
	return w.Err()
}

func intOrUint(v reflect.Value) int64 {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(v.Uint())
	default:
		return v.Int()
	}
}

// encodeSlice writes a slice or array. The dedicated ByteArray/IntArray/
// LongArray types get their matching array tag payload; everything else,
// including a bare []int8/[]int32/[]int64, is written as a List so that only
// the dedicated types round-trip array identity (see tagForSlice).
func (w *Writer) encodeSlice(v reflect.Value) error {
	switch v.Type() {
	case byteArrayType:
		n := v.Len()
		buf := make([]int8, n)
		for i := 0; i < n; i++ {
			buf[i] = int8(v.Index(i).Int())
		}
		w.WriteByteArray(buf)
		return w.Err()
	case intArrayType:
		n := v.Len()
		buf := make([]int32, n)
		for i := 0; i < n; i++ {
			buf[i] = int32(v.Index(i).Int())
		}
		w.WriteIntArray(buf)
		return w.Err()
	case longArrayType:
		n := v.Len()
		buf := make([]int64, n)
		for i := 0; i < n; i++ {
			buf[i] = v.Index(i).Int()
		}
		w.WriteLongArray(buf)
		return w.Err()
	}

	n := v.Len()
	var elemTag Tag = TagEnd
	if n > 0 {
		t, err := tagForValue(v.Index(0))
		if err != nil {
			return err
		}
		elemTag = t
	} else if v.Type().Elem() == valueType {
		elemTag = TagCompound
	}
	w.WriteTagID(elemTag)
	w.WriteInt32(int32(n))
	for i := 0; i < n; i++ {
		if err := w.encodeInto(v.Index(i)); err != nil {
			return err
		}
	}
	return w.Err()
}

func (w *Writer) encodeStruct(v reflect.Value) error {
	sf := cachedStructFields(v.Type())
	for _, info := range sf.fields {
		if info.rest {
			rest := fieldByIndex(v, info.index)
			if err := w.encodeRestMap(rest); err != nil {
				return err
			}
			continue
		}
		field := fieldByIndex(v, info.index)
		if info.optional && isEmptyValue(field) {
			continue
		}
		tag, err := tagForValue(field)
		if err != nil {
			return err
		}
		if tag == TagEnd && field.Kind() == reflect.Ptr {
			continue // nil optional pointer: omit entirely
		}
		if err := w.WriteFieldHeader(tag, info.name); err != nil {
			return err
		}
		if err := w.encodeInto(field); err != nil {
			return err
		}
	}
	w.WriteTagID(TagEnd)
	return w.Err()
}

func (w *Writer) encodeRestMap(v reflect.Value) error {
	iter := v.MapRange()
	for iter.Next() {
		val := iter.Value().Interface().(Value)
		if err := w.WriteFieldHeader(val.Tag, iter.Key().String()); err != nil {
			return err
		}
		if err := w.encodeValuePayload(val); err != nil {
			return err
		}
	}
	return w.Err()
}

func (w *Writer) encodeMap(v reflect.Value) error {
	if v.Type().Key().Kind() != reflect.String {
		return &CustomError{Msg: "map key must be a string"}
	}
	iter := v.MapRange()
	for iter.Next() {
		val := iter.Value()
		tag, err := tagForValue(val)
		if err != nil {
			return err
		}
		if err := w.WriteFieldHeader(tag, iter.Key().String()); err != nil {
			return err
		}
		if err := w.encodeInto(val); err != nil {
			return err
		}
	}
	w.WriteTagID(TagEnd)
	return w.Err()
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Slice, reflect.Map:
		return v.IsNil() || v.Len() == 0
	default:
		if v.Type() == valueType {
			return v.Interface().(Value).Tag == TagEnd
		}
		return false
	}
}
