package nbt

import (
	"errors"
	"fmt"
)

// Sentinel errors for coarse errors.Is checks. Structured failures that carry
// positional context are concrete types below and still satisfy errors.Is
// against these where the base spec's taxonomy calls for it.
var (
	ErrMalformed         = errors.New("nbt: malformed input")
	ErrStringTooLong     = errors.New("nbt: modified-UTF-8 string exceeds 65535 bytes")
	ErrBorrowUnavailable = errors.New("nbt: zero-copy borrow unavailable, decoding required an allocation")
)

// InvalidTagError reports a tag id outside the 0..12 range defined by the format.
type InvalidTagError struct {
	Pos int
	Tag byte
}

func (e *InvalidTagError) Error() string {
	return fmt.Sprintf("nbt: invalid tag id 0x%02x at byte offset %d", e.Tag, e.Pos)
}

// InvalidLengthError reports a declared length that is negative. A length that
// runs past the end of the input is reported as ErrMalformed instead.
type InvalidLengthError struct {
	Pos    int
	Length int32
}

func (e *InvalidLengthError) Error() string {
	return fmt.Sprintf("nbt: invalid length %d at byte offset %d", e.Length, e.Pos)
}

func (e *InvalidLengthError) Unwrap() error { return ErrMalformed }

// UnexpectedTagError reports that the schema expected one tag kind but the
// stream carried another.
type UnexpectedTagError struct {
	Pos       int
	Want, Got Tag
}

func (e *UnexpectedTagError) Error() string {
	return fmt.Sprintf("nbt: expected tag %s, got %s at byte offset %d", e.Want, e.Got, e.Pos)
}

// MissingFieldError reports a required struct field absent from a Compound.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("nbt: missing required field %q", e.Field)
}

// DuplicateFieldError reports a Compound with a repeated key the schema rejects.
type DuplicateFieldError struct {
	Field string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("nbt: duplicate field %q", e.Field)
}

// OverflowError reports a numeric narrowing conversion that would lose
// information, e.g. an Int tag targeting an int8 field.
type OverflowError struct {
	Field string
	Tag   Tag
	Value int64
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("nbt: value %d from tag %s overflows field %q", e.Value, e.Tag, e.Field)
}

// CustomError wraps a caller-supplied message from a schema visitor.
type CustomError struct {
	Msg string
}

func (e *CustomError) Error() string { return "nbt: " + e.Msg }
