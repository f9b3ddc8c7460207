package modes

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Use errors.Is to classify a failure and errors.As to
// reach the carried context.
var (
	// ErrFormat means the raw input cannot be framed at all.
	ErrFormat = errors.New("malformed extended squitter")

	// ErrWrongTypeCode means the frame belongs to a different decoder.
	ErrWrongTypeCode = errors.New("wrong format type code")

	// ErrWrongSubtype means the type code matched but the subtype did not.
	ErrWrongSubtype = errors.New("wrong subtype")
)

// FormatError is returned by DecodeFrame when the input has the wrong
// length, is not hex, or is not an extended squitter.
type FormatError struct {
	Raw    string // Input as given to DecodeFrame.
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %s (raw %q)", ErrFormat, e.Reason, e.Raw)
}

func (e *FormatError) Unwrap() error { return ErrFormat }

// DecodeError reports a structural mismatch between a valid frame and the
// decoder it was handed to. Both kinds are recoverable: the caller should try
// another decoder.
type DecodeError struct {
	Kind    error  // ErrWrongTypeCode or ErrWrongSubtype.
	Decoder string // Name of the rejecting decoder.
	Got     uint8
	Want    uint8
	Raw     string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %s got %d, want %d (raw %q)", e.Decoder, e.Kind, e.Got, e.Want, e.Raw)
}

func (e *DecodeError) Unwrap() error { return e.Kind }

// WrongTypeCode builds the error a decoder returns when f carries a format
// type code it does not handle.
func WrongTypeCode(decoder string, f *Frame, want uint8) error {
	return &DecodeError{
		Kind:    ErrWrongTypeCode,
		Decoder: decoder,
		Got:     f.FormatTypeCode(),
		Want:    want,
		Raw:     f.Raw(),
	}
}

// WrongSubtype builds the error a decoder returns when the subtype does not
// match after the type code did.
func WrongSubtype(decoder string, f *Frame, got, want uint8) error {
	return &DecodeError{
		Kind:    ErrWrongSubtype,
		Decoder: decoder,
		Got:     got,
		Want:    want,
		Raw:     f.Raw(),
	}
}

// IsMismatch reports whether err only says the frame belongs to another
// decoder.
func IsMismatch(err error) bool {
	return errors.Is(err, ErrWrongTypeCode) || errors.Is(err, ErrWrongSubtype)
}
