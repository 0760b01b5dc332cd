package grecp

import (
	"errors"
	"fmt"
)

var (
	ErrTruncated      = errors.New("grecp: truncated data")
	ErrLengthMismatch = errors.New("grecp: length mismatch")
	ErrInvalidLength  = errors.New("grecp: invalid length")
	// ErrUnknownHeader is reserved. Unknown message types decode structurally.
	ErrUnknownHeader = errors.New("grecp: unknown header")
	ErrValueKind     = errors.New("grecp: value kind does not match attribute id")
	ErrHeaderRange   = errors.New("grecp: header field exceeds 4 bits")
)

// DecodeError locates a decode failure. Offset is relative to the buffer passed
// to the outermost decode call.
type DecodeError struct {
	Op     string
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v (%s at offset %d)", e.Err, e.Op, e.Offset)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func decodeErr(op string, offset int, err error) error {
	return &DecodeError{Op: op, Offset: offset, Err: err}
}

// shift rebases a nested DecodeError onto its parent buffer.
func shift(err error, base int) error {
	var de *DecodeError
	if errors.As(err, &de) {
		return &DecodeError{Op: de.Op, Offset: de.Offset + base, Err: de.Err}
	}
	return err
}

// ErrorLabel maps an error to a short stable label for metrics and logs.
func ErrorLabel(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrTruncated):
		return "truncated"
	case errors.Is(err, ErrLengthMismatch):
		return "length_mismatch"
	case errors.Is(err, ErrInvalidLength):
		return "invalid_length"
	case errors.Is(err, ErrUnknownHeader):
		return "unknown_header"
	case errors.Is(err, ErrValueKind):
		return "value_kind"
	case errors.Is(err, ErrHeaderRange):
		return "header_range"
	default:
		return "other"
	}
}
