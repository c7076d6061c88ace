package params

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedEscape is returned when text contains a '%' that does not
	// start a valid escape, or when decoded bytes are not valid UTF-8.
	ErrMalformedEscape = errors.New("malformed percent-encoding")

	// ErrInvalidPair is returned when an element of a PairSequence is not
	// exactly a two-element pair.
	ErrInvalidPair = errors.New("invalid pair: each element must have exactly two items")
)

// ErrorCode categorizes parse failures.
type ErrorCode string

const (
	// CodeMalformedEscape marks a percent-decoding failure.
	CodeMalformedEscape ErrorCode = "MALFORMED_ESCAPE"

	// CodeInvalidPair marks a PairSequence element with the wrong shape.
	CodeInvalidPair ErrorCode = "INVALID_PAIR"
)

// ParseError describes why an input could not be turned into a store.
type ParseError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Input is the offending text (for escapes) or a rendering of the
	// offending element (for pairs).
	Input string

	// Offset is the byte offset of a bad escape in Input, or the index of
	// the bad element in a PairSequence. -1 when unknown.
	Offset int

	// Err wraps one of the package sentinels.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s: %v (input=%q, at=%d)", e.Code, e.Err, e.Input, e.Offset)
	}
	return fmt.Sprintf("%s: %v (input=%q)", e.Code, e.Err, e.Input)
}

// Unwrap returns the underlying error for errors.Is and errors.As.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsMalformedEscape reports whether err is a percent-decoding failure.
func IsMalformedEscape(err error) bool {
	return errors.Is(err, ErrMalformedEscape)
}

// IsInvalidPair reports whether err is a PairSequence shape failure.
func IsInvalidPair(err error) bool {
	return errors.Is(err, ErrInvalidPair)
}
