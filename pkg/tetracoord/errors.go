package tetracoord

import "errors"

var (
	// ErrInvalidDigit is returned when a digit lies outside 0..3.
	ErrInvalidDigit = errors.New("invalid tetracoordinate digit")

	// ErrInvalidFormat is returned for malformed numeral strings or buffers.
	ErrInvalidFormat = errors.New("invalid tetracoordinate format")

	// ErrUnsupportedOperation is returned by arithmetic that has no native
	// tetracoordinate implementation. Use the *FromCartesian variants instead.
	ErrUnsupportedOperation = errors.New("unsupported tetracoordinate operation")
)
