package tetracoord

import (
	"fmt"
	"strings"
)

// DigitOrder is the order quaternary digits are listed and packed in.
type DigitOrder int

const (
	// HighFirst lists the most significant digit first.
	HighFirst DigitOrder = iota
	// LowFirst lists the least significant digit first.
	LowFirst
)

// DefaultOrder is used when no order is given.
const DefaultOrder = HighFirst

func (o DigitOrder) String() string {
	switch o {
	case HighFirst:
		return "h"
	case LowFirst:
		return "l"
	default:
		return fmt.Sprintf("DigitOrder(%d)", int(o))
	}
}

// ParseDigitOrder accepts "h"/"high"/"high_first" and "l"/"low"/"low_first".
// The empty string yields DefaultOrder.
func ParseDigitOrder(s string) (DigitOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultOrder, nil
	case "h", "high", "high_first":
		return HighFirst, nil
	case "l", "low", "low_first":
		return LowFirst, nil
	}
	return DefaultOrder, fmt.Errorf("unknown digit order %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (o DigitOrder) MarshalText() ([]byte, error) {
	if o != HighFirst && o != LowFirst {
		return nil, fmt.Errorf("unknown digit order %d", int(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *DigitOrder) UnmarshalText(text []byte) error {
	parsed, err := ParseDigitOrder(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}
