package tetracoord

import (
	"encoding/json"
	"fmt"
)

// jsonTetracoordinate is the wire form of a Tetracoordinate.
type jsonTetracoordinate struct {
	Digits     string     `json:"digits"`
	Power      int        `json:"power"`
	Order      DigitOrder `json:"order"`
	Irrational bool       `json:"irrational,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (t Tetracoordinate) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonTetracoordinate{
		Digits:     t.DigitString(),
		Power:      t.power,
		Order:      t.order,
		Irrational: t.irrational,
	})
}

// UnmarshalJSON implements json.Unmarshaler. The digits field must not
// contain a point; the power is carried separately.
func (t *Tetracoordinate) UnmarshalJSON(data []byte) error {
	var raw jsonTetracoordinate
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode tetracoordinate: %w", err)
	}
	if len(raw.Digits) == 0 {
		return fmt.Errorf("%w: no digits", ErrInvalidFormat)
	}

	digits := make([]uint8, len(raw.Digits))
	for i := 0; i < len(raw.Digits); i++ {
		c := raw.Digits[i]
		if c < '0' || c > '9' {
			return fmt.Errorf("%w: unexpected character %q in digits", ErrInvalidFormat, c)
		}
		digits[i] = c - '0'
	}

	parsed, err := FromDigits(digits,
		WithPower(raw.Power),
		WithOrder(raw.Order),
		WithIrrational(raw.Irrational),
	)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
