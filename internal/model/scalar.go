package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

var jsonNull = []byte("null")

// ID is an opaque identifier that the catalog API may encode as a JSON string
// or a JSON number. It is always compared in its string form.
type ID string

// UnmarshalJSON accepts strings and numbers. Other kinds decode to the empty ID.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		*id = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		*id = ""
		return nil
	}
	*id = ID(n.String())
	return nil
}

// String returns the identifier as a string.
func (id ID) String() string {
	return string(id)
}

// Amount is a price field decoded from an untrusted payload. Valid is false
// when the field was missing, null, or not numeric.
type Amount struct {
	Value float64
	Valid bool
}

// NewAmount returns a valid amount.
func NewAmount(v float64) Amount {
	return Amount{Value: v, Valid: true}
}

// UnmarshalJSON accepts JSON numbers and numeric strings ("12.50").
// Anything else produces an invalid amount rather than an error.
func (a *Amount) UnmarshalJSON(data []byte) error {
	*a = Amount{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}

	*a = Amount{Value: v, Valid: true}
	return nil
}

// MarshalJSON writes the numeric value, or null for an invalid amount.
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return jsonNull, nil
	}
	return []byte(strconv.FormatFloat(a.Value, 'f', -1, 64)), nil
}

// Flag is a boolean that tolerates the encodings seen from PHP backends:
// true/false, 1/0, "1"/"0", "true"/"false".
type Flag bool

// UnmarshalJSON decodes a tolerant boolean. Unknown values decode to false.
func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	s := strings.Trim(string(data), `"`)

	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		*f = true
	default:
		*f = false
	}
	return nil
}
