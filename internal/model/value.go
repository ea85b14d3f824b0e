package model

import (
	"encoding/json"
	"math"
)

// Float is a float64 that may be "not available". The zero value is unavailable.
type Float struct {
	Value float64
	Valid bool
}

// NA is the unavailable value.
var NA = Float{}

// Some wraps v; NaN and ±Inf become NA.
func Some(v float64) Float {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NA
	}
	return Float{Value: v, Valid: true}
}

// FromPtr converts an optional provider field.
func FromPtr(p *float64) Float {
	if p == nil {
		return NA
	}
	return Some(*p)
}

// Or returns the value, or def when unavailable.
func (f Float) Or(def float64) float64 {
	if !f.Valid {
		return def
	}
	return f.Value
}

// MarshalJSON encodes unavailable values as null.
func (f Float) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// UnmarshalJSON accepts a number or null.
func (f *Float) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = NA
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Some(v)
	return nil
}
