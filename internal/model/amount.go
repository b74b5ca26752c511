package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Amount is a money value in request payloads. Form-driven clients send it
// as a number, a numeric string, an empty string or null; the last two mean
// "not given" and decode to 0.
//
// Anything else that is well-formed JSON decodes to NaN rather than failing
// the whole body, so the service can report which field was wrong. Check
// Valid before using the value.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}

	var raw string
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			*a = 0
			return nil
		}
	} else {
		raw = string(data)
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*a = Amount(math.NaN())
		return nil
	}
	*a = Amount(v)
	return nil
}

// Valid reports whether the amount is a finite number.
func (a Amount) Valid() bool {
	f := float64(a)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
