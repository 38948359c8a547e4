package gradebook

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Points is an assignment's points_possible. Values that are not numbers
// (null, booleans, objects, non-numeric strings) decode to NaN. Numeric
// strings such as "100" decode to their value.
type Points float64

// NaNPoints marks a points_possible value that is not a number.
var NaNPoints = Points(math.NaN())

// Valid reports whether the assignment can be scored: the value is a finite
// number other than zero.
func (p Points) Valid() bool {
	f := float64(p)
	return f != 0 && !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (p Points) Float64() float64 { return float64(p) }

func (p *Points) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case float64:
		*p = Points(t)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			*p = NaNPoints
			return nil
		}
		*p = Points(f)
	default:
		*p = NaNPoints
	}
	return nil
}

// MarshalJSON writes NaN and infinities as null, which JSON cannot carry.
func (p Points) MarshalJSON() ([]byte, error) {
	f := float64(p)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}
