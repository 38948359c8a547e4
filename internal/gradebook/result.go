package gradebook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
)

// LearnerResult is a learner's overall average (0-100) and the ratio earned
// on each counted assignment (0-1, keyed by assignment id).
//
// It encodes as a flat JSON object: {"id":1,"avg":80,"101":0.8}.
type LearnerResult struct {
	ID     int
	Avg    float64
	Scores map[int]float64
}

func (r LearnerResult) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"id":`)
	buf.WriteString(strconv.Itoa(r.ID))
	buf.WriteString(`,"avg":`)
	if err := writeNumber(&buf, r.Avg); err != nil {
		return nil, err
	}
	for _, id := range slices.Sorted(maps.Keys(r.Scores)) {
		buf.WriteString(`,"`)
		buf.WriteString(strconv.Itoa(id))
		buf.WriteString(`":`)
		if err := writeNumber(&buf, r.Scores[id]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeNumber(buf *bytes.Buffer, f float64) error {
	b, err := json.Marshal(f)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

func (r *LearnerResult) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	out := LearnerResult{Scores: map[int]float64{}}
	for k, raw := range fields {
		switch k {
		case "id":
			if err := json.Unmarshal(raw, &out.ID); err != nil {
				return fmt.Errorf("id: %w", err)
			}
		case "avg":
			if err := json.Unmarshal(raw, &out.Avg); err != nil {
				return fmt.Errorf("avg: %w", err)
			}
		default:
			id, err := strconv.Atoi(k)
			if err != nil {
				return fmt.Errorf("unexpected key %q", k)
			}
			var v float64
			if err := json.Unmarshal(raw, &v); err != nil {
				return fmt.Errorf("assignment %d: %w", id, err)
			}
			out.Scores[id] = v
		}
	}
	*r = out
	return nil
}

// checkFinite rejects results holding NaN or an infinity.
func checkFinite(results []LearnerResult) error {
	for _, r := range results {
		if math.IsNaN(r.Avg) || math.IsInf(r.Avg, 0) {
			return fmt.Errorf("learner %d avg: %w", r.ID, ErrNonFinite)
		}
		for _, aid := range slices.Sorted(maps.Keys(r.Scores)) {
			if v := r.Scores[aid]; math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("learner %d assignment %d: %w", r.ID, aid, ErrNonFinite)
			}
		}
	}
	return nil
}
