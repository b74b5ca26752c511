package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// AgeBucket is one bar of an audience age histogram, e.g. {"19-24", 55}.
type AgeBucket struct {
	Label string
	Count int
}

// AgeDistribution is an audience histogram keyed by free-form bucket labels.
//
// It is a slice rather than a map because bucket order matters: Dominant breaks
// ties by the first bucket encountered, and Go maps have no order. On the wire
// it is still a plain JSON object ({"13-18":12,"19-24":55}); UnmarshalJSON
// walks the object token by token to keep the key order the client sent.
type AgeDistribution []AgeBucket

// Dominant returns the label with the strictly highest count. When several
// buckets share the highest count the earliest one wins. An empty histogram
// has no dominant bucket.
func (d AgeDistribution) Dominant() (string, bool) {
	if len(d) == 0 {
		return "", false
	}
	best := d[0]
	for _, b := range d[1:] {
		if b.Count > best.Count {
			best = b
		}
	}
	return best.Label, true
}

// Set updates the count of an existing label in place or appends a new bucket.
func (d *AgeDistribution) Set(label string, count int) {
	for i := range *d {
		if (*d)[i].Label == label {
			(*d)[i].Count = count
			return
		}
	}
	*d = append(*d, AgeBucket{Label: label, Count: count})
}

// MarshalJSON writes the buckets as a JSON object in slice order.
func (d AgeDistribution) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, b := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(b.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", b.Count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object of label → non-negative integer count,
// preserving key order. A repeated key keeps its first position and takes the
// last value, matching how JavaScript objects behave.
func (d *AgeDistribution) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*d = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("ageDistribution: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("ageDistribution: expected object")
	}

	out := AgeDistribution{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("ageDistribution: %w", err)
		}
		label, ok := tok.(string)
		if !ok {
			return fmt.Errorf("ageDistribution: expected string key")
		}

		var n json.Number
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("ageDistribution: bucket %q: %w", label, err)
		}
		count, err := n.Int64()
		if err != nil || count < 0 {
			return fmt.Errorf("ageDistribution: bucket %q must be a non-negative integer", label)
		}
		out.Set(label, int(count))
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("ageDistribution: %w", err)
	}

	*d = out
	return nil
}
