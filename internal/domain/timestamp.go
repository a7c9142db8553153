package domain

import (
	"encoding/json"
	"time"
)

// Timestamp is a point in time read back from the store.
// When the stored value could not be parsed, Time is zero and Raw holds
// the value exactly as it was read.
type Timestamp struct {
	Time time.Time
	Raw  any
}

// NewTimestamp wraps t normalized to UTC
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

// Parsed reports whether the timestamp holds a decoded time
func (t Timestamp) Parsed() bool {
	return t.Raw == nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if !t.Parsed() {
		return json.Marshal(t.Raw)
	}
	return json.Marshal(t.Time.UTC().Format(time.RFC3339Nano))
}

// UnmarshalJSON accepts an RFC 3339 string. Anything else is kept in Raw.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if s, ok := raw.(string); ok {
		if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
			*t = NewTimestamp(parsed)
			return nil
		}
	}
	*t = Timestamp{Raw: raw}
	return nil
}
