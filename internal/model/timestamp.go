package model

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Timestamp is a point in time that travels as epoch milliseconds.
// RFC 3339 strings are also accepted on decode.
type Timestamp struct {
	time.Time
}

// At wraps t, truncated to millisecond precision.
func At(t time.Time) Timestamp {
	return Timestamp{Time: t.Truncate(time.Millisecond)}
}

// FromMillis builds a Timestamp from epoch milliseconds.
func FromMillis(ms int64) Timestamp {
	return Timestamp{Time: time.UnixMilli(ms)}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("0"), nil
	}
	return strconv.AppendInt(nil, t.UnixMilli(), 10), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = Timestamp{}
		return nil
	}

	if b[0] == '"' {
		s, err := strconv.Unquote(string(b))
		if err != nil {
			return fmt.Errorf("timestamp: %w", err)
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			*t = FromMillis(ms)
			return nil
		}
		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("timestamp: %w", err)
		}
		*t = At(parsed)
		return nil
	}

	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if f == 0 {
		*t = Timestamp{}
		return nil
	}
	*t = FromMillis(int64(f))
	return nil
}

// Points is a whole number of loyalty points. One point is worth one
// currency unit at redemption.
type Points int64

// UnmarshalJSON accepts fractional values from older snapshots and floors them.
func (p *Points) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*p = 0
		return nil
	}
	f, err := strconv.ParseFloat(string(bytes.Trim(b, `"`)), 64)
	if err != nil {
		return fmt.Errorf("points: %w", err)
	}
	*p = Points(math.Floor(f))
	return nil
}
