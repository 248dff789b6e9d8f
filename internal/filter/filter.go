// Package filter selects orders and ledger entries by branch and reporting
// period. Calendar comparisons happen in the location of the reference time.
package filter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rr-restro/pos/internal/enum"
	"github.com/rr-restro/pos/internal/model"
)

const dateLayout = "2006-01-02"

var (
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrInvalidDate      = errors.New("invalid date, use YYYY-MM-DD")
)

// Record is anything that belongs to a branch and happened at a point in time.
type Record interface {
	Branch() string
	Time() model.Timestamp
}

// Criteria selects records. Start and End are calendar dates and only apply
// to CUSTOM; a zero value leaves that side open.
type Criteria struct {
	BranchID  string
	Frequency string
	Start     time.Time
	End       time.Time
}

// ParseCriteria builds Criteria from query-string style values. Empty branch
// means ALL and empty frequency means ALL_TIME.
func ParseCriteria(branchID, frequency, start, end string) (Criteria, error) {
	c := Criteria{BranchID: branchID, Frequency: strings.ToUpper(strings.TrimSpace(frequency))}
	if c.BranchID == "" {
		c.BranchID = enum.BranchAll
	}
	if c.Frequency == "" {
		c.Frequency = enum.FrequencyAllTime
	}
	if !validFrequency(c.Frequency) {
		return Criteria{}, fmt.Errorf("%w: %s", ErrInvalidFrequency, frequency)
	}

	var err error
	if start != "" {
		if c.Start, err = time.Parse(dateLayout, start); err != nil {
			return Criteria{}, fmt.Errorf("start_date: %w", ErrInvalidDate)
		}
	}
	if end != "" {
		if c.End, err = time.Parse(dateLayout, end); err != nil {
			return Criteria{}, fmt.Errorf("end_date: %w", ErrInvalidDate)
		}
	}
	return c, nil
}

// Apply returns the records matching c, in input order.
func Apply[T Record](records []T, c Criteria, now time.Time) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if Match(r, c, now) {
			out = append(out, r)
		}
	}
	return out
}

// Match reports whether a single record satisfies c.
func Match(r Record, c Criteria, now time.Time) bool {
	if c.BranchID != "" && c.BranchID != enum.BranchAll && r.Branch() != c.BranchID {
		return false
	}

	loc := now.Location()
	t := r.Time().In(loc)

	switch c.Frequency {
	case enum.FrequencyDaily:
		y1, m1, d1 := t.Date()
		y2, m2, d2 := now.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	case enum.FrequencyWeekly:
		return !t.Before(now.Add(-7 * 24 * time.Hour))
	case enum.FrequencyMonthly:
		return t.Year() == now.Year() && t.Month() == now.Month()
	case enum.FrequencyYearly:
		return t.Year() == now.Year()
	case enum.FrequencyCustom:
		if !c.Start.IsZero() {
			y, m, d := c.Start.Date()
			if t.Before(time.Date(y, m, d, 0, 0, 0, 0, loc)) {
				return false
			}
		}
		if !c.End.IsZero() {
			y, m, d := c.End.Date()
			if t.After(time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), loc)) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func validFrequency(f string) bool {
	switch f {
	case enum.FrequencyAllTime, enum.FrequencyDaily, enum.FrequencyWeekly,
		enum.FrequencyMonthly, enum.FrequencyYearly, enum.FrequencyCustom:
		return true
	}
	return false
}
