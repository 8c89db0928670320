package schema

import (
	"fmt"
	"strings"
	"time"
)

// Date is a civil calendar date with no time zone attached.
// Operational feeds record the local day of the activity, so dates are never
// converted through a zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Window is an inclusive reporting window.
type Window struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

// NewDate builds a Date, normalizing out-of-range days the way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate accepts YYYY-MM-DD, DD/MM/YYYY, and ISO timestamps with a T
// separator (the date part is used as-is).
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, fmt.Errorf("empty date")
	}
	if idx := strings.IndexByte(s, 'T'); idx > 0 {
		s = s[:idx]
	}
	layout := "2006-01-02"
	if strings.Contains(s, "/") {
		layout = "02/01/2006"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		// Sheets often drop leading zeros in DD/MM/YYYY
		if layout == "02/01/2006" {
			if t2, err2 := time.Parse("2/1/2006", s); err2 == nil {
				return DateOf(t2), nil
			}
		}
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// MustParseDate is ParseDate for literals known to be valid.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Time returns midnight UTC of the date, for arithmetic only.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool { return d.Year == 0 && d.Month == 0 && d.Day == 0 }

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool { return d.Time().Before(other.Time()) }

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool { return d.Time().After(other.Time()) }

// AddDays shifts the date by n days.
func (d Date) AddDays(n int) Date { return DateOf(d.Time().AddDate(0, 0, n)) }

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalText encodes the date as YYYY-MM-DD.
func (d Date) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return []byte(""), nil
	}
	return []byte(d.String()), nil
}

// UnmarshalText decodes any format ParseDate accepts.
func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Contains reports whether d falls inside the inclusive window.
func (w Window) Contains(d Date) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

func (w Window) String() string {
	return w.Start.String() + ".." + w.End.String()
}
