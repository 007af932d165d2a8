// Package calendar provides calendar-day and calendar-month values.
//
// Dates and months are plain calendar values: they carry no location and all
// arithmetic is done on the proleptic Gregorian calendar, so "2025-03-30" plus
// one day is always "2025-03-31" whatever the local daylight-saving rules are.
package calendar

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	// DateLayout is the ISO form used for dates in persisted records.
	DateLayout = "2006-01-02"
	// MonthLayout is the form used for month keys.
	MonthLayout = "2006-01"

	readDateLayout  = "2006-1-2" // lenient read, accepts 2025-7-1
	readMonthLayout = "2006-1"
)

// Date is a day with no time-of-day and no location.
type Date struct {
	y int
	m time.Month
	d int
}

// New returns a normalized Date, so New(2025, 1, 32) is 1 Feb 2025.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// FromTime returns the calendar day of t in t's own location.
func FromTime(t time.Time) Date { return New(t.Date()) }

// Parse reads an ISO date. It is lenient about zero padding.
func Parse(s string) (Date, error) {
	t, err := time.Parse(readDateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", s, DateLayout, err)
	}
	return FromTime(t), nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err.Error())
	}
	return d
}

func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

func (d Date) Year() int             { return d.y }
func (d Date) Day() int              { return d.d }
func (d Date) Weekday() time.Weekday { return d.time().Weekday() }
func (d Date) Month() Month          { return Month{d.y, d.m} }
func (d Date) Add(days int) Date     { return New(d.y, d.m, d.d+days) }
func (d Date) Before(x Date) bool    { return d.time().Before(x.time()) }
func (d Date) After(x Date) bool     { return d.time().After(x.time()) }
func (d Date) String() string        { return d.time().Format(DateLayout) }
func (d Date) DaysUntil(x Date) int  { return int(x.time().Sub(d.time()).Hours() / 24) }
func (d Date) Equal(x Date) bool     { return d == x }

// StartOfWeek returns the latest day on or before d that falls on first.
func StartOfWeek(d Date, first time.Weekday) Date {
	diff := (int(d.Weekday()) - int(first) + 7) % 7
	return d.Add(-diff)
}

// MarshalJSON encodes the date as an ISO string.
func (d Date) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

// UnmarshalJSON decodes an ISO date string.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

var (
	_ json.Marshaler   = Date{}
	_ json.Unmarshaler = (*Date)(nil)
)

// Month is a calendar month.
type Month struct {
	y int
	m time.Month
}

// NewMonth returns a normalized Month, so NewMonth(2025, 13) is January 2026.
func NewMonth(year int, month time.Month) Month {
	return New(year, month, 1).Month()
}

// MonthOf returns the calendar month of t in t's own location.
func MonthOf(t time.Time) Month { return FromTime(t).Month() }

// ParseMonth reads a yyyy-MM month key.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(readMonthLayout, s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q want format %q: %w", s, MonthLayout, err)
	}
	return NewMonth(t.Year(), t.Month()), nil
}

func (m Month) Year() int            { return m.y }
func (m Month) Month() time.Month    { return m.m }
func (m Month) IsZero() bool         { return m == Month{} }
func (m Month) First() Date          { return Date{m.y, m.m, 1} }
func (m Month) Add(months int) Month { return NewMonth(m.y, m.m+time.Month(months)) }
func (m Month) String() string       { return m.First().time().Format(MonthLayout) }

// Label is the short English month name, e.g. "Feb".
func (m Month) Label() string { return m.m.String()[:3] }

// Days returns the number of days in the month.
func (m Month) Days() int { return New(m.y, m.m+1, 0).d }

// Day returns the given 1-based day of the month.
func (m Month) Day(day int) Date { return New(m.y, m.m, day) }
