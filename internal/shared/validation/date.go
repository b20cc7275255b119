package validation

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const isoDate = "2006-01-02"

// SimpleDate is the day/month/year triple posted by a GOV.UK date input
type SimpleDate struct {
	Day   string `json:"day"`
	Month string `json:"month"`
	Year  string `json:"year"`
}

// SimpleDateFrom builds the form triple for an existing date
func SimpleDateFrom(t time.Time) SimpleDate {
	return SimpleDate{
		Day:   strconv.Itoa(t.Day()),
		Month: strconv.Itoa(int(t.Month())),
		Year:  strconv.Itoa(t.Year()),
	}
}

// IsBlank reports whether no part was entered
func (d SimpleDate) IsBlank() bool {
	return strings.TrimSpace(d.Day) == "" && strings.TrimSpace(d.Month) == "" && strings.TrimSpace(d.Year) == ""
}

// Time parses the date at midnight UTC. Impossible dates such as 31/2 fail.
func (d SimpleDate) Time() (time.Time, bool) {
	day, err1 := strconv.Atoi(strings.TrimSpace(d.Day))
	month, err2 := strconv.Atoi(strings.TrimSpace(d.Month))
	year, err3 := strconv.Atoi(strings.TrimSpace(d.Year))
	if err1 != nil || err2 != nil || err3 != nil || year < 1000 || year > 9999 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return time.Time{}, false
	}
	return t, true
}

// ISO returns the date as YYYY-MM-DD, or "" when it does not parse
func (d SimpleDate) ISO() string {
	t, ok := d.Time()
	if !ok {
		return ""
	}
	return t.Format(isoDate)
}

// DateRule is a Rule for SimpleDate values
type DateRule func(SimpleDate) string

// DateRequired fails when nothing was entered
func DateRequired(message string) DateRule {
	return func(d SimpleDate) string {
		if d.IsBlank() {
			return message
		}
		return ""
	}
}

// ValidDate fails for partial or impossible dates
func ValidDate(message string) DateRule {
	return func(d SimpleDate) string {
		if _, ok := d.Time(); !ok {
			return message
		}
		return ""
	}
}

// NotInPast fails for dates before today. today is truncated to a date.
func NotInPast(today func() time.Time, message string) DateRule {
	return func(d SimpleDate) string {
		t, ok := d.Time()
		if ok && t.Before(dateOnly(today())) {
			return message
		}
		return ""
	}
}

// NotInFuture fails for dates after today
func NotInFuture(today func() time.Time, message string) DateRule {
	return func(d SimpleDate) string {
		t, ok := d.Time()
		if ok && t.After(dateOnly(today())) {
			return message
		}
		return ""
	}
}

// NotBefore fails for dates before limit
func NotBefore(limit func() time.Time, message string) DateRule {
	return func(d SimpleDate) string {
		t, ok := d.Time()
		if ok && t.Before(dateOnly(limit())) {
			return message
		}
		return ""
	}
}

// ParseISODate parses YYYY-MM-DD
func ParseISODate(value string) (time.Time, error) {
	t, err := time.Parse(isoDate, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return t, nil
}

// FormatISODate formats t as YYYY-MM-DD
func FormatISODate(t time.Time) string {
	return t.Format(isoDate)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
