package timeutil

import (
	"time"
)

// IST is the Indian Standard Time location (UTC+5:30)
var IST *time.Location

func init() {
	var err error
	IST, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// Fallback: create fixed zone if Asia/Kolkata not available
		IST = time.FixedZone("IST", 5*60*60+30*60) // UTC+5:30
	}
}

// Now returns the current time in IST
func Now() time.Time {
	return time.Now().In(IST)
}

// ToIST converts any time to IST
func ToIST(t time.Time) time.Time {
	return t.In(IST)
}

// StartOfDay returns the start of day (00:00:00) in IST for the given time
func StartOfDay(t time.Time) time.Time {
	ist := t.In(IST)
	return time.Date(ist.Year(), ist.Month(), ist.Day(), 0, 0, 0, 0, IST)
}

// Common layouts
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
	DisplayLayout  = "02 Jan 2006, 03:04 PM"
)

// CoerceDate turns a client-supplied date value into a calendar date in IST.
// Accepts "2006-01-02" strings and full ISO timestamps (the time-of-day and
// timezone are discarded). Anything unparseable, including the empty string,
// falls back to the calendar date of fallback.
func CoerceDate(value string, fallback time.Time) time.Time {
	if value != "" {
		if t, err := time.ParseInLocation(DateLayout, value, IST); err == nil {
			return t
		}
		if t, err := time.Parse(time.RFC3339, value); err == nil {
			return StartOfDay(t)
		}
		if t, err := time.Parse("2006-01-02T15:04:05.000Z", value); err == nil {
			return StartOfDay(t)
		}
	}
	return StartOfDay(fallback)
}

// FormatDate renders a time as its IST calendar date.
func FormatDate(t time.Time) string {
	return t.In(IST).Format(DateLayout)
}
