package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"electric-backend/internal/timeutil"
)

// Date is a calendar date. It marshals as "2006-01-02"; time-of-day is never
// carried on the wire.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{timeutil.StartOfDay(t)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + timeutil.FormatDate(d.Time) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.ParseInLocation(timeutil.DateLayout, s, timeutil.IST); err == nil {
		d.Time = t
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		d.Time = timeutil.StartOfDay(t)
		return nil
	}
	// Unparseable dates degrade to zero; normalization substitutes "now".
	d.Time = time.Time{}
	return nil
}

// FlexNumber tolerates legacy clients that send amounts as quoted strings
// ("5000") instead of JSON numbers. Anything unparseable decodes to zero and
// is dropped by downstream positive-amount filters.
type FlexNumber float64

func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = FlexNumber(f)
	return nil
}

func (n FlexNumber) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(n))
}
