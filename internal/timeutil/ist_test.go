package timeutil

import (
	"testing"
	"time"
)

func TestCoerceDate_PlainDate(t *testing.T) {
	t.Parallel()
	fallback := time.Date(2024, 3, 1, 10, 30, 0, 0, IST)

	got := CoerceDate("2023-11-05", fallback)
	if got.Year() != 2023 || got.Month() != time.November || got.Day() != 5 {
		t.Fatalf("got %v, want 2023-11-05", got)
	}
	if got.Hour() != 0 || got.Minute() != 0 {
		t.Fatalf("time-of-day not discarded: %v", got)
	}
}

func TestCoerceDate_ISOTimestamp(t *testing.T) {
	t.Parallel()
	fallback := time.Date(2024, 3, 1, 0, 0, 0, 0, IST)

	// 2023-11-05T20:30:00Z is already 2023-11-06 in IST; the stored calendar
	// date follows business-local time.
	got := CoerceDate("2023-11-05T20:30:00Z", fallback)
	if got.Day() != 6 || got.Month() != time.November {
		t.Fatalf("got %v, want IST calendar date 2023-11-06", got)
	}
}

func TestCoerceDate_Fallback(t *testing.T) {
	t.Parallel()
	fallback := time.Date(2024, 3, 1, 18, 45, 0, 0, IST)

	for _, bad := range []string{"", "yesterday", "05/11/2023"} {
		got := CoerceDate(bad, fallback)
		if !got.Equal(StartOfDay(fallback)) {
			t.Fatalf("CoerceDate(%q) = %v, want start of fallback day", bad, got)
		}
	}
}
