package certificate

import (
	"testing"
	"time"
)

func TestDateRangePhraseSameYear(t *testing.T) {
	start := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.July, 20, 0, 0, 0, 0, time.UTC)
	if got, want := dateRangePhrase(start, end), "de marzo a julio de 2024"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestDateRangePhraseAcrossYears(t *testing.T) {
	start := time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	if got, want := dateRangePhrase(start, end), "de noviembre de 2024 a febrero de 2025"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestDateRangePhraseSameMonth(t *testing.T) {
	start := time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, time.June, 30, 0, 0, 0, 0, time.UTC)
	if got, want := dateRangePhrase(start, end), "de junio a junio de 2023"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestDateRangePhraseZeroDates(t *testing.T) {
	if got := dateRangePhrase(time.Time{}, time.Now()); got != invalidDatesPhrase {
		t.Fatalf("expected placeholder for zero start date, got %q", got)
	}
	if got := dateRangePhrase(time.Now(), time.Time{}); got != invalidDatesPhrase {
		t.Fatalf("expected placeholder for zero end date, got %q", got)
	}
}
