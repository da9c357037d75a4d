package service_test

import (
	"testing"
	"time"

	"taskpulse/internal/service"
)

func TestQuoteOfDay_StableWithinDay(t *testing.T) {
	morning := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC)

	if service.QuoteOfDay(morning) != service.QuoteOfDay(evening) {
		t.Fatal("expected the same quote throughout a calendar day")
	}
}

func TestQuoteOfDay_RotatesDaily(t *testing.T) {
	day := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	next := day.AddDate(0, 0, 1)

	if service.QuoteOfDay(day) == service.QuoteOfDay(next) {
		t.Fatal("expected consecutive days to rotate to a different quote")
	}
}

func TestQuoteOfDay_NeverEmpty(t *testing.T) {
	// Walk a full year to cover every rotation slot.
	day := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for range 365 {
		if service.QuoteOfDay(day) == "" {
			t.Fatalf("empty quote on %s", day.Format("2006-01-02"))
		}
		day = day.AddDate(0, 0, 1)
	}
}
