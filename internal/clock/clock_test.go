package clock

import (
	"testing"
	"time"
)

func TestTodayAtExplicitOverride(t *testing.T) {
	// 20:00 UTC is already the next day in Tokyo.
	now := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)

	got := TodayAt("Asia/Tokyo", now)
	want := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("TodayAt(Asia/Tokyo) = %v, want %v", got, want)
	}
}

func TestTodayAtInvalidOverrideFallsThrough(t *testing.T) {
	t.Setenv("PAPERS_TZ", "Asia/Tokyo")
	t.Setenv("TZ", "")

	now := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	got := TodayAt("Not/AZone", now)
	want := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("invalid override should fall through to PAPERS_TZ: got %v, want %v", got, want)
	}
}

func TestTodayAtEnvChainOrder(t *testing.T) {
	t.Setenv("PAPERS_TZ", "Asia/Tokyo")
	t.Setenv("TZ", "UTC")

	now := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	got := TodayAt("", now)
	want := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("PAPERS_TZ should win over TZ: got %v, want %v", got, want)
	}
}

func TestTodayAtAllInvalidUsesLocalDate(t *testing.T) {
	t.Setenv("PAPERS_TZ", "Bogus/Zone")
	t.Setenv("TZ", "Also/Bogus")

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	got := TodayAt("", now)

	local := now
	want := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("all-invalid chain should use the process-local date: got %v, want %v", got, want)
	}
}
