package localtime

import (
	"testing"
	"time"
)

func TestParseWallConvertsToUTC(t *testing.T) {
	got, err := ParseWall("2025-01-02", "10:00")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(2025, 1, 2, 4, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
	if _, err := ParseWall("2025-01-02", "10:00:30"); err != nil {
		t.Fatalf("expected seconds form to parse: %v", err)
	}
	if _, err := ParseWall("02/01/2025", "10am"); err == nil {
		t.Fatalf("expected invalid input to fail")
	}
}

func TestFormatAndISO(t *testing.T) {
	instant := time.Date(2025, 1, 1, 18, 30, 5, 0, time.UTC)
	if got := Format(instant); got != "1/2/2025, 12:30:05 AM" {
		t.Fatalf("unexpected local format %q", got)
	}
	if got := ISO(instant); got != "2025-01-01T18:30:05.000Z" {
		t.Fatalf("unexpected iso %q", got)
	}
}
