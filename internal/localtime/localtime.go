// Package localtime holds the campus clock. Dates entered by people are
// Dhaka wall time (UTC+6, no daylight saving); storage is UTC.
package localtime

import (
	"fmt"
	"time"
)

var Dhaka = time.FixedZone("Asia/Dhaka", 6*60*60)

// ParseWall reads a YYYY-MM-DD date and HH:MM (or HH:MM:SS) time as Dhaka
// wall time and returns the instant in UTC.
func ParseWall(date, clock string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02 15:04:05"} {
		t, err := time.ParseInLocation(layout, date+" "+clock, Dhaka)
		if err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q or time %q", date, clock)
}

// Format renders t the way notifications print dates: 1/2/2025, 10:00:00 AM.
func Format(t time.Time) string {
	return t.In(Dhaka).Format("1/2/2006, 3:04:05 PM")
}

// ISO is the millisecond UTC form, e.g. 2025-01-01T00:00:00.000Z.
func ISO(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
