package banner

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

const (
	DurationMinutes = "minutes"
	DurationHours   = "hours"
	DurationDays    = "days"
)

type Bounds struct {
	Min  int
	Max  int
	Unit string
}

func (b Bounds) Contains(value int) bool {
	return value >= b.Min && value <= b.Max
}

func (b Bounds) Message() string {
	return fmt.Sprintf("Duration must be between %d and %d %s", b.Min, b.Max, b.Unit)
}

var durationBounds = map[string]Bounds{
	DurationMinutes: {Min: 1, Max: 1440, Unit: "minutes"},
	DurationHours:   {Min: 1, Max: 720, Unit: "hours"},
	DurationDays:    {Min: 1, Max: 365, Unit: "days"},
}

func DurationBounds(kind string) (Bounds, bool) {
	b, ok := durationBounds[kind]
	return b, ok
}

var errNoDuration = errors.New("banner request has no duration")

// EndDate adds the stored duration to start. Minutes win over hours, hours
// over days; zero values count as unset.
func EndDate(start time.Time, minutes, hours, days pgtype.Int4) (time.Time, error) {
	switch {
	case minutes.Valid && minutes.Int32 > 0:
		return start.Add(time.Duration(minutes.Int32) * time.Minute), nil
	case hours.Valid && hours.Int32 > 0:
		return start.Add(time.Duration(hours.Int32) * time.Hour), nil
	case days.Valid && days.Int32 > 0:
		return start.Add(time.Duration(days.Int32) * 24 * time.Hour), nil
	}
	return time.Time{}, errNoDuration
}
