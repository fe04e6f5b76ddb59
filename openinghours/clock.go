package openinghours

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	// Embedded zone database so Europe/Brussels resolves on hosts without tzdata.
	_ "time/tzdata"
)

const minutesPerDay = 24 * 60

// Moment is a wall-clock reading in the business timezone.
type Moment struct {
	Weekday time.Weekday
	Minute  int // minutes since local midnight
}

// MomentOf converts an instant to business-local weekday and minute-of-day.
// A nil location is treated as UTC, never as the host's local zone.
func MomentOf(t time.Time, loc *time.Location) Moment {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return Moment{
		Weekday: local.Weekday(),
		Minute:  local.Hour()*60 + local.Minute(),
	}
}

// normalize folds out-of-range caller input back onto the week.
func (m Moment) normalize() Moment {
	days := m.Minute / minutesPerDay
	minute := m.Minute % minutesPerDay
	if minute < 0 {
		minute += minutesPerDay
		days--
	}
	wd := normalizeWeekday(m.Weekday) + time.Weekday(days%7)
	return Moment{Weekday: normalizeWeekday(wd), Minute: minute}
}

func normalizeWeekday(wd time.Weekday) time.Weekday {
	return ((wd % 7) + 7) % 7
}

// LoadLocation resolves a business timezone name, falling back to UTC.
func LoadLocation(name string) (*time.Location, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC, fmt.Errorf("failed to load timezone %q: %w", name, err)
	}
	return loc, nil
}

// ParseClock parses a 24-hour "HH:MM" (or "H:MM") string into minutes since
// midnight.
func ParseClock(s string) (int, bool) {
	hh, mm, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 || !digits(hh) || !digits(mm) {
		return 0, false
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FormatClock renders minutes since midnight as "HH:MM", wrapping past 24h.
func FormatClock(minute int) string {
	minute = ((minute % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
