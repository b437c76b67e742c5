package schedule

import (
	"fmt"
	"time"
)

// ParseStartTime parses "HH:MM" into hour and minute.
func ParseStartTime(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("start time %q must be HH:MM", s)
	}
	return t.Hour(), t.Minute(), nil
}

// ISOWeekday returns 1 for Monday through 7 for Sunday.
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// ResolveOccurrence projects the slot's start time onto the calendar day of
// date, as seen in loc. The result is in UTC.
func ResolveOccurrence(slot Slot, date time.Time, loc *time.Location) (time.Time, error) {
	hour, minute, err := ParseStartTime(slot.StartTime)
	if err != nil {
		return time.Time{}, err
	}
	d := date.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, loc).UTC(), nil
}

// IsOccurrence reports whether at is an instance of slot: the right weekday
// and exactly the slot's start time in loc.
func IsOccurrence(slot Slot, at time.Time, loc *time.Location) bool {
	if ISOWeekday(at.In(loc)) != slot.DayOfWeek {
		return false
	}
	want, err := ResolveOccurrence(slot, at, loc)
	if err != nil {
		return false
	}
	return want.Equal(at)
}

// Occurrences lists the slot's instances on calendar days from through to,
// both inclusive, in loc.
func Occurrences(slot Slot, from, to time.Time, loc *time.Location) []time.Time {
	start := from.In(loc)
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	end := to.In(loc)
	last := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, loc)

	var out []time.Time
	for ; !day.After(last); day = day.AddDate(0, 0, 1) {
		if ISOWeekday(day) != slot.DayOfWeek {
			continue
		}
		at, err := ResolveOccurrence(slot, day, loc)
		if err != nil {
			return nil
		}
		out = append(out, at)
	}
	return out
}
