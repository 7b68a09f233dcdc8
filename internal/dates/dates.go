// Package dates computes the calendar windows events are filtered into and
// parses the source site's locale-formatted date strings into typed values.
// Everything here is a pure function of its inputs; windows must be recomputed
// from the clock on every pipeline run.
package dates

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Month names as the source site renders them (Romanian, lowercased).
var monthNames = [13]string{
	time.January:   "ianuarie",
	time.February:  "februarie",
	time.March:     "martie",
	time.April:     "aprilie",
	time.May:       "mai",
	time.June:      "iunie",
	time.July:      "iulie",
	time.August:    "august",
	time.September: "septembrie",
	time.October:   "octombrie",
	time.November:  "noiembrie",
	time.December:  "decembrie",
}

var monthByName = func() map[string]time.Month {
	m := make(map[string]time.Month, 12)
	for i := time.January; i <= time.December; i++ {
		m[monthNames[i]] = i
	}
	return m
}()

var (
	ErrBadDate  = errors.New("unrecognized date text")
	ErrBadClock = errors.New("unrecognized clock text")
)

const clockLayout = "15:04"

// Clock is a time of day with minute precision.
type Clock struct {
	Hour   int
	Minute int
}

// MinutesOfDay returns the clock as minutes since midnight, for ordering.
func (c Clock) MinutesOfDay() int {
	return c.Hour*60 + c.Minute
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// ParseClock parses an "HH:mm" token. Anything that is not exactly an
// hour:minute string is an error.
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return Clock{}, fmt.Errorf("%w: %q", ErrBadClock, s)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// ParseDay parses a "d month yyyy" date in the source locale into a calendar
// date (midnight UTC). The input is expected lowercased; lookup is tolerant of
// stray case anyway.
func ParseDay(s string) (time.Time, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) != 3 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, s)
	}
	day, err := strconv.Atoi(fields[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, s)
	}
	month, ok := monthByName[strings.ToLower(fields[1])]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, s)
	}
	year, err := strconv.Atoi(fields[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, s)
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range values ("31 februarie" becomes March);
	// reject anything that did not round-trip.
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, s)
	}
	return t, nil
}

// Parse parses a full "d month yyyy, HH:mm" event date text into an instant
// (UTC). Used for the chronological sort of formatted entries.
func Parse(s string) (time.Time, error) {
	datePart, clockPart, found := strings.Cut(s, ", ")
	if !found {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, s)
	}
	day, err := ParseDay(datePart)
	if err != nil {
		return time.Time{}, err
	}
	clock, err := ParseClock(strings.TrimSpace(clockPart))
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(time.Duration(clock.MinutesOfDay()) * time.Minute), nil
}

// SplitClock returns the clock token of an event date text: everything after
// the first ", " separator. ok is false when there is no separator.
func SplitClock(s string) (clock string, ok bool) {
	_, clockPart, found := strings.Cut(s, ", ")
	if !found {
		return "", false
	}
	return strings.TrimSpace(clockPart), true
}

// Label formats a calendar date the way the source site does ("2 martie 2025").
func Label(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), monthNames[t.Month()], t.Year())
}

// Windows holds the concrete calendar dates, as midnight-UTC values, that a
// single pipeline run filters against. All fields derive from one reference
// instant so the windows of a run always agree with each other.
type Windows struct {
	Today    time.Time
	Tomorrow time.Time
	Saturday time.Time
	Sunday   time.Time
	// WeekDays is Monday-first: the date of each ISO weekday within the week
	// containing the reference instant.
	WeekDays [7]time.Time
}

// Compute derives the windows for the ISO week (Monday = day 1) containing
// now. Saturday/Sunday always resolve within that same week, even when now is
// already past them; "weekend" means this week's weekend, not the next one.
func Compute(now time.Time) Windows {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	monday := today.AddDate(0, 0, 1-isoWeekday(now))
	var w Windows
	for i := range w.WeekDays {
		w.WeekDays[i] = monday.AddDate(0, 0, i)
	}
	w.Today = today
	w.Tomorrow = today.AddDate(0, 0, 1)
	w.Saturday = w.WeekDays[5]
	w.Sunday = w.WeekDays[6]
	return w
}

// isoWeekday maps Go's Sunday-first weekday to ISO numbering (Monday=1..Sunday=7).
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
