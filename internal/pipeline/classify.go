package pipeline

import (
	"strings"
	"time"

	"github.com/feudal/teatru-bot/internal"
	"github.com/feudal/teatru-bot/internal/dates"
)

// Filter decides window membership for scraped events.
type Filter struct {
	// Marker is the link-path substring that identifies paid performance
	// listings; events whose link lacks it are dropped before any window test.
	Marker string
	// Evening is the inclusive time-of-day threshold for the evenings window.
	Evening dates.Clock
}

// Apply returns the subsequence of events that belong to the requested window,
// preserving input order. Events with unparseable date texts never match; an
// unparseable clock token in the evenings window excludes the event rather
// than erroring.
func (f Filter) Apply(events []internal.RawEvent, kind internal.WindowKind, w dates.Windows) []internal.RawEvent {
	var kept []internal.RawEvent
	for _, ev := range events {
		if !strings.Contains(ev.Link, f.Marker) {
			continue
		}
		if f.matches(ev, kind, w) {
			kept = append(kept, ev)
		}
	}
	return kept
}

func (f Filter) matches(ev internal.RawEvent, kind internal.WindowKind, w dates.Windows) bool {
	day, err := eventDay(ev.DateText)
	if err != nil {
		return false
	}
	switch kind {
	case internal.WindowToday:
		return day.Equal(w.Today)
	case internal.WindowTomorrow:
		return day.Equal(w.Tomorrow)
	case internal.WindowWeekend:
		return day.Equal(w.Saturday) || day.Equal(w.Sunday)
	case internal.WindowAllWeekEvenings:
		if !f.isEvening(ev.DateText) {
			return false
		}
		for _, wd := range w.WeekDays {
			if day.Equal(wd) {
				return true
			}
		}
	}
	return false
}

func (f Filter) isEvening(dateText string) bool {
	tok, ok := dates.SplitClock(dateText)
	if !ok {
		return false
	}
	clock, err := dates.ParseClock(tok)
	if err != nil {
		return false
	}
	return clock.MinutesOfDay() >= f.Evening.MinutesOfDay()
}

// eventDay parses the calendar date of an event date text. The text carries
// the clock after a ", " separator; only the part before it is the date.
func eventDay(dateText string) (day time.Time, err error) {
	datePart := dateText
	if before, _, found := strings.Cut(dateText, ", "); found {
		datePart = before
	}
	return dates.ParseDay(datePart)
}
