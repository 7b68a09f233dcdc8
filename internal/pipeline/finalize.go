package pipeline

import (
	"slices"
	"strings"
	"time"

	"github.com/feudal/teatru-bot/internal"
	"github.com/feudal/teatru-bot/internal/dates"
)

// Finalize maps surviving events to display entries, collapses exact
// duplicates and orders the result chronologically. Entries whose date text
// fails to parse sort after every parseable entry; within either group ties
// break lexicographically so the output is deterministic.
func Finalize(events []internal.RawEvent, origin string) []internal.FormattedEntry {
	seen := make(map[internal.FormattedEntry]struct{}, len(events))
	keys := make([]sortKey, 0, len(events))
	for _, ev := range events {
		entry := internal.FormattedEntry(ev.DateText + "\n" + origin + ev.Link)
		if _, dup := seen[entry]; dup {
			continue
		}
		seen[entry] = struct{}{}
		at, err := dates.Parse(ev.DateText)
		keys = append(keys, sortKey{entry: entry, at: at, parseable: err == nil})
	}

	slices.SortFunc(keys, compareKeys)

	entries := make([]internal.FormattedEntry, len(keys))
	for i, k := range keys {
		entries[i] = k.entry
	}
	return entries
}

type sortKey struct {
	entry     internal.FormattedEntry
	at        time.Time
	parseable bool
}

func compareKeys(a, b sortKey) int {
	switch {
	case a.parseable && !b.parseable:
		return -1
	case !a.parseable && b.parseable:
		return 1
	case a.parseable && b.parseable:
		if c := a.at.Compare(b.at); c != 0 {
			return c
		}
	}
	return strings.Compare(string(a.entry), string(b.entry))
}
