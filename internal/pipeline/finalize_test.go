package pipeline

import (
	"strings"
	"testing"

	"github.com/feudal/teatru-bot/internal"
	"github.com/feudal/teatru-bot/internal/dates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOrigin = "https://www.fest.md"

func TestUnit_Finalize_FormatsEntries(t *testing.T) {
	entries := Finalize([]internal.RawEvent{
		event("5 martie 2025, 19:30", "/ru/events/performances/x"),
	}, testOrigin)

	require.Len(t, entries, 1)
	assert.Equal(t, internal.FormattedEntry("5 martie 2025, 19:30\nhttps://www.fest.md/ru/events/performances/x"), entries[0])
}

func TestUnit_Finalize_SortsChronologically(t *testing.T) {
	// Reverse chronological input; output must come back ascending.
	events := []internal.RawEvent{
		event("9 martie 2025, 19:00", "/ru/events/performances/c"),
		event("5 martie 2025, 21:00", "/ru/events/performances/b"),
		event("5 martie 2025, 09:00", "/ru/events/performances/a"),
	}
	entries := Finalize(events, testOrigin)
	require.Len(t, entries, 3)

	var prev internal.FormattedEntry
	for i, entry := range entries {
		if i > 0 {
			a, errA := dates.Parse(dateTextOf(prev))
			b, errB := dates.Parse(dateTextOf(entry))
			require.NoError(t, errA)
			require.NoError(t, errB)
			assert.False(t, b.Before(a), "entries[%d] out of order", i)
		}
		prev = entry
	}
}

func TestUnit_Finalize_DeduplicationIdempotence(t *testing.T) {
	events := []internal.RawEvent{
		event("5 martie 2025, 19:30", "/ru/events/performances/x"),
		event("6 martie 2025, 18:00", "/ru/events/performances/y"),
	}
	doubled := append(append([]internal.RawEvent{}, events...), events...)

	assert.Equal(t, Finalize(events, testOrigin), Finalize(doubled, testOrigin),
		"duplicating the input must not change the output")
}

func TestUnit_Finalize_CollapsesIdenticalEntries(t *testing.T) {
	// Distinct records sharing the full date+link string collapse into one.
	events := []internal.RawEvent{
		{ID: "a", DateText: "5 martie 2025, 19:30", Link: "/ru/events/performances/x"},
		{ID: "b", DateText: "5 martie 2025, 19:30", Link: "/ru/events/performances/x"},
	}
	assert.Len(t, Finalize(events, testOrigin), 1)
}

func TestUnit_Finalize_UnparseableSortsLast(t *testing.T) {
	events := []internal.RawEvent{
		event("data necunoscută", "/ru/events/performances/b"),
		event("5 martie 2025, 19:00", "/ru/events/performances/a"),
	}
	entries := Finalize(events, testOrigin)
	require.Len(t, entries, 2)
	assert.Equal(t, "5 martie 2025, 19:00", dateTextOf(entries[0]))
	assert.Equal(t, "data necunoscută", dateTextOf(entries[1]))
}

func TestUnit_Finalize_DeterministicTieBreak(t *testing.T) {
	events := []internal.RawEvent{
		event("5 martie 2025, 19:00", "/ru/events/performances/b"),
		event("5 martie 2025, 19:00", "/ru/events/performances/a"),
	}
	entries := Finalize(events, testOrigin)
	require.Len(t, entries, 2)
	assert.True(t, strings.HasSuffix(string(entries[0]), "/a"), "equal timestamps order lexicographically")
}

func dateTextOf(entry internal.FormattedEntry) string {
	text, _, _ := strings.Cut(string(entry), "\n")
	return text
}
