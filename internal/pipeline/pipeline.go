// Package pipeline sequences one scrape-filter-sort run: fetch and parse the
// listings page, compute the calendar windows for the requested kind, keep the
// matching events and emit them deduplicated in chronological order.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/feudal/teatru-bot/internal"
	"github.com/feudal/teatru-bot/internal/dates"
)

type Pipeline struct {
	scraper internal.Scraper
	filter  Filter
	origin  string
	now     func() time.Time
}

// Option applies configuration to a Pipeline.
type Option func(*Pipeline)

// WithClock pins the reference instant used to compute windows (e.g. a fixed
// clock in tests, or the CLI --now flag). Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// New builds a Pipeline over the given scraper. origin is the site origin
// prefixed to each relative event link when formatting entries.
func New(scraper internal.Scraper, origin string, filter Filter, opts ...Option) *Pipeline {
	p := &Pipeline{
		scraper: scraper,
		filter:  filter,
		origin:  origin,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one pipeline invocation and returns exactly one of the three
// result shapes: entries, the no-events sentinel, or the error sentinel. The
// windows are derived once, from the clock at the start of the run; fetch or
// parse failures are logged and never retried.
func (p *Pipeline) Run(ctx context.Context, kind internal.WindowKind) internal.Result {
	ch, err := p.scraper.ScrapeEvents(ctx)
	if err != nil {
		slog.Error("pipeline: scrape failed", "descriptor", p.scraper.Descriptor(), "kind", kind.String(), "error", err)
		return internal.ErrorResult()
	}

	var events []internal.RawEvent
	for ev := range ch {
		events = append(events, ev)
	}

	windows := dates.Compute(p.now())
	kept := p.filter.Apply(events, kind, windows)
	if len(kept) == 0 {
		slog.Debug("pipeline: no matching events", "kind", kind.String(), "scraped", len(events))
		return internal.EmptyResult()
	}

	entries := Finalize(kept, p.origin)
	slog.Debug("pipeline: run complete",
		"kind", kind.String(),
		"scraped", len(events),
		"kept", len(kept),
		"entries", len(entries),
	)
	return internal.EntriesResult(entries)
}
