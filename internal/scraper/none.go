package scraper

import (
	"context"
	"log/slog"

	"github.com/feudal/teatru-bot/internal"
)

type noneScraper struct{}

func (s *noneScraper) Descriptor() string {
	return "none"
}

func (s *noneScraper) ScrapeEvents(ctx context.Context) (<-chan internal.RawEvent, error) {
	slog.Debug("scrape-events", "descriptor", s.Descriptor())
	ch := make(chan internal.RawEvent)
	close(ch)
	return ch, nil
}

func None() internal.Scraper {
	return &noneScraper{}
}
