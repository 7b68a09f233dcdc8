package scraper

import (
	"context"
	"time"

	"github.com/feudal/teatru-bot/internal"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cached returns middleware that wraps a Scraper with LRU+TTL caching of the
// raw scrape. The cache key is the wrapped scraper's Descriptor(). Apply it to
// any scraper:
//
//	scraper.NewRegistry(scraper.WithScraper(scraper.FestDescriptor, scraper.Fest(), scraper.Cached(8, 5*time.Minute)))
//
// maxEntries is the LRU size; ttl is how long entries stay valid (zero = no expiration).
func Cached(maxEntries int, ttl time.Duration) ScraperMiddleware {
	return func(inner internal.Scraper) internal.Scraper {
		if inner == nil {
			return nil
		}
		return newCachingScraper(inner, maxEntries, ttl)
	}
}

func newCachingScraper(inner internal.Scraper, maxEntries int, ttl time.Duration) internal.Scraper {
	if inner == nil {
		return nil
	}
	if maxEntries <= 0 {
		maxEntries = 8
	}
	cache := expirable.NewLRU[string, []internal.RawEvent](maxEntries, nil, ttl)
	return &cachingScraper{
		descriptor: inner.Descriptor(),
		inner:      inner,
		cache:      cache,
	}
}

// cachingScraper caches the full raw-event list of a scrape by descriptor.
// Window classification still happens per run on the replayed events, so a
// cache hit never reuses a previous run's notion of "now".
type cachingScraper struct {
	descriptor string
	inner      internal.Scraper
	cache      *expirable.LRU[string, []internal.RawEvent]
}

func (c *cachingScraper) Descriptor() string {
	return c.descriptor
}

func (c *cachingScraper) ScrapeEvents(ctx context.Context) (<-chan internal.RawEvent, error) {
	if list, ok := c.cache.Get(c.descriptor); ok {
		return replay(list), nil
	}
	ch, err := c.inner.ScrapeEvents(ctx)
	if err != nil {
		return nil, err
	}
	// Drain and cache, then replay
	var list []internal.RawEvent
	for ev := range ch {
		list = append(list, ev)
	}
	c.cache.Add(c.descriptor, list)
	return replay(list), nil
}

func replay(list []internal.RawEvent) <-chan internal.RawEvent {
	ch := make(chan internal.RawEvent, len(list))
	for _, ev := range list {
		ch <- ev
	}
	close(ch)
	return ch
}
