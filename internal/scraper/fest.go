package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/feudal/teatru-bot/internal"
	"github.com/feudal/teatru-bot/internal/browser"
	"github.com/go-resty/resty/v2"
	"github.com/go-rod/rod"
	"github.com/google/uuid"
)

type festScraper struct {
	baseURL         string
	listingsPath    string
	descriptor      string
	uuidNamespace   uuid.UUID
	client          *resty.Client     // non-nil = direct HTTP (default)
	headlessBrowser browser.Interface // nil unless FestWithBrowser
	timeout         time.Duration
}

// FestOption applies configuration to a fest.md scraper.
type FestOption func(*festScraper)

// FestWithBaseURL sets the base URL for the scraper (e.g. httptest.Server.URL in tests).
func FestWithBaseURL(baseURL string) FestOption {
	return func(s *festScraper) {
		s.baseURL = baseURL
	}
}

// FestWithClient sets the HTTP client for the scraper (e.g. httptest.Server.Client() in tests).
// When set, the scraper uses direct HTTP instead of any injected browser.
func FestWithClient(client *http.Client) FestOption {
	return func(s *festScraper) {
		if client != nil {
			s.client = resty.NewWithClient(client)
			s.headlessBrowser = nil
		}
	}
}

// FestWithBrowser injects the Browser used to load the listings page when the
// site stops serving plain HTTP clients.
func FestWithBrowser(b browser.Interface) FestOption {
	return func(s *festScraper) {
		if b != nil {
			s.headlessBrowser = b
			s.client = nil
		}
	}
}

// FestWithTimeout bounds each listings fetch. Zero keeps the default.
func FestWithTimeout(d time.Duration) FestOption {
	return func(s *festScraper) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func Fest(opts ...FestOption) internal.Scraper {
	s := &festScraper{
		baseURL:      defaultFestBaseURL,
		listingsPath: defaultFestListingsPath,
		descriptor:   FestDescriptor,
		timeout:      defaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.uuidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte(s.baseURL))
	// fest.md is server-rendered — plain HTTP suffices by default.
	if s.headlessBrowser == nil && s.client == nil {
		s.client = resty.New()
	}
	if s.client != nil {
		// Single attempt per request; a failed fetch maps to the error
		// sentinel upstream instead of being retried.
		s.client.SetRetryCount(0).SetTimeout(s.timeout)
	}
	return s
}

const (
	// FestDescriptor is the registry key for the fest.md listings scraper.
	FestDescriptor = "fest"

	defaultFestBaseURL      = "https://www.fest.md"
	defaultFestListingsPath = "/ru/events/performances"
	defaultFetchTimeout     = 15 * time.Second

	// eventBlockSelector is the site's own taxonomy for paid performance
	// blocks; free-admission and variable-size blocks are not listings events.
	eventBlockSelector = ".block-item.fixed-size.event-block.no-free-admission"
)

var errHTTPRequestFailed = errors.New("http request failed")

func (s *festScraper) Descriptor() string {
	return s.descriptor
}

func (s *festScraper) ScrapeEvents(ctx context.Context) (<-chan internal.RawEvent, error) {
	markup, err := s.fetchListings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch data: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse listings markup: %w", err)
	}

	hits := make(chan internal.RawEvent)
	go func() {
		defer close(hits)
		s.sendEvents(hits, doc)
	}()

	return hits, nil
}

// PullGolden fetches the listings page and saves it as golden data.
func (s *festScraper) PullGolden(ctx context.Context, goldenDir string) error {
	markup, err := s.fetchListings(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch golden data: %w", err)
	}
	return writeGoldenFiles(goldenDir, map[string][]byte{
		"listings": markup,
	})
}

func (s *festScraper) MountGolden(_ context.Context, goldenDir string) (http.Handler, error) {
	listings, err := os.ReadFile(filepath.Join(goldenDir, "listings.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to read listings golden file: %w", err)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == s.listingsPath && r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write(listings)
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("not found"))
	}), nil
}

func (s *festScraper) listingsURL() string {
	u, _ := url.Parse(s.baseURL)
	u.Path = s.listingsPath
	return u.String()
}

func (s *festScraper) fetchListings(ctx context.Context) ([]byte, error) {
	if s.client != nil {
		return s.fetchListingsViaHTTP(ctx)
	}
	return s.fetchListingsViaHeadlessBrowser(ctx)
}

func (s *festScraper) fetchListingsViaHTTP(ctx context.Context) ([]byte, error) {
	resp, err := s.client.R().SetContext(ctx).Get(s.listingsURL())
	if err != nil {
		return nil, fmt.Errorf("get listings: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", errHTTPRequestFailed, resp.Status())
	}
	return resp.Body(), nil
}

func (s *festScraper) fetchListingsViaHeadlessBrowser(ctx context.Context) ([]byte, error) {
	var markup string
	err := s.headlessBrowser.WithPage(ctx, s.listingsURL(), func(page *rod.Page) error {
		html, err := page.HTML()
		if err != nil {
			return fmt.Errorf("read page html: %w", err)
		}
		markup = html
		return nil
	})
	if err != nil {
		return nil, err
	}
	return []byte(markup), nil
}

func (s *festScraper) sendEvents(hits chan<- internal.RawEvent, doc *goquery.Document) {
	var sent, incomplete int
	doc.Find(eventBlockSelector).Each(func(_ int, block *goquery.Selection) {
		dateText := strings.ToLower(strings.TrimSpace(block.Find(".icon-calendar").First().Next().Text()))
		link, _ := block.Find(".title").First().Attr("href")
		if dateText == "" || link == "" {
			// Emitted anyway: a record missing either field matches no
			// window and drops out downstream.
			incomplete++
		}
		hits <- internal.RawEvent{
			ID:       uuid.NewSHA1(s.uuidNamespace, []byte(link+"|"+dateText)).String(),
			DateText: dateText,
			Link:     link,
		}
		sent++
	})
	slog.Debug("fest: emitted events", "sent", sent, "incomplete", incomplete)
}
