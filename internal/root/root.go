package root

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/feudal/teatru-bot/internal"
	"github.com/feudal/teatru-bot/internal/bot"
	"github.com/feudal/teatru-bot/internal/browser"
	"github.com/feudal/teatru-bot/internal/config"
	"github.com/feudal/teatru-bot/internal/pipeline"
	"github.com/feudal/teatru-bot/internal/scraper"
	"github.com/feudal/teatru-bot/internal/web"
	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v3"
)

// RootOption configures the root command (e.g. for tests).
type RootOption func(*rootConfig)

type rootConfig struct {
	registry scraper.Registry
	cfg      *config.Config
}

// WithRegistry sets the scraper registry. Use in tests to inject a registry
// backed by golden HTTP servers or mocks instead of the default live scraper.
func WithRegistry(registry scraper.Registry) RootOption {
	return func(c *rootConfig) {
		c.registry = registry
	}
}

// WithConfig bypasses environment loading and uses cfg as-is.
func WithConfig(cfg config.Config) RootOption {
	return func(c *rootConfig) {
		c.cfg = &cfg
	}
}

func Root(ctx context.Context, opts ...RootOption) (*cli.Command, error) {
	rc := &rootConfig{}
	for _, opt := range opts {
		opt(rc)
	}

	var cfg config.Config
	if rc.cfg != nil {
		cfg = *rc.cfg
	} else {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	configureLogging(cfg.LogLevel)

	registry := rc.registry
	if registry == nil {
		festOpts := []scraper.FestOption{
			scraper.FestWithBaseURL(cfg.SourceBaseURL),
			scraper.FestWithTimeout(cfg.FetchTimeout),
		}
		if cfg.UseBrowser {
			festOpts = append(festOpts, scraper.FestWithBrowser(browser.Headless()))
		}
		registry = scraper.NewRegistry(
			scraper.WithScraper("none", scraper.None()),
			scraper.WithScraper(scraper.FestDescriptor, scraper.Fest(festOpts...), scraper.Cached(8, cfg.CacheTTL)),
		)
	}

	return &cli.Command{
		Name:  "teatru-bot",
		Usage: "theater listings notifier for fest.md",
		Commands: []*cli.Command{
			eventsCommand(cfg, registry),
			botCommand(cfg, registry),
		},
	}, nil
}

func newPipeline(cfg config.Config, registry scraper.Registry, opts ...pipeline.Option) (*pipeline.Pipeline, error) {
	s, err := registry.GetScraper(scraper.FestDescriptor)
	if err != nil {
		return nil, err
	}
	filter := pipeline.Filter{
		Marker:  cfg.CategoryMarker,
		Evening: cfg.EveningStart,
	}
	if cfg.Timezone != nil {
		// Later options win, so an explicit --now clock still overrides this.
		opts = append([]pipeline.Option{
			pipeline.WithClock(func() time.Time { return time.Now().In(cfg.Timezone) }),
		}, opts...)
	}
	return pipeline.New(s, cfg.Origin, filter, opts...), nil
}

func eventsCommand(cfg config.Config, registry scraper.Registry) *cli.Command {
	return &cli.Command{
		Name:  "events",
		Usage: "run one scrape and print the events for a window",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "window",
				Aliases:  []string{"w"},
				Required: true,
				Usage:    "today | tomorrow | weekend | evenings",
			},
			&cli.StringFlag{
				Name:  "now",
				Usage: "reference instant (RFC3339); defaults to the wall clock",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write to file instead of stdout",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			kind, err := parseWindow(cmd.String("window"))
			if err != nil {
				return err
			}
			var popts []pipeline.Option
			if nowStr := cmd.String("now"); nowStr != "" {
				t, err := time.Parse(time.RFC3339, nowStr)
				if err != nil {
					return fmt.Errorf("invalid --now (expected RFC3339): %w", err)
				}
				popts = append(popts, pipeline.WithClock(func() time.Time { return t }))
			}
			p, err := newPipeline(cfg, registry, popts...)
			if err != nil {
				return err
			}
			result := p.Run(ctx, kind)

			out := io.Writer(os.Stdout)
			if path := cmd.String("output"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer f.Close()
				out = f
			}
			return writeResult(out, result)
		},
	}
}

func botCommand(cfg config.Config, registry scraper.Registry) *cli.Command {
	return &cli.Command{
		Name:  "bot",
		Usage: "run the Telegram bot, liveness endpoint and scheduled prefetch",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cfg.TelegramToken == "" {
				return errors.New("TELEGRAM_API_KEY is not set")
			}
			p, err := newPipeline(cfg, registry)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := web.NewServer(cfg.ListenAddr)
			go func() {
				slog.Info("liveness endpoint listening", "addr", cfg.ListenAddr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					slog.Error("liveness endpoint failed", "error", err)
				}
			}()
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			// Scheduled prefetch keeps the scrape cache warm so command
			// replies don't block on the listings fetch.
			s, err := registry.GetScraper(scraper.FestDescriptor)
			if err != nil {
				return err
			}
			c := cron.New()
			if _, err := c.AddFunc(cfg.RefreshCron, func() { prefetch(ctx, s) }); err != nil {
				return fmt.Errorf("invalid refresh cron spec %q: %w", cfg.RefreshCron, err)
			}
			c.Start()
			defer c.Stop()

			b, err := bot.New(cfg.TelegramToken, p, cfg.MessageDelay)
			if err != nil {
				return err
			}
			slog.Info("bot starting", "listen", cfg.ListenAddr, "refresh_cron", cfg.RefreshCron)
			return b.Run(ctx)
		},
	}
}

func prefetch(ctx context.Context, s internal.Scraper) {
	ch, err := s.ScrapeEvents(ctx)
	if err != nil {
		slog.Warn("prefetch: scrape failed", "descriptor", s.Descriptor(), "error", err)
		return
	}
	var n int
	for range ch {
		n++
	}
	slog.Debug("prefetch: cache warmed", "events", n)
}

func writeResult(w io.Writer, result internal.Result) error {
	if result.Kind != internal.ResultEntries {
		_, err := fmt.Fprintln(w, result.Message)
		return err
	}
	for i, entry := range result.Entries {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, string(entry)); err != nil {
			return err
		}
	}
	return nil
}

func parseWindow(value string) (internal.WindowKind, error) {
	switch strings.ToLower(value) {
	case "today":
		return internal.WindowToday, nil
	case "tomorrow":
		return internal.WindowTomorrow, nil
	case "weekend":
		return internal.WindowWeekend, nil
	case "evenings", "all-week-evenings":
		return internal.WindowAllWeekEvenings, nil
	}
	return 0, fmt.Errorf("invalid window %q (valid: today, tomorrow, weekend, evenings)", value)
}

func configureLogging(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetLogLoggerLevel(lvl)
}
