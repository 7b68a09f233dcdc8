package acceptance

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/feudal/teatru-bot/internal"
	"github.com/feudal/teatru-bot/internal/config"
	"github.com/feudal/teatru-bot/internal/root"
	"github.com/feudal/teatru-bot/internal/scraper"
	"github.com/stretchr/testify/require"
)

func goldenFestServer(t *testing.T) *httptest.Server {
	t.Helper()
	goldenDir := filepath.Join("..", "internal", "scraper", "golden", "fest")
	gs, ok := scraper.Fest().(internal.GoldenScraper)
	require.True(t, ok, "fest scraper should support golden mounting")

	handler, err := gs.MountGolden(t.Context(), goldenDir)
	require.NoError(t, err, "MountGolden")
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func runEvents(t *testing.T, server *httptest.Server, window, now string) string {
	t.Helper()
	s := scraper.Fest(scraper.FestWithBaseURL(server.URL), scraper.FestWithClient(server.Client()))
	registry := scraper.NewRegistry(scraper.WithScraper(scraper.FestDescriptor, s))

	outputFile := filepath.Join(t.TempDir(), "output.txt")

	rootCmd, err := root.Root(t.Context(),
		root.WithConfig(config.Defaults()),
		root.WithRegistry(registry),
	)
	require.NoError(t, err, "Root")
	require.NotNil(t, rootCmd, "Root")

	err = rootCmd.Run(t.Context(), []string{
		"teatru-bot", "events",
		"--window", window,
		"--now", now,
		"--output", outputFile,
	})
	require.NoError(t, err, "Run")

	outputBytes, err := os.ReadFile(outputFile)
	require.NoError(t, err, "ReadFile")
	return string(outputBytes)
}

func TestAcceptance_Events(t *testing.T) {
	server := goldenFestServer(t)

	// Saturday, 1 March 2025: the weekend spans 1-2 March.
	t.Run("weekend", func(t *testing.T) {
		output := runEvents(t, server, "weekend", "2025-03-01T10:00:00Z")
		want := strings.Join([]string{
			"1 martie 2025, 11:00\nhttps://www.fest.md/ru/events/performances/chisinau/matineu-pentru-copii",
			"1 martie 2025, 19:00\nhttps://www.fest.md/ru/events/performances/chisinau/hamlet",
			"2 martie 2025, 18:00\nhttps://www.fest.md/ru/events/performances/chisinau/o-scrisoare-pierduta",
		}, "\n\n") + "\n"
		require.Equal(t, want, output, "weekend entries: deduplicated, exhibitions excluded, sorted")
	})

	t.Run("today", func(t *testing.T) {
		output := runEvents(t, server, "today", "2025-03-01T10:00:00Z")
		want := strings.Join([]string{
			"1 martie 2025, 11:00\nhttps://www.fest.md/ru/events/performances/chisinau/matineu-pentru-copii",
			"1 martie 2025, 19:00\nhttps://www.fest.md/ru/events/performances/chisinau/hamlet",
		}, "\n\n") + "\n"
		require.Equal(t, want, output)
	})

	t.Run("evenings", func(t *testing.T) {
		// Week of 3-9 March: only Lăutarii (Wed 19:30) is an evening show.
		output := runEvents(t, server, "evenings", "2025-03-03T09:00:00Z")
		want := "5 martie 2025, 19:30\nhttps://www.fest.md/ru/events/performances/chisinau/lautarii\n"
		require.Equal(t, want, output)
	})

	t.Run("no events", func(t *testing.T) {
		output := runEvents(t, server, "today", "2030-01-01T10:00:00Z")
		require.Equal(t, internal.MsgNoEvents+"\n", output)
	})
}
