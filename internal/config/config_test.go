package config

import (
	"testing"
	"time"

	"github.com/feudal/teatru-bot/internal/dates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnit_Load_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":3333", cfg.ListenAddr)
	assert.Equal(t, "https://www.fest.md", cfg.SourceBaseURL)
	assert.Equal(t, "https://www.fest.md", cfg.Origin)
	assert.Equal(t, "performances", cfg.CategoryMarker)
	assert.Equal(t, dates.Clock{Hour: 18}, cfg.EveningStart)
	assert.Equal(t, 200*time.Millisecond, cfg.MessageDelay)
	assert.Equal(t, 15*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "*/15 * * * *", cfg.RefreshCron)
	assert.Equal(t, time.Local, cfg.Timezone)
	assert.False(t, cfg.UseBrowser)
}

func TestUnit_Load_EnvOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_API_KEY", "123:abc")
	t.Setenv("PORT", "8080")
	t.Setenv("TEATRU_SOURCE_BASE_URL", "http://127.0.0.1:9999")
	t.Setenv("TEATRU_EVENING_START", "19:30")
	t.Setenv("TEATRU_MESSAGE_DELAY", "50ms")
	t.Setenv("TEATRU_TZ", "Europe/Chisinau")
	t.Setenv("TEATRU_USE_BROWSER", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.TelegramToken)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "http://127.0.0.1:9999", cfg.SourceBaseURL)
	assert.Equal(t, dates.Clock{Hour: 19, Minute: 30}, cfg.EveningStart)
	assert.Equal(t, 50*time.Millisecond, cfg.MessageDelay)
	assert.Equal(t, "Europe/Chisinau", cfg.Timezone.String())
	assert.True(t, cfg.UseBrowser)
}

func TestUnit_Load_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"PORT":                 "not-a-port",
		"TEATRU_EVENING_START": "evening",
		"TEATRU_MESSAGE_DELAY": "soon",
		"TEATRU_TZ":            "Mars/Olympus",
		"TEATRU_USE_BROWSER":   "maybe",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
