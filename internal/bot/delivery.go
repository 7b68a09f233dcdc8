package bot

import (
	"log/slog"
	"time"

	"github.com/feudal/teatru-bot/internal"
)

// Deliver sends one pipeline result to a chat. Sentinel results go out as a
// single message; entries are sent one per message, in order, with delay
// enforced before each send to respect the transport's rate limits. Each send
// is best-effort: a failure is logged and the remaining sends continue, so a
// delivery always runs to completion and is never abandoned part-way.
func Deliver(chatID int64, result internal.Result, send Sender, delay time.Duration) {
	if result.Kind != internal.ResultEntries {
		if err := send.Send(chatID, result.Message); err != nil {
			slog.Warn("bot: send failed", "chat_id", chatID, "error", err)
		}
		return
	}
	for _, entry := range result.Entries {
		time.Sleep(delay)
		if err := send.Send(chatID, string(entry)); err != nil {
			slog.Warn("bot: send failed", "chat_id", chatID, "error", err)
		}
	}
}
