// Package bot is the Telegram transport: it maps incoming chat commands to
// pipeline runs and delivers results back as rate-limited message sequences.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/feudal/teatru-bot/internal"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Pipeline is the scrape-filter-sort capability the bot dispatches commands to.
type Pipeline interface {
	Run(ctx context.Context, kind internal.WindowKind) internal.Result
}

// Sender sends one text message to a chat. The Telegram client satisfies it in
// production; tests inject fakes.
type Sender interface {
	Send(chatID int64, text string) error
}

// Recognized bot commands, mapping 1:1 to window kinds.
const (
	cmdToday    = "today_spectacles"
	cmdTomorrow = "tomorrow_spectacles"
	cmdWeekend  = "weekend_spectacles"
	cmdEvenings = "all_week_evenings_spectacles"
)

const (
	greeting     = "Bun venit!"
	unknownReply = "Unknown command. Please try again."
)

var commands = []tgbotapi.BotCommand{
	{Command: cmdToday, Description: "Afișează evenimentele de teatru de azi"},
	{Command: cmdTomorrow, Description: "Afișează evenimentele de teatru de mâine"},
	{Command: cmdWeekend, Description: "Listează toate evenimentele de teatru din weekend"},
	{Command: cmdEvenings, Description: "Listează toate spectacolele de teatru din săptămână după ora 18:00"},
}

type Bot struct {
	api      *tgbotapi.BotAPI
	pipeline Pipeline
	delay    time.Duration
}

// New authenticates against the Bot API. delay is the enforced pause between
// consecutive messages of one delivery.
func New(token string, pipeline Pipeline, delay time.Duration) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	return &Bot{api: api, pipeline: pipeline, delay: delay}, nil
}

// Run registers the command list and consumes updates until ctx is canceled.
func (b *Bot) Run(ctx context.Context) error {
	if _, err := b.api.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		return fmt.Errorf("set my commands: %w", err)
	}
	slog.Info("bot: commands registered", "username", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		if update.Message == nil {
			continue
		}
		b.handleMessage(ctx, update.Message)
	}
	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	switch msg.Text {
	case "/start":
		b.deliverText(chatID, greeting)
	case "/" + cmdToday:
		go b.respond(ctx, chatID, internal.WindowToday)
	case "/" + cmdTomorrow:
		go b.respond(ctx, chatID, internal.WindowTomorrow)
	case "/" + cmdWeekend:
		go b.respond(ctx, chatID, internal.WindowWeekend)
	case "/" + cmdEvenings:
		go b.respond(ctx, chatID, internal.WindowAllWeekEvenings)
	default:
		b.deliverText(chatID, unknownReply)
	}
}

// respond runs its own pipeline invocation; concurrent commands run concurrent
// invocations without coordination.
func (b *Bot) respond(ctx context.Context, chatID int64, kind internal.WindowKind) {
	result := b.pipeline.Run(ctx, kind)
	Deliver(chatID, result, b, b.delay)
}

func (b *Bot) deliverText(chatID int64, text string) {
	if err := b.Send(chatID, text); err != nil {
		slog.Warn("bot: send failed", "chat_id", chatID, "error", err)
	}
}

// Send implements Sender over the Bot API.
func (b *Bot) Send(chatID int64, text string) error {
	_, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}
