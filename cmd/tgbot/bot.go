package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Alias1177/CrashSignal/internal/checker"
	"github.com/Alias1177/CrashSignal/internal/render"
	"github.com/Alias1177/CrashSignal/internal/signal"
	"github.com/Alias1177/CrashSignal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const checkCallback = "check_signal"

// idleChatTTL is how long a chat's draft is kept without activity.
const idleChatTTL = 24 * time.Hour

// sender is the part of the Bot API the handlers use.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// statsSource reports verdict counts from the check journal.
type statsSource interface {
	VerdictCounts(ctx context.Context, since time.Time) (map[models.VerdictKind]int, error)
}

// ChatState holds the history pasted into a chat until the check button is pressed
type ChatState struct {
	Draft        string
	LastActivity time.Time
}

type bot struct {
	api    sender
	svc    *checker.Service
	stats  statsSource
	states map[int64]*ChatState
	now    func() time.Time
	logger zerolog.Logger
}

func newBot(api sender, svc *checker.Service, stats statsSource) *bot {
	return &bot{
		api:    api,
		svc:    svc,
		stats:  stats,
		states: make(map[int64]*ChatState),
		now:    time.Now,
		logger: log.With().Str("component", "tgbot").Logger(),
	}
}

func (b *bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message != nil {
		b.handleMessage(ctx, update.Message)
	} else if update.CallbackQuery != nil {
		b.handleCallback(ctx, update.CallbackQuery)
	}
}

func (b *bot) state(chatID int64) *ChatState {
	state, ok := b.states[chatID]
	if !ok {
		state = &ChatState{}
		b.states[chatID] = state
	}
	state.LastActivity = b.now()
	return state
}

// pruneIdle drops chats idle for longer than idleChatTTL and returns how many were removed
func (b *bot) pruneIdle() int {
	cutoff := b.now().Add(-idleChatTTL)
	removed := 0
	for chatID, state := range b.states {
		if state.LastActivity.Before(cutoff) {
			delete(b.states, chatID)
			removed++
		}
	}
	if removed > 0 {
		b.logger.Debug().Int("removed", removed).Int("active", len(b.states)).Msg("Pruned idle chats")
	}
	return removed
}

// handleMessage processes incoming text messages
func (b *bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	state := b.state(chatID)

	switch message.Command() {
	case "start", "help":
		state.Draft = ""
		b.send(tgbotapi.NewMessage(chatID, welcomeText()))
		return
	case "stats":
		b.sendStats(ctx, chatID)
		return
	}

	if strings.TrimSpace(message.Text) == "" {
		b.send(tgbotapi.NewMessage(chatID, render.EmptyInputMessage))
		return
	}

	state.Draft = message.Text
	msg := tgbotapi.NewMessage(chatID, "History received. Press the button to run the check.")
	msg.ReplyMarkup = checkKeyboard()
	b.send(msg)
}

func (b *bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	// Acknowledge the callback query
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		b.logger.Warn().Err(err).Msg("callback ack failed")
	}
	if callback.Message == nil || callback.Data != checkCallback {
		return
	}

	chatID := callback.Message.Chat.ID
	state := b.state(chatID)
	if strings.TrimSpace(state.Draft) == "" {
		b.send(tgbotapi.NewMessage(chatID, render.EmptyInputMessage))
		return
	}

	out, err := b.svc.Check(ctx, checker.SourceTelegram, state.Draft)
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, render.Rejection(err).Body))
		return
	}

	for _, block := range render.Outcome(out) {
		text := render.Text([]render.Block{block})
		if text == "" {
			continue
		}
		if block.Kind == render.KindInfo && block.Title != "" {
			text = "🤖 " + text
		}
		b.send(tgbotapi.NewMessage(chatID, text))
	}
}

func (b *bot) sendStats(ctx context.Context, chatID int64) {
	if b.stats == nil {
		b.send(tgbotapi.NewMessage(chatID, "Statistics are not enabled."))
		return
	}

	counts, err := b.stats.VerdictCounts(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Error retrieving stats")
		b.send(tgbotapi.NewMessage(chatID, "Could not load statistics right now."))
		return
	}

	b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"Checks in the last 24h:\nSignals: %d\nNo signal: %d\nNot enough data: %d",
		counts[models.VerdictSignal], counts[models.VerdictNoSignal], counts[models.VerdictInsufficientData],
	)))
}

func (b *bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error().Err(err).Msg("Failed to send message")
	}
}

func checkKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("CHECK BETTING SIGNAL", checkCallback),
		),
	)
}

func welcomeText() string {
	return fmt.Sprintf(
		"🛡️ Custom Signal Checker\n\n"+
			"Paste the last %d+ multiplier results (separated by commas or spaces), "+
			"then press CHECK BETTING SIGNAL.\n\n%s",
		signal.SafeHighWindow, render.Caption,
	)
}
