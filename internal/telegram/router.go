package telegram

import (
	"context"
	"net/url"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Sohiburr/ToBeControl/internal/ai"
	"github.com/Sohiburr/ToBeControl/internal/store"
)

// callbackAck tags acknowledgment buttons; full data is
// "minum|<url-encoded medication>".
const callbackAck = "minum"

// botAPI is the slice of tgbotapi.BotAPI the router needs; tests swap in
// a recorder.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Router wires Telegram updates to handlers.
type Router struct {
	bot  botAPI
	log  *zap.Logger
	repo store.Repo
	ai   ai.Provider
}

// NewRouter creates a new Telegram router. *tgbotapi.BotAPI satisfies bot.
func NewRouter(bot botAPI, log *zap.Logger, repo store.Repo, provider ai.Provider) *Router {
	return &Router{
		bot:  bot,
		log:  log,
		repo: repo,
		ai:   provider,
	}
}

// HandleUpdate routes a single update to the appropriate handler. Each
// inbound command maps to exactly one handler; there is no chaining.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message != nil && upd.Message.From != nil {
		msg := upd.Message
		text := strings.TrimSpace(msg.Text)
		if text == "" {
			// Photos, stickers, voice notes and other textless updates
			// have no handler and must not reach the AI path.
			return
		}

		switch {
		case strings.HasPrefix(text, "/start"):
			r.handleStart(ctx, msg)
		case strings.HasPrefix(text, "/set"):
			r.handleSet(ctx, msg)
		case strings.HasPrefix(text, "/list"):
			r.handleList(ctx, msg)
		case strings.HasPrefix(text, "/hapus"):
			r.handleHapus(ctx, msg)
		case strings.HasPrefix(text, "/stats"):
			r.handleStats(ctx, msg)
		case strings.HasPrefix(text, "/"):
			// Unknown command — ignore silently
		default:
			r.handleFreeText(ctx, msg)
		}
		return
	}

	if upd.CallbackQuery != nil {
		cb := upd.CallbackQuery
		if strings.HasPrefix(cb.Data, callbackAck+"|") {
			r.handleAck(ctx, cb)
		}
		return
	}
}

// SendReminder dispatches one reminder with its acknowledgment button.
// This makes Router satisfy scheduler.Sender.
func (r *Router) SendReminder(chatID int64, medication string) error {
	msg := tgbotapi.NewMessage(chatID, reminderText(medication))
	msg.ReplyMarkup = ackKeyboard(medication)
	_, err := r.bot.Send(msg)
	return err
}

// ackCallbackData builds the button payload for a medication name.
func ackCallbackData(medication string) string {
	return callbackAck + "|" + url.QueryEscape(medication)
}
