package telegram

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Sohiburr/ToBeControl/internal/domain"
	"github.com/Sohiburr/ToBeControl/internal/stats"
)

// --- Generic helpers ---

func (r *Router) sendText(chatID int64, text string) {
	if _, err := r.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		r.log.Error("send failed", zap.Int64("chatID", chatID), zap.Error(err))
	}
}

func (r *Router) answerCallback(id string) {
	if _, err := r.bot.Request(tgbotapi.NewCallback(id, "")); err != nil {
		r.log.Error("answer callback failed", zap.Error(err))
	}
}

// --- Commands ---

func (r *Router) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	from := msg.From
	r.repo.Register(ctx, from.ID, from.FirstName, from.UserName)
	r.sendText(msg.Chat.ID, fmt.Sprintf(startFmt, from.FirstName))
}

// handleSet parses "/set HH:MM <medication...>". Malformed arguments get
// a usage message and write nothing.
func (r *Router) handleSet(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.Text)[1:]
	if len(args) < 2 {
		r.sendText(msg.Chat.ID, setUsageText)
		return
	}

	timeOfDay := args[0]
	medication := strings.Join(args[1:], " ")
	if !domain.ValidTimeOfDay(timeOfDay) {
		r.sendText(msg.Chat.ID, badTimeText)
		return
	}

	ok, err := r.repo.AddSchedule(ctx, msg.From.ID, timeOfDay, medication)
	if err != nil {
		r.sendText(msg.Chat.ID, addFailedText)
		return
	}
	if !ok {
		r.sendText(msg.Chat.ID, duplicateText)
		return
	}
	r.sendText(msg.Chat.ID, fmt.Sprintf(addedFmt, medication, timeOfDay))
}

func (r *Router) handleList(ctx context.Context, msg *tgbotapi.Message) {
	entries := r.repo.ListSchedule(ctx, msg.From.ID)
	if len(entries) == 0 {
		r.sendText(msg.Chat.ID, emptyScheduleText)
		return
	}

	domain.SortSchedule(entries)
	var b strings.Builder
	b.WriteString(listHeaderText)
	for _, e := range entries {
		fmt.Fprintf(&b, "⏰ %s - %s\n", e.Time, e.Medication)
	}
	r.sendText(msg.Chat.ID, b.String())
}

// handleHapus parses "/hapus HH:MM [medication...]" and removes every
// matching entry.
func (r *Router) handleHapus(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.Text)[1:]
	if len(args) < 1 {
		r.sendText(msg.Chat.ID, hapusUsageText)
		return
	}

	timeOfDay := args[0]
	if !domain.ValidTimeOfDay(timeOfDay) {
		r.sendText(msg.Chat.ID, badTimeText)
		return
	}
	medication := strings.Join(args[1:], " ")

	count := r.repo.RemoveSchedule(ctx, msg.From.ID, timeOfDay, medication)
	if count == 0 {
		r.sendText(msg.Chat.ID, notFoundText)
		return
	}
	r.sendText(msg.Chat.ID, fmt.Sprintf(removedFmt, count, timeOfDay))
}

// handleStats sends the adherence chart, or its text fallback when there
// is no daily data or the photo upload fails.
func (r *Router) handleStats(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	report := stats.Build(
		r.repo.DailyDoseCounts(ctx, userID),
		r.repo.TotalDoseCount(ctx, userID),
	)

	if report.Image == nil {
		r.sendText(msg.Chat.ID, report.Caption)
		return
	}

	photo := tgbotapi.NewPhoto(msg.Chat.ID, tgbotapi.FileBytes{
		Name:  "adherence.png",
		Bytes: report.Image,
	})
	photo.Caption = report.Caption
	if _, err := r.bot.Send(photo); err != nil {
		r.log.Error("send chart failed", zap.Int64("chatID", msg.Chat.ID), zap.Error(err))
		r.sendText(msg.Chat.ID, report.Caption)
	}
}

// handleFreeText routes non-command text to the AI provider, but only in
// one-to-one conversations; group chatter is ignored.
func (r *Router) handleFreeText(ctx context.Context, msg *tgbotapi.Message) {
	if !msg.Chat.IsPrivate() {
		return
	}
	r.sendText(msg.Chat.ID, r.ai.Reply(ctx, msg.Text))
}

// --- Acknowledgment ---

// handleAck records that the user took the medication encoded in the
// button and rewrites the reminder into a confirmation. Repeated taps
// append repeated log entries; the log is an audit trail, not a set.
func (r *Router) handleAck(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	r.answerCallback(cb.ID)

	encoded := strings.TrimPrefix(cb.Data, callbackAck+"|")
	medication, err := url.QueryUnescape(encoded)
	if err != nil {
		r.log.Error("bad ack payload", zap.String("data", cb.Data), zap.Error(err))
		return
	}

	r.repo.AppendDoseLog(ctx, cb.From.ID, medication, domain.StatusOnTime)

	if cb.Message == nil {
		return
	}
	edit := tgbotapi.NewEditMessageText(
		cb.Message.Chat.ID,
		cb.Message.MessageID,
		fmt.Sprintf(ackConfirmFmt, medication),
	)
	if _, err := r.bot.Send(edit); err != nil {
		r.log.Error("edit reminder failed", zap.Int64("chatID", cb.Message.Chat.ID), zap.Error(err))
	}
}
