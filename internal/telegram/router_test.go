package telegram

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Sohiburr/ToBeControl/internal/domain"
	"github.com/Sohiburr/ToBeControl/internal/store/storetest"
)

type fakeBot struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	photoErr error
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if _, isPhoto := c.(tgbotapi.PhotoConfig); isPhoto && f.photoErr != nil {
		return tgbotapi.Message{}, f.photoErr
	}
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

// texts returns the plain messages sent so far.
func (f *fakeBot) texts() []string {
	var out []string
	for _, c := range f.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m.Text)
		}
	}
	return out
}

type fakeAI struct {
	asked []string
	reply string
}

func (f *fakeAI) Reply(_ context.Context, text string) string {
	f.asked = append(f.asked, text)
	return f.reply
}

func newTestRouter(t *testing.T) (*Router, *fakeBot, *storetest.Fake, *fakeAI) {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	bot := &fakeBot{}
	repo := storetest.New(loc)
	provider := &fakeAI{reply: "Semangat!"}
	return NewRouter(bot, zap.NewNop(), repo, provider), bot, repo, provider
}

func textUpdate(chatType, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: 10, FirstName: "Budi", UserName: "budi"},
		Chat:      &tgbotapi.Chat{ID: 10, Type: chatType},
		Text:      text,
	}}
}

func ackUpdate(data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:   "cb1",
		From: &tgbotapi.User{ID: 10, FirstName: "Budi"},
		Message: &tgbotapi.Message{
			MessageID: 42,
			Chat:      &tgbotapi.Chat{ID: 10, Type: "private"},
		},
		Data: data,
	}}
}

func TestStartRegistersUser(t *testing.T) {
	r, bot, repo, _ := newTestRouter(t)
	r.HandleUpdate(context.Background(), textUpdate("private", "/start"))

	require.Len(t, bot.texts(), 1)
	assert.Contains(t, bot.texts()[0], "Budi")
	// Registration creates the user document with an empty schedule.
	assert.Empty(t, repo.ListSchedule(context.Background(), 10))
	assert.NotNil(t, repo.ListSchedule(context.Background(), 10))
}

func TestSetAddsSchedule(t *testing.T) {
	r, bot, repo, _ := newTestRouter(t)
	r.HandleUpdate(context.Background(), textUpdate("private", "/set 07:00 Vitamin C"))

	entries := repo.ListSchedule(context.Background(), 10)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ScheduleEntry{Time: "07:00", Medication: "Vitamin C"}, entries[0])
	assert.Contains(t, bot.texts()[0], "Vitamin C")
}

func TestSetRejectsMalformedArguments(t *testing.T) {
	cases := []struct {
		name, cmd, want string
	}{
		{"missing medication", "/set 07:00", setUsageText},
		{"no args", "/set", setUsageText},
		{"unpadded hour", "/set 7:00 Obat", badTimeText},
		{"hour out of range", "/set 25:00 Obat", badTimeText},
		{"minute out of range", "/set 12:60 Obat", badTimeText},
		{"not a time", "/set abc Obat", badTimeText},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, bot, repo, _ := newTestRouter(t)
			r.HandleUpdate(context.Background(), textUpdate("private", tc.cmd))

			require.Len(t, bot.texts(), 1)
			assert.Equal(t, tc.want, bot.texts()[0])
			assert.Empty(t, repo.ListSchedule(context.Background(), 10), "no state change on bad input")
		})
	}
}

func TestSetRejectsDuplicatePair(t *testing.T) {
	r, bot, repo, _ := newTestRouter(t)
	ctx := context.Background()
	r.HandleUpdate(ctx, textUpdate("private", "/set 07:00 Vitamin C"))
	r.HandleUpdate(ctx, textUpdate("private", "/set 07:00 Vitamin C"))

	assert.Len(t, repo.ListSchedule(ctx, 10), 1, "duplicate leaves the list unchanged")
	assert.Equal(t, duplicateText, bot.texts()[1])

	// Same time with a different medication is not a duplicate.
	r.HandleUpdate(ctx, textUpdate("private", "/set 07:00 Rifampicin"))
	assert.Len(t, repo.ListSchedule(ctx, 10), 2)
}

func TestListSortsByTime(t *testing.T) {
	r, bot, _, _ := newTestRouter(t)
	ctx := context.Background()
	r.HandleUpdate(ctx, textUpdate("private", "/set 21:00 Rifampicin"))
	r.HandleUpdate(ctx, textUpdate("private", "/set 07:00 Vitamin C"))
	r.HandleUpdate(ctx, textUpdate("private", "/list"))

	listing := bot.texts()[2]
	first := strings.Index(listing, "07:00")
	second := strings.Index(listing, "21:00")
	require.GreaterOrEqual(t, first, 0)
	require.GreaterOrEqual(t, second, 0)
	assert.Less(t, first, second, "entries are listed ascending by time")
}

func TestListEmpty(t *testing.T) {
	r, bot, _, _ := newTestRouter(t)
	r.HandleUpdate(context.Background(), textUpdate("private", "/list"))
	assert.Equal(t, emptyScheduleText, bot.texts()[0])
}

func TestHapusRemovesByTime(t *testing.T) {
	r, bot, repo, _ := newTestRouter(t)
	ctx := context.Background()
	r.HandleUpdate(ctx, textUpdate("private", "/set 07:00 Vitamin C"))
	r.HandleUpdate(ctx, textUpdate("private", "/set 07:00 Rifampicin"))
	r.HandleUpdate(ctx, textUpdate("private", "/hapus 07:00"))

	assert.Empty(t, repo.ListSchedule(ctx, 10), "all entries at the time are removed")
	assert.Contains(t, bot.texts()[2], "2 jadwal")
}

func TestHapusNarrowedByMedication(t *testing.T) {
	r, _, repo, _ := newTestRouter(t)
	ctx := context.Background()
	r.HandleUpdate(ctx, textUpdate("private", "/set 07:00 Vitamin C"))
	r.HandleUpdate(ctx, textUpdate("private", "/set 07:00 Rifampicin"))
	r.HandleUpdate(ctx, textUpdate("private", "/hapus 07:00 Vitamin C"))

	entries := repo.ListSchedule(ctx, 10)
	require.Len(t, entries, 1)
	assert.Equal(t, "Rifampicin", entries[0].Medication)
}

func TestHapusNonexistentTime(t *testing.T) {
	r, bot, _, _ := newTestRouter(t)
	r.HandleUpdate(context.Background(), textUpdate("private", "/hapus 06:00"))
	assert.Equal(t, notFoundText, bot.texts()[0])
}

func TestStatsTextOnlyWithoutDailyData(t *testing.T) {
	r, bot, _, _ := newTestRouter(t)
	r.HandleUpdate(context.Background(), textUpdate("private", "/stats"))

	require.Len(t, bot.sent, 1)
	_, isMessage := bot.sent[0].(tgbotapi.MessageConfig)
	assert.True(t, isMessage, "no daily data means a text-only reply")
}

func TestStatsSendsChartPhoto(t *testing.T) {
	r, bot, repo, _ := newTestRouter(t)
	ctx := context.Background()
	repo.AppendDoseLog(ctx, 10, "Vitamin C", domain.StatusOnTime)

	r.HandleUpdate(ctx, textUpdate("private", "/stats"))

	require.Len(t, bot.sent, 1)
	photo, isPhoto := bot.sent[0].(tgbotapi.PhotoConfig)
	require.True(t, isPhoto, "daily data present means a chart photo")
	assert.Contains(t, photo.Caption, "1 kali")
}

func TestStatsPhotoFailureFallsBackToText(t *testing.T) {
	r, bot, repo, _ := newTestRouter(t)
	ctx := context.Background()
	repo.AppendDoseLog(ctx, 10, "Vitamin C", domain.StatusOnTime)
	bot.photoErr = errors.New("upload failed")

	r.HandleUpdate(ctx, textUpdate("private", "/stats"))

	require.Len(t, bot.texts(), 1, "photo failure degrades to the caption text")
}

func TestFreeTextRoutedToAIOnlyInPrivateChat(t *testing.T) {
	r, bot, _, provider := newTestRouter(t)
	ctx := context.Background()

	r.HandleUpdate(ctx, textUpdate("private", "apa itu TBC?"))
	require.Equal(t, []string{"apa itu TBC?"}, provider.asked)
	assert.Equal(t, []string{"Semangat!"}, bot.texts())

	r.HandleUpdate(ctx, textUpdate("group", "apa itu TBC?"))
	assert.Len(t, provider.asked, 1, "group messages never reach the AI")
}

func TestTextlessUpdateIsIgnored(t *testing.T) {
	r, bot, _, provider := newTestRouter(t)
	ctx := context.Background()

	// A photo in a private chat arrives as a message with empty text.
	upd := textUpdate("private", "")
	upd.Message.Photo = []tgbotapi.PhotoSize{{FileID: "f1", Width: 100, Height: 100}}
	r.HandleUpdate(ctx, upd)

	// Whitespace-only text gets the same treatment.
	r.HandleUpdate(ctx, textUpdate("private", "   "))

	assert.Empty(t, provider.asked, "textless updates never reach the AI")
	assert.Empty(t, bot.sent, "no unsolicited reply")
}

func TestAckRecordsOneOnTimeDose(t *testing.T) {
	r, bot, repo, _ := newTestRouter(t)
	r.HandleUpdate(context.Background(), ackUpdate("minum|Paracetamol"))

	logs := repo.Logs()
	require.Len(t, logs, 1)
	assert.Equal(t, "Paracetamol", logs[0].Medication)
	assert.Equal(t, domain.StatusOnTime, logs[0].Status)
	assert.Equal(t, int64(10), logs[0].UserID)

	// The callback is answered and the reminder edited into a confirmation.
	require.Len(t, bot.requests, 1)
	require.Len(t, bot.sent, 1)
	edit, isEdit := bot.sent[0].(tgbotapi.EditMessageTextConfig)
	require.True(t, isEdit)
	assert.Contains(t, edit.Text, "Paracetamol")
}

func TestAckDecodesEscapedMedication(t *testing.T) {
	r, _, repo, _ := newTestRouter(t)
	r.HandleUpdate(context.Background(), ackUpdate("minum|Obat+Batuk+Herbal"))

	logs := repo.Logs()
	require.Len(t, logs, 1)
	assert.Equal(t, "Obat Batuk Herbal", logs[0].Medication)
}

func TestRepeatedAcksAppendDuplicates(t *testing.T) {
	r, _, repo, _ := newTestRouter(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		r.HandleUpdate(ctx, ackUpdate("minum|Paracetamol"))
	}

	// No idempotency key: every tap is another audit-trail entry, and the
	// total tracks the number of acknowledgments exactly.
	assert.Len(t, repo.Logs(), 3)
	assert.Equal(t, int64(3), repo.TotalDoseCount(ctx, 10))
}

func TestSendReminderCarriesAckButton(t *testing.T) {
	r, bot, _, _ := newTestRouter(t)
	require.NoError(t, r.SendReminder(10, "Vitamin C"))

	require.Len(t, bot.sent, 1)
	msg, isMessage := bot.sent[0].(tgbotapi.MessageConfig)
	require.True(t, isMessage)
	assert.Contains(t, msg.Text, "Vitamin C")

	kb, isKb := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, isKb)
	require.Len(t, kb.InlineKeyboard, 1)
	require.Len(t, kb.InlineKeyboard[0], 1)
	require.NotNil(t, kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "minum|Vitamin+C", *kb.InlineKeyboard[0][0].CallbackData)
}
