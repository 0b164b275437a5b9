package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	startFmt = "Halo %s! 👋\n\n" +
		"Saya bot pengingat minum obat.\n" +
		"• /set HH:MM NamaObat\n" +
		"• /list\n" +
		"• /hapus HH:MM\n" +
		"• /stats 📊"

	setUsageText   = "Format: /set 07:00 NamaObat"
	hapusUsageText = "Format: /hapus 07:00"
	badTimeText    = "Jam salah. Gunakan HH:MM (contoh: 07:00)"

	addedFmt      = "✅ Pengingat %s jam %s disimpan."
	duplicateText = "⚠️ Jadwal itu sudah ada."
	addFailedText = "⚠️ Gagal menyimpan jadwal. Coba lagi nanti."

	emptyScheduleText = "Belum ada jadwal."
	listHeaderText    = "📋 Jadwal Obat:\n"

	removedFmt   = "🗑️ %d jadwal jam %s dihapus."
	notFoundText = "Jadwal tidak ditemukan."

	ackConfirmFmt = "✅ %s sudah diminum. Tercatat!"
	ackButtonText = "✅ Sudah Minum"
)

func reminderText(medication string) string {
	return fmt.Sprintf("⏰ Waktunya Minum Obat!\n💊 %s", medication)
}

// ackKeyboard is the single-button inline keyboard under a reminder.
func ackKeyboard(medication string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(ackButtonText, ackCallbackData(medication)),
		),
	)
}
