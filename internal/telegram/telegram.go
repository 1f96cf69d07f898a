package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/insta-downloader/internal/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=telegram.go -destination=mocks/mock.go
type Client interface {
	GetUpdatesChan(u tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()

	SendMessage(chatID int64, text string) (int, error)
	SendMarkdown(chatID int64, text string) (int, error)
	EditMessageText(chatID int64, messageID int, newText string) error

	// SendMedia sends one downloadable asset, letting Telegram fetch it by URL.
	SendMedia(chatID int64, info domain.DownloadInfo, caption string) error
	// SendMediaGroup sends photos and videos as albums. caption goes on the
	// first item of the first album.
	SendMediaGroup(chatID int64, items []domain.DownloadInfo, caption string) error
}
