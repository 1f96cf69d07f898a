package telegramimpl

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/insta-downloader/internal/domain"
	"github.com/orgball2608/insta-downloader/pkg/formatter"
	"github.com/samber/lo"
)

// Telegram rejects albums with more than ten items.
const maxGroupSize = 10

// Telegram caps media captions at 1024 characters.
const maxCaptionLen = 1024

// SendMessage sends a message to a specific chat ID
func (tg *TelegramImpl) SendMessage(chatID int64, text string) (int, error) {
	return tg.send(chatID, tgbotapi.NewMessage(chatID, text))
}

// SendMarkdown sends text already escaped for MarkdownV2.
func (tg *TelegramImpl) SendMarkdown(chatID int64, text string) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.DisableWebPagePreview = true
	return tg.send(chatID, msg)
}

func (tg *TelegramImpl) send(chatID int64, c tgbotapi.Chattable) (int, error) {
	sentMsg, err := tg.TgBot.Send(c)
	if err != nil {
		tg.Logger.Error("Error sending message",
			"chatID", chatID,
			"error", err)
		return 0, fmt.Errorf("failed to send message: %w", err)
	}

	tg.Logger.Debug("Message sent",
		"chatID", chatID,
		"messageID", sentMsg.MessageID)
	return sentMsg.MessageID, nil
}

func (tg *TelegramImpl) EditMessageText(chatID int64, messageID int, newText string) error {
	if _, err := tg.TgBot.Send(tgbotapi.NewEditMessageText(chatID, messageID, newText)); err != nil {
		tg.Logger.Error("Error editing message", "chatID", chatID, "messageID", messageID, "error", err)
		return fmt.Errorf("failed to edit message: %w", err)
	}
	return nil
}

func (tg *TelegramImpl) SendMedia(chatID int64, info domain.DownloadInfo, caption string) error {
	if _, err := tg.TgBot.Send(mediaMessage(chatID, info, caption)); err != nil {
		tg.Logger.Error("Error sending media",
			"chatID", chatID,
			"type", info.Type,
			"filename", info.Filename,
			"error", err)
		return fmt.Errorf("failed to send %s: %w", info.Type, err)
	}

	tg.Logger.Info("Media sent", "chatID", chatID, "type", info.Type, "filename", info.Filename)
	return nil
}

// SendMediaGroup falls back to sending items one by one when Telegram
// refuses an album.
func (tg *TelegramImpl) SendMediaGroup(chatID int64, items []domain.DownloadInfo, caption string) error {
	for _, group := range buildMediaGroups(chatID, items, caption) {
		_, err := tg.TgBot.SendMediaGroup(group)
		if err == nil {
			continue
		}
		tg.Logger.Warn("Failed to send media group, sending items individually", "chatID", chatID, "error", err)

		for i, raw := range group.Media {
			info := groupItem(items, raw)
			if err := tg.SendMedia(chatID, info, lo.Ternary(i == 0, captionOf(raw), "")); err != nil {
				return err
			}
		}
	}
	return nil
}

// mediaMessage picks the Telegram upload kind for info. Image formats
// Telegram would recompress are sent as documents.
func mediaMessage(chatID int64, info domain.DownloadInfo, caption string) tgbotapi.Chattable {
	file := tgbotapi.FileURL(info.URL)
	caption = trimCaption(caption)

	switch {
	case info.Type == domain.OutputAudio:
		audio := tgbotapi.NewAudio(chatID, file)
		audio.Caption = caption
		return audio
	case info.Type == domain.OutputVideo:
		video := tgbotapi.NewVideo(chatID, file)
		video.Caption = caption
		video.SupportsStreaming = true
		return video
	case info.Format == domain.FormatJPG || info.Format == "":
		photo := tgbotapi.NewPhoto(chatID, file)
		photo.Caption = caption
		return photo
	default:
		doc := tgbotapi.NewDocument(chatID, file)
		doc.Caption = caption
		return doc
	}
}

// buildMediaGroups splits items into albums. Audio has no place in a
// photo/video album and is skipped.
func buildMediaGroups(chatID int64, items []domain.DownloadInfo, caption string) []tgbotapi.MediaGroupConfig {
	visual := lo.Filter(items, func(info domain.DownloadInfo, _ int) bool {
		return info.Type != domain.OutputAudio
	})

	var groups []tgbotapi.MediaGroupConfig
	for gi, chunk := range lo.Chunk(visual, maxGroupSize) {
		media := make([]interface{}, 0, len(chunk))
		for i, info := range chunk {
			text := lo.Ternary(gi == 0 && i == 0, trimCaption(caption), "")
			file := tgbotapi.FileURL(info.URL)
			if info.Type == domain.OutputVideo {
				video := tgbotapi.NewInputMediaVideo(file)
				video.Caption = text
				media = append(media, video)
			} else {
				photo := tgbotapi.NewInputMediaPhoto(file)
				photo.Caption = text
				media = append(media, photo)
			}
		}
		groups = append(groups, tgbotapi.NewMediaGroup(chatID, media))
	}
	return groups
}

func groupItem(items []domain.DownloadInfo, raw interface{}) domain.DownloadInfo {
	var file tgbotapi.RequestFileData
	switch m := raw.(type) {
	case tgbotapi.InputMediaPhoto:
		file = m.Media
	case tgbotapi.InputMediaVideo:
		file = m.Media
	}
	url, _ := file.(tgbotapi.FileURL)
	info, _ := lo.Find(items, func(i domain.DownloadInfo) bool { return i.URL == string(url) })
	return info
}

func captionOf(raw interface{}) string {
	switch m := raw.(type) {
	case tgbotapi.InputMediaPhoto:
		return m.Caption
	case tgbotapi.InputMediaVideo:
		return m.Caption
	}
	return ""
}

func trimCaption(s string) string {
	return formatter.Truncate(s, maxCaptionLen)
}
