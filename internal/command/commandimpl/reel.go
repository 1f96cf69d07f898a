package commandimpl

import (
	"context"

	"github.com/orgball2608/insta-downloader/internal/download"
	apperrors "github.com/orgball2608/insta-downloader/pkg/errors"
)

func (c *CommandImpl) handleReelCommand(ctx context.Context, chatID int64, args string) error {
	reelURL := firstField(args)
	if reelURL == "" {
		_, err := c.Telegram.SendMessage(chatID, "Please provide a Reel URL: /reel <instagram_reel_url>")
		return err
	}

	reel, statusID, err := c.fetch(ctx, chatID, reelURL, "Reel")
	if err != nil || reel == nil {
		return err
	}

	info, err := download.Select(reel, download.Request{})
	if err != nil {
		c.editStatus(chatID, statusID, "❌ "+apperrors.UserMessage(err))
		return nil
	}

	c.editStatus(chatID, statusID, "✅ Successfully fetched Reel info! Sending video now...")
	if err := c.Telegram.SendMedia(chatID, info, buildCaption(reel)); err != nil {
		c.Logger.Error("Failed to send Reel video", "error", err)
		return err
	}
	return nil
}
