package commandimpl

import (
	"context"
	"fmt"
	"strings"

	"github.com/orgball2608/insta-downloader/internal/domain"
	"github.com/orgball2608/insta-downloader/internal/download"
	apperrors "github.com/orgball2608/insta-downloader/pkg/errors"
)

func (c *CommandImpl) handlePostCommand(ctx context.Context, chatID int64, args string) error {
	postURL := firstField(args)
	if postURL == "" {
		_, err := c.Telegram.SendMessage(chatID, "Please provide a post URL: /post <instagram_post_url>")
		return err
	}

	content, statusID, err := c.fetch(ctx, chatID, postURL, "post")
	if err != nil || content == nil {
		return err
	}

	sent, err := c.sendContent(chatID, content)
	if err != nil {
		c.editStatus(chatID, statusID, "❌ "+apperrors.UserMessage(err))
		return err
	}

	c.editStatus(chatID, statusID, fmt.Sprintf("✅ Successfully sent %d media item(s) from the post.", sent))
	return nil
}

// fetch resolves rawURL behind a progress message. A resolution failure is
// reported to the user and yields a nil content with a nil error.
func (c *CommandImpl) fetch(ctx context.Context, chatID int64, rawURL, what string) (*domain.Content, int, error) {
	statusID, err := c.Telegram.SendMessage(chatID, fmt.Sprintf("Fetching %s from URL: %s... ⏳", what, rawURL))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to send initial message: %w", err)
	}

	content, err := c.Resolver.Resolve(ctx, rawURL)
	if err != nil {
		c.Logger.Warn("Failed to resolve", "url", rawURL, "code", apperrors.GetCode(err), "error", err)
		c.editStatus(chatID, statusID, "❌ "+apperrors.UserMessage(err))
		return nil, statusID, nil
	}
	return content, statusID, nil
}

// sendContent sends every downloadable item of content in the best
// quality and returns how many were sent.
func (c *CommandImpl) sendContent(chatID int64, content *domain.Content) (int, error) {
	infos, err := download.SelectAll(content, domain.QualityHD, "")
	if err != nil {
		return 0, err
	}

	caption := buildCaption(content)
	if len(infos) == 1 {
		return 1, c.Telegram.SendMedia(chatID, infos[0], caption)
	}
	return len(infos), c.Telegram.SendMediaGroup(chatID, infos, caption)
}

func (c *CommandImpl) editStatus(chatID int64, messageID int, text string) {
	if err := c.Telegram.EditMessageText(chatID, messageID, text); err != nil {
		c.Logger.Warn("Failed to update status message", "chatID", chatID, "error", err)
	}
}

func firstField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
