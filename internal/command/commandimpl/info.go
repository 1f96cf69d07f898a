package commandimpl

import (
	"context"
	"fmt"
	"strings"

	"github.com/orgball2608/insta-downloader/internal/domain"
	"github.com/orgball2608/insta-downloader/pkg/formatter"
)

const captionPreviewLen = 800

func (c *CommandImpl) handleInfoCommand(ctx context.Context, chatID int64, args string) error {
	postURL := firstField(args)
	if postURL == "" {
		_, err := c.Telegram.SendMessage(chatID, "Please provide a URL: /info <instagram_url>")
		return err
	}

	content, statusID, err := c.fetch(ctx, chatID, postURL, "details")
	if err != nil || content == nil {
		return err
	}

	if _, err := c.Telegram.SendMarkdown(chatID, buildInfo(content)); err != nil {
		return err
	}
	c.editStatus(chatID, statusID, "✅ Done")
	return nil
}

// buildCaption is attached to sent media.
func buildCaption(c *domain.Content) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "From @%s", c.Owner.Username)
	if c.Caption != "" {
		sb.WriteString(":\n\n")
		sb.WriteString(formatter.Truncate(c.Caption, captionPreviewLen))
	}
	return sb.String()
}

// buildInfo renders a MarkdownV2 summary of content.
func buildInfo(c *domain.Content) string {
	esc := formatter.EscapeMarkdownV2

	var lines []string
	add := func(format string, args ...any) {
		lines = append(lines, esc(fmt.Sprintf(format, args...)))
	}

	lines = append(lines, fmt.Sprintf("*%s by @%s*", esc(strings.ToUpper(string(c.Kind))), esc(c.Owner.Username)))
	if c.Owner.FullName != "" {
		add("%s", c.Owner.FullName)
	}
	if c.Caption != "" {
		lines = append(lines, "")
		add("%s", formatter.Truncate(c.Caption, captionPreviewLen))
	}
	lines = append(lines, "")

	stats := fmt.Sprintf("❤️ %s  💬 %s", formatter.FormatNumber(c.LikeCount), formatter.FormatNumber(c.CommentCount))
	if c.ViewCount > 0 {
		stats += "  👁 " + formatter.FormatNumber(c.ViewCount)
	}
	add("%s", stats)

	if c.DurationSeconds != nil {
		add("Duration: %s", formatter.FormatDuration(*c.DurationSeconds))
	}
	add("Resolution: %s", c.Resolution)
	if c.IsCarousel {
		add("Items: %d", c.CarouselCount)
	}
	if c.PostedAt != nil {
		add("Posted: %s", c.PostedAt.UTC().Format("2006-01-02 15:04 MST"))
	}

	if len(c.DownloadOptions) > 0 {
		lines = append(lines, "", "*"+esc("Download options:")+"*")
		for _, o := range c.DownloadOptions {
			detail := o.Resolution
			if detail == "" {
				detail = o.Description
			}
			add("• %s (%s, %s)", o.Label, detail, o.EstimatedSize)
		}
	}

	add("Source: %s", c.Source)
	return strings.Join(lines, "\n")
}
