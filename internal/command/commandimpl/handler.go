package commandimpl

import (
	"context"
	"errors"
	"runtime/debug"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/insta-downloader/internal/instagram"
	apperrors "github.com/orgball2608/insta-downloader/pkg/errors"
)

const helpMessage = `👋 Welcome to the Instagram Downloader Bot!

Send me a link to an Instagram post, reel or IGTV video and I will send the media back.

Commands:
/post <url> - Download every photo and video of a post.
/reel <url> - Download a Reel in the best quality.
/download <url> [index|all] [hd|sd|audio] [jpg|png|webp|gif|mp4|mp3] - Download one item with a chosen quality and format. Items are numbered from 1.
/info <url> - Show post details and download options.

Type /help at any time to see this guide.`

var ErrUpdatesClosed = errors.New("telegram updates channel closed")

func (c *CommandImpl) HandleCommand(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := c.Telegram.GetUpdatesChan(u)
	c.Logger.Info("Command handler started, listening for updates.")

	for {
		select {
		case <-ctx.Done():
			c.Logger.Info("Command handler shutting down.")
			c.Telegram.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				c.Logger.Warn("Telegram updates channel closed unexpectedly.")
				return ErrUpdatesClosed
			}
			go c.processUpdate(ctx, update)
		}
	}
}

func (c *CommandImpl) processUpdate(ctx context.Context, u tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			c.Logger.Error("Panic recovered while processing an update", "panic", r, "stack", string(debug.Stack()))
		}
	}()

	if u.Message == nil {
		return
	}

	c.Logger.Info("Message received", "chatID", u.Message.Chat.ID, "text", u.Message.Text)

	var err error
	if u.Message.IsCommand() {
		err = c.processCommand(ctx, u)
	} else {
		err = c.handleLinks(ctx, u.Message.Chat.ID, u.Message.Text)
	}
	if err != nil {
		c.Logger.Error("Error processing message",
			"command", u.Message.Command(),
			"error", err)
	}
}

func (c *CommandImpl) processCommand(ctx context.Context, update tgbotapi.Update) error {
	command := update.Message.Command()
	args := update.Message.CommandArguments()
	chatID := update.Message.Chat.ID

	switch command {
	case "start", "help":
		_, err := c.Telegram.SendMessage(chatID, helpMessage)
		return err
	case "post":
		return c.handlePostCommand(ctx, chatID, args)
	case "reel":
		return c.handleReelCommand(ctx, chatID, args)
	case "download":
		return c.handleDownloadCommand(ctx, chatID, args)
	case "info":
		return c.handleInfoCommand(ctx, chatID, args)
	default:
		_, err := c.Telegram.SendMessage(chatID, "Unknown command. Type /help to see the list of available commands.")
		return err
	}
}

// handleLinks answers plain messages carrying one or more Instagram links.
// Messages without links are ignored.
func (c *CommandImpl) handleLinks(ctx context.Context, chatID int64, text string) error {
	urls := instagram.FindURLs(text)
	if len(urls) == 0 {
		return nil
	}

	var errs []error
	for _, res := range c.Resolver.ResolveMany(ctx, urls) {
		if res.Err != nil {
			c.Logger.Warn("Failed to resolve link", "url", res.URL, "error", res.Err)
			if _, err := c.Telegram.SendMessage(chatID, "❌ "+res.URL+"\n"+apperrors.UserMessage(res.Err)); err != nil {
				errs = append(errs, err)
			}
			continue
		}
		if _, err := c.sendContent(chatID, res.Content); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
