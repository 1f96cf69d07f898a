package commandimpl

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/orgball2608/insta-downloader/internal/domain"
	"github.com/orgball2608/insta-downloader/internal/download"
	apperrors "github.com/orgball2608/insta-downloader/pkg/errors"
)

const downloadUsage = "Usage: /download <url> [index|all] [hd|sd|audio] [jpg|png|webp|gif|mp4|mp3]"

type downloadArgs struct {
	URL string
	All bool
	download.Request
}

// parseDownloadArgs reads "<url> [index|all] [quality] [format]". Options
// after the URL may come in any order; the index is 1-based.
func parseDownloadArgs(args string) (downloadArgs, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return downloadArgs{}, apperrors.WrapWithCode(apperrors.ErrInvalidInput, apperrors.CodeInvalidInput, downloadUsage)
	}

	out := downloadArgs{URL: fields[0]}
	out.Quality = domain.QualityHD
	for _, f := range fields[1:] {
		if strings.EqualFold(f, "all") {
			out.All = true
			continue
		}
		if n, err := strconv.Atoi(f); err == nil {
			out.Index = n - 1
			continue
		}
		if q, err := download.ParseQuality(f); err == nil {
			out.Quality = q
			continue
		}
		format, err := download.ParseFormat(f)
		if err != nil {
			return downloadArgs{}, apperrors.WrapWithCode(apperrors.ErrInvalidInput, apperrors.CodeInvalidInput,
				fmt.Sprintf("unknown option %q. %s", f, downloadUsage))
		}
		out.Format = format
	}
	return out, nil
}

func (c *CommandImpl) handleDownloadCommand(ctx context.Context, chatID int64, args string) error {
	req, err := parseDownloadArgs(args)
	if err != nil {
		_, sendErr := c.Telegram.SendMessage(chatID, apperrors.UserMessage(err))
		return sendErr
	}

	content, statusID, err := c.fetch(ctx, chatID, req.URL, "media")
	if err != nil || content == nil {
		return err
	}

	var infos []domain.DownloadInfo
	if req.All {
		infos, err = download.SelectAll(content, req.Quality, req.Format)
	} else {
		var info domain.DownloadInfo
		info, err = download.Select(content, req.Request)
		infos = []domain.DownloadInfo{info}
	}
	if err != nil {
		c.editStatus(chatID, statusID, "❌ "+apperrors.UserMessage(err))
		return nil
	}

	caption := buildCaption(content)
	for i, info := range infos {
		if i > 0 {
			caption = ""
		}
		if err := c.Telegram.SendMedia(chatID, info, caption); err != nil {
			c.editStatus(chatID, statusID, "❌ Failed to send "+info.Filename)
			return err
		}
	}

	c.editStatus(chatID, statusID, fmt.Sprintf("✅ Sent %s", describeDownloads(infos)))
	return nil
}

func describeDownloads(infos []domain.DownloadInfo) string {
	if len(infos) == 1 {
		info := infos[0]
		return fmt.Sprintf("%s (%s, %s)", info.Filename, info.Type, info.Resolution)
	}
	return fmt.Sprintf("%d files", len(infos))
}
