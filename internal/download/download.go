package download

import (
	"fmt"
	"strings"

	"github.com/orgball2608/insta-downloader/internal/domain"
	"github.com/orgball2608/insta-downloader/pkg/errors"
	"github.com/samber/lo"
)

// Request selects one asset of a piece of content. Zero values mean
// "default": the first item, the best quality and jpg for photos.
type Request struct {
	Index   int
	Quality domain.Quality
	Format  domain.Format
}

// ParseQuality maps user input onto a Quality. Empty input means hd.
func ParseQuality(s string) (domain.Quality, error) {
	switch q := domain.Quality(strings.ToLower(strings.TrimSpace(s))); q {
	case "":
		return domain.QualityHD, nil
	case domain.QualityHD, domain.QualitySD, domain.QualityAudio:
		return q, nil
	default:
		return "", errors.WrapWithCode(errors.ErrInvalidInput, errors.CodeInvalidInput, fmt.Sprintf("unknown quality %q, use hd, sd or audio", s))
	}
}

// ParseFormat maps user input onto a Format. Empty input is returned as is
// so Select can pick the default for the media kind.
func ParseFormat(s string) (domain.Format, error) {
	f := domain.Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")))
	if f == "jpeg" {
		f = domain.FormatJPG
	}
	switch f {
	case "", domain.FormatJPG, domain.FormatPNG, domain.FormatWebP, domain.FormatGIF, domain.FormatMP4, domain.FormatMP3:
		return f, nil
	default:
		return "", errors.WrapWithCode(errors.ErrInvalidInput, errors.CodeInvalidInput, fmt.Sprintf("unknown format %q", s))
	}
}

// Select picks the URL to download for req. An out-of-range index falls
// back to the first item.
func Select(content *domain.Content, req Request) (domain.DownloadInfo, error) {
	item := content.Item(req.Index)
	if item == nil {
		return domain.DownloadInfo{}, errors.MediaUnavailable(req.Index, "content has no media")
	}

	if item.IsVideo() {
		return selectVideo(content, *item, req)
	}
	return selectImage(content, *item, req)
}

// SelectAll returns one download per media item, skipping items with
// nothing to download. It fails only when no item is downloadable.
func SelectAll(content *domain.Content, quality domain.Quality, format domain.Format) ([]domain.DownloadInfo, error) {
	if content == nil || len(content.Media) == 0 {
		return nil, errors.MediaUnavailable(0, "content has no media")
	}

	var out []domain.DownloadInfo
	var firstErr error
	for i := range content.Media {
		itemFormat := format
		if !content.Media[i].IsVideo() && !itemFormat.IsImage() {
			itemFormat = ""
		}
		info, err := Select(content, Request{Index: i, Quality: quality, Format: itemFormat})
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		out = append(out, info)
	}

	if len(out) == 0 {
		return nil, firstErr
	}
	return out, nil
}

func selectVideo(content *domain.Content, item domain.MediaItem, req Request) (domain.DownloadInfo, error) {
	quality := lo.Ternary(req.Quality == "", domain.QualityHD, req.Quality)

	url := item.VideoURL
	if len(item.VideoVariants) > 0 {
		var v domain.Variant
		if quality == domain.QualitySD {
			v = lo.MinBy(item.VideoVariants, func(a, b domain.Variant) bool { return a.Width < b.Width })
		} else {
			v = lo.MaxBy(item.VideoVariants, func(a, b domain.Variant) bool { return a.Width > b.Width })
		}
		if v.URL != "" {
			url = v.URL
		}
	}
	if url == "" {
		return domain.DownloadInfo{}, errors.MediaUnavailable(item.Index, "video url not available")
	}

	info := domain.DownloadInfo{
		Index:      item.Index,
		URL:        url,
		Type:       domain.OutputVideo,
		Format:     domain.FormatMP4,
		Quality:    quality,
		Width:      item.Width,
		Height:     item.Height,
		Resolution: item.Resolution(),
	}
	if req.Format == domain.FormatMP3 || quality == domain.QualityAudio {
		info.Type = domain.OutputAudio
		info.Format = domain.FormatMP3
		info.Quality = domain.QualityAudio
	}
	if w, h, ok := variantSize(item.VideoVariants, url); ok {
		info.Width, info.Height = w, h
		info.Resolution = fmt.Sprintf("%d × %d", w, h)
	}

	info.MimeType = info.Format.MimeType()
	info.Filename = Filename(content, item.Index, info.Type, info.Format)
	return info, nil
}

func selectImage(content *domain.Content, item domain.MediaItem, req Request) (domain.DownloadInfo, error) {
	format := req.Format
	if !format.IsImage() {
		format = domain.FormatJPG
	}

	url := item.PreviewURL
	width, height := item.Width, item.Height
	if len(item.ImageVariants) > 0 {
		best := lo.MaxBy(item.ImageVariants, func(a, b domain.Variant) bool { return a.Width > b.Width })
		if best.URL != "" {
			url = best.URL
			if best.Width > 0 && best.Height > 0 {
				width, height = best.Width, best.Height
			}
		}
	}
	if url == "" {
		return domain.DownloadInfo{}, errors.MediaUnavailable(item.Index, "image url not available")
	}

	width = lo.Ternary(width > 0, width, domain.DefaultDimension)
	height = lo.Ternary(height > 0, height, domain.DefaultDimension)

	return domain.DownloadInfo{
		Index:      item.Index,
		URL:        url,
		Filename:   Filename(content, item.Index, domain.OutputImage, format),
		MimeType:   format.MimeType(),
		Type:       domain.OutputImage,
		Format:     format,
		Width:      width,
		Height:     height,
		Resolution: fmt.Sprintf("%d × %d", width, height),
	}, nil
}

func variantSize(variants []domain.Variant, url string) (int, int, bool) {
	v, ok := lo.Find(variants, func(v domain.Variant) bool { return v.URL == url })
	if !ok || v.Width <= 0 || v.Height <= 0 {
		return 0, 0, false
	}
	return v.Width, v.Height, true
}

// Filename builds instagram_<label>_<shortcode>[_<n>].<ext>, where n is the
// 1-based position inside a carousel.
func Filename(content *domain.Content, index int, output domain.OutputType, format domain.Format) string {
	var label string
	switch {
	case output == domain.OutputAudio:
		label = "audio"
	case output == domain.OutputVideo && content.Kind == domain.KindReel:
		label = "reel"
	case output == domain.OutputVideo:
		label = "video"
	default:
		label = "photo"
	}

	name := "instagram_" + label + "_" + content.Shortcode
	if content.IsCarousel {
		name += fmt.Sprintf("_%d", index+1)
	}
	return name + "." + string(format)
}
