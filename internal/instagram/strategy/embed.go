package strategy

import (
	"bytes"
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/orgball2608/insta-downloader/internal/domain"
	"github.com/orgball2608/insta-downloader/internal/httpclient"
	"github.com/orgball2608/insta-downloader/internal/instagram"
)

// Embed reads the captioned embed page, which is served without login far
// more often than the post page itself.
type Embed struct {
	base
}

var _ instagram.Strategy = (*Embed)(nil)

func NewEmbed(opts Opts) *Embed {
	return &Embed{base: newBase(NameEmbed, opts)}
}

var (
	embedExtraMarker  = regexp.MustCompile(`window\.__additionalDataLoaded\s*\(\s*['"]extra['"]\s*,\s*`)
	shortcodeMediaKey = regexp.MustCompile(`"shortcode_media"\s*:\s*`)
	usernameInJSON    = regexp.MustCompile(`"username"\s*:\s*"([^"]+)"`)
)

func (s *Embed) Fetch(ctx context.Context, target instagram.Target) (*domain.Content, error) {
	endpoint, err := s.endpoint("/p/" + target.Shortcode + "/embed/captioned/")
	if err != nil {
		return nil, err
	}

	body := s.get(ctx, httpclient.Request{URL: endpoint})
	if body == nil {
		return nil, nil
	}

	return parseEmbed(body), nil
}

func parseEmbed(body []byte) *domain.Content {
	var extra struct {
		ShortcodeMedia *graphQLMedia `json:"shortcode_media"`
	}
	if decodeAfter(body, embedExtraMarker, &extra) && extra.ShortcodeMedia != nil {
		if c := extra.ShortcodeMedia.toContent(NameEmbed); c != nil {
			return c
		}
	}

	var media *graphQLMedia
	if decodeAfter(body, shortcodeMediaKey, &media) && media != nil {
		if c := media.toContent(NameEmbed); c != nil {
			return c
		}
	}

	scan, err := scanEmbed(body)
	if err != nil {
		return nil
	}
	return scan.toContent()
}

// embedScan is what can be read off the embed markup when no JSON is inlined.
type embedScan struct {
	ImageURL  string
	VideoURL  string
	PosterURL string
	Username  string
	Caption   string
}

func scanEmbed(body []byte) (*embedScan, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	scan := &embedScan{}
	scan.ImageURL, _ = doc.Find("img.EmbeddedMediaImage").First().Attr("src")

	video := doc.Find("video[src]").First()
	scan.VideoURL, _ = video.Attr("src")
	scan.PosterURL, _ = video.Attr("poster")

	if m := usernameInJSON.FindSubmatch(body); m != nil {
		scan.Username = string(m[1])
	} else {
		scan.Username = strings.TrimSpace(doc.Find(".UsernameText").First().Text())
	}

	caption := doc.Find("div[class*='Caption']").First().Clone()
	caption.Find(".CaptionUsername, .CaptionComments").Remove()
	scan.Caption = strings.TrimSpace(caption.Text())

	return scan, nil
}

func (s *embedScan) toContent() *domain.Content {
	item := domain.MediaItem{
		Kind:         domain.MediaPhoto,
		PreviewURL:   s.ImageURL,
		ThumbnailURL: s.ImageURL,
		Width:        domain.DefaultDimension,
		Height:       domain.DefaultDimension,
	}
	if s.VideoURL != "" {
		item.Kind = domain.MediaVideo
		item.VideoURL = s.VideoURL
		item.PreviewURL = firstNonEmpty(s.ImageURL, s.PosterURL)
		item.ThumbnailURL = item.PreviewURL
	}

	items := usableItems([]domain.MediaItem{item})
	if len(items) == 0 {
		return nil
	}

	return &domain.Content{
		Kind:    domain.KindPost,
		IsVideo: items[0].IsVideo(),
		Owner:   domain.Owner{Username: s.Username},
		Caption: s.Caption,
		Media:   items,
		Source:  NameEmbed,
	}
}
