package strategy

import (
	"bytes"
	"context"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/orgball2608/insta-downloader/internal/domain"
	"github.com/orgball2608/insta-downloader/internal/httpclient"
	"github.com/orgball2608/insta-downloader/internal/instagram"
)

// WebPage scrapes the public post page. It is the last resort and falls
// back to Open Graph tags when no inline JSON is present.
type WebPage struct {
	base
}

var _ instagram.Strategy = (*WebPage)(nil)

func NewWebPage(opts Opts) *WebPage {
	return &WebPage{base: newBase(NameWebPage, opts)}
}

var (
	sharedDataMarker     = regexp.MustCompile(`window\._sharedData\s*=\s*`)
	additionalDataMarker = regexp.MustCompile(`window\.__additionalDataLoaded\s*\(\s*[^,]+,\s*`)
)

type sharedData struct {
	EntryData struct {
		PostPage []struct {
			GraphQL struct {
				ShortcodeMedia *graphQLMedia `json:"shortcode_media"`
			} `json:"graphql"`
		} `json:"PostPage"`
	} `json:"entry_data"`
}

type additionalData struct {
	GraphQL struct {
		ShortcodeMedia *graphQLMedia `json:"shortcode_media"`
	} `json:"graphql"`
	ShortcodeMedia *graphQLMedia `json:"shortcode_media"`
}

func (s *WebPage) Fetch(ctx context.Context, target instagram.Target) (*domain.Content, error) {
	path := "/p/" + target.Shortcode + "/"
	if u, err := url.Parse(target.CanonicalURL); err == nil && u.Path != "" {
		path = u.Path + "/"
	}
	endpoint, err := s.endpoint(path)
	if err != nil {
		return nil, err
	}

	body := s.get(ctx, httpclient.Request{URL: endpoint})
	if body == nil {
		return nil, nil
	}

	return parseWebPage(body), nil
}

func parseWebPage(body []byte) *domain.Content {
	var shared sharedData
	if decodeAfter(body, sharedDataMarker, &shared) && len(shared.EntryData.PostPage) > 0 {
		if c := shared.EntryData.PostPage[0].GraphQL.ShortcodeMedia.toContent(NameWebPage); c != nil {
			return c
		}
	}

	var extra additionalData
	if decodeAfter(body, additionalDataMarker, &extra) {
		media := extra.GraphQL.ShortcodeMedia
		if media == nil {
			media = extra.ShortcodeMedia
		}
		if c := media.toContent(NameWebPage); c != nil {
			return c
		}
	}

	og, err := scanOpenGraph(body)
	if err != nil {
		return nil
	}
	return og.toContent()
}

// openGraph holds the og:* meta tags of a post page.
type openGraph struct {
	Image       string
	ImageWidth  int
	ImageHeight int
	Video       string
	Description string
	Title       string
}

func scanOpenGraph(body []byte) (*openGraph, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	meta := func(property string) string {
		v, _ := doc.Find(`meta[property="` + property + `"]`).First().Attr("content")
		return strings.TrimSpace(v)
	}
	atoi := func(s string) int {
		n, _ := strconv.Atoi(s)
		return n
	}

	return &openGraph{
		Image:       meta("og:image"),
		ImageWidth:  atoi(meta("og:image:width")),
		ImageHeight: atoi(meta("og:image:height")),
		Video:       firstNonEmpty(meta("og:video:secure_url"), meta("og:video")),
		Description: meta("og:description"),
		Title:       meta("og:title"),
	}, nil
}

func (og *openGraph) toContent() *domain.Content {
	item := domain.MediaItem{
		Kind:         domain.MediaPhoto,
		PreviewURL:   og.Image,
		ThumbnailURL: og.Image,
		Width:        positiveOr(og.ImageWidth, domain.DefaultDimension),
		Height:       positiveOr(og.ImageHeight, domain.DefaultDimension),
	}
	if og.Image != "" {
		item.ImageVariants = []domain.Variant{{URL: og.Image, Width: item.Width, Height: item.Height}}
	}
	if og.Video != "" {
		item.Kind = domain.MediaVideo
		item.VideoURL = og.Video
	}

	items := usableItems([]domain.MediaItem{item})
	if len(items) == 0 {
		return nil
	}

	return &domain.Content{
		Kind:    domain.KindPost,
		IsVideo: items[0].IsVideo(),
		Caption: firstNonEmpty(og.Description, og.Title),
		Media:   items,
		Source:  NameWebPage,
	}
}
