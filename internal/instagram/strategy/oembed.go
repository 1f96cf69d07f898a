package strategy

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/orgball2608/insta-downloader/internal/domain"
	"github.com/orgball2608/insta-downloader/internal/httpclient"
	"github.com/orgball2608/insta-downloader/internal/instagram"
)

// OEmbed asks the oEmbed endpoint about the original URL. It only ever
// yields a thumbnail-grade single photo.
type OEmbed struct {
	base
}

var _ instagram.Strategy = (*OEmbed)(nil)

func NewOEmbed(opts Opts) *OEmbed {
	return &OEmbed{base: newBase(NameOEmbed, opts)}
}

type oEmbedResponse struct {
	AuthorName      string     `json:"author_name"`
	AuthorID        flexString `json:"author_id"`
	Title           string     `json:"title"`
	ThumbnailURL    string     `json:"thumbnail_url"`
	ThumbnailWidth  flexInt    `json:"thumbnail_width"`
	ThumbnailHeight flexInt    `json:"thumbnail_height"`
}

func (s *OEmbed) Fetch(ctx context.Context, target instagram.Target) (*domain.Content, error) {
	endpoint, err := url.Parse(s.cfg.Instagram.OEmbedURL)
	if err != nil || endpoint.Scheme == "" || endpoint.Host == "" {
		return nil, fmt.Errorf("invalid oembed url %q", s.cfg.Instagram.OEmbedURL)
	}

	body := s.get(ctx, httpclient.Request{
		URL: endpoint.String(),
		Query: map[string]string{
			"url":        firstNonEmpty(target.URL, target.CanonicalURL),
			"omitscript": "true",
		},
	})
	if body == nil {
		return nil, nil
	}

	return parseOEmbed(body), nil
}

func parseOEmbed(body []byte) *domain.Content {
	var resp oEmbedResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil
	}
	return resp.toContent()
}

func (r *oEmbedResponse) toContent() *domain.Content {
	items := usableItems([]domain.MediaItem{{
		Kind:         domain.MediaPhoto,
		PreviewURL:   r.ThumbnailURL,
		ThumbnailURL: r.ThumbnailURL,
		Width:        positiveOr(int(r.ThumbnailWidth), domain.DefaultDimension),
		Height:       positiveOr(int(r.ThumbnailHeight), domain.DefaultDimension),
	}})
	if len(items) == 0 {
		return nil
	}

	return &domain.Content{
		Kind: domain.KindPost,
		Owner: domain.Owner{
			ID:       string(r.AuthorID),
			Username: r.AuthorName,
		},
		Caption: stripTags(r.Title),
		Media:   items,
		Source:  NameOEmbed,
	}
}

// stripTags returns the text content of an HTML fragment.
func stripTags(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.TrimSpace(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.TrimSpace(doc.Text())
}
