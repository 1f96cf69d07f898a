package strategy

import (
	"context"
	"encoding/json"

	"github.com/orgball2608/insta-downloader/internal/domain"
	"github.com/orgball2608/insta-downloader/internal/httpclient"
	"github.com/orgball2608/insta-downloader/internal/instagram"
)

// Direct calls the post page with the JSON query flags set. Depending on the
// API version the payload is either a list of mobile items or a GraphQL
// object.
type Direct struct {
	base
}

var _ instagram.Strategy = (*Direct)(nil)

func NewDirect(opts Opts) *Direct {
	return &Direct{base: newBase(NameDirect, opts)}
}

type directResponse struct {
	Items   []apiItem `json:"items"`
	GraphQL struct {
		ShortcodeMedia *graphQLMedia `json:"shortcode_media"`
	} `json:"graphql"`
}

func (s *Direct) Fetch(ctx context.Context, target instagram.Target) (*domain.Content, error) {
	endpoint, err := s.endpoint("/p/" + target.Shortcode + "/")
	if err != nil {
		return nil, err
	}

	body := s.get(ctx, httpclient.Request{
		URL: endpoint,
		Query: map[string]string{
			"__a": "1",
			"__d": "dis",
		},
		Headers: map[string]string{
			"Accept":           "application/json",
			"X-IG-App-ID":      s.cfg.Instagram.AppID,
			"X-Requested-With": "XMLHttpRequest",
		},
	})
	if body == nil {
		return nil, nil
	}

	return parseDirect(body), nil
}

func parseDirect(body []byte) *domain.Content {
	var resp directResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil
	}
	if len(resp.Items) > 0 {
		return resp.Items[0].toContent(NameDirect)
	}
	return resp.GraphQL.ShortcodeMedia.toContent(NameDirect)
}
