package strategy

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/orgball2608/insta-downloader/internal/domain"
	"github.com/orgball2608/insta-downloader/internal/httpclient"
	"github.com/orgball2608/insta-downloader/internal/instagram"
)

var errNoQueryHash = errors.New("graphql query hash is not configured")

// GraphQL queries the public GraphQL endpoint by shortcode.
type GraphQL struct {
	base
}

var _ instagram.Strategy = (*GraphQL)(nil)

func NewGraphQL(opts Opts) *GraphQL {
	return &GraphQL{base: newBase(NameGraphQL, opts)}
}

type graphQLVariables struct {
	Shortcode           string `json:"shortcode"`
	ChildCommentCount   int    `json:"child_comment_count"`
	FetchCommentCount   int    `json:"fetch_comment_count"`
	ParentCommentCount  int    `json:"parent_comment_count"`
	HasThreadedComments bool   `json:"has_threaded_comments"`
}

type graphQLResponse struct {
	Data struct {
		ShortcodeMedia *graphQLMedia `json:"shortcode_media"`
	} `json:"data"`
}

func (s *GraphQL) Fetch(ctx context.Context, target instagram.Target) (*domain.Content, error) {
	if s.cfg.Instagram.GraphQLQueryHash == "" {
		return nil, errNoQueryHash
	}
	endpoint, err := s.endpoint("/graphql/query/")
	if err != nil {
		return nil, err
	}

	variables, err := json.Marshal(graphQLVariables{Shortcode: target.Shortcode})
	if err != nil {
		return nil, err
	}

	body := s.get(ctx, httpclient.Request{
		URL: endpoint,
		Query: map[string]string{
			"query_hash": s.cfg.Instagram.GraphQLQueryHash,
			"variables":  string(variables),
		},
	})
	if body == nil {
		return nil, nil
	}

	return parseGraphQL(body), nil
}

func parseGraphQL(body []byte) *domain.Content {
	var resp graphQLResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil
	}
	return resp.Data.ShortcodeMedia.toContent(NameGraphQL)
}
