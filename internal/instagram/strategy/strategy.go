package strategy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/orgball2608/insta-downloader/internal/httpclient"
	"github.com/orgball2608/insta-downloader/internal/instagram"
	"github.com/orgball2608/insta-downloader/pkg/config"
	"github.com/orgball2608/insta-downloader/pkg/logger"
	"go.uber.org/fx"
)

const (
	NameGraphQL = "graphql"
	NameEmbed   = "embed"
	NameOEmbed  = "oembed"
	NameDirect  = "direct"
	NameWebPage = "webpage"
)

type Opts struct {
	fx.In

	Fetcher httpclient.Fetcher
	Config  *config.Config
	Logger  logger.Logger
}

// NewChain returns every strategy in the order the resolver must try them.
func NewChain(opts Opts) []instagram.Strategy {
	return []instagram.Strategy{
		NewGraphQL(opts),
		NewEmbed(opts),
		NewOEmbed(opts),
		NewDirect(opts),
		NewWebPage(opts),
	}
}

type base struct {
	name    string
	fetcher httpclient.Fetcher
	cfg     *config.Config
	logger  logger.Logger
}

func newBase(name string, opts Opts) base {
	return base{
		name:    name,
		fetcher: opts.Fetcher,
		cfg:     opts.Config,
		logger:  opts.Logger.WithComponent("strategy/" + name),
	}
}

func (b base) Name() string {
	return b.name
}

// endpoint joins path onto the configured Instagram base URL.
func (b base) endpoint(path string) (string, error) {
	return joinURL(b.cfg.Instagram.BaseURL, path)
}

// get returns the response body, or nil when the request failed or upstream
// answered with a non-2xx status.
func (b base) get(ctx context.Context, req httpclient.Request) []byte {
	req.Headers = withReferer(req.Headers, b.cfg.Instagram.BaseURL)

	resp, err := b.fetcher.Get(ctx, req)
	if err != nil {
		b.logger.Debug("Request failed", "url", req.URL, "error", err)
		return nil
	}
	if !resp.IsSuccess() {
		b.logger.Debug("Unexpected status", "url", req.URL, "status", resp.StatusCode)
		return nil
	}
	return resp.Body
}

// withReferer makes requests look like navigation from the Instagram home
// page unless the caller set its own Referer.
func withReferer(headers map[string]string, baseURL string) map[string]string {
	out := make(map[string]string, len(headers)+1)
	for k, v := range headers {
		out[k] = v
	}
	if _, ok := out["Referer"]; !ok {
		out["Referer"] = strings.TrimRight(baseURL, "/") + "/"
	}
	return out
}

func joinURL(baseURL, path string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return "", fmt.Errorf("invalid instagram base url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid instagram base url %q: missing scheme or host", baseURL)
	}
	return strings.TrimRight(u.String(), "/") + "/" + strings.TrimLeft(path, "/"), nil
}

// decodeAfter locates marker in body and decodes the single JSON value that
// follows it into v. Whatever comes after that value is ignored.
func decodeAfter(body []byte, marker *regexp.Regexp, v any) bool {
	loc := marker.FindIndex(body)
	if loc == nil {
		return false
	}
	return json.NewDecoder(bytes.NewReader(body[loc[1]:])).Decode(v) == nil
}
