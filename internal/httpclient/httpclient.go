package httpclient

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/orgball2608/insta-downloader/internal/ratelimit"
	"github.com/orgball2608/insta-downloader/pkg/config"
	"github.com/orgball2608/insta-downloader/pkg/logger"
	"github.com/orgball2608/insta-downloader/pkg/retry"
	"go.uber.org/fx"
)

// Request describes a GET call. Headers are added on top of the browser
// defaults and override them on conflict.
type Request struct {
	URL     string
	Query   map[string]string
	Headers map[string]string
}

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *Response) IsSuccess() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Fetcher performs HTTP GETs. A non-2xx status is not an error; only
// transport failures are.
//
//go:generate go run go.uber.org/mock/mockgen -source=httpclient.go -destination=mocks/mock.go
type Fetcher interface {
	Get(ctx context.Context, req Request) (*Response, error)
}

var ErrInvalidRequest = errors.New("invalid request")

type Opts struct {
	fx.In

	Config  *config.Config
	Logger  logger.Logger
	Limiter ratelimit.Limiter `optional:"true"`
}

type Client struct {
	rc      *resty.Client
	limiter ratelimit.Limiter
	logger  logger.Logger
	retry   retry.Config
}

var _ Fetcher = (*Client)(nil)

func New(opts Opts) *Client {
	cfg := opts.Config

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.HTTP.ConnectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: cfg.HTTP.ConnectTimeout,
		TLSClientConfig:     &tls.Config{InsecureSkipVerify: cfg.HTTP.InsecureSkipVerify}, //nolint:gosec // opt-in via HTTP_INSECURE_SKIP_VERIFY
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
	}

	rc := resty.NewWithClient(&http.Client{
		Transport: transport,
		Timeout:   cfg.HTTP.Timeout,
	})
	rc.SetHeaders(BrowserHeaders(cfg.Instagram.UserAgent))

	limiter := opts.Limiter
	if limiter == nil {
		limiter = ratelimit.NewInMemoryLimiter(cfg.HTTP.RatePerSecond, cfg.HTTP.RateBurst)
	}

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxRetries = cfg.HTTP.MaxRetries

	return &Client{
		rc:      rc,
		limiter: limiter,
		logger:  opts.Logger.WithComponent("HTTPClient"),
		retry:   retryCfg,
	}
}

// BrowserHeaders are sent with every request so upstream sees an ordinary
// desktop browser.
func BrowserHeaders(userAgent string) map[string]string {
	return map[string]string{
		"User-Agent":                userAgent,
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8",
		"Accept-Language":           "en-US,en;q=0.9",
		"Upgrade-Insecure-Requests": "1",
		"Sec-Fetch-Dest":            "document",
		"Sec-Fetch-Mode":            "navigate",
		"Sec-Fetch-Site":            "none",
		"Sec-Fetch-User":            "?1",
		"Cache-Control":             "max-age=0",
	}
}

// Get issues the request, retrying transport errors, 429 and 5xx responses.
// When retries run out on a bad status the last response is returned.
func (c *Client) Get(ctx context.Context, req Request) (*Response, error) {
	u, err := url.Parse(req.URL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: bad url %q", ErrInvalidRequest, req.URL)
	}

	var last *resty.Response
	operation := func() error {
		if err := c.limiter.Wait(ctx, u.Host); err != nil {
			return retry.Permanent(err)
		}

		resp, err := c.rc.R().
			SetContext(ctx).
			SetHeaders(req.Headers).
			SetQueryParams(req.Query).
			Get(req.URL)
		if err != nil {
			if ctx.Err() != nil {
				return retry.Permanent(err)
			}
			return err
		}

		last = resp
		if isRetryableStatus(resp.StatusCode()) {
			err := fmt.Errorf("upstream responded %d", resp.StatusCode())
			return retry.After(err, retryAfter(resp.Header().Get("Retry-After")))
		}
		return nil
	}

	start := time.Now()
	err = retry.Do(ctx, c.logger, "GET "+u.Host+u.Path, operation, c.retry)
	if last == nil {
		c.logger.Debug("Request failed", "url", req.URL, "error", err, "elapsed", time.Since(start))
		return nil, err
	}

	c.logger.Debug("Request finished", "url", req.URL, "status", last.StatusCode(), "elapsed", time.Since(start))
	return &Response{
		StatusCode: last.StatusCode(),
		Header:     last.Header(),
		Body:       last.Body(),
	}, nil
}

// retryAfter reads a Retry-After header given in seconds. HTTP dates are
// ignored.
func retryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}
