package instagram

import (
	"context"

	"github.com/orgball2608/insta-downloader/internal/domain"
)

// Target identifies the post a strategy should look up.
type Target struct {
	Shortcode    string
	URL          string // as supplied by the caller
	CanonicalURL string
}

// Strategy is one way of retrieving post metadata.
//
// Fetch returns (nil, nil) when the method found nothing usable: network
// errors, non-2xx responses, timeouts and unexpected payloads all land
// there. A non-nil error is reserved for local failures such as a broken
// endpoint configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=instagram.go -destination=mocks/mock.go
type Strategy interface {
	Name() string
	Fetch(ctx context.Context, target Target) (*domain.Content, error)
}

// Result pairs a URL with the outcome of resolving it.
type Result struct {
	URL     string
	Content *domain.Content
	Err     error
}

type Resolver interface {
	Resolve(ctx context.Context, rawURL string) (*domain.Content, error)
	ResolveMany(ctx context.Context, rawURLs []string) []Result
}
