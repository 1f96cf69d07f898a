package instagram

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/orgball2608/insta-downloader/internal/domain"
)

var (
	// Order matters: the first matching pattern wins.
	shortcodePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)instagram\.com/p/([A-Za-z0-9_-]+)`),
		regexp.MustCompile(`(?i)instagram\.com/reel/([A-Za-z0-9_-]+)`),
		regexp.MustCompile(`(?i)instagram\.com/reels/([A-Za-z0-9_-]+)`),
		regexp.MustCompile(`(?i)instagram\.com/tv/([A-Za-z0-9_-]+)`),
	}

	// Matched against normalized URLs; the host rule mirrors isInstagramHost.
	validURL = regexp.MustCompile(`(?i)^https?://([a-z0-9-]+\.)*instagram\.com/(p|reel|reels|tv)/[A-Za-z0-9_-]+(/.*)?$`)

	reelURL = regexp.MustCompile(`(?i)instagram\.com/(reel|reels)/`)
	tvURL   = regexp.MustCompile(`(?i)instagram\.com/tv/`)
)

// Normalize canonicalizes an Instagram URL: lower-case scheme and host, no
// query, fragment or trailing slash, and /reels/ collapsed into /reel/.
func Normalize(rawURL string) (string, error) {
	raw := strings.TrimSpace(rawURL)
	if raw == "" {
		return "", fmt.Errorf("empty url")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("could not parse URL: %w", err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("url %q has no host", rawURL)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.RawQuery = ""
	u.Fragment = ""
	u.RawPath = ""
	u.User = nil

	path := strings.TrimRight(u.Path, "/")
	if rest, ok := strings.CutPrefix(path, "/reels/"); ok {
		path = "/reel/" + rest
	}
	u.Path = path

	return u.String(), nil
}

// ExtractShortcode returns the post identifier embedded in an Instagram URL,
// or "" when the URL is not a recognised content link.
func ExtractShortcode(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err == nil && u.Host != "" && !isInstagramHost(u.Host) {
		return ""
	}

	for _, p := range shortcodePatterns {
		if m := p.FindStringSubmatch(rawURL); len(m) > 1 {
			return m[1]
		}
	}
	return ""
}

// IsValidURL reports whether rawURL points at an Instagram post, reel or
// IGTV video. NewTarget applies it, so nothing failing it reaches the
// network.
func IsValidURL(rawURL string) bool {
	canonical, err := Normalize(rawURL)
	if err != nil {
		return false
	}
	return validURL.MatchString(canonical)
}

// DetectKind guesses the content kind from the URL alone.
func DetectKind(rawURL string) domain.Kind {
	switch {
	case reelURL.MatchString(rawURL):
		return domain.KindReel
	case tvURL.MatchString(rawURL):
		return domain.KindVideo
	default:
		return domain.KindPost
	}
}

// NewTarget normalizes rawURL and extracts its shortcode. ok is false when
// rawURL is not a usable Instagram content URL.
func NewTarget(rawURL string) (Target, bool) {
	canonical, err := Normalize(rawURL)
	if err != nil || !IsValidURL(canonical) {
		return Target{}, false
	}
	code := ExtractShortcode(canonical)
	if code == "" {
		return Target{}, false
	}
	return Target{
		Shortcode:    code,
		URL:          strings.TrimSpace(rawURL),
		CanonicalURL: canonical,
	}, true
}

func isInstagramHost(host string) bool {
	host = strings.ToLower(host)
	if h, _, found := strings.Cut(host, ":"); found {
		host = h
	}
	return host == "instagram.com" || strings.HasSuffix(host, ".instagram.com")
}

var urlInText = regexp.MustCompile(`https?://(?:www\.)?instagram\.com/[^\s<>"']+`)

// FindURLs returns every Instagram link found in free text, in order.
func FindURLs(text string) []string {
	return urlInText.FindAllString(text, -1)
}
