package instagram

import (
	"testing"

	"github.com/orgball2608/insta-downloader/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "https://www.instagram.com/p/ABC123/", "https://www.instagram.com/p/ABC123"},
		{"tracking params", "https://www.instagram.com/p/ABC123/?utm_source=ig_web_copy_link&igsh=xyz", "https://www.instagram.com/p/ABC123"},
		{"fragment", "https://www.instagram.com/p/ABC123#comments", "https://www.instagram.com/p/ABC123"},
		{"upper case host", "HTTPS://WWW.INSTAGRAM.COM/p/ABC123", "https://www.instagram.com/p/ABC123"},
		{"reels alias", "https://instagram.com/reels/Cx_9-z/", "https://instagram.com/reel/Cx_9-z"},
		{"missing scheme", "instagram.com/tv/TV1", "https://instagram.com/tv/TV1"},
		{"surrounding spaces", "  https://www.instagram.com/reel/R1/  ", "https://www.instagram.com/reel/R1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_Rejects(t *testing.T) {
	for _, in := range []string{"", "   ", "https://"} {
		_, err := Normalize(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestExtractShortcode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.instagram.com/p/ABC123/", "ABC123"},
		{"https://www.instagram.com/reel/Cx_9-z/?igsh=1", "Cx_9-z"},
		{"https://www.instagram.com/reels/Cx_9-z/", "Cx_9-z"},
		{"https://www.instagram.com/tv/TV1", "TV1"},
		{"https://instagram.com/p/ABC123/extra/path", "ABC123"},
		{"https://www.instagram.com/stories/someone/123/", ""},
		{"https://www.instagram.com/someone/", ""},
		{"https://example.com/p/ABC123", ""},
		{"https://instagram.com.evil.example/p/ABC123", ""},
		{"not a url", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractShortcode(tt.in))
		})
	}
}

func TestShortcodeIsStableAcrossEquivalentURLs(t *testing.T) {
	variants := []string{
		"https://www.instagram.com/p/ABC123",
		"https://www.instagram.com/p/ABC123/",
		"https://www.instagram.com/p/ABC123/?utm_source=x",
		"https://www.instagram.com/p/ABC123?utm=x&igsh=abc",
		"HTTPS://WWW.INSTAGRAM.COM/p/ABC123/#frag",
	}
	for _, v := range variants {
		target, ok := NewTarget(v)
		require.True(t, ok, v)
		assert.Equal(t, "ABC123", target.Shortcode, v)
		assert.Equal(t, "https://www.instagram.com/p/ABC123", target.CanonicalURL, v)
	}
}

func TestIsValidURL(t *testing.T) {
	assert.True(t, IsValidURL("https://www.instagram.com/p/ABC123/"))
	assert.True(t, IsValidURL("http://instagram.com/reel/ABC123"))
	assert.True(t, IsValidURL("https://www.instagram.com/reels/ABC123"))
	assert.True(t, IsValidURL("https://www.instagram.com/tv/ABC123"))

	assert.False(t, IsValidURL("https://www.instagram.com/stories/user/1"))
	assert.False(t, IsValidURL("https://facebook.com/p/ABC123"))
	assert.False(t, IsValidURL("ftp://instagram.com/p/ABC123"))
	assert.False(t, IsValidURL("https://www.instagram.com/p/"))
}

func TestDetectKind(t *testing.T) {
	assert.Equal(t, domain.KindReel, DetectKind("https://www.instagram.com/reel/A"))
	assert.Equal(t, domain.KindReel, DetectKind("https://www.instagram.com/reels/A"))
	assert.Equal(t, domain.KindVideo, DetectKind("https://www.instagram.com/tv/A"))
	assert.Equal(t, domain.KindPost, DetectKind("https://www.instagram.com/p/A"))
}

func TestNewTarget_Invalid(t *testing.T) {
	for _, in := range []string{"", "https://example.com/p/ABC", "https://www.instagram.com/explore/"} {
		_, ok := NewTarget(in)
		assert.False(t, ok, in)
	}
}

func TestFindURLs(t *testing.T) {
	text := "look https://www.instagram.com/p/A1/ and https://instagram.com/reel/B2?x=1 ok"
	assert.Equal(t, []string{
		"https://www.instagram.com/p/A1/",
		"https://instagram.com/reel/B2?x=1",
	}, FindURLs(text))
}

func TestIsValidURL_AgreesWithNewTarget(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://www.instagram.com/p/ABC123/", true},
		{"m.instagram.com/p/MOBILE/", true},
		{"instagram.com/p/NOSCHEME", true},
		{"HTTPS://WWW.INSTAGRAM.COM/p/UPPER", true},
		{"https://www.instagram.com/reels/R1/?igsh=abc", true},
		{"https://instagram.com/p/ABC123/extra/path", true},
		{"https://www.instagram.com/stories/someone/1/", false},
		{"https://www.instagram.com/p/", false},
		{"https://xinstagram.com/p/ABC123", false},
		{"https://instagram.com.evil.example/p/ABC123", false},
		{"ftp://instagram.com/p/ABC123", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, ok := NewTarget(tt.in)
			assert.Equal(t, tt.want, IsValidURL(tt.in))
			assert.Equal(t, IsValidURL(tt.in), ok)
		})
	}
}
