package fetch

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url      string
		expected Platform
	}{
		{"https://www.linkedin.com/company/acme", PlatformLinkedIn},
		{"https://uk.linkedin.com/in/jane", PlatformLinkedIn},
		{"https://twitter.com/acme", PlatformTwitter},
		{"https://x.com/acme", PlatformTwitter},
		{"https://m.facebook.com/acme", PlatformFacebook},
		{"https://instagram.com/acme", PlatformInstagram},
		{"https://youtu.be/abc", PlatformYouTube},
		{"https://notlinkedin.com/acme", PlatformUnknown},
		{"https://example.com", PlatformUnknown},
		{"::bad", PlatformUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectPlatform(tt.url))
		})
	}
}

func TestIsProfileLink(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"https://www.linkedin.com/company/acme", true},
		{"https://www.linkedin.com/feed/", false},
		{"https://www.facebook.com/sharer/sharer.php?u=x", false},
		{"https://twitter.com/acme/status/123", false},
		{"https://www.instagram.com/p/abc/", false},
		{"https://www.youtube.com/@acme", true},
		{"https://www.facebook.com/", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			u, err := url.Parse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, isProfileLink(DetectPlatform(tt.raw), u))
		})
	}
}

func TestPlatformSelectors(t *testing.T) {
	assert.Contains(t, PlatformContentSelectors(PlatformLinkedIn), "main")
	assert.Contains(t, PlatformContentSelectors(PlatformUnknown), "article")
	assert.Contains(t, PlatformNoiseSelectors(PlatformTwitter), "form")
}
