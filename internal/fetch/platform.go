// Package fetch - platform.go detects social profile links.
package fetch

import (
	"net/url"
	"strings"
)

// Platform is a social network a brand may link to.
type Platform string

// Supported social platforms.
const (
	PlatformLinkedIn  Platform = "linkedin"
	PlatformTwitter   Platform = "twitter"
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformYouTube   Platform = "youtube"
	PlatformUnknown   Platform = "unknown"
)

// SocialPlatforms lists the platforms in discovery order.
var SocialPlatforms = []Platform{PlatformLinkedIn, PlatformTwitter, PlatformFacebook, PlatformInstagram, PlatformYouTube}

var platformHosts = map[Platform][]string{
	PlatformLinkedIn:  {"linkedin.com"},
	PlatformTwitter:   {"twitter.com", "x.com"},
	PlatformFacebook:  {"facebook.com", "fb.com"},
	PlatformInstagram: {"instagram.com"},
	PlatformYouTube:   {"youtube.com", "youtu.be"},
}

// DetectPlatform identifies the social platform from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	for _, p := range SocialPlatforms {
		for _, h := range platformHosts[p] {
			if host == h || strings.HasSuffix(host, "."+h) {
				return p
			}
		}
	}
	return PlatformUnknown
}

// isProfileLink filters out share intents and single posts so only profile
// or company pages are kept.
func isProfileLink(p Platform, u *url.URL) bool {
	path := strings.ToLower(strings.Trim(u.Path, "/"))
	if path == "" {
		return false
	}
	for _, bad := range []string{"share", "sharer", "intent", "sharing", "watch", "status", "p/", "posts/", "feed"} {
		if strings.HasPrefix(path, bad) || strings.Contains(path, "/"+bad) {
			return false
		}
	}
	if p == PlatformLinkedIn {
		return strings.HasPrefix(path, "company/") || strings.HasPrefix(path, "in/") || strings.HasPrefix(path, "school/")
	}
	return true
}

// PlatformContentSelectors returns selectors for the readable bio or
// description on a public social page.
func PlatformContentSelectors(platform Platform) []string {
	switch platform {
	case PlatformLinkedIn:
		return []string{".core-section-container__content", ".top-card-layout__second-subline", "main"}
	case PlatformYouTube:
		return []string{"#description", "#about-container", "main"}
	default:
		return []string{"main", "article", "[role='main']"}
	}
}

// PlatformNoiseSelectors returns noise exclusion selectors for social pages.
func PlatformNoiseSelectors(_ Platform) []string {
	return []string{
		".cookie-banner",
		".cookie-consent",
		".gdpr-notice",
		"[role='dialog']",
		".sign-in-modal",
		".join-form",
		"form",
	}
}
