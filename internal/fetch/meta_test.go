package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const brandPage = `
<html>
<head>
	<title>Shelf Labs | Amazon Growth Agency</title>
	<meta property="og:site_name" content="Shelf Labs">
	<meta name="description" content="We grow Amazon brands.">
	<meta name="keywords" content="Amazon FBA, PPC , ">
	<meta name="theme-color" content="#ff9900">
	<style>.btn { background: #232f3e; color: #fff } .link { color: #232F3E } .x { border-color: #12AB34 }</style>
</head>
<body>
	<div style="background-color: #12ab34">Hero</div>
	<a href="https://www.linkedin.com/company/shelf-labs/">LinkedIn</a>
	<a href="https://www.linkedin.com/shareArticle?url=x">Share</a>
	<a href="https://x.com/shelflabs?ref=footer">X</a>
	<a href="https://twitter.com/intent/tweet?text=hi">Tweet</a>
	<a href="https://instagram.com/shelflabs">IG</a>
	<a href="https://www.youtube.com/watch?v=abc">Video</a>
	<a href="/about">About</a>
</body>
</html>`

func TestExtractSiteMeta(t *testing.T) {
	meta, err := ExtractSiteMeta(brandPage, "https://shelflabs.example")
	require.NoError(t, err)

	assert.Equal(t, "Shelf Labs | Amazon Growth Agency", meta.Title)
	assert.Equal(t, "Shelf Labs", meta.SiteName)
	assert.Equal(t, "We grow Amazon brands.", meta.Description)
	assert.Equal(t, "#FF9900", meta.ThemeColor)
	assert.Equal(t, []string{"Amazon FBA", "PPC"}, meta.Keywords)
	assert.Equal(t, []string{"#FF9900", "#232F3E", "#12AB34"}, meta.Colors)

	assert.Equal(t, map[Platform]string{
		PlatformLinkedIn:  "https://www.linkedin.com/company/shelf-labs",
		PlatformTwitter:   "https://x.com/shelflabs",
		PlatformInstagram: "https://instagram.com/shelflabs",
	}, meta.SocialLinks)
}

func TestExtractSiteMeta_InvalidBase(t *testing.T) {
	_, err := ExtractSiteMeta("<html></html>", "not a url")
	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
}

func TestExtractSiteMeta_Empty(t *testing.T) {
	meta, err := ExtractSiteMeta("", "https://example.com")
	require.NoError(t, err)
	assert.Empty(t, meta.Colors)
	assert.Empty(t, meta.SocialLinks)
}
