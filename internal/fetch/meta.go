// Package fetch - meta.go extracts brand signals from a page's HTML.
package fetch

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MaxColors caps the number of inline colors reported per page.
const MaxColors = 6

// SiteMeta holds brand signals read from a page's markup.
type SiteMeta struct {
	Title       string              `json:"title,omitempty"`
	SiteName    string              `json:"siteName,omitempty"`
	Description string              `json:"description,omitempty"`
	ThemeColor  string              `json:"themeColor,omitempty"`
	Colors      []string            `json:"colors,omitempty"`
	Keywords    []string            `json:"keywords,omitempty"`
	SocialLinks map[Platform]string `json:"socialLinks,omitempty"`
}

var hexColorPattern = regexp.MustCompile(`#(?:[0-9a-fA-F]{6}|[0-9a-fA-F]{3})\b`)

// neutral colors say nothing about a brand palette.
var neutralColors = map[string]bool{
	"#FFFFFF": true, "#FFF": true, "#000000": true, "#000": true,
	"#F5F5F5": true, "#FAFAFA": true, "#EEEEEE": true, "#EEE": true,
	"#333333": true, "#333": true, "#666666": true, "#666": true,
	"#CCCCCC": true, "#CCC": true, "#DDDDDD": true, "#DDD": true,
}

// ExtractSiteMeta parses html and returns its brand signals. baseURL resolves
// relative social links.
func ExtractSiteMeta(html, baseURL string) (*SiteMeta, error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, &Error{URL: baseURL, Message: "invalid base URL", Cause: err}
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	meta := &SiteMeta{
		Title:       strings.TrimSpace(doc.Find("title").First().Text()),
		SiteName:    metaContent(doc, `meta[property="og:site_name"]`),
		Description: firstNonBlank(metaContent(doc, `meta[name="description"]`), metaContent(doc, `meta[property="og:description"]`)),
		ThemeColor:  strings.ToUpper(metaContent(doc, `meta[name="theme-color"]`)),
		SocialLinks: map[Platform]string{},
	}
	if kw := metaContent(doc, `meta[name="keywords"]`); kw != "" {
		for _, k := range strings.Split(kw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				meta.Keywords = append(meta.Keywords, k)
			}
		}
	}

	meta.Colors = extractColors(doc, meta.ThemeColor)

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		link, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		abs := base.ResolveReference(link)
		platform := DetectPlatform(abs.String())
		if platform == PlatformUnknown || meta.SocialLinks[platform] != "" || !isProfileLink(platform, abs) {
			return
		}
		abs.Fragment = ""
		abs.RawQuery = ""
		meta.SocialLinks[platform] = strings.TrimSuffix(abs.String(), "/")
	})

	return meta, nil
}

// extractColors ranks hex colors from inline styles and <style> blocks by
// frequency. The theme color, when set, always comes first.
func extractColors(doc *goquery.Document, themeColor string) []string {
	counts := map[string]int{}
	var order []string
	add := func(text string) {
		for _, c := range hexColorPattern.FindAllString(text, -1) {
			c = strings.ToUpper(c)
			if neutralColors[c] {
				continue
			}
			if counts[c] == 0 {
				order = append(order, c)
			}
			counts[c]++
		}
	}
	doc.Find("style").Each(func(_ int, s *goquery.Selection) { add(s.Text()) })
	doc.Find("[style]").Each(func(_ int, s *goquery.Selection) {
		style, _ := s.Attr("style")
		add(style)
	})

	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })

	var colors []string
	if themeColor != "" && hexColorPattern.MatchString(themeColor) {
		colors = append(colors, themeColor)
	}
	for _, c := range order {
		if len(colors) >= MaxColors {
			break
		}
		if c != themeColor {
			colors = append(colors, c)
		}
	}
	return colors
}

func metaContent(doc *goquery.Document, selector string) string {
	v, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(v)
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
