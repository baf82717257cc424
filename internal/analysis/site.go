package analysis

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/brand-content-engine/internal/brandvoice"
	"github.com/jonathan/brand-content-engine/internal/fetch"
	"github.com/jonathan/brand-content-engine/internal/logger"
	"github.com/jonathan/brand-content-engine/internal/types"
	"github.com/jonathan/brand-content-engine/internal/visual"
)

// MaxSocialSampleLen caps the text kept from one social page.
const MaxSocialSampleLen = 600

// PageFetcher fetches a page and its main text.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.CachedResult, error)
}

// Browser renders script-heavy pages and captures screenshots.
type Browser interface {
	Render(ctx context.Context, url string) (string, error)
	Screenshot(ctx context.Context, url string) ([]byte, error)
}

// SiteAnalyzer is the production Runner: it reads a company website and its
// social profiles and produces raw and normalized brand data.
type SiteAnalyzer struct {
	fetcher    PageFetcher
	browser    Browser
	normalizer brandvoice.Normalizer
	visual     *visual.Analyzer
	log        *logger.Logger
}

// NewSiteAnalyzer creates a SiteAnalyzer. A nil browser disables SPA
// rendering and screenshots.
func NewSiteAnalyzer(fetcher PageFetcher, browser Browser, visualAnalyzer *visual.Analyzer, excerptLength int, log *logger.Logger) *SiteAnalyzer {
	if visualAnalyzer == nil {
		visualAnalyzer = visual.NewAnalyzer(nil, log)
	}
	return &SiteAnalyzer{
		fetcher:    fetcher,
		browser:    browser,
		normalizer: brandvoice.Normalizer{ExcerptLength: excerptLength},
		visual:     visualAnalyzer,
		log:        logger.OrNop(log).With("component", "site_analyzer"),
	}
}

// Run implements Runner.
func (a *SiteAnalyzer) Run(ctx context.Context, url string, progress ProgressFunc) (*types.AnalysisResult, error) {
	progress(types.JobProgress{Step: "fetching", Percentage: 10, Message: "Fetching website"})
	page, err := a.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("could not fetch website: %w", err)
	}
	html, text := page.HTML, page.Text

	if a.browser != nil && fetch.ShouldUseBrowser(text) {
		progress(types.JobProgress{Step: "rendering", Percentage: 20, Message: "Rendering page in browser"})
		if rendered, err := a.browser.Render(ctx, url); err != nil {
			a.log.Warn("browser rendering failed, using static HTML", "url", url, "error", err)
		} else if renderedText, err := fetch.SiteText(rendered); err == nil && len(renderedText) > len(text) {
			html, text = rendered, renderedText
		}
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("no readable content at %s", url)
	}

	progress(types.JobProgress{Step: "extracting", Percentage: 30, Message: "Extracting brand signals"})
	meta, err := fetch.ExtractSiteMeta(html, url)
	if err != nil {
		return nil, err
	}

	progress(types.JobProgress{Step: "social", Percentage: 45, Message: "Reading social profiles"})
	links := socialLinks(meta)
	samples, screenshot := a.collect(ctx, url, links)

	progress(types.JobProgress{Step: "normalizing", Percentage: 60, Message: "Building brand voice"})
	raw := &types.RawBrandVoice{
		CompanyName:    companyName(meta),
		Keywords:       meta.Keywords,
		Colors:         meta.Colors,
		WebsiteURL:     url,
		WebsiteContent: text,
		SocialSamples:  samples,
	}
	bv := a.normalizer.Normalize(raw)

	progress(types.JobProgress{Step: "visual", Percentage: 80, Message: "Analyzing visual style"})
	profile := a.visual.Analyze(ctx, bv, screenshot)
	raw.VisualStyleProfile = &profile
	bv.VisualStyleProfile = profile

	progress(types.JobProgress{Step: "scoring", Percentage: 95, Message: "Scoring completeness"})
	return &types.AnalysisResult{
		URL:          url,
		Raw:          raw,
		BrandVoice:   bv,
		VisualStyle:  profile,
		SocialLinks:  links,
		Completeness: brandvoice.ValidateCompleteness(raw),
	}, nil
}

// collect fetches social pages and the screenshot concurrently. Individual
// failures are logged and skipped.
func (a *SiteAnalyzer) collect(ctx context.Context, url string, links []string) ([]string, []byte) {
	samples := make([]string, len(links))
	var (
		screenshot []byte
		mu         sync.Mutex
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, link := range links {
		g.Go(func() error {
			sample, err := a.socialSample(gctx, link)
			if err != nil {
				a.log.Debug("social profile skipped", "url", link, "error", err)
				return nil
			}
			samples[i] = sample
			return nil
		})
	}
	if a.browser != nil {
		g.Go(func() error {
			shot, err := a.browser.Screenshot(gctx, url)
			if err != nil {
				a.log.Warn("screenshot failed, using text analysis", "url", url, "error", err)
				return nil
			}
			mu.Lock()
			screenshot = shot
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	out := make([]string, 0, len(samples))
	for _, s := range samples {
		if s != "" {
			out = append(out, s)
		}
	}
	return out, screenshot
}

func (a *SiteAnalyzer) socialSample(ctx context.Context, link string) (string, error) {
	page, err := a.fetcher.Fetch(ctx, link)
	if err != nil {
		return "", err
	}
	platform := fetch.DetectPlatform(link)
	text, err := fetch.ExtractMainText(page.HTML, fetch.PlatformContentSelectors(platform), fetch.PlatformNoiseSelectors(platform)...)
	if err != nil {
		return "", err
	}
	if meta, err := fetch.ExtractSiteMeta(page.HTML, link); err == nil && meta.Description != "" && len(text) < len(meta.Description) {
		text = meta.Description
	}
	text = strings.Join(strings.Fields(text), " ")
	if r := []rune(text); len(r) > MaxSocialSampleLen {
		text = string(r[:MaxSocialSampleLen])
	}
	return text, nil
}

func socialLinks(meta *fetch.SiteMeta) []string {
	links := []string{}
	for _, p := range fetch.SocialPlatforms {
		if link := meta.SocialLinks[p]; link != "" {
			links = append(links, link)
		}
	}
	return links
}

// companyName prefers og:site_name, then the first segment of the title.
func companyName(meta *fetch.SiteMeta) string {
	if meta.SiteName != "" {
		return meta.SiteName
	}
	title := meta.Title
	for _, sep := range []string{" | ", " - ", " – ", " — ", ": "} {
		if i := strings.Index(title, sep); i > 0 {
			title = title[:i]
		}
	}
	return strings.TrimSpace(title)
}
