// Package fetch - browser.go provides headless browser rendering and
// screenshots for SPA sites.
package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/jonathan/brand-content-engine/internal/logger"
)

// MinContentLength is the minimum extracted text length to consider HTTP fetch successful.
// If content is shorter, we should fall back to browser rendering.
const MinContentLength = 500

// DefaultBrowserTimeout bounds one browser session.
const DefaultBrowserTimeout = 45 * time.Second

// ScreenshotQuality is the JPEG quality used for full-page screenshots.
const ScreenshotQuality = 80

// ShouldUseBrowser returns true if the extracted text is too short,
// indicating the page is likely a JavaScript-rendered SPA.
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}

// Browser drives a headless Chrome. Requires Chrome/Chromium on the host.
type Browser struct {
	Timeout time.Duration
	log     *logger.Logger
}

// NewBrowser creates a Browser with DefaultBrowserTimeout.
func NewBrowser(log *logger.Logger) *Browser {
	return &Browser{Timeout: DefaultBrowserTimeout, log: logger.OrNop(log).With("component", "browser")}
}

func (b *Browser) session(ctx context.Context) (context.Context, context.CancelFunc) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.WindowSize(1440, 900),
		)...,
	)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	timeout := b.Timeout
	if timeout <= 0 {
		timeout = DefaultBrowserTimeout
	}
	timeoutCtx, cancelTimeout := context.WithTimeout(browserCtx, timeout)
	return timeoutCtx, func() {
		cancelTimeout()
		cancelBrowser()
		cancelAlloc()
	}
}

// loadPage navigates, waits for scripts to render and dismisses common
// cookie banners.
func loadPage(url string) chromedp.Tasks {
	return chromedp.Tasks{
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(3 * time.Second),
		chromedp.ActionFunc(func(ctx context.Context) error {
			// Click common "Accept" buttons - don't fail if not found
			_ = chromedp.Click(`button[id*="accept"], button[class*="accept"]`, chromedp.NodeVisible, chromedp.AtLeast(0)).Do(ctx)
			return nil
		}),
		chromedp.Sleep(1 * time.Second),
	}
}

// Render returns the page HTML after JavaScript has run.
func (b *Browser) Render(ctx context.Context, url string) (string, error) {
	b.log.Debug("rendering page in headless browser", "url", url)
	sessionCtx, cancel := b.session(ctx)
	defer cancel()

	var html string
	if err := chromedp.Run(sessionCtx, loadPage(url), chromedp.OuterHTML("html", &html)); err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}
	b.log.Debug("rendered page", "url", url, "bytes", len(html))
	return html, nil
}

// Screenshot captures a full-page JPEG of url.
func (b *Browser) Screenshot(ctx context.Context, url string) ([]byte, error) {
	b.log.Debug("capturing screenshot", "url", url)
	sessionCtx, cancel := b.session(ctx)
	defer cancel()

	var buf []byte
	if err := chromedp.Run(sessionCtx, loadPage(url), chromedp.FullScreenshot(&buf, ScreenshotQuality)); err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return buf, nil
}
