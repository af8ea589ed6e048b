package scraper

import (
	"fmt"
	"log"

	"github.com/playwright-community/playwright-go"
	"pricewatch/config"
)

const desktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Resource types aborted on every page. Pure bandwidth optimization, the
// document structure is unaffected.
var blockedResourceTypes = map[string]bool{
	"image":      true,
	"stylesheet": true,
	"font":       true,
	"media":      true,
}

// Session owns one browser process and a shared context for the duration of
// a multi-competitor scrape. Tasks get isolated pages from it; the context
// itself is created once so the browser starts only once per invocation.
type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
}

// OpenSession launches the browser and creates the shared context. A launch
// failure here is the only error that aborts a whole batch.
func OpenSession(cfg config.ScraperConfig) (*Session, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		Args: []string{
			"--no-sandbox",
			"--disable-dev-shm-usage",
			"--disable-gpu",
		},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	context, err := browser.NewContext()
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("create browser context: %w", err)
	}

	return &Session{pw: pw, browser: browser, context: context}, nil
}

// NewPage creates an isolated page with the standing request policy applied:
// heavy resource types are aborted and a realistic desktop User-Agent is set.
// BrowserContext.NewPage is safe to call from concurrent tasks; each page is
// owned exclusively by the task that asked for it.
func (s *Session) NewPage() (playwright.Page, error) {
	page, err := s.context.NewPage()
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}

	if err := page.Route("**/*", func(route playwright.Route) {
		if blockedResourceTypes[route.Request().ResourceType()] {
			route.Abort()
			return
		}
		route.Continue()
	}); err != nil {
		log.Printf("Warning: request interception unavailable: %v", err)
	}

	if err := page.SetExtraHTTPHeaders(map[string]string{
		"User-Agent": desktopUserAgent,
	}); err != nil {
		log.Printf("Warning: could not set user agent: %v", err)
	}

	return page, nil
}

// ClosePage is best-effort; a page that fails to close must not fail the
// scrape that used it.
func (s *Session) ClosePage(page playwright.Page) {
	if page == nil {
		return
	}
	if err := page.Close(); err != nil {
		log.Printf("Warning: page close failed: %v", err)
	}
}

// Close tears the context and browser down, logging failures instead of
// returning them.
func (s *Session) Close() {
	if s.context != nil {
		if err := s.context.Close(); err != nil {
			log.Printf("Warning: context close failed: %v", err)
		}
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			log.Printf("Warning: browser close failed: %v", err)
		}
	}
	if s.pw != nil {
		if err := s.pw.Stop(); err != nil {
			log.Printf("Warning: playwright stop failed: %v", err)
		}
	}
}
