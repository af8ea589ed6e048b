package scraper

import (
	"strings"

	"github.com/playwright-community/playwright-go"
	"pricewatch/config"
	"pricewatch/models"
)

// Strategy extracts listings from one competitor's search results page.
// Implementations must contain their own failures: a timeout or a broken
// element degrades the result, it never panics out of the task.
type Strategy interface {
	Name() string
	Extract(page playwright.Page, adapter *config.Adapter, searchURL string) ([]models.ParsedListing, error)
}

// StrategyFor selects the extraction strategy declared by the adapter.
func StrategyFor(adapter *config.Adapter, cfg config.ScraperConfig) Strategy {
	switch adapter.Strategy {
	case config.StrategyCards:
		return &CardStrategy{
			NavTimeoutMS:      float64(cfg.NavTimeoutMS),
			SelectorTimeoutMS: float64(cfg.SelectorTimeoutMS),
		}
	default:
		return &GenericStrategy{
			NavTimeoutMS:      float64(cfg.NavTimeoutMS),
			SelectorTimeoutMS: float64(cfg.SelectorTimeoutMS),
		}
	}
}

const bulkTextJS = `sel => Array.from(document.querySelectorAll(sel)).map(e => e.innerText.trim())`

// evalStrings bulk-reads the trimmed text of every element matching the
// selector in a single round-trip. Per-element queries are the dominant
// latency cost at scale, so both strategies read this way.
func evalStrings(page playwright.Page, selector string) ([]string, error) {
	result, err := page.Evaluate(bulkTextJS, selector)
	if err != nil {
		return nil, err
	}
	items, ok := result.([]interface{})
	if !ok {
		return nil, nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// absoluteURL rewrites a relative href against the adapter's base URL.
func absoluteURL(href, baseURL string) string {
	if href == "" || strings.HasPrefix(href, "http") || baseURL == "" {
		return href
	}
	base := strings.TrimRight(baseURL, "/")
	if strings.HasPrefix(href, "/") {
		return base + href
	}
	return base + "/" + href
}

func evalString(result interface{}) string {
	if s, ok := result.(string); ok {
		return s
	}
	return ""
}
