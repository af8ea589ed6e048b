package scraper

import (
	"log"
	"strings"

	"github.com/playwright-community/playwright-go"
	"pricewatch/config"
	"pricewatch/models"
)

// CardStrategy extracts listings card by card. It exists for sites where
// titles and prices cannot be correlated positionally because cards carry a
// variable number of price-like elements (strikethroughs, shipping, promos).
// Every field is derived from within one card's scope.
type CardStrategy struct {
	NavTimeoutMS      float64
	SelectorTimeoutMS float64
}

func (s *CardStrategy) Name() string { return "cards" }

// Titles that mark filler cards rather than listings.
var placeholderTitles = map[string]bool{
	"":             true,
	"shop on ebay": true,
	"new listing":  true,
}

func isPlaceholderTitle(title string) bool {
	return placeholderTitles[strings.ToLower(strings.TrimSpace(title))]
}

// firstParseablePrice returns the first text that parses as a number. The
// first price inside a card is the primary one; whatever follows is
// strikethrough or shipping noise.
func firstParseablePrice(texts []string) (float64, bool) {
	for _, text := range texts {
		if value, ok := ParsePrice(text); ok {
			return value, true
		}
	}
	return 0, false
}

const cardTitleJS = `(el, sel) => {
	const q = el.querySelector(sel);
	return q ? q.innerText.trim() : '';
}`

const cardPricesJS = `(el, sel) => Array.from(el.querySelectorAll(sel)).map(e => e.innerText.trim())`

const cardHrefJS = `el => {
	const a = el.querySelector('a');
	return a ? (a.getAttribute('href') || '') : '';
}`

func (s *CardStrategy) Extract(page playwright.Page, adapter *config.Adapter, searchURL string) ([]models.ParsedListing, error) {
	if _, err := page.Goto(searchURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(s.NavTimeoutMS),
	}); err != nil {
		log.Printf("Warning: %s navigation issue: %v", adapter.Name, err)
	}

	if err := page.Locator(adapter.CardSelector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(s.SelectorTimeoutMS),
	}); err != nil {
		log.Printf("Warning: no %s cards within timeout, proceeding anyway: %v", adapter.Name, err)
	}

	cards, err := page.QuerySelectorAll(adapter.CardSelector)
	if err != nil {
		return nil, err
	}

	var listings []models.ParsedListing
	for _, card := range cards {
		listing, ok := s.extractCard(card, adapter)
		if ok {
			listings = append(listings, listing)
		}
	}

	return listings, nil
}

// extractCard pulls one listing out of one card. Any failure skips just
// this card; sibling cards are unaffected.
func (s *CardStrategy) extractCard(card playwright.ElementHandle, adapter *config.Adapter) (models.ParsedListing, bool) {
	titleResult, err := card.Evaluate(cardTitleJS, adapter.TitleSelector)
	if err != nil {
		log.Printf("Error reading %s card title: %v", adapter.Name, err)
		return models.ParsedListing{}, false
	}
	title := evalString(titleResult)
	if isPlaceholderTitle(title) {
		return models.ParsedListing{}, false
	}

	pricesResult, err := card.Evaluate(cardPricesJS, adapter.PriceSelector)
	if err != nil {
		log.Printf("Error reading %s card prices: %v", adapter.Name, err)
		return models.ParsedListing{}, false
	}
	price, ok := firstParseablePrice(toStrings(pricesResult))
	if !ok {
		return models.ParsedListing{}, false
	}

	listing := models.ParsedListing{Title: title, Price: price}

	if hrefResult, err := card.Evaluate(cardHrefJS); err == nil {
		if href := evalString(hrefResult); href != "" {
			abs := absoluteURL(href, adapter.BaseURL)
			listing.URL = &abs
		}
	}

	return listing, true
}

func toStrings(result interface{}) []string {
	items, ok := result.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
