package scraper

import (
	"fmt"
	"log"
	"strings"

	"github.com/playwright-community/playwright-go"
	"pricewatch/config"
	"pricewatch/models"
)

// GenericStrategy works for sites that expose titles, prices and store
// names as positionally-aligned selector matches of equal cardinality. It
// bulk-reads each field list once and correlates by index.
type GenericStrategy struct {
	NavTimeoutMS      float64
	SelectorTimeoutMS float64
}

func (s *GenericStrategy) Name() string { return "generic" }

func (s *GenericStrategy) Extract(page playwright.Page, adapter *config.Adapter, searchURL string) ([]models.ParsedListing, error) {
	if _, err := page.Goto(searchURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(s.NavTimeoutMS),
	}); err != nil {
		log.Printf("Warning: %s navigation issue: %v", adapter.Name, err)
	}

	// A timeout here is not fatal: extract whatever the DOM already holds.
	if err := page.Locator(adapter.PriceSelector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(s.SelectorTimeoutMS),
	}); err != nil {
		log.Printf("Warning: prices not found for %s within timeout: %v", adapter.Name, err)
	}

	titles, err := evalStrings(page, adapter.TitleSelector)
	if err != nil {
		return nil, fmt.Errorf("read titles: %w", err)
	}
	priceTexts, err := evalStrings(page, adapter.PriceSelector)
	if err != nil {
		return nil, fmt.Errorf("read prices: %w", err)
	}

	// Element handles are still needed for the store and URL fallback chains.
	titleElems, err := page.QuerySelectorAll(adapter.TitleSelector)
	if err != nil {
		titleElems = nil
	}

	n := len(titles)
	if len(priceTexts) < n {
		n = len(priceTexts)
	}

	var listings []models.ParsedListing
	for i := 0; i < n; i++ {
		price, ok := ParsePrice(priceTexts[i])
		if !ok {
			continue
		}

		listing := models.ParsedListing{Title: titles[i], Price: price}

		if i < len(titleElems) {
			if store := resolveStoreName(titleElems[i], adapter.StoreSelector); store != "" {
				listing.StoreName = &store
			}
			if href := resolveHref(titleElems[i], adapter.URLSelector); href != "" {
				abs := absoluteURL(href, adapter.BaseURL)
				listing.URL = &abs
			}
		}

		listings = append(listings, listing)
	}

	return listings, nil
}

// A fieldResolver tries one rule for deriving a field from a title element.
// Resolvers are tried in order; the first non-empty result wins and a chain
// that yields nothing is an absent field, never an error.
type fieldResolver func(el playwright.ElementHandle, selector string) string

var storeResolvers = []fieldResolver{
	storeFromChild,
	storeFromCardAncestor,
	storeFromParentWalk,
}

var hrefResolvers = []fieldResolver{
	hrefFromElement,
	hrefFromNestedAnchor,
	hrefFromURLSelector,
}

func resolveStoreName(el playwright.ElementHandle, selector string) string {
	if selector == "" {
		return ""
	}
	for _, resolve := range storeResolvers {
		if text := resolve(el, selector); text != "" {
			return strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
		}
	}
	return ""
}

func resolveHref(el playwright.ElementHandle, urlSelector string) string {
	for _, resolve := range hrefResolvers {
		if href := resolve(el, urlSelector); href != "" {
			return href
		}
	}
	return ""
}

func storeFromChild(el playwright.ElementHandle, selector string) string {
	child, err := el.QuerySelector(selector)
	if err != nil || child == nil {
		return ""
	}
	text, err := child.InnerText()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

// Known card container shapes across the configured sites, tried nearest
// ancestor first.
const cardAncestorStoreJS = `(el, sel) => {
	const containers = [
		'.snize-overhidden', '.snize-view', '.product-item',
		'.product-card', '.card', '.s-item__wrapper', '.su-card-container',
		'article', '.product'
	];
	for (const c of containers) {
		const anc = el.closest(c);
		if (anc) {
			const q = anc.querySelector(sel);
			if (q && q.innerText.trim()) return q.innerText.trim();
		}
	}
	return '';
}`

func storeFromCardAncestor(el playwright.ElementHandle, selector string) string {
	result, err := el.Evaluate(cardAncestorStoreJS, selector)
	if err != nil {
		return ""
	}
	return evalString(result)
}

const parentWalkStoreJS = `(el, sel) => {
	let parent = el.parentElement;
	while (parent) {
		const q = parent.querySelector(sel);
		if (q && q.innerText.trim()) return q.innerText.trim();
		parent = parent.parentElement;
	}
	return '';
}`

func storeFromParentWalk(el playwright.ElementHandle, selector string) string {
	result, err := el.Evaluate(parentWalkStoreJS, selector)
	if err != nil {
		return ""
	}
	return evalString(result)
}

func hrefFromElement(el playwright.ElementHandle, _ string) string {
	href, err := el.GetAttribute("href")
	if err != nil {
		return ""
	}
	return href
}

func hrefFromNestedAnchor(el playwright.ElementHandle, _ string) string {
	anchor, err := el.QuerySelector("a")
	if err != nil || anchor == nil {
		return ""
	}
	href, err := anchor.GetAttribute("href")
	if err != nil {
		return ""
	}
	return href
}

const urlSelectorHrefJS = `(el, sel) => {
	const q = el.querySelector(sel);
	if (q) return q.getAttribute('href') || '';
	const c = el.closest(sel);
	return c ? (c.getAttribute('href') || '') : '';
}`

func hrefFromURLSelector(el playwright.ElementHandle, selector string) string {
	if selector == "" {
		return ""
	}
	result, err := el.Evaluate(urlSelectorHrefJS, selector)
	if err != nil {
		return ""
	}
	return evalString(result)
}
