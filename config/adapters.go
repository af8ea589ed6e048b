package config

import (
	"errors"
	"fmt"
	"strings"
)

// Extraction strategy kinds. Generic correlates independent selector lists
// positionally; cards scopes every field to one listing card at a time.
const (
	StrategyGeneric = "generic"
	StrategyCards   = "cards"
)

// ErrUnknownCompetitor is returned when a scrape names a competitor that has
// no adapter. It is fatal to that one task only.
var ErrUnknownCompetitor = errors.New("unknown competitor")

// DetailSelectors locate fields on a listing's own detail page. The search
// flow never visits detail pages; the enrichment worker does.
type DetailSelectors struct {
	Description string `yaml:"description"`
	Title       string `yaml:"title"`
}

// Adapter describes how to search one competitor site and which selectors
// identify titles, prices, stores and detail links on its results page.
type Adapter struct {
	Name            string          `yaml:"name"`
	BaseURL         string          `yaml:"base_url"`
	SearchURL       string          `yaml:"search_url"`     // contains a {query} placeholder
	SpaceEncoding   string          `yaml:"space_encoding"` // "+" or "%20", site-specific
	Strategy        string          `yaml:"strategy"`
	PriceSelector   string          `yaml:"price_selector"`
	TitleSelector   string          `yaml:"title_selector"`
	StoreSelector   string          `yaml:"store_selector"`
	URLSelector     string          `yaml:"url_selector"`
	CardSelector    string          `yaml:"card_selector"`
	DetailSelectors DetailSelectors `yaml:"detail_selectors"`
}

// BuildSearchURL substitutes the query into the adapter's search template,
// encoding spaces the way this particular site expects.
func (a *Adapter) BuildSearchURL(query string) string {
	encoding := a.SpaceEncoding
	if encoding == "" {
		encoding = "%20"
	}
	encoded := strings.ReplaceAll(strings.TrimSpace(query), " ", encoding)
	return strings.ReplaceAll(a.SearchURL, "{query}", encoded)
}

func (a *Adapter) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("adapter with empty name")
	}
	if a.SearchURL == "" || !strings.Contains(a.SearchURL, "{query}") {
		return fmt.Errorf("adapter %s: search_url must contain {query}", a.Name)
	}
	if a.PriceSelector == "" || a.TitleSelector == "" {
		return fmt.Errorf("adapter %s: price_selector and title_selector are required", a.Name)
	}
	if a.Strategy == StrategyCards && a.CardSelector == "" {
		return fmt.Errorf("adapter %s: cards strategy requires card_selector", a.Name)
	}
	return nil
}

// FindAdapter looks a competitor up by name.
func (c *Config) FindAdapter(name string) (*Adapter, error) {
	a, ok := c.Adapters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCompetitor, name)
	}
	return a, nil
}

// CompetitorNames lists every configured competitor.
func (c *Config) CompetitorNames() []string {
	var names []string
	for name := range c.Adapters {
		names = append(names, name)
	}
	return names
}

func builtinAdapters() map[string]*Adapter {
	adapters := []*Adapter{
		{
			Name:    "CashConverters",
			BaseURL: "https://www.cashconverters.co.uk",
			SearchURL: "https://www.cashconverters.co.uk/search-results?Sort=default&page=1" +
				"&f%5Bcategory%5D%5B0%5D=all&f%5Blocations%5D%5B0%5D=all&query={query}",
			SpaceEncoding: "%20",
			Strategy:      StrategyGeneric,
			PriceSelector: ".product-item__price",
			TitleSelector: ".product-item__title__description",
			StoreSelector: ".product-item__title__location",
			URLSelector:   ".product-item__title, .product-item__image a",
			DetailSelectors: DetailSelectors{
				Description: ".product-details__description",
			},
		},
		{
			Name:          "CashGenerator",
			BaseURL:       "https://cashgenerator.co.uk",
			SearchURL:     "https://cashgenerator.co.uk/pages/search-results-page?q={query}",
			SpaceEncoding: "%20",
			Strategy:      StrategyGeneric,
			PriceSelector: ".snize-price.money",
			TitleSelector: ".snize-title",
			StoreSelector: ".snize-attribute",
			URLSelector:   ".snize-view-link",
			DetailSelectors: DetailSelectors{
				Description: ".condition-box",
			},
		},
		{
			Name:          "CeX",
			BaseURL:       "https://uk.webuy.com",
			SearchURL:     "https://uk.webuy.com/search?stext={query}",
			SpaceEncoding: "+",
			Strategy:      StrategyGeneric,
			PriceSelector: ".product-main-price",
			TitleSelector: ".card-title",
			URLSelector:   ".card-title a",
			DetailSelectors: DetailSelectors{
				Description: ".item-description",
				Title:       ".vendor-name",
			},
		},
		{
			// eBay mixes promotional and strikethrough prices inside one
			// card, so positional correlation breaks; scope by card instead.
			Name:          "eBay",
			BaseURL:       "https://ebay.co.uk",
			SearchURL:     "https://www.ebay.co.uk/sch/i.html?_nkw={query}&_sacat=0&_from=R40&_trksid=p4432023.m570.l1313",
			SpaceEncoding: "+",
			Strategy:      StrategyCards,
			CardSelector:  ".s-item__wrapper, .su-card-container, .s-item",
			TitleSelector: ".s-item__title, .s-card__title, .s-item__title-text",
			PriceSelector: ".s-item__price, .s-card__price, .notranslate",
			URLSelector:   ".su-card-container__content > a",
		},
	}

	registry := make(map[string]*Adapter, len(adapters))
	for _, a := range adapters {
		registry[a.Name] = a
	}
	return registry
}
