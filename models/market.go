package models

import (
	"time"

	"github.com/google/uuid"
)

// MarketItem is one tracked search phrase. Every competitor listing found
// for that phrase hangs off it; the title is the uniqueness key, so repeat
// scrapes of the same phrase reuse the same item.
type MarketItem struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Title           string    `json:"title" db:"title"`
	ExcludeKeywords []string  `json:"exclude_keywords" db:"exclude_keywords"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// CompetitorListing is one competitor's advertisement for a market item,
// keyed by (market_item_id, competitor, title). Re-scrapes overwrite price,
// store name, URL and timestamp in place; no history is kept.
type CompetitorListing struct {
	ID           uuid.UUID `json:"id" db:"id"`
	MarketItemID uuid.UUID `json:"market_item_id" db:"market_item_id"`
	Competitor   string    `json:"competitor" db:"competitor"`
	Title        string    `json:"title" db:"title"`
	Price        float64   `json:"price" db:"price"`
	StoreName    *string   `json:"store_name" db:"store_name"`
	URL          *string   `json:"url" db:"url"`
	Description  *string   `json:"description" db:"description"`
	ScrapedAt    time.Time `json:"scraped_at" db:"scraped_at"`
}
