package models

// RawListing is what an extraction strategy pulls off a results page before
// any normalization. It only lives for the duration of one scrape task.
type RawListing struct {
	Title     string
	PriceText string
	StoreText string
	Href      string
}

// ParsedListing is a RawListing whose price parsed successfully and whose
// detail URL has been made absolute. Listings without a usable price are
// dropped before this stage.
type ParsedListing struct {
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	StoreName *string `json:"store_name,omitempty"`
	URL       *string `json:"url,omitempty"`
}

// PriceSummary reduces one competitor's retained prices. All three fields
// are nil when the competitor produced no usable listings.
type PriceSummary struct {
	Low    *float64 `json:"low"`
	Median *float64 `json:"median"`
	High   *float64 `json:"high"`
}

// CompetitorResult is the output of one scrape task. Err is recorded for
// diagnostics only; a failed task still contributes an empty result.
type CompetitorResult struct {
	Competitor string          `json:"competitor"`
	Listings   []ParsedListing `json:"listings"`
	Summary    PriceSummary    `json:"summary"`
	Err        error           `json:"-"`
}

// ScrapeRequest is what callers hand the orchestrator.
type ScrapeRequest struct {
	SearchString string   `json:"search_string"`
	Competitors  []string `json:"competitors"`
	ExcludeTerms []string `json:"exclude_terms,omitempty"`
}
