package scraper

import (
	"sort"

	"pricewatch/models"
)

// Summarize reduces a set of prices to {low, median, high}. An empty input
// produces a summary with all three fields nil.
func Summarize(prices []float64) models.PriceSummary {
	if len(prices) == 0 {
		return models.PriceSummary{}
	}

	sorted := make([]float64, len(prices))
	copy(sorted, prices)
	sort.Float64s(sorted)

	low := sorted[0]
	high := sorted[len(sorted)-1]
	median := medianOf(sorted)

	return models.PriceSummary{Low: &low, Median: &median, High: &high}
}

// medianOf expects its input sorted.
func medianOf(sorted []float64) float64 {
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func listingPrices(listings []models.ParsedListing) []float64 {
	prices := make([]float64, 0, len(listings))
	for _, l := range listings {
		prices = append(prices, l.Price)
	}
	return prices
}
