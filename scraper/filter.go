package scraper

import (
	"strings"

	"pricewatch/models"
)

// FilterListings retains listings whose title contains every required term
// and none of the excluded terms, case-insensitively. An empty required set
// retains everything, so the same call site serves strict matching and
// no-op pass-through.
func FilterListings(listings []models.ParsedListing, required, excluded []string) []models.ParsedListing {
	filtered := make([]models.ParsedListing, 0, len(listings))
	for _, l := range listings {
		title := strings.ToLower(l.Title)
		if containsAll(title, required) && !containsAny(title, excluded) {
			filtered = append(filtered, l)
		}
	}
	return filtered
}

func containsAll(title string, terms []string) bool {
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		if !strings.Contains(title, strings.ToLower(term)) {
			return false
		}
	}
	return true
}

func containsAny(title string, terms []string) bool {
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		if strings.Contains(title, strings.ToLower(term)) {
			return true
		}
	}
	return false
}
