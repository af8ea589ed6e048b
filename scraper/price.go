package scraper

import (
	"regexp"
	"strconv"
	"strings"
)

var priceToken = regexp.MustCompile(`\d+\.?\d*`)

var priceCleaner = strings.NewReplacer("£", "", ",", "", "(", "", ")", "")

// ParsePrice extracts a numeric value from scraped price text like
// "£188.95", "£188.95 to £219.95", "(£12.00)" or "£4.50/Unit". Ranges take
// the left-hand side as a conservative low estimate. It never fails loudly;
// the second return value reports whether a usable number existed.
//
// Compound phrasing like "3 for £10.00" parses as 3: the first numeric
// token wins. Callers that care must filter such listings themselves.
func ParsePrice(text string) (float64, bool) {
	if idx := strings.Index(text, " to "); idx >= 0 {
		text = text[:idx]
	}

	cleaned := strings.TrimSpace(priceCleaner.Replace(text))

	token := priceToken.FindString(cleaned)
	if token == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
