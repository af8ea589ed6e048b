package scraper

import "testing"

func TestIsPlaceholderTitle(t *testing.T) {
	placeholders := []string{"", "  ", "Shop on eBay", "shop on ebay", "NEW LISTING", "New Listing"}
	for _, title := range placeholders {
		if !isPlaceholderTitle(title) {
			t.Fatalf("expected %q to be treated as a placeholder", title)
		}
	}

	real := []string{"iPhone 13 128GB", "New Listing iPhone"}
	for _, title := range real {
		if isPlaceholderTitle(title) {
			t.Fatalf("expected %q to be treated as a real title", title)
		}
	}
}

func TestFirstParseablePrice(t *testing.T) {
	price, ok := firstParseablePrice([]string{"Best offer", "£49.99", "£59.99"})
	if !ok {
		t.Fatalf("expected a parseable price")
	}
	if price != 49.99 {
		t.Fatalf("expected 49.99, got %v", price)
	}
}

func TestFirstParseablePrice_NoneParseable(t *testing.T) {
	if _, ok := firstParseablePrice([]string{"Best offer", "Auction"}); ok {
		t.Fatalf("expected no parseable price")
	}
	if _, ok := firstParseablePrice(nil); ok {
		t.Fatalf("expected no parseable price for empty input")
	}
}

func TestAbsoluteURL(t *testing.T) {
	got := absoluteURL("/search-results/product/123", "https://www.cashconverters.co.uk")
	want := "https://www.cashconverters.co.uk/search-results/product/123"
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestAbsoluteURL_AlreadyAbsolute(t *testing.T) {
	href := "https://www.ebay.co.uk/itm/1234"
	if got := absoluteURL(href, "https://www.ebay.co.uk"); got != href {
		t.Fatalf("expected absolute URL to pass through, got %s", got)
	}
}
