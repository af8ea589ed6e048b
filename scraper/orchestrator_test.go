package scraper

import (
	"errors"
	"testing"

	"pricewatch/models"
)

func TestCollectSummaries_EntryPerRequestedCompetitor(t *testing.T) {
	low, median, high := 10.0, 20.0, 30.0
	requested := []string{"cashconverters", "ebay", "cex"}
	results := []models.CompetitorResult{
		{
			Competitor: "cashconverters",
			Summary:    models.PriceSummary{Low: &low, Median: &median, High: &high},
		},
		{
			Competitor: "ebay",
			Err:        errors.New("navigation timeout"),
		},
		{Competitor: "cex"},
	}

	summaries := collectSummaries(requested, results)
	if len(summaries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(summaries))
	}

	cc := summaries["cashconverters"]
	if cc.Low == nil || *cc.Low != 10 {
		t.Fatalf("expected cashconverters low 10, got %v", cc.Low)
	}

	eb, ok := summaries["ebay"]
	if !ok {
		t.Fatalf("expected an entry for the failed competitor")
	}
	if eb.Low != nil || eb.Median != nil || eb.High != nil {
		t.Fatalf("expected empty summary for failed competitor, got %+v", eb)
	}
}

func TestCollectSummaries_EmptyRequest(t *testing.T) {
	summaries := collectSummaries(nil, nil)
	if len(summaries) != 0 {
		t.Fatalf("expected no entries, got %d", len(summaries))
	}
}
