package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"pricewatch/models"
)

// fakeMarketStore keys listings the way the database unique constraint
// does: one row per (competitor, title) under an item.
type fakeMarketStore struct {
	item        *models.MarketItem
	itemErr     error
	listings    map[string]*models.CompetitorListing
	upsertCalls int
}

func newFakeMarketStore() *fakeMarketStore {
	return &fakeMarketStore{
		item:     &models.MarketItem{ID: uuid.New(), Title: "iphone 13"},
		listings: make(map[string]*models.CompetitorListing),
	}
}

func (f *fakeMarketStore) GetOrCreateMarketItem(ctx context.Context, title string) (*models.MarketItem, error) {
	if f.itemErr != nil {
		return nil, f.itemErr
	}
	return f.item, nil
}

func (f *fakeMarketStore) UpsertCompetitorListing(ctx context.Context, l *models.CompetitorListing) error {
	f.upsertCalls++
	copied := *l
	f.listings[l.Competitor+"|"+l.Title] = &copied
	return nil
}

func TestSaveResults_PersistsListings(t *testing.T) {
	store := newFakeMarketStore()
	svc := NewMarketService(store)

	url := "https://example.com/itm/1"
	results := []models.CompetitorResult{
		{
			Competitor: "eBay",
			Listings: []models.ParsedListing{
				{Title: "iPhone 13 128GB", Price: 299.99, URL: &url},
				{Title: "iPhone 13 64GB", Price: 249.99},
			},
		},
	}

	if err := svc.SaveResults(context.Background(), "iphone 13", results); err != nil {
		t.Fatalf("SaveResults failed: %v", err)
	}
	if len(store.listings) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(store.listings))
	}

	saved := store.listings["eBay|iPhone 13 128GB"]
	if saved == nil {
		t.Fatalf("expected eBay listing to be saved")
	}
	if saved.MarketItemID != store.item.ID {
		t.Fatalf("listing not linked to market item")
	}
	if saved.URL == nil || *saved.URL != url {
		t.Fatalf("expected URL to be carried through")
	}
}

func TestSaveResults_UpsertOverwritesSameListing(t *testing.T) {
	store := newFakeMarketStore()
	svc := NewMarketService(store)

	first := []models.CompetitorResult{{
		Competitor: "CeX",
		Listings:   []models.ParsedListing{{Title: "iPhone 13", Price: 300}},
	}}
	second := []models.CompetitorResult{{
		Competitor: "CeX",
		Listings:   []models.ParsedListing{{Title: "iPhone 13", Price: 280}},
	}}

	if err := svc.SaveResults(context.Background(), "iphone 13", first); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if err := svc.SaveResults(context.Background(), "iphone 13", second); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	if len(store.listings) != 1 {
		t.Fatalf("expected 1 listing after re-scrape, got %d", len(store.listings))
	}
	if got := store.listings["CeX|iPhone 13"].Price; got != 280 {
		t.Fatalf("expected price 280 after re-scrape, got %v", got)
	}
}

func TestSaveResults_SkipsFailedCompetitors(t *testing.T) {
	store := newFakeMarketStore()
	svc := NewMarketService(store)

	results := []models.CompetitorResult{
		{Competitor: "eBay", Err: errors.New("timeout")},
		{
			Competitor: "CeX",
			Listings:   []models.ParsedListing{{Title: "iPhone 13", Price: 300}},
		},
	}

	if err := svc.SaveResults(context.Background(), "iphone 13", results); err != nil {
		t.Fatalf("SaveResults failed: %v", err)
	}
	if store.upsertCalls != 1 {
		t.Fatalf("expected 1 upsert, got %d", store.upsertCalls)
	}
}

func TestSaveResults_ItemErrorIsFatal(t *testing.T) {
	store := newFakeMarketStore()
	store.itemErr = errors.New("connection refused")
	svc := NewMarketService(store)

	err := svc.SaveResults(context.Background(), "iphone 13", nil)
	if err == nil {
		t.Fatalf("expected error when the market item cannot be resolved")
	}
}
