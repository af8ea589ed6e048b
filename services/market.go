package services

import (
	"context"
	"fmt"
	"log"

	"pricewatch/models"
)

// MarketStore is the slice of storage the market service needs.
type MarketStore interface {
	GetOrCreateMarketItem(ctx context.Context, title string) (*models.MarketItem, error)
	UpsertCompetitorListing(ctx context.Context, l *models.CompetitorListing) error
}

// MarketService merges joined scrape results into the persisted market
// model. It runs after fan-in, strictly sequentially.
type MarketService struct {
	store MarketStore
}

func NewMarketService(store MarketStore) *MarketService {
	return &MarketService{store: store}
}

// SaveResults persists every parsed listing under one market item for the
// search string. The upsert is idempotent: saving the same scrape twice, or
// a re-scrape with drifted prices, overwrites rows instead of duplicating
// them. A single listing that fails to persist is logged and skipped.
func (s *MarketService) SaveResults(ctx context.Context, searchString string, results []models.CompetitorResult) error {
	item, err := s.store.GetOrCreateMarketItem(ctx, searchString)
	if err != nil {
		return fmt.Errorf("market item for %q: %w", searchString, err)
	}

	for _, result := range results {
		if result.Err != nil {
			continue
		}
		for _, parsed := range result.Listings {
			listing := &models.CompetitorListing{
				MarketItemID: item.ID,
				Competitor:   result.Competitor,
				Title:        parsed.Title,
				Price:        parsed.Price,
				StoreName:    parsed.StoreName,
				URL:          parsed.URL,
			}
			if err := s.store.UpsertCompetitorListing(ctx, listing); err != nil {
				log.Printf("Warning: upsert %s listing %q: %v", result.Competitor, parsed.Title, err)
			}
		}
	}

	return nil
}
