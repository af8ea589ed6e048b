package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"pricewatch/models"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	store := &PostgresStore{pool: pool}
	if err := store.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return store, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS market_items (
		id UUID PRIMARY KEY,
		title TEXT NOT NULL UNIQUE,
		exclude_keywords TEXT[],
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS competitor_listings (
		id UUID PRIMARY KEY,
		market_item_id UUID NOT NULL REFERENCES market_items(id) ON DELETE CASCADE,
		competitor TEXT NOT NULL,
		title TEXT NOT NULL,
		price DOUBLE PRECISION NOT NULL,
		store_name TEXT,
		url TEXT,
		description TEXT,
		scraped_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		checked_at TIMESTAMPTZ,
		UNIQUE (market_item_id, competitor, title)
	);

	CREATE INDEX IF NOT EXISTS idx_listings_item ON competitor_listings(market_item_id, competitor);
	CREATE INDEX IF NOT EXISTS idx_listings_missing_desc
		ON competitor_listings(scraped_at) WHERE description IS NULL AND url IS NOT NULL;
	`
	_, err := s.pool.Exec(ctx, schema)
	return err
}

// =============================================================================
// Market items
// =============================================================================

// GetOrCreateMarketItem returns the item for a search phrase, creating it on
// the first scrape. The title is the uniqueness key; repeat calls reuse the
// same row.
func (s *PostgresStore) GetOrCreateMarketItem(ctx context.Context, title string) (*models.MarketItem, error) {
	query := `
		INSERT INTO market_items (id, title)
		VALUES ($1, $2)
		ON CONFLICT (title) DO UPDATE SET updated_at = NOW()
		RETURNING id, title, COALESCE(exclude_keywords, '{}'), created_at, updated_at`

	var item models.MarketItem
	err := s.pool.QueryRow(ctx, query, uuid.New(), title).Scan(
		&item.ID, &item.Title, &item.ExcludeKeywords, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *PostgresStore) GetMarketItemByTitle(ctx context.Context, title string) (*models.MarketItem, error) {
	query := `
		SELECT id, title, COALESCE(exclude_keywords, '{}'), created_at, updated_at
		FROM market_items WHERE title = $1`

	var item models.MarketItem
	err := s.pool.QueryRow(ctx, query, title).Scan(
		&item.ID, &item.Title, &item.ExcludeKeywords, &item.CreatedAt, &item.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *PostgresStore) ListMarketItems(ctx context.Context) ([]models.MarketItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, title, COALESCE(exclude_keywords, '{}'), created_at, updated_at
		FROM market_items ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.MarketItem
	for rows.Next() {
		var item models.MarketItem
		if err := rows.Scan(&item.ID, &item.Title, &item.ExcludeKeywords, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *PostgresStore) UpdateMarketItemKeywords(ctx context.Context, title string, keywords []string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE market_items SET exclude_keywords = $2, updated_at = NOW() WHERE title = $1`,
		title, keywords)
	return err
}

// =============================================================================
// Competitor listings
// =============================================================================

// UpsertCompetitorListing writes one sighting. The conflict key is
// (market_item_id, competitor, title): a re-scrape overwrites price, store
// and URL in place. The description is kept when the new sighting carries
// none, since the search page never has one.
func (s *PostgresStore) UpsertCompetitorListing(ctx context.Context, l *models.CompetitorListing) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}

	query := `
		INSERT INTO competitor_listings (
			id, market_item_id, competitor, title, price, store_name, url, description, scraped_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (market_item_id, competitor, title) DO UPDATE SET
			price = EXCLUDED.price,
			store_name = EXCLUDED.store_name,
			url = COALESCE(EXCLUDED.url, competitor_listings.url),
			description = COALESCE(EXCLUDED.description, competitor_listings.description),
			scraped_at = NOW()
		RETURNING id, scraped_at`

	return s.pool.QueryRow(ctx, query,
		l.ID, l.MarketItemID, l.Competitor, l.Title, l.Price, l.StoreName, l.URL, l.Description,
	).Scan(&l.ID, &l.ScrapedAt)
}

func (s *PostgresStore) ListListingsForItem(ctx context.Context, itemID uuid.UUID) ([]models.CompetitorListing, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, market_item_id, competitor, title, price, store_name, url, description, scraped_at
		FROM competitor_listings
		WHERE market_item_id = $1
		ORDER BY competitor, price`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanListings(rows)
}

// ListingsMissingDescription feeds the enrichment worker: listings with a
// detail URL but no description yet, oldest scrape first.
func (s *PostgresStore) ListingsMissingDescription(ctx context.Context, limit int) ([]models.CompetitorListing, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, market_item_id, competitor, title, price, store_name, url, description, scraped_at
		FROM competitor_listings
		WHERE description IS NULL AND url IS NOT NULL
		ORDER BY scraped_at
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanListings(rows)
}

func (s *PostgresStore) SetListingDescription(ctx context.Context, id uuid.UUID, description string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE competitor_listings SET description = $2 WHERE id = $1`, id, description)
	return err
}

// ListingsForHealthcheck returns listings with a URL, least recently
// checked first, so repeated batches cycle through the whole table.
func (s *PostgresStore) ListingsForHealthcheck(ctx context.Context, limit int) ([]models.CompetitorListing, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, market_item_id, competitor, title, price, store_name, url, description, scraped_at
		FROM competitor_listings
		WHERE url IS NOT NULL
		ORDER BY checked_at NULLS FIRST
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanListings(rows)
}

func (s *PostgresStore) TouchListingCheck(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE competitor_listings SET checked_at = NOW() WHERE id = $1`, id)
	return err
}

// DeleteListing removes a dead listing outright; the model keeps no
// tombstones.
func (s *PostgresStore) DeleteListing(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM competitor_listings WHERE id = $1`, id)
	return err
}

func scanListings(rows pgx.Rows) ([]models.CompetitorListing, error) {
	var listings []models.CompetitorListing
	for rows.Next() {
		var l models.CompetitorListing
		if err := rows.Scan(&l.ID, &l.MarketItemID, &l.Competitor, &l.Title, &l.Price,
			&l.StoreName, &l.URL, &l.Description, &l.ScrapedAt); err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}
