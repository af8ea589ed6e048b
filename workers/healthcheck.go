package workers

import (
	"context"
	"log"
	"net/http"
	"time"

	"pricewatch/storage"
)

// HealthcheckWorker probes stored listing URLs and prunes the ones that no
// longer resolve. Listings cycle through oldest-checked first.
type HealthcheckWorker struct {
	store     *storage.PostgresStore
	client    *http.Client
	triggerCh chan struct{}
}

func NewHealthcheckWorker(store *storage.PostgresStore, client *http.Client) *HealthcheckWorker {
	return &HealthcheckWorker{
		store:     store,
		client:    client,
		triggerCh: make(chan struct{}, 1),
	}
}

func (w *HealthcheckWorker) Trigger() {
	select {
	case w.triggerCh <- struct{}{}:
	default:
	}
}

func (w *HealthcheckWorker) Run(ctx context.Context, batchSize int, interval time.Duration) {
	log.Printf("Healthcheck worker started (batch=%d, interval=%s)", batchSize, interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Healthcheck worker stopped")
			return
		case <-ticker.C:
			w.processBatch(ctx, batchSize)
		case <-w.triggerCh:
			w.processBatch(ctx, batchSize)
		}
	}
}

func (w *HealthcheckWorker) processBatch(ctx context.Context, batchSize int) {
	listings, err := w.store.ListingsForHealthcheck(ctx, batchSize)
	if err != nil {
		log.Printf("Warning: healthcheck batch query failed: %v", err)
		return
	}

	removed := 0
	for _, l := range listings {
		if ctx.Err() != nil {
			return
		}
		if l.URL == nil || *l.URL == "" {
			if err := w.store.TouchListingCheck(ctx, l.ID); err != nil {
				log.Printf("Warning: failed to touch listing %s: %v", l.ID, err)
			}
			continue
		}

		switch status := w.probe(ctx, *l.URL); status {
		case http.StatusNotFound, http.StatusGone, http.StatusMovedPermanently, http.StatusFound:
			// Competitor sites redirect dead listings back to search.
			if err := w.store.DeleteListing(ctx, l.ID); err != nil {
				log.Printf("Warning: failed to delete listing %s: %v", l.ID, err)
				continue
			}
			removed++
		default:
			if err := w.store.TouchListingCheck(ctx, l.ID); err != nil {
				log.Printf("Warning: failed to touch listing %s: %v", l.ID, err)
			}
		}
	}

	if removed > 0 {
		log.Printf("Healthcheck removed %d dead listing(s)", removed)
	}
}

// probe returns the status code for a HEAD request, or 0 on transport error.
// Transport errors are not treated as proof the listing is gone.
func (w *HealthcheckWorker) probe(ctx context.Context, pageURL string) int {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, pageURL, nil)
	if err != nil {
		return 0
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64)")

	resp, err := w.client.Do(req)
	if err != nil {
		return 0
	}
	resp.Body.Close()
	return resp.StatusCode
}
