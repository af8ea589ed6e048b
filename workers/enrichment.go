package workers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"pricewatch/config"
	"pricewatch/storage"
)

const maxDescriptionLen = 2000

// EnrichmentWorker backfills listing descriptions by fetching each listing's
// detail page and extracting text with the competitor's detail selectors.
type EnrichmentWorker struct {
	store     *storage.PostgresStore
	cfg       *config.Config
	client    *http.Client
	triggerCh chan struct{}
}

func NewEnrichmentWorker(store *storage.PostgresStore, cfg *config.Config, client *http.Client) *EnrichmentWorker {
	return &EnrichmentWorker{
		store:     store,
		cfg:       cfg,
		client:    client,
		triggerCh: make(chan struct{}, 1),
	}
}

// Trigger requests an immediate pass. Non-blocking.
func (w *EnrichmentWorker) Trigger() {
	select {
	case w.triggerCh <- struct{}{}:
	default:
	}
}

func (w *EnrichmentWorker) Run(ctx context.Context, batchSize int, interval time.Duration) {
	log.Printf("Enrichment worker started (batch=%d, interval=%s)", batchSize, interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Enrichment worker stopped")
			return
		case <-ticker.C:
			w.processBatch(ctx, batchSize)
		case <-w.triggerCh:
			w.processBatch(ctx, batchSize)
		}
	}
}

func (w *EnrichmentWorker) processBatch(ctx context.Context, batchSize int) {
	listings, err := w.store.ListingsMissingDescription(ctx, batchSize)
	if err != nil {
		log.Printf("Warning: enrichment batch query failed: %v", err)
		return
	}
	if len(listings) == 0 {
		return
	}

	enriched := 0
	for _, l := range listings {
		if ctx.Err() != nil {
			return
		}
		if l.URL == nil || *l.URL == "" {
			// Nothing to fetch, mark it done so it stops being selected.
			if err := w.store.SetListingDescription(ctx, l.ID, ""); err != nil {
				log.Printf("Warning: failed to mark listing %s: %v", l.ID, err)
			}
			continue
		}

		adapter, err := w.cfg.FindAdapter(l.Competitor)
		if err != nil || adapter.DetailSelectors.Description == "" {
			if err := w.store.SetListingDescription(ctx, l.ID, ""); err != nil {
				log.Printf("Warning: failed to mark listing %s: %v", l.ID, err)
			}
			continue
		}

		desc, err := w.fetchDescription(ctx, *l.URL, adapter.DetailSelectors.Description)
		if err != nil {
			log.Printf("Warning: enrichment fetch failed for %s: %v", *l.URL, err)
			continue
		}

		if err := w.store.SetListingDescription(ctx, l.ID, desc); err != nil {
			log.Printf("Warning: failed to save description for listing %s: %v", l.ID, err)
			continue
		}
		if desc != "" {
			enriched++
		}
	}

	if enriched > 0 {
		log.Printf("Enriched %d listing(s) with descriptions", enriched)
	}
}

func (w *EnrichmentWorker) fetchDescription(ctx context.Context, pageURL, selector string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64)")

	resp, err := w.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	return normalizeText(doc.Find(selector).First().Text()), nil
}

func normalizeText(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > maxDescriptionLen {
		s = s[:maxDescriptionLen]
	}
	return s
}
