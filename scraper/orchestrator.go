package scraper

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"pricewatch/config"
	"pricewatch/models"
	"pricewatch/storage"
)

// ResultSink receives the joined results of one scrape for persistence.
// It runs after fan-in, so it never races with the scrape tasks.
type ResultSink interface {
	SaveResults(ctx context.Context, searchString string, results []models.CompetitorResult) error
}

// Orchestrator fans a competitor set out into concurrent scrape tasks over
// one shared browser session and joins their results. One competitor's
// failure never cancels or corrupts the others.
type Orchestrator struct {
	cfg  *config.Config
	ops  *storage.SQLiteStore
	sink ResultSink

	mu     sync.Mutex
	paused bool
}

func NewOrchestrator(cfg *config.Config, ops *storage.SQLiteStore, sink ResultSink) *Orchestrator {
	return &Orchestrator{cfg: cfg, ops: ops, sink: sink}
}

// SetPaused suspends or resumes scheduled refreshes. Explicit scrape
// requests still run.
func (o *Orchestrator) SetPaused(paused bool) {
	o.mu.Lock()
	o.paused = paused
	o.mu.Unlock()
}

func (o *Orchestrator) IsPaused() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.paused
}

// Scrape runs one multi-competitor price discovery. The returned map always
// has one entry per requested competitor; competitors that failed carry a
// nil-valued summary. Only a browser launch failure aborts the batch.
func (o *Orchestrator) Scrape(ctx context.Context, req models.ScrapeRequest) (map[string]models.PriceSummary, error) {
	if req.SearchString == "" {
		return nil, fmt.Errorf("empty search string")
	}
	if len(req.Competitors) == 0 {
		req.Competitors = o.cfg.CompetitorNames()
	}

	run := o.startRun(req)

	session, err := OpenSession(o.cfg.Scraper)
	if err != nil {
		o.finishRun(run, models.RunStatusFailed)
		return nil, fmt.Errorf("launch session: %w", err)
	}
	defer session.Close()

	results := make([]models.CompetitorResult, len(req.Competitors))
	var wg sync.WaitGroup
	for i, name := range req.Competitors {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			results[i] = o.scrapeCompetitor(ctx, session, name, req)
		}(i, name)
	}
	wg.Wait()

	status := models.RunStatusCompleted
	for _, res := range results {
		run.ListingsKept += len(res.Listings)
		if res.Err != nil {
			run.ErrorsCount++
			status = models.RunStatusPartial
			o.log(run.ID, models.LogLevelError, fmt.Sprintf("scrape failed: %v", res.Err), res.Competitor)
		} else {
			o.log(run.ID, models.LogLevelInfo, fmt.Sprintf("%d listings kept", len(res.Listings)), res.Competitor)
		}
	}
	run.ListingsFound = run.ListingsKept

	if o.sink != nil {
		if err := o.sink.SaveResults(ctx, req.SearchString, results); err != nil {
			o.log(run.ID, models.LogLevelError, fmt.Sprintf("persist failed: %v", err), "")
			o.finishRun(run, models.RunStatusFailed)
			return nil, fmt.Errorf("save results: %w", err)
		}
	}

	o.finishRun(run, status)
	return collectSummaries(req.Competitors, results), nil
}

// scrapeCompetitor is one fan-out task. It owns its page exclusively and
// releases it on every exit path. All failures land in the result's Err
// field; nothing propagates to sibling tasks.
func (o *Orchestrator) scrapeCompetitor(ctx context.Context, session *Session, name string, req models.ScrapeRequest) models.CompetitorResult {
	result := models.CompetitorResult{Competitor: name}

	adapter, err := o.cfg.FindAdapter(name)
	if err != nil {
		result.Err = err
		return result
	}

	page, err := session.NewPage()
	if err != nil {
		result.Err = fmt.Errorf("page for %s: %w", name, err)
		return result
	}
	defer session.ClosePage(page)

	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	strategy := StrategyFor(adapter, o.cfg.Scraper)
	searchURL := adapter.BuildSearchURL(req.SearchString)
	log.Printf("[%s] %s strategy: %s", name, strategy.Name(), searchURL)

	listings, err := strategy.Extract(page, adapter, searchURL)
	if err != nil {
		result.Err = fmt.Errorf("extract from %s: %w", name, err)
		return result
	}

	required := []string{req.SearchString}
	result.Listings = FilterListings(listings, required, req.ExcludeTerms)
	result.Summary = Summarize(listingPrices(result.Listings))
	return result
}

// collectSummaries guarantees one entry per requested competitor even when
// the task for it failed outright.
func collectSummaries(requested []string, results []models.CompetitorResult) map[string]models.PriceSummary {
	summaries := make(map[string]models.PriceSummary, len(requested))
	for _, name := range requested {
		summaries[name] = models.PriceSummary{}
	}
	for _, res := range results {
		summaries[res.Competitor] = res.Summary
	}
	return summaries
}

func (o *Orchestrator) startRun(req models.ScrapeRequest) *models.ScrapeRun {
	run := &models.ScrapeRun{
		SearchString: req.SearchString,
		StartedAt:    time.Now(),
		Status:       models.RunStatusRunning,
		Competitors:  len(req.Competitors),
	}
	if o.ops != nil {
		id, err := o.ops.CreateRun(run)
		if err != nil {
			log.Printf("Warning: could not record run: %v", err)
		} else {
			run.ID = id
		}
	}
	o.log(run.ID, models.LogLevelInfo, fmt.Sprintf("scraping %q across %d competitors", req.SearchString, len(req.Competitors)), "")
	return run
}

func (o *Orchestrator) finishRun(run *models.ScrapeRun, status models.RunStatus) {
	now := time.Now()
	run.FinishedAt = &now
	run.Status = status
	if o.ops != nil {
		if err := o.ops.UpdateRun(run); err != nil {
			log.Printf("Warning: could not update run: %v", err)
		}
	}
}

func (o *Orchestrator) log(runID int64, level models.LogLevel, message, competitor string) {
	if competitor != "" {
		log.Printf("[%s] %s: %s", level, competitor, message)
	} else {
		log.Printf("[%s] %s", level, message)
	}
	if o.ops != nil && runID != 0 {
		o.ops.Log(&runID, level, message, competitor)
	}
}
