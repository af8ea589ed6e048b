package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"pricewatch/config"
	"pricewatch/models"
	"pricewatch/scraper"
	"pricewatch/storage"
)

// Triggerable allows workers to be triggered manually
type Triggerable interface {
	Trigger()
}

type Scheduler struct {
	cfg          *config.Config
	orchestrator *scraper.Orchestrator
	ops          *storage.SQLiteStore
	market       *storage.PostgresStore
	cron         *cron.Cron
	ticker       *time.Ticker
	stopCh       chan struct{}

	enrichmentWorker  Triggerable
	healthcheckWorker Triggerable
}

func New(cfg *config.Config, orchestrator *scraper.Orchestrator, ops *storage.SQLiteStore, market *storage.PostgresStore) *Scheduler {
	return &Scheduler{
		cfg:          cfg,
		orchestrator: orchestrator,
		ops:          ops,
		market:       market,
		cron:         cron.New(),
		stopCh:       make(chan struct{}),
	}
}

// SetWorkers registers background workers for manual triggering
func (s *Scheduler) SetWorkers(enrichment, healthcheck Triggerable) {
	s.enrichmentWorker = enrichment
	s.healthcheckWorker = healthcheck
}

func (s *Scheduler) Start(ctx context.Context) error {
	go s.pollCommands(ctx)

	if s.cfg.Scheduler.Cron != "" {
		log.Printf("Starting scheduler with cron: %s", s.cfg.Scheduler.Cron)
		_, err := s.cron.AddFunc(s.cfg.Scheduler.Cron, func() {
			if err := s.RefreshAll(ctx); err != nil {
				log.Printf("Scheduled refresh error: %v", err)
			}
		})
		if err != nil {
			return fmt.Errorf("invalid cron expression: %w", err)
		}
		s.cron.Start()
	} else if s.cfg.Scheduler.Interval > 0 {
		log.Printf("Starting scheduler with interval: %s", s.cfg.Scheduler.Interval)
		s.ticker = time.NewTicker(s.cfg.Scheduler.Interval)
		go func() {
			for {
				select {
				case <-s.ticker.C:
					if err := s.RefreshAll(ctx); err != nil {
						log.Printf("Scheduled refresh error: %v", err)
					}
				case <-s.stopCh:
					return
				case <-ctx.Done():
					return
				}
			}
		}()
	} else {
		log.Println("No schedule configured, daemon will only respond to commands")
	}

	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.stopCh)
}

// RefreshAll re-scrapes every tracked market item, one item at a time.
// The items themselves fan out across competitors internally, so running
// them sequentially keeps the browser footprint bounded.
func (s *Scheduler) RefreshAll(ctx context.Context) error {
	if s.orchestrator.IsPaused() {
		log.Println("Skipping scheduled refresh: daemon is paused")
		return nil
	}

	items, err := s.market.ListMarketItems(ctx)
	if err != nil {
		return fmt.Errorf("list market items: %w", err)
	}
	if len(items) == 0 {
		log.Println("No market items to refresh")
		return nil
	}

	log.Printf("Refreshing %d market item(s)", len(items))
	for _, item := range items {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		_, err := s.orchestrator.Scrape(ctx, models.ScrapeRequest{
			SearchString: item.Title,
			ExcludeTerms: item.ExcludeKeywords,
		})
		if err != nil {
			log.Printf("Warning: refresh failed for %q: %v", item.Title, err)
		}
	}
	return nil
}

func (s *Scheduler) pollCommands(ctx context.Context) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cmds, err := s.ops.GetPendingCommands()
			if err != nil {
				log.Printf("Error getting commands: %v", err)
				continue
			}

			for _, cmd := range cmds {
				log.Printf("Processing command: %s", cmd.Command)
				if err := s.handleCommand(ctx, &cmd); err != nil {
					log.Printf("Command error: %v", err)
				}
				if err := s.ops.MarkCommandProcessed(cmd.ID); err != nil {
					log.Printf("Error marking command processed: %v", err)
				}
			}
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) handleCommand(ctx context.Context, cmd *models.Command) error {
	switch cmd.Command {
	case models.CmdScrapeNow:
		params, err := s.ops.ParseCommandParams(cmd)
		if err != nil {
			return fmt.Errorf("parse command params: %w", err)
		}
		if params.SearchString == "" {
			return fmt.Errorf("scrape_now requires a search_string")
		}
		if s.orchestrator.IsPaused() {
			return fmt.Errorf("daemon is paused")
		}
		_, err = s.orchestrator.Scrape(ctx, models.ScrapeRequest{
			SearchString: params.SearchString,
			Competitors:  params.Competitors,
			ExcludeTerms: params.ExcludeTerms,
		})
		return err
	case models.CmdRefreshAll:
		return s.RefreshAll(ctx)
	case models.CmdPause:
		s.orchestrator.SetPaused(true)
		log.Println("Daemon paused via command")
		return nil
	case models.CmdResume:
		s.orchestrator.SetPaused(false)
		log.Println("Daemon resumed via command")
		return nil
	default:
		return fmt.Errorf("unknown command: %s", cmd.Command)
	}
}
