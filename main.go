package main

import (
	"context"
	"flag"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"pricewatch/config"
	"pricewatch/httputil"
	"pricewatch/logging"
	"pricewatch/models"
	"pricewatch/scheduler"
	"pricewatch/scraper"
	"pricewatch/server"
	"pricewatch/services"
	"pricewatch/storage"
	"pricewatch/workers"
)

var (
	scrapeFor   = flag.String("scrape", "", "Run a one-shot scrape for this search string and exit")
	competitors = flag.String("competitors", "", "Comma-separated competitor names for -scrape (default: all)")
	exclude     = flag.String("exclude", "", "Comma-separated exclude terms for -scrape")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logFile, err := logging.Setup(cfg.LogPath)
	if err != nil {
		log.Printf("Warning: could not set up file logging: %v", err)
	} else {
		defer logFile.Close()
	}

	log.Println("Starting pricewatch...")
	log.Printf("Loaded %d competitor adapters", len(cfg.Adapters))
	for name, adapter := range cfg.Adapters {
		log.Printf("  - %s (%s, %s strategy)", adapter.Name, name, adapter.Strategy)
	}

	ctx := context.Background()

	pgStore, err := storage.NewPostgresStore(ctx, cfg.Postgres.URL)
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer pgStore.Close()
	log.Printf("Connected to Postgres: %s", maskConnectionString(cfg.Postgres.URL))

	sqliteStore, err := storage.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open SQLite: %v", err)
	}
	defer sqliteStore.Close()
	log.Printf("SQLite database: %s", cfg.DBPath)

	marketService := services.NewMarketService(pgStore)
	orchestrator := scraper.NewOrchestrator(cfg, sqliteStore, marketService)

	// One-shot mode
	if *scrapeFor != "" {
		req := models.ScrapeRequest{
			SearchString: *scrapeFor,
			Competitors:  splitList(*competitors),
			ExcludeTerms: splitList(*exclude),
		}
		summaries, err := orchestrator.Scrape(ctx, req)
		if err != nil {
			log.Fatalf("Scrape failed: %v", err)
		}
		for name, s := range summaries {
			log.Printf("%s: low=%s median=%s high=%s", name,
				priceString(s.Low), priceString(s.Median), priceString(s.High))
		}
		log.Println("Scrape complete!")
		return
	}

	// Daemon mode
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	clients := httputil.NewClients(&cfg.Proxy)
	if cfg.Proxy.URL != "" {
		log.Printf("Proxy: %s", maskConnectionString(cfg.Proxy.URL))
	}

	sched := scheduler.New(cfg, orchestrator, sqliteStore, pgStore)

	enrichmentWorker := workers.NewEnrichmentWorker(pgStore, cfg, clients.Scraping)
	go enrichmentWorker.Run(ctx, 10, 5*time.Minute)

	healthcheckWorker := workers.NewHealthcheckWorker(pgStore, clients.Scraping)
	go healthcheckWorker.Run(ctx, 20, 30*time.Minute)

	sched.SetWorkers(enrichmentWorker, healthcheckWorker)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	apiServer := server.New(cfg, orchestrator, pgStore, sqliteStore)
	go apiServer.Start()

	log.Println("Daemon running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: API server shutdown: %v", err)
	}

	log.Println("Goodbye!")
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func priceString(p *float64) string {
	if p == nil {
		return "-"
	}
	return strconv.FormatFloat(*p, 'f', 2, 64)
}

// maskConnectionString hides credentials in connection strings for logging.
func maskConnectionString(connStr string) string {
	u, err := url.Parse(connStr)
	if err != nil {
		return connStr
	}
	return u.Redacted()
}
