package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"pricewatch/config"
	"pricewatch/models"
	"pricewatch/scraper"
	"pricewatch/storage"
)

// Server exposes the daemon's HTTP API: trigger scrapes, browse market
// items and their listings, inspect recent runs.
type Server struct {
	cfg          *config.Config
	orchestrator *scraper.Orchestrator
	market       *storage.PostgresStore
	ops          *storage.SQLiteStore
	httpServer   *http.Server
}

func New(cfg *config.Config, orchestrator *scraper.Orchestrator, market *storage.PostgresStore, ops *storage.SQLiteStore) *Server {
	s := &Server{
		cfg:          cfg,
		orchestrator: orchestrator,
		market:       market,
		ops:          ops,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/scrape", s.handleScrape)
	mux.HandleFunc("GET /api/items", s.handleListItems)
	mux.HandleFunc("GET /api/items/{id}/listings", s.handleItemListings)
	mux.HandleFunc("GET /api/runs", s.handleRecentRuns)
	mux.HandleFunc("GET /api/health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Minute, // scrape requests hold the connection open
	}
	return s
}

func (s *Server) Start() {
	log.Printf("Starting API server on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("API server error: %v", err)
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

type scrapeResponse struct {
	SearchString string                         `json:"search_string"`
	Summaries    map[string]models.PriceSummary `json:"summaries"`
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	var req models.ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.SearchString == "" {
		http.Error(w, "search_string is required", http.StatusBadRequest)
		return
	}
	for _, name := range req.Competitors {
		if _, err := s.cfg.FindAdapter(name); errors.Is(err, config.ErrUnknownCompetitor) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if s.orchestrator.IsPaused() {
		http.Error(w, "daemon is paused", http.StatusServiceUnavailable)
		return
	}

	summaries, err := s.orchestrator.Scrape(r.Context(), req)
	if err != nil {
		log.Printf("Scrape request failed: %v", err)
		http.Error(w, "scrape failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, scrapeResponse{SearchString: req.SearchString, Summaries: summaries})
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.market.ListMarketItems(r.Context())
	if err != nil {
		log.Printf("Failed to list market items: %v", err)
		http.Error(w, "failed to list items", http.StatusInternalServerError)
		return
	}
	writeJSON(w, items)
}

func (s *Server) handleItemListings(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid item id", http.StatusBadRequest)
		return
	}

	listings, err := s.market.ListListingsForItem(r.Context(), id)
	if err != nil {
		log.Printf("Failed to list listings for %s: %v", id, err)
		http.Error(w, "failed to list listings", http.StatusInternalServerError)
		return
	}
	writeJSON(w, listings)
}

func (s *Server) handleRecentRuns(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 20
	}

	runs, err := s.ops.GetRecentRuns(limit)
	if err != nil {
		log.Printf("Failed to list runs: %v", err)
		http.Error(w, "failed to list runs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, runs)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status": "ok",
		"paused": s.orchestrator.IsPaused(),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
