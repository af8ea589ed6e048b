package models

import "time"

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusPartial   RunStatus = "partial"
	RunStatusFailed    RunStatus = "failed"
)

type ScrapeRun struct {
	ID            int64      `json:"id" db:"id"`
	SearchString  string     `json:"search_string" db:"search_string"`
	StartedAt     time.Time  `json:"started_at" db:"started_at"`
	FinishedAt    *time.Time `json:"finished_at" db:"finished_at"`
	Status        RunStatus  `json:"status" db:"status"`
	Competitors   int        `json:"competitors" db:"competitors"`
	ListingsFound int        `json:"listings_found" db:"listings_found"`
	ListingsKept  int        `json:"listings_kept" db:"listings_kept"`
	ErrorsCount   int        `json:"errors_count" db:"errors_count"`
}
