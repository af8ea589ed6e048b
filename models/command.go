package models

import (
	"encoding/json"
	"time"
)

type CommandType string

const (
	CmdScrapeNow  CommandType = "scrape_now"
	CmdRefreshAll CommandType = "refresh_all"
	CmdPause      CommandType = "pause"
	CmdResume     CommandType = "resume"
)

// Command is how the management application asks the daemon to do things:
// it inserts a row, the scheduler polls it, the orchestrator executes it.
type Command struct {
	ID          int64           `json:"id" db:"id"`
	Command     CommandType     `json:"command" db:"command"`
	Params      json.RawMessage `json:"params" db:"params"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	ProcessedAt *time.Time      `json:"processed_at" db:"processed_at"`
}

type CommandParams struct {
	SearchString string   `json:"search_string,omitempty"`
	Competitors  []string `json:"competitors,omitempty"`
	ExcludeTerms []string `json:"exclude_terms,omitempty"`
}
