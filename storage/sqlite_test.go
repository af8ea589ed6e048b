package storage

import (
	"path/filepath"
	"testing"
	"time"

	"pricewatch/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "ops.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRunLifecycle(t *testing.T) {
	store := newTestStore(t)

	run := &models.ScrapeRun{
		SearchString: "iphone 13",
		StartedAt:    time.Now(),
		Status:       models.RunStatusRunning,
		Competitors:  4,
	}

	id, err := store.CreateRun(run)
	if err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}
	if id == 0 {
		t.Fatalf("expected a run id")
	}
	run.ID = id

	finished := time.Now()
	run.FinishedAt = &finished
	run.Status = models.RunStatusCompleted
	run.ListingsFound = 12
	run.ListingsKept = 12
	if err := store.UpdateRun(run); err != nil {
		t.Fatalf("UpdateRun failed: %v", err)
	}

	runs, err := store.GetRecentRuns(10)
	if err != nil {
		t.Fatalf("GetRecentRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	got := runs[0]
	if got.Status != models.RunStatusCompleted {
		t.Fatalf("expected completed status, got %s", got.Status)
	}
	if got.ListingsKept != 12 {
		t.Fatalf("expected 12 listings kept, got %d", got.ListingsKept)
	}
	if got.FinishedAt == nil {
		t.Fatalf("expected finished_at to be set")
	}
}

func TestRunLogs(t *testing.T) {
	store := newTestStore(t)

	run := &models.ScrapeRun{SearchString: "ps5", StartedAt: time.Now(), Status: models.RunStatusRunning}
	id, err := store.CreateRun(run)
	if err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}

	if err := store.Log(&id, models.LogLevelInfo, "5 listings kept", "eBay"); err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if err := store.Log(&id, models.LogLevelError, "scrape failed", "CeX"); err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if err := store.Log(nil, models.LogLevelWarn, "unattached message", ""); err != nil {
		t.Fatalf("Log with nil run failed: %v", err)
	}

	logs, err := store.GetLogsForRun(id)
	if err != nil {
		t.Fatalf("GetLogsForRun failed: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 logs for the run, got %d", len(logs))
	}
	seen := make(map[string]models.LogLevel, len(logs))
	for _, entry := range logs {
		seen[entry.Competitor] = entry.Level
	}
	if seen["eBay"] != models.LogLevelInfo || seen["CeX"] != models.LogLevelError {
		t.Fatalf("unexpected log entries: %v", seen)
	}
}

func TestCommandQueue(t *testing.T) {
	store := newTestStore(t)

	params := models.CommandParams{
		SearchString: "nintendo switch",
		Competitors:  []string{"eBay"},
		ExcludeTerms: []string{"broken"},
	}
	if err := store.InsertCommand(models.CmdScrapeNow, params); err != nil {
		t.Fatalf("InsertCommand failed: %v", err)
	}

	cmds, err := store.GetPendingCommands()
	if err != nil {
		t.Fatalf("GetPendingCommands failed: %v", err)
	}
	if len(cmds) != 1 {
		t.Fatalf("expected 1 pending command, got %d", len(cmds))
	}
	if cmds[0].Command != models.CmdScrapeNow {
		t.Fatalf("expected scrape_now, got %s", cmds[0].Command)
	}

	parsed, err := store.ParseCommandParams(&cmds[0])
	if err != nil {
		t.Fatalf("ParseCommandParams failed: %v", err)
	}
	if parsed.SearchString != "nintendo switch" {
		t.Fatalf("expected search string to round-trip, got %q", parsed.SearchString)
	}
	if len(parsed.ExcludeTerms) != 1 || parsed.ExcludeTerms[0] != "broken" {
		t.Fatalf("expected exclude terms to round-trip, got %v", parsed.ExcludeTerms)
	}

	if err := store.MarkCommandProcessed(cmds[0].ID); err != nil {
		t.Fatalf("MarkCommandProcessed failed: %v", err)
	}
	cmds, err = store.GetPendingCommands()
	if err != nil {
		t.Fatalf("GetPendingCommands failed: %v", err)
	}
	if len(cmds) != 0 {
		t.Fatalf("expected no pending commands, got %d", len(cmds))
	}
}
