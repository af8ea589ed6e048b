package workers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetchDescription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<div class="condition-box">
				Grade B.
				Fully   tested and working.
			</div>
			<div class="condition-box">second box is ignored</div>
		</body></html>`))
	}))
	defer srv.Close()

	w := NewEnrichmentWorker(nil, nil, srv.Client())
	desc, err := w.fetchDescription(context.Background(), srv.URL, ".condition-box")
	if err != nil {
		t.Fatalf("fetchDescription failed: %v", err)
	}
	if desc != "Grade B. Fully tested and working." {
		t.Fatalf("unexpected description: %q", desc)
	}
}

func TestFetchDescription_SelectorMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>nothing relevant</p></body></html>`))
	}))
	defer srv.Close()

	w := NewEnrichmentWorker(nil, nil, srv.Client())
	desc, err := w.fetchDescription(context.Background(), srv.URL, ".condition-box")
	if err != nil {
		t.Fatalf("fetchDescription failed: %v", err)
	}
	if desc != "" {
		t.Fatalf("expected empty description, got %q", desc)
	}
}

func TestFetchDescription_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	w := NewEnrichmentWorker(nil, nil, srv.Client())
	desc, err := w.fetchDescription(context.Background(), srv.URL, ".condition-box")
	if err != nil {
		t.Fatalf("fetchDescription failed: %v", err)
	}
	if desc != "" {
		t.Fatalf("expected empty description for non-200 response, got %q", desc)
	}
}

func TestNormalizeText_Truncates(t *testing.T) {
	long := strings.Repeat("a ", maxDescriptionLen)
	got := normalizeText(long)
	if len(got) != maxDescriptionLen {
		t.Fatalf("expected %d chars, got %d", maxDescriptionLen, len(got))
	}
}
