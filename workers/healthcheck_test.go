package workers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"pricewatch/httputil"
)

func TestProbe_ReturnsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("expected HEAD request, got %s", r.Method)
		}
		switch r.URL.Path {
		case "/alive":
			w.WriteHeader(http.StatusOK)
		case "/gone":
			w.WriteHeader(http.StatusNotFound)
		case "/redirect":
			w.Header().Set("Location", "/search")
			w.WriteHeader(http.StatusFound)
		}
	}))
	defer srv.Close()

	w := NewHealthcheckWorker(nil, httputil.NewClients(nil).Scraping)

	if got := w.probe(context.Background(), srv.URL+"/alive"); got != http.StatusOK {
		t.Fatalf("expected 200, got %d", got)
	}
	if got := w.probe(context.Background(), srv.URL+"/gone"); got != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", got)
	}
	// Redirects are not followed; the worker needs to see the 302 itself.
	if got := w.probe(context.Background(), srv.URL+"/redirect"); got != http.StatusFound {
		t.Fatalf("expected 302, got %d", got)
	}
}

func TestProbe_TransportError(t *testing.T) {
	w := NewHealthcheckWorker(nil, httputil.NewClients(nil).Scraping)
	if got := w.probe(context.Background(), "http://127.0.0.1:1/nope"); got != 0 {
		t.Fatalf("expected 0 for transport error, got %d", got)
	}
}
