package httputil

import (
	"net/http"
	"net/url"
	"time"

	"pricewatch/config"
)

type Clients struct {
	Scraping *http.Client // optionally proxied, for competitor sites
	API      *http.Client // direct
}

// NewClients builds the shared HTTP clients. The scraping client never
// follows redirects: for listing URLs a redirect usually means the listing
// is gone, and the workers want to see that status themselves.
func NewClients(proxyCfg *config.ProxyConfig) *Clients {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if proxyCfg != nil && proxyCfg.URL != "" {
		if proxyURL, err := url.Parse(proxyCfg.URL); err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	scraping := &http.Client{
		Timeout:   15 * time.Second,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &Clients{
		Scraping: scraping,
		API:      &http.Client{Timeout: 30 * time.Second},
	}
}
