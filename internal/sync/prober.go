package sync

import (
	"context"
	"net/http"
	"time"
)

const defaultProbeTimeout = 5 * time.Second

// Prober reports whether the outside world is reachable. The processor uses
// it as a gate: offline means the whole run is a no-op and every pending
// entry stays pending.
type Prober interface {
	Online(ctx context.Context) bool
}

// HTTPProber checks reachability with a single bounded GET against a known
// endpoint.
type HTTPProber struct {
	url    string
	client *http.Client
}

// NewHTTPProber builds a prober against the given endpoint.
func NewHTTPProber(url string, timeout time.Duration) *HTTPProber {
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	return &HTTPProber{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Online reports whether the probe endpoint answered with a success status.
func (p *HTTPProber) Online(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
