package fetcher

import (
	"net/http"
	"strings"
	"time"
)

// uaTransport injects a User-Agent header into every request.
type uaTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *uaTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.userAgent != "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.userAgent)
	}
	return t.base.RoundTrip(req)
}

// newHTTPClient creates an *http.Client for bundle and map fetches.
// timeout is the per-request deadline (0 = no timeout).
func newHTTPClient(timeout time.Duration, userAgent string) *http.Client {
	userAgent = strings.TrimSpace(userAgent)
	var transport http.RoundTripper = http.DefaultTransport
	if userAgent != "" {
		transport = &uaTransport{base: http.DefaultTransport, userAgent: userAgent}
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}
