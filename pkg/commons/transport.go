package commons

import (
	"net/http"

	"golang.org/x/time/rate"
)

// UserAgentTransport wraps an http.RoundTripper, adds a User-Agent header and
// optionally waits on a rate limiter before each request.
type UserAgentTransport struct {
	http.RoundTripper
	UserAgent string
	Limiter   *rate.Limiter
}

// RoundTrip executes a single HTTP transaction, adding the User-Agent header.
func (t *UserAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Limiter != nil {
		if err := t.Limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}

	base := t.RoundTripper
	if base == nil {
		base = http.DefaultTransport
	}

	// Clone the request to avoid modifying the original
	clonedReq := req.Clone(req.Context())
	clonedReq.Header.Set("User-Agent", t.UserAgent)
	return base.RoundTrip(clonedReq)
}
