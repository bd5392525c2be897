package auth

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/cbout22/mobcfg/internal/logging"
)

const (
	// TokenEnvVar holds an optional bearer token sent with source downloads.
	TokenEnvVar = "MOBCFG_HTTP_TOKEN"
	// TimeoutEnvVar overrides DefaultTimeout, as a Go duration ("45s").
	TimeoutEnvVar = "MOBCFG_HTTP_TIMEOUT"

	DefaultTimeout = 30 * time.Second
)

// Token returns the source download token from the environment.
func Token() (string, error) {
	if v := os.Getenv(TokenEnvVar); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("no source token found: set %s in your environment", TokenEnvVar)
}

// Timeout returns the HTTP timeout configured in the environment, or
// DefaultTimeout when unset.
func Timeout() (time.Duration, error) {
	raw := os.Getenv(TimeoutEnvVar)
	if raw == "" {
		return DefaultTimeout, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", TimeoutEnvVar, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", TimeoutEnvVar, raw)
	}
	return d, nil
}

// NewHTTPClient returns an *http.Client for source downloads, bounded by the
// configured timeout.
func NewHTTPClient() (*http.Client, error) {
	timeout, err := Timeout()
	if err != nil {
		return nil, err
	}
	return NewHTTPClientWithTimeout(timeout)
}

// NewHTTPClientWithTimeout returns an *http.Client with the given timeout.
// If a token is available it adds Bearer auth on every HTTPS request.
// Otherwise it returns a plain client.
func NewHTTPClientWithTimeout(timeout time.Duration) (*http.Client, error) {
	token, err := Token()
	if err != nil {
		logger := logging.GetLogger("auth")
		logger.Debug().Msg("No source token set, using unauthenticated requests")
		return &http.Client{Timeout: timeout}, nil
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &tokenTransport{
			token: token,
			base:  http.DefaultTransport,
		},
	}, nil
}

// tokenTransport is a custom http.RoundTripper that adds the Authorization header.
type tokenTransport struct {
	token string
	base  http.RoundTripper
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Plain HTTP would expose the token
	if req.URL.Scheme != "https" {
		return t.base.RoundTrip(req)
	}
	// Clone the request to avoid mutating the original
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", "Bearer "+t.token)
	return t.base.RoundTrip(r)
}
