package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/afero"

	"github.com/cbout22/mobcfg/internal/logging"
)

// maxErrorBody bounds how much of a failed response ends up in an error.
const maxErrorBody = 512

// Reader reads sources from the local filesystem or over HTTP.
type Reader struct {
	client *http.Client
	fs     afero.Fs
}

var _ Fetcher = (*Reader)(nil)

// New creates a Reader. A nil client falls back to http.DefaultClient and a
// nil fs to the OS filesystem.
func New(client *http.Client, fs afero.Fs) *Reader {
	if client == nil {
		client = http.DefaultClient
	}
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Reader{client: client, fs: fs}
}

// IsURL reports whether s starts with http:// or https://, ignoring case.
func IsURL(s string) bool {
	for _, prefix := range []string{"http://", "https://"} {
		if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
			return true
		}
	}
	return false
}

// StatusError is returned when a URL source answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("fetching %s: HTTP %d", e.URL, e.StatusCode)
	if e.Body != "" {
		msg += " — " + e.Body
	}
	return msg
}

// Read returns the raw bytes of the source. URLs are fetched with a GET
// request; anything else is read as a file path.
func (r *Reader) Read(ctx context.Context, pathOrURL string) ([]byte, error) {
	logger := logging.GetLogger("source")
	if IsURL(pathOrURL) {
		logger.Debug().Str("url", pathOrURL).Msg("Fetching source")
		return r.fetch(ctx, pathOrURL)
	}

	logger.Debug().Str("path", pathOrURL).Msg("Reading source file")
	data, err := afero.ReadFile(r.fs, pathOrURL)
	if err != nil {
		return nil, fmt.Errorf("reading source %s: %w", pathOrURL, err)
	}
	return data, nil
}

func (r *Reader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", url, err)
	}
	return data, nil
}
