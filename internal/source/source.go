package source

import "context"

// Fetcher reads the full content of a source, given as a local path or an
// http(s) URL.
type Fetcher interface {
	Read(ctx context.Context, pathOrURL string) ([]byte, error)
}
