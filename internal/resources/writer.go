package resources

import (
	"context"
	"fmt"

	"github.com/cbout22/mobcfg/internal/config"
	"github.com/cbout22/mobcfg/internal/logging"
	"github.com/cbout22/mobcfg/internal/manifest"
	"github.com/cbout22/mobcfg/internal/runctx"
	"github.com/cbout22/mobcfg/internal/source"
)

// Writer materializes resource operations below the Android resource root
// of a project directory.
type Writer struct {
	source  source.Fetcher
	fs      FileWriter
	rootDir string // directory holding the android/ tree
}

// New creates a Writer.
func New(src source.Fetcher, fs FileWriter, rootDir string) *Writer {
	return &Writer{
		source:  src,
		fs:      fs,
		rootDir: rootDir,
	}
}

// NewForContext creates a Writer rooted at the run's working directory.
func NewForContext(ctx *runctx.Context, src source.Fetcher, fs FileWriter) *Writer {
	return New(src, fs, ctx.RootDir)
}

// WriteResult holds the outcome of one resource operation.
type WriteResult struct {
	Op         config.ResourceOperation
	TargetPath string // relative to the root directory
	Origin     string // manifest.OriginText or manifest.OriginSource; empty when skipped
	Content    []byte
	Skipped    bool
}

// Apply runs ops in order. Each operation's directory is created when
// missing, then the file is overwritten with the operation's text, or with the
// content read from its source when there is no text. Operations with neither
// are skipped with a warning.
//
// The first failure stops the run; files written by earlier operations stay
// in place and their results are returned alongside the error.
func (w *Writer) Apply(ctx context.Context, ops []config.ResourceOperation) ([]WriteResult, error) {
	logger := logging.GetLogger("resources")
	done := logging.LogOperationStart(logger, "android.res")
	defer done()

	results := make([]WriteResult, 0, len(ops))
	for i, op := range ops {
		result, err := w.applyOne(ctx, op)
		if err != nil {
			return results, fmt.Errorf("res operation %d (%s): %w", i, op.RelPath(), err)
		}
		if result.Skipped {
			logger.Warn().
				Str("path", op.Path).
				Str("file", op.File).
				Msg("Resource operation has neither text nor source, skipping")
		} else {
			logger.Debug().
				Str("target", result.TargetPath).
				Str("origin", result.Origin).
				Int("bytes", len(result.Content)).
				Msg("Wrote resource")
		}
		results = append(results, result)
	}
	return results, nil
}

func (w *Writer) applyOne(ctx context.Context, op config.ResourceOperation) (WriteResult, error) {
	result := WriteResult{Op: op, TargetPath: op.RelPath()}

	if err := op.CheckTarget(w.rootDir); err != nil {
		return result, err
	}

	// Ensure target directory exists
	dir := op.Dir(w.rootDir)
	if !w.fs.Exists(dir) {
		if err := w.fs.MkdirAll(dir); err != nil {
			return result, fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	var content []byte
	switch {
	case op.Text != "":
		content = []byte(op.Text)
		result.Origin = manifest.OriginText
	case op.Source != "":
		if err := ctx.Err(); err != nil {
			return result, err
		}
		data, err := w.source.Read(ctx, op.Source)
		if err != nil {
			return result, err
		}
		content = data
		result.Origin = manifest.OriginSource
	default:
		result.Skipped = true
		return result, nil
	}

	target := op.TargetPath(w.rootDir)
	if err := w.fs.Write(target, content); err != nil {
		return result, fmt.Errorf("writing file %s: %w", target, err)
	}

	result.Content = content
	return result, nil
}
