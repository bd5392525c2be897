package resources

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/cbout22/mobcfg/internal/config"
	"github.com/cbout22/mobcfg/internal/manifest"
)

// fakeFetcher serves canned content keyed by path or URL and records calls.
type fakeFetcher struct {
	content map[string][]byte
	calls   []string
}

func (f *fakeFetcher) Read(_ context.Context, pathOrURL string) ([]byte, error) {
	f.calls = append(f.calls, pathOrURL)
	data, ok := f.content[pathOrURL]
	if !ok {
		return nil, errors.New("not found: " + pathOrURL)
	}
	return data, nil
}

const root = "/work"

func newTestWriter(fetch *fakeFetcher) (*Writer, *AferoFileWriter) {
	fw := NewAferoFileWriter(afero.NewMemMapFs())
	return New(fetch, fw, root), fw
}

func readTarget(t *testing.T, fw *AferoFileWriter, op config.ResourceOperation) string {
	t.Helper()
	data, err := fw.Read(op.TargetPath(root))
	if err != nil {
		t.Fatalf("reading %s: %v", op.TargetPath(root), err)
	}
	return string(data)
}

func TestApply_TextCreatesDirectoryAndFile(t *testing.T) {
	t.Parallel()
	w, fw := newTestWriter(&fakeFetcher{})
	op := config.ResourceOperation{Path: "values", File: "strings.xml", Text: "<resources/>"}

	results, err := w.Apply(context.Background(), []config.ResourceOperation{op})
	if err != nil {
		t.Fatal(err)
	}
	if !fw.Exists(filepath.Join(root, config.AndroidResDir, "values")) {
		t.Error("values directory not created")
	}
	if got := readTarget(t, fw, op); got != "<resources/>" {
		t.Errorf("content = %q", got)
	}
	if len(results) != 1 || results[0].Origin != manifest.OriginText || results[0].Skipped {
		t.Errorf("results = %+v", results)
	}
}

func TestApply_SourceContentIsWrittenVerbatim(t *testing.T) {
	t.Parallel()
	payload := []byte{0x89, 'P', 'N', 'G', 0x00, 0xff}
	fetch := &fakeFetcher{content: map[string][]byte{"https://cdn.example/icon.png": payload}}
	w, fw := newTestWriter(fetch)
	op := config.ResourceOperation{Path: "drawable", File: "icon.png", Source: "https://cdn.example/icon.png"}

	results, err := w.Apply(context.Background(), []config.ResourceOperation{op})
	if err != nil {
		t.Fatal(err)
	}
	if got := readTarget(t, fw, op); got != string(payload) {
		t.Errorf("content = %x, want %x", got, payload)
	}
	if results[0].Origin != manifest.OriginSource {
		t.Errorf("Origin = %q", results[0].Origin)
	}
}

func TestApply_TextWinsOverSource(t *testing.T) {
	t.Parallel()
	fetch := &fakeFetcher{}
	w, fw := newTestWriter(fetch)
	op := config.ResourceOperation{Path: "raw", File: "a.txt", Text: "inline", Source: "ignored.txt"}

	if _, err := w.Apply(context.Background(), []config.ResourceOperation{op}); err != nil {
		t.Fatal(err)
	}
	if got := readTarget(t, fw, op); got != "inline" {
		t.Errorf("content = %q", got)
	}
	if len(fetch.calls) != 0 {
		t.Errorf("source should not be read when text is set, got calls %v", fetch.calls)
	}
}

func TestApply_NeitherTextNorSourceIsSkipped(t *testing.T) {
	t.Parallel()
	w, fw := newTestWriter(&fakeFetcher{})
	op := config.ResourceOperation{Path: "raw", File: "empty.txt"}

	results, err := w.Apply(context.Background(), []config.ResourceOperation{op})
	if err != nil {
		t.Fatal(err)
	}
	if !results[0].Skipped {
		t.Error("expected Skipped")
	}
	if fw.Exists(op.TargetPath(root)) {
		t.Error("skipped operation must not create a file")
	}
	if !fw.Exists(op.Dir(root)) {
		t.Error("directory is still ensured for a skipped operation")
	}
}

func TestApply_OverwritesExistingFile(t *testing.T) {
	t.Parallel()
	w, fw := newTestWriter(&fakeFetcher{})
	op := config.ResourceOperation{Path: "values", File: "strings.xml", Text: "new"}
	if err := fw.MkdirAll(op.Dir(root)); err != nil {
		t.Fatal(err)
	}
	if err := fw.Write(op.TargetPath(root), []byte("old and much longer")); err != nil {
		t.Fatal(err)
	}

	if _, err := w.Apply(context.Background(), []config.ResourceOperation{op}); err != nil {
		t.Fatal(err)
	}
	if got := readTarget(t, fw, op); got != "new" {
		t.Errorf("content = %q, want full overwrite", got)
	}
}

func TestApply_Idempotent(t *testing.T) {
	t.Parallel()
	w, fw := newTestWriter(&fakeFetcher{})
	ops := []config.ResourceOperation{
		{Path: "values", File: "strings.xml", Text: "a"},
		{Path: "values", File: "colors.xml", Text: "b"},
	}
	for i := 0; i < 2; i++ {
		if _, err := w.Apply(context.Background(), ops); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	for _, op := range ops {
		if got := readTarget(t, fw, op); got != op.Text {
			t.Errorf("%s = %q, want %q", op.File, got, op.Text)
		}
	}
}

func TestApply_LaterOperationWinsOnSameTarget(t *testing.T) {
	t.Parallel()
	w, fw := newTestWriter(&fakeFetcher{})
	ops := []config.ResourceOperation{
		{Path: "raw", File: "x.txt", Text: "first"},
		{Path: "raw", File: "x.txt", Text: "second"},
	}
	if _, err := w.Apply(context.Background(), ops); err != nil {
		t.Fatal(err)
	}
	if got := readTarget(t, fw, ops[0]); got != "second" {
		t.Errorf("content = %q, want second", got)
	}
}

func TestApply_StopsAtFirstFailure(t *testing.T) {
	t.Parallel()
	fetch := &fakeFetcher{content: map[string][]byte{}}
	w, fw := newTestWriter(fetch)
	ops := []config.ResourceOperation{
		{Path: "raw", File: "one.txt", Text: "1"},
		{Path: "raw", File: "two.txt", Source: "missing.txt"},
		{Path: "raw", File: "three.txt", Text: "3"},
	}

	results, err := w.Apply(context.Background(), ops)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "res operation 1") {
		t.Errorf("error %q should name the failing operation", err)
	}
	if len(results) != 1 {
		t.Errorf("got %d results, want 1 completed before failure", len(results))
	}
	if !fw.Exists(ops[0].TargetPath(root)) {
		t.Error("earlier write should be kept")
	}
	if fw.Exists(ops[2].TargetPath(root)) {
		t.Error("later operation must not run after a failure")
	}
}

func TestApply_CancelledContextStopsSourceReads(t *testing.T) {
	t.Parallel()
	fetch := &fakeFetcher{content: map[string][]byte{"a.txt": []byte("a")}}
	w, _ := newTestWriter(fetch)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := w.Apply(ctx, []config.ResourceOperation{{Path: "raw", File: "a.txt", Source: "a.txt"}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if len(fetch.calls) != 0 {
		t.Errorf("fetcher called after cancel: %v", fetch.calls)
	}
}

func TestApply_EmptyListIsNoop(t *testing.T) {
	t.Parallel()
	w, fw := newTestWriter(&fakeFetcher{})
	results, err := w.Apply(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("results = %+v", results)
	}
	if fw.Exists(filepath.Join(root, "android")) {
		t.Error("empty run must not touch the filesystem")
	}
}

func TestApply_RejectsTargetsOutsideResDir(t *testing.T) {
	t.Parallel()
	w, fw := newTestWriter(&fakeFetcher{})
	op := config.ResourceOperation{Path: "../../..", File: "build.gradle", Text: "pwned"}

	_, err := w.Apply(context.Background(), []config.ResourceOperation{op})
	if !errors.Is(err, config.ErrOutsideResDir) {
		t.Fatalf("err = %v, want ErrOutsideResDir", err)
	}
	if fw.Exists(filepath.Join(root, "android", "build.gradle")) {
		t.Error("file written outside the resource root")
	}
}

func TestApply_FormatArgumentsWrittenVerbatim(t *testing.T) {
	t.Parallel()
	w, fw := newTestWriter(&fakeFetcher{})
	op := config.ResourceOperation{
		Path: "values",
		File: "strings.xml",
		Text: `<resources><string name="greeting">Hello %1$s, you have %2$d messages</string></resources>`,
	}

	if _, err := w.Apply(context.Background(), []config.ResourceOperation{op}); err != nil {
		t.Fatal(err)
	}
	if got := readTarget(t, fw, op); got != op.Text {
		t.Errorf("content = %q, want %q", got, op.Text)
	}
}
