package resources

import "github.com/spf13/afero"

// AferoFileWriter implements FileWriter on top of an afero filesystem.
type AferoFileWriter struct {
	fs afero.Fs
}

var _ FileWriter = (*AferoFileWriter)(nil)

// NewAferoFileWriter wraps fs.
func NewAferoFileWriter(fs afero.Fs) *AferoFileWriter {
	return &AferoFileWriter{fs: fs}
}

// NewOSFileWriter returns a FileWriter backed by the real filesystem.
func NewOSFileWriter() *AferoFileWriter {
	return NewAferoFileWriter(afero.NewOsFs())
}

func (w *AferoFileWriter) Write(path string, data []byte) error {
	return afero.WriteFile(w.fs, path, data, 0644)
}

func (w *AferoFileWriter) Read(path string) ([]byte, error) {
	return afero.ReadFile(w.fs, path)
}

func (w *AferoFileWriter) MkdirAll(path string) error {
	return w.fs.MkdirAll(path, 0755)
}

func (w *AferoFileWriter) Remove(path string) error {
	return w.fs.Remove(path)
}

func (w *AferoFileWriter) Exists(path string) bool {
	ok, err := afero.Exists(w.fs, path)
	return err == nil && ok
}
