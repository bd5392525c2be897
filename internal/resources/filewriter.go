package resources

// FileWriter abstracts filesystem operations for resource materialization.
type FileWriter interface {
	// Write creates or overwrites a file at the given path with the given data.
	Write(path string, data []byte) error

	// Read returns the content of the file at path.
	Read(path string) ([]byte, error)

	// MkdirAll creates a directory path and all necessary parents.
	MkdirAll(path string) error

	// Remove deletes a single file.
	Remove(path string) error

	// Exists reports whether the given path exists.
	Exists(path string) bool
}
