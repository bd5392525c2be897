package manifest

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

const DefaultLockFile = ".mobcfg.lock"

// Origins recorded for a written resource.
const (
	OriginText   = "text"
	OriginSource = "source"
)

// LockFile records which resource files mobcfg wrote so that `mobcfg check`
// can report files that went missing or were edited by hand.
type LockFile struct {
	// Version of the lock file format.
	Version int `json:"version"`
	// Entries keyed by the slash-separated target path.
	Entries map[string]LockEntry `json:"entries"`
}

// LockEntry records the state of a single written resource.
type LockEntry struct {
	TargetPath string `json:"target_path"`      // path relative to the run directory
	Origin     string `json:"origin"`           // "text" or "source"
	Source     string `json:"source,omitempty"` // path or URL the content was read from
	Checksum   string `json:"checksum"`         // SHA-256 of the written content
	WrittenAt  string `json:"written_at"`       // RFC 3339 timestamp of the last write
}

// NewLockFile returns an initialised empty lock file.
func NewLockFile() *LockFile {
	return &LockFile{
		Version: 1,
		Entries: make(map[string]LockEntry),
	}
}

// LoadLock reads and parses a lock file.
// Returns an empty lock file if the file does not exist.
func LoadLock(path string) (*LockFile, error) {
	lf := NewLockFile()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return lf, nil
		}
		return nil, fmt.Errorf("reading lock file: %w", err)
	}

	if err := json.Unmarshal(data, lf); err != nil {
		return nil, fmt.Errorf("parsing lock file: %w", err)
	}

	if lf.Entries == nil {
		lf.Entries = make(map[string]LockEntry)
	}

	return lf, nil
}

// Save writes the lock file to the given path.
func (lf *LockFile) Save(path string) error {
	data, err := json.MarshalIndent(lf, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding lock file: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing lock file: %w", err)
	}

	return nil
}

// entryKey builds the map key for a lock entry.
func entryKey(targetPath string) string {
	return filepath.ToSlash(filepath.Clean(targetPath))
}

// Set records or updates a lock entry after a successful write.
func (lf *LockFile) Set(targetPath, origin, source string, content []byte) {
	key := entryKey(targetPath)
	lf.Entries[key] = LockEntry{
		TargetPath: key,
		Origin:     origin,
		Source:     source,
		Checksum:   Checksum(content),
		WrittenAt:  time.Now().UTC().Format(time.RFC3339),
	}
}

// Get retrieves a lock entry, if it exists.
func (lf *LockFile) Get(targetPath string) (LockEntry, bool) {
	e, ok := lf.Entries[entryKey(targetPath)]
	return e, ok
}

// Remove deletes a lock entry.
func (lf *LockFile) Remove(targetPath string) {
	delete(lf.Entries, entryKey(targetPath))
}

// Stale returns the sorted keys of entries whose target is not among
// targetPaths.
func (lf *LockFile) Stale(targetPaths []string) []string {
	wanted := make(map[string]bool, len(targetPaths))
	for _, p := range targetPaths {
		wanted[entryKey(p)] = true
	}
	var stale []string
	for key := range lf.Entries {
		if !wanted[key] {
			stale = append(stale, key)
		}
	}
	sort.Strings(stale)
	return stale
}

// Checksum returns the hex-encoded SHA-256 of the given data.
func Checksum(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h)
}
