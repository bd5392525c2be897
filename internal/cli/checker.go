package cli

import (
	"github.com/cbout22/mobcfg/internal/config"
	"github.com/cbout22/mobcfg/internal/manifest"
	"github.com/cbout22/mobcfg/internal/resources"
	"github.com/cbout22/mobcfg/internal/vars"
)

// CheckStatus describes the state of a single resource file.
type CheckStatus int

const (
	CheckOK           CheckStatus = iota // File exists, checksum matches the lock
	CheckNeverWritten                    // Not in lock, not on disk
	CheckFileMissing                     // In lock but file deleted
	CheckNotInLock                       // File exists but no lock entry
	CheckModified                        // File content differs from what was written
	CheckSkipped                         // Operation has neither text nor source
)

// CheckResult holds the outcome of checking one resource operation.
type CheckResult struct {
	TargetPath string // relative to the root directory
	Status     CheckStatus
	LockSum    string // checksum in lock file (empty if not in lock)
	FileSum    string // checksum of the file on disk (empty if missing)
}

// CheckResources validates resolved operations against the lock file and
// the filesystem below rootDir.
// This is a pure function: it reads state through its arguments, not globals.
func CheckResources(ops []config.ResourceOperation, rootDir string, lock *manifest.LockFile, fs resources.FileWriter) []CheckResult {
	results := make([]CheckResult, 0, len(ops))

	for _, op := range ops {
		rel := op.RelPath()
		result := CheckResult{TargetPath: rel}

		if op.Text == "" && op.Source == "" {
			result.Status = CheckSkipped
			results = append(results, result)
			continue
		}

		lockEntry, locked := lock.Get(rel)
		result.LockSum = lockEntry.Checksum

		var fileExists bool
		if data, err := fs.Read(op.TargetPath(rootDir)); err == nil {
			fileExists = true
			result.FileSum = manifest.Checksum(data)
		}

		switch {
		case !fileExists && !locked:
			result.Status = CheckNeverWritten
		case !fileExists && locked:
			result.Status = CheckFileMissing
		case fileExists && !locked:
			result.Status = CheckNotInLock
		case result.FileSum != lockEntry.Checksum:
			result.Status = CheckModified
		default:
			result.Status = CheckOK
		}

		results = append(results, result)
	}

	return results
}

// UndefinedReferences returns the $NAME references in the fields of a raw
// (not yet interpolated) operation that have no value in known, in order of
// first appearance. Such references resolve to the empty string.
func UndefinedReferences(op config.ResourceOperation, known config.Variables) []string {
	var undefined []string
	seen := make(map[string]bool)
	for _, field := range []string{op.Path, op.File, op.Text, op.Source} {
		for _, name := range vars.References(field) {
			if seen[name] {
				continue
			}
			seen[name] = true
			if _, ok := known[name]; !ok {
				undefined = append(undefined, name)
			}
		}
	}
	return undefined
}
