package project

import (
	"fmt"
	"os"
	"path/filepath"
)

// MobileProject is the native project tree mobcfg writes into: a project root
// with an optional Android and an optional iOS sub-project.
type MobileProject struct {
	RootPath    string
	AndroidPath string
	IOSPath     string

	HasAndroid bool
	HasIOS     bool
}

// Load loads the project at projectRoot. Empty arguments take the defaults:
// the working directory, <root>/android and <root>/ios/App. Relative platform
// paths are resolved against the root. The root must be an existing
// directory; missing platform directories only clear the Has* flags.
func Load(projectRoot, androidProject, iosProject string) (*MobileProject, error) {
	if projectRoot == "" {
		projectRoot = "."
	}
	root, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("resolving project root %s: %w", projectRoot, err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("project root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root %s is not a directory", root)
	}

	p := &MobileProject{
		RootPath:    root,
		AndroidPath: resolve(root, androidProject, "android"),
		IOSPath:     resolve(root, iosProject, filepath.Join("ios", "App")),
	}
	p.HasAndroid = isDir(p.AndroidPath)
	p.HasIOS = isDir(p.IOSPath)

	return p, nil
}

func resolve(root, path, def string) string {
	if path == "" {
		path = def
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
