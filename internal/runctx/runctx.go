package runctx

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/cbout22/mobcfg/internal/config"
	"github.com/cbout22/mobcfg/internal/logging"
	"github.com/cbout22/mobcfg/internal/project"
)

// Settings is the process-wide configuration shared by every component of a
// run. It is created once by InitLogging and carried on the Context.
type Settings struct {
	Verbose bool
}

// Context is the per-invocation state: the loaded project, the parsed
// arguments and the variable table used for interpolation.
type Context struct {
	Project *project.MobileProject
	Args    Args
	Vars    config.Variables

	// ProjectRootPath is the explicit project root override, if any.
	ProjectRootPath string
	// PackageRoot is the directory holding the mobcfg executable.
	PackageRoot string
	// RootDir is the working directory the run was started from.
	RootDir string

	Settings Settings
}

// ProjectLoader builds the mobile project for a run.
type ProjectLoader func(args Args, projectRoot, androidProject, iosProject string) (*project.MobileProject, error)

// DefaultProjectLoader loads the project from the filesystem.
func DefaultProjectLoader(_ Args, projectRoot, androidProject, iosProject string) (*project.MobileProject, error) {
	return project.Load(projectRoot, androidProject, iosProject)
}

// LoadOptions controls Load. Empty location fields fall back to the values
// parsed from the command line.
type LoadOptions struct {
	ProjectRoot    string
	AndroidProject string
	IOSProject     string

	// Argv defaults to os.Args[1:].
	Argv []string
	// Loader defaults to DefaultProjectLoader.
	Loader ProjectLoader
	// Settings is stored on the returned Context as-is.
	Settings Settings
}

// LoadError is returned when the project cannot be loaded. The run cannot
// continue without a project, so callers treat it as fatal.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("unable to load mobile project: %v", e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load parses the command line, loads the project and returns a fresh
// Context with an empty variable table.
func Load(opts LoadOptions) (*Context, error) {
	rootDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	argv := opts.Argv
	if argv == nil {
		argv = os.Args[1:]
	}
	args, err := ParseArgs(argv)
	if err != nil {
		return nil, err
	}

	loader := opts.Loader
	if loader == nil {
		loader = DefaultProjectLoader
	}

	proj, err := loader(args,
		firstNonEmpty(opts.ProjectRoot, args.ProjectRoot),
		firstNonEmpty(opts.AndroidProject, args.AndroidProject),
		firstNonEmpty(opts.IOSProject, args.IOSProject),
	)
	if err != nil {
		return nil, &LoadError{Err: err}
	}

	return &Context{
		Project:         proj,
		Args:            args,
		Vars:            make(config.Variables),
		ProjectRootPath: opts.ProjectRoot,
		PackageRoot:     packageRoot(),
		RootDir:         rootDir,
		Settings:        opts.Settings,
	}, nil
}

// InitLogging derives the run Settings from the raw arguments and configures
// the global logger. A non-empty VERBOSE environment value takes precedence
// over the --verbose flag.
func InitLogging(args []string) Settings {
	s := Settings{Verbose: slices.Contains(args, "--verbose")}
	if env := os.Getenv("VERBOSE"); env != "" {
		s.Verbose, _ = strconv.ParseBool(env)
	}
	logging.SetupLogger(s.Verbose, os.Stderr)
	return s
}

// SetArguments replaces the argument bag of ctx.
func SetArguments(ctx *Context, args Args) {
	ctx.Args = args
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func packageRoot() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(exe)
}
