package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/cbout22/mobcfg/internal/auth"
	"github.com/cbout22/mobcfg/internal/config"
	"github.com/cbout22/mobcfg/internal/manifest"
	"github.com/cbout22/mobcfg/internal/resources"
	"github.com/cbout22/mobcfg/internal/runctx"
	"github.com/cbout22/mobcfg/internal/source"
	"github.com/cbout22/mobcfg/internal/vars"
)

// runEnv carries the collaborators of a command run. Zero fields are filled
// with the real implementations, tests inject fakes.
type runEnv struct {
	out      io.Writer
	argv     []string
	flags    *globalFlags
	settings runctx.Settings

	loader  runctx.ProjectLoader
	fetcher source.Fetcher
	fs      resources.FileWriter
	rootDir string // overrides the working directory when set
}

func (env *runEnv) stdout() io.Writer {
	if env.out == nil {
		return os.Stdout
	}
	return env.out
}

func (env *runEnv) fileWriter() resources.FileWriter {
	if env.fs == nil {
		env.fs = resources.NewOSFileWriter()
	}
	return env.fs
}

func (env *runEnv) sourceFetcher() (source.Fetcher, error) {
	if env.fetcher != nil {
		return env.fetcher, nil
	}
	client, err := auth.NewHTTPClient()
	if err != nil {
		return nil, err
	}
	env.fetcher = source.New(client, afero.NewOsFs())
	return env.fetcher, nil
}

// configPath returns the config file named on the command line, or the first
// default config file found in the working directory. A named file must
// exist; a missing default file means an empty config.
func (env *runEnv) configPath(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		if !env.fileWriter().Exists(args[0]) {
			return "", fmt.Errorf("config file %s: %w", args[0], os.ErrNotExist)
		}
		return args[0], nil
	}
	dir := env.rootDir
	if dir == "" {
		dir = "."
	}
	return manifest.Find(dir), nil
}

// lockPath returns the lock file location for the run.
func (env *runEnv) lockPath() string {
	if env.rootDir == "" {
		return manifest.DefaultLockFile
	}
	return filepath.Join(env.rootDir, manifest.DefaultLockFile)
}

// prepare loads the config file and the run context, then resolves the
// variable table: environment first, then declared values and defaults.
func (env *runEnv) prepare(configPath string) (*runctx.Context, *manifest.Manifest, error) {
	m, err := manifest.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	opts := runctx.LoadOptions{
		Argv:     env.argv,
		Loader:   env.loader,
		Settings: env.settings,
	}
	if opts.Argv == nil {
		opts.Argv = []string{}
	}
	if f := env.flags; f != nil {
		opts.ProjectRoot = f.projectRoot
		opts.AndroidProject = f.androidProject
		opts.IOSProject = f.iosProject
	}

	ctx, err := runctx.Load(opts)
	if err != nil {
		return nil, nil, err
	}
	if env.rootDir != "" {
		ctx.RootDir = env.rootDir
	}

	if err := vars.InitFromEnv(ctx, m.Vars); err != nil {
		return nil, nil, err
	}
	vars.ApplyDefinitions(ctx, m.Vars)

	return ctx, m, nil
}

// resolvedOperations returns the config's Android resource operations with
// $VAR references resolved.
func resolvedOperations(ctx *runctx.Context, m *manifest.Manifest) []config.ResourceOperation {
	ops := m.ResourceOperations()
	resolved := make([]config.ResourceOperation, 0, len(ops))
	for _, op := range ops {
		resolved = append(resolved, vars.InterpolateOperation(ctx, op))
	}
	return resolved
}
