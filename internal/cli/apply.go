package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cbout22/mobcfg/internal/config"
	"github.com/cbout22/mobcfg/internal/logging"
	"github.com/cbout22/mobcfg/internal/manifest"
	"github.com/cbout22/mobcfg/internal/resources"
	"github.com/cbout22/mobcfg/internal/runctx"
)

// newApplyCmd creates the `apply` command.
// Usage: mobcfg apply [config] [--prune]
func newApplyCmd(env *runEnv) *cobra.Command {
	var prune bool

	cmd := allowUnknownFlags(&cobra.Command{
		Use:   "apply [config]",
		Short: "Apply every operation defined in the config file",
		Long: `Resolves variables and writes every resource file declared in the
config file, in order. Each file is overwritten with its inline text or with
the content read from its source path or URL.

Files written by an earlier run that are no longer in the config are
reported. With --prune, they are deleted and dropped from the lock file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := env.configPath(args)
			if err != nil {
				return err
			}
			return runApplyWith(cmd.Context(), configPath, env.lockPath(), env, prune)
		},
	})

	cmd.Flags().BoolVar(&prune, "prune", false, "Delete files written by earlier runs that are no longer in the config")

	return cmd
}

// runApplyWith is the testable core of the apply and android res commands.
func runApplyWith(ctx context.Context, configPath, lockPath string, env *runEnv, prune bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	out := env.stdout()

	rc, m, err := env.prepare(configPath)
	if err != nil {
		return err
	}

	ops := resolvedOperations(rc, m)
	if len(ops) == 0 && !prune {
		fmt.Fprintf(out, "📋 No operations in %s — nothing to apply.\n", configPath)
		return nil
	}

	if rc.Project != nil && !rc.Project.HasAndroid {
		logger := logging.GetLogger("cli")
		logger.Warn().
			Str("android", rc.Project.AndroidPath).
			Msg("Android project directory not found, resources are written anyway")
	}

	fetcher, err := env.sourceFetcher()
	if err != nil {
		return err
	}

	lock, err := manifest.LoadLock(lockPath)
	if err != nil {
		return fmt.Errorf("loading lock file: %w", err)
	}

	fs := env.fileWriter()
	w := resources.NewForContext(rc, fetcher, fs)

	fmt.Fprintf(out, "🔄 Applying %d resource operation(s)...\n\n", len(ops))

	results, applyErr := w.Apply(ctx, ops)
	for _, r := range results {
		if r.Skipped {
			fmt.Fprintf(out, "  ⏭️  %s — no text or source, skipped\n", r.TargetPath)
			continue
		}
		lock.Set(r.TargetPath, r.Origin, r.Op.Source, r.Content)
		if r.Origin == manifest.OriginSource {
			fmt.Fprintf(out, "  ✅ %s ← %s\n", r.TargetPath, r.Op.Source)
		} else {
			fmt.Fprintf(out, "  ✅ %s\n", r.TargetPath)
		}
	}

	// Stale entries are only acted on after a complete run
	var pruneErr error
	if applyErr == nil {
		pruneErr = pruneStale(out, rc, ops, lock, fs, prune)
	}

	if err := lock.Save(lockPath); err != nil {
		return fmt.Errorf("saving lock file: %w", err)
	}

	fmt.Fprintln(out)
	if applyErr != nil {
		fmt.Fprintf(out, "  ❌ %s\n", applyErr)
		return fmt.Errorf("apply stopped after %d of %d operation(s): %w", len(results), len(ops), applyErr)
	}
	if pruneErr != nil {
		return pruneErr
	}

	fmt.Fprintln(out, "✅ All resources written successfully.")
	return nil
}

// pruneStale handles lock entries for files no longer produced by the config.
// Without prune they are only reported. With prune the file is deleted and
// the entry dropped; entries pointing outside the resource root are dropped
// without touching the filesystem.
func pruneStale(out io.Writer, rc *runctx.Context, ops []config.ResourceOperation, lock *manifest.LockFile, fs resources.FileWriter, prune bool) error {
	targets := make([]string, 0, len(ops))
	for _, op := range ops {
		targets = append(targets, op.RelPath())
	}

	for _, rel := range lock.Stale(targets) {
		if !prune {
			fmt.Fprintf(out, "  ⚠️  %s — no longer in config (run 'mobcfg apply --prune' to delete)\n", rel)
			continue
		}

		target := filepath.Join(rc.RootDir, filepath.FromSlash(rel))
		if config.InResDir(rc.RootDir, target) && fs.Exists(target) {
			if err := fs.Remove(target); err != nil {
				return fmt.Errorf("removing %s: %w", rel, err)
			}
		}
		lock.Remove(rel)
		fmt.Fprintf(out, "  🗑️  %s — removed\n", rel)
	}
	return nil
}
