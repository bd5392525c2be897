package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cbout22/mobcfg/internal/manifest"
)

// newCheckCmd creates the `check` command.
// Usage: mobcfg check [config] [--strict]
func newCheckCmd(env *runEnv) *cobra.Command {
	var strict bool

	cmd := allowUnknownFlags(&cobra.Command{
		Use:   "check [config]",
		Short: "Check if resource files match what mobcfg last wrote",
		Long: `Validates that every resource file declared in the config file exists
and still matches the checksum recorded in .mobcfg.lock, and that every $VAR
the operations reference has a value. Useful in CI/CD pipelines.

With --strict, the command exits with a non-zero code if any file is
missing, was modified, or references an undefined variable.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := env.configPath(args)
			if err != nil {
				return err
			}
			return runCheckWith(configPath, env.lockPath(), strict, env)
		},
	})

	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with error code if files are missing or modified")

	return cmd
}

// runCheckWith is the testable core of the check command.
func runCheckWith(configPath, lockPath string, strict bool, env *runEnv) error {
	out := env.stdout()

	rc, m, err := env.prepare(configPath)
	if err != nil {
		return err
	}

	ops := resolvedOperations(rc, m)
	if len(ops) == 0 {
		fmt.Fprintf(out, "📋 No operations in %s — nothing to check.\n", configPath)
		return nil
	}

	lock, err := manifest.LoadLock(lockPath)
	if err != nil {
		return fmt.Errorf("loading lock file: %w", err)
	}

	results := CheckResources(ops, rc.RootDir, lock, env.fileWriter())

	fmt.Fprintf(out, "🔍 Checking %d resource(s)...\n\n", len(results))

	var issues int
	for _, r := range results {
		switch r.Status {
		case CheckOK:
			fmt.Fprintf(out, "  ✅ %s — ok\n", r.TargetPath)
		case CheckSkipped:
			fmt.Fprintf(out, "  ⏭️  %s — no text or source\n", r.TargetPath)
		case CheckNeverWritten:
			fmt.Fprintf(out, "  ❌ %s — missing (never written)\n", r.TargetPath)
			issues++
		case CheckFileMissing:
			fmt.Fprintf(out, "  ❌ %s — missing (was written)\n", r.TargetPath)
			issues++
		case CheckNotInLock:
			fmt.Fprintf(out, "  ⚠️  %s — file exists but not in lock file (run 'mobcfg apply')\n", r.TargetPath)
			issues++
		case CheckModified:
			fmt.Fprintf(out, "  ⚠️  %s — modified since last apply\n", r.TargetPath)
			issues++
		}
	}

	for i, op := range m.ResourceOperations() {
		if names := UndefinedReferences(op, rc.Vars); len(names) > 0 {
			fmt.Fprintf(out, "  ⚠️  %s — undefined variable(s): $%s\n", ops[i].RelPath(), strings.Join(names, ", $"))
			issues++
		}
	}

	fmt.Fprintln(out)
	if issues > 0 {
		msg := fmt.Sprintf("Found %d issue(s). Run 'mobcfg apply' to fix.", issues)
		if strict {
			return fmt.Errorf("%s", msg)
		}
		fmt.Fprintf(out, "⚠️  %s\n", msg)
	} else {
		fmt.Fprintln(out, "✅ All resources are in sync.")
	}
	return nil
}
