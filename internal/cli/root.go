package cli

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/cbout22/mobcfg/internal/runctx"
)

// version is set at build time via -ldflags.
var version = "dev"

// globalFlags holds the persistent flags shared by every command.
type globalFlags struct {
	verbose        bool
	projectRoot    string
	androidProject string
	iosProject     string
	android        bool
	ios            bool
}

// NewRootCmd creates the top-level `mobcfg` command.
func NewRootCmd() *cobra.Command {
	return newRootCmdWith(&runEnv{argv: os.Args[1:]})
}

func newRootCmdWith(env *runEnv) *cobra.Command {
	flags := &globalFlags{}
	env.flags = flags

	root := &cobra.Command{
		Use:   "mobcfg",
		Short: "mobcfg — declarative file configuration for mobile build trees",
		Long: `mobcfg writes resource files into the native projects of a mobile app
from a mobcfg.yaml (or .yml / .toml) config file. File content comes from
inline text or from a local path or http(s) URL, with $VAR references
resolved from the environment and the config's declared variables.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			argv := env.argv
			if flags.verbose && !slices.Contains(argv, "--verbose") {
				argv = append(slices.Clone(argv), "--verbose")
			}
			env.settings = runctx.InitLogging(argv)
			if env.out == nil {
				env.out = cmd.OutOrStdout()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVar(&flags.verbose, "verbose", false, "Enable debug logging")
	pf.StringVar(&flags.projectRoot, "projectRoot", "", "Project root directory (default: current directory)")
	pf.StringVar(&flags.androidProject, "androidProject", "", "Android project directory (default: <root>/android)")
	pf.StringVar(&flags.iosProject, "iosProject", "", "iOS project directory (default: <root>/ios/App)")
	pf.BoolVar(&flags.android, "android", false, "Select the Android platform")
	pf.BoolVar(&flags.ios, "ios", false, "Select the iOS platform")

	// Register platform subcommands
	root.AddCommand(newAndroidCmd(env))

	// Register top-level commands
	root.AddCommand(newApplyCmd(env))
	root.AddCommand(newCheckCmd(env))
	root.AddCommand(newVarsCmd(env))
	root.AddCommand(newStrCmd(env))

	return root
}

// allowUnknownFlags lets extra --name=value arguments through to the run
// context instead of failing flag parsing.
func allowUnknownFlags(cmd *cobra.Command) *cobra.Command {
	cmd.FParseErrWhitelist = cobra.FParseErrWhitelist{UnknownFlags: true}
	return cmd
}

// Execute runs the root command.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
