package cli

import (
	"github.com/spf13/cobra"
)

// newAndroidCmd creates the `android` command group.
// Each operation group of the platform has its own subcommand.
func newAndroidCmd(env *runEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "android",
		Short: "Run Android operation groups",
		Long:  "Run Android operation groups. Use the 'res' subcommand to write resource files.",
	}

	cmd.AddCommand(newAndroidResCmd(env))

	return cmd
}

// newAndroidResCmd creates the `android res` subcommand.
// Usage: mobcfg android res [config] [--prune]
func newAndroidResCmd(env *runEnv) *cobra.Command {
	var prune bool

	cmd := allowUnknownFlags(&cobra.Command{
		Use:   "res [config]",
		Short: "Write Android resource files",
		Long: `Writes the files of the config's platforms.android.res list below
android/app/src/main/res/, creating directories as needed.`,
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
