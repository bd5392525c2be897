package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cbout22/mobcfg/internal/vars"
)

// newVarsCmd creates the `vars` command.
// Usage: mobcfg vars [config]
func newVarsCmd(env *runEnv) *cobra.Command {
	return allowUnknownFlags(&cobra.Command{
		Use:   "vars [config]",
		Short: "Print the resolved variable table as JSON",
		Long: `Resolves the variables declared in the config file from the environment,
their declared values and their defaults, and prints the result as a JSON
object. Variables without a value are printed as null.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := env.configPath(args)
			if err != nil {
				return err
			}
			return runVarsWith(configPath, env)
		},
	})
}

func runVarsWith(configPath string, env *runEnv) error {
	rc, m, err := env.prepare(configPath)
	if err != nil {
		return err
	}

	table := make(map[string]any, len(m.Vars))
	for _, name := range m.Vars.Names() {
		table[name] = nil
	}
	for name, v := range rc.Vars {
		table[name] = v.Value
	}

	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding variables: %w", err)
	}
	fmt.Fprintln(env.stdout(), string(data))
	return nil
}

// newStrCmd creates the `str` command.
// Usage: mobcfg str [config] <template>
func newStrCmd(env *runEnv) *cobra.Command {
	return allowUnknownFlags(&cobra.Command{
		Use:   "str [config] <template>",
		Short: "Resolve $VAR references in a template",
		Long: `Resolves $VAR references in the template against the variable table and
prints the result. A template that is exactly one known reference prints the
variable's value, JSON-encoded when it is not a string.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := env.configPath(args[:len(args)-1])
			if err != nil {
				return err
			}
			return runStrWith(configPath, args[len(args)-1], env)
		},
	})
}

func runStrWith(configPath, template string, env *runEnv) error {
	rc, _, err := env.prepare(configPath)
	if err != nil {
		return err
	}
	fmt.Fprintln(env.stdout(), vars.Interpolate(rc, template))
	return nil
}
