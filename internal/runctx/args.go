package runctx

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
)

// Args is the parsed command line. The named fields are the flags mobcfg
// understands itself; anything else is kept in Extra and Positional so it can
// be handed to project loaders untouched.
type Args struct {
	Verbose        bool
	Android        bool
	IOS            bool
	ProjectRoot    string
	AndroidProject string
	IOSProject     string

	Positional []string
	Extra      map[string]string
}

// ParseArgs parses argv (without the program name). Unknown flags are not an
// error: "--name=value", "--name value" and bare "--name" land in Extra.
func ParseArgs(argv []string) (Args, error) {
	var args Args

	fs := pflag.NewFlagSet("mobcfg", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.BoolVar(&args.Verbose, "verbose", false, "")
	fs.BoolVar(&args.Android, "android", false, "")
	fs.BoolVar(&args.IOS, "ios", false, "")
	fs.StringVar(&args.ProjectRoot, "projectRoot", "", "")
	fs.StringVar(&args.AndroidProject, "androidProject", "", "")
	fs.StringVar(&args.IOSProject, "iosProject", "", "")

	known, extra := splitUnknown(fs, argv)
	if err := fs.Parse(known); err != nil {
		return Args{}, fmt.Errorf("parsing arguments: %w", err)
	}

	args.Positional = fs.Args()
	args.Extra = extra
	return args, nil
}

// splitUnknown separates flags the flag set does not define from the rest of
// argv. An unknown flag without "=value" takes the next argument as its value
// unless that argument is itself a flag.
func splitUnknown(fs *pflag.FlagSet, argv []string) ([]string, map[string]string) {
	known := make([]string, 0, len(argv))
	extra := make(map[string]string)
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		if arg == "--" {
			known = append(known, argv[i:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			known = append(known, arg)
			continue
		}
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if fs.Lookup(name) != nil {
			known = append(known, arg)
			continue
		}
		if !hasValue {
			value = "true"
			if i+1 < len(argv) && !strings.HasPrefix(argv[i+1], "-") {
				value = argv[i+1]
				i++
			}
		}
		extra[name] = value
	}
	return known, extra
}
