package vars

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/cbout22/mobcfg/internal/config"
	"github.com/cbout22/mobcfg/internal/logging"
	"github.com/cbout22/mobcfg/internal/runctx"
)

// InitFromEnv seeds ctx.Vars from the process environment for every variable
// declared in defs. Typed declarations are coerced and always overwrite the
// table; untyped values are decoded as JSON when possible and kept as the raw
// string otherwise, without replacing a value already in the table.
// A value that cannot be coerced to its declared type stops seeding.
func InitFromEnv(ctx *runctx.Context, defs config.Variables) error {
	if len(defs) == 0 {
		return nil
	}
	if ctx.Vars == nil {
		ctx.Vars = make(config.Variables)
	}
	logger := logging.GetLogger("vars")

	for _, name := range defs.Names() {
		raw, ok := os.LookupEnv(name)
		if !ok {
			continue
		}

		if def := defs[name]; def != nil && def.Type != "" {
			value, err := config.Coerce(name, def.Type, raw)
			if err != nil {
				return fmt.Errorf("loading env var %s: %w", name, err)
			}
			ctx.Vars[name] = &config.Variable{Value: value}
			continue
		}

		var value any = raw
		var parsed any
		if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
			value = parsed
			logger.Debug().Str("var", name).Msg("Loaded env var as JSON value")
		} else {
			logger.Debug().Str("var", name).Msg("Loaded env var as string")
		}

		if _, exists := ctx.Vars[name]; !exists {
			ctx.Vars[name] = &config.Variable{Value: value}
		}
	}
	return nil
}

// ApplyDefinitions fills variables the environment did not provide from
// their declared value, or failing that their default.
func ApplyDefinitions(ctx *runctx.Context, defs config.Variables) {
	if ctx.Vars == nil {
		ctx.Vars = make(config.Variables)
	}
	for _, name := range defs.Names() {
		def := defs[name]
		if def == nil {
			continue
		}
		if _, exists := ctx.Vars[name]; exists {
			continue
		}
		switch {
		case def.Value != nil:
			ctx.Vars[name] = &config.Variable{Value: def.Value, Type: def.Type}
		case def.DefaultValue != nil:
			ctx.Vars[name] = &config.Variable{Value: def.DefaultValue, Type: def.Type}
		}
	}
}

// Str resolves $NAME references in s against ctx.Vars.
//
// When s is exactly "$NAME" for a known variable, a string value is
// substituted and any other value is returned as-is, so arrays, objects and
// numbers survive. Otherwise each reference is replaced by the variable's
// string value, the JSON encoding of a non-string value, or "" when the
// variable is unknown.
func Str(ctx *runctx.Context, s string) any {
	if name, ok := strings.CutPrefix(s, "$"); ok && isName(name) {
		if v := lookup(ctx, name); v != nil {
			if str, ok := v.Value.(string); ok {
				return replaceRefs(s, func(string) string { return str })
			}
			return v.Value
		}
	}

	return replaceRefs(s, func(name string) string {
		v := lookup(ctx, name)
		if v == nil {
			return ""
		}
		if str, ok := v.Value.(string); ok {
			return str
		}
		return encode(v.Value)
	})
}

// Interpolate is Str for callers that need text: a non-string result is
// JSON encoded.
func Interpolate(ctx *runctx.Context, s string) string {
	switch v := Str(ctx, s).(type) {
	case string:
		return v
	default:
		return encode(v)
	}
}

// InterpolateOperation resolves references in every field of op.
func InterpolateOperation(ctx *runctx.Context, op config.ResourceOperation) config.ResourceOperation {
	return config.ResourceOperation{
		Path:   Interpolate(ctx, op.Path),
		File:   Interpolate(ctx, op.File),
		Text:   Interpolate(ctx, op.Text),
		Source: Interpolate(ctx, op.Source),
	}
}

func lookup(ctx *runctx.Context, name string) *config.Variable {
	if ctx == nil || ctx.Vars == nil {
		return nil
	}
	return ctx.Vars[name]
}

func encode(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
