package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// AndroidResDir is the resource root inside an Android project, relative to
// the directory the tool is run from.
var AndroidResDir = filepath.Join("android", "app", "src", "main", "res")

// VariableType is the declared type a variable's environment value is coerced to.
type VariableType string

const (
	String VariableType = "string"
	Number VariableType = "number"
	Array  VariableType = "array"
	Object VariableType = "object"
)

// ValidVariableTypes returns all supported variable types.
func ValidVariableTypes() []VariableType {
	return []VariableType{String, Number, Array, Object}
}

// IsValid checks whether the variable type is one of the known types.
func (t VariableType) IsValid() bool {
	switch t {
	case String, Number, Array, Object:
		return true
	}
	return false
}

// Variable is a single entry of the variable table.
type Variable struct {
	Value        any          `json:"value,omitempty" yaml:"value,omitempty" toml:"value,omitempty"`
	DefaultValue any          `json:"default,omitempty" yaml:"default,omitempty" toml:"default,omitempty"`
	Type         VariableType `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
}

// Variables maps variable names to their definitions or resolved values.
type Variables map[string]*Variable

// Names returns the variable names in sorted order.
func (v Variables) Names() []string {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResourceOperation describes one file to materialize under the Android
// resource root. Exactly one of Text or Source is expected to be set.
type ResourceOperation struct {
	Path   string `json:"path" yaml:"path" toml:"path"`
	File   string `json:"file" yaml:"file" toml:"file"`
	Text   string `json:"text,omitempty" yaml:"text,omitempty" toml:"text,omitempty"`
	Source string `json:"source,omitempty" yaml:"source,omitempty" toml:"source,omitempty"`
}

// Dir returns the directory the operation writes into, below rootDir.
func (op ResourceOperation) Dir(rootDir string) string {
	return filepath.Join(rootDir, AndroidResDir, op.Path)
}

// TargetPath returns the full path of the file the operation writes.
func (op ResourceOperation) TargetPath(rootDir string) string {
	return filepath.Join(op.Dir(rootDir), op.File)
}

// RelPath returns the target path relative to the directory the tool runs in.
func (op ResourceOperation) RelPath() string {
	return filepath.Join(AndroidResDir, op.Path, op.File)
}

// ErrOutsideResDir is returned for targets that resolve outside AndroidResDir.
var ErrOutsideResDir = errors.New("target is outside " + filepath.ToSlash(AndroidResDir))

// InResDir reports whether target lies strictly below the resource root of
// rootDir. Both paths are cleaned first, so ".." segments are resolved.
func InResDir(rootDir, target string) bool {
	rel, err := filepath.Rel(filepath.Join(rootDir, AndroidResDir), filepath.Clean(target))
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// CheckTarget returns ErrOutsideResDir when op would write outside the
// resource root of rootDir.
func (op ResourceOperation) CheckTarget(rootDir string) error {
	if !InResDir(rootDir, op.TargetPath(rootDir)) {
		return fmt.Errorf("%s/%s: %w", op.Path, op.File, ErrOutsideResDir)
	}
	return nil
}

// Coercion failure kinds.
var (
	ErrNotANumber  = errors.New("not a base-10 integer")
	ErrInvalidJSON = errors.New("invalid JSON")
	ErrUnknownType = errors.New("unknown variable type")
)

// CoercionError reports a raw value that could not be converted to the
// declared type of a variable.
type CoercionError struct {
	Name string
	Type VariableType
	Raw  string
	Kind error
	Err  error
}

func (e *CoercionError) Error() string {
	msg := fmt.Sprintf("coercing %s=%q to %s: %s", e.Name, e.Raw, e.Type, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the failure kind so callers can use errors.Is.
func (e *CoercionError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Coerce converts a raw environment value to the given variable type.
// Strings are returned unchanged, numbers are parsed as base-10 integers and
// arrays and objects are decoded as JSON.
func Coerce(name string, t VariableType, raw string) (any, error) {
	switch t {
	case String:
		return raw, nil
	case Number:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, &CoercionError{Name: name, Type: t, Raw: raw, Kind: ErrNotANumber, Err: err}
		}
		return n, nil
	case Array, Object:
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, &CoercionError{Name: name, Type: t, Raw: raw, Kind: ErrInvalidJSON, Err: err}
		}
		return v, nil
	}
	return nil, &CoercionError{Name: name, Type: t, Raw: raw, Kind: ErrUnknownType}
}
