package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/cbout22/mobcfg/internal/config"
)

// DefaultManifestFiles lists the config files looked up in the working
// directory, in priority order.
var DefaultManifestFiles = []string{"mobcfg.yaml", "mobcfg.yml", "mobcfg.toml"}

// Manifest represents the full mobcfg config file: the variables the run
// declares and the operations to apply per platform.
type Manifest struct {
	Vars      config.Variables `json:"vars,omitempty" yaml:"vars,omitempty" toml:"vars,omitempty"`
	Platforms Platforms        `json:"platforms" yaml:"platforms" toml:"platforms"`
}

// Platforms groups operations by target platform.
type Platforms struct {
	Android Android `json:"android" yaml:"android" toml:"android"`
}

// Android holds the Android operation groups.
type Android struct {
	Res []config.ResourceOperation `json:"res,omitempty" yaml:"res,omitempty" toml:"res,omitempty"`
}

// New returns an empty Manifest with an initialised variable table.
func New() *Manifest {
	return &Manifest{Vars: make(config.Variables)}
}

// Find returns the first default manifest file present in dir. If none
// exists it returns the first default name so callers report a sensible path.
func Find(dir string) string {
	for _, name := range DefaultManifestFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return filepath.Join(dir, DefaultManifestFiles[0])
}

// Load reads and parses a config file. The format is chosen from the
// extension: .yaml/.yml, .toml or .json.
// If the file does not exist it returns an empty manifest (no error).
func Load(path string) (*Manifest, error) {
	m := New()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	if err := Decode(path, data, m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	if m.Vars == nil {
		m.Vars = make(config.Variables)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	return m, nil
}

// Decode unmarshals data into m using the format implied by path.
func Decode(path string, data []byte, m *Manifest) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, m)
	case ".toml":
		return toml.Unmarshal(data, m)
	case ".json":
		return json.Unmarshal(data, m)
	default:
		return fmt.Errorf("unsupported manifest format %q", ext)
	}
}

// Validate checks declared variable types and resource operation fields.
func (m *Manifest) Validate() error {
	for _, name := range m.Vars.Names() {
		v := m.Vars[name]
		if v == nil {
			m.Vars[name] = &config.Variable{}
			continue
		}
		if v.Type != "" && !v.Type.IsValid() {
			return fmt.Errorf("variable %s: invalid type %q (want one of %v)", name, v.Type, config.ValidVariableTypes())
		}
	}
	for i, op := range m.Platforms.Android.Res {
		if op.File == "" {
			return fmt.Errorf("android res operation %d: missing file", i)
		}
	}
	return nil
}

// ResourceOperations returns the Android resource operations in file order.
func (m *Manifest) ResourceOperations() []config.ResourceOperation {
	return m.Platforms.Android.Res
}
