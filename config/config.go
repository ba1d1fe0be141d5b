package config

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml"

	"github.com/Yamashou/uibindgen/marker"
)

// Filenames lists the config file names FindConfigFile looks for, in order.
var Filenames = []string{".uibindgen.yml", "uibindgen.yml", ".uibindgen.yaml", "uibindgen.yaml", "uibindgen.toml"}

const (
	defaultBase               = "VisualElement"
	defaultTraitGenSuffix     = "ui"
	defaultComponentGenSuffix = "components"
	defaultMarkersPackage     = "uibind"
)

// Config represents the config file.
type Config struct {
	Packages     []string           `yaml:"packages" toml:"packages"`
	Framework    FrameworkConfig    `yaml:"framework" toml:"framework"`
	TraitGen     TraitGenConfig     `yaml:"traitgen,omitempty" toml:"traitgen"`
	ComponentGen ComponentGenConfig `yaml:"componentgen,omitempty" toml:"componentgen"`
	Markers      MarkersConfig      `yaml:"markers,omitempty" toml:"markers"`
	Cache        CacheConfig        `yaml:"cache,omitempty" toml:"cache"`

	// Dir is the directory of the config file. Relative paths resolve
	// against it.
	Dir string `yaml:"-" toml:"-"`
}

// FrameworkConfig locates the UI framework package generated code uses.
type FrameworkConfig struct {
	Import string `yaml:"import" toml:"import"`
	Alias  string `yaml:"alias,omitempty" toml:"alias"`
}

// TraitGenConfig configures the trait and element binding generator.
type TraitGenConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty" toml:"enabled"`
	Base    string `yaml:"base,omitempty" toml:"base"`
	Suffix  string `yaml:"suffix,omitempty" toml:"suffix"`
}

// IsEnabled reports whether the generator runs. It defaults to true.
func (c TraitGenConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// ComponentGenConfig configures the component acquisition generator.
type ComponentGenConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty" toml:"enabled"`
	Base    string `yaml:"base,omitempty" toml:"base"`
	Suffix  string `yaml:"suffix,omitempty" toml:"suffix"`
	// StrictScope rejects unknown component scopes. It defaults to true;
	// when false they fall back to This with a warning.
	StrictScope *bool `yaml:"strict_scope,omitempty" toml:"strict_scope"`
	// ComponentBase, when set, is the type every component member must be or
	// embed. Other members are skipped with a warning.
	ComponentBase string `yaml:"component_base,omitempty" toml:"component_base"`
}

// IsEnabled reports whether the generator runs. It defaults to true.
func (c ComponentGenConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// IsStrictScope reports whether unknown scopes are errors.
func (c ComponentGenConfig) IsStrictScope() bool {
	return c.StrictScope == nil || *c.StrictScope
}

// MarkersConfig places the marker declarations file.
type MarkersConfig struct {
	Dir      string `yaml:"dir,omitempty" toml:"dir"`
	Package  string `yaml:"package,omitempty" toml:"package"`
	Filename string `yaml:"filename,omitempty" toml:"filename"`
}

// CacheConfig enables the incremental cache when Filename is set.
type CacheConfig struct {
	Filename string `yaml:"filename,omitempty" toml:"filename"`
}

// LoadConfig loads and parses the uibindgen config.
func LoadConfig(configFilename string) (*Config, error) {
	configContent, err := os.ReadFile(configFilename)
	if err != nil {
		return nil, fmt.Errorf("unable to read config: %w", err)
	}

	var c Config

	content := []byte(os.ExpandEnv(string(configContent)))
	if strings.EqualFold(filepath.Ext(configFilename), ".toml") {
		if err := toml.NewDecoder(bytes.NewReader(content)).Strict(true).Decode(&c); err != nil {
			return nil, fmt.Errorf("unable to parse config: %w", err)
		}
	} else {
		yamlDecoder := yaml.NewDecoder(bytes.NewReader(content), yaml.DisallowUnknownField())
		if err := yamlDecoder.Decode(&c); err != nil {
			return nil, fmt.Errorf("unable to parse config: %w", err)
		}
	}

	dir, err := filepath.Abs(filepath.Dir(configFilename))
	if err != nil {
		return nil, fmt.Errorf("unable to resolve config dir: %w", err)
	}
	c.Dir = dir

	c.applyDefaults()

	if err := c.Check(); err != nil {
		return nil, err
	}

	return &c, nil
}

// Default returns a config with every default filled in for the given
// framework import path.
func Default(frameworkImport string) *Config {
	c := &Config{
		Framework: FrameworkConfig{Import: frameworkImport},
	}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if len(c.Packages) == 0 {
		c.Packages = []string{"./..."}
	}
	if c.Framework.Alias == "" && c.Framework.Import != "" {
		c.Framework.Alias = DefaultAlias(c.Framework.Import)
	}

	if c.TraitGen.Base == "" {
		c.TraitGen.Base = defaultBase
	}
	if c.TraitGen.Suffix == "" {
		c.TraitGen.Suffix = defaultTraitGenSuffix
	}

	if c.ComponentGen.Base == "" {
		c.ComponentGen.Base = defaultBase
	}
	if c.ComponentGen.Suffix == "" {
		c.ComponentGen.Suffix = defaultComponentGenSuffix
	}

	if c.Markers.Package == "" {
		c.Markers.Package = defaultMarkersPackage
	}
	if c.Markers.Dir == "" {
		c.Markers.Dir = c.Markers.Package
	}
	if c.Markers.Filename == "" {
		c.Markers.Filename = marker.DeclarationsFilename
	}
}

// DefaultAlias guesses the package name of importPath the way goimports
// does: a trailing major version element ("/v2") and a gopkg.in version
// suffix (".v3") are not part of the name.
func DefaultAlias(importPath string) string {
	dir, base := path.Split(importPath)
	if isMajorVersion(base) && dir != "" {
		base = path.Base(dir)
	}
	if i := strings.LastIndex(base, ".v"); i > 0 && isMajorVersion(base[i+1:]) {
		base = base[:i]
	}
	return base
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Check validates a config with defaults applied.
func (c *Config) Check() error {
	if c.Framework.Import == "" {
		return errors.New("'framework.import' must be set to the import path of the UI framework package")
	}
	if !token.IsIdentifier(c.Framework.Alias) {
		return fmt.Errorf("'framework.alias' %q is not a valid identifier", c.Framework.Alias)
	}

	if !c.TraitGen.IsEnabled() && !c.ComponentGen.IsEnabled() {
		return errors.New("neither 'traitgen' nor 'componentgen' is enabled")
	}
	if c.TraitGen.IsEnabled() && c.ComponentGen.IsEnabled() && c.TraitGen.Suffix == c.ComponentGen.Suffix {
		return fmt.Errorf("'traitgen.suffix' and 'componentgen.suffix' are both %q", c.TraitGen.Suffix)
	}

	if !token.IsIdentifier(c.Markers.Package) {
		return fmt.Errorf("'markers.package' %q is not a valid identifier", c.Markers.Package)
	}
	if filepath.Ext(c.Markers.Filename) != ".go" {
		return fmt.Errorf("'markers.filename' %q must end in .go", c.Markers.Filename)
	}

	return nil
}

// Path resolves p against the config directory.
func (c *Config) Path(p string) string {
	if filepath.IsAbs(p) || c.Dir == "" {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// FindConfigFile searches dir and its parents for a config file.
func FindConfigFile(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("unable to resolve dir: %w", err)
	}

	for {
		for _, name := range Filenames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("unable to find config: none of %s found", strings.Join(Filenames, ", "))
		}
		dir = parent
	}
}
