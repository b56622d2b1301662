// Package config holds the dialect flags that gate tokenizer, parser and
// checker behavior, and loads them from TOML or YAML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"tpyparser/internal/token"
)

// Config is the dialect record read by every analysis call.
type Config struct {
	PythonVersion               int    `toml:"python_version" yaml:"python_version" json:"pythonVersion"`
	NewDivision                 bool   `toml:"new_division" yaml:"new_division" json:"newDivision"`
	EvalMode                    bool   `toml:"eval_mode" yaml:"eval_mode" json:"evalMode"`
	RejectDeadCode              bool   `toml:"reject_dead_code" yaml:"reject_dead_code" json:"rejectDeadCode"`
	RepeatStatement             bool   `toml:"repeat_statement" yaml:"repeat_statement" json:"repeatStatement"`
	SagePower                   bool   `toml:"sage_power" yaml:"sage_power" json:"sagePower"`
	TranslateUnicodePunctuation bool   `toml:"translate_unicode_punctuation" yaml:"translate_unicode_punctuation" json:"translateUnicodePunctuation"`
	WarningAsErrors             bool   `toml:"warning_as_errors" yaml:"warning_as_errors" json:"warningAsErrors"`
	Language                    string `toml:"language" yaml:"language" json:"language,omitempty"`
	// Modules maps module names to stub files loaded at startup.
	Modules map[string]string `toml:"modules" yaml:"modules" json:"modules,omitempty"`
}

// Default returns the documented defaults: Python 3 with true division.
func Default() Config {
	return Config{
		PythonVersion: 3,
		NewDivision:   true,
	}
}

// Dialect projects the flags the tokenizer needs.
func (c Config) Dialect() token.Dialect {
	return token.Dialect{PythonVersion: c.PythonVersion, RepeatStatement: c.RepeatStatement}
}

// IsPython2 reports whether the Python 2 grammar is selected.
func (c Config) IsPython2() bool {
	return c.PythonVersion < 3
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.PythonVersion != 2 && c.PythonVersion != 3 {
		return fmt.Errorf("python_version must be 2 or 3, got %d", c.PythonVersion)
	}
	return nil
}

// Load reads a config file; the format is chosen by extension (.toml, .yaml, .yml).
// Fields missing from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode %s: %w", path, err)
		}
	case ".yaml", ".yml":
		// #nosec G304 -- path is provided by the caller
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode %s: %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format %q", ext)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	// относительные пути модулей считаем от файла конфигурации
	dir := filepath.Dir(path)
	for name, p := range cfg.Modules {
		if !filepath.IsAbs(p) {
			cfg.Modules[name] = filepath.Join(dir, p)
		}
	}
	return cfg, nil
}
