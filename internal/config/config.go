// Package config provides configuration management for facetscope.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/thebtf/facetscope/pkg/models"
)

// EnvPrefix prefixes every settings key and environment variable.
const EnvPrefix = "FACETSCOPE_"

// Config holds the application configuration.
type Config struct {
	// Formula settings
	Formula *models.FormulaConfig `json:"formula"`

	// Evidence file used by the CLI when none is given on the command line.
	EvidencePath string `json:"evidence_path"`
}

// settingKeys maps settings keys (without prefix) to the formula field they set.
var settingKeys = map[string]func(*models.FormulaConfig) *float64{
	"C_MAX":          func(c *models.FormulaConfig) *float64 { return &c.ConfidenceMax },
	"K":              func(c *models.FormulaConfig) *float64 { return &c.ConfidenceRate },
	"C_TARGET":       func(c *models.FormulaConfig) *float64 { return &c.ConfidenceTarget },
	"P_TARGET":       func(c *models.FormulaConfig) *float64 { return &c.SignalPowerTarget },
	"ALPHA":          func(c *models.FormulaConfig) *float64 { return &c.Alpha },
	"BETA":           func(c *models.FormulaConfig) *float64 { return &c.Beta },
	"BETA_VOLUME":    func(c *models.FormulaConfig) *float64 { return &c.VolumeRate },
	"LAMBDA":         func(c *models.FormulaConfig) *float64 { return &c.SwitchPenalty },
	"C_BAR":          func(c *models.FormulaConfig) *float64 { return &c.ExpectedConfidence },
	"EPSILON":        func(c *models.FormulaConfig) *float64 { return &c.Epsilon },
	"SCORE_MIDPOINT": func(c *models.FormulaConfig) *float64 { return &c.ScoreMidpoint },
}

// DataDir returns the data directory path (~/.facetscope).
func DataDir() string {
	if dir := os.Getenv(EnvPrefix + "DATA_DIR"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".facetscope")
}

// SettingsPath returns the settings file path.
func SettingsPath() string {
	return filepath.Join(DataDir(), "settings.json")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0750)
}

// EnsureSettings creates a default settings file if it doesn't exist.
func EnsureSettings() error {
	path := SettingsPath()

	if _, err := os.Stat(path); err == nil {
		return nil
	}

	defaultSettings := `{
  "FACETSCOPE_C_MAX": 0.9,
  "FACETSCOPE_K": 0.7,
  "FACETSCOPE_BETA_VOLUME": 0.7,
  "FACETSCOPE_LAMBDA": 0.3
}
`
	return os.WriteFile(path, []byte(defaultSettings), 0600)
}

// EnsureAll ensures all required directories and files exist.
func EnsureAll() error {
	if err := EnsureDataDir(); err != nil {
		return err
	}
	return EnsureSettings()
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Formula: models.DefaultFormulaConfig(),
	}
}

// Load loads configuration from the default settings file.
func Load() (*Config, error) {
	return LoadFile(SettingsPath())
}

// LoadFile loads configuration from path, merging with defaults, then applies
// environment overrides. A missing file is not an error. A file that cannot be
// parsed, or settings that produce an invalid formula, return defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	settings, err := readSettings(path)
	var perr *parseError
	switch {
	case err == nil:
	case os.IsNotExist(err):
		settings = map[string]interface{}{}
	case errors.As(err, &perr):
		return Default(), err
	default:
		return nil, err
	}

	for key, field := range settingKeys {
		if v, ok := toFloat(settings[EnvPrefix+key]); ok {
			*field(cfg.Formula) = v
		}
	}
	if v, ok := settings[EnvPrefix+"EVIDENCE_PATH"].(string); ok {
		cfg.EvidencePath = v
	}

	applyEnv(cfg)

	if err := cfg.Formula.Validate(); err != nil {
		return Default(), fmt.Errorf("invalid formula settings in %s: %w", path, err)
	}
	return cfg, nil
}

type parseError struct {
	path string
	err  error
}

func (e *parseError) Error() string { return fmt.Sprintf("parse %s: %v", e.path, e.err) }
func (e *parseError) Unwrap() error { return e.err }

// readSettings reads a flat settings map from a JSON or YAML file.
func readSettings(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var settings map[string]interface{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &settings)
	default:
		err = json.Unmarshal(data, &settings)
	}
	if err != nil {
		return nil, &parseError{path: path, err: err}
	}
	return settings, nil
}

// applyEnv overrides formula settings from FACETSCOPE_* environment variables.
func applyEnv(cfg *Config) {
	for key, field := range settingKeys {
		raw := os.Getenv(EnvPrefix + key)
		if raw == "" {
			continue
		}
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			*field(cfg.Formula) = v
		}
	}
	if v := os.Getenv(EnvPrefix + "EVIDENCE_PATH"); v != "" {
		cfg.EvidencePath = v
	}
}

// toFloat accepts the numeric types produced by the JSON and YAML decoders.
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
