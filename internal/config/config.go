// Package config loads HawkDB's YAML configuration file.
package config

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/hawkdb/hawkdb/internal/errs"
)

// EnvPath is the environment variable that overrides the config file path.
const EnvPath = "HAWKDB_CONFIG"

// Config is the full application configuration.
type Config struct {
	// Listen is the HTTP listen address of the presentation API.
	Listen string `yaml:"listen"`

	// Driver selects the session driver: "mysql" or "postgres".
	Driver string `yaml:"driver"`

	// ProfilePath is the INI file holding saved connection profiles.
	ProfilePath string `yaml:"profile_path"`

	// ExportDir is where export files are written.
	ExportDir string `yaml:"export_dir"`

	Log         LogConfig         `yaml:"log"`
	ObjectStore ObjectStoreConfig `yaml:"object_store"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// ObjectStoreConfig enables publication of export artifacts when Endpoint
// is set. Empty Endpoint disables the feature.
type ObjectStoreConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
	Bucket    string `yaml:"bucket"`
}

// Enabled reports whether export publication is configured.
func (o ObjectStoreConfig) Enabled() bool {
	return o.Endpoint != ""
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Listen:      ":8080",
		Driver:      "mysql",
		ProfilePath: "data/hawkdb_config.ini",
		ExportDir:   "exports",
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error — first runs work with defaults alone.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindIOFailure,
			fmt.Sprintf("cannot read config file %s", path), err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput,
			fmt.Sprintf("cannot parse config file %s", path), err)
	}
	return cfg, nil
}
