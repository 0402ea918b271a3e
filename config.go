package typemock

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the .typemock.yaml configuration file.
type Config struct {
	// Source is the declaration file used when a command is given none.
	Source string `yaml:"source,omitempty"`

	// Format is the default output format: json, yaml or tree.
	Format string `yaml:"format,omitempty"`

	// Workers bounds how many files are extracted in parallel.
	Workers int `yaml:"workers,omitempty"`

	Log LogConfig `yaml:"log,omitempty"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level,omitempty"`

	// File enables a rotating log file in addition to stderr.
	File       string `yaml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb,omitempty"`
	MaxBackups int    `yaml:"max_backups,omitempty"`
	MaxAgeDays int    `yaml:"max_age_days,omitempty"`
}

// Defaults applied by WithDefaults.
const (
	DefaultFormat     = FormatTree
	DefaultWorkers    = 8
	DefaultLogLevel   = "info"
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 28
)

// WithDefaults returns a copy of c with unset fields filled in.
func (c *Config) WithDefaults() *Config {
	out := Config{}
	if c != nil {
		out = *c
	}

	if out.Format == "" {
		out.Format = DefaultFormat
	}

	if out.Workers <= 0 {
		out.Workers = DefaultWorkers
	}

	if out.Log.Level == "" {
		out.Log.Level = DefaultLogLevel
	}

	if out.Log.MaxSizeMB <= 0 {
		out.Log.MaxSizeMB = DefaultMaxSizeMB
	}

	if out.Log.MaxBackups <= 0 {
		out.Log.MaxBackups = DefaultMaxBackups
	}

	if out.Log.MaxAgeDays <= 0 {
		out.Log.MaxAgeDays = DefaultMaxAgeDays
	}

	return &out
}

// DefaultConfigNames are the filenames we search for.
var DefaultConfigNames = []string{".typemock.yaml", ".typemock.yml", "typemock.yaml", "typemock.yml"}

// LoadConfig finds and loads the nearest .typemock.yaml walking up from dir.
// A relative Source is resolved against the config file's directory.
func LoadConfig(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}

	return LoadConfigFile(path)
}

// FindConfig searches for a config file starting from dir and walking up.
func FindConfig(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for dir := absDir; ; {
		for _, name := range DefaultConfigNames {
			path := filepath.Join(dir, name)

			_, err := os.Stat(path)
			if err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrConfigNotFound
		}

		dir = parent
	}
}

// LoadConfigFile loads a config from a specific path.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	var cfg Config

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Source != "" && !filepath.IsAbs(cfg.Source) {
		cfg.Source = filepath.Join(filepath.Dir(path), cfg.Source)
	}

	return &cfg, nil
}
