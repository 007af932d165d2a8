// Package config resolves lifetrack configuration: built-in defaults, then an
// optional YAML file, then LIFETRACK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration document.
type Config struct {
	Storage  Storage `yaml:"storage"`
	Log      Log     `yaml:"log"`
	Currency string  `yaml:"currency"`
}

// Storage selects and parameterises the slot store backend.
type Storage struct {
	Driver      string `yaml:"driver"`
	SQLitePath  string `yaml:"sqlitePath"`
	PostgresDSN string `yaml:"postgresDSN"`
	BadgerPath  string `yaml:"badgerPath"`
	FSRoot      string `yaml:"fsRoot"`
	S3          S3     `yaml:"s3"`
}

// S3 configures the s3 driver. Empty credentials use the default AWS chain.
type S3 struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	PathStyle       bool   `yaml:"pathStyle"`
	Prefix          string `yaml:"prefix"`
	AccessKeyID     string `yaml:"accessKeyID"`
	SecretAccessKey string `yaml:"secretAccessKey"`
}

// Log configures the process logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Driver names accepted by Storage.Driver.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverBadger   = "badger"
	DriverFS       = "fs"
	DriverS3       = "s3"
)

// DefaultDir is the per-user data directory, relative to the home directory.
const DefaultDir = ".lifetrack"

// Default returns the built-in configuration rooted at home.
func Default(home string) Config {
	base := filepath.Join(home, DefaultDir)
	return Config{
		Storage: Storage{
			Driver:     DriverSQLite,
			SQLitePath: filepath.Join(base, "lifetrack.db"),
			BadgerPath: filepath.Join(base, "badger"),
			FSRoot:     filepath.Join(base, "slots"),
			S3:         S3{Region: "us-east-1", Prefix: "lifetrack/"},
		},
		Log:      Log{Level: "warn", Format: "text"},
		Currency: "USD",
	}
}

// DefaultPath returns the config file consulted when no path is given.
func DefaultPath(home string) string {
	return filepath.Join(home, DefaultDir, "config.yaml")
}

// Load builds the effective configuration. An explicit path must exist; the
// default path is optional.
func Load(path string) (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("could not find the user's home directory: %w", err)
	}
	return LoadFrom(home, path, os.LookupEnv)
}

// LoadFrom is Load with the home directory and environment lookup supplied.
func LoadFrom(home, path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default(home)
	explicit := path != ""
	if !explicit {
		path = DefaultPath(home)
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := applyEnv(&cfg, lookup); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	strs := []struct {
		name string
		dst  *string
	}{
		{"LIFETRACK_STORAGE_DRIVER", &cfg.Storage.Driver},
		{"LIFETRACK_SQLITE_PATH", &cfg.Storage.SQLitePath},
		{"LIFETRACK_POSTGRES_DSN", &cfg.Storage.PostgresDSN},
		{"LIFETRACK_BADGER_PATH", &cfg.Storage.BadgerPath},
		{"LIFETRACK_FS_ROOT", &cfg.Storage.FSRoot},
		{"LIFETRACK_S3_BUCKET", &cfg.Storage.S3.Bucket},
		{"LIFETRACK_S3_REGION", &cfg.Storage.S3.Region},
		{"LIFETRACK_S3_ENDPOINT", &cfg.Storage.S3.Endpoint},
		{"LIFETRACK_S3_PREFIX", &cfg.Storage.S3.Prefix},
		{"LIFETRACK_S3_ACCESS_KEY_ID", &cfg.Storage.S3.AccessKeyID},
		{"LIFETRACK_S3_SECRET_ACCESS_KEY", &cfg.Storage.S3.SecretAccessKey},
		{"LIFETRACK_LOG_LEVEL", &cfg.Log.Level},
		{"LIFETRACK_LOG_FORMAT", &cfg.Log.Format},
		{"LIFETRACK_CURRENCY", &cfg.Currency},
	}
	for _, s := range strs {
		if v, ok := lookup(s.name); ok && v != "" {
			*s.dst = v
		}
	}
	if v, ok := lookup("LIFETRACK_S3_PATH_STYLE"); ok && v != "" {
		switch strings.ToLower(v) {
		case "true", "1", "yes":
			cfg.Storage.S3.PathStyle = true
		case "false", "0", "no":
			cfg.Storage.S3.PathStyle = false
		default:
			return fmt.Errorf("LIFETRACK_S3_PATH_STYLE: invalid boolean %q", v)
		}
	}
	return nil
}

// Validate reports configuration that cannot open a backend.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverSQLite, DriverPostgres, DriverBadger, DriverFS:
	case DriverS3:
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket required for s3 driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	return nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
