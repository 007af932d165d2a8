package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func envOf(vals map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vals[k]
		return v, ok
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	home := t.TempDir()
	cfg, err := LoadFrom(home, "", envOf(nil))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Storage.Driver != DriverSQLite {
		t.Fatalf("driver = %q", cfg.Storage.Driver)
	}
	if want := filepath.Join(home, ".lifetrack", "lifetrack.db"); cfg.Storage.SQLitePath != want {
		t.Fatalf("sqlite path = %q, want %q", cfg.Storage.SQLitePath, want)
	}
	if cfg.Currency != "USD" || cfg.Log.Level != "warn" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadPrecedence(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, "cfg.yaml")
	doc := "storage:\n  driver: badger\n  badgerPath: /tmp/from-file\ncurrency: EUR\nlog:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadFrom(home, path, envOf(map[string]string{
		"LIFETRACK_STORAGE_DRIVER": "memory",
		"LIFETRACK_CURRENCY":       "",
	}))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Storage.Driver != DriverMemory {
		t.Fatalf("env should win over file, got %q", cfg.Storage.Driver)
	}
	if cfg.Storage.BadgerPath != "/tmp/from-file" || cfg.Currency != "EUR" || cfg.Log.Level != "debug" {
		t.Fatalf("file should win over defaults, got %+v", cfg)
	}
	if cfg.Log.Format != "text" {
		t.Fatalf("absent file keys keep defaults, got %q", cfg.Log.Format)
	}
}

func TestLoadErrors(t *testing.T) {
	home := t.TempDir()
	bad := filepath.Join(home, "bad.yaml")
	if err := os.WriteFile(bad, []byte("storage: [\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cases := []struct {
		name string
		path string
		env  map[string]string
		want string
	}{
		{"missing explicit file", filepath.Join(home, "nope.yaml"), nil, "read config"},
		{"malformed yaml", bad, nil, "parse config"},
		{"unknown driver", "", map[string]string{"LIFETRACK_STORAGE_DRIVER": "floppy"}, "unknown storage driver"},
		{"s3 without bucket", "", map[string]string{"LIFETRACK_STORAGE_DRIVER": "s3"}, "bucket required"},
		{"bad path style", "", map[string]string{"LIFETRACK_S3_PATH_STYLE": "maybe"}, "invalid boolean"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadFrom(home, tc.path, envOf(tc.env))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestS3EnvOverrides(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir(), "", envOf(map[string]string{
		"LIFETRACK_STORAGE_DRIVER": "s3",
		"LIFETRACK_S3_BUCKET":      "tracker",
		"LIFETRACK_S3_PATH_STYLE":  "true",
		"LIFETRACK_S3_ENDPOINT":    "http://localhost:9000",
	}))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	s3 := cfg.Storage.S3
	if s3.Bucket != "tracker" || !s3.PathStyle || s3.Endpoint != "http://localhost:9000" || s3.Prefix != "lifetrack/" {
		t.Fatalf("unexpected s3 config %+v", s3)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	home := t.TempDir()
	data, err := Marshal(Default(home))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	path := DefaultPath(home)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadFrom(home, "", envOf(nil))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg != Default(home) {
		t.Fatalf("round trip mismatch: %+v", cfg)
	}
}
