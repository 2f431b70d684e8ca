package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"roster/internal/config"
	"roster/internal/faults"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "roster", "studentMarks.txt")
	if cfg.Paths.DataFile != wantData {
		t.Fatalf("unexpected data file: got %q want %q", cfg.Paths.DataFile, wantData)
	}
	if cfg.Storage.Backend != config.BackendText {
		t.Fatalf("expected text backend by default, got %q", cfg.Storage.Backend)
	}
	if cfg.StorePath() != wantData {
		t.Fatalf("StorePath = %q, want %q", cfg.StorePath(), wantData)
	}
	if cfg.LockPath() != wantData+".lock" {
		t.Fatalf("LockPath = %q", cfg.LockPath())
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if cfg.Display.Color != config.ColorAuto || cfg.Display.DefaultSort != "id" {
		t.Fatalf("unexpected display defaults: %+v", cfg.Display)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	info, err := os.Stat(filepath.Dir(wantData))
	if err != nil || !info.IsDir() {
		t.Fatalf("expected data directory to exist: %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	t.Chdir(t.TempDir())
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "roster.toml")

	type payload struct {
		Paths struct {
			DataFile string `toml:"data_file"`
		} `toml:"paths"`
		Storage struct {
			Backend    string `toml:"backend"`
			SQLitePath string `toml:"sqlite_path"`
		} `toml:"storage"`
		Logging struct {
			Format string `toml:"format"`
			Level  string `toml:"level"`
		} `toml:"logging"`
		Display struct {
			DefaultSort string `toml:"default_sort"`
		} `toml:"display"`
	}
	custom := payload{}
	custom.Paths.DataFile = filepath.Join(tempDir, "marks.txt")
	custom.Storage.Backend = "SQLite"
	custom.Storage.SQLitePath = filepath.Join(tempDir, "roster.db")
	custom.Logging.Format = "JSON"
	custom.Logging.Level = "debug"
	custom.Display.DefaultSort = "Percentage"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Storage.Backend != config.BackendSQLite {
		t.Fatalf("expected normalized sqlite backend, got %q", cfg.Storage.Backend)
	}
	if cfg.StorePath() != custom.Storage.SQLitePath {
		t.Fatalf("StorePath = %q, want %q", cfg.StorePath(), custom.Storage.SQLitePath)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging: %+v", cfg.Logging)
	}
	if cfg.Display.DefaultSort != "percentage" {
		t.Fatalf("expected normalized sort key, got %q", cfg.Display.DefaultSort)
	}
}

func TestEnvOverridesConfigFile(t *testing.T) {
	workDir := t.TempDir()
	t.Chdir(workDir)
	configPath := filepath.Join(t.TempDir(), "roster.toml")
	content := "[paths]\ndata_file = \"/tmp/from-file.txt\"\n[logging]\nlevel = \"warn\"\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	envData := filepath.Join(workDir, "env.txt")
	t.Setenv("ROSTER_DATA_FILE", envData)
	t.Setenv("ROSTER_LOG_LEVEL", "ERROR")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.DataFile != envData {
		t.Errorf("expected data file from env, got %q", cfg.Paths.DataFile)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("expected log level from env, got %q", cfg.Logging.Level)
	}
}

func TestDotEnvFileSuppliesOverrides(t *testing.T) {
	workDir := t.TempDir()
	t.Chdir(workDir)
	t.Setenv("HOME", t.TempDir())
	dotenv := "ROSTER_DATA_FILE=dotenv-marks.txt\nROSTER_STORAGE_BACKEND=text\n"
	if err := os.WriteFile(filepath.Join(workDir, ".env"), []byte(dotenv), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want, err := filepath.Abs("dotenv-marks.txt")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Paths.DataFile != want {
		t.Fatalf("expected data file from .env, got %q want %q", cfg.Paths.DataFile, want)
	}

	// The process environment wins over .env.
	t.Setenv("ROSTER_DATA_FILE", filepath.Join(workDir, "process.txt"))
	cfg, _, _, err = config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if filepath.Base(cfg.Paths.DataFile) != "process.txt" {
		t.Fatalf("expected process env to win, got %q", cfg.Paths.DataFile)
	}
}

func TestProjectConfigFileIsDiscovered(t *testing.T) {
	workDir := t.TempDir()
	t.Chdir(workDir)
	t.Setenv("HOME", t.TempDir())
	if err := os.WriteFile(filepath.Join(workDir, "roster.toml"), []byte("[display]\ncolor = \"never\"\n"), 0o644); err != nil {
		t.Fatalf("write project config: %v", err)
	}

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || filepath.Base(resolved) != "roster.toml" {
		t.Fatalf("expected project config to be used, got %q exists=%v", resolved, exists)
	}
	if cfg.Display.Color != config.ColorNever {
		t.Fatalf("expected color never, got %q", cfg.Display.Color)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "studentMarks.txt") {
		t.Fatalf("sample config missing data file: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Storage.Backend != config.BackendText {
		t.Fatalf("expected sample backend text, got %q", cfg.Storage.Backend)
	}
}

func TestWithDataFileSwitchesToText(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Backend = config.BackendSQLite
	dir := t.TempDir()
	clone, err := cfg.WithDataFile(filepath.Join(dir, "other.txt"))
	if err != nil {
		t.Fatalf("WithDataFile: %v", err)
	}
	if clone.Storage.Backend != config.BackendText {
		t.Fatalf("expected text backend, got %q", clone.Storage.Backend)
	}
	if clone.LockPath() != filepath.Join(dir, "other.txt.lock") {
		t.Fatalf("unexpected lock path %q", clone.LockPath())
	}
	if cfg.Storage.Backend != config.BackendSQLite {
		t.Fatal("expected original config to be untouched")
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{name: "empty data file", mutate: func(c *config.Config) { c.Paths.DataFile = "" }},
		{name: "lock equals data", mutate: func(c *config.Config) { c.Paths.LockFile = c.Paths.DataFile }},
		{name: "unknown backend", mutate: func(c *config.Config) { c.Storage.Backend = "csv" }},
		{name: "sqlite without path", mutate: func(c *config.Config) { c.Storage.Backend = config.BackendSQLite; c.Storage.SQLitePath = "" }},
		{name: "bad level", mutate: func(c *config.Config) { c.Logging.Level = "verbose" }},
		{name: "bad color", mutate: func(c *config.Config) { c.Display.Color = "rainbow" }},
		{name: "bad sort", mutate: func(c *config.Config) { c.Display.DefaultSort = "grade" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, faults.ErrConfiguration) {
				t.Fatalf("expected configuration error, got %v", err)
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}
