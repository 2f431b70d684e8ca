package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains file locations for roster data.
type Paths struct {
	DataFile string `toml:"data_file" json:"data_file"`
	LockFile string `toml:"lock_file" json:"lock_file"`
}

// Storage selects the persistence backend.
type Storage struct {
	Backend    string `toml:"backend" json:"backend"`
	SQLitePath string `toml:"sqlite_path" json:"sqlite_path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format" json:"format"`
	Level  string `toml:"level" json:"level"`
	File   string `toml:"file" json:"file"`
}

// Display contains configuration for terminal output.
type Display struct {
	Color       string `toml:"color" json:"color"`
	DefaultSort string `toml:"default_sort" json:"default_sort"`
}

// Config encapsulates all configuration values for roster.
//
// Configuration sections:
//   - Paths: the flat data file and the writer lock file
//   - Storage: backend selection (text or sqlite)
//   - Logging: log format, level, and optional log file
//   - Display: table colors and the default list order
type Config struct {
	Paths   Paths   `toml:"paths" json:"paths"`
	Storage Storage `toml:"storage" json:"storage"`
	Logging Logging `toml:"logging" json:"logging"`
	Display Display `toml:"display" json:"display"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	env, err := loadEnv(dotEnvName)
	if err != nil {
		return nil, "", false, err
	}

	if err := cfg.normalize(env); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories holding the data, lock, and log
// files.
func (c *Config) EnsureDirectories() error {
	for _, file := range []string{c.StorePath(), c.LockPath(), c.Logging.File} {
		if strings.TrimSpace(file) == "" {
			continue
		}
		dir := filepath.Dir(file)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// StorePath returns the location of the active backend's data.
func (c *Config) StorePath() string {
	if c.Storage.Backend == BackendSQLite {
		return c.Storage.SQLitePath
	}
	return c.Paths.DataFile
}

// LockPath returns the writer lock file, defaulting to the store path plus
// ".lock".
func (c *Config) LockPath() string {
	if strings.TrimSpace(c.Paths.LockFile) != "" {
		return c.Paths.LockFile
	}
	return c.StorePath() + lockSuffix
}

// WithDataFile returns a copy of the config pointed at another text data
// file. The lock file follows the data file unless it was set explicitly.
func (c *Config) WithDataFile(path string) (*Config, error) {
	expanded, err := expandPath(strings.TrimSpace(path))
	if err != nil {
		return nil, fmt.Errorf("data file: %w", err)
	}
	clone := *c
	clone.Paths.DataFile = expanded
	clone.Storage.Backend = BackendText
	return &clone, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the config as TOML.
func (c *Config) Encode() (string, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return string(data), nil
}
