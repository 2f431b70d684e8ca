package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// envLookup resolves overrides from the process environment first and the
// working directory's .env file second.
type envLookup struct {
	dotenv map[string]string
}

func loadEnv(path string) (envLookup, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return envLookup{}, nil
		}
		return envLookup{}, fmt.Errorf("read %s: %w", path, err)
	}
	return envLookup{dotenv: values}, nil
}

func (e envLookup) get(key string) (string, bool) {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value), true
	}
	if value, ok := e.dotenv[key]; ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value), true
	}
	return "", false
}

func (c *Config) normalize(env envLookup) error {
	if err := c.normalizePaths(env); err != nil {
		return err
	}
	if err := c.normalizeStorage(env); err != nil {
		return err
	}
	if err := c.normalizeLogging(env); err != nil {
		return err
	}
	c.normalizeDisplay()
	return nil
}

func (c *Config) normalizePaths(env envLookup) error {
	var err error
	if value, ok := env.get(envDataFile); ok {
		c.Paths.DataFile = value
	}
	if strings.TrimSpace(c.Paths.DataFile) == "" {
		c.Paths.DataFile = defaultDataFile
	}
	if c.Paths.DataFile, err = expandPath(strings.TrimSpace(c.Paths.DataFile)); err != nil {
		return fmt.Errorf("paths.data_file: %w", err)
	}
	if c.Paths.LockFile, err = expandPath(strings.TrimSpace(c.Paths.LockFile)); err != nil {
		return fmt.Errorf("paths.lock_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeStorage(env envLookup) error {
	var err error
	if value, ok := env.get(envStorageBackend); ok {
		c.Storage.Backend = value
	}
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if c.Storage.Backend == "" {
		c.Storage.Backend = defaultBackend
	}
	if strings.TrimSpace(c.Storage.SQLitePath) == "" {
		c.Storage.SQLitePath = defaultSQLitePath
	}
	if c.Storage.SQLitePath, err = expandPath(strings.TrimSpace(c.Storage.SQLitePath)); err != nil {
		return fmt.Errorf("storage.sqlite_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging(env envLookup) error {
	var err error
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	if value, ok := env.get(envLogLevel); ok {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	return nil
}

func (c *Config) normalizeDisplay() {
	c.Display.Color = strings.ToLower(strings.TrimSpace(c.Display.Color))
	if c.Display.Color == "" {
		c.Display.Color = defaultColorMode
	}
	c.Display.DefaultSort = strings.ToLower(strings.TrimSpace(c.Display.DefaultSort))
	if c.Display.DefaultSort == "" {
		c.Display.DefaultSort = defaultSortKey
	}
}
