package config

import (
	"fmt"
	"slices"
	"strings"

	"roster/internal/faults"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validateDisplay()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataFile) == "" {
		return invalid("paths.data_file must be set")
	}
	if c.LockPath() == c.StorePath() {
		return invalid("paths.lock_file must differ from the data file")
	}
	return nil
}

func (c *Config) validateStorage() error {
	switch c.Storage.Backend {
	case BackendText:
	case BackendSQLite:
		if strings.TrimSpace(c.Storage.SQLitePath) == "" {
			return invalid("storage.sqlite_path must be set when storage.backend is sqlite")
		}
	default:
		return invalid("storage.backend must be one of text, sqlite (got %q)", c.Storage.Backend)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.Logging.Level) {
		return invalid("logging.level must be one of debug, info, warn, error (got %q)", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateDisplay() error {
	if !slices.Contains([]string{ColorAuto, ColorAlways, ColorNever}, c.Display.Color) {
		return invalid("display.color must be one of auto, always, never (got %q)", c.Display.Color)
	}
	if !slices.Contains([]string{"id", "name", "percentage"}, c.Display.DefaultSort) {
		return invalid("display.default_sort must be one of id, name, percentage (got %q)", c.Display.DefaultSort)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", faults.ErrConfiguration, fmt.Sprintf(format, args...))
}
