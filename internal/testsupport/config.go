package testsupport

import (
	"path/filepath"
	"testing"

	"roster/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose data, database, and lock paths all live
// in a per-test temp directory.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataFile = filepath.Join(base, "data", "studentMarks.txt")
	cfgVal.Storage.SQLitePath = filepath.Join(base, "data", "roster.db")
	cfgVal.Display.Color = config.ColorNever

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithSQLite switches the test config to the SQLite backend.
func WithSQLite() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Storage.Backend = config.BackendSQLite
	}
}

// WithDefaultSort sets the display sort key.
func WithDefaultSort(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Display.DefaultSort = key
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(filepath.Dir(cfg.Paths.DataFile))
}
