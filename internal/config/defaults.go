package config

const (
	defaultDataFile   = "~/.local/share/roster/studentMarks.txt"
	defaultSQLitePath = "~/.local/share/roster/roster.db"
	defaultBackend    = BackendText
	defaultLogFormat  = "console"
	defaultLogLevel   = "info"
	defaultColorMode  = ColorAuto
	defaultSortKey    = "id"
	defaultConfigPath = "~/.config/roster/config.toml"
	projectConfigName = "roster.toml"
	dotEnvName        = ".env"
	lockSuffix        = ".lock"
	envDataFile       = "ROSTER_DATA_FILE"
	envStorageBackend = "ROSTER_STORAGE_BACKEND"
	envLogLevel       = "ROSTER_LOG_LEVEL"
)

// Storage backends.
const (
	BackendText   = "text"
	BackendSQLite = "sqlite"
)

// Color modes for table output.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataFile: defaultDataFile,
		},
		Storage: Storage{
			Backend:    defaultBackend,
			SQLitePath: defaultSQLitePath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Display: Display{
			Color:       defaultColorMode,
			DefaultSort: defaultSortKey,
		},
	}
}
