package config

import "github.com/idilsaglam/tierlist/internal/store"

const (
	defaultConfigPath      = "~/.config/tierlist/config.toml"
	defaultStorageBackend  = BackendFile
	defaultStorageDir      = "~/.local/share/tierlist"
	defaultRedisAddr       = "127.0.0.1:6379"
	defaultUnratedPosition = "last"
	defaultStatus          = "COMPLETED"
	defaultSearchEndpoint  = "https://graphql.anilist.co"
	defaultSearchPerPage   = 8
	defaultMinQueryLength  = 2
	defaultDebounceMS      = 300
	defaultSearchTimeout   = 10
	defaultLogLevel        = "info"
	defaultLogFormat       = "text"
	defaultLogFile         = "~/.local/state/tierlist/tierlist.log"
	defaultTheme           = "classic"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Storage: Storage{
			Backend:   defaultStorageBackend,
			Dir:       defaultStorageDir,
			Key:       store.DefaultKey,
			RedisAddr: defaultRedisAddr,
		},
		Board: Board{
			UnratedPosition: defaultUnratedPosition,
			DefaultStatus:   defaultStatus,
		},
		Search: Search{
			Enabled:        true,
			Endpoint:       defaultSearchEndpoint,
			PerPage:        defaultSearchPerPage,
			MinQueryLength: defaultMinQueryLength,
			DebounceMS:     defaultDebounceMS,
			TimeoutSeconds: defaultSearchTimeout,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
			File:   defaultLogFile,
		},
		UI: UI{Theme: defaultTheme},
	}
}
