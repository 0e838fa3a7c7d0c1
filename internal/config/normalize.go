package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeStorage(); err != nil {
		return err
	}
	c.normalizeBoard()
	c.normalizeSearch()
	return c.normalizeLogging()
}

func (c *Config) normalizeStorage() error {
	if dir, ok := os.LookupEnv("TIERLIST_STORAGE_DIR"); ok && strings.TrimSpace(dir) != "" {
		c.Storage.Dir = dir
	}
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if c.Storage.Backend == "" {
		c.Storage.Backend = defaultStorageBackend
	}
	if strings.TrimSpace(c.Storage.Dir) == "" {
		c.Storage.Dir = defaultStorageDir
	}
	var err error
	if c.Storage.Dir, err = expandPath(c.Storage.Dir); err != nil {
		return fmt.Errorf("storage.dir: %w", err)
	}
	c.Storage.Key = strings.TrimSpace(c.Storage.Key)
	if c.Storage.Key == "" {
		c.Storage.Key = Default().Storage.Key
	}
	c.Storage.RedisAddr = strings.TrimSpace(c.Storage.RedisAddr)
	if c.Storage.RedisAddr == "" {
		c.Storage.RedisAddr = defaultRedisAddr
	}
	return nil
}

func (c *Config) normalizeBoard() {
	c.Board.UnratedPosition = strings.ToLower(strings.TrimSpace(c.Board.UnratedPosition))
	if c.Board.UnratedPosition == "" {
		c.Board.UnratedPosition = defaultUnratedPosition
	}
	c.Board.DefaultStatus = strings.ToUpper(strings.TrimSpace(c.Board.DefaultStatus))
	if c.Board.DefaultStatus == "" {
		c.Board.DefaultStatus = defaultStatus
	}
}

func (c *Config) normalizeSearch() {
	c.Search.Endpoint = strings.TrimSpace(c.Search.Endpoint)
	if c.Search.Endpoint == "" {
		c.Search.Endpoint = defaultSearchEndpoint
	}
	if c.Search.PerPage == 0 {
		c.Search.PerPage = defaultSearchPerPage
	}
	if c.Search.MinQueryLength == 0 {
		c.Search.MinQueryLength = defaultMinQueryLength
	}
	if c.Search.DebounceMS == 0 {
		c.Search.DebounceMS = defaultDebounceMS
	}
	if c.Search.TimeoutSeconds == 0 {
		c.Search.TimeoutSeconds = defaultSearchTimeout
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.File = strings.TrimSpace(c.Logging.File)
	if c.Logging.File == "-" || c.Logging.File == "" {
		c.Logging.File = "-"
		return nil
	}
	var err error
	if c.Logging.File, err = expandPath(c.Logging.File); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	return nil
}
