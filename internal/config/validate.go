package config

import (
	"errors"
	"fmt"

	"github.com/idilsaglam/tierlist/internal/model"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateBoard(); err != nil {
		return err
	}
	if err := c.validateSearch(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateStorage() error {
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite, BackendRedis:
	default:
		return fmt.Errorf("storage.backend: unsupported value %q (file|sqlite|redis)", c.Storage.Backend)
	}
	if c.Storage.RedisDB < 0 {
		return errors.New("storage.redis_db must be >= 0")
	}
	return nil
}

func (c *Config) validateBoard() error {
	switch c.Board.UnratedPosition {
	case "first", "last":
	default:
		return fmt.Errorf("board.unrated_position: unsupported value %q (first|last)", c.Board.UnratedPosition)
	}
	if _, ok := model.ParseStatus(c.Board.DefaultStatus); !ok {
		return fmt.Errorf("board.default_status: unknown status %q", c.Board.DefaultStatus)
	}
	return nil
}

func (c *Config) validateSearch() error {
	if c.Search.PerPage < 1 || c.Search.PerPage > 50 {
		return errors.New("search.per_page must be between 1 and 50")
	}
	if c.Search.MinQueryLength < 1 {
		return errors.New("search.min_query_length must be positive")
	}
	if c.Search.DebounceMS < 0 {
		return errors.New("search.debounce_ms must not be negative")
	}
	if c.Search.TimeoutSeconds < 0 {
		return errors.New("search.timeout_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (text|json)", c.Logging.Format)
	}
	return nil
}
