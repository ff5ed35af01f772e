package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateArchive(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.Dir == "" {
		return errors.New("cache.dir must be set")
	}
	if c.Cache.LockTimeoutSeconds < 0 {
		return errors.New("cache.lock_timeout_seconds must be >= 0")
	}
	return nil
}

func (c *Config) validateArchive() error {
	parsed, err := url.Parse(c.Archive.BaseURL)
	if err != nil {
		return fmt.Errorf("archive.base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("archive.base_url must use http or https, got %q", c.Archive.BaseURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("archive.base_url must include a host, got %q", c.Archive.BaseURL)
	}
	if c.Archive.TimeoutSeconds < 0 {
		return errors.New("archive.timeout_seconds must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	return nil
}
