package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeCache(); err != nil {
		return err
	}
	c.normalizeArchive()
	if err := c.normalizeLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) normalizeCache() error {
	if value, ok := os.LookupEnv("PDBFETCH_CACHE_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Cache.Dir = value
	}
	c.Cache.Dir = strings.TrimSpace(c.Cache.Dir)
	if c.Cache.Dir == "" {
		c.Cache.Dir = defaultCacheDir
	}
	var err error
	if c.Cache.Dir, err = expandPath(c.Cache.Dir); err != nil {
		return fmt.Errorf("cache.dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeArchive() {
	if value, ok := os.LookupEnv("PDBFETCH_BASE_URL"); ok && strings.TrimSpace(value) != "" {
		c.Archive.BaseURL = value
	}
	c.Archive.BaseURL = strings.TrimSpace(c.Archive.BaseURL)
	if c.Archive.BaseURL == "" {
		c.Archive.BaseURL = defaultArchiveBaseURL
	}
	c.Archive.UserAgent = strings.TrimSpace(c.Archive.UserAgent)
	if c.Archive.UserAgent == "" {
		c.Archive.UserAgent = defaultArchiveUserAgent
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.File) != "" {
		var err error
		if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
	}
	return nil
}
