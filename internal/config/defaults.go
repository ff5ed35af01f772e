package config

const (
	defaultCacheDir           = "."
	defaultCacheLock          = true
	defaultLockTimeoutSeconds = 30
	defaultArchiveBaseURL     = "https://files.rcsb.org/download/"
	defaultArchiveUserAgent   = "pdbfetch/dev"
	defaultLogFormat          = "console"
	defaultLogLevel           = "warn"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Cache: Cache{
			Dir:                defaultCacheDir,
			Lock:               defaultCacheLock,
			LockTimeoutSeconds: defaultLockTimeoutSeconds,
		},
		Archive: Archive{
			BaseURL:   defaultArchiveBaseURL,
			UserAgent: defaultArchiveUserAgent,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
