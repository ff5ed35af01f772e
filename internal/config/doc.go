// Package config loads, normalizes, and validates pdbfetch configuration.
//
// Configuration is read from TOML (explicit path, ~/.config/pdbfetch/config.toml,
// or ./pdbfetch.toml), layered over repository defaults, then adjusted by the
// PDBFETCH_CACHE_DIR and PDBFETCH_BASE_URL environment variables. Command-line
// flags are applied by the CLI after Load returns.
package config
