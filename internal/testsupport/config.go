package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"pdbfetch/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	cfg *config.Config
}

// NewConfig produces a config seeded with a unique temp cache directory per
// test. The cache lock is disabled so parallel tests never contend on it.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Cache.Dir = filepath.Join(base, "cache")
	cfgVal.Cache.Lock = false
	cfgVal.Logging.Level = "error"

	builder := &configBuilder{cfg: &cfgVal}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithBaseURL points the archive at url, typically a fake archive server.
func WithBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Archive.BaseURL = url
	}
}

// WithFailOnError enables non-zero exit on per-identifier failures.
func WithFailOnError() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Run.FailOnError = true
	}
}

// WriteConfig serializes cfg as TOML next to its cache directory and returns the path.
func WriteConfig(t testing.TB, cfg *config.Config) string {
	t.Helper()

	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(filepath.Dir(cfg.Cache.Dir), "pdbfetch.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
