package fetcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"

	"pdbfetch/internal/fileutil"
)

const lockRetryDelay = 100 * time.Millisecond

// EnsureCacheDirectory creates path and any missing parents, then verifies the
// directory is readable, writable, and searchable. An existing directory is
// not an error.
func EnsureCacheDirectory(path string) error {
	if strings.TrimSpace(path) == "" {
		return &DirectoryError{Path: path, Op: "resolve", Err: errors.New("path is empty")}
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return &DirectoryError{Path: path, Op: "create", Err: err}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return &DirectoryError{Path: path, Op: "access", Err: err}
	}
	return nil
}

// IsCached reports whether either the compressed or decompressed artifact for
// canonicalID exists in cacheDir.
func IsCached(cacheDir, canonicalID string) bool {
	paths := PathsFor(cacheDir, canonicalID)
	return fileutil.Exists(paths.Decompressed) || fileutil.Exists(paths.Compressed)
}

// lockPath keeps the lock file out of the cache directory so only artifacts live there.
func lockPath(cacheDir string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(cacheDir)))
	return filepath.Join(os.TempDir(), "pdbfetch-"+hex.EncodeToString(sum[:8])+".lock")
}

// acquireCacheLock takes an exclusive advisory lock for cacheDir, waiting up to
// timeout for a concurrent run to finish. A zero timeout tries exactly once.
func acquireCacheLock(ctx context.Context, cacheDir string, timeout time.Duration) (func(), error) {
	lock := flock.New(lockPath(cacheDir))

	var locked bool
	var err error
	if timeout <= 0 {
		locked, err = lock.TryLock()
	} else {
		lockCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		locked, err = lock.TryLockContext(lockCtx, lockRetryDelay)
		if err != nil && ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			err = nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("lock cache directory %s: %w", cacheDir, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w (%s)", ErrCacheLocked, cacheDir)
	}
	return func() { _ = lock.Unlock() }, nil
}
