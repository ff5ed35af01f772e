package fetcher

import (
	"errors"
	"fmt"
)

var (
	// ErrNoIdentifiers is returned by New when the request names no identifiers.
	ErrNoIdentifiers = errors.New("at least one PDB identifier is required")
	// ErrUnsafeIdentifier marks an identifier that would resolve outside the cache directory.
	ErrUnsafeIdentifier = errors.New("identifier contains a path separator")
	// ErrCacheLocked is returned by Run when another process holds the cache lock.
	ErrCacheLocked = errors.New("cache directory is locked by another pdbfetch run")
)

// DirectoryError reports a cache directory that could not be created or used.
type DirectoryError struct {
	Path string
	Op   string
	Err  error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("cache directory %s: %s: %v", e.Path, e.Op, e.Err)
}

func (e *DirectoryError) Unwrap() error {
	return e.Err
}

// Stage names the step of a fetch that failed.
type Stage string

const (
	StageTransport  Stage = "transport"
	StageStatus     Stage = "status"
	StageDecompress Stage = "decompress"
	StageWrite      Stage = "write"
)

// FetchError describes a failed FetchAndDecompress call.
type FetchError struct {
	Stage      Stage
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Stage == StageStatus {
		return fmt.Sprintf("fetch %s: unexpected status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Stage, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
