package fetcher

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"pdbfetch/internal/fileutil"
	"pdbfetch/internal/logging"
)

// Request is the explicit input of one run.
type Request struct {
	CacheDir    string
	Identifiers []string
}

// Fetcher processes the identifiers of a Request against a cache directory.
type Fetcher struct {
	cacheDir    string
	identifiers []string
	archive     *Archive
	logger      *slog.Logger
	reporter    Reporter
	lock        bool
	lockTimeout time.Duration
}

// Option customizes a Fetcher.
type Option func(*Fetcher)

// WithArchive sets the remote archive client.
func WithArchive(a *Archive) Option {
	return func(f *Fetcher) { f.archive = a }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) { f.logger = logger }
}

// WithReporter sets the progress reporter.
func WithReporter(r Reporter) Option {
	return func(f *Fetcher) { f.reporter = r }
}

// WithLock makes Run hold an exclusive cross-process lock on the cache
// directory, waiting up to timeout for another run to release it.
func WithLock(timeout time.Duration) Option {
	return func(f *Fetcher) {
		f.lock = true
		f.lockTimeout = timeout
	}
}

// New validates req and builds a Fetcher. It has no filesystem side effects.
func New(req Request, opts ...Option) (*Fetcher, error) {
	if len(req.Identifiers) == 0 {
		return nil, ErrNoIdentifiers
	}
	dir := strings.TrimSpace(req.CacheDir)
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve cache directory %q: %w", dir, err)
	}

	f := &Fetcher{
		cacheDir:    abs,
		identifiers: slices.Clone(req.Identifiers),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.archive == nil {
		if f.archive, err = NewArchive(ArchiveConfig{}); err != nil {
			return nil, err
		}
	}
	if f.reporter == nil {
		f.reporter = nopReporter{}
	}
	f.logger = logging.NewComponentLogger(f.logger, "fetcher")
	return f, nil
}

// CacheDir returns the absolute cache directory.
func (f *Fetcher) CacheDir() string {
	return f.cacheDir
}

// Run prepares the cache directory, takes the cache lock when configured, and
// processes every identifier. The returned error covers only run-fatal
// conditions; per-identifier failures are in the results. When ctx is
// cancelled mid-run the results processed so far are returned with ctx.Err().
func (f *Fetcher) Run(ctx context.Context) ([]Result, error) {
	logger := logging.WithContext(ctx, f.logger)
	if err := EnsureCacheDirectory(f.cacheDir); err != nil {
		logging.ErrorWithContext(logger, "cache directory unusable", "cache_dir_failed",
			logging.Error(err),
			logging.String(logging.FieldPath, f.cacheDir),
			logging.String(logging.FieldErrorHint, "check the -d directory exists or can be created and is writable"),
		)
		return nil, err
	}
	if f.lock {
		release, err := acquireCacheLock(ctx, f.cacheDir, f.lockTimeout)
		if err != nil {
			logging.ErrorWithContext(logger, "cache lock unavailable", "cache_lock_failed",
				logging.Error(err),
				logging.String(logging.FieldPath, f.cacheDir),
				logging.String(logging.FieldErrorHint, "wait for the other run to finish or raise cache.lock_timeout_seconds"),
			)
			return nil, err
		}
		defer release()
	}

	logger.Debug("run started",
		logging.String(logging.FieldPath, f.cacheDir),
		logging.Int("identifier_count", len(f.identifiers)),
	)
	results := f.ProcessAll(ctx)
	summary := Summarize(results)
	logger.Info("run finished",
		logging.Int("downloaded", summary.Downloaded),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed),
	)
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

// Results lazily processes identifiers in input order, one per iteration.
// Iteration stops early when ctx is cancelled or the consumer stops.
func (f *Fetcher) Results(ctx context.Context) iter.Seq[Result] {
	return func(yield func(Result) bool) {
		for _, identifier := range f.identifiers {
			if ctx.Err() != nil {
				return
			}
			if !yield(f.ProcessOne(ctx, identifier)) {
				return
			}
		}
	}
}

// ProcessAll processes every identifier in input order and collects the results.
func (f *Fetcher) ProcessAll(ctx context.Context) []Result {
	results := make([]Result, 0, len(f.identifiers))
	for result := range f.Results(ctx) {
		results = append(results, result)
	}
	return results
}

// ProcessOne ensures a single identifier's artifact is in the cache. It never
// returns an error: failures are reported, logged, and carried in Result.Err.
func (f *Fetcher) ProcessOne(ctx context.Context, identifier string) Result {
	start := time.Now()
	id := Normalize(identifier)
	paths := PathsFor(f.cacheDir, id)
	result := Result{Input: identifier, ID: id, Path: paths.Decompressed}
	logger := logging.WithContext(ctx, f.logger).With(logging.String(logging.FieldPDBID, id))

	f.reporter.Report(Event{Kind: EventStart, Input: identifier, ID: id})

	if err := checkSafe(id); err != nil {
		return f.fail(logger, result, start, err)
	}

	if IsCached(f.cacheDir, id) {
		if !fileutil.Exists(paths.Decompressed) {
			result.Path = paths.Compressed
		}
		result.Outcome = OutcomeSkipped
		result.Duration = time.Since(start)
		logger.Debug("artifact already cached", logging.String(logging.FieldPath, result.Path))
		f.reporter.Report(Event{Kind: EventSkip, Input: identifier, ID: id, Path: result.Path})
		return result
	}

	result.URL = f.archive.ResourceURL(ResourceName(id))
	logger.Debug("downloading artifact", logging.String(logging.FieldURL, result.URL))
	f.reporter.Report(Event{Kind: EventDownload, Input: identifier, ID: id, URL: result.URL})

	written, err := f.archive.FetchAndDecompress(ctx, result.URL, paths.Decompressed)
	if err != nil {
		return f.fail(logger, result, start, err)
	}

	result.Outcome = OutcomeDownloaded
	result.Bytes = written
	result.Duration = time.Since(start)
	logger.Info("artifact stored",
		logging.String(logging.FieldPath, result.Path),
		logging.Int64("bytes", written),
		logging.Duration("duration", result.Duration),
	)
	f.reporter.Report(Event{Kind: EventDone, Input: identifier, ID: id, Path: result.Path, Bytes: written})
	return result
}

func (f *Fetcher) fail(logger *slog.Logger, result Result, start time.Time, err error) Result {
	result.Outcome = OutcomeFailed
	result.Path = ""
	result.Err = err
	result.Duration = time.Since(start)

	attrs := []logging.Attr{
		logging.Error(err),
		logging.String(logging.FieldErrorHint, failureHint(err)),
		logging.String(logging.FieldImpact, "entry not cached; remaining identifiers continue"),
	}
	if result.URL != "" {
		attrs = append(attrs, logging.String(logging.FieldURL, result.URL))
	}
	logging.WarnWithContext(logger, "fetch failed", "fetch_failed", attrs...)
	f.reporter.Report(Event{Kind: EventFailed, Input: result.Input, ID: result.ID, URL: result.URL, Err: err})
	return result
}

func failureHint(err error) string {
	if errors.Is(err, ErrUnsafeIdentifier) {
		return "identifiers must not contain path separators"
	}
	if errors.Is(err, context.Canceled) {
		return "run was interrupted; rerun to fetch remaining identifiers"
	}
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		switch fetchErr.Stage {
		case StageStatus:
			return "check that the identifier exists in the archive"
		case StageTransport:
			return "check network connectivity and archive.base_url"
		case StageDecompress:
			return "archive returned a corrupt or non-gzip payload; retry later"
		case StageWrite:
			return "check free space and permissions in the cache directory"
		}
	}
	return "check logs for details"
}
