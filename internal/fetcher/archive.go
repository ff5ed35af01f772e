package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"pdbfetch/internal/fileutil"
)

const (
	// DefaultBaseURL is the RCSB download endpoint.
	DefaultBaseURL   = "https://files.rcsb.org/download/"
	defaultUserAgent = "pdbfetch/dev"
	artifactMode     = 0o644
)

// ArchiveConfig describes the remote archive client configuration.
type ArchiveConfig struct {
	BaseURL   string
	UserAgent string
	// Timeout bounds each request, including reading the body. Zero means no timeout.
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Archive fetches gzip-compressed entries from a remote structure archive.
type Archive struct {
	baseURL   *url.URL
	userAgent string
	http      *http.Client
}

// NewArchive creates an Archive from the supplied configuration.
func NewArchive(cfg ArchiveConfig) (*Archive, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("archive: parse base url: %w", err)
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Archive{baseURL: baseURL, userAgent: userAgent, http: client}, nil
}

// ResourceURL returns the fetch address for a resource file name. The name is
// a single literal path segment; any '%' in it is escaped rather than decoded.
func (a *Archive) ResourceURL(name string) string {
	return a.baseURL.JoinPath(url.PathEscape(name)).String()
}

// FetchAndDecompress streams the gzip resource at rawURL and decompresses it
// into destPath without keeping the compressed bytes. Transport success alone
// is not enough: the gzip stream must decode to EOF with a valid checksum
// before destPath is created. On failure destPath does not exist and the error
// is a *FetchError. Returns the number of decompressed bytes written.
func (a *Archive) FetchAndDecompress(ctx context.Context, rawURL, destPath string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, &FetchError{Stage: StageTransport, URL: rawURL, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("User-Agent", a.userAgent)

	resp, err := a.http.Do(req)
	if err != nil {
		return 0, &FetchError{Stage: StageTransport, URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, &FetchError{
			Stage:      StageStatus,
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Err:        errors.New(resp.Status),
		}
	}

	body := &bodyReader{r: resp.Body}
	zr, err := gzip.NewReader(body)
	if err != nil {
		return 0, classifyStreamError(rawURL, err)
	}
	defer zr.Close()

	written, err := fileutil.WriteStream(destPath, zr, artifactMode)
	if err != nil {
		return 0, classifyStreamError(rawURL, err)
	}
	return written, nil
}

// bodyReader tags errors from the response body so they are reported as
// transport failures rather than gzip corruption.
type bodyReader struct {
	r io.Reader
}

func (b *bodyReader) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, &bodyError{err: err}
	}
	return n, err
}

type bodyError struct {
	err error
}

func (e *bodyError) Error() string { return e.err.Error() }

func (e *bodyError) Unwrap() error { return e.err }

func classifyStreamError(rawURL string, err error) *FetchError {
	var bodyErr *bodyError
	if errors.As(err, &bodyErr) {
		return &FetchError{Stage: StageTransport, URL: rawURL, Err: bodyErr.err}
	}
	var readErr *fileutil.ReadError
	if errors.As(err, &readErr) {
		return &FetchError{Stage: StageDecompress, URL: rawURL, Err: readErr.Err}
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, gzip.ErrHeader) || errors.Is(err, gzip.ErrChecksum) {
		return &FetchError{Stage: StageDecompress, URL: rawURL, Err: err}
	}
	return &FetchError{Stage: StageWrite, URL: rawURL, Err: err}
}
