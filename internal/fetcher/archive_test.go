package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"pdbfetch/internal/fileutil"
	"pdbfetch/internal/testsupport"
)

func TestArchiveResourceURL(t *testing.T) {
	cases := []struct {
		base string
		id   string
		want string
	}{
		{base: "", id: "1abc", want: "https://files.rcsb.org/download/1abc.pdb.gz"},
		{base: "https://files.rcsb.org/download/", id: "1abc", want: "https://files.rcsb.org/download/1abc.pdb.gz"},
		{base: "http://mirror.example/pdb", id: "1abc", want: "http://mirror.example/pdb/1abc.pdb.gz"},
		{base: "https://files.rcsb.org/download/", id: "%zz", want: "https://files.rcsb.org/download/%25zz.pdb.gz"},
		{base: "https://files.rcsb.org/download/", id: "%31abc", want: "https://files.rcsb.org/download/%2531abc.pdb.gz"},
		{base: "https://files.rcsb.org/download/", id: "a b?", want: "https://files.rcsb.org/download/a%20b%3F.pdb.gz"},
	}
	for _, tc := range cases {
		archive, err := NewArchive(ArchiveConfig{BaseURL: tc.base})
		if err != nil {
			t.Fatalf("NewArchive(%q): %v", tc.base, err)
		}
		if got := archive.ResourceURL(ResourceName(tc.id)); got != tc.want {
			t.Fatalf("ResourceURL(%q) with base %q = %q, want %q", tc.id, tc.base, got, tc.want)
		}
	}
}

func TestFetchAndDecompressSendsUserAgent(t *testing.T) {
	var gotUA string
	payload := testsupport.GzipBytes([]byte("ATOM\n"))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	archive, err := NewArchive(ArchiveConfig{BaseURL: srv.URL, UserAgent: "pdbfetch-test/1.0"})
	if err != nil {
		t.Fatalf("NewArchive: %v", err)
	}
	dest := filepath.Join(t.TempDir(), "1abc.pdb")
	n, err := archive.FetchAndDecompress(context.Background(), archive.ResourceURL("1abc.pdb.gz"), dest)
	if err != nil {
		t.Fatalf("FetchAndDecompress: %v", err)
	}
	if n != 5 {
		t.Fatalf("written = %d, want 5", n)
	}
	if gotUA != "pdbfetch-test/1.0" {
		t.Fatalf("user agent = %q", gotUA)
	}
}

func TestFetchAndDecompressBodyCutIsTransport(t *testing.T) {
	payload := testsupport.GzipBytes([]byte(testsupport.PDBPayload("1abc")))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(payload)*2))
		_, _ = w.Write(payload[:len(payload)/2])
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}))
	defer srv.Close()

	archive, err := NewArchive(ArchiveConfig{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewArchive: %v", err)
	}
	dir := t.TempDir()
	dest := filepath.Join(dir, "1abc.pdb")
	_, err = archive.FetchAndDecompress(context.Background(), archive.ResourceURL("1abc.pdb.gz"), dest)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) || fetchErr.Stage != StageTransport {
		t.Fatalf("expected transport FetchError, got %v", err)
	}
	if fileutil.Exists(dest) {
		t.Fatal("destination must not exist after failure")
	}
	if entries := testsupport.DirEntries(t, dir); len(entries) != 0 {
		t.Fatalf("expected no temp files, got %v", entries)
	}
}

func TestFetchAndDecompressCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(testsupport.GzipBytes([]byte("ATOM\n")))
	}))
	defer srv.Close()

	archive, err := NewArchive(ArchiveConfig{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewArchive: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dest := filepath.Join(t.TempDir(), "1abc.pdb")

	_, err = archive.FetchAndDecompress(ctx, archive.ResourceURL("1abc.pdb.gz"), dest)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if fileutil.Exists(dest) {
		t.Fatal("destination must not exist after cancellation")
	}
}

func TestFetchAndDecompressCancelledMidStream(t *testing.T) {
	payload := testsupport.GzipBytes([]byte(testsupport.PDBPayload("1abc")))
	firstChunk := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload[:len(payload)/2])
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		close(firstChunk)
		<-r.Context().Done()
	}))
	defer srv.Close()

	archive, err := NewArchive(ArchiveConfig{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewArchive: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-firstChunk
		cancel()
	}()

	dir := t.TempDir()
	dest := filepath.Join(dir, "1abc.pdb")
	_, err = archive.FetchAndDecompress(ctx, archive.ResourceURL("1abc.pdb.gz"), dest)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) || fetchErr.Stage != StageTransport {
		t.Fatalf("expected transport FetchError, got %v", err)
	}
	if entries := testsupport.DirEntries(t, dir); len(entries) != 0 {
		t.Fatalf("expected empty directory after cancellation, got %v", entries)
	}
}

func TestFetchAndDecompressWriteFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(testsupport.GzipBytes([]byte("ATOM\n")))
	}))
	defer srv.Close()

	archive, err := NewArchive(ArchiveConfig{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewArchive: %v", err)
	}
	dest := filepath.Join(t.TempDir(), "missing", "1abc.pdb")
	_, err = archive.FetchAndDecompress(context.Background(), archive.ResourceURL("1abc.pdb.gz"), dest)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) || fetchErr.Stage != StageWrite {
		t.Fatalf("expected write FetchError, got %v", err)
	}
}

func TestFetchErrorMessage(t *testing.T) {
	err := &FetchError{Stage: StageStatus, URL: "http://x/1abc.pdb.gz", StatusCode: 404, Err: errors.New("404 Not Found")}
	if got, want := err.Error(), "fetch http://x/1abc.pdb.gz: unexpected status 404: 404 Not Found"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
	err = &FetchError{Stage: StageDecompress, URL: "u", Err: errors.New("boom")}
	if got, want := err.Error(), "fetch u: decompress: boom"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}
