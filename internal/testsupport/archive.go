package testsupport

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/klauspost/compress/gzip"
)

// Entry describes how the fake archive serves one resource.
type Entry struct {
	// Body is the decompressed payload; it is gzip-compressed when served.
	Body string
	// Status overrides the response status when non-zero.
	Status int
	// Raw serves Body as-is without gzip framing.
	Raw bool
	// CorruptChecksum flips a CRC byte in the gzip trailer.
	CorruptChecksum bool
	// Truncate serves only the first half of the gzip stream.
	Truncate bool
}

// Archive is an httptest server that mimics the structure archive download
// endpoint under /download/ and records every request.
type Archive struct {
	Server *httptest.Server

	mu       sync.Mutex
	entries  map[string]Entry
	requests []string
}

// NewArchive starts a fake archive serving entries keyed by resource name
// (e.g. "1abc.pdb.gz"). Unknown resources return 404.
func NewArchive(t testing.TB, entries map[string]Entry) *Archive {
	t.Helper()

	a := &Archive{entries: make(map[string]Entry, len(entries))}
	for name, entry := range entries {
		a.entries[name] = entry
	}
	a.Server = httptest.NewServer(http.HandlerFunc(a.serve))
	t.Cleanup(a.Server.Close)
	return a
}

// BaseURL returns the download base URL including the trailing slash.
func (a *Archive) BaseURL() string {
	return a.Server.URL + "/download/"
}

// Requests returns the resource names requested so far, in order.
func (a *Archive) Requests() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.requests...)
}

func (a *Archive) serve(w http.ResponseWriter, r *http.Request) {
	name, ok := strings.CutPrefix(r.URL.Path, "/download/")
	a.mu.Lock()
	a.requests = append(a.requests, name)
	entry, found := a.entries[name]
	a.mu.Unlock()

	if !ok || !found {
		http.NotFound(w, r)
		return
	}
	if entry.Status != 0 && entry.Status != http.StatusOK {
		http.Error(w, http.StatusText(entry.Status), entry.Status)
		return
	}

	payload := []byte(entry.Body)
	if !entry.Raw {
		payload = gzipBytes(payload)
	}
	if entry.CorruptChecksum && len(payload) >= 8 {
		payload[len(payload)-8] ^= 0xff
	}
	if entry.Truncate {
		payload = payload[:len(payload)/2]
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(payload)
}

// PDBPayload returns a small PDB-formatted text body for id.
func PDBPayload(id string) string {
	upper := strings.ToUpper(id)
	return fmt.Sprintf("HEADER    TEST STRUCTURE                          01-JAN-00   %s\n"+
		"ATOM      1  N   MET A   1      11.104  13.207   2.100  1.00 20.00           N\n"+
		"END\n", upper)
}

// GzipBytes compresses data for tests that need raw gzip payloads.
func GzipBytes(data []byte) []byte {
	return gzipBytes(data)
}

func gzipBytes(data []byte) []byte {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, _ = zw.Write(data)
	_ = zw.Close()
	return buf.Bytes()
}
