package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pdbfetch/internal/testsupport"
)

func isolateCLIEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("PDBFETCH_CACHE_DIR", "")
	t.Setenv("PDBFETCH_BASE_URL", "")
	t.Chdir(dir)
	return dir
}

func runCLI(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	code := reportError(&stderr, err)
	return stdout.String(), stderr.String(), code
}

func TestCLIHelp(t *testing.T) {
	dir := isolateCLIEnv(t)

	out, _, code := runCLI(t, "-h")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(out, "pdbfetch [-d DIRECTORY] PDBID") || !strings.Contains(out, "--directory") {
		t.Fatalf("unexpected help output: %q", out)
	}
	if entries := testsupport.DirEntries(t, dir); len(entries) != 0 {
		t.Fatalf("help must have no side effects, found %v", entries)
	}
}

func TestCLIFlagErrorsExitTwo(t *testing.T) {
	isolateCLIEnv(t)

	cases := map[string][]string{
		"unknown flag":  {"--bogus", "1abc"},
		"missing value": {"1abc", "-d"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, stderr, code := runCLI(t, args...)
			if code != 2 {
				t.Fatalf("exit code = %d, want 2", code)
			}
			if !strings.Contains(stderr, "Error:") || !strings.Contains(stderr, "Usage:") {
				t.Fatalf("expected error and usage on stderr, got %q", stderr)
			}
		})
	}
}

func TestCLINoIdentifiers(t *testing.T) {
	dir := isolateCLIEnv(t)
	target := filepath.Join(dir, "cache")

	_, stderr, code := runCLI(t, "-d", target)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "at least one PDB identifier is required") {
		t.Fatalf("unexpected stderr %q", stderr)
	}
	testsupport.AssertMissing(t, target)
}

func TestCLIMixedBatch(t *testing.T) {
	isolateCLIEnv(t)
	archive := testsupport.NewArchive(t, map[string]testsupport.Entry{
		"1abc.pdb.gz": {Body: testsupport.PDBPayload("1abc")},
	})
	cfg := testsupport.NewConfig(t, testsupport.WithBaseURL(archive.BaseURL()))
	configPath := testsupport.WriteConfig(t, cfg)

	out, _, code := runCLI(t, "--config", configPath, "1ABC", "1ABC", "bad!")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0 with per-identifier failures", code)
	}
	for _, want := range []string{"1abc:", "[OK] stored", "already cached", "bad!:", "[WARN] failed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if got := testsupport.ReadFile(t, filepath.Join(cfg.Cache.Dir, "1abc.pdb")); got != testsupport.PDBPayload("1abc") {
		t.Fatalf("unexpected artifact content %q", got)
	}
	if entries := testsupport.DirEntries(t, cfg.Cache.Dir); len(entries) != 1 {
		t.Fatalf("expected only 1abc.pdb in cache, got %v", entries)
	}
}

func TestCLIDirectoryFlagOverridesConfig(t *testing.T) {
	dir := isolateCLIEnv(t)
	archive := testsupport.NewArchive(t, map[string]testsupport.Entry{
		"2xyz.pdb.gz": {Body: testsupport.PDBPayload("2xyz")},
	})
	cfg := testsupport.NewConfig(t, testsupport.WithBaseURL(archive.BaseURL()))
	configPath := testsupport.WriteConfig(t, cfg)
	target := filepath.Join(dir, "nested", "cache")

	_, _, code := runCLI(t, "-c", configPath, "-d", target, "2xyz")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if _, err := os.Stat(filepath.Join(target, "2xyz.pdb")); err != nil {
		t.Fatalf("expected artifact in flag directory: %v", err)
	}
	testsupport.AssertMissing(t, cfg.Cache.Dir)
}

func TestCLIFailOnError(t *testing.T) {
	isolateCLIEnv(t)
	archive := testsupport.NewArchive(t, nil)
	cfg := testsupport.NewConfig(t, testsupport.WithBaseURL(archive.BaseURL()))
	configPath := testsupport.WriteConfig(t, cfg)

	_, stderr, code := runCLI(t, "--config", configPath, "--fail-on-error", "9zzz")
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "1 of 1 identifiers failed") {
		t.Fatalf("unexpected stderr %q", stderr)
	}

	cfg = testsupport.NewConfig(t, testsupport.WithBaseURL(archive.BaseURL()), testsupport.WithFailOnError())
	configPath = testsupport.WriteConfig(t, cfg)
	if _, _, code := runCLI(t, "--config", configPath, "9zzz"); code != 1 {
		t.Fatalf("run.fail_on_error: exit code = %d, want 1", code)
	}
}

func TestCLISummaryTable(t *testing.T) {
	isolateCLIEnv(t)
	archive := testsupport.NewArchive(t, map[string]testsupport.Entry{
		"1abc.pdb.gz": {Body: testsupport.PDBPayload("1abc")},
	})
	cfg := testsupport.NewConfig(t, testsupport.WithBaseURL(archive.BaseURL()))
	configPath := testsupport.WriteConfig(t, cfg)

	out, _, code := runCLI(t, "--config", configPath, "--summary", "1abc", "9zzz")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	lower := strings.ToLower(out)
	for _, want := range []string{"pdb id", "downloaded", "failed", "2 total", "1 downloaded, 0 skipped, 1 failed"} {
		if !strings.Contains(lower, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestCLIWritesConfiguredLogFile(t *testing.T) {
	isolateCLIEnv(t)
	archive := testsupport.NewArchive(t, map[string]testsupport.Entry{
		"1abc.pdb.gz": {Body: testsupport.PDBPayload("1abc")},
	})
	cfg := testsupport.NewConfig(t, testsupport.WithBaseURL(archive.BaseURL()))
	cfg.Logging.File = filepath.Join(filepath.Dir(cfg.Cache.Dir), "logs", "pdbfetch.log")
	configPath := testsupport.WriteConfig(t, cfg)

	_, stderr, code := runCLI(t, "--config", configPath, "--log-level", "info", "1abc")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	logged := testsupport.ReadFile(t, cfg.Logging.File)
	if !strings.Contains(logged, "run finished") || !strings.Contains(stderr, "run finished") {
		t.Fatalf("expected run summary in file and stderr, file=%q stderr=%q", logged, stderr)
	}
}

func TestCLIInvalidLogLevel(t *testing.T) {
	isolateCLIEnv(t)

	_, stderr, code := runCLI(t, "--log-level", "loud", "1abc")
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "logging.level") {
		t.Fatalf("unexpected stderr %q", stderr)
	}
}

func TestReportErrorSilencesCancellation(t *testing.T) {
	var buf bytes.Buffer
	if code := reportError(&buf, context.Canceled); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output for cancellation, got %q", buf.String())
	}
	if code := reportError(&buf, &usageError{err: errors.New("bad flag")}); code != 2 {
		t.Fatalf("usage error exit code = %d, want 2", code)
	}
	if code := reportError(&buf, nil); code != 0 {
		t.Fatalf("nil error exit code = %d, want 0", code)
	}
}
