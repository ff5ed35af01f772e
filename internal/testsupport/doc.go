// Package testsupport holds shared fixtures for pdbfetch tests: a config
// builder rooted in per-test temp directories, small file helpers, and a fake
// structure archive served over httptest.
package testsupport
