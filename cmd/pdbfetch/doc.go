// Package main hosts the pdbfetch CLI entrypoint.
//
// The single Cobra command resolves configuration (file, environment, flags),
// builds the structured logger, and hands the identifiers to the fetcher. It
// owns terminal concerns only: per-identifier status lines, the optional
// summary table, and the mapping from errors to process exit codes.
package main
