// Package fetcher downloads PDB entries from a remote structure archive into a
// local cache directory.
//
// A Fetcher is built from an explicit Request (cache directory plus the ordered
// identifiers of one invocation). For each identifier it lowercases the token,
// derives the archive resource name and the two possible cache paths, skips the
// identifier when either path already exists, and otherwise streams the gzip
// resource through a decoder straight into the decompressed artifact. The write
// goes through a temp file that is renamed into place only after the gzip
// checksum verifies, so a failed or interrupted fetch never leaves a file that
// a later run would mistake for a cache hit.
//
// Identifiers are processed strictly one at a time in input order. Failures of
// a single identifier are recorded in its Result and never abort the batch;
// only cache-directory setup, the cross-process cache lock, and context
// cancellation end a run early.
package fetcher
