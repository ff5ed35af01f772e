package fetcher

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	compressedSuffix   = ".pdb.gz"
	decompressedSuffix = ".pdb"
)

// Normalize returns the canonical (lowercase) form of a PDB identifier. No
// shape validation is applied.
func Normalize(identifier string) string {
	return cases.Lower(language.Und).String(identifier)
}

// ResourceName returns the archive file name for a canonical identifier.
func ResourceName(canonicalID string) string {
	return canonicalID + compressedSuffix
}

// ArtifactPaths holds the two on-disk forms an identifier may be cached as.
type ArtifactPaths struct {
	Compressed   string
	Decompressed string
}

// PathsFor returns the cache paths for canonicalID inside cacheDir.
func PathsFor(cacheDir, canonicalID string) ArtifactPaths {
	return ArtifactPaths{
		Compressed:   filepath.Join(cacheDir, canonicalID+compressedSuffix),
		Decompressed: filepath.Join(cacheDir, canonicalID+decompressedSuffix),
	}
}

func checkSafe(canonicalID string) error {
	if strings.ContainsRune(canonicalID, '/') || strings.ContainsRune(canonicalID, filepath.Separator) {
		return ErrUnsafeIdentifier
	}
	return nil
}
