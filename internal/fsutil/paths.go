// Package fsutil provides path helpers for untrusted listing and checksum
// file contents.
package fsutil

import (
	"path"
	"path/filepath"
	"strings"
	"unicode"
)

// Flavor classifies the separator convention of a path string taken from a
// checksum file.
type Flavor int

const (
	// FlavorUnresolvable paths mix both separator conventions.
	FlavorUnresolvable Flavor = iota - 1
	// FlavorAmbivalent paths contain no separator at all.
	FlavorAmbivalent
	FlavorPosix
	FlavorWindows
)

// DetectFlavor reports which separator convention raw uses.
func DetectFlavor(raw string) Flavor {
	hasBackslash := strings.Contains(raw, `\`)
	hasForwardslash := strings.Contains(raw, "/")

	switch {
	case hasBackslash && hasForwardslash:
		return FlavorUnresolvable
	case hasBackslash:
		return FlavorWindows
	case hasForwardslash:
		return FlavorPosix
	}
	return FlavorAmbivalent
}

// NormalizeEntryPath converts a checksum-file path to slash form. It fails
// for paths whose separator convention cannot be resolved.
func NormalizeEntryPath(raw string) (string, bool) {
	switch DetectFlavor(raw) {
	case FlavorUnresolvable:
		return "", false
	case FlavorWindows:
		return strings.ReplaceAll(raw, `\`, "/"), true
	}
	return raw, true
}

// SanitizeRelPath normalizes an archive-entry path and ensures the result is
// a safe slash-separated relative path that cannot escape a storage root.
func SanitizeRelPath(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}

	cleaned := path.Clean(strings.ReplaceAll(trimmed, `\`, "/"))
	if cleaned == "." || cleaned == ".." || cleaned == "/" {
		return "", false
	}
	if strings.HasPrefix(cleaned, "/") || strings.HasPrefix(cleaned, "../") {
		return "", false
	}
	if hasDrivePrefix(cleaned) {
		return "", false
	}

	for _, segment := range strings.Split(cleaned, "/") {
		if segment == "" || segment == "." || segment == ".." {
			return "", false
		}
		if strings.ContainsRune(segment, 0) {
			return "", false
		}
	}

	native := filepath.FromSlash(cleaned)
	if filepath.IsAbs(native) || filepath.VolumeName(native) != "" {
		return "", false
	}
	return cleaned, true
}

func hasDrivePrefix(pathValue string) bool {
	if len(pathValue) < 2 || pathValue[1] != ':' {
		return false
	}
	return unicode.IsLetter(rune(pathValue[0]))
}
