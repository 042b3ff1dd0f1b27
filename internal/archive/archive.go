// Package archive holds the types shared by every checksum container kind:
// SFV listings, RAR volume sets and hash-name files.
package archive

import (
	"path/filepath"
	"sort"
)

// Algo identifies a hash algorithm. The numeric values are stored by the
// persistence layer and must not change.
type Algo uint8

const (
	AlgoNone   Algo = 0
	AlgoCRC32  Algo = 1
	AlgoMD5    Algo = 2
	AlgoSHA1   Algo = 3
	AlgoSHA256 Algo = 4
	AlgoSHA512 Algo = 5
)

func (a Algo) String() string {
	switch a {
	case AlgoCRC32:
		return "CRC32"
	case AlgoMD5:
		return "MD5"
	case AlgoSHA1:
		return "SHA1"
	case AlgoSHA256:
		return "SHA256"
	case AlgoSHA512:
		return "SHA512"
	}
	return "-"
}

// Kind identifies an archive container format.
type Kind string

const (
	KindSFV      Kind = "sfv"
	KindHashName Kind = "hashname"
	KindRar      Kind = "rar"
)

// SizeUnknown is the FileEntry size for files whose size could not be
// determined.
const SizeUnknown int64 = -1

// FileEntry is one file recorded by a checksum container. Paths are
// slash-separated and relative to the container.
type FileEntry struct {
	Path  string
	Size  int64
	IsDir bool
	Hash  []byte
	Algo  Algo
	Info  string
}

// SortEntries orders entries by path.
func SortEntries(entries []FileEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})
}

// Archive is a checksum container rooted at a storage directory.
type Archive interface {
	Kind() Kind

	// StorageRoot is the storage directory the archive lives under.
	StorageRoot() string

	// RelPath is the container's path relative to StorageRoot.
	RelPath() string

	Entries() []FileEntry

	// Deletable reports whether the container file may safely be removed
	// once cataloged. Hash-name archives are the payload itself and must be
	// kept.
	Deletable() bool
}

// Meta carries the fields common to all archive kinds; concrete archives
// embed it.
type Meta struct {
	Root  string
	Path  string
	Files []FileEntry

	// Deleted records that the container file was removed from disk after
	// cataloging. The catalog row stays.
	Deleted bool
}

func (m *Meta) StorageRoot() string { return m.Root }

func (m *Meta) RelPath() string { return m.Path }

func (m *Meta) Entries() []FileEntry { return m.Files }

func (m *Meta) Deletable() bool { return true }

// FullPath joins the storage root and the container's relative path.
func (m *Meta) FullPath() string { return filepath.Join(m.Root, m.Path) }
