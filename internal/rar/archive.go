// Package rar builds catalog archives from RAR volume sets.
package rar

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/austin/hoarder/internal/archive"
	"github.com/austin/hoarder/internal/fsutil"
	"github.com/austin/hoarder/internal/rarpath"
	"github.com/austin/hoarder/internal/sevenzip"
)

// Archive is a cataloged RAR volume set. Meta.Path is the main volume's
// path relative to the storage root.
type Archive struct {
	archive.Meta
	Password string
	Scheme   rarpath.Scheme
	Version  string // listing "Type" field ("Rar", "Rar3", "Rar5"); empty when unknown
	NVolumes int
}

func (a *Archive) Kind() archive.Kind { return archive.KindRar }

// lister lists an archive's contents as key=value blocks.
type lister interface {
	List(path, password string) ([]sevenzip.Block, error)
}

// Loader builds RAR archives using an external lister.
type Loader struct {
	Lister lister
}

// NewLoader returns a Loader backed by the given 7z lister.
func NewLoader(l *sevenzip.Lister) *Loader {
	return &Loader{Lister: l}
}

// Load builds the archive for the path at relPath under root. A directory is
// accepted when it contains exactly one volume set; a file must itself match
// one of the volume grammars, and its siblings sharing the stem complete the
// set. Only the main volume is handed to the lister.
func (l *Loader) Load(root, relPath, password string) (*Archive, error) {
	fullPath := filepath.Join(root, relPath)
	info, err := os.Stat(fullPath)
	if err != nil {
		return nil, err
	}

	var group rarpath.Group
	if info.IsDir() {
		log.Debug().Str("path", fullPath).Msg("directory given, looking for volume sets")
		groups, err := rarpath.Scan(fullPath, "")
		if err != nil {
			return nil, err
		}
		if len(groups) != 1 {
			return nil, fmt.Errorf("directory %q contains %d volume sets, want exactly one", fullPath, len(groups))
		}
		for _, g := range groups {
			group = g
		}
	} else {
		volume, ok := rarpath.Match(fullPath)
		if !ok {
			return nil, fmt.Errorf("%q does not match any RAR pattern", fullPath)
		}
		log.Debug().Str("path", fullPath).Str("stem", volume.Stem).Msg("finding sibling volumes")
		groups, err := rarpath.Scan(filepath.Dir(fullPath), volume.Stem)
		if err != nil {
			return nil, err
		}
		g, ok := groups[volume.Stem]
		if !ok {
			return nil, fmt.Errorf("no volumes with stem %q next to %q", volume.Stem, fullPath)
		}
		group = g
	}

	if len(group.Volumes) == 0 {
		return nil, fmt.Errorf("empty volume set for %q", fullPath)
	}
	mainVolume := group.Volumes[0]
	log.Debug().Str("main", mainVolume).Int("volumes", len(group.Volumes)).Stringer("scheme", group.Scheme).Msg("resolved volume set")

	blocks, err := l.Lister.List(mainVolume, password)
	if err != nil {
		return nil, err
	}

	version := listingVersion(blocks, mainVolume)
	files := entriesFromBlocks(blocks, version)

	mainRel, err := filepath.Rel(root, mainVolume)
	if err != nil {
		return nil, err
	}

	return &Archive{
		Meta: archive.Meta{
			Root:  root,
			Path:  mainRel,
			Files: files,
		},
		Password: password,
		Scheme:   group.Scheme,
		Version:  version,
		NVolumes: len(group.Volumes),
	}, nil
}

func listingVersion(blocks []sevenzip.Block, mainVolume string) string {
	var versions []string
	for _, block := range blocks {
		if v, ok := block["Type"]; ok {
			versions = append(versions, v)
		}
	}
	if len(versions) != 1 {
		log.Warn().Str("path", mainVolume).Int("count", len(versions)).Msg("listing did not contain exactly one Type entry")
		return ""
	}
	return versions[0]
}

func entriesFromBlocks(blocks []sevenzip.Block, version string) []archive.FileEntry {
	files := make([]archive.FileEntry, 0, len(blocks))
	for _, block := range blocks {
		path, ok := block["Path"]
		if !ok {
			continue
		}
		if _, isArchiveBlock := block["Type"]; isArchiveBlock {
			continue
		}

		rel, ok := fsutil.SanitizeRelPath(path)
		if !ok {
			log.Error().Str("path", path).Msg("unsafe entry path in listing, skipping")
			continue
		}

		size := archive.SizeUnknown
		if raw, ok := block["Size"]; ok && raw != "" {
			if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
				size = parsed
			}
		}

		entry := archive.FileEntry{
			Path:  rel,
			Size:  size,
			IsDir: block["Folder"] == "+",
		}

		// RAR5 folds the modification time into its checksums, so only the
		// classic formats carry usable per-entry CRCs.
		if headerCRCUsable(version) && !entry.IsDir {
			if raw, ok := block["CRC"]; ok && raw != "" {
				if crc, err := hex.DecodeString(raw); err == nil {
					entry.Hash = crc
					entry.Algo = archive.AlgoCRC32
				}
			}
		}

		files = append(files, entry)
	}
	return files
}

func headerCRCUsable(version string) bool {
	return strings.EqualFold(version, "Rar") || strings.EqualFold(version, "Rar3")
}
