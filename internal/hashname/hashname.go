// Package hashname catalogs files that carry their own CRC32 in the
// filename, e.g. "episode [DEADBEEF].mkv".
package hashname

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/austin/hoarder/internal/archive"
)

// Enclosure is the bracket pair surrounding the hash in a filename.
type Enclosure string

const (
	EnclosureSquare Enclosure = "[]"
	EnclosureParen  Enclosure = "()"
)

// Extract pulls a CRC32 out of a filename. The second return value reports
// which enclosure matched. Square brackets are tried first.
func Extract(name string) ([]byte, Enclosure, bool) {
	for _, enc := range enclosures {
		groups := patterns[enc].FindStringSubmatch(name)
		if groups == nil {
			continue
		}
		crc, err := hex.DecodeString(groups[crcGroup])
		if err != nil {
			continue
		}
		return crc, enc, true
	}
	return nil, "", false
}

// Archive is a cataloged hash-name file. The archive is the payload file
// itself, so it is never deletable.
type Archive struct {
	archive.Meta
	Enclosure Enclosure
}

func (a *Archive) Kind() archive.Kind { return archive.KindHashName }

func (a *Archive) Deletable() bool { return false }

// Load builds the single-entry archive for the file at relPath under root.
func Load(root, relPath string) (*Archive, error) {
	fullPath := filepath.Join(root, relPath)
	info, err := os.Stat(fullPath)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%q is a directory", fullPath)
	}

	name := filepath.Base(relPath)
	crc, enc, ok := Extract(name)
	if !ok {
		return nil, fmt.Errorf("could not extract hash from %q", relPath)
	}

	log.Debug().Str("path", fullPath).Str("enclosure", string(enc)).Msg("reading hash-name file")

	return &Archive{
		Meta: archive.Meta{
			Root: root,
			Path: relPath,
			Files: []archive.FileEntry{{
				Path: name,
				Size: info.Size(),
				Hash: crc,
				Algo: archive.AlgoCRC32,
			}},
		},
		Enclosure: enc,
	}, nil
}
