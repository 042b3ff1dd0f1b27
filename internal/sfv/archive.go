package sfv

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/austin/hoarder/internal/archive"
	"github.com/austin/hoarder/internal/fsutil"
)

// Archive is a cataloged SFV listing.
type Archive struct {
	archive.Meta
}

func (a *Archive) Kind() archive.Kind { return archive.KindSFV }

// Load reads the SFV file at relPath under root and builds its archive.
// Referenced files are statted for their sizes; a missing referenced file is
// recorded with an unknown size, not an error. Lines whose path mixes
// separator conventions are skipped.
func Load(root, relPath string) (*Archive, error) {
	fullPath := filepath.Join(root, relPath)
	file, err := os.Open(fullPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	log.Debug().Str("path", fullPath).Msg("reading sfv")

	entries, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", fullPath, err)
	}

	files := make([]archive.FileEntry, 0, len(entries))
	for _, entry := range entries {
		name, ok := fsutil.NormalizeEntryPath(entry.Name)
		if !ok {
			log.Error().Str("name", entry.Name).Msg("cannot determine path flavor, skipping sfv entry")
			continue
		}

		// SFV files sit next to the files they describe, so the size is
		// usually one stat away.
		size := archive.SizeUnknown
		if info, statErr := os.Stat(filepath.Join(filepath.Dir(fullPath), filepath.FromSlash(name))); statErr == nil {
			size = info.Size()
		} else {
			log.Warn().Str("name", name).Msg("sfv entry does not exist on disk")
		}

		crc := make([]byte, 4)
		binary.BigEndian.PutUint32(crc, entry.CRC)
		files = append(files, archive.FileEntry{
			Path: name,
			Size: size,
			Hash: crc,
			Algo: archive.AlgoCRC32,
		})
	}

	return &Archive{Meta: archive.Meta{
		Root:  root,
		Path:  relPath,
		Files: files,
	}}, nil
}
