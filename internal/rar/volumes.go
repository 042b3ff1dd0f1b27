package rar

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/austin/hoarder/internal/rarpath"
)

// Volumes resynthesizes the on-disk paths of all volumes from the main
// volume's path, the scheme and the volume count. Legacy-scheme names are
// derived purely from the count; modern-scheme names are verified against
// the filesystem because part numbers may be zero-padded.
func (a *Archive) Volumes() ([]string, error) {
	full := a.FullPath()
	if a.NVolumes <= 0 {
		return nil, fmt.Errorf("archive %q has no recorded volumes", full)
	}
	if a.NVolumes == 1 {
		return []string{full}, nil
	}

	volume, ok := rarpath.Match(full)
	if !ok {
		return nil, fmt.Errorf("%q does not match any RAR pattern", full)
	}
	dir := filepath.Dir(full)

	switch a.Scheme {
	case rarpath.SchemeDotRNN:
		out := make([]string, 0, a.NVolumes)
		out = append(out, filepath.Join(dir, volume.Stem+".rar"))
		for i := 0; i < a.NVolumes-1; i++ {
			out = append(out, filepath.Join(dir, fmt.Sprintf("%s.r%02d", volume.Stem, i)))
		}
		return out, nil
	case rarpath.SchemePartN:
		out := make([]string, 0, a.NVolumes)
		for i := 1; i <= a.NVolumes; i++ {
			path := filepath.Join(dir, fmt.Sprintf("%s.part%d.rar", volume.Stem, i))
			if _, err := os.Stat(path); err != nil {
				return nil, fmt.Errorf("volume %d of %q: %w", i, full, err)
			}
			out = append(out, path)
		}
		return out, nil
	}
	return nil, fmt.Errorf("archive %q has scheme %v with %d volumes", full, a.Scheme, a.NVolumes)
}
