package rarpath

import (
	"os"
	"path/filepath"
)

// Group is a resolved volume set sharing one stem.
type Group struct {
	Scheme Scheme

	// Volumes holds the full paths in canonical order; the first element is
	// the main volume.
	Volumes []string
}

// Scan enumerates the direct entries of dir and resolves every volume set it
// finds, keyed by stem. Entries matching neither grammar are ignored; a
// directory may contain unrelated files. A non-empty seekStem restricts the
// result to that stem.
//
// Scanning is not partial-failure-tolerant: the first stem group that fails
// to resolve aborts the scan and its SchemeError is returned unwrapped.
func Scan(dir string, seekStem string) (map[string]Group, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	stems := make(map[string][]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		volume, ok := Match(entry.Name())
		if !ok {
			continue
		}
		if seekStem != "" && volume.Stem != seekStem {
			continue
		}
		stems[volume.Stem] = append(stems[volume.Stem], filepath.Join(dir, entry.Name()))
	}

	groups := make(map[string]Group, len(stems))
	for stem, paths := range stems {
		scheme, ordered, err := Sort(paths)
		if err != nil {
			return nil, err
		}
		groups[stem] = Group{Scheme: scheme, Volumes: ordered}
	}
	return groups, nil
}
