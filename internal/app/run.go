// Package app orchestrates cataloging runs over storage trees.
package app

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/austin/hoarder/internal/archive"
	"github.com/austin/hoarder/internal/hashname"
	"github.com/austin/hoarder/internal/rar"
	"github.com/austin/hoarder/internal/rarpath"
	"github.com/austin/hoarder/internal/sfv"
	"github.com/austin/hoarder/internal/store"
)

var (
	validateSignature = rar.HasSignature
	probeArchive      = rar.Probe
)

// Stats tracks cataloging outcomes across a run.
type Stats struct {
	Found    int
	Added    int
	Deleted  int
	Failures int
}

func (s *Stats) add(other Stats) {
	s.Found += other.Found
	s.Added += other.Added
	s.Deleted += other.Deleted
	s.Failures += other.Failures
}

// ExitCode computes the process exit code for a run.
func ExitCode(stats Stats) int {
	if stats.Failures == 0 {
		return 0
	}
	return 1
}

// Runner catalogs checksum containers into the store.
type Runner struct {
	Store  *store.Store
	Loader *rar.Loader

	// Passwords are tried in order against encrypted volume sets.
	Passwords []string

	// Delete removes deletable containers from disk after cataloging.
	Delete bool

	DryRun bool
}

// Add catalogs the single container at relPath under root and returns the
// archive that was stored.
func (r *Runner) Add(root, relPath string) (archive.Archive, error) {
	fullPath := filepath.Join(root, relPath)
	info, err := os.Stat(fullPath)
	if err != nil {
		return nil, err
	}

	var a archive.Archive
	switch {
	case info.IsDir():
		a, err = r.loadRarSet(root, relPath)
	case strings.EqualFold(filepath.Ext(relPath), ".sfv"):
		a, err = sfv.Load(root, relPath)
	case isVolume(filepath.Base(relPath)):
		a, err = r.loadRarSet(root, relPath)
	case isHashName(filepath.Base(relPath)):
		a, err = hashname.Load(root, relPath)
	default:
		return nil, fmt.Errorf("%q is not a recognized checksum container", fullPath)
	}
	if err != nil {
		return nil, err
	}

	if err := r.persist(a); err != nil {
		return nil, err
	}
	return a, nil
}

// AddTree walks root and catalogs every checksum container found: SFV
// listings, hash-name files and RAR volume sets. Individual failures are
// counted, not fatal.
func (r *Runner) AddTree(root string) (Stats, error) {
	var stats Stats
	rarDirs := make(map[string]struct{})

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		switch {
		case strings.EqualFold(filepath.Ext(name), ".sfv"):
			stats.Found++
			r.catalogOne(&stats, rel, func() (archive.Archive, error) {
				return sfv.Load(root, rel)
			})
		case isVolume(name):
			// Volume sets are handled per directory after the walk.
			rarDirs[filepath.Dir(path)] = struct{}{}
		case isHashName(name):
			stats.Found++
			r.catalogOne(&stats, rel, func() (archive.Archive, error) {
				return hashname.Load(root, rel)
			})
		}
		return nil
	})
	if err != nil {
		return stats, err
	}

	dirs := make([]string, 0, len(rarDirs))
	for dir := range rarDirs {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	for _, dir := range dirs {
		dirStats := r.addVolumeSets(root, dir)
		stats.add(dirStats)
	}

	r.logSummary(root, stats)
	return stats, nil
}

func (r *Runner) addVolumeSets(root, dir string) Stats {
	var stats Stats
	groups, err := rarpath.Scan(dir, "")
	if err != nil {
		log.Error().Err(err).Str("dir", dir).Msg("could not resolve volume sets")
		stats.Failures++
		return stats
	}

	stems := make([]string, 0, len(groups))
	for stem := range groups {
		stems = append(stems, stem)
	}
	sort.Strings(stems)

	for _, stem := range stems {
		group := groups[stem]
		stats.Found++
		rel, err := filepath.Rel(root, group.Volumes[0])
		if err != nil {
			log.Error().Err(err).Str("stem", stem).Msg("volume set outside storage root")
			stats.Failures++
			continue
		}
		r.catalogOne(&stats, rel, func() (archive.Archive, error) {
			return r.loadRarSet(root, rel)
		})
	}
	return stats
}

func (r *Runner) catalogOne(stats *Stats, rel string, load func() (archive.Archive, error)) {
	a, err := load()
	if err != nil {
		log.Error().Err(err).Str("path", rel).Msg("could not read container")
		stats.Failures++
		return
	}
	if err := r.persist(a); err != nil {
		log.Error().Err(err).Str("path", rel).Msg("could not catalog container")
		stats.Failures++
		return
	}
	stats.Added++
	if r.Delete && a.Deletable() {
		if err := r.deleteContainer(a); err != nil {
			log.Error().Err(err).Str("path", rel).Msg("could not delete container")
			stats.Failures++
			return
		}
		stats.Deleted++
	}
}

func (r *Runner) persist(a archive.Archive) error {
	if r.DryRun {
		log.Info().Str("path", a.RelPath()).Str("kind", string(a.Kind())).Msg("dry-run: would catalog")
		return nil
	}
	return r.Store.SaveArchive(a)
}

// loadRarSet resolves the volume set at relPath and lists its main volume,
// retrying with candidate passwords when the set is encrypted.
func (r *Runner) loadRarSet(root, relPath string) (*rar.Archive, error) {
	fullPath := filepath.Join(root, relPath)

	probePath := fullPath
	if info, err := os.Stat(fullPath); err == nil && !info.IsDir() {
		ok, err := validateSignature(fullPath)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%q does not appear to be a valid rar file", fullPath)
		}
	} else {
		probePath = ""
	}

	tryLoad := func(pw string) (*rar.Archive, bool, error) {
		if probePath != "" {
			if err := probeArchive(probePath, pw); err != nil {
				return nil, rar.IsPasswordError(err), err
			}
		}
		a, err := r.Loader.Load(root, relPath, pw)
		return a, false, err
	}

	a, retry, err := tryLoad("")
	if err == nil {
		return a, nil
	}
	if !retry {
		return nil, err
	}

	lastErr := err
	for _, pw := range r.Passwords {
		a, retry, err = tryLoad(pw)
		if err == nil {
			log.Debug().Str("path", fullPath).Msg("password accepted")
			return a, nil
		}
		if !retry {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("no working password for %q: %w", fullPath, lastErr)
}

// deleteContainer removes the container's files from disk and re-saves the
// archive with its deleted flag set.
func (r *Runner) deleteContainer(a archive.Archive) error {
	if r.DryRun {
		log.Info().Str("path", a.RelPath()).Msg("dry-run: would delete container")
		return nil
	}

	var paths []string
	if rarArchive, ok := a.(*rar.Archive); ok {
		volumes, err := rarArchive.Volumes()
		if err != nil {
			return err
		}
		paths = volumes
	} else {
		paths = []string{filepath.Join(a.StorageRoot(), a.RelPath())}
	}

	for _, path := range paths {
		if err := os.Remove(path); err != nil {
			return err
		}
		log.Debug().Str("path", path).Msg("removed container file")
	}

	markDeleted(a)
	return r.Store.SaveArchive(a)
}

func markDeleted(a archive.Archive) {
	switch v := a.(type) {
	case *sfv.Archive:
		v.Meta.Deleted = true
	case *rar.Archive:
		v.Meta.Deleted = true
	case *hashname.Archive:
		v.Meta.Deleted = true
	}
}

func (r *Runner) logSummary(root string, stats Stats) {
	log.Info().
		Str("root", root).
		Int("found", stats.Found).
		Int("added", stats.Added).
		Int("deleted", stats.Deleted).
		Int("failures", stats.Failures).
		Msg("run complete")
}

func isVolume(name string) bool {
	_, ok := rarpath.Match(name)
	return ok
}

func isHashName(name string) bool {
	_, _, ok := hashname.Extract(name)
	return ok
}
