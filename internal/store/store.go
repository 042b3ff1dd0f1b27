// Package store persists archives and harvested passwords in SQLite.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/austin/hoarder/internal/archive"
	"github.com/austin/hoarder/internal/hashname"
	"github.com/austin/hoarder/internal/rar"
	"github.com/austin/hoarder/internal/rarpath"
	"github.com/austin/hoarder/internal/sfv"
)

// Store is a catalog database restricted to a fixed set of storage roots.
// Roots are resolved to absolute symlink-free paths before any lookup.
type Store struct {
	db      *sql.DB
	allowed map[string]struct{}
}

// Open opens or creates the database at dbPath and registers the allowed
// storage roots. Every root must exist on disk.
func Open(dbPath string, allowedRoots []string) (*Store, error) {
	if len(allowedRoots) == 0 {
		return nil, fmt.Errorf("at least one storage root is required")
	}
	allowed := make(map[string]struct{}, len(allowedRoots))
	for _, root := range allowedRoots {
		resolved, err := resolveRoot(root)
		if err != nil {
			return nil, err
		}
		allowed[resolved] = struct{}{}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", dbPath, err)
	}
	for _, stmt := range createStatements {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create tables: %w", err)
		}
	}

	s := &Store{db: db, allowed: allowed}
	for root := range allowed {
		if _, err := s.storagePathID(db, root); err != nil {
			db.Close()
			return nil, err
		}
	}
	log.Debug().Str("db", dbPath).Int("roots", len(allowed)).Msg("opened catalog")
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func resolveRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("storage root does not exist on disk: %q", abs)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("storage root %q is not a directory", resolved)
	}
	return resolved, nil
}

// checkRoot resolves root and verifies it is in the allowed set.
func (s *Store) checkRoot(root string) (string, error) {
	resolved, err := resolveRoot(root)
	if err != nil {
		return "", err
	}
	if _, ok := s.allowed[resolved]; !ok {
		return "", fmt.Errorf("storage root %q is not in the allowed set", resolved)
	}
	return resolved, nil
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

func (s *Store) storagePathID(e execer, resolved string) (int64, error) {
	if _, err := e.Exec(
		"INSERT OR IGNORE INTO storage_paths (storage_path) VALUES (?);", resolved,
	); err != nil {
		return 0, err
	}
	var id int64
	err := e.QueryRow(
		"SELECT id FROM storage_paths WHERE storage_path = ?;", resolved,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("storage path %q: %w", resolved, err)
	}
	return id, nil
}

// SaveArchive inserts or replaces one archive and all its file entries.
func (s *Store) SaveArchive(a archive.Archive) error {
	resolved, err := s.checkRoot(a.StorageRoot())
	if err != nil {
		return err
	}

	var (
		enclosure sql.NullString
		pw        sql.NullString
		scheme    sql.NullInt64
		version   sql.NullString
		nVolumes  sql.NullInt64
		deleted   bool
	)
	switch v := a.(type) {
	case *sfv.Archive:
		deleted = v.Meta.Deleted
	case *hashname.Archive:
		enclosure = sql.NullString{String: string(v.Enclosure), Valid: true}
		deleted = v.Meta.Deleted
	case *rar.Archive:
		if v.Password != "" {
			pw = sql.NullString{String: v.Password, Valid: true}
		}
		scheme = sql.NullInt64{Int64: int64(v.Scheme), Valid: true}
		if v.Version != "" {
			version = sql.NullString{String: v.Version, Valid: true}
		}
		nVolumes = sql.NullInt64{Int64: int64(v.NVolumes), Valid: true}
		deleted = v.Meta.Deleted
	default:
		return fmt.Errorf("unsupported archive type %T", a)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	pathID, err := s.storagePathID(tx, resolved)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(
		"DELETE FROM hash_archives WHERE storage_path_id = ? AND path = ?;",
		pathID, a.RelPath(),
	); err != nil {
		return err
	}

	res, err := tx.Exec(`
		INSERT INTO hash_archives
			(type, storage_path_id, path, is_deleted,
			 hash_enclosure, password, rar_scheme, rar_version, n_volumes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		string(a.Kind()), pathID, a.RelPath(), boolToInt(deleted),
		enclosure, pw, scheme, version, nVolumes,
	)
	if err != nil {
		return fmt.Errorf("save archive %q: %w", a.RelPath(), err)
	}
	archiveID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO file_entries (path, size, is_dir, hash_value, algo, archive_id)
		VALUES (?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, entry := range a.Entries() {
		var size sql.NullInt64
		if entry.Size != archive.SizeUnknown {
			size = sql.NullInt64{Int64: entry.Size, Valid: true}
		}
		var algo sql.NullInt64
		if entry.Algo != archive.AlgoNone {
			algo = sql.NullInt64{Int64: int64(entry.Algo), Valid: true}
		}
		if _, err := stmt.Exec(
			entry.Path, size, boolToInt(entry.IsDir), entry.Hash, algo, archiveID,
		); err != nil {
			return fmt.Errorf("save entry %q: %w", entry.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	log.Debug().Str("root", resolved).Str("path", a.RelPath()).Str("kind", string(a.Kind())).Int("entries", len(a.Entries())).Msg("saved archive")
	return nil
}

// LoadArchive returns the archive previously stored for relPath under root.
func (s *Store) LoadArchive(root, relPath string) (archive.Archive, error) {
	resolved, err := s.checkRoot(root)
	if err != nil {
		return nil, err
	}

	var pathID int64
	err = s.db.QueryRow(
		"SELECT id FROM storage_paths WHERE storage_path = ?;", resolved,
	).Scan(&pathID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("unknown storage root %q", resolved)
	}
	if err != nil {
		return nil, err
	}

	var (
		id        int64
		kind      string
		deleted   sql.NullInt64
		enclosure sql.NullString
		pw        sql.NullString
		scheme    sql.NullInt64
		version   sql.NullString
		nVolumes  sql.NullInt64
	)
	err = s.db.QueryRow(`
		SELECT id, type, is_deleted, hash_enclosure, password, rar_scheme, rar_version, n_volumes
		FROM hash_archives WHERE storage_path_id = ? AND path = ?;`,
		pathID, relPath,
	).Scan(&id, &kind, &deleted, &enclosure, &pw, &scheme, &version, &nVolumes)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("archive not found: %s under %s", relPath, resolved)
	}
	if err != nil {
		return nil, err
	}

	meta := archive.Meta{
		Root:    resolved,
		Path:    relPath,
		Deleted: deleted.Valid && deleted.Int64 != 0,
	}
	meta.Files, err = s.loadEntries(id)
	if err != nil {
		return nil, err
	}

	switch archive.Kind(kind) {
	case archive.KindSFV:
		return &sfv.Archive{Meta: meta}, nil
	case archive.KindHashName:
		return &hashname.Archive{
			Meta:      meta,
			Enclosure: hashname.Enclosure(enclosure.String),
		}, nil
	case archive.KindRar:
		return &rar.Archive{
			Meta:     meta,
			Password: pw.String,
			Scheme:   rarpath.Scheme(scheme.Int64),
			Version:  version.String,
			NVolumes: int(nVolumes.Int64),
		}, nil
	}
	return nil, fmt.Errorf("unknown archive type in database: %q", kind)
}

func (s *Store) loadEntries(archiveID int64) ([]archive.FileEntry, error) {
	rows, err := s.db.Query(`
		SELECT path, size, is_dir, hash_value, algo
		FROM file_entries WHERE archive_id = ? ORDER BY id;`, archiveID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []archive.FileEntry
	for rows.Next() {
		var (
			entry archive.FileEntry
			size  sql.NullInt64
			isDir int64
			algo  sql.NullInt64
		)
		if err := rows.Scan(&entry.Path, &size, &isDir, &entry.Hash, &algo); err != nil {
			return nil, err
		}
		entry.Size = archive.SizeUnknown
		if size.Valid {
			entry.Size = size.Int64
		}
		entry.IsDir = isDir != 0
		entry.Algo = archive.Algo(algo.Int64)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
