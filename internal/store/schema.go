package store

// Table definitions. Column names and the numeric scheme/algo values are
// load-bearing for existing databases and must not change.
const (
	createStoragePaths = `
CREATE TABLE IF NOT EXISTS storage_paths (
    id             INTEGER  PRIMARY KEY AUTOINCREMENT,
    storage_path   TEXT     NOT NULL UNIQUE
);`

	createHashArchives = `
CREATE TABLE IF NOT EXISTS hash_archives (
    id              INTEGER  PRIMARY KEY AUTOINCREMENT,
    type            TEXT     NOT NULL,
    storage_path_id INTEGER  NOT NULL,
    path            TEXT     NOT NULL,
    is_deleted      INTEGER,
    timestamp       TEXT     DEFAULT CURRENT_TIMESTAMP,
    hash_enclosure  TEXT,
    password        TEXT,
    rar_scheme      INTEGER,
    rar_version     TEXT,
    n_volumes       INTEGER,
    FOREIGN KEY (storage_path_id)
      REFERENCES storage_paths(id)
      ON DELETE CASCADE,
    UNIQUE(storage_path_id, path)
);`

	createFileEntries = `
CREATE TABLE IF NOT EXISTS file_entries (
    id          INTEGER  PRIMARY KEY AUTOINCREMENT,
    path        TEXT     NOT NULL,
    size        INTEGER,
    is_dir      INTEGER  NOT NULL,
    hash_value  BLOB,
    algo        INTEGER,
    archive_id  INTEGER  NOT NULL,
    FOREIGN KEY (archive_id)
      REFERENCES hash_archives(id)
      ON DELETE CASCADE
);`

	createTitles = `
CREATE TABLE IF NOT EXISTS titles (
    id             INTEGER  PRIMARY KEY AUTOINCREMENT,
    title          TEXT     NOT NULL UNIQUE,
    timestamp      TEXT     DEFAULT CURRENT_TIMESTAMP
);`

	createPasswords = `
CREATE TABLE IF NOT EXISTS passwords (
    id             INTEGER  PRIMARY KEY AUTOINCREMENT,
    password       TEXT     NOT NULL,
    timestamp      TEXT     DEFAULT CURRENT_TIMESTAMP,
    title_id       INTEGER  NOT NULL,
    FOREIGN KEY (title_id)
      REFERENCES titles(id)
      ON DELETE CASCADE,
    UNIQUE(title_id, password) ON CONFLICT IGNORE
);`
)

var createStatements = []string{
	createStoragePaths,
	createHashArchives,
	createFileEntries,
	createTitles,
	createPasswords,
}
