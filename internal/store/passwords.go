package store

import (
	"fmt"

	"github.com/austin/hoarder/internal/password"
)

// SavePassword records one title/password pair. Duplicates are ignored.
func (s *Store) SavePassword(title, pw string) error {
	if title == "" || pw == "" {
		return fmt.Errorf("title and password must be non-empty")
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"INSERT INTO titles (title) VALUES (?) ON CONFLICT DO NOTHING;", title,
	); err != nil {
		return err
	}
	if _, err := tx.Exec(`
		INSERT INTO passwords (title_id, password)
		SELECT id, ? FROM titles WHERE title = ?;`, pw, title,
	); err != nil {
		return err
	}
	return tx.Commit()
}

// SavePasswords persists every entry of the given store.
func (s *Store) SavePasswords(ps *password.Store) error {
	for _, title := range ps.Titles() {
		for _, pw := range ps.Passwords(title) {
			if err := s.SavePassword(title, pw); err != nil {
				return err
			}
		}
	}
	return nil
}

// LoadPasswords reads all title/password pairs back into a store.
func (s *Store) LoadPasswords() (*password.Store, error) {
	rows, err := s.db.Query(`
		SELECT t.title, p.password
		FROM passwords p JOIN titles t ON t.id = p.title_id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ps := password.NewStore()
	for rows.Next() {
		var title, pw string
		if err := rows.Scan(&title, &pw); err != nil {
			return nil, err
		}
		if err := ps.Add(title, pw); err != nil {
			return nil, err
		}
	}
	return ps, rows.Err()
}
