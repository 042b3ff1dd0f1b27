// Package password associates release titles with candidate archive
// passwords and harvests them from NZB files.
package password

import (
	"fmt"
	"sort"
)

// Store maps titles to sets of passwords.
type Store struct {
	byTitle map[string]map[string]struct{}
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{byTitle: make(map[string]map[string]struct{})}
}

// Add records a password for a title. Empty titles and empty passwords are
// rejected.
func (s *Store) Add(title, pw string) error {
	if title == "" {
		return fmt.Errorf("empty title")
	}
	if pw == "" {
		return fmt.Errorf("empty password")
	}
	set, ok := s.byTitle[title]
	if !ok {
		set = make(map[string]struct{})
		s.byTitle[title] = set
	}
	set[pw] = struct{}{}
	return nil
}

// Remove drops one password from a title. The title itself disappears once
// its last password is removed. Reports whether anything was removed.
func (s *Store) Remove(title, pw string) bool {
	set, ok := s.byTitle[title]
	if !ok {
		return false
	}
	if _, ok := set[pw]; !ok {
		return false
	}
	delete(set, pw)
	if len(set) == 0 {
		delete(s.byTitle, title)
	}
	return true
}

// Clear drops all passwords for a title.
func (s *Store) Clear(title string) {
	delete(s.byTitle, title)
}

// Contains reports whether the title has any passwords.
func (s *Store) Contains(title string) bool {
	_, ok := s.byTitle[title]
	return ok
}

// Passwords returns the title's passwords, sorted.
func (s *Store) Passwords(title string) []string {
	set := s.byTitle[title]
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for pw := range set {
		out = append(out, pw)
	}
	sort.Strings(out)
	return out
}

// Titles returns all titles, sorted.
func (s *Store) Titles() []string {
	out := make([]string, 0, len(s.byTitle))
	for title := range s.byTitle {
		out = append(out, title)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of titles.
func (s *Store) Len() int {
	return len(s.byTitle)
}

// Merge adds every entry of other into s.
func (s *Store) Merge(other *Store) {
	for title, set := range other.byTitle {
		for pw := range set {
			// Both sides were validated on insert.
			_ = s.Add(title, pw)
		}
	}
}
