package main

import (
	"fmt"

	"github.com/austin/hoarder/internal/app"
	"github.com/austin/hoarder/internal/config"
	"github.com/austin/hoarder/internal/password"
	"github.com/austin/hoarder/internal/rar"
	"github.com/austin/hoarder/internal/sevenzip"
	"github.com/austin/hoarder/internal/store"
)

// openStore opens the catalog with the configured storage roots. An extra
// root from the command line joins the allowed set.
func openStore(cfg config.Config, extraRoot string) (*store.Store, error) {
	roots := append([]string(nil), cfg.Storage.Roots...)
	if extraRoot != "" {
		found := false
		for _, root := range roots {
			if root == extraRoot {
				found = true
				break
			}
		}
		if !found {
			roots = append(roots, extraRoot)
		}
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf("no storage roots: configure storage.roots or pass a root")
	}
	return store.Open(cfg.Database.Path, roots)
}

// newRunner wires the store, the 7z lister and the candidate password list.
func newRunner(cfg config.Config, root, passwordFile string) (*app.Runner, func() error, error) {
	s, err := openStore(cfg, root)
	if err != nil {
		return nil, nil, err
	}

	var passwords []string
	if passwordFile != "" {
		passwords, err = password.ReadFile(passwordFile)
		if err != nil {
			s.Close()
			return nil, nil, err
		}
	}

	// Every stored password is a candidate; titles rarely match paths
	// exactly, so trying all of them beats trying none.
	stored, err := s.LoadPasswords()
	if err != nil {
		s.Close()
		return nil, nil, err
	}
	for _, title := range stored.Titles() {
		passwords = append(passwords, stored.Passwords(title)...)
	}

	runner := &app.Runner{
		Store:     s,
		Loader:    rar.NewLoader(sevenzip.NewLister(cfg.Executables.SevenZip)),
		Passwords: dedupe(passwords),
	}
	return runner, s.Close, nil
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
