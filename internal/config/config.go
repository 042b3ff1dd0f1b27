// Package config loads the TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the full configuration tree.
type Config struct {
	Executables Executables `toml:"executables"`
	Database    Database    `toml:"database"`
	Storage     Storage     `toml:"storage"`
	NZB         NZB         `toml:"nzb"`
}

// Executables names the external tools.
type Executables struct {
	// SevenZip is the 7z binary. Relative paths are resolved against the
	// directory holding the config file.
	SevenZip string `toml:"sevenzip"`
}

type Database struct {
	Path string `toml:"path"`
}

type Storage struct {
	// Roots are the storage directories archives may live under.
	Roots []string `toml:"roots"`
}

type NZB struct {
	// Paths are directories scanned for NZB files when harvesting passwords.
	Paths []string `toml:"paths"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Executables: Executables{SevenZip: "7z"},
		Database:    Database{Path: "hoarder.db"},
	}
}

// Load reads the config file at path. A missing file yields the defaults;
// any other read or parse failure is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	meta, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("load config %q: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load config %q: unknown key %q", path, undecoded[0].String())
	}

	// "7z" with no separator stays a bare name so PATH lookup still works.
	sevenZip := cfg.Executables.SevenZip
	if sevenZip != filepath.Base(sevenZip) && !filepath.IsAbs(sevenZip) {
		dir, err := filepath.Abs(filepath.Dir(path))
		if err != nil {
			return Config{}, err
		}
		cfg.Executables.SevenZip = filepath.Join(dir, sevenZip)
	}
	return cfg, nil
}
