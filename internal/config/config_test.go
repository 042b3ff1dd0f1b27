package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Executables.SevenZip != "7z" || cfg.Database.Path != "hoarder.db" {
		t.Fatalf("defaults = %+v", cfg)
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[executables]
sevenzip = "/usr/bin/7z"

[database]
path = "/var/lib/hoarder/catalog.db"

[storage]
roots = ["/data/a", "/data/b"]

[nzb]
paths = ["/nzbs"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Executables.SevenZip != "/usr/bin/7z" {
		t.Fatalf("SevenZip = %q", cfg.Executables.SevenZip)
	}
	if cfg.Database.Path != "/var/lib/hoarder/catalog.db" {
		t.Fatalf("Database.Path = %q", cfg.Database.Path)
	}
	if !reflect.DeepEqual(cfg.Storage.Roots, []string{"/data/a", "/data/b"}) {
		t.Fatalf("Roots = %v", cfg.Storage.Roots)
	}
	if !reflect.DeepEqual(cfg.NZB.Paths, []string{"/nzbs"}) {
		t.Fatalf("NZB.Paths = %v", cfg.NZB.Paths)
	}
}

func TestLoadResolvesRelativeSevenZip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[executables]\nsevenzip = \"bin/7zz\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if want := filepath.Join(dir, "bin", "7zz"); cfg.Executables.SevenZip != want {
		t.Fatalf("SevenZip = %q, want %q", cfg.Executables.SevenZip, want)
	}
}

func TestLoadKeepsBareExecutableName(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[executables]\nsevenzip = \"7zz\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Executables.SevenZip != "7zz" {
		t.Fatalf("SevenZip = %q, want bare name", cfg.Executables.SevenZip)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[surprise]\nkey = 1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("Load accepted unknown keys")
	}
}

func TestLoadRejectsBadTOML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not = [valid"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("Load accepted invalid TOML")
	}
}
