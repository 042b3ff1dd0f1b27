package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nwaples/rardecode/v2"

	"github.com/austin/hoarder/internal/archive"
	"github.com/austin/hoarder/internal/rar"
	"github.com/austin/hoarder/internal/sevenzip"
	"github.com/austin/hoarder/internal/sfv"
	"github.com/austin/hoarder/internal/store"
)

type stubLister struct {
	blocks []sevenzip.Block
	calls  []string
}

func (f *stubLister) List(path, password string) ([]sevenzip.Block, error) {
	f.calls = append(f.calls, password)
	return f.blocks, nil
}

func stubSignature(t *testing.T) {
	t.Helper()
	orig := validateSignature
	validateSignature = func(string) (bool, error) { return true, nil }
	t.Cleanup(func() { validateSignature = orig })
}

func stubProbe(t *testing.T, fn func(path, password string) error) {
	t.Helper()
	orig := probeArchive
	probeArchive = fn
	t.Cleanup(func() { probeArchive = orig })
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func newTestRunner(t *testing.T, root string, blocks []sevenzip.Block) (*Runner, *stubLister) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "catalog.db"), []string{root})
	if err != nil {
		t.Fatalf("Open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	fake := &stubLister{blocks: blocks}
	return &Runner{Store: s, Loader: &rar.Loader{Lister: fake}}, fake
}

func TestAddTree(t *testing.T) {
	stubSignature(t)
	stubProbe(t, func(string, string) error { return nil })

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "release.sfv"), "payload.bin DEADBEEF\n")
	writeFile(t, filepath.Join(root, "episode [CAFEBABE].mkv"), "video")
	writeFile(t, filepath.Join(root, "sub", "movie.rar"), "")
	writeFile(t, filepath.Join(root, "sub", "movie.r00"), "")

	r, _ := newTestRunner(t, root, []sevenzip.Block{
		{"Path": "movie.rar", "Type": "Rar"},
		{"Path": "inner.bin", "Folder": "-", "Size": "5", "CRC": "DEADBEEF"},
	})

	stats, err := r.AddTree(root)
	if err != nil {
		t.Fatalf("AddTree returned error: %v", err)
	}
	if stats.Found != 3 || stats.Added != 3 || stats.Failures != 0 {
		t.Fatalf("stats = %+v", stats)
	}

	loaded, err := r.Store.LoadArchive(root, "release.sfv")
	if err != nil {
		t.Fatalf("sfv not cataloged: %v", err)
	}
	if loaded.Kind() != archive.KindSFV {
		t.Fatalf("Kind = %v", loaded.Kind())
	}

	loaded, err = r.Store.LoadArchive(root, filepath.Join("sub", "movie.rar"))
	if err != nil {
		t.Fatalf("rar set not cataloged: %v", err)
	}
	rarArchive, ok := loaded.(*rar.Archive)
	if !ok {
		t.Fatalf("loaded %T", loaded)
	}
	if rarArchive.NVolumes != 2 {
		t.Fatalf("NVolumes = %d, want 2", rarArchive.NVolumes)
	}

	if _, err := r.Store.LoadArchive(root, "episode [CAFEBABE].mkv"); err != nil {
		t.Fatalf("hash-name file not cataloged: %v", err)
	}
}

func TestAddTreeCountsFailures(t *testing.T) {
	stubSignature(t)
	stubProbe(t, func(string, string) error { return nil })

	root := t.TempDir()
	// A .r00 without its .rar makes the volume set unresolvable.
	writeFile(t, filepath.Join(root, "broken.r00"), "")
	writeFile(t, filepath.Join(root, "fine.sfv"), "a.bin 00000000\n")

	r, _ := newTestRunner(t, root, nil)

	stats, err := r.AddTree(root)
	if err != nil {
		t.Fatalf("AddTree returned error: %v", err)
	}
	if stats.Failures != 1 || stats.Added != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestAddSingleSFV(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "release.sfv"), "payload.bin DEADBEEF\n")

	r, _ := newTestRunner(t, root, nil)
	a, err := r.Add(root, "release.sfv")
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if a.Kind() != archive.KindSFV {
		t.Fatalf("Kind = %v", a.Kind())
	}
	if _, err := r.Store.LoadArchive(root, "release.sfv"); err != nil {
		t.Fatalf("archive not stored: %v", err)
	}
}

func TestAddRejectsUnknownContainer(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "notes.txt"), "hello")

	r, _ := newTestRunner(t, root, nil)
	if _, err := r.Add(root, "notes.txt"); err == nil {
		t.Fatalf("Add accepted a plain file")
	}
}

func TestPasswordRetry(t *testing.T) {
	stubSignature(t)
	stubProbe(t, func(path, password string) error {
		if password == "sesame" {
			return nil
		}
		return rardecode.ErrArchiveEncrypted
	})

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "locked.rar"), "")

	r, fake := newTestRunner(t, root, []sevenzip.Block{
		{"Path": "locked.rar", "Type": "Rar5"},
		{"Path": "secret.bin", "Folder": "-", "Size": "1"},
	})
	r.Passwords = []string{"wrong", "sesame"}

	a, err := r.Add(root, "locked.rar")
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	rarArchive, ok := a.(*rar.Archive)
	if !ok {
		t.Fatalf("Add returned %T", a)
	}
	if rarArchive.Password != "sesame" {
		t.Fatalf("Password = %q, want %q", rarArchive.Password, "sesame")
	}
	if len(fake.calls) != 1 || fake.calls[0] != "sesame" {
		t.Fatalf("lister calls = %v, want one listing with the working password", fake.calls)
	}
}

func TestPasswordExhausted(t *testing.T) {
	stubSignature(t)
	stubProbe(t, func(string, string) error { return rardecode.ErrArchiveEncrypted })

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "locked.rar"), "")

	r, _ := newTestRunner(t, root, nil)
	r.Passwords = []string{"wrong"}

	if _, err := r.Add(root, "locked.rar"); err == nil {
		t.Fatalf("Add succeeded without a working password")
	}
}

func TestDeleteContainers(t *testing.T) {
	stubSignature(t)
	stubProbe(t, func(string, string) error { return nil })

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "release.sfv"), "a.bin 00000000\n")
	writeFile(t, filepath.Join(root, "episode [CAFEBABE].mkv"), "video")

	r, _ := newTestRunner(t, root, nil)
	r.Delete = true

	stats, err := r.AddTree(root)
	if err != nil {
		t.Fatalf("AddTree returned error: %v", err)
	}
	if stats.Deleted != 1 {
		t.Fatalf("stats = %+v, want one deletion", stats)
	}

	if _, err := os.Stat(filepath.Join(root, "release.sfv")); !os.IsNotExist(err) {
		t.Fatalf("sfv file still on disk: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "episode [CAFEBABE].mkv")); err != nil {
		t.Fatalf("hash-name payload was removed: %v", err)
	}

	loaded, err := r.Store.LoadArchive(root, "release.sfv")
	if err != nil {
		t.Fatalf("deleted sfv not in catalog: %v", err)
	}
	sfvArchive, ok := loaded.(*sfv.Archive)
	if !ok {
		t.Fatalf("loaded %T", loaded)
	}
	if !sfvArchive.Meta.Deleted {
		t.Fatalf("deleted flag not set")
	}
}

func TestDryRunWritesNothing(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "release.sfv"), "a.bin 00000000\n")

	r, _ := newTestRunner(t, root, nil)
	r.DryRun = true

	stats, err := r.AddTree(root)
	if err != nil {
		t.Fatalf("AddTree returned error: %v", err)
	}
	if stats.Added != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	if _, err := r.Store.LoadArchive(root, "release.sfv"); err == nil {
		t.Fatalf("dry run persisted an archive")
	}
}
