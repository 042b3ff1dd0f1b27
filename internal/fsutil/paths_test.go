package fsutil

import "testing"

func TestDetectFlavor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		raw    string
		flavor Flavor
	}{
		{name: "bare name", raw: "file.bin", flavor: FlavorAmbivalent},
		{name: "posix", raw: "dir/file.bin", flavor: FlavorPosix},
		{name: "windows", raw: `dir\file.bin`, flavor: FlavorWindows},
		{name: "mixed", raw: `dir\sub/file.bin`, flavor: FlavorUnresolvable},
		{name: "empty", raw: "", flavor: FlavorAmbivalent},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := DetectFlavor(tc.raw); got != tc.flavor {
				t.Fatalf("DetectFlavor(%q) = %v, want %v", tc.raw, got, tc.flavor)
			}
		})
	}
}

func TestNormalizeEntryPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{name: "posix untouched", raw: "dir/file.bin", want: "dir/file.bin", ok: true},
		{name: "windows converted", raw: `dir\file.bin`, want: "dir/file.bin", ok: true},
		{name: "bare name untouched", raw: "file.bin", want: "file.bin", ok: true},
		{name: "mixed rejected", raw: `dir\sub/file.bin`, ok: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := NormalizeEntryPath(tc.raw)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("NormalizeEntryPath(%q) = (%q, %v), want (%q, %v)", tc.raw, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestSanitizeRelPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{name: "simple", raw: "file.bin", want: "file.bin", ok: true},
		{name: "nested", raw: "dir/sub/file.bin", want: "dir/sub/file.bin", ok: true},
		{name: "backslashes normalized", raw: `dir\file.bin`, want: "dir/file.bin", ok: true},
		{name: "redundant segments cleaned", raw: "dir//./file.bin", want: "dir/file.bin", ok: true},
		{name: "empty", raw: "", ok: false},
		{name: "whitespace only", raw: "   ", ok: false},
		{name: "absolute", raw: "/etc/passwd", ok: false},
		{name: "parent escape", raw: "../file.bin", ok: false},
		{name: "inner parent escape", raw: "dir/../../file.bin", ok: false},
		{name: "drive prefix", raw: `C:\windows\file.bin`, ok: false},
		{name: "dot", raw: ".", ok: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := SanitizeRelPath(tc.raw)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("SanitizeRelPath(%q) = (%q, %v), want (%q, %v)", tc.raw, got, ok, tc.want, tc.ok)
			}
		})
	}
}
