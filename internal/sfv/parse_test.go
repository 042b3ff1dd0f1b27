package sfv

import (
	"reflect"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"; generated by cksfv",
		"",
		"file1.bin 11111111",
		"name with spaces.bin 22222222",
		"sub\\file2.bin DEADBEEF",
		"trailing.bin 0000aaaa   ",
	}, "\n")

	entries, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	want := []Entry{
		{Name: "file1.bin", CRC: 0x11111111},
		{Name: "name with spaces.bin", CRC: 0x22222222},
		{Name: `sub\file2.bin`, CRC: 0xDEADBEEF},
		{Name: "trailing.bin", CRC: 0x0000AAAA},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Fatalf("Parse = %+v, want %+v", entries, want)
	}
}

func TestParseRejectsBadLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "short crc", input: "file.bin 1234"},
		{name: "no separator", input: "file.bin12345678x"},
		{name: "missing filename", input: "   12345678"},
		{name: "nine hex digits", input: "file.bin 123456789"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Parse(strings.NewReader(tc.input)); err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", tc.input)
			}
		})
	}
}

func TestParseEmptyInput(t *testing.T) {
	t.Parallel()

	entries, err := Parse(strings.NewReader("; only a comment\n"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("Parse = %+v, want no entries", entries)
	}
}
