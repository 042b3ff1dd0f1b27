// Package sevenzip drives the external 7z binary to list archive contents.
// The machine-readable listing (-slt) is the only source of per-entry CRCs
// for classic RAR archives; nothing here extracts or decompresses data.
package sevenzip

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// Block is one key=value section of a -slt listing. The first block
// describes the archive itself (its "Type" key holds the format); the
// remaining blocks describe entries.
type Block map[string]string

// Lister lists archives by invoking the 7z executable.
type Lister struct {
	Executable string
}

// NewLister returns a Lister using the given 7z executable path.
func NewLister(executable string) *Lister {
	return &Lister{Executable: executable}
}

// List runs "7z l -slt" on path and parses the output into blocks. The
// password is always passed, empty or not, so 7z never blocks on a prompt.
func (l *Lister) List(path, password string) ([]Block, error) {
	args := []string{
		"l",
		"-slt",
		"-scsUTF-8",
		"-sccUTF-8",
		"-p" + password,
		path,
	}

	log.Debug().Str("path", path).Bool("password", password != "").Msg("listing archive")

	cmd := exec.Command(l.Executable, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("list %q: %w: %s", path, err, msg)
		}
		return nil, fmt.Errorf("list %q: %w", path, err)
	}

	blocks := ParseListing(stdout.String())
	log.Debug().Str("path", path).Int("blocks", len(blocks)).Msg("listed archive")
	return blocks, nil
}

// ParseListing splits -slt output into key=value blocks. Blocks are
// separated by blank lines; lines without '=' are banner noise and ignored.
func ParseListing(out string) []Block {
	var blocks []Block
	current := Block{}

	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, current)
			current = Block{}
		}
	}

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}

		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			continue
		}
		key := strings.TrimSpace(line[:eq])
		value := strings.TrimSpace(line[eq+1:])
		if key == "" {
			continue
		}
		current[key] = value
	}
	flush()
	return blocks
}
