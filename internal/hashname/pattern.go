package hashname

import "regexp"

// crcGroup is the submatch index of the hex digits in both patterns.
const crcGroup = 2

// One pattern per enclosure, built once at startup. The hash must be exactly
// eight hex digits (case-insensitive) and a suffix must follow so the hash is
// not the whole name.
var (
	enclosures = []Enclosure{EnclosureSquare, EnclosureParen}

	patterns = map[Enclosure]*regexp.Regexp{
		EnclosureSquare: compilePattern(`\[`, `\]`),
		EnclosureParen:  compilePattern(`\(`, `\)`),
	}
)

func compilePattern(open, close string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^(.+)` + open + `([0-9A-F]{8})` + close + `(\..+)$`)
}
