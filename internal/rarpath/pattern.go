package rarpath

import (
	"path/filepath"
	"regexp"
	"strconv"
)

// The two volume-naming grammars. Both require a non-empty stem and are
// case-sensitive on the literal tokens. They are applied to the final path
// segment only.
var (
	dotRNNPattern = regexp.MustCompile(`^(?P<stem>.+)\.(?P<suffix>rar|r(?P<index>[0-9]{2}))$`)
	partNPattern  = regexp.MustCompile(`^(?P<stem>.+)\.part(?P<index>[0-9]+)\.(?P<suffix>rar)$`)
)

// BaseIndex is the sentinel index of the unsuffixed name.rar volume under
// SchemeDotRNN. It sorts before every numbered continuation.
const BaseIndex = -1

// Volume is one parsed volume filename. Values are immutable after
// construction.
type Volume struct {
	// Index is the parsed volume index, or BaseIndex for the unsuffixed
	// name.rar volume.
	Index int

	// Path is the input string, verbatim. It may be a bare filename or a
	// full path.
	Path string

	// Stem is the filename portion before the scheme suffix. Volumes of the
	// same archive share a stem.
	Stem string

	// Suffix is the matched suffix token: "rar", or "rNN" for a numbered
	// classic continuation.
	Suffix string
}

// MatchDotRNN matches path's final segment against the classic
// name.rar / name.rNN grammar.
func MatchDotRNN(path string) (Volume, bool) {
	return match(dotRNNPattern, path)
}

// MatchPartN matches path's final segment against the modern
// name.partN.rar grammar.
func MatchPartN(path string) (Volume, bool) {
	return match(partNPattern, path)
}

// Match tries the modern grammar first, then the classic one. The modern
// suffix shape is the more specific of the two: every name.partN.rar also
// parses as a classic volume with a ".partN" stem tail.
func Match(path string) (Volume, bool) {
	if volume, ok := MatchPartN(path); ok {
		return volume, ok
	}
	return MatchDotRNN(path)
}

func match(pattern *regexp.Regexp, path string) (Volume, bool) {
	groups := pattern.FindStringSubmatch(filepath.Base(path))
	if groups == nil {
		return Volume{}, false
	}

	volume := Volume{
		Index: BaseIndex,
		Path:  path,
	}
	for i, name := range pattern.SubexpNames() {
		switch name {
		case "stem":
			volume.Stem = groups[i]
		case "suffix":
			volume.Suffix = groups[i]
		case "index":
			if groups[i] == "" {
				continue
			}
			index, err := strconv.Atoi(groups[i])
			if err != nil {
				return Volume{}, false
			}
			volume.Index = index
		}
	}
	return volume, true
}
