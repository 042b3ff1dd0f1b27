package rarpath

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// SchemeError reports that a candidate volume set is not a coherent,
// resolvable archive. The message text is part of the package contract.
type SchemeError struct {
	Reason string
}

func (e *SchemeError) Error() string {
	return e.Reason
}

func schemeErrorf(format string, args ...any) error {
	return &SchemeError{Reason: fmt.Sprintf(format, args...)}
}

// ParseList resolves the naming scheme of a set of filenames or paths
// believed to be volumes of one archive. Input order does not matter and the
// returned volumes keep the input order; use Sort for canonical order.
//
// An empty input resolves to an empty SchemePartN set: without an unsuffixed
// name.rar volume nothing can prove the classic scheme, so the set is
// vacuously part-numbered.
func ParseList(paths []string) (Scheme, []Volume, error) {
	if len(paths) == 0 {
		return SchemePartN, nil, nil
	}

	scheme := SchemePartN
	volumes := make([]Volume, 0, len(paths))
	for _, path := range paths {
		volume, ok := MatchPartN(path)
		if !ok {
			volumes = volumes[:0]
			break
		}
		volumes = append(volumes, volume)
	}

	switch {
	case len(volumes) == 0:
		// At least one input is not a part-numbered volume, so the whole set
		// must parse as classic volumes.
		scheme = SchemeDotRNN
		for _, path := range paths {
			volume, ok := MatchDotRNN(path)
			if !ok {
				return 0, nil, schemeErrorf("\"%s\" does not match the version-3 pattern", path)
			}
			volumes = append(volumes, volume)
		}
	case len(paths) == 1:
		// A single part-numbered file cannot be confirmed yet.
		scheme = SchemeAmbiguous
	}

	stem := volumes[0].Stem
	for _, volume := range volumes[1:] {
		if volume.Stem != stem {
			return 0, nil, schemeErrorf("%s has an inconsistent stem", volume.Path)
		}
	}

	actual := make(map[int]struct{}, len(volumes))
	for _, volume := range volumes {
		actual[volume.Index] = struct{}{}
	}

	var base int
	switch scheme {
	case SchemeDotRNN:
		base = BaseIndex
	case SchemePartN:
		base = 1
	case SchemeAmbiguous:
		// The lone file is a valid part-numbered archive only if its index
		// is exactly 1.
		if _, ok := actual[1]; ok && len(actual) == 1 {
			return SchemeAmbiguous, volumes, nil
		}
		// Ruled out: the apparent part index was just part of the filename.
		// Reinterpret the file as the unsuffixed classic volume.
		scheme = SchemeDotRNN
		base = BaseIndex
		actual = map[int]struct{}{BaseIndex: {}}
	}

	if scheme == SchemeDotRNN {
		unnumbered := 0
		for _, volume := range volumes {
			if volume.Suffix == "rar" {
				unnumbered++
			}
		}
		if unnumbered != 1 {
			return 0, nil, schemeErrorf("%d paths have a non-indexed suffix; must be exactly one", unnumbered)
		}
	}

	expected := make(map[int]struct{}, len(paths))
	for i := range paths {
		expected[base+i] = struct{}{}
	}

	var spurious []int
	for index := range actual {
		if _, ok := expected[index]; !ok {
			spurious = append(spurious, index)
		}
	}
	if len(spurious) > 0 {
		return 0, nil, schemeErrorf("The following indices are unexpected: %s", formatIndices(spurious))
	}

	var missing []int
	for index := range expected {
		if _, ok := actual[index]; !ok {
			missing = append(missing, index)
		}
	}
	if len(missing) > 0 {
		return 0, nil, schemeErrorf("The following indices are missing: %s", formatIndices(missing))
	}

	return scheme, volumes, nil
}

// Sort resolves paths with ParseList and returns them in canonical volume
// order: ascending index, ties broken by the original path string. The first
// element is the main volume.
func Sort(paths []string) (Scheme, []string, error) {
	scheme, volumes, err := ParseList(paths)
	if err != nil {
		return 0, nil, err
	}

	SortVolumes(volumes)

	ordered := make([]string, len(volumes))
	for i, volume := range volumes {
		ordered[i] = volume.Path
	}
	return scheme, ordered, nil
}

// SortVolumes orders volumes in place by (index, path).
func SortVolumes(volumes []Volume) {
	sort.Slice(volumes, func(i, j int) bool {
		if volumes[i].Index != volumes[j].Index {
			return volumes[i].Index < volumes[j].Index
		}
		return volumes[i].Path < volumes[j].Path
	})
}

func formatIndices(indices []int) string {
	sort.Ints(indices)
	parts := make([]string, len(indices))
	for i, index := range indices {
		parts[i] = strconv.Itoa(index)
	}
	return strings.Join(parts, ", ")
}
