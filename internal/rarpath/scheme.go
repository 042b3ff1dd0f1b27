// Package rarpath resolves the naming scheme of multi-volume RAR archives.
//
// Split RAR archives follow one of two mutually incompatible conventions:
// the classic one with a single unsuffixed volume plus two-digit
// continuations (name.rar, name.r00, name.r01, ...) and the modern one where
// every volume carries an explicit part index (name.part1.rar,
// name.part2.rar, ...). A filename alone cannot always tell them apart, so
// resolution works over the whole candidate set sharing a stem.
package rarpath

// Scheme identifies a RAR volume numbering convention. The numeric values
// are stored by the persistence layer and must not change.
type Scheme int

const (
	// SchemeAmbiguous marks a single .partN.rar candidate that has not been
	// confirmed as either convention. It is never the answer for a set of
	// more than one volume.
	SchemeAmbiguous Scheme = 0

	// SchemeDotRNN is the classic convention: one unsuffixed name.rar volume
	// plus zero or more name.rNN continuations.
	SchemeDotRNN Scheme = 3

	// SchemePartN is the modern convention: name.partN.rar for every volume,
	// numbered from 1.
	SchemePartN Scheme = 5
)

func (s Scheme) String() string {
	switch s {
	case SchemeAmbiguous:
		return "ambiguous"
	case SchemeDotRNN:
		return "dot-rnn"
	case SchemePartN:
		return "part-n"
	}
	return "unknown"
}
