// Package nt holds the fixed nucleotide alphabet (spec.md §3): A=0, C=1,
// G=2, T=3, N=4. Input bytes are mapped through a 256-entry table;
// ambiguous IUPAC codes collapse deterministically to one of A/C/G/T/N.
//
// The table's exact handling of lowercase and IUPAC ambiguity codes is not
// specified by spec.md (§9 Open Question 2 leaves it to "common.hpp", which
// is not part of this module's inputs); this file fixes a concrete,
// deterministic mapping so the rest of the core has numeric input in
// {0..4}.
package nt

const (
	A byte = 0
	C byte = 1
	G byte = 2
	T byte = 3
	N byte = 4
)

// Table maps every byte value to its numeric nucleotide code.
var Table [256]byte

func init() {
	for i := range Table {
		Table[i] = N
	}
	set := func(upper, lower byte, code byte) {
		Table[upper] = code
		Table[lower] = code
	}
	set('A', 'a', A)
	set('C', 'c', C)
	set('G', 'g', G)
	set('T', 't', T)
	set('U', 'u', T) // RNA uracil reads as T in the numeric alphabet.

	// IUPAC ambiguity codes collapse deterministically to a single base.
	ambiguous := map[byte]byte{
		'R': A, 'Y': C, 'S': C, 'W': A, 'K': G, 'M': A,
		'B': C, 'D': A, 'H': A, 'V': A,
	}
	for code, base := range ambiguous {
		Table[code] = base
		Table[code+('a'-'A')] = base
	}
}

// Map converts a single raw byte to its numeric code.
func Map(b byte) byte { return Table[b] }

// Convert writes the numeric form of seq into dst, which must be at least
// len(seq) bytes. Whitespace is the caller's responsibility to trim first;
// Convert itself only maps bytes through Table.
func Convert(dst, seq []byte) {
	for i, b := range seq {
		dst[i] = Table[b]
	}
}

// ConvertFix converts seq to numeric form in place, preserving literal
// space characters (0x20) and mapping everything else through Table. This
// matches original_source/src/sortmerna/references.cpp's convert_fix,
// which special-cases space so that padded reference records round-trip.
func ConvertFix(seq []byte) {
	for i, b := range seq {
		if b == ' ' {
			continue
		}
		seq[i] = Table[b]
	}
}

// Complement returns the Watson-Crick complement of a numeric base. N
// complements to N.
func Complement(b byte) byte {
	switch b {
	case A:
		return T
	case C:
		return G
	case G:
		return C
	case T:
		return A
	default:
		return N
	}
}

// ReverseComplement returns the reverse complement of a numeric sequence.
func ReverseComplement(seq []byte) []byte {
	out := make([]byte, len(seq))
	n := len(seq)
	for i, b := range seq {
		out[n-1-i] = Complement(b)
	}
	return out
}

// ToChar renders a single numeric base back to its IUPAC letter, for
// logging and debugging.
func ToChar(b byte) byte {
	const chars = "ACGTN"
	if int(b) >= len(chars) {
		return 'N'
	}
	return chars[b]
}
