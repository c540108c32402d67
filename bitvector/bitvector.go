// Package bitvector implements the bit-parallel NFA state table described in
// spec.md §4.1 (component C1, WindowBitTable): for a sliding half-mer window
// of P characters, it stores one 8-bit entry per (depth, nucleotide) pair,
// four entries per depth, laid out as a contiguous []uint8 matching spec.md
// §3's "4·(P+offset) bit-vectors of 8-bit width" description.
//
// Each entry's low two bits are the only ones this table itself stores:
// bit 0 ("exact") says the nucleotide at this depth would continue an
// unedited match, or a substitution spent earlier; bit 1 ("skew") says it
// would continue a match that has already spent its one allowed edit as a
// deletion, treating the pattern character at this depth as absent from
// the trie string. trie.Traverse derives a third bit ("back") from the
// previous depth's bit 0 to test a live insertion's continuation — this
// table does not need to store it, since At(depth-1, c) already answers
// that question. Init and Offset are defined together so that entry[d].bit0
// always equals "c == pattern[d]" and entry[d].bit1 always equals
// "c == pattern[d+1]" for whatever pattern the current window corresponds
// to (see DESIGN.md, Open Question 1) — which is what makes spec.md §8
// invariant 1 (offset composed k times == direct init on the k-shifted
// pattern) hold by construction rather than by coincidence. levtable.Standard
// combines these bits into a genuine three-operation (substitution,
// insertion, deletion) k=1 Levenshtein automaton; this table only ever
// needs to expose the raw per-depth match facts, not the automaton itself.
//
// This is a reinterpretation of original_source/src/sortmerna/bitvector.cpp
// as index-based slice operations rather than raw UCHAR* pointer
// arithmetic, following the Design Notes' guidance to replace pointer
// cursors with explicit, checked indexing.
package bitvector

import "github.com/pkg/errors"

const (
	bitExact uint8 = 0x1
	bitSkew  uint8 = 0x2
)

// Table holds the bit-vectors for one half (forward or reverse) of a
// sliding L-mer window: P depths, 4 nucleotide columns each.
type Table struct {
	p    int
	data []uint8 // len == 4*p; data[depth*4+nt]
}

// New allocates a zeroed Table for a half-mer of length p.
func New(p int) *Table {
	if p <= 0 {
		panic("bitvector: p must be positive")
	}
	return &Table{p: p, data: make([]uint8, 4*p)}
}

// P returns the half-mer length this table was sized for.
func (t *Table) P() int { return t.p }

// At returns the raw byte stored for (depth, nt). Only bits 0 and 1 are
// ever set; trie.Traverse keeps those two bits (mask 0x03) and adds the
// "back" bit itself to form the 4-bit match mask LevTable expects.
func (t *Table) At(depth int, nt byte) uint8 {
	return t.data[depth*4+int(nt)]
}

func (t *Table) clear() {
	for i := range t.data {
		t.data[i] = 0
	}
}

// virtual returns, for the (P+1)-long conceptual pattern a table
// represents, whether nucleotide c occupies position idx (idx in [0,P]).
// idx < P reads straight from bit 0 of that depth; idx == P — the one
// lookahead character past the half-mer's nominal end — is carried in bit
// 1 of the deepest depth.
func virtual(t *Table, idx int, c byte) bool {
	if idx < t.p {
		return t.data[idx*4+int(c)]&bitExact != 0
	}
	return t.data[(t.p-1)*4+int(c)]&bitSkew != 0
}

// InitForward initializes the table as the forward (prefix) half-mer table.
// seg must hold P+1 characters: seg[i] is the read character at window
// position win+i, for i=0..P — the extra character at seg[P] is the
// lookahead into the neighboring (reverse) half, consulted only by bit 1
// of the deepest depth.
func (t *Table) InitForward(seg []byte) error {
	if err := t.checkSeg(seg); err != nil {
		return err
	}
	p := t.p
	t.clear()
	for d := 0; d < p; d++ {
		for c := byte(0); c < 4; c++ {
			var v uint8
			if seg[d] < 4 && c == seg[d] {
				v |= bitExact
			}
			if seg[d+1] < 4 && c == seg[d+1] {
				v |= bitSkew
			}
			t.data[d*4+int(c)] = v
		}
	}
	return nil
}

// InitReverse initializes the table as the reverse (suffix) half-mer table,
// read backward from the end of the L-mer window. seg must hold P+1
// characters in ordinary left-to-right read order: seg[0..P] = read
// positions win+P-1 .. win+L-1, i.e. seg is the forward half's last
// character followed by the whole reverse half. Internally the pattern is
// walked from seg's end toward its start.
func (t *Table) InitReverse(seg []byte) error {
	if err := t.checkSeg(seg); err != nil {
		return err
	}
	p := t.p
	at := func(i int) byte { return seg[p-i] }
	t.clear()
	for d := 0; d < p; d++ {
		a, b := at(d), at(d+1)
		for c := byte(0); c < 4; c++ {
			var v uint8
			if a < 4 && c == a {
				v |= bitExact
			}
			if b < 4 && c == b {
				v |= bitSkew
			}
			t.data[d*4+int(c)] = v
		}
	}
	return nil
}

func (t *Table) checkSeg(seg []byte) error {
	if len(seg) < t.p+1 {
		return errors.Errorf("bitvector: segment length %d shorter than P+1=%d", len(seg), t.p+1)
	}
	return nil
}

// Offset slides the window by one read position without rebuilding either
// table from scratch, per spec.md §4.1's offset contract: newF and newR
// are derived from oldF/oldR, with only the values touching the new
// boundary character computed fresh. dropChar feeds the reverse half's
// update and addChar feeds the forward half's update, per spec.md §4.5
// step 7's parameter roles (the read positions supplying those characters
// are resolved in DESIGN.md, Open Question 2).
func Offset(oldF, oldR, newF, newR *Table, dropChar, addChar byte) error {
	if oldF.p != newF.p || oldR.p != newR.p || oldF.p != oldR.p {
		return errors.New("bitvector: mismatched table sizes in Offset")
	}
	shiftForward(oldF, newF, addChar)
	shiftReverse(oldR, newR, dropChar)
	return nil
}

// shiftForward advances the forward half's (P+1)-long virtual pattern by
// one position, with addChar becoming the new lookahead character.
func shiftForward(old, new *Table, addChar byte) {
	p := old.p
	for d := 0; d < p; d++ {
		for c := byte(0); c < 4; c++ {
			var v uint8
			if virtual(old, d+1, c) {
				v |= bitExact
			}
			if d+1 < p {
				if virtual(old, d+2, c) {
					v |= bitSkew
				}
			} else if addChar < 4 && c == addChar {
				v |= bitSkew
			}
			new.data[d*4+int(c)] = v
		}
	}
}

// shiftReverse advances the reverse half's (P+1)-long virtual pattern by
// one position from the far end, with dropChar becoming the new character
// at the window's new outer boundary.
func shiftReverse(old, new *Table, dropChar byte) {
	p := old.p
	for d := 0; d < p; d++ {
		for c := byte(0); c < 4; c++ {
			var v uint8
			if d == 0 {
				if dropChar < 4 && c == dropChar {
					v |= bitExact
				}
			} else if virtual(old, d-1, c) {
				v |= bitExact
			}
			if virtual(old, d, c) {
				v |= bitSkew
			}
			new.data[d*4+int(c)] = v
		}
	}
}
