// Package align implements spec.md §8's seed-extension alignment record
// (s_align2 in original_source/include/ssw.hpp) and its binary
// persistence blob. This module does not perform Smith-Waterman
// extension itself (spec.md's Non-goals exclude full alignment scoring);
// it carries the record shape and round-trip contract that a later
// extension stage would populate.
package align

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Alignment is the Go shape of s_align2: one seed-extension result for a
// read against one reference sequence.
type Alignment struct {
	Cigar      []uint32
	RefNum     uint32
	RefBegin1  int32
	RefEnd1    int32
	ReadBegin1 int32
	ReadEnd1   int32
	ReadLen    uint32
	Score1     uint16
	Part       uint16
	IndexNum   uint16
	Strand     bool
}

const fixedSize = 8 /* cigarlen size_t */ + 4 + 4 + 4 + 4 + 4 + 4 + 2 + 2 + 2 + 1

// MarshalBinary encodes a into the exact byte layout of
// s_align2::toString: a leading 8-byte cigar length (the original's
// size_t, realized here as a fixed 8-byte little-endian count), the
// cigar words, then the fixed fields in declaration order.
func (a *Alignment) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 8+4*len(a.Cigar)+fixedSize-8)
	binary.LittleEndian.PutUint64(buf[0:8], uint64(len(a.Cigar)))
	off := 8
	for _, w := range a.Cigar {
		binary.LittleEndian.PutUint32(buf[off:off+4], w)
		off += 4
	}
	binary.LittleEndian.PutUint32(buf[off:off+4], a.RefNum)
	off += 4
	binary.LittleEndian.PutUint32(buf[off:off+4], uint32(a.RefBegin1))
	off += 4
	binary.LittleEndian.PutUint32(buf[off:off+4], uint32(a.RefEnd1))
	off += 4
	binary.LittleEndian.PutUint32(buf[off:off+4], uint32(a.ReadBegin1))
	off += 4
	binary.LittleEndian.PutUint32(buf[off:off+4], uint32(a.ReadEnd1))
	off += 4
	binary.LittleEndian.PutUint32(buf[off:off+4], a.ReadLen)
	off += 4
	binary.LittleEndian.PutUint16(buf[off:off+2], a.Score1)
	off += 2
	binary.LittleEndian.PutUint16(buf[off:off+2], a.Part)
	off += 2
	binary.LittleEndian.PutUint16(buf[off:off+2], a.IndexNum)
	off += 2
	buf[off] = 0
	if a.Strand {
		buf[off] = 1
	}
	return buf, nil
}

// UnmarshalBinary decodes a blob produced by MarshalBinary, matching
// s_align2's std::string constructor.
func (a *Alignment) UnmarshalBinary(data []byte) error {
	if len(data) < 8 {
		return errors.New("align: blob too short for cigar length")
	}
	n := binary.LittleEndian.Uint64(data[0:8])
	off := 8
	need := off + 4*int(n) + (fixedSize - 8)
	if len(data) < need {
		return errors.Errorf("align: blob too short: have %d, want %d", len(data), need)
	}

	cigar := make([]uint32, n)
	for i := range cigar {
		cigar[i] = binary.LittleEndian.Uint32(data[off : off+4])
		off += 4
	}

	a.Cigar = cigar
	a.RefNum = binary.LittleEndian.Uint32(data[off : off+4])
	off += 4
	a.RefBegin1 = int32(binary.LittleEndian.Uint32(data[off : off+4]))
	off += 4
	a.RefEnd1 = int32(binary.LittleEndian.Uint32(data[off : off+4]))
	off += 4
	a.ReadBegin1 = int32(binary.LittleEndian.Uint32(data[off : off+4]))
	off += 4
	a.ReadEnd1 = int32(binary.LittleEndian.Uint32(data[off : off+4]))
	off += 4
	a.ReadLen = binary.LittleEndian.Uint32(data[off : off+4])
	off += 4
	a.Score1 = binary.LittleEndian.Uint16(data[off : off+2])
	off += 2
	a.Part = binary.LittleEndian.Uint16(data[off : off+2])
	off += 2
	a.IndexNum = binary.LittleEndian.Uint16(data[off : off+2])
	off += 2
	a.Strand = data[off] != 0
	return nil
}

// Equal reports whether a and other carry the same alignment data,
// matching s_align2::operator==.
func (a *Alignment) Equal(other *Alignment) bool {
	if a.RefNum != other.RefNum || a.RefBegin1 != other.RefBegin1 || a.RefEnd1 != other.RefEnd1 ||
		a.ReadBegin1 != other.ReadBegin1 || a.ReadEnd1 != other.ReadEnd1 || a.ReadLen != other.ReadLen ||
		a.Score1 != other.Score1 || a.Part != other.Part || a.IndexNum != other.IndexNum ||
		a.Strand != other.Strand || len(a.Cigar) != len(other.Cigar) {
		return false
	}
	for i := range a.Cigar {
		if a.Cigar[i] != other.Cigar[i] {
			return false
		}
	}
	return true
}
