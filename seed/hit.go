package seed

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Hit is one seed hit: an occurrence-table key found at a given window,
// on a given strand of the read. Strand is an in-memory-only annotation;
// the wire form below matches original_source's id_win struct, which
// carries only {id, win} — strand is implicit in which hit list a Hit
// came from.
type Hit struct {
	Key    uint32
	Win    uint32
	Strand bool
}

// wireSize is the encoded size of the id_win-equivalent {id, win} pair:
// two little-endian uint32s.
const wireSize = 8

// MarshalBinary encodes Key and Win as two little-endian uint32s,
// matching original_source/include/traverse_bursttrie.hpp's id_win.
func (h Hit) MarshalBinary() ([]byte, error) {
	buf := make([]byte, wireSize)
	binary.LittleEndian.PutUint32(buf[0:4], h.Key)
	binary.LittleEndian.PutUint32(buf[4:8], h.Win)
	return buf, nil
}

// UnmarshalBinary decodes Key and Win from their wire form. Strand is left
// at its zero value; callers that need it must set it from context.
func (h *Hit) UnmarshalBinary(data []byte) error {
	if len(data) < wireSize {
		return errors.Errorf("seed: hit blob too short: %d bytes", len(data))
	}
	h.Key = binary.LittleEndian.Uint32(data[0:4])
	h.Win = binary.LittleEndian.Uint32(data[4:8])
	return nil
}
