package align

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlignmentRoundTrip(t *testing.T) {
	a := &Alignment{
		Cigar:      []uint32{0x40, 0x81, 0x102},
		RefNum:     3,
		RefBegin1:  10,
		RefEnd1:    94,
		ReadBegin1: 0,
		ReadEnd1:   83,
		ReadLen:    100,
		Score1:     250,
		Part:       1,
		IndexNum:   2,
		Strand:     true,
	}

	blob, err := a.MarshalBinary()
	require.NoError(t, err)

	got := &Alignment{}
	require.NoError(t, got.UnmarshalBinary(blob))

	assert.True(t, a.Equal(got))
}

func TestAlignmentRoundTripEmptyCigarAndReverseStrand(t *testing.T) {
	a := &Alignment{ReadLen: 50, Strand: false}
	blob, err := a.MarshalBinary()
	require.NoError(t, err)

	got := &Alignment{}
	require.NoError(t, got.UnmarshalBinary(blob))
	assert.True(t, a.Equal(got))
	assert.Empty(t, got.Cigar)
	assert.False(t, got.Strand)
}

func TestAlignmentUnmarshalRejectsTruncated(t *testing.T) {
	a := &Alignment{Cigar: []uint32{1, 2}, ReadLen: 10}
	blob, err := a.MarshalBinary()
	require.NoError(t, err)

	got := &Alignment{}
	err = got.UnmarshalBinary(blob[:len(blob)-3])
	assert.Error(t, err)
}

func TestAlignmentUnmarshalRejectsMissingHeader(t *testing.T) {
	got := &Alignment{}
	assert.Error(t, got.UnmarshalBinary([]byte{1, 2, 3}))
}

func TestAlignmentEqualDetectsDifference(t *testing.T) {
	a := &Alignment{RefNum: 1, Cigar: []uint32{1}}
	b := &Alignment{RefNum: 2, Cigar: []uint32{1}}
	assert.False(t, a.Equal(b))
}
