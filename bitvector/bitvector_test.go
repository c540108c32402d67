package bitvector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// numeric encodes a string of ACGT into the bitvector package's nucleotide
// codes without importing internal/nt, to keep this test self-contained.
func numeric(s string) []byte {
	out := make([]byte, len(s))
	for i, r := range s {
		switch r {
		case 'A':
			out[i] = 0
		case 'C':
			out[i] = 1
		case 'G':
			out[i] = 2
		case 'T':
			out[i] = 3
		default:
			out[i] = 4
		}
	}
	return out
}

func TestInitForwardMatchesVirtualDefinition(t *testing.T) {
	seg := numeric("ACGTA") // P=4, one lookahead char
	tbl := New(4)
	require.NoError(t, tbl.InitForward(seg))

	for d := 0; d < 4; d++ {
		for c := byte(0); c < 4; c++ {
			exact := tbl.At(d, c)&bitExact != 0
			assert.Equal(t, c == seg[d], exact, "depth %d nt %d exact bit", d, c)
			skew := tbl.At(d, c)&bitSkew != 0
			assert.Equal(t, c == seg[d+1], skew, "depth %d nt %d skew bit", d, c)
		}
	}
}

func TestInitReverseMatchesVirtualDefinition(t *testing.T) {
	// seg is in ordinary read order: seg[0] is the forward half's last
	// character, seg[1:] is the reverse half read left-to-right.
	seg := numeric("AACGTT") // P=5
	tbl := New(5)
	require.NoError(t, tbl.InitReverse(seg))

	// S_rev[i] = seg[P-i]
	for d := 0; d < 5; d++ {
		a := seg[5-d]
		b := seg[5-(d+1)]
		for c := byte(0); c < 4; c++ {
			assert.Equal(t, c == a, tbl.At(d, c)&bitExact != 0, "depth %d exact", d)
			assert.Equal(t, c == b, tbl.At(d, c)&bitSkew != 0, "depth %d skew", d)
		}
	}
}

// TestOffsetMatchesDirectInit is spec.md §8 invariant 1: offset composed k
// times must equal a direct init on the k-shifted pattern, for both halves.
func TestOffsetMatchesDirectInit(t *testing.T) {
	p := 4
	read := numeric("ACGTACGTACGTAC") // long enough to shift several windows
	l := 2 * p

	initAt := func(win int) (f, r *Table) {
		f = New(p)
		require.NoError(t, f.InitForward(read[win:win+p+1]))
		r = New(p)
		require.NoError(t, r.InitReverse(read[win+p-1:win+l+1]))
		return f, r
	}

	curF, curR := initAt(0)
	win := 0
	for step := 0; step < 5; step++ {
		dropChar := read[win+l]
		addChar := read[win+p+1]

		nextF, nextR := New(p), New(p)
		require.NoError(t, Offset(curF, curR, nextF, nextR, dropChar, addChar))

		win++
		wantF, wantR := initAt(win)

		assert.Equal(t, wantF.data, nextF.data, "forward table mismatch after %d offsets", step+1)
		assert.Equal(t, wantR.data, nextR.data, "reverse table mismatch after %d offsets", step+1)

		curF, curR = nextF, nextR
	}
}

func TestOffsetRejectsMismatchedSizes(t *testing.T) {
	f1, r1 := New(4), New(4)
	f2, r2 := New(3), New(3)
	err := Offset(f1, r1, f2, r2, 0, 0)
	assert.Error(t, err)
}

func TestInitRejectsShortSegment(t *testing.T) {
	tbl := New(4)
	err := tbl.InitForward(numeric("ACG"))
	assert.Error(t, err)
}
