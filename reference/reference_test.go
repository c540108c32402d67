package reference

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sortmerna/core/internal/nt"
)

func TestLoadFasta(t *testing.T) {
	data := ">seq1 first\nACGT\nACGT\n>seq2 second\nTTTT\n"
	s, err := Load(strings.NewReader(data), 2)
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())

	r0, ok := s.Get(0)
	require.True(t, ok)
	assert.Equal(t, "seq1 first", r0.Header)
	assert.Equal(t, FormatFasta, r0.Format)
	assert.Equal(t, []byte{nt.A, nt.C, nt.G, nt.T, nt.A, nt.C, nt.G, nt.T}, r0.Sequence)
	assert.EqualValues(t, 0, r0.NID)

	r1, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, "seq2 second", r1.Header)
	assert.Equal(t, []byte{nt.T, nt.T, nt.T, nt.T}, r1.Sequence)
}

func TestLoadFastq(t *testing.T) {
	data := "@read1\nACGT\n+\nIIII\n"
	s, err := Load(strings.NewReader(data), 1)
	require.NoError(t, err)
	r0, ok := s.Get(0)
	require.True(t, ok)
	assert.Equal(t, FormatFastq, r0.Format)
	assert.Equal(t, []byte{nt.A, nt.C, nt.G, nt.T}, r0.Sequence)
	assert.Equal(t, "IIII", r0.Quality)
}

func TestFindByIDSubstring(t *testing.T) {
	data := ">alpha\nACGT\n>beta\nTTTT\n"
	s, err := Load(strings.NewReader(data), 2)
	require.NoError(t, err)

	nid, ok := s.FindByIDSubstring("eta")
	require.True(t, ok)
	assert.EqualValues(t, 1, nid)

	_, ok = s.FindByIDSubstring("gamma")
	assert.False(t, ok)
}

func TestUnloadClearsRecords(t *testing.T) {
	data := ">alpha\nACGT\n"
	s, err := Load(strings.NewReader(data), 1)
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())
	s.Unload()
	assert.Equal(t, 0, s.Len())
}

func TestLoadRejectsSequenceDataBeforeHeader(t *testing.T) {
	_, err := Load(strings.NewReader("ACGT\n>seq1\nACGT\n"), 1)
	assert.Error(t, err)
}
