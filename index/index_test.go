package index

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sortmerna/core/levtable"
	"github.com/sortmerna/core/trie"
)

func numeric(s string) []byte {
	out := make([]byte, len(s))
	for i := range s {
		switch s[i] {
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

func testBlobs(t *testing.T) (lev, trieBlob []byte) {
	t.Helper()
	levBlob, err := levtable.Standard().MarshalBinary()
	require.NoError(t, err)

	b := trie.NewBuilder()
	require.NoError(t, b.Insert(numeric("AC"), 1))
	blob, err := trie.Marshal(b.Root())
	require.NoError(t, err)
	return levBlob, blob
}

func TestLoadPartAndContaining(t *testing.T) {
	levBlob, trieBlob := testBlobs(t)
	refData := ">seq1\nACGT\n"

	idx := New()
	p, err := idx.LoadPart(bytes.NewReader(levBlob), bytes.NewReader(trieBlob), strings.NewReader(refData), 1, 0, 100)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 1, idx.Len())

	got, ok := idx.PartContaining(50)
	require.True(t, ok)
	assert.Same(t, p, got)

	_, ok = idx.PartContaining(200)
	assert.False(t, ok)
}

func TestLoadPartRejectsCorruptLevTable(t *testing.T) {
	_, trieBlob := testBlobs(t)
	idx := New()
	_, err := idx.LoadPart(bytes.NewReader([]byte{1, 2, 3}), bytes.NewReader(trieBlob), strings.NewReader(">s\nAC\n"), 1, 0, 10)
	require.Error(t, err)
}

func TestMultiplePartsOrderedByStart(t *testing.T) {
	levBlob, trieBlob := testBlobs(t)
	idx := New()
	_, err := idx.LoadPart(bytes.NewReader(levBlob), bytes.NewReader(trieBlob), strings.NewReader(">a\nAC\n"), 1, 100, 200)
	require.NoError(t, err)
	_, err = idx.LoadPart(bytes.NewReader(levBlob), bytes.NewReader(trieBlob), strings.NewReader(">b\nAC\n"), 1, 0, 100)
	require.NoError(t, err)

	first, err := idx.First()
	require.NoError(t, err)
	assert.EqualValues(t, 0, first.StartPart)

	p, ok := idx.PartContaining(150)
	require.True(t, ok)
	assert.EqualValues(t, 100, p.StartPart)
}

func TestUnloadClearsReferences(t *testing.T) {
	levBlob, trieBlob := testBlobs(t)
	idx := New()
	_, err := idx.LoadPart(bytes.NewReader(levBlob), bytes.NewReader(trieBlob), strings.NewReader(">a\nAC\n"), 1, 0, 10)
	require.NoError(t, err)
	idx.Unload()
	p, _ := idx.PartContaining(5)
	assert.Equal(t, 0, p.Refs.Len())
}
