package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

func TestLoadPartMmapMatchesLoadPart(t *testing.T) {
	levBlob, trieBlob := testBlobs(t)
	refData := []byte(">seq1\nACGT\n")

	dir := t.TempDir()
	levPath := writeTemp(t, dir, "p.lev", levBlob)
	triePath := writeTemp(t, dir, "p.trie", trieBlob)
	refPath := writeTemp(t, dir, "p.fasta", refData)

	idx := New()
	p, err := idx.LoadPartMmap(levPath, triePath, refPath, 1, 0, 100)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 1, p.Refs.Len())

	got, ok := idx.PartContaining(50)
	require.True(t, ok)
	assert.Same(t, p, got)
}

func TestLoadPartMmapSurfacesMissingFile(t *testing.T) {
	idx := New()
	_, err := idx.LoadPartMmap("/nonexistent/p.lev", "/nonexistent/p.trie", "/nonexistent/p.fasta", 1, 0, 1)
	assert.Error(t, err)
}
