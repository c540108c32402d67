package index

import (
	"bytes"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// mmapFile memory-maps path read-only in its entirety, returning the
// mapped bytes and a closer that unmaps them. An empty file maps to a
// nil slice with a no-op closer, since unix.Mmap rejects zero-length
// mappings.
func mmapFile(path string) ([]byte, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	if fi.Size() == 0 {
		return nil, func() error { return nil }, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(fi.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, errors.Wrap(err, "index: mmap")
	}
	_ = unix.Madvise(data, unix.MADV_RANDOM)
	return data, func() error { return unix.Munmap(data) }, nil
}

// LoadPartMmap loads one index part the same as LoadPart, but maps the
// LevTable, trie, and reference files read-only instead of copying them
// into the process heap via a buffered read, matching
// fusion/kmer_index.go's mmap technique for large index blobs. The
// mappings are released once the part's in-memory structures (which
// copy the bytes they need) have been built.
func (idx *Index) LoadPartMmap(levPath, triePath, refPath string, numSeq uint32, startPart, endPart int64) (*Part, error) {
	levData, levClose, err := mmapFile(levPath)
	if err != nil {
		return nil, errors.Wrap(err, "index: mmap levtable")
	}
	defer levClose()

	trieData, trieClose, err := mmapFile(triePath)
	if err != nil {
		return nil, errors.Wrap(err, "index: mmap trie")
	}
	defer trieClose()

	refData, refClose, err := mmapFile(refPath)
	if err != nil {
		return nil, errors.Wrap(err, "index: mmap reference")
	}
	defer refClose()

	return idx.LoadPart(bytes.NewReader(levData), bytes.NewReader(trieData), bytes.NewReader(refData), numSeq, startPart, endPart)
}
