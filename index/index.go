// Package index loads one or more index parts — each a LevTable, a
// MiniBurstTrie, and the ReferenceStore slice of sequences it indexes —
// and orders them by their start_part byte offset into the original
// reference file, matching original_source/include/indexer.hpp's
// per-part indexing scheme (spec.md §4.6, §6).
//
// Part lookup by offset uses a left-leaning red-black tree
// (github.com/biogo/store/llrb), the same structure
// encoding/bampair/shard_info.go uses to order BAM shards by genomic
// start position.
package index

import (
	"io"

	"github.com/biogo/store/llrb"
	"github.com/pkg/errors"

	"github.com/sortmerna/core/levtable"
	"github.com/sortmerna/core/reference"
	"github.com/sortmerna/core/sortmernaerr"
	"github.com/sortmerna/core/trie"
)

// Part is one index part: the trie+automaton pair used for seed
// enumeration, and the reference sequences those seed keys point into.
type Part struct {
	StartPart int64
	EndPart   int64
	NumSeq    uint32

	Lev  *levtable.Table
	Trie *trie.Node
	Refs *reference.Store
}

type partKey struct {
	start int64
	part  *Part
}

// Compare orders partKey entries by their reference-file start offset,
// matching encoding/bampair/shard_info.go's key.Compare.
func (k partKey) Compare(c llrb.Comparable) int {
	o := c.(partKey)
	switch {
	case k.start < o.start:
		return -1
	case k.start > o.start:
		return 1
	default:
		return 0
	}
}

// Index holds all loaded parts for one reference database, ordered by
// start_part.
type Index struct {
	byStart llrb.Tree
	parts   []*Part
}

// New returns an empty Index.
func New() *Index {
	return &Index{byStart: llrb.Tree{}}
}

// LoadPart reads one part's LevTable, trie arena, and reference
// sequences from their respective streams and adds it to idx. numSeq is
// the count of reference records this part covers; startPart/endPart
// are the part's byte-offset bounds within the full reference file.
//
// Any structural inconsistency in the blobs (undersized buffers, bad
// trie offsets, wrong record counts) is surfaced as a
// sortmernaerr.CorruptIndex error and the part is not added.
func (idx *Index) LoadPart(levR, trieR, refR io.Reader, numSeq uint32, startPart, endPart int64) (*Part, error) {
	lev, err := levtable.Load(levR)
	if err != nil {
		return nil, sortmernaerr.Wrap(sortmernaerr.CorruptIndex, err, "index: load levtable")
	}
	root, err := trie.Load(trieR)
	if err != nil {
		return nil, sortmernaerr.Wrap(sortmernaerr.CorruptIndex, err, "index: load trie")
	}
	refs, err := reference.Load(refR, numSeq)
	if err != nil {
		return nil, sortmernaerr.Wrap(sortmernaerr.CorruptIndex, err, "index: load references")
	}

	p := &Part{
		StartPart: startPart,
		EndPart:   endPart,
		NumSeq:    numSeq,
		Lev:       lev,
		Trie:      root,
		Refs:      refs,
	}
	idx.add(p)
	return p, nil
}

func (idx *Index) add(p *Part) {
	idx.byStart.Insert(partKey{start: p.StartPart, part: p})
	idx.parts = append(idx.parts, p)
}

// PartContaining returns the part whose [StartPart, EndPart) range
// contains offset, found in O(log n) through the llrb tree ordered by
// StartPart.
func (idx *Index) PartContaining(offset int64) (*Part, bool) {
	c := idx.byStart.Floor(partKey{start: offset})
	if c == nil {
		return nil, false
	}
	p := c.(partKey).part
	if offset >= p.StartPart && offset < p.EndPart {
		return p, true
	}
	return nil, false
}

// Parts returns every loaded part in insertion order.
func (idx *Index) Parts() []*Part { return idx.parts }

// Len reports how many parts are loaded.
func (idx *Index) Len() int { return len(idx.parts) }

// Unload releases every part's reference sequences, matching
// References::unload's per-part lifecycle (spec.md §4.6): the trie and
// LevTable are small and kept resident, but reference sequence data is
// the bulk of a part's memory and is dropped between runs over the same
// index.
func (idx *Index) Unload() {
	for _, p := range idx.parts {
		if p.Refs != nil {
			p.Refs.Unload()
		}
	}
}

var errNoParts = errors.New("index: no parts loaded")

// First returns the earliest-starting part, or an error if none are
// loaded.
func (idx *Index) First() (*Part, error) {
	if len(idx.parts) == 0 {
		return nil, errNoParts
	}
	best := idx.parts[0]
	for _, p := range idx.parts[1:] {
		if p.StartPart < best.StartPart {
			best = p
		}
	}
	return best, nil
}
