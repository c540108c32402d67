package trie

import (
	"github.com/sortmerna/core/bitvector"
	"github.com/sortmerna/core/levtable"
)

// Hit is one bucket reached by a traversal: its packed keys plus the
// window this traversal ran for.
type Hit struct {
	Keys   []uint32
	WinNum uint32
}

// Collector receives hits as the traverser finds them, in the order
// spec.md §4.4 fixes: nucleotide order A,C,G,T at every branch, storage
// order within a bucket.
type Collector func(Hit)

// Result carries the side effects of a traversal that the caller
// (seed.Enumerator) needs beyond the emitted hits.
type Result struct {
	// AcceptZeroKmer is set once a bucket is reached at depth P along an
	// exact (no-edit) path, per spec.md §4.4 step 4.
	AcceptZeroKmer bool
}

// Traverse walks root under the automaton defined by lev, following the
// bit-vectors in bits, and calls emit for every bucket reached whose path
// from root is within Levenshtein distance 1 of the half-mer bits encodes.
// p is the half-mer length (the trie's maximum depth); winNum tags every
// emitted Hit.
func Traverse(root *Node, lev *levtable.Table, bits *bitvector.Table, p int, winNum uint32, emit Collector) Result {
	var res Result
	walk(root, lev, bits, 0, p, levtable.InitialState(), winNum, emit, &res)
	return res
}

// walk descends one trie edge at a time. The mask it hands to lev combines
// this depth's exact/skew bits with the previous depth's exact bit
// (reinterpreted as "back") so that a live insertion — committed at some
// earlier depth — can be tested against pattern[depth-1] without lev ever
// needing to see two depths' bits as separate arguments.
func walk(node *Node, lev *levtable.Table, bits *bitvector.Table, depth, p int, state uint8, winNum uint32, emit Collector, res *Result) {
	if node == nil || depth >= p {
		return
	}
	for c := byte(0); c < 4; c++ {
		child := node.Child(c)
		if child == nil {
			continue
		}
		mask := bits.At(depth, c) & 0x03
		if depth > 0 && bits.At(depth-1, c)&0x01 != 0 {
			mask |= 0x04 // bitBack: c == pattern[depth-1], for a live insertion to continue on
		}
		next := lev.NextState(c, mask, state)
		if next == levtable.Reject {
			continue
		}
		if child.IsBucket() {
			keys := child.BucketKeys()
			if len(keys) == 0 {
				continue // spec.md §8: an empty bucket emits nothing and never sets accept_zero_kmer.
			}
			emit(Hit{Keys: keys, WinNum: winNum})
			if depth+1 == p && levtable.IsExact(next) {
				res.AcceptZeroKmer = true
			}
			continue
		}
		walk(child, lev, bits, depth+1, p, next, winNum, emit, res)
	}
}
