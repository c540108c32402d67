// Package trie implements the reference-side prefix index of spec.md §4.3
// (component C3, MiniBurstTrie): a 4-ary tree of nucleotide transitions
// whose leaves are buckets of packed L-mer occurrence-table keys.
//
// Nodes are plain pointers rather than the arena-of-offsets layout spec.md
// §6 sketches for the on-disk form; Load reconstructs that pointer tree
// from a single flat blob (root offset, node count, node records; see
// Load), a byte format of this module's own rather than two separate
// length-prefixed arenas. Building the arena by hand rather
// than reaching for a third-party tree mirrors fusion/kmer_index.go's own
// custom hash-table arena — no example repo carries an off-the-shelf
// 4-ary trie with bucket leaves (see DESIGN.md).
package trie

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// Node is one trie node: either interior (some of children set) or a
// bucket leaf (keys non-nil). A node is never both.
type Node struct {
	children [4]*Node
	keys     []uint32
}

// Children returns the up-to-four child edges keyed by nucleotide code
// (0=A,1=C,2=G,3=T). A nil entry means no edge for that nucleotide.
func (n *Node) Children() [4]*Node { return n.children }

// Child returns the edge for a single nucleotide, or nil.
func (n *Node) Child(nt byte) *Node {
	if int(nt) >= 4 {
		return nil
	}
	return n.children[nt]
}

// IsBucket reports whether n is a leaf bucket rather than an interior node.
func (n *Node) IsBucket() bool { return n.keys != nil }

// BucketKeys returns the packed L-mer keys stored at this bucket, in
// storage order. Calling it on an interior node returns nil.
func (n *Node) BucketKeys() []uint32 { return n.keys }

// Builder constructs a MiniBurstTrie incrementally, for tests and for
// loading a freshly built index part before it is serialized.
type Builder struct {
	root *Node
}

// NewBuilder returns a Builder with an empty interior root.
func NewBuilder() *Builder {
	return &Builder{root: &Node{}}
}

// Root returns the trie built so far.
func (b *Builder) Root() *Node { return b.root }

// Insert adds key to the bucket at the end of the path spelled by pattern
// (nucleotide codes 0..3), creating interior nodes as needed. The final
// node on the path becomes (or already is) a bucket; a path that ends on
// an existing interior node is an error.
func (b *Builder) Insert(pattern []byte, key uint32) error {
	n := b.root
	for depth, c := range pattern {
		if int(c) >= 4 {
			return errors.Errorf("trie: insert: non-ACGT code %d at depth %d", c, depth)
		}
		if n.keys != nil {
			return errors.Errorf("trie: insert: path crosses an existing bucket at depth %d", depth)
		}
		child := n.children[c]
		if child == nil {
			child = &Node{}
			n.children[c] = child
		}
		n = child
	}
	if n.keys == nil {
		for _, child := range n.children {
			if child != nil {
				return errors.Errorf("trie: insert: path ends at an existing interior node at depth %d", len(pattern))
			}
		}
		n.keys = []uint32{}
	}
	n.keys = append(n.keys, key)
	return nil
}

// Load reconstructs a trie from the arena blob format: a root offset
// (uint32), a node count (uint32), then that many node records (4 int32
// child offsets, -1 for none, followed by a bucket length and that many
// uint32 keys, or 0xFFFFFFFF and no keys for an interior node; buckets
// have all child offsets -1).
// This is a flat pre-order encoding chosen for this module; see the
// package doc.
func Load(r io.Reader) (*Node, error) {
	var hdr [8]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, errors.Wrap(err, "trie: read header")
	}
	rootOffset := binary.LittleEndian.Uint32(hdr[0:4])
	count := binary.LittleEndian.Uint32(hdr[4:8])

	type rawNode struct {
		children [4]int32
		keys     []uint32
	}
	raw := make([]rawNode, count)
	for i := range raw {
		var childBuf [16]byte
		if _, err := io.ReadFull(r, childBuf[:]); err != nil {
			return nil, errors.Wrapf(err, "trie: read node %d children", i)
		}
		for j := 0; j < 4; j++ {
			raw[i].children[j] = int32(binary.LittleEndian.Uint32(childBuf[j*4 : j*4+4]))
		}
		var lenBuf [4]byte
		if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
			return nil, errors.Wrapf(err, "trie: read node %d bucket length", i)
		}
		n := binary.LittleEndian.Uint32(lenBuf[:])
		if n == 0xFFFFFFFF {
			continue // interior node: no bucket
		}
		keys := make([]uint32, n)
		for k := range keys {
			var kb [4]byte
			if _, err := io.ReadFull(r, kb[:]); err != nil {
				return nil, errors.Wrapf(err, "trie: read node %d key %d", i, k)
			}
			keys[k] = binary.LittleEndian.Uint32(kb[:])
		}
		raw[i].keys = keys
	}

	if int(rootOffset) >= len(raw) {
		return nil, errors.Errorf("trie: root offset %d out of range (%d nodes)", rootOffset, len(raw))
	}

	nodes := make([]*Node, len(raw))
	var build func(idx int32) (*Node, error)
	build = func(idx int32) (*Node, error) {
		if idx < 0 || int(idx) >= len(raw) {
			return nil, errors.Errorf("trie: node offset %d out of range", idx)
		}
		if nodes[idx] != nil {
			return nodes[idx], nil
		}
		n := &Node{}
		nodes[idx] = n
		if raw[idx].keys != nil {
			n.keys = raw[idx].keys
			return n, nil
		}
		for c := 0; c < 4; c++ {
			off := raw[idx].children[c]
			if off < 0 {
				continue
			}
			child, err := build(off)
			if err != nil {
				return nil, err
			}
			n.children[c] = child
		}
		return n, nil
	}
	return build(int32(rootOffset))
}

// Marshal flattens root into the same arena blob format Load parses: a
// pre-order walk assigns each node an offset, interior nodes record
// their children's offsets (-1 for absent), and bucket leaves record
// their key count (0xFFFFFFFF distinguishes "interior, no bucket" from
// a present-but-empty bucket, which never occurs from Builder.Insert
// but is valid on the wire).
func Marshal(root *Node) ([]byte, error) {
	var order []*Node
	index := make(map[*Node]int32)
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		index[n] = int32(len(order))
		order = append(order, n)
		if n.IsBucket() {
			return
		}
		for _, c := range n.children {
			if c != nil {
				walk(c)
			}
		}
	}
	walk(root)

	rootOffset := int32(0)
	if root != nil {
		rootOffset = index[root]
	}
	var hdr [8]byte
	binary.LittleEndian.PutUint32(hdr[0:4], uint32(rootOffset))
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(len(order)))
	buf := append([]byte(nil), hdr[:]...)

	var word [4]byte
	for _, n := range order {
		for c := 0; c < 4; c++ {
			child := int32(-1)
			if n.children[c] != nil {
				child = index[n.children[c]]
			}
			binary.LittleEndian.PutUint32(word[:], uint32(child))
			buf = append(buf, word[:]...)
		}
		if !n.IsBucket() {
			binary.LittleEndian.PutUint32(word[:], 0xFFFFFFFF)
			buf = append(buf, word[:]...)
			continue
		}
		binary.LittleEndian.PutUint32(word[:], uint32(len(n.keys)))
		buf = append(buf, word[:]...)
		for _, k := range n.keys {
			binary.LittleEndian.PutUint32(word[:], k)
			buf = append(buf, word[:]...)
		}
	}
	return buf, nil
}
