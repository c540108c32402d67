// Package seed implements the per-read sliding-window driver of spec.md
// §4.5 (component C5, SeedEnumerator): it owns a read's two WindowBitTables
// and the win counter, drives trie.Traverse over both halves at every
// window position, and shifts the tables via bitvector.Offset between
// windows.
package seed

import (
	"sync"

	grailerrors "github.com/grailbio/base/errors"
	"github.com/pkg/errors"

	"github.com/sortmerna/core/bitvector"
	"github.com/sortmerna/core/internal/nt"
	"github.com/sortmerna/core/levtable"
	"github.com/sortmerna/core/sortmernaerr"
	"github.com/sortmerna/core/trie"
)

// Options configures an Enumerator. L and P must satisfy L == 2*P.
type Options struct {
	L int
	P int
	// SkipForwardOnZeroKmer implements spec.md §4.5 step 5's
	// skip_if_zero_kmer_hit configuration flag: when true, an exact match
	// on the reverse half of a window skips the forward-half traversal
	// for that window.
	SkipForwardOnZeroKmer bool
	// MinReadLenThreshold implements spec.md §6's min_read_len_threshold:
	// reads shorter than this are rejected as ReadTooShort before the core
	// ever builds a window over them. Zero means "use L" (a read that
	// cannot hold a single window is definitionally too short).
	MinReadLenThreshold int
}

// minReadLen returns the effective short-read cutoff: MinReadLenThreshold
// if set, else L (the core can't produce a single window below L anyway).
func (o Options) minReadLen() int {
	if o.MinReadLenThreshold > 0 {
		return o.MinReadLenThreshold
	}
	return o.L
}

// Enumerator drives seed enumeration for one worker. It is not safe for
// concurrent use by multiple goroutines; spec.md §5 gives each worker its
// own Enumerator.
type Enumerator struct {
	opts Options
	root *trie.Node
	lev  *levtable.Table

	fwd, rev         *bitvector.Table
	fwdNext, revNext *bitvector.Table
}

// New creates an Enumerator bound to one index part's trie and LevTable.
func New(opts Options, root *trie.Node, lev *levtable.Table) (*Enumerator, error) {
	if opts.L != 2*opts.P {
		return nil, errors.Errorf("seed: L=%d must equal 2*P (P=%d)", opts.L, opts.P)
	}
	return &Enumerator{
		opts:    opts,
		root:    root,
		lev:     lev,
		fwd:     bitvector.New(opts.P),
		rev:     bitvector.New(opts.P),
		fwdNext: bitvector.New(opts.P),
		revNext: bitvector.New(opts.P),
	}, nil
}

// EnumerateRead runs spec.md §4.5's algorithm over one numeric read
// (values 0-4, N=4) for a single strand. cancel, if non-nil, is checked
// between windows; once closed or receivable, enumeration stops and
// returns no hits and no error, discarding any hits collected so far
// (spec.md §5, "a cancelled read produces no hits").
func (e *Enumerator) EnumerateRead(read []byte, strand bool, cancel <-chan struct{}) ([]Hit, error) {
	l, p := e.opts.L, e.opts.P
	if len(read) < e.opts.minReadLen() {
		return nil, sortmernaerr.Newf(sortmernaerr.ReadTooShort, "read length %d below threshold %d", len(read), e.opts.minReadLen())
	}

	var hits []Hit
	win := 0
	needInit := true
	for win+l <= len(read) {
		select {
		case <-cancel:
			return nil, nil
		default:
		}

		fwdSeg := read[win : win+p+1]
		revSeg := read[win+p-1 : win+l]
		if hasN(fwdSeg[:p]) || hasN(revSeg[1:]) {
			win++
			needInit = true // the skipped window breaks Offset's contiguous-shift assumption.
			continue
		}
		if needInit {
			if err := e.fwd.InitForward(fwdSeg); err != nil {
				return nil, errors.Wrap(err, "seed: init forward")
			}
			if err := e.rev.InitReverse(revSeg); err != nil {
				return nil, errors.Wrap(err, "seed: init reverse")
			}
			needInit = false
		}

		winNum := uint32(win)
		revResult := trie.Traverse(e.root, e.lev, e.rev, p, winNum, func(h trie.Hit) {
			for _, k := range h.Keys {
				hits = append(hits, Hit{Key: k, Win: h.WinNum, Strand: strand})
			}
		})

		if !(revResult.AcceptZeroKmer && e.opts.SkipForwardOnZeroKmer) {
			trie.Traverse(e.root, e.lev, e.fwd, p, winNum, func(h trie.Hit) {
				for _, k := range h.Keys {
					hits = append(hits, Hit{Key: k, Win: h.WinNum, Strand: strand})
				}
			})
		}

		if win+l >= len(read) {
			break // flush against the read's end: no next window to shift into.
		}
		dropChar := read[win+l]
		addChar := read[win+p+1]
		if err := bitvector.Offset(e.fwd, e.rev, e.fwdNext, e.revNext, dropChar, addChar); err != nil {
			return nil, errors.Wrap(err, "seed: offset")
		}
		e.fwd, e.fwdNext = e.fwdNext, e.fwd
		e.rev, e.revNext = e.revNext, e.rev
		win++
	}
	return hits, nil
}

// EnumerateBothStrands runs EnumerateRead on the read as given and on its
// reverse complement, in that order, per DESIGN.md's resolution of
// spec.md §5's "strand forward-then-reverse" ordering guarantee.
func (e *Enumerator) EnumerateBothStrands(read []byte, cancel <-chan struct{}) ([]Hit, error) {
	fwdHits, err := e.EnumerateRead(read, false, cancel)
	if err != nil {
		return nil, err
	}
	revComp := nt.ReverseComplement(read)
	revHits, err := e.EnumerateRead(revComp, true, cancel)
	if err != nil {
		return nil, err
	}
	return append(fwdHits, revHits...), nil
}

func hasN(seg []byte) bool {
	for _, c := range seg {
		if c >= 4 {
			return true
		}
	}
	return false
}

// ReadJob is one read handed to RunWorkerPool, with the callbacks that
// receive its outcome.
type ReadJob struct {
	Read   []byte
	OnHits func([]Hit)
	// OnShort is called instead of OnHits when the read is shorter than
	// the effective minimum read length (MinReadLenThreshold, or L when it
	// is zero) (spec.md §7: ReadTooShort is counted, not surfaced as an
	// error).
	OnShort func()
}

// RunWorkerPool runs EnumerateBothStrands over the reads received from
// jobs, passing each read's hits to its OnHits callback, using n worker
// goroutines that each own their own Enumerator (spec.md §5: no
// cross-worker mutable state). It matches the
// channel-plus-WaitGroup-plus-errors.Once shape of
// markduplicates.generateBAM's worker pool.
func RunWorkerPool(n int, opts Options, root *trie.Node, lev *levtable.Table, jobs <-chan ReadJob, cancel <-chan struct{}) error {
	var once grailerrors.Once
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			enum, err := New(opts, root, lev)
			if err != nil {
				once.Set(err)
				return
			}
			for job := range jobs {
				hits, err := enum.EnumerateBothStrands(job.Read, cancel)
				if err != nil {
					if sortmernaerr.Is(err, sortmernaerr.ReadTooShort) {
						if job.OnShort != nil {
							job.OnShort()
						}
						continue
					}
					once.Set(err)
					continue
				}
				job.OnHits(hits)
			}
		}()
	}
	wg.Wait()
	return once.Err()
}
