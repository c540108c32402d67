// Package stats implements spec.md §6's Readstats aggregate counters and
// their key-value persistence blob, grounded on
// original_source/include/readstats.hpp. Counters updated from worker
// goroutines use sync/atomic rather than a mutex, matching spec.md §5's
// "the core does not lock" scheduling model.
package stats

import (
	"sync/atomic"

	farm "github.com/dgryski/go-farm"
)

// Readstats collects the aggregate counters accumulated while filtering
// one input-file-set against one set of index parts. The fields updated
// concurrently by workers (MinReadLen..ShortReadsNum) are accessed only
// through their accessor methods, which use atomic operations.
type Readstats struct {
	minReadLen         uint32
	maxReadLen         uint32
	totalAligned       uint64
	totalMappedSWIDCov uint64
	shortReadsNum      uint64

	// AllReadsCount and AllReadsLen are known before processing begins
	// (original_source's comment [1]: "should be known before processing
	// and index loading") and are not mutated concurrently thereafter.
	AllReadsCount uint64
	AllReadsLen   uint64

	// TotalReadsDenovoClustering is set once by post-processing, single
	// threaded (original_source's comment [4]).
	TotalReadsDenovoClustering uint64

	// ReadsMatchedPerDB is indexed by database number; original_source
	// synchronizes updates to it (comment [3]) — here each worker should
	// update via AddReadsMatchedPerDB rather than writing the slice
	// directly.
	readsMatchedPerDB []uint64

	IsStatsCalc          bool
	IsTotalMappedSWIDCov bool
}

// New creates a Readstats for allReadsCount reads totaling allReadsLen
// nucleotides, with numDB per-database match counters.
func New(allReadsCount, allReadsLen uint64, numDB int) *Readstats {
	return &Readstats{
		AllReadsCount:     allReadsCount,
		AllReadsLen:       allReadsLen,
		readsMatchedPerDB: make([]uint64, numDB),
		minReadLen:        ^uint32(0),
	}
}

// ObserveReadLen folds one read's length into MinReadLen/MaxReadLen.
func (r *Readstats) ObserveReadLen(length uint32) {
	for {
		old := atomic.LoadUint32(&r.minReadLen)
		if length >= old || atomic.CompareAndSwapUint32(&r.minReadLen, old, length) {
			break
		}
	}
	for {
		old := atomic.LoadUint32(&r.maxReadLen)
		if length <= old || atomic.CompareAndSwapUint32(&r.maxReadLen, old, length) {
			break
		}
	}
}

func (r *Readstats) MinReadLen() uint32 { return atomic.LoadUint32(&r.minReadLen) }
func (r *Readstats) MaxReadLen() uint32 { return atomic.LoadUint32(&r.maxReadLen) }

// AddTotalReadsAligned atomically increments the count of reads passing
// the E-value threshold.
func (r *Readstats) AddTotalReadsAligned(n uint64) {
	atomic.AddUint64(&r.totalAligned, n)
}
func (r *Readstats) TotalReadsAligned() uint64 { return atomic.LoadUint64(&r.totalAligned) }

// AddTotalMappedSWIDCov atomically increments the count of reads passing
// E-value, %id, and %query-coverage thresholds.
func (r *Readstats) AddTotalMappedSWIDCov(n uint64) {
	atomic.AddUint64(&r.totalMappedSWIDCov, n)
}
func (r *Readstats) TotalMappedSWIDCov() uint64 {
	return atomic.LoadUint64(&r.totalMappedSWIDCov)
}

// AddShortReadsNum atomically increments the count of reads shorter than
// the configured threshold (spec.md §7, ReadTooShort).
func (r *Readstats) AddShortReadsNum(n uint64) {
	atomic.AddUint64(&r.shortReadsNum, n)
}
func (r *Readstats) ShortReadsNum() uint64 { return atomic.LoadUint64(&r.shortReadsNum) }

// AddReadsMatchedPerDB atomically increments the match counter for
// database db.
func (r *Readstats) AddReadsMatchedPerDB(db int, n uint64) {
	atomic.AddUint64(&r.readsMatchedPerDB[db], n)
}

// ReadsMatchedPerDB returns a snapshot of the per-database counters.
func (r *Readstats) ReadsMatchedPerDB() []uint64 {
	out := make([]uint64, len(r.readsMatchedPerDB))
	for i := range out {
		out[i] = atomic.LoadUint64(&r.readsMatchedPerDB[i])
	}
	return out
}

// DBKey hashes the ordered, underscore-joined input filenames into the
// stable string used as the key-value store key, matching
// fusion/kmer_index.go's use of farm.Hash64 for a stable numeric digest.
func DBKey(filenames []string) string {
	joined := joinUnderscore(filenames)
	h := farm.Hash64([]byte(joined))
	return hex64(h)
}

func joinUnderscore(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += "_" + p
	}
	return out
}

const hexDigits = "0123456789abcdef"

func hex64(v uint64) string {
	buf := make([]byte, 16)
	for i := 15; i >= 0; i-- {
		buf[i] = hexDigits[v&0xF]
		v >>= 4
	}
	return string(buf)
}

// KVStore is the key-value persistence interface Readstats blobs are
// written to and restored from. spec.md leaves backend selection as a
// Non-goal; no production implementation is wired here (see DESIGN.md).
type KVStore interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
}
