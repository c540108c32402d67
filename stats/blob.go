package stats

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

const fixedBlobHeader = 4 + 4 + 8 + 8 + 8 + 8 + 8 + 8 + 8 // through reads_matched_per_db_len

// MarshalBinary encodes the snapshot into the exact byte layout spec.md §6
// specifies, host byte order realized as little-endian (matching the
// other blobs in this module — align.Alignment, levtable.Table).
func (r *Readstats) MarshalBinary() ([]byte, error) {
	perDB := r.ReadsMatchedPerDB()
	size := fixedBlobHeader + 8*len(perDB) + 1 + 1
	buf := make([]byte, size)

	binary.LittleEndian.PutUint32(buf[0:4], r.MinReadLen())
	binary.LittleEndian.PutUint32(buf[4:8], r.MaxReadLen())
	binary.LittleEndian.PutUint64(buf[8:16], r.TotalReadsAligned())
	binary.LittleEndian.PutUint64(buf[16:24], r.TotalMappedSWIDCov())
	binary.LittleEndian.PutUint64(buf[24:32], r.ShortReadsNum())
	binary.LittleEndian.PutUint64(buf[32:40], r.AllReadsCount)
	binary.LittleEndian.PutUint64(buf[40:48], r.AllReadsLen)
	binary.LittleEndian.PutUint64(buf[48:56], r.TotalReadsDenovoClustering)
	binary.LittleEndian.PutUint64(buf[56:64], uint64(len(perDB)))
	off := 64
	for _, v := range perDB {
		binary.LittleEndian.PutUint64(buf[off:off+8], v)
		off += 8
	}
	buf[off] = boolByte(r.IsStatsCalc)
	buf[off+1] = boolByte(r.IsTotalMappedSWIDCov)
	return buf, nil
}

// UnmarshalBinary decodes a blob produced by MarshalBinary into a fresh
// Readstats. AllReadsCount/AllReadsLen/TotalReadsDenovoClustering and the
// boolean flags are restored directly; the atomic counters are seeded
// with their stored snapshot values (they are not "live" until a new
// filtering run resumes updating them).
func UnmarshalBinary(data []byte) (*Readstats, error) {
	if len(data) < fixedBlobHeader {
		return nil, errors.Errorf("stats: blob too short: %d bytes", len(data))
	}
	n := binary.LittleEndian.Uint64(data[56:64])
	want := fixedBlobHeader + 8*int(n) + 2
	if len(data) < want {
		return nil, errors.Errorf("stats: blob too short for %d per-db counters: have %d, want %d", n, len(data), want)
	}

	r := &Readstats{}
	r.minReadLen = binary.LittleEndian.Uint32(data[0:4])
	r.maxReadLen = binary.LittleEndian.Uint32(data[4:8])
	r.totalAligned = binary.LittleEndian.Uint64(data[8:16])
	r.totalMappedSWIDCov = binary.LittleEndian.Uint64(data[16:24])
	r.shortReadsNum = binary.LittleEndian.Uint64(data[24:32])
	r.AllReadsCount = binary.LittleEndian.Uint64(data[32:40])
	r.AllReadsLen = binary.LittleEndian.Uint64(data[40:48])
	r.TotalReadsDenovoClustering = binary.LittleEndian.Uint64(data[48:56])

	perDB := make([]uint64, n)
	off := 64
	for i := range perDB {
		perDB[i] = binary.LittleEndian.Uint64(data[off : off+8])
		off += 8
	}
	r.readsMatchedPerDB = perDB
	r.IsStatsCalc = data[off] != 0
	r.IsTotalMappedSWIDCov = data[off+1] != 0
	return r, nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
