package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveReadLenTracksMinMax(t *testing.T) {
	r := New(0, 0, 1)
	r.ObserveReadLen(100)
	r.ObserveReadLen(40)
	r.ObserveReadLen(250)
	assert.EqualValues(t, 40, r.MinReadLen())
	assert.EqualValues(t, 250, r.MaxReadLen())
}

func TestAddCounters(t *testing.T) {
	r := New(10, 1000, 2)
	r.AddTotalReadsAligned(3)
	r.AddTotalReadsAligned(4)
	assert.EqualValues(t, 7, r.TotalReadsAligned())

	r.AddTotalMappedSWIDCov(2)
	assert.EqualValues(t, 2, r.TotalMappedSWIDCov())

	r.AddShortReadsNum(1)
	assert.EqualValues(t, 1, r.ShortReadsNum())

	r.AddReadsMatchedPerDB(0, 5)
	r.AddReadsMatchedPerDB(1, 9)
	assert.Equal(t, []uint64{5, 9}, r.ReadsMatchedPerDB())
}

func TestDBKeyStableAndOrderSensitive(t *testing.T) {
	a := DBKey([]string{"db1.fasta", "db2.fasta"})
	b := DBKey([]string{"db1.fasta", "db2.fasta"})
	c := DBKey([]string{"db2.fasta", "db1.fasta"})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 16)
}

func TestBlobRoundTrip(t *testing.T) {
	r := New(123, 45600, 3)
	r.ObserveReadLen(50)
	r.ObserveReadLen(150)
	r.AddTotalReadsAligned(9)
	r.AddTotalMappedSWIDCov(4)
	r.AddShortReadsNum(2)
	r.AddReadsMatchedPerDB(0, 1)
	r.AddReadsMatchedPerDB(1, 2)
	r.AddReadsMatchedPerDB(2, 3)
	r.TotalReadsDenovoClustering = 7
	r.IsStatsCalc = true
	r.IsTotalMappedSWIDCov = true

	blob, err := r.MarshalBinary()
	require.NoError(t, err)

	got, err := UnmarshalBinary(blob)
	require.NoError(t, err)

	assert.Equal(t, r.MinReadLen(), got.MinReadLen())
	assert.Equal(t, r.MaxReadLen(), got.MaxReadLen())
	assert.Equal(t, r.TotalReadsAligned(), got.TotalReadsAligned())
	assert.Equal(t, r.TotalMappedSWIDCov(), got.TotalMappedSWIDCov())
	assert.Equal(t, r.ShortReadsNum(), got.ShortReadsNum())
	assert.Equal(t, r.AllReadsCount, got.AllReadsCount)
	assert.Equal(t, r.AllReadsLen, got.AllReadsLen)
	assert.Equal(t, r.TotalReadsDenovoClustering, got.TotalReadsDenovoClustering)
	assert.Equal(t, r.ReadsMatchedPerDB(), got.ReadsMatchedPerDB())
	assert.Equal(t, r.IsStatsCalc, got.IsStatsCalc)
	assert.Equal(t, r.IsTotalMappedSWIDCov, got.IsTotalMappedSWIDCov)
}

func TestBlobRoundTripZeroDBs(t *testing.T) {
	r := New(0, 0, 0)
	blob, err := r.MarshalBinary()
	require.NoError(t, err)
	got, err := UnmarshalBinary(blob)
	require.NoError(t, err)
	assert.Empty(t, got.ReadsMatchedPerDB())
}

func TestUnmarshalRejectsTruncatedBlob(t *testing.T) {
	_, err := UnmarshalBinary([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestUnmarshalRejectsTruncatedPerDBSection(t *testing.T) {
	r := New(0, 0, 2)
	blob, err := r.MarshalBinary()
	require.NoError(t, err)
	_, err = UnmarshalBinary(blob[:len(blob)-4])
	assert.Error(t, err)
}
