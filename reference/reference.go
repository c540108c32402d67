// Package reference implements spec.md §4.6 (component C6, ReferenceStore):
// loading one index part's worth of reference sequences into memory,
// resolving candidate ids back to records, and releasing the buffer
// between parts.
//
// The line-oriented FASTA/FASTQ state machine below is grounded on
// original_source/src/sortmerna/references.cpp's References::load, adapted
// to Go's scanner idiom the way encoding/fasta/fasta.go and
// encoding/fastq/scanner.go read line-oriented biological formats.
package reference

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/sortmerna/core/internal/nt"
)

// Format identifies which of the two line-oriented formats a record came
// from.
type Format int

const (
	FormatFasta Format = iota
	FormatFastq
)

// BaseRecord is one loaded reference sequence: header, numeric sequence,
// optional quality (FASTQ only), format, and the id assigned within this
// index part.
type BaseRecord struct {
	Header   string
	Sequence []byte // numeric form, nt.A..nt.N
	Quality  string
	Format   Format
	NID      uint32
}

// Store holds the records loaded for one index part. It is read-only
// during filtering and shared immutably across workers (spec.md §5).
type Store struct {
	records []BaseRecord
}

// Load reads numSeq sequences from r, starting wherever the caller has
// already seeked r to (the part's start_part byte offset is the caller's
// responsibility, matching References::load taking an already-opened,
// already-seeked stream).
func Load(r io.Reader, numSeq uint32) (*Store, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, 1024*1024*64)

	s := &Store{}
	var cur *BaseRecord
	var seq strings.Builder
	var nid uint32
	fastqLineIdx := 0

	flush := func() {
		if cur == nil {
			return
		}
		body := []byte(seq.String())
		nt.ConvertFix(body)
		cur.Sequence = body
		cur.NID = nid
		s.records = append(s.records, *cur)
		nid++
		cur = nil
		seq.Reset()
	}

	for nid < numSeq && scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r\n")
		if line == "" {
			continue
		}
		if line[0] == '>' || line[0] == '@' {
			flush()
			if nid >= numSeq {
				break
			}
			format := FormatFasta
			if line[0] == '@' {
				format = FormatFastq
			}
			cur = &BaseRecord{Header: line[1:], Format: format}
			fastqLineIdx = 0
			continue
		}
		if cur == nil {
			return nil, errors.New("reference: sequence data before any header")
		}
		if cur.Format == FormatFastq {
			fastqLineIdx++
			switch fastqLineIdx {
			case 1:
				seq.WriteString(line)
			case 2:
				// separator line ('+'), ignored.
			case 3:
				cur.Quality = line
			}
			continue
		}
		seq.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reference: scan")
	}
	flush()

	if uint32(len(s.records)) != numSeq {
		return nil, errors.Errorf("reference: expected %d sequences, loaded %d", numSeq, len(s.records))
	}
	return s, nil
}

// Get returns the record with the given id within this part.
func (s *Store) Get(nid uint32) (*BaseRecord, bool) {
	if int(nid) >= len(s.records) {
		return nil, false
	}
	return &s.records[nid], true
}

// Len reports how many records this store holds.
func (s *Store) Len() int { return len(s.records) }

// FindByIDSubstring does a linear scan over headers for one containing
// substr, matching References::findref. Used by tests and manual lookups,
// not the hot path.
func (s *Store) FindByIDSubstring(substr string) (uint32, bool) {
	for i := range s.records {
		if strings.Contains(s.records[i].Header, substr) {
			return uint32(i), true
		}
	}
	return 0, false
}

// Unload releases the buffered records, matching References::unload.
func (s *Store) Unload() {
	s.records = nil
}
