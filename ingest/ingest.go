// Package ingest implements spec.md §6's read ingest boundary: a
// record-oriented stream over FASTA/FASTQ input, gzip-decoded before the
// core ever sees a record. Its Scanner follows
// encoding/fastq.Scanner's Scan/Err convention, generalized to accept
// either line-oriented format and to hand back numerically-converted
// sequences directly (spec.md §3's alphabet), since every downstream
// consumer (seed.Enumerator) wants numeric bytes, not raw ASCII.
package ingest

import (
	"bufio"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"

	"github.com/sortmerna/core/internal/nt"
)

// Format identifies which line-oriented format a record came from.
type Format int

const (
	FormatFasta Format = iota
	FormatFastq
)

// Record is one ingested read: its id, numerically-converted sequence,
// and the format it was read from.
type Record struct {
	ID       string
	Sequence []byte // numeric form, nt.A..nt.N
	Format   Format
}

// Len reports the read's length in bases.
func (r *Record) Len() int { return len(r.Sequence) }

// Scanner reads a stream of FASTA or FASTQ records, transparently
// gunzipping the underlying stream if it is gzip-magic prefixed.
// Scanners are not threadsafe; RunWorkerPool-style fan-out should have
// one goroutine own the Scanner and distribute Records over a channel
// (see seed.RunWorkerPool's ReadJob convention).
type Scanner struct {
	b    *bufio.Scanner
	gz   *gzip.Reader
	err  error
	done bool

	peeked    string
	hasPeeked bool
}

// NewScanner wraps r, transparently decompressing it if it begins with
// the gzip magic bytes.
func NewScanner(r io.Reader) (*Scanner, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(2)
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "ingest: peek")
	}
	var gz *gzip.Reader
	var scanned io.Reader = br
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err = gzip.NewReader(br)
		if err != nil {
			return nil, errors.Wrap(err, "ingest: gzip header")
		}
		scanned = gz
	}
	s := bufio.NewScanner(scanned)
	s.Buffer(make([]byte, 64*1024), 64*1024*1024)
	return &Scanner{b: s, gz: gz}, nil
}

// peekLine returns the next non-empty line without consuming it across
// calls: repeated peekLine calls (with no interleaved takeLine) return
// the same line.
func (s *Scanner) peekLine() (string, bool) {
	if s.hasPeeked {
		return s.peeked, true
	}
	for s.b.Scan() {
		line := strings.TrimRight(s.b.Text(), "\r")
		if line == "" {
			continue
		}
		s.peeked = line
		s.hasPeeked = true
		return line, true
	}
	return "", false
}

func (s *Scanner) takeLine() (string, bool) {
	line, ok := s.peekLine()
	if ok {
		s.hasPeeked = false
	}
	return line, ok
}

// Scan reads the next record into rec, returning false at end of stream
// or on error; check Err to distinguish the two.
func (s *Scanner) Scan(rec *Record) bool {
	if s.err != nil || s.done {
		return false
	}
	line, ok := s.takeLine()
	if !ok {
		if err := s.b.Err(); err != nil {
			s.err = errors.Wrap(err, "ingest: scan")
		}
		s.done = true
		return false
	}
	if line[0] != '>' && line[0] != '@' {
		s.err = errors.New("ingest: expected header line")
		return false
	}
	format := FormatFasta
	if line[0] == '@' {
		format = FormatFastq
	}
	id := strings.TrimRight(line[1:], " \t")

	var seq strings.Builder
	if format == FormatFastq {
		seqLine, ok := s.takeLine()
		if !ok {
			s.err = errors.New("ingest: truncated fastq record: missing sequence line")
			return false
		}
		seq.WriteString(seqLine)
		sep, ok := s.takeLine()
		if !ok || sep[0] != '+' {
			s.err = errors.New("ingest: malformed fastq separator")
			return false
		}
		if _, ok := s.takeLine(); !ok {
			s.err = errors.New("ingest: truncated fastq record: missing quality line")
			return false
		}
	} else {
		for {
			next, ok := s.peekLine()
			if !ok || next[0] == '>' || next[0] == '@' {
				break
			}
			s.takeLine()
			seq.WriteString(next)
		}
	}

	body := []byte(seq.String())
	nt.Convert(body, body)
	rec.ID = id
	rec.Sequence = body
	rec.Format = format
	return true
}

// Err returns the first non-EOF error encountered by Scan.
func (s *Scanner) Err() error { return s.err }

// Close releases the underlying gzip reader, if any.
func (s *Scanner) Close() error {
	if s.gz != nil {
		return s.gz.Close()
	}
	return nil
}
