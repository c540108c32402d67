// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package main

/*
sortmerna-filter drives the seed-and-extend read filter against one index
part: it loads the part's LevTable, MiniBurstTrie, and reference sequences,
then streams a FASTA/FASTQ read file through the SeedEnumerator worker
pool, reporting aggregate Readstats counters.
*/

import (
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/base/log"

	"github.com/sortmerna/core/index"
	"github.com/sortmerna/core/ingest"
	"github.com/sortmerna/core/seed"
	"github.com/sortmerna/core/sortmernaerr"
	"github.com/sortmerna/core/stats"
)

var (
	readsPath    = flag.String("reads", "", "Input FASTA/FASTQ reads file (gzip-transparent); required")
	levPath      = flag.String("levtable", "", "Index part LevTable blob path; required")
	triePath     = flag.String("trie", "", "Index part MiniBurstTrie arena blob path; required")
	refPath      = flag.String("ref", "", "Index part reference FASTA/FASTQ path; required")
	numSeq       = flag.Uint("num-seq", 0, "Number of reference sequences in this index part; required")
	seedL        = flag.Int("L", 0, "Seed window length (must equal 2*P); required")
	seedP        = flag.Int("P", 0, "Seed half-window length; required")
	skipZeroKmer = flag.Bool("skip-forward-on-zero-kmer", true, "Skip the forward-half traversal of a window whose reverse half already hit an exact zero-edit seed")
	minReadLen   = flag.Int("min-read-len-threshold", 0, "Reads shorter than this are counted as short reads and skip the core entirely; 0 means use L")
	threads      = flag.Int("threads", 4, "Number of worker goroutines processing reads concurrently")
	statsOut     = flag.String("stats-out", "", "If set, write the Readstats binary blob to this path")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s -reads r.fq -levtable p.lev -trie p.trie -ref p.fasta -num-seq N -L L -P P\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *readsPath == "" || *levPath == "" || *triePath == "" || *refPath == "" {
		log.Fatalf("-reads, -levtable, -trie, and -ref are all required; see -help")
	}
	if *seedL == 0 || *seedP == 0 {
		log.Fatalf("-L and -P are required; see -help")
	}

	part, err := loadPart()
	if err != nil {
		log.Fatalf("loading index part: %v", err)
	}
	defer part.Refs.Unload()

	opts := seed.Options{L: *seedL, P: *seedP, SkipForwardOnZeroKmer: *skipZeroKmer, MinReadLenThreshold: *minReadLen}
	if _, err := seed.New(opts, part.Trie, part.Lev); err != nil {
		log.Fatalf("configuring seed enumerator: %v", err)
	}

	readsFile, err := os.Open(*readsPath)
	if err != nil {
		log.Fatalf("opening reads file: %v", err)
	}
	defer readsFile.Close()

	scanner, err := ingest.NewScanner(readsFile)
	if err != nil {
		log.Fatalf("opening read scanner: %v", err)
	}
	defer scanner.Close()

	rs := stats.New(0, 0, 1)
	jobs := make(chan seed.ReadJob, *threads)
	cancel := make(chan struct{})

	done := make(chan error, 1)
	go func() {
		done <- seed.RunWorkerPool(*threads, opts, part.Trie, part.Lev, jobs, cancel)
	}()

	var rec ingest.Record
	for scanner.Scan(&rec) {
		read := rec.Sequence
		rs.AllReadsCount++
		rs.AllReadsLen += uint64(len(read))
		rs.ObserveReadLen(uint32(len(read)))

		jobs <- seed.ReadJob{
			Read: read,
			OnHits: func(hits []seed.Hit) {
				if len(hits) > 0 {
					rs.AddTotalReadsAligned(1)
					rs.AddReadsMatchedPerDB(0, 1)
				}
			},
			OnShort: func() {
				rs.AddShortReadsNum(1)
			},
		}
	}
	close(jobs)
	if err := scanner.Err(); err != nil {
		log.Fatalf("reading input: %v", err)
	}

	if err := <-done; err != nil {
		if sortmernaerr.Is(err, sortmernaerr.CorruptIndex) {
			log.Fatalf("index corrupt: %v", err)
		}
		log.Fatalf("filtering: %v", err)
	}

	log.Debug.Printf("processed %d reads, %d aligned, %d short", rs.AllReadsCount, rs.TotalReadsAligned(), rs.ShortReadsNum())

	if *statsOut != "" {
		blob, err := rs.MarshalBinary()
		if err != nil {
			log.Fatalf("encoding stats blob: %v", err)
		}
		if err := os.WriteFile(*statsOut, blob, 0o644); err != nil {
			log.Fatalf("writing stats blob: %v", err)
		}
	}
}

func loadPart() (*index.Part, error) {
	levFile, err := os.Open(*levPath)
	if err != nil {
		return nil, err
	}
	defer levFile.Close()

	trieFile, err := os.Open(*triePath)
	if err != nil {
		return nil, err
	}
	defer trieFile.Close()

	refFile, err := os.Open(*refPath)
	if err != nil {
		return nil, err
	}
	defer refFile.Close()

	idx := index.New()
	return idx.LoadPart(levFile, trieFile, refFile, uint32(*numSeq), 0, 0)
}
