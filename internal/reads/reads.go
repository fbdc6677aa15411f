// Package reads loads FASTA/FASTQ input files into kelpie.Read records,
// auto-detecting format and quality encoding the way the teacher's own
// fastx-based commands do (unikmer/cmd/count.go, unikmer/cmd/map.go).
package reads

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seqio/fastx"

	"github.com/kelpie-bio/kelpie"
)

// Source describes one input read file and which half of a pair it
// belongs to (spec §5 "file-of-pair").
type Source struct {
	Path   string
	FileOf int
}

// ExpandGlobs resolves each pattern (a literal path or a glob) into sorted
// file paths, the way the teacher resolves its --infile-list/args file sets
// (unikmer/cmd/common.go getFileListFromArgsAndFile).
func ExpandGlobs(patterns []string) ([]string, error) {
	var out []string
	for _, pat := range patterns {
		matches, err := filepath.Glob(pat)
		if err != nil {
			return nil, errors.Wrapf(err, "kelpie: bad glob %q", pat)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("kelpie: no files matched %q", pat)
		}
		sort.Strings(matches)
		out = append(out, matches...)
	}
	return out, nil
}

// Load reads every file in sources into memory as *kelpie.Read, tagging
// FileOf from the Source and, when pairedReads is set, linking records
// that share a header across files via linkPairs.
func Load(sources []Source, pairedReads bool) ([]*kelpie.Read, error) {
	var all []*kelpie.Read
	idx := 0
	for _, src := range sources {
		fastxReader, err := fastx.NewDefaultReader(src.Path)
		if err != nil {
			return nil, errors.Wrapf(err, "kelpie: opening %s", src.Path)
		}
		for {
			record, err := fastxReader.Read()
			if err != nil {
				if err == io.EOF {
					break
				}
				return nil, errors.Wrapf(err, "kelpie: reading %s", src.Path)
			}
			r := &kelpie.Read{
				Index:   idx,
				Header:  string(record.ID),
				Seq:     append([]byte(nil), record.Seq.Seq...),
				FileOf:  src.FileOf,
				PairIdx: -1,
			}
			if len(record.Seq.Qual) > 0 {
				r.Qual = append([]byte(nil), record.Seq.Qual...)
			}
			all = append(all, r)
			idx++
		}
	}
	if pairedReads {
		linkPairs(all)
	}
	return all, nil
}

// linkPairs sets PairIdx for reads sharing a header across the two files of
// a pair (spec §3 "paired reads share a header").
func linkPairs(all []*kelpie.Read) {
	byHeader := make(map[string][]int, len(all))
	for i, r := range all {
		byHeader[r.Header] = append(byHeader[r.Header], i)
	}
	for _, idxs := range byHeader {
		if len(idxs) != 2 {
			continue
		}
		all[idxs[0]].PairIdx = idxs[1]
		all[idxs[1]].PairIdx = idxs[0]
	}
}
