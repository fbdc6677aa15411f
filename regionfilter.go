package kelpie

import (
	"encoding/binary"

	boom "github.com/tylertreat/BoomFilters"
)

// Direction tags a RegionFilter's two independently grown halves: Fwd is
// seeded from reads beginning with the forward primer, Rvs from reads
// beginning with the reverse primer (spec §3 "per directional role
// d∈{fwd,rvs}").
const (
	DirFwd = 0
	DirRvs = 1
)

// RegionFilter is the Bloom-free region-membership test grown by
// IterativeRegionFilter (spec §3, §4.5): per direction and per file-of-pair,
// a set of canonical k-mers, plus per context length L a set of k-mers
// known to own a context of that length and a set of that context's
// fingerprints.
type RegionFilter struct {
	K int

	kmers [2][2]map[uint64]struct{}
	ctxExists [2][2]map[int]map[uint64]struct{}
	ctxPrint  [2][2]map[int]map[uint64]struct{}

	// seenCtx is a scalable Bloom filter per direction/file guarding
	// AddContext against redoing a map insert for a (L, kmerCode, fp)
	// triple it has already recorded, the same "Test before Add" idiom
	// unikmer/cmd/count.go uses to skip re-storing a k-mer it has already
	// seen.
	seenCtx [2][2]*boom.ScalableBloomFilter
}

// NewRegionFilter allocates an empty filter for the given k.
func NewRegionFilter(k int) *RegionFilter {
	rf := &RegionFilter{K: k}
	for d := 0; d < 2; d++ {
		for f := 0; f < 2; f++ {
			rf.kmers[d][f] = make(map[uint64]struct{})
			rf.ctxExists[d][f] = make(map[int]map[uint64]struct{})
			rf.ctxPrint[d][f] = make(map[int]map[uint64]struct{})
			rf.seenCtx[d][f] = boom.NewScalableBloomFilter(10000, 0.01, 0.8)
		}
	}
	return rf
}

// contextBloomKey packs (L, kmerCode, fp) into a fixed-width key for the
// Bloom filter's byte-slice API.
func contextBloomKey(L int, kmerCode, fp uint64) []byte {
	key := make([]byte, 16+8)
	binary.LittleEndian.PutUint64(key[0:8], kmerCode)
	binary.LittleEndian.PutUint64(key[8:16], fp)
	binary.LittleEndian.PutUint64(key[16:24], uint64(L))
	return key
}

// AddKmer records a canonical k-mer as belonging to the region grown from
// direction dir, file file.
func (rf *RegionFilter) AddKmer(dir, file int, code uint64) {
	rf.kmers[dir][file][code] = struct{}{}
}

// HasKmer reports whether code is present in dir's region, in either file
// of the pair (matching checks "in either direction" at the file level
// too: a read from file 0 may still fall in k-mers seeded from file 1's
// reads, since both describe the same genomic region).
func (rf *RegionFilter) HasKmer(dir int, code uint64) bool {
	if _, ok := rf.kmers[dir][0][code]; ok {
		return true
	}
	_, ok := rf.kmers[dir][1][code]
	return ok
}

// HasKmerInFile reports membership restricted to one file, used by strict
// mode's cross-file intersection (spec §4.5).
func (rf *RegionFilter) HasKmerInFile(dir, file int, code uint64) bool {
	_, ok := rf.kmers[dir][file][code]
	return ok
}

// AddContext records that the k-mer at a context window's start (kmerCode)
// owns a context of length L with fingerprint fp.
func (rf *RegionFilter) AddContext(dir, file, L int, kmerCode, fp uint64) {
	key := contextBloomKey(L, kmerCode, fp)
	if rf.seenCtx[dir][file].Test(key) {
		return
	}
	rf.seenCtx[dir][file].Add(key)

	if rf.ctxExists[dir][file][L] == nil {
		rf.ctxExists[dir][file][L] = make(map[uint64]struct{})
		rf.ctxPrint[dir][file][L] = make(map[uint64]struct{})
	}
	rf.ctxExists[dir][file][L][kmerCode] = struct{}{}
	rf.ctxPrint[dir][file][L][fp] = struct{}{}
}

// HasContext reports whether a context of length L, anchored at kmerCode,
// with fingerprint fp, is known in dir's region (either file).
func (rf *RegionFilter) HasContext(dir, L int, kmerCode, fp uint64) bool {
	for file := 0; file < 2; file++ {
		if m, ok := rf.ctxExists[dir][file][L]; ok {
			if _, ok := m[kmerCode]; ok {
				if p, ok := rf.ctxPrint[dir][file][L]; ok {
					if _, ok := p[fp]; ok {
						return true
					}
				}
			}
		}
	}
	return false
}

// ContextLengths returns the distinct L values recorded for dir/file, used
// by FindMatchingReads to try "longest down" (spec §4.5).
func (rf *RegionFilter) ContextLengths(dir int) []int {
	seen := map[int]struct{}{}
	for file := 0; file < 2; file++ {
		for L := range rf.ctxExists[dir][file] {
			seen[L] = struct{}{}
		}
	}
	out := make([]int, 0, len(seen))
	for L := range seen {
		out = append(out, L)
	}
	// descending, longest-first
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] < out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// KmerCount returns the number of distinct canonical k-mers recorded for
// direction dir across both files, used by termination heuristics.
func (rf *RegionFilter) KmerCount(dir int) int {
	seen := make(map[uint64]struct{})
	for file := 0; file < 2; file++ {
		for code := range rf.kmers[dir][file] {
			seen[code] = struct{}{}
		}
	}
	return len(seen)
}

// CloseRC adds the reverse complement of every recorded k-mer, per spec's
// invariant that a canonical filter always contains both a k-mer and its
// RC (spec §3 "post-processing step enforces this").
func (rf *RegionFilter) CloseRC() {
	for d := 0; d < 2; d++ {
		for f := 0; f < 2; f++ {
			add := make([]uint64, 0)
			for code := range rf.kmers[d][f] {
				rc := ReverseComplement(code, rf.K)
				if _, ok := rf.kmers[d][f][rc]; !ok {
					add = append(add, rc)
				}
			}
			for _, rc := range add {
				rf.kmers[d][f][rc] = struct{}{}
			}
		}
	}
}

// Strictify retains, per direction, only the k-mers present in both files
// of the pair (spec §4.5 "Strict mode"): exact-set intersection, either
// orientation already covered by canonical form.
func (rf *RegionFilter) Strictify() {
	for d := 0; d < 2; d++ {
		keep := make(map[uint64]struct{})
		for code := range rf.kmers[d][0] {
			if _, ok := rf.kmers[d][1][code]; ok {
				keep[code] = struct{}{}
			}
		}
		rf.kmers[d][0] = keep
		rf.kmers[d][1] = make(map[uint64]struct{})
	}
}

// AllKmers returns every distinct canonical k-mer known to the filter
// (union over direction and file), for FinalReadSelector.
func (rf *RegionFilter) AllKmers() map[uint64]struct{} {
	out := make(map[uint64]struct{})
	for d := 0; d < 2; d++ {
		for f := 0; f < 2; f++ {
			for code := range rf.kmers[d][f] {
				out[code] = struct{}{}
			}
		}
	}
	return out
}

// EndingFilter holds the opposite-direction "have we hit the end"
// fingerprints: XOR of a k-mer with the k-mer k/2 bases downstream (spec
// §3 "EndingFilter", §4.5 init step 4).
type EndingFilter struct {
	K   int
	set [2]map[uint64]struct{}
}

// NewEndingFilter allocates an empty ending filter.
func NewEndingFilter(k int) *EndingFilter {
	return &EndingFilter{K: k, set: [2]map[uint64]struct{}{make(map[uint64]struct{}), make(map[uint64]struct{})}}
}

// Add records the k/2-stride XOR fingerprint for direction dir.
func (ef *EndingFilter) Add(dir int, xor uint64) {
	ef.set[dir][xor] = struct{}{}
}

// Has reports membership.
func (ef *EndingFilter) Has(dir int, xor uint64) bool {
	_, ok := ef.set[dir][xor]
	return ok
}

// tileSeedRead walks read, adding every valid canonical k-mer into rf and
// every stride-contextStride context window starting at shortestLen into
// rf's context tables, for the given dir/file (spec §4.5 init step 3, main
// loop's ExtendFilterSet).
func tileSeedRead(rf *RegionFilter, dir, file int, read []byte, k, shortestLen, stride int) {
	entries := GenerateFromRead(read, k)
	for _, e := range entries {
		if !e.Valid {
			continue
		}
		rf.AddKmer(dir, file, Canonical(e.Code, k))
	}
	for L := shortestLen; L <= len(read); L += stride {
		for offset := 0; offset+L <= len(read); offset++ {
			fp, ok := HashContext(read, offset, L, k)
			if !ok {
				continue
			}
			leadCode, valid := Pack(read, offset, k)
			if !valid {
				continue
			}
			rf.AddContext(dir, file, L, leadCode, fp)
		}
	}
}

// tileEndingRead feeds the k/2-stride XOR fingerprints of a reversed
// opposite-end read into ef (spec §4.5 init step 4).
func tileEndingRead(ef *EndingFilter, dir int, read []byte, k int) {
	half := k / 2
	entries := GenerateFromRead(read, k)
	for i, e := range entries {
		if !e.Valid {
			continue
		}
		j := i + half
		if j >= len(entries) || !entries[j].Valid {
			continue
		}
		ef.Add(dir, e.Code^entries[j].Code)
	}
}
