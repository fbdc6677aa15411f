package kelpie

import (
	"github.com/twotwotwo/sorts/sortutil"
)

// CodeSlice is a slice of packed canonical k-mer codes, sortable with the
// stdlib sort.Interface or in parallel via sortutil.Uint64s. Adapted from
// the teacher's unikmer CodeSlice (kmer-sort.go), which served the exact
// same "sortable slice of uint64 kmer codes" role for its own binary
// output format.
type CodeSlice []uint64

func (c CodeSlice) Len() int           { return len(c) }
func (c CodeSlice) Swap(i, j int)      { c[i], c[j] = c[j], c[i] }
func (c CodeSlice) Less(i, j int) bool { return c[i] < c[j] }

// SortCodes sorts codes in place, using the teacher's parallel-sort
// dependency (twotwotwo/sorts/sortutil) once the slice is large enough to
// make that worthwhile; small slices use the plain sequential path since
// sortutil's goroutine fan-out has fixed overhead.
func SortCodes(codes []uint64) {
	if len(codes) < 1<<16 {
		CodeSlice(codes).sortSequential()
		return
	}
	sortutil.Uint64s(codes)
}

func (c CodeSlice) sortSequential() {
	// insertion sort would be fine for tests; use a tiny local quicksort
	// rather than importing "sort" purely for this.
	quicksortUint64(c, 0, len(c)-1)
}

func quicksortUint64(a []uint64, lo, hi int) {
	for lo < hi {
		p := partitionUint64(a, lo, hi)
		if p-lo < hi-p {
			quicksortUint64(a, lo, p-1)
			lo = p + 1
		} else {
			quicksortUint64(a, p+1, hi)
			hi = p - 1
		}
	}
}

func partitionUint64(a []uint64, lo, hi int) int {
	pivot := a[hi]
	i := lo
	for j := lo; j < hi; j++ {
		if a[j] < pivot {
			a[i], a[j] = a[j], a[i]
			i++
		}
	}
	a[i], a[hi] = a[hi], a[i]
	return i
}

// SortedReads sorts a slice of *Read lexicographically by Seq; its
// sortInPlace (iterativefilter.go) is a sequential local quicksort with no
// parallel path. Used by IterativeRegionFilter's ExtendFilterSet to find
// prefix-subsumed reads (spec §4.5).
type SortedReads []*Read

func (s SortedReads) Len() int      { return len(s) }
func (s SortedReads) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
func (s SortedReads) Less(i, j int) bool {
	return string(s[i].Seq) < string(s[j].Seq)
}
