package kelpie

import (
	"math/rand"
	"sort"
	"testing"
)

func TestSortCodesSmallSlice(t *testing.T) {
	codes := []uint64{5, 3, 1, 4, 2}
	SortCodes(codes)
	want := []uint64{1, 2, 3, 4, 5}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("SortCodes() = %v, want %v", codes, want)
		}
	}
}

func TestSortCodesLargeSliceUsesParallelPath(t *testing.T) {
	n := 1 << 16 // at the sortutil threshold
	codes := make([]uint64, n)
	for i := range codes {
		codes[i] = uint64(rand.Intn(1 << 20))
	}
	SortCodes(codes)
	if !sort.SliceIsSorted(codes, func(i, j int) bool { return codes[i] < codes[j] }) {
		t.Error("expected a large slice to come out sorted via the sortutil path")
	}
}

func TestSortedReadsLessOrdersBySequence(t *testing.T) {
	s := SortedReads{
		{Seq: []byte("TTTT")},
		{Seq: []byte("AAAA")},
	}
	if !s.Less(1, 0) {
		t.Error("AAAA should sort before TTTT")
	}
	if s.Less(0, 1) {
		t.Error("TTTT should not sort before AAAA")
	}
}
