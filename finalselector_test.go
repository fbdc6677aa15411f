package kelpie

import "testing"

func TestFinalReadSelectorAlwaysKeepsTaggedReads(t *testing.T) {
	s := &FinalReadSelector{K: 4}
	rf := NewRegionFilter(4)
	reads := []*Read{{Seq: []byte("ACGTACGT"), Role: RoleFP}}
	out := s.Select(reads, rf)
	if len(out) != 1 {
		t.Fatalf("expected the primer-tagged read to survive regardless of region overlap, got %d", len(out))
	}
}

func TestFinalReadSelectorDropsUntaggedReadOutsideRegion(t *testing.T) {
	s := &FinalReadSelector{K: 4}
	rf := NewRegionFilter(4)
	reads := []*Read{{Seq: []byte("ACGTACGTACGT"), Role: RoleNone}}
	out := s.Select(reads, rf)
	if len(out) != 0 {
		t.Errorf("expected an untagged read with no region overlap to be dropped, got %d", len(out))
	}
}

func TestFinalReadSelectorKeepsUntaggedReadInsideRegion(t *testing.T) {
	s := &FinalReadSelector{K: 4}
	rf := NewRegionFilter(4)
	seq := []byte("ACGTACGTACGT")
	entries := GenerateFromRead(seq, 4)
	for _, e := range entries {
		rf.AddKmer(0, 0, Canonical(e.Code, 4))
	}

	reads := []*Read{{Seq: seq, Role: RoleNone}}
	out := s.Select(reads, rf)
	if len(out) != 1 {
		t.Errorf("expected a read whose k-mers are entirely in-region to pass the thirds test, got %d", len(out))
	}
}

func TestBuildReadPairIndexPairsSharedHeaders(t *testing.T) {
	reads := []*Read{
		{Header: "r1", Seq: []byte("ACGTACGTACGTACGTACGTACGT")},
		{Header: "r1", Seq: []byte("TTTTTTTTTTTTTTTTTTTTTTTT")},
		{Header: "r2", Seq: []byte("GGGGGGGGGGGGGGGGGGGGGGGG")},
	}
	pairs := BuildReadPairIndex(reads, 24)
	if len(pairs) != 1 {
		t.Fatalf("expected exactly one pair (the shared r1 header), got %d", len(pairs))
	}
	if pairs[0].I != 0 || pairs[0].J != 1 {
		t.Errorf("expected pair (0,1), got (%d,%d)", pairs[0].I, pairs[0].J)
	}
}

func TestIsTrivialPairDetectsOverlapViaReverseComplement(t *testing.T) {
	a := []byte("ACGTACGTACGT")
	b := ReverseComplementSeq(a)
	if !isTrivialPair(a, b, 8) {
		t.Error("a read and the reverse complement of itself should be a trivial pair")
	}
}

func TestIsTrivialPairZeroCoreLenIsNeverTrivial(t *testing.T) {
	if isTrivialPair([]byte("ACGT"), []byte("ACGT"), 0) {
		t.Error("coreLen <= 0 should never report a trivial pair")
	}
}

func TestContainsSubstring(t *testing.T) {
	if !containsSubstring([]byte("ACGTACGT"), []byte("GTAC")) {
		t.Error("expected GTAC to be found inside ACGTACGT")
	}
	if containsSubstring([]byte("AC"), []byte("ACGT")) {
		t.Error("a needle longer than the haystack should never match")
	}
}
