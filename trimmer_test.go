package kelpie

import "testing"

func TestTrimStripsStubAndTerminatingPrimer(t *testing.T) {
	p := DefaultParams()
	rvs := &PrimerVariants{
		HeadLen: 2,
		CoreLen: 2,
		HeadsRC: map[string]struct{}{"TT": {}},
		CoresRC: map[string]struct{}{"GG": {}},
	}
	tr := NewTrimmer(p, 4, rvs)

	// 4-base stub "STUB" + payload "ACGT" + terminating primer "TTGG".
	seq := []byte("STUBACGTTTGG")
	res := tr.Trim(seq, "read1")

	if !res.TPFound {
		t.Fatal("expected the terminating primer to be found and stripped")
	}
	if string(res.Seq) != "ACGT" {
		t.Errorf("Trim() Seq = %s, want ACGT", res.Seq)
	}
	if !res.Kept {
		t.Error("a sequence with the terminating primer found should be kept")
	}
}

func TestTrimWithoutTerminatingPrimerUsesMinLength(t *testing.T) {
	p := DefaultParams()
	p.MinExtendedLength = 4
	rvs := &PrimerVariants{
		HeadLen: 2, CoreLen: 2,
		HeadsRC: map[string]struct{}{"TT": {}},
		CoresRC: map[string]struct{}{"GG": {}},
	}
	tr := NewTrimmer(p, 0, rvs)

	res := tr.Trim([]byte("ACGTACGT"), "read2")
	if res.TPFound {
		t.Fatal("no terminating primer should be found in this sequence")
	}
	if !res.Kept {
		t.Error("a sequence at least MinExtendedLength long should be kept even without the TP")
	}
}

func TestTrimShortWithoutTerminatingPrimerIsDiscarded(t *testing.T) {
	p := DefaultParams()
	p.MinExtendedLength = 100
	rvs := &PrimerVariants{
		HeadLen: 2, CoreLen: 2,
		HeadsRC: map[string]struct{}{"TT": {}},
		CoresRC: map[string]struct{}{"GG": {}},
	}
	tr := NewTrimmer(p, 0, rvs)

	res := tr.Trim([]byte("ACGTACGT"), "read3")
	if res.Kept {
		t.Error("a short sequence with no terminating primer should be discarded")
	}
}

func TestDereplicateGroupsBySequenceAndSortsBySize(t *testing.T) {
	d := &Dereplicator{}
	results := []TrimResult{
		{Seq: []byte("AAAA"), Kept: true, Header: "r1"},
		{Seq: []byte("AAAA"), Kept: true, Header: "r2"},
		{Seq: []byte("CCCC"), Kept: true, Header: "r3"},
		{Seq: []byte("GGGG"), Kept: false, Header: "r4"},
	}

	kept, discards := d.Dereplicate(results)
	if len(kept) != 2 {
		t.Fatalf("expected 2 kept clusters, got %d", len(kept))
	}
	if kept[0].Seq != "AAAA" || kept[0].Size != 2 {
		t.Errorf("expected the larger AAAA cluster first, got %+v", kept[0])
	}
	if len(discards) != 1 || discards[0].Seq != "GGGG" {
		t.Errorf("expected a single GGGG discard cluster, got %+v", discards)
	}
}
