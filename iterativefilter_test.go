package kelpie

import "testing"

func TestSeedRoleForRead(t *testing.T) {
	cases := []struct {
		role    PrimerRole
		dir     int
		ending  bool
		wantOK  bool
	}{
		{RoleFP, DirFwd, false, true},
		{RoleRP, DirRvs, false, true},
		{RoleFPEnd, DirRvs, true, true},
		{RoleRPEnd, DirFwd, true, true},
		{RoleNone, 0, false, false},
	}
	for _, c := range cases {
		dir, ending, ok := seedRoleForRead(c.role)
		if ok != c.wantOK {
			t.Fatalf("seedRoleForRead(%v) ok = %v, want %v", c.role, ok, c.wantOK)
		}
		if !ok {
			continue
		}
		if dir != c.dir || ending != c.ending {
			t.Errorf("seedRoleForRead(%v) = (%d,%v), want (%d,%v)", c.role, dir, ending, c.dir, c.ending)
		}
	}
}

func TestInitialiseSeedsRegionFilterFromTaggedReads(t *testing.T) {
	p := DefaultParams()
	p.K = 4
	p.ShortestContextLength = 4
	p.ShortestContextSize = 4
	p.FilterContextStride = 4
	it := NewIterativeRegionFilter(p)

	reads := []*Read{
		{Seq: []byte("ACGTACGTACGT"), Role: RoleFP, FileOf: 0},
		{Seq: []byte("TTTTGGGGCCCCAAAA"), Role: RoleRP, FileOf: 0},
	}
	it.Initialise(reads)

	if it.RF.KmerCount(DirFwd) == 0 {
		t.Error("expected the FP read to seed the forward direction")
	}
	if it.RF.KmerCount(DirRvs) == 0 {
		t.Error("expected the RP read to seed the reverse direction")
	}
}

func TestIsPrefixOf(t *testing.T) {
	if !isPrefixOf([]byte("ACG"), []byte("ACGT")) {
		t.Error("ACG should be a prefix of ACGT")
	}
	if isPrefixOf([]byte("ACGT"), []byte("ACGT")) {
		t.Error("a sequence should not be considered a strict prefix of itself")
	}
	if isPrefixOf([]byte("ACGT"), []byte("ACG")) {
		t.Error("a longer sequence should never be a prefix of a shorter one")
	}
}

func TestSubsumeByPrefixDropsPrefixedReads(t *testing.T) {
	reads := []*Read{
		{Seq: []byte("ACG")},
		{Seq: []byte("ACGT")},
		{Seq: []byte("TTTT")},
	}
	out := subsumeByPrefix(reads)
	if len(out) != 2 {
		t.Fatalf("expected 2 surviving reads (ACG subsumed by ACGT), got %d", len(out))
	}
	for _, r := range out {
		if string(r.Seq) == "ACG" {
			t.Error("ACG should have been subsumed as a strict prefix of ACGT")
		}
	}
}

func TestConvergedRunawayMatches(t *testing.T) {
	p := DefaultParams()
	it := NewIterativeRegionFilter(p)
	it.expected[0] = 1
	it.prevMatch[0] = 1000
	if !it.converged(0, 1000) {
		t.Error("expected a runaway match count to trigger convergence")
	}
}

func TestConvergedRoundCap(t *testing.T) {
	p := DefaultParams()
	it := NewIterativeRegionFilter(p)
	it.round = 1000
	if !it.converged(0, 150) {
		t.Error("expected exceeding the round cap to trigger convergence")
	}
}

func TestConvergedNotYet(t *testing.T) {
	p := DefaultParams()
	it := NewIterativeRegionFilter(p)
	it.round = 1
	it.expected[0] = 100
	it.prevMatch[0] = 5
	if it.converged(0, 100000) {
		t.Error("expected a fresh filter with no history to not be converged yet")
	}
}
