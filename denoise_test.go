package kelpie

import "testing"

func TestComputeReadStatsEmptyReadReturnsZeroValue(t *testing.T) {
	d := NewDenoiser(DefaultParams())
	stats := d.ComputeReadStats(nil, RoleNone, NewKmerCountTable(4), 4)
	if stats.AvgDepth != 0 || stats.HarmonicMeanDepth != 0 {
		t.Errorf("expected a zero-value ReadStats for an empty read, got %+v", stats)
	}
}

func TestComputeReadStatsAveragesSupportedKmers(t *testing.T) {
	p := DefaultParams()
	p.MinDepth = 1
	d := NewDenoiser(p)
	seq := []byte("ACGTACGTACGT")
	table := NewKmerCountTable(4)
	table.Add(seq)
	table.Add(seq)

	stats := d.ComputeReadStats(seq, RoleNone, table, 4)
	if stats.AvgDepth == 0 {
		t.Error("expected a nonzero average depth once every k-mer is well-supported")
	}
	if stats.InitialGoodDepth != stats.AvgDepth {
		t.Errorf("InitialGoodDepth should equal AvgDepth, got %v vs %v", stats.InitialGoodDepth, stats.AvgDepth)
	}
}

func TestDenoiseReadLeavesWellSupportedKmersAlone(t *testing.T) {
	p := DefaultParams()
	p.MinDepth = 1
	d := NewDenoiser(p)
	seq := []byte("ACGTACGTACGTACGT")
	table := NewKmerCountTable(4)
	for i := 0; i < 5; i++ {
		table.Add(seq)
	}

	cull := make(map[uint64]int)
	redeem := make(map[uint64]int)
	oneSided := table.KmersWithZeroRC()
	d.DenoiseRead(&Read{Seq: seq}, table, 4, oneSided, cull, redeem)

	code, _ := Pack(seq, 0, 4)
	canon := Canonical(code, 4)
	if table.Count(canon) == 0 {
		t.Error("a consistently well-supported k-mer should not be culled")
	}
}

func TestStatusQuoFollowerCountIsNeverNegative(t *testing.T) {
	k := 4
	seq := []byte("ACGTACGTAAAATTTTCCCC")
	entries := GenerateFromRead(seq, k)
	table := NewKmerCountTable(k)
	table.Add(seq)

	count := statusQuoFollowerCount(entries, 0, table, k, 0)
	if count < 0 {
		t.Errorf("follower count should never be negative, got %d", count)
	}
}

func TestDenoiserRunIsDeterministicAcrossCullOrder(t *testing.T) {
	p := DefaultParams()
	p.MinDepth = 1
	d := NewDenoiser(p)
	seq := []byte("ACGTACGTACGTACGTACGT")
	table1 := NewKmerCountTable(4)
	table2 := NewKmerCountTable(4)
	for i := 0; i < 3; i++ {
		table1.Add(seq)
		table2.Add(seq)
	}
	reads := []*Read{{Seq: seq}}

	d.Run(reads, table1, 4)
	d.Run(reads, table2, 4)

	code, _ := Pack(seq, 0, 4)
	canon := Canonical(code, 4)
	if table1.Count(canon) != table2.Count(canon) {
		t.Errorf("two runs over identical input diverged: %d vs %d", table1.Count(canon), table2.Count(canon))
	}
}
