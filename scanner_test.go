package kelpie

import "testing"

func newTestScanner(t *testing.T, fwdPrimer, rvsPrimer string) *PrimerReadScanner {
	t.Helper()
	exp := NewPrimerExpander(0, 0)
	fwdV, err := exp.Expand(fwdPrimer)
	if err != nil {
		t.Fatalf("expanding forward primer: %v", err)
	}
	rvsV, err := exp.Expand(rvsPrimer)
	if err != nil {
		t.Fatalf("expanding reverse primer: %v", err)
	}
	return NewPrimerReadScanner(fwdV, rvsV)
}

func TestScanReadFindsForwardPrimerAtStart(t *testing.T) {
	s := newTestScanner(t, "ACGTACGT", "TTTTTTTT")
	seq := []byte("ACGTACGTGGGGCCCC")

	role, trimmed, hit := s.ScanRead(seq)
	if role != RoleFP {
		t.Fatalf("expected RoleFP, got %v", role)
	}
	if string(trimmed) != string(seq) {
		t.Errorf("expected the trim to keep the whole read (primer already at offset 0), got %s", trimmed)
	}
	if hit.Role != RoleFP {
		t.Errorf("expected PrimerHit.Role to be RoleFP, got %v", hit.Role)
	}
}

func TestScanReadFindsReversePrimerAtStart(t *testing.T) {
	s := newTestScanner(t, "ACGTACGT", "TTTTTTTT")
	seq := []byte("TTTTTTTTGGGGCCCC")

	role, _, _ := s.ScanRead(seq)
	if role != RoleRP {
		t.Fatalf("expected RoleRP, got %v", role)
	}
}

func TestScanReadFindsForwardPrimerRCAtEnd(t *testing.T) {
	s := newTestScanner(t, "ACCGTTGA", "TTTTTTTT")
	fwdRC := ReverseComplementSeq([]byte("ACCGTTGA"))
	seq := append([]byte("GGGGCCCC"), fwdRC...)

	role, trimmed, _ := s.ScanRead(seq)
	if role != RoleFPEnd {
		t.Fatalf("expected RoleFPEnd, got %v", role)
	}
	if len(trimmed) != len(seq) {
		t.Errorf("expected the FPEnd trim to keep everything up through the RC primer, got length %d", len(trimmed))
	}
}

func TestScanReadReturnsRoleNoneWhenNoPrimerPresent(t *testing.T) {
	s := newTestScanner(t, "ACGTACGT", "TTTTTTTT")
	role, trimmed, _ := s.ScanRead([]byte("GGGGCCCCGGGGCCCC"))
	if role != RoleNone {
		t.Errorf("expected RoleNone, got %v", role)
	}
	if trimmed != nil {
		t.Errorf("expected a nil trim on no match, got %v", trimmed)
	}
}

func TestScanPartitionsTagsAndReindexesReads(t *testing.T) {
	s := newTestScanner(t, "ACGTACGT", "TTTTTTTT")
	partitions := [][]*Read{
		{{Seq: []byte("ACGTACGTGGGGCCCC"), Header: "r1"}},
		{{Seq: []byte("GGGGCCCCGGGGCCCC"), Header: "r2"}},
	}
	merged := s.ScanPartitions(partitions, 2)
	if len(merged) != 2 {
		t.Fatalf("expected 2 result slots (one per input read), got %d", len(merged))
	}
	if merged[0] == nil || merged[0].Role != RoleFP {
		t.Errorf("expected the first read to be tagged RoleFP, got %+v", merged[0])
	}
	if merged[1] != nil {
		t.Errorf("expected the second, primer-less read to remain a nil slot, got %+v", merged[1])
	}
}
