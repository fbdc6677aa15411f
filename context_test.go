package kelpie

import "testing"

func TestHashContextIsDeterministic(t *testing.T) {
	seq := []byte("ACGTACGTACGTACGT")
	fp1, ok1 := HashContext(seq, 0, 12, 4)
	fp2, ok2 := HashContext(seq, 0, 12, 4)
	if !ok1 || !ok2 {
		t.Fatal("expected HashContext to succeed on a clean window")
	}
	if fp1 != fp2 {
		t.Errorf("HashContext should be deterministic, got %d and %d", fp1, fp2)
	}
}

func TestHashContextRejectsWindowPastEnd(t *testing.T) {
	seq := []byte("ACGT")
	if _, ok := HashContext(seq, 0, 8, 4); ok {
		t.Error("expected HashContext to fail when the window runs off the end of seq")
	}
}

func TestHashContextRejectsAmbiguousBase(t *testing.T) {
	seq := []byte("ACGTNCGTACGT")
	if _, ok := HashContext(seq, 0, 12, 4); ok {
		t.Error("expected HashContext to fail when the window contains an ambiguous base")
	}
}

func TestHashContextRejectsLTooShort(t *testing.T) {
	seq := []byte("ACGT")
	if _, ok := HashContext(seq, 0, 2, 4); ok {
		t.Error("expected HashContext to fail when L < k")
	}
}

func TestHashContextVariantOverridesTrailingKmer(t *testing.T) {
	seq := []byte("ACGTACGTACGTACGT")
	base, ok := HashContext(seq, 0, 12, 4)
	if !ok {
		t.Fatal("HashContext failed on a clean window")
	}

	altCode, _ := Pack([]byte("TTTT"), 0, 4)
	variant, ok := HashContextVariant(seq, 0, 12, 4, altCode)
	if !ok {
		t.Fatal("HashContextVariant failed on a clean window")
	}
	if variant == base {
		t.Error("substituting a different trailing k-mer should change the fingerprint")
	}
}

func TestHashContextDifferentWindowsDifferentFingerprints(t *testing.T) {
	a, _ := HashContext([]byte("ACGTACGTACGT"), 0, 12, 4)
	b, _ := HashContext([]byte("TTTTGGGGCCCC"), 0, 12, 4)
	if a == b {
		t.Error("expected distinct windows to produce distinct fingerprints (collisions are possible but unlikely here)")
	}
}
