package kelpie

import "fmt"

// PrimerVariants holds every expanded head/core string for one primer role
// (forward or reverse), plus its reverse-complement counterpart (used to
// recognize the primer at the far end of a read, spec §3 "F'"/"R'").
//
// Adapted from the teacher's degenerate-expansion helpers in
// unikmer/cmd/util.go (degenerateBaseMapNucl / extendDegenerateSeq, now
// DNA.go's DegenerateBases / ExpandDegenerateSeq), extended with the
// head/core split, mismatch enumeration and fixed-tail rule spec §3/§4.1
// require and the teacher's own pattern matching never needed.
type PrimerVariants struct {
	HeadLen int
	CoreLen int
	Heads   map[string]struct{}
	Cores   map[string]struct{}
	// HeadsRC/CoresRC hold the reverse-complement primer's own head/core
	// variants (for recognizing this primer's terminating partner).
	HeadsRC map[string]struct{}
	CoresRC map[string]struct{}
}

// PrimerExpander builds PrimerVariants from a (possibly degenerate) primer
// string and a mismatch budget, per spec §4.1.
type PrimerExpander struct {
	HeadMismatches int
	CoreMismatches int
}

// NewPrimerExpander returns an expander with the given head and core
// mismatch budgets.
func NewPrimerExpander(headMismatches, coreMismatches int) *PrimerExpander {
	return &PrimerExpander{HeadMismatches: headMismatches, CoreMismatches: coreMismatches}
}

// splitHeadCore divides primer into its 5' head (up to 1/4 of the length)
// and 3' core (the remaining ~3/4), per spec §3.
func splitHeadCore(primer []byte) (head, core []byte) {
	n := len(primer)
	h := n / 4
	if h < 1 {
		h = 1
	}
	if h >= n {
		h = n - 1
	}
	return primer[:h], primer[h:]
}

// Expand builds the full PrimerVariants for primer (spec §4.1): degenerate
// expansion of both head and core, then every substitution within the
// configured mismatch budget, honoring the "last 2 core bases fixed" rule
// for heavily degenerate primers (<80% ACGT, spec §3).
func (pe *PrimerExpander) Expand(primer string) (*PrimerVariants, error) {
	raw := []byte(primer)
	if len(raw) == 0 || len(raw) > MaxK {
		return nil, ErrPrimerTooLong
	}
	head, core := splitHeadCore(raw)
	heavyDegenerate := ACGTFraction(raw) < 0.8

	heads, err := expandWithMismatches(head, pe.HeadMismatches, nil)
	if err != nil {
		return nil, err
	}
	var fixedCoreTail map[int]bool
	if heavyDegenerate && len(core) >= 2 {
		fixedCoreTail = map[int]bool{len(core) - 1: true, len(core) - 2: true}
	}
	cores, err := expandWithMismatches(core, pe.CoreMismatches, fixedCoreTail)
	if err != nil {
		return nil, err
	}

	rc := ReverseComplementSeq(raw)
	rcHead, rcCore := splitHeadCore(rc)
	headsRC, err := expandWithMismatches(rcHead, pe.HeadMismatches, nil)
	if err != nil {
		return nil, err
	}
	var fixedRCTail map[int]bool
	if heavyDegenerate && len(rcCore) >= 2 {
		fixedRCTail = map[int]bool{len(rcCore) - 1: true, len(rcCore) - 2: true}
	}
	coresRC, err := expandWithMismatches(rcCore, pe.CoreMismatches, fixedRCTail)
	if err != nil {
		return nil, err
	}

	return &PrimerVariants{
		HeadLen: len(head),
		CoreLen: len(core),
		Heads:   heads,
		Cores:   cores,
		HeadsRC: headsRC,
		CoresRC: coresRC,
	}, nil
}

var acgt = [4]byte{'A', 'C', 'G', 'T'}

// expandWithMismatches enumerates: every degenerate-code literal of seq,
// then every variant of those literals obtained by substituting up to
// maxMismatches unambiguous bases (never at a position in fixedTail).
func expandWithMismatches(seq []byte, maxMismatches int, fixedTail map[int]bool) (map[string]struct{}, error) {
	literals, err := ExpandDegenerateSeq(seq)
	if err != nil {
		return nil, err
	}
	out := make(map[string]struct{}, len(literals)*4)
	for _, lit := range literals {
		mutateRecursive(lit, 0, maxMismatches, fixedTail, out)
	}
	return out, nil
}

// mutateRecursive enumerates every way to substitute up to budget bases of
// lit starting at position pos, recording each resulting string in out
// (including the zero-mismatch original).
func mutateRecursive(lit []byte, pos, budget int, fixedTail map[int]bool, out map[string]struct{}) {
	if pos == len(lit) {
		out[string(lit)] = struct{}{}
		return
	}
	// keep the current base
	mutateRecursive(lit, pos+1, budget, fixedTail, out)
	if budget <= 0 || fixedTail[pos] {
		return
	}
	orig := lit[pos]
	for _, b := range acgt {
		if b == orig {
			continue
		}
		lit[pos] = b
		mutateRecursive(lit, pos+1, budget-1, fixedTail, out)
	}
	lit[pos] = orig
}

// mismatchCount returns the minimum Hamming distance between candidate and
// any degenerate-expansion literal of referencePrimer (spec §4.1). Both
// strings must have equal length.
func (pe *PrimerExpander) MismatchCount(candidate string, referencePrimer string) (int, error) {
	if len(candidate) != len(referencePrimer) {
		return -1, fmt.Errorf("kelpie: mismatchCount: length mismatch %d != %d", len(candidate), len(referencePrimer))
	}
	literals, err := ExpandDegenerateSeq([]byte(referencePrimer))
	if err != nil {
		return -1, err
	}
	best := len(candidate) + 1
	cb := []byte(candidate)
	for _, lit := range literals {
		d := hamming(cb, lit)
		if d < best {
			best = d
		}
	}
	return best, nil
}

func hamming(a, b []byte) int {
	n := 0
	for i := range a {
		if a[i] != b[i] {
			n++
		}
	}
	return n
}
