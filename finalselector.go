package kelpie

// FinalReadSelector keeps every read whose k-mers fall inside the
// converged RegionFilter in at least two of three equal thirds (spec
// §4.6), then builds a paired-read index over survivors, excluding
// "trivial" pairs.
type FinalReadSelector struct {
	K int
}

// Select returns the reads that pass the two-of-three-thirds test.
// Primer-tagged reads (already selected by PrimerReadScanner per spec
// §4.6 "primer-tagged reads pre-selected") are always kept.
func (s *FinalReadSelector) Select(reads []*Read, rf *RegionFilter) []*Read {
	all := rf.AllKmers()
	out := make([]*Read, 0, len(reads))
	for _, r := range reads {
		if r.Dropped() {
			continue
		}
		if r.Role != RoleNone {
			out = append(out, r)
			continue
		}
		if passesThirds(r.Seq, s.K, all) {
			out = append(out, r)
		}
	}
	return out
}

func passesThirds(seq []byte, k int, region map[uint64]struct{}) bool {
	entries := GenerateFromRead(seq, k)
	if len(entries) == 0 {
		return false
	}
	third := (len(entries) + 2) / 3
	if third == 0 {
		third = 1
	}
	hits := 0
	for t := 0; t < 3; t++ {
		lo := t * third
		hi := lo + third
		if lo >= len(entries) {
			break
		}
		if hi > len(entries) {
			hi = len(entries)
		}
		found := false
		for _, e := range entries[lo:hi] {
			if !e.Valid {
				continue
			}
			if _, ok := region[Canonical(e.Code, k)]; ok {
				found = true
				break
			}
		}
		if found {
			hits++
		}
	}
	return hits >= 2
}

// ReadPair is a canonical (i,j) pairing with i<j into the kept-read slice.
type ReadPair struct {
	I, J int
}

// BuildReadPairIndex pairs reads that share a Header (the common
// "R1/R2 share a read name" convention); PairIdx is not consulted.
// Trivial pairs are excluded: one member's
// reverse complement contains a core of length
// trivialPairCoreFraction*longestRead from the other (spec §3, §4.6).
func BuildReadPairIndex(reads []*Read, longestRead int) []ReadPair {
	byHeader := make(map[string][]int, len(reads))
	for i, r := range reads {
		if r.Dropped() {
			continue
		}
		byHeader[r.Header] = append(byHeader[r.Header], i)
	}

	coreLen := int(float64(longestRead) * trivialPairCoreFraction)
	var pairs []ReadPair
	for _, idxs := range byHeader {
		if len(idxs) != 2 {
			continue
		}
		i, j := idxs[0], idxs[1]
		if i > j {
			i, j = j, i
		}
		if isTrivialPair(reads[i].Seq, reads[j].Seq, coreLen) {
			continue
		}
		pairs = append(pairs, ReadPair{I: i, J: j})
	}
	return pairs
}

// isTrivialPair reports whether one read's reverse complement contains a
// core-length substring of the other (short-fragment overlap, spec §3).
func isTrivialPair(a, b []byte, coreLen int) bool {
	if coreLen <= 0 {
		return false
	}
	ra := ReverseComplementSeq(a)
	rb := ReverseComplementSeq(b)
	if coreLen > len(b) || coreLen > len(a) {
		coreLen = minInt(len(a), len(b))
	}
	if coreLen == 0 {
		return false
	}
	return containsSubstring(ra, coreOf(b, coreLen)) || containsSubstring(rb, coreOf(a, coreLen))
}

func coreOf(seq []byte, coreLen int) []byte {
	if coreLen >= len(seq) {
		return seq
	}
	start := (len(seq) - coreLen) / 2
	return seq[start : start+coreLen]
}

func containsSubstring(haystack, needle []byte) bool {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if string(haystack[i:i+len(needle)]) == string(needle) {
			return true
		}
	}
	return false
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
