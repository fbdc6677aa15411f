package kelpie

// AdapterTrap records k-mers trimmed off the end of seed reads because
// they looked like one-sided adapter contamination rather than genomic
// sequence (spec §4.5 init step 3): a k-mer that appears (in as-read,
// non-canonical orientation) across the seed set but whose reverse
// complement is never observed in any peer read is flagged, and reads are
// cut back to the last solid k-mer before it.
type AdapterTrap struct {
	kmers map[uint64]struct{}
}

// Contains reports whether code was trapped as an adapter k-mer.
func (t *AdapterTrap) Contains(code uint64) bool {
	if t == nil {
		return false
	}
	_, ok := t.kmers[code]
	return ok
}

// DetectAndTrimAdapters scans reads (non-canonical, as-read k-mers) for
// one-sided codes and trims each read back to the last position before its
// first such code, recording the trimmed tail's k-mers in the trap. reads
// are mutated in place (Seq shortened).
func DetectAndTrimAdapters(reads []*Read, k int) *AdapterTrap {
	seen := make(map[uint64]struct{})
	for _, r := range reads {
		if r.Dropped() {
			continue
		}
		for _, e := range GenerateFromRead(r.Seq, k) {
			if e.Valid {
				seen[e.Code] = struct{}{}
			}
		}
	}

	trap := make(map[uint64]struct{})
	for _, r := range reads {
		if r.Dropped() {
			continue
		}
		entries := GenerateFromRead(r.Seq, k)
		cut := len(r.Seq)
		for i, e := range entries {
			if !e.Valid {
				continue
			}
			if _, inSeen := seen[e.Code]; !inSeen {
				continue
			}
			if _, rcSeen := seen[ReverseComplement(e.Code, k)]; !rcSeen {
				cut = i
				break
			}
		}
		if cut < len(r.Seq) {
			for i := cut; i < len(entries); i++ {
				if entries[i].Valid {
					trap[entries[i].Code] = struct{}{}
				}
			}
			r.Seq = r.Seq[:cut]
			if len(r.Qual) > cut {
				r.Qual = r.Qual[:cut]
			}
		}
	}
	return &AdapterTrap{kmers: trap}
}

// lowComplexitySecondHalf implements the "second half dominated by a small
// set of 3-mers" test (spec §4.5 FindMatchingReads).
func lowComplexitySecondHalf(seq []byte) bool {
	half := seq[len(seq)/2:]
	if len(half) < 9 {
		return false
	}
	counts := make(map[string]int)
	total := 0
	for i := 0; i+3 <= len(half); i++ {
		counts[string(half[i:i+3])]++
		total++
	}
	if total == 0 {
		return false
	}
	vals := make([]int, 0, len(counts))
	for _, v := range counts {
		vals = append(vals, v)
	}
	for i := 1; i < len(vals); i++ {
		for j := i; j > 0 && vals[j-1] < vals[j]; j-- {
			vals[j-1], vals[j] = vals[j], vals[j-1]
		}
	}
	top := 0
	for i := 0; i < len(vals) && i < 3; i++ {
		top += vals[i]
	}
	return float64(top)/float64(total) > 0.85
}
