package kelpie

// KmerCountTable maps canonical k-mers to their occurrence count across
// selected reads (spec §4.7), tiled in each read's as-read orientation
// (FP' reads un-reversed for counting, per spec).
type KmerCountTable struct {
	K int

	counts   map[uint64]uint32
	strandA  map[uint64]uint32 // occurrences seen in canonical (as-stored) orientation
	strandB  map[uint64]uint32 // occurrences seen in the complementary orientation
}

// NewKmerCountTable allocates an empty table for k.
func NewKmerCountTable(k int) *KmerCountTable {
	return &KmerCountTable{
		K:       k,
		counts:  make(map[uint64]uint32),
		strandA: make(map[uint64]uint32),
		strandB: make(map[uint64]uint32),
	}
}

// Add tiles read into the table.
func (t *KmerCountTable) Add(seq []byte) {
	for _, e := range GenerateFromRead(seq, t.K) {
		if !e.Valid {
			continue
		}
		canon := Canonical(e.Code, t.K)
		t.counts[canon]++
		if e.Code == canon {
			t.strandA[canon]++
		} else {
			t.strandB[canon]++
		}
	}
}

// Build tiles every selected read (spec §4.7).
func (t *KmerCountTable) Build(reads []*Read) {
	for _, r := range reads {
		if r.Dropped() {
			continue
		}
		t.Add(r.Seq)
	}
}

// Count returns the current count for a canonical k-mer.
func (t *KmerCountTable) Count(canon uint64) uint32 {
	return t.counts[canon]
}

// Set overwrites a k-mer's count (used by denoise culling).
func (t *KmerCountTable) Set(canon uint64, n uint32) {
	t.counts[canon] = n
}

// Increment/Decrement adjust a single k-mer's count by one. StartingReadPrep's
// cleaning does not call them: its base substitutions leave counts as they
// are.
func (t *KmerCountTable) Increment(canon uint64) { t.counts[canon]++ }
func (t *KmerCountTable) Decrement(canon uint64) {
	if t.counts[canon] > 0 {
		t.counts[canon]--
	}
}

// IsOneSided reports whether canon was observed in only one strand
// orientation (the weak "(n,0)" error signal, spec §4.7).
func (t *KmerCountTable) IsOneSided(canon uint64) bool {
	a, b := t.strandA[canon], t.strandB[canon]
	return (a == 0) != (b == 0)
}

// KmersWithZeroRC returns the set of canonical k-mers whose count is low
// (<=2) and one-sided -- the companion set named in spec §4.7.
func (t *KmerCountTable) KmersWithZeroRC() map[uint64]struct{} {
	out := make(map[uint64]struct{})
	for code, n := range t.counts {
		if n <= 2 && t.IsOneSided(code) {
			out[code] = struct{}{}
		}
	}
	return out
}

// Variants returns all substitution variants of the k-mer at code: every
// single-base substitution at position 0 when atStart is true, otherwise
// only substitutions of the final (next) base -- mirroring spec §4.7's
// "all single-sub at position 0; next-base-only elsewhere" rule for
// denoise's alternative generation. The Extender builds its next-base
// candidates itself (nextCandidates) and does not call Variants.
func Variants(code uint64, k int, atStart bool) []uint64 {
	out := make([]uint64, 0, 4)
	seq := Decode(code, k)
	if atStart {
		for _, b := range acgt {
			if b == seq[0] {
				continue
			}
			cp := append([]byte(nil), seq...)
			cp[0] = b
			v, err := Encode(cp)
			if err == nil {
				out = append(out, v)
			}
		}
	} else {
		for _, b := range acgt {
			if b == seq[k-1] {
				continue
			}
			cp := append([]byte(nil), seq...)
			cp[k-1] = b
			v, err := Encode(cp)
			if err == nil {
				out = append(out, v)
			}
		}
	}
	return out
}
