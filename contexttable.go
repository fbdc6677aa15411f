package kelpie

import "github.com/biogo/store/llrb"

// lengthTable is one context-length table: L plus its hashed-context
// frequency map (spec §3 "ContextTable(L)"). It implements llrb.Comparable
// so the registry of lengths stays ordered ascending, mirroring the
// teacher/pack's own use of biogo/store/llrb for an ordered interval
// registry (grailbio-bio's sort merge tree).
type lengthTable struct {
	L     int
	freq  map[uint64]uint32
}

func (t *lengthTable) Compare(other llrb.Comparable) int {
	o := other.(*lengthTable)
	return t.L - o.L
}

// ContextTable holds, for each context length L in
// {shortestContextSize, +contextStride, ..., <=longestRead}, a mapping
// hashed-context -> frequency (spec §3, §4.8).
type ContextTable struct {
	K      int
	Stride int
	lens   *llrb.Tree
	byLen  map[int]*lengthTable
}

// NewContextTable allocates an empty table for the given k and stride.
func NewContextTable(k, stride int) *ContextTable {
	return &ContextTable{K: k, Stride: stride, lens: &llrb.Tree{}, byLen: make(map[int]*lengthTable)}
}

func (ct *ContextTable) tableFor(L int) *lengthTable {
	t, ok := ct.byLen[L]
	if !ok {
		t = &lengthTable{L: L, freq: make(map[uint64]uint32)}
		ct.byLen[L] = t
		ct.lens.Insert(t)
	}
	return t
}

// Build tiles every selected read, forward and RC, into each applicable
// length's table (spec §4.8). zeroDepth reports whether a canonical k-mer
// has been denoised to zero; any window containing one is skipped (the
// context is invalidated).
func (ct *ContextTable) Build(reads []*Read, shortestContextSize, longestRead int, zeroDepth func(uint64) bool) {
	for _, r := range reads {
		if r.Dropped() {
			continue
		}
		ct.tileOrientation(r.Seq, shortestContextSize, longestRead, zeroDepth)
		ct.tileOrientation(ReverseComplementSeq(r.Seq), shortestContextSize, longestRead, zeroDepth)
	}
}

func (ct *ContextTable) tileOrientation(seq []byte, shortestContextSize, longestRead int, zeroDepth func(uint64) bool) {
	for L := shortestContextSize; L <= longestRead && L <= len(seq); L += ct.Stride {
		t := ct.tableFor(L)
		for offset := 0; offset+L <= len(seq); offset++ {
			if windowHasZeroDepth(seq, offset, L, ct.K, zeroDepth) {
				continue
			}
			fp, ok := HashContext(seq, offset, L, ct.K)
			if !ok {
				continue
			}
			t.freq[fp]++
		}
	}
}

func windowHasZeroDepth(seq []byte, offset, L, k int, zeroDepth func(uint64) bool) bool {
	if zeroDepth == nil {
		return false
	}
	for p := offset; p+k <= offset+L; p++ {
		code, ok := Pack(seq, p, k)
		if !ok {
			continue
		}
		if zeroDepth(Canonical(code, k)) {
			return true
		}
	}
	return false
}

// Frequency returns the frequency of fingerprint fp at length L (0 if
// absent).
func (ct *ContextTable) Frequency(L int, fp uint64) uint32 {
	t, ok := ct.byLen[L]
	if !ok {
		return 0
	}
	return t.freq[fp]
}

// Lengths returns every populated length, ascending (via the llrb
// registry).
func (ct *ContextTable) Lengths() []int {
	out := make([]int, 0, len(ct.byLen))
	ct.lens.Do(func(c llrb.Comparable) bool {
		out = append(out, c.(*lengthTable).L)
		return false
	})
	return out
}

// DropUnderpopulated removes the longest tables whose population is below
// 70% of the most populous table's population (spec §4.8, last line).
func (ct *ContextTable) DropUnderpopulated() {
	if len(ct.byLen) == 0 {
		return
	}
	maxPop := 0
	for _, t := range ct.byLen {
		if len(t.freq) > maxPop {
			maxPop = len(t.freq)
		}
	}
	threshold := int(0.7 * float64(maxPop))
	lens := ct.Lengths()
	for i := len(lens) - 1; i >= 0; i-- {
		L := lens[i]
		if len(ct.byLen[L].freq) < threshold {
			delete(ct.byLen, L)
		} else {
			break
		}
	}
	rebuilt := &llrb.Tree{}
	for L := range ct.byLen {
		rebuilt.Insert(ct.byLen[L])
	}
	ct.lens = rebuilt
}
