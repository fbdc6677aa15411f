package kelpie

import "math"

// ReadStats summarizes one read's k-mer depth profile, computed before
// denoising decides which k-mers to cull (spec §3, §4.7).
type ReadStats struct {
	AvgDepth         float64
	HarmonicMeanDepth float64
	MinDepthAllowed  float64
	MinDepthFound    float64
	InitialGoodDepth float64
}

// Denoiser culls k-mers that look like sequencing errors from a
// KmerCountTable, using per-read scans (spec §4.7).
type Denoiser struct {
	ErrorRate int
	MinDepth  int
}

// NewDenoiser builds a Denoiser from Params.
func NewDenoiser(p Params) *Denoiser {
	return &Denoiser{ErrorRate: p.ErrorRate, MinDepth: p.MinDepth}
}

// ComputeReadStats implements spec §4.7's "initial avg" and
// "median-depth k-mer" steps for one read, excluding the primer-heavy
// first or last 5% of k-mers when the read carries a starting/ending
// primer tag.
func (d *Denoiser) ComputeReadStats(seq []byte, role PrimerRole, table *KmerCountTable, k int) ReadStats {
	entries := GenerateFromRead(seq, k)
	if len(entries) == 0 {
		return ReadStats{}
	}
	trimStart, trimEnd := 0, len(entries)
	if role == RoleFP || role == RoleRP {
		trimStart = len(entries) / 20
	}
	if role == RoleFPEnd || role == RoleRPEnd {
		trimEnd = len(entries) - len(entries)/20
	}
	if trimStart >= trimEnd {
		trimStart, trimEnd = 0, len(entries)
	}

	sum, harmSum, n := 0.0, 0.0, 0
	minFound := math.Inf(1)
	for i := trimStart; i < trimEnd; i++ {
		e := entries[i]
		if !e.Valid {
			continue
		}
		c := float64(table.Count(Canonical(e.Code, k)))
		if int(c) < d.MinDepth {
			continue
		}
		sum += c
		if c > 0 {
			harmSum += 1 / c
		}
		if c < minFound {
			minFound = c
		}
		n++
	}
	if n == 0 {
		return ReadStats{MinDepthAllowed: float64(d.MinDepth)}
	}
	avg := sum / float64(n)
	harm := float64(n) / harmSum
	if harmSum == 0 {
		harm = 0
	}
	if math.IsInf(minFound, 1) {
		minFound = 0
	}
	return ReadStats{
		AvgDepth:          avg,
		HarmonicMeanDepth: harm,
		MinDepthAllowed:   float64(d.MinDepth),
		MinDepthFound:     minFound,
		InitialGoodDepth:  avg,
	}
}

// minDepthForRead implements the "median-depth k-mer" + noise-variant
// floor computation (spec §4.7).
func (d *Denoiser) minDepthForRead(entries []KmerEntry, trimStart, trimEnd int, table *KmerCountTable, k int, initialAvg float64) float64 {
	noiseFloor := initialAvg / float64(d.ErrorRate)
	bestIdx := -1
	bestDist := math.Inf(1)
	for i := trimStart; i < trimEnd; i++ {
		e := entries[i]
		if !e.Valid {
			continue
		}
		c := float64(table.Count(Canonical(e.Code, k)))
		if c <= noiseFloor {
			continue
		}
		dist := math.Abs(math.Log10(c+1) - math.Log10(initialAvg+1))
		if dist < bestDist {
			bestDist = dist
			bestIdx = i
		}
	}
	minDepth := float64(d.MinDepth)
	if bestIdx < 0 {
		return minDepth
	}
	mcode := Canonical(entries[bestIdx].Code, k)
	maxVar := 0.0
	for _, v := range Variants(mcode, k, false) {
		if c := float64(table.Count(v)); c > maxVar {
			maxVar = c
		}
	}
	if floor := maxVar / float64(d.ErrorRate); floor > minDepth {
		minDepth = floor
	}
	return minDepth
}

// DenoiseRead scans one read left to right, culling k-mers that look like
// errors (spec §4.7). Culls are recorded in cullCount/redeemCount for the
// global reciprocity pass; the table itself is mutated (culled entries set
// to 0, never deleted).
func (d *Denoiser) DenoiseRead(r *Read, table *KmerCountTable, k int, oneSided map[uint64]struct{}, cullCount, redeemCount map[uint64]int) {
	entries := GenerateFromRead(r.Seq, k)
	if len(entries) == 0 {
		return
	}
	trimStart, trimEnd := 0, len(entries)
	if r.Role == RoleFP || r.Role == RoleRP {
		trimStart = len(entries) / 20
	}
	if r.Role == RoleFPEnd || r.Role == RoleRPEnd {
		trimEnd = len(entries) - len(entries)/20
	}
	if trimStart >= trimEnd {
		trimStart, trimEnd = 0, len(entries)
	}
	stats := d.ComputeReadStats(r.Seq, r.Role, table, k)
	if stats.InitialGoodDepth == 0 {
		return
	}
	minDepthForRead := d.minDepthForRead(entries, trimStart, trimEnd, table, k, stats.InitialGoodDepth)

	prevGood := stats.InitialGoodDepth
	lastCullPos := -1 - k
	for i := 0; i < len(entries); i++ {
		e := entries[i]
		if !e.Valid {
			continue
		}
		canon := Canonical(e.Code, k)
		depth := float64(table.Count(canon))
		_, isOneSided := oneSided[canon]

		if depth >= prevGood && !isOneSided {
			prevGood = depth
			redeemCount[canon]++
			continue
		}

		variants := Variants(canon, k, false)
		sumVar, deepestVar := 0.0, 0.0
		for _, v := range variants {
			c := float64(table.Count(v))
			sumVar += c
			if c > deepestVar {
				deepestVar = c
			}
		}

		cull := isOneSided
		if depth <= prevGood/float64(d.ErrorRate) {
			cull = true
		}
		if sumVar > 0 && depth <= sumVar/float64(d.ErrorRate) {
			cull = true
		}
		if !cull && i-lastCullPos <= k {
			// inside a candidate crater: cull unless redeemed by being
			// close to the deepest alternative or having enough
			// status-quo-matching followers downstream (spec §4.7).
			closeToDeepest := deepestVar > 0 && depth >= deepestVar*0.5
			followers := statusQuoFollowerCount(entries, i, table, k, minDepthForRead)
			if !closeToDeepest && followers < 2 {
				cull = true
			}
		}

		if cull {
			cullCount[canon]++
			table.Set(canon, 0)
			lastCullPos = i
		} else {
			redeemCount[canon]++
			if i-lastCullPos > k/4 {
				prevGood = depth
			}
		}
	}
}

// statusQuoFollowerCount counts downstream k-mers matching at depth >=
// minDepthForRead within <=2 consecutive misses and <=3 total misses
// (spec §4.7).
func statusQuoFollowerCount(entries []KmerEntry, i int, table *KmerCountTable, k int, minDepthForRead float64) int {
	misses, consecMiss, count := 0, 0, 0
	for j := i + 1; j < len(entries) && misses <= 3 && consecMiss <= 2; j++ {
		e := entries[j]
		if !e.Valid {
			consecMiss++
			misses++
			continue
		}
		c := float64(table.Count(Canonical(e.Code, k)))
		if c >= minDepthForRead {
			count++
			consecMiss = 0
		} else {
			consecMiss++
			misses++
		}
	}
	return count
}

// Run denoises every read, then applies the global reciprocity removal:
// a k-mer is removed (set to 0) iff cullCount > 5*redeemedCount and
// redeemedCount is itself close to noise (spec §4.7, Open Question
// resolution #3).
func (d *Denoiser) Run(reads []*Read, table *KmerCountTable, k int) {
	oneSided := table.KmersWithZeroRC()
	cullCount := make(map[uint64]int)
	redeemCount := make(map[uint64]int)
	for _, r := range reads {
		if r.Dropped() {
			continue
		}
		d.DenoiseRead(r, table, k, oneSided, cullCount, redeemCount)
	}
	// iterate in a fixed order so a rerun over the same reads culls the
	// same codes in the same sequence, easing debugging of the reciprocity
	// pass's effect on any one k-mer.
	codes := make([]uint64, 0, len(cullCount))
	for code := range cullCount {
		codes = append(codes, code)
	}
	SortCodes(codes)
	for _, code := range codes {
		cc := cullCount[code]
		rc := redeemCount[code]
		if cc > reciprocityCullFactor*rc && rc <= d.ErrorRate {
			table.Set(code, 0)
		}
	}
}
