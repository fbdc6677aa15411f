package kelpie

// IterativeRegionFilter drives the round-based growth of a RegionFilter
// from primer-seeded reads until it meets reads growing from the opposite
// primer (spec §4.5).
//
// Seeding convention (Open Question-style decision, recorded in
// DESIGN.md): FP reads seed DirFwd directly; RP reads seed DirRvs
// directly. FP'/RP' reads are reverse-complemented (so they run
// left-to-right per spec's init step 1) and fed only into the *opposite*
// direction's EndingFilter — they are evidence of what a read looks like
// once it has reached the far primer, not additional region seed
// material.
type IterativeRegionFilter struct {
	Params Params
	RF     *RegionFilter
	EF     *EndingFilter
	Trap   *AdapterTrap

	expected     [2]int // per file-of-pair
	endingCount  [2]int
	addedHistory [2][]int
	prevMatch    [2]int
	stopped      [2]bool
	round        int
	readLen      int // observed read length, the §4.5(c) cap's denominator
}

// NewIterativeRegionFilter allocates the growth state for k and the
// configured context stride/size.
func NewIterativeRegionFilter(p Params) *IterativeRegionFilter {
	return &IterativeRegionFilter{
		Params: p,
		RF:     NewRegionFilter(p.K),
		EF:     NewEndingFilter(p.K),
	}
}

// seedRoleForRead reports (dir, isEndingRole) for a scanned, primer-tagged
// read.
func seedRoleForRead(role PrimerRole) (dir int, ending bool, ok bool) {
	switch role {
	case RoleFP:
		return DirFwd, false, true
	case RoleRP:
		return DirRvs, false, true
	case RoleFPEnd:
		return DirRvs, true, true // reversed FP' feeds the Rvs filter's ending signal
	case RoleRPEnd:
		return DirFwd, true, true // reversed RP' feeds the Fwd filter's ending signal
	default:
		return 0, false, false
	}
}

// Initialise runs spec §4.5's init steps 1-4 over every primer-tagged
// read produced by PrimerReadScanner.
func (it *IterativeRegionFilter) Initialise(tagged []*Read) {
	k := it.Params.K
	seedReads := make([]*Read, 0, len(tagged))
	endingByDir := [2][]*Read{}

	for _, r := range tagged {
		if r.Dropped() {
			continue
		}
		dir, ending, ok := seedRoleForRead(r.Role)
		if !ok {
			continue
		}
		seq := r.Seq
		if ending {
			seq = ReverseComplementSeq(r.Seq)
		}
		cp := r.Clone()
		cp.Seq = seq
		if ending {
			endingByDir[dir] = append(endingByDir[dir], cp)
		} else {
			seedReads = append(seedReads, cp)
			it.expected[cp.FileOf]++
		}
	}

	it.Trap = DetectAndTrimAdapters(seedReads, k)

	for _, r := range seedReads {
		dir, _, _ := seedRoleForRead(r.Role)
		if len(r.Seq) < it.Params.ShortestContextLength {
			continue
		}
		tileSeedRead(it.RF, dir, r.FileOf, r.Seq, k, it.Params.ShortestContextSize, it.Params.FilterContextStride)
	}

	for dir := 0; dir < 2; dir++ {
		for _, r := range endingByDir[dir] {
			if len(r.Seq) < k {
				continue
			}
			tileEndingRead(it.EF, dir, r.Seq, k)
			it.endingCount[dir]++
		}
	}

	it.RF.CloseRC()
}

// matchResult is one accepted read for a round, tagged with which
// direction it matched and whether it needed end-for-end reversal.
type matchResult struct {
	read     *Read
	dir      int
	reversed bool
	hitEnd   bool
}

// FindMatchingReads tests every unscanned read against the current
// RegionFilter (spec §4.5 main loop, first bullet).
func (it *IterativeRegionFilter) FindMatchingReads(reads []*Read) []matchResult {
	k := it.Params.K
	var out []matchResult
	for _, r := range reads {
		if r.Dropped() {
			continue
		}
		if len(r.Seq) < k {
			continue
		}
		m, ok := it.testRead(r, r.Seq, k)
		if !ok {
			// try the read's end as an RC starting k-mer
			rc := ReverseComplementSeq(r.Seq)
			m, ok = it.testRead(r, rc, k)
			if ok {
				m.reversed = true
			}
		}
		if !ok {
			continue
		}
		if it.Params.LowComplexityFilter && lowComplexitySecondHalf(m.read.Seq) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func (it *IterativeRegionFilter) testRead(r *Read, seq []byte, k int) (matchResult, bool) {
	leadCode, valid := Pack(seq, 0, k)
	if !valid {
		return matchResult{}, false
	}
	for _, dir := range [2]int{DirFwd, DirRvs} {
		if !it.RF.HasKmer(dir, Canonical(leadCode, k)) {
			continue
		}
		matched := len(it.RF.ContextLengths(dir)) == 0 // no contexts recorded yet: accept on k-mer alone
		for _, L := range it.RF.ContextLengths(dir) {
			if L > len(seq) {
				continue
			}
			fp, ok := HashContext(seq, 0, L, k)
			if ok && it.RF.HasContext(dir, L, leadCode, fp) {
				matched = true
				break
			}
		}
		if matched {
			mr := matchResult{dir: dir}
			cp := r.Clone()
			cp.Seq = seq
			mr.read = cp
			mr.hitEnd = it.hitsEnd(seq, dir, k)
			return mr, true
		}
	}
	return matchResult{}, false
}

// hitsEnd reports whether seq's k/2-stride XOR trail matches the
// EndingFilter in more than 3/4 of positions (spec §4.5's "hit the end").
func (it *IterativeRegionFilter) hitsEnd(seq []byte, dir, k int) bool {
	entries := GenerateFromRead(seq, k)
	half := k / 2
	total, hit := 0, 0
	for i, e := range entries {
		j := i + half
		if j >= len(entries) || !e.Valid || !entries[j].Valid {
			continue
		}
		total++
		if it.EF.Has(dir, e.Code^entries[j].Code) {
			hit++
		}
	}
	return total > 0 && float64(hit)/float64(total) > 0.75
}

// ExtendFilterSet reduces matched reads to a distinct set (prefix
// subsumption), tiles them into the RegionFilter (and the opposite
// direction's EndingFilter), and updates per-file growth bookkeeping
// (spec §4.5 main loop, second bullet).
func (it *IterativeRegionFilter) ExtendFilterSet(matches []matchResult) {
	byDir := [2][]*Read{}
	for _, m := range matches {
		byDir[m.dir] = append(byDir[m.dir], m.read)
	}

	added := [2]int{}
	for dir := 0; dir < 2; dir++ {
		distinct := subsumeByPrefix(byDir[dir])
		for _, r := range distinct {
			if len(r.Seq) < it.Params.ShortestContextSize {
				continue
			}
			before := it.RF.KmerCount(dir)
			tileSeedRead(it.RF, dir, r.FileOf, r.Seq, it.Params.K, it.Params.ShortestContextSize, it.Params.FilterContextStride)
			after := it.RF.KmerCount(dir)
			added[r.FileOf] += after - before

			opp := 1 - dir
			tileEndingRead(it.EF, opp, r.Seq, it.Params.K)
		}
	}
	it.addedHistory[0] = append(it.addedHistory[0], added[0])
	it.addedHistory[1] = append(it.addedHistory[1], added[1])
	it.prevMatch[0] = len(byDir[0])
	it.prevMatch[1] = len(byDir[1])
}

// subsumeByPrefix sorts reads by sequence and drops any read that is a
// strict prefix of the next (spec §4.5 "a read that is a prefix of the
// next is subsumed"). Assumes FileOf is uniform enough that ordering by
// Seq alone is meaningful for the subsumption check.
func subsumeByPrefix(reads []*Read) []*Read {
	if len(reads) == 0 {
		return nil
	}
	sorted := append([]*Read(nil), reads...)
	SortedReads(sorted).sortInPlace()

	out := make([]*Read, 0, len(sorted))
	for i := 0; i < len(sorted); i++ {
		if i+1 < len(sorted) && isPrefixOf(sorted[i].Seq, sorted[i+1].Seq) {
			continue
		}
		out = append(out, sorted[i])
	}
	return out
}

func isPrefixOf(a, b []byte) bool {
	if len(a) >= len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (s SortedReads) sortInPlace() {
	quicksortReads(s, 0, len(s)-1)
}

func quicksortReads(s SortedReads, lo, hi int) {
	for lo < hi {
		pivot := s[hi]
		i := lo
		for j := lo; j < hi; j++ {
			if s[j].less(pivot) {
				s[i], s[j] = s[j], s[i]
				i++
			}
		}
		s[i], s[hi] = s[hi], s[i]
		if i-lo < hi-i {
			quicksortReads(s, lo, i-1)
			lo = i + 1
		} else {
			quicksortReads(s, i+1, hi)
			hi = i - 1
		}
	}
}

func (r *Read) less(o *Read) bool { return string(r.Seq) < string(o.Seq) }

// converged reports whether file has met a termination condition (spec
// §4.5 "Termination heuristics"): (a) adding-rate <=1% of expected for 2
// rounds while at least one ending read was seeded at Initialise (the
// ending-read count is not compared against any saturation level), (b)
// runaway matches, or (c) round count exceeding the length-derived cap.
func (it *IterativeRegionFilter) converged(file, ampliconBound int) bool {
	hist := it.addedHistory[file]
	n := len(hist)
	if n >= 2 {
		expected := it.expected[file]
		if expected <= 0 {
			expected = 1
		}
		rate1 := float64(hist[n-1]) / float64(expected)
		rate2 := float64(hist[n-2]) / float64(expected)
		if rate1 <= 0.01 && rate2 <= 0.01 && it.endingCount[DirFwd]+it.endingCount[DirRvs] > 0 {
			return true
		}
	}
	if float64(it.prevMatch[file]) > runawayIterationFactor*float64(maxInt(it.expected[file], 1)) {
		return true
	}
	return it.round > maxRoundsFor(ampliconBound, it.readLen)
}

// Run executes the main loop (spec §4.5) over unscanned reads until both
// files converge or maxRounds is hit. ampliconBound is the expected
// maximum amplicon length (§4.5(c)'s maxLen) and readLen is the observed
// read length -- converged's own per-round cap recomputation needs both,
// same as maxRoundsFor in pipeline.go.
func (it *IterativeRegionFilter) Run(unscanned []*Read, ampliconBound, readLen, maxRounds int) {
	it.readLen = readLen
	for it.round = 1; it.round <= maxRounds; it.round++ {
		if it.stopped[0] && it.stopped[1] {
			break
		}
		var active []*Read
		for _, r := range unscanned {
			if r.Dropped() {
				continue
			}
			if it.stopped[r.FileOf] {
				continue
			}
			active = append(active, r)
		}
		if len(active) == 0 {
			break
		}
		matches := it.FindMatchingReads(active)
		if len(matches) == 0 {
			it.stopped[0], it.stopped[1] = true, true
			break
		}
		it.ExtendFilterSet(matches)
		for f := 0; f < 2; f++ {
			if !it.stopped[f] && it.converged(f, ampliconBound) {
				it.stopped[f] = true
			}
		}
	}
	if it.Params.Strict {
		it.RF.Strictify()
	}
	it.RF.CloseRC()
}
