package kelpie

import "sync"

// ExtensionResult is a cached outcome of extending one prospective
// sequence to completion (spec §4.10 "Caching").
type ExtensionResult struct {
	Seq          []byte
	ReachedTP    bool
	LevelAtTP    int
	Abandoned    bool
	CoinTossed   bool
	HarmonicMean float64
	ArithMean    float64
}

// Extender walks a starting read one base at a time, consulting the
// canonical k-mer count table and the context tables, resolving forks by
// recursive look-ahead, read coverage and paired-read constraints (spec
// §4.10).
type Extender struct {
	Params       Params
	Counts       *KmerCountTable
	Contexts     *ContextTable
	StartsOfReads map[uint64][]int
	Reads        []*Read
	Pairs        []ReadPair
	TermPrimers  map[string]struct{} // full (rvsHead+core) terminating-primer strings
	LongestRead  int
	RNG          *RNG

	cacheMu sync.Mutex
	cache   map[string]*ExtensionResult
}

// NewExtender wires the tables built by earlier phases into an Extender.
func NewExtender(p Params, counts *KmerCountTable, contexts *ContextTable, starts map[uint64][]int, reads []*Read, pairs []ReadPair, termPrimers map[string]struct{}, longestRead int, rng *RNG) *Extender {
	return &Extender{
		Params: p, Counts: counts, Contexts: contexts, StartsOfReads: starts,
		Reads: reads, Pairs: pairs, TermPrimers: termPrimers, LongestRead: longestRead,
		RNG: rng, cache: make(map[string]*ExtensionResult),
	}
}

// extendCtx carries the running per-branch bookkeeping through recursion:
// accepted-depth means, the loop trap history and basesSinceLastFork
// (spec §4.10 steps 1,4,8).
type extendCtx struct {
	sumDepth       float64
	sumRecip       float64
	count          int
	lastAccepted   float64
	acceptedCodes  []uint64
	seenLoopXors   map[uint64]struct{}
	basesSinceFork int
}

func (c *extendCtx) means() (harmonic, arith float64) {
	if c.count == 0 {
		return 0, 0
	}
	arith = c.sumDepth / float64(c.count)
	if c.sumRecip > 0 {
		harmonic = float64(c.count) / c.sumRecip
	}
	return
}

func (c *extendCtx) accept(code uint64, depth float64) {
	c.sumDepth += depth
	if depth > 0 {
		c.sumRecip += 1 / depth
	}
	c.count++
	c.lastAccepted = depth
	c.acceptedCodes = append(c.acceptedCodes, code)
	c.basesSinceFork++
}

func (c *extendCtx) clone() *extendCtx {
	cp := *c
	cp.acceptedCodes = append([]uint64(nil), c.acceptedCodes...)
	return &cp
}

// minDepthForRead implements spec §4.10 step 2.
func (e *Extender) minDepthForRead(c *extendCtx) float64 {
	harmonic, _ := c.means()
	min := harmonic / 10
	last := c.lastAccepted / 10
	if last < min {
		min = last
	}
	if min < float64(e.Params.MinDepth) {
		min = float64(e.Params.MinDepth)
	}
	return min
}

// loopTrapped reports whether appending code would revisit a prior
// position (spec §4.10 step 4): the XOR of the current trailing k-mer
// with the k-mer loopTrapLength bases earlier must be novel.
func (e *Extender) loopTrapped(c *extendCtx, code uint64) bool {
	const loopTrapLength = 16
	if len(c.acceptedCodes) < loopTrapLength {
		return false
	}
	earlier := c.acceptedCodes[len(c.acceptedCodes)-loopTrapLength]
	xor := code ^ earlier
	if c.seenLoopXors == nil {
		c.seenLoopXors = make(map[uint64]struct{})
	}
	if _, seen := c.seenLoopXors[xor]; seen {
		return true
	}
	c.seenLoopXors[xor] = struct{}{}
	return false
}

// isTerminatingPrimer implements spec §4.10 step 9.
func (e *Extender) isTerminatingPrimer(seq []byte) bool {
	tpLen := 0
	for s := range e.TermPrimers {
		tpLen = len(s)
		break
	}
	if tpLen == 0 || len(seq) < tpLen {
		return false
	}
	_, ok := e.TermPrimers[string(seq[len(seq)-tpLen:])]
	return ok
}

// candidate is one extension of seq by a single base, with its trailing
// k-mer's canonical code and count; nextCandidates appends each of the 4
// bases to seq to build them (spec §4.10 step 3).
type candidate struct {
	seq   []byte
	code  uint64
	depth float64
}

func (e *Extender) nextCandidates(seq []byte) []candidate {
	k := e.Params.K
	out := make([]candidate, 0, 4)
	for _, b := range acgt {
		cand := make([]byte, len(seq)+1)
		copy(cand, seq)
		cand[len(seq)] = b
		if len(cand) < k {
			out = append(out, candidate{seq: cand})
			continue
		}
		code, ok := Pack(cand, len(cand)-k, k)
		if !ok {
			continue
		}
		canon := Canonical(code, k)
		out = append(out, candidate{seq: cand, code: canon, depth: float64(e.Counts.Count(canon))})
	}
	return out
}

// viableByContext first keeps the candidates whose k-mer depth is at least
// minDepthForRead. When zero or one candidate passes that, it is returned
// as is, with no context check. Otherwise it keeps those whose
// shortest-fitting context has count >= minDepthForRead/2 (a candidate
// with no fitting context or no hashable window is kept); if none pass
// the context check, all depth-viable candidates are returned. There is
// no separate >=1 context rule for a lone candidate.
func (e *Extender) viableByContext(cands []candidate, minDepthForRead float64) []candidate {
	var viable []candidate
	for _, c := range cands {
		if c.depth < minDepthForRead {
			continue
		}
		viable = append(viable, c)
	}
	if len(viable) <= 1 {
		return viable
	}
	threshold := minDepthForRead / 2
	var ctxViable []candidate
	for _, c := range viable {
		L := e.shortestFittingContext(len(c.seq))
		if L == 0 {
			ctxViable = append(ctxViable, c)
			continue
		}
		fp, ok := HashContext(c.seq, len(c.seq)-L, L, e.Params.K)
		if !ok {
			ctxViable = append(ctxViable, c)
			continue
		}
		if float64(e.Contexts.Frequency(L, fp)) >= threshold {
			ctxViable = append(ctxViable, c)
		}
	}
	if len(ctxViable) == 1 {
		return ctxViable
	}
	if len(ctxViable) == 0 {
		return viable
	}
	return ctxViable
}

func (e *Extender) shortestFittingContext(seqLen int) int {
	best := 0
	for _, L := range e.Contexts.Lengths() {
		if L <= seqLen && (best == 0 || L < best) {
			best = L
		}
	}
	return best
}

// ExtendRead is the recursive base-at-a-time extension entry point (spec
// §4.10). level starts at 1.
func (e *Extender) ExtendRead(level int, seq []byte) *ExtensionResult {
	return e.extend(level, seq, &extendCtx{})
}

func (e *Extender) extend(level int, seq []byte, c *extendCtx) *ExtensionResult {
	if cached := e.lookupCache(seq); cached != nil {
		return cached
	}

	if e.Params.MaxExtendedLength > 0 && len(seq) >= e.Params.MaxExtendedLength {
		harm, arith := c.means()
		return e.finish(seq, &ExtensionResult{Seq: seq, Abandoned: true, HarmonicMean: harm, ArithMean: arith}, false)
	}

	cands := e.nextCandidates(seq)
	minDepthForRead := e.minDepthForRead(c)
	viable := e.viableByContext(cands, minDepthForRead)

	if len(viable) == 0 {
		harm, arith := c.means()
		return e.finish(seq, &ExtensionResult{Seq: seq, Abandoned: true, HarmonicMean: harm, ArithMean: arith}, false)
	}

	if len(viable) == 1 {
		chosen := viable[0]
		if e.loopTrapped(c, chosen.code) {
			harm, arith := c.means()
			return e.finish(seq, &ExtensionResult{Seq: seq, Abandoned: true, HarmonicMean: harm, ArithMean: arith}, false)
		}
		next := c.clone()
		next.accept(chosen.code, chosen.depth)
		if e.isTerminatingPrimer(chosen.seq) {
			harm, arith := next.means()
			return e.finish(seq, &ExtensionResult{Seq: chosen.seq, ReachedTP: true, LevelAtTP: level, HarmonicMean: harm, ArithMean: arith}, false)
		}
		return e.extend(level+1, chosen.seq, next)
	}

	// spec §4.10 step 5: resolve via decreasing context length.
	if chosen, ok := e.resolveByContext(viable, len(seq)); ok {
		next := c.clone()
		next.basesSinceFork = 0
		next.accept(chosen.code, chosen.depth)
		if e.isTerminatingPrimer(chosen.seq) {
			harm, arith := next.means()
			return e.finish(seq, &ExtensionResult{Seq: chosen.seq, ReachedTP: true, LevelAtTP: level, HarmonicMean: harm, ArithMean: arith}, false)
		}
		return e.extend(level+1, chosen.seq, next)
	}

	// step 6: read coverage.
	if chosen, ok := e.resolveByCoverage(viable); ok {
		next := c.clone()
		next.basesSinceFork = 0
		next.accept(chosen.code, chosen.depth)
		return e.extend(level+1, chosen.seq, next)
	}

	// step 7: paired-read backward check.
	if len(seq) > e.LongestRead && len(e.Pairs) > 0 {
		if chosen, ok := e.resolveByPairCoverage(viable, seq); ok {
			next := c.clone()
			next.basesSinceFork = 0
			next.accept(chosen.code, chosen.depth)
			return e.extend(level+1, chosen.seq, next)
		}
	}

	// step 8: recurse on every surviving variant.
	maxRecursion := e.Params.MaxRecursion
	if e.LongestRead > 0 {
		maxRecursion += c.basesSinceFork / e.LongestRead
	}
	if level >= maxRecursion {
		harm, arith := c.means()
		return e.finish(seq, &ExtensionResult{Seq: seq, Abandoned: true, HarmonicMean: harm, ArithMean: arith}, false)
	}

	results := make([]*ExtensionResult, len(viable))
	for i, cand := range viable {
		next := c.clone()
		next.basesSinceFork = 0
		next.accept(cand.code, cand.depth)
		results[i] = e.extend(level+1, cand.seq, next)
	}

	return e.finish(seq, e.pickBest(viable, results, level), false)
}

// resolveByContext implements spec §4.10 step 5: longest context length
// down to shortest, narrowing on the variant(s) whose trailing window
// matches a known context. A single surviving variant with count>1 is
// accepted when the next-shorter length's peek corroborates it
// (peek>=count), or when there is no shorter length to peek at; otherwise
// the search keeps narrowing.
func (e *Extender) resolveByContext(viable []candidate, seqLen int) (candidate, bool) {
	lens := e.Contexts.Lengths()
	for i := len(lens) - 1; i >= 0; i-- {
		L := lens[i]
		if L > seqLen+1 {
			continue
		}
		type scored struct {
			c     candidate
			count uint32
		}
		var active []scored
		for _, cand := range viable {
			if L > len(cand.seq) {
				continue
			}
			fp, ok := HashContext(cand.seq, len(cand.seq)-L, L, e.Params.K)
			if !ok {
				continue
			}
			n := e.Contexts.Frequency(L, fp)
			if n > 0 {
				active = append(active, scored{cand, n})
			}
		}
		if len(active) >= 2 {
			return candidate{}, false
		}
		if len(active) == 1 && active[0].count > 1 {
			peek, ok := e.peekShorterContextCount(active[0].c, lens, i)
			if !ok || peek >= active[0].count {
				return active[0].c, true
			}
		}
	}
	return candidate{}, false
}

// peekShorterContextCount looks up cand's context frequency at the next
// shorter length in lens (lens[i-1]), the corroborating peek resolveByContext
// needs before accepting a lone surviving variant. ok is false when there is
// no shorter length left to peek at.
func (e *Extender) peekShorterContextCount(cand candidate, lens []int, i int) (count uint32, ok bool) {
	if i-1 < 0 {
		return 0, false
	}
	L := lens[i-1]
	if L > len(cand.seq) {
		return 0, false
	}
	fp, valid := HashContext(cand.seq, len(cand.seq)-L, L, e.Params.K)
	if !valid {
		return 0, false
	}
	return e.Contexts.Frequency(L, fp), true
}

// resolveByCoverage implements spec §4.10 step 6.
func (e *Extender) resolveByCoverage(viable []candidate) (candidate, bool) {
	type scored struct {
		c       candidate
		covered int
	}
	var scoredCands []scored
	for _, cand := range viable {
		scoredCands = append(scoredCands, scored{cand, e.coverageOf(cand.seq)})
	}
	best := -1
	bestIdx := -1
	tie := false
	for i, s := range scoredCands {
		if s.covered > best {
			best, bestIdx, tie = s.covered, i, false
		} else if s.covered == best {
			tie = true
		}
	}
	if bestIdx >= 0 && !tie && best >= len(scoredCands[bestIdx].c.seq) {
		return scoredCands[bestIdx].c, true
	}
	return candidate{}, false
}

// coverageOf counts how much of seq is covered by a single read of length
// <= longestRead fully, or collectively by halves with >=2 matches.
func (e *Extender) coverageOf(seq []byte) int {
	k := e.Params.K
	if len(seq) < k {
		return 0
	}
	code, ok := Pack(seq, 0, k)
	if !ok {
		return 0
	}
	canon := Canonical(code, k)
	idxs := e.StartsOfReads[canon]
	best := 0
	halfMatches := 0
	for _, idx := range idxs {
		r := e.Reads[idx]
		if r.Dropped() {
			continue
		}
		if len(r.Seq) <= e.LongestRead && len(r.Seq) >= len(seq) && hasPrefix(r.Seq, seq) {
			return len(seq)
		}
		if len(r.Seq) >= len(seq)/2 && hasPrefix(r.Seq, seq[:minInt(len(r.Seq), len(seq))]) {
			halfMatches++
		}
	}
	if halfMatches >= 2 {
		best = len(seq)
	}
	return best
}

func hasPrefix(s, prefix []byte) bool {
	if len(prefix) > len(s) {
		return false
	}
	for i := range prefix {
		if s[i] != prefix[i] {
			return false
		}
	}
	return true
}

// resolveByPairCoverage implements spec §4.10 step 7.
func (e *Extender) resolveByPairCoverage(viable []candidate, seq []byte) (candidate, bool) {
	k := e.Params.K
	best := -1
	bestIdx := -1
	tie := false
	for i, cand := range viable {
		if len(cand.seq) < k {
			continue
		}
		trailCode, ok := Pack(cand.seq, len(cand.seq)-k, k)
		if !ok {
			continue
		}
		rc := ReverseComplement(trailCode, k)
		canon := Canonical(rc, k)
		covered := 0
		for _, idx := range e.StartsOfReads[canon] {
			if idx >= len(e.Reads) {
				continue
			}
			r := e.Reads[idx]
			if r.Dropped() {
				continue
			}
			pre := ReverseComplementSeq(r.Seq)
			if hasPrefix(cand.seq, pre) {
				if len(pre) > covered {
					covered = len(pre)
				}
			}
		}
		if covered > best {
			best, bestIdx, tie = covered, i, false
		} else if covered == best {
			tie = true
		}
	}
	if bestIdx >= 0 && !tie && best == len(seq)+1 {
		return viable[bestIdx], true
	}
	return candidate{}, false
}

// pickBest implements spec §4.10 step 8's result-ranking: a single TP hit
// wins outright; multiple TP hits are settled by a coin toss weighted by
// each candidate's k-mer depth, with no ranking by paired-read coverage
// first; no TP hit picks the longest.
func (e *Extender) pickBest(viable []candidate, results []*ExtensionResult, level int) *ExtensionResult {
	var tpIdxs []int
	for i, r := range results {
		if r != nil && r.ReachedTP {
			tpIdxs = append(tpIdxs, i)
		}
	}
	switch len(tpIdxs) {
	case 0:
		longest := results[0]
		for _, r := range results[1:] {
			if r != nil && len(r.Seq) > len(longest.Seq) {
				longest = r
			}
		}
		return longest
	case 1:
		return results[tpIdxs[0]]
	}

	weights := make([]float64, len(tpIdxs))
	for i, idx := range tpIdxs {
		weights[i] = viable[idx].depth
	}
	chosen := e.RNG.WeightedChoice(weights)
	res := results[tpIdxs[chosen]]
	res.CoinTossed = true
	return res
}

// lookupCache and finish implement the write-once process-wide cache
// (spec §4.10 "Caching", §9 "second writer with the same key must lose").
func (e *Extender) lookupCache(seq []byte) *ExtensionResult {
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()
	return e.cache[string(seq)]
}

func (e *Extender) finish(key []byte, result *ExtensionResult, alreadyLocked bool) *ExtensionResult {
	if result.CoinTossed {
		return result
	}
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()
	if existing, ok := e.cache[string(key)]; ok {
		return existing
	}
	e.cache[string(key)] = result
	return result
}
