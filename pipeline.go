package kelpie

import (
	"fmt"

	"github.com/pkg/errors"
)

// RunResult is the engine's complete output for one amplicon assembly run
// (spec §2 data flow end-to-end).
type RunResult struct {
	Kept           []DereplicatedRecord
	Discards       []DereplicatedRecord
	ObservedPrimers map[string]int
	ReadsScanned   int
	StartingReads  int
	Extended       int
	ReachedTP      int
}

// maxRoundsFor implements the spec §4.5(c) termination cap: iteration
// count > max(min, ampliconBound/(readLen/2)). ampliconBound is the
// expected maximum amplicon length, not the read length -- the two must
// never be the same value, or the cap collapses to its floor regardless
// of how long the amplicon actually runs.
func maxRoundsFor(ampliconBound, readLen int) int {
	const min = 3
	if readLen <= 0 {
		return min
	}
	cap := ampliconBound / (readLen / 2)
	if cap < min {
		return min
	}
	return cap
}

// ampliconLengthBound picks the numerator spec §4.5(c) calls maxLen: the
// user's configured MaxExtendedLength when set, falling back to a
// generous multiple of the longest observed read so the round cap does
// not silently collapse to its floor when the flag is left unconfigured.
func ampliconLengthBound(p Params, longestRead int) int {
	if p.MaxExtendedLength > 0 {
		return p.MaxExtendedLength
	}
	return longestRead * 4
}

// buildTerminatingPrimerSet builds the full (head+core) strings of the
// reverse primer's RC variants -- the "extensionTerminatingPrimers" the
// Extender and Trimmer test against (spec §4.10 step 9, §4.11).
func buildTerminatingPrimerSet(rvs *PrimerVariants) map[string]struct{} {
	out := make(map[string]struct{}, len(rvs.HeadsRC)*len(rvs.CoresRC))
	for h := range rvs.HeadsRC {
		for c := range rvs.CoresRC {
			out[h+c] = struct{}{}
		}
	}
	return out
}

// Run executes the full assembly pipeline of spec §2 over pre-partitioned
// reads, returning the dereplicated kept/discard sets. partitions may come
// from in-memory chunking or from on-disk temp partitions (caller's
// concern, spec §5/§6).
func Run(p Params, fwdPrimer, rvsPrimer string, partitions [][]*Read, rng *RNG) (*RunResult, error) {
	fwdExp := NewPrimerExpander(p.MismatchesFP, p.MismatchesFP)
	rvsExp := NewPrimerExpander(p.MismatchesRP, p.MismatchesRP)

	fwdV, err := fwdExp.Expand(fwdPrimer)
	if err != nil {
		return nil, errors.Wrap(err, "kelpie: expanding forward primer")
	}
	rvsV, err := rvsExp.Expand(rvsPrimer)
	if err != nil {
		return nil, errors.Wrap(err, "kelpie: expanding reverse primer")
	}

	scanner := NewPrimerReadScanner(fwdV, rvsV)
	tagged := scanner.ScanPartitions(partitions, p.Threads)

	fwdLen := fwdV.HeadLen + fwdV.CoreLen
	rvsLen := rvsV.HeadLen + rvsV.CoreLen
	observed := make(map[string]int)

	maxLen := 0
	total := 0
	startingCount := 0
	for _, r := range tagged {
		if r.Dropped() {
			continue
		}
		total++
		if len(r.Seq) > maxLen {
			maxLen = len(r.Seq)
		}
		if r.Role == RoleFP || r.Role == RoleRP {
			startingCount++
		}
		if variant, ok := observedPrimerVariant(r, fwdLen, rvsLen); ok {
			observed[variant]++
		}
	}
	if startingCount == 0 {
		return nil, ErrNoStartingReads
	}

	irf := NewIterativeRegionFilter(p)
	irf.Initialise(tagged)

	var unscanned []*Read
	for _, part := range partitions {
		for _, r := range part {
			if r == nil || r.Seq == nil {
				continue
			}
			if len(r.Seq) > maxLen {
				maxLen = len(r.Seq)
			}
		}
	}
	// unscanned reads are every partitioned read that PrimerReadScanner did
	// not tag (tagged holds nils at those slots, so recover originals).
	flatIdx := 0
	for _, part := range partitions {
		for _, orig := range part {
			if orig == nil || orig.Seq == nil {
				flatIdx++
				continue
			}
			if flatIdx < len(tagged) && tagged[flatIdx] != nil {
				flatIdx++
				continue
			}
			unscanned = append(unscanned, orig)
			flatIdx++
		}
	}

	ampliconBound := ampliconLengthBound(p, maxLen)
	irf.Run(unscanned, ampliconBound, maxLen, maxRoundsFor(ampliconBound, maxLen))

	selector := &FinalReadSelector{K: p.K}
	candidateSet := append(append([]*Read{}, tagged...), unscanned...)
	selected := selector.Select(candidateSet, irf.RF)

	pairs := BuildReadPairIndex(selected, maxLen)

	counts := NewKmerCountTable(p.K)
	counts.Build(selected)

	denoiser := NewDenoiser(p)
	denoiser.Run(selected, counts, p.K)

	ctxTable := NewContextTable(p.K, p.ContextStride)
	ctxTable.Build(selected, p.ShortestContextSize, maxLen, func(code uint64) bool { return counts.Count(code) == 0 })
	ctxTable.DropUnderpopulated()

	fwdPrimerLen := fwdV.HeadLen + fwdV.CoreLen
	prep := NewStartingReadPrep(p, fwdPrimerLen, rng)
	starting := prep.Prepare(selected, counts)

	startsIdx := BuildStartsOfReads(selected, p.K)
	termPrimers := buildTerminatingPrimerSet(rvsV)

	ext := NewExtender(p, counts, ctxTable, startsIdx, selected, pairs, termPrimers, maxLen, rng)
	trimmer := NewTrimmer(p, fwdPrimerLen/2, rvsV)

	var results []TrimResult
	reachedTP := 0
	for i, r := range starting {
		res := ext.ExtendRead(1, r.Seq)
		if res.ReachedTP {
			reachedTP++
		}
		header := fmt.Sprintf("R%d", i+1)
		results = append(results, trimmer.Trim(res.Seq, header))
	}

	derep := &Dereplicator{}
	kept, discards := derep.Dereplicate(results)

	return &RunResult{
		Kept:            kept,
		Discards:        discards,
		ObservedPrimers: observed,
		ReadsScanned:    total,
		StartingReads:   len(starting),
		Extended:        len(results),
		ReachedTP:       reachedTP,
	}, nil
}

// observedPrimerVariant extracts the literal primer substring a tagged read
// was trimmed at, for the *_primers.txt debug trace (spec §6). FP/RP roles
// were trimmed to start at the primer; FPEnd/RPEnd roles were trimmed to
// end at it.
func observedPrimerVariant(r *Read, fwdLen, rvsLen int) (string, bool) {
	switch r.Role {
	case RoleFP:
		if len(r.Seq) < fwdLen {
			return "", false
		}
		return string(r.Seq[:fwdLen]), true
	case RoleRP:
		if len(r.Seq) < rvsLen {
			return "", false
		}
		return string(r.Seq[:rvsLen]), true
	case RoleFPEnd:
		if len(r.Seq) < fwdLen {
			return "", false
		}
		return string(r.Seq[len(r.Seq)-fwdLen:]), true
	case RoleRPEnd:
		if len(r.Seq) < rvsLen {
			return "", false
		}
		return string(r.Seq[len(r.Seq)-rvsLen:]), true
	default:
		return "", false
	}
}
