package kelpie

import "sync"

// PrimerHit records where a primer role was located within a read before
// trimming. ScanRead returns it; ScanPartitions discards it, so it does not
// reach `*_primers.txt` reporting or StartingReadPrep.
type PrimerHit struct {
	Role       PrimerRole
	CoreOffset int
	HeadStart  int
}

// coreSet maps a packed core k-mer code to nothing (membership only); all
// mismatch variants were already expanded into it by PrimerExpander, so a
// hit alone confirms the mismatch budget was respected (spec §4.4).
type coreSet map[uint64]struct{}

func buildCoreSet(cores map[string]struct{}) coreSet {
	s := make(coreSet, len(cores))
	for c := range cores {
		code, ok := Pack([]byte(c), 0, len(c))
		if ok {
			s[code] = struct{}{}
		}
	}
	return s
}

func headMatches(read []byte, start, length int, heads map[string]struct{}) bool {
	if start < 0 || start+length > len(read) {
		return false
	}
	_, ok := heads[string(read[start:start+length])]
	return ok
}

// PrimerReadScanner locates F/R/F'/R' occurrences in reads (spec §4.4).
type PrimerReadScanner struct {
	Fwd, Rvs           *PrimerVariants
	fCore, fCoreRC     coreSet
	rCore, rCoreRC     coreSet
}

// NewPrimerReadScanner precomputes the four packed core-variant sets used
// for the tiling membership test.
func NewPrimerReadScanner(fwd, rvs *PrimerVariants) *PrimerReadScanner {
	return &PrimerReadScanner{
		Fwd:     fwd,
		Rvs:     rvs,
		fCore:   buildCoreSet(fwd.Cores),
		fCoreRC: buildCoreSet(fwd.CoresRC),
		rCore:   buildCoreSet(rvs.Cores),
		rCoreRC: buildCoreSet(rvs.CoresRC),
	}
}

// minStart is the first offset worth tiling from: the shortest head among
// the two primers can't precede an earlier core occurrence (spec §4.4).
func (s *PrimerReadScanner) minStart() int {
	m := s.Fwd.HeadLen
	if s.Rvs.HeadLen < m {
		m = s.Rvs.HeadLen
	}
	return m
}

// ScanRead tiles read for the first primer-core hit (any of the four
// variant groups) and, on verification against the adjacent head, returns
// the role and the trimmed subslice of seq; seq itself is not modified.
// Returns PrimerRole(RoleNone) (no trim) when nothing is found.
func (s *PrimerReadScanner) ScanRead(seq []byte) (PrimerRole, []byte, PrimerHit) {
	start := s.minStart()
	fCoreLen, rCoreLen := s.Fwd.CoreLen, s.Rvs.CoreLen

	for offset := start; offset+maxInt(fCoreLen, rCoreLen) <= len(seq); offset++ {
		if offset+fCoreLen <= len(seq) {
			code, ok := Pack(seq, offset, fCoreLen)
			if ok {
				if _, hit := s.fCore[code]; hit {
					headStart := offset - s.Fwd.HeadLen
					if headMatches(seq, headStart, s.Fwd.HeadLen, s.Fwd.Heads) {
						trimmed := seq[headStart:]
						return RoleFP, trimmed, PrimerHit{RoleFP, offset, headStart}
					}
				}
				if _, hit := s.fCoreRC[code]; hit {
					headStart := offset - s.Fwd.HeadLen
					if headMatches(seq, headStart, s.Fwd.HeadLen, s.Fwd.HeadsRC) {
						end := offset + fCoreLen
						trimmed := seq[:end]
						return RoleFPEnd, trimmed, PrimerHit{RoleFPEnd, offset, headStart}
					}
				}
			}
		}
		if offset+rCoreLen <= len(seq) {
			code, ok := Pack(seq, offset, rCoreLen)
			if ok {
				if _, hit := s.rCore[code]; hit {
					headStart := offset - s.Rvs.HeadLen
					if headMatches(seq, headStart, s.Rvs.HeadLen, s.Rvs.Heads) {
						trimmed := seq[headStart:]
						return RoleRP, trimmed, PrimerHit{RoleRP, offset, headStart}
					}
				}
				if _, hit := s.rCoreRC[code]; hit {
					headStart := offset - s.Rvs.HeadLen
					if headMatches(seq, headStart, s.Rvs.HeadLen, s.Rvs.HeadsRC) {
						end := offset + rCoreLen
						trimmed := seq[:end]
						return RoleRPEnd, trimmed, PrimerHit{RoleRPEnd, offset, headStart}
					}
				}
			}
		}
	}
	return RoleNone, nil, PrimerHit{}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// PartitionOffset records where a partition's scanned reads landed in the
// merged result slice, so per-thread offsets can be adjusted under a
// single lock (spec §4.4, §5).
type PartitionOffset struct {
	FileOf int
	Offset int
	Count  int
}

// ScanPartitions runs ScanRead over each partition concurrently (one
// goroutine per partition, spec §5's "thread-parallel over partitions"),
// merging results into a single slice under one mutex with offset
// adjustment. Dropped slots (no primer match) remain nil.
func (s *PrimerReadScanner) ScanPartitions(partitions [][]*Read, threads int) []*Read {
	if threads < 1 {
		threads = 1
	}
	results := make([][]*Read, len(partitions))
	sem := make(chan struct{}, threads)
	var wg sync.WaitGroup
	for i, part := range partitions {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, part []*Read) {
			defer wg.Done()
			defer func() { <-sem }()
			out := make([]*Read, len(part))
			for j, r := range part {
				if r == nil || r.Seq == nil {
					continue
				}
				role, trimmed, _ := s.ScanRead(r.Seq)
				if role == RoleNone {
					continue
				}
				cp := r.Clone()
				cp.Seq = append([]byte(nil), trimmed...)
				cp.Role = role
				out[j] = cp
			}
			results[i] = out
		}(i, part)
	}
	wg.Wait()

	merged := make([]*Read, 0, totalLen(partitions))
	idx := 0
	for _, part := range results {
		for _, r := range part {
			if r != nil {
				r.Index = idx
			}
			merged = append(merged, r)
			idx++
		}
	}
	return merged
}

func totalLen(partitions [][]*Read) int {
	n := 0
	for _, p := range partitions {
		n += len(p)
	}
	return n
}
