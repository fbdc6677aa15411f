package kelpie

import "sort"

// TrimResult is one extended-and-trimmed sequence, ready for
// dereplication (spec §4.11).
type TrimResult struct {
	Seq      []byte
	TPFound  bool
	Header   string
	FwdPrimer string
	Kept     bool
}

// Trimmer strips the half-primer stub left by StartingReadPrep and the
// terminating primer (if present) from each extended sequence, then
// classifies it as kept or discarded (spec §4.11).
type Trimmer struct {
	Params      Params
	StubLen     int
	TermHeads   map[string]struct{}
	TermCores   map[string]struct{}
	HeadLen     int
	CoreLen     int
}

// NewTrimmer builds a Trimmer from the reverse primer's terminating
// variants (PrimerVariants.HeadsRC/CoresRC -- the RC(R) the Extender
// targets, spec §4.10 step 9 / Glossary "Terminating primer").
func NewTrimmer(p Params, stubLen int, rvs *PrimerVariants) *Trimmer {
	return &Trimmer{
		Params: p, StubLen: stubLen,
		TermHeads: rvs.HeadsRC, TermCores: rvs.CoresRC,
		HeadLen: rvs.HeadLen, CoreLen: rvs.CoreLen,
	}
}

// Trim strips the leading stub, then tests and strips a trailing
// terminating primer, returning the processed result and a keep/drop
// verdict (spec §4.11).
func (t *Trimmer) Trim(seq []byte, header string) TrimResult {
	if t.StubLen > 0 && t.StubLen < len(seq) {
		seq = seq[t.StubLen:]
	}

	tpLen := t.HeadLen + t.CoreLen
	tpFound := false
	if len(seq) >= tpLen {
		tail := seq[len(seq)-tpLen:]
		head, core := tail[:t.HeadLen], tail[t.HeadLen:]
		_, headOK := t.TermHeads[string(head)]
		_, coreOK := t.TermCores[string(core)]
		if headOK && coreOK {
			tpFound = true
			seq = seq[:len(seq)-tpLen]
		}
	}

	if !tpFound && t.Params.MaxExtendedLength > 0 && len(seq) > t.Params.MaxExtendedLength {
		seq = seq[:t.Params.MaxExtendedLength]
	}

	keep := tpFound
	if !keep && t.Params.MinExtendedLength > 0 && len(seq) >= t.Params.MinExtendedLength {
		keep = true
	}

	return TrimResult{Seq: seq, TPFound: tpFound, Header: header, Kept: keep}
}

// Dereplicator groups identical sequences, annotating survivors with
// `;size=<count>` (spec §4.11, §6 output format).
type Dereplicator struct{}

// DereplicatedRecord is one output record after dereplication.
type DereplicatedRecord struct {
	Seq     string
	Size    int
	Headers []string
}

// Dereplicate groups results by exact sequence identity, returning
// kept-cluster records and discard-cluster records separately (spec
// §4.11 "dereplicate; discards are dereplicated and written
// separately").
func (d *Dereplicator) Dereplicate(results []TrimResult) (kept, discards []DereplicatedRecord) {
	keptClusters := make(map[string]*DereplicatedRecord)
	discardClusters := make(map[string]*DereplicatedRecord)

	for _, r := range results {
		target := discardClusters
		if r.Kept {
			target = keptClusters
		}
		key := string(r.Seq)
		rec, ok := target[key]
		if !ok {
			rec = &DereplicatedRecord{Seq: key}
			target[key] = rec
		}
		rec.Size++
		rec.Headers = append(rec.Headers, r.Header)
	}

	kept = flattenClusters(keptClusters)
	discards = flattenClusters(discardClusters)
	return kept, discards
}

func flattenClusters(m map[string]*DereplicatedRecord) []DereplicatedRecord {
	out := make([]DereplicatedRecord, 0, len(m))
	for _, rec := range m {
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Size > out[j].Size })
	return out
}
