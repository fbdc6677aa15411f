package kelpie

import "strings"

// DegenerateBases maps each IUPAC ambiguity code (upper and lower case) to
// the set of unambiguous bases it stands for. Adapted from the teacher's
// degenerateBaseMapNucl (unikmer/cmd/util.go), which served the same
// expand-degenerate-code role for the teacher's own pattern matching.
var DegenerateBases = map[byte]string{
	'A': "A", 'C': "C", 'G': "G", 'T': "T", 'U': "T",
	'R': "AG", 'Y': "CT", 'S': "CG", 'W': "AT", 'K': "GT", 'M': "AC",
	'B': "CGT", 'D': "AGT", 'H': "ACT", 'V': "ACG",
	'N': "ACGT", 'I': "ACGT",
}

func init() {
	for b, set := range DegenerateBases {
		if b >= 'A' && b <= 'Z' {
			DegenerateBases[b-'A'+'a'] = strings.ToLower(set)
		}
	}
}

var complementBase = map[byte]byte{
	'A': 'T', 'C': 'G', 'G': 'C', 'T': 'A', 'U': 'A',
	'R': 'Y', 'Y': 'R', 'S': 'S', 'W': 'W', 'K': 'M', 'M': 'K',
	'B': 'V', 'D': 'H', 'H': 'D', 'V': 'B', 'N': 'N', 'I': 'N',
	'a': 't', 'c': 'g', 'g': 'c', 't': 'a', 'u': 'a',
	'r': 'y', 'y': 'r', 's': 's', 'w': 'w', 'k': 'm', 'm': 'k',
	'b': 'v', 'd': 'h', 'h': 'd', 'v': 'b', 'n': 'n', 'i': 'n',
}

// IsACGT reports whether base is an unambiguous A/C/G/T (either case).
func IsACGT(base byte) bool {
	switch base {
	case 'A', 'C', 'G', 'T', 'a', 'c', 'g', 't':
		return true
	}
	return false
}

// ACGTFraction returns the fraction of bases in seq that are unambiguous.
// Used by PrimerExpander to decide whether a primer is "heavily degenerate"
// (spec §3: <80% ACGT fixes the last 2 core bases).
func ACGTFraction(seq []byte) float64 {
	if len(seq) == 0 {
		return 0
	}
	n := 0
	for _, b := range seq {
		if IsACGT(b) {
			n++
		}
	}
	return float64(n) / float64(len(seq))
}

// ExpandDegenerateSeq enumerates every unambiguous sequence a degenerate
// sequence can stand for. Adapted directly from the teacher's
// extendDegenerateSeq (unikmer/cmd/util.go): same left-to-right
// incremental-branching construction, generalized to uppercase+lowercase
// and reused as the base of PrimerExpander (§4.1).
func ExpandDegenerateSeq(s []byte) ([][]byte, error) {
	seqs := [][]byte{{}}
	for _, base := range s {
		bases, ok := DegenerateBases[base]
		if !ok {
			return nil, ErrIllegalBase
		}
		if len(bases) == 1 {
			b := bases[0]
			for i := range seqs {
				seqs[i] = append(seqs[i], b)
			}
			continue
		}
		more := make([][]byte, len(seqs)*(len(bases)-1))
		k := 0
		for i := 1; i < len(bases); i++ {
			for j := range seqs {
				cp := make([]byte, len(seqs[j]), len(seqs[j])+1)
				copy(cp, seqs[j])
				more[k] = append(cp, bases[i])
				k++
			}
		}
		for i := range seqs {
			seqs[i] = append(seqs[i], bases[0])
		}
		seqs = append(seqs, more...)
	}
	return seqs, nil
}

// ReverseComplementSeq returns the reverse complement of a base string,
// preserving IUPAC ambiguity codes and case. Unrecognized bytes pass
// through unchanged (callers validate with IsACGT/DegenerateBases first).
func ReverseComplementSeq(seq []byte) []byte {
	out := make([]byte, len(seq))
	n := len(seq)
	for i, b := range seq {
		c, ok := complementBase[b]
		if !ok {
			c = b
		}
		out[n-1-i] = c
	}
	return out
}

// PrimerRole tags how (if at all) a read matched one of the two primers.
type PrimerRole int

const (
	// RoleNone means no primer was found in the read.
	RoleNone PrimerRole = iota
	// RoleFP means the forward primer was found at the read's start.
	RoleFP
	// RoleRP means the reverse primer was found at the read's start.
	RoleRP
	// RoleFPEnd means the forward primer's RC was found at the read's end (FP').
	RoleFPEnd
	// RoleRPEnd means the reverse primer's RC was found at the read's end (RP').
	RoleRPEnd
)

func (r PrimerRole) String() string {
	switch r {
	case RoleFP:
		return "FP"
	case RoleRP:
		return "RP"
	case RoleFPEnd:
		return "FP'"
	case RoleRPEnd:
		return "RP'"
	default:
		return "none"
	}
}

// Read is a single sequencing read, trimmed and tagged as it flows through
// PrimerReadScanner, IterativeRegionFilter, FinalReadSelector and Extender.
// A nil Seq marks a dropped slot; the stable Index is reused as the key
// into every per-read lookup table in later phases (spec §9 "Nullable read
// slots").
type Read struct {
	Index   int
	Header  string
	Seq     []byte
	Qual    []byte
	Role    PrimerRole
	FileOf  int // 0 or 1: which file of a read pair this came from
	PairIdx int // index of the paired Read, or -1 if unpaired/unknown
}

// Dropped reports whether this read slot has been discarded.
func (r *Read) Dropped() bool {
	return r == nil || r.Seq == nil
}

// Clone returns a shallow copy with independently mutable Seq/Qual slices.
func (r *Read) Clone() *Read {
	cp := *r
	cp.Seq = append([]byte(nil), r.Seq...)
	if r.Qual != nil {
		cp.Qual = append([]byte(nil), r.Qual...)
	}
	return &cp
}
