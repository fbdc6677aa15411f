package kelpie

// Params collects the core-relevant tunables of spec §6. Every field has
// the spec's literal default; callers (kelpie/cmd) override from flags
// after validating bounds.
type Params struct {
	K int // k-mer size, default 32

	ShortestContextSize   int // 40
	ShortestContextLength int // 44
	ContextStride         int // 4
	FilterContextStride   int // 1

	MaxRecursion     int // 10
	ShortestCoreLength int // 15
	DegenerateHCL    int // 2
	ErrorRate        int // 100
	PairedReadKML    int // 100

	ReadsPerPartition int // 5,000,000
	ReadsInBatch      int // 1,000

	MinDepth      int // 2
	MismatchesFP  int // 1
	MismatchesRP  int // 1

	MinExtendedLength int // 0 = unconfigured
	MaxExtendedLength int // 0 = unconfigured

	Threads int

	// Strict restricts the final region filter to k-mers seen in both
	// files of a pair (spec §4.5 "Strict mode").
	Strict bool

	// LowComplexityFilter enables the second-half 3-mer dominance test in
	// FindMatchingReads (spec §4.5); callers may disable it.
	LowComplexityFilter bool

	// KeepTemp / TempDir control retention of the on-disk partition files
	// (spec §6 "-kept"/"-tmp").
	KeepTemp bool
	TempDir  string
}

// DefaultParams returns the spec §6 defaults.
func DefaultParams() Params {
	return Params{
		K:                     32,
		ShortestContextSize:   40,
		ShortestContextLength: 44,
		ContextStride:         4,
		FilterContextStride:   1,
		MaxRecursion:          10,
		ShortestCoreLength:    15,
		DegenerateHCL:         2,
		ErrorRate:             100,
		PairedReadKML:         100,
		ReadsPerPartition:     5_000_000,
		ReadsInBatch:          1_000,
		MinDepth:              2,
		MismatchesFP:          1,
		MismatchesRP:          1,
		Threads:               1,
		LowComplexityFilter:   true,
	}
}

// runawayIterationFactor and runawayRevisionFactor are the §4.5/§9 runaway
// heuristics' literal constants (Open Question resolution #2, SPEC_FULL §5).
const (
	runawayIterationFactor = 2.0
	runawayRevisionFactor  = 5.0
)

// reciprocityCullFactor is the kMersDeemedOK reciprocity check's cull
// constant (Open Question resolution #3); the check's noise floor is
// Params.ErrorRate.
const (
	reciprocityCullFactor = 5
)

// trivialPairCoreFraction is the "2/3 of longest read" trivial-pair
// containment threshold (Open Question resolution #4).
const trivialPairCoreFraction = 2.0 / 3.0
