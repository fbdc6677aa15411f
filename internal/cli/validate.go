// Package cli validates user-supplied arguments before any core phase
// runs, producing spec §7's "Input invalid" error kind up front rather
// than failing deep inside the pipeline.
package cli

import (
	"fmt"

	"github.com/shenwei356/util/pathutil"
)

// Config is the full set of validated, ready-to-run arguments.
type Config struct {
	ForwardPrimer string
	ReversePrimer string
	ReadFiles     []string
	K             int
	Threads       int
	Paired        *bool // nil = auto-detect by count parity
	QualTrim      int
	MinLength     int
	MaxLength     int
	KeptTemp      bool
	TempDir       string
}

// ValidatePrimers checks the two primer strings share a length bound and
// fit the 32-base packing limit (spec §7 "Input invalid").
func ValidatePrimers(fwd, rvs string) error {
	if len(fwd) == 0 || len(rvs) == 0 {
		return fmt.Errorf("kelpie: forward and reverse primers are required")
	}
	if len(fwd) > 32 {
		return fmt.Errorf("kelpie: forward primer longer than 32 bases")
	}
	if len(rvs) > 32 {
		return fmt.Errorf("kelpie: reverse primer longer than 32 bases")
	}
	return nil
}

// ValidateFiles checks every literal (non-glob) path exists, mirroring the
// teacher's checkFiles (unikmer/cmd/util.go), generalized to drop the
// suffix requirement (Kelpie accepts both FASTA and FASTQ).
func ValidateFiles(files []string) error {
	if len(files) == 0 {
		return fmt.Errorf("kelpie: no read files given")
	}
	for _, f := range files {
		ok, err := pathutil.Exists(f)
		if err != nil {
			return fmt.Errorf("kelpie: checking file %s: %w", f, err)
		}
		if !ok {
			return fmt.Errorf("kelpie: file does not exist: %s", f)
		}
	}
	return nil
}

// ValidateBounds checks the configured min/max extended lengths and k are
// internally consistent (spec §7).
func ValidateBounds(k, minLen, maxLen int) error {
	if k <= 0 || k > 32 {
		return fmt.Errorf("kelpie: k must be in (0,32], got %d", k)
	}
	if minLen > 0 && maxLen > 0 && minLen > maxLen {
		return fmt.Errorf("kelpie: minimum extended length (%d) exceeds maximum (%d)", minLen, maxLen)
	}
	return nil
}

// Build runs every pre-flight check in one call and, on success, returns
// the validated argument bundle a run is actually launched from. Centralizing
// this keeps runKelpie from silently skipping a check that Validate* added
// later.
func Build(fwdPrimer, rvsPrimer string, files []string, k, threads int, paired *bool, qualTrim, minLen, maxLen int, keptTemp bool, tempDir string) (*Config, error) {
	if err := ValidatePrimers(fwdPrimer, rvsPrimer); err != nil {
		return nil, err
	}
	if err := ValidateFiles(files); err != nil {
		return nil, err
	}
	if err := ValidateBounds(k, minLen, maxLen); err != nil {
		return nil, err
	}
	return &Config{
		ForwardPrimer: fwdPrimer,
		ReversePrimer: rvsPrimer,
		ReadFiles:     files,
		K:             k,
		Threads:       threads,
		Paired:        paired,
		QualTrim:      qualTrim,
		MinLength:     minLen,
		MaxLength:     maxLen,
		KeptTemp:      keptTemp,
		TempDir:       tempDir,
	}, nil
}
