// Copyright © 2018-2020 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/kelpie-bio/kelpie"
	"github.com/kelpie-bio/kelpie/internal/cli"
	"github.com/kelpie-bio/kelpie/internal/partition"
	"github.com/kelpie-bio/kelpie/internal/reads"
)

// RootCmd assembles full-length amplicons from short reads given a pair of
// PCR primers. Unlike unikmer's dispatch-to-subcommand design, kelpie runs
// its one real job directly from the root command; version and primers are
// secondary, inspection-only subcommands.
var RootCmd = &cobra.Command{
	Use:   "kelpie",
	Short: "Targeted amplicon assembler",
	Long: fmt.Sprintf(`kelpie - targeted amplicon assembler

Given a forward and reverse PCR primer (degenerate IUPAC codes allowed,
<=32bp) and one or more short-read FASTA/FASTQ files, kelpie reconstructs
full-length inter-primer amplicon sequences by growing a region filter
from primer-tagged reads and then context-guided extension.

Version: %s

`, VERSION),
	Run: runKelpie,
}

// Execute adds all child commands and runs the root command. Called once
// from main.main.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	defaultThreads := runtime.NumCPU()
	if defaultThreads > 2 {
		defaultThreads = 2
	}

	RootCmd.Flags().StringP("forward", "F", "", "forward (5') PCR primer, IUPAC degenerate codes allowed")
	RootCmd.Flags().StringP("reverse", "R", "", "reverse (3') PCR primer, IUPAC degenerate codes allowed")
	RootCmd.Flags().StringP("primer-file", "p", "", "read the forward/reverse primer pair from a 2-line file instead of -F/-R")
	RootCmd.Flags().StringSliceP("reads", "i", nil, "read files or glob patterns (FASTA/FASTQ, gzip allowed)")
	RootCmd.Flags().StringP("out-prefix", "o", "kelpie_out", `output file prefix`)
	RootCmd.Flags().IntP("kmer-len", "k", 32, "k-mer size (<=32)")
	RootCmd.Flags().IntP("threads", "j", defaultThreads, "number of CPUs to use")
	RootCmd.Flags().IntP("mismatches-fwd", "", 1, "allowed mismatches in the forward primer")
	RootCmd.Flags().IntP("mismatches-rvs", "", 1, "allowed mismatches in the reverse primer")
	RootCmd.Flags().IntP("min-depth", "", 2, "minimum accepted k-mer depth")
	RootCmd.Flags().IntP("min-length", "", 0, "minimum extended amplicon length (0 = unset)")
	RootCmd.Flags().IntP("max-length", "", 0, "maximum extended amplicon length (0 = unset)")
	RootCmd.Flags().IntP("qualtrim", "", 30, "sliding-window quality trim target (FASTQ only)")
	RootCmd.Flags().BoolP("paired", "", false, "force paired-read mode (default: inferred by file count parity)")
	RootCmd.Flags().BoolP("unpaired", "", false, "force unpaired-read mode")
	RootCmd.Flags().BoolP("strict", "", false, "restrict region filters to k-mers seen in both files of a pair")
	RootCmd.Flags().BoolP("kept", "", false, "retain on-disk read partitions instead of deleting them")
	RootCmd.Flags().StringP("tmp-dir", "", "", "directory for on-disk read partitions (default: system temp dir)")
	RootCmd.Flags().BoolP("verbose", "v", false, "print progress information")
	RootCmd.Flags().BoolP("write-primers", "", false, "also write a *_primers.txt debug trace of observed primer variants")
}

func runKelpie(cmd *cobra.Command, args []string) {
	start := time.Now()
	verbose := getFlagBool(cmd, "verbose")

	fwdPrimer := getFlagString(cmd, "forward")
	rvsPrimer := getFlagString(cmd, "reverse")
	if primerFile := getFlagString(cmd, "primer-file"); primerFile != "" {
		var err error
		fwdPrimer, rvsPrimer, err = cli.ReadPrimerPair(primerFile)
		checkError(err)
	}

	patterns := getFlagStringSlice(cmd, "reads")
	patterns = append(patterns, args...)
	files, err := reads.ExpandGlobs(patterns)
	checkError(err)

	k := getFlagPositiveInt(cmd, "kmer-len")
	minLen := getFlagNonNegativeInt(cmd, "min-length")
	maxLen := getFlagNonNegativeInt(cmd, "max-length")
	qualTarget := getFlagInt(cmd, "qualtrim")
	threads := getFlagPositiveInt(cmd, "threads")
	keptTemp := getFlagBool(cmd, "kept")
	tempDir := getFlagString(cmd, "tmp-dir")

	paired := getFlagBool(cmd, "paired")
	unpaired := getFlagBool(cmd, "unpaired")
	if paired && unpaired {
		checkError(fmt.Errorf("--paired and --unpaired are mutually exclusive"))
	}
	pairedMode := paired || (!unpaired && len(files)%2 == 0 && len(files) > 1)

	cfg, err := cli.Build(fwdPrimer, rvsPrimer, files, k, threads, &pairedMode, qualTarget, minLen, maxLen, keptTemp, tempDir)
	checkError(err)

	sources := make([]reads.Source, len(cfg.ReadFiles))
	for i, f := range cfg.ReadFiles {
		fileOf := 0
		if pairedMode {
			fileOf = i % 2
		}
		sources[i] = reads.Source{Path: f, FileOf: fileOf}
	}

	if verbose {
		log.Infof("loading %d read file(s)", len(cfg.ReadFiles))
	}
	allReads, err := reads.Load(sources, pairedMode)
	checkError(err)
	if verbose {
		log.Infof("%s reads loaded", humanize.Comma(int64(len(allReads))))
	}

	allReads = reads.QualityTrimAll(allReads, cfg.QualTrim, 4)

	p := kelpie.DefaultParams()
	p.K = cfg.K
	p.Threads = cfg.Threads
	p.MismatchesFP = getFlagNonNegativeInt(cmd, "mismatches-fwd")
	p.MismatchesRP = getFlagNonNegativeInt(cmd, "mismatches-rvs")
	p.MinDepth = getFlagPositiveInt(cmd, "min-depth")
	p.MinExtendedLength = cfg.MinLength
	p.MaxExtendedLength = cfg.MaxLength
	p.Strict = getFlagBool(cmd, "strict")
	p.KeepTemp = cfg.KeptTemp
	p.TempDir = cfg.TempDir
	if p.TempDir == "" {
		p.TempDir = os.TempDir()
	}

	partitions := partition.Split(allReads, p.ReadsPerPartition)

	outPrefix := getFlagString(cmd, "out-prefix")
	tempPaths, manifest, err := partition.WriteTempPartitions(partitions, p.TempDir, filepath.Base(outPrefix))
	checkError(err)
	if p.KeepTemp {
		checkError(partition.WriteManifest(outPrefix+"_kept_metadata.txt", manifest))
	}
	defer partition.CleanupUnlessKept(tempPaths, p.KeepTemp)

	rng := kelpie.NewRNG(time.Now().UnixNano())

	if verbose {
		log.Infof("assembling amplicons (k=%d, %d partition(s))", p.K, len(partitions))
	}
	result, err := kelpie.Run(p, cfg.ForwardPrimer, cfg.ReversePrimer, partitions, rng)
	checkError(err)

	checkError(reads.WriteFasta(outPrefix+".fa", result.Kept))
	checkError(reads.WriteFasta(outPrefix+"_discards.fa", result.Discards))

	if getFlagBool(cmd, "write-primers") {
		checkError(reads.WritePrimerReport(outPrefix+"_primers.txt", result.ObservedPrimers))
	}

	log.Infof("%d amplicon(s) kept, %d discarded, %d/%d starting reads reached the terminating primer (%s)",
		len(result.Kept), len(result.Discards), result.ReachedTP, result.StartingReads, time.Since(start))
}
