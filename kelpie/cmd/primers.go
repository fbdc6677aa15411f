package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kelpie-bio/kelpie"
)

// primersCmd dumps the expanded head/core variant sets for a primer pair,
// for inspecting PrimerExpander's output ahead of a full run.
var primersCmd = &cobra.Command{
	Use:   "primers",
	Short: "dump expanded primer variants for a forward/reverse primer pair",
	Run: func(cmd *cobra.Command, args []string) {
		fwdPrimer := getFlagString(cmd, "forward")
		rvsPrimer := getFlagString(cmd, "reverse")
		mismatches := getFlagNonNegativeInt(cmd, "mismatches")

		exp := kelpie.NewPrimerExpander(mismatches, mismatches)

		fwd, err := exp.Expand(fwdPrimer)
		checkError(err)
		rvs, err := exp.Expand(rvsPrimer)
		checkError(err)

		printVariants("forward", fwd)
		printVariants("reverse", rvs)
	},
}

func printVariants(label string, v *kelpie.PrimerVariants) {
	fmt.Printf("%s: %d head variant(s), %d core variant(s)\n", label, len(v.Heads), len(v.Cores))
	for h := range v.Heads {
		for c := range v.Cores {
			fmt.Println(h + c)
		}
	}
}

func init() {
	RootCmd.AddCommand(primersCmd)
	primersCmd.Flags().StringP("forward", "F", "", "forward (5') PCR primer")
	primersCmd.Flags().StringP("reverse", "R", "", "reverse (3') PCR primer")
	primersCmd.Flags().IntP("mismatches", "m", 1, "allowed mismatches (applied to both primers)")
}
