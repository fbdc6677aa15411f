package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print version information and exit",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("kelpie v%s\n%s\n", VERSION, runtime.Version())
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
