// Command descdump renders descriptor metadata as XML.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "descdump",
		Short:         "Render descriptor metadata",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("config", "", "config file (default ./descriptors.yaml if present)")
	rootCmd.AddCommand(newIndexesCmd())
	rootCmd.AddCommand(newKindsCmd())
	return rootCmd
}
