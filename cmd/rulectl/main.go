// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

// Command rulectl mines association rules from a transaction file without a
// running server and issues API tokens.
//
//	rulectl mine --input baskets.json --min-support 0.01 --min-confidence 0.3
//	rulectl token --subject ops --role admin
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "rulectl",
		Short:         "Association rule mining tools",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rulectl %s (%s)\n", version, commit)
		},
	})
	rootCmd.AddCommand(newMineCmd())
	rootCmd.AddCommand(newTokenCmd())

	return rootCmd
}
