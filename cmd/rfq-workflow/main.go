package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rfq-workflow",
	Short: "Extract and enrich request-for-quotation emails from a local mail store",
	Long: `rfq-workflow walks a folder of a local mbox mail store, keeps the
messages that look like requests for quotation, and enriches the kept
records with an LLM analysis of the requested products and equipment.

The extract and enrich stages can run together (run) or separately
(extract, then enrich on the saved table).`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
