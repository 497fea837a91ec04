package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/anciri/mail-processing-workflow/internal/config"
	"github.com/anciri/mail-processing-workflow/internal/core"
	"github.com/anciri/mail-processing-workflow/internal/di"
	"github.com/anciri/mail-processing-workflow/internal/enrich"
)

var (
	enrichInput  string
	enrichOutput string
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich a previously extracted table with the LLM analysis",
	RunE: func(cmd *cobra.Command, args []string) error {
		container, err := di.BuildContainer()
		if err != nil {
			return fmt.Errorf("build dependency container: %w", err)
		}

		return container.Invoke(func(
			cfg *config.Config,
			logger *zap.Logger,
			client core.CompletionClient,
			orchestrator *enrich.Orchestrator,
			tables core.TableStore,
		) error {
			defer logger.Sync()
			defer closeClient(client, logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cfg.GetOutput()
			input := enrichInput
			if input == "" {
				input = out.AcceptedPath()
			}
			output := enrichOutput
			if output == "" {
				output = out.ProcessedPath()
			}

			records, err := tables.LoadRecords(input)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				pterm.Warning.Printf("No records found in %s, nothing to enrich\n", input)
				return nil
			}

			pterm.Info.Printf("Enriching %d records\n", len(records))
			results := orchestrator.Enrich(ctx, records)

			if err := tables.SaveMerged(output, records, results); err != nil {
				return err
			}
			pterm.Success.Printf("Processed table: %s\n", output)
			return nil
		})
	},
}

func init() {
	enrichCmd.Flags().StringVar(&enrichInput, "input", "", "Accepted table to enrich (defaults to the configured output)")
	enrichCmd.Flags().StringVar(&enrichOutput, "output", "", "Where to write the processed table")
	rootCmd.AddCommand(enrichCmd)
}

func closeClient(client core.CompletionClient, logger *zap.Logger) {
	if closer, ok := client.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close LLM client", zap.Error(err))
		}
	}
}
