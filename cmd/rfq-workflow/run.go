package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/anciri/mail-processing-workflow/internal/adapters/mbox"
	"github.com/anciri/mail-processing-workflow/internal/config"
	"github.com/anciri/mail-processing-workflow/internal/core"
	"github.com/anciri/mail-processing-workflow/internal/di"
	"github.com/anciri/mail-processing-workflow/internal/enrich"
	"github.com/anciri/mail-processing-workflow/internal/traverse"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Extract and enrich in one pass",
	RunE: func(cmd *cobra.Command, args []string) error {
		start, end, err := parseDateWindow(extractFromDate, extractToDate)
		if err != nil {
			return err
		}

		container, err := di.BuildContainer()
		if err != nil {
			return fmt.Errorf("build dependency container: %w", err)
		}

		return container.Invoke(func(
			cfg *config.Config,
			logger *zap.Logger,
			store *mbox.Store,
			engine *traverse.Engine,
			client core.CompletionClient,
			orchestrator *enrich.Orchestrator,
			tables core.TableStore,
		) error {
			defer logger.Sync()
			defer closeClient(client, logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			source, err := openSource(cfg, store, logger)
			if err != nil {
				return err
			}

			result, err := runExtraction(ctx, engine, source, start, end)
			if err != nil {
				return err
			}

			fmt.Println(result.Stats.String())
			if err := saveTables(cfg, tables, result); err != nil {
				return err
			}

			if len(result.Accepted) == 0 {
				pterm.Warning.Println("No accepted records, skipping enrichment")
				return nil
			}

			pterm.Info.Printf("Enriching %d records\n", len(result.Accepted))
			results := orchestrator.Enrich(ctx, result.Accepted)

			out := cfg.GetOutput()
			if err := tables.SaveMerged(out.ProcessedPath(), result.Accepted, results); err != nil {
				return err
			}
			pterm.Success.Printf("Processed table: %s\n", out.ProcessedPath())
			return nil
		})
	},
}

func init() {
	runCmd.Flags().StringVar(&extractFromDate, "from", "", "Start of the date window (inclusive, e.g. 2024-01-31)")
	runCmd.Flags().StringVar(&extractToDate, "to", "", "End of the date window (inclusive)")
	runCmd.Flags().StringVar(&extractMboxFile, "mbox", "", "Process a single mbox file instead of the configured folder")
	runCmd.Flags().StringVar(&extractFolder, "folder", "", "Folder name, overriding the configured one")
	rootCmd.AddCommand(runCmd)
}
