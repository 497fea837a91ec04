package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/anciri/mail-processing-workflow/internal/adapters/mbox"
	"github.com/anciri/mail-processing-workflow/internal/config"
	"github.com/anciri/mail-processing-workflow/internal/core"
	"github.com/anciri/mail-processing-workflow/internal/dates"
	"github.com/anciri/mail-processing-workflow/internal/di"
	"github.com/anciri/mail-processing-workflow/internal/traverse"
)

var (
	extractFromDate string
	extractToDate   string
	extractMboxFile string
	extractFolder   string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Walk the mail folder and save the accepted, excluded and error tables",
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
			tables core.TableStore,
		) error {
			defer logger.Sync()

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
			return saveTables(cfg, tables, result)
		})
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractFromDate, "from", "", "Start of the date window (inclusive, e.g. 2024-01-31)")
	extractCmd.Flags().StringVar(&extractToDate, "to", "", "End of the date window (inclusive)")
	extractCmd.Flags().StringVar(&extractMboxFile, "mbox", "", "Process a single mbox file instead of the configured folder")
	extractCmd.Flags().StringVar(&extractFolder, "folder", "", "Folder name, overriding the configured one")
	rootCmd.AddCommand(extractCmd)
}

// parseDateWindow parses the two optional window bounds. An
// inverted window is rejected before any mail is touched.
func parseDateWindow(fromValue, toValue string) (start, end time.Time, err error) {
	if fromValue != "" {
		start, err = dates.Parse(fromValue)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from date %q: %w", fromValue, err)
		}
	}
	if toValue != "" {
		end, err = dates.Parse(toValue)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to date %q: %w", toValue, err)
		}
		// Make the end bound cover its whole day.
		end = end.Add(24*time.Hour - time.Second)
	}
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("--from %s is after --to %s", fromValue, toValue)
	}
	return start, end, nil
}

func openSource(cfg *config.Config, store *mbox.Store, logger *zap.Logger) (core.MessageSource, error) {
	if extractMboxFile != "" {
		return mbox.OpenFile(extractMboxFile, logger)
	}

	if err := store.Connect(); err != nil {
		return nil, err
	}
	ext := cfg.GetExtraction()
	folder := ext.Folder
	if extractFolder != "" {
		folder = extractFolder
	}
	return store.ResolveFolder(ext.Account, ext.Inbox, folder, ext.Subfolder)
}

func runExtraction(ctx context.Context, engine *traverse.Engine, source core.MessageSource, start, end time.Time) (*traverse.Result, error) {
	spinner, _ := pterm.DefaultSpinner.Start("Processing messages")
	engine.SetProgress(func(total, accepted, excluded int) {
		spinner.UpdateText(fmt.Sprintf("Processed %d messages (accepted %d, excluded %d)", total, accepted, excluded))
	})

	result, err := engine.Traverse(ctx, source, start, end)
	if err != nil {
		spinner.Fail("Traversal failed")
		return nil, err
	}
	spinner.Success(fmt.Sprintf("Processed %d messages", result.Stats.TotalItems))
	return result, nil
}

func saveTables(cfg *config.Config, tables core.TableStore, result *traverse.Result) error {
	out := cfg.GetOutput()

	if err := tables.SaveRecords(out.AcceptedPath(), result.Accepted); err != nil {
		return fmt.Errorf("save accepted table: %w", err)
	}
	if err := tables.SaveExcluded(out.ExcludedPath(), result.Excluded); err != nil {
		return fmt.Errorf("save excluded table: %w", err)
	}
	if err := tables.SaveErrors(out.ErrorsPath(), result.Errors); err != nil {
		return fmt.Errorf("save errors table: %w", err)
	}

	pterm.Info.Printf("Accepted table: %s\n", out.AcceptedPath())
	pterm.Info.Printf("Excluded table: %s\n", out.ExcludedPath())
	pterm.Info.Printf("Errors table:   %s\n", out.ErrorsPath())
	return nil
}
