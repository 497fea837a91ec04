package main

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/anciri/mail-processing-workflow/internal/adapters/mbox"
	"github.com/anciri/mail-processing-workflow/internal/core"
	"github.com/anciri/mail-processing-workflow/internal/dates"
	"github.com/anciri/mail-processing-workflow/internal/logging"
	"github.com/anciri/mail-processing-workflow/internal/qualify"
	"github.com/anciri/mail-processing-workflow/internal/textutil"
)

var statsTopN int

var statsCmd = &cobra.Command{
	Use:   "stats [mbox file]",
	Short: "Inspect an mbox file and preview how its messages would qualify",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := logging.InitConsoleLogger(false, false)
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		defer logger.Sync()

		source, err := mbox.OpenFile(args[0], logger)
		if err != nil {
			return err
		}

		filter := qualify.NewFilter(logger)

		total := 0
		unreadable := 0
		accepted := 0
		senders := make(map[string]int)
		reasons := make(map[string]int)
		var oldest, newest string

		err = source.Each(cmd.Context(), func(msg core.RawMessage) error {
			total++

			subject, subjErr := msg.Subject()
			body, bodyErr := msg.Body()
			if subjErr != nil && bodyErr != nil {
				unreadable++
				return nil
			}

			if addr, err := msg.SenderAddress(); err == nil {
				senders[textutil.ExtractAddress(addr)]++
			}

			if t, ok := dates.ForFiltering(msg); ok {
				day := t.Format("2006-01-02")
				if oldest == "" || day < oldest {
					oldest = day
				}
				if day > newest {
					newest = day
				}
			}

			if qualifies, reason := filter.Qualify(subject, body); qualifies {
				accepted++
			} else {
				reasons[reason]++
			}
			return nil
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("read mbox: %w", err)
		}

		pterm.DefaultSection.Println("Mbox Statistics")
		pterm.Info.Printf("Messages:   %d\n", total)
		pterm.Info.Printf("Unreadable: %d\n", unreadable)
		if oldest != "" {
			pterm.Info.Printf("Date range: %s to %s\n", oldest, newest)
		}

		pterm.DefaultSection.Println("Qualification Preview")
		pterm.Info.Printf("Would qualify: %d of %d\n", accepted, total)
		for _, line := range topCounts(reasons, statsTopN) {
			pterm.Info.Println("  " + line)
		}

		pterm.DefaultSection.Printf("Top %d Senders\n", statsTopN)
		for _, line := range topCounts(senders, statsTopN) {
			pterm.Info.Println("  " + line)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().IntVarP(&statsTopN, "top", "t", 10, "Number of top entries to display")
	rootCmd.AddCommand(statsCmd)
}

func topCounts(counts map[string]int, n int) []string {
	type pair struct {
		key   string
		count int
	}
	pairs := make([]pair, 0, len(counts))
	for k, v := range counts {
		pairs = append(pairs, pair{k, v})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].key < pairs[j].key
	})

	if n > len(pairs) {
		n = len(pairs)
	}
	lines := make([]string, 0, n)
	for _, p := range pairs[:n] {
		lines = append(lines, fmt.Sprintf("%s: %d", p.key, p.count))
	}
	return lines
}
