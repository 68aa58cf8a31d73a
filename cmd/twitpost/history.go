package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdulachik/twitpost/internal/config"
	"github.com/abdulachik/twitpost/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent post attempts",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of entries to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, err := history.NewStore(ctx, cfg.HistoryPath)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	entries, err := store.Recent(ctx, historyLimit)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("no posts recorded")
		return nil
	}

	for _, e := range entries {
		outcome := "rejected"
		if e.Accepted {
			outcome = "accepted"
		}
		line := fmt.Sprintf("%s  %-6s  %-8s  %d  %s",
			e.CreatedAt.Format("2006-01-02 15:04:05"), e.Kind, outcome, e.StatusCode, e.Text)
		if e.MediaID != "" {
			line += fmt.Sprintf("  (media %s)", e.MediaID)
		}
		fmt.Println(line)
	}
	return nil
}
