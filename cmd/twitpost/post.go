package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abdulachik/twitpost/internal/config"
	"github.com/abdulachik/twitpost/internal/history"
	"github.com/abdulachik/twitpost/internal/twitter"
)

var (
	postMediaID string
	postDryRun  bool
)

var postCmd = &cobra.Command{
	Use:   "post <text>",
	Short: "Post a status update",
	Long: `Post a text status update, optionally referencing an already
uploaded media attachment.

Examples:
  twitpost post "hello world"
  twitpost post --media-id 710511363345354753 "with attachment"
  twitpost post --dry-run "show what would be sent"`,
	Args: cobra.ExactArgs(1),
	RunE: runPost,
}

func init() {
	postCmd.Flags().StringVar(&postMediaID, "media-id", "", "Attach a previously uploaded media id")
	postCmd.Flags().BoolVar(&postDryRun, "dry-run", false, "Show what would be posted without actually posting")
	rootCmd.AddCommand(postCmd)
}

func runPost(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	text := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if postDryRun {
		fmt.Printf("would post: %q", text)
		if postMediaID != "" {
			fmt.Printf(" with media id %s", postMediaID)
		}
		fmt.Println()
		return nil
	}

	creds, err := cfg.Credentials()
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}

	client, err := twitter.NewClient(twitter.Config{
		Credentials: creds,
		Timeout:     cfg.HTTPTimeout,
	})
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	store, err := history.NewStore(ctx, cfg.HistoryPath)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	accepted, err := client.PostUpdate(ctx, text, postMediaID)
	if err != nil {
		return fmt.Errorf("post update: %w", err)
	}

	if err := store.Record(ctx, history.Entry{
		Kind:       "update",
		Text:       text,
		MediaID:    postMediaID,
		StatusCode: client.LastStatusCode(),
		Accepted:   accepted,
	}); err != nil {
		slog.Warn("failed to record post", "error", err)
	}

	if !accepted {
		return fmt.Errorf("platform rejected the update (status %d)", client.LastStatusCode())
	}

	fmt.Println("posted")
	return nil
}
