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

var uploadCmd = &cobra.Command{
	Use:   "upload <text> <file>",
	Short: "Upload media and post a status update referencing it",
	Long: `Upload an image or other media file, then post a status update
that attaches it.

Examples:
  twitpost upload "look at this" ./picture.jpg`,
	Args: cobra.ExactArgs(2),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	text, path := args[0], args[1]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
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

	accepted, err := client.UploadMedia(ctx, text, path)
	if err != nil {
		return fmt.Errorf("upload media: %w", err)
	}

	if err := store.Record(ctx, history.Entry{
		Kind:       "upload",
		Text:       text,
		MediaID:    client.LastMediaID(),
		StatusCode: client.LastStatusCode(),
		Accepted:   accepted,
	}); err != nil {
		slog.Warn("failed to record post", "error", err)
	}

	if !accepted {
		return fmt.Errorf("platform rejected the upload or update (status %d)", client.LastStatusCode())
	}

	fmt.Println("uploaded and posted")
	return nil
}
