package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/reminora/photovec/internal/config"
)

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Compute embeddings for all photos in the library",
	Long: `Compute and store image embeddings for every photo in the library.
Photos that already have an up-to-date embedding are skipped, so the
sweep can be stopped with Ctrl+C and resumed later.

Examples:
  # Sweep the whole library
  photovec embed`,
	RunE: runEmbed,
}

func init() {
	rootCmd.AddCommand(embedCmd)
}

func runEmbed(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	eng, closer, err := newEngine(cfg)
	if err != nil {
		return err
	}
	defer closer()

	// Ctrl+C stops the sweep between photos and keeps the partial result.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var bar *progressbar.ProgressBar
	result, err := eng.ComputeAllEmbeddings(ctx, func(processed, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription("Computing embeddings"),
				progressbar.OptionShowCount(),
				progressbar.OptionShowIts(),
				progressbar.OptionSetItsString("photos"),
				progressbar.OptionShowElapsedTimeOnFinish(),
				progressbar.OptionSetPredictTime(true),
				progressbar.OptionFullWidth(),
			)
		}
		_ = bar.Set(processed)
	})
	if err != nil {
		return fmt.Errorf("embedding sweep failed: %w", err)
	}
	fmt.Println()

	if ctx.Err() != nil {
		fmt.Printf("Interrupted after %d/%d photos, run again to resume\n", result.Processed(), result.Total)
	}
	fmt.Printf("\nCompleted: %d computed, %d skipped, %d failed (of %d photos)\n",
		result.Computed, result.Skipped, result.Failed, result.Total)

	return nil
}
