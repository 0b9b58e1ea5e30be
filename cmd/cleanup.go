package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reminora/photovec/internal/config"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove embeddings for photos no longer in the library",
	Long: `Remove stored embeddings whose photos were deleted or moved out of
the library. Run this after reorganizing the library to keep search
results free of dead references.`,
	RunE: runCleanup,
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
}

func runCleanup(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	eng, closer, err := newEngine(cfg)
	if err != nil {
		return err
	}
	defer closer()

	fmt.Println("Scanning for orphaned embeddings...")
	removed, err := eng.CleanupOrphaned(context.Background())
	if err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}

	if removed == 0 {
		fmt.Println("No orphaned embeddings found")
		return nil
	}
	fmt.Printf("Removed %d orphaned embeddings\n", removed)
	return nil
}
