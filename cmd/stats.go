package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reminora/photovec/internal/config"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show embedding coverage of the library",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().Bool("json", false, "Output as JSON")
}

func runStats(cmd *cobra.Command, args []string) error {
	jsonOutput := mustGetBool(cmd, "json")

	cfg := config.Load()

	eng, closer, err := newEngine(cfg)
	if err != nil {
		return err
	}
	defer closer()

	stats, err := eng.GetStats(context.Background())
	if err != nil {
		return fmt.Errorf("stats query failed: %w", err)
	}

	if jsonOutput {
		if err := json.NewEncoder(os.Stdout).Encode(stats); err != nil {
			return fmt.Errorf("encoding JSON output: %w", err)
		}
		return nil
	}

	fmt.Printf("Photos in library:  %d\n", stats.TotalPhotos)
	fmt.Printf("With embeddings:    %d\n", stats.EmbeddedPhotos)
	fmt.Printf("Coverage:           %d%%\n", stats.Percent)
	return nil
}
