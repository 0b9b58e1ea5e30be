package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reminora/photovec/internal/config"
	"github.com/reminora/photovec/internal/similarity"
)

var duplicatesCmd = &cobra.Command{
	Use:   "duplicates",
	Short: "Group near-identical photos",
	Long: `Group near-identical photos in the library using cosine similarity
on image embeddings. Each group has a representative photo and the
photos that match it.

Run 'photovec embed' first so all photos have embeddings.

Examples:
  # List duplicate groups
  photovec duplicates

  # Use a looser threshold
  photovec duplicates --threshold 0.9

  # Include photos without duplicates as single-photo groups
  photovec duplicates --all

  # Output as JSON
  photovec duplicates --json`,
	RunE: runDuplicates,
}

func init() {
	rootCmd.AddCommand(duplicatesCmd)

	duplicatesCmd.Flags().Float32("threshold", 0, "Minimum similarity score for grouping (defaults to configured threshold)")
	duplicatesCmd.Flags().Bool("all", false, "Include photos without duplicates")
	duplicatesCmd.Flags().Bool("json", false, "Output as JSON")
}

// DuplicatesOutput is the JSON output structure for duplicate detection.
type DuplicatesOutput struct {
	Threshold float32                     `json:"threshold"`
	Groups    []similarity.DuplicateGroup `json:"groups"`
	Count     int                         `json:"count"`
}

func runDuplicates(cmd *cobra.Command, args []string) error {
	showAll := mustGetBool(cmd, "all")
	jsonOutput := mustGetBool(cmd, "json")

	cfg := config.Load()

	eng, closer, err := newEngine(cfg)
	if err != nil {
		return err
	}
	defer closer()

	threshold := eng.DuplicateThreshold()
	if cmd.Flags().Changed("threshold") {
		threshold = mustGetFloat32(cmd, "threshold")
	}

	groups, err := eng.FindDuplicates(context.Background(), threshold)
	if err != nil {
		return fmt.Errorf("duplicate detection failed: %w", err)
	}

	if !showAll {
		var filtered []similarity.DuplicateGroup
		for _, g := range groups {
			if len(g.Matches) > 0 {
				filtered = append(filtered, g)
			}
		}
		groups = filtered
	}

	if jsonOutput {
		if err := json.NewEncoder(os.Stdout).Encode(DuplicatesOutput{
			Threshold: threshold, Groups: groups, Count: len(groups),
		}); err != nil {
			return fmt.Errorf("encoding JSON output: %w", err)
		}
		return nil
	}

	if len(groups) == 0 {
		fmt.Printf("No duplicates found at threshold %.2f\n", threshold)
		return nil
	}

	fmt.Printf("Found %d groups at threshold %.2f:\n\n", len(groups), threshold)
	for i, g := range groups {
		fmt.Printf("Group %d (%d photos):\n", i+1, g.Size())
		fmt.Printf("  %s\n", g.Representative)
		for _, m := range g.Matches {
			fmt.Printf("  %s (%.4f)\n", m.PhotoID, m.Score)
		}
		fmt.Println()
	}
	return nil
}
