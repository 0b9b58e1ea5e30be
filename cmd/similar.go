package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/reminora/photovec/internal/config"
	"github.com/reminora/photovec/internal/similarity"
)

var similarCmd = &cobra.Command{
	Use:   "similar [photo-id]",
	Short: "Find photos similar to a given photo",
	Long: `Find photos visually similar to a given photo using cosine similarity
on image embeddings. Scores range from 0 to 1, higher means more similar.

If the photo has no embedding yet, one is computed on the fly.

Examples:
  # Find similar photos
  photovec similar vacation/beach.jpg

  # Use a stricter threshold
  photovec similar vacation/beach.jpg --threshold 0.95

  # Limit results
  photovec similar vacation/beach.jpg --limit 10

  # Output as JSON
  photovec similar vacation/beach.jpg --json`,
	Args: cobra.ExactArgs(1),
	RunE: runSimilar,
}

func init() {
	rootCmd.AddCommand(similarCmd)

	similarCmd.Flags().Float32("threshold", 0, "Minimum similarity score (defaults to configured threshold)")
	similarCmd.Flags().Int("limit", 0, "Maximum number of results (defaults to configured limit)")
	similarCmd.Flags().Bool("json", false, "Output as JSON")
}

// SimilarOutput is the JSON output structure for similarity search.
type SimilarOutput struct {
	PhotoID   string             `json:"photo_id"`
	Threshold float32            `json:"threshold"`
	Results   []similarity.Match `json:"results"`
	Count     int                `json:"count"`
}

func runSimilar(cmd *cobra.Command, args []string) error {
	photoID := args[0]
	jsonOutput := mustGetBool(cmd, "json")

	cfg := config.Load()

	eng, closer, err := newEngine(cfg)
	if err != nil {
		return err
	}
	defer closer()

	threshold := eng.SimilarThreshold()
	if cmd.Flags().Changed("threshold") {
		threshold = mustGetFloat32(cmd, "threshold")
	}
	limit := eng.SearchLimit()
	if cmd.Flags().Changed("limit") {
		limit = mustGetInt(cmd, "limit")
	}

	if !jsonOutput {
		fmt.Printf("Searching for photos similar to %s (threshold: %.2f)...\n\n", photoID, threshold)
	}

	matches, err := eng.FindSimilarPhotos(context.Background(), photoID, threshold, limit)
	if err != nil {
		return fmt.Errorf("similarity search failed: %w", err)
	}

	if jsonOutput {
		if err := json.NewEncoder(os.Stdout).Encode(SimilarOutput{
			PhotoID: photoID, Threshold: threshold, Results: matches, Count: len(matches),
		}); err != nil {
			return fmt.Errorf("encoding JSON output: %w", err)
		}
		return nil
	}

	if len(matches) == 0 {
		fmt.Printf("No similar photos found within threshold %.2f\n", threshold)
		return nil
	}

	fmt.Printf("Found %d similar photos:\n\n", len(matches))
	printMatchTable(matches)
	return nil
}

// printMatchTable prints matches as a human-readable table.
func printMatchTable(matches []similarity.Match) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PHOTO\tSCORE")
	fmt.Fprintln(w, "-----\t-----")
	for _, m := range matches {
		fmt.Fprintf(w, "%s\t%.4f\n", m.PhotoID, m.Score)
	}
	w.Flush()
}
