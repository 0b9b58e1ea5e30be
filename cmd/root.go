package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "photovec",
	Short: "A photo embedding and similarity engine",
	Long: `Photovec indexes a photo library with CLIP image embeddings and
answers similarity queries over them: find photos that look like a given
one, group near-identical shots, and keep the index in sync as the
library changes.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
