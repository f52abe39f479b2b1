package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/drew/refmap/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "refmap",
	Short: "refmap matches textual references to document paths",
	Long:  "Fuzzy search over a documents folder and bulk auto-matching of reference lists to file paths.",
}

// loadConfig reads the effective configuration for the working
// directory. Config errors are fatal for every command.
func loadConfig() *config.Config {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// corpusRoot returns the corpus root (cwd unless config redirects it).
func corpusRoot() string {
	return loadConfig().Corpus.Root
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(automatchCmd)
	rootCmd.AddCommand(refsCmd)
	rootCmd.AddCommand(mapCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(reindexCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(wipeCmd)
	rootCmd.AddCommand(configCmd)
}
