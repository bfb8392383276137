package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lorekeep/cardscope/internal/config"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "cardscope",
	Short: "Tool for reviewing generated card datasets",
	Long: `Cardscope is a command-line tool for reviewing generated trading-card datasets.
It loads the JSON file the data pipeline emits and lets you step through cards,
jump between related printings (enchanted versions, promos, variants), and keep
your place when the file is regenerated.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}

// resolveDatasetPath picks the dataset file for a command: the positional
// argument (library name or direct path) if given, otherwise the configured
// default.
func resolveDatasetPath(args []string) (string, error) {
	if len(args) > 0 {
		return config.GetDatasetPath(args[0])
	}

	name, err := config.GetDefaultDataset()
	if err != nil {
		return "", err
	}
	path, err := config.GetDatasetPath(name)
	if err != nil {
		return "", fmt.Errorf("error loading default dataset: %v", err)
	}
	return path, nil
}

// readDataset reads the raw dataset document from disk.
func readDataset(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading dataset file: %v", err)
	}
	return raw, nil
}
