package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lorekeep/cardscope/internal/config"
	"github.com/lorekeep/cardscope/internal/dataset"

	"github.com/spf13/cobra"
)

// dataCmd represents the data command group
var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Manage dataset files in your dataset library",
	Long:  `Commands for managing dataset files in your dataset library.`,
}

// dataListCmd represents the data list command
var dataListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List datasets in your dataset library",
	Run: func(cmd *cobra.Command, args []string) {
		libraryPath := config.GetDatasetLibraryPath()

		// Check if dataset library exists
		if _, err := os.Stat(libraryPath); os.IsNotExist(err) {
			fmt.Printf("Dataset library at %s does not exist.\n", libraryPath)
			fmt.Println("Run 'cardscope data init' to create it.")
			return
		}

		// Default dataset may be unset; that's fine for listing.
		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			return
		}
		defaultDataset := cfg.DefaultDataset

		entries, err := os.ReadDir(libraryPath)
		if err != nil {
			fmt.Printf("Error reading dataset library: %v\n", err)
			return
		}

		if len(entries) == 0 {
			fmt.Println("No datasets found in your dataset library.")
			fmt.Println("You can add datasets by copying them to:", libraryPath)
			return
		}

		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
				continue
			}

			raw, err := os.ReadFile(filepath.Join(libraryPath, entry.Name()))
			if err != nil {
				fmt.Printf("Error reading %s: %v\n", entry.Name(), err)
				continue
			}
			ds, err := dataset.Parse(raw)
			if err != nil {
				// Not a valid dataset, skip
				continue
			}

			summary := fmt.Sprintf("%s, %d cards, generated %s",
				ds.Metadata.Language, ds.Len(), ds.Metadata.GeneratedOn)
			if entry.Name() == defaultDataset {
				fmt.Printf("* %s (%s) [DEFAULT]\n", entry.Name(), summary)
			} else {
				fmt.Printf("  %s (%s)\n", entry.Name(), summary)
			}
		}
	},
}

// dataSetDefaultCmd represents the data set-default command
var dataSetDefaultCmd = &cobra.Command{
	Use:   "set-default [dataset]",
	Short: "Set the default dataset",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]

		// Check if the dataset exists
		path, err := config.GetDatasetPath(name)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		// Try to parse it to make sure it's valid
		raw, err := os.ReadFile(path)
		if err != nil {
			fmt.Printf("Error reading dataset: %v\n", err)
			return
		}
		if _, err := dataset.Parse(raw); err != nil {
			fmt.Printf("Error: Not a valid dataset - %v\n", err)
			return
		}

		// Set as default
		if err := config.SetDefaultDataset(name); err != nil {
			fmt.Printf("Error setting default dataset: %v\n", err)
			return
		}

		fmt.Printf("Default dataset set to: %s\n", name)
	},
}

// dataInitCmd represents the data init command
var dataInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the dataset library",
	Run: func(cmd *cobra.Command, args []string) {
		libraryPath := config.GetDatasetLibraryPath()

		if err := os.MkdirAll(libraryPath, 0755); err != nil {
			fmt.Printf("Error creating dataset library: %v\n", err)
			return
		}

		fmt.Println("Dataset library initialized at:", libraryPath)
		fmt.Println("You can now add datasets by copying them to this directory.")

		// Initialize config
		_, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("Error initializing config: %v\n", err)
			return
		}

		configPath := config.GetConfigFilePath()
		fmt.Println("Config file initialized at:", configPath)
	},
}

func init() {
	RootCmd.AddCommand(dataCmd)
	dataCmd.AddCommand(dataListCmd)
	dataCmd.AddCommand(dataSetDefaultCmd)
	dataCmd.AddCommand(dataInitCmd)
}
