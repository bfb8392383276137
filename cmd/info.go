package cmd

import (
	"fmt"

	"github.com/lorekeep/cardscope/internal/dataset"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [dataset]",
	Short: "Show dataset metadata and set summary",
	Long: `Info prints the metadata block of a dataset file plus a per-set card
count, with sets listed in the order they first appear in the card sequence.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveDatasetPath(args)
		if err != nil {
			return err
		}
		raw, err := readDataset(path)
		if err != nil {
			return err
		}
		ds, err := dataset.Parse(raw)
		if err != nil {
			return err
		}

		fmt.Println()
		fmt.Println(colorize.CyanString("File:      ") + colorize.HiWhiteString(path))
		fmt.Println(colorize.CyanString("Language:  ") + colorize.HiWhiteString(ds.Metadata.Language))
		fmt.Println(colorize.CyanString("Generated: ") + colorize.HiWhiteString(ds.Metadata.GeneratedOn))
		if ds.Metadata.FormatVersion != "" {
			fmt.Println(colorize.CyanString("Format:    ") + colorize.HiWhiteString(ds.Metadata.FormatVersion))
		}
		fmt.Println(colorize.CyanString("Cards:     ") + colorize.HiWhiteString("%d", ds.Len()))

		if ds.Len() == 0 {
			fmt.Println("\nDataset has no cards.")
			return nil
		}

		order, counts := ds.SetOrder()
		fmt.Println()
		fmt.Println(colorize.CyanString("Sets:"))
		for _, code := range order {
			fmt.Printf("  %-8s %d cards\n", code, counts[code])
		}
		fmt.Println()
		return nil
	},
}

func init() {
	RootCmd.AddCommand(infoCmd)
}
