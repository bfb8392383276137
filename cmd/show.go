package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/lorekeep/cardscope/internal/config"
	"github.com/lorekeep/cardscope/internal/dataset"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [id | #index]",
	Short: "Display a single card from a dataset",
	Long: `Show displays one card from a dataset file. Address the card by its
identifier, or by ordinal index with a leading '#'.

You can specify a dataset with the --file flag, either as a name from your
dataset library (XDG_DATA_HOME/cardscope/datasets) or as a direct path. If no
dataset is specified, the default from your config is used.

Examples:
  cardscope show 42
  cardscope show '#0' --file allCards.json
  cardscope show 42 --art --images ./images`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fileFlag, _ := cmd.Flags().GetString("file")

		var path string
		var err error
		if fileFlag != "" {
			path, err = config.GetDatasetPath(fileFlag)
		} else {
			path, err = resolveDatasetPath(nil)
		}
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
		if ds.Len() == 0 {
			return fmt.Errorf("dataset %s has no cards", path)
		}

		var pos int
		if rest, isIndex := strings.CutPrefix(args[0], "#"); isIndex {
			n, convErr := strconv.Atoi(rest)
			if convErr != nil {
				return fmt.Errorf("invalid index: %s", args[0])
			}
			pos, err = ds.ResolveIndex(n)
		} else {
			id, convErr := strconv.Atoi(args[0])
			if convErr != nil {
				return fmt.Errorf("invalid card id: %s", args[0])
			}
			pos, err = ds.ResolveID(id)
		}
		if err != nil {
			return err
		}

		c := ds.At(pos)

		var art string
		if withArt, _ := cmd.Flags().GetBool("art"); withArt {
			art = cardArt(imageDirFor(cmd), c.ID)
		}

		width, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || width <= 0 {
			width = 80
		}

		fmt.Print(renderCard(c, pos, ds.Len(), art, width))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(showCmd)

	showCmd.Flags().StringP("file", "f", "", "Dataset from your library or a path to a dataset file")
	showCmd.Flags().Bool("art", false, "Render the card image as ANSI art")
	showCmd.Flags().String("images", "", "Directory with card images named <id>.<ext>")
}

// imageDirFor picks the image directory: the --images flag if set, otherwise
// the configured image_dir.
func imageDirFor(cmd *cobra.Command) string {
	if dir, _ := cmd.Flags().GetString("images"); dir != "" {
		return dir
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return ""
	}
	return cfg.ImageDir
}
