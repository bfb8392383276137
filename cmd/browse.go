package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/lorekeep/cardscope/internal/dataset"
	"github.com/lorekeep/cardscope/internal/session"
	"github.com/lorekeep/cardscope/internal/watch"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse [dataset]",
	Short: "Browse a dataset interactively",
	Long: `Browse opens a dataset file in an interactive terminal browser. Step
through cards, jump by index or identifier, follow links between related
printings, and skip between sets.

With --watch the dataset file is monitored and reloaded whenever the
generator rewrites it. The browser stays on the same card across reloads
when its identifier survives, and on the same slot otherwise.

Keys:
  n/→ p/←   step forward / back        r     random card
  ] [       next / previous set        g     go to index
  e         enchanted pairing          i     go to id
  m o       first promo / non-promo    v     first variant
  a         toggle art                 R     reload now
  q         quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBrowse,
}

func init() {
	RootCmd.AddCommand(browseCmd)

	browseCmd.Flags().Bool("watch", false, "Reload when the dataset file changes")
	browseCmd.Flags().Bool("art", false, "Render card images as ANSI art")
	browseCmd.Flags().String("images", "", "Directory with card images named <id>.<ext>")
}

// browser holds the presentation state around one session.
type browser struct {
	sess     *session.Session
	path     string
	imageDir string
	showArt  bool
	status   string
}

func runBrowse(cmd *cobra.Command, args []string) error {
	path, err := resolveDatasetPath(args)
	if err != nil {
		return err
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("cardscope browse requires a TTY (terminal)")
	}

	b := &browser{
		sess:     session.New(),
		path:     path,
		imageDir: imageDirFor(cmd),
	}
	b.showArt, _ = cmd.Flags().GetBool("art")

	raw, err := readDataset(path)
	if err != nil {
		return err
	}
	if _, _, err := b.sess.Load(raw); err != nil && !errors.Is(err, session.ErrNoData) {
		return err
	}

	// Optional file watch; reload completions arrive as events on w.Changes.
	var reloads <-chan string
	if watchFlag, _ := cmd.Flags().GetBool("watch"); watchFlag {
		w, err := watch.NewWatcher(path)
		if err != nil {
			return fmt.Errorf("cannot watch %s: %v", path, err)
		}
		if err := w.Start(); err != nil {
			return fmt.Errorf("cannot watch %s: %v", path, err)
		}
		defer w.Stop()
		reloads = w.Changes
	}

	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("cannot enter raw mode: %v", err)
	}
	defer term.Restore(int(os.Stdin.Fd()), oldState)

	keys := make(chan byte, 16)
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				close(keys)
				return
			}
			if n == 1 {
				keys <- buf[0]
			}
		}
	}()

	b.redraw()

	// One event loop, one logical thread: every navigation and reload runs
	// to completion here before the next event is taken.
	for {
		select {
		case key, ok := <-keys:
			if !ok {
				return nil
			}
			quit := b.handleKey(key, keys)
			if quit {
				return nil
			}
			b.redraw()

		case _, ok := <-reloads:
			if !ok {
				reloads = nil
				continue
			}
			b.reload()
			b.redraw()
		}
	}
}

// reload re-reads the dataset file through the session. A failed read or
// parse keeps the previous dataset on screen.
func (b *browser) reload() {
	raw, err := os.ReadFile(b.path)
	if err != nil {
		b.status = colorize.RedString("reload failed: %v", err)
		return
	}
	_, _, err = b.sess.Load(raw)
	switch {
	case errors.Is(err, session.ErrNoData):
		b.status = colorize.YellowString("reloaded: dataset is empty")
	case err != nil:
		b.status = colorize.RedString("reload failed: %v", err)
	default:
		ds := b.sess.Dataset()
		b.status = colorize.GreenString("reloaded: %d cards (%s, generated %s)",
			ds.Len(), ds.Metadata.Language, ds.Metadata.GeneratedOn)
	}
}

// handleKey runs one navigation action. It reports whether to quit.
func (b *browser) handleKey(key byte, keys <-chan byte) bool {
	b.status = ""

	switch key {
	case 'q', 3: // q or ctrl-C
		return true
	case 0x1b:
		// Arrow keys arrive as ESC [ A..D; a bare ESC does nothing.
		code, ok := readEscapeCode(keys)
		if !ok {
			return false
		}
		switch code {
		case 'C':
			b.apply(b.sess.Step(1))
		case 'D':
			b.apply(b.sess.Step(-1))
		}
	case 'n', ' ':
		b.apply(b.sess.Step(1))
	case 'p':
		b.apply(b.sess.Step(-1))
	case ']':
		b.apply(b.sess.NextSetBoundary())
	case '[':
		b.apply(b.sess.PrevSetBoundary())
	case 'r':
		b.apply(b.sess.GotoRandom())
	case 'e':
		// One key serves both directions of the enchanted pairing.
		_, _, err := b.sess.GotoLinked(dataset.RelEnchanted, false)
		var noRel *dataset.NoSuchRelationError
		if errors.As(err, &noRel) {
			b.apply(b.sess.GotoLinked(dataset.RelNonEnchanted, false))
			return false
		}
		b.applyErr(err)
	case 'm':
		b.apply(b.sess.GotoLinked(dataset.RelPromos, true))
	case 'o':
		b.apply(b.sess.GotoLinked(dataset.RelNonPromo, false))
	case 'v':
		b.apply(b.sess.GotoLinked(dataset.RelVariants, true))
	case 'g':
		if n, ok := b.promptNumber("go to index: ", keys); ok {
			b.apply(b.sess.GotoIndex(n))
		}
	case 'i':
		if n, ok := b.promptNumber("go to id: ", keys); ok {
			b.apply(b.sess.GotoID(n))
		}
	case 'a':
		b.showArt = !b.showArt
	case 'R':
		b.reload()
	}
	return false
}

// apply records the outcome of a navigation operation in the status line.
func (b *browser) apply(_ *dataset.Card, _ int, err error) {
	b.applyErr(err)
}

// applyErr sorts failures into quiet no-ops and visible messages. Missing
// relations, boundary scans that found nothing, and the empty state stay
// silent; out-of-range jumps, unknown identifiers, and parse failures are
// shown.
func (b *browser) applyErr(err error) {
	if err == nil {
		return
	}
	var noRel *dataset.NoSuchRelationError
	if errors.Is(err, session.ErrNoData) || errors.Is(err, dataset.ErrNoBoundary) || errors.As(err, &noRel) {
		return
	}
	b.status = colorize.RedString("%v", err)
}

// readEscapeCode reads the tail of an ESC [ sequence off the key channel.
func readEscapeCode(keys <-chan byte) (byte, bool) {
	select {
	case k := <-keys:
		if k != '[' {
			return 0, false
		}
	case <-time.After(50 * time.Millisecond):
		return 0, false
	}
	select {
	case k := <-keys:
		return k, true
	case <-time.After(50 * time.Millisecond):
		return 0, false
	}
}

// promptNumber reads a number typed on the status line. Enter confirms,
// Escape cancels, backspace edits. Non-digits are ignored.
func (b *browser) promptNumber(label string, keys <-chan byte) (int, bool) {
	var digits []byte
	for {
		fmt.Printf("\r\x1b[K  %s%s", label, digits)
		key, ok := <-keys
		if !ok {
			return 0, false
		}
		switch {
		case key >= '0' && key <= '9':
			digits = append(digits, key)
		case key == 0x7f || key == 8: // backspace
			if len(digits) > 0 {
				digits = digits[:len(digits)-1]
			}
		case key == '\r' || key == '\n':
			if len(digits) == 0 {
				return 0, false
			}
			n := 0
			for _, d := range digits {
				n = n*10 + int(d-'0')
			}
			return n, true
		case key == 0x1b || key == 3:
			return 0, false
		}
	}
}

// redraw repaints the whole screen for the current card.
func (b *browser) redraw() {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = 80
	}

	var screen strings.Builder
	screen.WriteString("\x1b[2J\x1b[H")

	c, pos, ok := b.sess.Current()
	if !ok {
		screen.WriteString("\n  No cards loaded.\n")
	} else {
		var art string
		if b.showArt {
			art = cardArt(b.imageDir, c.ID)
		}
		screen.WriteString(renderCard(c, pos, b.sess.Dataset().Len(), art, width))
	}

	screen.WriteString("  " + colorize.HiBlackString(
		"n/p step · [ ] sets · e enchanted · m/o promo · v variant · g/i jump · r random · q quit"))
	screen.WriteString("\n")
	if b.status != "" {
		screen.WriteString("  " + b.status + "\n")
	}

	// Raw mode: bare newlines don't return the carriage.
	fmt.Print(strings.ReplaceAll(screen.String(), "\n", "\r\n"))
}
