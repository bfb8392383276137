package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lorekeep/cardscope/internal/dataset"

	colorize "github.com/fatih/color"
)

// Body fields shown before everything else, in this order.
var preferredBodyFields = []string{"rarity", "type", "cost", "number", "story"}

// Relation fields rendered on the links line, with their display labels.
var relationLabels = []struct {
	field string
	label string
}{
	{dataset.RelEnchanted, "enchanted"},
	{dataset.RelNonEnchanted, "non-enchanted"},
	{dataset.RelNonPromo, "non-promo"},
	{dataset.RelPromos, "promos"},
	{dataset.RelVariants, "variants"},
}

// renderCard builds the info panel for one card, optionally laid out next to
// ANSI art. width is the terminal width available for the whole panel.
func renderCard(c *dataset.Card, pos, total int, ansiArt string, width int) string {
	infoLines := cardInfoLines(c, pos, total, width, ansiArt)

	var out strings.Builder
	out.WriteString("\n")

	if ansiArt == "" {
		for _, line := range infoLines {
			out.WriteString("  " + line + "\n")
		}
		out.WriteString("\n")
		return out.String()
	}

	// Two-column layout: art on the left, info on the right.
	ansiLines := strings.Split(strings.TrimRight(ansiArt, "\n"), "\n")
	maxAnsiWidth := 0
	for _, line := range ansiLines {
		// Visible width, excluding ANSI escape sequences.
		if w := len(stripAnsi(line)); w > maxAnsiWidth {
			maxAnsiWidth = w
		}
	}
	spacing := 4
	infoStartCol := maxAnsiWidth + spacing

	maxLines := len(ansiLines)
	if len(infoLines) > maxLines {
		maxLines = len(infoLines)
	}
	for i := 0; i < maxLines; i++ {
		out.WriteString("  ")
		if i < len(ansiLines) {
			out.WriteString(ansiLines[i])
			visibleWidth := len(stripAnsi(ansiLines[i]))
			out.WriteString(strings.Repeat(" ", infoStartCol-visibleWidth))
		} else {
			out.WriteString(strings.Repeat(" ", infoStartCol))
		}
		if i < len(infoLines) {
			out.WriteString(infoLines[i])
		}
		out.WriteString("\n")
	}

	out.WriteString("\n")
	return out.String()
}

// cardInfoLines builds the labeled field lines for a card.
func cardInfoLines(c *dataset.Card, pos, total int, width int, ansiArt string) []string {
	var lines []string

	lines = append(lines, colorize.CyanString("Card:  ")+colorize.HiWhiteString("%s", c.FullName))
	lines = append(lines, colorize.CyanString("ID:    ")+colorize.HiWhiteString("%d", c.ID))
	lines = append(lines, colorize.CyanString("Set:   ")+colorize.HiWhiteString("%s", c.SetCode))
	lines = append(lines, colorize.CyanString("Index: ")+colorize.HiWhiteString("%d of %d", pos, total))

	shown := map[string]bool{"fullText": true}
	for _, field := range preferredBodyFields {
		shown[field] = true
		if raw, ok := c.Body[field]; ok {
			if v, ok := bodyScalar(raw); ok {
				lines = append(lines, colorize.CyanString("%s: ", padField(field))+colorize.HiWhiteString("%s", v))
			}
		}
	}

	if links := linkSummary(c); links != "" {
		lines = append(lines, colorize.CyanString("Links: ")+colorize.HiWhiteString("%s", links))
	}

	// Remaining scalar body fields, alphabetical. Composite values are
	// opaque payload and stay hidden in the panel.
	var rest []string
	for field, raw := range c.Body {
		// A nameless field is unrenderable opaque payload; keep it, skip it.
		if field == "" || shown[field] || isRelationField(field) {
			continue
		}
		if _, ok := bodyScalar(raw); ok {
			rest = append(rest, field)
		}
	}
	sort.Strings(rest)
	for _, field := range rest {
		v, _ := bodyScalar(c.Body[field])
		lines = append(lines, colorize.CyanString("%s: ", padField(field))+colorize.HiWhiteString("%s", v))
	}

	// Rules text last, wrapped to what's left of the terminal.
	if raw, ok := c.Body["fullText"]; ok {
		if text, ok := bodyScalar(raw); ok && text != "" {
			textWidth := width - 4
			if ansiArt != "" {
				textWidth = width - 50
			}
			lines = append(lines, "")
			lines = append(lines, colorize.CyanString("Text:"))
			lines = append(lines, wrapText(text, textWidth)...)
		}
	}

	return lines
}

// linkSummary renders the relation fields present on a card.
func linkSummary(c *dataset.Card) string {
	var parts []string
	for _, rl := range relationLabels {
		rel, ok := c.Relation(rl.field)
		if !ok {
			continue
		}
		if !rel.List {
			parts = append(parts, fmt.Sprintf("%s → %d", rl.label, rel.IDs[0]))
			continue
		}
		ids := make([]string, len(rel.IDs))
		for i, id := range rel.IDs {
			ids[i] = strconv.Itoa(id)
		}
		parts = append(parts, fmt.Sprintf("%s → [%s]", rl.label, strings.Join(ids, " ")))
	}
	return strings.Join(parts, "   ")
}

func isRelationField(name string) bool {
	for _, rl := range relationLabels {
		if rl.field == name {
			return true
		}
	}
	return false
}

// padField aligns single-word field labels with the fixed labels above.
func padField(field string) string {
	if field == "" {
		return strings.Repeat(" ", 6)
	}
	label := strings.ToUpper(field[:1]) + field[1:]
	if len(label) < 6 {
		label += strings.Repeat(" ", 6-len(label))
	}
	return label
}

// bodyScalar formats a scalar body value for display. Composite and null
// values report false.
func bodyScalar(raw json.RawMessage) (string, bool) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10), true
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

// wrapText wraps text to a specified width
func wrapText(text string, width int) []string {
	// Ensure width is reasonable
	if width < 10 {
		width = 40 // Use a sensible default if width is too small
	}

	var result []string
	var currentLine string
	words := strings.Fields(text)

	if len(words) == 0 {
		return []string{""}
	}

	for _, word := range words {
		if len(currentLine) == 0 {
			currentLine = word
		} else if len(currentLine)+1+len(word) <= width {
			currentLine += " " + word
		} else {
			result = append(result, currentLine)
			currentLine = word
		}
	}

	if currentLine != "" {
		result = append(result, currentLine)
	}

	return result
}

// stripAnsi removes ANSI escape sequences from a string
func stripAnsi(s string) string {
	var result strings.Builder
	inEscape := false
	for _, c := range s {
		if inEscape {
			if c == 'm' {
				inEscape = false
			}
		} else if c == '\033' {
			inEscape = true
		} else {
			result.WriteRune(c)
		}
	}
	return result.String()
}
