package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/lorekeep/cardscope/internal/dataset"
)

func TestBodyScalar(t *testing.T) {
	cases := []struct {
		raw  string
		want string
		ok   bool
	}{
		{`"Legendary"`, "Legendary", true},
		{`7`, "7", true},
		{`2.5`, "2.5", true},
		{`true`, "true", true},
		{`null`, "", false},
		{`[1, 2]`, "", false},
		{`{"a": 1}`, "", false},
	}
	for _, tc := range cases {
		got, ok := bodyScalar(json.RawMessage(tc.raw))
		if got != tc.want || ok != tc.ok {
			t.Errorf("bodyScalar(%s) = %q, %v, want %q, %v", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestLinkSummary(t *testing.T) {
	var c dataset.Card
	raw := `{"id": 1, "enchantedId": 9, "promoIds": [4, 5], "rarity": "Common"}`
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatal(err)
	}

	got := linkSummary(&c)
	if !strings.Contains(got, "enchanted → 9") {
		t.Errorf("summary missing single relation: %q", got)
	}
	if !strings.Contains(got, "promos → [4 5]") {
		t.Errorf("summary missing list relation: %q", got)
	}
	if strings.Contains(got, "Common") {
		t.Errorf("summary includes non-relation field: %q", got)
	}
}

func TestCardInfoLinesToleratesEmptyFieldName(t *testing.T) {
	// An empty-string key is valid JSON and opaque payload; rendering must
	// not die on it.
	var c dataset.Card
	raw := `{"id": 1, "fullName": "X", "setCode": "1", "": "odd", "rarity": "Common"}`
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatal(err)
	}

	lines := cardInfoLines(&c, 0, 1, 80, "")
	if len(lines) == 0 {
		t.Fatal("no lines rendered")
	}
	for _, line := range lines {
		if strings.Contains(line, "odd") {
			t.Errorf("nameless field was rendered: %q", line)
		}
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five", 9)
	for _, line := range lines {
		if len(line) > 9 {
			t.Errorf("line %q exceeds width", line)
		}
	}
	if strings.Join(lines, " ") != "one two three four five" {
		t.Errorf("wrap lost words: %v", lines)
	}
}

func TestStripAnsi(t *testing.T) {
	in := "\x1b[38;2;1;2;3mX\x1b[0m"
	if got := stripAnsi(in); got != "X" {
		t.Errorf("stripAnsi = %q, want X", got)
	}
}
