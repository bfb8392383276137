package dataset

import (
	"encoding/json"
	"fmt"
)

// Metadata is the dataset's provenance block. Unknown keys are kept in
// Extra and passed through untouched.
type Metadata struct {
	FormatVersion string
	GeneratedOn   string
	Language      string
	Extra         map[string]json.RawMessage
}

func (m *Metadata) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if raw, ok := fields["formatVersion"]; ok {
		if err := json.Unmarshal(raw, &m.FormatVersion); err != nil {
			return fmt.Errorf("metadata formatVersion: %v", err)
		}
		delete(fields, "formatVersion")
	}
	if raw, ok := fields["generatedOn"]; ok {
		if err := json.Unmarshal(raw, &m.GeneratedOn); err != nil {
			return fmt.Errorf("metadata generatedOn: %v", err)
		}
		delete(fields, "generatedOn")
	}
	if raw, ok := fields["language"]; ok {
		if err := json.Unmarshal(raw, &m.Language); err != nil {
			return fmt.Errorf("metadata language: %v", err)
		}
		delete(fields, "language")
	}
	m.Extra = fields
	return nil
}

// Dataset is one parsed generator output: an ordered card sequence plus its
// metadata block. It is immutable after Parse; a reload replaces it
// wholesale.
type Dataset struct {
	Metadata Metadata
	Cards    []Card

	// byID maps identifier to position. Built front to back with
	// unconditional overwrite, so when the generator emits duplicate
	// identifiers the last occurrence wins. Downstream data relies on
	// that shadowing; do not dedupe or reject.
	byID map[int]int
}

// Parse reads a raw dataset document of the shape {metadata, cards}. On any
// malformed input it fails with *ParseError and the caller's current dataset
// must be left as-is. An empty card sequence is a valid dataset.
func Parse(raw []byte) (*Dataset, error) {
	var doc struct {
		Metadata *Metadata `json:"metadata"`
		Cards    *[]Card   `json:"cards"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &ParseError{Err: err}
	}
	if doc.Metadata == nil {
		return nil, &ParseError{Err: fmt.Errorf("document has no metadata block")}
	}
	if doc.Cards == nil {
		return nil, &ParseError{Err: fmt.Errorf("document has no cards list")}
	}

	d := &Dataset{
		Metadata: *doc.Metadata,
		Cards:    *doc.Cards,
		byID:     make(map[int]int, len(*doc.Cards)),
	}
	for i := range d.Cards {
		d.byID[d.Cards[i].ID] = i
	}
	return d, nil
}

// Len reports the number of cards.
func (d *Dataset) Len() int { return len(d.Cards) }

// At returns the card at a position already validated by ResolveIndex or
// ResolveID.
func (d *Dataset) At(pos int) *Card { return &d.Cards[pos] }

// ResolveIndex validates an explicit ordinal jump. Outside [0, len-1] it
// fails with *OutOfRangeError carrying the attempted value.
func (d *Dataset) ResolveIndex(n int) (int, error) {
	if n < 0 || n > len(d.Cards)-1 {
		return 0, &OutOfRangeError{Requested: n, Min: 0, Max: len(d.Cards) - 1}
	}
	return n, nil
}

// ResolveID translates an identifier to its position, honoring the
// last-occurrence-wins rule for duplicates. Fails with *NotFoundError when
// the identifier is absent.
func (d *Dataset) ResolveID(id int) (int, error) {
	pos, ok := d.byID[id]
	if !ok {
		return 0, &NotFoundError{ID: id}
	}
	return pos, nil
}

// NextBoundary scans forward from the card at from and returns the first
// position whose set differs from it, or ErrNoBoundary when the rest of the
// sequence shares the same set. The scan is linear on purpose: it depends on
// the runtime position, not on anything precomputable at load time.
func (d *Dataset) NextBoundary(from int) (int, error) {
	ref := d.Cards[from].SetCode
	for i := from + 1; i < len(d.Cards); i++ {
		if d.Cards[i].SetCode != ref {
			return i, nil
		}
	}
	return 0, ErrNoBoundary
}

// PrevBoundary scans backward from the card at from and returns the first
// position whose set differs from it, or ErrNoBoundary at position 0.
func (d *Dataset) PrevBoundary(from int) (int, error) {
	ref := d.Cards[from].SetCode
	for i := from - 1; i >= 0; i-- {
		if d.Cards[i].SetCode != ref {
			return i, nil
		}
	}
	return 0, ErrNoBoundary
}

// SetOrder returns the distinct set codes in first-appearance order together
// with per-set card counts.
func (d *Dataset) SetOrder() ([]string, map[string]int) {
	var order []string
	counts := make(map[string]int)
	for i := range d.Cards {
		code := d.Cards[i].SetCode
		if _, seen := counts[code]; !seen {
			order = append(order, code)
		}
		counts[code]++
	}
	return order, counts
}
