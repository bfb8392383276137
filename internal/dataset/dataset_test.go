package dataset

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// mustParse builds a dataset from a raw document, failing the test on error.
func mustParse(t *testing.T, raw string) *Dataset {
	t.Helper()
	d, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return d
}

// doc builds a dataset document around the given card JSON objects.
func doc(cards ...string) string {
	return fmt.Sprintf(`{
		"metadata": {"formatVersion": "2.0.0", "generatedOn": "2026-08-20T10:00:00", "language": "en"},
		"cards": [%s]
	}`, strings.Join(cards, ","))
}

func card(id int, name, set string) string {
	return fmt.Sprintf(`{"id": %d, "fullName": %q, "setCode": %q}`, id, name, set)
}

func TestParseMetadata(t *testing.T) {
	d := mustParse(t, `{
		"metadata": {"formatVersion": "2.0.0", "generatedOn": "2026-08-20T10:00:00", "language": "fr", "checksum": "abc"},
		"cards": []
	}`)
	if d.Metadata.Language != "fr" {
		t.Errorf("language = %q, want fr", d.Metadata.Language)
	}
	if d.Metadata.GeneratedOn != "2026-08-20T10:00:00" {
		t.Errorf("generatedOn = %q", d.Metadata.GeneratedOn)
	}
	if _, ok := d.Metadata.Extra["checksum"]; !ok {
		t.Error("unknown metadata key was dropped")
	}
	if d.Len() != 0 {
		t.Errorf("Len = %d, want 0", d.Len())
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":         `{{`,
		"missing metadata": `{"cards": []}`,
		"missing cards":    `{"metadata": {"language": "en"}}`,
		"cards not a list": `{"metadata": {}, "cards": 5}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(raw))
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("Parse = %v, want *ParseError", err)
			}
		})
	}
}

func TestResolveIndex(t *testing.T) {
	d := mustParse(t, doc(card(1, "a", "A"), card(2, "b", "A"), card(3, "c", "B")))

	for i := 0; i < d.Len(); i++ {
		pos, err := d.ResolveIndex(i)
		if err != nil || pos != i {
			t.Errorf("ResolveIndex(%d) = %d, %v", i, pos, err)
		}
	}

	for _, n := range []int{-1, 3, 100} {
		_, err := d.ResolveIndex(n)
		var rangeErr *OutOfRangeError
		if !errors.As(err, &rangeErr) {
			t.Fatalf("ResolveIndex(%d) = %v, want *OutOfRangeError", n, err)
		}
		if rangeErr.Requested != n {
			t.Errorf("Requested = %d, want %d", rangeErr.Requested, n)
		}
	}
}

func TestResolveID(t *testing.T) {
	d := mustParse(t, doc(card(10, "a", "A"), card(7, "b", "A"), card(99, "c", "B")))

	pos, err := d.ResolveID(7)
	if err != nil || pos != 1 {
		t.Fatalf("ResolveID(7) = %d, %v, want 1", pos, err)
	}

	_, err = d.ResolveID(8)
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("ResolveID(8) = %v, want *NotFoundError", err)
	}
	if notFound.ID != 8 {
		t.Errorf("NotFoundError.ID = %d, want 8", notFound.ID)
	}
}

func TestDuplicateIDLastOccurrenceWins(t *testing.T) {
	d := mustParse(t, doc(card(5, "first", "A"), card(6, "other", "A"), card(5, "second", "B")))

	pos, err := d.ResolveID(5)
	if err != nil {
		t.Fatalf("ResolveID(5): %v", err)
	}
	if pos != 2 {
		t.Errorf("ResolveID(5) = %d, want 2 (later occurrence shadows earlier)", pos)
	}
	if got := d.At(pos).FullName; got != "second" {
		t.Errorf("card at %d = %q, want second", pos, got)
	}
}

func TestBoundaries(t *testing.T) {
	// The worked scenario: [A, A, B].
	d := mustParse(t, doc(card(1, "a", "A"), card(2, "b", "A"), card(3, "c", "B")))

	pos, err := d.NextBoundary(0)
	if err != nil || pos != 2 {
		t.Fatalf("NextBoundary(0) = %d, %v, want 2", pos, err)
	}

	// Reference key at 2 is B; scanning backward finds position 1 (key A).
	pos, err = d.PrevBoundary(2)
	if err != nil || pos != 1 {
		t.Fatalf("PrevBoundary(2) = %d, %v, want 1", pos, err)
	}

	if _, err := d.PrevBoundary(0); !errors.Is(err, ErrNoBoundary) {
		t.Errorf("PrevBoundary(0) = %v, want ErrNoBoundary", err)
	}
	if _, err := d.NextBoundary(2); !errors.Is(err, ErrNoBoundary) {
		t.Errorf("NextBoundary(2) = %v, want ErrNoBoundary", err)
	}
}

func TestBoundaryRoundTrip(t *testing.T) {
	// nextBoundary then previousBoundary lands back in the original set.
	d := mustParse(t, doc(
		card(1, "a", "A"), card(2, "b", "A"),
		card(3, "c", "B"), card(4, "d", "B"),
		card(5, "e", "C"),
	))

	for from := 0; from < d.Len(); from++ {
		next, err := d.NextBoundary(from)
		if errors.Is(err, ErrNoBoundary) {
			continue
		}
		back, err := d.PrevBoundary(next)
		if err != nil {
			t.Fatalf("PrevBoundary(%d): %v", next, err)
		}
		if got, want := d.At(back).SetCode, d.At(from).SetCode; got != want {
			t.Errorf("round trip from %d landed in set %q, want %q", from, got, want)
		}
	}
}

func TestSetOrder(t *testing.T) {
	d := mustParse(t, doc(
		card(1, "a", "A"), card(2, "b", "B"), card(3, "c", "A"), card(4, "d", "B"),
	))
	order, counts := d.SetOrder()
	if len(order) != 2 || order[0] != "A" || order[1] != "B" {
		t.Fatalf("order = %v, want [A B]", order)
	}
	if counts["A"] != 2 || counts["B"] != 2 {
		t.Errorf("counts = %v", counts)
	}
}
