package dataset

import (
	"encoding/json"
	"errors"
	"testing"
)

func mustCard(t *testing.T, raw string) *Card {
	t.Helper()
	var c Card
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatalf("unmarshal card: %v", err)
	}
	return &c
}

func TestCardUnmarshal(t *testing.T) {
	c := mustCard(t, `{
		"id": 42, "fullName": "Elsa - Snow Queen", "setCode": "1",
		"rarity": "Enchanted", "cost": 8, "promoIds": [601, 602]
	}`)

	if c.ID != 42 || c.FullName != "Elsa - Snow Queen" || c.SetCode != "1" {
		t.Fatalf("core fields = %d %q %q", c.ID, c.FullName, c.SetCode)
	}
	for _, key := range []string{"rarity", "cost", "promoIds"} {
		if _, ok := c.Body[key]; !ok {
			t.Errorf("body lost key %s", key)
		}
	}
	// Core fields must not be duplicated into the body.
	for _, key := range []string{"id", "fullName", "setCode"} {
		if _, ok := c.Body[key]; ok {
			t.Errorf("core field %s leaked into body", key)
		}
	}
}

func TestCardUnmarshalRequiresID(t *testing.T) {
	var c Card
	if err := json.Unmarshal([]byte(`{"fullName": "No ID"}`), &c); err == nil {
		t.Fatal("expected error for card without id")
	}

	_, err := Parse([]byte(`{"metadata": {}, "cards": [{"fullName": "No ID"}]}`))
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Parse = %v, want *ParseError", err)
	}
}

func TestCardMarshalRoundTrip(t *testing.T) {
	c := mustCard(t, `{"id": 7, "fullName": "Mickey", "setCode": "2", "rarity": "Rare"}`)

	out, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back := mustCard(t, string(out))
	if back.ID != 7 || back.FullName != "Mickey" || back.SetCode != "2" {
		t.Errorf("round trip lost core fields: %+v", back)
	}
	if _, ok := back.Body["rarity"]; !ok {
		t.Error("round trip lost body field")
	}
}

func TestRelationShapes(t *testing.T) {
	c := mustCard(t, `{
		"id": 1,
		"enchantedId": 7,
		"variantIds": [2, 3],
		"promoIds": [],
		"flavorText": "not a relation"
	}`)

	rel, ok := c.Relation("enchantedId")
	if !ok || rel.List || len(rel.IDs) != 1 || rel.IDs[0] != 7 {
		t.Errorf("enchantedId = %+v, %v", rel, ok)
	}

	rel, ok = c.Relation("variantIds")
	if !ok || !rel.List || len(rel.IDs) != 2 || rel.IDs[0] != 2 {
		t.Errorf("variantIds = %+v, %v", rel, ok)
	}

	if _, ok := c.Relation("nonPromoId"); ok {
		t.Error("absent field reported as relation")
	}
	if _, ok := c.Relation("flavorText"); ok {
		t.Error("string field reported as relation")
	}
}

func TestNullRelationIsNotARelation(t *testing.T) {
	// json.Unmarshal of null into an int is a no-op, which would otherwise
	// read as identifier 0.
	c := mustCard(t, `{"id": 1, "enchantedId": null}`)

	if _, ok := c.Relation("enchantedId"); ok {
		t.Error("null field reported as relation")
	}

	_, err := ResolveLink(c, "enchantedId", false)
	var noRel *NoSuchRelationError
	if !errors.As(err, &noRel) {
		t.Fatalf("ResolveLink on null field = %v, want *NoSuchRelationError", err)
	}
}

func TestResolveLink(t *testing.T) {
	c := mustCard(t, `{"id": 1, "enchantedId": 7, "promoIds": [42, 43], "variantIds": []}`)

	wantNoRel := func(t *testing.T, err error) {
		t.Helper()
		var noRel *NoSuchRelationError
		if !errors.As(err, &noRel) {
			t.Fatalf("err = %v, want *NoSuchRelationError", err)
		}
	}

	// Single identifier: returned directly, takeFirst ignored.
	for _, takeFirst := range []bool{false, true} {
		id, err := ResolveLink(c, "enchantedId", takeFirst)
		if err != nil || id != 7 {
			t.Errorf("ResolveLink(enchantedId, %v) = %d, %v", takeFirst, id, err)
		}
	}

	// List with takeFirst: first element.
	id, err := ResolveLink(c, "promoIds", true)
	if err != nil || id != 42 {
		t.Errorf("ResolveLink(promoIds, true) = %d, %v, want 42", id, err)
	}

	// List requested as scalar is a caller contract violation.
	_, err = ResolveLink(c, "promoIds", false)
	wantNoRel(t, err)

	// Empty list has no first element.
	_, err = ResolveLink(c, "variantIds", true)
	wantNoRel(t, err)

	// Absent relation.
	_, err = ResolveLink(c, "nonPromoId", false)
	wantNoRel(t, err)
}
