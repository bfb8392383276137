package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Relation field names emitted by the dataset generator. Single-identifier
// relations hold one id, list relations hold an ordered id list.
const (
	RelEnchanted    = "enchantedId"
	RelNonEnchanted = "nonEnchantedId"
	RelNonPromo     = "nonPromoId"
	RelPromos       = "promoIds"
	RelVariants     = "variantIds"
)

// Card is one record of a generated dataset. The identifier is unique within
// a dataset (last occurrence shadows earlier ones, see Parse), FullName is
// the display name, and SetCode is the originating set. Everything else the
// generator emitted lives untouched in Body.
type Card struct {
	ID       int
	FullName string
	SetCode  string
	Body     map[string]json.RawMessage
}

// UnmarshalJSON pulls out the core fields and keeps the remainder as opaque
// payload so unknown generator fields survive round trips.
func (c *Card) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	rawID, ok := fields["id"]
	if !ok {
		return fmt.Errorf("card entry has no id field")
	}
	if err := json.Unmarshal(rawID, &c.ID); err != nil {
		return fmt.Errorf("card id is not an integer: %v", err)
	}
	delete(fields, "id")

	if raw, ok := fields["fullName"]; ok {
		if err := json.Unmarshal(raw, &c.FullName); err != nil {
			return fmt.Errorf("card %d: fullName is not a string: %v", c.ID, err)
		}
		delete(fields, "fullName")
	}
	if raw, ok := fields["setCode"]; ok {
		if err := json.Unmarshal(raw, &c.SetCode); err != nil {
			return fmt.Errorf("card %d: setCode is not a string: %v", c.ID, err)
		}
		delete(fields, "setCode")
	}

	c.Body = fields
	return nil
}

// MarshalJSON reassembles the wire shape: core fields plus the untouched
// body payload.
func (c Card) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(c.Body)+3)
	for k, v := range c.Body {
		out[k] = v
	}
	var err error
	if out["id"], err = json.Marshal(c.ID); err != nil {
		return nil, err
	}
	if c.FullName != "" {
		if out["fullName"], err = json.Marshal(c.FullName); err != nil {
			return nil, err
		}
	}
	if c.SetCode != "" {
		if out["setCode"], err = json.Marshal(c.SetCode); err != nil {
			return nil, err
		}
	}
	return json.Marshal(out)
}

// Relation is the value of a relation field: either a single identifier or
// an ordered identifier list.
type Relation struct {
	IDs  []int
	List bool
}

// Relation reports the relation field with the given name. The second return
// is false when the field is absent or does not hold an identifier shape.
func (c *Card) Relation(name string) (Relation, bool) {
	raw, ok := c.Body[name]
	if !ok {
		return Relation{}, false
	}

	// JSON null unmarshals into an int as a no-op, which would read as
	// identifier 0. A null field is not a relation.
	if string(bytes.TrimSpace(raw)) == "null" {
		return Relation{}, false
	}

	var single int
	if err := json.Unmarshal(raw, &single); err == nil {
		return Relation{IDs: []int{single}}, true
	}

	var list []int
	if err := json.Unmarshal(raw, &list); err == nil {
		return Relation{IDs: list, List: true}, true
	}

	return Relation{}, false
}

// ResolveLink resolves a relation field on a card to the identifier it
// points at. Absent fields fail with *NoSuchRelationError, as does asking
// for a scalar out of a list-shaped field (takeFirst false) or an empty
// list. The returned identifier is not guaranteed to exist in the dataset;
// resolving it to a position is the caller's job.
func ResolveLink(c *Card, relation string, takeFirst bool) (int, error) {
	rel, ok := c.Relation(relation)
	if !ok {
		return 0, &NoSuchRelationError{Relation: relation}
	}
	if !rel.List {
		return rel.IDs[0], nil
	}
	if !takeFirst || len(rel.IDs) == 0 {
		return 0, &NoSuchRelationError{Relation: relation}
	}
	return rel.IDs[0], nil
}
