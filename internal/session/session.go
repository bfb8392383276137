// Package session owns the mutable review state: the currently loaded
// dataset and the single current position. Every navigation operation the
// presentation layer exposes funnels through here and ends in one "set
// current position" step, so the invariant that the position stays inside
// the loaded dataset lives in exactly one place.
package session

import (
	"errors"
	"math/rand"

	"github.com/lorekeep/cardscope/internal/dataset"
)

// ErrNoData is returned by navigation operations while no cards are loaded
// (before the first load, or after loading a dataset with an empty card
// list). Callers treat it as a quiet no-op: controls are disabled, nothing
// is shown.
var ErrNoData = errors.New("no cards loaded")

// Session holds the current dataset and position. It is not safe for
// concurrent use; callers with more than one goroutine serialize access
// themselves (the review server wraps it in a mutex, the browse loop is a
// single event loop).
type Session struct {
	ds  *dataset.Dataset
	pos int

	// intn is swappable so GotoRandom is deterministic under test.
	intn func(n int) int
}

// New returns an empty session. Navigation is disabled until the first
// successful Load.
func New() *Session {
	return &Session{intn: rand.Intn}
}

// Dataset returns the currently loaded dataset, or nil before the first
// successful load.
func (s *Session) Dataset() *dataset.Dataset { return s.ds }

// Current returns the card under the cursor and its position. ok is false
// while no cards are loaded.
func (s *Session) Current() (c *dataset.Card, pos int, ok bool) {
	if s.ds == nil || s.ds.Len() == 0 {
		return nil, 0, false
	}
	return s.ds.At(s.pos), s.pos, true
}

// Load parses raw as a new dataset and replaces the current one. A parse
// failure returns *dataset.ParseError and leaves the previous dataset and
// position fully intact, so the tool keeps displaying what it showed before.
//
// On success the position follows the previously displayed card: if its
// identifier still exists in the new dataset the cursor moves there, even if
// the dataset grew, shrank, or was reordered. Otherwise the cursor stays at
// the same ordinal slot, clamped into the new range.
func (s *Session) Load(raw []byte) (*dataset.Card, int, error) {
	ds, err := dataset.Parse(raw)
	if err != nil {
		return nil, 0, err
	}

	prevPos := s.pos
	prevID := -1
	hadCard := false
	if c, _, ok := s.Current(); ok {
		prevID = c.ID
		hadCard = true
	}

	s.ds = ds
	s.pos = continuePosition(ds, hadCard, prevID, prevPos)

	c, pos, ok := s.Current()
	if !ok {
		return nil, 0, ErrNoData
	}
	return c, pos, nil
}

// continuePosition picks the position to show after a reload. The new
// dataset may be empty, in which case the resting position is 0 and Current
// reports no card.
func continuePosition(ds *dataset.Dataset, hadCard bool, prevID, prevPos int) int {
	if ds.Len() == 0 {
		return 0
	}
	if hadCard {
		if pos, err := ds.ResolveID(prevID); err == nil {
			return pos
		}
	}
	pos := prevPos
	if pos > ds.Len()-1 {
		pos = ds.Len() - 1
	}
	if pos < 0 {
		pos = 0
	}
	return pos
}

// GotoIndex jumps to an explicit ordinal position. Out-of-range requests
// fail with *dataset.OutOfRangeError and leave the position unchanged.
func (s *Session) GotoIndex(n int) (*dataset.Card, int, error) {
	if s.ds == nil || s.ds.Len() == 0 {
		return nil, 0, ErrNoData
	}
	pos, err := s.ds.ResolveIndex(n)
	if err != nil {
		return nil, 0, err
	}
	s.pos = pos
	return s.ds.At(pos), pos, nil
}

// GotoID jumps to the card with the given identifier. When duplicates exist
// the last occurrence in sequence order is the one addressed.
func (s *Session) GotoID(id int) (*dataset.Card, int, error) {
	if s.ds == nil || s.ds.Len() == 0 {
		return nil, 0, ErrNoData
	}
	pos, err := s.ds.ResolveID(id)
	if err != nil {
		return nil, 0, err
	}
	s.pos = pos
	return s.ds.At(pos), pos, nil
}

// Step moves the cursor by delta. Stepping past either end is a silent
// no-op, distinct from an explicit out-of-range jump: the cursor stays put
// and the current card is returned.
func (s *Session) Step(delta int) (*dataset.Card, int, error) {
	if s.ds == nil || s.ds.Len() == 0 {
		return nil, 0, ErrNoData
	}
	next := s.pos + delta
	if next >= 0 && next <= s.ds.Len()-1 {
		s.pos = next
	}
	return s.ds.At(s.pos), s.pos, nil
}

// GotoRandom jumps to a uniformly random position.
func (s *Session) GotoRandom() (*dataset.Card, int, error) {
	if s.ds == nil || s.ds.Len() == 0 {
		return nil, 0, ErrNoData
	}
	s.pos = s.intn(s.ds.Len())
	return s.ds.At(s.pos), s.pos, nil
}

// GotoLinked follows a relation field on the current card. A missing or
// shape-mismatched relation fails with *dataset.NoSuchRelationError (quiet);
// a relation pointing at an identifier absent from the dataset fails with
// *dataset.NotFoundError (user-visible). The position only moves when the
// whole resolution succeeds.
func (s *Session) GotoLinked(relation string, takeFirst bool) (*dataset.Card, int, error) {
	c, _, ok := s.Current()
	if !ok {
		return nil, 0, ErrNoData
	}
	id, err := dataset.ResolveLink(c, relation, takeFirst)
	if err != nil {
		return nil, 0, err
	}
	return s.GotoID(id)
}

// NextSetBoundary jumps forward to the first card of a different set.
// dataset.ErrNoBoundary means the cursor is already in the last set; the
// position is unchanged and callers stay quiet.
func (s *Session) NextSetBoundary() (*dataset.Card, int, error) {
	if s.ds == nil || s.ds.Len() == 0 {
		return nil, 0, ErrNoData
	}
	pos, err := s.ds.NextBoundary(s.pos)
	if err != nil {
		return nil, 0, err
	}
	s.pos = pos
	return s.ds.At(pos), pos, nil
}

// PrevSetBoundary jumps backward to the nearest card of a different set.
func (s *Session) PrevSetBoundary() (*dataset.Card, int, error) {
	if s.ds == nil || s.ds.Len() == 0 {
		return nil, 0, ErrNoData
	}
	pos, err := s.ds.PrevBoundary(s.pos)
	if err != nil {
		return nil, 0, err
	}
	s.pos = pos
	return s.ds.At(pos), pos, nil
}
