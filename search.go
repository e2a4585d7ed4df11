package keystone

import (
	"github.com/rotisserie/eris"

	"pkg.world.dev/keystone/filter"
	"pkg.world.dev/keystone/types"
)

// CallbackFn is called by Search.Each for every matching entity. Returning
// false stops the iteration.
type CallbackFn func(types.EntityID) bool

// Search finds entities by the shape of their attached components rather
// than by a fixed type list, so it serves joins of any arity. Matching
// walks the live entities in registration order and tests each entity's
// component set against the filter, then against any Where predicates.
type Search struct {
	w          *World
	compFilter filter.ComponentFilter
	whereFns   []FilterFn
}

// NewSearch creates a search over the world for entities whose component
// sets match the given filter.
func NewSearch(w *World, compFilter filter.ComponentFilter) *Search {
	return &Search{w: w, compFilter: compFilter}
}

// Where narrows the search with a predicate over component values. The
// receiver is not modified; the returned search carries the extra
// predicate. An entity passes only if every predicate passes.
func (s *Search) Where(fn FilterFn) *Search {
	fns := make([]FilterFn, 0, len(s.whereFns)+1)
	fns = append(fns, s.whereFns...)
	fns = append(fns, fn)
	return &Search{w: s.w, compFilter: s.compFilter, whereFns: fns}
}

func (s *Search) world() *World { return s.w }

// Each executes the callback on every entity that matches the search, in
// registration order. If the callback returns false, no more entities are
// processed. The world is read locked for the duration, so structural
// mutation inside the callback fails with ErrStoreLocked.
func (s *Search) Each(callback CallbackFn) error {
	if s.w.writeLock {
		return eris.Wrap(ErrStoreLocked, "search")
	}
	s.w.readLocks++
	defer func() { s.w.readLocks-- }()

	for _, id := range s.w.entities {
		match, err := s.matches(id)
		if err != nil {
			return err
		}
		if !match {
			continue
		}
		if !callback(id) {
			return nil
		}
	}
	return nil
}

func (s *Search) matches(id types.EntityID) (bool, error) {
	metas := s.w.registry.metadataFor(id)
	if !s.compFilter.MatchesComponents(types.ConvertComponentMetadatasToComponents(metas)) {
		return false, nil
	}
	for _, fn := range s.whereFns {
		pass, err := fn(s.w, id)
		if err != nil {
			return false, err
		}
		if !pass {
			return false, nil
		}
	}
	return true, nil
}

func (s *Search) collect() ([]types.EntityID, error) {
	var ids []types.EntityID
	err := s.Each(func(id types.EntityID) bool {
		ids = append(ids, id)
		return true
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Count returns the number of entities that match the search.
func (s *Search) Count() (int, error) {
	count := 0
	err := s.Each(func(types.EntityID) bool {
		count++
		return true
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// First returns the first entity that matches the search.
func (s *Search) First() (types.EntityID, error) {
	found := false
	var first types.EntityID
	err := s.Each(func(id types.EntityID) bool {
		first = id
		found = true
		return false
	})
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, eris.New("No search results")
	}
	return first, nil
}

// MustFirst returns the first entity that matches the search and panics if
// there is none.
func (s *Search) MustFirst() types.EntityID {
	id, err := s.First()
	if err != nil {
		panic("no search results")
	}
	return id
}
