package keystone

import (
	"github.com/rotisserie/eris"

	"pkg.world.dev/keystone/types"
)

// container is the type-erased face of a dense store. The registry routes
// whole-entity operations (despawn sweeps, presence checks, teardown)
// through it; all typed value access stays behind the concrete store, so
// erasure never reaches the storage manipulation itself.
type container interface {
	metadata() types.ComponentMetadata
	insertValue(id types.EntityID, value types.Component) error
	has(id types.EntityID) bool
	remove(id types.EntityID) bool
	count() int
	teardown()
}

// store holds every instance of exactly one component type in a single dense
// slice. slots maps an entity to its index in values, and owners mirrors
// values with the owning entity per slot, so with n live entries the slot
// indices are always a gapless permutation of 0..n.
type store[T types.Component] struct {
	meta   types.ComponentMetadata
	values []T
	owners []types.EntityID
	slots  map[types.EntityID]int
}

func newStore[T types.Component](meta types.ComponentMetadata) *store[T] {
	return &store[T]{
		meta:  meta,
		slots: make(map[types.EntityID]int),
	}
}

func (s *store[T]) metadata() types.ComponentMetadata {
	return s.meta
}

// get returns a copy of id's component value.
func (s *store[T]) get(id types.EntityID) (T, bool) {
	i, ok := s.slots[id]
	if !ok {
		var zero T
		return zero, false
	}
	return s.values[i], true
}

// ref returns a pointer into the dense buffer. It stays valid until the next
// structural change of this store; the world's iteration guard keeps query
// rows inside that window.
func (s *store[T]) ref(id types.EntityID) (*T, bool) {
	i, ok := s.slots[id]
	if !ok {
		return nil, false
	}
	return &s.values[i], true
}

func (s *store[T]) has(id types.EntityID) bool {
	_, ok := s.slots[id]
	return ok
}

func (s *store[T]) count() int {
	return len(s.slots)
}

// insert attaches value to id, replacing any previous value. A replaced
// value is disposed in place before it is overwritten and keeps its slot.
// New ids append at the end of the dense buffer. After insert the store owns
// the value; the caller's copy is just a copy.
func (s *store[T]) insert(id types.EntityID, value T) {
	if i, ok := s.slots[id]; ok {
		s.meta.Dispose(s.values[i])
		s.values[i] = value
		return
	}
	s.slots[id] = len(s.values)
	s.values = append(s.values, value)
	s.owners = append(s.owners, id)
}

// insertValue is the erased entry point used by the registry for values that
// arrive as interfaces. The type assertion cannot fail for values routed
// through registration, which rejects name collisions.
func (s *store[T]) insertValue(id types.EntityID, value types.Component) error {
	v, ok := value.(T)
	if !ok {
		return eris.Errorf(
			"component %q cannot be stored: value type %T does not match registered type",
			s.meta.Name(), value,
		)
	}
	s.insert(id, v)
	return nil
}

// remove disposes id's value and excises its slot, shifting the tail left
// one position and renumbering the shifted slots so the dense invariant
// holds. Removing an absent id is a no-op.
func (s *store[T]) remove(id types.EntityID) bool {
	i, ok := s.slots[id]
	if !ok {
		return false
	}
	s.meta.Dispose(s.values[i])

	last := len(s.values) - 1
	copy(s.values[i:], s.values[i+1:])
	copy(s.owners[i:], s.owners[i+1:])
	var zero T
	s.values[last] = zero
	s.values = s.values[:last]
	s.owners = s.owners[:last]

	delete(s.slots, id)
	for j := i; j < len(s.owners); j++ {
		s.slots[s.owners[j]] = j
	}
	return true
}

// teardown disposes every remaining value exactly once and empties the store.
func (s *store[T]) teardown() {
	for i := range s.values {
		s.meta.Dispose(s.values[i])
	}
	s.values = nil
	s.owners = nil
	clear(s.slots)
}
