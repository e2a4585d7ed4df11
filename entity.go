package keystone

import (
	"time"

	"pkg.world.dev/keystone/statsd"
	"pkg.world.dev/keystone/types"
)

// Create creates a single entity in the world with the given components
// attached, and returns the id of the newly created entity. All component
// types must be registered beforehand; use the builder with the typed With
// for self-registering attachment.
func Create(w *World, components ...types.Component) (types.EntityID, error) {
	ids, err := CreateMany(w, 1, components...)
	if err != nil {
		return 0, err
	}
	return ids[0], nil
}

// CreateMany creates num entities in the world, each with the given
// components attached, and returns the ids of the newly created entities.
func CreateMany(w *World, num int, components ...types.Component) ([]types.EntityID, error) {
	start := time.Now()
	ids := make([]types.EntityID, 0, num)
	for i := 0; i < num; i++ {
		builder, err := w.Spawn()
		if err != nil {
			return nil, err
		}
		for _, comp := range components {
			builder = builder.With(comp)
		}
		id, err := builder.Build()
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	statsd.EmitLifecycleStat(start, "create")
	return ids, nil
}

// Remove removes the given entity from the world: every component it owns is
// destroyed (disposers run once per attached type) and the id leaves the
// live list. Removing an unknown or already-removed id is a no-op.
func Remove(w *World, id types.EntityID) error {
	if err := w.checkStructural("despawn"); err != nil {
		return err
	}
	start := time.Now()
	w.despawn(id)
	statsd.EmitLifecycleStat(start, "despawn")
	return nil
}

// SetComponent attaches a component value to the entity, replacing any
// previous value of that type. A replaced value is disposed before the new
// one becomes observable. The component type is registered on first use.
// Stores do not track entity liveness: setting a component on a despawned
// id stores a value only despawn can reclaim.
func SetComponent[T types.Component](w *World, id types.EntityID, component T) error {
	if err := w.checkStructural("set component"); err != nil {
		return err
	}
	s, err := storeFor[T](w)
	if err != nil {
		return err
	}
	s.insert(id, component)
	w.Logger.Debug().
		Uint64("entity_id", uint64(id)).
		Str("component_name", s.meta.Name()).
		Int("component_id", int(s.meta.ID())).
		Msg("entity updated")
	return nil
}

// GetComponent returns a copy of the entity's component value. A missing
// component, a missing entity, and a never-used component type all come
// back as ok == false; absence is never an error.
func GetComponent[T types.Component](w *World, id types.EntityID) (T, bool) {
	s, ok := readStoreFor[T](w)
	if !ok {
		var zero T
		return zero, false
	}
	return s.get(id)
}

// MutComponent returns a mutable reference to the entity's component value.
// Writes through it are observed by every subsequent read. The pointer is
// valid until the next structural change of that component's store.
func MutComponent[T types.Component](w *World, id types.EntityID) (*T, bool) {
	s, ok := readStoreFor[T](w)
	if !ok {
		return nil, false
	}
	return s.ref(id)
}

// HasComponent reports whether the entity currently holds a T. This works
// uniformly for zero-size marker components.
func HasComponent[T types.Component](w *World, id types.EntityID) bool {
	s, ok := readStoreFor[T](w)
	if !ok {
		return false
	}
	return s.has(id)
}

// UpdateComponent applies fn to the entity's component value in place.
// It reports whether the component was present.
func UpdateComponent[T types.Component](w *World, id types.EntityID, fn func(*T)) bool {
	s, ok := readStoreFor[T](w)
	if !ok {
		return false
	}
	ref, ok := s.ref(id)
	if !ok {
		return false
	}
	fn(ref)
	w.Logger.Debug().
		Uint64("entity_id", uint64(id)).
		Str("component_name", s.meta.Name()).
		Int("component_id", int(s.meta.ID())).
		Msg("entity updated")
	return true
}

// RemoveComponentFrom detaches a component from an entity, disposing its
// value. Removing a component the entity doesn't hold is a no-op.
func RemoveComponentFrom[T types.Component](w *World, id types.EntityID) error {
	if err := w.checkStructural("remove component"); err != nil {
		return err
	}
	s, ok := readStoreFor[T](w)
	if !ok {
		return nil
	}
	if s.remove(id) {
		w.Logger.Debug().
			Uint64("entity_id", uint64(id)).
			Str("component_name", s.meta.Name()).
			Int("component_id", int(s.meta.ID())).
			Msg("component removed")
	}
	return nil
}
