// Package keystone is an in-memory entity-component store. Component values
// live in one dense, contiguous store per concrete type; a type-keyed
// registry routes every operation, and a query layer joins any number of
// component types per entity. The world is single-goroutine: iterators and
// entity builders lock out structural mutation while they are live.
package keystone

import (
	"pkg.world.dev/keystone/component"
	"pkg.world.dev/keystone/filter"
	"pkg.world.dev/keystone/types"
)

type (
	// EntityID represents a single entity in the World.
	EntityID    = types.EntityID
	ComponentID = types.ComponentID
	Component   = types.Component
)

// Shape filters, re-exported for the common case. The boolean combinators
// keep their package to avoid clashing with the search compositions And,
// Or and Not; compose filters through filter.And and friends.
var (
	All      = filter.All
	Contains = filter.Contains
	Exact    = filter.Exact
)

// RegisterComponent registers the component type T with the world. Typed
// paths register on first use, so calling this up front is only required to
// pass options (a disposer, a name override) or to pre-declare types for
// the interface-typed attach paths (EntityBuilder.With, Create).
func RegisterComponent[T types.Component](w *World, opts ...component.Option[T]) error {
	if err := w.checkStructural("register component"); err != nil {
		return err
	}
	meta, err := component.NewComponentMetadata[T](opts...)
	if err != nil {
		return err
	}
	s := newStore[T](meta)
	if err := w.registry.register(meta, s); err != nil {
		return err
	}
	w.logComponentRegistered(meta)
	return nil
}

// RemoveType discards T's entire store: every remaining component value is
// disposed and the registration is forgotten, so the name can be registered
// again. Removing a type that was never registered is a no-op.
func RemoveType[T types.Component](w *World) error {
	if err := w.checkStructural("remove type"); err != nil {
		return err
	}
	var t T
	if w.registry.removeType(t.Name()) {
		w.Logger.Debug().Str("component_name", t.Name()).Msg("component type removed")
	}
	return nil
}
