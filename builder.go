package keystone

import (
	"github.com/rs/zerolog"

	ecslog "pkg.world.dev/keystone/log"
	"pkg.world.dev/keystone/types"
)

// EntityBuilder attaches components to a freshly spawned entity before its
// id is handed out. It holds the world's write lock from Spawn until Build,
// so no other world access interleaves with the chain. Errors from the With
// chain are deferred and surface from Build.
type EntityBuilder struct {
	world *World
	id    types.EntityID
	built bool
	err   error
}

// With attaches value to the entity under construction, replacing any value
// of the same type attached earlier in the chain. The component type must
// already be registered; the package-level With is the typed variant that
// registers on first use.
func (b *EntityBuilder) With(value types.Component) *EntityBuilder {
	b.checkUsable()
	if b.err != nil {
		return b
	}
	if err := b.world.registry.insertValue(b.id, value); err != nil {
		b.err = err
		return b
	}
	b.logAttached(value.Name())
	return b
}

// Build releases the exclusive hold and returns the entity id, which stays
// valid for all subsequent lookups. If any link of the With chain failed,
// Build reports the first failure; the entity is still live with whatever
// did attach. The builder must not be used again after Build.
func (b *EntityBuilder) Build() (types.EntityID, error) {
	b.checkUsable()
	b.built = true
	b.world.writeLock = false
	ecslog.Entity(&b.world.Logger, zerolog.DebugLevel, b.id, b.world.registry.metadataFor(b.id))
	return b.id, b.err
}

func (b *EntityBuilder) checkUsable() {
	if b.built {
		panic("keystone: entity builder used after Build")
	}
}

func (b *EntityBuilder) logAttached(componentName string) {
	b.world.Logger.Debug().
		Uint64("entity_id", uint64(b.id)).
		Str("component_name", componentName).
		Msg("entity updated")
}

// With attaches value to the entity under construction, registering the
// component type on first use.
func With[T types.Component](b *EntityBuilder, value T) *EntityBuilder {
	b.checkUsable()
	if b.err != nil {
		return b
	}
	s, err := storeFor[T](b.world)
	if err != nil {
		b.err = err
		return b
	}
	s.insert(b.id, value)
	b.logAttached(s.meta.Name())
	return b
}
