package keystone

import (
	"github.com/rotisserie/eris"

	"pkg.world.dev/keystone/component"
	"pkg.world.dev/keystone/types"
)

// registry routes typed operations to the correct per-type store. All
// routing is by component name alone; the registry never special-cases
// which concrete types exist, so new component types require no changes
// here. Stores come into existence on registration, which happens lazily
// on a type's first insert when the caller didn't register up front.
type registry struct {
	manager    *component.Manager
	containers map[types.ComponentID]container
	order      []types.ComponentID
}

func newRegistry() *registry {
	return &registry{
		manager:    component.NewManager(),
		containers: make(map[types.ComponentID]container),
	}
}

// register binds metadata and its freshly created container. The manager
// rejects duplicate registrations and name collisions, so a name can never
// route to two stores.
func (r *registry) register(meta types.ComponentMetadata, c container) error {
	if err := r.manager.Register(meta); err != nil {
		return err
	}
	r.containers[meta.ID()] = c
	r.order = append(r.order, meta.ID())
	return nil
}

// containerByName resolves a component name to its container.
func (r *registry) containerByName(name string) (container, bool) {
	meta, err := r.manager.GetComponentByName(name)
	if err != nil {
		return nil, false
	}
	c, ok := r.containers[meta.ID()]
	return c, ok
}

// insertValue routes an interface-typed component value to its store. The
// component type must already be registered; the typed generic paths
// register on first use, but an erased value carries no type parameter to
// register with.
func (r *registry) insertValue(id types.EntityID, comp types.Component) error {
	c, ok := r.containerByName(comp.Name())
	if !ok {
		return eris.Wrap(component.ErrComponentNotRegistered, comp.Name())
	}
	return c.insertValue(id, comp)
}

// removeAll removes id's component from every store that holds one, running
// disposers as it goes. Stores are swept in registration order.
func (r *registry) removeAll(id types.EntityID) {
	for _, cid := range r.order {
		r.containers[cid].remove(id)
	}
}

// removeType tears down one type's store, disposing its remaining values,
// and forgets the registration. The name becomes registrable again.
// Removing an unknown name is a no-op.
func (r *registry) removeType(name string) bool {
	meta, err := r.manager.GetComponentByName(name)
	if err != nil {
		return false
	}
	id := meta.ID()
	if c, ok := r.containers[id]; ok {
		c.teardown()
		delete(r.containers, id)
	}
	for i, cid := range r.order {
		if cid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.manager.Unregister(name)
	return true
}

// teardownAll tears down every store in registration order, disposing all
// remaining component values. Registrations survive; only stored values go.
func (r *registry) teardownAll() {
	for _, cid := range r.order {
		r.containers[cid].teardown()
	}
}

// metadataFor collects the metadata of every component attached to id, in
// registration order. This is the component set filters match against and
// the shape entity logging reports.
func (r *registry) metadataFor(id types.EntityID) []types.ComponentMetadata {
	var comps []types.ComponentMetadata
	for _, cid := range r.order {
		c := r.containers[cid]
		if c.has(id) {
			comps = append(comps, c.metadata())
		}
	}
	return comps
}

// storeFor returns T's typed store, registering the type with default
// metadata on first use. Only mutation paths call this; reads go through
// readStoreFor so a lookup never creates a store.
func storeFor[T types.Component](w *World) (*store[T], error) {
	var t T
	meta, err := w.registry.manager.GetComponentByName(t.Name())
	if err != nil {
		m, err := component.NewComponentMetadata[T]()
		if err != nil {
			return nil, err
		}
		s := newStore[T](m)
		if err := w.registry.register(m, s); err != nil {
			return nil, err
		}
		w.logComponentRegistered(m)
		return s, nil
	}

	c, ok := w.registry.containers[meta.ID()]
	if !ok {
		return nil, eris.Errorf("component %q has no store", meta.Name())
	}
	typed, ok := c.(*store[T])
	if !ok {
		return nil, eris.Errorf(
			"component name %q routes to type %v, not %T",
			meta.Name(), meta.TypeOf(), t,
		)
	}
	return typed, nil
}

// readStoreFor resolves T's store without ever creating one. A type that
// was never inserted has no store, which reads surface as absent.
func readStoreFor[T types.Component](w *World) (*store[T], bool) {
	var t T
	c, ok := w.registry.containerByName(t.Name())
	if !ok {
		return nil, false
	}
	typed, ok := c.(*store[T])
	if !ok {
		return nil, false
	}
	return typed, true
}
