package keystone

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"

	"pkg.world.dev/keystone/assert"
	"pkg.world.dev/keystone/component"
	"pkg.world.dev/keystone/types"
)

type Fuel struct {
	Liters int
}

func (Fuel) Name() string { return "fuel" }

type Hull struct {
	Plates int
}

func (Hull) Name() string { return "hull" }

func newTestWorld(t *testing.T, opts ...WorldOption) *World {
	t.Helper()
	opts = append([]WorldOption{WithLogger(zerolog.Nop())}, opts...)
	world, err := NewWorld(opts...)
	assert.NilError(t, err)
	return world
}

func collectEntities(t *testing.T, w *World) []types.EntityID {
	t.Helper()
	var ids []types.EntityID
	for id := range w.Entities() {
		ids = append(ids, id)
	}
	return ids
}

func TestWorldSpawnAssignsMonotonicIDs(t *testing.T) {
	world := newTestWorld(t)

	var ids []types.EntityID
	for i := 0; i < 5; i++ {
		builder, err := world.Spawn()
		assert.NilError(t, err)
		id, err := builder.Build()
		assert.NilError(t, err)
		ids = append(ids, id)
	}

	for i := 1; i < len(ids); i++ {
		assert.Assert(t, ids[i] > ids[i-1], "ids must be strictly increasing")
	}
	assert.Equal(t, 5, world.Len())
}

func TestDespawnedIDIsNeverReused(t *testing.T) {
	world := newTestWorld(t)

	first, err := Create(world)
	assert.NilError(t, err)
	assert.NilError(t, Remove(world, first))

	second, err := Create(world)
	assert.NilError(t, err)
	assert.Assert(t, second > first)
}

func TestEntitiesIterateInRegistrationOrder(t *testing.T) {
	world := newTestWorld(t)

	e0, err := Create(world)
	assert.NilError(t, err)
	e1, err := Create(world)
	assert.NilError(t, err)
	e2, err := Create(world)
	assert.NilError(t, err)

	assert.DeepEqual(t, []types.EntityID{e0, e1, e2}, collectEntities(t, world))

	assert.NilError(t, Remove(world, e1))
	assert.DeepEqual(t, []types.EntityID{e0, e2}, collectEntities(t, world))
	assert.False(t, world.Alive(e1))
	assert.True(t, world.Alive(e0))
	assert.True(t, world.Alive(e2))
}

func TestRemoveUnknownEntityIsNoOp(t *testing.T) {
	world := newTestWorld(t)

	id, err := Create(world)
	assert.NilError(t, err)

	assert.NilError(t, Remove(world, 9999))
	assert.NilError(t, Remove(world, id))
	assert.NilError(t, Remove(world, id))
	assert.Equal(t, 0, world.Len())
}

func TestDespawnRunsEveryDisposerAndClearsLookups(t *testing.T) {
	world := newTestWorld(t)

	var fuelDisposed, hullDisposed int
	assert.NilError(t, RegisterComponent[Fuel](world,
		component.WithDisposer(func(Fuel) { fuelDisposed++ })))
	assert.NilError(t, RegisterComponent[Hull](world,
		component.WithDisposer(func(Hull) { hullDisposed++ })))

	id, err := Create(world, Fuel{Liters: 50}, Hull{Plates: 8})
	assert.NilError(t, err)
	bystander, err := Create(world, Fuel{Liters: 10})
	assert.NilError(t, err)

	assert.NilError(t, Remove(world, id))

	assert.Equal(t, 1, fuelDisposed)
	assert.Equal(t, 1, hullDisposed)

	_, ok := GetComponent[Fuel](world, id)
	assert.False(t, ok)
	_, ok = GetComponent[Hull](world, id)
	assert.False(t, ok)
	assert.False(t, HasComponent[Fuel](world, id))

	// The other entity's state is untouched.
	fuel, ok := GetComponent[Fuel](world, bystander)
	assert.True(t, ok)
	assert.Equal(t, 10, fuel.Liters)
}

func TestStructuralMutationDuringIterationFails(t *testing.T) {
	world := newTestWorld(t)

	id, err := Create(world, Fuel{Liters: 1})
	assert.NilError(t, err)
	_, err = Create(world, Fuel{Liters: 2})
	assert.NilError(t, err)

	visited := 0
	for range world.Entities() {
		visited++
		assert.ErrorIs(t, Remove(world, id), ErrStoreLocked)
		assert.ErrorIs(t, SetComponent(world, id, Fuel{Liters: 3}), ErrStoreLocked)
		assert.ErrorIs(t, RemoveComponentFrom[Fuel](world, id), ErrStoreLocked)
		assert.ErrorIs(t, RegisterComponent[Hull](world), ErrStoreLocked)
		_, err := world.Spawn()
		assert.ErrorIs(t, err, ErrStoreLocked)
	}
	assert.Equal(t, 2, visited)

	// The lock is released once the loop ends, even on early exit.
	for range world.Entities() {
		break
	}
	assert.NilError(t, Remove(world, id))
}

func TestBuilderHoldsWorldExclusively(t *testing.T) {
	world := newTestWorld(t)

	builder, err := world.Spawn()
	assert.NilError(t, err)

	_, err = world.Spawn()
	assert.ErrorIs(t, err, ErrStoreLocked)
	_, err = Create(world)
	assert.ErrorIs(t, err, ErrStoreLocked)

	id, err := builder.Build()
	assert.NilError(t, err)
	assert.True(t, world.Alive(id))

	_, err = Create(world)
	assert.NilError(t, err)
}

func TestBuilderUseAfterBuildPanics(t *testing.T) {
	world := newTestWorld(t)

	builder, err := world.Spawn()
	assert.NilError(t, err)
	_, err = builder.Build()
	assert.NilError(t, err)

	assert.Panics(t, func() { _, _ = builder.Build() })
	assert.Panics(t, func() { builder.With(Fuel{}) })
}

func TestIterationWhileBuilderOpenPanics(t *testing.T) {
	world := newTestWorld(t)

	_, err := world.Spawn()
	assert.NilError(t, err)

	assert.Panics(t, func() {
		for range world.Entities() {
		}
	})
}

func TestBuilderWithUnregisteredComponentFailsAtBuild(t *testing.T) {
	world := newTestWorld(t)

	builder, err := world.Spawn()
	assert.NilError(t, err)
	_, err = builder.With(Fuel{Liters: 1}).Build()
	assert.ErrorIs(t, err, ErrComponentNotRegistered)
}

func TestTypedWithRegistersOnFirstUse(t *testing.T) {
	world := newTestWorld(t)

	builder, err := world.Spawn()
	assert.NilError(t, err)
	id, err := With(builder, Fuel{Liters: 7}).Build()
	assert.NilError(t, err)

	fuel, ok := GetComponent[Fuel](world, id)
	assert.True(t, ok)
	assert.Equal(t, 7, fuel.Liters)

	_, err = world.GetComponentByName("fuel")
	assert.NilError(t, err)
}

func TestShutdownDisposesRemainingValues(t *testing.T) {
	world := newTestWorld(t)

	var disposed int
	assert.NilError(t, RegisterComponent[Fuel](world,
		component.WithDisposer(func(Fuel) { disposed++ })))

	_, err := Create(world, Fuel{Liters: 1})
	assert.NilError(t, err)
	_, err = Create(world, Fuel{Liters: 2})
	assert.NilError(t, err)

	assert.NilError(t, world.Shutdown())
	assert.Equal(t, 2, disposed)
	assert.Equal(t, 0, world.Len())

	// Registrations survive: the world stays usable with the same types.
	id, err := Create(world, Fuel{Liters: 3})
	assert.NilError(t, err)
	fuel, ok := GetComponent[Fuel](world, id)
	assert.True(t, ok)
	assert.Equal(t, 3, fuel.Liters)

	// A second shutdown only sees the new value; nothing is disposed twice.
	assert.NilError(t, world.Shutdown())
	assert.Equal(t, 3, disposed)
}

func TestRemoveTypeDropsWholeStore(t *testing.T) {
	world := newTestWorld(t)

	var disposed int
	assert.NilError(t, RegisterComponent[Fuel](world,
		component.WithDisposer(func(Fuel) { disposed++ })))

	id, err := Create(world, Fuel{Liters: 1})
	assert.NilError(t, err)

	assert.NilError(t, RemoveType[Fuel](world))
	assert.Equal(t, 1, disposed)
	_, ok := GetComponent[Fuel](world, id)
	assert.False(t, ok)

	// The name is registrable again.
	assert.NilError(t, RegisterComponent[Fuel](world))
}

func TestWorldLogsEntityLifecycle(t *testing.T) {
	var buf bytes.Buffer
	world := newTestWorld(t, WithLogger(zerolog.New(&buf)))

	id, err := Create(world)
	assert.NilError(t, err)
	assert.NilError(t, Remove(world, id))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	assert.Assert(t, len(lines) >= 2)

	sawSpawn, sawRemove := false, false
	for _, line := range lines {
		values := map[string]any{}
		assert.NilError(t, json.Unmarshal(line, &values))
		switch values["message"] {
		case "entity spawned":
			sawSpawn = true
			assert.EqualValues(t, uint64(id), values["entity_id"])
		case "entity removed":
			sawRemove = true
		}
	}
	assert.True(t, sawSpawn)
	assert.True(t, sawRemove)
}
