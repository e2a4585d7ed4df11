package keystone_test

import (
	"testing"

	"pkg.world.dev/keystone"
	"pkg.world.dev/keystone/assert"
	"pkg.world.dev/keystone/types"
)

type Position struct {
	X, Y float64
}

func (Position) Name() string { return "position" }

type Velocity struct {
	DX, DY float64
}

func (Velocity) Name() string { return "velocity" }

type Marker struct{}

func (Marker) Name() string { return "marker" }

func TestQueryJoinsOnlyEntitiesHoldingEveryType(t *testing.T) {
	world := newWorld(t)

	plain, err := keystone.Create(world)
	assert.NilError(t, err)
	assert.NilError(t, keystone.SetComponent(world, plain, Position{X: 2, Y: 3}))

	marked, err := keystone.Create(world)
	assert.NilError(t, err)
	assert.NilError(t, keystone.SetComponent(world, marked, Position{X: 9, Y: 1}))
	assert.NilError(t, keystone.SetComponent(world, marked, Marker{}))

	// The single-type query sees both entities, in spawn order.
	var seen []types.EntityID
	for row := range keystone.Query[Position](world) {
		seen = append(seen, row.Entity)
	}
	assert.DeepEqual(t, []types.EntityID{plain, marked}, seen)

	// The two-type join silently skips the entity without a marker.
	seen = nil
	for row := range keystone.Query2[Position, Marker](world) {
		seen = append(seen, row.Entity)
		assert.Equal(t, 9.0, row.Get1().X)
	}
	assert.DeepEqual(t, []types.EntityID{marked}, seen)
}

func TestQueryVisitsInSpawnOrder(t *testing.T) {
	world := newWorld(t)

	var want []types.EntityID
	for i := 0; i < 3; i++ {
		id, err := keystone.Create(world)
		assert.NilError(t, err)
		assert.NilError(t, keystone.SetComponent(world, id, Position{X: float64(i)}))
		want = append(want, id)
	}

	var got []types.EntityID
	for row := range keystone.Query[Position](world) {
		got = append(got, row.Entity)
	}
	assert.DeepEqual(t, want, got)
}

func TestQueryWritesAreObservedByLaterReads(t *testing.T) {
	world := newWorld(t)

	id, err := keystone.Create(world)
	assert.NilError(t, err)
	assert.NilError(t, keystone.SetComponent(world, id, Position{X: 1, Y: 1}))
	assert.NilError(t, keystone.SetComponent(world, id, Velocity{DX: 0, DY: 0}))

	for row := range keystone.Query2[Position, Velocity](world) {
		pos := row.Mut1()
		pos.X = 69
		pos.Y = 420
	}

	got, ok := keystone.GetComponent[Position](world, id)
	assert.True(t, ok)
	assert.Equal(t, 69.0, got.X)
	assert.Equal(t, 420.0, got.Y)

	for row := range keystone.Query[Position](world) {
		assert.Equal(t, Position{X: 69, Y: 420}, row.Get())
	}
}

func TestQueryOverUnusedTypeYieldsNothing(t *testing.T) {
	world := newWorld(t)

	id, err := keystone.Create(world)
	assert.NilError(t, err)
	assert.NilError(t, keystone.SetComponent(world, id, Position{}))

	// Velocity has no store at all; the join is empty rather than an error.
	count := 0
	for range keystone.Query2[Position, Velocity](world) {
		count++
	}
	assert.Equal(t, 0, count)
}

func TestQueryThreeTypeJoin(t *testing.T) {
	world := newWorld(t)

	full, err := keystone.Create(world)
	assert.NilError(t, err)
	assert.NilError(t, keystone.SetComponent(world, full, Position{X: 1}))
	assert.NilError(t, keystone.SetComponent(world, full, Velocity{DX: 2}))
	assert.NilError(t, keystone.SetComponent(world, full, Marker{}))

	partial, err := keystone.Create(world)
	assert.NilError(t, err)
	assert.NilError(t, keystone.SetComponent(world, partial, Position{X: 3}))
	assert.NilError(t, keystone.SetComponent(world, partial, Velocity{DX: 4}))

	var seen []types.EntityID
	for row := range keystone.Query3[Position, Velocity, Marker](world) {
		seen = append(seen, row.Entity)
		assert.Equal(t, 1.0, row.Get1().X)
		assert.Equal(t, 2.0, row.Get2().DX)
	}
	assert.DeepEqual(t, []types.EntityID{full}, seen)
}

func TestQueryDuplicateTypePanics(t *testing.T) {
	world := newWorld(t)

	assert.Panics(t, func() {
		keystone.Query2[Position, Position](world)
	})
	assert.Panics(t, func() {
		keystone.Query3[Position, Velocity, Position](world)
	})
}

func TestQueryEarlyStopReleasesTheWorld(t *testing.T) {
	world := newWorld(t)

	for i := 0; i < 3; i++ {
		id, err := keystone.Create(world)
		assert.NilError(t, err)
		assert.NilError(t, keystone.SetComponent(world, id, Position{}))
	}

	visited := 0
	for range keystone.Query[Position](world) {
		visited++
		break
	}
	assert.Equal(t, 1, visited)

	// Breaking out released the read lock; structural mutation works again.
	_, err := keystone.Create(world)
	assert.NilError(t, err)

	// Ranging the same sequence again starts a fresh pass.
	seq := keystone.Query[Position](world)
	first, second := 0, 0
	for range seq {
		first++
	}
	for range seq {
		second++
	}
	assert.Equal(t, 3, first)
	assert.Equal(t, first, second)
}

func TestStructuralMutationInsideQueryFails(t *testing.T) {
	world := newWorld(t)

	id, err := keystone.Create(world)
	assert.NilError(t, err)
	assert.NilError(t, keystone.SetComponent(world, id, Position{}))

	for row := range keystone.Query[Position](world) {
		assert.ErrorIs(t, keystone.Remove(world, row.Entity), keystone.ErrStoreLocked)
		assert.ErrorIs(t, keystone.RemoveComponentFrom[Position](world, row.Entity), keystone.ErrStoreLocked)

		// Value writes through the row stay legal.
		row.Mut().X = 5
	}

	got, _ := keystone.GetComponent[Position](world, id)
	assert.Equal(t, 5.0, got.X)
}

func TestQueryRowEvaluatesASingleEntity(t *testing.T) {
	world := newWorld(t)

	plain, err := keystone.Create(world)
	assert.NilError(t, err)
	assert.NilError(t, keystone.SetComponent(world, plain, Position{X: 2, Y: 3}))

	marked, err := keystone.Create(world)
	assert.NilError(t, err)
	assert.NilError(t, keystone.SetComponent(world, marked, Position{X: 9, Y: 1}))
	assert.NilError(t, keystone.SetComponent(world, marked, Marker{}))

	row, ok := keystone.QueryRow2[Position, Marker](world, marked)
	assert.True(t, ok)
	assert.Equal(t, Position{X: 9, Y: 1}, row.Get1())

	_, ok = keystone.QueryRow2[Position, Marker](world, plain)
	assert.False(t, ok)

	single, ok := keystone.QueryRow[Position](world, plain)
	assert.True(t, ok)
	assert.Equal(t, Position{X: 2, Y: 3}, single.Get())

	_, ok = keystone.QueryRow[Position](world, 12345)
	assert.False(t, ok)
}
