package keystone

import (
	"testing"

	"pkg.world.dev/keystone/assert"
	"pkg.world.dev/keystone/component"
	"pkg.world.dev/keystone/types"
)

type Temperature struct {
	Deg int
}

func (Temperature) Name() string { return "temperature" }

type Sticker struct{}

func (Sticker) Name() string { return "sticker" }

func newTemperatureStore(t *testing.T, disposed *[]Temperature) *store[Temperature] {
	t.Helper()
	meta, err := component.NewComponentMetadata[Temperature](
		component.WithDisposer(func(val Temperature) {
			*disposed = append(*disposed, val)
		}),
	)
	assert.NilError(t, err)
	return newStore[Temperature](meta)
}

// checkDense verifies the slot table is a gapless permutation of the dense
// buffer indices and that owners mirrors it.
func checkDense[T types.Component](t *testing.T, s *store[T]) {
	t.Helper()
	assert.Equal(t, len(s.values), len(s.owners))
	assert.Equal(t, len(s.values), len(s.slots))
	for id, slot := range s.slots {
		assert.Assert(t, slot >= 0 && slot < len(s.values), "slot %d out of range", slot)
		assert.Equal(t, id, s.owners[slot])
	}
}

func TestStoreInsertKeepsValuesDense(t *testing.T) {
	var disposed []Temperature
	s := newTemperatureStore(t, &disposed)

	s.insert(10, Temperature{Deg: 1})
	s.insert(20, Temperature{Deg: 2})
	s.insert(30, Temperature{Deg: 3})

	assert.Equal(t, 3, s.count())
	checkDense(t, s)

	got, ok := s.get(20)
	assert.True(t, ok)
	assert.Equal(t, 2, got.Deg)
	assert.Len(t, disposed, 0)
}

func TestStoreReplaceDisposesOldValueInPlace(t *testing.T) {
	var disposed []Temperature
	s := newTemperatureStore(t, &disposed)

	s.insert(10, Temperature{Deg: 1})
	s.insert(20, Temperature{Deg: 2})
	slotBefore := s.slots[10]

	s.insert(10, Temperature{Deg: 99})

	// The old value is destroyed exactly once, before the new one became
	// observable, and the slot did not move.
	assert.Len(t, disposed, 1)
	assert.Equal(t, 1, disposed[0].Deg)
	assert.Equal(t, slotBefore, s.slots[10])
	assert.Equal(t, 2, s.count())

	got, ok := s.get(10)
	assert.True(t, ok)
	assert.Equal(t, 99, got.Deg)
	checkDense(t, s)
}

func TestStoreRemoveExcisesAndRenumbers(t *testing.T) {
	var disposed []Temperature
	s := newTemperatureStore(t, &disposed)

	s.insert(10, Temperature{Deg: 1})
	s.insert(20, Temperature{Deg: 2})
	s.insert(30, Temperature{Deg: 3})
	s.insert(40, Temperature{Deg: 4})

	assert.True(t, s.remove(20))

	assert.Len(t, disposed, 1)
	assert.Equal(t, 2, disposed[0].Deg)
	assert.Equal(t, 3, s.count())
	assert.False(t, s.has(20))
	checkDense(t, s)

	// Remaining values keep their relative order.
	assert.DeepEqual(t, []types.EntityID{10, 30, 40}, s.owners)
	assert.Equal(t, 1, s.values[0].Deg)
	assert.Equal(t, 3, s.values[1].Deg)
	assert.Equal(t, 4, s.values[2].Deg)

	// Removing an absent id is a no-op.
	assert.False(t, s.remove(20))
	assert.Len(t, disposed, 1)
}

func TestStoreRemoveLastSlot(t *testing.T) {
	var disposed []Temperature
	s := newTemperatureStore(t, &disposed)

	s.insert(10, Temperature{Deg: 1})
	s.insert(20, Temperature{Deg: 2})

	assert.True(t, s.remove(20))
	assert.Equal(t, 1, s.count())
	checkDense(t, s)

	assert.True(t, s.remove(10))
	assert.Equal(t, 0, s.count())
	assert.Len(t, disposed, 2)
}

func TestStoreTeardownDisposesEverythingOnce(t *testing.T) {
	var disposed []Temperature
	s := newTemperatureStore(t, &disposed)

	s.insert(10, Temperature{Deg: 1})
	s.insert(20, Temperature{Deg: 2})
	s.insert(30, Temperature{Deg: 3})

	s.teardown()

	assert.Len(t, disposed, 3)
	assert.Equal(t, 0, s.count())
	assert.False(t, s.has(10))

	// The store stays usable after teardown.
	s.insert(40, Temperature{Deg: 4})
	assert.Equal(t, 1, s.count())
	checkDense(t, s)
}

func TestStoreZeroSizeComponent(t *testing.T) {
	var count int
	meta, err := component.NewComponentMetadata[Sticker](
		component.WithDisposer(func(Sticker) { count++ }),
	)
	assert.NilError(t, err)
	assert.Equal(t, uintptr(0), meta.Size())

	s := newStore[Sticker](meta)
	s.insert(1, Sticker{})
	s.insert(2, Sticker{})

	// Presence tracking works the same as for sized components.
	assert.True(t, s.has(1))
	assert.Equal(t, 2, s.count())
	checkDense(t, s)

	assert.True(t, s.remove(1))
	assert.Equal(t, 1, count)
	assert.False(t, s.has(1))
	assert.True(t, s.has(2))
}

func TestStoreInsertValueRejectsForeignType(t *testing.T) {
	var disposed []Temperature
	s := newTemperatureStore(t, &disposed)

	err := s.insertValue(1, Sticker{})
	assert.IsError(t, err)
	assert.Equal(t, 0, s.count())

	assert.NilError(t, s.insertValue(1, Temperature{Deg: 7}))
	got, ok := s.get(1)
	assert.True(t, ok)
	assert.Equal(t, 7, got.Deg)
}
