package keystone

import (
	"iter"
	"strconv"

	"pkg.world.dev/keystone/types"
)

// The typed queries below are strict AND joins: an entity is yielded only if
// it holds every requested component type, and entities missing any of them
// are skipped silently. Iteration follows entity registration order, oldest
// first, and is lazy: each step is evaluated as the consumer advances.
// Store handles are resolved once when ranging begins; each step then costs
// one slot lookup per requested type. Every sequence holds a read lock on
// the world while it is being ranged, so structural mutation inside the
// loop fails with ErrStoreLocked; mutating component values through Mut
// accessors is fine. Ranging a returned sequence again issues a fresh pass.
//
// Arities above six are served by Search with a Contains filter, which
// joins any number of component types.

func componentName[T types.Component]() string {
	var t T
	return t.Name()
}

// mustDistinct rejects duplicate component types in one query's type list.
// Two rows over the same slot would alias the same dense buffer entry, so
// construction panics rather than leaving the aliasing latent.
func mustDistinct(names ...string) {
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			if names[i] == names[j] {
				panic("keystone: duplicate component type " + strconv.Quote(names[i]) + " in query")
			}
		}
	}
}

// Row binds one matched entity to its component for a single-type query.
type Row[T1 types.Component] struct {
	Entity types.EntityID
	s1     *store[T1]
	i1     int
}

// Get returns a copy of the component value.
func (r Row[T1]) Get() T1 { return r.s1.values[r.i1] }

// Mut returns a mutable reference to the component value. The reference is
// valid until the component or its entity is removed.
func (r Row[T1]) Mut() *T1 { return &r.s1.values[r.i1] }

// Row2 binds one matched entity to its two components.
type Row2[T1, T2 types.Component] struct {
	Entity types.EntityID
	s1     *store[T1]
	s2     *store[T2]
	i1, i2 int
}

func (r Row2[T1, T2]) Get1() T1  { return r.s1.values[r.i1] }
func (r Row2[T1, T2]) Mut1() *T1 { return &r.s1.values[r.i1] }
func (r Row2[T1, T2]) Get2() T2  { return r.s2.values[r.i2] }
func (r Row2[T1, T2]) Mut2() *T2 { return &r.s2.values[r.i2] }

// Row3 binds one matched entity to its three components.
type Row3[T1, T2, T3 types.Component] struct {
	Entity     types.EntityID
	s1         *store[T1]
	s2         *store[T2]
	s3         *store[T3]
	i1, i2, i3 int
}

func (r Row3[T1, T2, T3]) Get1() T1  { return r.s1.values[r.i1] }
func (r Row3[T1, T2, T3]) Mut1() *T1 { return &r.s1.values[r.i1] }
func (r Row3[T1, T2, T3]) Get2() T2  { return r.s2.values[r.i2] }
func (r Row3[T1, T2, T3]) Mut2() *T2 { return &r.s2.values[r.i2] }
func (r Row3[T1, T2, T3]) Get3() T3  { return r.s3.values[r.i3] }
func (r Row3[T1, T2, T3]) Mut3() *T3 { return &r.s3.values[r.i3] }

// Row4 binds one matched entity to its four components.
type Row4[T1, T2, T3, T4 types.Component] struct {
	Entity         types.EntityID
	s1             *store[T1]
	s2             *store[T2]
	s3             *store[T3]
	s4             *store[T4]
	i1, i2, i3, i4 int
}

func (r Row4[T1, T2, T3, T4]) Get1() T1  { return r.s1.values[r.i1] }
func (r Row4[T1, T2, T3, T4]) Mut1() *T1 { return &r.s1.values[r.i1] }
func (r Row4[T1, T2, T3, T4]) Get2() T2  { return r.s2.values[r.i2] }
func (r Row4[T1, T2, T3, T4]) Mut2() *T2 { return &r.s2.values[r.i2] }
func (r Row4[T1, T2, T3, T4]) Get3() T3  { return r.s3.values[r.i3] }
func (r Row4[T1, T2, T3, T4]) Mut3() *T3 { return &r.s3.values[r.i3] }
func (r Row4[T1, T2, T3, T4]) Get4() T4  { return r.s4.values[r.i4] }
func (r Row4[T1, T2, T3, T4]) Mut4() *T4 { return &r.s4.values[r.i4] }

// Row5 binds one matched entity to its five components.
type Row5[T1, T2, T3, T4, T5 types.Component] struct {
	Entity             types.EntityID
	s1                 *store[T1]
	s2                 *store[T2]
	s3                 *store[T3]
	s4                 *store[T4]
	s5                 *store[T5]
	i1, i2, i3, i4, i5 int
}

func (r Row5[T1, T2, T3, T4, T5]) Get1() T1  { return r.s1.values[r.i1] }
func (r Row5[T1, T2, T3, T4, T5]) Mut1() *T1 { return &r.s1.values[r.i1] }
func (r Row5[T1, T2, T3, T4, T5]) Get2() T2  { return r.s2.values[r.i2] }
func (r Row5[T1, T2, T3, T4, T5]) Mut2() *T2 { return &r.s2.values[r.i2] }
func (r Row5[T1, T2, T3, T4, T5]) Get3() T3  { return r.s3.values[r.i3] }
func (r Row5[T1, T2, T3, T4, T5]) Mut3() *T3 { return &r.s3.values[r.i3] }
func (r Row5[T1, T2, T3, T4, T5]) Get4() T4  { return r.s4.values[r.i4] }
func (r Row5[T1, T2, T3, T4, T5]) Mut4() *T4 { return &r.s4.values[r.i4] }
func (r Row5[T1, T2, T3, T4, T5]) Get5() T5  { return r.s5.values[r.i5] }
func (r Row5[T1, T2, T3, T4, T5]) Mut5() *T5 { return &r.s5.values[r.i5] }

// Row6 binds one matched entity to its six components.
type Row6[T1, T2, T3, T4, T5, T6 types.Component] struct {
	Entity                 types.EntityID
	s1                     *store[T1]
	s2                     *store[T2]
	s3                     *store[T3]
	s4                     *store[T4]
	s5                     *store[T5]
	s6                     *store[T6]
	i1, i2, i3, i4, i5, i6 int
}

func (r Row6[T1, T2, T3, T4, T5, T6]) Get1() T1  { return r.s1.values[r.i1] }
func (r Row6[T1, T2, T3, T4, T5, T6]) Mut1() *T1 { return &r.s1.values[r.i1] }
func (r Row6[T1, T2, T3, T4, T5, T6]) Get2() T2  { return r.s2.values[r.i2] }
func (r Row6[T1, T2, T3, T4, T5, T6]) Mut2() *T2 { return &r.s2.values[r.i2] }
func (r Row6[T1, T2, T3, T4, T5, T6]) Get3() T3  { return r.s3.values[r.i3] }
func (r Row6[T1, T2, T3, T4, T5, T6]) Mut3() *T3 { return &r.s3.values[r.i3] }
func (r Row6[T1, T2, T3, T4, T5, T6]) Get4() T4  { return r.s4.values[r.i4] }
func (r Row6[T1, T2, T3, T4, T5, T6]) Mut4() *T4 { return &r.s4.values[r.i4] }
func (r Row6[T1, T2, T3, T4, T5, T6]) Get5() T5  { return r.s5.values[r.i5] }
func (r Row6[T1, T2, T3, T4, T5, T6]) Mut5() *T5 { return &r.s5.values[r.i5] }
func (r Row6[T1, T2, T3, T4, T5, T6]) Get6() T6  { return r.s6.values[r.i6] }
func (r Row6[T1, T2, T3, T4, T5, T6]) Mut6() *T6 { return &r.s6.values[r.i6] }

// Query iterates the live entities holding a T1.
func Query[T1 types.Component](w *World) iter.Seq[Row[T1]] {
	return func(yield func(Row[T1]) bool) {
		w.acquireRead()
		defer w.releaseRead()
		s1, ok := readStoreFor[T1](w)
		if !ok {
			return
		}
		for _, id := range w.entities {
			i1, ok := s1.slots[id]
			if !ok {
				continue
			}
			if !yield(Row[T1]{Entity: id, s1: s1, i1: i1}) {
				return
			}
		}
	}
}

// Query2 iterates the live entities holding both a T1 and a T2.
func Query2[T1, T2 types.Component](w *World) iter.Seq[Row2[T1, T2]] {
	mustDistinct(componentName[T1](), componentName[T2]())
	return func(yield func(Row2[T1, T2]) bool) {
		w.acquireRead()
		defer w.releaseRead()
		s1, ok := readStoreFor[T1](w)
		if !ok {
			return
		}
		s2, ok := readStoreFor[T2](w)
		if !ok {
			return
		}
		for _, id := range w.entities {
			i1, ok := s1.slots[id]
			if !ok {
				continue
			}
			i2, ok := s2.slots[id]
			if !ok {
				continue
			}
			if !yield(Row2[T1, T2]{Entity: id, s1: s1, s2: s2, i1: i1, i2: i2}) {
				return
			}
		}
	}
}

// Query3 iterates the live entities holding all three component types.
func Query3[T1, T2, T3 types.Component](w *World) iter.Seq[Row3[T1, T2, T3]] {
	mustDistinct(componentName[T1](), componentName[T2](), componentName[T3]())
	return func(yield func(Row3[T1, T2, T3]) bool) {
		w.acquireRead()
		defer w.releaseRead()
		s1, ok := readStoreFor[T1](w)
		if !ok {
			return
		}
		s2, ok := readStoreFor[T2](w)
		if !ok {
			return
		}
		s3, ok := readStoreFor[T3](w)
		if !ok {
			return
		}
		for _, id := range w.entities {
			i1, ok := s1.slots[id]
			if !ok {
				continue
			}
			i2, ok := s2.slots[id]
			if !ok {
				continue
			}
			i3, ok := s3.slots[id]
			if !ok {
				continue
			}
			if !yield(Row3[T1, T2, T3]{
				Entity: id,
				s1:     s1, s2: s2, s3: s3,
				i1: i1, i2: i2, i3: i3,
			}) {
				return
			}
		}
	}
}

// Query4 iterates the live entities holding all four component types.
func Query4[T1, T2, T3, T4 types.Component](w *World) iter.Seq[Row4[T1, T2, T3, T4]] {
	mustDistinct(
		componentName[T1](), componentName[T2](),
		componentName[T3](), componentName[T4](),
	)
	return func(yield func(Row4[T1, T2, T3, T4]) bool) {
		w.acquireRead()
		defer w.releaseRead()
		s1, ok := readStoreFor[T1](w)
		if !ok {
			return
		}
		s2, ok := readStoreFor[T2](w)
		if !ok {
			return
		}
		s3, ok := readStoreFor[T3](w)
		if !ok {
			return
		}
		s4, ok := readStoreFor[T4](w)
		if !ok {
			return
		}
		for _, id := range w.entities {
			i1, ok := s1.slots[id]
			if !ok {
				continue
			}
			i2, ok := s2.slots[id]
			if !ok {
				continue
			}
			i3, ok := s3.slots[id]
			if !ok {
				continue
			}
			i4, ok := s4.slots[id]
			if !ok {
				continue
			}
			if !yield(Row4[T1, T2, T3, T4]{
				Entity: id,
				s1:     s1, s2: s2, s3: s3, s4: s4,
				i1: i1, i2: i2, i3: i3, i4: i4,
			}) {
				return
			}
		}
	}
}

// Query5 iterates the live entities holding all five component types.
func Query5[T1, T2, T3, T4, T5 types.Component](w *World) iter.Seq[Row5[T1, T2, T3, T4, T5]] {
	mustDistinct(
		componentName[T1](), componentName[T2](), componentName[T3](),
		componentName[T4](), componentName[T5](),
	)
	return func(yield func(Row5[T1, T2, T3, T4, T5]) bool) {
		w.acquireRead()
		defer w.releaseRead()
		s1, ok := readStoreFor[T1](w)
		if !ok {
			return
		}
		s2, ok := readStoreFor[T2](w)
		if !ok {
			return
		}
		s3, ok := readStoreFor[T3](w)
		if !ok {
			return
		}
		s4, ok := readStoreFor[T4](w)
		if !ok {
			return
		}
		s5, ok := readStoreFor[T5](w)
		if !ok {
			return
		}
		for _, id := range w.entities {
			i1, ok := s1.slots[id]
			if !ok {
				continue
			}
			i2, ok := s2.slots[id]
			if !ok {
				continue
			}
			i3, ok := s3.slots[id]
			if !ok {
				continue
			}
			i4, ok := s4.slots[id]
			if !ok {
				continue
			}
			i5, ok := s5.slots[id]
			if !ok {
				continue
			}
			if !yield(Row5[T1, T2, T3, T4, T5]{
				Entity: id,
				s1:     s1, s2: s2, s3: s3, s4: s4, s5: s5,
				i1: i1, i2: i2, i3: i3, i4: i4, i5: i5,
			}) {
				return
			}
		}
	}
}

// Query6 iterates the live entities holding all six component types.
func Query6[T1, T2, T3, T4, T5, T6 types.Component](w *World) iter.Seq[Row6[T1, T2, T3, T4, T5, T6]] {
	mustDistinct(
		componentName[T1](), componentName[T2](), componentName[T3](),
		componentName[T4](), componentName[T5](), componentName[T6](),
	)
	return func(yield func(Row6[T1, T2, T3, T4, T5, T6]) bool) {
		w.acquireRead()
		defer w.releaseRead()
		s1, ok := readStoreFor[T1](w)
		if !ok {
			return
		}
		s2, ok := readStoreFor[T2](w)
		if !ok {
			return
		}
		s3, ok := readStoreFor[T3](w)
		if !ok {
			return
		}
		s4, ok := readStoreFor[T4](w)
		if !ok {
			return
		}
		s5, ok := readStoreFor[T5](w)
		if !ok {
			return
		}
		s6, ok := readStoreFor[T6](w)
		if !ok {
			return
		}
		for _, id := range w.entities {
			i1, ok := s1.slots[id]
			if !ok {
				continue
			}
			i2, ok := s2.slots[id]
			if !ok {
				continue
			}
			i3, ok := s3.slots[id]
			if !ok {
				continue
			}
			i4, ok := s4.slots[id]
			if !ok {
				continue
			}
			i5, ok := s5.slots[id]
			if !ok {
				continue
			}
			i6, ok := s6.slots[id]
			if !ok {
				continue
			}
			if !yield(Row6[T1, T2, T3, T4, T5, T6]{
				Entity: id,
				s1:     s1, s2: s2, s3: s3, s4: s4, s5: s5, s6: s6,
				i1: i1, i2: i2, i3: i3, i4: i4, i5: i5, i6: i6,
			}) {
				return
			}
		}
	}
}

// QueryRow evaluates the single-type join for one entity.
func QueryRow[T1 types.Component](w *World, id types.EntityID) (Row[T1], bool) {
	s1, ok := readStoreFor[T1](w)
	if !ok {
		return Row[T1]{}, false
	}
	i1, ok := s1.slots[id]
	if !ok {
		return Row[T1]{}, false
	}
	return Row[T1]{Entity: id, s1: s1, i1: i1}, true
}

// QueryRow2 evaluates the two-type join for one entity: the row is produced
// only if the entity holds both component types.
func QueryRow2[T1, T2 types.Component](w *World, id types.EntityID) (Row2[T1, T2], bool) {
	mustDistinct(componentName[T1](), componentName[T2]())
	s1, ok := readStoreFor[T1](w)
	if !ok {
		return Row2[T1, T2]{}, false
	}
	s2, ok := readStoreFor[T2](w)
	if !ok {
		return Row2[T1, T2]{}, false
	}
	i1, ok := s1.slots[id]
	if !ok {
		return Row2[T1, T2]{}, false
	}
	i2, ok := s2.slots[id]
	if !ok {
		return Row2[T1, T2]{}, false
	}
	return Row2[T1, T2]{Entity: id, s1: s1, s2: s2, i1: i1, i2: i2}, true
}

// QueryRow3 evaluates the three-type join for one entity.
func QueryRow3[T1, T2, T3 types.Component](w *World, id types.EntityID) (Row3[T1, T2, T3], bool) {
	mustDistinct(componentName[T1](), componentName[T2](), componentName[T3]())
	s1, ok := readStoreFor[T1](w)
	if !ok {
		return Row3[T1, T2, T3]{}, false
	}
	s2, ok := readStoreFor[T2](w)
	if !ok {
		return Row3[T1, T2, T3]{}, false
	}
	s3, ok := readStoreFor[T3](w)
	if !ok {
		return Row3[T1, T2, T3]{}, false
	}
	i1, ok := s1.slots[id]
	if !ok {
		return Row3[T1, T2, T3]{}, false
	}
	i2, ok := s2.slots[id]
	if !ok {
		return Row3[T1, T2, T3]{}, false
	}
	i3, ok := s3.slots[id]
	if !ok {
		return Row3[T1, T2, T3]{}, false
	}
	return Row3[T1, T2, T3]{
		Entity: id,
		s1:     s1, s2: s2, s3: s3,
		i1: i1, i2: i2, i3: i3,
	}, true
}
