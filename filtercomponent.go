package keystone

import (
	"github.com/rotisserie/eris"

	"pkg.world.dev/keystone/types"
)

// FilterFn is a predicate over one entity, used with Search.Where to
// narrow a search by component values rather than component shape.
type FilterFn func(w *World, id types.EntityID) (bool, error)

// ComponentFilter builds a predicate that passes when the entity holds a T
// and f accepts its current value. Entities without a T simply do not pass;
// absence is not an error.
func ComponentFilter[T types.Component](f func(comp T) bool) FilterFn {
	return func(w *World, id types.EntityID) (bool, error) {
		comp, ok := GetComponent[T](w, id)
		if !ok {
			return false, nil
		}
		return f(comp), nil
	}
}

// AndFilter passes when every given predicate passes.
func AndFilter(fns ...FilterFn) FilterFn {
	return func(w *World, id types.EntityID) (bool, error) {
		if len(fns) == 0 {
			return false, eris.New("and filter needs at least one predicate")
		}
		for _, fn := range fns {
			pass, err := fn(w, id)
			if err != nil {
				return false, err
			}
			if !pass {
				return false, nil
			}
		}
		return true, nil
	}
}

// OrFilter passes when at least one of the given predicates passes.
func OrFilter(fns ...FilterFn) FilterFn {
	return func(w *World, id types.EntityID) (bool, error) {
		if len(fns) == 0 {
			return false, eris.New("or filter needs at least one predicate")
		}
		for _, fn := range fns {
			pass, err := fn(w, id)
			if err != nil {
				return false, err
			}
			if pass {
				return true, nil
			}
		}
		return false, nil
	}
}

// NotFilter inverts a predicate.
func NotFilter(fn FilterFn) FilterFn {
	return func(w *World, id types.EntityID) (bool, error) {
		pass, err := fn(w, id)
		if err != nil {
			return false, err
		}
		return !pass, nil
	}
}
