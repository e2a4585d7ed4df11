package filter

import (
	"pkg.world.dev/keystone/types"
)

type all struct{}

// All matches every entity, whatever its component shape.
func All() ComponentFilter { return all{} }

func (all) MatchesComponents([]types.Component) bool { return true }

type and struct{ filters []ComponentFilter }

// And matches entities that satisfy every inner filter.
func And(filters ...ComponentFilter) ComponentFilter {
	return and{filters: filters}
}

func (f and) MatchesComponents(components []types.Component) bool {
	for _, inner := range f.filters {
		if !inner.MatchesComponents(components) {
			return false
		}
	}
	return true
}

type or struct{ filters []ComponentFilter }

// Or matches entities that satisfy at least one inner filter.
func Or(filters ...ComponentFilter) ComponentFilter {
	return or{filters: filters}
}

func (f or) MatchesComponents(components []types.Component) bool {
	for _, inner := range f.filters {
		if inner.MatchesComponents(components) {
			return true
		}
	}
	return false
}

type not struct{ inner ComponentFilter }

// Not inverts a filter.
func Not(inner ComponentFilter) ComponentFilter {
	return not{inner: inner}
}

func (f not) MatchesComponents(components []types.Component) bool {
	return !f.inner.MatchesComponents(components)
}
