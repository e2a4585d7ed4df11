package filter

import (
	"pkg.world.dev/keystone/types"
)

// ComponentFilter is a filter that matches entities based on the set of
// component types attached to them.
type ComponentFilter interface {
	// MatchesComponents returns true if the entity's components match the filter.
	MatchesComponents(components []types.Component) bool
}

// ComponentWrapper wraps a Component type for filtering purposes.
type ComponentWrapper struct {
	Component types.Component
}

// Component returns a ComponentWrapper for the given component type T.
// Filters are built from types, not values, so the zero value is enough.
func Component[T types.Component]() ComponentWrapper {
	var x T
	return ComponentWrapper{
		Component: x,
	}
}
