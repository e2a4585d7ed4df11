package filter

import (
	"pkg.world.dev/keystone/types"
)

// MatchComponent reports whether components contains cType. Two components
// are the same type when their names are equal.
func MatchComponent(
	components []types.Component,
	cType types.Component,
) bool {
	for _, c := range components {
		if cType.Name() == c.Name() {
			return true
		}
	}
	return false
}

// CreateComponentMatcher creates a membership test from a slice of
// components. The returned function reports whether a single component is in
// the slice, matching by Name.
func CreateComponentMatcher(components []types.Component) func(types.Component) bool {
	mapStringToComponent := make(map[string]types.Component, len(components))
	for _, component := range components {
		mapStringToComponent[component.Name()] = component
	}
	return func(cType types.Component) bool {
		_, ok := mapStringToComponent[cType.Name()]
		return ok
	}
}
