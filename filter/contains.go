package filter

import (
	"pkg.world.dev/keystone/types"
)

type contains struct {
	components []types.Component
}

// Contains matches entities that hold all the component types specified.
func Contains(components ...ComponentWrapper) ComponentFilter {
	acc := make([]types.Component, 0, len(components))
	for _, wrapper := range components {
		acc = append(acc, wrapper.Component)
	}
	return &contains{components: acc}
}

func (f *contains) MatchesComponents(components []types.Component) bool {
	for _, componentType := range f.components {
		if !MatchComponent(components, componentType) {
			return false
		}
	}
	return true
}
