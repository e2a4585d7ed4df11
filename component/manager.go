package component

import (
	"fmt"

	"github.com/rotisserie/eris"

	"pkg.world.dev/keystone/types"
)

var (
	ErrComponentNotRegistered = eris.New("component not registered")
	ErrComponentRegistered    = eris.New("component is already registered")
)

// Manager tracks the component types registered with a world and hands out
// their dense ComponentIDs. There is exactly one metadata per name; all
// storage routing goes through it.
type Manager struct {
	registeredComponents map[string]types.ComponentMetadata
	nextComponentID      types.ComponentID
}

// NewManager creates a new component manager.
func NewManager() *Manager {
	return &Manager{
		registeredComponents: make(map[string]types.ComponentMetadata),
		nextComponentID:      1,
	}
}

// Register registers component metadata with the manager. There can only be
// one component with a given name, which is declared by the user by
// implementing the Name() method. Registering the same type twice returns
// ErrComponentRegistered; claiming an existing name with a different type
// returns a schema mismatch or name clash error, so a name can never be
// routed to two distinct types.
func (m *Manager) Register(compMetadata types.ComponentMetadata) error {
	name := compMetadata.Name()
	if existing, ok := m.registeredComponents[name]; ok {
		if existing.TypeOf() == compMetadata.TypeOf() {
			return eris.Wrap(ErrComponentRegistered, fmt.Sprintf("component %q is already registered", name))
		}
		if err := existing.ValidateAgainstSchema(compMetadata.GetSchema()); err != nil {
			return eris.Wrap(err, fmt.Sprintf("component %q is already registered with a different schema", name))
		}
		return eris.Errorf(
			"component name %q is already claimed by type %v, cannot register type %v",
			name, existing.TypeOf(), compMetadata.TypeOf(),
		)
	}

	if err := compMetadata.SetID(m.nextComponentID); err != nil {
		return err
	}
	m.registeredComponents[name] = compMetadata
	m.nextComponentID++

	return nil
}

// GetComponents returns a list of all registered components.
// Note: The order of the components in the list is not deterministic.
func (m *Manager) GetComponents() []types.ComponentMetadata {
	registeredComponents := make([]types.ComponentMetadata, 0, len(m.registeredComponents))
	for _, comp := range m.registeredComponents {
		registeredComponents = append(registeredComponents, comp)
	}
	return registeredComponents
}

// GetComponentByName returns the component metadata for the given component name.
func (m *Manager) GetComponentByName(name string) (types.ComponentMetadata, error) {
	c, ok := m.registeredComponents[name]
	if !ok {
		return nil, eris.Wrap(ErrComponentNotRegistered, fmt.Sprintf("component %q is not registered", name))
	}
	return c, nil
}

// Unregister forgets the metadata registered under name. The name becomes
// registrable again; the freed ComponentID is not reused.
func (m *Manager) Unregister(name string) {
	delete(m.registeredComponents, name)
}
