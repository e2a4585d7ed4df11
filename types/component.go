package types

import (
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/rotisserie/eris"
	"github.com/wI2L/jsondiff"
)

// ComponentID is the dense per-world id assigned to a component type when it
// is registered. 0 means "not yet assigned".
type ComponentID int

// Component is the interface that the user needs to implement to declare a
// value type as a component. Name is the stable identity used to route all
// storage operations; it must be unique per concrete type within a world.
// No behavior beyond identity is required.
type Component interface {
	// Name returns the name of the component.
	Name() string
}

// ComponentMetadata wraps the user-defined Component type and carries the
// per-type descriptor the storage engine works with: identity, size, schema,
// and the optional disposer that destroys component values.
type ComponentMetadata interface { //revive:disable-line:exported
	// SetID sets the ComponentID of this component. It must only be set once.
	SetID(ComponentID) error
	// ID returns the ComponentID of the component.
	ID() ComponentID
	// TypeOf returns the reflect.Type the metadata was built from.
	TypeOf() reflect.Type
	// Size returns the in-memory size of one component value in bytes.
	Size() uintptr
	// GetSchema returns the JSON schema derived from the component type.
	GetSchema() []byte
	// ValidateAgainstSchema compares the component's schema to a target
	// schema and errors with ErrComponentSchemaMismatch if they differ.
	ValidateAgainstSchema(targetSchema []byte) error
	// Dispose runs the registered disposer on a component value. It is a
	// no-op when no disposer was registered or the value has another type.
	Dispose(value any)

	Component
}

func SerializeComponentSchema(component Component) ([]byte, error) {
	componentSchema := jsonschema.Reflect(component)
	schema, err := componentSchema.MarshalJSON()
	if err != nil {
		return nil, eris.Wrap(err, "component must be json serializable")
	}
	return schema, nil
}

func IsComponentValid(component Component, jsonSchemaBytes []byte) (bool, error) {
	componentSchemaBytes, err := SerializeComponentSchema(component)
	if err != nil {
		return false, err
	}
	return IsSchemaValid(componentSchemaBytes, jsonSchemaBytes)
}

func IsSchemaValid(jsonSchemaBytes1 []byte, jsonSchemaBytes2 []byte) (bool, error) {
	patch, err := jsondiff.CompareJSON(jsonSchemaBytes1, jsonSchemaBytes2)
	if err != nil {
		return false, eris.Wrap(err, "")
	}
	return patch.String() == "", nil
}

// ConvertComponentMetadatasToComponents casts a slice of ComponentMetadata
// into a slice of Component.
func ConvertComponentMetadatasToComponents(comps []ComponentMetadata) []Component {
	ret := make([]Component, len(comps))
	for i, comp := range comps {
		ret[i] = comp
	}
	return ret
}
