package component

import (
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/rotisserie/eris"
	"github.com/wI2L/jsondiff"

	"pkg.world.dev/keystone/codec"
	"pkg.world.dev/keystone/types"
)

// Interface guard
var _ types.ComponentMetadata = (*componentMetadata[types.Component])(nil)

// Option is a type that can be passed to NewComponentMetadata to augment the
// creation of the component type.
type Option[T types.Component] func(c *componentMetadata[T])

// componentMetadata represents a type of component. It is used to identify
// a component when getting or setting the component of an entity, and it
// carries the per-type descriptor (size, schema, disposer) the storage
// engine routes through.
type componentMetadata[T types.Component] struct {
	isIDSet  bool
	id       types.ComponentID
	compType reflect.Type
	size     uintptr
	name     string
	schema   []byte
	disposer func(T)
}

// NewComponentMetadata creates the metadata for a component type.
func NewComponentMetadata[T types.Component](opts ...Option[T]) (
	types.ComponentMetadata, error,
) {
	var t T
	compType := reflect.TypeOf(t)
	if compType == nil || compType.Kind() == reflect.Ptr {
		return nil, eris.New("components must be value types")
	}

	schema, err := codec.Encode(jsonschema.ReflectFromType(compType))
	if err != nil {
		return nil, eris.Wrap(err, "component must be json serializable")
	}

	compMetadata := &componentMetadata[T]{
		compType: compType,
		size:     compType.Size(),
		name:     t.Name(),
		schema:   schema,
	}
	for _, opt := range opts {
		opt(compMetadata)
	}

	return compMetadata, nil
}

func (c *componentMetadata[T]) GetSchema() []byte {
	return c.schema
}

// SetID sets this component's ID. It must be unique across the world object.
func (c *componentMetadata[T]) SetID(id types.ComponentID) error {
	if c.isIDSet {
		// Components are usually initialized one time on startup. In tests,
		// it's often useful to use the same component in multiple worlds.
		// Allow re-initialization as long as the ID doesn't change.
		if id == c.id {
			return nil
		}
		return eris.Errorf("id for component %v is already set to %v, cannot change to %v", c, c.id, id)
	}
	c.id = id
	c.isIDSet = true
	return nil
}

// String returns the component type name.
func (c *componentMetadata[T]) String() string {
	return c.name
}

// Name returns the component type name.
func (c *componentMetadata[T]) Name() string {
	return c.name
}

// ID returns the component type id.
func (c *componentMetadata[T]) ID() types.ComponentID {
	return c.id
}

// TypeOf returns the reflect.Type the metadata was built from.
func (c *componentMetadata[T]) TypeOf() reflect.Type {
	return c.compType
}

// Size returns the in-memory size of one component value in bytes. Zero-size
// component types are valid; their stores record presence without storing
// any bytes.
func (c *componentMetadata[T]) Size() uintptr {
	return c.size
}

// Dispose runs the registered disposer on a component value. Values of the
// wrong type and metadata without a disposer are ignored.
func (c *componentMetadata[T]) Dispose(value any) {
	if c.disposer == nil {
		return
	}
	v, ok := value.(T)
	if !ok {
		return
	}
	c.disposer(v)
}

func (c *componentMetadata[T]) ValidateAgainstSchema(targetSchema []byte) error {
	diff, err := jsondiff.CompareJSON(c.schema, targetSchema)
	if err != nil {
		return eris.Wrap(err, "failed to compare component schema")
	}

	if diff.String() != "" {
		return eris.Wrap(types.ErrComponentSchemaMismatch, diff.String())
	}

	return nil
}

// WithDisposer registers a destructor for the component type. The storage
// engine invokes it exactly once for every component value it destroys:
// on replacement (with the old value), on removal, on despawn, and on
// store teardown.
func WithDisposer[T types.Component](fn func(T)) Option[T] {
	return func(c *componentMetadata[T]) {
		c.disposer = fn
	}
}

// WithName overrides the name the component type is registered under.
func WithName[T types.Component](name string) Option[T] {
	return func(c *componentMetadata[T]) {
		if name == "" {
			panic(fmt.Sprintf("component name for %v must not be empty", c.compType))
		}
		c.name = name
	}
}
