package types

import "github.com/rotisserie/eris"

var (
	// ErrComponentSchemaMismatch is returned when a registered name is
	// claimed by a component type whose schema differs from the one the
	// name was registered with.
	ErrComponentSchemaMismatch = eris.New("component schema does not match target schema")
)
