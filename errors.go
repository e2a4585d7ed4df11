package keystone

import (
	"github.com/rotisserie/eris"

	"pkg.world.dev/keystone/component"
	"pkg.world.dev/keystone/types"
)

var (
	// ErrStoreLocked is returned by structural mutations (spawn, despawn,
	// attach, detach, register) attempted while a live iterator or an open
	// entity builder holds the world.
	ErrStoreLocked = eris.New("world is locked by a live iterator or entity builder")

	ErrComponentNotRegistered  = component.ErrComponentNotRegistered
	ErrComponentRegistered     = component.ErrComponentRegistered
	ErrComponentSchemaMismatch = types.ErrComponentSchemaMismatch
)
