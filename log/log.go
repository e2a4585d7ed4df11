// Package log builds structured zerolog events for world and entity state.
package log

import (
	"sort"

	"github.com/rs/zerolog"

	"pkg.world.dev/keystone/types"
)

// Loggable is anything that can report its registered component types.
type Loggable interface {
	GetRegisteredComponents() []types.ComponentMetadata
}

func loadComponentIntoArrayLogger(
	component types.ComponentMetadata,
	arrayLogger *zerolog.Array,
) *zerolog.Array {
	dictLogger := zerolog.Dict()
	dictLogger = dictLogger.Int("component_id", int(component.ID()))
	dictLogger = dictLogger.Str("component_name", component.Name())
	return arrayLogger.Dict(dictLogger)
}

func loadComponentsToEvent(zeroLoggerEvent *zerolog.Event, target Loggable) *zerolog.Event {
	components := target.GetRegisteredComponents()
	sort.Slice(components, func(i, j int) bool {
		return components[i].ID() < components[j].ID()
	})
	zeroLoggerEvent.Int("total_components", len(components))
	arrayLogger := zerolog.Arr()
	for _, comp := range components {
		arrayLogger = loadComponentIntoArrayLogger(comp, arrayLogger)
	}
	return zeroLoggerEvent.Array("components", arrayLogger)
}

// Components logs every registered component type, ordered by id.
func Components(logger *zerolog.Logger, target Loggable, level zerolog.Level) {
	zeroLoggerEvent := logger.WithLevel(level)
	zeroLoggerEvent = loadComponentsToEvent(zeroLoggerEvent, target)
	zeroLoggerEvent.Send()
}

// Entity logs one entity's id and its attached component types.
func Entity(
	logger *zerolog.Logger,
	level zerolog.Level,
	entityID types.EntityID,
	components []types.ComponentMetadata,
) {
	zeroLoggerEvent := logger.WithLevel(level)
	arrayLogger := zerolog.Arr()
	for _, comp := range components {
		arrayLogger = loadComponentIntoArrayLogger(comp, arrayLogger)
	}
	zeroLoggerEvent.Array("components", arrayLogger)
	zeroLoggerEvent.Uint64("entity_id", uint64(entityID)).Send()
}

// World logs everything about the world's registered component types.
func World(logger *zerolog.Logger, target Loggable, level zerolog.Level) {
	Components(logger, target, level)
}

// CreateTraceLogger creates a sub logger carrying a trace id, so one data
// path can be followed across log lines.
func CreateTraceLogger(logger *zerolog.Logger, traceID string) *zerolog.Logger {
	newLogger := logger.With().Str("trace_id", traceID).Logger()
	return &newLogger
}
