package keystone

import (
	"iter"
	"os"
	"slices"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"pkg.world.dev/keystone/codec"
	"pkg.world.dev/keystone/cql"
	"pkg.world.dev/keystone/filter"
	ecslog "pkg.world.dev/keystone/log"
	"pkg.world.dev/keystone/statsd"
	"pkg.world.dev/keystone/types"
)

var _ ecslog.Loggable = &World{}

// World owns the store registry, the ordered list of live entities, and the
// next-id counter. It is a purely in-memory, single-goroutine structure:
// every operation is synchronous and total.
type World struct {
	Logger zerolog.Logger

	// Storage
	registry *registry

	// Entities, in registration order. IDs are monotonic, so the list is
	// always sorted ascending.
	entities []types.EntityID
	nextID   types.EntityID

	// Iteration guard. Live iterators hold read locks; an open entity
	// builder holds the write lock. Structural mutation requires both to
	// be clear.
	readLocks int
	writeLock bool
}

// NewWorld creates a new World. Configuration is read from the environment
// (see WorldConfig) and can be overridden with options.
func NewWorld(opts ...WorldOption) (*World, error) {
	cfg, err := loadWorldConfig()
	if err != nil {
		return nil, eris.Wrap(err, "failed to load config to start world")
	}
	configOptions, worldOptions := separateOptions(opts)
	for _, opt := range configOptions {
		opt(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, eris.Wrap(err, "invalid world config")
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.StatsdAddress != "" {
		if err := statsd.Init(cfg.StatsdAddress, cfg.statsdTags()); err != nil {
			zlog.Warn().Msgf("failed to init statsd client: %v", err)
		}
	}

	world := &World{
		Logger:   logger,
		registry: newRegistry(),
	}
	for _, opt := range worldOptions {
		opt(world)
	}

	if bz, err := codec.Encode(cfg); err == nil {
		world.Logger.Debug().RawJSON("config", bz).Msg("world created")
	} else {
		world.Logger.Debug().Msg("world created")
	}
	return world, nil
}

func newLogger(cfg *WorldConfig) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.KeystoneLogLevel)
	if err != nil {
		return zerolog.Logger{}, eris.Wrap(err, "failed to parse log level")
	}
	var logger zerolog.Logger
	if cfg.KeystoneLogPretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(level).With().Timestamp().Logger(), nil
}

// Spawn allocates the next entity id, appends it to the live list, and
// returns a builder for attaching components. The builder holds the world
// exclusively until Build is called; Spawn fails with ErrStoreLocked while
// an iterator or another builder is live.
func (w *World) Spawn() (*EntityBuilder, error) {
	if err := w.checkStructural("spawn"); err != nil {
		return nil, err
	}
	id := w.nextID
	w.nextID++
	w.entities = append(w.entities, id)
	w.writeLock = true
	w.Logger.Debug().Uint64("entity_id", uint64(id)).Msg("entity spawned")
	return &EntityBuilder{world: w, id: id}, nil
}

// Entities returns the live entity ids in registration order, oldest first.
// The sequence holds a read lock while it is being ranged, so structural
// mutation inside the loop fails with ErrStoreLocked.
func (w *World) Entities() iter.Seq[types.EntityID] {
	return func(yield func(types.EntityID) bool) {
		w.acquireRead()
		defer w.releaseRead()
		for _, id := range w.entities {
			if !yield(id) {
				return
			}
		}
	}
}

// Len returns the number of live entities.
func (w *World) Len() int {
	return len(w.entities)
}

// Alive reports whether id is in the live list.
func (w *World) Alive(id types.EntityID) bool {
	_, found := slices.BinarySearch(w.entities, id)
	return found
}

// Search starts a filter-driven scan over the live entities.
func (w *World) Search(componentFilter filter.ComponentFilter) *Search {
	return NewSearch(w, componentFilter)
}

// CompileQuery compiles component query language text into a search over
// this world. Component names are resolved against the registered
// components, so a query naming an unknown component fails here.
func (w *World) CompileQuery(cqlText string) (*Search, error) {
	componentFilter, err := cql.Parse(cqlText, w.registry.manager.GetComponentByName)
	if err != nil {
		return nil, err
	}
	return NewSearch(w, componentFilter), nil
}

// GetComponentByName returns the metadata registered under name.
func (w *World) GetComponentByName(name string) (types.ComponentMetadata, error) {
	return w.registry.manager.GetComponentByName(name)
}

// GetRegisteredComponents returns the metadata of every registered
// component type. The order is not deterministic.
func (w *World) GetRegisteredComponents() []types.ComponentMetadata {
	return w.registry.manager.GetComponents()
}

// LogWorldState writes a single structured line describing every registered
// component type at the given level.
func (w *World) LogWorldState(level zerolog.Level) {
	ecslog.World(&w.Logger, w, level)
}

// Shutdown tears down every store, running the disposer for each remaining
// component value exactly once, and empties the live list. Registered
// component types survive and the world remains usable.
func (w *World) Shutdown() error {
	if err := w.checkStructural("shutdown"); err != nil {
		return err
	}
	w.registry.teardownAll()
	w.entities = nil
	w.Logger.Info().Msg("world shutdown")
	return nil
}

// despawn removes id from the live list and destroys every component it
// owns. Unknown and already-despawned ids are a no-op.
func (w *World) despawn(id types.EntityID) {
	i, found := slices.BinarySearch(w.entities, id)
	if !found {
		return
	}
	w.registry.removeAll(id)
	w.entities = append(w.entities[:i], w.entities[i+1:]...)
	w.Logger.Debug().Uint64("entity_id", uint64(id)).Msg("entity removed")
}

func (w *World) logComponentRegistered(meta types.ComponentMetadata) {
	w.Logger.Debug().
		Str("component_name", meta.Name()).
		Int("component_id", int(meta.ID())).
		Msg("component registered")
}

// locked reports whether any iterator or builder currently holds the world.
func (w *World) locked() bool {
	return w.readLocks > 0 || w.writeLock
}

// checkStructural gates every structural mutation on the iteration guard.
func (w *World) checkStructural(op string) error {
	if w.locked() {
		return eris.Wrap(ErrStoreLocked, op)
	}
	return nil
}

func (w *World) acquireRead() {
	if w.writeLock {
		panic("keystone: iteration started while an entity builder holds the world")
	}
	w.readLocks++
}

func (w *World) releaseRead() {
	w.readLocks--
}
