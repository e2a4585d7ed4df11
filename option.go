package keystone

import (
	"github.com/rs/zerolog"
)

// WorldOption represents an option that can be used to augment how the
// World will be created.
type WorldOption struct {
	configOption func(*WorldConfig)
	worldOption  func(*World)
}

// WithLogLevel overrides the log level from the environment. The level must
// be one of the zerolog levels ("trace", "debug", "info", ...).
func WithLogLevel(level string) WorldOption {
	return WorldOption{
		configOption: func(cfg *WorldConfig) {
			cfg.KeystoneLogLevel = level
		},
	}
}

// WithPrettyLog enables human readable console output instead of JSON
// lines. This should only be used for local development.
func WithPrettyLog() WorldOption {
	return WorldOption{
		configOption: func(cfg *WorldConfig) {
			cfg.KeystoneLogPretty = true
		},
	}
}

// WithStatsdAddress points the world at a DogStatsD agent for lifecycle
// metrics.
func WithStatsdAddress(address string) WorldOption {
	return WorldOption{
		configOption: func(cfg *WorldConfig) {
			cfg.StatsdAddress = address
		},
	}
}

// WithLogger replaces the world's logger entirely, ignoring the configured
// level and format. Tests use this to capture log output.
func WithLogger(logger zerolog.Logger) WorldOption {
	return WorldOption{
		worldOption: func(w *World) {
			w.Logger = logger
		},
	}
}

// separateOptions splits options into the ones that mutate the config,
// applied before validation, and the ones that mutate the constructed
// world.
func separateOptions(opts []WorldOption) (configOptions []func(*WorldConfig), worldOptions []func(*World)) {
	for _, opt := range opts {
		if opt.configOption != nil {
			configOptions = append(configOptions, opt.configOption)
		}
		if opt.worldOption != nil {
			worldOptions = append(worldOptions, opt.worldOption)
		}
	}
	return configOptions, worldOptions
}
