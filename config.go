package keystone

import (
	"strings"

	"github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

const (
	// DefaultLogLevel is the zerolog level used when KEYSTONE_LOG_LEVEL is
	// unset.
	DefaultLogLevel = "info"
)

// WorldConfig is the runtime configuration of a World. Every field is read
// from the environment; fallback values are used for anything unset, and
// WorldOptions override both.
type WorldConfig struct {
	// KeystoneLogLevel sets the zerolog level of the world logger.
	KeystoneLogLevel string `config:"KEYSTONE_LOG_LEVEL"`
	// KeystoneLogPretty enables human readable console output instead of
	// JSON lines.
	KeystoneLogPretty bool `config:"KEYSTONE_LOG_PRETTY"`
	// StatsdAddress is the address of a DogStatsD agent. Metrics are
	// disabled when empty.
	StatsdAddress string `config:"STATSD_ADDRESS"`
	// StatsdTags is a comma separated list of tags attached to every
	// emitted metric.
	StatsdTags string `config:"STATSD_TAGS"`
}

var defaultConfig = WorldConfig{
	KeystoneLogLevel:  DefaultLogLevel,
	KeystoneLogPretty: false,
	StatsdAddress:     "",
	StatsdTags:        "",
}

func loadWorldConfig() (*WorldConfig, error) {
	cfg := defaultConfig
	if err := config.FromEnv().To(&cfg); err != nil {
		return nil, eris.Wrap(err, "failed to load world config")
	}
	return &cfg, nil
}

// Validate rejects configurations the world cannot start with.
func (w *WorldConfig) Validate() error {
	if _, err := zerolog.ParseLevel(w.KeystoneLogLevel); err != nil {
		return eris.Wrapf(err, "KEYSTONE_LOG_LEVEL must be one of the zerolog levels, got %q", w.KeystoneLogLevel)
	}
	return nil
}

func (w *WorldConfig) statsdTags() []string {
	if w.StatsdTags == "" {
		return nil
	}
	tags := strings.Split(w.StatsdTags, ",")
	for i, tag := range tags {
		tags[i] = strings.TrimSpace(tag)
	}
	return tags
}
