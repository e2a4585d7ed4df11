package keystone

import (
	"testing"

	"pkg.world.dev/keystone/assert"
)

func TestWorldConfigDefaults(t *testing.T) {
	cfg, err := loadWorldConfig()
	assert.NilError(t, err)
	assert.Equal(t, defaultConfig, *cfg)
}

func TestWorldConfigLoadFromEnv(t *testing.T) {
	wantCfg := WorldConfig{
		KeystoneLogLevel:  "debug",
		KeystoneLogPretty: true,
		StatsdAddress:     "localhost:8125",
		StatsdTags:        "env:dev,shard:alpha",
	}
	t.Setenv("KEYSTONE_LOG_LEVEL", wantCfg.KeystoneLogLevel)
	t.Setenv("KEYSTONE_LOG_PRETTY", "true")
	t.Setenv("STATSD_ADDRESS", wantCfg.StatsdAddress)
	t.Setenv("STATSD_TAGS", wantCfg.StatsdTags)

	gotCfg, err := loadWorldConfig()
	assert.NilError(t, err)

	assert.Equal(t, wantCfg, *gotCfg)
}

func TestWorldConfigValidate(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     WorldConfig
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			cfg:     defaultConfig,
			wantErr: false,
		},
		{
			name:    "every zerolog level parses",
			cfg:     WorldConfig{KeystoneLogLevel: "trace"},
			wantErr: false,
		},
		{
			name:    "made up log level fails",
			cfg:     WorldConfig{KeystoneLogLevel: "loud"},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				assert.IsError(t, err)
			} else {
				assert.NilError(t, err)
			}
		})
	}
}

func TestWorldConfigStatsdTags(t *testing.T) {
	testCases := []struct {
		raw  string
		want []string
	}{
		{raw: "", want: nil},
		{raw: "env:dev", want: []string{"env:dev"}},
		{raw: "env:dev,shard:alpha", want: []string{"env:dev", "shard:alpha"}},
		{raw: "env:dev, shard:alpha", want: []string{"env:dev", "shard:alpha"}},
	}

	for _, tc := range testCases {
		cfg := WorldConfig{StatsdTags: tc.raw}
		assert.DeepEqual(t, tc.want, cfg.statsdTags())
	}
}

func TestNewWorldRejectsBadLogLevel(t *testing.T) {
	t.Setenv("KEYSTONE_LOG_LEVEL", "loud")
	_, err := NewWorld()
	assert.IsError(t, err)

	_, err = NewWorld(WithLogLevel("debug"))
	assert.NilError(t, err, "options override the environment before validation")
}
