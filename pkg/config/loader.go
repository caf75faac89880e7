package config

import (
	"os"
	"strings"

	"github.com/arthur-debert/modorg/pkg/errors"
	"github.com/arthur-debert/modorg/pkg/logging"
	"github.com/arthur-debert/modorg/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read as configuration.
const EnvPrefix = "MODORG_"

// LoadOptions controls where Load reads from. Empty paths fall back to the
// modorg config directory.
type LoadOptions struct {
	ConfigFile string
	EnvFile    string
	Overrides  map[string]interface{}
}

// Load builds the effective configuration from all layers and validates it.
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	p := paths.New()

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = p.EnvFile()
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load env file %s", envFile)
		}
		logger.Debug().Str("path", envFile).Msg("Loaded env file")
	}

	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load embedded defaults")
	}

	configFile := opts.ConfigFile
	if configFile == "" {
		configFile = p.ConfigFile()
	}
	if _, err := os.Stat(configFile); err == nil {
		if err := k.Load(file.Provider(configFile), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", configFile).
				WithDetail("path", configFile)
		}
		logger.Debug().Str("path", configFile).Msg("Loaded config file")
	} else if opts.ConfigFile != "" {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s not readable", configFile).
			WithDetail("path", configFile)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// envKey maps MODORG_MANIFESTS_CACHE_TTL to manifests.cache_ttl.
func envKey(s string) string {
	return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
}
