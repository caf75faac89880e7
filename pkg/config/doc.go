// Package config loads modorg's configuration.
//
// Sources are layered with koanf, later layers winning:
//
//  1. the embedded defaults (embedded/defaults.toml)
//  2. the user's config.toml in the modorg config directory
//  3. MODORG_* environment variables, after the optional .env file has been
//     loaded into the environment
//  4. explicit overrides, usually from command line flags
//
// Environment variables map to keys by dropping the prefix, lowercasing and
// replacing the first underscore with a dot: MODORG_MANIFESTS_CACHE_TTL sets
// manifests.cache_ttl. Lists accept comma separated values.
package config
