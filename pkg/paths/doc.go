// Package paths provides centralized path handling for modorg.
//
// It follows the XDG Base Directory specification for the directories modorg
// owns itself:
//
//   - Config: $XDG_CONFIG_HOME/modorg (config.toml, .env)
//   - Cache: $XDG_CACHE_HOME/modorg
//   - State: $XDG_STATE_HOME/modorg (modorg.log)
//
// Each directory can be overridden with MODORG_CONFIG_DIR, MODORG_CACHE_DIR
// and MODORG_STATE_DIR respectively. The game directory is not owned by
// modorg and comes from configuration; ExpandHome is used to normalize it.
package paths
