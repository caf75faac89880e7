package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvConfigDir overrides the XDG config directory for modorg
	EnvConfigDir = "MODORG_CONFIG_DIR"

	// EnvCacheDir overrides the XDG cache directory for modorg
	EnvCacheDir = "MODORG_CACHE_DIR"

	// EnvStateDir overrides the XDG state directory for modorg
	EnvStateDir = "MODORG_STATE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

const (
	// AppDirName is the directory name modorg uses under each XDG base
	AppDirName = "modorg"

	// ConfigFileName is the user configuration file inside ConfigDir
	ConfigFileName = "config.toml"

	// EnvFileName is the dotenv file inside ConfigDir
	EnvFileName = ".env"

	// LogFileName is the name of the log file inside StateDir
	LogFileName = "modorg.log"
)

// Paths resolves the directories modorg reads and writes.
type Paths interface {
	ConfigDir() string
	CacheDir() string
	StateDir() string
	ConfigFile() string
	EnvFile() string
	LogFile() string
}

type paths struct {
	config string
	cache  string
	state  string
}

// New resolves modorg's directories from the environment.
func New() Paths {
	return &paths{
		config: dirFor(EnvConfigDir, xdg.ConfigHome),
		cache:  dirFor(EnvCacheDir, xdg.CacheHome),
		state:  dirFor(EnvStateDir, xdg.StateHome),
	}
}

func dirFor(env, base string) string {
	if dir := os.Getenv(env); dir != "" {
		return ExpandHome(dir)
	}
	return filepath.Join(base, AppDirName)
}

func (p *paths) ConfigDir() string { return p.config }

func (p *paths) CacheDir() string { return p.cache }

func (p *paths) StateDir() string { return p.state }

func (p *paths) ConfigFile() string { return filepath.Join(p.config, ConfigFileName) }

func (p *paths) EnvFile() string { return filepath.Join(p.config, EnvFileName) }

func (p *paths) LogFile() string { return filepath.Join(p.state, LogFileName) }

// ExpandHome expands a leading ~ to the user's home directory. Paths of the
// form ~user are returned unchanged.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
