package cli

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	"github.com/arthur-debert/modorg/pkg/config"
	"github.com/arthur-debert/modorg/pkg/errors"
	"github.com/arthur-debert/modorg/pkg/executor"
	"github.com/arthur-debert/modorg/pkg/filesystem"
	"github.com/arthur-debert/modorg/pkg/logging"
	"github.com/arthur-debert/modorg/pkg/manager"
	"github.com/arthur-debert/modorg/pkg/manifest"
	"github.com/arthur-debert/modorg/pkg/output"
	"github.com/arthur-debert/modorg/pkg/paths"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

const manifestCacheFile = "manifests.gob"

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	verbosity  int
	dryRun     bool
	yes        bool
	format     string
	configFile string
	gameDir    string
}

// app is what a command works with once flags and configuration are read.
type app struct {
	cfg     *config.Config
	paths   paths.Paths
	out     *output.Renderer
	cache   *manifest.CachingFetcher
	manager *manager.Manager
	gameDir string
}

// newApp loads configuration and builds a manager. With needGame the game
// directory must be configured and exist; without it the manager works on
// an empty in-memory filesystem unless a game directory happens to be set.
func newApp(cmd *cobra.Command, opts *globalOptions, needGame bool) (*app, error) {
	logger := logging.GetLogger("cli")

	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	out, err := newRenderer(cmd, opts.format)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, paths: paths.New(), out: out}

	fs := filesystem.NewMemory()
	if needGame || cfg.Game.Dir != "" {
		dir, err := cfg.GameDir()
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return nil, errors.Newf(errors.ErrNotFound, MsgErrGameDirState, dir).WithDetail("gameDir", dir)
		}
		fs = filesystem.NewRooted(filesystem.NewOS(), dir)
		a.gameDir = dir
	}

	var fetcher manifest.Fetcher = manifest.NewSourceFetcher(filesystem.NewOS(), cfg.Manifests.Timeout)
	if cfg.Manifests.CacheTTL > 0 {
		a.cache = manifest.NewCachingFetcher(fetcher, cfg.Manifests.CacheTTL)
		fetcher = a.cache
	}

	a.manager = manager.New(manager.Options{
		Fs:        fs,
		Locations: cfg.Scan.Locations,
		Sources:   cfg.Manifests.Links,
		Fetcher:   fetcher,
		Artifacts: &executor.HTTPArtifactSource{Client: &http.Client{Timeout: cfg.Manifests.Timeout}},
	})

	logger.Debug().Str("gameDir", a.gameDir).Strs("sources", cfg.Manifests.Links).Msg("app ready")
	return a, nil
}

// loadConfig applies the command line on top of the configuration layers.
func loadConfig(opts *globalOptions) (*config.Config, error) {
	overrides := map[string]interface{}{}
	if opts.gameDir != "" {
		overrides["game.dir"] = opts.gameDir
	}
	cfg, err := config.Load(config.LoadOptions{ConfigFile: opts.configFile, Overrides: overrides})
	if err != nil {
		return nil, err
	}
	if cfg.Logging.Verbosity > opts.verbosity {
		logging.SetupLogger(cfg.Logging.Verbosity)
	}
	return cfg, nil
}

func newRenderer(cmd *cobra.Command, name string) (*output.Renderer, error) {
	format, err := output.ParseFormat(name)
	if err != nil {
		return nil, err
	}
	if format == output.FormatAuto {
		format = output.FormatText
		if f, ok := cmd.OutOrStdout().(*os.File); ok {
			format = output.DetectFormat(f)
		}
	}
	return output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), format), nil
}

// loadRegistry refreshes the registry through the on-disk manifest cache.
// With fresh the cached manifests are dropped and every source is fetched.
func (a *app) loadRegistry(ctx context.Context, fresh bool) (*manager.RefreshResult, error) {
	logger := logging.GetLogger("cli")
	if fresh {
		if a.cache != nil {
			a.cache.Invalidate()
		}
	} else {
		a.restoreCache()
	}

	var spinner *pterm.SpinnerPrinter
	if a.out.Format() == output.FormatTerminal {
		spinner, _ = pterm.DefaultSpinner.WithWriter(os.Stderr).Start(MsgFetchingManifests)
	}

	res, err := a.manager.Refresh(ctx)
	if spinner != nil {
		_ = spinner.Stop()
	}
	if res != nil {
		for _, f := range res.Failures {
			a.out.Warn(MsgSourceFailed, f.Source, f.Err)
		}
	}
	if err != nil {
		return nil, err
	}

	a.saveCache()
	logger.Debug().Int("mods", res.Mods).Msg("registry loaded")
	return res, nil
}

// loadState refreshes the registry and rescans the game directory.
func (a *app) loadState(ctx context.Context) error {
	if _, err := a.loadRegistry(ctx, false); err != nil {
		return err
	}
	return a.manager.Rescan(ctx)
}

func (a *app) cachePath() string {
	return filepath.Join(a.paths.CacheDir(), manifestCacheFile)
}

func (a *app) restoreCache() {
	if a.cache == nil {
		return
	}
	logger := logging.GetLogger("cli")

	f, err := os.Open(a.cachePath())
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn().Err(err).Msg("cannot open manifest cache")
		}
		return
	}
	defer func() { _ = f.Close() }()

	if err := a.cache.Restore(f); err != nil {
		logger.Warn().Err(err).Msg("ignoring unreadable manifest cache")
	}
}

func (a *app) saveCache() {
	if a.cache == nil {
		return
	}
	logger := logging.GetLogger("cli")

	if err := os.MkdirAll(a.paths.CacheDir(), 0755); err != nil {
		logger.Warn().Err(err).Msg("cannot create cache directory")
		return
	}
	f, err := os.Create(a.cachePath())
	if err != nil {
		logger.Warn().Err(err).Msg("cannot write manifest cache")
		return
	}
	defer func() { _ = f.Close() }()

	if err := a.cache.Save(f); err != nil {
		logger.Warn().Err(err).Msg("cannot write manifest cache")
	}
}

// confirm asks before applying a plan. It only prompts on an interactive
// terminal; --yes or a non-interactive session proceed.
func (a *app) confirm(opts *globalOptions) (bool, error) {
	if opts.yes || a.out.Format() != output.FormatTerminal || !isInteractive() {
		return true, nil
	}
	return pterm.DefaultInteractiveConfirm.WithDefaultValue(false).Show(MsgConfirmApply)
}
