package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/arthur-debert/modorg/internal/version"
	"github.com/arthur-debert/modorg/pkg/config"
	"github.com/arthur-debert/modorg/pkg/errors"
	"github.com/arthur-debert/modorg/pkg/logging"
	"github.com/arthur-debert/modorg/pkg/manager"
	"github.com/arthur-debert/modorg/pkg/manifest"
	"github.com/arthur-debert/modorg/pkg/operations"
	"github.com/arthur-debert/modorg/pkg/output"
	modversion "github.com/arthur-debert/modorg/pkg/version"
	"github.com/arthur-debert/modorg/pkg/watcher"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

func newRefreshCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "refresh",
		Short:   MsgRefreshShort,
		GroupID: groupRegistry,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts, false)
			if err != nil {
				return err
			}

			res, err := a.loadRegistry(cmd.Context(), true)
			if err != nil {
				return err
			}
			a.out.Success(MsgRefreshed, res.Mods, len(a.cfg.Manifests.Links)-len(res.Failures))
			return nil
		},
	}
}

func newListCmd(opts *globalOptions) *cobra.Command {
	var (
		search        string
		onlyInstalled bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "search"},
		Short:   MsgListShort,
		GroupID: groupRegistry,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts, onlyInstalled)
			if err != nil {
				return err
			}
			if err := a.loadState(cmd.Context()); err != nil {
				return err
			}

			state := a.manager.State()
			mods := a.manager.Store().Load().Search(search)
			if onlyInstalled {
				kept := mods[:0]
				for _, mod := range mods {
					if state.Has(mod.GUID) {
						kept = append(kept, mod)
					}
				}
				mods = kept
			}
			return a.out.Render(output.NewModList(mods, state))
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", MsgFlagSearch)
	cmd.Flags().BoolVarP(&onlyInstalled, "installed", "i", false, MsgFlagInstall)
	return cmd
}

func newInfoCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:               "info <guid>",
		Short:             MsgInfoShort,
		GroupID:           groupRegistry,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeGUIDs(opts),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts, false)
			if err != nil {
				return err
			}
			if err := a.loadState(cmd.Context()); err != nil {
				return err
			}

			mod, err := lookupMod(a, args[0])
			if err != nil {
				return err
			}
			return a.out.Render(output.NewModInfo(mod, a.manager.State()))
		},
	}
}

func newStatusCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   MsgStatusShort,
		GroupID: groupMods,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts, true)
			if err != nil {
				return err
			}
			if err := a.loadState(cmd.Context()); err != nil {
				return err
			}
			return a.out.Render(output.NewStatus(a.manager.State(), a.manager.Status()))
		},
	}
}

func newPlanCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:               "plan <guid> [requirement]",
		Short:             MsgPlanShort,
		Long:              MsgPlanShort + ".\n\n" + MsgRequirementHelp + "\n\n" + MsgSharedFileHelp,
		GroupID:           groupMods,
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: completeGUIDs(opts),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts, true)
			if err != nil {
				return err
			}
			plan, err := planInstall(cmd.Context(), a, args)
			if err != nil {
				return err
			}
			return a.out.Render(output.NewPlan(plan.Target, plan.Operations, plan.Conflicts, true))
		},
	}
}

func newInstallCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:               "install <guid> [requirement]",
		Short:             MsgInstallShort,
		Long:              MsgInstallShort + ".\n\n" + MsgRequirementHelp + "\n\n" + MsgSharedFileHelp,
		Example:           MsgInstallExample,
		GroupID:           groupMods,
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: completeGUIDs(opts),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts, true)
			if err != nil {
				return err
			}
			plan, err := planInstall(cmd.Context(), a, args)
			if err != nil {
				return err
			}
			if plan.Empty() {
				a.out.Success(MsgAlreadySatisfied, args[0])
				return nil
			}
			return applyPlan(cmd.Context(), a, opts, plan)
		},
	}
}

func newUninstallCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "uninstall <guid>",
		Aliases: []string{"remove", "rm"},
		Short:   MsgUninstallShort,
		GroupID: groupMods,
		Args:    cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			a, err := newApp(cmd, opts, true)
			if err != nil {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			if err := a.loadState(cmd.Context()); err != nil {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return a.manager.State().GUIDs(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts, true)
			if err != nil {
				return err
			}
			if err := a.loadState(cmd.Context()); err != nil {
				return err
			}
			plan, err := a.manager.PlanUninstall(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return applyPlan(cmd.Context(), a, opts, plan)
		},
	}
}

func newWatchCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "watch",
		Short:   MsgWatchShort,
		GroupID: groupMods,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts, true)
			if err != nil {
				return err
			}
			return watch(cmd.Context(), a)
		},
	}
}

func newConfigCmd(opts *globalOptions) *cobra.Command {
	var defaults bool

	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: groupMisc,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if defaults {
				_, err := fmt.Fprint(cmd.OutOrStdout(), config.DefaultsTOML())
				return err
			}

			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			data, err := cfg.TOML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&defaults, "defaults", false, MsgFlagDefault)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: groupMisc,
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionLine, version.String())
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `To load completions:

Bash:
  $ source <(modorg completion bash)

Zsh:
  $ modorg completion zsh > "${fpath[1]}/_modorg"

Fish:
  $ modorg completion fish | source

PowerShell:
  PS> modorg completion powershell | Out-String | Invoke-Expression
`,
		GroupID:               groupMisc,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return GenCompletion(cmd.Root(), args[0], cmd.OutOrStdout())
		},
	}
}

func newManCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:     "man",
		Short:   MsgManShort,
		GroupID: groupMisc,
		Hidden:  true,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			header := ManHeader()
			if dir != "" {
				return doc.GenManTree(cmd.Root(), header, dir)
			}
			return doc.GenMan(cmd.Root(), header, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", MsgFlagManDir)
	return cmd
}

// lookupMod finds guid in the loaded registry.
func lookupMod(a *app, guid string) (*manifest.Mod, error) {
	mod, ok := a.manager.Store().Load().Mod(guid)
	if !ok {
		return nil, errors.Newf(errors.ErrNotFound, MsgErrNoSuchMod, guid).WithDetail("guid", guid)
	}
	return mod, nil
}

// planInstall loads state and resolves args, a GUID and an optional
// requirement.
func planInstall(ctx context.Context, a *app, args []string) (*manager.Plan, error) {
	req := modversion.AnyRequirement()
	if len(args) > 1 {
		parsed, err := modversion.ParseRequirement(args[1])
		if err != nil {
			return nil, err
		}
		req = parsed
	}

	if err := a.loadState(ctx); err != nil {
		return nil, err
	}
	if _, err := lookupMod(a, args[0]); err != nil {
		return nil, err
	}
	return a.manager.PlanInstall(ctx, args[0], req)
}

// applyPlan shows plan, asks for confirmation and applies it unless this is
// a dry run.
func applyPlan(ctx context.Context, a *app, opts *globalOptions, plan *manager.Plan) error {
	if err := a.out.Render(output.NewPlan(plan.Target, plan.Operations, plan.Conflicts, opts.dryRun)); err != nil {
		return err
	}
	if opts.dryRun {
		a.out.Success(MsgDryRunNotice)
		return nil
	}

	ok, err := a.confirm(opts)
	if err != nil {
		return err
	}
	if !ok {
		a.out.Warn(MsgAborted)
		return nil
	}

	if err := a.manager.Apply(ctx, plan); err != nil {
		return err
	}
	installs, uninstalls := operations.Count(plan.Operations)
	a.out.Success(MsgInstalled, installs, uninstalls)
	if n := len(plan.Conflicts); n > 0 {
		a.out.Warn(MsgConflictsRemaining, n)
	}
	return nil
}

// watch renders the status, then again after every change in the mod
// directories and after every registry refresh, until ctx is done.
func watch(ctx context.Context, a *app) error {
	logger := logging.GetLogger("cli")

	w, err := watcher.New(watcher.Config{
		GameDir:   a.gameDir,
		Locations: a.cfg.Scan.Locations,
		Debounce:  a.cfg.Watch.Debounce,
	})
	if err != nil {
		return err
	}
	changes, err := w.Start(ctx)
	if err != nil {
		return err
	}

	if err := a.loadState(ctx); err != nil {
		return err
	}
	a.out.Success(MsgWatching, strings.Join(w.Dirs(), ", "))
	if err := renderStatus(a); err != nil {
		return err
	}

	var refresh <-chan time.Time
	if a.cfg.Watch.RefreshInterval > 0 {
		ticker := time.NewTicker(a.cfg.Watch.RefreshInterval)
		defer ticker.Stop()
		refresh = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			if err := a.manager.Rescan(ctx); err != nil {
				logger.Warn().Err(err).Msg("rescan failed")
				continue
			}
		case <-refresh:
			if _, err := a.loadRegistry(ctx, true); err != nil {
				logger.Warn().Err(err).Msg("refresh failed")
				continue
			}
			if err := a.manager.Rescan(ctx); err != nil {
				logger.Warn().Err(err).Msg("rescan failed")
				continue
			}
		}
		if err := renderStatus(a); err != nil {
			return err
		}
	}
}

func renderStatus(a *app) error {
	return a.out.Render(output.NewStatus(a.manager.State(), a.manager.Status()))
}

func completeGUIDs(opts *globalOptions) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		a, err := newApp(cmd, opts, false)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		if _, err := a.loadRegistry(cmd.Context(), false); err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		var guids []string
		for _, guid := range a.manager.Store().Load().GUIDs() {
			if strings.HasPrefix(guid, toComplete) {
				guids = append(guids, guid)
			}
		}
		return guids, cobra.ShellCompDirectiveNoFileComp
	}
}
