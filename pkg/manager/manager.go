// Package manager wires the registry, the resolver and the executors into
// the operations the CLI exposes.
//
// A Manager owns one Actual executor over a game directory and one registry
// store. Refresh replaces the registry snapshot, Rescan reloads installed
// state from disk, and every change is planned on a Virtual executor before
// it touches the filesystem.
package manager

import (
	"context"
	"fmt"

	"github.com/arthur-debert/modorg/pkg/conflicts"
	"github.com/arthur-debert/modorg/pkg/errors"
	"github.com/arthur-debert/modorg/pkg/executor"
	"github.com/arthur-debert/modorg/pkg/installed"
	"github.com/arthur-debert/modorg/pkg/logging"
	"github.com/arthur-debert/modorg/pkg/manifest"
	"github.com/arthur-debert/modorg/pkg/operations"
	"github.com/arthur-debert/modorg/pkg/registry"
	"github.com/arthur-debert/modorg/pkg/resolver"
	"github.com/arthur-debert/modorg/pkg/version"
	"github.com/spf13/afero"
)

// Options configures a Manager.
type Options struct {
	// Fs is rooted at the game directory.
	Fs        afero.Fs
	Locations []string
	Sources   []string
	Fetcher   manifest.Fetcher
	Artifacts executor.ArtifactSource
	// Store is shared with other readers; a new empty store is used if nil.
	Store *registry.Store
}

// Manager is not safe for concurrent use; the registry store it publishes
// to is.
type Manager struct {
	sources []string
	fetcher manifest.Fetcher
	store   *registry.Store
	actual  *executor.Actual
}

// New returns a Manager with an empty installed state. Call Refresh and
// Rescan before planning.
func New(opts Options) *Manager {
	store := opts.Store
	if store == nil {
		store = registry.NewStore(nil)
	}
	return &Manager{
		sources: opts.Sources,
		fetcher: opts.Fetcher,
		store:   store,
		actual:  executor.NewActual(opts.Fs, opts.Locations, store, opts.Artifacts),
	}
}

// Store returns the registry store.
func (m *Manager) Store() *registry.Store {
	return m.store
}

// State returns the installed state as of the last rescan or apply.
func (m *Manager) State() installed.State {
	return m.actual.ModMap()
}

// RefreshResult reports what Refresh published.
type RefreshResult struct {
	Mods     int
	Previous int
	Failures []*manifest.SourceError
}

// Refresh fetches every source and publishes the aggregated registry. Failing
// sources are reported without stopping the others. Nothing is published
// when ctx is cancelled or when every source failed.
func (m *Manager) Refresh(ctx context.Context) (*RefreshResult, error) {
	logger := logging.GetLogger("manager")
	done := logging.LogOperationStart(logger, "refresh")
	defer done()

	mods, failures := manifest.Aggregate(ctx, m.fetcher, m.sources)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &RefreshResult{Failures: failures}
	if len(m.sources) > 0 && len(failures) == len(m.sources) {
		return result, errors.Newf(errors.ErrManifestFetch, "all %d manifest sources failed", len(m.sources)).
			WithDetail("sources", m.sources)
	}

	previous := m.store.Publish(registry.NewSnapshot(mods))
	result.Mods = len(mods)
	if previous != nil {
		result.Previous = previous.Len()
	}

	logger.Info().Int("mods", result.Mods).Int("failures", len(failures)).Msg("registry refreshed")
	return result, nil
}

// Rescan reloads the installed state from disk against the current registry.
func (m *Manager) Rescan(ctx context.Context) error {
	logger := logging.GetLogger("manager")
	done := logging.LogOperationStart(logger, "rescan")
	defer done()

	return m.actual.Rescan(ctx)
}

// Plan is a validated list of operations and the conflicts the resulting
// state would have. Snapshot is the registry the plan was resolved against;
// Apply executes against it even if a refresh has since published another.
type Plan struct {
	Target     string
	Operations []operations.Operation
	Conflicts  []conflicts.ModConflict
	Snapshot   *registry.Snapshot
}

// Empty reports whether the plan changes nothing.
func (p *Plan) Empty() bool {
	return len(p.Operations) == 0
}

// PlanInstall resolves guid at req and previews the result on a Virtual
// executor.
func (m *Manager) PlanInstall(ctx context.Context, guid string, req version.Requirement) (*Plan, error) {
	logger := logging.GetLogger("manager")

	snap, err := m.snapshot()
	if err != nil {
		return nil, err
	}

	ops, err := resolver.Resolve(guid, req, m.actual.ModMap(), snap)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("guid", guid).Stringer("requirement", req).Int("operations", len(ops)).Msg("resolved")

	return m.preview(ctx, snap, fmt.Sprintf("%s@%s", guid, req), ops)
}

// PlanUninstall removes every installed version of guid.
func (m *Manager) PlanUninstall(ctx context.Context, guid string) (*Plan, error) {
	versions := m.actual.ModMap().Versions(guid)
	if len(versions) == 0 {
		return nil, errors.Newf(errors.ErrNotFound, "%s is not installed", guid).
			WithDetail("guid", guid)
	}

	ops := make([]operations.Operation, 0, len(versions))
	for _, v := range versions {
		ops = append(ops, operations.UninstallMod{GUID: guid, Version: v})
	}
	return m.preview(ctx, m.store.Load(), guid, ops)
}

func (m *Manager) preview(ctx context.Context, snap *registry.Snapshot, target string, ops []operations.Operation) (*Plan, error) {
	virtual := m.actual.Virtualize(snap)
	if err := virtual.Apply(ctx, ops); err != nil {
		return nil, err
	}
	return &Plan{
		Target:     target,
		Operations: ops,
		Conflicts:  virtual.CheckForConflicts(),
		Snapshot:   snap,
	}, nil
}

// Apply validates plan against the current installed state on a Virtual
// executor and then applies it to disk. Both steps use the plan's snapshot;
// a plan built by hand without one uses the store's current snapshot.
func (m *Manager) Apply(ctx context.Context, plan *Plan) error {
	logger := logging.GetLogger("manager")
	done := logging.LogOperationStart(logger, "apply")
	defer done()

	snap := plan.Snapshot
	if snap == nil {
		snap = m.store.Load()
	}

	if err := m.actual.Virtualize(snap).Apply(ctx, plan.Operations); err != nil {
		return err
	}
	if err := m.actual.ApplyWith(ctx, snap, plan.Operations); err != nil {
		return err
	}

	installs, uninstalls := operations.Count(plan.Operations)
	logger.Info().Str("target", plan.Target).Int("installed", installs).Int("uninstalled", uninstalls).Msg("plan applied")
	return nil
}

// Install plans and applies guid at req.
func (m *Manager) Install(ctx context.Context, guid string, req version.Requirement) (*Plan, error) {
	plan, err := m.PlanInstall(ctx, guid, req)
	if err != nil {
		return nil, err
	}
	if err := m.Apply(ctx, plan); err != nil {
		return plan, err
	}
	return plan, nil
}

// Uninstall plans and applies the removal of guid.
func (m *Manager) Uninstall(ctx context.Context, guid string) (*Plan, error) {
	plan, err := m.PlanUninstall(ctx, guid)
	if err != nil {
		return nil, err
	}
	if err := m.Apply(ctx, plan); err != nil {
		return plan, err
	}
	return plan, nil
}

// Status returns the conflicts of the current installed state.
func (m *Manager) Status() []conflicts.ModConflict {
	return m.actual.CheckForConflicts()
}

func (m *Manager) snapshot() (*registry.Snapshot, error) {
	snap := m.store.Load()
	if snap.Len() == 0 {
		return nil, errors.New(errors.ErrRegistryEmpty, "the mod registry is empty; run refresh first")
	}
	return snap, nil
}
