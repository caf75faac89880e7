package executor

import (
	"context"

	"github.com/arthur-debert/modorg/pkg/conflicts"
	"github.com/arthur-debert/modorg/pkg/errors"
	"github.com/arthur-debert/modorg/pkg/installed"
	"github.com/arthur-debert/modorg/pkg/logging"
	"github.com/arthur-debert/modorg/pkg/operations"
	"github.com/arthur-debert/modorg/pkg/registry"
)

// Virtual applies operations to its own copy of an installed state. It
// performs no I/O. Every lookup goes to the snapshot it was created with.
type Virtual struct {
	state installed.State
	snap  *registry.Snapshot
}

// NewVirtual returns a Virtual over a copy of state, pinned to snap.
func NewVirtual(state installed.State, snap *registry.Snapshot) *Virtual {
	if state == nil {
		state = installed.New()
	}
	if snap == nil {
		snap = registry.Empty()
	}
	return &Virtual{state: state.Clone(), snap: snap}
}

func (v *Virtual) ModMap() installed.State {
	return v.state
}

// Snapshot returns the registry snapshot v is pinned to.
func (v *Virtual) Snapshot() *registry.Snapshot {
	return v.snap
}

// CheckForConflicts checks the virtual state against v's snapshot.
func (v *Virtual) CheckForConflicts() []conflicts.ModConflict {
	return CheckForConflicts(v, v.snap)
}

// Apply installs mods as the registry declares them and removes
// uninstalled ones. Installing onto a path another install already holds
// fails with FILE_ALREADY_EXISTS; uninstalling something that is not
// installed fails with FILE_NOT_FOUND.
func (v *Virtual) Apply(ctx context.Context, ops []operations.Operation) error {
	logger := logging.GetLogger("executor.virtual")
	snap := v.snap

	return applyEach(ctx, ops, func(op operations.Operation) error {
		logger.Trace().Stringer("op", op).Msg("applying")

		switch op := op.(type) {
		case operations.InstallMod:
			_, mv, ok := snap.Lookup(op.GUID, op.Version)
			if !ok {
				return notInRegistry(op.GUID, op.Version)
			}
			f := installed.NewModFile(op.GUID, mv)
			if err := v.checkPathsFree(f); err != nil {
				return err
			}
			v.state.Add(f)
			return nil

		case operations.UninstallMod:
			if !v.state.Remove(op.GUID, op.Version) {
				return notInstalled(op.GUID, op.Version)
			}
			return nil

		default:
			return unknownOperation(op)
		}
	})
}

func (v *Virtual) checkPathsFree(f installed.ModFile) error {
	held := make(map[string]string)
	for _, guid := range v.state.GUIDs() {
		for _, other := range v.state.Files(guid) {
			if other.GUID == f.GUID && other.Version.Equal(f.Version) {
				continue
			}
			for _, a := range other.Files {
				held[a.Path] = other.GUID
			}
		}
	}
	for _, a := range f.Files {
		if owner, ok := held[a.Path]; ok {
			return errors.Newf(errors.ErrFileAlreadyExists, "%s is already installed by %s", a.Path, owner).
				WithDetail("path", a.Path)
		}
	}
	return nil
}
