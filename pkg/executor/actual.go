package executor

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path"

	"github.com/arthur-debert/modorg/pkg/conflicts"
	"github.com/arthur-debert/modorg/pkg/errors"
	"github.com/arthur-debert/modorg/pkg/filesystem"
	"github.com/arthur-debert/modorg/pkg/hashutil"
	"github.com/arthur-debert/modorg/pkg/installed"
	"github.com/arthur-debert/modorg/pkg/logging"
	"github.com/arthur-debert/modorg/pkg/manifest"
	"github.com/arthur-debert/modorg/pkg/operations"
	"github.com/arthur-debert/modorg/pkg/registry"
	"github.com/arthur-debert/modorg/pkg/scan"
	"github.com/spf13/afero"
)

// ArtifactSource provides the bytes of an artifact.
type ArtifactSource interface {
	Open(ctx context.Context, a manifest.Artifact) (io.ReadCloser, error)
}

// HTTPArtifactSource downloads artifacts from their URL.
type HTTPArtifactSource struct {
	Client *http.Client
}

func (s *HTTPArtifactSource) Open(ctx context.Context, a manifest.Artifact) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.URL, nil)
	if err != nil {
		return nil, err
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, errors.Newf(errors.ErrFileIO, "downloading %s: unexpected status %s", a.URL, resp.Status)
	}
	return resp.Body, nil
}

// Actual installs into a game directory. fs must be rooted at the game
// directory (see filesystem.NewRooted); all mod paths are relative to it.
//
// Actual has a single owner: Rescan and Apply must not run concurrently
// with each other or with readers of ModMap.
type Actual struct {
	fs        afero.Fs
	locations []string
	registry  *registry.Store
	source    ArtifactSource
	state     installed.State
}

// NewActual returns an Actual with an empty state; call Rescan to load what
// is on disk.
func NewActual(fs afero.Fs, locations []string, store *registry.Store, source ArtifactSource) *Actual {
	if len(locations) == 0 {
		locations = scan.DefaultLocations
	}
	return &Actual{
		fs:        fs,
		locations: locations,
		registry:  store,
		source:    source,
		state:     installed.New(),
	}
}

func (a *Actual) ModMap() installed.State {
	return a.state
}

// CheckForConflicts checks the on-disk state against the current registry.
func (a *Actual) CheckForConflicts() []conflicts.ModConflict {
	return CheckForConflicts(a, a.registry.Load())
}

// Rescan rebuilds the state from disk. On failure or cancellation the
// previous state is kept.
func (a *Actual) Rescan(ctx context.Context) error {
	state, err := scan.Rescan(ctx, a.fs, a.locations, a.registry.Load())
	if err != nil {
		return err
	}
	a.state = state
	return nil
}

// Virtualize returns a Virtual over a copy of the current state, pinned to
// snap. A nil snap pins the store's current snapshot.
func (a *Actual) Virtualize(snap *registry.Snapshot) *Virtual {
	if snap == nil {
		snap = a.registry.Load()
	}
	return NewVirtual(a.state, snap)
}

// Apply writes and removes files against the store's current snapshot.
// Operations already applied when an error occurs stay applied.
func (a *Actual) Apply(ctx context.Context, ops []operations.Operation) error {
	return a.ApplyWith(ctx, a.registry.Load(), ops)
}

// ApplyWith is Apply with artifacts looked up in snap, so that a plan is
// executed against the registry it was resolved from.
func (a *Actual) ApplyWith(ctx context.Context, snap *registry.Snapshot, ops []operations.Operation) error {
	return applyEach(ctx, ops, func(op operations.Operation) error {
		switch op := op.(type) {
		case operations.InstallMod:
			return a.install(ctx, snap, op)
		case operations.UninstallMod:
			return a.uninstall(op)
		default:
			return unknownOperation(op)
		}
	})
}

func (a *Actual) install(ctx context.Context, snap *registry.Snapshot, op operations.InstallMod) error {
	logger := logging.GetLogger("executor.actual")

	_, mv, ok := snap.Lookup(op.GUID, op.Version)
	if !ok {
		return notInRegistry(op.GUID, op.Version)
	}

	// Check every destination before writing anything.
	paths := make([]string, len(mv.Artifacts))
	for i, artifact := range mv.Artifacts {
		p, err := filesystem.Contain(artifact.InstallPath())
		if err != nil {
			return err
		}
		exists, err := filesystem.Exists(a.fs, p)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileIO, "failed to stat %s", p)
		}
		if exists {
			return errors.Newf(errors.ErrFileAlreadyExists, "%s already exists", p).WithDetail("path", p)
		}
		paths[i] = p
	}

	f := installed.ModFile{GUID: op.GUID, Version: op.Version}
	for i, artifact := range mv.Artifacts {
		if err := a.writeArtifact(ctx, artifact, paths[i]); err != nil {
			a.removeFiles(f.Files)
			return err
		}
		f.Files = append(f.Files, installed.ModFileArtifact{Path: paths[i], Hash: hashutil.Normalize(artifact.SHA256)})
		logger.Debug().Str("guid", op.GUID).Str("path", paths[i]).Msg("artifact installed")
	}

	a.state.Add(f)
	logger.Info().Str("guid", op.GUID).Stringer("version", op.Version).Msg("mod installed")
	return nil
}

func (a *Actual) writeArtifact(ctx context.Context, artifact manifest.Artifact, dest string) error {
	body, err := a.source.Open(ctx, artifact)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileIO, "failed to download %s", artifact.URL)
	}
	defer func() {
		_ = body.Close()
	}()

	data, err := io.ReadAll(body)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileIO, "failed to download %s", artifact.URL)
	}

	if got, want := hashutil.BytesSHA256(data), hashutil.Normalize(artifact.SHA256); got != want {
		return errors.Newf(errors.ErrFileIO, "checksum mismatch for %s", artifact.URL).
			WithDetail("expected", want).
			WithDetail("actual", got)
	}

	if err := a.fs.MkdirAll(path.Dir(dest), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrFileIO, "failed to create %s", path.Dir(dest))
	}
	if err := afero.WriteReader(a.fs, dest, bytes.NewReader(data)); err != nil {
		return errors.Wrapf(err, errors.ErrFileIO, "failed to write %s", dest)
	}
	return nil
}

func (a *Actual) uninstall(op operations.UninstallMod) error {
	logger := logging.GetLogger("executor.actual")

	f, ok := a.state.Get(op.GUID, op.Version)
	if !ok {
		return notInstalled(op.GUID, op.Version)
	}

	for _, file := range f.Files {
		if err := a.fs.Remove(file.Path); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, errors.ErrFileIO, "failed to remove %s", file.Path).
				WithDetail("path", file.Path)
		}
	}

	a.state.Remove(op.GUID, op.Version)
	logger.Info().Str("guid", op.GUID).Stringer("version", op.Version).Msg("mod uninstalled")
	return nil
}

// removeFiles undoes the writes of a partially installed mod.
func (a *Actual) removeFiles(files []installed.ModFileArtifact) {
	for _, file := range files {
		_ = a.fs.Remove(file.Path)
	}
}
