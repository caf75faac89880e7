// Package installed models what is currently installed in a game directory.
package installed

import (
	"sort"

	"github.com/arthur-debert/modorg/pkg/hashutil"
	"github.com/arthur-debert/modorg/pkg/manifest"
	"github.com/arthur-debert/modorg/pkg/version"
)

// UnknownGUID owns every file that could not be matched to a registry mod.
const UnknownGUID = "unknown"

// ModFileArtifact is one file on disk belonging to an installed mod.
type ModFileArtifact struct {
	Path     string
	Hash     string
	Disabled bool
}

// ModFile is one installed version of a mod and the files it consists of.
// A zero Version means the install could not be tied to a registry version.
type ModFile struct {
	GUID    string
	Version version.Version
	Files   []ModFileArtifact
}

// Tracked reports whether the install has a known version.
func (f ModFile) Tracked() bool {
	return !f.Version.IsZero()
}

// HasHash reports whether any file of the install has the given digest.
func (f ModFile) HasHash(digest string) bool {
	digest = hashutil.Normalize(digest)
	for _, a := range f.Files {
		if a.Hash == digest {
			return true
		}
	}
	return false
}

// NewModFile describes a complete install of mv as declared by the registry:
// one file per artifact at the artifact's install path.
func NewModFile(guid string, mv *manifest.ModVersion) ModFile {
	files := make([]ModFileArtifact, 0, len(mv.Artifacts))
	for _, a := range mv.Artifacts {
		files = append(files, ModFileArtifact{
			Path: a.InstallPath(),
			Hash: hashutil.Normalize(a.SHA256),
		})
	}
	return ModFile{GUID: guid, Version: mv.Version, Files: files}
}

// State maps GUID to version key to install.
type State map[string]map[string]ModFile

// New returns an empty state.
func New() State {
	return State{}
}

// Add records f, replacing an existing install of the same GUID and version.
func (s State) Add(f ModFile) {
	versions, ok := s[f.GUID]
	if !ok {
		versions = make(map[string]ModFile)
		s[f.GUID] = versions
	}
	versions[f.Version.Key()] = f
}

// Remove deletes an install and prunes the GUID once it has no versions
// left. It reports whether anything was removed.
func (s State) Remove(guid string, v version.Version) bool {
	versions, ok := s[guid]
	if !ok {
		return false
	}
	if _, ok := versions[v.Key()]; !ok {
		return false
	}
	delete(versions, v.Key())
	if len(versions) == 0 {
		delete(s, guid)
	}
	return true
}

// Get returns the install of guid at v.
func (s State) Get(guid string, v version.Version) (ModFile, bool) {
	f, ok := s[guid][v.Key()]
	return f, ok
}

// Has reports whether any version of guid is installed.
func (s State) Has(guid string) bool {
	return len(s[guid]) > 0
}

// GUIDs returns the installed GUIDs in sorted order.
func (s State) GUIDs() []string {
	return manifest.SortedGUIDs(s)
}

// Files returns the installs of guid ordered by version.
func (s State) Files(guid string) []ModFile {
	out := make([]ModFile, 0, len(s[guid]))
	for _, f := range s[guid] {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Version.Less(out[j].Version)
	})
	return out
}

// Versions returns the installed versions of guid in ascending order,
// including the zero version of untracked installs.
func (s State) Versions(guid string) []version.Version {
	files := s.Files(guid)
	out := make([]version.Version, len(files))
	for i, f := range files {
		out[i] = f.Version
	}
	return out
}

// Count returns the number of installs across all GUIDs.
func (s State) Count() int {
	n := 0
	for _, versions := range s {
		n += len(versions)
	}
	return n
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := make(State, len(s))
	for guid, versions := range s {
		vs := make(map[string]ModFile, len(versions))
		for key, f := range versions {
			files := make([]ModFileArtifact, len(f.Files))
			copy(files, f.Files)
			f.Files = files
			vs[key] = f
		}
		out[guid] = vs
	}
	return out
}
