package manifest

import (
	"path"
	"sort"
	"strings"

	"github.com/arthur-debert/modorg/pkg/version"
)

// DefaultInstallLocation is where artifacts without an explicit location go,
// relative to the game directory.
const DefaultInstallLocation = "/nml_mods"

// PluginExtension is the file extension of installable mod binaries.
const PluginExtension = ".dll"

// Manifest is one decoded manifest document.
type Manifest struct {
	SchemaVersion version.Version
	Mods          map[string]*Mod
}

// Mod is a registry entry keyed by GUID.
type Mod struct {
	GUID           string
	Name           string
	Description    string
	Color          string
	Authors        map[string]Author
	Category       Category
	Tags           []string
	Flags          []string
	SourceLocation string
	Website        string

	// Versions is keyed by version.Version.Key().
	Versions map[string]*ModVersion
}

// Author is a mod author's contact information.
type Author struct {
	URL     string
	IconURL string
}

// ModVersion is one released version of a mod.
type ModVersion struct {
	Version             version.Version
	Changelog           string
	ReleaseURL          string
	HostCompatibility   *version.Requirement
	LoaderCompatibility *version.Requirement
	Flags               []string
	Dependencies        map[string]Dependency
	Conflicts           map[string]Conflict
	Artifacts           []Artifact
}

// Dependency requires another mod, identified by its GUID key, at a version
// satisfying Version.
type Dependency struct {
	Version version.Requirement
}

// Conflict declares that another mod, identified by its GUID key, must not be
// installed at a version satisfying Version.
type Conflict struct {
	Version version.Requirement
}

// Artifact is one installable file of a mod version.
type Artifact struct {
	URL             string
	Filename        string
	SHA256          string
	Blake3          string
	InstallLocation string
}

// Lookup returns the ModVersion equal to v.
func (m *Mod) Lookup(v version.Version) (*ModVersion, bool) {
	mv, ok := m.Versions[v.Key()]
	return mv, ok
}

// SortedVersions returns the mod's versions from lowest to highest.
func (m *Mod) SortedVersions() []*ModVersion {
	out := make([]*ModVersion, 0, len(m.Versions))
	for _, mv := range m.Versions {
		out = append(out, mv)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Version.Less(out[j].Version)
	})
	return out
}

// Latest returns the highest version of the mod, or nil if it has none.
func (m *Mod) Latest() *ModVersion {
	sorted := m.SortedVersions()
	if len(sorted) == 0 {
		return nil
	}
	return sorted[len(sorted)-1]
}

// SortedGUIDs returns the keys of a dependency or conflict map in order.
func SortedGUIDs[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ResolvedFilename returns the file name the artifact installs as: the
// explicit filename, else the URL's last segment when it names a plugin
// binary, else a name derived from the artifact's hash.
func (a Artifact) ResolvedFilename() string {
	if a.Filename != "" {
		return a.Filename
	}
	if name, ok := filenameFromURL(a.URL, PluginExtension); ok {
		return name
	}
	digest := a.SHA256
	if len(digest) > 12 {
		digest = digest[:12]
	}
	if digest == "" {
		digest = "artifact"
	}
	return digest + PluginExtension
}

// InstallPath returns the artifact's destination relative to the game
// directory, always with a leading slash. A location that climbs out of the
// game directory is kept as written so installers can reject it.
func (a Artifact) InstallPath() string {
	location := a.InstallLocation
	if location == "" {
		location = DefaultInstallLocation
	}
	p := path.Join(location, a.ResolvedFilename())
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

func filenameFromURL(url, ext string) (string, bool) {
	if !strings.HasSuffix(url, ext) {
		return "", false
	}
	i := strings.LastIndex(url, "/")
	if i < 0 || i+1 >= len(url) {
		return "", false
	}
	return url[i+1:], true
}
