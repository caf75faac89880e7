package manifest

import (
	"github.com/arthur-debert/modorg/pkg/errors"
	"github.com/arthur-debert/modorg/pkg/hashutil"
	"github.com/arthur-debert/modorg/pkg/version"
)

// The wire types mirror the published manifest layout. Keys are strings on
// the wire and only become versions and requirements in toDomain, where a
// malformed entry is reported with its GUID and version.

type manifestWire struct {
	SchemaVersion string             `json:"schemaVersion,omitempty" yaml:"schemaVersion,omitempty" toml:"schemaVersion,omitempty"`
	Mods          map[string]modWire `json:"mods" yaml:"mods" toml:"mods"`
}

type modWire struct {
	Name           string                 `json:"name" yaml:"name" toml:"name"`
	Color          string                 `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty"`
	Description    string                 `json:"description" yaml:"description" toml:"description"`
	Authors        map[string]authorWire  `json:"authors" yaml:"authors" toml:"authors"`
	SourceLocation string                 `json:"sourceLocation,omitempty" yaml:"sourceLocation,omitempty" toml:"sourceLocation,omitempty"`
	Website        string                 `json:"website,omitempty" yaml:"website,omitempty" toml:"website,omitempty"`
	Tags           []string               `json:"tags,omitempty" yaml:"tags,omitempty" toml:"tags,omitempty"`
	Category       string                 `json:"category" yaml:"category" toml:"category"`
	Flags          []string               `json:"flags,omitempty" yaml:"flags,omitempty" toml:"flags,omitempty"`
	Versions       map[string]versionWire `json:"versions" yaml:"versions" toml:"versions"`
}

type authorWire struct {
	URL     string `json:"url" yaml:"url" toml:"url"`
	IconURL string `json:"iconUrl,omitempty" yaml:"iconUrl,omitempty" toml:"iconUrl,omitempty"`
}

type versionWire struct {
	Changelog                     string                     `json:"changelog,omitempty" yaml:"changelog,omitempty" toml:"changelog,omitempty"`
	ReleaseURL                    string                     `json:"releaseURL,omitempty" yaml:"releaseURL,omitempty" toml:"releaseURL,omitempty"`
	NeosVersionCompatibility      string                     `json:"neosVersionCompatibility,omitempty" yaml:"neosVersionCompatibility,omitempty" toml:"neosVersionCompatibility,omitempty"`
	ModloaderVersionCompatibility string                     `json:"modloaderVersionCompatibility,omitempty" yaml:"modloaderVersionCompatibility,omitempty" toml:"modloaderVersionCompatibility,omitempty"`
	Flags                         []string                   `json:"flags,omitempty" yaml:"flags,omitempty" toml:"flags,omitempty"`
	Conflicts                     map[string]requirementWire `json:"conflicts,omitempty" yaml:"conflicts,omitempty" toml:"conflicts,omitempty"`
	Dependencies                  map[string]requirementWire `json:"dependencies,omitempty" yaml:"dependencies,omitempty" toml:"dependencies,omitempty"`
	Artifacts                     []artifactWire             `json:"artifacts" yaml:"artifacts" toml:"artifacts"`
}

type requirementWire struct {
	Version string `json:"version" yaml:"version" toml:"version"`
}

type artifactWire struct {
	URL             string `json:"url" yaml:"url" toml:"url"`
	Filename        string `json:"filename,omitempty" yaml:"filename,omitempty" toml:"filename,omitempty"`
	SHA256          string `json:"sha256" yaml:"sha256" toml:"sha256"`
	Blake3          string `json:"blake3,omitempty" yaml:"blake3,omitempty" toml:"blake3,omitempty"`
	InstallLocation string `json:"installLocation,omitempty" yaml:"installLocation,omitempty" toml:"installLocation,omitempty"`
}

func (w manifestWire) toDomain() (*Manifest, error) {
	m := &Manifest{Mods: make(map[string]*Mod, len(w.Mods))}

	if w.SchemaVersion != "" {
		sv, err := version.Parse(w.SchemaVersion)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrManifestParse, "invalid schemaVersion")
		}
		m.SchemaVersion = sv
	}

	for _, guid := range SortedGUIDs(w.Mods) {
		mod, err := w.Mods[guid].toDomain(guid)
		if err != nil {
			return nil, err
		}
		m.Mods[guid] = mod
	}
	return m, nil
}

func (w modWire) toDomain(guid string) (*Mod, error) {
	mod := &Mod{
		GUID:           guid,
		Name:           w.Name,
		Description:    w.Description,
		Color:          w.Color,
		Authors:        make(map[string]Author, len(w.Authors)),
		Category:       Category(w.Category),
		Tags:           w.Tags,
		Flags:          w.Flags,
		SourceLocation: w.SourceLocation,
		Website:        w.Website,
		Versions:       make(map[string]*ModVersion, len(w.Versions)),
	}
	for name, a := range w.Authors {
		mod.Authors[name] = Author{URL: a.URL, IconURL: a.IconURL}
	}

	// Sorted so that two spellings of one version ("1" and "1.0") resolve the
	// same way every time.
	for _, raw := range SortedGUIDs(w.Versions) {
		v, err := version.Parse(raw)
		if err != nil {
			return nil, parseError(err, guid, raw, "invalid version key")
		}
		mv, err := w.Versions[raw].toDomain(guid, v)
		if err != nil {
			return nil, err
		}
		mod.Versions[v.Key()] = mv
	}
	return mod, nil
}

func (w versionWire) toDomain(guid string, v version.Version) (*ModVersion, error) {
	mv := &ModVersion{
		Version:      v,
		Changelog:    w.Changelog,
		ReleaseURL:   w.ReleaseURL,
		Flags:        w.Flags,
		Dependencies: make(map[string]Dependency, len(w.Dependencies)),
		Conflicts:    make(map[string]Conflict, len(w.Conflicts)),
		Artifacts:    make([]Artifact, 0, len(w.Artifacts)),
	}

	var err error
	if mv.HostCompatibility, err = optionalRequirement(w.NeosVersionCompatibility); err != nil {
		return nil, parseError(err, guid, v.String(), "invalid host compatibility")
	}
	if mv.LoaderCompatibility, err = optionalRequirement(w.ModloaderVersionCompatibility); err != nil {
		return nil, parseError(err, guid, v.String(), "invalid loader compatibility")
	}

	for target, dep := range w.Dependencies {
		req, err := version.ParseRequirement(dep.Version)
		if err != nil {
			return nil, parseError(err, guid, v.String(), "invalid dependency on "+target)
		}
		mv.Dependencies[target] = Dependency{Version: req}
	}
	for target, c := range w.Conflicts {
		req, err := version.ParseRequirement(c.Version)
		if err != nil {
			return nil, parseError(err, guid, v.String(), "invalid conflict with "+target)
		}
		mv.Conflicts[target] = Conflict{Version: req}
	}

	for _, a := range w.Artifacts {
		mv.Artifacts = append(mv.Artifacts, Artifact{
			URL:             a.URL,
			Filename:        a.Filename,
			SHA256:          hashutil.Normalize(a.SHA256),
			Blake3:          a.Blake3,
			InstallLocation: a.InstallLocation,
		})
	}
	return mv, nil
}

func optionalRequirement(s string) (*version.Requirement, error) {
	if s == "" {
		return nil, nil
	}
	req, err := version.ParseRequirement(s)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func parseError(err error, guid, ver, msg string) error {
	return errors.Wrapf(err, errors.ErrManifestParse, "mod %s@%s: %s", guid, ver, msg).
		WithDetail("guid", guid).
		WithDetail("version", ver)
}
