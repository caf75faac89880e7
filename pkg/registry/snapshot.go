package registry

import (
	"sort"
	"strings"

	"github.com/arthur-debert/modorg/pkg/hashutil"
	"github.com/arthur-debert/modorg/pkg/manifest"
	"github.com/arthur-debert/modorg/pkg/version"
)

// ModRef identifies one version of one mod.
type ModRef struct {
	GUID    string
	Version version.Version
}

func (r ModRef) String() string {
	return r.GUID + "@" + r.Version.String()
}

type refKey struct {
	guid    string
	version string
}

// Snapshot is an immutable view of the registry.
type Snapshot struct {
	mods map[string]*manifest.Mod

	// byHash maps an artifact digest to every mod version that ships it.
	byHash map[string][]ModRef
	// hashes maps a mod version to its artifact digests.
	hashes map[refKey][]string
}

// Empty returns a snapshot with no mods.
func Empty() *Snapshot {
	return NewSnapshot(nil)
}

// NewSnapshot builds a snapshot over mods and derives its hash indices.
// The outer map is copied; the mods themselves are shared and must not be
// modified afterwards.
func NewSnapshot(mods map[string]*manifest.Mod) *Snapshot {
	s := &Snapshot{
		mods:   make(map[string]*manifest.Mod, len(mods)),
		byHash: make(map[string][]ModRef),
		hashes: make(map[refKey][]string),
	}
	for guid, mod := range mods {
		s.mods[guid] = mod
	}

	for _, guid := range s.GUIDs() {
		for _, mv := range s.mods[guid].SortedVersions() {
			ref := ModRef{GUID: guid, Version: mv.Version}
			key := refKey{guid: guid, version: mv.Version.Key()}
			for _, a := range mv.Artifacts {
				digest := hashutil.Normalize(a.SHA256)
				s.hashes[key] = append(s.hashes[key], digest)
				s.byHash[digest] = append(s.byHash[digest], ref)
			}
		}
	}
	return s
}

// Len returns the number of mods.
func (s *Snapshot) Len() int {
	return len(s.mods)
}

// GUIDs returns every mod GUID in sorted order.
func (s *Snapshot) GUIDs() []string {
	return manifest.SortedGUIDs(s.mods)
}

// Mod returns the mod with the given GUID.
func (s *Snapshot) Mod(guid string) (*manifest.Mod, bool) {
	mod, ok := s.mods[guid]
	return mod, ok
}

// Lookup returns a specific version of a mod.
func (s *Snapshot) Lookup(guid string, v version.Version) (*manifest.Mod, *manifest.ModVersion, bool) {
	mod, ok := s.mods[guid]
	if !ok {
		return nil, nil, false
	}
	mv, ok := mod.Lookup(v)
	if !ok {
		return mod, nil, false
	}
	return mod, mv, true
}

// ByHash returns every mod version shipping an artifact with this digest,
// ordered by GUID and then by ascending version.
func (s *Snapshot) ByHash(digest string) []ModRef {
	refs := s.byHash[hashutil.Normalize(digest)]
	out := make([]ModRef, len(refs))
	copy(out, refs)
	return out
}

// Hashes returns the artifact digests declared by a mod version.
func (s *Snapshot) Hashes(guid string, v version.Version) []string {
	hs := s.hashes[refKey{guid: guid, version: v.Key()}]
	out := make([]string, len(hs))
	copy(out, hs)
	return out
}

// Search returns mods whose GUID, name, description or tags contain term,
// case-insensitively, sorted by GUID. An empty term matches everything.
func (s *Snapshot) Search(term string) []*manifest.Mod {
	term = strings.ToLower(strings.TrimSpace(term))

	var out []*manifest.Mod
	for _, guid := range s.GUIDs() {
		mod := s.mods[guid]
		if term == "" || matchesTerm(mod, term) {
			out = append(out, mod)
		}
	}
	return out
}

func matchesTerm(mod *manifest.Mod, term string) bool {
	fields := append([]string{mod.GUID, mod.Name, mod.Description, string(mod.Category)}, mod.Tags...)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// SortRefs orders refs by GUID and then by version.
func SortRefs(refs []ModRef) {
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].GUID != refs[j].GUID {
			return refs[i].GUID < refs[j].GUID
		}
		return refs[i].Version.Less(refs[j].Version)
	})
}
