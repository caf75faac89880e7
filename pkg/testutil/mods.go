package testutil

import (
	"fmt"

	"github.com/arthur-debert/modorg/pkg/hashutil"
	"github.com/arthur-debert/modorg/pkg/manifest"
	"github.com/arthur-debert/modorg/pkg/version"
)

// ModBuilder builds a registry mod.
type ModBuilder struct {
	mod *manifest.Mod
}

// VersionOption customizes a mod version.
type VersionOption func(guid string, mv *manifest.ModVersion)

// Mod starts a mod with the given GUID. Its name defaults to the GUID.
func Mod(guid string) *ModBuilder {
	return &ModBuilder{mod: &manifest.Mod{
		GUID:     guid,
		Name:     guid,
		Category: manifest.CategoryMisc,
		Authors:  map[string]manifest.Author{},
		Versions: map[string]*manifest.ModVersion{},
	}}
}

// Name sets the display name.
func (b *ModBuilder) Name(name string) *ModBuilder {
	b.mod.Name = name
	return b
}

// Description sets the description.
func (b *ModBuilder) Description(desc string) *ModBuilder {
	b.mod.Description = desc
	return b
}

// Tags sets the tags.
func (b *ModBuilder) Tags(tags ...string) *ModBuilder {
	b.mod.Tags = tags
	return b
}

// Version adds a version. Unless an option sets artifacts, the version gets
// one artifact named "<guid>-<version>.dll" whose content is
// ArtifactContent(guid, version).
func (b *ModBuilder) Version(v string, opts ...VersionOption) *ModBuilder {
	parsed := version.MustParse(v)
	mv := &manifest.ModVersion{
		Version:      parsed,
		Dependencies: map[string]manifest.Dependency{},
		Conflicts:    map[string]manifest.Conflict{},
		Artifacts:    []manifest.Artifact{DefaultArtifact(b.mod.GUID, v)},
	}
	for _, opt := range opts {
		opt(b.mod.GUID, mv)
	}
	b.mod.Versions[parsed.Key()] = mv
	return b
}

// Build returns the mod.
func (b *ModBuilder) Build() *manifest.Mod {
	return b.mod
}

// Mods collects builders into a GUID to Mod mapping.
func Mods(builders ...*ModBuilder) map[string]*manifest.Mod {
	out := make(map[string]*manifest.Mod, len(builders))
	for _, b := range builders {
		out[b.mod.GUID] = b.Build()
	}
	return out
}

// DependsOn declares a dependency.
func DependsOn(guid, requirement string) VersionOption {
	return func(_ string, mv *manifest.ModVersion) {
		mv.Dependencies[guid] = manifest.Dependency{Version: version.MustParseRequirement(requirement)}
	}
}

// ConflictsWith declares a conflict.
func ConflictsWith(guid, requirement string) VersionOption {
	return func(_ string, mv *manifest.ModVersion) {
		mv.Conflicts[guid] = manifest.Conflict{Version: version.MustParseRequirement(requirement)}
	}
}

// Artifacts replaces the version's artifacts.
func Artifacts(artifacts ...manifest.Artifact) VersionOption {
	return func(_ string, mv *manifest.ModVersion) {
		mv.Artifacts = artifacts
	}
}

// ArtifactContent is the content of the default artifact of guid@v.
func ArtifactContent(guid, v string) []byte {
	return []byte(fmt.Sprintf("binary of %s@%s", guid, v))
}

// DefaultArtifact is the artifact Version adds when none is given.
func DefaultArtifact(guid, v string) manifest.Artifact {
	name := fmt.Sprintf("%s-%s.dll", guid, v)
	return manifest.Artifact{
		URL:    "https://mods.example.com/" + name,
		SHA256: hashutil.BytesSHA256(ArtifactContent(guid, v)),
	}
}

// NamedArtifact is an artifact with an explicit filename whose content is
// the filename itself.
func NamedArtifact(filename string) manifest.Artifact {
	return manifest.Artifact{
		URL:      "https://mods.example.com/download/" + filename,
		Filename: filename,
		SHA256:   hashutil.BytesSHA256([]byte(filename)),
	}
}
