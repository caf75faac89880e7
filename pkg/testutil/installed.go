package testutil

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/modorg/pkg/installed"
	"github.com/arthur-debert/modorg/pkg/manifest"
	"github.com/arthur-debert/modorg/pkg/version"
	"github.com/spf13/afero"
)

// Installed builds a state holding complete installs of the given
// "guid@version" references, looked up in mods. References that are not in
// mods become installs of the default artifact.
func Installed(mods map[string]*manifest.Mod, refs ...string) installed.State {
	state := installed.New()
	for _, ref := range refs {
		state.Add(ModFile(mods, ref))
	}
	return state
}

// ModFile returns a complete install of "guid@version".
func ModFile(mods map[string]*manifest.Mod, ref string) installed.ModFile {
	guid, v := splitRef(ref)
	parsed := version.MustParse(v)

	if mod, ok := mods[guid]; ok {
		if mv, ok := mod.Lookup(parsed); ok {
			return installed.NewModFile(guid, mv)
		}
	}

	return installed.NewModFile(guid, &manifest.ModVersion{
		Version:   parsed,
		Artifacts: []manifest.Artifact{DefaultArtifact(guid, v)},
	})
}

// WriteInstall writes the files of guid@v's default artifact onto fs
// relative to root.
func WriteInstall(fs afero.Fs, root, ref string) error {
	guid, v := splitRef(ref)
	a := DefaultArtifact(guid, v)
	return afero.WriteFile(fs, root+a.InstallPath(), ArtifactContent(guid, v), 0644)
}

func splitRef(ref string) (string, string) {
	guid, v, ok := strings.Cut(ref, "@")
	if !ok {
		panic(fmt.Sprintf("testutil: reference %q is not guid@version", ref))
	}
	return guid, v
}
