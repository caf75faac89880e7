package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/modorg/pkg/errors"
	"github.com/arthur-debert/modorg/pkg/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readTestdata(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func TestDecodeJSON(t *testing.T) {
	m, err := Decode(readTestdata(t, "manifest.json"), FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, "1.0.0", m.SchemaVersion.String())
	require.Len(t, m.Mods, 2)

	alpha := m.Mods["com.example.alpha"]
	require.NotNil(t, alpha)
	assert.Equal(t, "com.example.alpha", alpha.GUID)
	assert.Equal(t, "Alpha", alpha.Name)
	assert.Equal(t, CategoryMisc, alpha.Category)
	assert.True(t, alpha.Category.Known())
	assert.Equal(t, "https://example.com/ada.png", alpha.Authors["Ada"].IconURL)
	assert.Equal(t, []string{"alpha", "test"}, alpha.Tags)

	mv, ok := alpha.Lookup(version.MustParse("1.1"))
	require.True(t, ok)
	assert.Equal(t, "Faster alpha.", mv.Changelog)
	assert.Equal(t, "https://example.com/alpha/releases/1.1.0", mv.ReleaseURL)
	require.NotNil(t, mv.HostCompatibility)
	assert.Equal(t, ">=2022.1", mv.HostCompatibility.String())
	require.NotNil(t, mv.LoaderCompatibility)
	assert.Equal(t, "^1.12", mv.LoaderCompatibility.String())
	assert.Equal(t, "^2", mv.Dependencies["com.example.beta"].Version.String())
	assert.Equal(t, "*", mv.Conflicts["com.example.gamma"].Version.String())
	require.Len(t, mv.Artifacts, 2)
	assert.Equal(t, "/nml_mods/Alpha.dll", mv.Artifacts[0].InstallPath())
	assert.Equal(t, "/nml_libs/Helper.dll", mv.Artifacts[1].InstallPath())

	old, ok := alpha.Lookup(version.MustParse("1"))
	require.True(t, ok)
	assert.Nil(t, old.HostCompatibility)
	assert.Equal(t, "aaaa0000000000000000000000000000000000000000000000000000000000aa", old.Artifacts[0].SHA256,
		"hashes are normalized to lowercase")

	assert.Equal(t, "1.1.0", alpha.Latest().Version.String())
}

func TestDecodeFormatsAgree(t *testing.T) {
	fromJSON, err := Decode(readTestdata(t, "manifest.json"), FormatJSON)
	require.NoError(t, err)

	for _, tt := range []struct {
		file   string
		format Format
	}{
		{"manifest.yaml", FormatYAML},
		{"manifest.toml", FormatTOML},
	} {
		t.Run(tt.format.String(), func(t *testing.T) {
			m, err := Decode(readTestdata(t, tt.file), tt.format)
			require.NoError(t, err)

			beta := m.Mods["com.example.beta"]
			require.NotNil(t, beta)
			want := fromJSON.Mods["com.example.beta"]

			assert.Equal(t, want.Name, beta.Name)
			assert.Equal(t, want.Category, beta.Category)
			require.Len(t, beta.Versions, 1)
			got, ok := beta.Lookup(version.MustParse("2.3"))
			require.True(t, ok)
			assert.Equal(t, want.Versions[got.Version.Key()].Artifacts, got.Artifacts)
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"malformed json", `{"mods": `},
		{"bad version key", `{"mods": {"a": {"name": "A", "versions": {"x1": {"artifacts": []}}}}}`},
		{"bad dependency", `{"mods": {"a": {"name": "A", "versions": {"1": {"dependencies": {"b": {"version": ">=q"}}, "artifacts": []}}}}}`},
		{"bad compatibility", `{"mods": {"a": {"name": "A", "versions": {"1": {"neosVersionCompatibility": "~", "artifacts": []}}}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc), FormatJSON)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrManifestParse))
		})
	}
}

func TestFormatFor(t *testing.T) {
	tests := map[string]Format{
		"https://example.com/manifest.json":       FormatJSON,
		"https://example.com/manifest":            FormatJSON,
		"https://example.com/manifest.yaml?raw=1": FormatYAML,
		"/home/me/mods.yml":                       FormatYAML,
		"file:///home/me/mods.toml":               FormatTOML,
		"https://example.com/m.TOML":              FormatTOML,
	}
	for source, want := range tests {
		assert.Equal(t, want, FormatFor(source), source)
	}
}

func TestArtifactResolvedFilename(t *testing.T) {
	tests := []struct {
		name     string
		artifact Artifact
		want     string
	}{
		{"explicit filename", Artifact{URL: "https://x/y.dll", Filename: "Named.dll"}, "Named.dll"},
		{"from url", Artifact{URL: "https://x/releases/Mod.dll"}, "Mod.dll"},
		{"url without plugin extension", Artifact{URL: "https://x/download?id=3", SHA256: "0123456789abcdef"}, "0123456789ab.dll"},
		{"url ending in slash", Artifact{URL: "https://x/.dll/", SHA256: "ab"}, "ab.dll"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.artifact.ResolvedFilename())
		})
	}
}

func TestArtifactInstallPath(t *testing.T) {
	tests := []struct {
		location string
		want     string
	}{
		{"", "/nml_mods/M.dll"},
		{"/nml_libs", "/nml_libs/M.dll"},
		{"Libraries", "/Libraries/M.dll"},
		{"../outside", "/../outside/M.dll"},
	}
	for _, tt := range tests {
		a := Artifact{URL: "https://x/M.dll", InstallLocation: tt.location}
		assert.Equal(t, tt.want, a.InstallPath(), tt.location)
	}
}
