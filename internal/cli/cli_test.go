package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/modorg/pkg/config"
	"github.com/arthur-debert/modorg/pkg/errors"
	"github.com/arthur-debert/modorg/pkg/hashutil"
	"github.com/arthur-debert/modorg/pkg/installed"
	"github.com/arthur-debert/modorg/pkg/output"
	"github.com/arthur-debert/modorg/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type release struct {
	guid, version string
	deps          map[string]string
}

var releases = []release{
	{guid: "core", version: "1.0"},
	{guid: "lib", version: "1.0"},
	{guid: "lib", version: "2.0", deps: map[string]string{"core": ">=1.0"}},
	{guid: "app", version: "1.0", deps: map[string]string{"lib": "^2"}},
}

func artifactName(r release) string {
	return fmt.Sprintf("%s-%s.dll", r.guid, r.version)
}

func artifactContent(r release) []byte {
	return []byte("binary of " + r.guid + "@" + r.version)
}

func manifestJSON(baseURL string) []byte {
	versions := map[string][]string{}
	for _, r := range releases {
		var deps []string
		for g, req := range r.deps {
			deps = append(deps, fmt.Sprintf(`%q: {"version": %q}`, g, req))
		}
		versions[r.guid] = append(versions[r.guid], fmt.Sprintf(
			`%q: {"dependencies": {%s}, "artifacts": [{"url": %q, "sha256": %q}]}`,
			r.version, strings.Join(deps, ", "), baseURL+"/dl/"+artifactName(r), hashutil.BytesSHA256(artifactContent(r))))
	}

	var mods []string
	for guid, vs := range versions {
		mods = append(mods, fmt.Sprintf(`%q: {"name": %q, "authors": {}, "category": "Misc", "versions": {%s}}`,
			guid, strings.ToUpper(guid), strings.Join(vs, ", ")))
	}
	return []byte(`{"mods": {` + strings.Join(mods, ", ") + `}}`)
}

// registryServer serves the manifest at /manifest.json and every artifact
// below /dl/.
func registryServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/manifest.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(manifestJSON(srv.URL))
	})
	for _, r := range releases {
		content := artifactContent(r)
		mux.HandleFunc("/dl/"+artifactName(r), func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write(content)
		})
	}
	return srv
}

type env struct {
	gameDir  string
	cacheDir string
}

func setup(t *testing.T) env {
	t.Helper()
	srv := registryServer(t)

	e := env{gameDir: t.TempDir(), cacheDir: t.TempDir()}
	t.Setenv(paths.EnvConfigDir, t.TempDir())
	t.Setenv(paths.EnvCacheDir, e.cacheDir)
	t.Setenv(paths.EnvStateDir, t.TempDir())
	t.Setenv("MODORG_MANIFESTS_LINKS", srv.URL+"/manifest.json")
	t.Setenv("MODORG_GAME_DIR", e.gameDir)
	return e
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func runJSON(t *testing.T, v interface{}, args ...string) {
	t.Helper()
	stdout, stderr, err := run(t, append([]string{"-o", "json"}, args...)...)
	require.NoError(t, err, stderr)
	require.NoError(t, json.Unmarshal([]byte(stdout), v), stdout)
}

func steps(p output.Plan) []string {
	out := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		out[i] = s.Action + " " + s.GUID + "@" + s.Version
	}
	return out
}

func TestVersionCommand(t *testing.T) {
	t.Setenv(paths.EnvStateDir, t.TempDir())

	stdout, _, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "modorg dev"))
}

func TestConfigCommand(t *testing.T) {
	e := setup(t)

	t.Run("effective", func(t *testing.T) {
		stdout, _, err := run(t, "config")
		require.NoError(t, err)
		assert.Contains(t, stdout, e.gameDir)
		assert.Contains(t, stdout, "manifest.json")
	})

	t.Run("defaults", func(t *testing.T) {
		stdout, _, err := run(t, "config", "--defaults")
		require.NoError(t, err)
		assert.Equal(t, config.DefaultsTOML(), stdout)
	})
}

func TestListCommand(t *testing.T) {
	e := setup(t)

	var list output.ModList
	runJSON(t, &list, "list")
	require.Len(t, list.Mods, 3)
	assert.Equal(t, "app", list.Mods[0].GUID)
	assert.Equal(t, "2.0", list.Mods[2].Latest)

	var found output.ModList
	runJSON(t, &found, "list", "--search", "lib")
	require.Len(t, found.Mods, 1)
	assert.Equal(t, "lib", found.Mods[0].GUID)

	_, err := os.Stat(filepath.Join(e.cacheDir, manifestCacheFile))
	assert.NoError(t, err, "manifests are cached between runs")
}

func TestInfoCommand(t *testing.T) {
	setup(t)

	stdout, _, err := run(t, "-o", "text", "info", "lib")
	require.NoError(t, err)
	assert.Contains(t, stdout, "LIB")
	assert.Contains(t, stdout, "2.0")

	_, _, err = run(t, "info", "missing")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestPlanDoesNotTouchDisk(t *testing.T) {
	e := setup(t)

	var plan output.Plan
	runJSON(t, &plan, "plan", "app")
	assert.Equal(t, []string{"install core@1.0", "install lib@2.0", "install app@1.0"}, steps(plan))
	assert.Empty(t, plan.Conflicts)

	_, err := os.Stat(filepath.Join(e.gameDir, "nml_mods"))
	assert.True(t, os.IsNotExist(err))
}

func TestPlanRejectsBadRequirement(t *testing.T) {
	setup(t)

	_, _, err := run(t, "plan", "app", ">=x")
	assert.Error(t, err)
}

func TestInstallDryRun(t *testing.T) {
	e := setup(t)

	var plan output.Plan
	runJSON(t, &plan, "install", "app", "--dry-run")
	assert.True(t, plan.DryRun)
	assert.Len(t, plan.Steps, 3)

	_, err := os.Stat(filepath.Join(e.gameDir, "nml_mods"))
	assert.True(t, os.IsNotExist(err))
}

func TestInstallStatusUninstall(t *testing.T) {
	e := setup(t)

	var plan output.Plan
	runJSON(t, &plan, "install", "app", "--yes")
	require.Len(t, plan.Steps, 3)

	for _, name := range []string{"core-1.0.dll", "lib-2.0.dll", "app-1.0.dll"} {
		data, err := os.ReadFile(filepath.Join(e.gameDir, "nml_mods", name))
		require.NoError(t, err, name)
		assert.NotEmpty(t, data)
	}

	var status output.Status
	runJSON(t, &status, "status")
	require.Len(t, status.Mods, 3)
	assert.Empty(t, status.Conflicts)

	stdout, _, err := run(t, "-o", "text", "install", "app", "--yes")
	require.NoError(t, err)
	assert.Contains(t, stdout, "already installed")

	var removal output.Plan
	runJSON(t, &removal, "uninstall", "lib", "--yes")
	assert.Equal(t, []string{"uninstall lib@2.0"}, steps(removal))
	require.Len(t, removal.Conflicts, 1)
	assert.Equal(t, "dependency_missing", removal.Conflicts[0].Kind)

	var after output.Status
	runJSON(t, &after, "status")
	assert.Len(t, after.Mods, 2)
	require.Len(t, after.Conflicts, 1)
	assert.Equal(t, "app", after.Conflicts[0].GUID)
}

func TestUnknownFilesShowInStatus(t *testing.T) {
	e := setup(t)
	dir := filepath.Join(e.gameDir, "nml_mods")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "custom.dll"), []byte("homebrew"), 0644))

	var status output.Status
	runJSON(t, &status, "status")
	require.Len(t, status.Mods, 1)
	assert.Equal(t, installed.UnknownGUID, status.Mods[0].GUID)
	assert.Empty(t, status.Mods[0].Version)
	require.Len(t, status.Mods[0].Files, 1)
	assert.Equal(t, "/nml_mods/custom.dll", status.Mods[0].Files[0].Path)
}

func TestUninstallNotInstalled(t *testing.T) {
	setup(t)

	_, _, err := run(t, "uninstall", "core", "--yes")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestGameCommandsNeedGameDir(t *testing.T) {
	setup(t)
	t.Setenv("MODORG_GAME_DIR", "")

	_, _, err := run(t, "status")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))

	_, _, err = run(t, "--game-dir", filepath.Join(t.TempDir(), "missing"), "status")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestRefreshReportsFailingSources(t *testing.T) {
	setup(t)
	srv := registryServer(t)
	t.Setenv("MODORG_MANIFESTS_LINKS", srv.URL+"/manifest.json,"+srv.URL+"/missing.json")

	stdout, stderr, err := run(t, "-o", "text", "refresh")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Loaded 3 mods from 1 sources")
	assert.Contains(t, stderr, "missing.json")

	t.Setenv("MODORG_MANIFESTS_LINKS", srv.URL+"/missing.json")
	_, _, err = run(t, "refresh")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestFetch))
}

func TestGenCompletion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		var buf bytes.Buffer
		require.NoError(t, GenCompletion(NewRootCmd(), shell, &buf), shell)
		assert.Contains(t, buf.String(), "modorg", shell)
	}

	err := GenCompletion(NewRootCmd(), "tcsh", &bytes.Buffer{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestManCommand(t *testing.T) {
	t.Setenv(paths.EnvStateDir, t.TempDir())

	stdout, _, err := run(t, "man")
	require.NoError(t, err)
	assert.Contains(t, stdout, "MODORG")
}

func TestHelpTopics(t *testing.T) {
	t.Setenv(paths.EnvStateDir, t.TempDir())

	stdout, _, err := run(t, "help", "topics")
	require.NoError(t, err)
	for _, topic := range []string{"configuration", "conflicts", "manifests", "requirements"} {
		assert.Contains(t, stdout, "  "+topic)
	}

	stdout, _, err = run(t, "help", "requirements")
	require.NoError(t, err)
	assert.Contains(t, stdout, "# Version requirements")

	stdout, _, err = run(t, "help", "conflicts")
	require.NoError(t, err)
	assert.Contains(t, stdout, "FILE_ALREADY_EXISTS")
}

func TestPlanHelpMentionsHeldFiles(t *testing.T) {
	t.Setenv(paths.EnvStateDir, t.TempDir())

	for _, name := range []string{"plan", "install"} {
		stdout, _, err := run(t, name, "--help")
		require.NoError(t, err)
		assert.Contains(t, stdout, "FILE_ALREADY_EXISTS", name)
	}
}
