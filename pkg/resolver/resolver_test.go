package resolver

import (
	"errors"
	"fmt"
	"testing"

	"github.com/arthur-debert/modorg/pkg/installed"
	"github.com/arthur-debert/modorg/pkg/operations"
	"github.com/arthur-debert/modorg/pkg/registry"
	"github.com/arthur-debert/modorg/pkg/testutil"
	"github.com/arthur-debert/modorg/pkg/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func install(guid, v string) operations.Operation {
	return operations.InstallMod{GUID: guid, Version: version.MustParse(v)}
}

func uninstall(guid, v string) operations.Operation {
	return operations.UninstallMod{GUID: guid, Version: version.MustParse(v)}
}

func TestResolveMissingTransitiveDependency(t *testing.T) {
	mods := testutil.Mods(
		testutil.Mod("com.example.root").Version("1.12.5", testutil.DependsOn("dep", "1")),
	)

	ops, err := Resolve("com.example.root", version.AnyRequirement(), installed.New(), registry.NewSnapshot(mods))

	assert.Nil(t, ops)
	var notFound *UnableToFindError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "dep", notFound.GUID)
	assert.Equal(t, "=1", notFound.Requirement.String())
	assert.True(t, notFound.Requirement.Equal(version.MustParseRequirement("1")))
}

func TestResolveAlreadyAtLatest(t *testing.T) {
	mods := testutil.Mods(
		testutil.Mod("a").Version("1.0").Version("1.12.5"),
	)
	state := testutil.Installed(mods, "a@1.12.5")

	ops, err := Resolve("a", version.AnyRequirement(), state, registry.NewSnapshot(mods))

	require.NoError(t, err)
	assert.NotNil(t, ops)
	assert.Empty(t, ops)
}

func TestResolve(t *testing.T) {
	mods := testutil.Mods(
		testutil.Mod("app").
			Version("1.0", testutil.DependsOn("lib", "^1")).
			Version("2.0", testutil.DependsOn("lib", "^1"), testutil.DependsOn("util", "*")),
		testutil.Mod("lib").
			Version("1.0").
			Version("1.5", testutil.DependsOn("core", ">=0.2")).
			Version("2.0"),
		testutil.Mod("core").Version("0.1").Version("0.3"),
		testutil.Mod("util").Version("3.1"),
	)
	snap := registry.NewSnapshot(mods)

	tests := []struct {
		name      string
		guid      string
		req       string
		installed []string
		want      []operations.Operation
	}{
		{
			name: "fresh install is leaves first",
			guid: "app",
			req:  "*",
			want: []operations.Operation{
				install("core", "0.3"),
				install("lib", "1.5"),
				install("util", "3.1"),
				install("app", "2.0"),
			},
		},
		{
			name: "requirement limits the root version",
			guid: "app",
			req:  "<2",
			want: []operations.Operation{
				install("core", "0.3"),
				install("lib", "1.5"),
				install("app", "1.0"),
			},
		},
		{
			name:      "upgrade replaces installed versions",
			guid:      "app",
			req:       "*",
			installed: []string{"app@1.0", "lib@1.5", "core@0.3"},
			want: []operations.Operation{
				install("util", "3.1"),
				uninstall("app", "1.0"),
				install("app", "2.0"),
			},
		},
		{
			name:      "outdated dependency is upgraded",
			guid:      "app",
			req:       "1.0",
			installed: []string{"lib@1.0", "core@0.3"},
			want: []operations.Operation{
				uninstall("lib", "1.0"),
				install("lib", "1.5"),
				install("app", "1.0"),
			},
		},
		{
			name:      "installed version newer than registry is kept",
			guid:      "util",
			req:       "3",
			installed: []string{"util@3.2"},
			want:      []operations.Operation{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := testutil.Installed(mods, tt.installed...)
			ops, err := Resolve(tt.guid, version.MustParseRequirement(tt.req), state, snap)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ops)
		})
	}
}

func TestResolveRootNotInRegistry(t *testing.T) {
	ops, err := Resolve("ghost", version.AnyRequirement(), installed.New(), registry.Empty())

	assert.Nil(t, ops)
	var notFound *UnableToFindError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "ghost", notFound.GUID)
	assert.Equal(t, "unable to find ghost matching *", err.Error())
}

func TestResolveDoesNotRevalidateSatisfiedMods(t *testing.T) {
	mods := testutil.Mods(
		testutil.Mod("a").Version("1", testutil.DependsOn("gone", "*")),
	)
	state := testutil.Installed(mods, "a@1")

	ops, err := Resolve("a", version.AnyRequirement(), state, registry.NewSnapshot(mods))

	require.NoError(t, err)
	assert.Empty(t, ops)
}

func TestResolveTerminatesOnCycles(t *testing.T) {
	mods := testutil.Mods(
		testutil.Mod("a").Version("1", testutil.DependsOn("b", "1")),
		testutil.Mod("b").Version("1", testutil.DependsOn("a", "1")),
	)

	ops, err := Resolve("a", version.AnyRequirement(), installed.New(), registry.NewSnapshot(mods))

	require.NoError(t, err)
	assert.Equal(t, []operations.Operation{install("b", "1"), install("a", "1")}, ops)
}

func TestResolveDiamondInstallsSharedDependencyFirst(t *testing.T) {
	mods := testutil.Mods(
		testutil.Mod("a").Version("1", testutil.DependsOn("b", "1"), testutil.DependsOn("c", "1")),
		testutil.Mod("b").Version("1", testutil.DependsOn("c", "1")),
		testutil.Mod("c").Version("1"),
	)

	ops, err := Resolve("a", version.AnyRequirement(), installed.New(), registry.NewSnapshot(mods))

	require.NoError(t, err)
	assert.Equal(t, []operations.Operation{install("c", "1"), install("b", "1"), install("a", "1")}, ops)
}

func TestResolveThreeCycle(t *testing.T) {
	mods := testutil.Mods(
		testutil.Mod("a").Version("1", testutil.DependsOn("b", "1")),
		testutil.Mod("b").Version("1", testutil.DependsOn("c", "1")),
		testutil.Mod("c").Version("1", testutil.DependsOn("a", "1"), testutil.DependsOn("d", "1")),
		testutil.Mod("d").Version("1"),
	)

	ops, err := Resolve("a", version.AnyRequirement(), installed.New(), registry.NewSnapshot(mods))

	require.NoError(t, err)
	assert.Equal(t, []operations.Operation{
		install("d", "1"),
		install("c", "1"),
		install("b", "1"),
		install("a", "1"),
	}, ops)
}

func TestResolveInstallsDependenciesFirst(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(t, "mods")
		guids := make([]string, n)
		for i := range guids {
			guids[i] = fmt.Sprintf("m%d", i)
		}

		// Edges only point to higher indexes, so the graph is acyclic.
		builders := make([]*testutil.ModBuilder, n)
		edges := make(map[string][]string)
		for i, guid := range guids {
			var opts []testutil.VersionOption
			for j := i + 1; j < n; j++ {
				if rapid.Bool().Draw(t, fmt.Sprintf("%s->%s", guid, guids[j])) {
					opts = append(opts, testutil.DependsOn(guids[j], "*"))
					edges[guid] = append(edges[guid], guids[j])
				}
			}
			builders[i] = testutil.Mod(guid).Version("1", opts...)
		}

		ops, err := Resolve("m0", version.AnyRequirement(), installed.New(), registry.NewSnapshot(testutil.Mods(builders...)))
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}

		position := make(map[string]int)
		for i, op := range ops {
			if _, seen := position[op.(operations.InstallMod).GUID]; seen {
				t.Fatalf("%s installed twice", op)
			}
			position[op.(operations.InstallMod).GUID] = i
		}
		for from, tos := range edges {
			at, ok := position[from]
			if !ok {
				continue
			}
			for _, to := range tos {
				dep, ok := position[to]
				if !ok || dep > at {
					t.Fatalf("%s installed before its dependency %s: %v", from, to, ops)
				}
			}
		}
	})
}

func TestFindLatestMatching(t *testing.T) {
	mods := testutil.Mods(
		testutil.Mod("a").Version("0.9").Version("1.0").Version("1.4.2").Version("2.0"),
	)
	snap := registry.NewSnapshot(mods)

	mv, ok := FindLatestMatching("a", version.MustParseRequirement("^1"), snap)
	require.True(t, ok)
	assert.Equal(t, "1.4.2", mv.Version.String())

	_, ok = FindLatestMatching("a", version.MustParseRequirement(">2"), snap)
	assert.False(t, ok)

	_, ok = FindLatestMatching("b", version.AnyRequirement(), snap)
	assert.False(t, ok)
}

func TestLeavesFirst(t *testing.T) {
	nodes := map[string]*node{
		"root": {ops: []operations.Operation{uninstall("root", "1"), install("root", "2")}, deps: []string{"mid", "leaf"}},
		"mid":  {ops: []operations.Operation{install("mid", "1")}, deps: []string{"leaf", "satisfied"}},
		"leaf": {ops: []operations.Operation{uninstall("leaf", "0.1"), install("leaf", "0.2")}},
	}

	assert.Equal(t, []operations.Operation{
		uninstall("leaf", "0.1"),
		install("leaf", "0.2"),
		install("mid", "1"),
		uninstall("root", "1"),
		install("root", "2"),
	}, leavesFirst(nodes, []string{"root", "mid", "leaf"}))

	assert.Equal(t, []operations.Operation{}, leavesFirst(nil, []string{"root"}))
}
