package resolver

import (
	"fmt"

	"github.com/arthur-debert/modorg/pkg/installed"
	"github.com/arthur-debert/modorg/pkg/logging"
	"github.com/arthur-debert/modorg/pkg/manifest"
	"github.com/arthur-debert/modorg/pkg/operations"
	"github.com/arthur-debert/modorg/pkg/registry"
	"github.com/arthur-debert/modorg/pkg/version"
)

// UnableToFindError reports the first mod in the dependency closure for
// which no registry version satisfies the requirement.
type UnableToFindError struct {
	GUID        string
	Requirement version.Requirement
}

func (e *UnableToFindError) Error() string {
	return fmt.Sprintf("unable to find %s matching %s", e.GUID, e.Requirement)
}

type request struct {
	guid string
	req  version.Requirement
}

// node is everything planned for one guid: its operations in the order
// they were planned and the dependency guids of the versions it installs.
type node struct {
	ops  []operations.Operation
	deps []string
}

// FindLatestMatching returns the highest version of guid that satisfies req.
func FindLatestMatching(guid string, req version.Requirement, snap *registry.Snapshot) (*manifest.ModVersion, bool) {
	mod, ok := snap.Mod(guid)
	if !ok {
		return nil, false
	}

	var best *manifest.ModVersion
	for _, mv := range mod.Versions {
		if !req.Matches(mv.Version) {
			continue
		}
		if best == nil || best.Version.Less(mv.Version) {
			best = mv
		}
	}
	return best, best != nil
}

// Resolve plans the installation of guid at a version satisfying req,
// together with its transitive dependencies. Operations come out
// leaves-first: every mod is installed after all the mods it depends on,
// except where a dependency cycle makes that impossible. If any mod in the
// closure cannot be satisfied the whole plan fails with *UnableToFindError.
func Resolve(guid string, req version.Requirement, state installed.State, snap *registry.Snapshot) ([]operations.Operation, error) {
	logger := logging.GetLogger("resolver")

	nodes := make(map[string]*node)
	var order []string
	planned := make(map[string][]version.Version)
	uninstalled := make(map[string]bool)

	stack := []request{{guid: guid, req: req}}
	for len(stack) > 0 {
		next := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		chosen, ok := FindLatestMatching(next.guid, next.req, snap)
		if !ok {
			logger.Debug().Str("guid", next.guid).Stringer("requirement", next.req).Msg("no matching version")
			return nil, &UnableToFindError{GUID: next.guid, Requirement: next.req}
		}

		if alreadySatisfied(state.Files(next.guid), next.req, chosen.Version) {
			logger.Trace().Str("guid", next.guid).Msg("already satisfied")
			continue
		}
		// A planned version that already matches was expanded when it was
		// planned; expanding it again would loop on cycles.
		if anyMatches(planned[next.guid], next.req) {
			continue
		}

		n, ok := nodes[next.guid]
		if !ok {
			n = &node{}
			nodes[next.guid] = n
			order = append(order, next.guid)
		}
		if !uninstalled[next.guid] {
			for _, f := range state.Files(next.guid) {
				n.ops = append(n.ops, operations.UninstallMod{GUID: next.guid, Version: f.Version})
			}
			uninstalled[next.guid] = true
		}
		n.ops = append(n.ops, operations.InstallMod{GUID: next.guid, Version: chosen.Version})
		planned[next.guid] = append(planned[next.guid], chosen.Version)

		logger.Trace().Str("guid", next.guid).Stringer("version", chosen.Version).Msg("planned")

		deps := manifest.SortedGUIDs(chosen.Dependencies)
		n.deps = appendMissing(n.deps, deps)
		for _, dep := range deps {
			stack = append(stack, request{guid: dep, req: chosen.Dependencies[dep].Version})
		}
	}

	ops := leavesFirst(nodes, append([]string{guid}, order...))
	logger.Debug().Str("guid", guid).Stringer("requirement", req).Int("operations", len(ops)).Msg("resolved")
	return ops, nil
}

// alreadySatisfied reports whether an installed version matches req and is
// not older than latest.
func alreadySatisfied(files []installed.ModFile, req version.Requirement, latest version.Version) bool {
	for _, f := range files {
		if f.Tracked() && req.Matches(f.Version) && f.Version.Compare(latest) >= 0 {
			return true
		}
	}
	return false
}

func anyMatches(vs []version.Version, req version.Requirement) bool {
	for _, v := range vs {
		if req.Matches(v) {
			return true
		}
	}
	return false
}

func appendMissing(dst, src []string) []string {
	for _, s := range src {
		found := false
		for _, d := range dst {
			if d == s {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, s)
		}
	}
	return dst
}

// leavesFirst orders the operations of nodes by a depth-first post-order
// walk of their dependencies, starting from each of roots in turn. Guids
// without a node are passed through: they are satisfied already. The
// visited set ends the walk on cycles, so the member of a cycle reached
// first comes out last.
func leavesFirst(nodes map[string]*node, roots []string) []operations.Operation {
	ops := []operations.Operation{}
	visited := make(map[string]bool, len(nodes))

	var visit func(guid string)
	visit = func(guid string) {
		if visited[guid] {
			return
		}
		visited[guid] = true
		n, ok := nodes[guid]
		if !ok {
			return
		}
		for _, dep := range n.deps {
			visit(dep)
		}
		ops = append(ops, n.ops...)
	}

	for _, root := range roots {
		visit(root)
	}
	return ops
}
