package conflicts

import (
	"github.com/arthur-debert/modorg/pkg/installed"
	"github.com/arthur-debert/modorg/pkg/logging"
	"github.com/arthur-debert/modorg/pkg/manifest"
	"github.com/arthur-debert/modorg/pkg/registry"
)

// Check returns every conflict in state. Results are produced in a stable
// order (GUID, then version, then declaration order) but should be treated as
// a multiset.
func Check(state installed.State, snap *registry.Snapshot) []ModConflict {
	logger := logging.GetLogger("conflicts")

	var found []ModConflict
	claimed := make(map[string]registry.ModRef)

	for _, guid := range state.GUIDs() {
		files := state.Files(guid)

		if len(files) > 1 {
			found = append(found, VersionConflict{GUID: guid, Versions: state.Versions(guid)})
		}

		for _, f := range files {
			if !f.Tracked() {
				continue
			}
			_, mv, ok := snap.Lookup(guid, f.Version)
			if !ok {
				logger.Trace().Str("guid", guid).Stringer("version", f.Version).Msg("not in registry, skipping checks")
				continue
			}

			found = append(found, checkArtifacts(f, mv, claimed)...)
			found = append(found, checkDependencies(f, mv, state)...)
			found = append(found, checkConflicts(f, mv, state)...)
		}
	}

	logger.Debug().Int("installed", state.Count()).Int("conflicts", len(found)).Msg("conflict check done")
	return found
}

func checkArtifacts(f installed.ModFile, mv *manifest.ModVersion, claimed map[string]registry.ModRef) []ModConflict {
	var found []ModConflict
	self := registry.ModRef{GUID: f.GUID, Version: f.Version}

	for _, a := range mv.Artifacts {
		p := a.InstallPath()
		if owner, taken := claimed[p]; taken {
			found = append(found, FileConflict{GUID: f.GUID, Version: f.Version, Path: p, ClaimedBy: owner})
		} else {
			claimed[p] = self
		}

		if !f.HasHash(a.SHA256) {
			found = append(found, IncompleteInstall{GUID: f.GUID, Version: f.Version, Artifact: a})
		}
	}
	return found
}

func checkDependencies(f installed.ModFile, mv *manifest.ModVersion, state installed.State) []ModConflict {
	var found []ModConflict

	for _, needs := range manifest.SortedGUIDs(mv.Dependencies) {
		req := mv.Dependencies[needs].Version

		if !state.Has(needs) {
			found = append(found, DependencyMissing{
				GUID:        f.GUID,
				Version:     f.Version,
				Needs:       needs,
				Requirement: req,
			})
			continue
		}

		satisfied := false
		for _, dep := range state.Files(needs) {
			if dep.Tracked() && req.Matches(dep.Version) {
				satisfied = true
				break
			}
		}
		if !satisfied {
			found = append(found, DependencyMismatch{
				GUID:        f.GUID,
				Version:     f.Version,
				Needs:       needs,
				Requirement: req,
				Found:       state.Versions(needs),
			})
		}
	}
	return found
}

func checkConflicts(f installed.ModFile, mv *manifest.ModVersion, state installed.State) []ModConflict {
	var found []ModConflict

	for _, other := range manifest.SortedGUIDs(mv.Conflicts) {
		req := mv.Conflicts[other].Version

		for _, candidate := range state.Files(other) {
			if !candidate.Tracked() || req.Matches(candidate.Version) {
				found = append(found, DirectConflict{
					GUID:               f.GUID,
					Version:            f.Version,
					ConflictsWith:      other,
					Requirement:        req,
					ConflictingVersion: candidate.Version,
				})
				break
			}
		}
	}
	return found
}
