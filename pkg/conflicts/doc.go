// Package conflicts finds inconsistencies in an installed state.
//
// Check runs every check for every installed mod version against a registry
// snapshot and returns all findings. Findings are values, not errors: a state
// with problems still yields a result, possibly with several findings for the
// same mod. Nothing is deduplicated.
//
// The checks are:
//
//   - VersionConflict: more than one version of a GUID is installed.
//   - FileConflict: an artifact's install path was already claimed by another
//     artifact examined earlier in the same pass.
//   - IncompleteInstall: no installed file has a declared artifact's hash.
//   - DependencyMissing: a declared dependency is not installed at all.
//   - DependencyMismatch: a dependency is installed but no installed version
//     satisfies the requirement.
//   - DirectConflict: a declared conflict is installed at a matching version,
//     or installed without a known version.
//
// Installs whose version is unknown to the registry only take part in the
// VersionConflict check and as targets of other mods' checks.
package conflicts
