// Package testutil provides fixtures for testing modorg components.
//
// Key components:
//   - ModBuilder: declarative registry mods with versions, artifacts,
//     dependencies and conflicts
//   - Installed: installed states built from the same declarations
//   - WriteInstall: lays an install out on an afero filesystem
//
// Every artifact created by the builders has deterministic content
// (ArtifactContent) so hash-based code can be tested end to end.
package testutil
