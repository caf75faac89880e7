package conflicts

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/modorg/pkg/manifest"
	"github.com/arthur-debert/modorg/pkg/registry"
	"github.com/arthur-debert/modorg/pkg/version"
)

// ModConflict is one finding. The concrete types below are the complete set.
type ModConflict interface {
	fmt.Stringer
	// Subject is the GUID the finding is about.
	Subject() string
	conflict()
}

// VersionConflict: several versions of one GUID are installed.
type VersionConflict struct {
	GUID     string
	Versions []version.Version
}

// FileConflict: two artifacts install to the same path.
type FileConflict struct {
	GUID      string
	Version   version.Version
	Path      string
	ClaimedBy registry.ModRef
}

// IncompleteInstall: a declared artifact is not among the installed files.
type IncompleteInstall struct {
	GUID     string
	Version  version.Version
	Artifact manifest.Artifact
}

// DependencyMissing: a dependency is not installed.
type DependencyMissing struct {
	GUID        string
	Version     version.Version
	Needs       string
	Requirement version.Requirement
}

// DependencyMismatch: a dependency is installed, but not at a usable version.
type DependencyMismatch struct {
	GUID        string
	Version     version.Version
	Needs       string
	Requirement version.Requirement
	Found       []version.Version
}

// DirectConflict: a mod this one conflicts with is installed. A zero
// ConflictingVersion means the conflicting install has no known version.
type DirectConflict struct {
	GUID               string
	Version            version.Version
	ConflictsWith      string
	Requirement        version.Requirement
	ConflictingVersion version.Version
}

func (VersionConflict) conflict()    {}
func (FileConflict) conflict()       {}
func (IncompleteInstall) conflict()  {}
func (DependencyMissing) conflict()  {}
func (DependencyMismatch) conflict() {}
func (DirectConflict) conflict()     {}

func (c VersionConflict) Subject() string    { return c.GUID }
func (c FileConflict) Subject() string       { return c.GUID }
func (c IncompleteInstall) Subject() string  { return c.GUID }
func (c DependencyMissing) Subject() string  { return c.GUID }
func (c DependencyMismatch) Subject() string { return c.GUID }
func (c DirectConflict) Subject() string     { return c.GUID }

func (c VersionConflict) String() string {
	return fmt.Sprintf("%s has %d versions installed: %s", c.GUID, len(c.Versions), joinVersions(c.Versions))
}

func (c FileConflict) String() string {
	return fmt.Sprintf("%s@%s installs %s, already claimed by %s", c.GUID, c.Version, c.Path, c.ClaimedBy)
}

func (c IncompleteInstall) String() string {
	return fmt.Sprintf("%s@%s is missing %s", c.GUID, c.Version, c.Artifact.InstallPath())
}

func (c DependencyMissing) String() string {
	return fmt.Sprintf("%s@%s needs %s %s, which is not installed", c.GUID, c.Version, c.Needs, c.Requirement)
}

func (c DependencyMismatch) String() string {
	return fmt.Sprintf("%s@%s needs %s %s, found %s", c.GUID, c.Version, c.Needs, c.Requirement, joinVersions(c.Found))
}

func (c DirectConflict) String() string {
	found := c.ConflictingVersion.String()
	if c.ConflictingVersion.IsZero() {
		found = "an unknown version"
	}
	return fmt.Sprintf("%s@%s conflicts with %s %s, found %s", c.GUID, c.Version, c.ConflictsWith, c.Requirement, found)
}

// Kind names the finding's type, for output and grouping.
func Kind(c ModConflict) string {
	switch c.(type) {
	case VersionConflict:
		return "version_conflict"
	case FileConflict:
		return "file_conflict"
	case IncompleteInstall:
		return "incomplete_install"
	case DependencyMissing:
		return "dependency_missing"
	case DependencyMismatch:
		return "dependency_mismatch"
	case DirectConflict:
		return "direct_conflict"
	default:
		panic(fmt.Sprintf("conflicts: unknown finding %T", c))
	}
}

func joinVersions(vs []version.Version) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
		if v.IsZero() {
			parts[i] = "?"
		}
	}
	return strings.Join(parts, ", ")
}
