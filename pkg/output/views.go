package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arthur-debert/modorg/pkg/conflicts"
	"github.com/arthur-debert/modorg/pkg/installed"
	"github.com/arthur-debert/modorg/pkg/manifest"
	"github.com/arthur-debert/modorg/pkg/operations"
	"github.com/arthur-debert/modorg/pkg/version"
)

// ModSummary is one row of a mod listing.
type ModSummary struct {
	GUID        string   `json:"guid" yaml:"guid" toml:"guid"`
	Name        string   `json:"name" yaml:"name" toml:"name"`
	Latest      string   `json:"latest,omitempty" yaml:"latest,omitempty" toml:"latest,omitempty"`
	Category    string   `json:"category,omitempty" yaml:"category,omitempty" toml:"category,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Installed   []string `json:"installed,omitempty" yaml:"installed,omitempty" toml:"installed,omitempty"`
}

// ModList is the result of list and search.
type ModList struct {
	Mods []ModSummary `json:"mods" yaml:"mods" toml:"mods"`
}

// NewModList summarizes mods in GUID order. state may be nil.
func NewModList(mods []*manifest.Mod, state installed.State) ModList {
	list := ModList{Mods: make([]ModSummary, 0, len(mods))}
	for _, mod := range mods {
		summary := ModSummary{
			GUID:        mod.GUID,
			Name:        mod.Name,
			Category:    string(mod.Category),
			Description: mod.Description,
			Installed:   versionStrings(state.Versions(mod.GUID)),
		}
		if latest := mod.Latest(); latest != nil {
			summary.Latest = latest.Version.String()
		}
		list.Mods = append(list.Mods, summary)
	}
	sort.Slice(list.Mods, func(i, j int) bool {
		return list.Mods[i].GUID < list.Mods[j].GUID
	})
	return list
}

// ArtifactInfo describes one file of a version.
type ArtifactInfo struct {
	URL    string `json:"url" yaml:"url" toml:"url"`
	Path   string `json:"path" yaml:"path" toml:"path"`
	SHA256 string `json:"sha256" yaml:"sha256" toml:"sha256"`
}

// VersionInfo describes one released version.
type VersionInfo struct {
	Version      string         `json:"version" yaml:"version" toml:"version"`
	Changelog    string         `json:"changelog,omitempty" yaml:"changelog,omitempty" toml:"changelog,omitempty"`
	ReleaseURL   string         `json:"releaseUrl,omitempty" yaml:"releaseUrl,omitempty" toml:"releaseUrl,omitempty"`
	Host         string         `json:"hostCompatibility,omitempty" yaml:"hostCompatibility,omitempty" toml:"hostCompatibility,omitempty"`
	Loader       string         `json:"loaderCompatibility,omitempty" yaml:"loaderCompatibility,omitempty" toml:"loaderCompatibility,omitempty"`
	Dependencies []string       `json:"dependencies,omitempty" yaml:"dependencies,omitempty" toml:"dependencies,omitempty"`
	Conflicts    []string       `json:"conflicts,omitempty" yaml:"conflicts,omitempty" toml:"conflicts,omitempty"`
	Artifacts    []ArtifactInfo `json:"artifacts" yaml:"artifacts" toml:"artifacts"`
}

// ModInfo is the detail view of a single mod.
type ModInfo struct {
	GUID           string        `json:"guid" yaml:"guid" toml:"guid"`
	Name           string        `json:"name" yaml:"name" toml:"name"`
	Description    string        `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Category       string        `json:"category,omitempty" yaml:"category,omitempty" toml:"category,omitempty"`
	Authors        []string      `json:"authors,omitempty" yaml:"authors,omitempty" toml:"authors,omitempty"`
	Tags           []string      `json:"tags,omitempty" yaml:"tags,omitempty" toml:"tags,omitempty"`
	SourceLocation string        `json:"sourceLocation,omitempty" yaml:"sourceLocation,omitempty" toml:"sourceLocation,omitempty"`
	Website        string        `json:"website,omitempty" yaml:"website,omitempty" toml:"website,omitempty"`
	Installed      []string      `json:"installed,omitempty" yaml:"installed,omitempty" toml:"installed,omitempty"`
	Versions       []VersionInfo `json:"versions" yaml:"versions" toml:"versions"`
}

// NewModInfo describes mod with its versions newest first. state may be nil.
func NewModInfo(mod *manifest.Mod, state installed.State) ModInfo {
	info := ModInfo{
		GUID:           mod.GUID,
		Name:           mod.Name,
		Description:    mod.Description,
		Category:       string(mod.Category),
		Authors:        manifest.SortedGUIDs(mod.Authors),
		Tags:           mod.Tags,
		SourceLocation: mod.SourceLocation,
		Website:        mod.Website,
		Installed:      versionStrings(state.Versions(mod.GUID)),
	}

	sorted := mod.SortedVersions()
	for i := len(sorted) - 1; i >= 0; i-- {
		mv := sorted[i]
		vi := VersionInfo{
			Version:    mv.Version.String(),
			Changelog:  mv.Changelog,
			ReleaseURL: mv.ReleaseURL,
			Artifacts:  make([]ArtifactInfo, 0, len(mv.Artifacts)),
		}
		if mv.HostCompatibility != nil {
			vi.Host = mv.HostCompatibility.String()
		}
		if mv.LoaderCompatibility != nil {
			vi.Loader = mv.LoaderCompatibility.String()
		}
		for _, guid := range manifest.SortedGUIDs(mv.Dependencies) {
			vi.Dependencies = append(vi.Dependencies, guid+" "+mv.Dependencies[guid].Version.String())
		}
		for _, guid := range manifest.SortedGUIDs(mv.Conflicts) {
			vi.Conflicts = append(vi.Conflicts, guid+" "+mv.Conflicts[guid].Version.String())
		}
		for _, a := range mv.Artifacts {
			vi.Artifacts = append(vi.Artifacts, ArtifactInfo{URL: a.URL, Path: a.InstallPath(), SHA256: a.SHA256})
		}
		info.Versions = append(info.Versions, vi)
	}
	return info
}

// Markdown renders the info as a markdown document.
func (m ModInfo) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n`%s`\n\n", displayName(m.Name, m.GUID), m.GUID)
	if m.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", m.Description)
	}

	field := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "- **%s:** %s\n", label, value)
		}
	}
	field("Category", m.Category)
	field("Authors", strings.Join(m.Authors, ", "))
	field("Tags", strings.Join(m.Tags, ", "))
	field("Source", m.SourceLocation)
	field("Website", m.Website)
	field("Installed", strings.Join(m.Installed, ", "))

	if len(m.Versions) == 0 {
		return b.String()
	}

	b.WriteString("\n## Versions\n")
	for _, v := range m.Versions {
		fmt.Fprintf(&b, "\n### %s\n\n", v.Version)
		if v.Changelog != "" {
			fmt.Fprintf(&b, "%s\n\n", v.Changelog)
		}
		if v.ReleaseURL != "" {
			fmt.Fprintf(&b, "- **Release:** %s\n", v.ReleaseURL)
		}
		if v.Host != "" {
			fmt.Fprintf(&b, "- **Host:** `%s`\n", v.Host)
		}
		if v.Loader != "" {
			fmt.Fprintf(&b, "- **Loader:** `%s`\n", v.Loader)
		}
		for _, dep := range v.Dependencies {
			fmt.Fprintf(&b, "- **Depends on:** `%s`\n", dep)
		}
		for _, c := range v.Conflicts {
			fmt.Fprintf(&b, "- **Conflicts with:** `%s`\n", c)
		}
		for _, a := range v.Artifacts {
			fmt.Fprintf(&b, "- **Artifact:** `%s`\n", a.Path)
		}
	}
	return b.String()
}

// PlanStep is one operation of a plan.
type PlanStep struct {
	Action  string `json:"action" yaml:"action" toml:"action"`
	GUID    string `json:"guid" yaml:"guid" toml:"guid"`
	Version string `json:"version" yaml:"version" toml:"version"`
}

// ConflictEntry is one conflict finding.
type ConflictEntry struct {
	Kind    string `json:"kind" yaml:"kind" toml:"kind"`
	GUID    string `json:"guid" yaml:"guid" toml:"guid"`
	Message string `json:"message" yaml:"message" toml:"message"`
}

// Plan is what an install or uninstall will do, and the conflicts that
// would remain afterwards.
type Plan struct {
	Target    string          `json:"target" yaml:"target" toml:"target"`
	DryRun    bool            `json:"dryRun" yaml:"dryRun" toml:"dryRun"`
	Steps     []PlanStep      `json:"steps" yaml:"steps" toml:"steps"`
	Conflicts []ConflictEntry `json:"conflicts" yaml:"conflicts" toml:"conflicts"`
}

// NewPlan builds a plan view, keeping the operations' order.
func NewPlan(target string, ops []operations.Operation, found []conflicts.ModConflict, dryRun bool) Plan {
	plan := Plan{
		Target:    target,
		DryRun:    dryRun,
		Steps:     make([]PlanStep, 0, len(ops)),
		Conflicts: conflictEntries(found),
	}
	for _, op := range ops {
		guid, v := op.Target()
		plan.Steps = append(plan.Steps, PlanStep{Action: operations.Kind(op), GUID: guid, Version: v.String()})
	}
	return plan
}

// InstalledFile is one file found on disk.
type InstalledFile struct {
	Path     string `json:"path" yaml:"path" toml:"path"`
	Hash     string `json:"hash" yaml:"hash" toml:"hash"`
	Disabled bool   `json:"disabled,omitempty" yaml:"disabled,omitempty" toml:"disabled,omitempty"`
}

// InstalledMod is one installed mod version.
type InstalledMod struct {
	GUID    string          `json:"guid" yaml:"guid" toml:"guid"`
	Version string          `json:"version,omitempty" yaml:"version,omitempty" toml:"version,omitempty"`
	Files   []InstalledFile `json:"files" yaml:"files" toml:"files"`
}

// Status is the installed state and its conflicts.
type Status struct {
	Mods      []InstalledMod  `json:"mods" yaml:"mods" toml:"mods"`
	Conflicts []ConflictEntry `json:"conflicts" yaml:"conflicts" toml:"conflicts"`
}

// NewStatus lists state by GUID then version.
func NewStatus(state installed.State, found []conflicts.ModConflict) Status {
	status := Status{
		Mods:      make([]InstalledMod, 0, state.Count()),
		Conflicts: conflictEntries(found),
	}
	for _, guid := range state.GUIDs() {
		for _, mf := range state.Files(guid) {
			im := InstalledMod{GUID: guid, Version: mf.Version.String(), Files: make([]InstalledFile, 0, len(mf.Files))}
			for _, f := range mf.Files {
				im.Files = append(im.Files, InstalledFile{Path: f.Path, Hash: f.Hash, Disabled: f.Disabled})
			}
			sort.Slice(im.Files, func(i, j int) bool { return im.Files[i].Path < im.Files[j].Path })
			status.Mods = append(status.Mods, im)
		}
	}
	return status
}

func conflictEntries(found []conflicts.ModConflict) []ConflictEntry {
	entries := make([]ConflictEntry, 0, len(found))
	for _, c := range found {
		entries = append(entries, ConflictEntry{Kind: conflicts.Kind(c), GUID: c.Subject(), Message: c.String()})
	}
	return entries
}

func versionStrings(vs []version.Version) []string {
	if len(vs) == 0 {
		return nil
	}
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.String()
	}
	return out
}

func displayName(name, guid string) string {
	if name == "" {
		return guid
	}
	return name
}
