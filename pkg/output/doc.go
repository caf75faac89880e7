// Package output renders modorg's results for people and for scripts.
//
// Every command builds a view (ModList, ModInfo, Plan, Status) from domain
// values and hands it to a Renderer. The Renderer's Format decides the
// encoding:
//
//   - term: lipgloss styled text; mod details are rendered as markdown
//     through glamour
//   - text: the same layout without styling
//   - json, yaml, toml: the view's fields, for scripting
//
// DetectFormat picks term or text from the output file and NO_COLOR.
package output
