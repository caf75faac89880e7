package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/modorg/pkg/errors"
	"github.com/arthur-debert/modorg/pkg/logging"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"
)

// View is anything a Renderer can print.
type View interface {
	writeText(w io.Writer, p painter, width int) error
}

// Renderer writes views and messages in one format.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	format Format
	width  int
}

// NewRenderer returns a renderer for out and errOut. FormatAuto must be
// resolved by the caller, it is treated as FormatText here.
func NewRenderer(out, errOut io.Writer, format Format) *Renderer {
	if format == FormatAuto {
		format = FormatText
	}
	return &Renderer{out: out, errOut: errOut, format: format}
}

// WithWidth sets the wrap width for markdown output.
func (r *Renderer) WithWidth(width int) *Renderer {
	r.width = width
	return r
}

// Format returns the renderer's format.
func (r *Renderer) Format() Format {
	return r.format
}

func (r *Renderer) painter() painter {
	return painter{color: r.format == FormatTerminal}
}

// Render writes v in the renderer's format.
func (r *Renderer) Render(v View) error {
	log := logging.GetLogger("output.Renderer")
	log.Trace().Str("format", r.format.String()).Msgf("rendering %T", v)

	var err error
	switch r.format {
	case FormatJSON:
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		err = enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(r.out)
		enc.SetIndent(2)
		err = enc.Encode(v)
		if err == nil {
			err = enc.Close()
		}
	case FormatTOML:
		err = toml.NewEncoder(r.out).Encode(v)
	default:
		err = v.writeText(r.out, r.painter(), r.width)
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "failed to render %s output", r.format)
	}
	return nil
}

// Success prints a confirmation. Structured formats stay silent so that
// stdout only carries the encoded view.
func (r *Renderer) Success(format string, args ...interface{}) {
	if r.format.Structured() {
		return
	}
	fmt.Fprintln(r.out, r.painter().paint(SuccessStyle, "✓ ")+fmt.Sprintf(format, args...))
}

// Warn prints a warning to the error writer.
func (r *Renderer) Warn(format string, args ...interface{}) {
	fmt.Fprintln(r.errOut, r.painter().paint(WarningStyle, "! ")+fmt.Sprintf(format, args...))
}

// Error prints err to the error writer.
func (r *Renderer) Error(err error) {
	fmt.Fprintln(r.errOut, r.painter().paint(ErrorStyle, "Error:")+" "+err.Error())
}

func (l ModList) writeText(w io.Writer, p painter, _ int) error {
	if len(l.Mods) == 0 {
		_, err := fmt.Fprintln(w, p.paint(MutedStyle, "No mods found."))
		return err
	}

	data := pterm.TableData{{"GUID", "Name", "Latest", "Installed", "Category"}}
	for _, m := range l.Mods {
		data = append(data, []string{
			p.paint(GUIDStyle, m.GUID),
			m.Name,
			m.Latest,
			strings.Join(m.Installed, ", "),
			m.Category,
		})
	}
	return writeTable(w, p, data)
}

func (m ModInfo) writeText(w io.Writer, p painter, width int) error {
	if p.color {
		_, err := io.WriteString(w, RenderMarkdown(m.Markdown(), true, width))
		return err
	}
	_, err := io.WriteString(w, m.Markdown())
	return err
}

func (pl Plan) writeText(w io.Writer, p painter, _ int) error {
	title := "Plan for " + pl.Target
	if pl.DryRun {
		title += " (dry run)"
	}
	if _, err := fmt.Fprintln(w, p.paint(TitleStyle, title)); err != nil {
		return err
	}

	if len(pl.Steps) == 0 {
		if _, err := fmt.Fprintln(w, p.paint(MutedStyle, "  Nothing to do.")); err != nil {
			return err
		}
	}
	for _, s := range pl.Steps {
		marker := p.paint(InstallStyle, "+")
		if s.Action == "uninstall" {
			marker = p.paint(UninstallStyle, "-")
		}
		if _, err := fmt.Fprintf(w, "  %s %s %s@%s\n", marker, s.Action, s.GUID, s.Version); err != nil {
			return err
		}
	}

	return writeConflicts(w, p, pl.Conflicts, "Conflicts after this plan:")
}

func (s Status) writeText(w io.Writer, p painter, _ int) error {
	if len(s.Mods) == 0 {
		if _, err := fmt.Fprintln(w, p.paint(MutedStyle, "No mods installed.")); err != nil {
			return err
		}
	} else {
		data := pterm.TableData{{"GUID", "Version", "Files", "State"}}
		for _, m := range s.Mods {
			state := "enabled"
			for _, f := range m.Files {
				if f.Disabled {
					state = "disabled"
					break
				}
			}
			v := m.Version
			if v == "" {
				v = "?"
			}
			data = append(data, []string{p.paint(GUIDStyle, m.GUID), v, fmt.Sprint(len(m.Files)), state})
		}
		if err := writeTable(w, p, data); err != nil {
			return err
		}
	}

	return writeConflicts(w, p, s.Conflicts, "Conflicts:")
}

func writeConflicts(w io.Writer, p painter, entries []ConflictEntry, title string) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, p.paint(SuccessStyle, "No conflicts found."))
		return err
	}
	if _, err := fmt.Fprintln(w, p.paint(WarningStyle, title)); err != nil {
		return err
	}
	for _, c := range entries {
		if _, err := fmt.Fprintf(w, "  %s %s\n", p.paint(WarningStyle, "!"), c.Message); err != nil {
			return err
		}
	}
	return nil
}

func writeTable(w io.Writer, p painter, data pterm.TableData) error {
	table := pterm.DefaultTable.WithHasHeader().WithData(data)
	if !p.color {
		plain := pterm.NewStyle()
		table = table.WithStyle(plain).WithHeaderStyle(plain).WithSeparatorStyle(plain)
	}
	rendered, err := table.Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, rendered)
	return err
}
