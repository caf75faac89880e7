// Package topics adds help topics to a cobra application: "app help <topic>"
// prints a document that is not tied to any command.
package topics

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// Topic is one help document.
type Topic struct {
	Name    string
	Ext     string
	Content string
}

// Options configures a Manager.
type Options struct {
	// Extensions are the file extensions read as topics. Defaults to
	// .txt and .md.
	Extensions []string

	// Renderer formats topics. Defaults to PlainRenderer.
	Renderer Renderer
}

// Manager holds the topics found in a filesystem.
type Manager struct {
	topics     map[string]*Topic
	extensions []string
	renderer   Renderer
}

// Load reads every topic file in fsys. Topic names are file names without
// their extension.
func Load(fsys fs.FS, opts Options) (*Manager, error) {
	m := &Manager{
		topics:     make(map[string]*Topic),
		extensions: opts.Extensions,
		renderer:   opts.Renderer,
	}
	if len(m.extensions) == 0 {
		m.extensions = []string{".txt", ".md"}
	}
	if m.renderer == nil {
		m.renderer = PlainRenderer{}
	}

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := path.Ext(p)
		if !m.supported(ext) {
			return nil
		}

		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(path.Base(p), ext)
		m.topics[name] = &Topic{Name: name, Ext: ext, Content: string(content)}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load help topics: %w", err)
	}
	return m, nil
}

func (m *Manager) supported(ext string) bool {
	for _, e := range m.extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Get finds a topic. Flag-style names ("--dry-run") also match topics named
// "option-dry-run".
func (m *Manager) Get(name string) (*Topic, bool) {
	name = strings.TrimLeft(name, "-")
	if t, ok := m.topics[name]; ok {
		return t, true
	}
	t, ok := m.topics["option-"+name]
	return t, ok
}

// Names returns the topic names, sorted.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.topics))
	for name := range m.topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render writes topic name to w.
func (m *Manager) Render(w io.Writer, name string) bool {
	t, ok := m.Get(name)
	if !ok {
		return false
	}
	_, _ = io.WriteString(w, m.renderer.Render(t.Content, t.Ext))
	return true
}

func (m *Manager) writeIndex(w io.Writer, appName string) {
	names := m.Names()
	if len(names) == 0 {
		fmt.Fprintln(w, "No help topics available.")
		return
	}

	var general, options []string
	for _, name := range names {
		if opt, ok := strings.CutPrefix(name, "option-"); ok {
			options = append(options, opt)
		} else {
			general = append(general, name)
		}
	}

	fmt.Fprintln(w, "Available help topics:")
	if len(general) > 0 {
		fmt.Fprintln(w, "\nGeneral topics:")
		for _, name := range general {
			fmt.Fprintf(w, "  %s\n", name)
		}
	}
	if len(options) > 0 {
		fmt.Fprintln(w, "\nOption topics:")
		for _, name := range options {
			fmt.Fprintf(w, "  --%s\n", name)
		}
	}
	fmt.Fprintf(w, "\nUse '%s help <topic>' to read about a specific topic.\n", appName)
}

// Install replaces root's help command with one that also knows the
// topics. "help topics" lists them; anything that is not a topic falls back
// to cobra's help. Call it before SetHelpCommandGroupID.
func (m *Manager) Install(root *cobra.Command) {
	originalHelp := root.HelpFunc()

	helpCmd := &cobra.Command{
		Use:   "help [command or topic]",
		Short: "Help about any command or topic",
		Long: `Help provides help for any command or topic in the application.
Simply type ` + root.Name() + ` help [path to command or topic] for full details.

To see all available help topics:
  ` + root.Name() + ` help topics`,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			completions := []string{"topics"}
			for _, c := range root.Commands() {
				if !c.Hidden {
					completions = append(completions, c.Name())
				}
			}
			completions = append(completions, m.Names()...)
			return completions, cobra.ShellCompDirectiveNoFileComp
		},
		Run: func(cmd *cobra.Command, args []string) {
			switch {
			case len(args) == 0:
				originalHelp(root, args)
			case args[0] == "topics":
				m.writeIndex(cmd.OutOrStdout(), root.Name())
			case m.Render(cmd.OutOrStdout(), args[0]):
			default:
				target, _, err := root.Find(args)
				if err != nil || target == nil {
					originalHelp(root, args)
					return
				}
				originalHelp(target, args)
			}
		},
	}

	for _, c := range root.Commands() {
		if c.Name() == "help" {
			root.RemoveCommand(c)
			break
		}
	}
	root.SetHelpCommand(helpCmd)
}
