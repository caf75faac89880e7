package topics

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"dry-run.txt":            {Data: []byte("Information about dry-run mode")},
		"architecture.md":        {Data: []byte("# Architecture\n\nSystem architecture details")},
		"option-yes.md":          {Data: []byte("Skip confirmation")},
		"nested/requirements.md": {Data: []byte("Requirement syntax")},
		"config.txxt":            {Data: []byte("Configuration Guide")},
		"ignore.json":            {Data: []byte("This should be ignored")},
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name       string
		extensions []string
		topic      string
		found      bool
	}{
		{"txt by default", nil, "dry-run", true},
		{"md by default", nil, "architecture", true},
		{"nested file", nil, "requirements", true},
		{"unknown extension", nil, "config", false},
		{"json ignored", nil, "ignore", false},
		{"custom extension", []string{".txxt"}, "config", true},
		{"custom replaces defaults", []string{".txxt"}, "dry-run", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Load(testFS(), Options{Extensions: tt.extensions})
			require.NoError(t, err)

			_, ok := m.Get(tt.topic)
			assert.Equal(t, tt.found, ok)
		})
	}
}

func TestGetFlagStyle(t *testing.T) {
	m, err := Load(testFS(), Options{})
	require.NoError(t, err)

	topic, ok := m.Get("--yes")
	require.True(t, ok)
	assert.Equal(t, "Skip confirmation", topic.Content)
	assert.Equal(t, ".md", topic.Ext)

	_, ok = m.Get("--nope")
	assert.False(t, ok)
}

func TestNames(t *testing.T) {
	m, err := Load(testFS(), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"architecture", "dry-run", "option-yes", "requirements"}, m.Names())
}

func TestRendererIsApplied(t *testing.T) {
	m, err := Load(testFS(), Options{Renderer: RendererFunc(func(content, ext string) string {
		return ext + ":" + strings.ToUpper(content)
	})})
	require.NoError(t, err)

	var buf bytes.Buffer
	assert.True(t, m.Render(&buf, "dry-run"))
	assert.Equal(t, ".txt:INFORMATION ABOUT DRY-RUN MODE", buf.String())
	assert.False(t, m.Render(&buf, "missing"))
}

func newRoot() *cobra.Command {
	root := &cobra.Command{Use: "app"}
	root.AddCommand(&cobra.Command{Use: "sub", Short: "A subcommand", Run: func(*cobra.Command, []string) {}})
	return root
}

func runHelp(t *testing.T, root *cobra.Command, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(append([]string{"help"}, args...))
	require.NoError(t, root.Execute())
	return buf.String()
}

func TestInstall(t *testing.T) {
	m, err := Load(testFS(), Options{})
	require.NoError(t, err)

	t.Run("topic", func(t *testing.T) {
		root := newRoot()
		m.Install(root)
		assert.Equal(t, "Information about dry-run mode", runHelp(t, root, "dry-run"))
	})

	t.Run("index", func(t *testing.T) {
		root := newRoot()
		m.Install(root)
		out := runHelp(t, root, "topics")
		assert.Contains(t, out, "General topics:")
		assert.Contains(t, out, "  architecture")
		assert.Contains(t, out, "Option topics:")
		assert.Contains(t, out, "  --yes")
		assert.Contains(t, out, "Use 'app help <topic>'")
	})

	t.Run("command falls back to cobra help", func(t *testing.T) {
		root := newRoot()
		m.Install(root)
		assert.Contains(t, runHelp(t, root, "sub"), "A subcommand")
	})
}

func TestIndexWithoutTopics(t *testing.T) {
	m, err := Load(fstest.MapFS{}, Options{})
	require.NoError(t, err)

	root := newRoot()
	m.Install(root)
	assert.Contains(t, runHelp(t, root, "topics"), "No help topics available.")
}
