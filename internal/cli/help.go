package cli

import (
	"embed"
	"io/fs"
	"os"

	"github.com/arthur-debert/modorg/pkg/cobrax/topics"
	"github.com/arthur-debert/modorg/pkg/logging"
	"github.com/arthur-debert/modorg/pkg/output"
	"github.com/spf13/cobra"
)

//go:embed topics/*.md
var topicFiles embed.FS

func installTopics(root *cobra.Command) {
	sub, err := fs.Sub(topicFiles, "topics")
	if err == nil {
		var m *topics.Manager
		m, err = topics.Load(sub, topics.Options{Renderer: topics.RendererFunc(renderTopic)})
		if err == nil {
			m.Install(root)
			return
		}
	}
	logger := logging.GetLogger("cli")
	logger.Warn().Err(err).Msg("help topics unavailable")
}

func renderTopic(content, ext string) string {
	if ext != ".md" || output.DetectFormat(os.Stdout) != output.FormatTerminal {
		return content
	}
	return output.RenderMarkdown(content, true, 0)
}
