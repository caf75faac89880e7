package topics

// Renderer formats a topic for the terminal. ext is the topic file's
// extension, e.g. ".md".
type Renderer interface {
	Render(content string, ext string) string
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(content string, ext string) string

func (f RendererFunc) Render(content string, ext string) string {
	return f(content, ext)
}

// PlainRenderer returns content unchanged.
type PlainRenderer struct{}

func (PlainRenderer) Render(content string, _ string) string {
	return content
}
