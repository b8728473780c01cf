// Package markdown renders item notes for the terminal.
package markdown

import (
	"strings"
	"sync"

	internalstrings "github.com/amonks/immaculater/internal/strings"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/muesli/reflow/wordwrap"
)

type renderer interface {
	Render(string) (string, error)
}

var (
	rendererMu sync.Mutex
	renderers  = map[int]renderer{}
)

// Render formats a markdown note for a terminal width columns wide,
// indented by indent spaces. A blank note renders as nil. If the markdown
// renderer fails, the note is word-wrapped instead.
func Render(width, indent int, note []byte) []byte {
	value, renderWidth, ok := prepare(width, indent, note)
	if !ok {
		return nil
	}
	rendered, err := render(renderWidth, value)
	if err != nil {
		rendered = wordwrap.String(value, renderWidth)
	}
	return finish(rendered, indent)
}

// Wrap word-wraps a note without interpreting it as markdown.
func Wrap(width, indent int, note []byte) []byte {
	value, wrapWidth, ok := prepare(width, indent, note)
	if !ok {
		return nil
	}
	return finish(wordwrap.String(value, wrapWidth), indent)
}

func prepare(width, indent int, note []byte) (string, int, bool) {
	value := internalstrings.NormalizeNewlines(string(note))
	value = internalstrings.TrimTrailingNewlines(value)
	if strings.TrimSpace(value) == "" {
		return "", 0, false
	}
	return value, max(width-max(indent, 0), 1), true
}

func finish(rendered string, indent int) []byte {
	rendered = internalstrings.TrimTrailingNewlines(rendered)
	if strings.TrimSpace(rendered) == "" {
		return nil
	}
	if indent <= 0 {
		return []byte(rendered)
	}
	prefix := strings.Repeat(" ", indent)
	lines := strings.Split(rendered, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return []byte(strings.Join(lines, "\n"))
}

// render runs the glamour renderer for width, turning a panic inside it
// into an error.
func render(width int, value string) (out string, err error) {
	r, err := rendererFor(width)
	if err != nil {
		return "", err
	}
	defer func() {
		if p := recover(); p != nil {
			err = errRendererPanicked
		}
	}()
	return r.Render(value)
}

func rendererFor(width int) (renderer, error) {
	rendererMu.Lock()
	defer rendererMu.Unlock()
	if cached, ok := renderers[width]; ok {
		return cached, nil
	}
	style := styles.ASCIIStyleConfig
	style.Item.BlockPrefix = "- "
	style.ImageText.Format = "Image: {{.text}} ->"
	created, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	renderers[width] = created
	return created, nil
}
