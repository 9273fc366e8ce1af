package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
)

// WriteTerminal renders the Markdown report styled for a terminal.
func WriteTerminal(w io.Writer, doc Document, width int) error {
	var md bytes.Buffer
	if err := WriteMarkdown(&md, doc); err != nil {
		return err
	}
	if width <= 0 {
		width = 100
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("create terminal renderer: %w", err)
	}
	out, err := r.RenderBytes(md.Bytes())
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err = w.Write(out)
	return err
}
