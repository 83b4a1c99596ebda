package utils

import (
	"bytes"
	"fmt"
	"os"

	"github.com/alecthomas/chroma/v2/quick"
)

// RenderHighlighted prints source text to stdout with syntax highlighting.
// On a highlighter failure the text is printed unstyled; reports must never
// be lost to a rendering problem.
func RenderHighlighted(content string, language string, theme string) error {
	var buf bytes.Buffer
	if err := quick.Highlight(&buf, content, language, "terminal256", theme); err != nil {
		fmt.Print(content)
		return nil
	}

	_, err := buf.WriteTo(os.Stdout)
	return err
}
