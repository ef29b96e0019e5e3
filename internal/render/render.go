package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/resistconv/internal/dataset"
)

// ErrUnknownFormat is returned by ForFormat for names it does not know.
var ErrUnknownFormat = errors.New("unknown output format")

// Renderer writes a dataset in one output format.
type Renderer interface {
	Render(w io.Writer, ds *dataset.Dataset) error
	Name() string
	ContentType() string
}

// Formats lists the canonical format names, default first.
var Formats = []string{"csv", "markdown", "html", "json"}

// ForFormat returns the renderer for a format name. An empty name selects csv.
func ForFormat(name string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "csv":
		return &CSVRenderer{}, nil
	case "markdown", "md":
		return &MarkdownRenderer{}, nil
	case "html":
		return &HTMLRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFormat, name, strings.Join(Formats, ", "))
	}
}
