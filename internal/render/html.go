package render

import (
	"bufio"
	"bytes"
	"fmt"
	"html"
	"io"

	"github.com/dgallion1/resistconv/internal/dataset"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// HTMLRenderer renders the markdown table as a standalone HTML page.
type HTMLRenderer struct{}

func (r *HTMLRenderer) Name() string { return "html" }

func (r *HTMLRenderer) ContentType() string { return "text/html; charset=utf-8" }

func (r *HTMLRenderer) Render(w io.Writer, ds *dataset.Dataset) error {
	var src bytes.Buffer
	if err := (&MarkdownRenderer{}).Render(&src, ds); err != nil {
		return err
	}

	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n",
		html.EscapeString(title(ds)))
	if err := md.Convert(src.Bytes(), bw); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	bw.WriteString("</body>\n</html>\n")
	return bw.Flush()
}

func title(ds *dataset.Dataset) string {
	if ds.Source == "" {
		return "resistance"
	}
	return ds.Source
}
