package render

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/resistconv/internal/dataset"
)

// MarkdownRenderer writes a GFM table.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Name() string { return "markdown" }

func (r *MarkdownRenderer) ContentType() string { return "text/markdown; charset=utf-8" }

func (r *MarkdownRenderer) Render(w io.Writer, ds *dataset.Dataset) error {
	bw := bufio.NewWriter(w)
	writeRow(bw, dataset.Header[0], dataset.Header[1])
	bw.WriteString("| --- | --- |\n")
	for _, rec := range ds.Records {
		writeRow(bw, escapeCell(rec.Article), escapeCell(rec.Resistance))
	}
	return bw.Flush()
}

func writeRow(bw *bufio.Writer, a, b string) {
	bw.WriteString("| ")
	bw.WriteString(a)
	bw.WriteString(" | ")
	bw.WriteString(b)
	bw.WriteString(" |\n")
}

var cellEscaper = strings.NewReplacer(
	`\`, `\\`,
	`|`, `\|`,
	"`", "\\`",
	`*`, `\*`,
	`_`, `\_`,
	`[`, `\[`,
	`]`, `\]`,
	`<`, `\<`,
	`>`, `\>`,
	`&`, `\&`,
	`~`, `\~`,
	"\r\n", " ",
	"\n", " ",
	"\r", " ",
)

// escapeCell makes s render as literal text inside a table cell.
func escapeCell(s string) string {
	return cellEscaper.Replace(s)
}
