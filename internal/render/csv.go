package render

import (
	"bufio"
	"io"

	"github.com/dgallion1/resistconv/internal/dataset"
)

// Separator is the field delimiter of the CSV output.
const Separator = ";"

// CSVRenderer writes the header line and one "article;resistance" line per record.
// Fields are written verbatim: no quoting, no escaping of embedded separators.
type CSVRenderer struct{}

func (r *CSVRenderer) Name() string { return "csv" }

func (r *CSVRenderer) ContentType() string { return "text/csv; charset=utf-8" }

func (r *CSVRenderer) Render(w io.Writer, ds *dataset.Dataset) error {
	bw := bufio.NewWriter(w)
	writeLine(bw, dataset.Header[0], dataset.Header[1])
	for _, rec := range ds.Records {
		writeLine(bw, rec.Article, rec.Resistance)
	}
	return bw.Flush()
}

// bufio.Writer keeps the first error and reports it from Flush.
func writeLine(bw *bufio.Writer, a, b string) {
	bw.WriteString(a)
	bw.WriteString(Separator)
	bw.WriteString(b)
	bw.WriteByte('\n')
}
