package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/dgallion1/resistconv/internal/dataset"
	"golang.org/x/net/html"
)

func sample() *dataset.Dataset {
	return &dataset.Dataset{
		Source: "resistance.json",
		Records: []dataset.Record{
			{Article: "R1", Resistance: "10k"},
			{Article: "R2", Resistance: "220"},
		},
	}
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		name string
		want Renderer
	}{
		{"", &CSVRenderer{}},
		{"csv", &CSVRenderer{}},
		{"CSV", &CSVRenderer{}},
		{"markdown", &MarkdownRenderer{}},
		{"md", &MarkdownRenderer{}},
		{"html", &HTMLRenderer{}},
		{" json ", &JSONRenderer{}},
	}
	for _, tt := range tests {
		r, err := ForFormat(tt.name)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.name, err)
		}
		if r.Name() != tt.want.Name() {
			t.Errorf("%q: expected renderer %q, got %q", tt.name, tt.want.Name(), r.Name())
		}
	}

	_, err := ForFormat("xlsx")
	if !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestCSVRenderer_Rows(t *testing.T) {
	var buf bytes.Buffer
	if err := (&CSVRenderer{}).Render(&buf, sample()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "article;resistance\nR1;10k\nR2;220\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestCSVRenderer_HeaderOnlyForEmptyDataset(t *testing.T) {
	var buf bytes.Buffer
	if err := (&CSVRenderer{}).Render(&buf, &dataset.Dataset{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "article;resistance\n" {
		t.Errorf("expected header only, got %q", buf.String())
	}
}

func TestCSVRenderer_NoQuoting(t *testing.T) {
	ds := &dataset.Dataset{Records: []dataset.Record{{Article: `a;b`, Resistance: `"10"`}}}
	var buf bytes.Buffer
	if err := (&CSVRenderer{}).Render(&buf, ds); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "article;resistance\na;b;\"10\"\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestCSVRenderer_LineCount(t *testing.T) {
	ds := &dataset.Dataset{}
	for i := 0; i < 50; i++ {
		ds.Records = append(ds.Records, dataset.Record{Article: "A", Resistance: "1"})
	}
	var buf bytes.Buffer
	if err := (&CSVRenderer{}).Render(&buf, ds); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 51 {
		t.Errorf("expected 51 lines, got %d", len(lines))
	}
}

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestCSVRenderer_WriteError(t *testing.T) {
	if err := (&CSVRenderer{}).Render(failWriter{}, sample()); err == nil {
		t.Fatal("expected write error")
	}
}

func TestMarkdownRenderer_Table(t *testing.T) {
	var buf bytes.Buffer
	if err := (&MarkdownRenderer{}).Render(&buf, sample()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "| article | resistance |\n| --- | --- |\n| R1 | 10k |\n| R2 | 220 |\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestMarkdownRenderer_EscapesCells(t *testing.T) {
	ds := &dataset.Dataset{Records: []dataset.Record{{Article: "a|b", Resistance: "line1\nline2 *x*"}}}
	var buf bytes.Buffer
	if err := (&MarkdownRenderer{}).Render(&buf, ds); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), `| a\|b | line1 line2 \*x\* |`) {
		t.Errorf("cells not escaped: %q", buf.String())
	}
}

// cellTexts returns the text of every th/td element in document order.
func cellTexts(t *testing.T, doc string) []string {
	t.Helper()
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	var cells []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "th" || n.Data == "td") {
			var sb strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					sb.WriteString(c.Data)
				}
			}
			cells = append(cells, sb.String())
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return cells
}

func TestHTMLRenderer_Table(t *testing.T) {
	var buf bytes.Buffer
	if err := (&HTMLRenderer{}).Render(&buf, sample()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "<title>resistance.json</title>") {
		t.Errorf("expected title in output: %q", buf.String())
	}
	got := strings.Join(cellTexts(t, buf.String()), ",")
	want := "article,resistance,R1,10k,R2,220"
	if got != want {
		t.Errorf("expected cells %q, got %q", want, got)
	}
}

func TestHTMLRenderer_EscapesMarkup(t *testing.T) {
	ds := &dataset.Dataset{Records: []dataset.Record{{Article: "<b>R1</b>", Resistance: "1 & 2"}}}
	var buf bytes.Buffer
	if err := (&HTMLRenderer{}).Render(&buf, ds); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(buf.String(), "<b>") {
		t.Errorf("raw markup leaked into output: %q", buf.String())
	}
	cells := cellTexts(t, buf.String())
	if len(cells) != 4 || cells[2] != "<b>R1</b>" || cells[3] != "1 & 2" {
		t.Errorf("unexpected cells %q", cells)
	}
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONRenderer{}).Render(&buf, sample()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got []map[string]string
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[0]["article"] != "R1" || got[1]["resistance"] != "220" {
		t.Errorf("unexpected records %v", got)
	}
}

func TestJSONRenderer_EmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONRenderer{}).Render(&buf, &dataset.Dataset{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("expected [], got %q", buf.String())
	}
}
