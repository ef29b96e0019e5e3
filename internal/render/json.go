package render

import (
	"encoding/json"
	"io"

	"github.com/dgallion1/resistconv/internal/dataset"
)

// JSONRenderer writes records as an array of objects keyed by the header names.
type JSONRenderer struct{}

type jsonRecord struct {
	Article    string `json:"article"`
	Resistance string `json:"resistance"`
}

func (r *JSONRenderer) Name() string { return "json" }

func (r *JSONRenderer) ContentType() string { return "application/json" }

func (r *JSONRenderer) Render(w io.Writer, ds *dataset.Dataset) error {
	out := make([]jsonRecord, 0, ds.Len())
	for _, rec := range ds.Records {
		out = append(out, jsonRecord{Article: rec.Article, Resistance: rec.Resistance})
	}
	return json.NewEncoder(w).Encode(out)
}
