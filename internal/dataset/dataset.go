package dataset

// Header is the fixed column header of every rendered dataset.
var Header = [2]string{"article", "resistance"}

// Dataset is the full, ordered set of records parsed from one document.
type Dataset struct {
	Source  string   // Input name (file path or "request body")
	Records []Record // In input order
}

// Record is one article/resistance pair, both held in their textual form.
type Record struct {
	Article    string
	Resistance string
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}
