// Package quickstatements emits QuickStatements v2 batch edits in CSV
// layout: a header row naming the columns, then one row per accepted
// decision in discovery order.
package quickstatements

import (
	"fmt"
	"strings"

	"github.com/agentstation/wdtaxa/pkg/errors"
)

// Row is one output line as an ordered list of fields.
type Row []string

// Column is one column of a template.
type Column struct {
	Name string
	// Text columns hold free text or names that may contain the delimiter
	// and are wrapped in triple double-quotes.
	Text bool
}

// Template fixes the header and the quoting of each column for one
// operation.
type Template struct {
	Columns []Column
}

// NewTemplate creates a template from column names. Names listed in text
// are marked as text columns.
func NewTemplate(names []string, text ...string) Template {
	cols := make([]Column, len(names))
	for i, n := range names {
		cols[i] = Column{Name: n}
		for _, t := range text {
			if t == n {
				cols[i].Text = true
			}
		}
	}
	return Template{Columns: cols}
}

// Header returns the header row.
func (t Template) Header() Row {
	h := make(Row, len(t.Columns))
	for i, c := range t.Columns {
		h[i] = c.Name
	}
	return h
}

// Row builds a data row, wrapping the values of text columns. Empty text
// values stay empty so unused optional columns remain blank.
func (t Template) Row(values ...string) (Row, error) {
	if len(values) != len(t.Columns) {
		return nil, errors.NewValidationError("row", values,
			fmt.Sprintf("expected %d values, got %d", len(t.Columns), len(values)))
	}
	row := make(Row, len(values))
	for i, v := range values {
		if t.Columns[i].Text && v != "" {
			v = Quote(v)
		}
		row[i] = v
	}
	return row, nil
}

// Quote wraps a string value in QuickStatements triple quotes.
func Quote(s string) string {
	return `"""` + s + `"""`
}

// Emit returns the header followed by rows, unchanged and in order.
func Emit(header Row, rows []Row) []Row {
	out := make([]Row, 0, len(rows)+1)
	out = append(out, header)
	return append(out, rows...)
}

// Batch collects the rows of one operation.
type Batch struct {
	Template Template
	rows     []Row
}

// NewBatch starts an empty batch for a template.
func NewBatch(t Template) *Batch {
	return &Batch{Template: t}
}

// Add appends a row built from values.
func (b *Batch) Add(values ...string) error {
	row, err := b.Template.Row(values...)
	if err != nil {
		return err
	}
	b.rows = append(b.rows, row)
	return nil
}

// Len returns the number of data rows.
func (b *Batch) Len() int {
	return len(b.rows)
}

// Rows returns the header followed by the data rows.
func (b *Batch) Rows() []Row {
	return Emit(b.Template.Header(), b.rows)
}

// String renders the batch in CSV layout.
func (b *Batch) String() string {
	var sb strings.Builder
	_ = WriteAll(NewCSVWriter(&sb), b.Rows())
	return sb.String()
}
