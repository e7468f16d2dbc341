// Package dataset holds the in-memory table shared by the generator and the
// diagnoser, plus the flat-file loaders and writers around it.
package dataset

import (
	"fmt"
	"strings"
)

// Cell is a single table value. An invalid cell is a missing value.
type Cell struct {
	Value string
	Valid bool
}

// Null returns a missing cell.
func Null() Cell { return Cell{} }

// Text returns a cell holding s. The empty string is treated as missing,
// matching how an empty CSV field reads back.
func Text(s string) Cell {
	if s == "" {
		return Cell{}
	}
	return Cell{Value: s, Valid: true}
}

// Table is an ordered set of rows under a fixed header.
type Table struct {
	Header []string
	Rows   [][]Cell
}

// NewTable returns an empty table with a copy of header.
func NewTable(header []string) *Table {
	h := make([]string, len(header))
	copy(h, header)
	return &Table{Header: h}
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Index returns the position of the named column or -1.
func (t *Table) Index(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Append adds a row, padding or truncating it to the header width.
func (t *Table) Append(row []Cell) {
	r := make([]Cell, len(t.Header))
	copy(r, row)
	t.Rows = append(t.Rows, r)
}

// Column returns the cells of column i in row order.
func (t *Table) Column(i int) []Cell {
	out := make([]Cell, 0, len(t.Rows))
	for _, r := range t.Rows {
		out = append(out, r[i])
	}
	return out
}

// Head renders the first n rows as a markdown table. Missing cells print as NaN
// and values are quoted when they carry surrounding whitespace.
func (t *Table) Head(n int) string {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	var b strings.Builder
	b.WriteString("| # | ")
	b.WriteString(strings.Join(t.Header, " | "))
	b.WriteString(" |\n|---|")
	for range t.Header {
		b.WriteString("---|")
	}
	b.WriteString("\n")
	for i := 0; i < n; i++ {
		b.WriteString(fmt.Sprintf("| %d |", i))
		for _, c := range t.Rows[i] {
			b.WriteString(" ")
			b.WriteString(displayVal(c))
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func displayVal(c Cell) string {
	if !c.Valid {
		return "NaN"
	}
	v := strings.ReplaceAll(strings.ReplaceAll(c.Value, "\n", " "), "|", "/")
	if v != strings.TrimSpace(v) {
		return fmt.Sprintf("%q", v)
	}
	return v
}
