// Package analysis profiles a table and reports its data-quality defects.
package analysis

import (
	"sort"
	"strings"
	"time"

	"github.com/KaramelBytes/carlot-cli/internal/dataset"
	"github.com/KaramelBytes/carlot-cli/internal/generator"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// Rules are the ad hoc checks applied on top of per-column profiling.
type Rules struct {
	// ExpectedValues maps a categorical column to its allowed values.
	ExpectedValues map[string][]string
	// NumericColumns are checked for values that do not parse as numbers.
	NumericColumns []string
}

// DefaultRules returns the checks for the generated car-equipment schema.
func DefaultRules() Rules {
	return Rules{
		ExpectedValues: generator.ExpectedValues(),
		NumericColumns: generator.NumericColumns(),
	}
}

// Report is a read-only diagnosis of one table.
type Report struct {
	ID            string         `json:"id"`
	Source        string         `json:"source"`
	GeneratedAt   time.Time      `json:"generated_at"`
	Rows          int            `json:"rows"`
	ColumnCount   int            `json:"column_count"`
	DuplicateRows int            `json:"duplicate_rows"`
	Columns       []ColumnReport `json:"columns"`
}

// ColumnReport captures counts and anomalies for one column.
type ColumnReport struct {
	Name        string         `json:"name"`
	Nulls       int            `json:"nulls"`
	Distinct    int            `json:"distinct"`
	Kinds       map[Kind]int   `json:"kinds"`
	DateFormats map[string]int `json:"date_formats,omitempty"`
	Padded      int            `json:"padded"`
	Numeric     bool           `json:"numeric"`
	NonNumeric  int            `json:"non_numeric"`
	Categorical bool           `json:"categorical"`
	Unexpected  []Unexpected   `json:"unexpected,omitempty"`
}

// Unexpected is a categorical value outside the expected set.
type Unexpected struct {
	Value      string `json:"value"`
	Count      int    `json:"count"`
	Suggestion string `json:"suggestion,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// MixedTypes reports whether more than one kind was seen.
func (c ColumnReport) MixedTypes() bool { return len(c.Kinds) > 1 }

// MixedDateFormats reports whether date values used more than one layout.
func (c ColumnReport) MixedDateFormats() bool { return len(c.DateFormats) > 1 }

// KindNames returns the observed kinds sorted by name.
func (c ColumnReport) KindNames() []string {
	out := make([]string, 0, len(c.Kinds))
	for k := range c.Kinds {
		out = append(out, string(k))
	}
	sort.Strings(out)
	return out
}

// UnexpectedCount sums occurrences of all unexpected values.
func (c ColumnReport) UnexpectedCount() int {
	n := 0
	for _, u := range c.Unexpected {
		n += u.Count
	}
	return n
}

// Column looks up a column report by name.
func (r *Report) Column(name string) (ColumnReport, bool) {
	for _, c := range r.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnReport{}, false
}

// Totals aggregates defect counts across columns.
type Totals struct {
	Nulls            int `json:"nulls"`
	DuplicateRows    int `json:"duplicate_rows"`
	MixedTypeColumns int `json:"mixed_type_columns"`
	MixedDateColumns int `json:"mixed_date_columns"`
	UnexpectedValues int `json:"unexpected_values"`
	PaddedValues     int `json:"padded_values"`
	NonNumericValues int `json:"non_numeric_values"`
}

// Totals sums the per-column counts.
func (r *Report) Totals() Totals {
	t := Totals{DuplicateRows: r.DuplicateRows}
	for _, c := range r.Columns {
		t.Nulls += c.Nulls
		if c.MixedTypes() {
			t.MixedTypeColumns++
		}
		if c.MixedDateFormats() {
			t.MixedDateColumns++
		}
		t.UnexpectedValues += c.UnexpectedCount()
		t.PaddedValues += c.Padded
		t.NonNumericValues += c.NonNumeric
	}
	return t
}

// Diagnose profiles every column of t and applies rules. The counts depend
// only on the table contents; ID and GeneratedAt differ between runs.
func Diagnose(t *dataset.Table, rules Rules) *Report {
	rep := &Report{
		ID:            uuid.NewString(),
		GeneratedAt:   time.Now().UTC(),
		Rows:          t.Len(),
		ColumnCount:   len(t.Header),
		DuplicateRows: countDuplicates(t),
		Columns:       make([]ColumnReport, 0, len(t.Header)),
	}
	numeric := make(map[string]bool, len(rules.NumericColumns))
	for _, n := range rules.NumericColumns {
		numeric[n] = true
	}
	fold := cases.Fold()

	for j, name := range t.Header {
		expected, categorical := rules.ExpectedValues[name]
		allowed := make(map[string]struct{}, len(expected))
		for _, e := range expected {
			allowed[e] = struct{}{}
		}
		c := ColumnReport{
			Name:        name,
			Kinds:       map[Kind]int{},
			Numeric:     numeric[name],
			Categorical: categorical,
		}
		distinct := map[string]struct{}{}
		unexpected := map[string]int{}
		for _, row := range t.Rows {
			cell := row[j]
			if !cell.Valid {
				c.Nulls++
				continue
			}
			v := cell.Value
			distinct[v] = struct{}{}
			if v != strings.TrimSpace(v) {
				c.Padded++
			}
			kind, layout := inferKind(v)
			c.Kinds[kind]++
			if layout != "" {
				if c.DateFormats == nil {
					c.DateFormats = map[string]int{}
				}
				c.DateFormats[layout]++
			}
			if c.Numeric && kind != KindInteger && kind != KindFloat {
				c.NonNumeric++
			}
			if categorical {
				if _, ok := allowed[v]; !ok {
					unexpected[v]++
				}
			}
		}
		c.Distinct = len(distinct)
		if len(unexpected) > 0 {
			c.Unexpected = make([]Unexpected, 0, len(unexpected))
			for v, n := range unexpected {
				u := Unexpected{Value: v, Count: n}
				u.Suggestion, u.Reason = suggest(fold, v, expected)
				c.Unexpected = append(c.Unexpected, u)
			}
			sort.Slice(c.Unexpected, func(a, b int) bool { return c.Unexpected[a].Value < c.Unexpected[b].Value })
		}
		rep.Columns = append(rep.Columns, c)
	}
	return rep
}

// countDuplicates counts rows identical to an earlier row. Missing cells
// compare equal to each other and differ from any text.
func countDuplicates(t *dataset.Table) int {
	seen := make(map[string]struct{}, t.Len())
	dups := 0
	var b strings.Builder
	for _, row := range t.Rows {
		b.Reset()
		for _, c := range row {
			if c.Valid {
				b.WriteByte(1)
				b.WriteString(c.Value)
			} else {
				b.WriteByte(0)
			}
			b.WriteByte(0x1f)
		}
		key := b.String()
		if _, ok := seen[key]; ok {
			dups++
			continue
		}
		seen[key] = struct{}{}
	}
	return dups
}
