package analysis

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/KaramelBytes/carlot-cli/internal/utils"
)

// Text renders the report as the plain-text summary printed by the CLI.
func (r *Report) Text() string {
	var b strings.Builder
	b.WriteString("Data diagnosis report\n")
	if r.ID != "" {
		b.WriteString(fmt.Sprintf("- Report ID: %s\n", r.ID))
	}
	if r.Source != "" {
		b.WriteString(fmt.Sprintf("- Source: %s\n", r.Source))
	}
	if !r.GeneratedAt.IsZero() {
		b.WriteString(fmt.Sprintf("- Generated: %s\n", r.GeneratedAt.Format(time.RFC3339)))
	}
	b.WriteString(fmt.Sprintf("- Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("- Columns: %d\n", r.ColumnCount))
	b.WriteString(fmt.Sprintf("- Duplicate rows detected: %d\n", r.DuplicateRows))

	var nulls []string
	for _, c := range r.Columns {
		if c.Nulls > 0 {
			nulls = append(nulls, fmt.Sprintf("%s (%d)", c.Name, c.Nulls))
		}
	}
	if len(nulls) > 0 {
		b.WriteString("- Columns containing null values: " + strings.Join(nulls, ", ") + "\n")
	} else {
		b.WriteString("- Columns containing null values: none\n")
	}

	for _, c := range r.Columns {
		if c.MixedTypes() {
			b.WriteString(fmt.Sprintf("- Mixed data types in '%s': %s\n", c.Name, strings.Join(c.KindNames(), ", ")))
		}
	}
	for _, c := range r.Columns {
		if c.MixedDateFormats() {
			b.WriteString(fmt.Sprintf("- Mixed date formats in '%s': %s\n", c.Name, strings.Join(sortedKeys(c.DateFormats), ", ")))
		}
	}
	for _, c := range r.Columns {
		if c.Padded > 0 {
			b.WriteString(fmt.Sprintf("- %d values in '%s' have leading/trailing spaces\n", c.Padded, c.Name))
		}
	}
	for _, c := range r.Columns {
		if len(c.Unexpected) == 0 {
			continue
		}
		parts := make([]string, 0, len(c.Unexpected))
		for _, u := range c.Unexpected {
			p := fmt.Sprintf("%q x%d", u.Value, u.Count)
			if u.Suggestion != "" {
				p += fmt.Sprintf(" (%s of %q)", u.Reason, u.Suggestion)
			}
			parts = append(parts, p)
		}
		b.WriteString(fmt.Sprintf("- Unexpected values in '%s': %s\n", c.Name, strings.Join(parts, ", ")))
	}
	for _, c := range r.Columns {
		if c.NonNumeric > 0 {
			b.WriteString(fmt.Sprintf("- '%s' contains %d non-numeric values\n", c.Name, c.NonNumeric))
		}
	}

	b.WriteString("\nColumn profile:\n")
	for _, c := range r.Columns {
		kinds := make([]string, 0, len(c.Kinds))
		for _, k := range c.KindNames() {
			kinds = append(kinds, fmt.Sprintf("%s=%d", k, c.Kinds[Kind(k)]))
		}
		if len(kinds) == 0 {
			kinds = append(kinds, "empty")
		}
		b.WriteString(fmt.Sprintf("- %s: %s; nulls %d, distinct %d\n", c.Name, strings.Join(kinds, " "), c.Nulls, c.Distinct))
	}
	return b.String()
}

// JSON renders the report as indented JSON with aggregated totals.
func (r *Report) JSON() ([]byte, error) {
	return utils.PrettyJSON(struct {
		*Report
		Totals Totals `json:"totals"`
	}{r, r.Totals()})
}

// Render returns the report body for the given format: "text" or "json".
func (r *Report) Render(format string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text", "txt":
		return []byte(r.Text()), nil
	case "json":
		b, err := r.JSON()
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s (use text|json)", format)
	}
}

// DefaultReportPath returns dir/diagnosis_report_<UTC timestamp>.<ext>.
func DefaultReportPath(dir string, now time.Time, format string) string {
	ext := ".txt"
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		ext = ".json"
	}
	return filepath.Join(dir, "diagnosis_report_"+now.UTC().Format("20060102_150405")+ext)
}

// WriteReport writes body to path, creating intermediate directories.
func WriteReport(path string, body []byte) error {
	if err := utils.SafeWriteFile(path, body); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func sortedKeys(m map[string]int) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
