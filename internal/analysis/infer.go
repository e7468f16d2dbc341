package analysis

import (
	"strconv"
	"strings"
	"time"
)

// Kind is the inferred type of a single non-missing value.
type Kind string

const (
	KindInteger Kind = "integer"
	KindFloat   Kind = "float"
	KindBoolean Kind = "boolean"
	KindDate    Kind = "date"
	KindText    Kind = "text"
)

// dateLayouts are tried in order; labels are what the report prints.
var dateLayouts = []struct {
	layout string
	label  string
}{
	{time.RFC3339, "RFC3339"},
	{"2006-01-02", "YYYY-MM-DD"},
	{"2006-01-02 15:04:05", "YYYY-MM-DD hh:mm:ss"},
	{"2006-01-02 15:04", "YYYY-MM-DD hh:mm"},
	{"2006/01/02", "YYYY/MM/DD"},
	{"01/02/2006", "MM/DD/YYYY"},
	{"02/01/2006", "DD/MM/YYYY"},
	{"1/2/2006 15:04:05", "M/D/YYYY hh:mm:ss"},
	{"1/2/2006 15:04", "M/D/YYYY hh:mm"},
}

// inferKind classifies v after trimming surrounding whitespace. For dates it
// also returns the label of the matching layout.
func inferKind(v string) (Kind, string) {
	s := strings.TrimSpace(v)
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return KindInteger, ""
	}
	if isFloat(s) {
		return KindFloat, ""
	}
	if strings.EqualFold(s, "true") || strings.EqualFold(s, "false") {
		return KindBoolean, ""
	}
	if label, ok := dateLayout(s); ok {
		return KindDate, label
	}
	return KindText, ""
}

// isFloat accepts plain decimal and scientific notation. Grouping separators
// and currency symbols make a value text; NaN and Inf spellings are text too.
func isFloat(s string) bool {
	if s == "" {
		return false
	}
	if strings.ContainsAny(strings.ToLower(s), "nif") {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func dateLayout(s string) (string, bool) {
	for _, l := range dateLayouts {
		if _, err := time.Parse(l.layout, s); err == nil {
			return l.label, true
		}
	}
	return "", false
}

// IsNumeric reports whether v parses as an integer or float.
func IsNumeric(v string) bool {
	k, _ := inferKind(v)
	return k == KindInteger || k == KindFloat
}
