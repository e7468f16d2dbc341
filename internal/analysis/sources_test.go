package analysis

import (
	"archive/zip"
	"bytes"
	"database/sql"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/KaramelBytes/carlot-cli/internal/dataset"
	"github.com/KaramelBytes/carlot-cli/internal/generator"
)

func colLetters(i int) string {
	s := ""
	for i++; i > 0; i = (i - 1) / 26 {
		s = string(rune('A'+(i-1)%26)) + s
	}
	return s
}

// writeXLSX stores tbl as a single-sheet workbook using inline strings.
// Null cells are omitted.
func writeXLSX(t *testing.T, path string, tbl *dataset.Table) {
	t.Helper()
	var sheet bytes.Buffer
	sheet.WriteString(`<?xml version="1.0" encoding="UTF-8"?><worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>`)
	writeRow := func(n int, cells []dataset.Cell) {
		fmt.Fprintf(&sheet, `<row r="%d">`, n)
		for j, c := range cells {
			if !c.Valid {
				continue
			}
			fmt.Fprintf(&sheet, `<c r="%s%d" t="inlineStr"><is><t xml:space="preserve">`, colLetters(j), n)
			if err := xml.EscapeText(&sheet, []byte(c.Value)); err != nil {
				t.Fatal(err)
			}
			sheet.WriteString(`</t></is></c>`)
		}
		sheet.WriteString(`</row>`)
	}
	header := make([]dataset.Cell, len(tbl.Header))
	for i, h := range tbl.Header {
		header[i] = dataset.Text(h)
	}
	writeRow(1, header)
	for i, row := range tbl.Rows {
		writeRow(i+2, row)
	}
	sheet.WriteString(`</sheetData></worksheet>`)

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	files := map[string][]byte{
		"xl/workbook.xml":            []byte(`<workbook xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><sheets><sheet name="cars" sheetId="1" r:id="rId1"/></sheets></workbook>`),
		"xl/_rels/workbook.xml.rels": []byte(`<Relationships><Relationship Id="rId1" Target="worksheets/sheet1.xml"/></Relationships>`),
		"xl/worksheets/sheet1.xml":   sheet.Bytes(),
	}
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write(body); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}

// writeSQLite stores tbl in table "cars" with TEXT columns; null cells
// become SQL NULL.
func writeSQLite(t *testing.T, path string, tbl *dataset.Table) {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()
	cols := make([]string, len(tbl.Header))
	marks := make([]string, len(tbl.Header))
	for i, h := range tbl.Header {
		cols[i] = `"` + h + `" TEXT`
		marks[i] = "?"
	}
	if _, err := db.Exec(`CREATE TABLE cars (` + strings.Join(cols, ", ") + `)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	insert := `INSERT INTO cars VALUES (` + strings.Join(marks, ", ") + `)`
	for _, row := range tbl.Rows {
		args := make([]any, len(row))
		for i, c := range row {
			if c.Valid {
				args[i] = c.Value
			}
		}
		if _, err := db.Exec(insert, args...); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
}

func TestColLetters(t *testing.T) {
	for i, want := range map[int]string{0: "A", 12: "M", 25: "Z", 26: "AA", 27: "AB"} {
		if got := colLetters(i); got != want {
			t.Errorf("colLetters(%d) = %s, want %s", i, got, want)
		}
	}
}

func TestDiagnoseSameAcrossSources(t *testing.T) {
	opt := generator.DefaultOptions()
	opt.Rows = 60
	opt.Seed = 11
	tbl, _, err := generator.Generate(opt)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	dir := t.TempDir()
	paths := map[string]string{
		"csv":    filepath.Join(dir, "cars.csv"),
		"xlsx":   filepath.Join(dir, "cars.xlsx"),
		"sqlite": filepath.Join(dir, "cars.db"),
	}
	if err := dataset.WriteCSV(paths["csv"], tbl); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	writeXLSX(t, paths["xlsx"], tbl)
	writeSQLite(t, paths["sqlite"], tbl)

	csvTbl, err := dataset.Load(paths["csv"])
	if err != nil {
		t.Fatalf("load csv: %v", err)
	}
	want := Diagnose(csvTbl, DefaultRules())
	if want.Totals().Nulls == 0 || want.DuplicateRows == 0 {
		t.Fatalf("fixture has no defects to compare: %+v", want.Totals())
	}

	for _, src := range []string{"xlsx", "sqlite"} {
		loaded, err := dataset.Load(paths[src])
		if err != nil {
			t.Fatalf("load %s: %v", src, err)
		}
		if !reflect.DeepEqual(loaded.Header, csvTbl.Header) {
			t.Fatalf("%s header = %v, want %v", src, loaded.Header, csvTbl.Header)
		}
		got := Diagnose(loaded, DefaultRules())
		if got.Rows != want.Rows || got.ColumnCount != want.ColumnCount {
			t.Fatalf("%s shape = %dx%d, want %dx%d", src, got.Rows, got.ColumnCount, want.Rows, want.ColumnCount)
		}
		if got.Totals() != want.Totals() {
			t.Fatalf("%s totals = %+v, want %+v", src, got.Totals(), want.Totals())
		}
		for i, wc := range want.Columns {
			gc := got.Columns[i]
			if gc.Nulls != wc.Nulls || gc.Padded != wc.Padded || gc.Distinct != wc.Distinct || gc.NonNumeric != wc.NonNumeric {
				t.Fatalf("%s column %s = %+v, want %+v", src, wc.Name, gc, wc)
			}
			if !reflect.DeepEqual(gc.Kinds, wc.Kinds) || !reflect.DeepEqual(gc.Unexpected, wc.Unexpected) {
				t.Fatalf("%s column %s kinds/unexpected differ: %+v vs %+v", src, wc.Name, gc, wc)
			}
		}
	}
}
