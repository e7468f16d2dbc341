package dataset

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"strconv"
	"strings"
)

type xlsxLoader struct{}

func (xlsxLoader) CanLoad(p string) bool {
	return strings.EqualFold(filepath.Ext(p), ".xlsx")
}

func (xlsxLoader) Load(p string) (*Table, error) { return ReadXLSX(p, "") }

// ReadXLSX reads one worksheet of an .xlsx workbook into a Table. The first
// row is the header. An empty sheet name selects the first sheet.
func ReadXLSX(p, sheet string) (*Table, error) {
	zr, err := zip.OpenReader(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, p)
		}
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer zr.Close()

	target, err := sheetTarget(&zr.Reader, sheet)
	if err != nil {
		return nil, err
	}
	data := readZipFile(&zr.Reader, target)
	if data == nil {
		return nil, fmt.Errorf("worksheet %s missing from %s", target, filepath.Base(p))
	}
	rr := newSheetRowReader(data, parseSharedStrings(readZipFile(&zr.Reader, "xl/sharedStrings.xml")))

	header, ok := rr.Next()
	if !ok || len(header) == 0 {
		return nil, fmt.Errorf("read %s: empty worksheet", p)
	}
	for i := range header {
		header[i] = strings.TrimPrefix(header[i], "\ufeff")
	}
	t := NewTable(header)
	for {
		rec, ok := rr.Next()
		if !ok {
			break
		}
		row := make([]Cell, len(header))
		for i := range row {
			if i < len(rec) {
				row[i] = Text(rec[i])
			}
		}
		t.Append(row)
	}
	return t, nil
}

// sheetTarget maps a sheet name to its zip entry through the workbook
// relationships. Falls back to worksheets/sheet1.xml.
func sheetTarget(zr *zip.Reader, name string) (string, error) {
	sheets := parseWorkbook(readZipFile(zr, "xl/workbook.xml"))
	rels := parseRelationships(readZipFile(zr, "xl/_rels/workbook.xml.rels"))
	var chosen *wbSheet
	for i := range sheets {
		if name == "" || strings.EqualFold(sheets[i].Name, name) {
			chosen = &sheets[i]
			break
		}
	}
	if chosen == nil {
		if name != "" {
			return "", fmt.Errorf("sheet %q not found", name)
		}
		return "xl/worksheets/sheet1.xml", nil
	}
	if rel, ok := rels[chosen.RID]; ok {
		return normalizeRelPath(rel), nil
	}
	return fmt.Sprintf("xl/worksheets/sheet%d.xml", chosen.SheetID), nil
}

type wbSheet struct {
	Name    string
	SheetID int
	RID     string
}

func parseWorkbook(data []byte) []wbSheet {
	var sheets []wbSheet
	if len(data) == 0 {
		return sheets
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return sheets
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "sheet" {
			continue
		}
		var s wbSheet
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "name":
				s.Name = a.Value
			case "sheetId":
				s.SheetID, _ = strconv.Atoi(a.Value)
			case "id":
				s.RID = a.Value // r: namespace
			}
		}
		sheets = append(sheets, s)
	}
}

// parseRelationships returns Id -> Target.
func parseRelationships(data []byte) map[string]string {
	out := map[string]string{}
	if len(data) == 0 {
		return out
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Relationship" {
			continue
		}
		var id, target string
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "Id":
				id = a.Value
			case "Target":
				target = a.Value
			}
		}
		if id != "" && target != "" {
			out[id] = target
		}
	}
}

func readZipFile(zr *zip.Reader, name string) []byte {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil
		}
		defer rc.Close()
		b, _ := io.ReadAll(rc)
		return b
	}
	return nil
}

func parseSharedStrings(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	var out []string
	var buf strings.Builder
	var inT bool
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		switch se := tok.(type) {
		case xml.StartElement:
			switch se.Name.Local {
			case "si":
				buf.Reset()
			case "t":
				inT = true
			}
		case xml.EndElement:
			switch se.Name.Local {
			case "t":
				inT = false
			case "si":
				out = append(out, buf.String())
			}
		case xml.CharData:
			if inT {
				buf.Write(se)
			}
		}
	}
}

type sheetRowReader struct {
	dec    *xml.Decoder
	shared []string
	cur    []string
}

func newSheetRowReader(data []byte, shared []string) *sheetRowReader {
	return &sheetRowReader{dec: xml.NewDecoder(bytes.NewReader(data)), shared: shared}
}

// Next returns the cells of the next <row>, placed by their A1 reference.
func (r *sheetRowReader) Next() ([]string, bool) {
	inRow := false
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return nil, false
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "row" {
				inRow = true
				r.cur = nil
				continue
			}
			if !inRow || se.Name.Local != "c" {
				continue
			}
			var ref, typ string
			for _, a := range se.Attr {
				switch a.Name.Local {
				case "r":
					ref = a.Value
				case "t":
					typ = a.Value
				}
			}
			// cells without a usable column reference follow the previous one
			idx := len(r.cur)
			if i := colIndexFromRef(ref); i >= 0 {
				idx = i
			}
			for len(r.cur) <= idx {
				r.cur = append(r.cur, "")
			}
			r.cur[idx] = r.readCellValue(typ)
		case xml.EndElement:
			if se.Name.Local == "row" && inRow {
				return r.cur, true
			}
		}
	}
}

// readCellValue consumes tokens up to </c>, resolving shared strings.
func (r *sheetRowReader) readCellValue(typ string) string {
	var val strings.Builder
	inVal := false
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return val.String()
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "v" || se.Name.Local == "t" {
				inVal = true
			}
		case xml.CharData:
			if inVal {
				val.Write(se)
			}
		case xml.EndElement:
			switch se.Name.Local {
			case "v", "t":
				inVal = false
			case "c":
				if typ == "s" {
					i, err := strconv.Atoi(strings.TrimSpace(val.String()))
					if err != nil || i < 0 || i >= len(r.shared) {
						return ""
					}
					return r.shared[i]
				}
				return val.String()
			}
		}
	}
}

// colIndexFromRef maps "C12" to 2. It returns -1 when ref has no column
// letters.
func colIndexFromRef(ref string) int {
	idx := 0
	for i := 0; i < len(ref); i++ {
		c := ref[i]
		switch {
		case c >= 'A' && c <= 'Z':
			idx = idx*26 + int(c-'A'+1)
		case c >= 'a' && c <= 'z':
			idx = idx*26 + int(c-'a'+1)
		default:
			return idx - 1
		}
	}
	return idx - 1
}

// normalizeRelPath converts relationship targets to zip entry names.
// Targets may be absolute ("/xl/worksheets/sheet1.xml") or relative to xl/.
func normalizeRelPath(rel string) string {
	rel = strings.TrimPrefix(rel, "/")
	if strings.HasPrefix(rel, "xl/") {
		return rel
	}
	return path.Join("xl", rel)
}
