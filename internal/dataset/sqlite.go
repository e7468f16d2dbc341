package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

type sqliteLoader struct{}

func (sqliteLoader) CanLoad(p string) bool {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

func (sqliteLoader) Load(p string) (*Table, error) {
	return ReadSQLite(context.Background(), p, "")
}

// ReadSQLite reads every row of a table in a SQLite file, opened read-only.
// An empty table name selects the first user table by name. SQL NULL maps
// to a null cell; other values keep their textual form.
func ReadSQLite(ctx context.Context, p, table string) (*Table, error) {
	if _, err := os.Stat(p); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, p)
		}
		return nil, err
	}
	dsn, err := fileURI(p, "mode=ro")
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("open %s: %w", p, err)
	}

	if table == "" {
		err := db.QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name LIMIT 1`).Scan(&table)
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("read %s: no tables", p)
		}
		if err != nil {
			return nil, fmt.Errorf("list tables: %w", err)
		}
	}

	rows, err := db.QueryContext(ctx, `SELECT * FROM "`+strings.ReplaceAll(table, `"`, `""`)+`"`)
	if err != nil {
		return nil, fmt.Errorf("query table %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	t := NewTable(cols)
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		row := make([]Cell, len(cols))
		for i, v := range vals {
			row[i] = sqlCell(v)
		}
		t.Append(row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

// fileURI builds a SQLite file: URI for p with the given query. The path is
// made absolute and escaped, so '?' and '#' in names survive.
func fileURI(p, query string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs), RawQuery: query}
	return u.String(), nil
}

func sqlCell(v any) Cell {
	switch x := v.(type) {
	case nil:
		return Null()
	case []byte:
		return Cell{Value: string(x), Valid: true}
	case string:
		return Cell{Value: x, Valid: true}
	case int64:
		return Cell{Value: strconv.FormatInt(x, 10), Valid: true}
	case float64:
		s := strconv.FormatFloat(x, 'f', -1, 64)
		// REAL 2019 stays distinguishable from INTEGER 2019
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return Cell{Value: s, Valid: true}
	case bool:
		return Cell{Value: strconv.FormatBool(x), Valid: true}
	case time.Time:
		return Cell{Value: x.Format(time.RFC3339), Valid: true}
	default:
		return Cell{Value: fmt.Sprint(x), Valid: true}
	}
}
