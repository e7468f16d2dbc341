package cmd

import (
	"bytes"
	"database/sql"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cfgpkg "github.com/KaramelBytes/carlot-cli/internal/config"
	"github.com/KaramelBytes/carlot-cli/internal/dataset"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags clears values and Changed state that persist across Execute calls.
func resetFlags(c *cobra.Command) {
	reset := func(fl *pflag.Flag) {
		_ = fl.Value.Set(fl.DefValue)
		fl.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v\n%s", args, err, out)
	}
	return out
}

// isolate points HOME and the default output dirs at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	c := cfgpkg.Default()
	c.DataDir = filepath.Join(home, "generated_data")
	cfg = c
	t.Cleanup(func() { cfg = nil })
	return home
}

func TestCLI_GenerateThenDiagnose(t *testing.T) {
	home := isolate(t)
	csvPath := filepath.Join(home, "out", "raw.csv")
	out := runCmd(t, "generate", "--rows", "48", "--seed", "3", "--output", csvPath, "--stats")
	if !strings.Contains(out, "✓ Wrote 48 rows (8 duplicates)") {
		t.Fatalf("unexpected generate output: %s", out)
	}
	if !strings.Contains(out, "duplicate_row: 8") {
		t.Fatalf("missing stats: %s", out)
	}
	tbl, err := dataset.ReadCSV(csvPath)
	if err != nil {
		t.Fatalf("read generated csv: %v", err)
	}
	if tbl.Len() != 48 {
		t.Fatalf("csv rows = %d, want 48", tbl.Len())
	}

	reportPath := filepath.Join(home, "reports", "nested", "report.txt")
	out = runCmd(t, "diagnose", csvPath, "--report", reportPath)
	for _, want := range []string{"Data diagnosis report", "- Rows: 48", "- Duplicate rows detected: 8", "✓ Report saved to " + reportPath} {
		if !strings.Contains(out, want) {
			t.Fatalf("diagnose output missing %q:\n%s", want, out)
		}
	}
	body, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(body), "- Source: "+csvPath) {
		t.Fatalf("report missing source: %s", body)
	}
}

func TestCLI_DiagnoseInMemoryDefaultPath(t *testing.T) {
	isolate(t)
	out := runCmd(t, "diagnose", "--rows", "24", "--quiet")
	if strings.Contains(out, "Data diagnosis report") {
		t.Fatalf("--quiet printed the report: %s", out)
	}
	entries, err := os.ReadDir(cfg.DataDir)
	if err != nil {
		t.Fatalf("read report dir: %v", err)
	}
	if len(entries) != 1 || !strings.HasPrefix(entries[0].Name(), "diagnosis_report_") || !strings.HasSuffix(entries[0].Name(), ".txt") {
		t.Fatalf("unexpected report dir contents: %v", entries)
	}
	body, err := os.ReadFile(filepath.Join(cfg.DataDir, entries[0].Name()))
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	for _, want := range []string{"- Rows: 24", "in-memory generator (rows=24, seed=7)"} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("report missing %q:\n%s", want, body)
		}
	}
}

func TestCLI_DiagnoseMissingFile(t *testing.T) {
	home := isolate(t)
	reportPath := filepath.Join(home, "report.txt")
	_, err := execute(t, "diagnose", filepath.Join(home, "does-not-exist.csv"), "--report", reportPath)
	if err == nil {
		t.Fatalf("expected error for missing input")
	}
	if !errors.Is(err, fs.ErrNotExist) || !errors.Is(err, dataset.ErrSourceNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
	if _, err := os.Stat(reportPath); !os.IsNotExist(err) {
		t.Fatalf("report file must not be created: %v", err)
	}
	if _, err := os.Stat(cfg.DataDir); !os.IsNotExist(err) {
		t.Fatalf("default report dir must not be created: %v", err)
	}
}

func TestCLI_DiagnoseJSON(t *testing.T) {
	home := isolate(t)
	reportPath := filepath.Join(home, "report.json")
	out := runCmd(t, "diagnose", "--format", "json", "--report", reportPath)
	if !strings.Contains(out, `"duplicate_rows": 5`) {
		t.Fatalf("json output missing duplicates: %s", out)
	}
	if _, err := os.Stat(reportPath); err != nil {
		t.Fatalf("json report not written: %v", err)
	}
}

func TestCLI_ConfigSetShow(t *testing.T) {
	home := isolate(t)
	cfgPath := filepath.Join(home, "carlot.yaml")
	runCmd(t, "--config", cfgPath, "config", "set", "rows", "12")
	runCmd(t, "--config", cfgPath, "config", "set", "defects.null_color", "0.5")
	out := runCmd(t, "config", "show")
	if !strings.Contains(out, "rows: 12") || !strings.Contains(out, "defects.null_color: 0.5") {
		t.Fatalf("config show missing values: %s", out)
	}
	saved, err := cfgpkg.Load(cfgPath)
	if err != nil {
		t.Fatalf("load saved config: %v", err)
	}
	if saved.Rows != 12 || saved.Defects.NullColor != 0.5 {
		t.Fatalf("saved config = %+v", saved)
	}
	if _, err := execute(t, "--config", cfgPath, "config", "set", "rows", "zero"); err == nil {
		t.Fatalf("expected invalid value error")
	}
}

func TestCLI_ConfigSetKeepsEnvOutOfFile(t *testing.T) {
	home := isolate(t)
	cfgPath := filepath.Join(home, "carlot.yaml")
	t.Setenv("CARLOT_SEED", "123")
	t.Setenv("CARLOT_DEFECTS_FUEL_TYPO", "0.9")
	runCmd(t, "--config", cfgPath, "config", "set", "rows", "12")
	saved, err := cfgpkg.LoadFile(cfgPath)
	if err != nil {
		t.Fatalf("load saved config: %v", err)
	}
	if saved.Rows != 12 {
		t.Fatalf("rows = %d, want 12", saved.Rows)
	}
	if saved.Seed != 7 || saved.Defects.FuelTypo != 0.10 {
		t.Fatalf("env values written to file: seed=%d fuel_typo=%g", saved.Seed, saved.Defects.FuelTypo)
	}
}

func TestCLI_DiagnoseSQLiteTable(t *testing.T) {
	home := isolate(t)
	dbPath := filepath.Join(home, "fleet.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	for _, s := range []string{
		`CREATE TABLE archive (car_id TEXT)`,
		`CREATE TABLE cars (car_id TEXT, make TEXT, exterior_color TEXT)`,
		`INSERT INTO cars VALUES ('C001', 'Toyota', NULL)`,
		`INSERT INTO cars VALUES ('C001', 'Toyota', NULL)`,
		`INSERT INTO cars VALUES ('C002', 'Toyta', 'Red')`,
	} {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("%s: %v", s, err)
		}
	}
	db.Close()

	reportPath := filepath.Join(home, "sqlite.txt")
	out := runCmd(t, "diagnose", dbPath, "--table", "cars", "--report", reportPath)
	for _, want := range []string{"- Rows: 3", "- Duplicate rows detected: 1", "(table cars)", `"Toyta"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("diagnose output missing %q:\n%s", want, out)
		}
	}
}
