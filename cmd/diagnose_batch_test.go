package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiagnoseBatch_CollisionSuffixAndProgress(t *testing.T) {
	home := isolate(t)

	// Same basename in two directories
	d1 := filepath.Join(home, "d1", "cars.csv")
	d2 := filepath.Join(home, "d2", "cars.csv")
	runCmd(t, "generate", "--rows", "12", "--seed", "1", "--output", d1)
	runCmd(t, "generate", "--rows", "18", "--seed", "2", "--output", d2)

	outDir := filepath.Join(home, "reports")
	out := runCmd(t, "diagnose-batch", filepath.Join(home, "d*", "cars.csv"), "--out-dir", outDir)
	for _, want := range []string{"[1/2] Processing cars.csv...", "[2/2] Processing cars.csv...", "✓ Diagnosed 2 file(s)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}

	r1 := filepath.Join(outDir, "cars.diagnosis.txt")
	r2 := filepath.Join(outDir, "cars.diagnosis__2.txt")
	body1, err := os.ReadFile(r1)
	if err != nil {
		t.Fatalf("missing first report: %v", err)
	}
	body2, err := os.ReadFile(r2)
	if err != nil {
		t.Fatalf("missing second report: %v", err)
	}
	if !strings.Contains(string(body1), "- Rows: 12") || !strings.Contains(string(body1), "- Source: "+d1) {
		t.Fatalf("first report mismatch:\n%s", body1)
	}
	if !strings.Contains(string(body2), "- Rows: 18") {
		t.Fatalf("second report mismatch:\n%s", body2)
	}
}

func TestDiagnoseBatch_QuietJSON(t *testing.T) {
	home := isolate(t)
	src := filepath.Join(home, "in", "one.csv")
	runCmd(t, "generate", "--rows", "10", "--output", src)

	outDir := filepath.Join(home, "json")
	out := runCmd(t, "diagnose-batch", src, "--out-dir", outDir, "--format", "json", "-q")
	if strings.Contains(out, "Processing") {
		t.Fatalf("--quiet printed progress: %s", out)
	}
	body, err := os.ReadFile(filepath.Join(outDir, "one.diagnosis.json"))
	if err != nil {
		t.Fatalf("json report not written: %v", err)
	}
	if !strings.Contains(string(body), `"rows": 10`) {
		t.Fatalf("json report missing rows:\n%s", body)
	}
}

func TestDiagnoseBatch_NoMatches(t *testing.T) {
	home := isolate(t)
	if _, err := execute(t, "diagnose-batch", filepath.Join(home, "nothing*.csv")); err == nil {
		t.Fatalf("expected error when no files match")
	}
}

func TestDiagnoseBatch_BadPattern(t *testing.T) {
	home := isolate(t)
	_, err := execute(t, "diagnose-batch", filepath.Join(home, "cars[.csv"))
	if !errors.Is(err, filepath.ErrBadPattern) {
		t.Fatalf("expected ErrBadPattern, got %v", err)
	}
}
