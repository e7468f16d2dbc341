package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/carlot-cli/internal/analysis"
	"github.com/KaramelBytes/carlot-cli/internal/dataset"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dbOutDir string
	dbFormat string
	dbQuiet  bool
)

var diagnoseBatchCmd = &cobra.Command{
	Use:   "diagnose-batch <files...>",
	Short: "Diagnose multiple CSV/TSV/XLSX files, writing one report per file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		c := currentConfig()
		format := c.ReportFormat
		if cmd.Flags().Changed("format") {
			format = dbFormat
		}
		outDir := dbOutDir
		if outDir == "" {
			outDir = c.ReportsDir()
		}
		rules := diagnosisRules(c)
		w := cmd.OutOrStdout()

		total := len(files)
		for i, path := range files {
			if !dbQuiet {
				fmt.Fprintf(w, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			tbl, err := dataset.Load(path)
			if err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(path), err)
			}
			rep := analysis.Diagnose(tbl, rules)
			if abs, err := filepath.Abs(path); err == nil {
				rep.Source = abs
			} else {
				rep.Source = path
			}
			body, err := rep.Render(format)
			if err != nil {
				return err
			}
			out := batchReportPath(outDir, path, format)
			if err := analysis.WriteReport(out, body); err != nil {
				return err
			}
			logger.Debug("report written", zap.String("input", path), zap.String("report", out))
			if !dbQuiet {
				tot := rep.Totals()
				fmt.Fprintf(w, "  rows=%d duplicates=%d nulls=%d unexpected=%d -> %s\n",
					rep.Rows, tot.DuplicateRows, tot.Nulls, tot.UnexpectedValues, filepath.Base(out))
			}
		}
		fmt.Fprintf(w, "✓ Diagnosed %d file(s); reports in %s\n", total, outDir)
		return nil
	},
}

// expandInputs resolves globs and literal paths, dropping duplicates.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if fi, err := os.Stat(m); err != nil || fi.IsDir() {
				continue
			}
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}

// batchReportPath returns <dir>/<input base>.diagnosis.<ext>, adding a
// __N suffix instead of overwriting an existing report.
func batchReportPath(dir, input, format string) string {
	ext := ".txt"
	if strings.EqualFold(format, "json") {
		ext = ".json"
	}
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base)) + ".diagnosis"
	out := filepath.Join(dir, stem+ext)
	if _, err := os.Stat(out); err != nil {
		return out
	}
	for idx := 2; ; idx++ {
		cand := filepath.Join(dir, fmt.Sprintf("%s__%d%s", stem, idx, ext))
		if _, err := os.Stat(cand); os.IsNotExist(err) {
			warnf("existing report found, writing to %s to avoid overwrite", filepath.Base(cand))
			return cand
		}
	}
}

func init() {
	rootCmd.AddCommand(diagnoseBatchCmd)
	diagnoseBatchCmd.Flags().StringVar(&dbOutDir, "out-dir", "", "directory for reports (default is report_dir from config)")
	diagnoseBatchCmd.Flags().StringVar(&dbFormat, "format", "text", "report format: text|json")
	diagnoseBatchCmd.Flags().BoolVarP(&dbQuiet, "quiet", "q", false, "suppress progress output")
}
