package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/carlot-cli/internal/analysis"
	"github.com/KaramelBytes/carlot-cli/internal/dataset"
	"github.com/KaramelBytes/carlot-cli/internal/generator"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	diagReportPath string
	diagFormat     string
	diagRows       int
	diagSeed       int64
	diagQuiet      bool
	diagTable      string
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose [csv-path]",
	Short: "Diagnose data-quality issues in a CSV, or in freshly generated data",
	Long: `Diagnose loads a CSV/TSV, XLSX or SQLite file and reports row and column counts, duplicate
rows, null counts, mixed value types, padded strings, unexpected categorical
values and non-numeric entries in numeric columns.

Without a path, a dataset is generated in memory using the configured
generator settings. The report is printed and saved to --report, or to
<report_dir>/diagnosis_report_<UTC timestamp>.txt.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		format := c.ReportFormat
		if cmd.Flags().Changed("format") {
			format = diagFormat
		}

		var (
			tbl    *dataset.Table
			source string
		)
		if len(args) == 0 {
			opt := generatorOptions(c, cmd.Flags(), diagRows, diagSeed)
			logger.Debug("no input path, generating in memory", zap.Int("rows", opt.Rows), zap.Int64("seed", opt.Seed))
			t, _, err := generator.Generate(opt)
			if err != nil {
				return err
			}
			tbl = t
			source = fmt.Sprintf("in-memory generator (rows=%d, seed=%d)", opt.Rows, opt.Seed)
		} else {
			path, err := dataset.ResolvePath(args[0], searchDirs(c)...)
			if err != nil {
				return err
			}
			logger.Debug("resolved input", zap.String("arg", args[0]), zap.String("path", path))
			var t *dataset.Table
			if diagTable != "" {
				t, err = dataset.ReadSQLite(cmd.Context(), path, diagTable)
			} else {
				t, err = dataset.Load(path)
			}
			if err != nil {
				return err
			}
			tbl = t
			source = path
			if diagTable != "" {
				source += " (table " + diagTable + ")"
			}
		}

		rep := analysis.Diagnose(tbl, diagnosisRules(c))
		rep.Source = source
		logger.Debug("diagnosed", zap.String("id", rep.ID), zap.Int("rows", rep.Rows), zap.Int("columns", rep.ColumnCount))
		body, err := rep.Render(format)
		if err != nil {
			return err
		}

		out := diagReportPath
		if out == "" {
			out = analysis.DefaultReportPath(c.ReportsDir(), rep.GeneratedAt, format)
		}
		w := cmd.OutOrStdout()
		if !diagQuiet {
			if _, err := w.Write(body); err != nil {
				return err
			}
		}
		if err := analysis.WriteReport(out, body); err != nil {
			return err
		}
		if abs, err := filepath.Abs(out); err == nil {
			out = abs
		}
		fmt.Fprintf(w, "✓ Report saved to %s\n", out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(diagnoseCmd)
	diagnoseCmd.Flags().StringVarP(&diagReportPath, "report", "r", "", "report output path (default is <report_dir>/diagnosis_report_<timestamp>.txt)")
	diagnoseCmd.Flags().StringVar(&diagFormat, "format", "text", "report format: text|json")
	diagnoseCmd.Flags().IntVarP(&diagRows, "rows", "n", 30, "rows to generate when no path is given (overrides config)")
	diagnoseCmd.Flags().Int64Var(&diagSeed, "seed", 7, "seed used when no path is given (overrides config)")
	diagnoseCmd.Flags().StringVar(&diagTable, "table", "", "SQLite: table to diagnose (default is the first table)")
	diagnoseCmd.Flags().BoolVarP(&diagQuiet, "quiet", "q", false, "do not print the report, only save it")
}
