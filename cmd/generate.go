package cmd

import (
	"fmt"

	"github.com/KaramelBytes/carlot-cli/internal/dataset"
	"github.com/KaramelBytes/carlot-cli/internal/generator"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	genRows   int
	genSeed   int64
	genOutput string
	genHead   int
	genStats  bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic car-equipment CSV with injected defects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		opt := generatorOptions(c, cmd.Flags(), genRows, genSeed)
		logger.Debug("generating", zap.Int("rows", opt.Rows), zap.Int64("seed", opt.Seed), zap.Float64("duplicate_rate", opt.DuplicateRate))
		tbl, st, err := generator.Generate(opt)
		if err != nil {
			return err
		}

		out := c.RawCSVPath()
		if genOutput != "" {
			out = genOutput
		}
		head := c.HeadRows
		if cmd.Flags().Changed("head") {
			head = genHead
		}
		w := cmd.OutOrStdout()
		if head > 0 {
			fmt.Fprintln(w, tbl.Head(head))
		}
		if genStats {
			fmt.Fprintln(w, "Injected defects:")
			for _, line := range st.Lines() {
				fmt.Fprintf(w, "- %s\n", line)
			}
		}
		if err := dataset.WriteCSV(out, tbl); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		fmt.Fprintf(w, "✓ Wrote %d rows (%d duplicates) to %s\n", tbl.Len(), st.Duplicates, out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().IntVarP(&genRows, "rows", "n", 30, "number of rows to generate (overrides config)")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 7, "random seed (overrides config)")
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", "", "CSV output path (default is <data_dir>/raw_car_equipment.csv)")
	generateCmd.Flags().IntVar(&genHead, "head", 5, "number of sample rows to print (0 disables)")
	generateCmd.Flags().BoolVar(&genStats, "stats", false, "print injected defect counts")
}
