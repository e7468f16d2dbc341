package cmd

import (
	"os"
	"path/filepath"

	"github.com/KaramelBytes/carlot-cli/internal/analysis"
	cfgpkg "github.com/KaramelBytes/carlot-cli/internal/config"
	"github.com/KaramelBytes/carlot-cli/internal/generator"
	"github.com/spf13/pflag"
)

// generatorOptions builds generator options from config, letting explicitly
// set --rows/--seed flags win.
func generatorOptions(c *cfgpkg.Global, flags *pflag.FlagSet, rows int, seed int64) generator.Options {
	opt := generator.Options{
		Rows:          c.Rows,
		Seed:          c.Seed,
		DuplicateRate: c.DuplicateRate,
		MinDuplicates: c.MinDuplicates,
		Rates:         c.Defects,
	}
	if flags.Changed("rows") {
		opt.Rows = rows
	}
	if flags.Changed("seed") {
		opt.Seed = seed
	}
	return opt
}

func diagnosisRules(c *cfgpkg.Global) analysis.Rules {
	return analysis.Rules{
		ExpectedValues: c.ExpectedValues,
		NumericColumns: c.NumericColumns,
	}
}

// searchDirs are the fallback locations for a relative input path: the
// configured data dir and the directory holding the executable.
func searchDirs(c *cfgpkg.Global) []string {
	dirs := []string{c.DataDir}
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		dirs = append(dirs, dir, filepath.Dir(dir))
	}
	return dirs
}
