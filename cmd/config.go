package cmd

import (
	"fmt"

	cfgpkg "github.com/KaramelBytes/carlot-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set Carlot configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		w := cmd.OutOrStdout()
		for _, key := range c.Keys() {
			val, err := c.Get(key)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s: %s\n", key, val)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Long: `Set a config value and save to disk.

Keys: rows, seed, duplicate_rate, min_duplicates, head_rows, data_dir,
output_csv, report_dir, report_format, numeric_columns (comma-separated),
defects.<name> (0..1), expected_values.<column> (comma-separated; empty removes).

Only the config file is edited: values coming from CARLOT_* variables or
.env are not written to it.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		fileCfg, err := cfgpkg.LoadFile(cfgFile)
		if err != nil {
			return err
		}
		if err := fileCfg.Set(key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(fileCfg, cfgFile); err != nil {
			return err
		}
		if err := currentConfig().Set(key, val); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
