package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/carlot-cli/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global

	// Debug logger, a no-op unless --debug is set
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "carlot",
	Short: "Carlot: a data-quality playground for synthetic car-equipment data",
	Long: `Carlot generates a synthetic car-equipment dataset with deliberately injected
defects (duplicates, missing values, mixed types, typos, unexpected categories)
and diagnoses tabular data for those defects in a plain-text report.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = newLogger(debug)
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.carlot/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		warnf("failed to load config: %v", err)
		return
	}
	cfg = c
}

// currentConfig returns the loaded config or the built-in defaults.
func currentConfig() *cfgpkg.Global {
	if cfg == nil {
		cfg = cfgpkg.Default()
	}
	return cfg
}

// newLogger returns a console logger on stderr at debug level, or a no-op
// logger when debugging is off.
func newLogger(debug bool) *zap.Logger {
	if !debug {
		return zap.NewNop()
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stderr), zapcore.DebugLevel)
	return zap.New(core)
}

func warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "⚠ Warning: "+format+"\n", args...)
}
