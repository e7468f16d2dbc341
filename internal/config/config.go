package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/carlot-cli/internal/generator"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	defaultDataDir = "generated_data"
	rawCSVName     = "raw_car_equipment.csv"
)

// Global configuration structure.
type Global struct {
	Rows          int     `mapstructure:"rows" yaml:"rows"`
	Seed          int64   `mapstructure:"seed" yaml:"seed"`
	DuplicateRate float64 `mapstructure:"duplicate_rate" yaml:"duplicate_rate"`
	MinDuplicates int     `mapstructure:"min_duplicates" yaml:"min_duplicates"`
	HeadRows      int     `mapstructure:"head_rows" yaml:"head_rows"`

	// Output locations. Empty OutputCSV and ReportDir fall back to DataDir.
	DataDir      string `mapstructure:"data_dir" yaml:"data_dir"`
	OutputCSV    string `mapstructure:"output_csv" yaml:"output_csv"`
	ReportDir    string `mapstructure:"report_dir" yaml:"report_dir"`
	ReportFormat string `mapstructure:"report_format" yaml:"report_format"`

	Defects generator.DefectRates `mapstructure:"defects" yaml:"defects"`

	// Diagnosis rules
	ExpectedValues map[string][]string `mapstructure:"expected_values" yaml:"expected_values"`
	NumericColumns []string            `mapstructure:"numeric_columns" yaml:"numeric_columns"`
}

// Path returns the config file location: cfgFile if set, else ~/.carlot/config.yaml.
func Path(cfgFile string) (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".carlot", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.carlot/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path, err := Path(cfgFile)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Default returns the built-in configuration without reading files or env.
func Default() *Global {
	c, err := decode(newViper())
	if err != nil {
		// defaults are static; decoding them cannot fail
		panic(err)
	}
	return c
}

// Load loads configuration from .env, env, file, and defaults.
// Precedence: env (including .env) > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	v := newViper()
	v.SetEnvPrefix("CARLOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := readFile(v, cfgFile); err != nil {
		return nil, err
	}
	return decode(v)
}

// LoadFile loads the config file over defaults, ignoring env and .env.
// Use it when the result is saved back, so env overrides stay transient.
func LoadFile(cfgFile string) (*Global, error) {
	v := newViper()
	if err := readFile(v, cfgFile); err != nil {
		return nil, err
	}
	return decode(v)
}

// readFile reads cfgFile, or ~/.carlot/config.yaml, into v. A missing file
// is not an error.
func readFile(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		path, err := Path("")
		if err != nil {
			return err
		}
		v.AddConfigPath(filepath.Dir(path))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	d := generator.DefaultOptions()
	v.SetDefault("rows", d.Rows)
	v.SetDefault("seed", d.Seed)
	v.SetDefault("duplicate_rate", d.DuplicateRate)
	v.SetDefault("min_duplicates", d.MinDuplicates)
	v.SetDefault("head_rows", 5)
	v.SetDefault("data_dir", defaultDataDir)
	v.SetDefault("output_csv", "")
	v.SetDefault("report_dir", "")
	v.SetDefault("report_format", "text")
	for _, f := range d.Rates.Fields() {
		v.SetDefault("defects."+f.Name, *f.Ptr)
	}
	v.SetDefault("numeric_columns", generator.NumericColumns())
	return v
}

func decode(v *viper.Viper) (*Global, error) {
	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// A configured expected_values map replaces the catalog as a whole, so
	// removed columns stay removed.
	if !v.IsSet("expected_values") {
		c.ExpectedValues = generator.ExpectedValues()
	}
	if c.ExpectedValues == nil {
		c.ExpectedValues = map[string][]string{}
	}
	return &c, nil
}

func (c *Global) dataDir() string {
	if c.DataDir == "" {
		return defaultDataDir
	}
	return c.DataDir
}

// RawCSVPath is where the generator writes its CSV.
func (c *Global) RawCSVPath() string {
	if c.OutputCSV != "" {
		return c.OutputCSV
	}
	return filepath.Join(c.dataDir(), rawCSVName)
}

// ReportsDir is where diagnosis reports go when no path is given.
func (c *Global) ReportsDir() string {
	if c.ReportDir != "" {
		return c.ReportDir
	}
	return c.dataDir()
}

// Keys lists every settable key in display order.
func (c *Global) Keys() []string {
	keys := []string{
		"rows", "seed", "duplicate_rate", "min_duplicates", "head_rows",
		"data_dir", "output_csv", "report_dir", "report_format", "numeric_columns",
	}
	for _, f := range c.Defects.Fields() {
		keys = append(keys, "defects."+f.Name)
	}
	cols := make([]string, 0, len(c.ExpectedValues))
	for col := range c.ExpectedValues {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	for _, col := range cols {
		keys = append(keys, "expected_values."+col)
	}
	return keys
}

// Get returns the display value of key.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "rows":
		return strconv.Itoa(c.Rows), nil
	case "seed":
		return strconv.FormatInt(c.Seed, 10), nil
	case "duplicate_rate":
		return strconv.FormatFloat(c.DuplicateRate, 'g', 4, 64), nil
	case "min_duplicates":
		return strconv.Itoa(c.MinDuplicates), nil
	case "head_rows":
		return strconv.Itoa(c.HeadRows), nil
	case "data_dir":
		return c.dataDir(), nil
	case "output_csv":
		return c.RawCSVPath(), nil
	case "report_dir":
		return c.ReportsDir(), nil
	case "report_format":
		return c.ReportFormat, nil
	case "numeric_columns":
		return strings.Join(c.NumericColumns, ","), nil
	}
	if name, ok := strings.CutPrefix(key, "defects."); ok {
		for _, f := range c.Defects.Fields() {
			if f.Name == name {
				return strconv.FormatFloat(*f.Ptr, 'g', 4, 64), nil
			}
		}
	}
	if col, ok := strings.CutPrefix(key, "expected_values."); ok {
		if vals, ok := c.ExpectedValues[col]; ok {
			return strings.Join(vals, ","), nil
		}
	}
	return "", fmt.Errorf("unknown key: %s", key)
}

// Set parses val and assigns it to key.
func (c *Global) Set(key, val string) error {
	switch key {
	case "rows":
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return fmt.Errorf("invalid positive int for rows: %v", val)
		}
		c.Rows = i
	case "seed":
		i, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid int for seed: %w", err)
		}
		c.Seed = i
	case "duplicate_rate":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil || f < 0 || f > 1 {
			return fmt.Errorf("invalid rate for duplicate_rate: %v", val)
		}
		c.DuplicateRate = f
	case "min_duplicates":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for min_duplicates: %v", val)
		}
		c.MinDuplicates = i
	case "head_rows":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for head_rows: %v", val)
		}
		c.HeadRows = i
	case "data_dir":
		c.DataDir = val
	case "output_csv":
		c.OutputCSV = val
	case "report_dir":
		c.ReportDir = val
	case "report_format":
		switch strings.ToLower(val) {
		case "text", "json":
			c.ReportFormat = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid report_format: %s (use text or json)", val)
		}
	case "numeric_columns":
		c.NumericColumns = splitList(val)
	default:
		if name, ok := strings.CutPrefix(key, "defects."); ok {
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid float for %s: %w", key, err)
			}
			return c.Defects.Set(name, f)
		}
		if col, ok := strings.CutPrefix(key, "expected_values."); ok && col != "" {
			if c.ExpectedValues == nil {
				c.ExpectedValues = map[string][]string{}
			}
			vals := splitList(val)
			if len(vals) == 0 {
				delete(c.ExpectedValues, col)
				return nil
			}
			c.ExpectedValues[col] = vals
			return nil
		}
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

func splitList(val string) []string {
	var out []string
	for _, p := range strings.Split(val, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
