package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/yurifrl/festas/pkg/models"
	"github.com/yurifrl/festas/pkg/plan"
)

// EnvPrefix prefixes every environment override, e.g. FESTAS_SOURCES_JSON.
const EnvPrefix = "FESTAS"

type Sources struct {
	JSON     string `mapstructure:"json"`
	SheetNew string `mapstructure:"sheet_new"`
	SheetOld string `mapstructure:"sheet_old"`
}

// Sheets names the worksheet to read in each spreadsheet; empty means the
// first sheet.
type Sheets struct {
	SheetNew string `mapstructure:"sheet_new"`
	SheetOld string `mapstructure:"sheet_old"`
}

type Config struct {
	Sources       Sources `mapstructure:"sources"`
	Sheets        Sheets  `mapstructure:"sheets"`
	Output        string  `mapstructure:"output"`
	CSVOutput     string  `mapstructure:"csv_output"`
	RejectsOutput string  `mapstructure:"rejects_output"`
	SummaryFormat string  `mapstructure:"summary_format"`
	LogLevel      string  `mapstructure:"log_level"`
	Dump          bool    `mapstructure:"dump"`
}

// flagKeys maps CLI flag names onto configuration keys.
var flagKeys = map[string]string{
	"json":           "sources.json",
	"sheet-new":      "sources.sheet_new",
	"sheet-old":      "sources.sheet_old",
	"sheet-new-name": "sheets.sheet_new",
	"sheet-old-name": "sheets.sheet_old",
	"output":         "output",
	"csv":            "csv_output",
	"rejects":        "rejects_output",
	"format":         "summary_format",
	"log-level":      "log_level",
	"dump":           "dump",
}

var defaults = map[string]any{
	"sources.json":      "",
	"sources.sheet_new": "",
	"sources.sheet_old": "",
	"sheets.sheet_new":  "",
	"sheets.sheet_old":  "",
	"output":            "",
	"csv_output":        "",
	"rejects_output":    "",
	"summary_format":    "",
	"log_level":         "info",
	"dump":              false,
}

// Build resolves configuration from defaults, a config file, a .env file,
// FESTAS_* environment variables and flags, in increasing precedence.
// cfgFile may be empty, in which case festas.yaml is looked up in the working
// and home directories and is optional.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("festas")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if _, err := cfg.Level(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Level parses the configured log level.
func (c *Config) Level() (log.Level, error) {
	if c.LogLevel == "" {
		return log.InfoLevel, nil
	}
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Plan turns the configured sources and outputs into a run plan. Sources
// without a file are left out.
func (c *Config) Plan() (*plan.Plan, error) {
	p := &plan.Plan{
		Output: plan.Output{
			JSON:    c.Output,
			CSV:     c.CSVOutput,
			Rejects: c.RejectsOutput,
		},
	}
	for _, src := range []struct {
		source models.Source
		file   string
		sheet  string
	}{
		{models.SourceJSON, c.Sources.JSON, ""},
		{models.SourceSheetNew, c.Sources.SheetNew, c.Sheets.SheetNew},
		{models.SourceSheetOld, c.Sources.SheetOld, c.Sheets.SheetOld},
	} {
		if src.file == "" {
			continue
		}
		p.Sources = append(p.Sources, plan.Source{Type: src.source.ID(), File: src.file, Sheet: src.sheet})
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
