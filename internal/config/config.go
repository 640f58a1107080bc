// Package config resolves run settings from a YAML file, CATALOGUE_*
// environment variables and command line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix      = "CATALOGUE"
	FileName       = "catalogue"
	DefaultCompany = "Horizon Bank Holdings"
	DefaultSource  = "data"
	DefaultOutput  = "catalogue"
)

// Setting keys
const (
	KeySource        = "source"
	KeyOutputDir     = "output_dir"
	KeyFormat        = "format"
	KeyWorkers       = "workers"
	KeyLogLevel      = "log_level"
	KeyOrganization  = "organization"
	KeyKnowledgeFile = "knowledge_file"
	KeyLayers        = "layers"
)

// Format selects which artifacts a run writes
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatAll      Format = "all"
)

// JSON reports whether the JSON artifact set is written
func (f Format) JSON() bool { return f == FormatJSON || f == FormatAll }

// Markdown reports whether the markdown catalogue is written
func (f Format) Markdown() bool { return f == FormatMarkdown || f == FormatAll }

// Config is a resolved run configuration
type Config struct {
	Source        string   `mapstructure:"source"`
	OutputDir     string   `mapstructure:"output_dir"`
	Format        Format   `mapstructure:"format"`
	Workers       int      `mapstructure:"workers"`
	LogLevel      string   `mapstructure:"log_level"`
	Organization  string   `mapstructure:"organization"`
	KnowledgeFile string   `mapstructure:"knowledge_file"`
	Layers        []string `mapstructure:"layers"`
}

// Load creates a viper instance with defaults, the config file and the
// environment applied. An explicit cfgFile must exist; otherwise a missing
// catalogue.yaml is ignored.
func Load(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.catalogue")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return v, nil
}

// SetDefaults registers every key so that environment variables are seen
// when decoding
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeySource, DefaultSource)
	v.SetDefault(KeyOutputDir, DefaultOutput)
	v.SetDefault(KeyFormat, string(FormatJSON))
	v.SetDefault(KeyWorkers, runtime.NumCPU())
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyOrganization, DefaultCompany)
	v.SetDefault(KeyKnowledgeFile, "")
	v.SetDefault(KeyLayers, []string{})
}

// FlagName is the command line spelling of a setting key
func FlagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

// BindFlags binds every flag in the set that names a setting
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for _, key := range []string{KeySource, KeyOutputDir, KeyFormat, KeyWorkers, KeyLogLevel, KeyOrganization, KeyKnowledgeFile, KeyLayers} {
		flag := flags.Lookup(FlagName(key))
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", flag.Name, err)
		}
	}
	return nil
}

// Decode reads a Config out of v and validates it
func Decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges
func (c Config) Validate() error {
	switch c.Format {
	case FormatJSON, FormatMarkdown, FormatAll:
	default:
		return fmt.Errorf("invalid format %q: must be json, markdown or all", c.Format)
	}
	if c.Workers < 1 {
		return fmt.Errorf("invalid workers %d: must be at least 1", c.Workers)
	}
	if strings.TrimSpace(c.Source) == "" {
		return errors.New("source is required")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses the configured log level
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
