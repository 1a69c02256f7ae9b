package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/syssam/stigen/compiler/gen"
	"github.com/syssam/stigen/compiler/gen/golang"
	"github.com/syssam/stigen/compiler/gen/php"
)

// Config is the configuration of a stigen run. It is read from stigen.yaml,
// STIGEN_* environment variables and command line flags, in increasing order
// of precedence.
type Config struct {
	Schema    string    `mapstructure:"schema"`
	Renderer  string    `mapstructure:"renderer"`
	Target    string    `mapstructure:"target"`
	Overwrite bool      `mapstructure:"overwrite"`
	Timestamp bool      `mapstructure:"timestamp"`
	Version   string    `mapstructure:"version"`
	Header    string    `mapstructure:"header"`
	Workers   int       `mapstructure:"workers"`
	Log       LogConfig `mapstructure:"log"`
}

// LogConfig configures the global logger.
type LogConfig struct {
	JSON    bool `mapstructure:"json"`
	Verbose bool `mapstructure:"verbose"`
}

// newViper returns a viper instance with defaults and environment binding.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("STIGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("renderer", "php")
	v.SetDefault("version", Version)
	v.SetDefault("overwrite", false)
	v.SetDefault("timestamp", false)
	v.SetDefault("workers", 0)
	v.SetDefault("log.json", false)
	v.SetDefault("log.verbose", false)
	return v
}

// readConfig merges the config file into v. Without an explicit path,
// stigen.yaml is looked up in the working directory and may be absent.
func readConfig(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("stigen")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// loadConfig decodes the merged configuration of v.
func loadConfig(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &c, nil
}

// Options maps the configuration onto generator options.
func (c *Config) Options() []gen.Option {
	opts := []gen.Option{
		gen.WithTimestamp(c.Timestamp),
		gen.WithHeader(c.Header),
		gen.WithOverwrite(c.Overwrite),
	}
	if c.Version != "" {
		opts = append(opts, gen.WithVersion(c.Version))
	}
	if c.Workers != 0 {
		opts = append(opts, gen.WithWorkers(c.Workers))
	}
	if c.Target != "" {
		opts = append(opts, gen.WithTarget(c.Target))
	}
	return opts
}

// GenConfig returns the generator configuration. Every invalid option is
// reported.
func (c *Config) GenConfig() (*gen.Config, error) {
	gc := &gen.Config{}
	if err := gc.ApplyAll(c.Options()...); err != nil {
		return nil, err
	}
	return gc, nil
}

// newRenderer returns the renderer registered under name.
func newRenderer(name string) (gen.Renderer, error) {
	switch name {
	case "php":
		return php.New(), nil
	case "go":
		return golang.New(), nil
	default:
		return nil, gen.NewConfigError("Renderer", name, "unknown renderer, expected php or go")
	}
}
