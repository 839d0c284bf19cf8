// Package config loads the settings of a documentation run from defaults,
// an optional appclassdoc.yaml file, APPCLASSDOC_* environment variables
// and command line flags, in increasing order of precedence.
package config

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ErrInvalid marks configuration errors.
var ErrInvalid = errors.New("invalid configuration")

const (
	FileName  = "appclassdoc"
	EnvPrefix = "APPCLASSDOC"
)

type Config struct {
	Sources        []string `mapstructure:"sources" validate:"min=1,dive,required"`
	Extensions     []string `mapstructure:"extensions" validate:"min=1,dive,required,startswith=."`
	IncludePrivate bool     `mapstructure:"private"`
	Format         string   `mapstructure:"format" validate:"oneof=json yaml line"`
	Output         string   `mapstructure:"output"`
	Database       string   `mapstructure:"database"`
	Workers        int      `mapstructure:"workers" validate:"min=1,max=64"`
}

func Default() *Config {
	return &Config{
		Sources:    []string{"."},
		Extensions: []string{".pcode"},
		Format:     "json",
		Workers:    1,
	}
}

// flagKeys maps configuration keys to the flag names that override them.
var flagKeys = map[string]string{
	"private":  "private",
	"format":   "format",
	"output":   "output",
	"database": "db",
	"workers":  "workers",
}

type loadConfig struct {
	file  string
	dirs  []string
	flags *pflag.FlagSet
}

type Option func(*loadConfig)

// WithFile reads the given file instead of searching for appclassdoc.yaml.
func WithFile(path string) Option {
	return func(c *loadConfig) {
		c.file = path
	}
}

// WithSearchPath adds a directory searched for appclassdoc.yaml.
func WithSearchPath(dir string) Option {
	return func(c *loadConfig) {
		c.dirs = append(c.dirs, dir)
	}
}

// WithFlags lets changed flags override file and environment values.
func WithFlags(flags *pflag.FlagSet) Option {
	return func(c *loadConfig) {
		c.flags = flags
	}
}

func Load(opts ...Option) (*Config, error) {
	lc := &loadConfig{}
	for _, opt := range opts {
		opt(lc)
	}

	v := viper.New()
	def := Default()
	v.SetDefault("sources", def.Sources)
	v.SetDefault("extensions", def.Extensions)
	v.SetDefault("private", def.IncludePrivate)
	v.SetDefault("format", def.Format)
	v.SetDefault("output", def.Output)
	v.SetDefault("database", def.Database)
	v.SetDefault("workers", def.Workers)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if lc.file != "" {
		v.SetConfigFile(lc.file)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		if len(lc.dirs) == 0 {
			lc.dirs = []string{"."}
		}
		for _, dir := range lc.dirs {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if lc.file != "" || !errors.As(err, &notFound) {
			return nil, errors.Mark(errors.Wrap(err, "reading configuration"), ErrInvalid)
		}
	}

	if lc.flags != nil {
		for key, name := range flagKeys {
			if flag := lc.flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, errors.Wrapf(err, "binding flag --%s", name)
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decoding configuration"), ErrInvalid)
	}
	cfg.Format = normalizeFormat(cfg.Format)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func normalizeFormat(name string) string {
	switch name = strings.ToLower(name); name {
	case "yml":
		return "yaml"
	case "text":
		return "line"
	}
	return name
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Mark(errors.Wrap(err, "validating configuration"), ErrInvalid)
	}
	return nil
}
