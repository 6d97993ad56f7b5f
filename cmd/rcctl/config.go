package main

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/joshuapare/refkit/graph"
	"github.com/joshuapare/refkit/graph/arena"
	"github.com/joshuapare/refkit/graph/store"
)

// Config holds everything rcctl needs to build a graph.
type Config struct {
	Graph GraphConfig `mapstructure:"graph"`
	Log   LogConfig   `mapstructure:"log"`
}

// GraphConfig mirrors graph.Options.
type GraphConfig struct {
	InitialCapacity int    `mapstructure:"initial_capacity" validate:"min=1"`
	GrowthRatio     int    `mapstructure:"growth_ratio" validate:"min=2"`
	Arena           string `mapstructure:"arena" validate:"oneof=heap mmap locked"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

const envPrefix = "REFKIT"

// loadConfig reads configuration from path, when given, then applies
// REFKIT_* environment overrides (REFKIT_GRAPH_ARENA, REFKIT_LOG_LEVEL, ...).
func loadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("graph.initial_capacity", store.DefaultInitialCapacity)
	v.SetDefault("graph.growth_ratio", store.DefaultGrowthRatio)
	v.SetDefault("graph.arena", arena.NameHeap)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
}

// configValidate checks struct tags and reports fields by their config key.
var configValidate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("mapstructure")
	})
	return v
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error
	var verrs validator.ValidationErrors
	if err := configValidate.Struct(c); errors.As(err, &verrs) {
		for _, fe := range verrs {
			errs = append(errs, fieldError(fe))
		}
	} else if err != nil {
		errs = append(errs, err)
	}
	if c.Log.Level != "" {
		if _, err := parseLevel(c.Log.Level); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// fieldError renders a failed tag as "<key> must ..., got <value>".
func fieldError(fe validator.FieldError) error {
	// Namespace is "Config.graph.arena"; drop the struct name.
	_, key, _ := strings.Cut(fe.Namespace(), ".")
	switch fe.Tag() {
	case "min":
		return fmt.Errorf("%s must be at least %s, got %v", key, fe.Param(), fe.Value())
	case "oneof":
		return fmt.Errorf("%s must be one of [%s], got %q", key, fe.Param(), fe.Value())
	case "required":
		return fmt.Errorf("%s is required", key)
	default:
		return fmt.Errorf("%s failed %s validation", key, fe.Tag())
	}
}

// options builds graph.Options from the config. Logger and Observer are
// filled in by the caller.
func (c *Config) options() (*graph.Options, error) {
	a, err := arena.ByName(c.Graph.Arena)
	if err != nil {
		return nil, err
	}
	return &graph.Options{
		InitialCapacity: c.Graph.InitialCapacity,
		GrowthRatio:     c.Graph.GrowthRatio,
		Arena:           a,
	}, nil
}
