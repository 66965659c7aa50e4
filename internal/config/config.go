// Package config loads thresh settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable consulted when no --config flag
// is given.
const EnvPath = "THRESH_CONFIG"

var validate = newValidator()

// newValidator reports fields by their YAML key and adds the "finite" tag.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Config holds every tunable of a thresh run.
type Config struct {
	Sweep  SweepConfig  `yaml:"sweep"`
	Model  ModelConfig  `yaml:"model"`
	Log    LogConfig    `yaml:"log"`
	Output OutputConfig `yaml:"output"`
}

// SweepConfig controls threshold sweeps and selection.
type SweepConfig struct {
	// Thresholds overrides the default grid 0.1..0.9 when non-empty. Scores
	// need not be probabilities, so any finite cutoff is accepted.
	Thresholds  []float64 `yaml:"thresholds" validate:"dive,finite"`
	MinRecall   float64   `yaml:"min_recall" validate:"gte=0,lte=1"`
	Concurrency int       `yaml:"concurrency" validate:"gte=1,lte=256"`
}

// ModelConfig describes the ONNX classifier used with --model.
type ModelConfig struct {
	Path           string `yaml:"path"`
	Library        string `yaml:"library"`
	InputName      string `yaml:"input_name" validate:"required"`
	OutputName     string `yaml:"output_name" validate:"required"`
	PositiveColumn int    `yaml:"positive_column" validate:"gte=0"`
	Logits         bool   `yaml:"logits"`
	BatchSize      int    `yaml:"batch_size" validate:"gte=1"`
	PoolSize       int    `yaml:"pool_size" validate:"gte=1,lte=64"`
}

// LogConfig selects log verbosity and encoding.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=auto text json"`
}

// OutputConfig selects report rendering.
type OutputConfig struct {
	Format      string `yaml:"format" validate:"oneof=table json"`
	MetricsFile string `yaml:"metrics_file"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Sweep: SweepConfig{
			MinRecall:   0.9,
			Concurrency: 1,
		},
		Model: ModelConfig{
			InputName:      "float_input",
			OutputName:     "probabilities",
			PositiveColumn: 1,
			BatchSize:      256,
			PoolSize:       1,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
		Output: OutputConfig{
			Format: "table",
		},
	}
}

// ResolvePath picks the config file: flag value, then $THRESH_CONFIG.
// An empty result means defaults only.
func ResolvePath(flag string) string {
	if flag != "" {
		return flag
	}
	return os.Getenv(EnvPath)
}

// Load reads path over Default and validates the result. An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field ranges. Errors name the offending YAML keys.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		key := strings.TrimPrefix(fe.Namespace(), "Config.")
		errs = append(errs, fmt.Errorf("%s: failed %q (value %v)", key, fe.ActualTag(), fe.Value()))
	}
	return errors.Join(errs...)
}
