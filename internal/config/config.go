package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/rm-hull/anime4k/internal/kernel"
	"github.com/rm-hull/anime4k/internal/png/stage"
)

// Environment variables read by Load. Values usually come from a .env file
// loaded at start-up; command line flags take precedence.
const (
	EnvScale            = "ANIME4K_SCALE"
	EnvPasses           = "ANIME4K_PASSES"
	EnvPushStrength     = "ANIME4K_PUSH_STRENGTH"
	EnvGradientStrength = "ANIME4K_GRADIENT_STRENGTH"
	EnvWorkers          = "ANIME4K_WORKERS"
	EnvFilter           = "ANIME4K_FILTER"
	EnvDenoiseSigma     = "ANIME4K_DENOISE_SIGMA"
)

type Config struct {
	Scale        float64
	Passes       int
	Workers      int
	Filter       string
	DenoiseSigma float64

	// Negative strengths mean "derive from Scale".
	PushStrength     int
	GradientStrength int
}

func Default() Config {
	return Config{
		Scale:            2,
		Passes:           kernel.DefaultPasses,
		Workers:          0,
		Filter:           stage.FilterCatmullRom,
		PushStrength:     -1,
		GradientStrength: -1,
	}
}

// Load starts from Default and applies any ANIME4K_* environment variables.
func Load() (Config, error) {
	cfg := Default()

	if err := floatEnv(EnvScale, &cfg.Scale); err != nil {
		return cfg, err
	}
	if err := intEnv(EnvPasses, &cfg.Passes); err != nil {
		return cfg, err
	}
	if err := intEnv(EnvPushStrength, &cfg.PushStrength); err != nil {
		return cfg, err
	}
	if err := intEnv(EnvGradientStrength, &cfg.GradientStrength); err != nil {
		return cfg, err
	}
	if err := intEnv(EnvWorkers, &cfg.Workers); err != nil {
		return cfg, err
	}
	if err := floatEnv(EnvDenoiseSigma, &cfg.DenoiseSigma); err != nil {
		return cfg, err
	}
	if v := os.Getenv(EnvFilter); v != "" {
		cfg.Filter = v
	}
	return cfg, nil
}

// KernelOptions resolves the sharpening options, deriving any unset strength
// from the scale factor.
func (c Config) KernelOptions() kernel.Options {
	opts := kernel.DefaultOptions(c.Scale)
	opts.Passes = c.Passes
	if c.PushStrength >= 0 {
		opts.PushStrength = c.PushStrength
	}
	if c.GradientStrength >= 0 {
		opts.GradientStrength = c.GradientStrength
	}
	return opts
}

func (c Config) Validate() error {
	if c.Scale <= 0 {
		return fmt.Errorf("scale must be positive, got %v", c.Scale)
	}
	if !slices.Contains(stage.Filters, strings.ToLower(c.Filter)) {
		return fmt.Errorf("unknown filter %q, expected one of %s", c.Filter, strings.Join(stage.Filters, ", "))
	}
	if c.DenoiseSigma < 0 {
		return fmt.Errorf("denoise sigma must not be negative, got %v", c.DenoiseSigma)
	}
	return c.KernelOptions().Validate()
}

func intEnv(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("failed to parse %s=%q: %w", key, v, err)
	}
	*dst = n
	return nil
}

func floatEnv(key string, dst *float64) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("failed to parse %s=%q: %w", key, v, err)
	}
	*dst = f
	return nil
}
