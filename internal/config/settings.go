package config

import (
	"context"
	"errors"
	"os"
	"runtime"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Settings contains runtime engine configuration, as opposed to the quoting
// inputs in Bundle.
type Settings struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// AffordabilityPercent is the regulatory percentage-of-income cap,
	// expressed as a fraction (0.095 for 9.5%).
	AffordabilityPercent float64 `koanf:"affordability_percent"`

	// WorkerCount bounds concurrent member evaluations in a pass.
	WorkerCount int `koanf:"worker_count"`

	// DebounceMS is the controller's input-coalescing window in
	// milliseconds.
	DebounceMS int `koanf:"debounce_ms"`
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() *Settings {
	return &Settings{
		LogLevel:             "info",
		AffordabilityPercent: 0.095,
		WorkerCount:          runtime.NumCPU(),
		DebounceMS:           50,
	}
}

// LoadSettings builds Settings by layering defaults, optional file, and env
// vars. Order of precedence (low -> high):
//  1. defaults (DefaultSettings)
//  2. file (YAML) if ICHRA_CONFIG is set
//  3. env (prefix ICHRA_)
func LoadSettings(_ context.Context) (*Settings, error) {
	base := DefaultSettings()

	k := koanf.New(".")

	if path := os.Getenv("ICHRA_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: ICHRA_WORKER_COUNT -> worker_count, etc.
	// Underscores are preserved to match koanf tags on the struct.
	envProvider := env.Provider("ICHRA_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "ichra_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.AffordabilityPercent <= 0 || cfg.AffordabilityPercent >= 1 {
		return nil, errors.New("affordability_percent must be a fraction between 0 and 1")
	}
	if cfg.DebounceMS < 0 {
		return nil, errors.New("debounce_ms must not be negative")
	}
	return &cfg, nil
}
