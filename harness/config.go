package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-validate/check"
	"github.com/cwbudde/algo-validate/severity"
)

// Config holds the batch configuration, loadable from YAML.
type Config struct {
	SampleRate           float64 `yaml:"sample_rate"`
	BlockSize            int     `yaml:"block_size"`
	Channels             int     `yaml:"channels"`
	Seed                 int64   `yaml:"seed"`
	PerfIterations       int     `yaml:"perf_iterations"`
	AutomationIterations int     `yaml:"automation_iterations"`
	OutputDir            string  `yaml:"output_dir"`

	Weights severity.Weights `yaml:"severity_weights"`

	// Check is the derived per-tester configuration; populated by
	// normalized, never read from YAML.
	Check check.Config `yaml:"-"`
}

// DefaultConfig returns the standard batch configuration.
func DefaultConfig() Config {
	cfg := Config{
		SampleRate:           44100,
		BlockSize:            512,
		Channels:             2,
		Seed:                 1,
		PerfIterations:       1000,
		AutomationIterations: 100,
		OutputDir:            "validation-reports",
		Weights:              severity.DefaultWeights(),
	}

	return cfg.normalized()
}

// LoadConfig reads a YAML configuration file, or returns defaults when path
// is empty and no algo-validate.yaml exists in the working directory.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		const defaultFile = "algo-validate.yaml"

		if _, err := os.Stat(defaultFile); err != nil {
			return cfg, nil
		}

		path = defaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("harness: read config %s: %w", path, err)
	}

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("harness: parse config %s: %w", path, err)
	}

	return cfg.normalized(), nil
}

func (c Config) normalized() Config {
	c.Check = check.Config{
		SampleRate:           c.SampleRate,
		BlockSize:            c.BlockSize,
		Channels:             c.Channels,
		Seed:                 c.Seed,
		PerfIterations:       c.PerfIterations,
		AutomationIterations: c.AutomationIterations,
	}

	if c.OutputDir == "" {
		c.OutputDir = "validation-reports"
	}

	c.Weights = c.Weights.Normalize()

	return c
}
