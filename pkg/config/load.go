package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/quantalab/qevo-go/pkg/errors"
)

// Load reads, defaults, and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.ResourceNotFound, "failed to read config file"),
			errors.Fields{"path": path},
		)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses, defaults, and validates raw YAML configuration.
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, errors.InvalidInput, "failed to parse config")
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the struct-level constraints plus the cross-field rules
// the tags cannot express.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, errors.ValidationFailed, "invalid configuration")
	}

	// Cross-field rules.
	if c.Filter.MaxCandidates < len(c.Filter.Targets) {
		return errors.WithFields(
			errors.New(errors.ValidationFailed, "max_candidates below target count"),
			errors.Fields{"max_candidates": c.Filter.MaxCandidates, "targets": len(c.Filter.Targets)},
		)
	}
	for _, target := range c.Filter.Targets {
		if target >= c.Filter.SpaceSize {
			return errors.WithFields(
				errors.New(errors.ValidationFailed, "target outside search space"),
				errors.Fields{"target": target, "space_size": c.Filter.SpaceSize},
			)
		}
	}

	// Surface the run cost before any billable work happens.
	if c.Oracle.MaxShots > 0 {
		planned := c.Optimizer.PopulationSize * c.Optimizer.Generations * c.Oracle.ShotsPerEvaluation
		if planned > c.Oracle.MaxShots {
			return errors.WithFields(
				errors.New(errors.ValidationFailed, "planned run exceeds shot budget"),
				errors.Fields{"planned_shots": planned, "max_shots": c.Oracle.MaxShots},
			)
		}
	}

	return nil
}
