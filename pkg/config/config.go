// Package config loads and validates the YAML configuration surface of a
// search run: filter cutoffs, estimator inputs, optimizer parameters, the
// oracle backend selection and its budget, and logging options.
package config

// Config represents the complete configuration for a search run.
type Config struct {
	// Filter configuration for the classical candidate pre-filter
	Filter FilterConfig `yaml:"filter" validate:"required"`

	// Estimator configuration for success-rate reporting
	Estimator EstimatorConfig `yaml:"estimator,omitempty"`

	// Optimizer configuration for the evolutionary parameter search
	Optimizer OptimizerConfig `yaml:"optimizer,omitempty"`

	// Oracle backend configuration
	Oracle OracleConfig `yaml:"oracle,omitempty"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// FilterConfig holds the classical pre-filter cutoffs.
type FilterConfig struct {
	// Total states to scan, typically 2^W
	SpaceSize int `yaml:"space_size" validate:"required,min=1"`

	// Known target patterns
	Targets []int `yaml:"targets" validate:"required,min=1,dive,min=0"`

	// Maximum candidates to return
	MaxCandidates int `yaml:"max_candidates" validate:"required,min=1"`

	// Maximum Hamming distance from any target
	HammingThreshold int `yaml:"hamming_threshold" validate:"min=0"`
}

// EstimatorConfig holds the iteration budget the success estimate assumes.
type EstimatorConfig struct {
	Iterations int `yaml:"iterations" validate:"omitempty,min=1"`
}

// OptimizerConfig holds the evolutionary search parameters.
type OptimizerConfig struct {
	PopulationSize   int     `yaml:"population_size" validate:"omitempty,min=2"`
	Generations      int     `yaml:"generations" validate:"omitempty,min=1"`
	CrossoverRate    float64 `yaml:"crossover_probability" validate:"omitempty,min=0,max=1"`
	MutationStd      float64 `yaml:"mutation_std" validate:"omitempty,min=0"`
	EarlyStopFitness float64 `yaml:"early_stop_fitness" validate:"omitempty,min=0,max=1"`
	Concurrency      int     `yaml:"concurrency" validate:"omitempty,min=1"`
	Seed             int64   `yaml:"seed"`
}

// OracleConfig selects and budgets the oracle backend.
type OracleConfig struct {
	// Backend name (currently: simulator)
	Backend string `yaml:"backend" validate:"omitempty,oneof=simulator"`

	// Grid positions produced per evaluation
	Positions int `yaml:"positions" validate:"omitempty,min=1"`

	// Shots per oracle task
	ShotsPerEvaluation int `yaml:"shots_per_evaluation" validate:"omitempty,min=1"`

	// Spending caps; zero means unlimited
	MaxTasks int `yaml:"max_tasks" validate:"min=0"`
	MaxShots int `yaml:"max_shots" validate:"min=0"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=DEBUG INFO WARN ERROR FATAL"`
	// Optional JSON log file path
	File string `yaml:"file,omitempty"`
}

// DefaultConfig returns a configuration with reasonable defaults for the
// 15-bit reference geometry.
func DefaultConfig() *Config {
	return &Config{
		Filter: FilterConfig{
			SpaceSize:        32768,
			MaxCandidates:    2000,
			HammingThreshold: 9,
		},
		Estimator: EstimatorConfig{
			Iterations: 20,
		},
		Optimizer: OptimizerConfig{
			PopulationSize:   20,
			Generations:      30,
			CrossoverRate:    0.7,
			MutationStd:      0.3,
			EarlyStopFitness: 0.95,
			Concurrency:      3,
		},
		Oracle: OracleConfig{
			Backend:            "simulator",
			Positions:          15,
			ShotsPerEvaluation: 100,
		},
		Logging: LoggingConfig{
			Level: "INFO",
		},
	}
}

// applyDefaults fills zero-valued optional fields from DefaultConfig.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Estimator.Iterations == 0 {
		c.Estimator.Iterations = defaults.Estimator.Iterations
	}
	if c.Optimizer.PopulationSize == 0 {
		c.Optimizer.PopulationSize = defaults.Optimizer.PopulationSize
	}
	if c.Optimizer.Generations == 0 {
		c.Optimizer.Generations = defaults.Optimizer.Generations
	}
	if c.Optimizer.CrossoverRate == 0 {
		c.Optimizer.CrossoverRate = defaults.Optimizer.CrossoverRate
	}
	if c.Optimizer.MutationStd == 0 {
		c.Optimizer.MutationStd = defaults.Optimizer.MutationStd
	}
	if c.Optimizer.EarlyStopFitness == 0 {
		c.Optimizer.EarlyStopFitness = defaults.Optimizer.EarlyStopFitness
	}
	if c.Optimizer.Concurrency == 0 {
		c.Optimizer.Concurrency = defaults.Optimizer.Concurrency
	}
	if c.Oracle.Backend == "" {
		c.Oracle.Backend = defaults.Oracle.Backend
	}
	if c.Oracle.Positions == 0 {
		c.Oracle.Positions = defaults.Oracle.Positions
	}
	if c.Oracle.ShotsPerEvaluation == 0 {
		c.Oracle.ShotsPerEvaluation = defaults.Oracle.ShotsPerEvaluation
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
}
