package evolve

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"github.com/quantalab/qevo-go/pkg/core"
	"github.com/quantalab/qevo-go/pkg/errors"
	"github.com/quantalab/qevo-go/pkg/logging"
)

// GeneticConfig contains configuration options for the genetic optimizer.
type GeneticConfig struct {
	// Evolutionary parameters
	PopulationSize int     `json:"population_size"` // Default: 20
	MaxGenerations int     `json:"max_generations"` // Default: 30
	CrossoverRate  float64 `json:"crossover_rate"`  // Default: 0.7
	MutationStd    float64 `json:"mutation_std"`    // Default: 0.3

	// Convergence parameters
	EarlyStopFitness float64 `json:"early_stop_fitness"` // Default: 0.95

	// Genome length; defaults to the oracle's position count.
	ParamLength int `json:"param_length"`

	// Performance parameters. Oracle calls are the dominant cost; the
	// concurrency level caps in-flight calls per generation.
	Concurrency int `json:"concurrency"` // Default: 3

	// Seed for the run's random source; <= 0 uses the current time.
	Seed int64 `json:"seed"`
}

// DefaultGeneticConfig returns the default optimizer configuration.
func DefaultGeneticConfig() *GeneticConfig {
	return &GeneticConfig{
		PopulationSize:   20,
		MaxGenerations:   30,
		CrossoverRate:    0.7,
		MutationStd:      0.3,
		EarlyStopFitness: 0.95,
		Concurrency:      3,
	}
}

// Individual is one parameter vector in the population.
type Individual struct {
	ID         string               `json:"id"`
	Params     core.ParameterVector `json:"params"`
	Fitness    float64              `json:"fitness"`
	Generation int                  `json:"generation"`
	ParentIDs  []string             `json:"parent_ids"`
}

// Clone returns a deep copy of the individual.
func (ind *Individual) Clone() *Individual {
	parents := make([]string, len(ind.ParentIDs))
	copy(parents, ind.ParentIDs)
	return &Individual{
		ID:         ind.ID,
		Params:     ind.Params.Clone(),
		Fitness:    ind.Fitness,
		Generation: ind.Generation,
		ParentIDs:  parents,
	}
}

// Population is one generation of individuals, replaced wholesale each
// generation.
type Population struct {
	Individuals []*Individual
	Generation  int
	BestFitness float64
	Best        *Individual
}

// Result is the outcome of one optimization run.
type Result struct {
	// Best is the highest-scoring individual observed across all
	// generations, not merely the final generation's best.
	Best *Individual
	// History holds the best-ever score after each generation; it is
	// monotonically non-decreasing.
	History []float64
	// Generations is the number of generations actually evaluated.
	Generations int
	// Evaluations is the number of oracle-backed fitness evaluations.
	Evaluations int
}

// Genetic is a generation-based evolutionary optimizer over continuous
// parameter vectors. Selection keeps the top half of each generation;
// reproduction averages two distinct elites with probability
// CrossoverRate and clones a random elite otherwise, then perturbs every
// child with Gaussian noise and clamps it back into bounds.
type Genetic struct {
	config    *GeneticConfig
	evaluator *Evaluator
	rng       *rand.Rand

	mu          sync.Mutex
	best        *Individual
	history     []float64
	evaluations int
}

// NewGenetic creates an optimizer for the given evaluator. Zero-valued
// config fields are replaced with defaults; invalid values are rejected.
func NewGenetic(config *GeneticConfig, evaluator *Evaluator) (*Genetic, error) {
	if evaluator == nil {
		return nil, errors.New(errors.InvalidInput, "evaluator must not be nil")
	}
	if config == nil {
		config = DefaultGeneticConfig()
	}

	defaults := DefaultGeneticConfig()
	if config.PopulationSize == 0 {
		config.PopulationSize = defaults.PopulationSize
	}
	if config.MaxGenerations == 0 {
		config.MaxGenerations = defaults.MaxGenerations
	}
	if config.CrossoverRate == 0 {
		config.CrossoverRate = defaults.CrossoverRate
	}
	if config.MutationStd == 0 {
		config.MutationStd = defaults.MutationStd
	}
	if config.EarlyStopFitness == 0 {
		config.EarlyStopFitness = defaults.EarlyStopFitness
	}
	if config.Concurrency == 0 {
		config.Concurrency = defaults.Concurrency
	}
	if config.ParamLength == 0 {
		config.ParamLength = evaluator.oracle.Positions()
	}

	if err := validateGeneticConfig(config); err != nil {
		return nil, err
	}

	seed := config.Seed
	if seed <= 0 {
		seed = time.Now().UnixNano()
	}

	return &Genetic{
		config:    config,
		evaluator: evaluator,
		rng:       rand.New(rand.NewSource(seed)),
	}, nil
}

func validateGeneticConfig(config *GeneticConfig) error {
	if config.PopulationSize < 2 {
		return errors.WithFields(
			errors.New(errors.ValidationFailed, "population size must be at least 2"),
			errors.Fields{"population_size": config.PopulationSize},
		)
	}
	if config.MaxGenerations < 1 {
		return errors.New(errors.ValidationFailed, "generation budget must be at least 1")
	}
	if config.CrossoverRate < 0 || config.CrossoverRate > 1 {
		return errors.WithFields(
			errors.New(errors.ValidationFailed, "crossover rate must be in [0,1]"),
			errors.Fields{"crossover_rate": config.CrossoverRate},
		)
	}
	if config.MutationStd < 0 {
		return errors.New(errors.ValidationFailed, "mutation std must not be negative")
	}
	if config.ParamLength < 1 {
		return errors.New(errors.ValidationFailed, "param length must be at least 1")
	}
	return nil
}

// Optimize runs the evolutionary loop until the early-stop fitness is
// reached or the generation budget is exhausted. Exhausting the budget is
// a normal terminal outcome, not an error; callers inspect the returned
// score. The only error condition is context cancellation, which still
// returns the best result found so far.
func (g *Genetic) Optimize(ctx context.Context) (*Result, error) {
	logger := logging.GetLogger()
	logger.Info(ctx, "Starting evolution: population_size=%d, max_generations=%d, shots_per_evaluation=%d",
		g.config.PopulationSize, g.config.MaxGenerations, g.evaluator.shots)

	population := g.initializePopulation()

	generation := 0
	for ; generation < g.config.MaxGenerations; generation++ {
		if err := errors.CheckContext(ctx, "evolution"); err != nil {
			return g.result(generation), err
		}

		population.Generation = generation
		if err := g.evaluatePopulation(ctx, population); err != nil {
			return g.result(generation), err
		}

		g.mu.Lock()
		g.history = append(g.history, g.best.Fitness)
		bestFitness := g.best.Fitness
		g.mu.Unlock()

		logger.Info(ctx, "Generation %d/%d: best=%.3f, avg=%.3f",
			generation+1, g.config.MaxGenerations, bestFitness, averageFitness(population))

		if bestFitness >= g.config.EarlyStopFitness {
			logger.Info(ctx, "Early stop: fitness %.3f reached threshold %.3f at generation %d",
				bestFitness, g.config.EarlyStopFitness, generation)
			generation++
			break
		}

		// Skip reproduction after the final evaluated generation.
		if generation < g.config.MaxGenerations-1 {
			population = g.reproduce(population)
		}
	}

	result := g.result(generation)
	logger.Info(ctx, "Evolution complete: generations=%d, evaluations=%d, best_fitness=%.3f",
		result.Generations, result.Evaluations, result.Best.Fitness)
	return result, nil
}

func (g *Genetic) result(generations int) *Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	history := make([]float64, len(g.history))
	copy(history, g.history)

	var best *Individual
	if g.best != nil {
		best = g.best.Clone()
	}
	return &Result{
		Best:        best,
		History:     history,
		Generations: generations,
		Evaluations: g.evaluations,
	}
}

// initializePopulation draws every individual independently and uniformly
// from the bounded parameter box.
func (g *Genetic) initializePopulation() *Population {
	individuals := make([]*Individual, g.config.PopulationSize)
	for i := range individuals {
		individuals[i] = &Individual{
			ID:         uuid.New().String(),
			Params:     core.NewRandomParameters(g.rng, g.config.ParamLength),
			Generation: 0,
		}
	}
	return &Population{Individuals: individuals}
}

// evaluatePopulation scores every individual concurrently. Evaluations
// are mutually independent; the pool caps in-flight oracle calls.
func (g *Genetic) evaluatePopulation(ctx context.Context, population *Population) error {
	p := pool.New().WithMaxGoroutines(g.config.Concurrency)

	var mu sync.Mutex
	var firstErr error

	for _, ind := range population.Individuals {
		ind := ind
		p.Go(func() {
			res, err := g.evaluator.Evaluate(ctx, ind.Params)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}

			mu.Lock()
			ind.Fitness = res.Fitness
			if population.Best == nil || res.Fitness > population.BestFitness {
				population.BestFitness = res.Fitness
				population.Best = ind
			}
			mu.Unlock()

			g.recordEvaluation(ind)
		})
	}

	p.Wait()
	return firstErr
}

// recordEvaluation updates the global elitist record. The best-ever
// individual is only ever improved, never degraded.
func (g *Genetic) recordEvaluation(ind *Individual) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.evaluations++
	if g.best == nil || ind.Fitness > g.best.Fitness {
		g.best = ind.Clone()
	}
}

// reproduce builds the next generation: the top half survives unchanged,
// and the remaining slots are refilled with children produced by elite
// crossover or cloning, each perturbed with Gaussian noise and clamped
// back into bounds.
func (g *Genetic) reproduce(population *Population) *Population {
	elite := g.selectElite(population)

	next := make([]*Individual, 0, g.config.PopulationSize)
	for _, survivor := range elite {
		next = append(next, survivor.Clone())
	}
	for len(next) < g.config.PopulationSize {
		var child *Individual
		if g.rng.Float64() < g.config.CrossoverRate && len(elite) > 1 {
			child = g.crossover(elite, population.Generation+1)
		} else {
			parent := elite[g.rng.Intn(len(elite))]
			child = &Individual{
				ID:         uuid.New().String(),
				Params:     parent.Params.Clone(),
				Generation: population.Generation + 1,
				ParentIDs:  []string{parent.ID},
			}
		}

		g.mutate(child)
		next = append(next, child)
	}

	return &Population{
		Individuals: next,
		Generation:  population.Generation + 1,
	}
}

// selectElite ranks the population by fitness descending and keeps the
// top half.
func (g *Genetic) selectElite(population *Population) []*Individual {
	ranked := make([]*Individual, len(population.Individuals))
	copy(ranked, population.Individuals)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Fitness > ranked[j].Fitness
	})

	eliteSize := len(ranked) / 2
	if eliteSize < 1 {
		eliteSize = 1
	}
	return ranked[:eliteSize]
}

// crossover averages the components of two distinct elite parents.
func (g *Genetic) crossover(elite []*Individual, generation int) *Individual {
	i := g.rng.Intn(len(elite))
	j := g.rng.Intn(len(elite))
	for j == i {
		j = g.rng.Intn(len(elite))
	}
	p1, p2 := elite[i], elite[j]

	params := make(core.ParameterVector, len(p1.Params))
	for k := range params {
		params[k] = (p1.Params[k] + p2.Params[k]) / 2
	}

	return &Individual{
		ID:         uuid.New().String(),
		Params:     params,
		Generation: generation,
		ParentIDs:  []string{p1.ID, p2.ID},
	}
}

// mutate adds Gaussian noise to every component and clamps the result.
func (g *Genetic) mutate(ind *Individual) {
	for i := range ind.Params {
		ind.Params[i] += g.rng.NormFloat64() * g.config.MutationStd
	}
	ind.Params.Clamp()
}

func averageFitness(population *Population) float64 {
	if len(population.Individuals) == 0 {
		return 0
	}
	sum := 0.0
	for _, ind := range population.Individuals {
		sum += ind.Fitness
	}
	return sum / float64(len(population.Individuals))
}
