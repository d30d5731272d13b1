package optimization

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/godekd3133/Coin-Pilot/internal/backtest"
)

// Default genetic-algorithm settings.
const (
	DefaultPopulationSize = 50
	DefaultGenerations    = 30
	DefaultMutationRate   = 0.1
	DefaultCrossoverRate  = 0.8
	DefaultEliteSize      = 4
	TournamentSize        = 3
)

// Config holds the genetic-algorithm settings.
type Config struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	CrossoverRate  float64
	EliteSize      int

	// Workers bounds concurrent fitness evaluations; 0 means NumCPU.
	Workers int
}

// DefaultConfig returns the standard GA settings.
func DefaultConfig() Config {
	return Config{
		PopulationSize: DefaultPopulationSize,
		Generations:    DefaultGenerations,
		MutationRate:   DefaultMutationRate,
		CrossoverRate:  DefaultCrossoverRate,
		EliteSize:      DefaultEliteSize,
	}
}

// Validate checks the GA settings once at construction.
func (c Config) Validate() error {
	if c.PopulationSize < 2 {
		return fmt.Errorf("optimizer config: population size %d must be at least 2", c.PopulationSize)
	}
	if c.Generations < 1 {
		return fmt.Errorf("optimizer config: generations %d must be positive", c.Generations)
	}
	if c.MutationRate < 0 || c.MutationRate > 1 {
		return fmt.Errorf("optimizer config: mutation rate %.2f out of [0,1]", c.MutationRate)
	}
	if c.CrossoverRate < 0 || c.CrossoverRate > 1 {
		return fmt.Errorf("optimizer config: crossover rate %.2f out of [0,1]", c.CrossoverRate)
	}
	if c.EliteSize < 0 || c.EliteSize >= c.PopulationSize {
		return fmt.Errorf("optimizer config: elite size %d out of [0,%d)", c.EliteSize, c.PopulationSize)
	}
	return nil
}

// Best is the single best parameter vector found across the whole run.
type Best struct {
	Parameters map[string]float64 `json:"parameters"`
	Fitness    float64            `json:"fitness"`
	Generation int                `json:"generation"`
	Results    *backtest.Result   `json:"-"`
}

// GenerationStats summarizes one evaluated generation.
type GenerationStats struct {
	Generation    int
	BestFitness   float64
	AvgFitness    float64
	MedianFitness float64
	Culled        int
}

// Optimizer evolves parameter vectors against an evaluator. Randomness is
// confined to the injected source and consumed only on the calling
// goroutine, so two runs with the same seed and data are identical.
type Optimizer struct {
	cfg       Config
	domain    Domain
	evaluator Evaluator
	rng       *rand.Rand

	// Progress, when set, is called after each generation is evaluated.
	Progress func(GenerationStats)
}

// NewOptimizer builds an optimizer over the given domain and evaluator.
func NewOptimizer(cfg Config, domain Domain, evaluator Evaluator, rng *rand.Rand) (*Optimizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := domain.Validate(); err != nil {
		return nil, err
	}
	if evaluator == nil {
		return nil, fmt.Errorf("optimizer: evaluator must not be nil")
	}
	if rng == nil {
		return nil, fmt.Errorf("optimizer: random source must not be nil")
	}
	return &Optimizer{cfg: cfg, domain: domain, evaluator: evaluator, rng: rng}, nil
}

// Optimize runs the full generation loop and returns the best vector seen.
// A previously saved optimum may be passed as seed; it is snapped onto the
// domain grid and planted as the first individual. The context is only
// checked between generations: one backtest is never interrupted midway.
func (o *Optimizer) Optimize(ctx context.Context, seed map[string]float64) (*Best, error) {
	population := o.initPopulation(seed)
	var best *Best

	for gen := 0; gen < o.cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return best, err
		}

		o.evaluate(population)
		population.SortByFitness()

		if o.Progress != nil {
			culled := 0
			for _, ind := range population {
				if ind.Culled() {
					culled++
				}
			}
			o.Progress(GenerationStats{
				Generation:    gen,
				BestFitness:   population[0].Fitness,
				AvgFitness:    population.AverageFitness(),
				MedianFitness: population.MedianFitness(),
				Culled:        culled,
			})
		}

		if top := population[0]; !top.Culled() && (best == nil || top.Fitness > best.Fitness) {
			best = &Best{
				Parameters: top.Clone().Params,
				Fitness:    top.Fitness,
				Generation: gen,
				Results:    top.Results,
			}
		}

		if gen < o.cfg.Generations-1 {
			population = o.nextGeneration(population)
		}
	}

	if best == nil {
		return nil, fmt.Errorf("optimizer: every individual failed evaluation")
	}
	return best, nil
}

// initPopulation seeds the first individual from a saved optimum when one
// exists and fills the rest with random grid-aligned vectors.
func (o *Optimizer) initPopulation(seed map[string]float64) Population {
	population := make(Population, 0, o.cfg.PopulationSize)
	if seed != nil {
		population = append(population, NewIndividual(o.domain.Snap(seed)))
	}
	for len(population) < o.cfg.PopulationSize {
		population = append(population, NewIndividual(o.domain.Random(o.rng)))
	}
	return population
}

// evaluate runs the fitness function for every unevaluated individual.
// Evaluations are independent and run in parallel; a failed evaluation
// culls the individual with -Inf fitness instead of aborting the run.
func (o *Optimizer) evaluate(population Population) {
	workers := o.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var g errgroup.Group
	g.SetLimit(workers)

	for _, ind := range population {
		if ind.evaluated {
			continue
		}
		ind := ind
		g.Go(func() error {
			result, err := o.evaluator.Evaluate(ind.Params)
			if err != nil {
				ind.Fitness = math.Inf(-1)
			} else {
				ind.Fitness = shapeFitness(result)
				ind.Results = result
			}
			ind.evaluated = true
			return nil
		})
	}
	g.Wait()
}

// nextGeneration preserves the elites unchanged and refills the rest via
// selection, crossover and mutation. The population must be sorted.
func (o *Optimizer) nextGeneration(population Population) Population {
	next := make(Population, 0, o.cfg.PopulationSize)
	next = append(next, population.Elite(o.cfg.EliteSize)...)

	for len(next) < o.cfg.PopulationSize {
		parent1 := o.tournament(population)
		parent2 := o.tournament(population)

		child := parent1.Clone()
		if o.rng.Float64() < o.cfg.CrossoverRate {
			child = o.crossover(parent1, parent2)
		}
		if o.rng.Float64() < o.cfg.MutationRate {
			o.mutate(child)
		}
		next = append(next, child)
	}
	return next
}

// tournament picks the best of a fixed-size random subset.
func (o *Optimizer) tournament(population Population) *Individual {
	var best *Individual
	for i := 0; i < TournamentSize; i++ {
		candidate := population[o.rng.Intn(len(population))]
		if candidate.Culled() {
			continue
		}
		if best == nil || candidate.Fitness > best.Fitness {
			best = candidate
		}
	}
	if best == nil {
		// Every draw hit a failed individual. The population is sorted
		// by fitness, so the head is the least bad fallback.
		return population[0]
	}
	return best
}

// crossover cuts the ordered parameter list at a random index, taking the
// prefix from parent1 and the suffix from parent2.
func (o *Optimizer) crossover(parent1, parent2 *Individual) *Individual {
	cut := o.rng.Intn(len(ParameterNames) + 1)
	params := make(map[string]float64, len(ParameterNames))
	for i, name := range ParameterNames {
		if i < cut {
			params[name] = parent1.Params[name]
		} else {
			params[name] = parent2.Params[name]
		}
	}
	return NewIndividual(params)
}

// mutate resamples one uniformly chosen parameter within its grid.
func (o *Optimizer) mutate(ind *Individual) {
	name := ParameterNames[o.rng.Intn(len(ParameterNames))]
	ind.Params[name] = o.domain[name].Random(o.rng)
	ind.Invalidate()
}
