package optimization

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godekd3133/Coin-Pilot/internal/backtest"
)

// stubEvaluator scores a vector without running a backtest. The returned
// trade count is high enough to avoid the low-activity penalty.
type stubEvaluator struct {
	score func(params map[string]float64) float64
	fail  func(params map[string]float64) bool
}

func (s *stubEvaluator) Evaluate(params map[string]float64) (*backtest.Result, error) {
	if s.fail != nil && s.fail(params) {
		return nil, fmt.Errorf("stub: evaluation failed")
	}
	return &backtest.Result{
		TotalReturnPercent: s.score(params),
		TotalTrades:        10,
	}, nil
}

// sumScore rewards large parameter values, so the optimum sits at the top
// of every range and progress is easy to verify.
func sumScore(params map[string]float64) float64 {
	total := 0.0
	for _, v := range params {
		total += v
	}
	return total
}

func newTestOptimizer(t *testing.T, evaluator Evaluator, seed int64, mutate func(*Config)) *Optimizer {
	t.Helper()
	cfg := DefaultConfig()
	cfg.PopulationSize = 20
	cfg.Generations = 5
	cfg.Workers = 1
	if mutate != nil {
		mutate(&cfg)
	}
	opt, err := NewOptimizer(cfg, DefaultDomain(), evaluator, rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return opt
}

func TestOptimize_SameSeedSameResult(t *testing.T) {
	run := func() *Best {
		opt := newTestOptimizer(t, &stubEvaluator{score: sumScore}, 42, nil)
		best, err := opt.Optimize(context.Background(), nil)
		require.NoError(t, err)
		return best
	}

	first := run()
	second := run()

	assert.Equal(t, first.Fitness, second.Fitness)
	assert.Equal(t, first.Generation, second.Generation)
	assert.Equal(t, first.Parameters, second.Parameters)
}

func TestOptimize_ImprovesOverRandomStart(t *testing.T) {
	evaluator := &stubEvaluator{score: sumScore}

	single := newTestOptimizer(t, evaluator, 7, func(c *Config) { c.Generations = 1 })
	baseline, err := single.Optimize(context.Background(), nil)
	require.NoError(t, err)

	full := newTestOptimizer(t, evaluator, 7, func(c *Config) { c.Generations = 20 })
	evolved, err := full.Optimize(context.Background(), nil)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, evolved.Fitness, baseline.Fitness)
}

func TestOptimize_SeedVectorPlantedAndSnapped(t *testing.T) {
	seed := DefaultDomain().Random(rand.New(rand.NewSource(1)))
	seed["rsi_period"] += 0.4 // off-grid on purpose

	var observed []map[string]float64
	evaluator := &stubEvaluator{score: func(params map[string]float64) float64 {
		cloned := make(map[string]float64, len(params))
		for k, v := range params {
			cloned[k] = v
		}
		observed = append(observed, cloned)
		return sumScore(params)
	}}

	opt := newTestOptimizer(t, &stubEvaluator{score: sumScore}, 3, nil)
	opt.evaluator = evaluator

	_, err := opt.Optimize(context.Background(), seed)
	require.NoError(t, err)

	require.NotEmpty(t, observed)
	first := observed[0]
	snapped := DefaultDomain().Snap(seed)
	assert.Equal(t, snapped, first, "first individual should be the snapped seed vector")
	for name, rng := range DefaultDomain() {
		steps := math.Round((first[name] - rng.Min) / rng.Step)
		assert.InDelta(t, rng.Min+steps*rng.Step, first[name], 1e-9, "parameter %s off grid", name)
	}
}

func TestOptimize_AllEvaluationsFail(t *testing.T) {
	evaluator := &stubEvaluator{
		score: sumScore,
		fail:  func(map[string]float64) bool { return true },
	}
	opt := newTestOptimizer(t, evaluator, 5, nil)

	best, err := opt.Optimize(context.Background(), nil)
	require.Error(t, err)
	assert.Nil(t, best)
}

func TestOptimize_FailedIndividualsAreCulled(t *testing.T) {
	// Vectors with a short RSI period fail; the optimizer must still find
	// a valid optimum among the survivors.
	evaluator := &stubEvaluator{
		score: sumScore,
		fail:  func(params map[string]float64) bool { return params["rsi_period"] < 10 },
	}
	opt := newTestOptimizer(t, evaluator, 11, nil)

	best, err := opt.Optimize(context.Background(), nil)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, best.Parameters["rsi_period"], 10.0)
	assert.False(t, math.IsInf(best.Fitness, -1))
}

func TestOptimize_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opt := newTestOptimizer(t, &stubEvaluator{score: sumScore}, 2, nil)
	_, err := opt.Optimize(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNextGeneration_ElitesSurviveUnchanged(t *testing.T) {
	opt := newTestOptimizer(t, &stubEvaluator{score: sumScore}, 9, nil)

	population := opt.initPopulation(nil)
	opt.evaluate(population)
	population.SortByFitness()

	next := opt.nextGeneration(population)
	require.Len(t, next, opt.cfg.PopulationSize)

	for i := 0; i < opt.cfg.EliteSize; i++ {
		assert.Equal(t, population[i].Params, next[i].Params, "elite %d was altered", i)
		assert.Equal(t, population[i].Fitness, next[i].Fitness)
	}
}

func TestTournament_NeverSelectsCulledParents(t *testing.T) {
	opt := newTestOptimizer(t, &stubEvaluator{score: sumScore}, 11, nil)
	domain := DefaultDomain()
	rng := rand.New(rand.NewSource(3))

	viable := NewIndividual(domain.Random(rng))
	viable.Fitness = 12
	population := Population{viable}
	for i := 1; i < 20; i++ {
		culled := NewIndividual(domain.Random(rng))
		culled.Fitness = math.Inf(-1)
		population = append(population, culled)
	}

	// With 19 of 20 individuals culled, most draws land on failures.
	for i := 0; i < 200; i++ {
		winner := opt.tournament(population)
		require.False(t, winner.Culled())
	}
}

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"population too small", func(c *Config) { c.PopulationSize = 1 }},
		{"no generations", func(c *Config) { c.Generations = 0 }},
		{"mutation rate above one", func(c *Config) { c.MutationRate = 1.5 }},
		{"negative crossover rate", func(c *Config) { c.CrossoverRate = -0.1 }},
		{"elite size too large", func(c *Config) { c.EliteSize = 50; c.PopulationSize = 50 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
