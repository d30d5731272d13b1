package optimization

import (
	"math"

	"github.com/godekd3133/Coin-Pilot/internal/backtest"
)

// Individual is one candidate parameter vector with its evaluated fitness.
type Individual struct {
	Params    map[string]float64
	Fitness   float64
	Results   *backtest.Result
	evaluated bool
}

// NewIndividual wraps a parameter vector into an unevaluated individual.
func NewIndividual(params map[string]float64) *Individual {
	return &Individual{Params: params}
}

// Clone deep-copies the parameter vector; fitness and results carry over.
func (ind *Individual) Clone() *Individual {
	params := make(map[string]float64, len(ind.Params))
	for k, v := range ind.Params {
		params[k] = v
	}
	return &Individual{
		Params:    params,
		Fitness:   ind.Fitness,
		Results:   ind.Results,
		evaluated: ind.evaluated,
	}
}

// Invalidate marks the individual for re-evaluation after mutation.
func (ind *Individual) Invalidate() {
	ind.Fitness = 0
	ind.Results = nil
	ind.evaluated = false
}

// Culled reports whether the individual failed evaluation.
func (ind *Individual) Culled() bool {
	return math.IsInf(ind.Fitness, -1)
}
