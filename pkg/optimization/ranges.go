package optimization

import (
	"fmt"
	"math"
	"math/rand"
)

// ParameterRange is one searchable dimension: an inclusive [Min,Max] grid
// with the given step.
type ParameterRange struct {
	Min  float64
	Max  float64
	Step float64
}

// steps returns the number of grid points minus one.
func (r ParameterRange) steps() int {
	return int(math.Round((r.Max - r.Min) / r.Step))
}

// Random samples a uniformly random grid-aligned value.
func (r ParameterRange) Random(rng *rand.Rand) float64 {
	return r.Min + r.Step*float64(rng.Intn(r.steps()+1))
}

// Snap clamps a value into the range and rounds it onto the grid. Used to
// fold a previously saved optimum back into the domain.
func (r ParameterRange) Snap(v float64) float64 {
	if v <= r.Min {
		return r.Min
	}
	if v >= r.Max {
		return r.Max
	}
	return r.Min + r.Step*math.Round((v-r.Min)/r.Step)
}

// ParameterNames is the fixed, ordered list of the 19 searchable strategy
// parameters. Crossover cuts over this ordering.
var ParameterNames = []string{
	"rsi_period",
	"rsi_oversold",
	"rsi_overbought",
	"macd_fast",
	"macd_slow",
	"macd_signal",
	"bb_period",
	"bb_std_dev",
	"ema_short",
	"ema_medium",
	"ema_long",
	"stop_loss_percent",
	"take_profit_percent",
	"trailing_stop_percent",
	"buy_score_threshold",
	"sell_score_threshold",
	"volume_multiplier",
	"volume_period",
	"technical_weight",
}

// Domain maps every searchable parameter to its range.
type Domain map[string]ParameterRange

// DefaultDomain returns the standard search space. MACD and moving-average
// ranges are kept disjoint so fast < slow and short < long always hold.
func DefaultDomain() Domain {
	return Domain{
		"rsi_period":            {Min: 8, Max: 21, Step: 1},
		"rsi_oversold":          {Min: 20, Max: 40, Step: 1},
		"rsi_overbought":        {Min: 60, Max: 80, Step: 1},
		"macd_fast":             {Min: 8, Max: 16, Step: 1},
		"macd_slow":             {Min: 20, Max: 30, Step: 1},
		"macd_signal":           {Min: 7, Max: 12, Step: 1},
		"bb_period":             {Min: 12, Max: 26, Step: 1},
		"bb_std_dev":            {Min: 1.5, Max: 3.0, Step: 0.1},
		"ema_short":             {Min: 5, Max: 15, Step: 1},
		"ema_medium":            {Min: 20, Max: 40, Step: 1},
		"ema_long":              {Min: 50, Max: 120, Step: 5},
		"stop_loss_percent":     {Min: 1, Max: 10, Step: 0.5},
		"take_profit_percent":   {Min: 2, Max: 20, Step: 0.5},
		"trailing_stop_percent": {Min: 0, Max: 10, Step: 0.5},
		"buy_score_threshold":   {Min: 50, Max: 80, Step: 1},
		"sell_score_threshold":  {Min: 50, Max: 80, Step: 1},
		"volume_multiplier":     {Min: 1.2, Max: 3.0, Step: 0.1},
		"volume_period":         {Min: 10, Max: 30, Step: 1},
		"technical_weight":      {Min: 0.5, Max: 0.9, Step: 0.05},
	}
}

// Validate checks that the domain covers every named parameter with a
// usable range.
func (d Domain) Validate() error {
	for _, name := range ParameterNames {
		r, ok := d[name]
		if !ok {
			return fmt.Errorf("optimization domain: missing parameter %q", name)
		}
		if r.Step <= 0 || r.Max < r.Min {
			return fmt.Errorf("optimization domain: invalid range for %q: [%.2f,%.2f] step %.2f", name, r.Min, r.Max, r.Step)
		}
	}
	return nil
}

// Random samples one complete grid-aligned parameter vector.
func (d Domain) Random(rng *rand.Rand) map[string]float64 {
	params := make(map[string]float64, len(ParameterNames))
	for _, name := range ParameterNames {
		params[name] = d[name].Random(rng)
	}
	return params
}

// Snap folds an arbitrary parameter vector onto the domain grid, filling
// missing parameters with their range minimum.
func (d Domain) Snap(params map[string]float64) map[string]float64 {
	snapped := make(map[string]float64, len(ParameterNames))
	for _, name := range ParameterNames {
		snapped[name] = d[name].Snap(params[name])
	}
	return snapped
}
