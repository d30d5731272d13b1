package indicators

import (
	"fmt"

	"github.com/godekd3133/Coin-Pilot/pkg/types"
)

// MACDResult holds the three MACD components at the most recent candle.
type MACDResult struct {
	MACD      float64
	Signal    float64
	Histogram float64
}

// MACD computes the Moving Average Convergence Divergence over the candle
// closes. The MACD line is the fast EMA minus the slow EMA; the signal line
// is an EMA of the MACD-line series from index slow-1 onward. Requires at
// least slow+signalPeriod candles.
func MACD(candles []types.Candle, fast, slow, signalPeriod int) (MACDResult, error) {
	if fast < 1 || slow < 1 || signalPeriod < 1 {
		return MACDResult{}, fmt.Errorf("macd: invalid periods fast=%d slow=%d signal=%d", fast, slow, signalPeriod)
	}
	if fast >= slow {
		return MACDResult{}, fmt.Errorf("macd: fast period %d must be below slow period %d", fast, slow)
	}
	if len(candles) < slow+signalPeriod {
		return MACDResult{}, fmt.Errorf("macd: need at least %d candles, got %d", slow+signalPeriod, len(candles))
	}

	// Running fast/slow EMAs act as the per-index cache: recomputing the
	// full EMA at every index would be quadratic for the same values.
	fastEMA := newEMASeries(fast)
	slowEMA := newEMASeries(slow)
	macdSeries := make([]float64, 0, len(candles)-slow+1)
	for i, c := range candles {
		fv := fastEMA.update(c.Close)
		sv := slowEMA.update(c.Close)
		if i >= slow-1 {
			macdSeries = append(macdSeries, fv-sv)
		}
	}

	signalEMA := newEMASeries(signalPeriod)
	signal := 0.0
	for _, v := range macdSeries {
		signal = signalEMA.update(v)
	}

	macd := macdSeries[len(macdSeries)-1]
	return MACDResult{
		MACD:      macd,
		Signal:    signal,
		Histogram: macd - signal,
	}, nil
}

// EMA computes the exponential moving average of the candle closes, seeded
// with the first close and using multiplier 2/(period+1). Requires at least
// `period` candles.
func EMA(candles []types.Candle, period int) (float64, error) {
	if period < 1 {
		return 0, fmt.Errorf("ema: invalid period %d", period)
	}
	if len(candles) < period {
		return 0, fmt.Errorf("ema: need at least %d candles, got %d", period, len(candles))
	}

	series := newEMASeries(period)
	value := 0.0
	for _, c := range candles {
		value = series.update(c.Close)
	}
	return value, nil
}

// emaSeries is a locally-scoped incremental EMA, seeded with the first value.
type emaSeries struct {
	multiplier float64
	value      float64
	seeded     bool
}

func newEMASeries(period int) *emaSeries {
	return &emaSeries{multiplier: 2.0 / float64(period+1)}
}

func (e *emaSeries) update(v float64) float64 {
	if !e.seeded {
		e.value = v
		e.seeded = true
		return e.value
	}
	e.value = (v-e.value)*e.multiplier + e.value
	return e.value
}
