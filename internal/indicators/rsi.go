package indicators

import (
	"fmt"
	"math"

	"github.com/godekd3133/Coin-Pilot/pkg/types"
)

// RSI computes the Relative Strength Index over the candle closes using
// Wilder's smoothing. Requires at least period+1 candles.
func RSI(candles []types.Candle, period int) (float64, error) {
	if period < 1 {
		return 0, fmt.Errorf("rsi: invalid period %d", period)
	}
	if len(candles) < period+1 {
		return 0, fmt.Errorf("rsi: need at least %d candles, got %d", period+1, len(candles))
	}

	// Seed averages from the first `period` deltas.
	avgGain := 0.0
	avgLoss := 0.0
	for i := 1; i <= period; i++ {
		change := candles[i].Close - candles[i-1].Close
		if change > 0 {
			avgGain += change
		} else {
			avgLoss += math.Abs(change)
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	// Wilder's recursive smoothing over the remainder.
	for i := period + 1; i < len(candles); i++ {
		change := candles[i].Close - candles[i-1].Close
		gain := 0.0
		loss := 0.0
		if change > 0 {
			gain = change
		} else {
			loss = math.Abs(change)
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100, nil
	}

	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs)), nil
}
