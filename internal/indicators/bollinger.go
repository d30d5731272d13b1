package indicators

import (
	"fmt"
	"math"

	"github.com/godekd3133/Coin-Pilot/pkg/types"
)

// BollingerResult holds the three bands plus the close price they were
// evaluated against.
type BollingerResult struct {
	Upper  float64
	Middle float64
	Lower  float64
	Price  float64
}

// BollingerBands computes a simple moving average plus/minus a multiple of
// the population standard deviation over the most recent `period` candles.
func BollingerBands(candles []types.Candle, period int, stdDevMultiplier float64) (BollingerResult, error) {
	if period < 2 {
		return BollingerResult{}, fmt.Errorf("bollinger: invalid period %d", period)
	}
	if len(candles) < period {
		return BollingerResult{}, fmt.Errorf("bollinger: need at least %d candles, got %d", period, len(candles))
	}

	recent := candles[len(candles)-period:]
	middle := 0.0
	for _, c := range recent {
		middle += c.Close
	}
	middle /= float64(period)

	variance := 0.0
	for _, c := range recent {
		diff := c.Close - middle
		variance += diff * diff
	}
	stdDev := math.Sqrt(variance / float64(period))

	return BollingerResult{
		Upper:  middle + stdDevMultiplier*stdDev,
		Middle: middle,
		Lower:  middle - stdDevMultiplier*stdDev,
		Price:  candles[len(candles)-1].Close,
	}, nil
}
