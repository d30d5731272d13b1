package indicators

import (
	"fmt"

	"github.com/godekd3133/Coin-Pilot/pkg/types"
)

// CrossState describes the relation of a short and a long moving average at
// the most recent candle.
type CrossState string

const (
	CrossGolden CrossState = "golden"
	CrossDead   CrossState = "dead"
	CrossNone   CrossState = "none"
)

// CrossoverResult carries the crossover state and the two moving averages
// it was derived from.
type CrossoverResult struct {
	State CrossState
	Short float64
	Long  float64
}

// Crossover compares the short and long simple moving averages at the
// current and the immediately preceding candle. A golden cross is reported
// when the short average moves from at-or-below to above the long average,
// a dead cross for the reverse. Requires longPeriod+1 candles.
func Crossover(candles []types.Candle, shortPeriod, longPeriod int) (CrossoverResult, error) {
	if shortPeriod < 1 || longPeriod < 1 {
		return CrossoverResult{}, fmt.Errorf("crossover: invalid periods short=%d long=%d", shortPeriod, longPeriod)
	}
	if shortPeriod >= longPeriod {
		return CrossoverResult{}, fmt.Errorf("crossover: short period %d must be below long period %d", shortPeriod, longPeriod)
	}
	if len(candles) < longPeriod+1 {
		return CrossoverResult{}, fmt.Errorf("crossover: need at least %d candles, got %d", longPeriod+1, len(candles))
	}

	currShort := smaAt(candles, len(candles)-1, shortPeriod)
	currLong := smaAt(candles, len(candles)-1, longPeriod)
	prevShort := smaAt(candles, len(candles)-2, shortPeriod)
	prevLong := smaAt(candles, len(candles)-2, longPeriod)

	state := CrossNone
	if prevShort <= prevLong && currShort > currLong {
		state = CrossGolden
	} else if prevShort >= prevLong && currShort < currLong {
		state = CrossDead
	}

	return CrossoverResult{State: state, Short: currShort, Long: currLong}, nil
}

// smaAt computes the simple moving average of the `period` closes ending at
// index `end` inclusive. The caller guarantees end-period+1 >= 0.
func smaAt(candles []types.Candle, end, period int) float64 {
	sum := 0.0
	for i := end - period + 1; i <= end; i++ {
		sum += candles[i].Close
	}
	return sum / float64(period)
}
