package indicators

import (
	"fmt"

	"github.com/godekd3133/Coin-Pilot/pkg/types"
)

// DefaultHighVolumeRatio is the ratio above which a candle counts as a
// high-volume candle when no custom threshold is configured.
const DefaultHighVolumeRatio = 1.5

// VolumeResult describes how the latest candle's volume compares to the
// recent average.
type VolumeResult struct {
	Ratio        float64
	IsHighVolume bool
}

// VolumeAnalysis compares the most recent candle's volume against the mean
// volume of the preceding `period` candles using the default threshold.
func VolumeAnalysis(candles []types.Candle, period int) (VolumeResult, error) {
	return VolumeAnalysisWithThreshold(candles, period, DefaultHighVolumeRatio)
}

// VolumeAnalysisWithThreshold is VolumeAnalysis with a configurable
// high-volume ratio. Requires period+1 candles.
func VolumeAnalysisWithThreshold(candles []types.Candle, period int, threshold float64) (VolumeResult, error) {
	if period < 1 {
		return VolumeResult{}, fmt.Errorf("volume: invalid period %d", period)
	}
	if len(candles) < period+1 {
		return VolumeResult{}, fmt.Errorf("volume: need at least %d candles, got %d", period+1, len(candles))
	}

	sum := 0.0
	for i := len(candles) - period - 1; i < len(candles)-1; i++ {
		sum += candles[i].Volume
	}
	avg := sum / float64(period)
	if avg == 0 {
		return VolumeResult{Ratio: 0, IsHighVolume: false}, nil
	}

	ratio := candles[len(candles)-1].Volume / avg
	return VolumeResult{
		Ratio:        ratio,
		IsHighVolume: ratio > threshold,
	}, nil
}
