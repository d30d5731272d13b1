package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_NilOnInsufficientData(t *testing.T) {
	snap := Analyze(candlesFromCloses(100, 101, 102), DefaultConfig())
	assert.Nil(t, snap)
}

func TestAnalyze_FlatSeriesReadsOverbought(t *testing.T) {
	// A series with no losses drives RSI to its degenerate value of 100,
	// so the only signal is the overbought one. Every other indicator
	// stays silent on a constant price.
	closes := make([]float64, 250)
	for i := range closes {
		closes[i] = 100
	}

	snap := Analyze(candlesFromCloses(closes...), DefaultConfig())
	require.NotNil(t, snap)
	assert.Equal(t, 100.0, snap.RSI)
	assert.Equal(t, 0.0, snap.BuySignals)
	assert.Equal(t, 1.0, snap.SellSignals)
	assert.Equal(t, RecommendSell, snap.Recommendation)
}

func TestAnalyze_SellSignalsOnOverboughtSpike(t *testing.T) {
	// Slow decline with a single terminal jump: the spike drives RSI
	// overbought and clears the Bollinger upper band, while the downtrend
	// keeps the moving averages from reporting a golden cross.
	closes := make([]float64, 250)
	for i := 0; i < 249; i++ {
		closes[i] = 150 - 0.2*float64(i)
	}
	closes[249] = closes[248] + 10

	snap := Analyze(candlesFromCloses(closes...), DefaultConfig())
	require.NotNil(t, snap)
	assert.Greater(t, snap.RSI, 70.0)
	assert.Greater(t, snap.Bollinger.Price, snap.Bollinger.Upper)
	assert.GreaterOrEqual(t, snap.SellSignals, 2.0)
	assert.Equal(t, RecommendSell, snap.Recommendation)
}

func TestAnalyze_HighVolumeScalesCounters(t *testing.T) {
	closes := make([]float64, 250)
	for i := 0; i < 230; i++ {
		closes[i] = 100 + 0.01*float64(i%2)
	}
	for i := 0; i < 20; i++ {
		closes[230+i] = 100 * (1 + 0.25*float64(i+1)/20)
	}

	quiet := candlesFromCloses(closes...)
	loud := candlesFromCloses(closes...)
	loud[len(loud)-1].Volume = 10000

	quietSnap := Analyze(quiet, DefaultConfig())
	loudSnap := Analyze(loud, DefaultConfig())
	require.NotNil(t, quietSnap)
	require.NotNil(t, loudSnap)

	assert.False(t, quietSnap.Volume.IsHighVolume)
	assert.True(t, loudSnap.Volume.IsHighVolume)
	assert.InDelta(t, quietSnap.SellSignals*1.2, loudSnap.SellSignals, 1e-9)
}
