package indicators

import "github.com/godekd3133/Coin-Pilot/pkg/types"

// Recommendation labels emitted by Analyze.
const (
	RecommendBuy  = "BUY"
	RecommendSell = "SELL"
	RecommendHold = "HOLD"
)

// Signal weights used by Analyze when accumulating buy/sell counters.
const (
	rsiSignalWeight       = 1.0
	macdSignalWeight      = 1.0
	bollingerSignalWeight = 1.0
	crossoverSignalWeight = 2.0
	highVolumeScale       = 1.2
)

// Config holds the periods and thresholds for a full indicator pass.
type Config struct {
	RSIPeriod     int
	RSIOversold   float64
	RSIOverbought float64

	MACDFast   int
	MACDSlow   int
	MACDSignal int

	BBPeriod int
	BBStdDev float64

	EMAShort  int
	EMAMedium int
	EMALong   int

	VolumePeriod     int
	VolumeMultiplier float64
}

// DefaultConfig returns the standard indicator parameters.
func DefaultConfig() Config {
	return Config{
		RSIPeriod:        14,
		RSIOversold:      30,
		RSIOverbought:    70,
		MACDFast:         12,
		MACDSlow:         26,
		MACDSignal:       9,
		BBPeriod:         20,
		BBStdDev:         2.0,
		EMAShort:         9,
		EMAMedium:        21,
		EMALong:          50,
		VolumePeriod:     20,
		VolumeMultiplier: DefaultHighVolumeRatio,
	}
}

// Snapshot is the aggregated output of one full indicator pass over a
// candle window.
type Snapshot struct {
	RSI       float64
	MACD      MACDResult
	Bollinger BollingerResult
	Crossover CrossoverResult
	Volume    VolumeResult

	EMAShort  float64
	EMAMedium float64
	EMALong   float64

	BuySignals     float64
	SellSignals    float64
	Recommendation string
}

// Analyze runs every indicator over the window and aggregates them into a
// bounded buy/sell signal count plus an overall recommendation. It returns
// nil when any sub-indicator lacks data; callers must treat nil as "skip
// this time step".
func Analyze(candles []types.Candle, cfg Config) *Snapshot {
	rsi, err := RSI(candles, cfg.RSIPeriod)
	if err != nil {
		return nil
	}
	macd, err := MACD(candles, cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal)
	if err != nil {
		return nil
	}
	bb, err := BollingerBands(candles, cfg.BBPeriod, cfg.BBStdDev)
	if err != nil {
		return nil
	}
	cross, err := Crossover(candles, cfg.EMAShort, cfg.EMALong)
	if err != nil {
		return nil
	}
	vol, err := VolumeAnalysisWithThreshold(candles, cfg.VolumePeriod, cfg.VolumeMultiplier)
	if err != nil {
		return nil
	}
	emaShort, err := EMA(candles, cfg.EMAShort)
	if err != nil {
		return nil
	}
	emaMedium, err := EMA(candles, cfg.EMAMedium)
	if err != nil {
		return nil
	}
	emaLong, err := EMA(candles, cfg.EMALong)
	if err != nil {
		return nil
	}

	snap := &Snapshot{
		RSI:       rsi,
		MACD:      macd,
		Bollinger: bb,
		Crossover: cross,
		Volume:    vol,
		EMAShort:  emaShort,
		EMAMedium: emaMedium,
		EMALong:   emaLong,
	}

	if rsi < cfg.RSIOversold {
		snap.BuySignals += rsiSignalWeight
	} else if rsi > cfg.RSIOverbought {
		snap.SellSignals += rsiSignalWeight
	}

	// MACD counts only when the histogram agrees with the line's own trend.
	if macd.MACD > 0 && macd.Histogram > 0 {
		snap.BuySignals += macdSignalWeight
	} else if macd.MACD < 0 && macd.Histogram < 0 {
		snap.SellSignals += macdSignalWeight
	}

	if bb.Price < bb.Lower {
		snap.BuySignals += bollingerSignalWeight
	} else if bb.Price > bb.Upper {
		snap.SellSignals += bollingerSignalWeight
	}

	switch cross.State {
	case CrossGolden:
		snap.BuySignals += crossoverSignalWeight
	case CrossDead:
		snap.SellSignals += crossoverSignalWeight
	}

	if vol.IsHighVolume {
		snap.BuySignals *= highVolumeScale
		snap.SellSignals *= highVolumeScale
	}

	switch {
	case snap.BuySignals > snap.SellSignals:
		snap.Recommendation = RecommendBuy
	case snap.SellSignals > snap.BuySignals:
		snap.Recommendation = RecommendSell
	default:
		snap.Recommendation = RecommendHold
	}

	return snap
}
