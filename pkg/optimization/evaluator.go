package optimization

import (
	"github.com/godekd3133/Coin-Pilot/internal/backtest"
	"github.com/godekd3133/Coin-Pilot/pkg/types"
)

// Weights forced during optimization: without historical sentiment every
// run would score sentiment as a constant, so the search weighs the
// technical side heavily. The technical_weight gene still travels with the
// vector for live use.
const (
	optimizeTechnicalWeight = 0.9
	optimizeSentimentWeight = 0.1
)

// Evaluator turns a parameter vector into a backtest result.
type Evaluator interface {
	Evaluate(params map[string]float64) (*backtest.Result, error)
}

// BacktestEvaluator runs the backtest simulator over a fixed candle series
// as the GA's fitness function.
type BacktestEvaluator struct {
	Base    backtest.Config
	Candles []types.Candle
}

// NewBacktestEvaluator builds an evaluator over the given candle series.
func NewBacktestEvaluator(base backtest.Config, candles []types.Candle) *BacktestEvaluator {
	return &BacktestEvaluator{Base: base, Candles: candles}
}

// Evaluate applies the parameter vector to the base configuration and runs
// one full backtest. Each call builds an isolated engine, so evaluations
// may run concurrently.
func (e *BacktestEvaluator) Evaluate(params map[string]float64) (*backtest.Result, error) {
	cfg := e.Base
	ApplyParams(&cfg, params)
	cfg.Strategy.TechnicalWeight = optimizeTechnicalWeight
	cfg.Strategy.SentimentWeight = optimizeSentimentWeight

	engine, err := backtest.NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	return engine.Run(e.Candles)
}

// ApplyParams maps a complete parameter vector onto the backtest
// configuration. The score weights come from the technical_weight gene;
// during optimization the evaluator overrides them afterwards.
func ApplyParams(cfg *backtest.Config, params map[string]float64) {
	cfg.Indicators.RSIPeriod = int(params["rsi_period"])
	cfg.Indicators.RSIOversold = params["rsi_oversold"]
	cfg.Indicators.RSIOverbought = params["rsi_overbought"]
	cfg.Indicators.MACDFast = int(params["macd_fast"])
	cfg.Indicators.MACDSlow = int(params["macd_slow"])
	cfg.Indicators.MACDSignal = int(params["macd_signal"])
	cfg.Indicators.BBPeriod = int(params["bb_period"])
	cfg.Indicators.BBStdDev = params["bb_std_dev"]
	cfg.Indicators.EMAShort = int(params["ema_short"])
	cfg.Indicators.EMAMedium = int(params["ema_medium"])
	cfg.Indicators.EMALong = int(params["ema_long"])
	cfg.Indicators.VolumeMultiplier = params["volume_multiplier"]
	cfg.Indicators.VolumePeriod = int(params["volume_period"])

	cfg.Strategy.StopLossPercent = params["stop_loss_percent"]
	cfg.Strategy.TakeProfitPercent = params["take_profit_percent"]
	cfg.Strategy.TrailingStopPercent = params["trailing_stop_percent"]
	cfg.Strategy.BuyScoreThreshold = params["buy_score_threshold"]
	cfg.Strategy.SellScoreThreshold = params["sell_score_threshold"]

	cfg.Strategy.TechnicalWeight = params["technical_weight"]
	cfg.Strategy.SentimentWeight = 1 - params["technical_weight"]
}

// shapeFitness converts a backtest result into a fitness score. The base
// is the total-return percentage, shaped by risk penalties and bonuses.
func shapeFitness(result *backtest.Result) float64 {
	fitness := result.TotalReturnPercent

	if result.MaxDrawdown > 30 {
		fitness *= 0.5
	} else if result.MaxDrawdown > 20 {
		fitness *= 0.7
	}
	if result.SharpeRatio > 1 {
		fitness *= 1.2
	}
	if result.WinRate > 60 {
		fitness *= 1.1
	}
	// Near-inactive strategies must not dominate on a single lucky trade.
	if result.TotalTrades < 5 {
		fitness *= 0.5
	}

	return fitness
}
