package backtest

import (
	"fmt"
	"math"
	"time"

	"github.com/godekd3133/Coin-Pilot/internal/indicators"
	"github.com/godekd3133/Coin-Pilot/internal/strategy"
	"github.com/godekd3133/Coin-Pilot/pkg/types"
)

const (
	// MinLookback is the minimum history required before the first signal
	// can be evaluated.
	MinLookback = 200

	DefaultInitialBalance  = 10000.0
	DefaultFeeRate         = 0.0005
	DefaultSlippageRate    = 0.001
	DefaultInvestmentRatio = 0.10
	DefaultMinNotional     = 10.0

	// maxBalanceFraction caps any single entry at 95% of the balance.
	maxBalanceFraction = 0.95
)

// Config holds the simulator's balance, cost and sizing assumptions.
type Config struct {
	InitialBalance float64
	FeeRate        float64
	SlippageRate   float64

	// Sizing policy: FixedAmount > 0 invests that notional per entry,
	// otherwise InvestmentRatio of the current balance is used. Both
	// policies are kept explicit; they behave differently as the balance
	// moves.
	FixedAmount     float64
	InvestmentRatio float64

	MinNotional float64
	Lookback    int

	Indicators indicators.Config
	Strategy   strategy.Config
}

// DefaultConfig returns a simulator configuration with ratio sizing.
func DefaultConfig() Config {
	return Config{
		InitialBalance:  DefaultInitialBalance,
		FeeRate:         DefaultFeeRate,
		SlippageRate:    DefaultSlippageRate,
		InvestmentRatio: DefaultInvestmentRatio,
		MinNotional:     DefaultMinNotional,
		Lookback:        MinLookback,
		Indicators:      indicators.DefaultConfig(),
		Strategy:        strategy.DefaultConfig(),
	}
}

// Validate checks the configuration once at construction.
func (c Config) Validate() error {
	if c.InitialBalance <= 0 {
		return fmt.Errorf("backtest config: initial balance %.2f must be positive", c.InitialBalance)
	}
	if c.FeeRate < 0 || c.FeeRate >= 1 {
		return fmt.Errorf("backtest config: fee rate %.4f out of [0,1)", c.FeeRate)
	}
	if c.SlippageRate < 0 || c.SlippageRate >= 1 {
		return fmt.Errorf("backtest config: slippage rate %.4f out of [0,1)", c.SlippageRate)
	}
	if c.FixedAmount < 0 {
		return fmt.Errorf("backtest config: fixed amount %.2f must be non-negative", c.FixedAmount)
	}
	if c.FixedAmount == 0 && (c.InvestmentRatio <= 0 || c.InvestmentRatio > 1) {
		return fmt.Errorf("backtest config: investment ratio %.2f out of (0,1]", c.InvestmentRatio)
	}
	return c.Strategy.Validate()
}

// EquityPoint is one mark-to-market sample of the equity curve.
type EquityPoint struct {
	Timestamp time.Time
	Equity    float64
}

// Result aggregates one backtest run.
type Result struct {
	InitialBalance     float64
	FinalBalance       float64
	TotalReturn        float64
	TotalReturnPercent float64

	TotalTrades   int
	WinningTrades int
	LosingTrades  int
	WinRate       float64

	AvgProfit float64
	AvgWin    float64
	AvgLoss   float64

	MaxDrawdown  float64 // percent, 0..100
	SharpeRatio  float64
	ProfitFactor float64

	BestTrade  *strategy.TradeRecord
	WorstTrade *strategy.TradeRecord

	Trades      []strategy.TradeRecord
	EquityCurve []EquityPoint
}

// Engine replays historical candles through a fresh decision engine under
// fee and slippage assumptions. It is stateless across runs.
type Engine struct {
	cfg Config
}

// NewEngine validates the configuration and builds a simulator. A lookback
// below MinLookback is raised to it.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Lookback < MinLookback {
		cfg.Lookback = MinLookback
	}
	// The decision engine must price fees the same way the simulator does.
	cfg.Strategy.FeeRate = cfg.FeeRate
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Run replays the candle series (oldest-first) and returns the aggregated
// result. No historical sentiment exists, so every step is scored against
// a neutral sentiment summary.
func (e *Engine) Run(candles []types.Candle) (*Result, error) {
	cfg := e.cfg
	if len(candles) <= cfg.Lookback {
		return nil, fmt.Errorf("backtest: need more than %d candles, got %d", cfg.Lookback, len(candles))
	}

	engine, err := strategy.NewEngine(cfg.Strategy)
	if err != nil {
		return nil, err
	}

	sentiment := types.NeutralSentiment()
	balance := cfg.InitialBalance
	equityCurve := make([]EquityPoint, 0, len(candles)-cfg.Lookback)

	for i := cfg.Lookback; i < len(candles); i++ {
		window := candles[i-cfg.Lookback : i+1]
		price := candles[i].Close
		ts := candles[i].Timestamp

		snap := indicators.Analyze(window, cfg.Indicators)
		if snap == nil {
			continue
		}

		// Risk exits run before the fresh signal on the same candle.
		if exit, ok := engine.CheckExit(price); ok {
			balance += e.closePosition(engine, price, exit.Reason, ts)
		}

		decision := engine.MakeDecision(snap, sentiment, price)

		switch decision.Action {
		case strategy.ActionBuy:
			if engine.Position() == nil && balance > 0 {
				balance -= e.openPosition(engine, balance, price, ts)
			}
		case strategy.ActionSell:
			if engine.Position() != nil {
				balance += e.closePosition(engine, price, decision.Reason, ts)
			}
		}

		equity := balance
		if pos := engine.Position(); pos != nil {
			equity += pos.Amount * price
		}
		equityCurve = append(equityCurve, EquityPoint{Timestamp: ts, Equity: equity})
	}

	// Any leftover position is liquidated at the final price.
	if engine.Position() != nil {
		last := candles[len(candles)-1]
		balance += e.forceClose(engine, last.Close, last.Timestamp)
		equityCurve = append(equityCurve, EquityPoint{Timestamp: last.Timestamp, Equity: balance})
	}

	result := &Result{
		InitialBalance: cfg.InitialBalance,
		FinalBalance:   balance,
		Trades:         engine.History(),
		EquityCurve:    equityCurve,
	}
	result.UpdateMetrics()
	return result, nil
}

// openPosition sizes and opens an entry, returning the notional deducted
// from the balance (zero when the entry is skipped).
func (e *Engine) openPosition(engine *strategy.Engine, balance, price float64, ts time.Time) float64 {
	cfg := e.cfg

	notional := cfg.FixedAmount
	if notional <= 0 {
		notional = balance * cfg.InvestmentRatio
	}
	if limit := cfg.Strategy.MaxPositionSize; limit > 0 {
		notional = math.Min(notional, limit)
	}
	notional = math.Min(notional, balance*maxBalanceFraction)
	if notional < cfg.MinNotional {
		return 0
	}

	// Slippage shifts the fill adversely; the entry fee comes out of the
	// invested notional.
	fill := price * (1 + cfg.SlippageRate)
	invested := notional - notional*cfg.FeeRate
	amount := invested / fill

	if _, err := engine.OpenPosition(fill, amount, ts); err != nil {
		return 0
	}
	return notional
}

// closePosition liquidates the full open position at the slippage-adjusted
// price and returns the proceeds credited to the balance.
func (e *Engine) closePosition(engine *strategy.Engine, price float64, reason string, ts time.Time) float64 {
	fill := price * (1 - e.cfg.SlippageRate)
	record, err := engine.ClosePosition(fill, reason, ts)
	if err != nil {
		return 0
	}
	proceeds := fill * record.Amount
	return proceeds - proceeds*e.cfg.FeeRate
}

// forceClose liquidates at the raw last price when the data runs out.
func (e *Engine) forceClose(engine *strategy.Engine, price float64, ts time.Time) float64 {
	record, err := engine.ClosePosition(price, "end of backtest", ts)
	if err != nil {
		return 0
	}
	proceeds := price * record.Amount
	return proceeds - proceeds*e.cfg.FeeRate
}
