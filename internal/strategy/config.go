package strategy

import "fmt"

// Default configuration values.
const (
	DefaultTechnicalWeight     = 0.7
	DefaultSentimentWeight     = 0.3
	DefaultBuyScoreThreshold   = 60.0
	DefaultSellScoreThreshold  = 60.0
	DefaultStopLossPercent     = 5.0
	DefaultTakeProfitPercent   = 10.0
	DefaultTrailingStopPercent = 0.0 // disabled
	DefaultFeeRate             = 0.0005
	DefaultMaxPositionSize     = 0.0 // unlimited
)

// Config holds the decision engine's weights, thresholds and risk limits.
// All percentage fields are expressed in percent (5.0 means 5%), the fee
// rate as a fraction per side (0.0005 means 0.05%).
type Config struct {
	TechnicalWeight float64
	SentimentWeight float64

	BuyScoreThreshold  float64
	SellScoreThreshold float64

	StopLossPercent     float64
	TakeProfitPercent   float64
	TrailingStopPercent float64 // 0 disables the trailing stop

	// BuyOnly suppresses score-triggered sells. Stop-loss, take-profit and
	// trailing-stop exits still fire in buy-only mode.
	BuyOnly bool

	FeeRate         float64
	MaxPositionSize float64
}

// DefaultConfig returns the standard engine configuration. Unset optional
// fields in a caller-supplied Config should be filled from here rather than
// treated as errors.
func DefaultConfig() Config {
	return Config{
		TechnicalWeight:     DefaultTechnicalWeight,
		SentimentWeight:     DefaultSentimentWeight,
		BuyScoreThreshold:   DefaultBuyScoreThreshold,
		SellScoreThreshold:  DefaultSellScoreThreshold,
		StopLossPercent:     DefaultStopLossPercent,
		TakeProfitPercent:   DefaultTakeProfitPercent,
		TrailingStopPercent: DefaultTrailingStopPercent,
		BuyOnly:             false,
		FeeRate:             DefaultFeeRate,
		MaxPositionSize:     DefaultMaxPositionSize,
	}
}

// Validate checks the configuration once at construction.
func (c Config) Validate() error {
	if c.TechnicalWeight < 0 || c.SentimentWeight < 0 {
		return fmt.Errorf("strategy config: weights must be non-negative (technical=%.2f sentiment=%.2f)", c.TechnicalWeight, c.SentimentWeight)
	}
	if c.TechnicalWeight+c.SentimentWeight == 0 {
		return fmt.Errorf("strategy config: at least one weight must be positive")
	}
	if c.BuyScoreThreshold < 0 || c.BuyScoreThreshold > 100 {
		return fmt.Errorf("strategy config: buy threshold %.2f out of [0,100]", c.BuyScoreThreshold)
	}
	if c.SellScoreThreshold < 0 || c.SellScoreThreshold > 100 {
		return fmt.Errorf("strategy config: sell threshold %.2f out of [0,100]", c.SellScoreThreshold)
	}
	if c.StopLossPercent < 0 || c.TakeProfitPercent < 0 || c.TrailingStopPercent < 0 {
		return fmt.Errorf("strategy config: risk percentages must be non-negative")
	}
	if c.FeeRate < 0 || c.FeeRate >= 1 {
		return fmt.Errorf("strategy config: fee rate %.4f out of [0,1)", c.FeeRate)
	}
	return nil
}
