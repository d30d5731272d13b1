package strategy

import (
	"fmt"
	"math"

	"github.com/godekd3133/Coin-Pilot/internal/indicators"
	"github.com/godekd3133/Coin-Pilot/pkg/types"
)

// Technical score contributions per component.
const (
	rsiScoreFactor      = 0.3  // (50 - RSI) * factor, bounded +-15
	macdHistogramCap    = 10.0 // histogram contribution capped at +-10
	bollingerBreachStep = 10.0
	crossoverStep       = 15.0
	highVolumeStep      = 5.0
	signalCountFactor   = 2.0
)

// Engine turns indicator snapshots and a sentiment summary into scored
// trade decisions and owns the lifecycle of at most one open position.
type Engine struct {
	cfg         Config
	position    *Position
	history     []TradeRecord
	positionSeq int
}

// NewEngine validates the configuration and builds a decision engine.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config { return e.cfg }

// Position returns the open position, or nil.
func (e *Engine) Position() *Position { return e.position }

// History returns the append-only trade history.
func (e *Engine) History() []TradeRecord { return e.history }

// MakeDecision scores the indicator snapshot against the sentiment summary
// and returns the resulting action. When a position is open, stop-loss,
// take-profit and trailing-stop checks run independently of the score and
// override it, buy-only mode included.
func (e *Engine) MakeDecision(snap *indicators.Snapshot, sentiment types.SentimentSummary, currentPrice float64) Decision {
	technical := e.technicalScore(snap)
	sentimentScore := e.sentimentScore(sentiment)
	decision := e.decide(technical, sentimentScore)

	if forced, ok := e.CheckExit(currentPrice); ok {
		forced.TechnicalScore = technical
		forced.SentimentScore = sentimentScore
		forced.TotalScore = decision.TotalScore
		return forced
	}
	return decision
}

// technicalScore maps an indicator snapshot onto [0,100], 50 being neutral.
func (e *Engine) technicalScore(snap *indicators.Snapshot) float64 {
	score := 50.0

	score += (50 - snap.RSI) * rsiScoreFactor
	score += clamp(snap.MACD.Histogram, -macdHistogramCap, macdHistogramCap)

	if snap.Bollinger.Price < snap.Bollinger.Lower {
		score += bollingerBreachStep
	} else if snap.Bollinger.Price > snap.Bollinger.Upper {
		score -= bollingerBreachStep
	}

	switch snap.Crossover.State {
	case indicators.CrossGolden:
		score += crossoverStep
	case indicators.CrossDead:
		score -= crossoverStep
	}

	if snap.Volume.IsHighVolume {
		if score > 50 {
			score += highVolumeStep
		} else if score < 50 {
			score -= highVolumeStep
		}
	}

	score += (snap.BuySignals - snap.SellSignals) * signalCountFactor

	return clamp(score, 0, 100)
}

// sentimentScore maps a sentiment summary onto [0,100], 50 being neutral.
func (e *Engine) sentimentScore(s types.SentimentSummary) float64 {
	score := 50.0
	score += s.AvgScore * 5
	score += (s.PositiveRatio - s.NegativeRatio) * 20

	switch s.Overall {
	case types.SentimentVeryPositive:
		score += 15
	case types.SentimentPositive:
		score += 8
	case types.SentimentNegative:
		score -= 8
	case types.SentimentVeryNegative:
		score -= 15
	}

	return clamp(score, 0, 100)
}

// decide combines the component scores into an action, confidence and tier.
func (e *Engine) decide(technical, sentiment float64) Decision {
	total := technical*e.cfg.TechnicalWeight + sentiment*e.cfg.SentimentWeight
	sellLine := 100 - e.cfg.SellScoreThreshold

	d := Decision{
		Action:         ActionHold,
		Strength:       StrengthNone,
		TechnicalScore: technical,
		SentimentScore: sentiment,
		TotalScore:     total,
	}

	switch {
	case total >= e.cfg.BuyScoreThreshold:
		distance := total - e.cfg.BuyScoreThreshold
		d.Action = ActionBuy
		d.Reason = fmt.Sprintf("total score %.1f above buy threshold %.1f", total, e.cfg.BuyScoreThreshold)
		d.Confidence = normalize(distance, 100-e.cfg.BuyScoreThreshold)
		d.Strength = strengthFromDistance(distance)
	case total <= sellLine:
		distance := sellLine - total
		if e.cfg.BuyOnly {
			d.Reason = "sell signal suppressed (buy-only mode)"
			break
		}
		d.Action = ActionSell
		d.Reason = fmt.Sprintf("total score %.1f below sell threshold %.1f", total, sellLine)
		d.Confidence = normalize(distance, sellLine)
		d.Strength = strengthFromDistance(distance)
	default:
		d.Reason = fmt.Sprintf("total score %.1f between thresholds", total)
	}

	return d
}

// CheckExit evaluates stop-loss, take-profit and trailing-stop for the
// open position against the current price. A triggered exit forces a SELL
// with full confidence regardless of buy-only mode. The backtester calls
// this before scoring so an exit and a fresh entry can happen on the same
// candle.
func (e *Engine) CheckExit(currentPrice float64) (Decision, bool) {
	pos := e.position
	if pos == nil || currentPrice <= 0 {
		return Decision{}, false
	}

	if currentPrice > pos.HighWater {
		pos.HighWater = currentPrice
	}

	pnlPercent := (currentPrice - pos.EntryPrice) / pos.EntryPrice * 100

	switch {
	case e.cfg.StopLossPercent > 0 && pnlPercent <= -e.cfg.StopLossPercent:
		return forcedSell(fmt.Sprintf("stop loss triggered at %.2f%%", pnlPercent)), true
	case e.cfg.TakeProfitPercent > 0 && pnlPercent >= e.cfg.TakeProfitPercent:
		return forcedSell(fmt.Sprintf("take profit triggered at %.2f%%", pnlPercent)), true
	case e.cfg.TrailingStopPercent > 0 && currentPrice <= pos.HighWater*(1-e.cfg.TrailingStopPercent/100):
		drop := (pos.HighWater - currentPrice) / pos.HighWater * 100
		return forcedSell(fmt.Sprintf("trailing stop triggered %.2f%% below high water", drop)), true
	}

	return Decision{}, false
}

func forcedSell(reason string) Decision {
	return Decision{
		Action:     ActionSell,
		Reason:     reason,
		Confidence: 1.0,
		Strength:   StrengthVeryStrong,
	}
}

func normalize(distance, span float64) float64 {
	if span <= 0 {
		return 1
	}
	return clamp(distance/span, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
