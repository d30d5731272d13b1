package backtest

import (
	"math"

	"github.com/godekd3133/Coin-Pilot/internal/strategy"
)

// annualizationFactor converts per-step Sharpe to an annual figure,
// assuming daily steps.
var annualizationFactor = math.Sqrt(365)

// UpdateMetrics fills every derived statistic from the trade log and the
// equity curve. An empty trade list yields zero-filled statistics, not
// errors.
func (r *Result) UpdateMetrics() {
	r.TotalReturn = r.FinalBalance - r.InitialBalance
	if r.InitialBalance > 0 {
		r.TotalReturnPercent = r.TotalReturn / r.InitialBalance * 100
	}

	r.updateTradeStats()
	r.MaxDrawdown = r.CalculateMaxDrawdown()
	r.SharpeRatio = r.CalculateSharpeRatio()
	r.ProfitFactor = r.CalculateProfitFactor()
}

// updateTradeStats aggregates CLOSE and PARTIAL_CLOSE records; OPEN entries
// are not trades.
func (r *Result) updateTradeStats() {
	var totalProfit, totalWin, totalLoss float64

	for i := range r.Trades {
		trade := &r.Trades[i]
		if trade.Action == strategy.TradeOpen {
			continue
		}

		r.TotalTrades++
		totalProfit += trade.NetProfit

		if trade.NetProfit > 0 {
			r.WinningTrades++
			totalWin += trade.NetProfit
		} else {
			r.LosingTrades++
			totalLoss += trade.NetProfit
		}

		if r.BestTrade == nil || trade.NetProfit > r.BestTrade.NetProfit {
			r.BestTrade = trade
		}
		if r.WorstTrade == nil || trade.NetProfit < r.WorstTrade.NetProfit {
			r.WorstTrade = trade
		}
	}

	if r.TotalTrades == 0 {
		return
	}

	r.WinRate = float64(r.WinningTrades) / float64(r.TotalTrades) * 100
	r.AvgProfit = totalProfit / float64(r.TotalTrades)
	if r.WinningTrades > 0 {
		r.AvgWin = totalWin / float64(r.WinningTrades)
	}
	if r.LosingTrades > 0 {
		r.AvgLoss = totalLoss / float64(r.LosingTrades)
	}
}

// CalculateMaxDrawdown returns the worst peak-to-trough decline of the
// equity curve as a percentage in [0,100]. A monotonically non-decreasing
// curve yields 0.
func (r *Result) CalculateMaxDrawdown() float64 {
	if len(r.EquityCurve) == 0 {
		return 0
	}

	peak := r.EquityCurve[0].Equity
	maxDrawdown := 0.0
	for _, point := range r.EquityCurve {
		if point.Equity > peak {
			peak = point.Equity
		}
		if peak > 0 {
			drawdown := (peak - point.Equity) / peak * 100
			if drawdown > maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}
	return maxDrawdown
}

// CalculateSharpeRatio annualizes the mean/stddev of per-step equity
// returns with a risk-free rate of zero. Fewer than two samples or zero
// variance yields 0.
func (r *Result) CalculateSharpeRatio() float64 {
	if len(r.EquityCurve) < 2 {
		return 0
	}

	returns := make([]float64, 0, len(r.EquityCurve)-1)
	for i := 1; i < len(r.EquityCurve); i++ {
		prev := r.EquityCurve[i-1].Equity
		if prev > 0 {
			returns = append(returns, (r.EquityCurve[i].Equity-prev)/prev)
		}
	}
	if len(returns) < 2 {
		return 0
	}

	mean := 0.0
	for _, ret := range returns {
		mean += ret
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, ret := range returns {
		diff := ret - mean
		variance += diff * diff
	}
	variance /= float64(len(returns))

	stdDev := math.Sqrt(variance)
	if stdDev < 1e-12 {
		return 0
	}
	return mean / stdDev * annualizationFactor
}

// CalculateProfitFactor returns gross wins over gross losses. No losses
// with positive wins yields +Inf; neither yields 0.
func (r *Result) CalculateProfitFactor() float64 {
	var totalWin, totalLoss float64
	for _, trade := range r.Trades {
		if trade.Action == strategy.TradeOpen {
			continue
		}
		if trade.NetProfit > 0 {
			totalWin += trade.NetProfit
		} else {
			totalLoss += math.Abs(trade.NetProfit)
		}
	}

	if totalLoss == 0 {
		if totalWin > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return totalWin / totalLoss
}
