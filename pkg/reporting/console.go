package reporting

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/godekd3133/Coin-Pilot/internal/backtest"
	"github.com/godekd3133/Coin-Pilot/pkg/optimization"
)

// ConsoleReporter renders results as terminal tables.
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter writes to stdout.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{out: os.Stdout}
}

// NewConsoleReporterTo writes to the given writer.
func NewConsoleReporterTo(out io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: out}
}

// PrintSummary renders the headline backtest numbers.
func (r *ConsoleReporter) PrintSummary(result *backtest.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("BACKTEST RESULTS")
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"💰 Initial Balance", fmt.Sprintf("$%.2f", result.InitialBalance)},
		{"💰 Final Balance", fmt.Sprintf("$%.2f", result.FinalBalance)},
		{"📈 Total Return", fmt.Sprintf("%.2f%%", result.TotalReturnPercent)},
	})

	t.AppendSeparator()

	t.AppendRows([]table.Row{
		{"🔄 Total Trades", fmt.Sprintf("%d", result.TotalTrades)},
		{"✅ Winning Trades", fmt.Sprintf("%d (%.1f%%)", result.WinningTrades, result.WinRate)},
		{"❌ Losing Trades", fmt.Sprintf("%d", result.LosingTrades)},
		{"💹 Profit Factor", formatProfitFactor(result.ProfitFactor)},
	})

	t.AppendSeparator()

	t.AppendRows([]table.Row{
		{"📉 Max Drawdown", fmt.Sprintf("%.2f%%", result.MaxDrawdown)},
		{"📊 Sharpe Ratio", fmt.Sprintf("%.2f", result.SharpeRatio)},
		{"📊 Avg Profit", fmt.Sprintf("$%.2f", result.AvgProfit)},
	})

	if result.BestTrade != nil {
		t.AppendSeparator()
		t.AppendRows([]table.Row{
			{"🏆 Best Trade", fmt.Sprintf("$%.2f (%s)", result.BestTrade.NetProfit, result.BestTrade.Reason)},
			{"💀 Worst Trade", fmt.Sprintf("$%.2f (%s)", result.WorstTrade.NetProfit, result.WorstTrade.Reason)},
		})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 18, WidthMax: 18, Align: text.AlignLeft},
		{Number: 2, WidthMin: 25, WidthMax: 45, Align: text.AlignLeft},
	})

	t.Render()
	fmt.Fprintln(r.out)
}

// PrintTrades renders the trade log, newest last. A limit of 0 prints
// everything.
func (r *ConsoleReporter) PrintTrades(result *backtest.Result, limit int) {
	trades := result.Trades
	if limit > 0 && len(trades) > limit {
		trades = trades[len(trades)-limit:]
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("TRADES")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Time", "Position", "Action", "Entry", "Exit", "Amount", "Net P/L", "Reason"})

	for _, trade := range trades {
		t.AppendRow(table.Row{
			trade.ExitTime.Format("2006-01-02 15:04"),
			trade.PositionID,
			trade.Action,
			fmt.Sprintf("%.4f", trade.EntryPrice),
			fmt.Sprintf("%.4f", trade.ExitPrice),
			fmt.Sprintf("%.6f", trade.Amount),
			fmt.Sprintf("$%.2f", trade.NetProfit),
			trade.Reason,
		})
	}

	t.Render()
	fmt.Fprintln(r.out)
}

// PrintOptimization renders the winning parameter vector in the domain's
// canonical order.
func (r *ConsoleReporter) PrintOptimization(best *optimization.Best, elapsed time.Duration) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("OPTIMIZATION RESULT")
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"🏆 Best Fitness", fmt.Sprintf("%.4f", best.Fitness)},
		{"🧬 Found In Generation", fmt.Sprintf("%d", best.Generation)},
		{"⏱️ Elapsed", elapsed.Round(time.Second).String()},
	})

	t.AppendSeparator()

	for _, name := range optimization.ParameterNames {
		t.AppendRow(table.Row{name, fmt.Sprintf("%g", best.Parameters[name])})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 22, WidthMax: 22, Align: text.AlignLeft},
		{Number: 2, WidthMin: 15, WidthMax: 30, Align: text.AlignLeft},
	})

	t.Render()
	fmt.Fprintln(r.out)
}

func formatProfitFactor(pf float64) string {
	if pf > 1e12 {
		return "∞ (no losses)"
	}
	return fmt.Sprintf("%.2f", pf)
}
