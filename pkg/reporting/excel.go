package reporting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/godekd3133/Coin-Pilot/internal/backtest"
)

// ExcelReporter writes full backtest results to a workbook.
type ExcelReporter struct{}

// NewExcelReporter creates an Excel reporter.
func NewExcelReporter() *ExcelReporter {
	return &ExcelReporter{}
}

// excelStyles holds the style IDs shared across sheets.
type excelStyles struct {
	Header   int
	Currency int
	Percent  int
	Positive int
	Negative int
}

const (
	summarySheet = "Summary"
	tradesSheet  = "Trades"
	equitySheet  = "Equity Curve"
)

// WriteResultXLSX writes Summary, Trades and Equity Curve sheets for one
// backtest run. Parent directories are created as needed.
func (r *ExcelReporter) WriteResultXLSX(result *backtest.Result, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("reporting: create %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	fx.SetSheetName(fx.GetSheetName(0), summarySheet)
	if _, err := fx.NewSheet(tradesSheet); err != nil {
		return err
	}
	if _, err := fx.NewSheet(equitySheet); err != nil {
		return err
	}

	styles, err := r.createStyles(fx)
	if err != nil {
		return err
	}

	if err := r.writeSummarySheet(fx, result, styles); err != nil {
		return err
	}
	if err := r.writeTradesSheet(fx, result, styles); err != nil {
		return err
	}
	if err := r.writeEquitySheet(fx, result, styles); err != nil {
		return err
	}

	return fx.SaveAs(path)
}

func (r *ExcelReporter) createStyles(fx *excelize.File) (excelStyles, error) {
	var styles excelStyles
	var err error

	styles.Header, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2F4F4F"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return styles, err
	}

	styles.Currency, err = fx.NewStyle(&excelize.Style{
		NumFmt:    7,
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return styles, err
	}

	styles.Percent, err = fx.NewStyle(&excelize.Style{
		NumFmt:    10,
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return styles, err
	}

	styles.Positive, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "006100"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C6EFCE"}, Pattern: 1},
	})
	if err != nil {
		return styles, err
	}

	styles.Negative, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "9C0006"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFC7CE"}, Pattern: 1},
	})
	return styles, err
}

func (r *ExcelReporter) writeSummarySheet(fx *excelize.File, result *backtest.Result, styles excelStyles) error {
	// A run without losing trades has an unbounded profit factor, which
	// excelize cannot encode as a number.
	var profitFactor interface{} = result.ProfitFactor
	if result.ProfitFactor > 1e12 {
		profitFactor = formatProfitFactor(result.ProfitFactor)
	}

	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Initial Balance", result.InitialBalance},
		{"Final Balance", result.FinalBalance},
		{"Total Return", result.TotalReturn},
		{"Total Return %", result.TotalReturnPercent / 100},
		{"Total Trades", result.TotalTrades},
		{"Winning Trades", result.WinningTrades},
		{"Losing Trades", result.LosingTrades},
		{"Win Rate", result.WinRate / 100},
		{"Avg Profit", result.AvgProfit},
		{"Avg Win", result.AvgWin},
		{"Avg Loss", result.AvgLoss},
		{"Max Drawdown", result.MaxDrawdown / 100},
		{"Sharpe Ratio", result.SharpeRatio},
		{"Profit Factor", profitFactor},
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := fx.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}

	if err := fx.SetRowStyle(summarySheet, 1, 1, styles.Header); err != nil {
		return err
	}
	for _, cell := range []string{"B2", "B3", "B4", "B10", "B11", "B12"} {
		if err := fx.SetCellStyle(summarySheet, cell, cell, styles.Currency); err != nil {
			return err
		}
	}
	for _, cell := range []string{"B5", "B9", "B13"} {
		if err := fx.SetCellStyle(summarySheet, cell, cell, styles.Percent); err != nil {
			return err
		}
	}
	return fx.SetColWidth(summarySheet, "A", "B", 20)
}

func (r *ExcelReporter) writeTradesSheet(fx *excelize.File, result *backtest.Result, styles excelStyles) error {
	header := []interface{}{"#", "Action", "Position", "Entry Time", "Exit Time",
		"Entry Price", "Exit Price", "Amount", "Gross P/L", "Fee", "Net P/L", "Net P/L %", "Reason"}
	if err := fx.SetSheetRow(tradesSheet, "A1", &header); err != nil {
		return err
	}

	for i, trade := range result.Trades {
		rowNum := i + 2
		row := []interface{}{
			i + 1,
			fmt.Sprintf("%v", trade.Action),
			trade.PositionID,
			trade.EntryTime.Format("2006-01-02 15:04:05"),
			trade.ExitTime.Format("2006-01-02 15:04:05"),
			trade.EntryPrice,
			trade.ExitPrice,
			trade.Amount,
			trade.GrossProfit,
			trade.Fee,
			trade.NetProfit,
			trade.NetProfitPercent / 100,
		}
		row = append(row, trade.Reason)
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		if err := fx.SetSheetRow(tradesSheet, cell, &row); err != nil {
			return err
		}

		plStyle := styles.Positive
		if trade.NetProfit < 0 {
			plStyle = styles.Negative
		}
		plCell, err := excelize.CoordinatesToCellName(11, rowNum)
		if err != nil {
			return err
		}
		if err := fx.SetCellStyle(tradesSheet, plCell, plCell, plStyle); err != nil {
			return err
		}
	}

	if err := fx.SetRowStyle(tradesSheet, 1, 1, styles.Header); err != nil {
		return err
	}
	return fx.SetColWidth(tradesSheet, "A", "M", 16)
}

func (r *ExcelReporter) writeEquitySheet(fx *excelize.File, result *backtest.Result, styles excelStyles) error {
	header := []interface{}{"Timestamp", "Equity"}
	if err := fx.SetSheetRow(equitySheet, "A1", &header); err != nil {
		return err
	}

	for i, point := range result.EquityCurve {
		row := []interface{}{
			point.Timestamp.Format("2006-01-02 15:04:05"),
			point.Equity,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := fx.SetSheetRow(equitySheet, cell, &row); err != nil {
			return err
		}
	}

	if err := fx.SetRowStyle(equitySheet, 1, 1, styles.Header); err != nil {
		return err
	}
	return fx.SetColWidth(equitySheet, "A", "B", 22)
}

// WriteResultXLSX is a package-level convenience wrapper.
func WriteResultXLSX(result *backtest.Result, path string) error {
	return NewExcelReporter().WriteResultXLSX(result, path)
}
