package main

import "flag"

// BacktestFlags holds all command line flags for the backtest command.
type BacktestFlags struct {
	// Data input
	DataFile   *string
	TimeFormat *string
	Period     *string

	// Account settings
	InitialBalance *float64
	FeeRate        *float64
	SlippageRate   *float64

	// Position sizing
	FixedAmount     *float64
	InvestmentRatio *float64

	// Strategy parameters
	ParamsFile    *string
	BuyThreshold  *float64
	SellThreshold *float64
	StopLoss      *float64
	TakeProfit    *float64
	TrailingStop  *float64
	BuyOnly       *bool

	// Output options
	OutputDir   *string
	ConsoleOnly *bool
	TradeLimit  *int
	EnvFile     *string

	ShowVersion *bool
}

// NewBacktestFlags registers all flags and returns the container.
func NewBacktestFlags() *BacktestFlags {
	return &BacktestFlags{
		DataFile:   flag.String("data", "", "Path to historical candle CSV file (required)"),
		TimeFormat: flag.String("time-format", "datetime", "CSV timestamp format: datetime or unixms"),
		Period:     flag.String("period", "", "Trailing period to test, e.g. 30d, 180d, 365d"),

		InitialBalance: flag.Float64("balance", 10000, "Initial balance in quote currency"),
		FeeRate:        flag.Float64("fee", 0.0005, "Taker fee rate per side"),
		SlippageRate:   flag.Float64("slippage", 0.001, "Slippage rate applied to fills"),

		FixedAmount:     flag.Float64("fixed-amount", 0, "Fixed notional per entry (0 = ratio sizing)"),
		InvestmentRatio: flag.Float64("ratio", 0.10, "Fraction of balance invested per entry"),

		ParamsFile:    flag.String("params", "", "JSON parameter file from a previous optimization"),
		BuyThreshold:  flag.Float64("buy-threshold", 60, "Minimum total score to open a position"),
		SellThreshold: flag.Float64("sell-threshold", 60, "Sell score threshold"),
		StopLoss:      flag.Float64("stop-loss", 5, "Stop loss percent below entry (0 = off)"),
		TakeProfit:    flag.Float64("take-profit", 10, "Take profit percent above entry (0 = off)"),
		TrailingStop:  flag.Float64("trailing-stop", 0, "Trailing stop percent below high water (0 = off)"),
		BuyOnly:       flag.Bool("buy-only", false, "Suppress indicator-driven sells; exits via SL/TP only"),

		OutputDir:   flag.String("output", "results", "Directory for generated reports"),
		ConsoleOnly: flag.Bool("console-only", false, "Skip Excel report, console output only"),
		TradeLimit:  flag.Int("trade-limit", 20, "Trades shown in the console log (0 = all)"),
		EnvFile:     flag.String("env", ".env", "Environment file to load"),

		ShowVersion: flag.Bool("version", false, "Print version and exit"),
	}
}
