package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/godekd3133/Coin-Pilot/internal/backtest"
	"github.com/godekd3133/Coin-Pilot/internal/monitoring"
	datamanager "github.com/godekd3133/Coin-Pilot/pkg/data"
	"github.com/godekd3133/Coin-Pilot/pkg/optimization"
	"github.com/godekd3133/Coin-Pilot/pkg/reporting"
	"github.com/godekd3133/Coin-Pilot/pkg/types"
)

const (
	AppName    = "Coin-Pilot Backtest"
	AppVersion = "1.0.0"
)

func main() {
	flags := NewBacktestFlags()
	flag.Parse()

	if *flags.ShowVersion {
		fmt.Printf("%s v%s\n", AppName, AppVersion)
		return
	}

	printHeader()
	loadEnvironment(*flags.EnvFile)

	if *flags.DataFile == "" {
		log.Fatalf("❌ -data is required (path to candle CSV)")
	}

	cfg, err := buildConfig(flags)
	if err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}

	candles, err := loadCandles(*flags.DataFile, *flags.TimeFormat, *flags.Period)
	if err != nil {
		log.Fatalf("❌ Data error: %v", err)
	}

	printRunSummary(cfg, *flags.DataFile, len(candles))

	engine, err := backtest.NewEngine(cfg)
	if err != nil {
		log.Fatalf("❌ Engine error: %v", err)
	}

	started := time.Now()
	result, err := engine.Run(candles)
	elapsed := time.Since(started)
	monitoring.RecordBacktest(elapsed.Seconds(), err != nil)
	if err != nil {
		log.Fatalf("❌ Backtest failed: %v", err)
	}
	for _, trade := range result.Trades {
		monitoring.RecordTrades(string(trade.Action), 1)
	}

	fmt.Printf("✅ Backtest finished in %s (%d candles)\n\n", elapsed.Round(time.Millisecond), len(candles))

	reporter := reporting.NewConsoleReporter()
	reporter.PrintSummary(result)
	reporter.PrintTrades(result, *flags.TradeLimit)

	if !*flags.ConsoleOnly {
		path := filepath.Join(*flags.OutputDir, "backtest_result.xlsx")
		if err := reporting.WriteResultXLSX(result, path); err != nil {
			log.Printf("⚠️  Failed to save Excel report: %v", err)
		} else {
			fmt.Printf("💾 Report saved: %s\n", path)
		}
	}
}

func printHeader() {
	fmt.Printf("🎯 %s v%s\n", strings.ToUpper(AppName), AppVersion)
	fmt.Printf("%s\n\n", strings.Repeat("=", 50))
}

func loadEnvironment(envFile string) {
	if err := godotenv.Load(envFile); err != nil {
		log.Printf("⚠️  Could not load %s (%v)", envFile, err)
	}
}

// buildConfig assembles the simulator configuration from flags. A saved
// parameter vector is applied last and wins for the fields it names.
func buildConfig(flags *BacktestFlags) (backtest.Config, error) {
	cfg := backtest.DefaultConfig()
	cfg.InitialBalance = *flags.InitialBalance
	cfg.FeeRate = *flags.FeeRate
	cfg.SlippageRate = *flags.SlippageRate
	cfg.FixedAmount = *flags.FixedAmount
	cfg.InvestmentRatio = *flags.InvestmentRatio

	cfg.Strategy.BuyScoreThreshold = *flags.BuyThreshold
	cfg.Strategy.SellScoreThreshold = *flags.SellThreshold
	cfg.Strategy.StopLossPercent = *flags.StopLoss
	cfg.Strategy.TakeProfitPercent = *flags.TakeProfit
	cfg.Strategy.TrailingStopPercent = *flags.TrailingStop
	cfg.Strategy.BuyOnly = *flags.BuyOnly

	if *flags.ParamsFile != "" {
		params, err := reporting.LoadSeedJSON(*flags.ParamsFile)
		if err != nil {
			return cfg, err
		}
		optimization.ApplyParams(&cfg, optimization.DefaultDomain().Snap(params))
		fmt.Printf("📋 Applied %d parameters from %s\n\n", len(params), *flags.ParamsFile)
	}

	return cfg, nil
}

func loadCandles(dataFile, timeFormat, period string) ([]types.Candle, error) {
	format := datamanager.DefaultCSVFormat
	switch strings.ToLower(strings.TrimSpace(timeFormat)) {
	case "datetime", "":
	case "unixms", "unix":
		format = datamanager.UnixMilliCSVFormat
	default:
		return nil, fmt.Errorf("unknown time format %q (use datetime or unixms)", timeFormat)
	}

	provider := datamanager.NewCSVProviderWithFormat(format)
	candles, err := provider.Load(dataFile)
	if err != nil {
		return nil, err
	}
	if provider.SkippedRows > 0 {
		log.Printf("⚠️  Skipped %d malformed rows in %s", provider.SkippedRows, dataFile)
	}
	if err := provider.Validate(candles); err != nil {
		return nil, err
	}

	if period != "" {
		d, ok := datamanager.ParseTrailingPeriod(period)
		if !ok {
			return nil, fmt.Errorf("invalid period format: %s (use 7d, 30d, 180d, 365d)", period)
		}
		candles = datamanager.FilterByPeriod(candles, d)
	}
	return candles, nil
}

func printRunSummary(cfg backtest.Config, dataFile string, candleCount int) {
	fmt.Printf("📊 Backtest Configuration\n")
	fmt.Printf("   Data: %s (%d candles)\n", dataFile, candleCount)
	fmt.Printf("   Balance: $%.2f\n", cfg.InitialBalance)
	fmt.Printf("   Fee: %.4f%% / Slippage: %.4f%%\n", cfg.FeeRate*100, cfg.SlippageRate*100)
	if cfg.FixedAmount > 0 {
		fmt.Printf("   Sizing: fixed $%.2f per entry\n", cfg.FixedAmount)
	} else {
		fmt.Printf("   Sizing: %.0f%% of balance per entry\n", cfg.InvestmentRatio*100)
	}
	fmt.Printf("   Thresholds: buy=%.0f sell=%.0f\n", cfg.Strategy.BuyScoreThreshold, cfg.Strategy.SellScoreThreshold)
	fmt.Printf("   Exits: SL=%.1f%% TP=%.1f%% trailing=%.1f%%\n",
		cfg.Strategy.StopLossPercent, cfg.Strategy.TakeProfitPercent, cfg.Strategy.TrailingStopPercent)
	if cfg.Strategy.BuyOnly {
		fmt.Printf("   Mode: buy-only (indicator sells suppressed)\n")
	}
	fmt.Printf("\n")
}
