package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
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
	AppName    = "Coin-Pilot Optimizer"
	AppVersion = "1.0.0"
)

func main() {
	flags := NewOptimizeFlags()
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

	candles, err := loadCandles(*flags.DataFile, *flags.TimeFormat, *flags.Period)
	if err != nil {
		log.Fatalf("❌ Data error: %v", err)
	}

	base := backtest.DefaultConfig()
	base.InitialBalance = *flags.InitialBalance
	base.FeeRate = *flags.FeeRate
	base.SlippageRate = *flags.SlippageRate
	base.FixedAmount = *flags.FixedAmount
	base.InvestmentRatio = *flags.Ratio

	gaCfg := optimization.Config{
		PopulationSize: *flags.Population,
		Generations:    *flags.Generations,
		MutationRate:   *flags.MutationRate,
		CrossoverRate:  *flags.CrossoverRate,
		EliteSize:      *flags.EliteSize,
		Workers:        *flags.Workers,
	}

	seed := *flags.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	evaluator := optimization.NewBacktestEvaluator(base, candles)
	optimizer, err := optimization.NewOptimizer(gaCfg, optimization.DefaultDomain(), evaluator, rng)
	if err != nil {
		log.Fatalf("❌ Optimizer error: %v", err)
	}

	optimizer.Progress = func(stats optimization.GenerationStats) {
		monitoring.RecordGeneration(stats.Generation, stats.BestFitness, stats.AvgFitness, stats.Culled)
		fmt.Printf("🧬 Gen %3d | best %10.4f | avg %10.4f | median %10.4f | culled %d\n",
			stats.Generation, stats.BestFitness, stats.AvgFitness, stats.MedianFitness, stats.Culled)
	}

	if *flags.MetricsAddr != "" {
		srv := monitoring.Serve(*flags.MetricsAddr)
		defer monitoring.Shutdown(srv)
		fmt.Printf("📡 Metrics on http://%s/metrics\n", *flags.MetricsAddr)
	}

	var seedParams map[string]float64
	if *flags.SeedFile != "" {
		seedParams, err = reporting.LoadSeedJSON(*flags.SeedFile)
		if err != nil {
			log.Fatalf("❌ Seed file error: %v", err)
		}
		fmt.Printf("📋 Seeding from %s (%d parameters)\n", *flags.SeedFile, len(seedParams))
	}

	printRunSummary(gaCfg, seed, *flags.DataFile, len(candles))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	started := time.Now()
	best, err := optimizer.Optimize(ctx, seedParams)
	elapsed := time.Since(started)
	if err != nil {
		if best == nil {
			log.Fatalf("❌ Optimization failed: %v", err)
		}
		log.Printf("⚠️  Optimization interrupted (%v), reporting best found so far", err)
	}

	reporter := reporting.NewConsoleReporter()
	reporter.PrintOptimization(best, elapsed)

	if best.Results != nil {
		reporter.PrintSummary(best.Results)
	}

	if !*flags.ConsoleOnly {
		bestPath := filepath.Join(*flags.OutputDir, "best.json")
		if err := reporting.SaveBestJSON(best, bestPath); err != nil {
			log.Printf("⚠️  Failed to save %s: %v", bestPath, err)
		} else {
			fmt.Printf("💾 Best parameters saved: %s\n", bestPath)
		}

		if best.Results != nil {
			xlsxPath := filepath.Join(*flags.OutputDir, "best_backtest.xlsx")
			if err := reporting.WriteResultXLSX(best.Results, xlsxPath); err != nil {
				log.Printf("⚠️  Failed to save Excel report: %v", err)
			} else {
				fmt.Printf("💾 Report saved: %s\n", xlsxPath)
			}
		}
	}
}

func printHeader() {
	fmt.Printf("🧬 %s v%s\n", strings.ToUpper(AppName), AppVersion)
	fmt.Printf("%s\n\n", strings.Repeat("=", 50))
}

func loadEnvironment(envFile string) {
	if err := godotenv.Load(envFile); err != nil {
		log.Printf("⚠️  Could not load %s (%v)", envFile, err)
	}
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

func printRunSummary(cfg optimization.Config, seed int64, dataFile string, candleCount int) {
	fmt.Printf("📊 Optimization Configuration\n")
	fmt.Printf("   Data: %s (%d candles)\n", dataFile, candleCount)
	fmt.Printf("   Population: %d over %d generations\n", cfg.PopulationSize, cfg.Generations)
	fmt.Printf("   Rates: mutation=%.2f crossover=%.2f elite=%d\n", cfg.MutationRate, cfg.CrossoverRate, cfg.EliteSize)
	fmt.Printf("   Search space: %d parameters\n", len(optimization.ParameterNames))
	fmt.Printf("   Random seed: %d\n\n", seed)
}
