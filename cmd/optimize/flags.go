package main

import "flag"

// OptimizeFlags holds all command line flags for the optimize command.
type OptimizeFlags struct {
	// Data input
	DataFile   *string
	TimeFormat *string
	Period     *string

	// Account settings
	InitialBalance *float64
	FeeRate        *float64
	SlippageRate   *float64
	FixedAmount    *float64
	Ratio          *float64

	// GA settings
	Population    *int
	Generations   *int
	MutationRate  *float64
	CrossoverRate *float64
	EliteSize     *int
	Workers       *int
	RandomSeed    *int64
	SeedFile      *string

	// Output options
	OutputDir   *string
	ConsoleOnly *bool
	MetricsAddr *string
	EnvFile     *string

	ShowVersion *bool
}

// NewOptimizeFlags registers all flags and returns the container.
func NewOptimizeFlags() *OptimizeFlags {
	return &OptimizeFlags{
		DataFile:   flag.String("data", "", "Path to historical candle CSV file (required)"),
		TimeFormat: flag.String("time-format", "datetime", "CSV timestamp format: datetime or unixms"),
		Period:     flag.String("period", "", "Trailing period to optimize over, e.g. 180d, 365d"),

		InitialBalance: flag.Float64("balance", 10000, "Initial balance in quote currency"),
		FeeRate:        flag.Float64("fee", 0.0005, "Taker fee rate per side"),
		SlippageRate:   flag.Float64("slippage", 0.001, "Slippage rate applied to fills"),
		FixedAmount:    flag.Float64("fixed-amount", 0, "Fixed notional per entry (0 = ratio sizing)"),
		Ratio:          flag.Float64("ratio", 0.10, "Fraction of balance invested per entry"),

		Population:    flag.Int("population", 50, "Individuals per generation"),
		Generations:   flag.Int("generations", 30, "Generations to evolve"),
		MutationRate:  flag.Float64("mutation", 0.1, "Per-child mutation probability"),
		CrossoverRate: flag.Float64("crossover", 0.8, "Per-child crossover probability"),
		EliteSize:     flag.Int("elite", 4, "Individuals carried over unchanged"),
		Workers:       flag.Int("workers", 0, "Parallel fitness evaluations (0 = NumCPU)"),
		RandomSeed:    flag.Int64("seed", 0, "Random seed (0 = time-based)"),
		SeedFile:      flag.String("seed-file", "", "best.json from a previous run to seed generation zero"),

		OutputDir:   flag.String("output", "results", "Directory for generated reports"),
		ConsoleOnly: flag.Bool("console-only", false, "Skip best.json and Excel report"),
		MetricsAddr: flag.String("metrics-addr", "", "Expose Prometheus /metrics on this address, e.g. :9090"),
		EnvFile:     flag.String("env", ".env", "Environment file to load"),

		ShowVersion: flag.Bool("version", false, "Print version and exit"),
	}
}
