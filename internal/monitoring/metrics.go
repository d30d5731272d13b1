package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	backtestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coinpilot_backtests_total",
			Help: "Total number of backtest runs",
		},
		[]string{"outcome"},
	)

	backtestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "coinpilot_backtest_duration_seconds",
			Help:    "Wall-clock duration of one backtest run",
			Buckets: prometheus.DefBuckets,
		},
	)

	tradesSimulated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coinpilot_trades_simulated_total",
			Help: "Trades executed across all backtest runs",
		},
		[]string{"action"},
	)

	optimizerGeneration = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "coinpilot_optimizer_generation",
			Help: "Generation the optimizer is currently evaluating",
		},
	)

	optimizerBestFitness = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "coinpilot_optimizer_best_fitness",
			Help: "Best fitness in the latest evaluated generation",
		},
	)

	optimizerAvgFitness = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "coinpilot_optimizer_avg_fitness",
			Help: "Average fitness in the latest evaluated generation",
		},
	)

	optimizerCulled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "coinpilot_optimizer_culled_total",
			Help: "Individuals discarded because their evaluation failed",
		},
	)
)

func init() {
	prometheus.MustRegister(backtestsTotal)
	prometheus.MustRegister(backtestDuration)
	prometheus.MustRegister(tradesSimulated)
	prometheus.MustRegister(optimizerGeneration)
	prometheus.MustRegister(optimizerBestFitness)
	prometheus.MustRegister(optimizerAvgFitness)
	prometheus.MustRegister(optimizerCulled)
}

// Handler returns the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordBacktest records one finished backtest run.
func RecordBacktest(seconds float64, failed bool) {
	outcome := "ok"
	if failed {
		outcome = "error"
	}
	backtestsTotal.WithLabelValues(outcome).Inc()
	backtestDuration.Observe(seconds)
}

// RecordTrades adds simulated trades, keyed by trade action.
func RecordTrades(action string, count int) {
	tradesSimulated.WithLabelValues(action).Add(float64(count))
}

// RecordGeneration publishes optimizer progress for one generation.
func RecordGeneration(generation int, bestFitness, avgFitness float64, culled int) {
	optimizerGeneration.Set(float64(generation))
	optimizerBestFitness.Set(bestFitness)
	optimizerAvgFitness.Set(avgFitness)
	optimizerCulled.Add(float64(culled))
}
