package types

import "time"

// Candle is one bar of historical price data. Candle slices are always
// ordered oldest-first: index 0 is the oldest bar, the last index is the
// most recent one. Every consumer in this module relies on that ordering.
type Candle struct {
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	Timestamp time.Time
}

// SentimentLabel is the overall mood reported by an external sentiment feed.
type SentimentLabel string

const (
	SentimentVeryPositive SentimentLabel = "very_positive"
	SentimentPositive     SentimentLabel = "positive"
	SentimentNeutral      SentimentLabel = "neutral"
	SentimentNegative     SentimentLabel = "negative"
	SentimentVeryNegative SentimentLabel = "very_negative"
)

// SentimentSummary is the aggregate output of the (external) news analyzer.
// The decision engine treats it as opaque input; the backtester substitutes
// NeutralSentiment because no historical sentiment exists.
type SentimentSummary struct {
	Overall        SentimentLabel
	AvgScore       float64 // roughly -5..+5
	PositiveRatio  float64 // 0..1
	NegativeRatio  float64 // 0..1
	Recommendation string
}

// NeutralSentiment returns the summary used when no sentiment data exists.
func NeutralSentiment() SentimentSummary {
	return SentimentSummary{
		Overall:        SentimentNeutral,
		AvgScore:       0,
		PositiveRatio:  0.5,
		NegativeRatio:  0.5,
		Recommendation: "HOLD",
	}
}
