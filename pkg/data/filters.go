package data

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/godekd3133/Coin-Pilot/pkg/types"
)

// ParseTrailingPeriod parses period strings like "7d", "30d", "365d".
// Raw Go durations such as "168h" are accepted too.
func ParseTrailingPeriod(s string) (time.Duration, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.HasSuffix(s, "days") {
		s = strings.TrimSuffix(s, "days") + "d"
	}
	if strings.HasSuffix(s, "d") {
		n, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil || n <= 0 {
			return 0, false
		}
		return time.Duration(n) * 24 * time.Hour, true
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d, true
	}
	return 0, false
}

// FilterByPeriod keeps only the trailing window of the series, measured
// back from the newest candle. A non-positive period keeps everything.
func FilterByPeriod(candles []types.Candle, period time.Duration) []types.Candle {
	if period <= 0 || len(candles) == 0 {
		return candles
	}

	cutoff := candles[len(candles)-1].Timestamp.Add(-period)
	start := sort.Search(len(candles), func(i int) bool {
		return !candles[i].Timestamp.Before(cutoff)
	})
	return candles[start:]
}

// FilterByDateRange keeps candles with start <= timestamp <= end.
func FilterByDateRange(candles []types.Candle, start, end time.Time) []types.Candle {
	var filtered []types.Candle
	for _, c := range candles {
		if c.Timestamp.Before(start) || c.Timestamp.After(end) {
			continue
		}
		filtered = append(filtered, c)
	}
	return filtered
}

// SortByTimestamp returns a copy of the series ordered oldest first.
func SortByTimestamp(candles []types.Candle) []types.Candle {
	sorted := make([]types.Candle, len(candles))
	copy(sorted, candles)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}

// RemoveDuplicates drops candles whose timestamp repeats, keeping the
// first occurrence.
func RemoveDuplicates(candles []types.Candle) []types.Candle {
	if len(candles) <= 1 {
		return candles
	}

	seen := make(map[int64]bool, len(candles))
	filtered := make([]types.Candle, 0, len(candles))
	for _, c := range candles {
		key := c.Timestamp.UnixMilli()
		if seen[key] {
			continue
		}
		seen[key] = true
		filtered = append(filtered, c)
	}
	return filtered
}
