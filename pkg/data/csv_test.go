package data

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godekd3133/Coin-Pilot/pkg/types"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "candles.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVProvider_Load(t *testing.T) {
	path := writeCSV(t, `timestamp,open,high,low,close,volume
2024-01-01 00:00:00,100,105,95,102,1500
2024-01-01 01:00:00,102,110,101,108,2200
`)

	provider := NewCSVProvider()
	candles, err := provider.Load(path)
	require.NoError(t, err)
	require.Len(t, candles, 2)

	assert.Equal(t, 100.0, candles[0].Open)
	assert.Equal(t, 108.0, candles[1].Close)
	assert.True(t, candles[0].Timestamp.Before(candles[1].Timestamp))
	assert.Zero(t, provider.SkippedRows)
}

func TestCSVProvider_LoadUnixMillis(t *testing.T) {
	path := writeCSV(t, "1704067200000,100,105,95,102,1500\n1704070800000,102,110,101,108,2200\n")

	provider := NewCSVProviderWithFormat(UnixMilliCSVFormat)
	candles, err := provider.Load(path)
	require.NoError(t, err)
	require.Len(t, candles, 2)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), candles[0].Timestamp)
}

func TestCSVProvider_SkipsMalformedRows(t *testing.T) {
	path := writeCSV(t, `timestamp,open,high,low,close,volume
2024-01-01 00:00:00,100,105,95,102,1500
not-a-date,100,105,95,102,1500
2024-01-01 01:00:00,102,90,101,108,2200
2024-01-01 02:00:00,103,110,101,108,2200
`)

	provider := NewCSVProvider()
	candles, err := provider.Load(path)
	require.NoError(t, err)
	// Bad timestamp and high < low are both dropped.
	assert.Len(t, candles, 2)
	assert.Equal(t, 2, provider.SkippedRows)
}

func TestCSVProvider_LoadErrors(t *testing.T) {
	provider := NewCSVProvider()

	_, err := provider.Load(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	empty := writeCSV(t, "timestamp,open,high,low,close,volume\n")
	_, err = provider.Load(empty)
	assert.ErrorContains(t, err, "no usable candles")
}

func TestCSVProvider_Validate(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candle := func(offset time.Duration) types.Candle {
		return types.Candle{
			Open: 100, High: 105, Low: 95, Close: 102, Volume: 1000,
			Timestamp: base.Add(offset),
		}
	}
	provider := NewCSVProvider()

	valid := []types.Candle{candle(0), candle(time.Hour)}
	assert.NoError(t, provider.Validate(valid))

	outOfOrder := []types.Candle{candle(time.Hour), candle(0)}
	assert.Error(t, provider.Validate(outOfOrder))

	duplicate := []types.Candle{candle(0), candle(0)}
	assert.Error(t, provider.Validate(duplicate))

	negative := []types.Candle{candle(0)}
	negative[0].Close = -1
	assert.Error(t, provider.Validate(negative))

	assert.Error(t, provider.Validate(nil))
}

func TestFilterByPeriod(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]types.Candle, 48)
	for i := range candles {
		candles[i] = types.Candle{
			Open: 100, High: 101, Low: 99, Close: 100, Volume: 1,
			Timestamp: base.Add(time.Duration(i) * time.Hour),
		}
	}

	last24 := FilterByPeriod(candles, 24*time.Hour)
	assert.Len(t, last24, 25) // inclusive cutoff

	assert.Len(t, FilterByPeriod(candles, 0), 48)
	assert.Len(t, FilterByPeriod(candles, 1000*time.Hour), 48)
}

func TestParseTrailingPeriod(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"7d", 7 * 24 * time.Hour, true},
		{"30days", 30 * 24 * time.Hour, true},
		{"168h", 168 * time.Hour, true},
		{" 1D ", 24 * time.Hour, true},
		{"0d", 0, false},
		{"-3d", 0, false},
		{"weekly", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseTrailingPeriod(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestFilterByDateRange(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]types.Candle, 10)
	for i := range candles {
		candles[i] = types.Candle{Close: float64(i), Timestamp: base.Add(time.Duration(i) * time.Hour)}
	}

	filtered := FilterByDateRange(candles, base.Add(2*time.Hour), base.Add(5*time.Hour))
	require.Len(t, filtered, 4)
	assert.Equal(t, 2.0, filtered[0].Close)
	assert.Equal(t, 5.0, filtered[3].Close)
}

func TestSortAndDeduplicate(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := []types.Candle{
		{Close: 3, Timestamp: base.Add(2 * time.Hour)},
		{Close: 1, Timestamp: base},
		{Close: 2, Timestamp: base.Add(time.Hour)},
		{Close: 9, Timestamp: base.Add(time.Hour)},
	}

	sorted := SortByTimestamp(candles)
	assert.Equal(t, 1.0, sorted[0].Close)
	assert.Equal(t, 3.0, sorted[3].Close)
	// Stable sort keeps first occurrence ahead of its duplicate.
	deduped := RemoveDuplicates(sorted)
	require.Len(t, deduped, 3)
	assert.Equal(t, []float64{1, 2, 3}, []float64{deduped[0].Close, deduped[1].Close, deduped[2].Close})
}
