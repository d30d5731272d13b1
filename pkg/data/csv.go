package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/godekd3133/Coin-Pilot/pkg/types"
)

// Provider loads historical candles from some source.
type Provider interface {
	Load(source string) ([]types.Candle, error)
	Validate(candles []types.Candle) error
}

// ColumnMapping describes where each candle field sits in a CSV row.
// TimeLayout is a time.Parse layout; an empty layout means the timestamp
// column holds Unix milliseconds, the format most exchange exports use.
type ColumnMapping struct {
	TimestampCol int
	OpenCol      int
	HighCol      int
	LowCol       int
	CloseCol     int
	VolumeCol    int
	MinColumns   int
	TimeLayout   string
}

var (
	// DefaultCSVFormat matches "timestamp,open,high,low,close,volume"
	// with human-readable timestamps.
	DefaultCSVFormat = ColumnMapping{
		TimestampCol: 0,
		OpenCol:      1,
		HighCol:      2,
		LowCol:       3,
		CloseCol:     4,
		VolumeCol:    5,
		MinColumns:   6,
		TimeLayout:   "2006-01-02 15:04:05",
	}

	// UnixMilliCSVFormat matches the same column order with Unix
	// millisecond timestamps.
	UnixMilliCSVFormat = ColumnMapping{
		TimestampCol: 0,
		OpenCol:      1,
		HighCol:      2,
		LowCol:       3,
		CloseCol:     4,
		VolumeCol:    5,
		MinColumns:   6,
	}
)

// CSVProvider reads candles from CSV files. Malformed rows are skipped
// and counted rather than failing the whole file; exchange exports
// routinely contain a few broken lines.
type CSVProvider struct {
	format ColumnMapping

	// SkippedRows counts rows dropped during the last Load.
	SkippedRows int
}

// NewCSVProvider creates a provider using the default column layout.
func NewCSVProvider() *CSVProvider {
	return &CSVProvider{format: DefaultCSVFormat}
}

// NewCSVProviderWithFormat creates a provider with a custom column layout.
func NewCSVProviderWithFormat(format ColumnMapping) *CSVProvider {
	return &CSVProvider{format: format}
}

// Load reads all candles from the file, oldest first. The first row is
// treated as a header when its timestamp column does not parse.
func (p *CSVProvider) Load(source string) ([]types.Candle, error) {
	file, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("data: open %s: %w", source, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	p.SkippedRows = 0
	var candles []types.Candle

	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("data: read %s line %d: %w", source, line+1, err)
		}
		line++

		candle, err := p.parseRow(record)
		if err != nil {
			if line == 1 {
				continue // header row
			}
			p.SkippedRows++
			continue
		}
		candles = append(candles, candle)
	}

	if len(candles) == 0 {
		return nil, fmt.Errorf("data: %s contains no usable candles", source)
	}
	return candles, nil
}

func (p *CSVProvider) parseRow(record []string) (types.Candle, error) {
	if len(record) < p.format.MinColumns {
		return types.Candle{}, fmt.Errorf("data: row has %d columns, need %d", len(record), p.format.MinColumns)
	}

	timestamp, err := p.parseTimestamp(record[p.format.TimestampCol])
	if err != nil {
		return types.Candle{}, err
	}

	fields := [5]float64{}
	for i, col := range [5]int{p.format.OpenCol, p.format.HighCol, p.format.LowCol, p.format.CloseCol, p.format.VolumeCol} {
		v, err := strconv.ParseFloat(record[col], 64)
		if err != nil {
			return types.Candle{}, fmt.Errorf("data: column %d: %w", col, err)
		}
		fields[i] = v
	}

	candle := types.Candle{
		Timestamp: timestamp,
		Open:      fields[0],
		High:      fields[1],
		Low:       fields[2],
		Close:     fields[3],
		Volume:    fields[4],
	}
	if err := validateCandle(candle); err != nil {
		return types.Candle{}, err
	}
	return candle, nil
}

func (p *CSVProvider) parseTimestamp(raw string) (time.Time, error) {
	if p.format.TimeLayout != "" {
		return time.Parse(p.format.TimeLayout, raw)
	}
	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("data: timestamp %q: %w", raw, err)
	}
	return time.UnixMilli(millis).UTC(), nil
}

func validateCandle(c types.Candle) error {
	if c.Open <= 0 || c.High <= 0 || c.Low <= 0 || c.Close <= 0 {
		return fmt.Errorf("data: prices must be positive")
	}
	if c.High < c.Low || c.High < c.Open || c.High < c.Close {
		return fmt.Errorf("data: high %.4f below another price", c.High)
	}
	if c.Low > c.Open || c.Low > c.Close {
		return fmt.Errorf("data: low %.4f above another price", c.Low)
	}
	if c.Volume < 0 {
		return fmt.Errorf("data: volume must not be negative")
	}
	return nil
}

// Validate checks the integrity of an already loaded series: positive
// prices, consistent high/low and strictly increasing timestamps.
func (p *CSVProvider) Validate(candles []types.Candle) error {
	if len(candles) == 0 {
		return fmt.Errorf("data: empty candle series")
	}
	for i, c := range candles {
		if err := validateCandle(c); err != nil {
			return fmt.Errorf("data: index %d: %w", i, err)
		}
		if i > 0 && !candles[i-1].Timestamp.Before(c.Timestamp) {
			return fmt.Errorf("data: index %d: timestamp %s not after %s",
				i, c.Timestamp.Format(time.RFC3339), candles[i-1].Timestamp.Format(time.RFC3339))
		}
	}
	return nil
}
