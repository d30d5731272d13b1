package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClosePosition_FeeAccounting(t *testing.T) {
	engine := newTestEngine(t, nil)
	now := time.Now()

	_, err := engine.OpenPosition(100, 1, now)
	require.NoError(t, err)

	record, err := engine.ClosePosition(110, "test close", now.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, TradeClose, record.Action)
	assert.InDelta(t, 10.0, record.GrossProfit, 1e-9)
	assert.InDelta(t, 100*1*0.0005+110*1*0.0005, record.Fee, 1e-9) // 0.105
	assert.InDelta(t, 9.895, record.NetProfit, 1e-9)
	assert.Nil(t, engine.Position())
}

func TestClosePosition_NoPosition(t *testing.T) {
	engine := newTestEngine(t, nil)

	_, err := engine.ClosePosition(100, "nothing open", time.Now())
	assert.ErrorIs(t, err, ErrNoPosition)
}

func TestOpenPosition_AlreadyOpen(t *testing.T) {
	engine := newTestEngine(t, nil)

	_, err := engine.OpenPosition(100, 1, time.Now())
	require.NoError(t, err)

	_, err = engine.OpenPosition(105, 1, time.Now())
	assert.ErrorIs(t, err, ErrPositionOpen)
}

func TestOpenPosition_InvalidAmount(t *testing.T) {
	engine := newTestEngine(t, nil)

	_, err := engine.OpenPosition(100, 0, time.Now())
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = engine.OpenPosition(-5, 1, time.Now())
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestRecordPartialSell_ProratesEntryFee(t *testing.T) {
	engine := newTestEngine(t, nil)
	now := time.Now()

	_, err := engine.OpenPosition(100, 2, now)
	require.NoError(t, err)

	record, err := engine.RecordPartialSell(110, 1, "partial", now.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, TradePartialClose, record.Action)
	assert.InDelta(t, 10.0, record.GrossProfit, 1e-9)
	// Entry fee on the sold amount only, plus the exit fee.
	assert.InDelta(t, 100*1*0.0005+110*1*0.0005, record.Fee, 1e-9)
	assert.InDelta(t, record.GrossProfit-record.Fee, record.NetProfit, 1e-9)

	pos := engine.Position()
	require.NotNil(t, pos)
	assert.InDelta(t, 1.0, pos.Amount, 1e-9)
	assert.Equal(t, 100.0, pos.EntryPrice)
}

func TestRecordPartialSell_FullAmountDelegatesToClose(t *testing.T) {
	engine := newTestEngine(t, nil)
	now := time.Now()

	_, err := engine.OpenPosition(100, 1, now)
	require.NoError(t, err)

	record, err := engine.RecordPartialSell(110, 5, "oversized", now.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, TradeClose, record.Action)
	assert.Equal(t, 1.0, record.Amount)
	assert.Nil(t, engine.Position())
}

func TestRecordPartialSell_InvalidAmount(t *testing.T) {
	engine := newTestEngine(t, nil)
	_, err := engine.OpenPosition(100, 1, time.Now())
	require.NoError(t, err)

	_, err = engine.RecordPartialSell(110, 0, "zero", time.Now())
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = engine.RecordPartialSell(110, -1, "negative", time.Now())
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestStatistics_ExcludesOpenRecords(t *testing.T) {
	engine := newTestEngine(t, nil)
	now := time.Now()

	_, err := engine.OpenPosition(100, 2, now)
	require.NoError(t, err)
	_, err = engine.RecordPartialSell(110, 1, "winner", now)
	require.NoError(t, err)
	_, err = engine.ClosePosition(90, "loser", now)
	require.NoError(t, err)

	stats := engine.Statistics()
	assert.Equal(t, 2, stats.TotalTrades)
	assert.Equal(t, 1, stats.WinningTrades)
	assert.InDelta(t, 0.5, stats.WinRate, 1e-9)
	assert.Len(t, engine.History(), 3) // OPEN + PARTIAL_CLOSE + CLOSE
}
