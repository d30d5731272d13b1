package strategy

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for recoverable engine misuse. Callers check these with
// errors.Is and treat them as no-ops.
var (
	ErrNoPosition    = errors.New("strategy: no open position")
	ErrPositionOpen  = errors.New("strategy: a position is already open")
	ErrInvalidAmount = errors.New("strategy: amount must be positive")
)

// PositionType tags the direction of an open position. Only long positions
// are supported.
type PositionType string

const PositionBuy PositionType = "BUY"

// Position is the engine's single open holding. Amount decreases on partial
// closes; identity and entry price never change.
type Position struct {
	ID         string
	Type       PositionType
	EntryPrice float64
	Amount     float64
	EntryTime  time.Time

	// HighWater is the highest price seen since entry, used by the
	// trailing stop.
	HighWater float64
}

// TradeAction tags an entry in the trade history.
type TradeAction string

const (
	TradeOpen         TradeAction = "OPEN"
	TradeClose        TradeAction = "CLOSE"
	TradePartialClose TradeAction = "PARTIAL_CLOSE"
)

// TradeRecord is one append-only entry of the engine's trade history. It is
// never mutated after creation.
type TradeRecord struct {
	Action           TradeAction
	PositionID       string
	EntryPrice       float64
	ExitPrice        float64
	Amount           float64
	GrossProfit      float64
	Fee              float64
	NetProfit        float64
	NetProfitPercent float64
	Reason           string
	EntryTime        time.Time
	ExitTime         time.Time
}

// TradeStats aggregates the realized trade history (OPEN records excluded).
type TradeStats struct {
	TotalTrades    int
	WinningTrades  int
	WinRate        float64
	TotalNetProfit float64
	AvgNetProfit   float64
}

// OpenPosition opens the engine's single position and records an OPEN trade
// entry. Single-position discipline is enforced here: opening while a
// position exists returns ErrPositionOpen.
func (e *Engine) OpenPosition(price, amount float64, ts time.Time) (*Position, error) {
	if price <= 0 || amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if e.position != nil {
		return nil, ErrPositionOpen
	}

	e.positionSeq++
	e.position = &Position{
		ID:         fmt.Sprintf("pos-%d", e.positionSeq),
		Type:       PositionBuy,
		EntryPrice: price,
		Amount:     amount,
		EntryTime:  ts,
		HighWater:  price,
	}
	e.history = append(e.history, TradeRecord{
		Action:     TradeOpen,
		PositionID: e.position.ID,
		EntryPrice: price,
		Amount:     amount,
		Reason:     "position opened",
		EntryTime:  ts,
	})
	return e.position, nil
}

// ClosePosition fully closes the open position at the given price, charging
// the entry and exit fee, and clears the position. Returns ErrNoPosition
// when nothing is open.
func (e *Engine) ClosePosition(price float64, reason string, ts time.Time) (*TradeRecord, error) {
	if e.position == nil {
		return nil, ErrNoPosition
	}
	if price <= 0 {
		return nil, ErrInvalidAmount
	}

	pos := e.position
	gross := (price - pos.EntryPrice) * pos.Amount
	fee := pos.EntryPrice*pos.Amount*e.cfg.FeeRate + price*pos.Amount*e.cfg.FeeRate
	net := gross - fee

	record := TradeRecord{
		Action:           TradeClose,
		PositionID:       pos.ID,
		EntryPrice:       pos.EntryPrice,
		ExitPrice:        price,
		Amount:           pos.Amount,
		GrossProfit:      gross,
		Fee:              fee,
		NetProfit:        net,
		NetProfitPercent: net / (pos.EntryPrice * pos.Amount) * 100,
		Reason:           reason,
		EntryTime:        pos.EntryTime,
		ExitTime:         ts,
	}
	e.history = append(e.history, record)
	e.position = nil
	return &record, nil
}

// RecordPartialSell closes part of the open position. The entry fee is
// prorated to the sold amount; the position keeps its identity and entry
// price with a reduced amount. Selling the full amount (or more) delegates
// to ClosePosition.
func (e *Engine) RecordPartialSell(price, soldAmount float64, reason string, ts time.Time) (*TradeRecord, error) {
	if e.position == nil {
		return nil, ErrNoPosition
	}
	if price <= 0 || soldAmount <= 0 {
		return nil, ErrInvalidAmount
	}
	if soldAmount >= e.position.Amount {
		return e.ClosePosition(price, reason, ts)
	}

	pos := e.position
	gross := (price - pos.EntryPrice) * soldAmount
	fee := pos.EntryPrice*soldAmount*e.cfg.FeeRate + price*soldAmount*e.cfg.FeeRate
	net := gross - fee

	record := TradeRecord{
		Action:           TradePartialClose,
		PositionID:       pos.ID,
		EntryPrice:       pos.EntryPrice,
		ExitPrice:        price,
		Amount:           soldAmount,
		GrossProfit:      gross,
		Fee:              fee,
		NetProfit:        net,
		NetProfitPercent: net / (pos.EntryPrice * soldAmount) * 100,
		Reason:           reason,
		EntryTime:        pos.EntryTime,
		ExitTime:         ts,
	}
	e.history = append(e.history, record)
	pos.Amount -= soldAmount
	return &record, nil
}

// Statistics aggregates CLOSE and PARTIAL_CLOSE records. OPEN records do
// not count as trades.
func (e *Engine) Statistics() TradeStats {
	stats := TradeStats{}
	for _, r := range e.history {
		if r.Action == TradeOpen {
			continue
		}
		stats.TotalTrades++
		if r.NetProfit > 0 {
			stats.WinningTrades++
		}
		stats.TotalNetProfit += r.NetProfit
	}
	if stats.TotalTrades > 0 {
		stats.WinRate = float64(stats.WinningTrades) / float64(stats.TotalTrades)
		stats.AvgNetProfit = stats.TotalNetProfit / float64(stats.TotalTrades)
	}
	return stats
}
