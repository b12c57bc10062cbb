// Package journal persists closed trades and hands them to the analytics
// engine as raw rows.
package journal

import (
	"errors"
	"time"

	"github.com/rustyeddy/tradejournal/pkg/id"
	"github.com/rustyeddy/tradejournal/trade"
)

var ErrTradeNotFound = errors.New("trade not found")

// TradeRecord is one closed trade as stored in a journal. Units may be
// signed; a negative value is a short when Side is empty.
type TradeRecord struct {
	TradeID    string    `structs:"id"`
	Instrument string    `structs:"symbol"`
	Side       string    `structs:"side"`
	Units      float64   `structs:"volume"`
	EntryPrice float64   `structs:"entryPrice"`
	ExitPrice  float64   `structs:"exitPrice"`
	OpenTime   time.Time `structs:"entryTime,omitnested"`
	CloseTime  time.Time `structs:"exitTime,omitnested"`
	RealizedPL float64   `structs:"pnl"`
	Strategy   string    `structs:"strategy"`
	Reason     string    `structs:"reason"`

	// CSV cells that were not RFC3339, kept verbatim for the normalizer.
	openCell, closeCell string
}

type Journal interface {
	RecordTrade(TradeRecord) error
	Close() error
}

// withID fills a blank TradeID.
func withID(t TradeRecord) TradeRecord {
	if t.TradeID == "" {
		t.TradeID = id.New()
	}
	return t
}

// Import records every trade into j and returns how many were written.
func Import(j Journal, trades []TradeRecord) (int, error) {
	for i, t := range trades {
		if err := j.RecordTrade(t); err != nil {
			return i, err
		}
	}
	return len(trades), nil
}

// Resolve parses the time cells ReadCSV kept as text, reading zoneless
// values in loc. Trades that still have no open time are left out and their
// indexes returned.
func Resolve(trades []TradeRecord, loc *time.Location) ([]TradeRecord, []int) {
	out := make([]TradeRecord, 0, len(trades))
	var skipped []int
	for i, t := range trades {
		if t.openCell != "" {
			t.OpenTime, _ = trade.ParseTime(t.openCell, loc)
		}
		if t.closeCell != "" {
			t.CloseTime, _ = trade.ParseTime(t.closeCell, loc)
		}
		t.openCell, t.closeCell = "", ""

		if t.OpenTime.IsZero() {
			skipped = append(skipped, i)
			continue
		}
		if t.CloseTime.IsZero() {
			t.CloseTime = t.OpenTime
		}
		out = append(out, t)
	}
	return out, skipped
}
