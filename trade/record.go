// Package trade holds the canonical trade record and the normalizer that
// turns loosely typed journal rows into it.
package trade

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Raw is a trade as supplied by the persistence layer. Keys and value types
// vary by source (JSON import, CSV rows, journal tables).
type Raw map[string]any

type Side int

const (
	Unknown Side = iota
	Long
	Short
)

func (s Side) String() string {
	switch s {
	case Long:
		return "long"
	case Short:
		return "short"
	default:
		return "unknown"
	}
}

// Title returns the display form used for direction bucket keys.
func (s Side) Title() string {
	switch s {
	case Long:
		return "Long"
	case Short:
		return "Short"
	default:
		return "Unknown"
	}
}

// Record is a validated trade. Every Record has a symbol and valid entry and
// exit instants.
type Record struct {
	ID         string
	Symbol     string
	Side       Side
	PnL        decimal.Decimal
	EntryTime  time.Time
	ExitTime   time.Time
	Strategy   string
	Size       float64 // absolute position size, 0 when unknown
	EntryPrice float64
	ExitPrice  float64
}

func (r Record) IsWin() bool  { return r.PnL.IsPositive() }
func (r Record) IsLoss() bool { return r.PnL.IsNegative() }

func (r Record) PnLFloat() float64 {
	return r.PnL.InexactFloat64()
}

// SortChronological orders records by entry time, then ID, in place.
func SortChronological(recs []Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		if !recs[i].EntryTime.Equal(recs[j].EntryTime) {
			return recs[i].EntryTime.Before(recs[j].EntryTime)
		}
		return recs[i].ID < recs[j].ID
	})
}
