// Package score reduces aggregates into headline statistics and the
// six-axis trader profile.
package score

import (
	"math"

	"github.com/rustyeddy/tradejournal/aggregate"
	"github.com/rustyeddy/tradejournal/trade"
	"github.com/shopspring/decimal"
)

// MinRecords is the fewest normalized trades needed for a summary.
const MinRecords = 5

type Summary struct {
	TotalTrades int     `json:"totalTrades"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	WinRate     float64 `json:"winRate"`
	AvgWin      float64 `json:"avgWin"`
	AvgLoss     float64 `json:"avgLoss"` // absolute value
	TotalPnL    float64 `json:"totalPnl"`

	BestInstrument  *aggregate.Bucket `json:"bestInstrument,omitempty"`
	WorstInstrument *aggregate.Bucket `json:"worstInstrument,omitempty"`
	BestHour        *aggregate.Bucket `json:"bestHour,omitempty"`
	WorstHour       *aggregate.Bucket `json:"worstHour,omitempty"`
	BestDay         *aggregate.Bucket `json:"bestDay,omitempty"`
	WorstDay        *aggregate.Bucket `json:"worstDay,omitempty"`
	BestStrategy    *aggregate.Bucket `json:"bestStrategy,omitempty"`
	WorstStrategy   *aggregate.Bucket `json:"worstStrategy,omitempty"`
	BestWeek        *aggregate.Bucket `json:"bestWeek,omitempty"`
	WorstWeek       *aggregate.Bucket `json:"worstWeek,omitempty"`

	WinDirection        string  `json:"winDirection"`
	WinDirectionWinRate float64 `json:"winDirectionWr"`

	Profile Profile `json:"profile"`
}

// Compute returns nil, false when fewer than MinRecords trades are present.
func Compute(aggs aggregate.Aggregates, recs []trade.Record) (*Summary, bool) {
	if len(recs) < MinRecords {
		return nil, false
	}

	s := &Summary{}
	headline(s, recs)

	s.BestInstrument, s.WorstInstrument = bestWorst(aggs.Instrument)
	s.BestHour, s.WorstHour = bestWorst(aggs.Hour)
	s.BestDay, s.WorstDay = bestWorst(aggs.DayOfWeek)
	s.BestStrategy, s.WorstStrategy = bestWorst(aggs.Strategy)
	s.BestWeek, s.WorstWeek = bestWorst(aggs.Week)

	if d := bestWinRate(aggs.Direction); d != nil {
		s.WinDirection = d.Key
		s.WinDirectionWinRate = d.WinRate
	}

	s.Profile = buildProfile(s, aggs)
	return s, true
}

// headline accumulates wins, losses and totals in one pass.
func headline(s *Summary, recs []trade.Record) {
	var winSum, lossSum, total decimal.Decimal
	for _, r := range recs {
		total = total.Add(r.PnL)
		switch {
		case r.IsWin():
			s.Wins++
			winSum = winSum.Add(r.PnL)
		case r.IsLoss():
			s.Losses++
			lossSum = lossSum.Add(r.PnL)
		}
	}

	s.TotalTrades = len(recs)
	s.TotalPnL = total.Round(2).InexactFloat64()
	if s.TotalTrades > 0 {
		s.WinRate = math.Round(float64(s.Wins) / float64(s.TotalTrades) * 100)
	}
	if s.Wins > 0 {
		s.AvgWin = winSum.Div(decimal.NewFromInt(int64(s.Wins))).Round(2).InexactFloat64()
	}
	if s.Losses > 0 {
		s.AvgLoss = lossSum.Abs().Div(decimal.NewFromInt(int64(s.Losses))).Round(2).InexactFloat64()
	}
}

// bestWorst scans once; on equal P&L the earlier bucket is kept.
func bestWorst(bs []aggregate.Bucket) (best, worst *aggregate.Bucket) {
	for i := range bs {
		if best == nil || bs[i].PnL > best.PnL {
			b := bs[i]
			best = &b
		}
		if worst == nil || bs[i].PnL < worst.PnL {
			w := bs[i]
			worst = &w
		}
	}
	return best, worst
}

func bestWinRate(bs []aggregate.Bucket) *aggregate.Bucket {
	var best *aggregate.Bucket
	for i := range bs {
		if best == nil || bs[i].WinRate > best.WinRate {
			b := bs[i]
			best = &b
		}
	}
	return best
}
