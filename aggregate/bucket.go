// Package aggregate groups normalized trades along the journal's reporting
// dimensions. Each dimension is built in a single pass; ordering is applied
// to the output only.
package aggregate

import (
	"math"
	"sort"

	"github.com/rustyeddy/tradejournal/trade"
	"github.com/shopspring/decimal"
)

// Bucket is the tally for one key within a dimension. PnL and WinRate are
// rounded to two decimals when the bucket is built.
//
// Wins + Losses + Breakeven == Trades.
type Bucket struct {
	Key       string  `json:"key"`
	Trades    int     `json:"trades"`
	Wins      int     `json:"wins"`
	Losses    int     `json:"losses"`
	Breakeven int     `json:"breakeven"`
	PnL       float64 `json:"pnl"`
	WinRate   float64 `json:"winRate"`
}

type tally struct {
	trades, wins, losses int
	pnl                  decimal.Decimal
}

func (t *tally) add(r trade.Record) {
	t.trades++
	t.pnl = t.pnl.Add(r.PnL)
	switch {
	case r.IsWin():
		t.wins++
	case r.IsLoss():
		t.losses++
	}
}

func (t *tally) bucket(key string) Bucket {
	b := Bucket{
		Key:       key,
		Trades:    t.trades,
		Wins:      t.wins,
		Losses:    t.losses,
		Breakeven: t.trades - t.wins - t.losses,
		PnL:       t.pnl.Round(2).InexactFloat64(),
	}
	if t.trades > 0 {
		b.WinRate = round2(float64(t.wins) / float64(t.trades) * 100)
	}
	return b
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// group tallies records by key in first-seen order. Records for which key
// reports false are skipped.
func group[K comparable](recs []trade.Record, key func(trade.Record) (K, bool)) ([]K, map[K]*tally) {
	var order []K
	tallies := make(map[K]*tally)
	for _, r := range recs {
		k, ok := key(r)
		if !ok {
			continue
		}
		t, seen := tallies[k]
		if !seen {
			t = &tally{}
			tallies[k] = t
			order = append(order, k)
		}
		t.add(r)
	}
	return order, tallies
}

// build runs group and emits buckets. When less is nil buckets are ordered by
// descending P&L, ties keeping first-seen order.
func build[K comparable](
	recs []trade.Record,
	key func(trade.Record) (K, bool),
	label func(K) string,
	less func(a, b K) bool,
) []Bucket {
	order, tallies := group(recs, key)
	if less != nil {
		sort.SliceStable(order, func(i, j int) bool { return less(order[i], order[j]) })
	}

	out := make([]Bucket, 0, len(order))
	for _, k := range order {
		out = append(out, tallies[k].bucket(label(k)))
	}
	if less == nil {
		sort.SliceStable(out, func(i, j int) bool { return out[i].PnL > out[j].PnL })
	}
	return out
}

// Total returns the number of trades across buckets.
func Total(bs []Bucket) int {
	n := 0
	for _, b := range bs {
		n += b.Trades
	}
	return n
}

// Find returns the bucket with key, if present.
func Find(bs []Bucket, key string) (Bucket, bool) {
	for _, b := range bs {
		if b.Key == key {
			return b, true
		}
	}
	return Bucket{}, false
}
