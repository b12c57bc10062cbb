package journal

import (
	"math"
	"time"

	"github.com/fatih/structs"
	"github.com/rustyeddy/tradejournal/trade"
)

// Raw converts t into the loosely typed row the analytics engine reads.
// An empty Side is inferred from the sign of Units.
func (t TradeRecord) Raw() trade.Raw {
	m := structs.Map(t)
	if t.Side == "" {
		switch {
		case t.Units > 0:
			m["side"] = "long"
		case t.Units < 0:
			m["side"] = "short"
		}
	}
	m["volume"] = math.Abs(t.Units)
	passTime(m, "entryTime", t.OpenTime, t.openCell)
	passTime(m, "exitTime", t.CloseTime, t.closeCell)
	if t.EntryPrice == 0 {
		delete(m, "entryPrice")
	}
	if t.ExitPrice == 0 {
		delete(m, "exitPrice")
	}
	return trade.Raw(m)
}

// passTime hands the normalizer the raw cell when there is one and drops a
// zero time so the row falls back or is rejected there.
func passTime(m map[string]any, key string, at time.Time, cell string) {
	switch {
	case cell != "":
		m[key] = cell
	case at.IsZero():
		delete(m, key)
	}
}

func Raws(trades []TradeRecord) []trade.Raw {
	out := make([]trade.Raw, len(trades))
	for i, t := range trades {
		out[i] = t.Raw()
	}
	return out
}
