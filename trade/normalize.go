package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Key fallbacks, tried in order.
var (
	pnlKeys        = []string{"pnl", "netProfit", "profit"}
	entryTimeKeys  = []string{"entryTime", "date", "createdAt"}
	exitTimeKeys   = []string{"exitTime", "exitDate"}
	sideKeys       = []string{"side", "action"}
	sizeKeys       = []string{"volume", "quantity", "size"}
	entryPriceKeys = []string{"entryPrice"}
	exitPriceKeys  = []string{"exitPrice"}
)

// Rejection reports a raw row that did not survive normalization.
type Rejection struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// Normalizer converts Raw rows into Records. Zoneless timestamp strings are
// read in Location (time.Local when nil).
//
// Only ISO-8601 style layouts and Unix milliseconds are accepted. Ambiguous
// numeric dates such as 03/04/2024 are rejected rather than guessed; the
// importer is expected to resolve them before the row gets here.
type Normalizer struct {
	Location *time.Location
}

// Normalize uses a Normalizer in time.Local.
func Normalize(raws []Raw) ([]Record, []Rejection) {
	return Normalizer{}.Normalize(raws)
}

func (n Normalizer) Normalize(raws []Raw) ([]Record, []Rejection) {
	loc := n.Location
	if loc == nil {
		loc = time.Local
	}

	out := make([]Record, 0, len(raws))
	var rejected []Rejection
	for i, r := range raws {
		rec, reason := normalizeOne(i, r, loc)
		if reason != "" {
			rejected = append(rejected, Rejection{Index: i, Reason: reason})
			continue
		}
		out = append(out, rec)
	}
	return out, rejected
}

func normalizeOne(i int, r Raw, loc *time.Location) (Record, string) {
	symbol := strings.TrimSpace(str(r["symbol"]))
	if symbol == "" {
		return Record{}, "missing symbol"
	}

	entry, ok := firstTime(r, entryTimeKeys, loc)
	if !ok {
		return Record{}, "invalid entry time"
	}
	exit, ok := firstTime(r, exitTimeKeys, loc)
	if !ok {
		exit = entry
	}

	id := strings.TrimSpace(str(r["id"]))
	if id == "" {
		id = fmt.Sprintf("row-%d", i)
	}

	pnl, _ := firstDecimal(r, pnlKeys)
	size, _ := firstFloat(r, sizeKeys)
	if size < 0 {
		size = -size
	}
	entryPrice, _ := firstFloat(r, entryPriceKeys)
	exitPrice, _ := firstFloat(r, exitPriceKeys)

	return Record{
		ID:         id,
		Symbol:     symbol,
		Side:       parseSide(r),
		PnL:        pnl,
		EntryTime:  entry,
		ExitTime:   exit,
		Strategy:   strings.TrimSpace(str(r["strategy"])),
		Size:       size,
		EntryPrice: entryPrice,
		ExitPrice:  exitPrice,
	}, ""
}

func parseSide(r Raw) Side {
	for _, k := range sideKeys {
		switch strings.ToLower(strings.TrimSpace(str(r[k]))) {
		case "long", "buy":
			return Long
		case "short", "sell":
			return Short
		}
	}
	return Unknown
}

func firstDecimal(r Raw, keys []string) (decimal.Decimal, bool) {
	for _, k := range keys {
		if d, ok := toDecimal(r[k]); ok {
			return d, true
		}
	}
	return decimal.Zero, false
}

func firstFloat(r Raw, keys []string) (float64, bool) {
	d, ok := firstDecimal(r, keys)
	return d.InexactFloat64(), ok
}

func firstTime(r Raw, keys []string, loc *time.Location) (time.Time, bool) {
	for _, k := range keys {
		if t, ok := toTime(r[k], loc); ok {
			return t, true
		}
	}
	return time.Time{}, false
}
