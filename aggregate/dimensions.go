package aggregate

import (
	"fmt"
	"time"

	"github.com/rustyeddy/tradejournal/trade"
)

const dayLayout = "2006-01-02"

// Aggregates holds one bucket list per dimension.
type Aggregates struct {
	Instrument    []Bucket `json:"instrument"`
	Hour          []Bucket `json:"hour"`
	DayOfWeek     []Bucket `json:"dayOfWeek"`
	Direction     []Bucket `json:"direction"`
	Strategy      []Bucket `json:"strategy"`
	Week          []Bucket `json:"week"`
	DailyActivity []Bucket `json:"dailyActivity"`
}

// Build computes every dimension. Hours and days are read in loc
// (time.Local when nil).
func Build(recs []trade.Record, loc *time.Location) Aggregates {
	if loc == nil {
		loc = time.Local
	}
	return Aggregates{
		Instrument:    ByInstrument(recs),
		Hour:          ByHour(recs, loc),
		DayOfWeek:     ByDayOfWeek(recs, loc),
		Direction:     ByDirection(recs),
		Strategy:      ByStrategy(recs),
		Week:          ByWeek(recs, loc),
		DailyActivity: DailyActivity(recs, loc),
	}
}

// ByInstrument groups by symbol, best net P&L first.
func ByInstrument(recs []trade.Record) []Bucket {
	return build(recs,
		func(r trade.Record) (string, bool) { return r.Symbol, true },
		identity, nil)
}

// ByStrategy groups tagged trades by strategy, best net P&L first.
func ByStrategy(recs []trade.Record) []Bucket {
	return build(recs,
		func(r trade.Record) (string, bool) { return r.Strategy, r.Strategy != "" },
		identity, nil)
}

// ByHour groups by the local hour of entry, 00:00 through 23:00.
func ByHour(recs []trade.Record, loc *time.Location) []Bucket {
	return build(recs,
		func(r trade.Record) (int, bool) {
			h := r.EntryTime.In(loc).Hour()
			if h < 0 || h > 23 {
				panic(fmt.Sprintf("aggregate: entry hour %d out of range for %s", h, r.ID))
			}
			return h, true
		},
		HourKey,
		func(a, b int) bool { return a < b })
}

// ByDayOfWeek groups by local weekday of entry, Sunday through Saturday.
func ByDayOfWeek(recs []trade.Record, loc *time.Location) []Bucket {
	return build(recs,
		func(r trade.Record) (time.Weekday, bool) {
			d := r.EntryTime.In(loc).Weekday()
			if d < time.Sunday || d > time.Saturday {
				panic(fmt.Sprintf("aggregate: weekday %d out of range for %s", d, r.ID))
			}
			return d, true
		},
		time.Weekday.String,
		func(a, b time.Weekday) bool { return a < b })
}

// ByDirection returns Long then Short. Trades with an unknown side are
// left out.
func ByDirection(recs []trade.Record) []Bucket {
	return build(recs,
		func(r trade.Record) (trade.Side, bool) {
			return r.Side, r.Side == trade.Long || r.Side == trade.Short
		},
		trade.Side.Title,
		func(a, b trade.Side) bool { return a < b })
}

// ByWeek groups by the Sunday starting the week of each exit.
func ByWeek(recs []trade.Record, loc *time.Location) []Bucket {
	return build(recs,
		func(r trade.Record) (string, bool) { return formatDay(WeekStart(r.ExitTime, loc)), true },
		identity,
		func(a, b string) bool { return a < b })
}

// DailyActivity groups by calendar day of entry, oldest first.
func DailyActivity(recs []trade.Record, loc *time.Location) []Bucket {
	return build(recs,
		func(r trade.Record) (string, bool) { return formatDay(Day(r.EntryTime, loc)), true },
		identity,
		func(a, b string) bool { return a < b })
}

// HourKey formats an hour bucket key.
func HourKey(h int) string {
	return fmt.Sprintf("%02d:00", h)
}

// Day truncates t to local midnight.
func Day(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// WeekStart returns local midnight of the Sunday on or before t.
func WeekStart(t time.Time, loc *time.Location) time.Time {
	d := Day(t, loc)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// ParseDay parses a DailyActivity or Week bucket key.
func ParseDay(key string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dayLayout, key, loc)
}

func formatDay(t time.Time) string { return t.Format(dayLayout) }

func identity(s string) string { return s }
