package insight

import (
	"math"
	"time"

	"github.com/rustyeddy/tradejournal/aggregate"
	"github.com/rustyeddy/tradejournal/score"
	"github.com/rustyeddy/tradejournal/trade"
	"gonum.org/v1/gonum/stat"
)

// Thresholds tune the behavioral detector. Counts named Min or Max are
// exclusive bounds: a pattern needs strictly more than the value.
type Thresholds struct {
	MaxTradesPerDay       int           `json:"maxTradesPerDay" yaml:"max_trades_per_day"`
	RevengeWindow         time.Duration `json:"revengeWindow" yaml:"revenge_window"`
	RevengeSizeMultiple   float64       `json:"revengeSizeMultiple" yaml:"revenge_size_multiple"`
	RevengeMinProbability float64       `json:"revengeMinProbability" yaml:"revenge_min_probability"` // percent, inclusive
	FOMOLookback          int           `json:"fomoLookback" yaml:"fomo_lookback"`
	FOMOMinMove           float64       `json:"fomoMinMove" yaml:"fomo_min_move"` // fraction of entry price
	FOMOMaxCount          int           `json:"fomoMaxCount" yaml:"fomo_max_count"`
	SizingMaxCV           float64       `json:"sizingMaxCv" yaml:"sizing_max_cv"`
	SizingMinTrades       int           `json:"sizingMinTrades" yaml:"sizing_min_trades"`
	EmotionalMinFollowups int           `json:"emotionalMinFollowups" yaml:"emotional_min_followups"`
	TiltStreak            int           `json:"tiltStreak" yaml:"tilt_streak"` // inclusive
	SessionShare          float64       `json:"sessionShare" yaml:"session_share"`
	TimingMinTrades       int           `json:"timingMinTrades" yaml:"timing_min_trades"` // inclusive
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxTradesPerDay:       10,
		RevengeWindow:         30 * time.Minute,
		RevengeSizeMultiple:   1.5,
		RevengeMinProbability: 20,
		FOMOLookback:          10,
		FOMOMinMove:           0.05,
		FOMOMaxCount:          3,
		SizingMaxCV:           0.5,
		SizingMinTrades:       5,
		EmotionalMinFollowups: 3,
		TiltStreak:            3,
		SessionShare:          0.6,
		TimingMinTrades:       3,
	}
}

// Session is a band of local entry hours, [Start, End).
type Session struct {
	Name       string
	Start, End int
}

var Sessions = []Session{
	{Name: "Asia", Start: 0, End: 8},
	{Name: "Europe", Start: 8, End: 13},
	{Name: "US", Start: 13, End: 21},
	{Name: "Late", Start: 21, End: 24},
}

// SessionOf returns the session name for a local hour.
func SessionOf(hour int) string {
	for _, s := range Sessions {
		if hour >= s.Start && hour < s.End {
			return s.Name
		}
	}
	return ""
}

// Patterns are the behavioral flags and the measurements behind them.
type Patterns struct {
	Overtrading     bool `json:"overtrading"`
	MaxTradesInDay  int  `json:"maxTradesInDay"`
	OvertradingDays int  `json:"overtradingDays"`

	RevengeTrading          bool    `json:"revengeTrading"`
	RevengeInstances        int     `json:"revengeInstances"`
	RevengeTradeProbability float64 `json:"revengeTradeProbability"`

	FOMO       bool `json:"fomo"`
	FOMOTrades int  `json:"fomoTrades"`

	InconsistentSizing bool    `json:"inconsistentSizing"`
	SizeCV             float64 `json:"sizeCv"`

	EmotionalTrading bool    `json:"emotionalTrading"`
	AvgPnLAfterLoss  float64 `json:"avgPnlAfterLoss"`
	FollowUps        int     `json:"followUps"`

	Tilt       bool `json:"tilt"`
	TiltStreak int  `json:"tiltStreak"`

	BestHour        string `json:"bestHour,omitempty"`
	WorstHour       string `json:"worstHour,omitempty"`
	BestDay         string `json:"bestDay,omitempty"`
	WorstDay        string `json:"worstDay,omitempty"`
	SessionBias     bool   `json:"sessionBias"`
	DominantSession string `json:"dominantSession,omitempty"`
}

// DetectPatterns inspects recs, which must be in entry-time order. Fewer
// than score.MinRecords trades yield the zero value.
func DetectPatterns(recs []trade.Record, loc *time.Location, th Thresholds) Patterns {
	var p Patterns
	if len(recs) < score.MinRecords {
		return p
	}
	if loc == nil {
		loc = time.Local
	}

	overtrading(&p, recs, loc, th)
	revenge(&p, recs, th)
	fomo(&p, recs, th)
	sizing(&p, recs, th)
	afterLoss(&p, recs, th)
	tilt(&p, recs, loc, th)
	timing(&p, recs, loc, th)
	return p
}

func overtrading(p *Patterns, recs []trade.Record, loc *time.Location, th Thresholds) {
	for _, d := range aggregate.DailyActivity(recs, loc) {
		if d.Trades > p.MaxTradesInDay {
			p.MaxTradesInDay = d.Trades
		}
		if d.Trades > th.MaxTradesPerDay {
			p.OvertradingDays++
		}
	}
	p.Overtrading = p.OvertradingDays > 0
}

// revenge counts losses followed quickly by a larger trade. The probability
// is taken over losses that have a next trade at all.
func revenge(p *Patterns, recs []trade.Record, th Thresholds) {
	var followed int
	for i := 0; i+1 < len(recs); i++ {
		prev, next := recs[i], recs[i+1]
		if !prev.IsLoss() {
			continue
		}
		followed++

		gap := next.EntryTime.Sub(prev.ExitTime)
		if gap < 0 || gap >= th.RevengeWindow {
			continue
		}
		if prev.Size > 0 && next.Size > prev.Size*th.RevengeSizeMultiple {
			p.RevengeInstances++
		}
	}
	if followed == 0 {
		return
	}
	p.RevengeTradeProbability = round2(float64(p.RevengeInstances) / float64(followed) * 100)
	p.RevengeTrading = p.RevengeInstances > 0 && p.RevengeTradeProbability >= th.RevengeMinProbability
}

// fomo looks for recent losers entered after the price had already run.
func fomo(p *Patterns, recs []trade.Record, th Thresholds) {
	start := len(recs) - th.FOMOLookback
	if start < 0 {
		start = 0
	}
	for _, r := range recs[start:] {
		if !r.IsLoss() || r.EntryPrice <= 0 || r.ExitPrice <= 0 {
			continue
		}
		if math.Abs(r.ExitPrice-r.EntryPrice)/r.EntryPrice > th.FOMOMinMove {
			p.FOMOTrades++
		}
	}
	p.FOMO = p.FOMOTrades > th.FOMOMaxCount
}

func sizing(p *Patterns, recs []trade.Record, th Thresholds) {
	var sizes []float64
	for _, r := range recs {
		if r.Size > 0 {
			sizes = append(sizes, r.Size)
		}
	}
	if len(sizes) <= th.SizingMinTrades {
		return
	}
	mean, variance := stat.PopMeanVariance(sizes, nil)
	if mean == 0 {
		return
	}
	p.SizeCV = round2(math.Sqrt(variance) / mean)
	p.InconsistentSizing = p.SizeCV > th.SizingMaxCV
}

func afterLoss(p *Patterns, recs []trade.Record, th Thresholds) {
	var sum float64
	for i := 0; i+1 < len(recs); i++ {
		if recs[i].IsLoss() {
			p.FollowUps++
			sum += recs[i+1].PnLFloat()
		}
	}
	if p.FollowUps == 0 {
		return
	}
	p.AvgPnLAfterLoss = round2(sum / float64(p.FollowUps))
	p.EmotionalTrading = p.FollowUps > th.EmotionalMinFollowups && p.AvgPnLAfterLoss < 0
}

// tilt finds the longest run of consecutive losses inside one local day.
func tilt(p *Patterns, recs []trade.Record, loc *time.Location, th Thresholds) {
	var run int
	var day time.Time
	for _, r := range recs {
		d := aggregate.Day(r.EntryTime, loc)
		if !d.Equal(day) {
			day, run = d, 0
		}
		if !r.IsLoss() {
			run = 0
			continue
		}
		run++
		if run > p.TiltStreak {
			p.TiltStreak = run
		}
	}
	p.Tilt = p.TiltStreak >= th.TiltStreak
}

func timing(p *Patterns, recs []trade.Record, loc *time.Location, th Thresholds) {
	p.BestHour, p.WorstHour = extremes(aggregate.ByHour(recs, loc), th.TimingMinTrades)
	p.BestDay, p.WorstDay = extremes(aggregate.ByDayOfWeek(recs, loc), th.TimingMinTrades)

	counts := make(map[string]int, len(Sessions))
	for _, r := range recs {
		counts[SessionOf(r.EntryTime.In(loc).Hour())]++
	}
	for _, s := range Sessions {
		if float64(counts[s.Name])/float64(len(recs)) > th.SessionShare {
			p.SessionBias = true
			p.DominantSession = s.Name
			return
		}
	}
}

// extremes picks the most profitable and the most losing bucket among those
// with enough trades. Either is empty if no bucket qualifies.
func extremes(bs []aggregate.Bucket, minTrades int) (best, worst string) {
	var hi, lo float64
	for _, b := range bs {
		if b.Trades < minTrades {
			continue
		}
		if b.PnL > hi {
			hi, best = b.PnL, b.Key
		}
		if b.PnL < lo {
			lo, worst = b.PnL, b.Key
		}
	}
	return best, worst
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
