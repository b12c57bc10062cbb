package score

import (
	"math"
	"time"

	"github.com/rustyeddy/tradejournal/aggregate"
	"gonum.org/v1/gonum/stat"
)

const (
	// A 3:1 average win to average loss ratio scores 100.
	fullRiskReward = 3.0
	// Five active days per week scores 100.
	fullDaysPerWeek = 5.0
	// Consistency when there are not enough days to measure spread.
	defaultConsistency = 80.0
	minConsistency     = 10.0
	// CV at which consistency bottoms out.
	maxCV = 3.0
)

// Profile is the composite skill score, every axis on a 0-100 scale.
type Profile struct {
	WinRate     float64 `json:"winRate"`
	RiskReward  float64 `json:"riskReward"`
	Consistency float64 `json:"consistency"`
	Volume      float64 `json:"volume"`
	BestDay     float64 `json:"bestDay"`
	Direction   float64 `json:"direction"`
}

type Axis struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Axes lists the profile in chart order.
func (p Profile) Axes() []Axis {
	return []Axis{
		{"Win Rate", p.WinRate},
		{"Risk:Reward", p.RiskReward},
		{"Consistency", p.Consistency},
		{"Volume", p.Volume},
		{"Best Day", p.BestDay},
		{"Direction", p.Direction},
	}
}

func buildProfile(s *Summary, aggs aggregate.Aggregates) Profile {
	p := Profile{
		WinRate:     clamp(0, 100, s.WinRate),
		RiskReward:  clamp(0, 100, math.Round(RiskReward(s.AvgWin, s.AvgLoss)/fullRiskReward*100)),
		Consistency: Consistency(dailyPnL(aggs.DailyActivity)),
		Volume:      Volume(aggs.DailyActivity),
		Direction:   clamp(0, 100, math.Round(s.WinDirectionWinRate)),
	}
	if s.BestDay != nil {
		p.BestDay = clamp(0, 100, math.Round(s.BestDay.WinRate))
	}
	return p
}

// RiskReward is avgWin/avgLoss, 0 when there are no losses.
func RiskReward(avgWin, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 0
	}
	return avgWin / avgLoss
}

// Consistency scores the coefficient of variation of daily P&L.
// A zero mean with any spread is the worst case.
func Consistency(daily []float64) float64 {
	if len(daily) < 2 {
		return defaultConsistency
	}

	mean, variance := stat.PopMeanVariance(daily, nil)
	std := math.Sqrt(variance)

	var cv float64
	switch {
	case std == 0:
		cv = 0
	case mean == 0:
		cv = maxCV
	default:
		cv = std / math.Abs(mean)
	}
	return clamp(minConsistency, 100, math.Round(100-(cv/maxCV)*90))
}

// Volume scores active days per elapsed week.
func Volume(daily []aggregate.Bucket) float64 {
	if len(daily) == 0 {
		return 0
	}
	first, err1 := aggregate.ParseDay(daily[0].Key, time.UTC)
	last, err2 := aggregate.ParseDay(daily[len(daily)-1].Key, time.UTC)
	if err1 != nil || err2 != nil {
		panic("score: daily activity keys must be YYYY-MM-DD")
	}

	spanDays := last.Sub(first).Hours()/24 + 1
	weeks := math.Max(1, spanDays/7)
	perWeek := float64(len(daily)) / weeks
	return clamp(0, 100, math.Round(perWeek/fullDaysPerWeek*100))
}

func dailyPnL(daily []aggregate.Bucket) []float64 {
	out := make([]float64, len(daily))
	for i, b := range daily {
		out[i] = b.PnL
	}
	return out
}

func clamp(lo, hi, x float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
