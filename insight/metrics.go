package insight

import (
	"math"

	"github.com/rustyeddy/tradejournal/trade"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// Metrics are derived risk measures over the chronological P&L series.
type Metrics struct {
	GrossProfit  float64 `json:"grossProfit"`
	GrossLoss    float64 `json:"grossLoss"`    // absolute value
	ProfitFactor float64 `json:"profitFactor"` // 0 without losses

	MaxDrawdown   float64 `json:"maxDrawdown"`
	PeakPnL       float64 `json:"peakPnl"`
	DrawdownRatio float64 `json:"drawdownRatio"`

	Sharpe     float64 `json:"sharpe"`     // mean / stddev per trade
	Volatility float64 `json:"volatility"` // stddev / mean |pnl|

	LongestWinStreak  int `json:"longestWinStreak"`
	LongestLossStreak int `json:"longestLossStreak"`
}

// ComputeMetrics walks recs in order. Breakeven trades end both streaks.
func ComputeMetrics(recs []trade.Record) Metrics {
	var m Metrics
	if len(recs) == 0 {
		return m
	}

	var profit, loss, equity, peak, maxDD decimal.Decimal
	var wins, losses int
	pnls := make([]float64, len(recs))
	abs := make([]float64, len(recs))

	for i, r := range recs {
		pnls[i] = r.PnLFloat()
		abs[i] = math.Abs(pnls[i])

		switch {
		case r.IsWin():
			profit = profit.Add(r.PnL)
			wins++
			losses = 0
		case r.IsLoss():
			loss = loss.Add(r.PnL.Abs())
			losses++
			wins = 0
		default:
			wins, losses = 0, 0
		}
		m.LongestWinStreak = max(m.LongestWinStreak, wins)
		m.LongestLossStreak = max(m.LongestLossStreak, losses)

		equity = equity.Add(r.PnL)
		if equity.GreaterThan(peak) {
			peak = equity
		}
		if dd := peak.Sub(equity); dd.GreaterThan(maxDD) {
			maxDD = dd
		}
	}

	m.GrossProfit = profit.Round(2).InexactFloat64()
	m.GrossLoss = loss.Round(2).InexactFloat64()
	if loss.IsPositive() {
		m.ProfitFactor = round2(profit.Div(loss).InexactFloat64())
	}

	m.MaxDrawdown = maxDD.Round(2).InexactFloat64()
	m.PeakPnL = peak.Round(2).InexactFloat64()
	switch {
	case peak.IsPositive():
		m.DrawdownRatio = round2(maxDD.Div(peak).InexactFloat64())
	case maxDD.IsPositive():
		// never above water
		m.DrawdownRatio = 1
	}

	mean, variance := stat.PopMeanVariance(pnls, nil)
	std := math.Sqrt(variance)
	if std > 0 {
		m.Sharpe = round2(mean / std)
	}
	if meanAbs := stat.Mean(abs, nil); meanAbs > 0 {
		m.Volatility = round2(std / meanAbs)
	}
	return m
}
