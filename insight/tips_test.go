package insight

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rustyeddy/tradejournal/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keys(tips []Tip) []string {
	out := make([]string, len(tips))
	for i, tip := range tips {
		out[i] = tip.Key
	}
	return out
}

func series(pnls ...float64) []trade.Record {
	recs := make([]trade.Record, len(pnls))
	for i, p := range pnls {
		recs[i] = mk("ES", trade.Long, p, t0.Add(time.Duration(i)*time.Hour))
	}
	return recs
}

func TestComputeMetrics(t *testing.T) {
	t.Parallel()

	m := ComputeMetrics(series(100, -50, -30, 80, 0))
	assert.Equal(t, 180.0, m.GrossProfit)
	assert.Equal(t, 80.0, m.GrossLoss)
	assert.Equal(t, 2.25, m.ProfitFactor)
	assert.Equal(t, 80.0, m.MaxDrawdown)
	assert.Equal(t, 100.0, m.PeakPnL)
	assert.Equal(t, 0.8, m.DrawdownRatio)
	assert.Equal(t, 0.34, m.Sharpe)
	assert.Equal(t, 1.15, m.Volatility)
	assert.Equal(t, 1, m.LongestWinStreak)
	assert.Equal(t, 2, m.LongestLossStreak)
}

func TestComputeMetricsEdges(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Metrics{}, ComputeMetrics(nil))

	m := ComputeMetrics(series(10, 10, 10))
	assert.Equal(t, 0.0, m.ProfitFactor)
	assert.Equal(t, 0.0, m.MaxDrawdown)
	assert.Equal(t, 0.0, m.Sharpe)
	assert.Equal(t, 3, m.LongestWinStreak)

	m = ComputeMetrics(series(-10, -5))
	assert.Equal(t, 15.0, m.MaxDrawdown)
	assert.Equal(t, 0.0, m.PeakPnL)
	assert.Equal(t, 1.0, m.DrawdownRatio)

	m = ComputeMetrics(series(5, 0, 5, -1, 0, -1))
	assert.Equal(t, 1, m.LongestWinStreak)
	assert.Equal(t, 1, m.LongestLossStreak)
}

func TestComputeMetricsDecimalSums(t *testing.T) {
	t.Parallel()

	recs := series(0, 0, 0)
	for i := range recs {
		recs[i].PnL = decimal.RequireFromString("0.1")
	}
	recs[2].PnL = decimal.RequireFromString("-0.3")
	m := ComputeMetrics(recs)
	assert.Equal(t, 0.2, m.GrossProfit)
	assert.Equal(t, 0.3, m.GrossLoss)
}

func TestGenerateTipsCounts(t *testing.T) {
	t.Parallel()

	th := DefaultThresholds()
	assert.Empty(t, GenerateTips(Patterns{}, Metrics{}, 0, th, nil))
	assert.NotNil(t, GenerateTips(Patterns{}, Metrics{}, 0, th, nil))

	tips := GenerateTips(Patterns{RevengeTrading: true}, Metrics{}, 4, th, nil)
	assert.Equal(t, []Tip{KeepTrading}, tips)

	tips = GenerateTips(Patterns{}, Metrics{}, 5, th, nil)
	assert.Equal(t, []Tip{KeepTrading}, tips)
}

func TestGenerateTipsSeverityOrder(t *testing.T) {
	t.Parallel()

	p := Patterns{
		BestHour:                "09:00",
		Overtrading:             true,
		MaxTradesInDay:          14,
		OvertradingDays:         2,
		InconsistentSizing:      true,
		SizeCV:                  0.9,
		RevengeTrading:          true,
		RevengeInstances:        2,
		RevengeTradeProbability: 50,
	}
	m := Metrics{ProfitFactor: 2.5, GrossProfit: 250, GrossLoss: 100}

	tips := GenerateTips(p, m, 20, DefaultThresholds(), nil)
	assert.Equal(t, []string{
		"revenge-trading", "overtrading", "inconsistent-sizing", "strong-profit-factor", "best-hour",
	}, keys(tips))

	for i := 1; i < len(tips); i++ {
		assert.LessOrEqual(t, tips[i-1].Severity, tips[i].Severity)
	}
	assert.Contains(t, tips[0].Message, "50%")
	assert.Contains(t, tips[0].Message, "within 30 minutes")
	assert.Contains(t, tips[1].Message, "14 trades")
	assert.Contains(t, tips[1].Message, "2 days")
}

func TestTimingTips(t *testing.T) {
	t.Parallel()

	// winning Mondays and losing Tuesdays, alternating weeks
	var recs []trade.Record
	for w := 0; w < 4; w++ {
		monday := t0.AddDate(0, 0, 7*w)
		recs = append(recs,
			mk("ES", trade.Long, 20, monday),
			mk("ES", trade.Long, -15, monday.AddDate(0, 0, 1)),
		)
	}
	th := DefaultThresholds()
	p := DetectPatterns(recs, time.UTC, th)
	require.Equal(t, "Monday", p.BestDay)
	require.Equal(t, "Tuesday", p.WorstDay)

	tips := GenerateTips(p, ComputeMetrics(recs), len(recs), th, nil)
	byKey := make(map[string]Tip, len(tips))
	for _, tip := range tips {
		byKey[tip.Key] = tip
	}
	require.Contains(t, byKey, "best-day")
	require.Contains(t, byKey, "worst-day")
	assert.Equal(t, Hint, byKey["best-day"].Severity)
	assert.Equal(t, Info, byKey["worst-day"].Severity)
	assert.Contains(t, byKey["best-day"].Message, "Monday")
	assert.Contains(t, byKey["worst-day"].Message, "Tuesday")
}

func TestGenerateTipsMetrics(t *testing.T) {
	t.Parallel()

	m := Metrics{
		GrossProfit:       50,
		GrossLoss:         100,
		ProfitFactor:      0.5,
		MaxDrawdown:       90,
		PeakPnL:           100,
		DrawdownRatio:     0.9,
		Sharpe:            -0.2,
		LongestLossStreak: 6,
		Volatility:        2,
	}
	format := func(v float64) string { return "EUR" }
	tips := GenerateTips(Patterns{}, m, 10, DefaultThresholds(), format)

	assert.Equal(t, []string{
		"low-profit-factor", "loss-streak", "deep-drawdown", "high-volatility", "negative-sharpe",
	}, keys(tips))
	assert.Contains(t, tips[0].Message, "EUR")
	assert.Equal(t, Warning, tips[0].Severity)
	assert.Equal(t, Info, tips[len(tips)-1].Severity)
}

func TestRevengeScenarioTips(t *testing.T) {
	t.Parallel()

	at := t0.Add(4 * time.Hour)
	recs := []trade.Record{
		sized(mk("ES", trade.Long, 10, t0.AddDate(0, 0, -3)), 1),
		sized(mk("ES", trade.Long, 10, t0.AddDate(0, 0, -2)), 1),
		sized(mk("ES", trade.Long, 10, t0.AddDate(0, 0, -1)), 1),
		sized(mk("ES", trade.Long, -25, at), 1.0),
		sized(mk("ES", trade.Long, 5, at.Add(10*time.Minute)), 2.0),
	}
	th := DefaultThresholds()
	p := DetectPatterns(recs, time.UTC, th)
	require.True(t, p.RevengeTrading)

	tips := GenerateTips(p, ComputeMetrics(recs), len(recs), th, nil)
	require.NotEmpty(t, tips)
	assert.Equal(t, "revenge-trading", tips[0].Key)
	assert.Equal(t, Critical, tips[0].Severity)
}

func TestSeverityText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		s    Severity
		want string
	}{
		{Critical, "critical"},
		{Warning, "warning"},
		{Action, "action"},
		{Success, "success"},
		{Info, "info"},
		{Hint, "tip"},
		{Severity(42), "severity(42)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.s.String())
	}

	b, err := json.Marshal(Tip{Severity: Action, Key: "k"})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"severity":"action"`)
}
