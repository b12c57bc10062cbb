package insight

import (
	"fmt"
	"testing"
	"time"

	"github.com/rustyeddy/tradejournal/aggregate"
	"github.com/rustyeddy/tradejournal/score"
	"github.com/rustyeddy/tradejournal/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-04-01 is a Monday.
var t0 = time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

func mk(sym string, side trade.Side, pnl float64, at time.Time) trade.Record {
	return trade.Record{
		ID:        fmt.Sprintf("%s-%d", sym, at.Unix()),
		Symbol:    sym,
		Side:      side,
		PnL:       decimal.NewFromFloat(pnl),
		EntryTime: at,
		ExitTime:  at.Add(5 * time.Minute),
	}
}

func context(t *testing.T, recs []trade.Record) Context {
	t.Helper()
	trade.SortChronological(recs)
	aggs := aggregate.Build(recs, time.UTC)
	s, ok := score.Compute(aggs, recs)
	require.True(t, ok)
	return Context{Aggregates: aggs, Summary: s, Records: recs}
}

func ids(ideas []Idea) []string {
	out := make([]string, len(ideas))
	for i, idea := range ideas {
		out[i] = idea.ID
	}
	return out
}

func TestGenerateIdeasWithoutSummary(t *testing.T) {
	t.Parallel()

	ideas := GenerateIdeas(Context{}, DefaultRules())
	assert.NotNil(t, ideas)
	assert.Empty(t, ideas)
}

func TestGenerateIdeasDedupe(t *testing.T) {
	t.Parallel()

	yes := func(Context) (string, string, bool) { return "t", "x", true }
	no := func(Context) (string, string, bool) { return "", "", false }
	rules := []Rule{
		{ID: "a", Sentiment: Neutral, Eval: no},
		{ID: "a", Sentiment: Neutral, Eval: yes},
		{ID: "b", Sentiment: Positive, Eval: yes},
		{ID: "a", Sentiment: Opportunity, Eval: yes},
	}
	ideas := GenerateIdeas(Context{Summary: &score.Summary{}}, rules)
	assert.Equal(t, []string{"a", "b"}, ids(ideas))
	assert.Equal(t, Neutral, ideas[0].Sentiment)
}

func TestDirectionEdgeIdea(t *testing.T) {
	t.Parallel()

	var recs []trade.Record
	at := t0
	for i := 0; i < 10; i++ {
		pnl := 10.0
		if i >= 8 {
			pnl = -5
		}
		recs = append(recs, mk("ES", trade.Long, pnl, at))
		at = at.Add(time.Hour)
	}
	for i := 0; i < 10; i++ {
		pnl := 10.0
		if i >= 5 {
			pnl = -5
		}
		recs = append(recs, mk("ES", trade.Short, pnl, at))
		at = at.Add(time.Hour)
	}

	ideas := GenerateIdeas(context(t, recs), DefaultRules())
	var edge *Idea
	for i := range ideas {
		if ideas[i].ID == "direction-edge" {
			edge = &ideas[i]
		}
	}
	require.NotNil(t, edge)
	assert.Equal(t, "Lean into long trades", edge.Title)
	assert.Contains(t, edge.Insight, "80%")
	assert.Contains(t, edge.Insight, "50%")
	assert.Equal(t, Positive, edge.Sentiment)
}

func TestDirectionEdgeBelowGap(t *testing.T) {
	t.Parallel()

	recs := []trade.Record{
		mk("ES", trade.Long, 10, t0),
		mk("ES", trade.Long, -10, t0.Add(time.Hour)),
		mk("ES", trade.Short, 10, t0.Add(2*time.Hour)),
		mk("ES", trade.Short, -10, t0.Add(3*time.Hour)),
		mk("ES", trade.Short, 5, t0.Add(4*time.Hour)),
		mk("ES", trade.Long, 5, t0.Add(5*time.Hour)),
	}
	ideas := GenerateIdeas(context(t, recs), DefaultRules())
	assert.NotContains(t, ids(ideas), "direction-edge")
}

func TestInstrumentIdeas(t *testing.T) {
	t.Parallel()

	recs := []trade.Record{
		mk("EUR_USD", trade.Long, 120, t0),
		mk("EUR_USD", trade.Long, 80, t0.Add(time.Hour)),
		mk("GBP_USD", trade.Short, -60, t0.Add(2*time.Hour)),
		mk("GBP_USD", trade.Short, -40, t0.Add(3*time.Hour)),
		mk("USD_JPY", trade.Long, 5, t0.Add(4*time.Hour)),
	}
	c := context(t, recs)
	c.Format = func(v float64) string { return fmt.Sprintf("<%.0f>", v) }
	ideas := GenerateIdeas(c, DefaultRules())

	got := ids(ideas)
	require.Contains(t, got, "focus-instrument")
	require.Contains(t, got, "cut-instrument")
	assert.Equal(t, "focus-instrument", got[0])

	assert.Equal(t, "Focus on EUR_USD", ideas[0].Title)
	assert.Contains(t, ideas[0].Insight, "<200>")
	assert.Contains(t, ideas[1].Insight, "<100>")
	assert.Equal(t, Opportunity, ideas[1].Sentiment)
}

func TestLetWinnersRunIdea(t *testing.T) {
	t.Parallel()

	recs := []trade.Record{
		mk("ES", trade.Long, 10, t0),
		mk("ES", trade.Long, 10, t0.Add(time.Hour)),
		mk("ES", trade.Long, 10, t0.Add(2*time.Hour)),
		mk("ES", trade.Long, -40, t0.Add(3*time.Hour)),
		mk("ES", trade.Long, 10, t0.Add(4*time.Hour)),
	}
	got := ids(GenerateIdeas(context(t, recs), DefaultRules()))
	assert.Contains(t, got, "let-winners-run")
	assert.NotContains(t, got, "strong-risk-reward")
	assert.Contains(t, got, "high-win-rate")
}

func TestRevisitInstrumentIdea(t *testing.T) {
	t.Parallel()

	old := t0.AddDate(0, 0, -20)
	recs := []trade.Record{
		mk("GOLD", trade.Long, 50, old),
		mk("SILVER", trade.Long, 20, old.Add(time.Hour)),
		mk("ES", trade.Long, -10, t0),
		mk("ES", trade.Long, 15, t0.Add(time.Hour)),
		mk("ES", trade.Short, 5, t0.Add(2*time.Hour)),
	}
	ideas := GenerateIdeas(context(t, recs), DefaultRules())

	var revisit []Idea
	for _, idea := range ideas {
		if idea.ID == "revisit-instrument" {
			revisit = append(revisit, idea)
		}
	}
	require.Len(t, revisit, 1)
	assert.Equal(t, "Revisit GOLD", revisit[0].Title)
	assert.Equal(t, Neutral, revisit[0].Sentiment)
}

func TestRevisitSkipsRecentInstruments(t *testing.T) {
	t.Parallel()

	recs := []trade.Record{
		mk("GOLD", trade.Long, 50, t0.AddDate(0, 0, -3)),
		mk("ES", trade.Long, -10, t0),
		mk("ES", trade.Long, 15, t0.Add(time.Hour)),
		mk("ES", trade.Short, 5, t0.Add(2*time.Hour)),
		mk("ES", trade.Short, 5, t0.Add(3*time.Hour)),
	}
	got := ids(GenerateIdeas(context(t, recs), DefaultRules()))
	assert.NotContains(t, got, "revisit-instrument")
}

func TestDefaultFormat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "$12.50", DefaultFormat(12.5))
	assert.Equal(t, "-$3.00", DefaultFormat(-3))
	assert.Equal(t, "$0.00", DefaultFormat(0))
}

func TestDefaultRulesUnique(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for _, r := range DefaultRules() {
		assert.False(t, seen[r.ID], r.ID)
		seen[r.ID] = true
		assert.NotNil(t, r.Eval, r.ID)
	}
	assert.Len(t, seen, 12)
}
