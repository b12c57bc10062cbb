package insight

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rustyeddy/tradejournal/aggregate"
)

const (
	directionEdgePoints = 10.0
	revisitWindow       = 7 * 24 * time.Hour
	lowConsistency      = 40.0
	highWinRate         = 60.0
)

// DefaultRules returns the idea rules in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{ID: "focus-instrument", Sentiment: Positive, Eval: focusInstrument},
		{ID: "cut-instrument", Sentiment: Opportunity, Eval: cutInstrument},
		{ID: "best-hour", Sentiment: Positive, Eval: bestHour},
		{ID: "worst-hour", Sentiment: Opportunity, Eval: worstHour},
		{ID: "best-day", Sentiment: Positive, Eval: bestDay},
		{ID: "direction-edge", Sentiment: Positive, Eval: directionEdge},
		{ID: "let-winners-run", Sentiment: Opportunity, Eval: letWinnersRun},
		{ID: "strong-risk-reward", Sentiment: Positive, Eval: strongRiskReward},
		{ID: "top-strategy", Sentiment: Positive, Eval: topStrategy},
		{ID: "revisit-instrument", Sentiment: Neutral, Eval: revisitInstrument},
		{ID: "consistency", Sentiment: Opportunity, Eval: consistency},
		{ID: "high-win-rate", Sentiment: Positive, Eval: highWinRateRule},
	}
}

func focusInstrument(c Context) (string, string, bool) {
	b := c.Summary.BestInstrument
	if b == nil || b.PnL <= 0 {
		return "", "", false
	}
	return "Focus on " + b.Key,
		fmt.Sprintf("%s is your strongest instrument with %s net across %s at a %s win rate.",
			b.Key, c.money(b.PnL), plural(b.Trades, "trade"), pct(b.WinRate)),
		true
}

func cutInstrument(c Context) (string, string, bool) {
	w, b := c.Summary.WorstInstrument, c.Summary.BestInstrument
	if w == nil || w.PnL >= 0 || (b != nil && b.Key == w.Key) {
		return "", "", false
	}
	return "Review your " + w.Key + " trades",
		fmt.Sprintf("%s has cost you %s over %s. Tighten your entry criteria or size down until the edge is clear.",
			w.Key, c.money(math.Abs(w.PnL)), plural(w.Trades, "trade")),
		true
}

func bestHour(c Context) (string, string, bool) {
	b := c.Summary.BestHour
	if b == nil || b.PnL <= 0 {
		return "", "", false
	}
	return "Your best hour is " + b.Key,
		fmt.Sprintf("Trades entered around %s netted %s with a %s win rate.", b.Key, c.money(b.PnL), pct(b.WinRate)),
		true
}

func worstHour(c Context) (string, string, bool) {
	w, b := c.Summary.WorstHour, c.Summary.BestHour
	if w == nil || w.PnL >= 0 || (b != nil && b.Key == w.Key) {
		return "", "", false
	}
	return "Be careful around " + w.Key,
		fmt.Sprintf("Trades entered around %s lost %s. Consider sitting that hour out.", w.Key, c.money(math.Abs(w.PnL))),
		true
}

func bestDay(c Context) (string, string, bool) {
	b := c.Summary.BestDay
	if b == nil || b.PnL <= 0 {
		return "", "", false
	}
	return b.Key + " is your best day",
		fmt.Sprintf("You made %s on %ss across %s.", c.money(b.PnL), b.Key, plural(b.Trades, "trade")),
		true
}

func directionEdge(c Context) (string, string, bool) {
	long, okL := aggregate.Find(c.Aggregates.Direction, "Long")
	short, okS := aggregate.Find(c.Aggregates.Direction, "Short")
	if !okL || !okS {
		return "", "", false
	}

	lead, lag := long, short
	if short.WinRate > long.WinRate {
		lead, lag = short, long
	}
	if lead.WinRate-lag.WinRate < directionEdgePoints {
		return "", "", false
	}
	return "Lean into " + strings.ToLower(lead.Key) + " trades",
		fmt.Sprintf("%s trades win %s of the time versus %s for %s trades.",
			lead.Key, pct(lead.WinRate), pct(lag.WinRate), strings.ToLower(lag.Key)),
		true
}

func letWinnersRun(c Context) (string, string, bool) {
	s := c.Summary
	if s.Losses == 0 || s.AvgLoss <= s.AvgWin {
		return "", "", false
	}
	return "Let your winners run",
		fmt.Sprintf("Your average loss (%s) is larger than your average win (%s). Give winning trades more room or cut losers sooner.",
			c.money(s.AvgLoss), c.money(s.AvgWin)),
		true
}

func strongRiskReward(c Context) (string, string, bool) {
	s := c.Summary
	if s.AvgLoss <= 0 || s.AvgWin < 2*s.AvgLoss {
		return "", "", false
	}
	return "Your winners outsize your losers",
		fmt.Sprintf("An average win of %s against an average loss of %s is a %.1f:1 payoff. Protect it.",
			c.money(s.AvgWin), c.money(s.AvgLoss), s.AvgWin/s.AvgLoss),
		true
}

func topStrategy(c Context) (string, string, bool) {
	b := c.Summary.BestStrategy
	if len(c.Aggregates.Strategy) < 2 || b == nil || b.PnL <= 0 {
		return "", "", false
	}
	return "Your " + b.Key + " setup is working",
		fmt.Sprintf("%s leads your strategies with %s over %s.", b.Key, c.money(b.PnL), plural(b.Trades, "trade")),
		true
}

// revisitInstrument looks for a profitable instrument that has gone untraded
// for a week before the latest exit in the snapshot.
func revisitInstrument(c Context) (string, string, bool) {
	if len(c.Records) == 0 {
		return "", "", false
	}

	var latest time.Time
	lastSeen := make(map[string]time.Time)
	for _, r := range c.Records {
		if r.ExitTime.After(latest) {
			latest = r.ExitTime
		}
		if r.EntryTime.After(lastSeen[r.Symbol]) {
			lastSeen[r.Symbol] = r.EntryTime
		}
	}
	cutoff := latest.Add(-revisitWindow)

	for _, b := range c.Aggregates.Instrument {
		if b.PnL <= 0 {
			continue
		}
		if lastSeen[b.Key].Before(cutoff) {
			return "Revisit " + b.Key,
				fmt.Sprintf("%s has made you %s but you have not traded it in the last 7 days.", b.Key, c.money(b.PnL)),
				true
		}
	}
	return "", "", false
}

func consistency(c Context) (string, string, bool) {
	v := c.Summary.Profile.Consistency
	if v >= lowConsistency {
		return "", "", false
	}
	return "Smooth out your daily swings",
		fmt.Sprintf("Your consistency score is %.0f out of 100. Daily results vary widely; a daily loss limit can cap the bad days.", v),
		true
}

func highWinRateRule(c Context) (string, string, bool) {
	s := c.Summary
	if s.WinRate < highWinRate {
		return "", "", false
	}
	return "You win more often than not",
		fmt.Sprintf("%d of your %d trades were winners (%s).", s.Wins, s.TotalTrades, pct(s.WinRate)),
		true
}
