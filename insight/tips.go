package insight

import (
	"fmt"
	"sort"

	"github.com/rustyeddy/tradejournal/score"
)

// Severity orders tips, most urgent first. It is used to sort, never to
// filter.
type Severity int

const (
	Critical Severity = iota
	Warning
	Action
	Success
	Info
	Hint
)

var severityNames = [...]string{"critical", "warning", "action", "success", "info", "tip"}

func (s Severity) String() string {
	if s < Critical || s > Hint {
		return fmt.Sprintf("severity(%d)", int(s))
	}
	return severityNames[s]
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Tip is a coaching message. Key is stable across runs so a caller can
// persist dismissals.
type Tip struct {
	Icon     string   `json:"icon"`
	Severity Severity `json:"severity"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Key      string   `json:"key"`
}

const (
	weakProfitFactor   = 1.0
	strongProfitFactor = 2.0
	deepDrawdown       = 0.5
	goodSharpe         = 0.5
	longStreak         = 5
	highVolatility     = 1.5
)

// KeepTrading is emitted when nothing else applies.
var KeepTrading = Tip{
	Icon:     "sparkles",
	Severity: Info,
	Title:    "Keep journaling",
	Message:  "No strong patterns yet. Keep logging trades and the picture will sharpen.",
	Key:      "keep-trading",
}

// GenerateTips turns patterns and metrics into tips sorted by severity.
// count is the number of normalized trades; with none there is nothing to
// coach, and below score.MinRecords only the fallback is returned.
func GenerateTips(p Patterns, m Metrics, count int, th Thresholds, format Formatter) []Tip {
	tips := []Tip{}
	if count == 0 {
		return tips
	}
	if count < score.MinRecords {
		return append(tips, KeepTrading)
	}

	money := Context{Format: format}.money
	tips = append(tips, patternTips(p, th, money)...)
	tips = append(tips, metricTips(m, money)...)
	tips = append(tips, timingTips(p)...)

	if len(tips) == 0 {
		return append(tips, KeepTrading)
	}
	sort.SliceStable(tips, func(i, j int) bool { return tips[i].Severity < tips[j].Severity })
	return tips
}

func patternTips(p Patterns, th Thresholds, money func(float64) string) []Tip {
	var tips []Tip
	if p.RevengeTrading {
		tips = append(tips, Tip{
			Icon: "flame", Severity: Critical, Key: "revenge-trading",
			Title: "Revenge trading detected",
			Message: fmt.Sprintf("%s of your losses were followed within %.0f minutes by a trade more than %.1fx larger. Step away after a loss before sizing up.",
				pct(p.RevengeTradeProbability), th.RevengeWindow.Minutes(), th.RevengeSizeMultiple),
		})
	}
	if p.Tilt {
		tips = append(tips, Tip{
			Icon: "alert-octagon", Severity: Critical, Key: "tilt",
			Title:   "Watch for tilt",
			Message: fmt.Sprintf("You strung together %d losses in a single day. Set a stop after %d consecutive losers.", p.TiltStreak, th.TiltStreak),
		})
	}
	if p.Overtrading {
		tips = append(tips, Tip{
			Icon: "activity", Severity: Warning, Key: "overtrading",
			Title: "You may be overtrading",
			Message: fmt.Sprintf("You placed up to %d trades in one day, over the %d limit on %s. Fewer, better setups usually pay more.",
				p.MaxTradesInDay, th.MaxTradesPerDay, plural(p.OvertradingDays, "day")),
		})
	}
	if p.EmotionalTrading {
		tips = append(tips, Tip{
			Icon: "heart", Severity: Warning, Key: "emotional-trading",
			Title:   "Losses are carrying over",
			Message: fmt.Sprintf("The trade right after a loss averages %s across %s. Reset before the next entry.", money(p.AvgPnLAfterLoss), plural(p.FollowUps, "trade")),
		})
	}
	if p.FOMO {
		tips = append(tips, Tip{
			Icon: "trending-up", Severity: Warning, Key: "fomo",
			Title:   "Chasing extended moves",
			Message: fmt.Sprintf("%d of your last %d trades lost after entering a move of more than %s. Wait for a pullback.", p.FOMOTrades, th.FOMOLookback, pct(th.FOMOMinMove*100)),
		})
	}
	if p.InconsistentSizing {
		tips = append(tips, Tip{
			Icon: "scale", Severity: Action, Key: "inconsistent-sizing",
			Title:   "Standardize your position size",
			Message: fmt.Sprintf("Your trade size varies by %s of its average. A fixed risk per trade keeps results comparable.", pct(p.SizeCV*100)),
		})
	}
	return tips
}

func metricTips(m Metrics, money func(float64) string) []Tip {
	var tips []Tip
	switch {
	case m.GrossLoss > 0 && m.ProfitFactor < weakProfitFactor:
		tips = append(tips, Tip{
			Icon: "trending-down", Severity: Warning, Key: "low-profit-factor",
			Title:   "Losses outweigh gains",
			Message: fmt.Sprintf("Your profit factor is %.2f: %s won against %s lost.", m.ProfitFactor, money(m.GrossProfit), money(m.GrossLoss)),
		})
	case m.ProfitFactor >= strongProfitFactor:
		tips = append(tips, Tip{
			Icon: "trophy", Severity: Success, Key: "strong-profit-factor",
			Title:   "Strong profit factor",
			Message: fmt.Sprintf("You make %.2f for every 1 you lose. Keep doing what works.", m.ProfitFactor),
		})
	}
	if m.DrawdownRatio > deepDrawdown {
		tips = append(tips, Tip{
			Icon: "shield", Severity: Action, Key: "deep-drawdown",
			Title:   "Cap your drawdown",
			Message: fmt.Sprintf("Your deepest drawdown was %s, %s of peak profit. A daily loss limit would protect gains.", money(m.MaxDrawdown), pct(m.DrawdownRatio*100)),
		})
	}
	switch {
	case m.Sharpe >= goodSharpe:
		tips = append(tips, Tip{
			Icon: "award", Severity: Success, Key: "steady-returns",
			Title:   "Steady risk-adjusted returns",
			Message: fmt.Sprintf("Your per-trade Sharpe ratio is %.2f.", m.Sharpe),
		})
	case m.Sharpe < 0:
		tips = append(tips, Tip{
			Icon: "bar-chart", Severity: Info, Key: "negative-sharpe",
			Title:   "Returns do not cover the risk",
			Message: fmt.Sprintf("Your per-trade Sharpe ratio is %.2f. Focus on your best setups.", m.Sharpe),
		})
	}
	if m.LongestLossStreak >= longStreak {
		tips = append(tips, Tip{
			Icon: "cloud-rain", Severity: Warning, Key: "loss-streak",
			Title:   "Long losing streak",
			Message: fmt.Sprintf("Your longest losing streak is %s. Review what changed during it.", plural(m.LongestLossStreak, "trade")),
		})
	}
	if m.LongestWinStreak >= longStreak {
		tips = append(tips, Tip{
			Icon: "star", Severity: Success, Key: "win-streak",
			Title:   "Hot streak",
			Message: fmt.Sprintf("You won %d trades in a row. Note the conditions so you can repeat them.", m.LongestWinStreak),
		})
	}
	if m.Volatility > highVolatility {
		tips = append(tips, Tip{
			Icon: "zap", Severity: Action, Key: "high-volatility",
			Title:   "Results swing widely",
			Message: fmt.Sprintf("Your P&L volatility is %.2fx your average trade. Tighter stops would smooth the curve.", m.Volatility),
		})
	}
	return tips
}

func timingTips(p Patterns) []Tip {
	var tips []Tip
	if p.BestHour != "" {
		tips = append(tips, Tip{
			Icon: "sun", Severity: Hint, Key: "best-hour",
			Title:   "Trade your best hour",
			Message: fmt.Sprintf("Your entries around %s are the most profitable. Plan your session around it.", p.BestHour),
		})
	}
	if p.WorstHour != "" {
		tips = append(tips, Tip{
			Icon: "moon", Severity: Info, Key: "worst-hour",
			Title:   "Avoid your worst hour",
			Message: fmt.Sprintf("Entries around %s lose the most.", p.WorstHour),
		})
	}
	if p.BestDay != "" {
		tips = append(tips, Tip{
			Icon: "calendar", Severity: Hint, Key: "best-day",
			Title:   "Lean on your best day",
			Message: fmt.Sprintf("%s is your most profitable day of the week.", p.BestDay),
		})
	}
	if p.WorstDay != "" {
		tips = append(tips, Tip{
			Icon: "calendar-x", Severity: Info, Key: "worst-day",
			Title:   "Go lighter on your worst day",
			Message: fmt.Sprintf("%s loses the most. Consider smaller size or sitting it out.", p.WorstDay),
		})
	}
	if p.SessionBias {
		tips = append(tips, Tip{
			Icon: "globe", Severity: Info, Key: "session-bias",
			Title:   "Most of your trades are in one session",
			Message: fmt.Sprintf("The %s session holds most of your activity.", p.DominantSession),
		})
	}
	return tips
}
