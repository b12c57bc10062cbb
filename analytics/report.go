package analytics

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/rustyeddy/tradejournal/aggregate"
	"github.com/rustyeddy/tradejournal/insight"
)

const rule = "--------------------------------------------------"

// PrintReport writes a plain text report. A nil format uses
// insight.DefaultFormat.
func PrintReport(w io.Writer, r Report, format insight.Formatter) {
	if format == nil {
		format = insight.DefaultFormat
	}

	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Trade Analytics")
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, "Trades:        %d\n", len(r.Records))
	if len(r.Rejected) > 0 {
		fmt.Fprintf(w, "Rejected rows: %d\n", len(r.Rejected))
	}

	if !r.HasEnoughData {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Not enough data yet. Log at least 5 trades for a full report.")
		printTips(w, r.Tips)
		fmt.Fprintln(w)
		return
	}

	s := r.Summary
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Summary")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Wins:          %d\n", s.Wins)
	fmt.Fprintf(w, "Losses:        %d\n", s.Losses)
	fmt.Fprintf(w, "Win Rate:      %.0f%%\n", s.WinRate)
	fmt.Fprintf(w, "Net P/L:       %s\n", format(s.TotalPnL))
	fmt.Fprintf(w, "Avg Win:       %s\n", format(s.AvgWin))
	fmt.Fprintf(w, "Avg Loss:      %s\n", format(s.AvgLoss))
	if r.Metrics.ProfitFactor > 0 {
		fmt.Fprintf(w, "Profit Factor: %.2f\n", r.Metrics.ProfitFactor)
	}
	if r.Metrics.MaxDrawdown > 0 {
		fmt.Fprintf(w, "Max Drawdown:  %s\n", format(r.Metrics.MaxDrawdown))
	}
	if s.BestInstrument != nil {
		fmt.Fprintf(w, "Best:          %s (%s)\n", s.BestInstrument.Key, format(s.BestInstrument.PnL))
	}
	if s.WorstInstrument != nil {
		fmt.Fprintf(w, "Worst:         %s (%s)\n", s.WorstInstrument.Key, format(s.WorstInstrument.PnL))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trader Profile")
	fmt.Fprintln(w, rule)
	for _, ax := range s.Profile.Axes() {
		fmt.Fprintf(w, "%-14s %3.0f %s\n", ax.Name+":", ax.Value, strings.Repeat("#", int(ax.Value/5)))
	}

	printBuckets(w, "By Instrument", r.Aggregates.Instrument, format)
	printBuckets(w, "By Strategy", r.Aggregates.Strategy, format)
	printBuckets(w, "By Direction", r.Aggregates.Direction, format)

	if len(r.Ideas) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Ideas")
		fmt.Fprintln(w, rule)
		for _, idea := range r.Ideas {
			fmt.Fprintf(w, "- %s: %s\n", idea.Title, idea.Insight)
		}
	}
	printTips(w, r.Tips)
	fmt.Fprintln(w)
}

func printBuckets(w io.Writer, title string, bs []aggregate.Bucket, format insight.Formatter) {
	if len(bs) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, rule)
	for _, b := range bs {
		fmt.Fprintf(w, "%-14s %4d trades  %6.2f%%  %s\n", b.Key, b.Trades, b.WinRate, format(b.PnL))
	}
}

func printTips(w io.Writer, tips []insight.Tip) {
	if len(tips) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Coaching")
	fmt.Fprintln(w, rule)
	for _, tip := range tips {
		fmt.Fprintf(w, "[%s] %s: %s\n", tip.Severity, tip.Title, tip.Message)
	}
}

// WriteOrg renders the report as an Org-mode document.
func WriteOrg(w io.Writer, r Report, format insight.Formatter) error {
	if format == nil {
		format = insight.DefaultFormat
	}
	funcs := template.FuncMap{
		"money": func(v float64) string { return format(v) },
		"upper": strings.ToUpper,
	}
	t, err := template.New("report").Funcs(funcs).Parse(ReportOrgTemplate)
	if err != nil {
		return fmt.Errorf("parse org template: %w", err)
	}
	if err := t.Execute(w, r); err != nil {
		return fmt.Errorf("render org report: %w", err)
	}
	return nil
}

const ReportOrgTemplate = `* TRADE ANALYTICS
:PROPERTIES:
:TRADES:      {{len .Records}}
:REJECTED:    {{len .Rejected}}
:ENOUGH_DATA: {{.HasEnoughData}}
:END:
{{- with .Summary}}

** Performance Summary
- Net P/L:       *{{money .TotalPnL}}*
- Win Rate:      *{{printf "%.0f" .WinRate}}%*
- Avg Win:       *{{money .AvgWin}}*
- Avg Loss:      *{{money .AvgLoss}}*
{{- if .BestInstrument}}
- Best:          *{{.BestInstrument.Key}}* ({{money .BestInstrument.PnL}})
{{- end}}
{{- if .WorstInstrument}}
- Worst:         *{{.WorstInstrument.Key}}* ({{money .WorstInstrument.PnL}})
{{- end}}

** Trader Profile
| Axis | Score |
|------+-------|
{{- range .Profile.Axes}}
| {{.Name}} | {{printf "%.0f" .Value}} |
{{- end}}
{{- end}}
{{- if .Aggregates.Instrument}}

** By Instrument
| Instrument | Trades | Wins | Losses | Win Rate | P/L |
|------------+--------+------+--------+----------+-----|
{{- range .Aggregates.Instrument}}
| {{.Key}} | {{.Trades}} | {{.Wins}} | {{.Losses}} | {{printf "%.2f" .WinRate}} | {{money .PnL}} |
{{- end}}
{{- end}}
{{- if .Aggregates.Week}}

** By Week
| Week | Trades | Win Rate | P/L |
|------+--------+----------+-----|
{{- range .Aggregates.Week}}
| {{.Key}} | {{.Trades}} | {{printf "%.2f" .WinRate}} | {{money .PnL}} |
{{- end}}
{{- end}}
{{- if .Metrics.GrossProfit}}

** Risk
- Profit Factor:  {{printf "%.2f" .Metrics.ProfitFactor}}
- Max Drawdown:   {{money .Metrics.MaxDrawdown}}
- Sharpe (trade): {{printf "%.2f" .Metrics.Sharpe}}
- Streaks:        {{.Metrics.LongestWinStreak}} wins / {{.Metrics.LongestLossStreak}} losses
{{- end}}
{{- if .Ideas}}

** Ideas
{{- range .Ideas}}
*** {{.Title}}
{{.Insight}}
{{- end}}
{{- end}}
{{- if .Tips}}

** Coaching
{{- range .Tips}}
- [ ] {{upper .Severity.String}}: {{.Title}}. {{.Message}}
{{- end}}
{{- end}}
`
