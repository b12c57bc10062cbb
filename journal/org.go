package journal

import (
	"fmt"
	"strings"
	"time"
)

// FormatTradeOrg renders a TradeRecord as an Org-mode block for a journal
// file. Facts go in the PROPERTIES drawer; Thesis, Execution and Review are
// left for the trader to fill in.
func FormatTradeOrg(t TradeRecord) string {
	heading := fmt.Sprintf("** Trade: %s (%s)", t.Instrument, shortID(t.TradeID))
	open := t.OpenTime.UTC().Format(time.RFC3339)
	close := t.CloseTime.UTC().Format(time.RFC3339)

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":TRADE_ID: %s\n", t.TradeID)
	fmt.Fprintf(&b, ":ID: %s\n", t.TradeID)
	fmt.Fprintf(&b, ":INSTRUMENT: %s\n", t.Instrument)
	if t.Side != "" {
		fmt.Fprintf(&b, ":SIDE: %s\n", t.Side)
	}
	fmt.Fprintf(&b, ":UNITS: %g\n", t.Units)
	fmt.Fprintf(&b, ":ENTRY_PRICE: %.5f\n", t.EntryPrice)
	fmt.Fprintf(&b, ":EXIT_PRICE: %.5f\n", t.ExitPrice)
	fmt.Fprintf(&b, ":OPEN_TIME: %s\n", open)
	fmt.Fprintf(&b, ":CLOSE_TIME: %s\n", close)
	fmt.Fprintf(&b, ":REALIZED_PL: %.2f\n", t.RealizedPL)
	if t.Strategy != "" {
		fmt.Fprintf(&b, ":STRATEGY: %s\n", t.Strategy)
	}
	fmt.Fprintf(&b, ":REASON: %s\n", t.Reason)
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Thesis\n- \n\n")
	b.WriteString("*** Execution\n- \n\n")
	b.WriteString("*** Review\n- \n")

	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []TradeRecord) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

// FormatDayOrg renders a dated heading with the day's net result followed
// by each trade.
func FormatDayOrg(day time.Time, trades []TradeRecord) string {
	var net float64
	var wins int
	for _, t := range trades {
		net += t.RealizedPL
		if t.RealizedPL > 0 {
			wins++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "* %s\n", day.Format("2006-01-02 Mon"))
	fmt.Fprintf(&b, "Trades: %d  Wins: %d  Net P/L: %.2f\n\n", len(trades), wins, net)
	b.WriteString(FormatTradesOrg(trades))
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
