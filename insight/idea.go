// Package insight turns aggregates and the chronological trade sequence into
// suggestions, behavioral pattern flags and coaching tips.
package insight

import (
	"fmt"
	"math"
	"strconv"

	"github.com/rustyeddy/tradejournal/aggregate"
	"github.com/rustyeddy/tradejournal/score"
	"github.com/rustyeddy/tradejournal/trade"
)

type Sentiment string

const (
	Positive    Sentiment = "positive"
	Neutral     Sentiment = "neutral"
	Opportunity Sentiment = "opportunity"
)

type Idea struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Insight   string    `json:"insight"`
	Sentiment Sentiment `json:"sentiment"`
}

// Formatter renders a money amount. Locale and currency are the caller's
// business.
type Formatter func(float64) string

// DefaultFormat renders dollars with two decimals.
func DefaultFormat(v float64) string {
	if v < 0 {
		return fmt.Sprintf("-$%.2f", -v)
	}
	return fmt.Sprintf("$%.2f", v)
}

// Context is what a rule may look at.
type Context struct {
	Aggregates aggregate.Aggregates
	Summary    *score.Summary
	Records    []trade.Record // chronological
	Format     Formatter
}

func (c Context) money(v float64) string {
	if c.Format == nil {
		return DefaultFormat(v)
	}
	return c.Format(v)
}

// Rule is one named condition with its message template. Eval reports
// whether the condition holds and, if so, the rendered title and text.
type Rule struct {
	ID        string
	Sentiment Sentiment
	Eval      func(c Context) (title, text string, ok bool)
}

// GenerateIdeas evaluates rules in order. At most one idea is produced per
// rule ID. Without a summary there is nothing to say.
func GenerateIdeas(c Context, rules []Rule) []Idea {
	ideas := []Idea{}
	if c.Summary == nil {
		return ideas
	}

	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		if seen[r.ID] {
			continue
		}
		title, text, ok := r.Eval(c)
		if !ok {
			continue
		}
		seen[r.ID] = true
		ideas = append(ideas, Idea{ID: r.ID, Title: title, Insight: text, Sentiment: r.Sentiment})
	}
	return ideas
}

func pct(x float64) string {
	return strconv.FormatFloat(math.Round(x*100)/100, 'f', -1, 64) + "%"
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
