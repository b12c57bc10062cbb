// Package analytics is the entry point of the analytics core. An Engine takes
// a raw trade snapshot and returns every derived artifact in one Report.
package analytics

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rustyeddy/tradejournal/aggregate"
	"github.com/rustyeddy/tradejournal/insight"
	"github.com/rustyeddy/tradejournal/score"
	"github.com/rustyeddy/tradejournal/trade"
)

// Report bundles everything derived from one snapshot. Summary is nil and
// Ideas is empty when HasEnoughData is false.
type Report struct {
	Aggregates    aggregate.Aggregates `json:"aggregates"`
	Summary       *score.Summary       `json:"summary"`
	Ideas         []insight.Idea       `json:"ideas"`
	Tips          []insight.Tip        `json:"tips"`
	Patterns      insight.Patterns     `json:"patterns"`
	Metrics       insight.Metrics      `json:"metrics"`
	HasEnoughData bool                 `json:"hasEnoughData"`
	Rejected      []trade.Rejection    `json:"rejected,omitempty"`

	// Records is the normalized, chronological working set.
	Records []trade.Record `json:"-"`
}

// Engine holds only configuration and is safe for concurrent use.
type Engine struct {
	loc        *time.Location
	format     insight.Formatter
	thresholds insight.Thresholds
	rules      []insight.Rule
	log        zerolog.Logger
}

type Option func(*Engine)

// WithLocation sets the zone used for hour, day and week buckets and for
// zoneless timestamps.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithFormatter sets the money formatter used in idea and tip text.
func WithFormatter(f insight.Formatter) Option {
	return func(e *Engine) {
		if f != nil {
			e.format = f
		}
	}
}

func WithThresholds(th insight.Thresholds) Option {
	return func(e *Engine) { e.thresholds = th }
}

func WithRules(rules []insight.Rule) Option {
	return func(e *Engine) { e.rules = rules }
}

func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

func New(opts ...Option) *Engine {
	e := &Engine{
		loc:        time.Local,
		format:     insight.DefaultFormat,
		thresholds: insight.DefaultThresholds(),
		rules:      insight.DefaultRules(),
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze runs the full pipeline. Bad rows are dropped and listed in
// Report.Rejected; nothing here returns an error.
func (e *Engine) Analyze(raws []trade.Raw) Report {
	recs, rejected := trade.Normalizer{Location: e.loc}.Normalize(raws)
	for _, r := range rejected {
		e.log.Debug().Int("row", r.Index).Str("reason", r.Reason).Msg("trade row rejected")
	}
	trade.SortChronological(recs)

	aggs := aggregate.Build(recs, e.loc)
	summary, enough := score.Compute(aggs, recs)

	rep := Report{
		Aggregates:    aggs,
		Summary:       summary,
		HasEnoughData: enough,
		Rejected:      rejected,
		Records:       recs,
	}
	rep.Ideas = insight.GenerateIdeas(insight.Context{
		Aggregates: aggs,
		Summary:    summary,
		Records:    recs,
		Format:     e.format,
	}, e.rules)
	rep.Patterns = insight.DetectPatterns(recs, e.loc, e.thresholds)
	rep.Metrics = insight.ComputeMetrics(recs)
	rep.Tips = insight.GenerateTips(rep.Patterns, rep.Metrics, len(recs), e.thresholds, e.format)

	e.log.Debug().
		Int("rows", len(raws)).
		Int("trades", len(recs)).
		Int("rejected", len(rejected)).
		Bool("enough", enough).
		Int("ideas", len(rep.Ideas)).
		Int("tips", len(rep.Tips)).
		Msg("analysis complete")
	return rep
}

// AnalyzeJSON decodes a JSON array of trade objects and analyzes it. A
// document that is not an array is a caller error.
func (e *Engine) AnalyzeJSON(data []byte) (Report, error) {
	raws, err := trade.DecodeJSON(data)
	if err != nil {
		return Report{}, fmt.Errorf("analyze json: %w", err)
	}
	return e.Analyze(raws), nil
}
