package insight

import (
	"testing"
	"time"

	"github.com/rustyeddy/tradejournal/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sized(r trade.Record, size float64) trade.Record {
	r.Size = size
	return r
}

func priced(r trade.Record, entry, exit float64) trade.Record {
	r.EntryPrice, r.ExitPrice = entry, exit
	return r
}

func TestDetectPatternsTooFew(t *testing.T) {
	t.Parallel()

	recs := []trade.Record{
		sized(mk("ES", trade.Long, -10, t0), 1),
		sized(mk("ES", trade.Long, -10, t0.Add(time.Minute)), 5),
		sized(mk("ES", trade.Long, -10, t0.Add(2*time.Minute)), 20),
		sized(mk("ES", trade.Long, -10, t0.Add(3*time.Minute)), 50),
	}
	assert.Equal(t, Patterns{}, DetectPatterns(recs, time.UTC, DefaultThresholds()))
}

func TestRevengeTrading(t *testing.T) {
	t.Parallel()

	at := t0.Add(4 * time.Hour)
	loss := sized(mk("ES", trade.Long, -25, at), 1.0)
	loss.ExitTime = at.Add(2 * time.Minute)

	recs := []trade.Record{
		sized(mk("ES", trade.Long, 10, t0.AddDate(0, 0, -3)), 1),
		sized(mk("ES", trade.Long, 10, t0.AddDate(0, 0, -2)), 1),
		sized(mk("ES", trade.Long, 10, t0.AddDate(0, 0, -1)), 1),
		loss,
		sized(mk("ES", trade.Long, 5, at.Add(10*time.Minute)), 2.0),
	}

	p := DetectPatterns(recs, time.UTC, DefaultThresholds())
	assert.True(t, p.RevengeTrading)
	assert.Equal(t, 1, p.RevengeInstances)
	assert.Equal(t, 100.0, p.RevengeTradeProbability)
}

func TestRevengeTradingNeedsLargerSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		nextSize float64
		gap      time.Duration
		want     bool
	}{
		{"same_size", 1.0, 10 * time.Minute, false},
		{"exact_multiple", 1.5, 10 * time.Minute, false},
		{"too_late", 3.0, 45 * time.Minute, false},
		{"doubled", 2.0, 29 * time.Minute, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			loss := sized(mk("ES", trade.Short, -5, t0), 1.0)
			loss.ExitTime = t0
			recs := []trade.Record{
				sized(mk("ES", trade.Long, 1, t0.Add(-4*time.Hour)), 1),
				sized(mk("ES", trade.Long, 1, t0.Add(-3*time.Hour)), 1),
				sized(mk("ES", trade.Long, 1, t0.Add(-2*time.Hour)), 1),
				loss,
				sized(mk("ES", trade.Long, 1, t0.Add(tt.gap)), tt.nextSize),
			}
			p := DetectPatterns(recs, time.UTC, DefaultThresholds())
			assert.Equal(t, tt.want, p.RevengeTrading)
		})
	}
}

func TestOvertrading(t *testing.T) {
	t.Parallel()

	var recs []trade.Record
	for i := 0; i < 11; i++ {
		recs = append(recs, mk("ES", trade.Long, 1, t0.Add(time.Duration(i)*10*time.Minute)))
	}
	recs = append(recs, mk("ES", trade.Long, 1, t0.AddDate(0, 0, 1)))

	p := DetectPatterns(recs, time.UTC, DefaultThresholds())
	assert.True(t, p.Overtrading)
	assert.Equal(t, 11, p.MaxTradesInDay)
	assert.Equal(t, 1, p.OvertradingDays)

	p = DetectPatterns(recs[1:], time.UTC, DefaultThresholds())
	assert.False(t, p.Overtrading)
	assert.Equal(t, 10, p.MaxTradesInDay)
}

func TestFOMO(t *testing.T) {
	t.Parallel()

	build := func(chased int) []trade.Record {
		var recs []trade.Record
		for i := 0; i < 10; i++ {
			r := mk("BTC", trade.Long, 5, t0.Add(time.Duration(i)*time.Hour))
			r = priced(r, 100, 101)
			if i < chased {
				r.PnL = r.PnL.Neg()
				r = priced(r, 100, 90)
			}
			recs = append(recs, r)
		}
		return recs
	}

	p := DetectPatterns(build(4), time.UTC, DefaultThresholds())
	assert.True(t, p.FOMO)
	assert.Equal(t, 4, p.FOMOTrades)

	p = DetectPatterns(build(3), time.UTC, DefaultThresholds())
	assert.False(t, p.FOMO)
	assert.Equal(t, 3, p.FOMOTrades)
}

func TestInconsistentSizing(t *testing.T) {
	t.Parallel()

	at := func(i int) time.Time { return t0.Add(time.Duration(i) * time.Hour) }

	var steady, wild []trade.Record
	for i, s := range []float64{1, 1, 1, 1, 1, 5} {
		wild = append(wild, sized(mk("ES", trade.Long, 1, at(i)), s))
		steady = append(steady, sized(mk("ES", trade.Long, 1, at(i)), 1))
	}

	p := DetectPatterns(wild, time.UTC, DefaultThresholds())
	assert.True(t, p.InconsistentSizing)
	assert.InDelta(t, 0.89, p.SizeCV, 0.01)

	p = DetectPatterns(steady, time.UTC, DefaultThresholds())
	assert.False(t, p.InconsistentSizing)
	assert.Equal(t, 0.0, p.SizeCV)

	// five sized trades are not enough to judge
	p = DetectPatterns(wild[1:], time.UTC, DefaultThresholds())
	assert.False(t, p.InconsistentSizing)
}

func TestEmotionalTradingAndTilt(t *testing.T) {
	t.Parallel()

	var recs []trade.Record
	for i := 0; i < 5; i++ {
		recs = append(recs, mk("ES", trade.Long, -10, t0.Add(time.Duration(i)*time.Hour)))
	}

	p := DetectPatterns(recs, time.UTC, DefaultThresholds())
	assert.True(t, p.EmotionalTrading)
	assert.Equal(t, 4, p.FollowUps)
	assert.Equal(t, -10.0, p.AvgPnLAfterLoss)
	assert.True(t, p.Tilt)
	assert.Equal(t, 5, p.TiltStreak)
}

func TestTiltResetsAcrossDays(t *testing.T) {
	t.Parallel()

	recs := []trade.Record{
		mk("ES", trade.Long, -10, t0),
		mk("ES", trade.Long, -10, t0.Add(time.Hour)),
		mk("ES", trade.Long, -10, t0.AddDate(0, 0, 1)),
		mk("ES", trade.Long, -10, t0.AddDate(0, 0, 1).Add(time.Hour)),
		mk("ES", trade.Long, 20, t0.AddDate(0, 0, 2)),
	}
	p := DetectPatterns(recs, time.UTC, DefaultThresholds())
	assert.False(t, p.Tilt)
	assert.Equal(t, 2, p.TiltStreak)
	assert.Equal(t, 4, p.FollowUps)
	assert.Equal(t, -2.5, p.AvgPnLAfterLoss)
	assert.True(t, p.EmotionalTrading)
}

func TestTimingPatterns(t *testing.T) {
	t.Parallel()

	var recs []trade.Record
	for d := 0; d < 3; d++ {
		day := t0.AddDate(0, 0, d)
		recs = append(recs,
			mk("ES", trade.Long, 30, day),                  // 09:00
			mk("ES", trade.Long, -20, day.Add(5*time.Hour)), // 14:00
			mk("ES", trade.Long, 1, day.Add(7*time.Hour)),   // 16:00
		)
	}
	// a single big trade at 03:00 is below the minimum bucket size
	recs = append(recs, mk("ES", trade.Long, 500, t0.AddDate(0, 0, 3).Add(-6*time.Hour)))
	trade.SortChronological(recs)

	p := DetectPatterns(recs, time.UTC, DefaultThresholds())
	assert.Equal(t, "09:00", p.BestHour)
	assert.Equal(t, "14:00", p.WorstHour)
	assert.Equal(t, "Monday", p.BestDay)
	assert.Equal(t, "", p.WorstDay)
	assert.False(t, p.SessionBias)
}

func TestSessionBias(t *testing.T) {
	t.Parallel()

	var recs []trade.Record
	for i := 0; i < 6; i++ {
		recs = append(recs, mk("ES", trade.Long, 1, t0.AddDate(0, 0, i)))
	}
	recs = append(recs, mk("ES", trade.Long, 1, t0.AddDate(0, 0, 7).Add(6*time.Hour)))

	p := DetectPatterns(recs, time.UTC, DefaultThresholds())
	require.True(t, p.SessionBias)
	assert.Equal(t, "Europe", p.DominantSession)

	// the same instants read in New York fall in the Asia session
	ny := time.FixedZone("EST", -5*60*60)
	p = DetectPatterns(recs, ny, DefaultThresholds())
	assert.Equal(t, "Asia", p.DominantSession)
}

func TestSessionOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Asia", SessionOf(0))
	assert.Equal(t, "Asia", SessionOf(7))
	assert.Equal(t, "Europe", SessionOf(8))
	assert.Equal(t, "US", SessionOf(13))
	assert.Equal(t, "US", SessionOf(20))
	assert.Equal(t, "Late", SessionOf(23))
	assert.Equal(t, "", SessionOf(24))
}
