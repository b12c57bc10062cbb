package analytics

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintReport(t *testing.T) {
	t.Parallel()

	rep := engine().Analyze(raws(12))
	require.True(t, rep.HasEnoughData)

	var buf bytes.Buffer
	PrintReport(&buf, rep, nil)
	out := buf.String()

	assert.Contains(t, out, "Trade Analytics")
	assert.Contains(t, out, "Trades:        12")
	assert.Contains(t, out, "Trader Profile")
	assert.Contains(t, out, "Risk:Reward:")
	assert.Contains(t, out, "By Instrument")
	assert.Contains(t, out, "EUR_USD")
	assert.Contains(t, out, "Coaching")
}

func TestPrintReportNotEnough(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	PrintReport(&buf, engine().Analyze(raws(2)), func(v float64) string { return "X" })
	out := buf.String()

	assert.Contains(t, out, "Not enough data")
	assert.Contains(t, out, "Keep journaling")
	assert.NotContains(t, out, "Trader Profile")
}

func TestWriteOrg(t *testing.T) {
	t.Parallel()

	rep := engine().Analyze(raws(12))
	var buf bytes.Buffer
	require.NoError(t, WriteOrg(&buf, rep, nil))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "* TRADE ANALYTICS\n"))
	assert.Contains(t, out, ":TRADES:      12")
	assert.Contains(t, out, ":ENOUGH_DATA: true")
	assert.Contains(t, out, "** Performance Summary")
	assert.Contains(t, out, "| Win Rate |")
	assert.Contains(t, out, "** By Instrument")
	assert.Contains(t, out, "** By Week")
	assert.Contains(t, out, "** Coaching")
	assert.NotContains(t, out, "<no value>")
}

func TestWriteOrgNotEnough(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteOrg(&buf, engine().Analyze(nil), nil))
	out := buf.String()

	assert.Contains(t, out, ":ENOUGH_DATA: false")
	assert.NotContains(t, out, "** Performance Summary")
	assert.NotContains(t, out, "** Coaching")
}
