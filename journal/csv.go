package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
)

var csvHeader = []string{
	"trade_id", "instrument", "side", "units", "entry_price", "exit_price",
	"open_time", "close_time", "realized_pl", "strategy", "reason",
}

type CSVJournal struct {
	trades *csv.Writer
	tf     *os.File
}

func NewCSV(tradesPath string) (*CSVJournal, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}

	tw := csv.NewWriter(tf)
	if err := tw.Write(csvHeader); err != nil {
		tf.Close()
		return nil, err
	}
	tw.Flush()
	if err := tw.Error(); err != nil {
		tf.Close()
		return nil, err
	}

	return &CSVJournal{trades: tw, tf: tf}, nil
}

func (j *CSVJournal) RecordTrade(t TradeRecord) error {
	t = withID(t)
	err := j.trades.Write([]string{
		t.TradeID,
		t.Instrument,
		t.Side,
		f(t.Units),
		f(t.EntryPrice),
		f(t.ExitPrice),
		t.OpenTime.Format(time.RFC3339),
		t.CloseTime.Format(time.RFC3339),
		f(t.RealizedPL),
		t.Strategy,
		t.Reason,
	})
	if err != nil {
		return err
	}
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSVJournal) Close() error {
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	return j.tf.Close()
}

// csvRow is one line of a trades file. Times are read as text so a blank or
// unusual cell drops that row during normalization instead of failing the
// whole file.
type csvRow struct {
	TradeID    string  `csv:"trade_id"`
	Instrument string  `csv:"instrument"`
	Side       string  `csv:"side"`
	Units      float64 `csv:"units"`
	EntryPrice float64 `csv:"entry_price"`
	ExitPrice  float64 `csv:"exit_price"`
	OpenTime   string  `csv:"open_time"`
	CloseTime  string  `csv:"close_time"`
	RealizedPL float64 `csv:"realized_pl"`
	Strategy   string  `csv:"strategy"`
	Reason     string  `csv:"reason"`
}

func (c csvRow) record() TradeRecord {
	t := TradeRecord{
		TradeID:    c.TradeID,
		Instrument: c.Instrument,
		Side:       c.Side,
		Units:      c.Units,
		EntryPrice: c.EntryPrice,
		ExitPrice:  c.ExitPrice,
		RealizedPL: c.RealizedPL,
		Strategy:   c.Strategy,
		Reason:     c.Reason,
	}
	t.OpenTime, t.openCell = csvTime(c.OpenTime)
	t.CloseTime, t.closeCell = csvTime(c.CloseTime)
	return t
}

// csvTime parses an RFC3339 cell. Any other non-blank cell comes back as
// text, since only the reader of the trades knows which zone it is in.
func csvTime(cell string) (time.Time, string) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return time.Time{}, ""
	}
	if t, err := time.Parse(time.RFC3339Nano, cell); err == nil {
		return t, ""
	}
	return time.Time{}, cell
}

// ReadCSV parses a trades file written by CSVJournal or any CSV with the
// same headers. Missing columns are left zero. Time cells are checked by the
// analytics normalizer, or by Resolve before storing.
func ReadCSV(r io.Reader) ([]TradeRecord, error) {
	var rows []csvRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("read trades csv: %w", err)
	}
	out := make([]TradeRecord, len(rows))
	for i, row := range rows {
		out[i] = row.record()
	}
	return out, nil
}

// ReadCSVFile opens path and calls ReadCSV.
func ReadCSVFile(path string) ([]TradeRecord, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return ReadCSV(fh)
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
