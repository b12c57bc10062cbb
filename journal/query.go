package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const selectTrades = `
	SELECT trade_id, instrument, side, units, entry_price, exit_price, open_time, close_time, realized_pl, strategy, reason
	FROM trades`

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(s scanner) (TradeRecord, error) {
	var rec TradeRecord
	err := s.Scan(
		&rec.TradeID,
		&rec.Instrument,
		&rec.Side,
		&rec.Units,
		&rec.EntryPrice,
		&rec.ExitPrice,
		&rec.OpenTime,
		&rec.CloseTime,
		&rec.RealizedPL,
		&rec.Strategy,
		&rec.Reason,
	)
	return rec, err
}

// GetTrade returns a single trade record by ID.
func (j *SQLiteJournal) GetTrade(tradeID string) (TradeRecord, error) {
	rec, err := scanTrade(j.db.QueryRow(selectTrades+` WHERE trade_id = ?`, tradeID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TradeRecord{}, fmt.Errorf("trade %q: %w", tradeID, ErrTradeNotFound)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

// ListTrades returns every trade ordered by open time.
func (j *SQLiteJournal) ListTrades() ([]TradeRecord, error) {
	return j.query(selectTrades + ` ORDER BY open_time ASC, trade_id ASC`)
}

// ListTradesClosedBetween returns trades whose close_time is within [start, end).
func (j *SQLiteJournal) ListTradesClosedBetween(start, end time.Time) ([]TradeRecord, error) {
	return j.query(selectTrades+`
		WHERE close_time >= ? AND close_time < ?
		ORDER BY close_time ASC`, start.UTC(), end.UTC())
}

func (j *SQLiteJournal) query(q string, args ...any) ([]TradeRecord, error) {
	rows, err := j.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
