package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

// RecordTrade inserts t. Times are stored in UTC so range queries compare
// correctly.
func (j *SQLiteJournal) RecordTrade(t TradeRecord) error {
	t = withID(t)
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, instrument, side, units, entry_price, exit_price, open_time, close_time, realized_pl, strategy, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.Instrument, t.Side, t.Units, t.EntryPrice, t.ExitPrice,
		t.OpenTime.UTC(), t.CloseTime.UTC(), t.RealizedPL, t.Strategy, t.Reason,
	)
	return err
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
