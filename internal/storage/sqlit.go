package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	// Register sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"

	"fundtracker/internal/date"
	"fundtracker/internal/finance"
)

type DB interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	Close() error
}

// Store persists daily bars and the ranges they were fetched for.
type Store struct{ db DB }

func OpenSQLite(dsn string) (*sql.DB, error) {
	return sql.Open("sqlite3", dsn)
}

func InitSchema(ctx context.Context, db DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS prices(
		ticker TEXT NOT NULL, day TEXT NOT NULL,
		open REAL, high REAL, low REAL, close REAL, adjclose REAL NOT NULL,
		PRIMARY KEY(ticker, day)
	)`)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS price_fetches(
		ticker TEXT NOT NULL, from_date TEXT NOT NULL, to_date TEXT NOT NULL, fetched_on TEXT NOT NULL
	)`)
	return err
}

func NewStore(db DB) *Store { return &Store{db: db} }

// OpenPriceCache opens (creating if needed) the sqlite file at path and
// returns upstream wrapped by the cache. Callers close the returned DB.
func OpenPriceCache(ctx context.Context, path string, upstream finance.PriceSource) (*CachedSource, DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}
	db, err := OpenSQLite("file:" + path)
	if err != nil {
		return nil, nil, err
	}
	if err := InitSchema(ctx, db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("init schema: %w", err)
	}
	log.WithField("path", path).Debug("db: opened sqlite price cache")
	return NewCachedSource(NewStore(db), upstream), db, nil
}

// ReplacePrices stores series as the only bars of its ticker, recorded as a
// fetch of [from, to] made on fetchedOn. Earlier bars and fetch records of the
// ticker are dropped: Yahoo rescales the whole adjusted history on a dividend
// or split, so bars from different fetches must not be mixed.
func (s *Store) ReplacePrices(ctx context.Context, series finance.PriceSeries, from, to, fetchedOn date.Date) error {
	t := strings.ToUpper(series.Ticker)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM prices WHERE ticker=?`, t); err != nil {
		return fmt.Errorf("clear %s: %w", t, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM price_fetches WHERE ticker=?`, t); err != nil {
		return fmt.Errorf("clear %s fetches: %w", t, err)
	}
	for _, p := range series.Points {
		_, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO prices(ticker,day,open,high,low,close,adjclose) VALUES(?,?,?,?,?,?,?)`,
			t, p.Date.String(), p.Open, p.High, p.Low, p.Close, p.AdjClose)
		if err != nil {
			return fmt.Errorf("save %s %s: %w", t, p.Date, err)
		}
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO price_fetches(ticker,from_date,to_date,fetched_on) VALUES(?,?,?,?)`,
		t, from.String(), to.String(), fetchedOn.String())
	if err != nil {
		return fmt.Errorf("record %s fetch: %w", t, err)
	}
	return tx.Commit()
}

// LoadPrices returns the stored bars of ticker within [from, to].
func (s *Store) LoadPrices(ctx context.Context, ticker string, from, to date.Date) (finance.PriceSeries, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT day,open,high,low,close,adjclose FROM prices WHERE ticker=? AND day>=? AND day<=? ORDER BY day ASC`,
		strings.ToUpper(ticker), from.String(), to.String())
	if err != nil {
		return finance.PriceSeries{}, err
	}
	defer rows.Close()
	out := finance.PriceSeries{Ticker: ticker}
	for rows.Next() {
		var day string
		var p finance.PricePoint
		if err := rows.Scan(&day, &p.Open, &p.High, &p.Low, &p.Close, &p.AdjClose); err != nil {
			return finance.PriceSeries{}, err
		}
		if p.Date, err = date.Parse(day); err != nil {
			return finance.PriceSeries{}, err
		}
		out.Points = append(out.Points, p)
	}
	return out, rows.Err()
}

// Covered reports whether [from, to] lies inside a range fetched on or after to,
// so that every bar in it was already final.
func (s *Store) Covered(ctx context.Context, ticker string, from, to date.Date) (bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT 1 FROM price_fetches WHERE ticker=? AND from_date<=? AND to_date>=? AND fetched_on>? LIMIT 1`,
		strings.ToUpper(ticker), from.String(), to.String(), to.String())
	if err != nil {
		return false, err
	}
	defer rows.Close()
	return rows.Next(), rows.Err()
}

// CachedSource serves prices from the store and falls back to an upstream source.
type CachedSource struct {
	store    *Store
	upstream finance.PriceSource
	today    func() date.Date
}

func NewCachedSource(store *Store, upstream finance.PriceSource) *CachedSource {
	return &CachedSource{store: store, upstream: upstream, today: date.Today}
}

func (c *CachedSource) DailyPrices(ctx context.Context, ticker string, from, to date.Date) (finance.PriceSeries, error) {
	ok, err := c.store.Covered(ctx, ticker, from, to)
	if err != nil {
		log.WithError(err).Warn("price cache lookup failed")
	}
	if ok {
		s, err := c.store.LoadPrices(ctx, ticker, from, to)
		if err == nil {
			log.WithFields(log.Fields{"ticker": ticker, "bars": s.Len()}).Debug("price cache hit")
			if s.Len() == 0 {
				return finance.PriceSeries{}, fmt.Errorf("%s between %s and %s: %w", ticker, from, to, finance.ErrNoData)
			}
			return s, nil
		}
		log.WithError(err).Warn("price cache read failed")
	}
	s, err := c.upstream.DailyPrices(ctx, ticker, from, to)
	if err != nil {
		return finance.PriceSeries{}, err
	}
	if err := c.store.ReplacePrices(ctx, s, from, to, c.today()); err != nil {
		log.WithError(err).Warn("price cache write failed")
	}
	return s, nil
}
