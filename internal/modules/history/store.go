package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver for per-symbol caches
	"github.com/rs/zerolog"
)

// PricePoint is one cached daily close.
type PricePoint struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Close float64 `json:"close"`
}

// Store caches daily closes in one small SQLite file per symbol. Keeping
// symbols in separate files means a corrupted or stale cache can be deleted
// without touching the rest of the universe.
type Store struct {
	dir string
	log zerolog.Logger
}

// NewStore creates a price cache rooted at dir
func NewStore(dir string, log zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	return &Store{
		dir: dir,
		log: log.With().Str("component", "history_store").Logger(),
	}, nil
}

// dbPath maps a symbol to its cache file. Path separators in symbols are
// sanitized so a symbol can never escape the cache directory.
func (s *Store) dbPath(symbol string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_").Replace(symbol)
	return filepath.Join(s.dir, safe+".db")
}

func (s *Store) open(symbol string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", s.dbPath(symbol))
	if err != nil {
		return nil, fmt.Errorf("failed to open history db for %s: %w", symbol, err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS daily_prices (
			date  TEXT PRIMARY KEY,
			close REAL NOT NULL
		);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history schema for %s: %w", symbol, err)
	}
	return db, nil
}

// SavePrices upserts daily closes for a symbol.
func (s *Store) SavePrices(symbol string, prices []PricePoint) error {
	db, err := s.open(symbol)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO daily_prices (date, close) VALUES (?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range prices {
		if _, err := stmt.Exec(p.Date, p.Close); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to upsert price %s/%s: %w", symbol, p.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit prices: %w", err)
	}

	s.log.Debug().
		Str("symbol", symbol).
		Int("rows", len(prices)).
		Msg("Saved daily prices")

	return nil
}

// GetCloses returns cached closes for a symbol in ascending date order.
// limit <= 0 returns the full cache.
func (s *Store) GetCloses(symbol string, limit int) ([]PricePoint, error) {
	db, err := s.open(symbol)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	query := `SELECT date, close FROM daily_prices ORDER BY date ASC`
	var rows *sql.Rows
	if limit > 0 {
		// Most-recent window, returned oldest-first
		query = `
			SELECT date, close FROM (
				SELECT date, close FROM daily_prices ORDER BY date DESC LIMIT ?
			) ORDER BY date ASC
		`
		rows, err = db.Query(query, limit)
	} else {
		rows, err = db.Query(query)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query closes for %s: %w", symbol, err)
	}
	defer rows.Close()

	var prices []PricePoint
	for rows.Next() {
		var p PricePoint
		if err := rows.Scan(&p.Date, &p.Close); err != nil {
			return nil, fmt.Errorf("failed to scan close for %s: %w", symbol, err)
		}
		prices = append(prices, p)
	}
	return prices, rows.Err()
}
