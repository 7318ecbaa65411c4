package history

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/mfcastro/riskdash/internal/clients/yahoo"
	"github.com/mfcastro/riskdash/internal/database"
	"github.com/mfcastro/riskdash/internal/domain"
	"github.com/mfcastro/riskdash/internal/modules/portfolio"
)

// Service is the price history provider: it acquires and caches daily
// closes and hands the analytics engine a gap-free return table. All I/O
// (network, SQLite) lives here; the engine itself never performs any.
type Service struct {
	store      *Store
	client     *yahoo.Client
	db         *database.DB
	chartRange string
	log        zerolog.Logger
}

// NewService creates a history service
func NewService(store *Store, client *yahoo.Client, db *database.DB, chartRange string, log zerolog.Logger) *Service {
	return &Service{
		store:      store,
		client:     client,
		db:         db,
		chartRange: chartRange,
		log:        log.With().Str("component", "history").Logger(),
	}
}

// Track registers symbols for scheduled refresh.
func (s *Service) Track(symbols []string) error {
	for _, symbol := range symbols {
		_, err := s.db.Exec(
			`INSERT OR IGNORE INTO tracked_symbols (symbol) VALUES (?)`,
			symbol,
		)
		if err != nil {
			return fmt.Errorf("failed to track %s: %w", symbol, err)
		}
	}
	return nil
}

// TrackedSymbols lists every symbol registered for refresh.
func (s *Service) TrackedSymbols() ([]string, error) {
	rows, err := s.db.Query(`SELECT symbol FROM tracked_symbols ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		symbols = append(symbols, symbol)
	}
	return symbols, rows.Err()
}

// Sync refreshes the cache for one symbol from the upstream chart API.
func (s *Service) Sync(symbol string) error {
	closes, err := s.client.GetDailyCloses(symbol, s.chartRange)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", symbol, err)
	}

	prices := make([]PricePoint, len(closes))
	for i, c := range closes {
		prices[i] = PricePoint{Date: c.Date, Close: c.Close}
	}
	if err := s.store.SavePrices(symbol, prices); err != nil {
		return err
	}

	_, err = s.db.Exec(
		`UPDATE tracked_symbols SET last_sync = datetime('now') WHERE symbol = ?`,
		symbol,
	)
	if err != nil {
		return fmt.Errorf("failed to record sync time for %s: %w", symbol, err)
	}

	s.log.Info().
		Str("symbol", symbol).
		Int("days", len(prices)).
		Msg("Synced price history")

	return nil
}

// SyncAll refreshes every tracked symbol. One failing symbol does not stop
// the rest; the first error is reported after the sweep.
func (s *Service) SyncAll() error {
	symbols, err := s.TrackedSymbols()
	if err != nil {
		return err
	}

	var firstErr error
	for _, symbol := range symbols {
		if err := s.Sync(symbol); err != nil {
			s.log.Error().Err(err).Str("symbol", symbol).Msg("Sync failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Closes returns the cached close series for one symbol, oldest first.
func (s *Service) Closes(symbol string, limit int) ([]PricePoint, error) {
	return s.store.GetCloses(symbol, limit)
}

// ReturnSeries builds an aligned daily return table for the requested
// symbols: closes are joined on their common dates (mirroring a dropna over
// the joined price frame), then differenced into fractional returns. Symbols
// without cached data are fetched on first use.
func (s *Service) ReturnSeries(symbols []string) (portfolio.ReturnSeries, error) {
	if len(symbols) == 0 {
		return portfolio.ReturnSeries{}, &domain.InvalidInputError{Msg: "empty asset universe"}
	}

	closesBySymbol := make(map[string]map[string]float64, len(symbols))
	for _, symbol := range symbols {
		closes, err := s.store.GetCloses(symbol, 0)
		if err != nil {
			return portfolio.ReturnSeries{}, err
		}
		if len(closes) == 0 {
			if err := s.Sync(symbol); err != nil {
				return portfolio.ReturnSeries{}, err
			}
			if closes, err = s.store.GetCloses(symbol, 0); err != nil {
				return portfolio.ReturnSeries{}, err
			}
		}

		byDate := make(map[string]float64, len(closes))
		for _, p := range closes {
			byDate[p.Date] = p.Close
		}
		closesBySymbol[symbol] = byDate
	}

	// Intersect trading dates across the universe
	var dates []string
	for date := range closesBySymbol[symbols[0]] {
		shared := true
		for _, symbol := range symbols[1:] {
			if _, ok := closesBySymbol[symbol][date]; !ok {
				shared = false
				break
			}
		}
		if shared {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)

	if len(dates) < 3 {
		return portfolio.ReturnSeries{}, &domain.InsufficientDataError{
			Observations: len(dates),
			Required:     3,
		}
	}

	rows := make([][]float64, len(dates)-1)
	for i := 1; i < len(dates); i++ {
		row := make([]float64, len(symbols))
		for j, symbol := range symbols {
			prev := closesBySymbol[symbol][dates[i-1]]
			curr := closesBySymbol[symbol][dates[i]]
			if prev != 0 {
				row[j] = (curr - prev) / prev
			}
		}
		rows[i-1] = row
	}

	return portfolio.ReturnSeries{
		Symbols: append([]string(nil), symbols...),
		Dates:   dates[1:],
		Rows:    rows,
	}, nil
}
