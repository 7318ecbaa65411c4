package indicators

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mfcastro/riskdash/internal/domain"
	"github.com/mfcastro/riskdash/internal/modules/history"
)

// Rolling volatility windows exposed by the API: one month and one quarter
// of trading days.
var rollingWindows = []int{21, 63}

// Handler handles HTTP requests for risk indicators.
type Handler struct {
	service      *Service
	prices       *history.Service
	riskFreeRate float64
	log          zerolog.Logger
}

// NewHandler creates a new indicators handler
func NewHandler(service *Service, prices *history.Service, riskFreeRate float64, log zerolog.Logger) *Handler {
	return &Handler{
		service:      service,
		prices:       prices,
		riskFreeRate: riskFreeRate,
		log:          log.With().Str("component", "indicators_handler").Logger(),
	}
}

// HandleIndicators handles GET /api/risk/indicators?symbols=A,B - computes
// per-asset risk indicators and the correlation matrix of the universe.
func (h *Handler) HandleIndicators(w http.ResponseWriter, r *http.Request) {
	symbols := splitSymbols(r.URL.Query().Get("symbols"))
	if len(symbols) == 0 {
		h.writeError(w, http.StatusBadRequest, "symbols query parameter is required")
		return
	}

	riskFree := h.riskFreeRate
	if raw := r.URL.Query().Get("risk_free_rate"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid risk_free_rate")
			return
		}
		riskFree = parsed
	}

	rs, err := h.prices.ReturnSeries(symbols)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to build return series")
		h.writeError(w, statusFor(err), err.Error())
		return
	}

	closes := make(map[string][]float64, len(symbols))
	for _, symbol := range symbols {
		points, err := h.prices.Closes(symbol, 0)
		if err != nil {
			h.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		series := make([]float64, len(points))
		for i, p := range points {
			series[i] = p.Close
		}
		closes[symbol] = series
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"symbols":        rs.Symbols,
		"risk_free_rate": riskFree,
		"indicators":     h.service.Compute(rs, closes, riskFree),
		"correlation":    h.service.CorrelationMatrix(rs),
	})
}

// HandleRollingVolatility handles GET /api/risk/rolling-volatility?symbol=X -
// annualized rolling volatility at the standard windows.
func (h *Handler) HandleRollingVolatility(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		h.writeError(w, http.StatusBadRequest, "symbol query parameter is required")
		return
	}

	rs, err := h.prices.ReturnSeries([]string{symbol})
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to build return series")
		h.writeError(w, statusFor(err), err.Error())
		return
	}

	returns := make([]float64, len(rs.Rows))
	for i, row := range rs.Rows {
		returns[i] = row[0]
	}

	series := make(map[string][]float64, len(rollingWindows))
	for _, window := range rollingWindows {
		series[strconv.Itoa(window)+"d"] = h.service.RollingVolatility(returns, window)
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"symbol":  symbol,
		"dates":   rs.Dates,
		"rolling": series,
	})
}

func splitSymbols(raw string) []string {
	var symbols []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			symbols = append(symbols, s)
		}
	}
	return symbols
}

func statusFor(err error) int {
	var invalidInput *domain.InvalidInputError
	var invalidParam *domain.InvalidParameterError
	var insufficient *domain.InsufficientDataError

	switch {
	case errors.As(err, &invalidInput), errors.As(err, &invalidParam):
		return http.StatusBadRequest
	case errors.As(err, &insufficient):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]interface{}{"error": msg})
}
