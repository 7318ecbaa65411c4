package portfolio

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/mfcastro/riskdash/internal/domain"
)

// ReturnProvider hands the engine a prepared, gap-free return table. The
// history module implements it; the analytics core performs no I/O itself.
type ReturnProvider interface {
	ReturnSeries(symbols []string) (ReturnSeries, error)
}

// Handler handles HTTP requests for portfolio analysis and optimization.
type Handler struct {
	provider       ReturnProvider
	optimizer      *Optimizer
	periodsPerYear int
	riskFreeRate   float64
	frontierPoints int
	log            zerolog.Logger
}

// NewHandler creates a new portfolio handler. riskFreeRate and
// frontierPoints are defaults, overridable per request.
func NewHandler(
	provider ReturnProvider,
	optimizer *Optimizer,
	periodsPerYear int,
	riskFreeRate float64,
	frontierPoints int,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		provider:       provider,
		optimizer:      optimizer,
		periodsPerYear: periodsPerYear,
		riskFreeRate:   riskFreeRate,
		frontierPoints: frontierPoints,
		log:            log.With().Str("component", "portfolio_handler").Logger(),
	}
}

type analyzeRequest struct {
	Symbols      []string           `json:"symbols"`
	Weights      map[string]float64 `json:"weights,omitempty"`
	RiskFreeRate *float64           `json:"risk_free_rate,omitempty"`
}

type frontierRequest struct {
	Symbols      []string `json:"symbols"`
	Points       int      `json:"points,omitempty"`
	RiskFreeRate *float64 `json:"risk_free_rate,omitempty"`
}

// HandleAnalyze handles POST /api/portfolio/analyze - summarizes the manual
// allocation and the two optimized portfolios for one asset universe.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Symbols) == 0 {
		h.writeError(w, http.StatusBadRequest, "symbols is required")
		return
	}

	riskFree := h.riskFreeRate
	if req.RiskFreeRate != nil {
		riskFree = *req.RiskFreeRate
	}

	est, err := h.estimates(req.Symbols)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to build estimates")
		h.writeError(w, statusFor(err), err.Error())
		return
	}

	// Manual allocation: raw weights in symbol order, normalized with the
	// uniform fallback for all-zero input. Missing symbols count as zero.
	raw := make([]float64, est.NumAssets())
	for i, symbol := range est.Symbols {
		raw[i] = req.Weights[symbol]
	}
	manualWeights := Normalize(raw)
	manual := &Summary{
		Weights:        manualWeights,
		ExpectedReturn: Return(manualWeights, est.Mu),
		Volatility:     Volatility(manualWeights, est.Cov),
		Sharpe:         Sharpe(manualWeights, est.Mu, est.Cov, riskFree),
	}

	maxSharpe, err := h.optimizer.MaxSharpe(est, riskFree)
	if err != nil {
		h.writeError(w, statusFor(err), err.Error())
		return
	}
	minVol, err := h.optimizer.MinVolatility(est, riskFree)
	if err != nil {
		h.writeError(w, statusFor(err), err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"symbols":          est.Symbols,
		"expected_returns": est.Mu,
		"risk_free_rate":   riskFree,
		"manual":           manual,
		"max_sharpe":       maxSharpe,
		"min_volatility":   minVol,
	})
}

// HandleFrontier handles POST /api/portfolio/frontier - samples the
// efficient frontier for one asset universe.
func (h *Handler) HandleFrontier(w http.ResponseWriter, r *http.Request) {
	var req frontierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Symbols) == 0 {
		h.writeError(w, http.StatusBadRequest, "symbols is required")
		return
	}

	points := req.Points
	if points == 0 {
		points = h.frontierPoints
	}
	riskFree := h.riskFreeRate
	if req.RiskFreeRate != nil {
		riskFree = *req.RiskFreeRate
	}

	est, err := h.estimates(req.Symbols)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to build estimates")
		h.writeError(w, statusFor(err), err.Error())
		return
	}

	frontier, err := h.optimizer.EfficientFrontier(est, points, riskFree)
	if err != nil {
		h.writeError(w, statusFor(err), err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"symbols":  est.Symbols,
		"points":   len(frontier),
		"frontier": frontier,
	})
}

func (h *Handler) estimates(symbols []string) (*Estimates, error) {
	rs, err := h.provider.ReturnSeries(symbols)
	if err != nil {
		return nil, err
	}
	return Annualize(rs, h.periodsPerYear)
}

func statusFor(err error) int {
	var invalidInput *domain.InvalidInputError
	var invalidParam *domain.InvalidParameterError
	var missing *domain.MissingAssetWeightError
	var insufficient *domain.InsufficientDataError

	switch {
	case errors.As(err, &invalidInput), errors.As(err, &invalidParam), errors.As(err, &missing):
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
