package planning

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mfcastro/riskdash/internal/domain"
	"github.com/mfcastro/riskdash/internal/modules/portfolio"
)

// Handler handles HTTP requests for retirement-planning simulations.
type Handler struct {
	provider       portfolio.ReturnProvider
	planner        *Planner
	periodsPerYear int
	defaultNumSims int
	log            zerolog.Logger
}

// NewHandler creates a new planning handler
func NewHandler(
	provider portfolio.ReturnProvider,
	planner *Planner,
	periodsPerYear int,
	defaultNumSims int,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		provider:       provider,
		planner:        planner,
		periodsPerYear: periodsPerYear,
		defaultNumSims: defaultNumSims,
		log:            log.With().Str("component", "planning_handler").Logger(),
	}
}

type simulateRequest struct {
	Symbols []string           `json:"symbols"`
	Weights map[string]float64 `json:"weights"`
	SimulationConfig
	// Full wealth paths can run to num_simulations x horizon floats, so they
	// stay out of the payload unless explicitly requested.
	IncludePaths bool `json:"include_paths,omitempty"`
}

// HandleSimulate handles POST /api/planning/simulate - runs a Monte Carlo
// wealth projection for the requested allocation and goal parameters.
func (h *Handler) HandleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Symbols) == 0 {
		h.writeError(w, http.StatusBadRequest, "symbols is required")
		return
	}
	if req.NumSimulations == 0 {
		req.NumSimulations = h.defaultNumSims
	}

	rs, err := h.provider.ReturnSeries(req.Symbols)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to build return series")
		h.writeError(w, statusFor(err), err.Error())
		return
	}
	est, err := portfolio.Annualize(rs, h.periodsPerYear)
	if err != nil {
		h.writeError(w, statusFor(err), err.Error())
		return
	}

	result, err := h.planner.RunSimulation(est, req.Weights, req.SimulationConfig)
	if err != nil {
		h.log.Error().Err(err).Msg("Simulation failed")
		h.writeError(w, statusFor(err), err.Error())
		return
	}
	if !req.IncludePaths {
		result.WealthPaths = nil
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id": uuid.New().String(),
		"result": result,
	})
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
