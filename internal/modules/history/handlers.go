package history

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles HTTP requests for the price history cache.
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new history handler
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("component", "history_handler").Logger(),
	}
}

type syncRequest struct {
	Symbols []string `json:"symbols"`
}

// HandleSync handles POST /api/history/sync - tracks the given symbols and
// refreshes their caches immediately. With no symbols, every tracked symbol
// is refreshed.
func (h *Handler) HandleSync(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if len(req.Symbols) == 0 {
		if err := h.service.SyncAll(); err != nil {
			h.writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		h.writeJSON(w, http.StatusOK, map[string]interface{}{"synced": "all"})
		return
	}

	if err := h.service.Track(req.Symbols); err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	for _, symbol := range req.Symbols {
		if err := h.service.Sync(symbol); err != nil {
			h.log.Error().Err(err).Str("symbol", symbol).Msg("Sync failed")
			h.writeError(w, http.StatusBadGateway, err.Error())
			return
		}
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"synced": req.Symbols})
}

// HandleCloses handles GET /api/history/{symbol} - cached daily closes,
// oldest first. ?limit=N restricts to the most recent N days.
func (h *Handler) HandleCloses(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	prices, err := h.service.Closes(symbol, limit)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"symbol": symbol,
		"days":   len(prices),
		"prices": prices,
	})
}

// HandleTracked handles GET /api/history - the tracked symbol list.
func (h *Handler) HandleTracked(w http.ResponseWriter, r *http.Request) {
	symbols, err := h.service.TrackedSymbols()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"symbols": symbols})
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
