package handler

import (
	"log/slog"
	"net/http"

	"travelassist/internal/dayplan"
	"travelassist/internal/middleware"
)

type DayPlanHandler struct {
	service *dayplan.Service
	logger  *slog.Logger
}

func NewDayPlanHandler(s *dayplan.Service, logger *slog.Logger) *DayPlanHandler {
	return &DayPlanHandler{
		service: s,
		logger:  logger.With("handler", "dayplan"),
	}
}

type createDayPlanRequest struct {
	Duration  string   `json:"duration"`
	Interests []string `json:"interests"`
}

func (h *DayPlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createDayPlanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondErr(w, h.logger, err)
		return
	}

	plan, err := h.service.Create(r.Context(), middleware.UserIDFromContext(r.Context()), req.Duration, req.Interests)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, plan)
}

func (h *DayPlanHandler) Mine(w http.ResponseWriter, r *http.Request) {
	plans, err := h.service.Mine(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, plans)
}
