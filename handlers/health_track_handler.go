package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"infinityHealthAPI/internal/healthtrack"
	"infinityHealthAPI/middleware"
	"infinityHealthAPI/services"
)

type HealthTrackHandler struct {
	healthTrackService *services.HealthTrackService
}

func NewHealthTrackHandler(healthTrackService *services.HealthTrackService) *HealthTrackHandler {
	return &HealthTrackHandler{
		healthTrackService: healthTrackService,
	}
}

func (h *HealthTrackHandler) GetHealthTrack(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	trackID, err := uuid.Parse(mux.Vars(r)["trackId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid track id")
		return
	}

	track, err := h.healthTrackService.GetTrack(ctx, userID, trackID)
	if err != nil {
		if errors.Is(err, services.ErrHealthTrackNotFound) {
			respondWithError(w, http.StatusNotFound, "Health track not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch health track")
		return
	}

	respondWithJSON(w, http.StatusOK, track)
}

func (h *HealthTrackHandler) GetToday(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	track, err := h.healthTrackService.GetToday(ctx, mux.Vars(r)["userId"])
	if err != nil {
		if errors.Is(err, services.ErrHealthTrackNotFound) {
			respondWithError(w, http.StatusNotFound, "No record for today")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch health track")
		return
	}

	respondWithJSON(w, http.StatusOK, track)
}

func (h *HealthTrackHandler) GetByDate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	vars := mux.Vars(r)
	date, err := time.Parse("2006-01-02", vars["date"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Date must be YYYY-MM-DD")
		return
	}

	track, err := h.healthTrackService.GetByDate(ctx, vars["userId"], date)
	if err != nil {
		if errors.Is(err, services.ErrHealthTrackNotFound) {
			respondWithError(w, http.StatusNotFound, "No record for that date")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch health track")
		return
	}

	respondWithJSON(w, http.StatusOK, track)
}

func (h *HealthTrackHandler) GetRange(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	from, err := time.Parse("2006-01-02", r.URL.Query().Get("startDate"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "startDate must be YYYY-MM-DD")
		return
	}
	to, err := time.Parse("2006-01-02", r.URL.Query().Get("endDate"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "endDate must be YYYY-MM-DD")
		return
	}
	if to.Before(from) {
		respondWithError(w, http.StatusBadRequest, "endDate must not be before startDate")
		return
	}

	tracks, err := h.healthTrackService.ListRange(ctx, mux.Vars(r)["userId"], from, to)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch health tracks")
		return
	}

	respondWithJSON(w, http.StatusOK, tracks)
}

func (h *HealthTrackHandler) UpsertHealthTrack(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req healthtrack.UpsertHealthTrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	track, err := h.healthTrackService.UpsertHealthTrack(ctx, mux.Vars(r)["userId"], &req)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, track)
}

func (h *HealthTrackHandler) AddWater(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req healthtrack.AddWaterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Glasses == 0 {
		req.Glasses = 1
	}

	track, err := h.healthTrackService.AddWater(ctx, mux.Vars(r)["userId"], req.Glasses)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, track)
}

func (h *HealthTrackHandler) DeleteByDate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	vars := mux.Vars(r)
	date, err := time.Parse("2006-01-02", vars["date"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Date must be YYYY-MM-DD")
		return
	}

	if err := h.healthTrackService.DeleteByDate(ctx, vars["userId"], date); err != nil {
		if errors.Is(err, services.ErrHealthTrackNotFound) {
			respondWithError(w, http.StatusNotFound, "No record for that date")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to delete health track")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Health track deleted"})
}
