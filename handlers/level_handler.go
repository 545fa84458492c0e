package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"infinityHealthAPI/internal/level"
	"infinityHealthAPI/services"
)

type LevelHandler struct {
	levelService *services.LevelService
	seedService  *services.SeedService
}

func NewLevelHandler(levelService *services.LevelService, seedService *services.SeedService) *LevelHandler {
	return &LevelHandler{
		levelService: levelService,
		seedService:  seedService,
	}
}

func (h *LevelHandler) GetLevels(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	levels, err := h.levelService.ListLevels(ctx)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch levels")
		return
	}

	respondWithJSON(w, http.StatusOK, levels)
}

func (h *LevelHandler) GetLevel(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	levelID, err := strconv.Atoi(mux.Vars(r)["levelId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid level id")
		return
	}

	l, err := h.levelService.GetLevel(ctx, levelID)
	if err != nil {
		if errors.Is(err, services.ErrLevelNotFound) {
			respondWithError(w, http.StatusNotFound, "Level not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch level")
		return
	}

	respondWithJSON(w, http.StatusOK, l)
}

func (h *LevelHandler) GetLevelByExp(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	exp, err := strconv.Atoi(mux.Vars(r)["exp"])
	if err != nil || exp < 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid exp value")
		return
	}

	l, err := h.levelService.GetLevelByExp(ctx, exp)
	if err != nil {
		if errors.Is(err, services.ErrLevelNotFound) {
			respondWithError(w, http.StatusNotFound, "No level matches that exp")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch level")
		return
	}

	respondWithJSON(w, http.StatusOK, l)
}

func (h *LevelHandler) CreateLevel(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req level.CreateLevelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	l, err := h.levelService.CreateLevel(ctx, &req)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, l)
}

func (h *LevelHandler) UpdateLevel(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	levelID, err := strconv.Atoi(mux.Vars(r)["levelId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid level id")
		return
	}

	var req level.UpdateLevelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	l, err := h.levelService.UpdateLevel(ctx, levelID, &req)
	if err != nil {
		if errors.Is(err, services.ErrLevelNotFound) {
			respondWithError(w, http.StatusNotFound, "Level not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to update level")
		return
	}

	respondWithJSON(w, http.StatusOK, l)
}

func (h *LevelHandler) DeleteLevel(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	levelID, err := strconv.Atoi(mux.Vars(r)["levelId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid level id")
		return
	}

	if err := h.levelService.DeleteLevel(ctx, levelID); err != nil {
		if errors.Is(err, services.ErrLevelNotFound) {
			respondWithError(w, http.StatusNotFound, "Level not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to delete level")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Level deleted"})
}

func (h *LevelHandler) SeedLevels(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	inserted, err := h.seedService.SeedLevels(ctx)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to seed levels")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]int{"inserted": inserted})
}
