package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"infinityHealthAPI/internal/exercise"
	"infinityHealthAPI/services"
)

type ExerciseHandler struct {
	exerciseService *services.ExerciseService
	seedService     *services.SeedService
}

func NewExerciseHandler(exerciseService *services.ExerciseService, seedService *services.SeedService) *ExerciseHandler {
	return &ExerciseHandler{
		exerciseService: exerciseService,
		seedService:     seedService,
	}
}

// GetExercises lists the catalog; ?type= and ?difficulty= narrow it.
func (h *ExerciseHandler) GetExercises(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	typ := exercise.Type(r.URL.Query().Get("type"))
	difficulty := exercise.Difficulty(r.URL.Query().Get("difficulty"))

	exercises, err := h.exerciseService.ListExercises(ctx, typ, difficulty)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, exercises)
}

func (h *ExerciseHandler) GetExercise(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := uuid.Parse(mux.Vars(r)["exerciseId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid exercise id")
		return
	}

	e, err := h.exerciseService.GetExercise(ctx, id)
	if err != nil {
		if errors.Is(err, services.ErrExerciseNotFound) {
			respondWithError(w, http.StatusNotFound, "Exercise not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch exercise")
		return
	}

	respondWithJSON(w, http.StatusOK, e)
}

func (h *ExerciseHandler) CreateExercise(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req exercise.CreateExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	e, err := h.exerciseService.CreateExercise(ctx, &req)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to create exercise")
		return
	}

	respondWithJSON(w, http.StatusCreated, e)
}

func (h *ExerciseHandler) UpdateExercise(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := uuid.Parse(mux.Vars(r)["exerciseId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid exercise id")
		return
	}

	var req exercise.UpdateExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	e, err := h.exerciseService.UpdateExercise(ctx, id, &req)
	if err != nil {
		if errors.Is(err, services.ErrExerciseNotFound) {
			respondWithError(w, http.StatusNotFound, "Exercise not found")
			return
		}
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, e)
}

func (h *ExerciseHandler) DeleteExercise(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := uuid.Parse(mux.Vars(r)["exerciseId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid exercise id")
		return
	}

	if err := h.exerciseService.DeleteExercise(ctx, id); err != nil {
		if errors.Is(err, services.ErrExerciseNotFound) {
			respondWithError(w, http.StatusNotFound, "Exercise not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to delete exercise")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Exercise deleted"})
}

func (h *ExerciseHandler) SeedExercises(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	inserted, err := h.seedService.SeedExercises(ctx)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to seed exercises")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]int{"inserted": inserted})
}
