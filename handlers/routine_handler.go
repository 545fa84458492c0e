package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"infinityHealthAPI/internal/routine"
	"infinityHealthAPI/middleware"
	"infinityHealthAPI/services"
)

type RoutineHandler struct {
	routineService *services.RoutineService
}

func NewRoutineHandler(routineService *services.RoutineService) *RoutineHandler {
	return &RoutineHandler{
		routineService: routineService,
	}
}

func (h *RoutineHandler) GetRoutines(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	routines, err := h.routineService.ListRoutines(ctx, mux.Vars(r)["userId"])
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch routines")
		return
	}

	respondWithJSON(w, http.StatusOK, routines)
}

func (h *RoutineHandler) GetUpcomingRoutines(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	routines, err := h.routineService.ListUpcoming(ctx, mux.Vars(r)["userId"])
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch upcoming routines")
		return
	}

	respondWithJSON(w, http.StatusOK, routines)
}

func (h *RoutineHandler) GetRoutinesByDate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	vars := mux.Vars(r)
	date, err := time.Parse("2006-01-02", vars["date"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Date must be YYYY-MM-DD")
		return
	}

	routines, err := h.routineService.ListByDate(ctx, vars["userId"], date)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch routines")
		return
	}

	respondWithJSON(w, http.StatusOK, routines)
}

func (h *RoutineHandler) GetRoutine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["routineId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid routine id")
		return
	}

	rt, err := h.routineService.GetRoutine(ctx, userID, id)
	if err != nil {
		if errors.Is(err, services.ErrRoutineNotFound) {
			respondWithError(w, http.StatusNotFound, "Routine not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch routine")
		return
	}

	respondWithJSON(w, http.StatusOK, rt)
}

func (h *RoutineHandler) CreateRoutine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req routine.CreateRoutineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" {
		req.UserID = userID
	}
	if err := req.Validate(); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	rt, err := h.routineService.CreateRoutine(ctx, &req)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, rt)
}

func (h *RoutineHandler) UpdateRoutine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["routineId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid routine id")
		return
	}

	var req routine.UpdateRoutineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rt, err := h.routineService.UpdateRoutine(ctx, userID, id, &req)
	if err != nil {
		if errors.Is(err, services.ErrRoutineNotFound) {
			respondWithError(w, http.StatusNotFound, "Routine not found")
			return
		}
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, rt)
}

func (h *RoutineHandler) CompleteRoutine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["routineId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid routine id")
		return
	}

	rt, err := h.routineService.CompleteRoutine(ctx, userID, id)
	if err != nil {
		if errors.Is(err, services.ErrRoutineNotFound) {
			respondWithError(w, http.StatusNotFound, "Routine not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to complete routine")
		return
	}

	respondWithJSON(w, http.StatusOK, rt)
}

func (h *RoutineHandler) DeleteRoutine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["routineId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid routine id")
		return
	}

	if err := h.routineService.DeleteRoutine(ctx, userID, id); err != nil {
		if errors.Is(err, services.ErrRoutineNotFound) {
			respondWithError(w, http.StatusNotFound, "Routine not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to delete routine")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Routine deleted"})
}
