package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"infinityHealthAPI/internal/dailygoal"
	"infinityHealthAPI/middleware"
	"infinityHealthAPI/services"
)

type DailyGoalHandler struct {
	dailyGoalService *services.DailyGoalService
}

func NewDailyGoalHandler(dailyGoalService *services.DailyGoalService) *DailyGoalHandler {
	return &DailyGoalHandler{
		dailyGoalService: dailyGoalService,
	}
}

func (h *DailyGoalHandler) GetDailyGoals(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	goals, err := h.dailyGoalService.ListDailyGoals(ctx, mux.Vars(r)["userId"])
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch daily goals")
		return
	}

	respondWithJSON(w, http.StatusOK, goals)
}

func (h *DailyGoalHandler) GetTodayGoals(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	goals, err := h.dailyGoalService.ListToday(ctx, mux.Vars(r)["userId"])
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch today's goals")
		return
	}

	respondWithJSON(w, http.StatusOK, goals)
}

func (h *DailyGoalHandler) GetGoalsByDate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	vars := mux.Vars(r)
	date, err := time.Parse("2006-01-02", vars["date"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Date must be YYYY-MM-DD")
		return
	}

	goals, err := h.dailyGoalService.ListByDate(ctx, vars["userId"], date)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch daily goals")
		return
	}

	respondWithJSON(w, http.StatusOK, goals)
}

func (h *DailyGoalHandler) GetIncompleteGoals(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	goals, err := h.dailyGoalService.ListIncomplete(ctx, mux.Vars(r)["userId"])
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch incomplete goals")
		return
	}

	respondWithJSON(w, http.StatusOK, goals)
}

func (h *DailyGoalHandler) CreateDailyGoal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req dailygoal.CreateDailyGoalRequest
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

	g, err := h.dailyGoalService.CreateDailyGoal(ctx, &req)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, g)
}

func (h *DailyGoalHandler) UpdateDailyGoal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["goalId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid goal id")
		return
	}

	var req dailygoal.UpdateDailyGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	g, err := h.dailyGoalService.UpdateDailyGoal(ctx, userID, id, &req)
	if err != nil {
		if errors.Is(err, services.ErrDailyGoalNotFound) {
			respondWithError(w, http.StatusNotFound, "Daily goal not found")
			return
		}
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, g)
}

func (h *DailyGoalHandler) CompleteDailyGoal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["goalId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid goal id")
		return
	}

	g, err := h.dailyGoalService.CompleteDailyGoal(ctx, userID, id)
	if err != nil {
		if errors.Is(err, services.ErrDailyGoalNotFound) {
			respondWithError(w, http.StatusNotFound, "Daily goal not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to complete daily goal")
		return
	}

	respondWithJSON(w, http.StatusOK, g)
}

func (h *DailyGoalHandler) DeleteDailyGoal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["goalId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid goal id")
		return
	}

	if err := h.dailyGoalService.DeleteDailyGoal(ctx, userID, id); err != nil {
		if errors.Is(err, services.ErrDailyGoalNotFound) {
			respondWithError(w, http.StatusNotFound, "Daily goal not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to delete daily goal")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Daily goal deleted"})
}
