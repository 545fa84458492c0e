package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"infinityHealthAPI/internal/mission"
	"infinityHealthAPI/services"
)

type MissionHandler struct {
	missionService *services.MissionService
	seedService    *services.SeedService
}

func NewMissionHandler(missionService *services.MissionService, seedService *services.SeedService) *MissionHandler {
	return &MissionHandler{
		missionService: missionService,
		seedService:    seedService,
	}
}

// viewEpoch resolves the epoch for the read-only mission view: the optional
// ?date= query override, otherwise the current calendar day in server local
// time. Mutating routes never honor the override — the epoch of a start,
// progress update, completion or failure is always the server clock's day,
// otherwise a client could replay completions under arbitrary dates and
// collect the reward once per date.
func viewEpoch(r *http.Request) (mission.Epoch, error) {
	if raw := r.URL.Query().Get("date"); raw != "" {
		return mission.ParseEpoch(raw)
	}
	return mission.EpochFromTime(time.Now()), nil
}

func (h *MissionHandler) GetMissions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	missions, err := h.missionService.ListActive(ctx, nil)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch missions")
		return
	}

	respondWithJSON(w, http.StatusOK, missions)
}

func (h *MissionHandler) GetMissionsByType(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	kind := mission.Kind(mux.Vars(r)["type"])
	if kind != mission.KindDaily && kind != mission.KindChallenge {
		respondWithError(w, http.StatusBadRequest, "Mission type must be 'daily' or 'challenge'")
		return
	}

	missions, err := h.missionService.ListActive(ctx, &kind)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch missions")
		return
	}

	respondWithJSON(w, http.StatusOK, missions)
}

func (h *MissionHandler) GetMission(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := uuid.Parse(mux.Vars(r)["missionId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid mission id")
		return
	}

	m, err := h.missionService.GetMission(ctx, id)
	if err != nil {
		if errors.Is(err, services.ErrMissionNotFound) {
			respondWithError(w, http.StatusNotFound, "Mission not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch mission")
		return
	}

	respondWithJSON(w, http.StatusOK, m)
}

func (h *MissionHandler) CreateMission(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req mission.CreateMissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	m, err := h.missionService.CreateMission(ctx, &req)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to create mission")
		return
	}

	respondWithJSON(w, http.StatusCreated, m)
}

func (h *MissionHandler) UpdateMission(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := uuid.Parse(mux.Vars(r)["missionId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid mission id")
		return
	}

	var req mission.UpdateMissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	m, err := h.missionService.UpdateMission(ctx, id, &req)
	if err != nil {
		if errors.Is(err, services.ErrMissionNotFound) {
			respondWithError(w, http.StatusNotFound, "Mission not found")
			return
		}
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, m)
}

func (h *MissionHandler) DeleteMission(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := uuid.Parse(mux.Vars(r)["missionId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid mission id")
		return
	}

	if err := h.missionService.DeleteMission(ctx, id); err != nil {
		if errors.Is(err, services.ErrMissionNotFound) {
			respondWithError(w, http.StatusNotFound, "Mission not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to delete mission")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Mission deleted"})
}

func (h *MissionHandler) GetUserMissions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := mux.Vars(r)["userId"]
	epoch, err := viewEpoch(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Date must be YYYY-MM-DD")
		return
	}

	views, err := h.missionService.GetUserMissions(ctx, userID, epoch)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch user missions")
		return
	}

	respondWithJSON(w, http.StatusOK, views)
}

func (h *MissionHandler) StartMission(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	vars := mux.Vars(r)
	userID := vars["userId"]
	missionID, err := uuid.Parse(vars["missionId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid mission id")
		return
	}
	epoch := mission.EpochFromTime(time.Now())

	um, err := h.missionService.StartMission(ctx, userID, missionID, epoch)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissionNotFound):
			respondWithError(w, http.StatusNotFound, "Mission not found")
		case errors.Is(err, services.ErrMissionAlreadyStarted):
			respondWithError(w, http.StatusBadRequest, "Mission already started today")
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to start mission")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, um)
}

func (h *MissionHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	vars := mux.Vars(r)
	userID := vars["userId"]
	missionID, err := uuid.Parse(vars["missionId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid mission id")
		return
	}
	epoch := mission.EpochFromTime(time.Now())

	var req mission.UpdateProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Status != nil && *req.Status == mission.StatusCompleted {
		respondWithError(w, http.StatusBadRequest, "Use the complete endpoint to finish a mission")
		return
	}

	um, err := h.missionService.UpdateProgress(ctx, userID, missionID, epoch, req.Progress.Current)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissionNotFound):
			respondWithError(w, http.StatusNotFound, "Mission not found")
		case errors.Is(err, services.ErrMissionAlreadyCompleted):
			respondWithError(w, http.StatusBadRequest, "Mission already completed today")
		case errors.Is(err, services.ErrMissionAlreadyFailed):
			respondWithError(w, http.StatusBadRequest, "Mission already failed today")
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to update progress")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, um)
}

func (h *MissionHandler) CompleteMission(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	vars := mux.Vars(r)
	userID := vars["userId"]
	missionID, err := uuid.Parse(vars["missionId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid mission id")
		return
	}
	epoch := mission.EpochFromTime(time.Now())

	um, rewards, err := h.missionService.CompleteMission(ctx, userID, missionID, epoch)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissionNotFound):
			respondWithError(w, http.StatusNotFound, "Mission not found")
		case errors.Is(err, services.ErrMissionAlreadyCompleted):
			respondWithError(w, http.StatusBadRequest, "Mission already completed today")
		case errors.Is(err, services.ErrMissionAlreadyFailed):
			respondWithError(w, http.StatusBadRequest, "Mission already failed today")
		case errors.Is(err, services.ErrMissionLevelLocked):
			respondWithError(w, http.StatusBadRequest, "Mission is locked at your level")
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to complete mission")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"userMission": um,
		"rewards":     rewards,
	})
}

func (h *MissionHandler) FailMission(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	vars := mux.Vars(r)
	userID := vars["userId"]
	missionID, err := uuid.Parse(vars["missionId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid mission id")
		return
	}
	epoch := mission.EpochFromTime(time.Now())

	um, err := h.missionService.FailMission(ctx, userID, missionID, epoch)
	if err != nil {
		if errors.Is(err, services.ErrMissionNotFound) {
			respondWithError(w, http.StatusNotFound, "Mission not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to fail mission")
		return
	}

	respondWithJSON(w, http.StatusOK, um)
}

func (h *MissionHandler) SeedMissions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	inserted, err := h.seedService.SeedMissions(ctx)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to seed missions")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]int{"inserted": inserted})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
