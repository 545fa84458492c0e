package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

// Validation paths reject before any service call, so a zero handler is
// enough to exercise them.
func missionTestRouter() *mux.Router {
	h := NewMissionHandler(nil, nil)
	r := mux.NewRouter()
	r.HandleFunc("/mission", h.CreateMission).Methods("POST")
	r.HandleFunc("/mission/type/{type}", h.GetMissionsByType).Methods("GET")
	r.HandleFunc("/mission/user/{userId}", h.GetUserMissions).Methods("GET")
	r.HandleFunc("/mission/user/{userId}/progress/{missionId}", h.UpdateProgress).Methods("PATCH")
	r.HandleFunc("/mission/{missionId}", h.GetMission).Methods("GET")
	return r
}

func TestGetMissionRejectsBadID(t *testing.T) {
	rec := httptest.NewRecorder()
	missionTestRouter().ServeHTTP(rec, httptest.NewRequest("GET", "/mission/not-a-uuid", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid mission id")
}

func TestGetMissionsByTypeRejectsUnknownKind(t *testing.T) {
	rec := httptest.NewRecorder()
	missionTestRouter().ServeHTTP(rec, httptest.NewRequest("GET", "/mission/type/weekly", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateMissionRejectsInvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"missing title", `{"type": "daily", "target_value": 100}`},
		{"bad type", `{"title": "x", "type": "weekly", "target_value": 100}`},
		{"zero target", `{"title": "x", "type": "daily", "target_value": 0}`},
		{"negative reward", `{"title": "x", "type": "daily", "target_value": 10, "reward_exp": -5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/mission", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			missionTestRouter().ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestUpdateProgressRejectsBadRequests(t *testing.T) {
	router := missionTestRouter()

	req := httptest.NewRequest("PATCH", "/mission/user/u000001/progress/not-a-uuid", strings.NewReader(`{"progress": "50/100"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Progress must be the "current/total" wire string.
	req = httptest.NewRequest("PATCH",
		"/mission/user/u000001/progress/7c9e6679-7425-40de-944b-e07fc1f90ae7",
		strings.NewReader(`{"progress": 42}`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Completion has its own endpoint; the progress route refuses to do it.
	req = httptest.NewRequest("PATCH",
		"/mission/user/u000001/progress/7c9e6679-7425-40de-944b-e07fc1f90ae7",
		strings.NewReader(`{"progress": "100/100", "mission_status": "completed"}`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "complete endpoint")
}

// Mutating routes pin the attempt epoch to the server clock. A date query
// string must be ignored outright, not parsed: if it were honored, replaying
// a completion under a different date would open a fresh attempt row and pay
// the reward again.
func TestMutatingRoutesIgnoreDateOverride(t *testing.T) {
	req := httptest.NewRequest("PATCH",
		"/mission/user/u000001/progress/7c9e6679-7425-40de-944b-e07fc1f90ae7?date=2020-99-99",
		strings.NewReader(`{"progress": "10/100", "mission_status": "completed"}`))
	rec := httptest.NewRecorder()
	missionTestRouter().ServeHTTP(rec, req)

	// Fails on the status guard, not on the unparseable date.
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "complete endpoint")
	assert.NotContains(t, rec.Body.String(), "YYYY-MM-DD")
}

func TestUserMissionsRejectsBadDateOverride(t *testing.T) {
	rec := httptest.NewRecorder()
	missionTestRouter().ServeHTTP(rec, httptest.NewRequest("GET", "/mission/user/u000001?date=15-06-2025", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "YYYY-MM-DD")
}
