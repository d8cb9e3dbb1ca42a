package progress_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/2beens/repcheck/internal/ghost"
	"github.com/2beens/repcheck/internal/progress"
	"github.com/2beens/repcheck/internal/workout"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testGhostID = "1b4e28ba-2fa1-41d2-883f-0016d3cca427"

func newRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	return req.WithContext(ghost.ContextWithID(context.Background(), testGhostID))
}

func setupRouter(service *MockprogressService) *mux.Router {
	r := mux.NewRouter()
	progress.NewHandler(service).SetupRoutes(r)
	return r
}

func TestHandler_HandleGet(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := NewMockprogressService(ctrl)
	r := setupRouter(service)

	service.EXPECT().Load(gomock.Any(), testGhostID).Return(progress.Snapshot{
		Today:    "Sun Mar 01 2026",
		Progress: map[string]int{"legs_sq_01": 4},
		Streak:   2,
		Total:    3,
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, newRequest(http.MethodGet, "/progress", ""))
	require.Equal(t, http.StatusOK, rr.Code)

	var snapshot progress.Snapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snapshot))
	assert.Equal(t, "Sun Mar 01 2026", snapshot.Today)
	assert.Equal(t, 4, snapshot.Progress["legs_sq_01"])
	assert.Equal(t, 2, snapshot.Streak)
	assert.Equal(t, 3, snapshot.Total)
}

func TestHandler_NoGhost(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := setupRouter(NewMockprogressService(ctrl))

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/progress", nil),
		httptest.NewRequest(http.MethodPut, "/progress/legs_sq_01", strings.NewReader(`{"reps":1}`)),
		httptest.NewRequest(http.MethodPost, "/progress/mission/complete", nil),
	} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, req.URL.Path)
	}
}

func TestHandler_HandleUpdate(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := NewMockprogressService(ctrl)
	r := setupRouter(service)

	service.EXPECT().
		UpdateProgress(gomock.Any(), testGhostID, "chest_pu_01", 15).
		Return(progress.Snapshot{Progress: map[string]int{"chest_pu_01": 15}, Completed: 1, Total: 3}, nil)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, newRequest(http.MethodPut, "/progress/chest_pu_01", `{"reps":15}`))
	require.Equal(t, http.StatusOK, rr.Code)

	var snapshot progress.Snapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snapshot))
	assert.Equal(t, 15, snapshot.Progress["chest_pu_01"])
	assert.Equal(t, 1, snapshot.Completed)
}

func TestHandler_HandleUpdate_Errors(t *testing.T) {
	testCases := []struct {
		name         string
		path         string
		body         string
		serviceErr   error
		callsService bool
		expectedCode int
	}{
		{name: "broken json", path: "/progress/legs_sq_01", body: `{"reps":`, expectedCode: http.StatusBadRequest},
		{name: "reps missing", path: "/progress/legs_sq_01", body: `{}`, expectedCode: http.StatusBadRequest},
		{
			name: "negative reps", path: "/progress/legs_sq_01", body: `{"reps":-1}`,
			serviceErr: progress.ErrInvalidReps, callsService: true, expectedCode: http.StatusBadRequest,
		},
		{
			name: "unknown exercise", path: "/progress/nope", body: `{"reps":1}`,
			serviceErr: workout.ErrUnknownExercise, callsService: true, expectedCode: http.StatusNotFound,
		},
		{
			name: "storage failure", path: "/progress/legs_sq_01", body: `{"reps":1}`,
			serviceErr: errors.New("redis down"), callsService: true, expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			service := NewMockprogressService(ctrl)
			r := setupRouter(service)

			if tc.callsService {
				service.EXPECT().
					UpdateProgress(gomock.Any(), testGhostID, gomock.Any(), gomock.Any()).
					Return(progress.Snapshot{}, tc.serviceErr)
			}

			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, newRequest(http.MethodPut, tc.path, tc.body))
			assert.Equal(t, tc.expectedCode, rr.Code)
		})
	}
}

func TestHandler_HandleCompleteMission(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := NewMockprogressService(ctrl)
	r := setupRouter(service)

	gomock.InOrder(
		service.EXPECT().
			CompleteDailyMission(gomock.Any(), testGhostID).
			Return(progress.Snapshot{}, progress.ErrMissionIncomplete),
		service.EXPECT().
			CompleteDailyMission(gomock.Any(), testGhostID).
			Return(progress.Snapshot{Streak: 5, MissionComplete: true}, nil),
		service.EXPECT().
			CompleteDailyMission(gomock.Any(), testGhostID).
			Return(progress.Snapshot{}, errors.New("redis down")),
	)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, newRequest(http.MethodPost, "/progress/mission/complete", ""))
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, newRequest(http.MethodPost, "/progress/mission/complete", ""))
	require.Equal(t, http.StatusOK, rr.Code)
	var snapshot progress.Snapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snapshot))
	assert.Equal(t, 5, snapshot.Streak)
	assert.True(t, snapshot.MissionComplete)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, newRequest(http.MethodPost, "/progress/mission/complete", ""))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
