package test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/2beens/repcheck/internal/progress"
	"github.com/2beens/repcheck/internal/workout"
	testingpkg "github.com/2beens/repcheck/pkg/testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestProgress_DailyMission() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	ghostID := s.registerGhost(ctx)

	var snapshot progress.Snapshot
	s.getJson(ctx, http.MethodGet, "/progress", ghostID, "", http.StatusOK, &snapshot)
	assert.Empty(t, snapshot.Progress)
	assert.Zero(t, snapshot.Streak)
	assert.False(t, snapshot.MissionComplete)

	// incomplete mission cannot be claimed
	status, _ := s.doRequest(ctx, http.MethodPost, "/progress/mission/complete", ghostID, "")
	assert.Equal(t, http.StatusConflict, status)

	var lobby workout.Lobby
	s.getJson(ctx, http.MethodGet, "/workout/today", ghostID, "", http.StatusOK, &lobby)
	require.NotEmpty(t, lobby.Exercises)

	for _, ex := range lobby.Exercises {
		body := fmt.Sprintf(`{"reps":%d}`, ex.Reps)
		s.getJson(ctx, http.MethodPut, "/progress/"+ex.ID, ghostID, body, http.StatusOK, &snapshot)
	}
	assert.True(t, snapshot.MissionComplete)
	assert.Equal(t, 1, snapshot.Streak)
	assert.Equal(t, len(lobby.Exercises), snapshot.Completed)

	// claiming again the same day changes nothing
	s.getJson(ctx, http.MethodPost, "/progress/mission/complete", ghostID, "", http.StatusOK, &snapshot)
	assert.Equal(t, 1, snapshot.Streak)

	redisCtx, rdb := testingpkg.GetRedisClientAndCtx(t, s.redisPort)
	storedProgress, err := rdb.Get(redisCtx, "repcheck::"+ghostID+"::@repcheck_progress").Result()
	require.NoError(t, err)
	var stored map[string]int
	require.NoError(t, json.Unmarshal([]byte(storedProgress), &stored))
	assert.Equal(t, snapshot.Progress, stored)

	storedStreak, err := rdb.Get(redisCtx, "repcheck::"+ghostID+"::@repcheck_streak_count").Result()
	require.NoError(t, err)
	assert.Equal(t, "1", storedStreak)

	storedDay, err := rdb.Get(redisCtx, "repcheck::"+ghostID+"::@repcheck_last_completed_date").Result()
	require.NoError(t, err)
	assert.Equal(t, snapshot.Today, storedDay)
}

func (s *IntegrationTestSuite) TestProgress_BrokenStreakFromStorage() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	ghostID := s.registerGhost(ctx)

	// last completion long ago, the stored streak must not be shown
	redisCtx, rdb := testingpkg.GetRedisClientAndCtx(t, s.redisPort)
	require.NoError(t, rdb.Set(redisCtx, "repcheck::"+ghostID+"::@repcheck_streak_count", "12", 0).Err())
	require.NoError(t, rdb.Set(redisCtx, "repcheck::"+ghostID+"::@repcheck_last_completed_date", "Mon Jan 05 2026", 0).Err())

	var snapshot progress.Snapshot
	s.getJson(ctx, http.MethodGet, "/progress", ghostID, "", http.StatusOK, &snapshot)
	assert.Zero(t, snapshot.Streak)
}

func (s *IntegrationTestSuite) TestProgress_BadRequests() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	ghostID := s.registerGhost(ctx)

	status, _ := s.doRequest(ctx, http.MethodPut, "/progress/legs_sq_01", ghostID, `{"reps":-3}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.doRequest(ctx, http.MethodPut, "/progress/legs_sq_01", ghostID, `{}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.doRequest(ctx, http.MethodPut, "/progress/no_such_exercise", ghostID, `{"reps":3}`)
	assert.Equal(t, http.StatusNotFound, status)
}
