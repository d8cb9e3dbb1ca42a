package test

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/repcheck/internal/chamber"
	"github.com/2beens/repcheck/internal/progress"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestChamber_SessionSavesReps() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	ghostID := s.registerGhost(ctx)

	var session chamber.Session
	s.getJson(ctx, http.MethodPost, "/chamber/chest_pu_01/start", ghostID, `{"currentReps":2}`, http.StatusCreated, &session)
	require.NotEmpty(t, session.ID)
	assert.True(t, session.Active)
	assert.Equal(t, 2, session.Reps)

	assert.Eventually(t, func() bool {
		var current chamber.Session
		s.getJson(ctx, http.MethodGet, "/chamber/session/"+session.ID, ghostID, "", http.StatusOK, &current)
		return current.Reps >= 5
	}, 5*time.Second, testChamberTick)

	var result chamber.FinishResult
	s.getJson(ctx, http.MethodPost, "/chamber/session/"+session.ID+"/finish", ghostID, "", http.StatusOK, &result)
	assert.False(t, result.Session.Active)
	assert.GreaterOrEqual(t, result.Session.Reps, 5)
	assert.Equal(t, fmt.Sprintf("You completed %d reps.", result.Session.Reps), result.Message)

	var snapshot progress.Snapshot
	s.getJson(ctx, http.MethodGet, "/progress", ghostID, "", http.StatusOK, &snapshot)
	assert.Equal(t, result.Session.Reps, snapshot.Progress["chest_pu_01"])

	// finished sessions are gone
	status, _ := s.doRequest(ctx, http.MethodGet, "/chamber/session/"+session.ID, ghostID, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func (s *IntegrationTestSuite) TestChamber_SessionOfOtherGhost() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	owner := s.registerGhost(ctx)
	other := s.registerGhost(ctx)

	var session chamber.Session
	s.getJson(ctx, http.MethodPost, "/chamber/legs_sq_01/start", owner, "", http.StatusCreated, &session)

	status, _ := s.doRequest(ctx, http.MethodPost, "/chamber/session/"+session.ID+"/finish", other, "")
	assert.Equal(t, http.StatusNotFound, status)

	s.getJson(ctx, http.MethodPost, "/chamber/session/"+session.ID+"/finish", owner, "", http.StatusOK, nil)
}
