package test

import (
	"context"
	"net/http"

	"github.com/2beens/repcheck/internal/ghost"
	testingpkg "github.com/2beens/repcheck/pkg/testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestGhost_RegisterAndMe() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	ghostID := s.registerGhost(ctx)

	var me ghost.IDResponse
	s.getJson(ctx, http.MethodGet, "/ghost/me", ghostID, "", http.StatusOK, &me)
	assert.Equal(t, ghostID, me.GhostID)

	redisCtx, rdb := testingpkg.GetRedisClientAndCtx(t, s.redisPort)
	isMember, err := rdb.SIsMember(redisCtx, "repcheck-ghosts", ghostID).Result()
	require.NoError(t, err)
	assert.True(t, isMember)
}

func (s *IntegrationTestSuite) TestGhost_Unknown() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	status, _ := s.doRequest(ctx, http.MethodGet, "/ghost/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.doRequest(ctx, http.MethodGet, "/ghost/me", "not-a-uuid", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.doRequest(ctx, http.MethodGet, "/progress", "9d3c4b7e-0a7f-4a58-8f43-2a0f7c1f2b11", "")
	assert.Equal(t, http.StatusUnauthorized, status)
}
