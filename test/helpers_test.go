package test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/2beens/repcheck/internal/ghost"

	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) doRequest(ctx context.Context, method, path, ghostID, body string) (int, []byte) {
	t := s.T()

	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, bodyReader)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if ghostID != "" {
		req.Header.Set(ghost.HeaderName, ghostID)
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, respBytes
}

func (s *IntegrationTestSuite) getJson(ctx context.Context, method, path, ghostID, body string, expectedStatus int, into any) {
	t := s.T()
	status, respBytes := s.doRequest(ctx, method, path, ghostID, body)
	require.Equal(t, expectedStatus, status, string(respBytes))
	if into != nil {
		require.NoError(t, json.Unmarshal(respBytes, into))
	}
}

func (s *IntegrationTestSuite) registerGhost(ctx context.Context) string {
	var resp ghost.IDResponse
	s.getJson(ctx, http.MethodPost, "/ghost", "", "", http.StatusCreated, &resp)
	require.NotEmpty(s.T(), resp.GhostID)
	return resp.GhostID
}
