package test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/repcheck/internal/ghost"
	"github.com/2beens/repcheck/internal/theme"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestTheme_ToggleIsPersistedAndStreamed() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	t := s.T()

	ghostID := s.registerGhost(ctx)

	var current theme.Theme
	s.getJson(ctx, http.MethodGet, "/settings/theme", ghostID, "", http.StatusOK, &current)
	assert.Equal(t, theme.ModeLight, current.Mode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serverEndpoint+"/settings/theme/events", nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set(ghost.HeaderName, ghostID)

	// no client timeout, the stream stays open
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	events := bufio.NewReader(resp.Body)
	initial := readThemeEvent(s, events)
	assert.Equal(t, theme.ModeLight, initial.Mode)

	s.getJson(ctx, http.MethodPost, "/settings/theme/toggle", ghostID, "", http.StatusOK, &current)
	assert.Equal(t, theme.ModeDark, current.Mode)

	toggled := readThemeEvent(s, events)
	assert.Equal(t, theme.ModeDark, toggled.Mode)
	assert.Equal(t, current.Colors.Background, toggled.Colors.Background)
}

func readThemeEvent(s *IntegrationTestSuite, reader *bufio.Reader) theme.Theme {
	t := s.T()
	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		data, ok := strings.CutPrefix(strings.TrimSpace(line), "data: ")
		if !ok {
			continue
		}
		var event theme.Theme
		require.NoError(t, json.Unmarshal([]byte(data), &event))
		return event
	}
}
