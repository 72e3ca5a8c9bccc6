package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jobzee/jobzee/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func agentServer(t *testing.T, healthy bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat", func(w http.ResponseWriter, r *http.Request) {
		if !healthy {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(AgentResponse{
			Message:    "echo: " + body["message"].(string),
			Type:       "reply",
			Data:       map[string]any{"user": body["userId"]},
			MatchFound: true,
		})
	})
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "healthy", "messageCount": 3})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestAgentService_Chat(t *testing.T) {
	jobFinder := agentServer(t, true)
	candidateFinder := agentServer(t, false)
	svc := NewAgentService(config.AgentsConfig{
		JobFinderURL:       jobFinder.URL + "/",
		CandidateFinderURL: candidateFinder.URL,
		Timeout:            time.Second,
	})

	resp, err := svc.ProcessJobFinderRequest(context.Background(), 7, AgentRequest{Message: "find me go jobs"})
	require.NoError(t, err)
	assert.Equal(t, "echo: find me go jobs", resp.Message)
	assert.Equal(t, "7", resp.Data["user"])
	assert.True(t, resp.MatchFound)

	_, err = svc.ProcessCandidateFinderRequest(context.Background(), 7, AgentRequest{Message: "hi"})
	assert.ErrorIs(t, err, ErrAgentUnavailable)
}

func TestAgentService_HealthCheck(t *testing.T) {
	up := agentServer(t, true)
	down := agentServer(t, false)

	svc := NewAgentService(config.AgentsConfig{JobFinderURL: up.URL, CandidateFinderURL: up.URL})
	status, agents := svc.HealthCheck(context.Background())
	assert.Equal(t, StatusHealthy, status)
	require.Len(t, agents, 2)
	assert.Equal(t, 3, agents[AgentJobFinder].MessageCount)
	assert.Equal(t, AgentJobFinder, agents[AgentJobFinder].AgentID)

	svc = NewAgentService(config.AgentsConfig{JobFinderURL: up.URL, CandidateFinderURL: down.URL})
	status, agents = svc.HealthCheck(context.Background())
	assert.Equal(t, StatusDegraded, status)
	assert.Equal(t, StatusUnhealthy, agents[AgentCandidateFinder].Status)
	assert.NotEmpty(t, agents[AgentCandidateFinder].Error)

	svc = NewAgentService(config.AgentsConfig{JobFinderURL: "http://127.0.0.1:1", CandidateFinderURL: up.URL, Timeout: time.Second})
	status, _ = svc.HealthCheck(context.Background())
	assert.Equal(t, StatusDegraded, status)
}
