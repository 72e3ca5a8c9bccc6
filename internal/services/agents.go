package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jobzee/jobzee/internal/config"
	"github.com/jobzee/jobzee/internal/metrics"
	"golang.org/x/sync/errgroup"
)

// Agent names, as reported by GetAgentStatus.
const (
	AgentJobFinder       = "job-finder"
	AgentCandidateFinder = "candidate-finder"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	StatusDegraded  = "degraded"
)

// AgentRequest is the chat message forwarded to an agent.
type AgentRequest struct {
	Message  string         `json:"message"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// AgentResponse is the agent's reply.
type AgentResponse struct {
	Message         string         `json:"message"`
	Type            string         `json:"type,omitempty"`
	Data            map[string]any `json:"data,omitempty"`
	ProfileComplete bool           `json:"profileComplete,omitempty"`
	MatchFound      bool           `json:"matchFound,omitempty"`
	Error           string         `json:"error,omitempty"`
}

// AgentStatus is the result of one health check.
type AgentStatus struct {
	AgentID      string    `json:"agent_id"`
	Status       string    `json:"status"`
	LastSeen     time.Time `json:"last_seen"`
	MessageCount int       `json:"message_count"`
	Error        string    `json:"error,omitempty"`
}

// AgentService talks to the AI agents over HTTP.
type AgentService struct {
	client *http.Client
	agents map[string]string
	now    func() time.Time
}

func NewAgentService(cfg config.AgentsConfig) *AgentService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &AgentService{
		client: &http.Client{Timeout: timeout},
		agents: map[string]string{
			AgentJobFinder:       strings.TrimRight(cfg.JobFinderURL, "/"),
			AgentCandidateFinder: strings.TrimRight(cfg.CandidateFinderURL, "/"),
		},
		now: time.Now,
	}
}

func (s *AgentService) ProcessJobFinderRequest(ctx context.Context, userID uint, req AgentRequest) (*AgentResponse, error) {
	return s.chat(ctx, AgentJobFinder, userID, req)
}

func (s *AgentService) ProcessCandidateFinderRequest(ctx context.Context, userID uint, req AgentRequest) (*AgentResponse, error) {
	return s.chat(ctx, AgentCandidateFinder, userID, req)
}

func (s *AgentService) chat(ctx context.Context, agent string, userID uint, req AgentRequest) (resp *AgentResponse, err error) {
	start := s.now()
	defer func() {
		metrics.AgentRequestDuration.WithLabelValues(agent).Observe(time.Since(start).Seconds())
		metrics.AgentRequestsTotal.WithLabelValues(agent, metrics.Outcome(err)).Inc()
	}()

	body, err := json.Marshal(map[string]any{
		"userId":    fmt.Sprint(userID),
		"message":   req.Message,
		"metadata":  req.Metadata,
		"timestamp": s.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal agent request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.agents[agent]+"/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build agent request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrAgentUnavailable, agent, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrAgentUnavailable, agent, res.StatusCode)
	}

	var out AgentResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", agent, err)
	}
	return &out, nil
}

// GetAgentStatus checks every agent's /health endpoint in parallel.
func (s *AgentService) GetAgentStatus(ctx context.Context) map[string]AgentStatus {
	var mu sync.Mutex
	out := make(map[string]AgentStatus, len(s.agents))
	g, gctx := errgroup.WithContext(ctx)
	for name, base := range s.agents {
		g.Go(func() error {
			st := s.check(gctx, name, base)
			mu.Lock()
			out[name] = st
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (s *AgentService) check(ctx context.Context, name, base string) AgentStatus {
	unhealthy := func(err error) AgentStatus {
		return AgentStatus{AgentID: name, Status: StatusUnhealthy, LastSeen: s.now(), Error: err.Error()}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/health", nil)
	if err != nil {
		return unhealthy(err)
	}
	res, err := s.client.Do(req)
	if err != nil {
		return unhealthy(err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return unhealthy(fmt.Errorf("status %d", res.StatusCode))
	}

	var health struct {
		Status       string    `json:"status"`
		LastSeen     time.Time `json:"lastSeen"`
		MessageCount int       `json:"messageCount"`
	}
	if err := json.NewDecoder(res.Body).Decode(&health); err != nil {
		return unhealthy(err)
	}
	st := AgentStatus{
		AgentID:      name,
		Status:       health.Status,
		LastSeen:     health.LastSeen,
		MessageCount: health.MessageCount,
	}
	if st.Status == "" {
		st.Status = StatusHealthy
	}
	if st.LastSeen.IsZero() {
		st.LastSeen = s.now()
	}
	return st
}

// HealthCheck reports "healthy" when every agent is, otherwise "degraded".
func (s *AgentService) HealthCheck(ctx context.Context) (string, map[string]AgentStatus) {
	statuses := s.GetAgentStatus(ctx)
	for _, st := range statuses {
		if st.Status != StatusHealthy {
			return StatusDegraded, statuses
		}
	}
	return StatusHealthy, statuses
}
