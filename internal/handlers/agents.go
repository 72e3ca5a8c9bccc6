package handlers

import (
	"context"
	"net/http"

	"github.com/jobzee/jobzee/auth"
	"github.com/jobzee/jobzee/internal/services"
	"github.com/jobzee/jobzee/validation"
)

type AgentHandler struct {
	svc *services.AgentService
}

func NewAgentHandler(svc *services.AgentService) *AgentHandler {
	return &AgentHandler{svc: svc}
}

func (h *AgentHandler) JobRequest(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, h.svc.ProcessJobFinderRequest)
}

func (h *AgentHandler) CandidateRequest(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, h.svc.ProcessCandidateFinderRequest)
}

type agentCall = func(ctx context.Context, userID uint, req services.AgentRequest) (*services.AgentResponse, error)

func (h *AgentHandler) forward(w http.ResponseWriter, r *http.Request, call agentCall) {
	var req services.AgentRequest
	if !decode(w, r, &req) {
		return
	}
	v := validation.Violations{}
	validation.Required("message", req.Message, v)
	if !v.Empty() {
		fail(w, r, &services.ValidationError{Violations: v})
		return
	}
	userID, _ := auth.UserIDFromContext(r.Context())
	resp, err := call(r.Context(), userID, req)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "", resp)
}

func (h *AgentHandler) Status(w http.ResponseWriter, r *http.Request) {
	ok(w, r, http.StatusOK, "", h.svc.GetAgentStatus(r.Context()))
}
