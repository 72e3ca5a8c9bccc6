package handlers

import (
	"net/http"

	"github.com/jobzee/jobzee/internal/models"
	"github.com/jobzee/jobzee/internal/services"
)

type ApplicationHandler struct {
	svc *services.ApplicationService
}

func NewApplicationHandler(svc *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{svc: svc}
}

func (h *ApplicationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.ListMine(r.Context(), pageOf(r))
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "", page)
}

func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req models.CreateApplicationRequest
	if !decode(w, r, &req) {
		return
	}
	app, err := h.svc.Apply(r.Context(), req)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusCreated, "application_created", app)
}

func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	app, err := h.svc.Get(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "", app)
}

func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	var req models.UpdateApplicationStatusRequest
	if !decode(w, r, &req) {
		return
	}
	app, err := h.svc.UpdateStatus(r.Context(), id, req)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "application_updated", app)
}

func (h *ApplicationHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	app, err := h.svc.Withdraw(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "application_withdrawn", app)
}
