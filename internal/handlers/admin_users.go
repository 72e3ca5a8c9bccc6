package handlers

import (
	"net/http"

	"github.com/jobzee/jobzee/httpx"
	"github.com/jobzee/jobzee/internal/models"
	"github.com/jobzee/jobzee/internal/repository"
	"github.com/jobzee/jobzee/internal/services"
)

// AdminUserHandler backs the /admin/users endpoints. Routes are mounted
// behind the admin guard.
type AdminUserHandler struct {
	svc *services.UserService
}

func NewAdminUserHandler(svc *services.UserService) *AdminUserHandler {
	return &AdminUserHandler{svc: svc}
}

func (h *AdminUserHandler) List(w http.ResponseWriter, r *http.Request) {
	f := repository.UserFilter{
		Query:     r.URL.Query().Get("q"),
		Role:      models.Role(r.URL.Query().Get("role")),
		CompanyID: httpx.QueryUint(r, "company"),
		Active:    httpx.QueryBool(r, "active"),
		Page:      pageOf(r),
	}
	page, err := h.svc.List(r.Context(), f)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "", page)
}

func (h *AdminUserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	u, err := h.svc.Get(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "", u)
}

func (h *AdminUserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	var req models.AdminUserUpdate
	if !decode(w, r, &req) {
		return
	}
	u, err := h.svc.Update(r.Context(), id, req)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "user_updated", u)
}

func (h *AdminUserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "user_deleted", nil)
}
