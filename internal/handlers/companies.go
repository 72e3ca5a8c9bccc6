package handlers

import (
	"net/http"

	"github.com/jobzee/jobzee/internal/models"
	"github.com/jobzee/jobzee/internal/services"
)

type CompanyHandler struct {
	companies *services.CompanyService
	jobs      *services.JobService
}

func NewCompanyHandler(companies *services.CompanyService, jobs *services.JobService) *CompanyHandler {
	return &CompanyHandler{companies: companies, jobs: jobs}
}

func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.companies.List(r.Context(), r.URL.Query().Get("q"), pageOf(r))
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "", page)
}

func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	c, err := h.companies.Get(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "", c)
}

func (h *CompanyHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	c, err := h.companies.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "", c)
}

func (h *CompanyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.CompanyInput
	if !decode(w, r, &in) {
		return
	}
	c, err := h.companies.Create(r.Context(), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusCreated, "company_created", c)
}

func (h *CompanyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	var in models.CompanyInput
	if !decode(w, r, &in) {
		return
	}
	c, err := h.companies.Update(r.Context(), id, in)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "company_updated", c)
}

// JobStats counts the company's postings per status.
func (h *CompanyHandler) JobStats(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	counts, err := h.jobs.CountByStatus(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "", counts)
}
