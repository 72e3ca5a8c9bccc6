package handlers

import (
	"net/http"

	"github.com/jobzee/jobzee/httpx"
	"github.com/jobzee/jobzee/internal/models"
	"github.com/jobzee/jobzee/internal/repository"
	"github.com/jobzee/jobzee/internal/services"
)

type JobHandler struct {
	jobs    *services.JobService
	apps    *services.ApplicationService
	matches *services.MatchService
}

func NewJobHandler(jobs *services.JobService, apps *services.ApplicationService, matches *services.MatchService) *JobHandler {
	return &JobHandler{jobs: jobs, apps: apps, matches: matches}
}

// List searches postings: q, location, skills, company, status, job_type,
// experience_level, remote, page, page_size.
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := repository.JobFilter{
		Query:           q.Get("q"),
		Location:        q.Get("location"),
		Skills:          httpx.QueryList(r, "skills"),
		Status:          models.JobStatus(q.Get("status")),
		CompanyID:       httpx.QueryUint(r, "company"),
		JobType:         q.Get("job_type"),
		ExperienceLevel: q.Get("experience_level"),
		Remote:          httpx.QueryBool(r, "remote"),
		Page:            pageOf(r),
	}
	page, err := h.jobs.ListJobs(r.Context(), f)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "", page)
}

func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	job, err := h.jobs.GetJob(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "", job)
}

func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.JobInput
	if !decode(w, r, &in) {
		return
	}
	job, err := h.jobs.CreateJob(r.Context(), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusCreated, "job_created", job)
}

func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	var patch models.JobPatch
	if !decode(w, r, &patch) {
		return
	}
	job, err := h.jobs.UpdateJob(r.Context(), id, patch)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "job_updated", job)
}

func (h *JobHandler) Close(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	job, err := h.jobs.CloseJob(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "job_closed", job)
}

func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	if err := h.jobs.DeleteJob(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "job_deleted", nil)
}

func (h *JobHandler) Applications(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	page, err := h.apps.ListForJob(r.Context(), id, pageOf(r))
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "", page)
}

// Matches ranks active candidates for the job: min_score, limit.
func (h *JobHandler) Matches(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	out, err := h.matches.MatchCandidatesForJob(r.Context(), id,
		httpx.QueryFloat(r, "min_score", 0), httpx.QueryInt(r, "limit", 0))
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "", out)
}
