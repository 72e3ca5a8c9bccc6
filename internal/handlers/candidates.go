package handlers

import (
	"errors"
	"net/http"

	"github.com/jobzee/jobzee/httpx"
	"github.com/jobzee/jobzee/internal/models"
	"github.com/jobzee/jobzee/internal/repository"
	"github.com/jobzee/jobzee/internal/services"
)

// multipart framing allowance on top of the resume itself
const uploadOverhead = 1 << 20

type CandidateHandler struct {
	candidates *services.CandidateService
	matches    *services.MatchService
}

func NewCandidateHandler(candidates *services.CandidateService, matches *services.MatchService) *CandidateHandler {
	return &CandidateHandler{candidates: candidates, matches: matches}
}

func candidateFilter(r *http.Request) repository.CandidateFilter {
	q := r.URL.Query()
	return repository.CandidateFilter{
		Query:              q.Get("q"),
		Location:           q.Get("location"),
		Skills:             httpx.QueryList(r, "skills"),
		PreferredRoles:     httpx.QueryList(r, "preferred_roles"),
		MinExperienceYears: httpx.QueryInt(r, "min_experience", 0),
		MaxExperienceYears: httpx.QueryInt(r, "max_experience", 0),
		SalaryExpectation:  q.Get("salary"),
		Status:             models.CandidateStatus(q.Get("status")),
		Page:               pageOf(r),
	}
}

// List returns candidates. With ?scored=true the page is ranked by
// relevance against the search criteria.
func (h *CandidateHandler) List(w http.ResponseWriter, r *http.Request) {
	f := candidateFilter(r)
	if scored := httpx.QueryBool(r, "scored"); scored != nil && *scored {
		page, err := h.candidates.SearchCandidates(r.Context(), f)
		if err != nil {
			fail(w, r, err)
			return
		}
		ok(w, r, http.StatusOK, "", page)
		return
	}
	page, err := h.candidates.ListCandidates(r.Context(), f)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "", page)
}

func (h *CandidateHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.candidates.Stats(r.Context(), candidateFilter(r))
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "", stats)
}

func (h *CandidateHandler) Mine(w http.ResponseWriter, r *http.Request) {
	c, err := h.candidates.GetMine(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "", c)
}

func (h *CandidateHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	c, err := h.candidates.GetCandidate(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "", c)
}

func (h *CandidateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.CandidateInput
	if !decode(w, r, &in) {
		return
	}
	c, err := h.candidates.CreateCandidate(r.Context(), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusCreated, "candidate_created", c)
}

func (h *CandidateHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	var patch models.CandidatePatch
	if !decode(w, r, &patch) {
		return
	}
	c, err := h.candidates.UpdateCandidate(r.Context(), id, patch)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "candidate_updated", c)
}

func (h *CandidateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	if err := h.candidates.DeleteCandidate(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "candidate_deleted", nil)
}

// UploadResume accepts a multipart form with the document in the "file" field.
func (h *CandidateHandler) UploadResume(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, services.MaxResumeSize+uploadOverhead)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			fail(w, r, services.ErrFileTooLarge)
			return
		}
		failCode(w, r, http.StatusBadRequest, "required")
		return
	}
	defer file.Close()

	c, err := h.candidates.UploadResume(r.Context(), id, header.Filename, header.Size, file)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "resume_uploaded", c)
}

// Matches ranks open jobs for the candidate: min_score, limit.
func (h *CandidateHandler) Matches(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	out, err := h.matches.MatchJobsForCandidate(r.Context(), id,
		httpx.QueryFloat(r, "min_score", 0), httpx.QueryInt(r, "limit", 0))
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "", out)
}
