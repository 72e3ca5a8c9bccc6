// Package handlers exposes the services as JSON endpoints under /api/v1.
package handlers

import (
	"errors"
	"net/http"

	"github.com/jobzee/jobzee/httpx"
	"github.com/jobzee/jobzee/i18n"
	"github.com/jobzee/jobzee/internal/log"
	"github.com/jobzee/jobzee/internal/repository"
	"github.com/jobzee/jobzee/internal/services"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// errorTable maps service sentinels to a status and an i18n message code.
var errorTable = []errorMapping{
	{services.ErrNotFound, http.StatusNotFound, "not_found"},
	{services.ErrForbidden, http.StatusForbidden, "forbidden"},
	{services.ErrEmailTaken, http.StatusConflict, "email_taken"},
	{services.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{services.ErrAccountDisabled, http.StatusForbidden, "account_disabled"},
	{services.ErrInvalidToken, http.StatusUnauthorized, "invalid_token"},
	{services.ErrJobNotOpen, http.StatusConflict, "job_not_open"},
	{services.ErrAlreadyApplied, http.StatusConflict, "already_applied"},
	{services.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
	{services.ErrCandidateExists, http.StatusConflict, "candidate_exists"},
	{services.ErrCompanyTaken, http.StatusConflict, "company_taken"},
	{services.ErrInvalidFileType, http.StatusUnsupportedMediaType, "invalid_file_type"},
	{services.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "file_too_large"},
	{services.ErrAgentUnavailable, http.StatusBadGateway, "agent_unavailable"},
}

// fail writes the localized error envelope for err. Unknown errors are
// logged and reported as 500 without details.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	lang := i18n.LangFromContext(r.Context())

	var verr *services.ValidationError
	if errors.As(err, &verr) {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed",
			i18n.T(lang, "validation_failed"), verr.Violations.Localize(lang))
		return
	}
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			httpx.JSONError(w, m.status, m.code, i18n.T(lang, m.code), nil)
			return
		}
	}
	log.FromContext(r.Context()).Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
	httpx.JSONError(w, http.StatusInternalServerError, "internal_error", i18n.T(lang, "internal_error"), nil)
}

func failCode(w http.ResponseWriter, r *http.Request, status int, code string) {
	httpx.JSONError(w, status, code, i18n.T(i18n.LangFromContext(r.Context()), code), nil)
}

// ok writes a success envelope whose message is the translation of code.
func ok(w http.ResponseWriter, r *http.Request, status int, code string, data any) {
	msg := ""
	if code != "" {
		msg = i18n.T(i18n.LangFromContext(r.Context()), code)
	}
	httpx.Success(w, status, msg, data)
}

// decode reads the JSON body into dst and answers 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.DecodeJSON(w, r, dst); err != nil {
		failCode(w, r, http.StatusBadRequest, "invalid_json")
		return false
	}
	return true
}

// pathID parses {id} and answers 400 when it is not a positive integer.
func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := httpx.PathUint(r, "id")
	if err != nil {
		failCode(w, r, http.StatusBadRequest, "invalid_id")
		return 0, false
	}
	return id, true
}

func pageOf(r *http.Request) repository.Page {
	return repository.Page{
		Page:     httpx.QueryInt(r, "page", 1),
		PageSize: httpx.QueryInt(r, "page_size", 0),
	}.Normalize()
}
