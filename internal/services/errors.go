// Package services holds the business rules behind the HTTP API.
package services

import (
	"context"
	"errors"
	"strconv"

	"github.com/jobzee/jobzee/gate"
	"github.com/jobzee/jobzee/internal/events"
	"github.com/jobzee/jobzee/internal/log"
	"github.com/jobzee/jobzee/internal/policy"
	"github.com/jobzee/jobzee/internal/repository"
	"github.com/jobzee/jobzee/validation"
)

var (
	ErrNotFound  = repository.ErrNotFound
	ErrForbidden = gate.ErrForbidden

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrInvalidToken       = errors.New("invalid token")
	ErrJobNotOpen         = errors.New("job is not accepting applications")
	ErrAlreadyApplied     = errors.New("already applied to this job")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrCandidateExists    = errors.New("candidate profile already exists")
	ErrCompanyTaken       = errors.New("company slug already taken")
	ErrInvalidFileType    = errors.New("unsupported file type")
	ErrFileTooLarge       = errors.New("file too large")
	ErrAgentUnavailable   = errors.New("agent unavailable")
)

// ValidationError reports rejected input fields as message codes.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string { return "validation failed" }

func invalid(v validation.Violations) error {
	if v.Empty() {
		return nil
	}
	return &ValidationError{Violations: v}
}

// Authorizer is the part of the auth gate the services depend on.
type Authorizer interface {
	Authorize(ctx context.Context, action gate.Action, resourceType string, resource any) error
	Principal(ctx context.Context) *policy.Principal
	InvalidateUser(userID uint)
}

var _ Authorizer = (*policy.AuthGate)(nil)

func caller(ctx context.Context, authz Authorizer) (*policy.Principal, error) {
	pr := authz.Principal(ctx)
	if pr == nil {
		return nil, ErrForbidden
	}
	return pr, nil
}

// publish emits e and only logs failures: events never fail a request.
func publish(ctx context.Context, p events.Publisher, typ string, aggregateID uint, payload any) {
	err := p.Publish(ctx, events.New(typ, strconv.FormatUint(uint64(aggregateID), 10), payload))
	if err != nil {
		log.FromContext(ctx).Warn().Err(err).Str(log.FieldEvent, typ).Msg("publish event failed")
	}
}
