package policy

import (
	"context"
	"net/http"
	"time"

	"github.com/jobzee/jobzee/auth"
	"github.com/jobzee/jobzee/gate"
	"github.com/jobzee/jobzee/httpx"
	"github.com/jobzee/jobzee/i18n"
)

// AuthGate binds the hybrid gate to the authenticated request context.
type AuthGate struct {
	Gate          *gate.HybridGate[uint]
	CacheResolver *gate.CachedResolver[uint]
}

// NewAuthGate caches resolved principals for cacheTTL and registers the
// tenant policy for every resource, with admins bypassing it.
func NewAuthGate(resolver gate.ProfileResolver[uint], cacheTTL time.Duration) *AuthGate {
	cached := gate.NewCachedResolver[uint](resolver, cacheTTL)
	ag := &AuthGate{
		Gate:          gate.NewHybridGate[uint](cached),
		CacheResolver: cached,
	}

	tenant := NewAdminBypassPolicy(NewTenantPolicy(ag.principal), ag.isAdmin)
	for _, res := range []string{ResourceJob, ResourceCompany, ResourceApplication, ResourceCandidate} {
		ag.RegisterPolicy(res, tenant)
	}
	return ag
}

func (ag *AuthGate) RegisterPolicy(resourceType string, p gate.Policy[uint]) {
	ag.Gate.Register(resourceType, p)
}

func (ag *AuthGate) principal(ctx context.Context, userID uint) *Principal {
	p, err := ag.CacheResolver.Resolve(ctx, userID)
	if err != nil {
		return nil
	}
	pr, _ := p.(*Principal)
	return pr
}

func (ag *AuthGate) isAdmin(ctx context.Context, userID uint) bool {
	pr := ag.principal(ctx, userID)
	return pr != nil && pr.IsAdmin()
}

// Principal returns the resolved caller, or nil when unauthenticated or inactive.
func (ag *AuthGate) Principal(ctx context.Context) *Principal {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return nil
	}
	return ag.principal(ctx, userID)
}

// Authorize checks both the role permission and, when resource is non-nil,
// the record policy. Denials return gate.ErrForbidden.
func (ag *AuthGate) Authorize(ctx context.Context, action gate.Action, resourceType string, resource any) error {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return gate.ErrForbidden
	}
	return ag.Gate.Authorize(ctx, userID, action, resourceType, resource)
}

func (ag *AuthGate) Can(ctx context.Context, action gate.Action, resourceType string, resource any) bool {
	return ag.Authorize(ctx, action, resourceType, resource) == nil
}

// CanProfile checks the role permission only.
func (ag *AuthGate) CanProfile(ctx context.Context, action gate.Action, resourceType string) bool {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return false
	}
	return ag.Gate.CanProfile(ctx, userID, action, resourceType)
}

// InvalidateUser must be called after a user's role, company or active flag changes.
func (ag *AuthGate) InvalidateUser(userID uint) {
	ag.CacheResolver.Invalidate(userID)
}

func (ag *AuthGate) InvalidateAll() {
	ag.CacheResolver.InvalidateAll()
}

func deny(w http.ResponseWriter, r *http.Request, status int, code string) {
	httpx.JSONError(w, status, code, i18n.T(i18n.LangFromContext(r.Context()), code), nil)
}

// RequirePermission rejects requests whose role lacks resourceType:action.
func (ag *AuthGate) RequirePermission(resourceType string, action gate.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := auth.UserIDFromContext(r.Context()); !ok {
				deny(w, r, http.StatusUnauthorized, "unauthorized")
				return
			}
			if !ag.CanProfile(r.Context(), action, resourceType) {
				deny(w, r, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin only lets through principals holding "*:*".
func (ag *AuthGate) RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := auth.UserIDFromContext(r.Context())
			if !ok {
				deny(w, r, http.StatusUnauthorized, "unauthorized")
				return
			}
			profile, err := ag.CacheResolver.Resolve(r.Context(), userID)
			if err != nil || profile == nil || !profile.HasPermission(gate.PermissionAll) {
				deny(w, r, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
