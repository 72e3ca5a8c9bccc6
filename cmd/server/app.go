package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/jobzee/jobzee/auth"
	"github.com/jobzee/jobzee/gate"
	"github.com/jobzee/jobzee/internal/cache"
	"github.com/jobzee/jobzee/internal/db"
	"github.com/jobzee/jobzee/internal/handlers"
	"github.com/jobzee/jobzee/internal/metrics"
	"github.com/jobzee/jobzee/internal/middleware"
	"github.com/jobzee/jobzee/internal/policy"
	"github.com/jobzee/jobzee/internal/services"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const apiPrefix = "/api/v1"

// RouterConfig carries everything the routes need.
type RouterConfig struct {
	DB             *gorm.DB
	Cache          cache.Cache
	AuthGate       *policy.AuthGate
	Logger         zerolog.Logger
	AllowedOrigins []string
	AuthRateLimit  int

	Auth         *services.AuthService
	Users        *services.UserService
	Companies    *services.CompanyService
	Jobs         *services.JobService
	Candidates   *services.CandidateService
	Applications *services.ApplicationService
	Matches      *services.MatchService
	Agents       *services.AgentService
}

// App is the main application handler that sets up all routes.
type App struct {
	mux     *http.ServeMux
	cfg     *RouterConfig
	handler http.Handler
	limiter func(http.Handler) http.Handler
}

// NewApp creates the application with all routes and the middleware stack.
func NewApp(cfg *RouterConfig) *App {
	app := &App{mux: http.NewServeMux(), cfg: cfg}
	if cfg.AuthRateLimit > 0 {
		app.limiter = middleware.RateLimit(cfg.AuthRateLimit, time.Minute)
	}
	app.setupRoutes()
	app.handler = middleware.Chain(middleware.TrackRoute(app.mux),
		middleware.Recover,
		middleware.RequestLogger(cfg.Logger),
		middleware.Metrics,
		middleware.CORS(cfg.AllowedOrigins),
		middleware.Prefs,
		auth.Middleware(cfg.Auth),
	)
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

func (a *App) setupRoutes() {
	ah := handlers.NewAuthHandler(a.cfg.Auth)
	jh := handlers.NewJobHandler(a.cfg.Jobs, a.cfg.Applications, a.cfg.Matches)
	ch := handlers.NewCandidateHandler(a.cfg.Candidates, a.cfg.Matches)
	aph := handlers.NewApplicationHandler(a.cfg.Applications)
	coh := handlers.NewCompanyHandler(a.cfg.Companies, a.cfg.Jobs)
	agh := handlers.NewAgentHandler(a.cfg.Agents)
	uh := handlers.NewAdminUserHandler(a.cfg.Users)
	hh := handlers.NewHealthHandler(a.cfg.Agents, map[string]handlers.Pinger{
		"database": func(ctx context.Context) error { return db.Ping(ctx, a.cfg.DB) },
		"cache":    a.cfg.Cache.Ping,
	})

	// ─────────────────────────────────────────────────────────────────────────
	// Public routes
	// ─────────────────────────────────────────────────────────────────────────
	a.mux.HandleFunc("GET /health", hh.Health)
	a.mux.HandleFunc("GET /healthz", hh.Ready)
	a.mux.Handle("GET /metrics", metrics.Handler())

	a.public("POST /auth/register", ah.Register)
	a.public("POST /auth/login", ah.Login)
	a.public("POST /auth/refresh", ah.Refresh)
	a.public("POST /auth/forgot-password", ah.ForgotPassword)
	a.public("POST /auth/reset-password", ah.ResetPassword)

	// ─────────────────────────────────────────────────────────────────────────
	// Authenticated routes
	// ─────────────────────────────────────────────────────────────────────────
	a.authed("GET /profile", ah.Profile)
	a.authed("PUT /profile", ah.UpdateProfile)
	a.authed("POST /profile/change-password", ah.ChangePassword)
	a.authed("POST /profile/logout", ah.Logout)

	// Jobs
	a.guarded("GET /jobs", policy.ResourceJob, gate.ActionList, jh.List)
	a.guarded("POST /jobs", policy.ResourceJob, gate.ActionCreate, jh.Create)
	a.guarded("GET /jobs/{id}", policy.ResourceJob, gate.ActionView, jh.Get)
	a.guarded("PUT /jobs/{id}", policy.ResourceJob, gate.ActionUpdate, jh.Update)
	a.guarded("POST /jobs/{id}/close", policy.ResourceJob, policy.ActionClose, jh.Close)
	a.guarded("DELETE /jobs/{id}", policy.ResourceJob, gate.ActionDelete, jh.Delete)
	a.guarded("GET /jobs/{id}/applications", policy.ResourceApplication, gate.ActionList, jh.Applications)
	a.guarded("GET /jobs/{id}/matches", policy.ResourceJob, policy.ActionMatch, jh.Matches)

	// Candidates
	a.guarded("GET /candidates", policy.ResourceCandidate, gate.ActionList, ch.List)
	a.guarded("POST /candidates", policy.ResourceCandidate, gate.ActionCreate, ch.Create)
	a.guarded("GET /candidates/me", policy.ResourceCandidate, gate.ActionView, ch.Mine)
	a.guarded("GET /candidates/stats", policy.ResourceCandidate, policy.ActionStats, ch.Stats)
	a.guarded("GET /candidates/{id}", policy.ResourceCandidate, gate.ActionView, ch.Get)
	a.guarded("PUT /candidates/{id}", policy.ResourceCandidate, gate.ActionUpdate, ch.Update)
	a.guarded("DELETE /candidates/{id}", policy.ResourceCandidate, gate.ActionDelete, ch.Delete)
	a.guarded("POST /candidates/{id}/resume", policy.ResourceCandidate, gate.ActionUpdate, ch.UploadResume)
	a.guarded("GET /candidates/{id}/matches", policy.ResourceCandidate, policy.ActionMatch, ch.Matches)

	// Applications
	a.guarded("GET /applications", policy.ResourceApplication, gate.ActionList, aph.ListMine)
	a.guarded("POST /applications", policy.ResourceApplication, gate.ActionApply, aph.Apply)
	a.guarded("GET /applications/{id}", policy.ResourceApplication, gate.ActionView, aph.Get)
	a.guarded("PATCH /applications/{id}/status", policy.ResourceApplication, gate.ActionUpdate, aph.UpdateStatus)
	a.guarded("POST /applications/{id}/withdraw", policy.ResourceApplication, policy.ActionWithdraw, aph.Withdraw)

	// Companies
	a.guarded("GET /companies", policy.ResourceCompany, gate.ActionList, coh.List)
	a.guarded("POST /companies", policy.ResourceCompany, gate.ActionCreate, coh.Create)
	a.guarded("GET /companies/{id}", policy.ResourceCompany, gate.ActionView, coh.Get)
	a.guarded("GET /companies/by-slug/{slug}", policy.ResourceCompany, gate.ActionView, coh.GetBySlug)
	a.guarded("PUT /companies/{id}", policy.ResourceCompany, gate.ActionUpdate, coh.Update)
	a.guarded("GET /companies/{id}/jobs/stats", policy.ResourceJob, gate.ActionList, coh.JobStats)

	// Agents
	a.guarded("POST /agents/job-request", policy.ResourceAgent, gate.ActionUse, agh.JobRequest)
	a.guarded("POST /agents/candidate-request", policy.ResourceAgent, gate.ActionUse, agh.CandidateRequest)
	a.guarded("GET /agents/status", policy.ResourceAgent, gate.ActionUse, agh.Status)

	// ─────────────────────────────────────────────────────────────────────────
	// Admin routes
	// ─────────────────────────────────────────────────────────────────────────
	a.admin("GET /admin/users", uh.List)
	a.admin("GET /admin/users/{id}", uh.Get)
	a.admin("PATCH /admin/users/{id}", uh.Update)
	a.admin("DELETE /admin/users/{id}", uh.Delete)
}

// route prefixes the path of a "METHOD /path" pattern with the API version.
func route(pattern string) string {
	method, path, ok := strings.Cut(pattern, " ")
	if !ok {
		return apiPrefix + pattern
	}
	return method + " " + apiPrefix + path
}

// public registers an unauthenticated route. Every public route shares one
// limiter so the budget is per client, not per endpoint.
func (a *App) public(pattern string, h http.HandlerFunc) {
	var handler http.Handler = h
	if a.limiter != nil {
		handler = a.limiter(handler)
	}
	a.mux.Handle(route(pattern), handler)
}

func (a *App) authed(pattern string, h http.HandlerFunc) {
	a.mux.Handle(route(pattern), auth.RequireAuth(h))
}

// guarded requires authentication and the resourceType:action permission.
func (a *App) guarded(pattern, resourceType string, action gate.Action, h http.HandlerFunc) {
	a.mux.Handle(route(pattern),
		auth.RequireAuth(a.cfg.AuthGate.RequirePermission(resourceType, action)(h)))
}

func (a *App) admin(pattern string, h http.HandlerFunc) {
	a.mux.Handle(route(pattern), auth.RequireAuth(a.cfg.AuthGate.RequireAdmin()(h)))
}
