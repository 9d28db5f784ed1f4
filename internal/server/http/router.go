package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/edumentor/learnconnect/internal/server/service"
	"github.com/edumentor/learnconnect/internal/server/store"
	"github.com/edumentor/learnconnect/pkg/httpx"
	"github.com/edumentor/learnconnect/pkg/jwtx"
	"github.com/edumentor/learnconnect/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     *jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	AuthService      *service.AuthService
	UserService      *service.UserService
	SkillService     *service.SkillService
	BookingService   *service.BookingService
	MatchingService  *service.MatchingService
	AnalyticsService *service.AnalyticsService
	Hub              *service.NotificationHub
}

func NewRouter(
	verifier *jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		metricsMiddleware,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerSessions()
	r.registerSkills()
	r.registerMatching()
	r.registerAnalytics()
	r.registerNotifications()
	r.registerSystem()
}

// ServeHTTP implements http.Handler and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// authed wraps a handler with bearer authentication plus a per-user rate
// limit profile.
func (r *Router) authed(h http.Handler, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimitByUser(limit),
	)
}

func (r *Router) registerAuth() {
	auth := &AuthHandler{Auth: r.AuthService, Users: r.UserService}

	// Credential endpoints take the strict profile; they are the brute-force
	// surface.
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(auth.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(http.HandlerFunc(auth.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/refresh",
		httpx.Chain(http.HandlerFunc(auth.HandleRefresh),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(http.HandlerFunc(auth.HandleLogout),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerUsers() {
	me := &MeHandler{Users: r.UserService}

	r.Mux.Handle("GET /v1/users/me", r.authed(http.HandlerFunc(me.HandleGet), httpx.LenientLimit))
	r.Mux.Handle("PATCH /v1/users/me", r.authed(http.HandlerFunc(me.HandlePatch), httpx.ModerateLimit))
}

func (r *Router) registerSessions() {
	sessions := &SessionsHandler{Bookings: r.BookingService}

	r.Mux.Handle("GET /v1/sessions", r.authed(http.HandlerFunc(sessions.HandleList), httpx.LenientLimit))
	r.Mux.Handle("POST /v1/sessions", r.authed(http.HandlerFunc(sessions.HandleBook), httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/sessions/{id}", r.authed(http.HandlerFunc(sessions.HandleGet), httpx.LenientLimit))
	r.Mux.Handle("DELETE /v1/sessions/{id}", r.authed(http.HandlerFunc(sessions.HandleCancel), httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/sessions/{id}/messages", r.authed(http.HandlerFunc(sessions.HandleListMessages), httpx.LenientLimit))
	r.Mux.Handle("POST /v1/sessions/{id}/messages", r.authed(http.HandlerFunc(sessions.HandlePostMessage), httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/sessions/{id}/review", r.authed(http.HandlerFunc(sessions.HandleReview), httpx.ModerateLimit))
}

func (r *Router) registerSkills() {
	skills := &SkillsHandler{Skills: r.SkillService}

	r.Mux.Handle("GET /v1/skills", r.authed(http.HandlerFunc(skills.HandleList), httpx.LenientLimit))
	r.Mux.Handle("GET /v1/users/me/skills", r.authed(http.HandlerFunc(skills.HandleListMine), httpx.LenientLimit))

	// Declaring a skill is tutors-only.
	r.Mux.Handle("POST /v1/users/me/skills",
		httpx.Chain(http.HandlerFunc(skills.HandleAddMine),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireRole("tutor"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerMatching() {
	matching := &MatchingHandler{Matching: r.MatchingService}

	r.Mux.Handle("GET /v1/matching/tutors", r.authed(http.HandlerFunc(matching.HandleSearch), httpx.LenientLimit))
}

func (r *Router) registerAnalytics() {
	analytics := &AnalyticsHandler{Analytics: r.AnalyticsService}

	r.Mux.Handle("GET /v1/analytics/summary", r.authed(http.HandlerFunc(analytics.HandleSummary), httpx.LenientLimit))
	r.Mux.Handle("GET /v1/analytics/activity", r.authed(http.HandlerFunc(analytics.HandleActivity), httpx.LenientLimit))
	r.Mux.Handle("GET /v1/analytics/scores", r.authed(http.HandlerFunc(analytics.HandleScores), httpx.LenientLimit))
}

func (r *Router) registerNotifications() {
	ws := &NotificationsHandler{Hub: r.Hub, Logger: r.logger}

	r.Mux.Handle("GET /v1/ws/notifications", r.authed(ws, httpx.LenientLimit))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /metrics", promhttp.Handler())
}
