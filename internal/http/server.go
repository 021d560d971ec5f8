// Package http serves the Finovo JSON API, the public calculators and the
// learning pages.
package http

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"sync"
	"time"

	"finovo/internal/auth"
	"finovo/internal/http/schema"
	"finovo/internal/log"
	"finovo/internal/metrics"
	"finovo/internal/middleware/ratelimit"
	"finovo/internal/middleware/security"
	"finovo/internal/middleware/trace"
	"finovo/internal/services"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed templates/*.html
var templatesFS embed.FS

// ReadyCheck is a named dependency check run by /readyz.
type ReadyCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

// Deps are the services behind the routes.
type Deps struct {
	Auth      *auth.Service
	Profiles  *services.ProfileService
	Ledger    *services.LedgerService
	Dashboard *services.DashboardService
	Accounts  *services.AccountService
	Checks    []ReadyCheck
	Logger    *log.Logger
}

type Options struct {
	Addr               string
	RateLimitPerMinute int
	CookieSecure       bool
	SessionTTL         time.Duration
}

type Server struct {
	http.Server

	deps      Deps
	opts      Options
	logger    *log.Logger
	schemas   *schema.Validator
	templates *template.Template
	limiter   *ratelimit.Limiter
	detector  *security.Detector
	started   time.Time
	now       func() time.Time

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(deps Deps, opts Options) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	s := &Server{
		Server: http.Server{
			Addr:              opts.Addr,
			ReadTimeout:       15 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		deps:     deps,
		opts:     opts,
		logger:   logger.WithComponent(log.ComponentHTTP),
		schemas:  schema.MustNew(),
		limiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		detector: security.NewDetector(),
		started:  time.Now(),
		now:      time.Now,
	}

	t, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		s.logger.Warn("Failed parsing templates", log.FieldError, err)
	}
	s.templates = t

	s.Handler = s.chain(s.routes())
	return s
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/calc/sip", s.handleSIP)
	mux.HandleFunc("POST /api/calc/sip/schedule", s.handleSIPSchedule)
	mux.HandleFunc("POST /api/calc/emi", s.handleEMI)
	mux.HandleFunc("POST /api/calc/emi/schedule", s.handleEMISchedule)
	mux.HandleFunc("POST /api/calc/retirement", s.handleRetirement)
	mux.HandleFunc("POST /api/calc/goal", s.handleGoalPlan)

	mux.HandleFunc("POST /api/auth/signup", s.handleSignUp)
	mux.HandleFunc("POST /api/auth/signin", s.handleSignIn)
	mux.HandleFunc("POST /api/auth/signout", s.handleSignOut)

	mux.HandleFunc("GET /api/profile", s.authed(s.handleGetProfile))
	mux.HandleFunc("PUT /api/profile", s.authed(s.handlePutProfile))

	mux.HandleFunc("GET /api/expenses", s.authed(s.handleListExpenses))
	mux.HandleFunc("POST /api/expenses", s.authed(s.handleCreateExpense))
	mux.HandleFunc("PATCH /api/expenses/{id}", s.authed(s.handlePatchExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.authed(s.handleDeleteExpense))

	mux.HandleFunc("GET /api/investments", s.authed(s.handleListInvestments))
	mux.HandleFunc("POST /api/investments", s.authed(s.handleCreateInvestment))
	mux.HandleFunc("PATCH /api/investments/{id}", s.authed(s.handlePatchInvestment))
	mux.HandleFunc("DELETE /api/investments/{id}", s.authed(s.handleDeleteInvestment))

	mux.HandleFunc("GET /api/goals", s.authed(s.handleListGoals))
	mux.HandleFunc("POST /api/goals", s.authed(s.handleCreateGoal))
	mux.HandleFunc("PATCH /api/goals/{id}", s.authed(s.handlePatchGoal))
	mux.HandleFunc("DELETE /api/goals/{id}", s.authed(s.handleDeleteGoal))

	mux.HandleFunc("GET /api/dashboard", s.authed(s.requireCompleteProfile(s.handleDashboard)))
	mux.HandleFunc("GET /api/categories", s.handleCategories)

	mux.HandleFunc("GET /api/account/export", s.authed(s.handleExport))
	mux.HandleFunc("DELETE /api/account", s.authed(s.handleDeleteAccount))

	mux.HandleFunc("GET /learn/{$}", s.handleLearnIndex)
	mux.HandleFunc("GET /learn/{topic}", s.handleLearnTopic)
	mux.Handle("GET /{$}", http.RedirectHandler("/learn/", http.StatusFound))

	return mux
}

// chain applies, outermost first: tracing, security headers, scan
// detection, rate limiting and metrics. Auth is per route.
func (s *Server) chain(h http.Handler) http.Handler {
	h = metrics.Middleware(h)
	h = s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusTooManyRequests, CodeRateLimited, "Rate limit exceeded. Please try again later.", nil)
	})(h)
	h = s.detector.Middleware(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = trace.NewMiddleware(s.logger, s.detector.ExtractClientIP).Middleware(h)
	return h
}

// Shutdown stops the limiter and then the HTTP server, once.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": s.now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

// handleReady pings every configured dependency.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, code := "ready", http.StatusOK
	checks := make(map[string]string, len(s.deps.Checks)+1)
	for _, c := range s.deps.Checks {
		if err := c.Ping(ctx); err != nil {
			checks[c.Name] = "failed: " + err.Error()
			status, code = "not_ready", http.StatusServiceUnavailable
			continue
		}
		checks[c.Name] = "ok"
	}
	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status, code = "not_ready", http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	writeJSON(w, code, map[string]any{
		"status":    status,
		"timestamp": s.now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}
