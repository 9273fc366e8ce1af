package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/chart"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/report"
	appweb "fintrack/web"
)

// Dependencies are the services the server renders.
type Dependencies struct {
	Store        *ledger.Store
	Canvas       *chart.Canvas
	Exporter     *report.Exporter
	Logger       *applog.Logger
	Title        string
	RateLimitRPM int
}

type Server struct {
	http.Server
	templates *template.Template
	store     *ledger.Store
	canvas    *chart.Canvas
	exporter  *report.Exporter
	title     string

	logger     *applog.Logger
	structured *applog.StructuredLogger

	rateLimiter     *ratelimit.Limiter
	clientIP        *security.ClientIPResolver
	traceMiddleware *trace.Middleware
	started         time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, deps Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)
	title := deps.Title
	if title == "" {
		title = report.DefaultTitle
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		store:       deps.Store,
		canvas:      deps.Canvas,
		exporter:    deps.Exporter,
		title:       title,
		logger:      logger,
		structured:  applog.NewStructuredLogger(logger),
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: deps.RateLimitRPM}),
		clientIP:    security.NewClientIPResolver(),
		started:     time.Now(),
	}
	s.traceMiddleware = trace.NewMiddleware(s.clientIP.ExtractClientIP, logger)

	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Error("Failed parsing templates", applog.FieldError, err,
			applog.FieldErrorType, applog.ErrorTypeConfiguration)
	} else {
		s.templates = t
	}

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /balance", s.handleSetStartingBalance)
	mux.HandleFunc("POST /transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /transactions/{id}/edit", s.handleEditTransaction)
	mux.HandleFunc("POST /transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("POST /transactions/{id}/delete", s.handleDeleteTransaction)
	mux.HandleFunc("DELETE /transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /ui/table", s.handleTable)
	mux.HandleFunc("GET /ui/balance", s.handleBalance)
	mux.HandleFunc("GET /ui/form", s.handleEntryForm)
	mux.HandleFunc("GET /chart.json", s.handleChart)

	for _, f := range report.Formats {
		mux.Handle("GET /report."+string(f), security.NoStoreMiddleware(s.handleReport(f)))
	}

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limit := s.rateLimiter.Middleware(s.clientIP.ExtractClientIP, ratelimit.MutatingOnly, s.onRateLimited)

	var handler http.Handler = mux
	handler = limit(handler)
	handler = headers.Middleware(handler)
	handler = s.traceMiddleware.Middleware(handler)
	handler = applog.Middleware(logger)(handler)
	s.Handler = handler

	return s
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, s.clientIP.ExtractClientIP(r),
		applog.FieldMethod, r.Method,
		applog.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "Too many requests. Please try again in a minute.").
		TriggerErrorNotification("Too many requests. Please try again in a minute.").
		Write(w)
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
