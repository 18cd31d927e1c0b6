package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"gastos/internal/core"
	"gastos/internal/export"
	applog "gastos/internal/log"
	"gastos/internal/middleware/ratelimit"
	"gastos/internal/middleware/security"
	"gastos/internal/middleware/trace"
	"gastos/internal/services"
	appweb "gastos/web"
)

// ExpenseCreator appends validated expenses.
type ExpenseCreator interface {
	CreateExpense(ctx context.Context, in services.NewExpense) (core.Row, error)
}

// ReportProvider computes category reports.
type ReportProvider interface {
	MonthlyReport(ctx context.Context, month string) (core.Report, error)
}

// Options holds the collaborators of the server.
type Options struct {
	Expenses           ExpenseCreator
	Reports            ReportProvider
	Exporter           *export.Exporter
	Ready              func(ctx context.Context) error
	RateLimitPerMinute int // zero disables rate limiting
	Logger             *applog.Logger
	RequestTimeout     time.Duration
}

// Server serves the expense UI and its JSON API.
type Server struct {
	http.Server
	templates      *template.Template
	expenses       ExpenseCreator
	reports        ReportProvider
	exporter       *export.Exporter
	ready          func(ctx context.Context) error
	limiter        *ratelimit.Limiter
	detector       *security.Detector
	tracer         *trace.Middleware
	logger         *applog.Logger
	requestTimeout time.Duration
	shutdownOnce   sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	exporter := opts.Exporter
	if exporter == nil {
		exporter = export.New("")
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	s := &Server{
		expenses:       opts.Expenses,
		reports:        opts.Reports,
		exporter:       exporter,
		ready:          opts.Ready,
		detector:       security.NewDetector(logger),
		logger:         logger,
		requestTimeout: timeout,
	}
	s.tracer = trace.NewMiddleware(s.detector.ExtractClientIP, logger)
	if opts.RateLimitPerMinute > 0 {
		s.limiter = ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitPerMinute,
			Burst:             max(opts.RateLimitPerMinute/6, 5),
		})
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Warn("Failed parsing templates", applog.FieldError, err)
	}
	s.templates = t

	mux := http.NewServeMux()
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.Handle("/agregar_gasto", s.limited(http.HandlerFunc(s.handleCreateExpense)))
	mux.Handle("/reporte_mensual", s.limited(http.HandlerFunc(s.handleReport)))
	mux.Handle("/reporte_mensual/pdf", s.limited(http.HandlerFunc(s.handleReportPDF)))
	mux.Handle("/reporte_mensual/excel", s.limited(http.HandlerFunc(s.handleReportExcel)))

	var handler http.Handler = mux
	handler = applog.RequestIDMiddleware(trace.RequestIDFromRequest)(handler)
	handler = applog.Middleware(logger)(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = s.detector.Middleware(handler)
	handler = s.tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) limited(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	return s.limiter.Middleware(s.detector.ExtractClientIP)(next)
}

// Shutdown stops the limiter cleanup loop and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// Metrics returns the request counters collected by the trace middleware.
func (s *Server) Metrics() trace.Metrics {
	return s.tracer.GetMetrics()
}
