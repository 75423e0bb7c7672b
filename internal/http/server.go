package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/kv"
	"fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/services"
	appweb "fintrack/web"
)

const (
	summaryCacheSize = 64
	summaryCacheTTL  = 5 * time.Minute
)

type Server struct {
	http.Server
	svc       *services.LedgerService
	templates *template.Template
	logger    *log.Logger
	pinger    kv.Pinger
	startedAt time.Time

	clientIP    *security.ClientIPResolver
	rateLimiter *ratelimit.Limiter
	tracer      *trace.Middleware

	// Keyed by ledger version, so entries for an older ledger are never hit.
	summaryCache   *cache.LRUCache[core.Summary]
	breakdownCache *cache.LRUCache[[]core.CategoryAmount]
	cacheManager   *cache.Manager

	shutdownOnce sync.Once
}

// Option customizes a Server.
type Option func(*Server)

// WithPinger makes /readyz check the store with p.
func WithPinger(p kv.Pinger) Option {
	return func(s *Server) { s.pinger = p }
}

// WithLogger sets the base logger for request-scoped logging.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithRateLimit overrides the per-client write limit.
func WithRateLimit(cfg ratelimit.Config) Option {
	return func(s *Server) {
		if s.rateLimiter != nil {
			s.rateLimiter.Stop()
		}
		s.rateLimiter = ratelimit.NewLimiter(cfg)
	}
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, svc *services.LedgerService, opts ...Option) *Server {
	mux := http.NewServeMux()

	// Only fails on a malformed CIDR and the defaults are constants.
	resolver, _ := security.NewClientIPResolver()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		svc:            svc,
		startedAt:      time.Now(),
		clientIP:       resolver,
		rateLimiter:    ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		summaryCache:   cache.NewLRUCache[core.Summary](summaryCacheSize, summaryCacheTTL),
		breakdownCache: cache.NewLRUCache[[]core.CategoryAmount](summaryCacheSize, summaryCacheTTL),
		cacheManager:   cache.NewManager(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(log.DefaultConfig())
	}
	s.tracer = trace.NewMiddleware(s.clientIP.ClientIP)

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.Register(s.breakdownCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	// HTML page and form posts
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /transactions", s.handleFormCreate)
	mux.HandleFunc("POST /transactions/{id}", s.handleFormUpdate)
	mux.HandleFunc("POST /transactions/{id}/delete", s.handleFormDelete)
	mux.HandleFunc("POST /settings/bank-amount", s.handleFormBankAmount)
	mux.HandleFunc("POST /settings/theme/toggle", s.handleFormToggleTheme)

	// JSON API
	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/breakdown", s.handleBreakdown)
	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("GET /api/settings/bank-amount", s.handleGetBankAmount)
	mux.HandleFunc("PUT /api/settings/bank-amount", s.handleSetBankAmount)
	mux.HandleFunc("GET /api/settings/theme", s.handleGetTheme)
	mux.HandleFunc("PUT /api/settings/theme", s.handleSetTheme)

	var h http.Handler = mux
	h = s.rateLimiter.Middleware(s.clientIP.ClientIP)(h)
	h = security.Headers(security.DefaultHeadersConfig())(h)
	h = log.Middleware(s.logger, trace.GetRequestID)(h)
	h = s.tracer.Handler(h)
	s.Handler = h

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// summary returns the aggregates for filter, served from cache when the
// ledger has not changed since they were computed.
func (s *Server) summary(ctx context.Context, filter string) core.Summary {
	l := s.svc.Ledger()
	key := cacheKey(l.Version(), filter)
	if sum, ok := s.summaryCache.Get(key); ok {
		log.FromContext(ctx).DebugContext(ctx, "Summary cache hit", log.FieldFilter, filter)
		return sum
	}
	sum := l.Aggregates(filter)
	s.summaryCache.Set(key, sum)
	return sum
}

func (s *Server) breakdown(ctx context.Context) []core.CategoryAmount {
	l := s.svc.Ledger()
	key := cacheKey(l.Version(), "")
	if b, ok := s.breakdownCache.Get(key); ok {
		log.FromContext(ctx).DebugContext(ctx, "Breakdown cache hit")
		return b
	}
	b := l.CategoryBreakdown()
	s.breakdownCache.Set(key, b)
	return b
}

// invalidate drops cached views after a mutation.
func (s *Server) invalidate() {
	s.summaryCache.Purge()
	s.breakdownCache.Purge()
}
