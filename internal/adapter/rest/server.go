package rest

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/simaogato/ipca-api/internal/usecase/correction"
	"github.com/simaogato/ipca-api/internal/usecase/lookup"
	"github.com/simaogato/ipca-api/internal/usecase/status"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// Options configures the HTTP handler chain
type Options struct {
	RootPath          string // Prefix when served behind a reverse proxy
	RequestsPerMinute int    // Per-client limit on /ipca routes; 0 disables it
	Burst             int
	Compression       bool
	CORSOrigins       []string // Allowed origins; "*" allows any, empty disables CORS
	Logger            *slog.Logger
}

// Server exposes the IPCA services over HTTP
type Server struct {
	LookupService     *lookup.LookupService
	CorrectionService *correction.CorrectionService
	StatusService     *status.StatusService

	opts   Options
	logger *slog.Logger
}

// NewServer creates a new HTTP server adapter
func NewServer(
	lookupService *lookup.LookupService,
	correctionService *correction.CorrectionService,
	statusService *status.StatusService,
	opts Options,
) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		LookupService:     lookupService,
		CorrectionService: correctionService,
		StatusService:     statusService,
		opts:              opts,
		logger:            logger,
	}
}

type apiRoute struct {
	Path    string
	Method  string
	Handler http.HandlerFunc
	Limited bool // Subject to the per-client rate limit
}

func (s *Server) routes() []apiRoute {
	return []apiRoute{
		{
			Path:    "/ipca",
			Method:  http.MethodGet,
			Handler: s.GetSeries,
			Limited: true,
		},
		{
			Path:    "/ipca/filtro",
			Method:  http.MethodGet,
			Handler: s.FilterIndex,
			Limited: true,
		},
		{
			Path:    "/ipca/corrigir",
			Method:  http.MethodGet,
			Handler: s.CorrectValue,
			Limited: true,
		},
		{
			Path:    "/ipca/media-anual",
			Method:  http.MethodGet,
			Handler: s.AnnualAverage,
			Limited: true,
		},
		{
			Path:    "/ipca/medias-anuais",
			Method:  http.MethodGet,
			Handler: s.AnnualAverages,
			Limited: true,
		},
		{
			Path:    "/health",
			Method:  http.MethodGet,
			Handler: s.Health,
		},
	}
}

// Handler builds the router and wraps it in the middleware chain
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: "route not found"})
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Detail: "method not allowed"})
	})

	base := router
	if s.opts.RootPath != "" {
		base = router.PathPrefix(s.opts.RootPath).Subrouter()
	}

	var limiter *RateLimiter
	if s.opts.RequestsPerMinute > 0 {
		limiter = NewRateLimiter(s.opts.RequestsPerMinute, s.opts.Burst)
	}

	for _, r := range s.routes() {
		var handler http.Handler = r.Handler
		if r.Limited && limiter != nil {
			handler = limiter.Middleware(handler)
		}
		base.Handle(r.Path, handler).Methods(r.Method)
	}

	var handler http.Handler = router
	if s.opts.Compression {
		handler = ZstdMiddleware(handler)
	}
	if len(s.opts.CORSOrigins) > 0 {
		handler = CORSMiddleware(s.opts.CORSOrigins)(handler)
	}
	handler = LoggingMiddleware(s.logger)(handler)
	handler = RequestIDMiddleware(handler)

	return handler
}
