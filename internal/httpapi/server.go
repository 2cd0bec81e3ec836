package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"github.com/overtimestaff/marketboard/internal/access"
	"github.com/overtimestaff/marketboard/internal/currency"
	"github.com/overtimestaff/marketboard/internal/market"
	"github.com/overtimestaff/marketboard/internal/model"
	"github.com/overtimestaff/marketboard/internal/session"
)

// Board is the board surface served over HTTP.
type Board interface {
	View() market.View
	Refresh(ctx context.Context) error
	Resume(ctx context.Context) error
	DismissBanner()
}

// ListingWriter publishes new listings.
type ListingWriter interface {
	Insert(ctx context.Context, in model.ListingInput) (model.Row, error)
}

// Config wires the server's dependencies.
type Config struct {
	Board    Board
	Writer   ListingWriter // nil disables publishing
	Sessions *session.Manager
	Rates    currency.Rates
	Policy   access.Policy // nil uses access.DefaultPolicy
	Logger   *slog.Logger
}

// Server serves the board API.
type Server struct {
	board    Board
	writer   ListingWriter
	sessions *session.Manager
	rates    currency.Rates
	policy   access.Policy
	logger   *slog.Logger
	router   *mux.Router
}

// New creates a server and registers its routes.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	policy := cfg.Policy
	if policy == nil {
		policy = access.DefaultPolicy()
	}

	s := &Server{
		board:    cfg.Board,
		writer:   cfg.Writer,
		sessions: cfg.Sessions,
		rates:    cfg.Rates,
		policy:   policy,
		logger:   logger.With("component", "httpapi"),
		router:   mux.NewRouter(),
	}
	s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/market-updates", s.handleView).Methods(http.MethodGet)
	api.HandleFunc("/market-updates", s.handlePublish).Methods(http.MethodPost)
	api.HandleFunc("/market-updates/refresh", s.handleRefresh).Methods(http.MethodPost)
	api.HandleFunc("/market-updates/resume", s.handleResume).Methods(http.MethodPost)
	api.HandleFunc("/market-updates/banner/dismiss", s.handleDismiss).Methods(http.MethodPost)
	api.HandleFunc("/currencies", s.handleCurrencies).Methods(http.MethodGet)
	api.HandleFunc("/currencies/{from}/{to}", s.handleConvert).Methods(http.MethodGet)
	api.HandleFunc("/session", s.handleGetSession).Methods(http.MethodGet)
	api.HandleFunc("/session", s.handlePutSession).Methods(http.MethodPost)
	api.HandleFunc("/session", s.handleClearSession).Methods(http.MethodDelete)
	api.HandleFunc("/forms/{form}/validate", s.handleValidateForm).Methods(http.MethodPost)

	dash := r.PathPrefix(access.RouteDashboard).Subrouter()
	dash.Use(s.policy.Middleware(s.resolveRole, s.logger))
	dash.NewRoute().Methods(http.MethodGet).HandlerFunc(s.handleDashboard)
}

// resolveRole maps the current session onto an access role.
func (s *Server) resolveRole(_ *http.Request) (access.Role, bool) {
	if s.sessions == nil {
		return "", false
	}
	u, ok := s.sessions.Current()
	if !ok {
		return "", false
	}
	return u.Role.AccessRole(), true
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}
