// internal/httpserver/server.go
//
// Local JSON API over one game controller.
// Responsibilities:
//   - Router + middleware (JSON, optional CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Game endpoints: GET /state, POST /intents.
//   - Ledger endpoint: GET /records?limit=N (404 when the ledger is disabled).
//
// Notes:
//   - The controller processes one intent at a time, so every game request
//     holds s.mu for its whole duration, including the guardian call.
//   - Errors map to status codes: invalid intent 409, guardian unavailable 502,
//     corrupt save 500, malformed body 400. A failed save after a successful
//     turn is still 200, with saveError set in the body.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/riddler/internal/controller"
	"github.com/robalobadob/riddler/internal/guardian"
	"github.com/robalobadob/riddler/internal/records"
	"github.com/robalobadob/riddler/internal/store"
)

// Ledger is the read side of the solve records.
type Ledger interface {
	Top(ctx context.Context, limit int) ([]records.Record, error)
	Total(ctx context.Context) (int, error)
}

// Options tunes the server; zero values are usable.
type Options struct {
	Origin  string        // CORS origin; empty disables CORS headers
	Timeout time.Duration // per-request bound; default 2m
	Ledger  Ledger        // nil disables /records
}

// Server bundles router and the controller it serializes access to.
type Server struct {
	r      *chi.Mux
	mu     sync.Mutex
	ctrl   *controller.Controller
	ledger Ledger
}

// New constructs a Server, installs middleware, and registers routes.
func New(ctrl *controller.Controller, opts Options) *Server {
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Minute
	}
	s := &Server{r: chi.NewRouter(), ctrl: ctrl, ledger: opts.Ledger}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(opts.Timeout))
	s.r.Use(jsonContentType)
	if opts.Origin != "" {
		s.r.Use(cors(opts.Origin))
	}

	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"riddler","endpoints":["/health","GET /state","POST /intents","GET /records"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Get("/state", s.handleState)
	s.r.Post("/intents", s.handleIntent)
	s.r.Get("/records", s.handleRecords)

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorRes{Error: "not_found", Detail: r.URL.Path})
	})
	return s
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ServeHTTP lets the Server be passed straight to http.Server.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.r.ServeHTTP(w, r) }

// ----------------------------- middleware ----------------------------------

func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors allows a single origin, e.g. a local web front end.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------ GAME ---------------------------------------

// intentRes is the body of every game response.
type intentRes struct {
	controller.Result
	SaveError string `json:"saveError,omitempty"`
}

type errorRes struct {
	Error  string             `json:"error"`
	Detail string             `json:"detail,omitempty"`
	Result *controller.Result `json:"result,omitempty"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	res := s.ctrl.Current()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, intentRes{Result: res})
}

// handleIntent applies one intent and reports the resulting state.
func (s *Server) handleIntent(w http.ResponseWriter, r *http.Request) {
	var in controller.Intent
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorRes{Error: "bad_json", Detail: err.Error()})
		return
	}

	s.mu.Lock()
	res, err := s.ctrl.Dispatch(r.Context(), in)
	s.mu.Unlock()

	if err != nil {
		status, code := statusFor(err)
		log.Warn().Err(err).Str("intent", string(in.Kind)).Int("status", status).Msg("intent failed")
		writeJSON(w, status, errorRes{Error: code, Detail: err.Error(), Result: &res})
		return
	}
	out := intentRes{Result: res}
	if res.SaveErr != nil {
		out.SaveError = res.SaveErr.Error()
	}
	writeJSON(w, http.StatusOK, out)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, controller.ErrInvalidIntent):
		return http.StatusConflict, "invalid_intent"
	case errors.Is(err, guardian.ErrGuardianUnavailable):
		return http.StatusBadGateway, "guardian_unavailable"
	case errors.Is(err, store.ErrCorruptSave):
		return http.StatusInternalServerError, "corrupt_save"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// ------------------------------ RECORDS ------------------------------------

type recordsRes struct {
	Total int              `json:"total"`
	Top   []records.Record `json:"top"`
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	if s.ledger == nil {
		writeJSON(w, http.StatusNotFound, errorRes{Error: "records_disabled"})
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, errorRes{Error: "bad_limit", Detail: v})
			return
		}
		limit = n
	}
	top, err := s.ledger.Top(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("records query")
		writeJSON(w, http.StatusInternalServerError, errorRes{Error: "db_error"})
		return
	}
	total, err := s.ledger.Total(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("records total")
		writeJSON(w, http.StatusInternalServerError, errorRes{Error: "db_error"})
		return
	}
	writeJSON(w, http.StatusOK, recordsRes{Total: total, Top: top})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
