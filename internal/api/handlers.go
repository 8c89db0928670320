package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/huangsam/incentive/core"
	"github.com/huangsam/incentive/internal/contract"
)

// defaultOrigins is used when no origin is configured.
var defaultOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Handler serves the API routes from one base configuration.
type Handler struct {
	baseCfg *contract.Config
	deps    core.Deps
}

// NewHandler creates a handler. Each request works on a clone of cfg.
func NewHandler(cfg *contract.Config, deps core.Deps) *Handler {
	return &Handler{baseCfg: cfg, deps: deps}
}

func (h *Handler) allowedOrigins() []string {
	if len(h.baseCfg.AllowedOrigins) > 0 {
		return h.baseCfg.AllowedOrigins
	}
	return defaultOrigins
}

// observe records each request under its route pattern.
func (h *Handler) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		h.deps.Metrics.ObserveRequest(route, status, time.Since(start))
	})
}

// configFor clones the base config and applies the window query parameters.
func (h *Handler) configFor(r *http.Request) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	q := r.URL.Query()
	w, err := contract.ParseWindow(q.Get("start"), q.Get("end"), cfg.Window)
	if err != nil {
		return nil, err
	}
	cfg.Window = w
	return cfg, nil
}

// serve runs one view and writes its result or the mapped error.
func serve[T any](h *Handler, w http.ResponseWriter, r *http.Request, apply func(*contract.Config) error,
	get func(context.Context, *contract.Config, core.Deps) (T, error)) {
	cfg, err := h.configFor(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid window", err)
		return
	}
	if apply != nil {
		if err := apply(cfg); err != nil {
			writeError(w, http.StatusBadRequest, "invalid parameter", err)
			return
		}
	}
	result, err := get(core.WithSuppressHeader(r.Context()), cfg, h.deps)
	if err != nil {
		writeError(w, statusFor(err), "request failed", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, contract.ErrInvalidWindow), errors.Is(err, core.ErrEmptySearch):
		return http.StatusBadRequest
	case errors.Is(err, contract.ErrNoSource):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Health reports that the server is up.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetReport handles GET /api/reports?base=
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, func(cfg *contract.Config) error {
		if b := r.URL.Query().Get("base"); b != "" {
			cfg.BaseFilter = b
		}
		return nil
	}, core.GetIncentiveReport)
}

// GetLeaderboard handles GET /api/leaderboard?limit=
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, func(cfg *contract.Config) error {
		raw := r.URL.Query().Get("limit")
		if raw == "" {
			return nil
		}
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 || limit > contract.MaxResultLimit {
			return errors.New("limit must be between 1 and " + strconv.Itoa(contract.MaxResultLimit))
		}
		cfg.ResultLimit = limit
		return nil
	}, core.GetLeaderboard)
}

// GetPodium handles GET /api/podium
func (h *Handler) GetPodium(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, nil, core.GetPodium)
}

// Search handles GET /api/search?q=
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, func(cfg *contract.Config) error {
		cfg.Search = r.URL.Query().Get("q")
		return nil
	}, core.GetSearchResults)
}

// Compare handles GET /api/compare?coordinator=
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, func(cfg *contract.Config) error {
		if c := r.URL.Query().Get("coordinator"); c != "" {
			cfg.Coordinator = c
		}
		return nil
	}, core.GetComparison)
}

// GetBankStatement handles GET /api/bank?q=
func (h *Handler) GetBankStatement(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, func(cfg *contract.Config) error {
		cfg.Search = r.URL.Query().Get("q")
		return nil
	}, core.GetBankStatement)
}

// GetLossSummary handles GET /api/losses
func (h *Handler) GetLossSummary(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, nil, core.GetLossSummary)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
