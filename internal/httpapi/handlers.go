package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"dtiestoque.org/api/spec"
	"dtiestoque.org/internal/auth"
	"dtiestoque.org/internal/inventory"
	"dtiestoque.org/internal/obs"
)

const serviceName = "dti-estoque-api"

// ReadyProbe checks that the database answers; a nil DB is always ready.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// API is the HTTP layer over the auth service and the equipment store.
type API struct {
	mux         *http.ServeMux
	readyProbe  ReadyProbe
	version     string
	auth        *auth.Service
	equipment   inventory.Repository
	reports     inventory.Reporter
	rateBurst   int
	ratePerSec  float64
	maxBody     int64
	corsOrigins []string
}

// Option tunes the middleware chain.
type Option func(*API)

// WithRateLimit sets the per-IP token bucket.
func WithRateLimit(burst int, perSecond float64) Option {
	return func(a *API) {
		if burst > 0 && perSecond > 0 {
			a.rateBurst = burst
			a.ratePerSec = perSecond
		}
	}
}

// WithMaxBodyBytes caps request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(a *API) {
		if n > 0 {
			a.maxBody = n
		}
	}
}

// WithCORSOrigins lists the browser origins allowed to call the API.
func WithCORSOrigins(origins ...string) Option {
	return func(a *API) { a.corsOrigins = origins }
}

func New(rp ReadyProbe, version string, authSvc *auth.Service, equipment inventory.Repository, reports inventory.Reporter, opts ...Option) *API {
	a := &API{
		mux:        http.NewServeMux(),
		readyProbe: rp,
		version:    version,
		auth:       authSvc,
		equipment:  equipment,
		reports:    reports,
		rateBurst:  20,
		ratePerSec: 10,
		maxBody:    1 << 20,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/api/info", a.Info)
	a.mux.HandleFunc("/openapi.yaml", a.OpenAPISpec)
	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/api/auth/login", a.handleLogin)
	a.mux.HandleFunc("/api/auth/register", a.handleRegister)

	a.mux.HandleFunc("/api/equipamentos", a.handleEquipmentCollection)
	a.mux.HandleFunc("/api/equipamentos/", a.handleEquipmentResource)

	a.mux.HandleFunc("/api/dashboard/equipamentos/category", a.handleCategoryCounts)
	a.mux.HandleFunc("/api/dashboard/equipamentos/status", a.handleStatusCounts)
	a.mux.HandleFunc("/api/dashboard/summary", a.handleSummary)
	a.mux.HandleFunc("/api/dashboard/counts", a.handleCounts)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "resource not found")
	})

	return a
}

// Handler returns the mux wrapped in the full middleware chain.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = a.withAuth(h)
	h = MaxBodyBytes(h, a.maxBody)
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = CORS(a.corsOrigins)(h)
	h = SecurityHeaders(h)
	h = obs.Instrument(h)
	h = LoggingJSON(h)
	return RequestID(h)
}

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": serviceName,
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := a.readyProbe.Check(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":      serviceName,
		"time":      time.Now().UTC().Format(time.RFC3339),
		"version":   a.version,
		"locations": inventory.Locations(),
		"statuses":  statusOptions(),
	})
}

func (a *API) OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	_, _ = w.Write(spec.OpenAPI)
}

type statusOption struct {
	Value inventory.Status `json:"value"`
	Label string           `json:"label"`
}

func statusOptions() []statusOption {
	out := make([]statusOption, 0, 4)
	for _, st := range inventory.Statuses() {
		out = append(out, statusOption{Value: st, Label: st.Label()})
	}
	return out
}
