// Package server exposes chart rendering over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/config"
	"github.com/litescript/ls-natal/internal/ephem"
	"github.com/litescript/ls-natal/internal/logging"
	"github.com/litescript/ls-natal/internal/render"
	"github.com/litescript/ls-natal/internal/state"
	"github.com/litescript/ls-natal/internal/version"
)

// RequestIDHeader carries the per-request id in both directions.
const RequestIDHeader = "X-Request-ID"

type ctxKey int

const requestIDKey ctxKey = 0

// Server renders charts for HTTP clients. Query parameters override the
// settings held by the state manager.
type Server struct {
	provider ephem.Provider
	state    *state.Manager
	log      *logging.Logger
	limiter  *rate.Limiter
	router   *mux.Router
	now      func() time.Time
}

// New creates a server. A zero rate limit in the settings disables
// limiting.
func New(p ephem.Provider, st *state.Manager, log *logging.Logger) *Server {
	if log == nil {
		log = logging.Discard()
	}
	s := &Server{
		provider: p,
		state:    st,
		log:      log,
		now:      time.Now,
	}
	if srv := st.Settings().Server; srv.RateLimit > 0 {
		burst := srv.Burst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(srv.RateLimit), burst)
	}
	s.router = s.setupRouter()
	return s
}

func (s *Server) setupRouter() *mux.Router {
	router := mux.NewRouter()

	router.Use(s.requestIDMiddleware)
	router.Use(s.loggingMiddleware)
	router.Use(s.rateLimitMiddleware)

	router.HandleFunc("/healthz", s.getHealth).Methods("GET")
	router.HandleFunc("/chart.svg", s.getChartSVG).Methods("GET")
	router.HandleFunc("/chart.json", s.getChartJSON).Methods("GET")
	router.HandleFunc("/chart.msgpack", s.getChartMsgpack).Methods("GET")
	router.HandleFunc("/positions", s.getPositions).Methods("GET")

	return router
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("chart server listening on %s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info("shutting down chart server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("%s %s %s %v [%s]", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start), requestID(r))
	})
}

func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// health checks are never limited
		if s.limiter != nil && r.URL.Path != "/healthz" && !s.limiter.Allow() {
			s.writeError(w, r, http.StatusTooManyRequests, errors.New("rate limit exceeded"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey).(string)
	return id
}

// overrideParams are the query parameters that replace settings.
var overrideParams = []string{"date", "lat", "lon", "size", "glyphs"}

// hasOverrides reports whether r renders something other than the
// manager's own chart.
func hasOverrides(r *http.Request) bool {
	q := r.URL.Query()
	for _, name := range overrideParams {
		if q.Get(name) != "" {
			return true
		}
	}
	return false
}

// chartParams merges query overrides into the current settings.
func (s *Server) chartParams(r *http.Request) (config.Settings, error) {
	settings := s.state.Settings()
	q := r.URL.Query()

	if v := q.Get("date"); v != "" {
		settings.Date = v
	}
	for _, f := range []struct {
		name string
		dst  *float64
	}{
		{"lat", &settings.Lat},
		{"lon", &settings.Lon},
		{"size", &settings.Size},
	} {
		v := q.Get(f.name)
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return settings, fmt.Errorf("%s: %q is not a number", f.name, v)
		}
		*f.dst = n
	}
	if v := q.Get("glyphs"); v != "" {
		settings.Glyphs = v
	}

	if err := settings.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}

// renderChart renders the chart a request asks for, writing an error
// response on failure. Only renders of the manager's own settings are
// recorded, so events never diff charts of unrelated clients.
func (s *Server) renderChart(w http.ResponseWriter, r *http.Request) (chart.Chart, config.Settings, bool) {
	settings, err := s.chartParams(r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return chart.Chart{}, settings, false
	}
	when, err := settings.Time(s.now())
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return chart.Chart{}, settings, false
	}

	start := time.Now()
	req := chart.Request{Time: when, Observer: settings.Observer()}
	ch, err := chart.Render(s.provider, req, settings.Dimensions(), settings.Theme())
	record := !hasOverrides(r)
	if err != nil {
		if record {
			s.state.Update(nil, time.Since(start), err)
		}
		s.writeError(w, r, statusFor(err), err)
		return chart.Chart{}, settings, false
	}
	if record {
		s.state.Update(&ch, time.Since(start), nil)
	}
	return ch, settings, true
}

// statusFor maps chart errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case chart.IsKind(err, chart.KindEphemerisFailure):
		return http.StatusBadGateway
	case chart.IsKind(err, chart.KindInvalidDate), chart.IsKind(err, chart.KindInvalidLocation):
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}

func (s *Server) getChartSVG(w http.ResponseWriter, r *http.Request) {
	ch, settings, ok := s.renderChart(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	if err := render.WriteSVG(w, ch.Dimensions, ch.Primitives, render.ParseGlyphSet(settings.Glyphs)); err != nil {
		s.log.Error("writing svg: %v", err)
	}
}

func (s *Server) getChartJSON(w http.ResponseWriter, r *http.Request) {
	ch, settings, ok := s.renderChart(w, r)
	if !ok {
		return
	}
	withPrims := r.URL.Query().Get("primitives") != "false"
	w.Header().Set("Content-Type", "application/json")
	if err := render.ExportChart(ch, render.ParseGlyphSet(settings.Glyphs), withPrims).WriteJSON(w); err != nil {
		s.log.Error("writing json: %v", err)
	}
}

func (s *Server) getChartMsgpack(w http.ResponseWriter, r *http.Request) {
	ch, settings, ok := s.renderChart(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/msgpack")
	if err := render.ExportChart(ch, render.ParseGlyphSet(settings.Glyphs), true).WriteMsgpack(w); err != nil {
		s.log.Error("writing msgpack: %v", err)
	}
}

func (s *Server) getPositions(w http.ResponseWriter, r *http.Request) {
	ch, settings, ok := s.renderChart(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := render.ExportChart(ch, render.ParseGlyphSet(settings.Glyphs), false).WriteJSON(w); err != nil {
		s.log.Error("writing positions: %v", err)
	}
}

// Health is the /healthz payload.
type Health struct {
	Status     string    `json:"status"`
	Version    string    `json:"version"`
	Provider   string    `json:"provider"`
	Renders    int       `json:"renders"`
	LastRender time.Time `json:"last_render"`
	LastError  string    `json:"last_error,omitempty"`
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.state.Snapshot()
	h := Health{
		Status:     "ok",
		Version:    version.Version,
		Provider:   s.provider.Name(),
		Renders:    snap.Renders,
		LastRender: snap.LastRender,
	}
	if snap.LastError != nil {
		h.LastError = snap.LastError.Error()
	}
	s.writeJSON(w, http.StatusOK, h)
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.log.Warn("%s %s: %v [%s]", r.Method, r.URL.Path, err, requestID(r))
	s.writeJSON(w, status, errorResponse{Error: err.Error(), RequestID: requestID(r)})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encoding response: %v", err)
	}
}
