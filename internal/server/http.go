package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/Gaurav-Gosain/tilecols/internal/host"
	"github.com/Gaurav-Gosain/tilecols/internal/layout"
	"github.com/Gaurav-Gosain/tilecols/internal/render"
	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Options configures the HTTP handler.
type Options struct {
	Sessions *Sessions
	// Registry receives the HTTP metrics and is served on /metrics.
	Registry *prometheus.Registry
	Logger   *log.Logger
}

type api struct {
	sessions *Sessions
	logger   *log.Logger
}

// NewHandler builds the HTTP API.
func NewHandler(opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	a := &api{sessions: opts.Sessions, logger: opts.Logger}
	m := newHTTPMetrics(opts.Registry)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(opts.Logger))
	r.Use(m.middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/strategies", a.listStrategies)
		r.Get("/strategies/{strategy}", a.getStrategy)
		r.Post("/strategies/{strategy}/commands/{command}", a.runCommand)
		r.Post("/frames", a.frames)
		r.Post("/update", a.update)

		if a.sessions != nil {
			r.Get("/sessions", a.listSessions)
			r.Route("/sessions/{session}", func(r chi.Router) {
				r.Get("/", a.getSession)
				r.Delete("/", a.dropSession)
				r.Get("/preview", a.previewSession)
				r.Post("/windows", a.openWindow)
				r.Delete("/windows/{window}", a.closeWindow)
				r.Post("/changes", a.applyChange)
				r.Post("/commands/{command}", a.sessionCommand)
				r.Put("/strategy", a.setStrategy)
			})
		}
	})
	return r
}

// requestLogger logs one line per request at debug level.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

type httpMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newHTTPMetrics(reg prometheus.Registerer) *httpMetrics {
	m := &httpMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tilecols",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tilecols",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

func (m *httpMetrics) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Serve runs an HTTP server on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *log.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("http server stopping")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, layout.ErrUnknownStrategy),
		errors.Is(err, host.ErrUnknownWindow),
		errors.Is(err, host.ErrUnknownCommand),
		errors.Is(err, ErrUnknownSession):
		status = http.StatusNotFound
	case errors.Is(err, host.ErrNotPermutation),
		errors.Is(err, ErrInvalidSession),
		errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

var errBadRequest = errors.New("bad request")

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// strategyInfo is the JSON shape of a strategy.
type strategyInfo = layout.Info

func (a *api) listStrategies(w http.ResponseWriter, _ *http.Request) {
	all := layout.All()
	out := make([]strategyInfo, len(all))
	for i, s := range all {
		out[i] = layout.Describe(s)
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *api) getStrategy(w http.ResponseWriter, r *http.Request) {
	s, err := layout.Lookup(chi.URLParam(r, "strategy"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, layout.Describe(s))
}

// stateRequest carries an optional state; a missing one means the
// strategy's initial state.
type stateRequest struct {
	Strategy string        `json:"strategy"`
	State    *layout.State `json:"state,omitempty"`
}

func (req stateRequest) resolve(name string) (layout.Strategy, layout.State, error) {
	if name == "" {
		name = req.Strategy
	}
	s, err := layout.Lookup(name)
	if err != nil {
		return nil, layout.State{}, err
	}
	if req.State == nil {
		return s, s.InitialState(), nil
	}
	return s, *req.State, nil
}

type stateResponse struct {
	Strategy string       `json:"strategy"`
	State    layout.State `json:"state"`
}

func (a *api) runCommand(w http.ResponseWriter, r *http.Request) {
	var req stateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s, state, err := req.resolve(chi.URLParam(r, "strategy"))
	if err != nil {
		writeError(w, err)
		return
	}

	command := chi.URLParam(r, "command")
	next, ok := layout.RunCommand(s, command, state)
	if !ok {
		writeError(w, fmt.Errorf("%w %q for %s", host.ErrUnknownCommand, command, s.Name()))
		return
	}
	writeJSON(w, http.StatusOK, stateResponse{Strategy: s.Name(), State: next})
}

type framesRequest struct {
	stateRequest
	Screen  layout.Rect     `json:"screen"`
	Windows []layout.Window `json:"windows"`
}

type framesResponse struct {
	Strategy string            `json:"strategy"`
	Order    []layout.WindowID `json:"order"`
	Frames   layout.Frames     `json:"frames"`
	State    layout.State      `json:"state"`
}

func (a *api) frames(w http.ResponseWriter, r *http.Request) {
	var req framesRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s, state, err := req.resolve("")
	if err != nil {
		writeError(w, err)
		return
	}

	// The windows arrive in host order, so they are reported first.
	state = s.Update(layout.WindowsChanged{Windows: req.Windows}, state)
	order := layout.IDs(layout.Stabilize(req.Windows, state.WindowOrder))
	if order == nil {
		order = []layout.WindowID{}
	}
	writeJSON(w, http.StatusOK, framesResponse{
		Strategy: s.Name(),
		Order:    order,
		Frames:   s.Frames(req.Windows, req.Screen, state),
		State:    state,
	})
}

type updateRequest struct {
	stateRequest
	Change json.RawMessage `json:"change"`
}

func (a *api) update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s, state, err := req.resolve("")
	if err != nil {
		writeError(w, err)
		return
	}

	var change layout.Change
	if len(req.Change) > 0 {
		if change, err = layout.DecodeChange(req.Change); err != nil {
			writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
	}
	writeJSON(w, http.StatusOK, stateResponse{Strategy: s.Name(), State: s.Update(change, state)})
}

func (a *api) listSessions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.sessions.Names())
}

// withSession resolves the {session} parameter and writes the session's
// view after fn succeeds.
func (a *api) withSession(status int, fn func(ctx context.Context, s *host.Session, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := a.sessions.Get(r.Context(), chi.URLParam(r, "session"))
		if err != nil {
			writeError(w, err)
			return
		}
		if fn != nil {
			if err := fn(r.Context(), s, r); err != nil {
				writeError(w, err)
				return
			}
		}
		writeJSON(w, status, s.Snapshot())
	}
}

func (a *api) getSession(w http.ResponseWriter, r *http.Request) {
	a.withSession(http.StatusOK, nil)(w, r)
}

func (a *api) dropSession(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "session")
	if !a.sessions.Drop(name) {
		writeError(w, fmt.Errorf("%w: %q", ErrUnknownSession, name))
		return
	}
	a.logger.Info("session dropped", "session", name)
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) previewSession(w http.ResponseWriter, r *http.Request) {
	s, err := a.sessions.Get(r.Context(), chi.URLParam(r, "session"))
	if err != nil {
		writeError(w, err)
		return
	}

	width, _ := strconv.Atoi(r.URL.Query().Get("width"))
	height, _ := strconv.Atoi(r.URL.Query().Get("height"))
	opts := render.Options{
		Width:      clampSize(width, 80, 400),
		Height:     clampSize(height, 24, 200),
		Border:     lipgloss.ASCIIBorder(),
		ShowLabels: true,
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, render.Plain(render.Frames(s.Snapshot(), opts))+"\n")
}

func clampSize(v, def, limit int) int {
	if v <= 0 {
		return def
	}
	return min(v, limit)
}

func (a *api) openWindow(w http.ResponseWriter, r *http.Request) {
	a.withSession(http.StatusCreated, func(ctx context.Context, s *host.Session, r *http.Request) error {
		var req struct {
			Title string `json:"title"`
		}
		if err := decodeBody(r, &req); err != nil {
			return err
		}
		_, err := s.Open(ctx, req.Title)
		return err
	})(w, r)
}

func (a *api) closeWindow(w http.ResponseWriter, r *http.Request) {
	a.withSession(http.StatusOK, func(ctx context.Context, s *host.Session, r *http.Request) error {
		return s.Close(ctx, chi.URLParam(r, "window"))
	})(w, r)
}

func (a *api) applyChange(w http.ResponseWriter, r *http.Request) {
	a.withSession(http.StatusOK, func(ctx context.Context, s *host.Session, r *http.Request) error {
		body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
		if err != nil {
			return fmt.Errorf("%w: %v", errBadRequest, err)
		}
		change, err := layout.DecodeChange(body)
		if err != nil {
			return fmt.Errorf("%w: %v", errBadRequest, err)
		}
		return s.Apply(ctx, change)
	})(w, r)
}

func (a *api) sessionCommand(w http.ResponseWriter, r *http.Request) {
	a.withSession(http.StatusOK, func(ctx context.Context, s *host.Session, r *http.Request) error {
		return s.Command(ctx, chi.URLParam(r, "command"))
	})(w, r)
}

func (a *api) setStrategy(w http.ResponseWriter, r *http.Request) {
	a.withSession(http.StatusOK, func(ctx context.Context, s *host.Session, r *http.Request) error {
		var req struct {
			Name string `json:"name"`
		}
		if err := decodeBody(r, &req); err != nil {
			return err
		}
		return s.SetStrategy(ctx, req.Name)
	})(w, r)
}
