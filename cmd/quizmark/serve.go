package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/alnah/go-quizmark"
	"github.com/alnah/go-quizmark/internal/config"
	"github.com/alnah/go-quizmark/internal/hints"
)

// shutdownTimeout bounds graceful shutdown once the context is done.
const shutdownTimeout = 10 * time.Second

// renderRequest is the body of POST /render.
// Markdown, when set, replaces Markup.
type renderRequest struct {
	Markup   string `json:"markup"`
	Markdown string `json:"markdown,omitempty"`
	Append   string `json:"append,omitempty"`
}

// failureResponse describes one math expression left raw.
type failureResponse struct {
	Latex   string `json:"latex"`
	Display bool   `json:"display"`
	Error   string `json:"error"`
}

// renderResponse is the body returned by POST /render.
type renderResponse struct {
	HTML     string            `json:"html"`
	Failures []failureResponse `json:"failures"`
}

// markupResponse is the body returned by POST /serialize.
type markupResponse struct {
	Markup string `json:"markup"`
}

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// server exposes the display pipeline over HTTP.
type server struct {
	pool    *quizmark.RendererPool
	logger  *zap.Logger
	metrics *metrics
	maxBody int64
}

// newServer creates a server backed by pool.
func newServer(pool *quizmark.RendererPool, logger *zap.Logger, maxBody int64) *server {
	if maxBody <= 0 {
		maxBody = config.DefaultMaxBodyBytes
	}
	return &server{
		pool:    pool,
		logger:  logger,
		metrics: newMetrics(),
		maxBody: maxBody,
	}
}

// routes configures middleware and handlers.
func (s *server) routes() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(s.requestLogger)

	router.Get("/healthz", s.handleHealth)
	router.Handle("/metrics", s.metrics.handler())
	router.Post("/render", s.handleRender)
	router.Post("/serialize", s.handleSerialize)
	router.Post("/parse", s.handleParse)

	return router
}

// requestLogger logs each request and records its HTTP metrics.
func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)

		s.metrics.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		s.metrics.httpDuration.WithLabelValues(r.Method, route).Observe(elapsed.Seconds())

		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", elapsed),
			zap.String("requestID", chimiddleware.GetReqID(r.Context())),
			zap.String("remoteAddr", r.RemoteAddr),
		)
	})
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleRender runs the display pipeline on the posted markup.
func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	renderer, err := s.pool.Acquire(r.Context())
	if err != nil {
		s.respondError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	defer s.pool.Release(renderer)

	start := time.Now()
	res, err := renderer.Render(r.Context(), quizmark.Input{
		Markup:   req.Markup,
		Markdown: req.Markdown,
		Append:   req.Append,
	})
	failures := 0
	if res != nil {
		failures = len(res.Failures)
	}
	s.metrics.observeRender(time.Since(start).Seconds(), failures, err)
	if err != nil {
		s.logger.Error("render failed",
			zap.String("requestID", chimiddleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		s.respondError(w, http.StatusInternalServerError, "render failed")
		return
	}

	resp := renderResponse{HTML: res.HTML, Failures: make([]failureResponse, 0, len(res.Failures))}
	for _, f := range res.Failures {
		resp.Failures = append(resp.Failures, failureResponse{
			Latex:   f.Latex,
			Display: f.Display,
			Error:   f.Err.Error(),
		})
	}
	s.respondJSON(w, http.StatusOK, resp)
}

// handleSerialize converts an editor JSON document to stored markup.
func (s *server) handleSerialize(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	markup, err := quizmark.JSONToMarkup(body)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, markupResponse{Markup: markup})
}

// handleParse converts stored markup to an editor JSON document.
func (s *server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	doc, err := quizmark.MarkupToJSON(req.Markup)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc); err != nil {
		s.logger.Error("failed to write response", zap.Error(err))
	}
}

// readBody reads the request body up to maxBody bytes.
func (s *server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return nil, false
		}
		s.respondError(w, http.StatusBadRequest, "failed to read request body")
		return nil, false
	}
	return body, true
}

// decodeJSON reads and decodes a JSON request body into v.
func (s *server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	body, ok := s.readBody(w, r)
	if !ok {
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

func (s *server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (s *server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, errorResponse{Error: true, Message: message, Code: status})
}

// runServe implements the serve command.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, logger, err := setup(&flags.common, env, func(c *config.Config) {
		flags.engine.apply(c)
		if flags.addr != "" {
			c.Server.Addr = flags.addr
		}
	})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	workers := flags.workers
	if workers == 0 {
		workers = loadEnvConfig().Workers
	}
	pool, err := newPool(cfg, logger, workers)
	if err != nil {
		return err
	}
	defer pool.Close()

	listener, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return fmt.Errorf("listening on %s: %w%s", cfg.Server.Addr, err, hints.ForAddressInUse(cfg.Server.Addr))
		}
		return fmt.Errorf("listening on %s: %w", cfg.Server.Addr, err)
	}

	return serve(ctx, listener, newServer(pool, logger, cfg.Server.MaxBodyBytes), cfg.Server, logger, env)
}

// serve runs the HTTP server on listener until ctx is done, then shuts it
// down gracefully.
func serve(ctx context.Context, listener net.Listener, s *server, cfg config.ServerConfig, logger *zap.Logger, env *Environment) error {
	srv := &http.Server{
		Handler:           s.routes(),
		ReadTimeout:       cfg.ReadTimeout(),
		ReadHeaderTimeout: cfg.ReadTimeout(),
		WriteTimeout:      cfg.WriteTimeout(),
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("address", listener.Addr().String()))
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	fmt.Fprintf(env.Stdout, "Listening on http://%s\n", listener.Addr())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return <-errCh
}
