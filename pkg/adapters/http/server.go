// Package http exposes the inbound webhook of the messaging gateway together
// with status, health and metrics endpoints.
package http

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/storechat/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SecretHeader carries the shared webhook secret.
const SecretHeader = "X-Storechat-Secret"

// maxBodyBytes bounds a webhook payload.
const maxBodyBytes = 64 << 10

// Dispatcher handles one inbound message.
type Dispatcher interface {
	Handle(ctx context.Context, msg domain.Message) error
}

// Server serves the webhook. Messages are acknowledged immediately and
// dispatched in the background; Wait blocks until in-flight turns finish.
type Server struct {
	dispatcher Dispatcher
	secret     string
	gatherer   prometheus.Gatherer
	version    string
	logger     *slog.Logger

	inflight sync.WaitGroup
}

// Option configures a Server.
type Option func(*Server)

// WithSecret requires SecretHeader to match on every webhook call.
func WithSecret(secret string) Option {
	return func(s *Server) {
		s.secret = secret
	}
}

// WithGatherer exposes the registry on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithVersion sets the version reported on /.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = strings.TrimSpace(v)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a webhook server in front of d.
func NewServer(d Dispatcher, opts ...Option) *Server {
	s := &Server{
		dispatcher: d,
		version:    "dev",
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.getStatus)
	r.Get("/health", s.getHealth)
	r.Post("/webhook", s.postWebhook)
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Wait blocks until every accepted message has been dispatched or ctx is done.
func (s *Server) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// InboundMessage is the webhook payload.
type InboundMessage struct {
	From        string `json:"from"`
	Body        string `json:"body"`
	Type        string `json:"type,omitempty"`
	SelectionID string `json:"selection_id,omitempty"`
}

func (m InboundMessage) toDomain() domain.Message {
	t := domain.MessageType(m.Type)
	if t == "" {
		t = domain.MessageText
	}
	return domain.Message{From: m.From, Body: m.Body, Type: t, SelectionID: m.SelectionID}
}

func (s *Server) postWebhook(w http.ResponseWriter, r *http.Request) {
	if s.secret != "" && subtle.ConstantTimeCompare([]byte(r.Header.Get(SecretHeader)), []byte(s.secret)) != 1 {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		s.logger.Warn("Webhook: secret mismatch", "remote", r.RemoteAddr)
		return
	}

	var in InboundMessage
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&in); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		s.logger.Warn("Webhook: invalid request body", "err", err)
		return
	}
	if strings.TrimSpace(in.From) == "" {
		http.Error(w, "missing sender", http.StatusBadRequest)
		return
	}

	msg := in.toDomain()
	ctx := context.WithoutCancel(r.Context())
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		if err := s.dispatcher.Handle(ctx, msg); err != nil {
			s.logger.Error("Webhook: dispatch failed", "from", msg.From, "err", err)
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"}, s.logger)
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "storechat",
		"version": s.version,
		"status":  "running",
	}, s.logger)
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, s.logger)
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Response encode failed", "err", err)
	}
}
