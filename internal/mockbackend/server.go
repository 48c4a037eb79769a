// Package mockbackend is a scripted stand-in for the airline chat backend.
// It serves POST /chat with canned Triage, Seat Booking, FAQ, Flight Status
// and Cancellation agents, runs relevance and jailbreak guardrails on every
// message, and emits the handoff, tool and context events a real multi-agent
// runner would. It exists for local development of the console.
package mockbackend

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/airdesk/internal/cachemanager"
	"github.com/zjrosen/airdesk/internal/log"
)

const (
	// DefaultSessionTTL is how long an idle conversation is kept.
	DefaultSessionTTL = time.Hour

	maxRequestBodySize = 64 << 10
	shutdownTimeout    = 10 * time.Second
)

const (
	digits        = "0123456789"
	alphanumerics = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// Server holds scripted conversations keyed by conversation id.
type Server struct {
	sessions   cachemanager.CacheManager[string, *session]
	sessionTTL time.Duration
	newID      func() string
	now        func() time.Time
	newCode    func(n int, charset string) string
	tp         trace.TracerProvider
}

// Option configures a Server.
type Option func(*Server)

// WithIDGenerator sets the generator for conversation, event and guardrail ids.
func WithIDGenerator(fn func() string) Option {
	return func(s *Server) { s.newID = fn }
}

// WithClock sets the time source for event timestamps.
func WithClock(fn func() time.Time) Option {
	return func(s *Server) { s.now = fn }
}

// WithCodeGenerator sets the generator for flight, confirmation and account
// numbers.
func WithCodeGenerator(fn func(n int, charset string) string) Option {
	return func(s *Server) { s.newCode = fn }
}

// WithSessionTTL sets how long idle conversations are retained.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) { s.sessionTTL = ttl }
}

// WithTracerProvider sets the provider for server-side HTTP spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Server) { s.tp = tp }
}

// New creates a Server with an empty session table.
func New(opts ...Option) *Server {
	s := &Server{
		sessionTTL: DefaultSessionTTL,
		newID:      uuid.NewString,
		now:        time.Now,
		newCode:    randomCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tp == nil {
		s.tp = otel.GetTracerProvider()
	}
	s.sessions = cachemanager.NewInMemoryCacheManager[string, *session]("mock-sessions", s.sessionTTL, cachemanager.DefaultCleanupInterval)
	return s
}

func randomCode(n int, charset string) string {
	var b strings.Builder
	for range n {
		b.WriteByte(charset[rand.IntN(len(charset))]) //nolint:gosec // G404: display codes, not secrets
	}
	return b.String()
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(requestLogger)

	r.With(chiMiddleware.AllowContentType("application/json")).Post("/chat", s.handleChat)

	return otelhttp.NewHandler(r, "mockbackend", otelhttp.WithTracerProvider(s.tp))
}

// ListenAndServe serves Handler on addr until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(log.CatMock, "Mock backend listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info(log.CatMock, "Mock backend stopped")
	return nil
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug(log.CatMock, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", chiMiddleware.GetReqID(r.Context()))
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorJSON{Error: "request body too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorJSON{Error: "invalid request body"})
		return
	}

	writeJSON(w, http.StatusOK, s.respond(r.Context(), req))
}

// respond runs one exchange. An empty or unknown conversation id starts a
// new conversation; an empty message only returns the current state.
func (s *Server) respond(ctx context.Context, req chatRequest) chatResponse {
	sess := s.session(ctx, req.ConversationID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	t := &turn{srv: s, sess: sess}
	guardrails := []guardrailJSON{}

	message := strings.TrimSpace(req.Message)
	if message != "" {
		verdicts := runGuardrails(message)
		passed := true
		for _, v := range verdicts {
			guardrails = append(guardrails, guardrailJSON{
				ID:        s.newID(),
				Name:      v.name,
				Input:     message,
				Reasoning: v.reasoning,
				Passed:    v.passed,
				Timestamp: s.now().UnixMilli(),
			})
			passed = passed && v.passed
		}

		if passed {
			t.run(message)
		} else {
			log.Info(log.CatMock, "Guardrail tripped", "conversation", sess.id)
			t.messages = append(t.messages, messageJSON{Content: replyRejected, Agent: sess.currentAgent})
		}
	}

	s.sessions.Set(ctx, sess.id, sess, s.sessionTTL)

	resp := chatResponse{
		ConversationID: sess.id,
		CurrentAgent:   sess.currentAgent,
		Context:        make(map[string]any, len(sess.context)),
		Messages:       t.messages,
		Events:         t.events,
		Agents:         rosterJSON(),
		Guardrails:     guardrails,
	}
	for k, v := range sess.context {
		resp.Context[k] = v
	}
	if resp.Messages == nil {
		resp.Messages = []messageJSON{}
	}
	if resp.Events == nil {
		resp.Events = []eventJSON{}
	}
	return resp
}

func (s *Server) session(ctx context.Context, id string) *session {
	if id != "" {
		if sess, ok := s.sessions.Get(ctx, id); ok {
			return sess
		}
		log.Warn(log.CatMock, "Unknown conversation, starting fresh", "conversation", id)
	} else {
		id = s.newID()
	}
	sess := newSession(id, s.newCode(8, digits))
	s.sessions.Set(ctx, id, sess, s.sessionTTL)
	log.Info(log.CatMock, "Started conversation", "conversation", id)
	return sess
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.ErrorErr(log.CatMock, "Failed to write response", err)
	}
}
