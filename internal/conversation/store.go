package conversation

import (
	"context"
	"maps"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/airdesk/internal/chatapi"
	"github.com/zjrosen/airdesk/internal/domain"
	"github.com/zjrosen/airdesk/internal/log"
	"github.com/zjrosen/airdesk/internal/pubsub"
	"github.com/zjrosen/airdesk/internal/tracing"
)

type requestKind int

const (
	requestBootstrap requestKind = iota
	requestMessage
)

type request struct {
	kind     requestKind
	content  string
	delivery *Delivery
}

// Store is the single owner of session state.
//
// Mutations happen in exactly two places: Submit appends the optimistic
// user message, and the worker merges responses. Both hold mu.
type Store struct {
	client   chatapi.Client
	now      func() time.Time
	newID    func() string
	recorder Recorder
	tracer   trace.Tracer
	broker   *pubsub.Broker[Snapshot]

	mu       sync.Mutex
	state    Snapshot
	queue    []*request
	inflight bool
	closed   bool

	wake   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewStore creates a store and starts its worker. Call Close to stop it.
func NewStore(client chatapi.Client, opts ...Option) *Store {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		client: client,
		now:    time.Now,
		newID:  defaultID,
		tracer: noop.NewTracerProvider().Tracer(""),
		broker: pubsub.NewBroker[Snapshot](),
		wake:   make(chan struct{}, 1),
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.state.Context == nil {
		s.state.Context = map[string]any{}
	}

	s.wg.Add(1)
	go s.run()
	return s
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe streams a snapshot after every change until ctx is cancelled
// or the store is closed. A slow reader may skip intermediate snapshots but
// always receives the latest one.
func (s *Store) Subscribe(ctx context.Context) <-chan pubsub.Event[Snapshot] {
	return s.broker.Subscribe(ctx)
}

// Broker exposes the snapshot broker for pubsub.ContinuousListener.
func (s *Store) Broker() *pubsub.Broker[Snapshot] {
	return s.broker
}

// Bootstrap opens a conversation by sending an empty message with no
// conversation id, then waits for the result. It is a no-op once the
// session has a conversation id. A failed bootstrap may be retried.
func (s *Store) Bootstrap(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.state.Initialized() {
		s.mu.Unlock()
		return nil
	}
	d := s.enqueueLocked(&request{kind: requestBootstrap})
	s.mu.Unlock()

	return d.Wait(ctx)
}

// Submit appends content to the transcript as a user message and queues it
// for delivery. Whitespace-only content is ignored and yields nil.
func (s *Store) Submit(content string) *Delivery {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return failedDelivery(ErrClosed)
	}

	s.state.Messages = append(s.state.Messages, domain.Message{
		ID:        s.newID(),
		Content:   content,
		Role:      domain.RoleUser,
		Timestamp: s.now(),
		Origin:    domain.OriginLocal,
	})
	return s.enqueueLocked(&request{kind: requestMessage, content: content})
}

// enqueueLocked appends req, marks the session pending, publishes and wakes
// the worker.
func (s *Store) enqueueLocked(req *request) *Delivery {
	req.delivery = newDelivery()
	s.queue = append(s.queue, req)
	s.state.Pending = true
	s.publishLocked()

	select {
	case s.wake <- struct{}{}:
	default:
	}
	return req.delivery
}

// Close stops the worker. Requests still queued fail with ErrClosed; an
// in-flight request is abandoned without being applied.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	queued := s.queue
	s.queue = nil
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()

	for _, req := range queued {
		req.delivery.resolve(ErrClosed)
	}
	s.broker.Close()
}

func (s *Store) run() {
	defer s.wg.Done()
	for {
		req, ok := s.next()
		if !ok {
			select {
			case <-s.ctx.Done():
				return
			case <-s.wake:
				continue
			}
		}
		s.process(req)
	}
}

// next pops the head of the queue and marks it in flight.
func (s *Store) next() (*request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || len(s.queue) == 0 {
		return nil, false
	}
	req := s.queue[0]
	s.queue[0] = nil
	s.queue = s.queue[1:]
	s.inflight = true
	return req, true
}

func (s *Store) process(req *request) {
	s.mu.Lock()
	skip := req.kind == requestBootstrap && s.state.Initialized()
	conversationID := s.state.ConversationID
	depth := len(s.queue)
	s.mu.Unlock()

	ctx, span := s.tracer.Start(s.ctx, tracing.SpanConversationTurn, trace.WithAttributes(
		attribute.Bool(tracing.AttrBootstrap, req.kind == requestBootstrap),
		attribute.String(tracing.AttrConversationID, conversationID),
		attribute.Int(tracing.AttrQueueDepth, depth),
	))
	defer span.End()

	var (
		resp *chatapi.Response
		err  error
	)
	if !skip {
		log.Debug(log.CatStore, "sending", "bootstrap", req.kind == requestBootstrap, "conversation", conversationID)
		resp, err = s.client.Send(ctx, req.content, conversationID)
	}

	s.mu.Lock()
	if s.closed {
		s.inflight = false
		s.mu.Unlock()
		req.delivery.resolve(ErrClosed)
		return
	}
	switch {
	case skip:
	case err != nil:
		s.state.LastError = err
		s.state.Failures++
		span.AddEvent(tracing.EventRequestFailed)
		span.SetStatus(codes.Error, err.Error())
		log.Warn(log.CatStore, "request failed, state left unchanged", "error", err)
	default:
		s.applyLocked(resp)
		s.state.LastError = nil
		span.AddEvent(tracing.EventResponseApplied, trace.WithAttributes(
			attribute.String(tracing.AttrCurrentAgent, s.state.CurrentAgent),
		))
	}
	s.inflight = false
	s.state.Pending = len(s.queue) > 0
	s.publishLocked()
	snap := s.state.Clone()
	s.mu.Unlock()

	if s.recorder != nil && !skip {
		if rerr := s.recorder.Record(ctx, snap); rerr != nil {
			log.ErrorErr(log.CatStore, "record snapshot", rerr, "conversation", snap.ConversationID)
		}
	}
	req.delivery.resolve(err)
}

// applyLocked merges a decoded response. Decoding already validated the
// whole payload, so the merge cannot fail halfway.
func (s *Store) applyLocked(resp *chatapi.Response) {
	now := s.now()

	if s.state.ConversationID == "" {
		s.state.ConversationID = resp.Snapshot.ConversationID
	} else if resp.Snapshot.ConversationID != s.state.ConversationID {
		log.Warn(log.CatStore, "ignoring conversation id change",
			"have", s.state.ConversationID, "got", resp.Snapshot.ConversationID)
	}
	s.state.CurrentAgent = resp.Snapshot.CurrentAgent
	s.state.Context = maps.Clone(resp.Snapshot.Context)
	if s.state.Context == nil {
		s.state.Context = map[string]any{}
	}

	for _, e := range resp.Delta.Events {
		e = e.Clone()
		if e.ID == "" {
			e.ID = s.newID()
		}
		if e.Timestamp.IsZero() {
			e.Timestamp = now
		}
		s.state.Events = append(s.state.Events, e)
	}

	if agents, ok := resp.Snapshot.Agents.Get(); ok {
		s.state.Agents = make([]domain.Agent, len(agents))
		for i, a := range agents {
			s.state.Agents[i] = a.Clone()
		}
	}
	if checks, ok := resp.Snapshot.Guardrails.Get(); ok {
		s.state.Guardrails = append([]domain.GuardrailCheck{}, checks...)
	}

	for _, r := range resp.Delta.Messages {
		s.state.Messages = append(s.state.Messages, domain.Message{
			ID:        s.newID(),
			Content:   r.Content,
			Role:      domain.RoleAssistant,
			Agent:     r.Agent,
			Timestamp: now,
			Directive: r.Directive,
			Origin:    domain.OriginServer,
		})
	}

	log.Info(log.CatStore, "applied response",
		"conversation", s.state.ConversationID,
		"agent", s.state.CurrentAgent,
		"messages", len(resp.Delta.Messages),
		"events", len(resp.Delta.Events))
}

func (s *Store) publishLocked() {
	s.state.Version++
	s.broker.Publish(pubsub.SnapshotChanged, s.state.Clone())
}
