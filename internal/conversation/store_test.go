package conversation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/zjrosen/airdesk/internal/chatapi"
	"github.com/zjrosen/airdesk/internal/domain"
	"github.com/zjrosen/airdesk/internal/mocks"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var fixedNow = time.Date(2026, 10, 15, 10, 45, 0, 0, time.UTC)

// sequentialIDs returns an id generator producing id-1, id-2, ...
func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestStore(t *testing.T, client chatapi.Client, opts ...Option) *Store {
	t.Helper()
	opts = append([]Option{
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(sequentialIDs()),
	}, opts...)
	s := NewStore(client, opts...)
	t.Cleanup(s.Close)
	return s
}

func response(conversationID, agent string, replies ...string) *chatapi.Response {
	resp := &chatapi.Response{
		Snapshot: chatapi.Snapshot{
			ConversationID: conversationID,
			CurrentAgent:   agent,
			Context:        map[string]any{},
		},
	}
	for _, r := range replies {
		resp.Delta.Messages = append(resp.Delta.Messages, chatapi.Reply{
			Content:   r,
			Agent:     agent,
			Directive: domain.ParseDirective(r),
		})
	}
	return resp
}

func wait(t *testing.T, d *Delivery) error {
	t.Helper()
	require.NotNil(t, d)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := d.Wait(ctx)
	require.NotErrorIs(t, err, context.DeadlineExceeded)
	return err
}

func TestBootstrap_InitializesSession(t *testing.T) {
	client := mocks.NewMockClient(t)
	resp := response("c1", "Triage Agent", "Welcome to Airline Customer Service!")
	resp.Snapshot.Context = map[string]any{"passenger_name": nil}
	resp.Snapshot.Agents = domain.Replace([]domain.Agent{
		{Name: "Triage Agent", Handoffs: []string{"Seat Booking Agent"}},
		{Name: "Seat Booking Agent"},
	})
	resp.Snapshot.Guardrails = domain.Replace([]domain.GuardrailCheck{})
	resp.Delta.Events = []domain.AgentEvent{
		{ID: "server-1", Type: domain.EventMessage, Agent: "Triage Agent", Timestamp: fixedNow.Add(-time.Minute)},
		{Type: domain.EventMessage, Agent: "Triage Agent"},
	}
	client.EXPECT().Send(mock.Anything, "", "").Return(resp, nil).Once()

	s := newTestStore(t, client)
	require.NoError(t, s.Bootstrap(context.Background()))

	snap := s.Snapshot()
	require.Equal(t, "c1", snap.ConversationID)
	require.Equal(t, "Triage Agent", snap.CurrentAgent)
	require.Contains(t, snap.Context, "passenger_name")
	require.False(t, snap.Pending)
	require.NoError(t, snap.LastError)

	require.Len(t, snap.Events, 2)
	require.Equal(t, "server-1", snap.Events[0].ID)
	require.Equal(t, fixedNow.Add(-time.Minute), snap.Events[0].Timestamp)
	require.NotEmpty(t, snap.Events[1].ID)
	require.Equal(t, fixedNow, snap.Events[1].Timestamp)

	require.Len(t, snap.Agents, 2)
	require.NotNil(t, snap.Guardrails)
	require.Empty(t, snap.Guardrails)

	require.Len(t, snap.Messages, 1)
	msg := snap.Messages[0]
	require.Equal(t, domain.RoleAssistant, msg.Role)
	require.Equal(t, "Triage Agent", msg.Agent)
	require.Equal(t, domain.OriginServer, msg.Origin)
	require.Equal(t, fixedNow, msg.Timestamp)
	require.NotEmpty(t, msg.ID)
}

func TestBootstrap_NoOpAfterSuccess(t *testing.T) {
	client := mocks.NewMockClient(t)
	client.EXPECT().Send(mock.Anything, "", "").Return(response("c1", "Triage Agent"), nil).Once()

	s := newTestStore(t, client)
	require.NoError(t, s.Bootstrap(context.Background()))
	require.NoError(t, s.Bootstrap(context.Background()))

	require.Equal(t, "c1", s.Snapshot().ConversationID)
}

func TestBootstrap_FailureCanBeRetried(t *testing.T) {
	client := mocks.NewMockClient(t)
	failure := &chatapi.Failure{Kind: chatapi.FailureTransport, Err: errors.New("connection refused")}
	client.EXPECT().Send(mock.Anything, "", "").Return(nil, failure).Once()
	client.EXPECT().Send(mock.Anything, "", "").Return(response("c1", "Triage Agent"), nil).Once()

	s := newTestStore(t, client)

	err := s.Bootstrap(context.Background())
	require.ErrorIs(t, err, chatapi.ErrTransport)
	snap := s.Snapshot()
	require.False(t, snap.Initialized())
	require.False(t, snap.Pending)
	require.ErrorIs(t, snap.LastError, chatapi.ErrTransport)
	require.Equal(t, uint64(1), snap.Failures)

	require.NoError(t, s.Bootstrap(context.Background()))
	snap = s.Snapshot()
	require.Equal(t, "c1", snap.ConversationID)
	require.NoError(t, snap.LastError)
	require.Equal(t, uint64(1), snap.Failures)
}

func TestBootstrap_RepeatedIdenticalFailuresAreCounted(t *testing.T) {
	client := mocks.NewMockClient(t)
	failure := &chatapi.Failure{Kind: chatapi.FailureTransport, Err: errors.New("connection refused")}
	client.EXPECT().Send(mock.Anything, "", "").Return(nil, failure).Twice()

	s := newTestStore(t, client)

	require.Error(t, s.Bootstrap(context.Background()))
	first := s.Snapshot()
	require.Error(t, s.Bootstrap(context.Background()))
	second := s.Snapshot()

	require.Equal(t, first.LastError.Error(), second.LastError.Error())
	require.Equal(t, uint64(1), first.Failures)
	require.Equal(t, uint64(2), second.Failures)
}

func TestSubmit_IgnoresBlankContent(t *testing.T) {
	client := mocks.NewMockClient(t)
	s := newTestStore(t, client)

	require.Nil(t, s.Submit(""))
	require.Nil(t, s.Submit("   \n\t"))

	snap := s.Snapshot()
	require.Empty(t, snap.Messages)
	require.False(t, snap.Pending)
}

func TestSubmit_AppendsUserMessageBeforeReply(t *testing.T) {
	client := mocks.NewMockClient(t)
	release := make(chan struct{})
	client.EXPECT().Send(mock.Anything, "Can I change my seat?", "").
		RunAndReturn(func(context.Context, string, string) (*chatapi.Response, error) {
			<-release
			return response("c1", "Seat Booking Agent", "Sure."), nil
		}).Once()

	s := newTestStore(t, client)
	d := s.Submit("Can I change my seat?")

	snap := s.Snapshot()
	require.True(t, snap.Pending)
	require.Len(t, snap.Messages, 1)
	require.Equal(t, domain.RoleUser, snap.Messages[0].Role)
	require.Equal(t, domain.OriginLocal, snap.Messages[0].Origin)
	require.Equal(t, "Can I change my seat?", snap.Messages[0].Content)

	close(release)
	require.NoError(t, wait(t, d))

	snap = s.Snapshot()
	require.False(t, snap.Pending)
	require.Len(t, snap.Messages, 2)
	require.Equal(t, domain.RoleAssistant, snap.Messages[1].Role)
	require.Equal(t, "Seat Booking Agent", snap.Messages[1].Agent)
	require.NotEqual(t, snap.Messages[0].ID, snap.Messages[1].ID)
}

func TestSubmit_FailureLeavesStateUntouched(t *testing.T) {
	client := mocks.NewMockClient(t)
	boot := response("c1", "Triage Agent", "Hello")
	boot.Snapshot.Context = map[string]any{"confirmation_number": "LL0EZ6"}
	boot.Snapshot.Agents = domain.Replace([]domain.Agent{{Name: "Triage Agent"}})
	boot.Delta.Events = []domain.AgentEvent{{ID: "e1", Type: domain.EventMessage}}
	client.EXPECT().Send(mock.Anything, "", "").Return(boot, nil).Once()
	client.EXPECT().Send(mock.Anything, "help", "c1").
		Return(nil, &chatapi.Failure{Kind: chatapi.FailureStatus, StatusCode: 500, Err: errors.New("boom")}).Once()

	s := newTestStore(t, client)
	require.NoError(t, s.Bootstrap(context.Background()))
	before := s.Snapshot()

	err := wait(t, s.Submit("help"))
	require.ErrorIs(t, err, chatapi.ErrStatus)

	after := s.Snapshot()
	require.Equal(t, before.ConversationID, after.ConversationID)
	require.Equal(t, before.CurrentAgent, after.CurrentAgent)
	require.Equal(t, before.Context, after.Context)
	require.Equal(t, before.Events, after.Events)
	require.Equal(t, before.Agents, after.Agents)
	require.Equal(t, before.Guardrails, after.Guardrails)
	require.Equal(t, before.Messages, after.Messages[:len(before.Messages)])
	require.Len(t, after.Messages, len(before.Messages)+1)
	require.Equal(t, "help", after.Messages[len(after.Messages)-1].Content)
	require.False(t, after.Pending)
	require.ErrorIs(t, after.LastError, chatapi.ErrStatus)
}

func TestSubmit_RequestsAppliedInIssueOrder(t *testing.T) {
	client := mocks.NewMockClient(t)
	releaseA := make(chan struct{})
	client.EXPECT().Send(mock.Anything, "A", "").
		RunAndReturn(func(context.Context, string, string) (*chatapi.Response, error) {
			<-releaseA
			return response("c1", "Triage Agent", "reply A"), nil
		}).Once()
	// B must carry the id learned from A's response.
	client.EXPECT().Send(mock.Anything, "B", "c1").
		Return(response("c1", "FAQ Agent", "reply B"), nil).Once()

	s := newTestStore(t, client)
	dA := s.Submit("A")
	dB := s.Submit("B")

	snap := s.Snapshot()
	require.True(t, snap.Pending)
	require.Len(t, snap.Messages, 2)

	close(releaseA)
	require.NoError(t, wait(t, dA))
	require.NoError(t, wait(t, dB))

	snap = s.Snapshot()
	var contents []string
	for _, m := range snap.Messages {
		contents = append(contents, m.Content)
	}
	require.Equal(t, []string{"A", "B", "reply A", "reply B"}, contents)
	require.Equal(t, "FAQ Agent", snap.CurrentAgent)
	require.False(t, snap.Pending)
}

func TestSubmit_ConversationIDIsSetOnce(t *testing.T) {
	client := mocks.NewMockClient(t)
	client.EXPECT().Send(mock.Anything, "first", "").Return(response("c1", "Triage Agent"), nil).Once()
	client.EXPECT().Send(mock.Anything, "second", "c1").Return(response("c2", "Triage Agent"), nil).Once()

	s := newTestStore(t, client)
	require.NoError(t, wait(t, s.Submit("first")))
	require.NoError(t, wait(t, s.Submit("second")))

	require.Equal(t, "c1", s.Snapshot().ConversationID)
}

func TestSubmit_RosterReplacement(t *testing.T) {
	client := mocks.NewMockClient(t)
	withRoster := response("c1", "Triage Agent")
	withRoster.Snapshot.Agents = domain.Replace([]domain.Agent{{Name: "Triage Agent"}, {Name: "FAQ Agent"}})
	withRoster.Snapshot.Guardrails = domain.Replace([]domain.GuardrailCheck{{Name: "relevance_guardrail", Passed: true}})
	cleared := response("c1", "Triage Agent")
	cleared.Snapshot.Agents = domain.Replace([]domain.Agent{})

	client.EXPECT().Send(mock.Anything, "one", mock.Anything).Return(withRoster, nil).Once()
	client.EXPECT().Send(mock.Anything, "two", "c1").Return(response("c1", "Triage Agent"), nil).Once()
	client.EXPECT().Send(mock.Anything, "three", "c1").Return(cleared, nil).Once()

	s := newTestStore(t, client)

	require.NoError(t, wait(t, s.Submit("one")))
	require.Len(t, s.Snapshot().Agents, 2)

	require.NoError(t, wait(t, s.Submit("two")))
	snap := s.Snapshot()
	require.Len(t, snap.Agents, 2, "absent roster retains previous")
	require.Len(t, snap.Guardrails, 1)

	require.NoError(t, wait(t, s.Submit("three")))
	snap = s.Snapshot()
	require.Empty(t, snap.Agents, "empty roster clears")
	require.Len(t, snap.Guardrails, 1)
}

func TestSubmit_EventsAccumulate(t *testing.T) {
	client := mocks.NewMockClient(t)
	first := response("c1", "Triage Agent")
	first.Delta.Events = []domain.AgentEvent{{Type: domain.EventHandoff, Metadata: &domain.EventMetadata{TargetAgent: "Seat Booking Agent"}}}
	second := response("c1", "Seat Booking Agent")
	second.Delta.Events = []domain.AgentEvent{
		{Type: domain.EventToolCall, Metadata: &domain.EventMetadata{ToolName: "update_seat", ToolArgs: map[string]any{"seat": "12C"}}},
		{Type: domain.EventToolOutput},
	}
	client.EXPECT().Send(mock.Anything, "one", "").Return(first, nil).Once()
	client.EXPECT().Send(mock.Anything, "two", "c1").Return(second, nil).Once()

	s := newTestStore(t, client)
	require.NoError(t, wait(t, s.Submit("one")))
	require.NoError(t, wait(t, s.Submit("two")))

	snap := s.Snapshot()
	require.Len(t, snap.Events, 3)
	require.Equal(t, domain.EventHandoff, snap.Events[0].Type)
	require.Equal(t, domain.EventToolOutput, snap.Events[2].Type)

	ids := map[string]bool{}
	for _, e := range snap.Events {
		ids[e.ID] = true
	}
	require.Len(t, ids, 3)
}

func TestSubmit_SentinelKeepsDirective(t *testing.T) {
	client := mocks.NewMockClient(t)
	client.EXPECT().Send(mock.Anything, "change seat", "").
		Return(response("c1", "Seat Booking Agent", "Pick a seat below.", domain.SeatMapSentinel), nil).Once()

	s := newTestStore(t, client)
	require.NoError(t, wait(t, s.Submit("change seat")))

	snap := s.Snapshot()
	require.Len(t, snap.Messages, 3)
	require.True(t, snap.Messages[1].Renderable())
	require.False(t, snap.Messages[2].Renderable())
	require.True(t, snap.Messages[2].RequestsSeatSelector())
}

func TestSnapshot_IsDeepCopy(t *testing.T) {
	client := mocks.NewMockClient(t)
	resp := response("c1", "Triage Agent", "hi")
	resp.Snapshot.Context = map[string]any{"seat_number": "12C"}
	resp.Snapshot.Agents = domain.Replace([]domain.Agent{{Name: "Triage Agent", Handoffs: []string{"FAQ Agent"}}})
	client.EXPECT().Send(mock.Anything, "", "").Return(resp, nil).Once()

	s := newTestStore(t, client)
	require.NoError(t, s.Bootstrap(context.Background()))

	snap := s.Snapshot()
	snap.Context["seat_number"] = "1A"
	snap.Agents[0].Handoffs[0] = "nobody"
	snap.Messages[0].Content = "mutated"

	fresh := s.Snapshot()
	require.Equal(t, "12C", fresh.Context["seat_number"])
	require.Equal(t, "FAQ Agent", fresh.Agents[0].Handoffs[0])
	require.Equal(t, "hi", fresh.Messages[0].Content)
}

func TestSubscribe_ReceivesSnapshots(t *testing.T) {
	client := mocks.NewMockClient(t)
	client.EXPECT().Send(mock.Anything, "hello", "").Return(response("c1", "Triage Agent", "hi there"), nil).Once()

	s := newTestStore(t, client)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := s.Subscribe(ctx)

	d := s.Submit("hello")

	first := <-events
	require.True(t, first.Payload.Pending)
	require.Len(t, first.Payload.Messages, 1)

	require.NoError(t, wait(t, d))
	second := <-events
	require.False(t, second.Payload.Pending)
	require.Len(t, second.Payload.Messages, 2)
	require.Greater(t, second.Payload.Version, first.Payload.Version)
}

func TestDelivery_WaitCancelledLeavesRequestQueued(t *testing.T) {
	client := mocks.NewMockClient(t)
	release := make(chan struct{})
	client.EXPECT().Send(mock.Anything, "slow", "").
		RunAndReturn(func(context.Context, string, string) (*chatapi.Response, error) {
			<-release
			return response("c1", "Triage Agent", "done"), nil
		}).Once()

	s := newTestStore(t, client)
	d := s.Submit("slow")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, d.Wait(ctx), context.Canceled)

	close(release)
	require.NoError(t, wait(t, d))
	require.Len(t, s.Snapshot().Messages, 2)
}

func TestClose_FailsQueuedDeliveries(t *testing.T) {
	client := mocks.NewMockClient(t)
	started := make(chan struct{})
	client.EXPECT().Send(mock.Anything, "first", "").
		RunAndReturn(func(ctx context.Context, _, _ string) (*chatapi.Response, error) {
			close(started)
			<-ctx.Done()
			return nil, &chatapi.Failure{Kind: chatapi.FailureTransport, Err: ctx.Err()}
		}).Once()

	s := NewStore(client)
	first := s.Submit("first")
	<-started
	second := s.Submit("second")

	s.Close()

	require.ErrorIs(t, wait(t, first), ErrClosed)
	require.ErrorIs(t, wait(t, second), ErrClosed)
	require.ErrorIs(t, wait(t, s.Submit("late")), ErrClosed)
	require.ErrorIs(t, s.Bootstrap(context.Background()), ErrClosed)

	s.Close()
}

func TestWithRestored_ContinuesConversation(t *testing.T) {
	client := mocks.NewMockClient(t)
	client.EXPECT().Send(mock.Anything, "back again", "c7").Return(response("c7", "FAQ Agent", "welcome back"), nil).Once()

	restored := Snapshot{
		ConversationID: "c7",
		CurrentAgent:   "Triage Agent",
		Messages: []domain.Message{
			{ID: "m1", Content: "hi", Role: domain.RoleUser, Origin: domain.OriginLocal},
		},
		Pending: true,
	}

	var recorded []Snapshot
	rec := RecorderFunc(func(_ context.Context, snap Snapshot) error {
		recorded = append(recorded, snap)
		return nil
	})
	s := newTestStore(t, client, WithRestored(restored), WithRecorder(rec))

	snap := s.Snapshot()
	require.False(t, snap.Pending)
	require.NotNil(t, snap.Context)

	require.NoError(t, s.Bootstrap(context.Background()))
	require.NoError(t, wait(t, s.Submit("back again")))

	snap = s.Snapshot()
	require.Equal(t, "c7", snap.ConversationID)
	require.Len(t, snap.Messages, 3)
	require.Len(t, recorded, 1)
	require.Len(t, recorded[0].Messages, 3)
}
