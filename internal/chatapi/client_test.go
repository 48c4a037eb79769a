package chatapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/zjrosen/airdesk/internal/domain"
	"github.com/zjrosen/airdesk/internal/tracing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewHTTPClient(Config{BaseURL: srv.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	return c
}

func respondJSON(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}
}

func TestNewHTTPClient_Validation(t *testing.T) {
	_, err := NewHTTPClient(Config{})
	require.Error(t, err)

	_, err = NewHTTPClient(Config{BaseURL: "ftp://example.com"})
	require.Error(t, err)

	c, err := NewHTTPClient(Config{BaseURL: "http://localhost:8000/"})
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8000/chat", c.Endpoint())
}

func TestSend_PostsRequestBody(t *testing.T) {
	var got chatRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/chat", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		respondJSON(`{"conversation_id":"c1","current_agent":"Triage Agent","context":{}}`)(w, r)
	})

	_, err := c.Send(context.Background(), "hello", "")
	require.NoError(t, err)
	require.Equal(t, chatRequest{ConversationID: "", Message: "hello"}, got)
}

func TestSend_DecodesFullResponse(t *testing.T) {
	c := newTestClient(t, respondJSON(`{
		"conversation_id": "c1",
		"current_agent": "Seat Booking Agent",
		"context": {"confirmation_number": "LL0EZ6", "seat_number": null},
		"messages": [
			{"content": "Sure, let me help.", "agent": "Seat Booking Agent"},
			{"content": "DISPLAY_SEAT_MAP", "agent": "Seat Booking Agent"}
		],
		"events": [
			{"id": "e1", "type": "handoff", "agent": "Triage Agent", "content": "", "timestamp": 1760522700000,
			 "metadata": {"source_agent": "Triage Agent", "target_agent": "Seat Booking Agent"}},
			{"type": "tool_call", "agent": "Seat Booking Agent", "content": "display_seat_map", "timestamp": "2026-10-15T10:45:00Z",
			 "metadata": {"tool_name": "display_seat_map", "tool_args": {}}}
		],
		"agents": [
			{"name": "Triage Agent", "description": "Routes requests", "handoffs": ["Seat Booking Agent"], "tools": [], "input_guardrails": ["relevance_guardrail"]},
			{"name": "Seat Booking Agent", "description": "Changes seats", "handoffs": ["Triage Agent"], "tools": ["update_seat"], "input_guardrails": []}
		],
		"guardrails": [
			{"id": "g1", "name": "relevance_guardrail", "input": "change my seat", "reasoning": "on topic", "passed": true, "timestamp": 1760522700000}
		]
	}`))

	resp, err := c.Send(context.Background(), "change my seat", "c1")
	require.NoError(t, err)

	require.Equal(t, "c1", resp.Snapshot.ConversationID)
	require.Equal(t, "Seat Booking Agent", resp.Snapshot.CurrentAgent)
	require.Equal(t, "LL0EZ6", resp.Snapshot.Context["confirmation_number"])
	require.Contains(t, resp.Snapshot.Context, "seat_number")
	require.Nil(t, resp.Snapshot.Context["seat_number"])

	require.Len(t, resp.Delta.Messages, 2)
	require.Equal(t, domain.DirectivePlain, resp.Delta.Messages[0].Directive)
	require.Equal(t, domain.DirectiveShowSeatSelector, resp.Delta.Messages[1].Directive)

	require.Len(t, resp.Delta.Events, 2)
	require.Equal(t, domain.EventHandoff, resp.Delta.Events[0].Type)
	require.Equal(t, time.UnixMilli(1760522700000).UTC(), resp.Delta.Events[0].Timestamp.UTC())
	require.Equal(t, "Seat Booking Agent", resp.Delta.Events[0].Metadata.TargetAgent)
	require.Empty(t, resp.Delta.Events[1].ID)
	require.Equal(t, time.Date(2026, 10, 15, 10, 45, 0, 0, time.UTC), resp.Delta.Events[1].Timestamp.UTC())

	agents, ok := resp.Snapshot.Agents.Get()
	require.True(t, ok)
	require.Len(t, agents, 2)
	require.True(t, agents[0].CanHandoffTo("Seat Booking Agent"))
	require.Equal(t, []string{"relevance_guardrail"}, agents[0].InputGuardrails)

	checks, ok := resp.Snapshot.Guardrails.Get()
	require.True(t, ok)
	require.Len(t, checks, 1)
	require.True(t, checks[0].Passed)
}

func TestSend_AbsentVersusEmptyRoster(t *testing.T) {
	absent := newTestClient(t, respondJSON(`{"conversation_id":"c1","current_agent":"Triage Agent","context":{}}`))
	resp, err := absent.Send(context.Background(), "hi", "c1")
	require.NoError(t, err)
	require.False(t, resp.Snapshot.Agents.Present())
	require.False(t, resp.Snapshot.Guardrails.Present())
	require.Empty(t, resp.Delta.Messages)
	require.Empty(t, resp.Delta.Events)

	null := newTestClient(t, respondJSON(`{"conversation_id":"c1","current_agent":"Triage Agent","context":{},"agents":null}`))
	resp, err = null.Send(context.Background(), "hi", "c1")
	require.NoError(t, err)
	require.False(t, resp.Snapshot.Agents.Present())

	empty := newTestClient(t, respondJSON(`{"conversation_id":"c1","current_agent":"Triage Agent","context":{},"agents":[],"guardrails":[]}`))
	resp, err = empty.Send(context.Background(), "hi", "c1")
	require.NoError(t, err)
	agents, ok := resp.Snapshot.Agents.Get()
	require.True(t, ok)
	require.Empty(t, agents)
	require.True(t, resp.Snapshot.Guardrails.Present())
}

func TestSend_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    error
		kind    FailureKind
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			want: ErrStatus,
			kind: FailureStatus,
		},
		{
			name:    "invalid json",
			handler: respondJSON(`{"conversation_id":`),
			want:    ErrMalformed,
			kind:    FailureMalformed,
		},
		{
			name:    "missing conversation id",
			handler: respondJSON(`{"current_agent":"Triage Agent","context":{}}`),
			want:    ErrMalformed,
			kind:    FailureMalformed,
		},
		{
			name:    "empty conversation id",
			handler: respondJSON(`{"conversation_id":"","current_agent":"Triage Agent","context":{}}`),
			want:    ErrMalformed,
			kind:    FailureMalformed,
		},
		{
			name:    "missing current agent",
			handler: respondJSON(`{"conversation_id":"c1","context":{}}`),
			want:    ErrMalformed,
			kind:    FailureMalformed,
		},
		{
			name:    "null context",
			handler: respondJSON(`{"conversation_id":"c1","current_agent":"Triage Agent","context":null}`),
			want:    ErrMalformed,
			kind:    FailureMalformed,
		},
		{
			name:    "unknown event type",
			handler: respondJSON(`{"conversation_id":"c1","current_agent":"Triage Agent","context":{},"events":[{"type":"telepathy"}]}`),
			want:    ErrMalformed,
			kind:    FailureMalformed,
		},
		{
			name:    "nameless agent",
			handler: respondJSON(`{"conversation_id":"c1","current_agent":"Triage Agent","context":{},"agents":[{"description":"?"}]}`),
			want:    ErrMalformed,
			kind:    FailureMalformed,
		},
		{
			name:    "bad timestamp",
			handler: respondJSON(`{"conversation_id":"c1","current_agent":"Triage Agent","context":{},"events":[{"type":"message","timestamp":"yesterday"}]}`),
			want:    ErrMalformed,
			kind:    FailureMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)

			resp, err := c.Send(context.Background(), "hi", "c1")
			require.Nil(t, resp)
			require.ErrorIs(t, err, tt.want)

			var f *Failure
			require.True(t, errors.As(err, &f))
			require.Equal(t, tt.kind, f.Kind)
		})
	}
}

func TestSend_StatusFailureKeepsCode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	_, err := c.Send(context.Background(), "hi", "")

	var f *Failure
	require.ErrorAs(t, err, &f)
	require.Equal(t, http.StatusBadGateway, f.StatusCode)
	require.Contains(t, f.Error(), "502")
}

func TestSend_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewHTTPClient(Config{BaseURL: url, Timeout: time.Second})
	require.NoError(t, err)

	_, err = c.Send(context.Background(), "hi", "")
	require.ErrorIs(t, err, ErrTransport)
	require.NotErrorIs(t, err, ErrMalformed)
}

func TestSend_RecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	srv := httptest.NewServer(respondJSON(`{"conversation_id":"c9","current_agent":"FAQ Agent","context":{}}`))
	t.Cleanup(srv.Close)

	c, err := NewHTTPClient(Config{BaseURL: srv.URL, TracerProvider: tp})
	require.NoError(t, err)

	_, err = c.Send(context.Background(), "baggage?", "c9")
	require.NoError(t, err)

	var names []string
	for _, s := range recorder.Ended() {
		names = append(names, s.Name())
	}
	require.Contains(t, names, tracing.SpanChatSend)
}

func TestWireTime(t *testing.T) {
	var wt wireTime
	require.NoError(t, wt.UnmarshalJSON([]byte(`null`)))
	require.True(t, wt.IsZero())

	require.NoError(t, wt.UnmarshalJSON([]byte(`"1760522700500"`)))
	require.Equal(t, int64(1760522700500), wt.UnixMilli())

	require.NoError(t, wt.UnmarshalJSON([]byte(`"2026-10-15T10:45:00.250+02:00"`)))
	require.Equal(t, time.Date(2026, 10, 15, 8, 45, 0, 250_000_000, time.UTC), wt.UTC())

	require.Error(t, wt.UnmarshalJSON([]byte(`true`)))
}
