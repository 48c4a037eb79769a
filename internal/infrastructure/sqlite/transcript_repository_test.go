package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/airdesk/internal/conversation"
	"github.com/zjrosen/airdesk/internal/domain"
)

func setupTestRepo(t *testing.T) *TranscriptRepository {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db.TranscriptRepository()
}

func sampleSnapshot() conversation.Snapshot {
	ts := time.UnixMilli(1760522700000)
	return conversation.Snapshot{
		ConversationID: "c1",
		CurrentAgent:   "Seat Booking Agent",
		Context:        map[string]any{"confirmation_number": "LL0EZ6", "seat_number": nil},
		Messages: []domain.Message{
			{ID: "m1", Content: "change my seat", Role: domain.RoleUser, Timestamp: ts, Origin: domain.OriginLocal},
			{ID: "m2", Content: domain.SeatMapSentinel, Role: domain.RoleAssistant, Agent: "Seat Booking Agent",
				Timestamp: ts, Directive: domain.DirectiveShowSeatSelector, Origin: domain.OriginServer},
		},
		Events: []domain.AgentEvent{
			{ID: "e1", Type: domain.EventHandoff, Agent: "Triage Agent", Timestamp: ts,
				Metadata: &domain.EventMetadata{SourceAgent: "Triage Agent", TargetAgent: "Seat Booking Agent"}},
			{ID: "e2", Type: domain.EventMessage, Agent: "Seat Booking Agent", Content: "hi", Timestamp: ts},
		},
		Agents: []domain.Agent{
			{Name: "Triage Agent", Handoffs: []string{"Seat Booking Agent"}, InputGuardrails: []string{"relevance_guardrail"}},
			{Name: "Seat Booking Agent", Tools: []string{"update_seat"}},
		},
		Guardrails: []domain.GuardrailCheck{
			{ID: "g1", Name: "relevance_guardrail", Input: "change my seat", Passed: true, Timestamp: ts},
		},
	}
}

func TestTranscriptRepository_SaveLoadRoundTrip(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	snap := sampleSnapshot()

	require.NoError(t, repo.Save(ctx, snap))

	stored, err := repo.Load(ctx, "c1")
	require.NoError(t, err)
	got := stored.Snapshot

	require.Equal(t, snap.CurrentAgent, got.CurrentAgent)
	require.Equal(t, "LL0EZ6", got.Context["confirmation_number"])
	require.Contains(t, got.Context, "seat_number")

	require.Len(t, got.Messages, 2)
	require.Equal(t, domain.DirectiveShowSeatSelector, got.Messages[1].Directive)
	require.Equal(t, domain.OriginLocal, got.Messages[0].Origin)
	require.True(t, snap.Messages[0].Timestamp.Equal(got.Messages[0].Timestamp))

	require.Len(t, got.Events, 2)
	require.Equal(t, "Seat Booking Agent", got.Events[0].Metadata.TargetAgent)
	require.Nil(t, got.Events[1].Metadata)

	require.Len(t, got.Agents, 2)
	require.True(t, got.Agents[0].CanHandoffTo("Seat Booking Agent"))
	require.Len(t, got.Guardrails, 1)
	require.True(t, got.Guardrails[0].Passed)
	require.Empty(t, stored.SelectedSeat)
}

func TestTranscriptRepository_SaveIsAppendOnly(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	snap := sampleSnapshot()
	require.NoError(t, repo.Save(ctx, snap))
	require.NoError(t, repo.Save(ctx, snap))

	snap.Messages = append(snap.Messages, domain.Message{
		ID: "m3", Content: "I would like seat 12C", Role: domain.RoleUser, Origin: domain.OriginLocal,
	})
	snap.CurrentAgent = "Triage Agent"
	require.NoError(t, repo.Save(ctx, snap))

	stored, err := repo.Load(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, stored.Snapshot.Messages, 3)
	require.Equal(t, "I would like seat 12C", stored.Snapshot.Messages[2].Content)
	require.Equal(t, "Triage Agent", stored.Snapshot.CurrentAgent)
}

func TestTranscriptRepository_RecordSkipsUninitialized(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Record(ctx, conversation.Snapshot{Messages: []domain.Message{{ID: "m1"}}}))
	list, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Empty(t, list)

	require.Error(t, repo.Save(ctx, conversation.Snapshot{}))
}

func TestTranscriptRepository_SelectedSeat(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, sampleSnapshot()))

	require.NoError(t, repo.SaveSelectedSeat(ctx, "c1", "12C"))
	stored, err := repo.Load(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, "12C", stored.SelectedSeat)

	err = repo.SaveSelectedSeat(ctx, "missing", "1A")
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	require.Equal(t, "missing", nf.ConversationID)
}

func TestTranscriptRepository_LoadMissing(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.Load(context.Background(), "nope")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestTranscriptRepository_ListOrdersByRecency(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	clock := time.UnixMilli(1_000)
	repo.now = func() time.Time { return clock }

	for _, id := range []string{"old", "mid", "new"} {
		snap := sampleSnapshot()
		snap.ConversationID = id
		require.NoError(t, repo.Save(ctx, snap))
		clock = clock.Add(time.Second)
	}
	require.NoError(t, repo.SaveSelectedSeat(ctx, "mid", "7C"))

	all, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "mid", all[0].ConversationID)
	require.Equal(t, "7C", all[0].SelectedSeat)
	require.Equal(t, 2, all[0].MessageCount)

	limited, err := repo.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
}

func TestTranscriptRepository_DeleteCascades(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, sampleSnapshot()))

	require.NoError(t, repo.Delete(ctx, "c1"))

	var n int
	require.NoError(t, repo.db.QueryRow("SELECT COUNT(*) FROM messages").Scan(&n))
	require.Zero(t, n)

	var nf *NotFoundError
	require.ErrorAs(t, repo.Delete(ctx, "c1"), &nf)
}

func TestTranscriptRepository_PrefixProperty(t *testing.T) {
	repo := setupTestRepo(t)
	run := 0

	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		run++
		id := fmt.Sprintf("conv-%d", run)
		total := rapid.IntRange(1, 12).Draw(rt, "total")

		snap := conversation.Snapshot{ConversationID: id, Context: map[string]any{}}
		for i := range total {
			snap.Messages = append(snap.Messages, domain.Message{
				ID: fmt.Sprintf("%s-%d", id, i), Content: fmt.Sprintf("m%d", i),
				Role: domain.RoleUser, Origin: domain.OriginLocal,
			})
			if rapid.Bool().Draw(rt, "save") {
				require.NoError(rt, repo.Save(ctx, snap))
			}
		}
		require.NoError(rt, repo.Save(ctx, snap))

		stored, err := repo.Load(ctx, id)
		require.NoError(rt, err)
		require.Len(rt, stored.Snapshot.Messages, total)
		for i, m := range stored.Snapshot.Messages {
			require.Equal(rt, snap.Messages[i].ID, m.ID)
		}
	})
}
