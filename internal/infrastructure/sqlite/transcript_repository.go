package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/zjrosen/airdesk/internal/conversation"
	"github.com/zjrosen/airdesk/internal/domain"
	"github.com/zjrosen/airdesk/internal/log"
)

// NotFoundError is returned when no transcript exists for an id.
type NotFoundError struct {
	ConversationID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("conversation %q not found", e.ConversationID)
}

// StoredConversation is a transcript loaded for resumption.
type StoredConversation struct {
	Snapshot     conversation.Snapshot
	SelectedSeat string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Summary is one row of the session listing.
type Summary struct {
	ConversationID string
	CurrentAgent   string
	MessageCount   int
	SelectedSeat   string
	UpdatedAt      time.Time
}

// TranscriptRepository stores transcripts. Messages and events are
// append-only, keyed by their position, so saving the same snapshot twice
// is idempotent.
type TranscriptRepository struct {
	db  *sql.DB
	now func() time.Time
}

var _ conversation.Recorder = (*TranscriptRepository)(nil)

func newTranscriptRepository(db *sql.DB) *TranscriptRepository {
	return &TranscriptRepository{db: db, now: time.Now}
}

// Record implements conversation.Recorder. Uninitialised sessions are skipped.
func (r *TranscriptRepository) Record(ctx context.Context, snap conversation.Snapshot) error {
	if !snap.Initialized() {
		return nil
	}
	return r.Save(ctx, snap)
}

// Save upserts the session row and appends any messages and events not yet
// stored.
func (r *TranscriptRepository) Save(ctx context.Context, snap conversation.Snapshot) error {
	if snap.ConversationID == "" {
		return errors.New("cannot save a conversation without an id")
	}

	contextJSON, err := json.Marshal(snap.Context)
	if err != nil {
		return fmt.Errorf("encode context: %w", err)
	}
	if snap.Context == nil {
		contextJSON = []byte("{}")
	}
	agentsJSON, err := encodeAgents(snap.Agents)
	if err != nil {
		return fmt.Errorf("encode agents: %w", err)
	}
	guardrailsJSON, err := encodeGuardrails(snap.Guardrails)
	if err != nil {
		return fmt.Errorf("encode guardrails: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := r.now().UnixMilli()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO conversations (id, current_agent, context, agents, guardrails, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			current_agent = excluded.current_agent,
			context = excluded.context,
			agents = excluded.agents,
			guardrails = excluded.guardrails,
			updated_at = excluded.updated_at`,
		snap.ConversationID, snap.CurrentAgent, string(contextJSON), agentsJSON, guardrailsJSON, now, now,
	); err != nil {
		return fmt.Errorf("upsert conversation: %w", err)
	}

	for seq, m := range snap.Messages {
		model := toMessageModel(seq, m)
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO messages (conversation_id, seq, id, role, agent, content, directive, origin, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			snap.ConversationID, model.Seq, model.ID, model.Role, model.Agent, model.Content,
			model.Directive, model.Origin, model.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert message %d: %w", seq, err)
		}
	}

	for seq, e := range snap.Events {
		model, err := toEventModel(seq, e)
		if err != nil {
			return fmt.Errorf("encode event %d: %w", seq, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO events (conversation_id, seq, id, type, agent, content, metadata, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			snap.ConversationID, model.Seq, model.ID, model.Type, model.Agent, model.Content,
			model.Metadata, model.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert event %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	log.Debug(log.CatDB, "saved transcript",
		"conversation", snap.ConversationID, "messages", len(snap.Messages), "events", len(snap.Events))
	return nil
}

// SaveSelectedSeat records the seat picked in a conversation.
func (r *TranscriptRepository) SaveSelectedSeat(ctx context.Context, conversationID, seat string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE conversations SET selected_seat = ?, updated_at = ? WHERE id = ?`,
		seat, r.now().UnixMilli(), conversationID,
	)
	if err != nil {
		return fmt.Errorf("save selected seat: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save selected seat: %w", err)
	}
	if n == 0 {
		return &NotFoundError{ConversationID: conversationID}
	}
	return nil
}

// Load reads a full transcript.
func (r *TranscriptRepository) Load(ctx context.Context, conversationID string) (*StoredConversation, error) {
	var model ConversationModel
	err := r.db.QueryRowContext(ctx,
		`SELECT id, current_agent, context, agents, guardrails, selected_seat, created_at, updated_at
		FROM conversations WHERE id = ?`, conversationID,
	).Scan(&model.ID, &model.CurrentAgent, &model.Context, &model.Agents, &model.Guardrails,
		&model.SelectedSeat, &model.CreatedAt, &model.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{ConversationID: conversationID}
	}
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}

	snap := conversation.Snapshot{
		ConversationID: model.ID,
		CurrentAgent:   model.CurrentAgent,
	}
	if err := json.Unmarshal([]byte(model.Context), &snap.Context); err != nil {
		return nil, fmt.Errorf("decode context: %w", err)
	}
	if snap.Agents, err = decodeAgents(model.Agents); err != nil {
		return nil, fmt.Errorf("decode agents: %w", err)
	}
	if snap.Guardrails, err = decodeGuardrails(model.Guardrails); err != nil {
		return nil, fmt.Errorf("decode guardrails: %w", err)
	}
	if snap.Messages, err = r.loadMessages(ctx, conversationID); err != nil {
		return nil, err
	}
	if snap.Events, err = r.loadEvents(ctx, conversationID); err != nil {
		return nil, err
	}

	stored := &StoredConversation{
		Snapshot:  snap,
		CreatedAt: fromMillis(model.CreatedAt),
		UpdatedAt: fromMillis(model.UpdatedAt),
	}
	if model.SelectedSeat != nil {
		stored.SelectedSeat = *model.SelectedSeat
	}
	return stored, nil
}

func (r *TranscriptRepository) loadMessages(ctx context.Context, conversationID string) (msgs []domain.Message, err error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT seq, id, role, agent, content, directive, origin, created_at
		FROM messages WHERE conversation_id = ? ORDER BY seq`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var m MessageModel
		if err := rows.Scan(&m.Seq, &m.ID, &m.Role, &m.Agent, &m.Content, &m.Directive, &m.Origin, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, m.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return msgs, nil
}

func (r *TranscriptRepository) loadEvents(ctx context.Context, conversationID string) (events []domain.AgentEvent, err error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT seq, id, type, agent, content, metadata, created_at
		FROM events WHERE conversation_id = ? ORDER BY seq`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var m EventModel
		if err := rows.Scan(&m.Seq, &m.ID, &m.Type, &m.Agent, &m.Content, &m.Metadata, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e, err := m.toDomain()
		if err != nil {
			return nil, fmt.Errorf("decode event %d metadata: %w", m.Seq, err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// List returns the most recently updated conversations first. A limit of
// zero or less returns all of them.
func (r *TranscriptRepository) List(ctx context.Context, limit int) ([]Summary, error) {
	query := `SELECT c.id, c.current_agent, c.selected_seat, c.updated_at,
			(SELECT COUNT(*) FROM messages m WHERE m.conversation_id = c.id)
		FROM conversations c
		ORDER BY c.updated_at DESC, c.id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Summary
	for rows.Next() {
		var (
			s       Summary
			seat    *string
			updated int64
		)
		if err := rows.Scan(&s.ConversationID, &s.CurrentAgent, &seat, &updated, &s.MessageCount); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		if seat != nil {
			s.SelectedSeat = *seat
		}
		s.UpdatedAt = fromMillis(updated)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversations: %w", err)
	}
	return out, nil
}

// Delete removes a conversation and its transcript.
func (r *TranscriptRepository) Delete(ctx context.Context, conversationID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, conversationID)
	if err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &NotFoundError{ConversationID: conversationID}
	}
	return nil
}
