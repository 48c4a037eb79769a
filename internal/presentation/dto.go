package presentation

import (
	"time"

	"github.com/zjrosen/airdesk/internal/infrastructure/sqlite"
)

// SessionDTO represents a stored conversation for presentation
type SessionDTO struct {
	ConversationID string    `json:"conversation_id"`
	CurrentAgent   string    `json:"current_agent"`
	Messages       int       `json:"messages"`
	SelectedSeat   string    `json:"selected_seat,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FromSummaries converts repository summaries to DTOs, keeping their order.
func FromSummaries(summaries []sqlite.Summary) []SessionDTO {
	dtos := make([]SessionDTO, len(summaries))
	for i, s := range summaries {
		dtos[i] = SessionDTO{
			ConversationID: s.ConversationID,
			CurrentAgent:   s.CurrentAgent,
			Messages:       s.MessageCount,
			SelectedSeat:   s.SelectedSeat,
			UpdatedAt:      s.UpdatedAt.UTC(),
		}
	}
	return dtos
}
