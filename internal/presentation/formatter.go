package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// FormatSessionsJSON formats a list of sessions as JSON
func (f *Formatter) FormatSessionsJSON(sessions []SessionDTO) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(sessions)
}

// FormatSessions writes an aligned table, newest first as given.
func (f *Formatter) FormatSessions(sessions []SessionDTO) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(f.writer, "No saved conversations.")
		return err
	}

	tw := tabwriter.NewWriter(f.writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "CONVERSATION\tAGENT\tMESSAGES\tSEAT\tUPDATED")
	for _, s := range sessions {
		seat := s.SelectedSeat
		if seat == "" {
			seat = "-"
		}
		agent := s.CurrentAgent
		if agent == "" {
			agent = "-"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			s.ConversationID, agent, s.Messages, seat, s.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}
