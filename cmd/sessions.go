package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/airdesk/internal/infrastructure/sqlite"
	"github.com/zjrosen/airdesk/internal/presentation"
)

var (
	sessionsLimit int
	sessionsJSON  bool
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List saved conversations",
	Long: `List conversations stored in the history database, most recently
updated first. Resume one with "airdesk --resume <id>".

Examples:
  airdesk sessions
  airdesk sessions --limit 5
  airdesk sessions --json | jq '.[].conversation_id'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := openHistory()
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		summaries, err := db.TranscriptRepository().List(cmd.Context(), sessionsLimit)
		if err != nil {
			return fmt.Errorf("listing sessions: %w", err)
		}

		formatter := presentation.NewFormatter(cmd.OutOrStdout())
		dtos := presentation.FromSummaries(summaries)
		if sessionsJSON {
			return formatter.FormatSessionsJSON(dtos)
		}
		return formatter.FormatSessions(dtos)
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <conversation-id>",
	Short: "Delete a saved conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openHistory()
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		if err := db.TranscriptRepository().Delete(cmd.Context(), args[0]); err != nil {
			var notFound *sqlite.NotFoundError
			if errors.As(err, &notFound) {
				return fmt.Errorf("no saved conversation %q", args[0])
			}
			return fmt.Errorf("deleting session: %w", err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	sessionsCmd.Flags().IntVarP(&sessionsLimit, "limit", "n", 20, "maximum number of sessions to show")
	sessionsCmd.Flags().BoolVar(&sessionsJSON, "json", false, "print sessions as JSON")
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	rootCmd.AddCommand(sessionsCmd)
}
