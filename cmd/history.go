package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillbuilder/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent assistant conversation turns",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		turns, err := s.EventRepo().RecentTurns(ctx, limit)
		if err != nil {
			return fmt.Errorf("query turns: %w", err)
		}

		if len(turns) == 0 {
			fmt.Println("No conversation yet.")
			return nil
		}

		session := ""
		for _, t := range turns {
			if t.SessionID != session {
				session = t.SessionID
				fmt.Println()
				fmt.Printf("Session %s  (%s)\n", shortID(session), t.Timestamp.Local().Format("2006-01-02 15:04"))
				fmt.Println(strings.Repeat("─", 60))
			}
			fmt.Println(formatTurn(t))
		}
		return nil
	},
}

func formatTurn(t store.TurnRecord) string {
	switch {
	case t.Role == "user":
		return fmt.Sprintf("  you  [%s] %s", t.Screen, t.Text)
	case t.ReplyJSON == "":
		return fmt.Sprintf("  bot  %s", t.Text)
	default:
		return fmt.Sprintf("  bot  %s (%.0f%%)", t.Intent, t.Confidence*100)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of turns to show")
}
