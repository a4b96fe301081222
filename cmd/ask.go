package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillbuilder/internal/assistant"
	"github.com/abhisek/skillbuilder/internal/journey"
	"github.com/abhisek/skillbuilder/internal/screens/drawer"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the assistant one question without opening the app",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()
		rt.withGateway(cmd)

		provider, err := askContext(cmd, rt)
		if err != nil {
			return err
		}
		session := rt.newSession(provider)

		turn, err := session.Ask(context.Background(), strings.Join(args, " "))
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		switch {
		case turn.IsFallback():
			fmt.Println(turn.Text)
		case asJSON:
			b, err := json.MarshalIndent(turn.Reply, "", "  ")
			if err != nil {
				return fmt.Errorf("encode reply: %w", err)
			}
			fmt.Println(string(b))
		default:
			fmt.Println(drawer.RenderReply(turn.Reply, 72))
		}
		return nil
	},
}

// askContext starts from the restored journey and applies the context
// flags on top. --goal uses a throwaway controller so the saved journey
// is left alone.
func askContext(cmd *cobra.Command, rt *runtime) (assistant.ContextProvider, error) {
	flags := cmd.Flags()
	screen, _ := flags.GetString("screen")
	goalID, _ := flags.GetString("goal")
	day, _ := flags.GetInt("day")

	ctrl := rt.journey
	if goalID != "" {
		ctrl = journey.NewController(rt.catalog)
		if err := ctrl.SelectGoal(cmd.Context(), goalID); err != nil {
			return nil, err
		}
	}

	return assistant.ContextFunc(func() assistant.ContextSnapshot {
		snap := ctrl.Snapshot()
		if screen != "" {
			snap.Screen = screen
		}
		if day > 0 {
			snap.DayNumber = day
		}
		return snap
	}), nil
}

func init() {
	askCmd.Flags().String("screen", "", "Screen to report in the context (GoalSelection, Progress, DailyPack, LessonSheet)")
	askCmd.Flags().String("goal", "", "Goal ID to make active before asking")
	askCmd.Flags().Int("day", 0, "Day number to report in the context")
	askCmd.Flags().Bool("json", false, "Print the structured reply as JSON")
}
