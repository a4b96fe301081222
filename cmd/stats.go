package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show journey progress per goal",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		active, hasActive := rt.journey.ActiveGoal()

		var rows [][]string
		for _, g := range rt.catalog.Goals {
			marker := ""
			if hasActive && active.ID == g.ID {
				marker = "▸"
			}
			events, err := rt.store.EventRepo().PackEvents(ctx, g.ID)
			if err != nil {
				return fmt.Errorf("query pack events: %w", err)
			}
			row := []string{marker, g.Title, "-", "-", "-", strconv.Itoa(len(events))}
			if p, ok := rt.journey.GoalProgress(g.ID); ok {
				row[2] = strconv.Itoa(p.DaysCompleted)
				row[3] = strconv.Itoa(p.Streak)
				row[4] = fmt.Sprintf("%.0f%%", p.Percent*100)
			}
			rows = append(rows, row)
		}
		fmt.Println(renderTable([]string{"", "Goal", "Days", "Streak", "Progress", "Packs"}, rows))
		return nil
	},
}
