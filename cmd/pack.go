package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillbuilder/internal/content"
	"github.com/abhisek/skillbuilder/internal/playback"
)

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Validate the catalog and print a goal's daily pack",
	RunE: func(cmd *cobra.Command, args []string) error {
		goalID, _ := cmd.Flags().GetString("goal")
		day, _ := cmd.Flags().GetInt("day")

		catalog, err := content.Load(resolveCatalogPath(cmd))
		if err != nil {
			return err
		}
		fmt.Printf("Catalog OK: %d goals, %d packs, %d lesson sheets\n",
			len(catalog.Goals), len(catalog.Packs), len(catalog.Lessons))

		if goalID == "" {
			for _, g := range catalog.Goals {
				fmt.Printf("  %-16s %s\n", g.ID, g.Title)
			}
			return nil
		}

		goal, ok := catalog.Goal(goalID)
		if !ok {
			return fmt.Errorf("unknown goal %q", goalID)
		}
		if day <= 0 {
			day = catalog.Progress.DaysCompleted + 1
		}

		pack := catalog.PackFor(goal.ID, day)
		fmt.Println()
		fmt.Printf("%s, day %d: %s\n", goal.Title, day, pack.ID)
		fmt.Println(strings.Repeat("─", 60))
		for i, item := range pack.Items {
			clip := ""
			if item.HasClip() {
				clip = fmt.Sprintf("  clip %s-%s", playback.FormatTime(*item.ClipStartSec), playback.FormatTime(*item.ClipEndSec))
			}
			fmt.Printf("%2d. %-8s %-28s %-16s %6s%s\n",
				i+1, item.Kind, truncate(item.Title, 28), truncate(item.Artist, 16), playback.FormatTime(item.DurationSec), clip)
		}
		fmt.Println(strings.Repeat("─", 60))
		fmt.Printf("Total %s", playback.FormatTime(pack.TotalDurationSec()))
		if lesson, ok := catalog.Lesson(pack.LessonSheetID); ok {
			fmt.Printf("   lesson %s (%d words)", lesson.ID, len(lesson.Vocabulary))
		}
		fmt.Println()
		return nil
	},
}

func init() {
	packCmd.Flags().String("goal", "", "Goal ID to show the pack for")
	packCmd.Flags().Int("day", 0, "Day number (defaults to the catalog's next day)")
}
