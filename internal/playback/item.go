package playback

import (
	"errors"
	"fmt"
)

// Kind distinguishes songs from podcast clips.
type Kind string

const (
	KindSong    Kind = "Song"
	KindPodcast Kind = "Podcast"
)

// AudioItem is one entry in a daily pack. Items are immutable once loaded.
type AudioItem struct {
	ID          string `yaml:"id" json:"id"`
	Kind        Kind   `yaml:"kind" json:"kind"`
	Title       string `yaml:"title" json:"title"`
	Artist      string `yaml:"artist" json:"artist"`
	DurationSec int    `yaml:"durationSec" json:"durationSec"`
	SourceRef   string `yaml:"sourceRef" json:"sourceRef"`

	// ClipStartSec and ClipEndSec mark the excerpt of interest, if any.
	ClipStartSec *int `yaml:"clipStartSec,omitempty" json:"clipStartSec,omitempty"`
	ClipEndSec   *int `yaml:"clipEndSec,omitempty" json:"clipEndSec,omitempty"`
}

// HasClip reports whether the item carries a clip window.
func (a AudioItem) HasClip() bool {
	return a.ClipStartSec != nil && a.ClipEndSec != nil
}

// Validate checks the item's own invariants.
func (a AudioItem) Validate() error {
	if a.ID == "" {
		return errors.New("item id is required")
	}
	switch a.Kind {
	case KindSong, KindPodcast:
	default:
		return fmt.Errorf("item %s: unknown kind %q", a.ID, a.Kind)
	}
	if a.DurationSec <= 0 {
		return fmt.Errorf("item %s: duration must be positive, got %d", a.ID, a.DurationSec)
	}
	if (a.ClipStartSec == nil) != (a.ClipEndSec == nil) {
		return fmt.Errorf("item %s: clip start and end must be set together", a.ID)
	}
	if a.HasClip() {
		start, end := *a.ClipStartSec, *a.ClipEndSec
		if start < 0 || start >= end || end > a.DurationSec {
			return fmt.Errorf("item %s: clip [%d,%d] outside 0..%d", a.ID, start, end, a.DurationSec)
		}
	}
	return nil
}

// DailyAudioPack is the ordered set of items assigned for one day.
type DailyAudioPack struct {
	ID            string      `yaml:"id" json:"id"`
	GoalID        string      `yaml:"goalId" json:"goalId"`
	DayNumber     int         `yaml:"dayNumber" json:"dayNumber"`
	Items         []AudioItem `yaml:"items" json:"items"`
	LessonSheetID string      `yaml:"lessonSheetId" json:"lessonSheetId"`
}

// Validate checks that the pack is non-empty and internally consistent.
func (p DailyAudioPack) Validate() error {
	if p.DayNumber <= 0 {
		return fmt.Errorf("pack %s: day number must be positive, got %d", p.ID, p.DayNumber)
	}
	if len(p.Items) == 0 {
		return fmt.Errorf("pack %s: no items", p.ID)
	}
	seen := make(map[string]bool, len(p.Items))
	for _, item := range p.Items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("pack %s: %w", p.ID, err)
		}
		if seen[item.ID] {
			return fmt.Errorf("pack %s: duplicate item id %q", p.ID, item.ID)
		}
		seen[item.ID] = true
	}
	return nil
}

// TotalDurationSec sums the durations of every item.
func (p DailyAudioPack) TotalDurationSec() int {
	total := 0
	for _, item := range p.Items {
		total += item.DurationSec
	}
	return total
}

// FormatTime renders seconds as m:ss.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
