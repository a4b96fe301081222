// Package content loads the goal catalog, daily packs and lesson sheets.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/skillbuilder/internal/playback"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// ErrInvalidPack reports catalog content that fails validation.
type ErrInvalidPack struct {
	PackID string
	Err    error
}

func (e *ErrInvalidPack) Error() string {
	if e.PackID == "" {
		return fmt.Sprintf("invalid catalog: %v", e.Err)
	}
	return fmt.Sprintf("invalid pack %s: %v", e.PackID, e.Err)
}

func (e *ErrInvalidPack) Unwrap() error { return e.Err }

// Goal is a learning path the learner can pick.
type Goal struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Icon        string   `yaml:"icon"`
	Topics      []string `yaml:"topics"`
}

// VocabEntry is one word on a lesson sheet.
type VocabEntry struct {
	Word       string `yaml:"word"`
	Definition string `yaml:"definition"`
}

// LessonSheet is the recap shown after a pack.
type LessonSheet struct {
	ID         string       `yaml:"id"`
	Summary    string       `yaml:"summary"`
	Vocabulary []VocabEntry `yaml:"vocabulary"`
}

// Learner describes who is using the app.
type Learner struct {
	FirstName string `yaml:"firstName"`
}

// Progress seeds a goal's journey the first time it is selected.
type Progress struct {
	DaysCompleted   int     `yaml:"daysCompleted"`
	Streak          int     `yaml:"streak"`
	PercentComplete float64 `yaml:"percentComplete"`
}

// Catalog is the full static content set.
type Catalog struct {
	Learner  Learner                   `yaml:"learner"`
	Progress Progress                  `yaml:"progress"`
	Goals    []Goal                    `yaml:"goals"`
	Packs    []playback.DailyAudioPack `yaml:"packs"`
	Lessons  []LessonSheet             `yaml:"lessons"`
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog from path, or the embedded one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, &ErrInvalidPack{Err: fmt.Errorf("decode: %w", err)}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks cross references and every pack's own invariants.
func (c *Catalog) Validate() error {
	if len(c.Goals) == 0 {
		return &ErrInvalidPack{Err: errors.New("no goals")}
	}
	if len(c.Packs) == 0 {
		return &ErrInvalidPack{Err: errors.New("no packs")}
	}
	if p := c.Progress.PercentComplete; p < 0 || p > 1 {
		return &ErrInvalidPack{Err: fmt.Errorf("percent complete %v outside [0,1]", p)}
	}

	goals := make(map[string]bool, len(c.Goals))
	for _, g := range c.Goals {
		if g.ID == "" || g.Title == "" {
			return &ErrInvalidPack{Err: fmt.Errorf("goal %q: id and title are required", g.ID)}
		}
		if goals[g.ID] {
			return &ErrInvalidPack{Err: fmt.Errorf("duplicate goal %q", g.ID)}
		}
		goals[g.ID] = true
	}

	lessons := make(map[string]bool, len(c.Lessons))
	for _, l := range c.Lessons {
		if l.ID == "" {
			return &ErrInvalidPack{Err: errors.New("lesson sheet id is required")}
		}
		lessons[l.ID] = true
	}

	packs := make(map[string]bool, len(c.Packs))
	for _, p := range c.Packs {
		if err := p.Validate(); err != nil {
			return &ErrInvalidPack{PackID: p.ID, Err: err}
		}
		if packs[p.ID] {
			return &ErrInvalidPack{PackID: p.ID, Err: errors.New("duplicate pack id")}
		}
		packs[p.ID] = true
		if !goals[p.GoalID] {
			return &ErrInvalidPack{PackID: p.ID, Err: fmt.Errorf("unknown goal %q", p.GoalID)}
		}
		if p.LessonSheetID != "" && !lessons[p.LessonSheetID] {
			return &ErrInvalidPack{PackID: p.ID, Err: fmt.Errorf("unknown lesson sheet %q", p.LessonSheetID)}
		}
	}
	return nil
}

// Goal looks up a goal by ID.
func (c *Catalog) Goal(id string) (Goal, bool) {
	for _, g := range c.Goals {
		if g.ID == id {
			return g, true
		}
	}
	return Goal{}, false
}

// PackFor returns the pack for goalID on the given day: the goal's pack
// with the highest day number not after day, else its earliest pack.
// Goals without packs of their own share the first pack in the catalog.
func (c *Catalog) PackFor(goalID string, day int) playback.DailyAudioPack {
	var best, earliest *playback.DailyAudioPack
	for i := range c.Packs {
		p := &c.Packs[i]
		if p.GoalID != goalID {
			continue
		}
		if earliest == nil || p.DayNumber < earliest.DayNumber {
			earliest = p
		}
		if p.DayNumber <= day && (best == nil || p.DayNumber > best.DayNumber) {
			best = p
		}
	}
	switch {
	case best != nil:
		return *best
	case earliest != nil:
		return *earliest
	default:
		return c.Packs[0]
	}
}

// Lesson looks up a lesson sheet by ID.
func (c *Catalog) Lesson(id string) (LessonSheet, bool) {
	for _, l := range c.Lessons {
		if l.ID == id {
			return l, true
		}
	}
	return LessonSheet{}, false
}
