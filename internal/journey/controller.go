// Package journey owns the learner's position in the app: the current
// screen, the active goal and per-goal progress. It is the single source
// of the context snapshot the assistant sends with every request.
package journey

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/skillbuilder/internal/assistant"
	"github.com/abhisek/skillbuilder/internal/content"
	"github.com/abhisek/skillbuilder/internal/playback"
	"github.com/abhisek/skillbuilder/internal/store"
)

// Screen names the journey screen currently mounted.
type Screen string

const (
	ScreenGoalSelection Screen = "GoalSelection"
	ScreenProgress      Screen = "Progress"
	ScreenDailyPack     Screen = "DailyPack"
	ScreenLessonSheet   Screen = "LessonSheet"
)

const (
	snapshotVersion = 1
	snapshotsKept   = 20

	// percentPerDay is how much one completed day adds to a goal.
	percentPerDay = 0.05
)

// ErrUnknownGoal is returned when a goal ID is not in the catalog.
type ErrUnknownGoal struct {
	GoalID string
}

func (e *ErrUnknownGoal) Error() string {
	return fmt.Sprintf("unknown goal %q", e.GoalID)
}

// Progress is the learner's standing on one goal.
type Progress struct {
	DaysCompleted int
	Streak        int
	Percent       float64
}

// DayNumber is the day the learner is working on next.
func (p Progress) DayNumber() int {
	return p.DaysCompleted + 1
}

// PackRecorder persists pack events.
type PackRecorder interface {
	AppendPackEvent(ctx context.Context, data store.PackEventData) error
}

// Controller tracks the journey. All methods are safe for concurrent use.
type Controller struct {
	catalog   *content.Catalog
	snapshots store.SnapshotRepo
	events    PackRecorder
	logger    *zap.Logger

	mu       sync.RWMutex
	screen   Screen
	goalID   string
	progress map[string]Progress
}

// Option configures a Controller.
type Option func(*Controller)

// WithSnapshots persists progress to repo after every change.
func WithSnapshots(repo store.SnapshotRepo) Option {
	return func(c *Controller) { c.snapshots = repo }
}

// WithPackRecorder records completed days to rec.
func WithPackRecorder(rec PackRecorder) Option {
	return func(c *Controller) { c.events = rec }
}

// WithLogger sets the controller logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewController starts a journey on the goal selection screen.
func NewController(catalog *content.Catalog, opts ...Option) *Controller {
	c := &Controller{
		catalog:  catalog,
		logger:   zap.NewNop(),
		screen:   ScreenGoalSelection,
		progress: make(map[string]Progress),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Restore loads the latest persisted progress. With an active goal the
// journey resumes on the progress screen.
func (c *Controller) Restore(ctx context.Context) error {
	if c.snapshots == nil {
		return nil
	}
	snap, err := c.snapshots.Latest(ctx)
	if err != nil {
		return fmt.Errorf("load progress snapshot: %w", err)
	}
	if snap == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for id, gp := range snap.Data.Goals {
		if _, ok := c.catalog.Goal(id); !ok {
			continue
		}
		c.progress[id] = Progress{DaysCompleted: gp.DaysCompleted, Streak: gp.Streak, Percent: gp.Percent}
	}
	if _, ok := c.catalog.Goal(snap.Data.ActiveGoalID); ok {
		c.goalID = snap.Data.ActiveGoalID
		c.screen = ScreenProgress
	}
	c.logger.Debug("journey restored",
		zap.String("goal_id", c.goalID),
		zap.Int("goals", len(c.progress)),
	)
	return nil
}

// Catalog returns the content catalog.
func (c *Controller) Catalog() *content.Catalog {
	return c.catalog
}

// Screen returns the current screen.
func (c *Controller) Screen() Screen {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.screen
}

// SetScreen records which screen is mounted.
func (c *Controller) SetScreen(s Screen) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.screen = s
}

// SelectGoal makes goalID the active goal and moves to the progress
// screen. A goal picked for the first time starts from the catalog's
// seed progress.
func (c *Controller) SelectGoal(ctx context.Context, goalID string) error {
	if _, ok := c.catalog.Goal(goalID); !ok {
		return &ErrUnknownGoal{GoalID: goalID}
	}

	c.mu.Lock()
	c.goalID = goalID
	c.screen = ScreenProgress
	if _, ok := c.progress[goalID]; !ok {
		seed := c.catalog.Progress
		c.progress[goalID] = Progress{DaysCompleted: seed.DaysCompleted, Streak: seed.Streak, Percent: seed.PercentComplete}
	}
	data := c.snapshotDataLocked()
	c.mu.Unlock()

	c.logger.Info("goal selected", zap.String("goal_id", goalID))
	return c.save(ctx, data)
}

// ClearGoal drops the active goal and returns to goal selection. Progress
// on the goal is kept.
func (c *Controller) ClearGoal(ctx context.Context) error {
	c.mu.Lock()
	c.goalID = ""
	c.screen = ScreenGoalSelection
	data := c.snapshotDataLocked()
	c.mu.Unlock()

	return c.save(ctx, data)
}

// Reset forgets all progress and the active goal, then persists the empty
// state so the next launch starts fresh.
func (c *Controller) Reset(ctx context.Context) error {
	c.mu.Lock()
	c.goalID = ""
	c.screen = ScreenGoalSelection
	c.progress = make(map[string]Progress)
	data := c.snapshotDataLocked()
	c.mu.Unlock()

	c.logger.Info("journey reset")
	return c.save(ctx, data)
}

// GoalProgress returns the progress recorded for goalID, if any.
func (c *Controller) GoalProgress(goalID string) (Progress, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.progress[goalID]
	return p, ok
}

// ActiveGoal returns the selected goal, if any.
func (c *Controller) ActiveGoal() (content.Goal, bool) {
	c.mu.RLock()
	id := c.goalID
	c.mu.RUnlock()
	if id == "" {
		return content.Goal{}, false
	}
	return c.catalog.Goal(id)
}

// Progress returns the active goal's progress, or the zero value.
func (c *Controller) Progress() Progress {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.progress[c.goalID]
}

// DayNumber is the active goal's next day.
func (c *Controller) DayNumber() int {
	return c.Progress().DayNumber()
}

// Pack returns today's pack for the active goal.
func (c *Controller) Pack() playback.DailyAudioPack {
	c.mu.RLock()
	goalID, day := c.goalID, c.progress[c.goalID].DayNumber()
	c.mu.RUnlock()
	return c.catalog.PackFor(goalID, day)
}

// Lesson returns the lesson sheet attached to today's pack.
func (c *Controller) Lesson() (content.LessonSheet, bool) {
	return c.catalog.Lesson(c.Pack().LessonSheetID)
}

// CompleteDay marks today's pack done for the active goal and moves to the
// lesson recap. Days and streak go up by one and percent by 0.05, capped
// at 1. The in-memory progress is updated even when persisting fails.
func (c *Controller) CompleteDay(ctx context.Context, itemsPlayed int) (Progress, error) {
	pack := c.Pack()

	c.mu.Lock()
	if c.goalID == "" {
		c.mu.Unlock()
		return Progress{}, fmt.Errorf("complete day: no active goal")
	}
	goalID := c.goalID
	prev := c.progress[goalID]
	next := Progress{
		DaysCompleted: prev.DaysCompleted + 1,
		Streak:        prev.Streak + 1,
		Percent:       math.Min(1, roundPercent(prev.Percent+percentPerDay)),
	}
	c.progress[goalID] = next
	c.screen = ScreenLessonSheet
	data := c.snapshotDataLocked()
	c.mu.Unlock()

	c.logger.Info("day completed",
		zap.String("goal_id", goalID),
		zap.String("pack_id", pack.ID),
		zap.Int("day", prev.DayNumber()),
		zap.Int("items_played", itemsPlayed),
	)

	var recordErr error
	if c.events != nil {
		err := c.events.AppendPackEvent(ctx, store.PackEventData{
			GoalID:      goalID,
			PackID:      pack.ID,
			DayNumber:   prev.DayNumber(),
			Action:      store.PackActionCompleted,
			ItemsPlayed: itemsPlayed,
		})
		if err != nil {
			recordErr = fmt.Errorf("record pack event: %w", err)
		}
	}
	return next, errors.Join(recordErr, c.save(ctx, data))
}

// Snapshot builds a fresh context snapshot. The returned value shares no
// memory with the controller.
func (c *Controller) Snapshot() assistant.ContextSnapshot {
	c.mu.RLock()
	screen, goalID, day := c.screen, c.goalID, c.progress[c.goalID].DayNumber()
	c.mu.RUnlock()

	snap := assistant.ContextSnapshot{
		Screen:    string(screen),
		DayNumber: day,
		Topics:    []string{},
	}
	if goal, ok := c.catalog.Goal(goalID); ok {
		title := goal.Title
		snap.GoalTitle = &title
		snap.Topics = slices.Clone(goal.Topics)
	}
	return snap
}

func (c *Controller) snapshotDataLocked() store.SnapshotData {
	goals := make(map[string]store.GoalProgress, len(c.progress))
	for id, p := range c.progress {
		goals[id] = store.GoalProgress{DaysCompleted: p.DaysCompleted, Streak: p.Streak, Percent: p.Percent}
	}
	return store.SnapshotData{
		Version:      snapshotVersion,
		ActiveGoalID: c.goalID,
		Goals:        goals,
	}
}

func (c *Controller) save(ctx context.Context, data store.SnapshotData) error {
	if c.snapshots == nil {
		return nil
	}
	snap := &store.Snapshot{Timestamp: time.Now(), Data: data}
	if err := c.snapshots.Save(ctx, snap); err != nil {
		return fmt.Errorf("save progress snapshot: %w", err)
	}
	if err := c.snapshots.Prune(ctx, snapshotsKept); err != nil {
		c.logger.Warn("failed to prune progress snapshots", zap.Error(err))
	}
	return nil
}

// roundPercent trims float noise so repeated 0.05 steps land on 1 exactly.
func roundPercent(p float64) float64 {
	return math.Round(p*1e6) / 1e6
}

// Mounted is implemented by screens that belong to the journey. The app
// reports the mounted screen to the controller after every update.
type Mounted interface {
	JourneyScreen() Screen
}
