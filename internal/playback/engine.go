// Package playback simulates playing a daily audio pack.
//
// The Engine is a plain state machine with no timers of its own. The caller
// owns the clock and calls Tick once per interval while Playing; see the
// pack screen for the subscription lifecycle.
package playback

import "fmt"

// ErrOutOfRangeIndex is returned by SelectItem for an index outside the pack.
type ErrOutOfRangeIndex struct {
	Index int
	Count int
}

func (e *ErrOutOfRangeIndex) Error() string {
	return fmt.Sprintf("item index %d out of range [0,%d)", e.Index, e.Count)
}

// Status is the engine's position in the playback state machine.
type Status int

const (
	StatusStopped Status = iota
	StatusPlaying
	StatusPaused
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusStopped:
		return "stopped"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// TickEvent describes what a single Tick did.
type TickEvent int

const (
	// TickIgnored means the engine was not playing.
	TickIgnored TickEvent = iota
	// TickProgressed means elapsed time moved forward within the item.
	TickProgressed
	// TickAdvanced means the current item finished and the next one started.
	TickAdvanced
	// TickCompleted means the last item finished and playback stopped.
	TickCompleted
)

// State is a copy of the engine's observable state.
type State struct {
	CurrentIndex int
	ElapsedSec   int
	IsPlaying    bool
}

// Engine advances elapsed time through a pack's items.
//
// Invariants: CurrentIndex is always a valid index into the pack and
// ElapsedSec never exceeds the current item's duration.
type Engine struct {
	pack      DailyAudioPack
	index     int
	elapsed   int
	playing   bool
	completed bool
	// started is set by the first Play or SelectItem. Until then the
	// engine is Stopped whatever the elapsed time.
	started bool
}

// NewEngine creates a stopped engine positioned at the first item.
// The pack must be non-empty.
func NewEngine(pack DailyAudioPack) (*Engine, error) {
	if len(pack.Items) == 0 {
		return nil, fmt.Errorf("pack %s: no items", pack.ID)
	}
	return &Engine{pack: pack}, nil
}

// Pack returns the pack being played.
func (e *Engine) Pack() DailyAudioPack {
	return e.pack
}

// Len returns the number of items in the pack.
func (e *Engine) Len() int {
	return len(e.pack.Items)
}

// Current returns the item at the current index.
func (e *Engine) Current() AudioItem {
	return e.pack.Items[e.index]
}

// State returns a snapshot of the playback state.
func (e *Engine) State() State {
	return State{
		CurrentIndex: e.index,
		ElapsedSec:   e.elapsed,
		IsPlaying:    e.playing,
	}
}

// Status derives the state machine position.
func (e *Engine) Status() Status {
	switch {
	case e.playing:
		return StatusPlaying
	case e.completed:
		return StatusCompleted
	case !e.started:
		return StatusStopped
	default:
		return StatusPaused
	}
}

// Play resumes playback. No-op when already playing.
func (e *Engine) Play() {
	if e.playing {
		return
	}
	e.playing = true
	e.started = true
	e.completed = false
}

// Pause halts playback. No-op when already paused.
func (e *Engine) Pause() {
	e.playing = false
}

// Toggle flips between Play and Pause and reports the new playing flag.
func (e *Engine) Toggle() bool {
	if e.playing {
		e.Pause()
	} else {
		e.Play()
	}
	return e.playing
}

// SeekRelative moves elapsed time by deltaSec, clamped to the current
// item's bounds. The playing flag is untouched.
func (e *Engine) SeekRelative(deltaSec int) {
	dur := e.duration()
	// Compare against the remaining room so huge deltas cannot overflow.
	var next int
	switch {
	case deltaSec >= dur-e.elapsed:
		next = dur
	case deltaSec <= -e.elapsed:
		next = 0
	default:
		next = e.elapsed + deltaSec
	}
	if next != e.elapsed {
		e.completed = false
	}
	e.elapsed = next
}

// SelectItem jumps to the item at index and starts playing it from the
// beginning. An invalid index leaves the state unchanged.
func (e *Engine) SelectItem(index int) error {
	if index < 0 || index >= len(e.pack.Items) {
		return &ErrOutOfRangeIndex{Index: index, Count: len(e.pack.Items)}
	}
	e.index = index
	e.elapsed = 0
	e.playing = true
	e.started = true
	e.completed = false
	return nil
}

// Tick advances playback by one second.
//
// Reaching the end of an item moves on to the next one with elapsed reset
// to zero. Reaching the end of the last item clamps elapsed to its duration
// and stops playback.
func (e *Engine) Tick() TickEvent {
	if !e.playing {
		return TickIgnored
	}

	dur := e.duration()
	next := e.elapsed + 1
	if next < dur {
		e.elapsed = next
		return TickProgressed
	}

	if e.index == len(e.pack.Items)-1 {
		e.elapsed = dur
		e.playing = false
		e.completed = true
		return TickCompleted
	}

	e.index++
	e.elapsed = 0
	return TickAdvanced
}

// ProgressFraction returns elapsed/duration in [0,1], or 0 for a
// zero-length item.
func (e *Engine) ProgressFraction() float64 {
	dur := e.duration()
	if dur <= 0 {
		return 0
	}
	f := float64(e.elapsed) / float64(dur)
	if f > 1 {
		return 1
	}
	return f
}

func (e *Engine) duration() int {
	d := e.pack.Items[e.index].DurationSec
	if d < 0 {
		return 0
	}
	return d
}
