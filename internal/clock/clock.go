// Package clock supplies fixed-interval tick subscriptions.
//
// A Subscription is a scoped handle: whoever starts one owns it and must
// Cancel it when the consumer goes away. Cancel stops the underlying ticker
// and wakes any goroutine blocked in Next, so a cancelled subscription never
// delivers another tick and never leaks a waiting goroutine.
package clock

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
)

// DefaultInterval is one second of simulated audio per tick.
const DefaultInterval = time.Second

// Source hands out tick subscriptions at a fixed interval.
type Source struct {
	clk      clock.Clock
	interval time.Duration
	nextID   atomic.Uint64
}

// NewSource creates a Source backed by clk. A nil clk uses the wall clock.
func NewSource(clk clock.Clock, interval time.Duration) *Source {
	if clk == nil {
		clk = clock.New()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Source{clk: clk, interval: interval}
}

// Interval returns the tick interval.
func (s *Source) Interval() time.Duration {
	return s.interval
}

// Subscribe starts a new ticker. Every call returns a distinct ID.
func (s *Source) Subscribe() *Subscription {
	return &Subscription{
		id:     s.nextID.Add(1),
		ticker: s.clk.Ticker(s.interval),
		done:   make(chan struct{}),
	}
}

// Subscription is a live ticker owned by a single consumer.
type Subscription struct {
	id     uint64
	ticker *clock.Ticker
	done   chan struct{}
	once   sync.Once
}

// ID identifies this subscription. Tick messages carry it so that a
// consumer can drop ticks from a subscription it has already released.
func (s *Subscription) ID() uint64 {
	return s.id
}

// Next blocks until the next tick. It returns false once the subscription
// has been cancelled.
func (s *Subscription) Next() (time.Time, bool) {
	select {
	case <-s.done:
		return time.Time{}, false
	default:
	}
	select {
	case t := <-s.ticker.C:
		select {
		case <-s.done:
			return time.Time{}, false
		default:
			return t, true
		}
	case <-s.done:
		return time.Time{}, false
	}
}

// Cancel stops the ticker. Safe to call more than once.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.ticker.Stop()
		close(s.done)
	})
}

// Cancelled reports whether Cancel has been called.
func (s *Subscription) Cancelled() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}
