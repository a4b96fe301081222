// Package screens holds what every journey screen needs to build the
// next one.
package screens

import (
	"go.uber.org/zap"

	"github.com/abhisek/skillbuilder/internal/clock"
	"github.com/abhisek/skillbuilder/internal/journey"
)

// Deps is passed down the screen stack.
type Deps struct {
	Journey *journey.Controller
	Ticks   *clock.Source
	Logger  *zap.Logger
}

// Log returns the logger, or a no-op logger when unset.
func (d Deps) Log() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}
