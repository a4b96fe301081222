package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/skillbuilder/internal/app"
	"github.com/abhisek/skillbuilder/internal/clock"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	rt, err := openRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	rt.withGateway(cmd)
	session := rt.newSession(rt.journey)
	rt.logger.Info("app started", zap.String("session_id", session.ID()))

	return app.Run(app.Options{
		Journey: rt.journey,
		Session: session,
		Ticks:   clock.NewSource(nil, clock.DefaultInterval),
		Logger:  rt.logger,
		Splash:  true,
	})
}
