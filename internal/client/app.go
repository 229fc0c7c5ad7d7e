package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-pantry-keeper/internal/logger"
	"github.com/MKhiriev/go-pantry-keeper/internal/projection"
	"github.com/MKhiriev/go-pantry-keeper/internal/tui"
	"github.com/MKhiriev/go-pantry-keeper/internal/workers"
)

// App ties the terminal UI, the projection controller and the
// subscription keep-alive job into one client process.
type App struct {
	controller *projection.Controller
	job        *projection.ResubscribeJob
	tui        *tui.TUI
	logger     *logger.Logger
}

func NewApp(controller *projection.Controller, job *projection.ResubscribeJob, ui *tui.TUI, logger *logger.Logger) (*App, error) {
	if controller == nil || job == nil || ui == nil {
		return nil, errors.New("client app: missing dependency")
	}

	return &App{
		controller: controller,
		job:        job,
		tui:        ui,
		logger:     logger,
	}, nil
}

// Run drives the client lifecycle: authenticate, attach the session to the
// projection, keep the live stream open while the dashboard runs, and tear
// everything down on logout or exit. A logout returns to the login flow.
//
// Background workers run for the whole process: the resubscribe check is a
// no-op while no session is attached, so the job is launched once up front
// rather than per login.
func (a *App) Run() error {
	ctx := context.Background()
	log := a.logger.GetChildLogger()

	workers.NewWorkers(a.job).Run()
	defer a.job.Stop()

	for {
		session, err := a.tui.LoginFlow(ctx)
		if errors.Is(err, tui.ErrUserQuit) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("login flow: %w", err)
		}

		log.Info().Int64("user_id", session.UserID).Msg("session authenticated")

		if err := a.controller.AttachSession(ctx, session, ""); err != nil {
			return fmt.Errorf("attach session: %w", err)
		}

		logout, err := a.tui.MainLoop(ctx, session)

		a.controller.Teardown()

		if err != nil {
			return fmt.Errorf("main loop: %w", err)
		}
		if !logout {
			return nil
		}

		log.Info().Int64("user_id", session.UserID).Msg("user logged out")
	}
}
