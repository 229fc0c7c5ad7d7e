// Package tui implements the interactive terminal client.
//
// The authentication flow and the pantry dashboard are separate Bubble Tea
// programs: LoginFlow produces an authenticated session, MainLoop renders
// the live projection owned by the controller until the user logs out or
// quits.
package tui

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-pantry-keeper/internal/adapter"
	"github.com/MKhiriev/go-pantry-keeper/internal/logger"
	"github.com/MKhiriev/go-pantry-keeper/internal/projection"
	"github.com/MKhiriev/go-pantry-keeper/models"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrUserQuit reports that the user left the program from the
// authentication flow.
var ErrUserQuit = errors.New("user quit")

type TUI struct {
	controller    *projection.Controller
	serverAdapter adapter.ServerAdapter
	logger        *logger.Logger
}

func New(controller *projection.Controller, serverAdapter adapter.ServerAdapter, logger *logger.Logger) (*TUI, error) {
	return &TUI{
		controller:    controller,
		serverAdapter: serverAdapter,
		logger:        logger,
	}, nil
}

// LoginFlow runs the menu/login/register screens until the user is
// authenticated or quits. On success it returns the authenticated session.
func (t *TUI) LoginFlow(ctx context.Context) (models.Session, error) {
	pages := map[string]tea.Model{
		"menu":     NewMenuModel(),
		"login":    NewLoginModel(ctx, t.serverAdapter),
		"register": NewRegisterModel(ctx, t.serverAdapter),
	}

	root := NewRootModel(pages, "menu")
	finalModel, runErr := tea.NewProgram(root, tea.WithAltScreen()).Run()
	if runErr != nil {
		return models.Session{}, runErr
	}

	result, ok := finalModel.(RootModel)
	if !ok {
		return models.Session{}, tea.ErrProgramKilled
	}
	if result.quitByUser {
		return models.Session{}, ErrUserQuit
	}

	return result.session, nil
}

// MainLoop runs the pantry dashboard for the attached session. It returns
// logout == true when the user signed out (as opposed to quitting).
func (t *TUI) MainLoop(ctx context.Context, session models.Session) (logout bool, err error) {
	model := newDashboardModel(ctx, t.controller, t.serverAdapter, session)
	finalModel, runErr := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if runErr != nil {
		return false, runErr
	}

	result, ok := finalModel.(dashboardModel)
	if !ok {
		return false, tea.ErrProgramKilled
	}
	return result.logout, nil
}
