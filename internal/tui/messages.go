package tui

import "github.com/MKhiriev/go-pantry-keeper/models"

// authDoneMsg ends an async login or register command.
type authDoneMsg struct {
	session models.Session
	err     error
}

// projectionChangedMsg is emitted every time the controller signals that
// the projection changed; the dashboard re-reads the item set.
type projectionChangedMsg struct{}

type createDoneMsg struct {
	err error
}

type updateDoneMsg struct {
	err error
}

type deleteDoneMsg struct {
	err error
}

type profileLoadedMsg struct {
	profile models.Profile
	err     error
}

type profileSavedMsg struct {
	profile models.Profile
	err     error
}
