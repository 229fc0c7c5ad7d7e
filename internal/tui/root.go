package tui

import (
	"github.com/MKhiriev/go-pantry-keeper/models"
	tea "github.com/charmbracelet/bubbletea"
)

// NavigateTo switches the authentication flow to another page.
type NavigateTo struct {
	Page string
}

// RootModel hosts the authentication pages and routes messages to the
// active one. It terminates the program once a page reports a successful
// authentication.
type RootModel struct {
	pages   map[string]tea.Model
	current string

	session    models.Session
	quitByUser bool
}

func NewRootModel(pages map[string]tea.Model, start string) RootModel {
	return RootModel{pages: pages, current: start}
}

func (m RootModel) Init() tea.Cmd {
	if page, ok := m.pages[m.current]; ok {
		return page.Init()
	}
	return nil
}

func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case NavigateTo:
		if _, ok := m.pages[msg.Page]; ok {
			m.current = msg.Page
			return m, m.pages[m.current].Init()
		}
		return m, nil

	case authDoneMsg:
		if msg.err == nil {
			m.session = msg.session
			return m, tea.Quit
		}
		// errors are rendered by the page that produced them

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || (m.current == "menu" && msg.String() == "q") {
			m.quitByUser = true
			return m, tea.Quit
		}
	}

	page, ok := m.pages[m.current]
	if !ok {
		return m, nil
	}

	updated, cmd := page.Update(msg)
	m.pages[m.current] = updated
	return m, cmd
}

func (m RootModel) View() string {
	page, ok := m.pages[m.current]
	if !ok {
		return ""
	}
	return appStyle.Render(page.View())
}
