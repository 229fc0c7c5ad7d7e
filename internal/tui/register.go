package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/MKhiriev/go-pantry-keeper/internal/adapter"
	"github.com/MKhiriev/go-pantry-keeper/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// RegisterModel collects sign-up data and creates an account. A successful
// registration signs the user in immediately.
type RegisterModel struct {
	ctx           context.Context
	serverAdapter adapter.ServerAdapter

	inputs  []textinput.Model
	focus   int
	waiting bool
	errMsg  string
}

func NewRegisterModel(ctx context.Context, serverAdapter adapter.ServerAdapter) *RegisterModel {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 128
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password (8+ characters)"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	firstName := textinput.New()
	firstName.Placeholder = "first name"
	firstName.CharLimit = 64

	lastName := textinput.New()
	lastName.Placeholder = "last name"
	lastName.CharLimit = 64

	return &RegisterModel{
		ctx:           ctx,
		serverAdapter: serverAdapter,
		inputs:        []textinput.Model{email, password, firstName, lastName},
	}
}

func (m *RegisterModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *RegisterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case authDoneMsg:
		m.waiting = false
		if msg.err != nil {
			m.errMsg = registerErrorText(msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		if m.waiting {
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.esc):
			return m, func() tea.Msg { return NavigateTo{Page: "menu"} }
		case key.Matches(msg, keys.tab), key.Matches(msg, keys.down):
			m.setFocus((m.focus + 1) % len(m.inputs))
			return m, nil
		case key.Matches(msg, keys.backtab), key.Matches(msg, keys.up):
			m.setFocus((m.focus + len(m.inputs) - 1) % len(m.inputs))
			return m, nil
		case key.Matches(msg, keys.enter):
			if m.focus < len(m.inputs)-1 {
				m.setFocus(m.focus + 1)
				return m, nil
			}
			return m, m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *RegisterModel) submit() tea.Cmd {
	user := models.User{
		Email:     strings.TrimSpace(m.inputs[0].Value()),
		Password:  m.inputs[1].Value(),
		FirstName: strings.TrimSpace(m.inputs[2].Value()),
		LastName:  strings.TrimSpace(m.inputs[3].Value()),
	}
	if user.Email == "" || user.Password == "" {
		m.errMsg = "email and password are required"
		return nil
	}

	m.errMsg = ""
	m.waiting = true

	ctx := m.ctx
	serverAdapter := m.serverAdapter
	return func() tea.Msg {
		created, err := serverAdapter.Register(ctx, user)
		if err != nil {
			return authDoneMsg{err: err}
		}
		return authDoneMsg{session: models.Session{UserID: created.UserID, Authenticated: true}}
	}
}

func (m *RegisterModel) setFocus(idx int) {
	m.inputs[m.focus].Blur()
	m.focus = idx
	m.inputs[m.focus].Focus()
}

func (m *RegisterModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Create account"))
	b.WriteString("\n\n")

	labels := []string{"Email", "Password", "First name", "Last name"}
	for i, in := range m.inputs {
		b.WriteString(labels[i])
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n\n")
	}

	if m.waiting {
		b.WriteString(helpStyle.Render("creating account..."))
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab next field · enter submit · esc back"))
	return b.String()
}

func registerErrorText(err error) string {
	switch {
	case errors.Is(err, adapter.ErrConflict):
		return "an account with that email already exists"
	case errors.Is(err, adapter.ErrBadRequest):
		return "invalid email or password (8+ characters required)"
	default:
		return "server unavailable, try again later"
	}
}
